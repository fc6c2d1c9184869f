package schema

import "encoding/json"

// Template is the declarative description of a resume type. It is treated as
// immutable once Normalize has accepted it.
type Template struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Theme       string          `json:"theme,omitempty" yaml:"theme,omitempty"`
	Sections    []SectionSchema `json:"sections" yaml:"sections"`
}

// SectionSchema describes one group of fields. Kind is resolved from ID during
// normalisation and never changes afterwards.
type SectionSchema struct {
	ID         string        `json:"id" yaml:"id"`
	Name       string        `json:"name" yaml:"name"`
	Required   bool          `json:"required,omitempty" yaml:"required,omitempty"`
	Repeatable bool          `json:"repeatable,omitempty" yaml:"repeatable,omitempty"`
	Fields     []FieldSchema `json:"fields" yaml:"fields"`
	Kind       SectionKind   `json:"-" yaml:"-"`
}

// FieldSchema describes a single input within a section.
type FieldSchema struct {
	Name        string    `json:"name" yaml:"name"`
	Label       string    `json:"label" yaml:"label"`
	Kind        FieldKind `json:"type" yaml:"type"`
	Required    bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     []Option  `json:"options,omitempty" yaml:"options,omitempty"`
}

// Option is a selectable value for select fields.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// FieldKind enumerates the supported input kinds. Unknown kinds behave like
// FieldText.
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldEmail    FieldKind = "email"
	FieldTel      FieldKind = "tel"
	FieldURL      FieldKind = "url"
	FieldDate     FieldKind = "date"
	FieldMonth    FieldKind = "month"
	FieldTextarea FieldKind = "textarea"
	FieldSelect   FieldKind = "select"
	FieldCheckbox FieldKind = "checkbox"
)

// IsBoolean reports whether values for this kind are stored as bool.
func (k FieldKind) IsBoolean() bool {
	return k == FieldCheckbox
}

// IsMultiline reports whether the kind accepts embedded line breaks.
func (k FieldKind) IsMultiline() bool {
	return k == FieldTextarea
}

// Section returns the schema for id.
func (t *Template) Section(id string) (*SectionSchema, bool) {
	if t == nil {
		return nil, false
	}
	for i := range t.Sections {
		if t.Sections[i].ID == id {
			return &t.Sections[i], true
		}
	}
	return nil, false
}

// HasSection reports whether the template declares a section with id.
func (t *Template) HasSection(id string) bool {
	_, ok := t.Section(id)
	return ok
}

// Field returns the field schema named name.
func (s *SectionSchema) Field(name string) (*FieldSchema, bool) {
	if s == nil {
		return nil, false
	}
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i], true
		}
	}
	return nil, false
}

// FieldNames returns the declared field names in template order.
func (s *SectionSchema) FieldNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		names = append(names, field.Name)
	}
	return names
}

// Clone returns a deep copy of the template.
func (t *Template) Clone() *Template {
	if t == nil {
		return nil
	}
	out := *t
	if t.Sections != nil {
		out.Sections = make([]SectionSchema, len(t.Sections))
		for i, section := range t.Sections {
			out.Sections[i] = section
			if section.Fields != nil {
				fields := make([]FieldSchema, len(section.Fields))
				for j, field := range section.Fields {
					fields[j] = field
					if field.Options != nil {
						fields[j].Options = append([]Option(nil), field.Options...)
					}
				}
				out.Sections[i].Fields = fields
			}
		}
	}
	return &out
}

// UnmarshalJSON accepts "kind" as an alias for the "type" key.
func (f *FieldSchema) UnmarshalJSON(data []byte) error {
	type plain FieldSchema
	var aux struct {
		plain
		Alias FieldKind `json:"kind"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*f = FieldSchema(aux.plain)
	if f.Kind == "" {
		f.Kind = aux.Alias
	}
	return nil
}

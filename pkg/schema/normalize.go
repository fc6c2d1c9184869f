package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNilTemplate is returned when a nil template is normalised.
	ErrNilTemplate = errors.New("schema: template is nil")
	// ErrMissingTemplateID is returned when a template has no id.
	ErrMissingTemplateID = errors.New("schema: template id is required")
	// ErrMissingSectionID is returned when a section has no id.
	ErrMissingSectionID = errors.New("schema: section id is required")
	// ErrDuplicateSection is returned when two sections share an id.
	ErrDuplicateSection = errors.New("schema: duplicate section id")
	// ErrMissingFieldName is returned when a field has no name.
	ErrMissingFieldName = errors.New("schema: field name is required")
	// ErrDuplicateField is returned when two fields in a section share a name.
	ErrDuplicateField = errors.New("schema: duplicate field name")
	// ErrAmbiguousSection is returned when one section id extends another
	// with an underscore, so their element ids could collide.
	ErrAmbiguousSection = errors.New("schema: ambiguous section id")
)

// Normalize validates the structural requirements of a template, including
// that element ids stay unique across sections, and fills in derived values
// in place: section kinds, default section names, default
// field labels and the default field kind. A nil Sections slice is accepted
// and means zero sections.
func Normalize(t *Template) error {
	if t == nil {
		return ErrNilTemplate
	}
	t.ID = strings.TrimSpace(t.ID)
	if t.ID == "" {
		return ErrMissingTemplateID
	}
	if strings.TrimSpace(t.Name) == "" {
		t.Name = Humanize(t.ID)
	}

	seenSections := make(map[string]struct{}, len(t.Sections))
	for i := range t.Sections {
		section := &t.Sections[i]
		section.ID = strings.TrimSpace(section.ID)
		if section.ID == "" {
			return fmt.Errorf("%w (section #%d)", ErrMissingSectionID, i+1)
		}
		if _, dup := seenSections[section.ID]; dup {
			return fmt.Errorf("%w %q", ErrDuplicateSection, section.ID)
		}
		seenSections[section.ID] = struct{}{}

		if strings.TrimSpace(section.Name) == "" {
			section.Name = Humanize(section.ID)
		}

		seenFields := make(map[string]struct{}, len(section.Fields))
		for j := range section.Fields {
			field := &section.Fields[j]
			field.Name = strings.TrimSpace(field.Name)
			if field.Name == "" {
				return fmt.Errorf("%w (section %q, field #%d)", ErrMissingFieldName, section.ID, j+1)
			}
			if _, dup := seenFields[field.Name]; dup {
				return fmt.Errorf("%w %q in section %q", ErrDuplicateField, field.Name, section.ID)
			}
			seenFields[field.Name] = struct{}{}

			field.Kind = FieldKind(strings.ToLower(strings.TrimSpace(string(field.Kind))))
			if field.Kind == "" {
				field.Kind = FieldText
			}
			if strings.TrimSpace(field.Label) == "" {
				field.Label = Humanize(field.Name)
			}
		}
	}
	if err := checkElementIDs(t.Sections); err != nil {
		return err
	}
	ResolveKinds(t)
	return nil
}

// checkElementIDs rejects section ids where one is another plus "_" and a
// suffix. Element ids join section, item and field with underscores, so only
// such pairs can format to the same id.
func checkElementIDs(sections []SectionSchema) error {
	for i := range sections {
		for j := range sections {
			if i == j {
				continue
			}
			short, long := sections[i].ID, sections[j].ID
			if strings.HasPrefix(long, short+"_") {
				return fmt.Errorf("%w %q: overlaps section %q", ErrAmbiguousSection, long, short)
			}
		}
	}
	return nil
}

package form

import (
	"fmt"

	"github.com/goliatone/go-resumegen/pkg/formdata"
	"github.com/goliatone/go-resumegen/pkg/schema"
)

// Control is the UI-facing description of a single input.
type Control struct {
	Key         formdata.Key
	ID          string
	Label       string
	Kind        schema.FieldKind
	Required    bool
	Placeholder string
	Options     []schema.Option
	Value       any
}

// Text returns the control value as text.
func (c *Control) Text() string {
	return formdata.Text(c.Value)
}

// Checked reports whether a checkbox control is set.
func (c *Control) Checked() bool {
	v, _ := c.Value.(bool)
	return v
}

// ItemState is one instance of a repeatable section.
type ItemState struct {
	Index     int
	Title     string
	Removable bool
	Controls  []*Control

	fields formdata.Fields
}

// SectionState is the runtime state of one template section. Items is nil for
// non-repeatable sections, which use Controls directly.
type SectionState struct {
	Schema   schema.SectionSchema
	Expanded bool
	Controls []*Control
	Items    []*ItemState
}

// Repeatable reports whether the section holds items.
func (s *SectionState) Repeatable() bool {
	return s.Schema.Repeatable
}

// AddLabel is the caption of the add-item control.
func (s *SectionState) AddLabel() string {
	return "+ Add " + s.Schema.Name
}

// ToggleGlyph is the collapse indicator for the current expanded state.
func (s *SectionState) ToggleGlyph() string {
	if s.Expanded {
		return "▼"
	}
	return "▶"
}

// Control looks up a non-repeatable control by field name.
func (s *SectionState) Control(field string) *Control {
	return findControl(s.Controls, field)
}

// Control looks up an item control by field name.
func (it *ItemState) Control(field string) *Control {
	return findControl(it.Controls, field)
}

func findControl(controls []*Control, field string) *Control {
	for _, ctrl := range controls {
		if ctrl.Key.Field == field {
			return ctrl
		}
	}
	return nil
}

func buildControls(section schema.SectionSchema, item int) []*Control {
	controls := make([]*Control, 0, len(section.Fields))
	for _, field := range section.Fields {
		key := formdata.Key{Section: section.ID, Item: item, Field: field.Name}
		ctrl := &Control{
			Key:         key,
			ID:          key.ElementID(),
			Label:       field.Label,
			Kind:        field.Kind,
			Required:    field.Required,
			Placeholder: field.Placeholder,
			Options:     append([]schema.Option(nil), field.Options...),
		}
		ctrl.Value = defaultValue(field)
		controls = append(controls, ctrl)
	}
	return controls
}

// defaultValue is what a freshly built widget displays before data is
// written. Select widgets show their first option.
func defaultValue(field schema.FieldSchema) any {
	switch {
	case field.Kind.IsBoolean():
		return false
	case field.Kind == schema.FieldSelect && len(field.Options) > 0:
		return field.Options[0].Value
	default:
		return ""
	}
}

func newItem(section schema.SectionSchema, index int, fields formdata.Fields) *ItemState {
	item := &ItemState{
		Controls: buildControls(section, index),
		fields:   fields,
	}
	item.assignIndex(section, index)
	return item
}

// assignIndex rewrites every index-derived identifier of the item.
func (it *ItemState) assignIndex(section schema.SectionSchema, index int) {
	it.Index = index
	it.Title = fmt.Sprintf("%s %d", section.Name, index+1)
	it.Removable = index > 0
	for _, ctrl := range it.Controls {
		ctrl.Key.Item = index
		ctrl.ID = ctrl.Key.ElementID()
	}
}

func writeControls(controls []*Control, fields formdata.Fields) {
	for _, ctrl := range controls {
		if value, ok := fields[ctrl.Key.Field]; ok {
			ctrl.Value = coerce(ctrl.Kind, value)
		}
	}
}

func coerce(kind schema.FieldKind, value any) any {
	if kind.IsBoolean() {
		return formdata.Bool(value)
	}
	return formdata.Text(formdata.Normalize(value))
}

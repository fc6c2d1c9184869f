package components

import "github.com/goliatone/go-resumegen/pkg/schema"

// Canonical component names used by the default registry.
const (
	NameInput    = "input"
	NameTextarea = "textarea"
	NameSelect   = "select"
	NameCheckbox = "checkbox"
)

// ForKind maps a field kind onto the component that renders it.
func ForKind(kind schema.FieldKind) string {
	switch {
	case kind.IsBoolean():
		return NameCheckbox
	case kind.IsMultiline():
		return NameTextarea
	case kind == schema.FieldSelect:
		return NameSelect
	default:
		return NameInput
	}
}

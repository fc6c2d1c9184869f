package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-resumegen/pkg/form"
	"github.com/goliatone/go-resumegen/pkg/schema"
)

// TemplatePrefix is where the built-in component templates live inside the
// vanilla template bundle.
const TemplatePrefix = "components/"

// NewDefaultRegistry returns a registry holding the input, textarea, select
// and checkbox components. Each one renders TemplatePrefix + "<name>.tmpl".
func NewDefaultRegistry() *Registry {
	registry := New()
	for _, name := range []string{NameInput, NameTextarea, NameSelect, NameCheckbox} {
		registry.MustRegister(name, Descriptor{
			Renderer: TemplateComponent(TemplatePrefix + name + ".tmpl"),
		})
	}
	return registry
}

// TemplateComponent renders controls through a named template. The template
// receives "control" and "config". Values are escaped by the template engine.
func TemplateComponent(templateName string) Renderer {
	return func(buf *bytes.Buffer, control *form.Control, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}
		rendered, err := data.Template.RenderTemplate(templateName, map[string]any{
			"control": controlView(control),
			"config":  data.Config,
		})
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", templateName, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

func controlView(control *form.Control) map[string]any {
	kind := control.Kind
	if kind == "" {
		kind = schema.FieldText
	}
	current := control.Text()
	options := make([]map[string]any, 0, len(control.Options))
	for _, opt := range control.Options {
		label := opt.Label
		if label == "" {
			label = opt.Value
		}
		options = append(options, map[string]any{
			"value":    opt.Value,
			"label":    label,
			"selected": opt.Value == current,
		})
	}
	return map[string]any{
		"id":          control.ID,
		"label":       control.Label,
		"kind":        string(control.Kind),
		"type":        string(kind),
		"required":    control.Required,
		"placeholder": strings.TrimSpace(control.Placeholder),
		"value":       current,
		"checked":     control.Checked(),
		"options":     options,
	}
}

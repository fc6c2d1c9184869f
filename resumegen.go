// Package resumegen is the convenience entry point of the module. It exposes
// the session orchestrator and one-shot helpers for callers that only need
// markup or a printable page.
package resumegen

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-resumegen/pkg/formdata"
	"github.com/goliatone/go-resumegen/pkg/orchestrator"
	"github.com/goliatone/go-resumegen/pkg/render"
	"github.com/goliatone/go-resumegen/pkg/renderers/document"
	"github.com/goliatone/go-resumegen/pkg/renderers/markup"
	"github.com/goliatone/go-resumegen/pkg/renderers/vanilla"
	"github.com/goliatone/go-resumegen/pkg/resume"
	"github.com/goliatone/go-resumegen/pkg/schema"
	"github.com/goliatone/go-resumegen/pkg/templates"
	"github.com/goliatone/go-resumegen/pkg/themes"
)

// Template aliases schema.Template.
type Template = schema.Template

// Data aliases formdata.Data.
type Data = formdata.Data

// Snapshot aliases resume.Snapshot, the portable resume document.
type Snapshot = resume.Snapshot

// NewOrchestrator builds an editing session. Call Start before use.
func NewOrchestrator(options ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	return orchestrator.New(options...)
}

// BuiltinTemplates returns the embedded template set.
func BuiltinTemplates() (*templates.Set, error) {
	return templates.Builtin()
}

// ParseTemplates decodes a YAML or JSON template document.
func ParseTemplates(data []byte, name string) (*templates.Set, error) {
	return templates.Parse(data, name)
}

// NewTemplateLoader returns a loader for files, directories and URLs.
func NewTemplateLoader(options ...templates.Option) *templates.Loader {
	return templates.NewLoader(options...)
}

// GenerateHTML returns the resume markup for tpl and data. An unknown theme
// falls back to the default.
func GenerateHTML(tpl *Template, data Data, themeName string) string {
	return markup.Generate(tpl, data, themes.DefaultCatalog().Normalize(themeName))
}

// RenderDocument returns the standalone printable page.
func RenderDocument(ctx context.Context, tpl *Template, data Data, themeName string) ([]byte, error) {
	catalog := themes.DefaultCatalog()
	renderer, err := document.New(document.WithThemes(catalog))
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, render.Input{
		Template: tpl,
		Data:     data,
		Theme:    catalog.Normalize(themeName),
	})
}

// EmbeddedTemplates exposes the editor page templates so callers can extend
// them.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// EditorAssetsFS exposes the editor stylesheet for serving over HTTP.
func EditorAssetsFS() fs.FS {
	return vanilla.AssetsFS()
}

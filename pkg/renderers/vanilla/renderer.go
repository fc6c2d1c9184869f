// Package vanilla renders the editable resume form from Form Engine state as
// plain HTML. Every control is named after its element id so a submitted form
// maps straight back onto formdata keys.
package vanilla

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io/fs"
	"os"
	"slices"
	"strconv"

	"github.com/goliatone/go-resumegen/pkg/form"
	rendertemplate "github.com/goliatone/go-resumegen/pkg/render/template"
	"github.com/goliatone/go-resumegen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-resumegen/pkg/renderers/vanilla/components"
)

// Submit button names used by the rendered form.
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
	ActionToggle = "toggle"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	components       *components.Registry
	stylesheets      []string
}

// WithTemplatesFS supplies an alternate template bundle providing page.tmpl
// and, for the default components, components/*.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path != "" {
			cfg.templateFS = os.DirFS(path)
		}
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponents replaces the default component registry.
func WithComponents(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.components = registry
		}
	}
}

// WithStylesheets sets the stylesheet links emitted in the page head.
func WithStylesheets(hrefs ...string) Option {
	return func(cfg *config) {
		cfg.stylesheets = append([]string(nil), hrefs...)
	}
}

// Choice is one entry of the template or theme picker.
type Choice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

// Page is the data rendered by RenderPage.
type Page struct {
	Title     string
	Action    string
	Sections  []*form.SectionState
	Errors    []string
	Preview   string
	Templates []Choice
	Themes    []Choice
}

// Renderer produces the editor markup.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	components  *components.Registry
	stylesheets []string
}

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.components == nil {
		cfg.components = components.NewDefaultRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	// Component stylesheets follow the configured ones.
	stylesheets := append([]string(nil), cfg.stylesheets...)
	for _, href := range cfg.components.Stylesheets(cfg.components.Names()) {
		if !slices.Contains(stylesheets, href) {
			stylesheets = append(stylesheets, href)
		}
	}

	return &Renderer{
		templates:   renderer,
		components:  cfg.components,
		stylesheets: stylesheets,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// RenderSections renders the form sections only.
func (r *Renderer) RenderSections(sections []*form.SectionState) (string, error) {
	var buf bytes.Buffer
	for _, section := range sections {
		if err := r.writeSection(&buf, section); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// RenderPage renders the complete editor page.
func (r *Renderer) RenderPage(ctx context.Context, page Page) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	sections, err := r.RenderSections(page.Sections)
	if err != nil {
		return nil, err
	}
	title := page.Title
	if title == "" {
		title = "Resume Builder"
	}

	result, err := r.templates.RenderTemplate("page.tmpl", map[string]any{
		"title":       title,
		"action":      page.Action,
		"stylesheets": r.stylesheets,
		"errors":      page.Errors,
		"sections":    sections,
		"preview":     page.Preview,
		"templates":   choices(page.Templates),
		"themes":      choices(page.Themes),
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) writeSection(buf *bytes.Buffer, section *form.SectionState) error {
	id := section.Schema.ID
	buf.WriteString(`<div class="form-section" data-section-id="`)
	buf.WriteString(html.EscapeString(id))
	buf.WriteString(`"><div class="section-header"><h4 class="section-title">`)
	buf.WriteString(html.EscapeString(section.Schema.Name))
	buf.WriteString(`</h4><button type="submit" class="section-toggle" name="` + ActionToggle + `" value="`)
	buf.WriteString(html.EscapeString(id))
	buf.WriteString(`">`)
	buf.WriteString(section.ToggleGlyph())
	buf.WriteString(`</button></div>`)

	state := "expanded"
	if !section.Expanded {
		state = "collapsed"
	}
	buf.WriteString(`<div class="section-content ` + state + `">`)

	if !section.Repeatable() {
		if err := r.writeFields(buf, section.Controls); err != nil {
			return err
		}
		buf.WriteString(`</div></div>`)
		return nil
	}

	for _, item := range section.Items {
		buf.WriteString(`<div class="repeatable-item" data-item-index="`)
		buf.WriteString(strconv.Itoa(item.Index))
		buf.WriteString(`"><div class="item-header"><h5 class="item-title">`)
		buf.WriteString(html.EscapeString(item.Title))
		buf.WriteString(`</h5>`)
		if item.Removable {
			buf.WriteString(`<button type="submit" class="remove-item" title="Remove this item" name="` + ActionRemove + `" value="`)
			buf.WriteString(html.EscapeString(RemoveValue(id, item.Index)))
			buf.WriteString(`">×</button>`)
		}
		buf.WriteString(`</div>`)
		if err := r.writeFields(buf, item.Controls); err != nil {
			return err
		}
		buf.WriteString(`</div>`)
	}
	buf.WriteString(`<button type="submit" class="add-item" name="` + ActionAdd + `" value="`)
	buf.WriteString(html.EscapeString(id))
	buf.WriteString(`">`)
	buf.WriteString(html.EscapeString(section.AddLabel()))
	buf.WriteString(`</button></div></div>`)
	return nil
}

func (r *Renderer) writeFields(buf *bytes.Buffer, controls []*form.Control) error {
	buf.WriteString(`<div class="fields-container">`)
	data := components.ComponentData{Template: r.templates}
	for _, control := range controls {
		name := components.ForKind(control.Kind)
		descriptor, ok := r.components.Descriptor(name)
		if !ok {
			return fmt.Errorf("vanilla renderer: no component registered for %q", name)
		}
		if err := descriptor.Renderer(buf, control, data); err != nil {
			return fmt.Errorf("vanilla renderer: render %s: %w", control.ID, err)
		}
	}
	buf.WriteString(`</div>`)
	return nil
}

// RemoveValue encodes the value of an item's remove button.
func RemoveValue(sectionID string, index int) string {
	return sectionID + ":" + strconv.Itoa(index)
}

// ParseRemoveValue decodes RemoveValue output.
func ParseRemoveValue(value string) (string, int, bool) {
	for i := len(value) - 1; i >= 0; i-- {
		if value[i] != ':' {
			continue
		}
		index, err := strconv.Atoi(value[i+1:])
		if err != nil || i == 0 {
			return "", 0, false
		}
		return value[:i], index, true
	}
	return "", 0, false
}

func choices(in []Choice) []map[string]any {
	out := make([]map[string]any, 0, len(in))
	for _, c := range in {
		out = append(out, map[string]any{"id": c.ID, "name": c.Name, "selected": c.Selected})
	}
	return out
}

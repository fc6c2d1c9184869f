// Package document renders a printable HTML page around the resume markup,
// styled with the custom properties of the selected theme.
package document

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/goliatone/go-resumegen/pkg/render"
	rendertemplate "github.com/goliatone/go-resumegen/pkg/render/template"
	"github.com/goliatone/go-resumegen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-resumegen/pkg/renderers/markup"
	"github.com/goliatone/go-resumegen/pkg/resume"
	"github.com/goliatone/go-resumegen/pkg/themes"
)

// Name is the registry name of the document renderer.
const Name = "document"

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded page templates.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// Page describes the paper the document is laid out for.
type Page struct {
	Size     string // CSS page size, e.g. "A4" or "letter landscape"
	MarginMm float64
}

// DefaultPage is A4 portrait with a 10mm margin.
var DefaultPage = Page{Size: "A4", MarginMm: 10}

type Option func(*config)

type config struct {
	templateFS fs.FS
	templates  rendertemplate.TemplateRenderer
	catalog    *themes.Catalog
	variant    string
	page       Page
}

// WithTemplatesFS replaces the embedded template bundle. The bundle must
// provide document.tmpl.
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

// WithTemplateRenderer injects a template engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templates = renderer
		}
	}
}

// WithThemes sets the theme catalog used to resolve tokens.
func WithThemes(catalog *themes.Catalog) Option {
	return func(cfg *config) {
		if catalog != nil {
			cfg.catalog = catalog
		}
	}
}

// WithVariant selects a theme variant such as themes.PrintVariant.
func WithVariant(variant string) Option {
	return func(cfg *config) {
		cfg.variant = strings.TrimSpace(variant)
	}
}

// WithPage sets the page size and margin.
func WithPage(page Page) Option {
	return func(cfg *config) {
		cfg.page = page
	}
}

// Renderer implements render.Renderer producing a standalone HTML page.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	partial   string
	catalog   *themes.Catalog
	variant   string
	page      Page
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the document renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		catalog:    themes.DefaultCatalog(),
		page:       DefaultPage,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	engine := cfg.templates
	if engine == nil {
		built, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("document renderer: configure template renderer: %w", err)
		}
		engine = built
	}

	return &Renderer{
		templates: engine,
		partial:   "document.tmpl",
		catalog:   cfg.catalog,
		variant:   cfg.variant,
		page:      cfg.page,
	}, nil
}

func (r *Renderer) Name() string        { return Name }
func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render builds the page for in. Unknown themes render with themes.Default.
func (r *Renderer) Render(ctx context.Context, in render.Input) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content := markup.Generate(in.Template, in.Data, in.Theme)
	return r.Wrap(ctx, content, in.Theme, title(in))
}

// Wrap places already generated markup into the page template.
func (r *Renderer) Wrap(ctx context.Context, content, themeName, pageTitle string) ([]byte, error) {
	return r.WrapPage(ctx, r.page, content, themeName, pageTitle)
}

// WrapPage is Wrap laid out for page instead of the configured page.
func (r *Renderer) WrapPage(ctx context.Context, page Page, content, themeName, pageTitle string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("document renderer: template renderer is nil")
	}

	cfg, err := r.catalog.Resolve(themeName, r.variant)
	if err != nil {
		return nil, fmt.Errorf("document renderer: resolve theme: %w", err)
	}
	partial := r.partial
	if override := cfg.Partials[themes.DocumentPartial]; override != "" {
		partial = override
	}
	if pageTitle == "" {
		pageTitle = "Resume"
	}

	result, err := r.templates.RenderTemplate(partial, map[string]any{
		"title":     pageTitle,
		"theme":     cfg.Theme,
		"variant":   cfg.Variant,
		"css_vars":  themes.InlineStyle(cfg.CSSVars),
		"page_size": page.Size,
		"margin":    strconv.FormatFloat(page.MarginMm, 'f', -1, 64) + "mm",
		"content":   content,
	})
	if err != nil {
		return nil, fmt.Errorf("document renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func title(in render.Input) string {
	name := resume.OwnerName(in.Data)
	if name == "" {
		return "Resume"
	}
	return name + " - Resume"
}

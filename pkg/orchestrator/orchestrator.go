package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-resumegen/pkg/autosave"
	"github.com/goliatone/go-resumegen/pkg/export"
	"github.com/goliatone/go-resumegen/pkg/form"
	"github.com/goliatone/go-resumegen/pkg/render"
	"github.com/goliatone/go-resumegen/pkg/renderers/document"
	"github.com/goliatone/go-resumegen/pkg/renderers/markup"
	"github.com/goliatone/go-resumegen/pkg/renderers/vanilla"
	"github.com/goliatone/go-resumegen/pkg/resume"
	"github.com/goliatone/go-resumegen/pkg/schema"
	"github.com/goliatone/go-resumegen/pkg/storage"
	"github.com/goliatone/go-resumegen/pkg/templates"
	"github.com/goliatone/go-resumegen/pkg/themes"
)

var (
	// ErrUnknownTemplate is returned when a template id is not in the set.
	ErrUnknownTemplate = errors.New("orchestrator: unknown template")
	// ErrNameRequired is returned when saving without a name.
	ErrNameRequired = errors.New("orchestrator: resume name is required")
	// ErrNoTemplate is returned by operations that need a selected template.
	ErrNoTemplate = errors.New("orchestrator: no template selected")
)

// Orchestrator is the application context of one editing session. All
// methods are safe for concurrent use; edits are serialised.
type Orchestrator struct {
	mu sync.Mutex

	templates *templates.Set
	catalog   *themes.Catalog
	store     *storage.Store
	exporter  export.Renderer
	registry  *render.Registry
	editor    *vanilla.Renderer
	engine    *form.Engine
	resume    *resume.Resume
	autosave  *autosave.Debouncer
	logger    *zap.Logger
	now       func() time.Time

	autoSaveDelay time.Duration
	afterFunc     autosave.AfterFunc
	settings      storage.Settings
	currentID     string
	lastSaveErr   error
}

// New builds an orchestrator. Missing collaborators get the built-in
// implementations: the embedded templates, the theme catalog, an in-memory
// store, the markup and document renderers, the form editor and a headless
// Chrome exporter.
func New(options ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		logger:        zap.NewNop(),
		now:           time.Now,
		autoSaveDelay: autosave.DefaultDelay,
		settings:      storage.DefaultSettings(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(o)
		}
	}
	if err := o.applyDefaults(); err != nil {
		return nil, err
	}

	o.resume = resume.New(resume.WithClock(o.now))
	o.engine = form.New(
		form.WithLogger(o.logger),
		form.WithChangeObserver(o.handleChange),
	)
	o.autosave = autosave.New(
		autosave.WithDelay(o.autoSaveDelay),
		autosave.WithAfterFunc(o.afterFunc),
	)
	return o, nil
}

func (o *Orchestrator) applyDefaults() error {
	if o.templates == nil {
		set, err := templates.Builtin()
		if err != nil {
			o.logger.Warn("orchestrator: built-in templates unavailable, using fallback", zap.Error(err))
			set = templates.Fallback()
		}
		o.templates = set
	}
	if o.catalog == nil {
		o.catalog = themes.DefaultCatalog()
	}
	if o.store == nil {
		o.store = storage.New(storage.NewMemory(), storage.WithLogger(o.logger))
	}
	if o.registry == nil {
		registry := render.NewRegistry()
		registry.MustRegister(markup.New())
		doc, err := document.New(document.WithThemes(o.catalog))
		if err != nil {
			return fmt.Errorf("orchestrator: document renderer: %w", err)
		}
		registry.MustRegister(doc)
		o.registry = registry
	}
	if o.editor == nil {
		editor, err := vanilla.New()
		if err != nil {
			return fmt.Errorf("orchestrator: editor renderer: %w", err)
		}
		o.editor = editor
	}
	if o.exporter == nil {
		chrome, err := export.NewChromeRenderer(export.WithLogger(o.logger))
		if err != nil {
			return fmt.Errorf("orchestrator: exporter: %w", err)
		}
		o.exporter = chrome
	}
	if _, guarded := o.exporter.(*export.Guard); !guarded {
		o.exporter = export.NewGuard(o.exporter)
	}
	return nil
}

// Start selects the preferred template and restores the working copy when
// one was saved.
func (o *Orchestrator) Start(ctx context.Context) error {
	settings := o.store.Settings(ctx)

	o.mu.Lock()
	o.settings = settings
	o.currentID = o.store.CurrentID(ctx)
	initial := o.pickTemplate(settings.DefaultTemplate)
	if err := o.selectTemplateLocked(initial, false); err != nil {
		o.mu.Unlock()
		return err
	}
	o.mu.Unlock()

	if _, err := o.LoadSavedState(ctx); err != nil {
		return err
	}
	return nil
}

func (o *Orchestrator) pickTemplate(preferred string) *schema.Template {
	if tpl, ok := o.templates.Get(preferred); ok {
		return tpl
	}
	return o.templates.Default()
}

// Close flushes a pending auto-save.
func (o *Orchestrator) Close() error {
	o.autosave.Flush()
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastSaveErr
}

// Templates returns the available templates in load order.
func (o *Orchestrator) Templates() []*schema.Template {
	return o.templates.List()
}

// Themes returns the registered theme names.
func (o *Orchestrator) Themes() []string {
	return o.catalog.Names()
}

// Renderers lists the registered resume output formats.
func (o *Orchestrator) Renderers() []string {
	return o.registry.List()
}

// Store exposes the persistence gateway.
func (o *Orchestrator) Store() *storage.Store {
	return o.store
}

// Template returns a copy of the selected template, or nil.
func (o *Orchestrator) Template() *schema.Template {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.resume.Template()
}

// Theme returns the selected theme.
func (o *Orchestrator) Theme() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.resume.Theme()
}

// CurrentID returns the id of the saved resume being edited, if any.
func (o *Orchestrator) CurrentID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.currentID
}

// Snapshot exports the resume state.
func (o *Orchestrator) Snapshot() resume.Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.resume.Export()
}

// Settings returns the cached user settings.
func (o *Orchestrator) Settings() storage.Settings {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.settings
}

// SaveSettings merges patch into the stored settings.
func (o *Orchestrator) SaveSettings(ctx context.Context, patch map[string]any) (storage.Settings, error) {
	merged, err := o.store.SaveSettings(ctx, patch)
	if err != nil {
		return storage.Settings{}, err
	}
	o.mu.Lock()
	o.settings = merged
	o.mu.Unlock()
	if !merged.AutoSave {
		o.autosave.Cancel()
	}
	return merged, nil
}

// Preview returns the resume markup.
func (o *Orchestrator) Preview() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.resume.Markup()
}

// Render produces the resume through the named renderer. An empty name uses
// the registry default.
func (o *Orchestrator) Render(ctx context.Context, name string) ([]byte, string, error) {
	renderer, err := o.registry.Get(name)
	if err != nil {
		return nil, "", fmt.Errorf("orchestrator: %w", err)
	}
	o.mu.Lock()
	in := render.Input{
		Template: o.resume.Template(),
		Data:     o.resume.Data(),
		Theme:    o.resume.Theme(),
	}
	o.mu.Unlock()

	out, err := renderer.Render(ctx, in)
	if err != nil {
		return nil, "", fmt.Errorf("orchestrator: render %s: %w", renderer.Name(), err)
	}
	return out, renderer.ContentType(), nil
}

// Document returns the printable page.
func (o *Orchestrator) Document(ctx context.Context) ([]byte, error) {
	out, _, err := o.Render(ctx, document.Name)
	return out, err
}

// EditorPage renders the editable form with the live preview. action is the
// form submission target.
func (o *Orchestrator) EditorPage(ctx context.Context, action string, messages []string) ([]byte, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	page := vanilla.Page{
		Action:   action,
		Sections: o.engine.Sections(),
		Errors:   messages,
		Preview:  o.resume.Markup(),
	}
	selected := o.resume.Template()
	for _, tpl := range o.templates.List() {
		page.Templates = append(page.Templates, vanilla.Choice{
			ID:       tpl.ID,
			Name:     tpl.Name,
			Selected: selected != nil && selected.ID == tpl.ID,
		})
	}
	for _, name := range o.catalog.Names() {
		page.Themes = append(page.Themes, vanilla.Choice{
			ID:       name,
			Name:     schema.Humanize(name),
			Selected: name == o.resume.Theme(),
		})
	}
	if selected != nil {
		page.Title = selected.Name + " - Resume Builder"
	}
	return o.editor.RenderPage(ctx, page)
}

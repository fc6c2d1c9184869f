package orchestrator

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-resumegen/pkg/autosave"
	"github.com/goliatone/go-resumegen/pkg/export"
	"github.com/goliatone/go-resumegen/pkg/render"
	"github.com/goliatone/go-resumegen/pkg/renderers/vanilla"
	"github.com/goliatone/go-resumegen/pkg/storage"
	"github.com/goliatone/go-resumegen/pkg/templates"
	"github.com/goliatone/go-resumegen/pkg/themes"
)

// Option customises the orchestrator.
type Option func(*Orchestrator)

// WithTemplates sets the available templates. The built-in set, or the
// fallback set when it cannot be loaded, is used otherwise.
func WithTemplates(set *templates.Set) Option {
	return func(o *Orchestrator) {
		if set != nil && set.Len() > 0 {
			o.templates = set
		}
	}
}

// WithThemes sets the theme catalog.
func WithThemes(catalog *themes.Catalog) Option {
	return func(o *Orchestrator) {
		if catalog != nil {
			o.catalog = catalog
		}
	}
}

// WithStore sets the persistence gateway. An in-memory store is used
// otherwise.
func WithStore(store *storage.Store) Option {
	return func(o *Orchestrator) {
		if store != nil {
			o.store = store
		}
	}
}

// WithExporter sets the PDF renderer. It is wrapped in an export.Guard
// unless it already is one.
func WithExporter(renderer export.Renderer) Option {
	return func(o *Orchestrator) {
		if renderer != nil {
			o.exporter = renderer
		}
	}
}

// WithRendererRegistry replaces the registry of resume output formats.
func WithRendererRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		if registry != nil {
			o.registry = registry
		}
	}
}

// WithEditor sets the renderer used for the editable form page.
func WithEditor(editor *vanilla.Renderer) Option {
	return func(o *Orchestrator) {
		if editor != nil {
			o.editor = editor
		}
	}
}

// WithAutoSaveDelay sets the quiet period before the working copy is saved.
func WithAutoSaveDelay(delay time.Duration) Option {
	return func(o *Orchestrator) {
		if delay > 0 {
			o.autoSaveDelay = delay
		}
	}
}

// WithAfterFunc replaces the timer used by auto-save.
func WithAfterFunc(after autosave.AfterFunc) Option {
	return func(o *Orchestrator) {
		o.afterFunc = after
	}
}

// WithClock overrides the clock used for resume metadata.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

package form

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-resumegen/pkg/formdata"
)

// ChangeFunc receives a snapshot of the form data after every edit.
type ChangeFunc func(data formdata.Data)

// ToggleFunc is notified when a section is expanded or collapsed.
type ToggleFunc func(sectionID string, expanded bool)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithChangeObserver registers the change observer at construction time.
func WithChangeObserver(fn ChangeFunc) Option {
	return func(e *Engine) {
		e.onChange = fn
	}
}

// WithToggleObserver registers the section toggle observer at construction time.
func WithToggleObserver(fn ToggleFunc) Option {
	return func(e *Engine) {
		e.onToggle = fn
	}
}

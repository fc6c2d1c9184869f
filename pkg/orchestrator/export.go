package orchestrator

import (
	"context"
	"fmt"

	"github.com/goliatone/go-resumegen/pkg/export"
	"github.com/goliatone/go-resumegen/pkg/resume"
)

// Export prints the resume. Blank options are filled from the session: the
// file name from the owner's name, the theme and page title from the resume.
// A failed export leaves the session untouched.
func (o *Orchestrator) Export(ctx context.Context, opts export.Options, progress export.ProgressFunc) (*export.Result, error) {
	o.mu.Lock()
	content := o.resume.Markup()
	if opts.Filename == "" {
		opts.Filename = o.resume.Filename()
	}
	if opts.Theme == "" {
		opts.Theme = o.resume.Theme()
	}
	if opts.Title == "" {
		opts.Title = exportTitle(o.resume.OwnerName())
	}
	o.mu.Unlock()

	result, err := o.exporter.Render(ctx, content, opts, progress)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: export: %w", err)
	}
	return result, nil
}

// Filename returns the export file name for the current resume.
func (o *Orchestrator) Filename() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return resume.Filename(o.resume.OwnerName())
}

func exportTitle(owner string) string {
	if owner == "" {
		return "Resume"
	}
	return owner + " - Resume"
}

package export

import (
	"context"
	"sync/atomic"
)

// Guard lets one export run at a time. A request made while another is in
// flight fails immediately with ErrExportInProgress.
type Guard struct {
	next    Renderer
	running atomic.Bool
}

// NewGuard wraps next.
func NewGuard(next Renderer) *Guard {
	return &Guard{next: next}
}

// Busy reports whether an export is running.
func (g *Guard) Busy() bool {
	return g.running.Load()
}

func (g *Guard) Render(ctx context.Context, markup string, opts Options, progress ProgressFunc) (*Result, error) {
	if !g.running.CompareAndSwap(false, true) {
		return nil, ErrExportInProgress
	}
	defer g.running.Store(false)
	return g.next.Render(ctx, markup, opts, progress)
}

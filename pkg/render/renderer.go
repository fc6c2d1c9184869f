package render

import (
	"context"

	"github.com/goliatone/go-resumegen/pkg/formdata"
	"github.com/goliatone/go-resumegen/pkg/schema"
)

// Input is everything a resume renderer needs. Output is a pure function of
// these three values.
type Input struct {
	Template *schema.Template
	Data     formdata.Data
	Theme    string
}

// Renderer converts a resume into a byte representation (markup fragment,
// printable page, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, in Input) ([]byte, error)
}

// Func adapts a plain function into a Renderer.
type Func struct {
	RendererName string
	Type         string
	Fn           func(ctx context.Context, in Input) ([]byte, error)
}

func (f Func) Name() string        { return f.RendererName }
func (f Func) ContentType() string { return f.Type }

func (f Func) Render(ctx context.Context, in Input) ([]byte, error) {
	return f.Fn(ctx, in)
}

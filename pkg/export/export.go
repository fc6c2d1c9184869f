// Package export turns resume markup into a PDF file.
package export

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-resumegen/pkg/resume"
)

// PageFormat names a paper size.
type PageFormat string

const (
	FormatA4     PageFormat = "a4"
	FormatLetter PageFormat = "letter"
	FormatLegal  PageFormat = "legal"
)

// Orientation is portrait or landscape.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Progress steps reported during an export.
const (
	StepPreparing  = "Preparing document..."
	StepRendering  = "Rendering page..."
	StepFinalizing = "Finalizing PDF..."
	StepComplete   = "Download complete!"
)

var (
	// ErrExportInProgress is returned by Guard while another export runs.
	ErrExportInProgress = errors.New("export: an export is already in progress")
	// ErrEmptyMarkup is returned when there is nothing to print.
	ErrEmptyMarkup = errors.New("export: markup is empty")
)

// Options control the produced document.
type Options struct {
	Filename    string
	PageFormat  PageFormat
	Orientation Orientation
	MarginMm    float64
	// OutputDir, when set, receives the file under Filename.
	OutputDir string
	Theme     string
	Title     string
}

// DefaultOptions returns A4 portrait with a 10mm margin.
func DefaultOptions() Options {
	return Options{
		Filename:    resume.Filename(""),
		PageFormat:  FormatA4,
		Orientation: Portrait,
		MarginMm:    10,
	}
}

// WithDefaults fills blank fields of o from DefaultOptions. Unknown formats
// and orientations fall back to the defaults.
func (o Options) WithDefaults() Options {
	def := DefaultOptions()
	if strings.TrimSpace(o.Filename) == "" {
		o.Filename = def.Filename
	}
	switch PageFormat(strings.ToLower(string(o.PageFormat))) {
	case FormatA4, FormatLetter, FormatLegal:
		o.PageFormat = PageFormat(strings.ToLower(string(o.PageFormat)))
	default:
		o.PageFormat = def.PageFormat
	}
	switch Orientation(strings.ToLower(string(o.Orientation))) {
	case Portrait, Landscape:
		o.Orientation = Orientation(strings.ToLower(string(o.Orientation)))
	default:
		o.Orientation = def.Orientation
	}
	if o.MarginMm <= 0 {
		o.MarginMm = def.MarginMm
	}
	return o
}

// Paper returns the sheet size in inches for o.
func (o Options) Paper() (width, height float64) {
	switch o.PageFormat {
	case FormatLetter:
		width, height = 8.5, 11
	case FormatLegal:
		width, height = 8.5, 14
	default:
		width, height = 8.27, 11.69
	}
	if o.Orientation == Landscape {
		width, height = height, width
	}
	return width, height
}

// CSSPageSize returns the value for the CSS @page size property.
func (o Options) CSSPageSize() string {
	size := strings.ToUpper(string(o.PageFormat))
	if o.PageFormat != FormatA4 {
		size = string(o.PageFormat)
	}
	if o.Orientation == Landscape {
		size += " landscape"
	}
	return size
}

// ProgressFunc receives a percentage in [0,100] and a step label.
type ProgressFunc func(percent int, label string)

func (p ProgressFunc) report(percent int, label string) {
	if p != nil {
		p(percent, label)
	}
}

// Result is a finished export.
type Result struct {
	Filename string
	// Path is set when the file was written to Options.OutputDir.
	Path string
	PDF  []byte
}

// Renderer prints markup to a document.
type Renderer interface {
	Render(ctx context.Context, markup string, opts Options, progress ProgressFunc) (*Result, error)
}

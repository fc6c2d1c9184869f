package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/goliatone/go-resumegen/pkg/renderers/document"
)

const mmPerInch = 25.4

// DefaultTimeout bounds one print job.
const DefaultTimeout = 60 * time.Second

// PrintJob is the input of a Printer.
type PrintJob struct {
	HTML     []byte
	Width    float64 // inches
	Height   float64 // inches
	MarginIn float64
}

// Printer converts a full HTML page into PDF bytes.
type Printer func(ctx context.Context, job PrintJob) ([]byte, error)

// ChromeOption configures a ChromeRenderer.
type ChromeOption func(*ChromeRenderer)

// WithExecPath points at the Chrome or Chromium binary. The CHROME_PATH
// environment variable is used when empty.
func WithExecPath(path string) ChromeOption {
	return func(r *ChromeRenderer) {
		r.execPath = path
	}
}

// WithTimeout bounds each print job.
func WithTimeout(timeout time.Duration) ChromeOption {
	return func(r *ChromeRenderer) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithDocument sets the renderer that wraps markup into a printable page.
func WithDocument(doc *document.Renderer) ChromeOption {
	return func(r *ChromeRenderer) {
		if doc != nil {
			r.document = doc
		}
	}
}

// WithPrinter replaces the headless Chrome printer.
func WithPrinter(printer Printer) ChromeOption {
	return func(r *ChromeRenderer) {
		if printer != nil {
			r.printer = printer
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) ChromeOption {
	return func(r *ChromeRenderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// ChromeRenderer prints resume markup through headless Chrome.
type ChromeRenderer struct {
	execPath string
	timeout  time.Duration
	document *document.Renderer
	printer  Printer
	logger   *zap.Logger
}

var _ Renderer = (*ChromeRenderer)(nil)

// NewChromeRenderer builds a renderer. Chrome is started per job, so
// construction succeeds without a browser installed.
func NewChromeRenderer(options ...ChromeOption) (*ChromeRenderer, error) {
	r := &ChromeRenderer{
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.document == nil {
		doc, err := document.New()
		if err != nil {
			return nil, fmt.Errorf("export: document renderer: %w", err)
		}
		r.document = doc
	}
	if r.printer == nil {
		r.printer = r.chromePrint
	}
	return r, nil
}

// Render sanitises markup, lays it out for opts and prints it. When
// opts.OutputDir is set the PDF is also written there.
func (r *ChromeRenderer) Render(ctx context.Context, markup string, opts Options, progress ProgressFunc) (*Result, error) {
	opts = opts.WithDefaults()
	progress.report(10, StepPreparing)

	content := Sanitize(markup)
	if content == "" {
		return nil, ErrEmptyMarkup
	}
	layout := document.Page{Size: opts.CSSPageSize(), MarginMm: opts.MarginMm}
	html, err := r.document.WrapPage(ctx, layout, content, opts.Theme, opts.Title)
	if err != nil {
		return nil, fmt.Errorf("export: prepare: %w", err)
	}

	progress.report(40, StepRendering)
	width, height := opts.Paper()
	pdf, err := r.printer(ctx, PrintJob{
		HTML:     html,
		Width:    width,
		Height:   height,
		MarginIn: opts.MarginMm / mmPerInch,
	})
	if err != nil {
		return nil, fmt.Errorf("export: render: %w", err)
	}

	progress.report(90, StepFinalizing)
	result := &Result{Filename: opts.Filename, PDF: pdf}
	if opts.OutputDir != "" {
		if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("export: output dir: %w", err)
		}
		path := filepath.Join(opts.OutputDir, filepath.Base(opts.Filename))
		if err := os.WriteFile(path, pdf, 0o644); err != nil {
			return nil, fmt.Errorf("export: write %s: %w", path, err)
		}
		result.Path = path
	}

	r.logger.Info("export: pdf ready",
		zap.String("filename", result.Filename),
		zap.Int("bytes", len(pdf)),
	)
	progress.report(100, StepComplete)
	return result, nil
}

func (r *ChromeRenderer) chromePrint(ctx context.Context, job PrintJob) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	execPath := r.execPath
	if execPath == "" {
		execPath = os.Getenv("CHROME_PATH")
	}
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()
	runCtx, cancelRun := context.WithTimeout(browserCtx, r.timeout)
	defer cancelRun()

	tmpDir, err := os.MkdirTemp("", "resumegen-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, job.HTML, 0o644); err != nil {
		return nil, err
	}

	var pdf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(job.Width).
				WithPaperHeight(job.Height).
				WithMarginTop(job.MarginIn).
				WithMarginBottom(job.MarginIn).
				WithMarginLeft(job.MarginIn).
				WithMarginRight(job.MarginIn).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdf, nil
}

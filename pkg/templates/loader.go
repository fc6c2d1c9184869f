package templates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Loader reads template documents from the supported sources.
type Loader struct {
	fsys    fs.FS
	client  *http.Client
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithFS sets the filesystem used for SourceKindFS sources.
func WithFS(fsys fs.FS) Option {
	return func(l *Loader) {
		l.fsys = fsys
	}
}

// WithHTTPClient sets the client used for URL sources.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		if client != nil {
			l.client = client
		}
	}
}

// WithTimeout bounds URL requests. Zero disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(l *Loader) {
		l.timeout = timeout
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader returns a Loader. The default HTTP client has a 10s timeout.
func NewLoader(options ...Option) *Loader {
	l := &Loader{
		client:  &http.Client{Timeout: 10 * time.Second},
		timeout: 10 * time.Second,
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Load reads and parses the document(s) at src. FS sources pointing at a
// directory load every .json, .yaml and .yml file beneath it, in lexical
// order, into one set.
func (l *Loader) Load(ctx context.Context, src Source) (*Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch src.Kind {
	case SourceKindFile:
		data, err := os.ReadFile(src.Location)
		if err != nil {
			return nil, fmt.Errorf("templates: read %s: %w", src.Location, err)
		}
		return Parse(data, src.Location)
	case SourceKindFS:
		return l.loadFS(ctx, src.Location)
	case SourceKindURL:
		data, err := l.fetch(ctx, src.Location)
		if err != nil {
			return nil, fmt.Errorf("templates: fetch %s: %w", src.Location, err)
		}
		return Parse(data, src.Location)
	default:
		return nil, fmt.Errorf("templates: unsupported source kind %q", src.Kind)
	}
}

// LoadOrFallback loads src and falls back to the minimal built-in set on any
// failure. The returned set is never nil; the error reports why the fallback
// was used.
func (l *Loader) LoadOrFallback(ctx context.Context, src Source) (*Set, error) {
	set, err := l.Load(ctx, src)
	if err == nil && set.Len() > 0 {
		return set, nil
	}
	if err == nil {
		err = fmt.Errorf("templates: %s contains no templates", src)
	}
	l.logger.Warn("template loading failed, using fallback templates",
		zap.String("source", src.String()),
		zap.Error(err),
	)
	return Fallback(), err
}

func (l *Loader) loadFS(ctx context.Context, name string) (*Set, error) {
	if l.fsys == nil {
		return nil, errors.New("templates: no filesystem configured")
	}
	info, err := fs.Stat(l.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("templates: stat %s: %w", name, err)
	}
	if !info.IsDir() {
		data, err := fs.ReadFile(l.fsys, name)
		if err != nil {
			return nil, fmt.Errorf("templates: read %s: %w", name, err)
		}
		return Parse(data, name)
	}

	merged, _ := NewSet()
	err = fs.WalkDir(l.fsys, name, func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() || !isTemplateFile(p) {
			return nil
		}
		data, err := fs.ReadFile(l.fsys, p)
		if err != nil {
			return fmt.Errorf("templates: read %s: %w", p, err)
		}
		set, err := Parse(data, p)
		if err != nil {
			return err
		}
		merged, err = merged.Merge(set)
		return err
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	reqCtx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("unexpected status " + resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func isTemplateFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

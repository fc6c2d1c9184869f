// Package bootstrap turns a Config into the collaborators shared by every
// editing session of a process.
package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/goliatone/go-resumegen/internal/config"
	"github.com/goliatone/go-resumegen/pkg/export"
	"github.com/goliatone/go-resumegen/pkg/orchestrator"
	"github.com/goliatone/go-resumegen/pkg/storage"
	"github.com/goliatone/go-resumegen/pkg/templates"
	"github.com/goliatone/go-resumegen/pkg/themes"
)

// App holds the process-wide collaborators.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Templates *templates.Set
	Themes    *themes.Catalog
	Store     *storage.Store
	Exporter  *export.Guard

	closers []func() error
}

// New wires storage, templates and the exporter from cfg.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := &App{Config: cfg, Logger: logger, Themes: themes.DefaultCatalog()}

	kv, closeKV, err := OpenKV(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	if closeKV != nil {
		app.closers = append(app.closers, closeKV)
	}
	app.Store = storage.New(kv, storage.WithLogger(logger.Named("storage")))

	app.Templates = LoadTemplates(ctx, cfg.Templates, logger)

	chrome, err := export.NewChromeRenderer(
		export.WithExecPath(cfg.Export.ChromePath),
		export.WithTimeout(cfg.Export.Timeout),
		export.WithLogger(logger.Named("export")),
	)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("bootstrap: exporter: %w", err)
	}
	app.Exporter = export.NewGuard(chrome)
	return app, nil
}

// NewSession starts an orchestrator bound to the shared collaborators.
func (a *App) NewSession(ctx context.Context, options ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	base := []orchestrator.Option{
		orchestrator.WithTemplates(a.Templates),
		orchestrator.WithThemes(a.Themes),
		orchestrator.WithStore(a.Store),
		orchestrator.WithExporter(a.Exporter),
		orchestrator.WithAutoSaveDelay(a.Config.AutoSave.Delay),
		orchestrator.WithLogger(a.Logger.Named("session")),
	}
	session, err := orchestrator.New(append(base, options...)...)
	if err != nil {
		return nil, err
	}
	if err := session.Start(ctx); err != nil {
		return nil, err
	}
	return session, nil
}

// ExportOptions returns the configured page defaults.
func (a *App) ExportOptions() export.Options {
	return export.Options{
		PageFormat:  export.PageFormat(a.Config.Export.PageFormat),
		Orientation: export.Orientation(a.Config.Export.Orientation),
		MarginMm:    a.Config.Export.MarginMm,
		OutputDir:   a.Config.Export.OutputDir,
	}
}

// Close releases storage connections.
func (a *App) Close() error {
	var first error
	for _, closer := range a.closers {
		if err := closer(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// OpenKV builds the configured key-value backend. The returned closer may
// be nil.
func OpenKV(ctx context.Context, cfg config.StorageConfig) (storage.KV, func() error, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		return storage.NewMemory(), nil, nil
	case config.DriverFile:
		kv, err := storage.NewFileKV(cfg.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: %w", err)
		}
		return kv, nil, nil
	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("bootstrap: redis %s: %w", cfg.Redis.Addr, err)
		}
		return storage.NewRedisKV(client, cfg.Redis.Prefix), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("bootstrap: unknown storage driver %q", cfg.Driver)
	}
}

// LoadTemplates reads the configured template source. Without one the
// built-in set is used; a failing source falls back to the minimal set.
func LoadTemplates(ctx context.Context, cfg config.TemplatesConfig, logger *zap.Logger) *templates.Set {
	if logger == nil {
		logger = zap.NewNop()
	}
	options := []templates.Option{templates.WithLogger(logger.Named("templates"))}

	var src templates.Source
	switch {
	case cfg.URL != "":
		parsed, err := templates.FromURL(cfg.URL)
		if err != nil {
			logger.Warn("bootstrap: invalid template url, using fallback", zap.Error(err))
			return templates.Fallback()
		}
		src = parsed
	case cfg.Path != "":
		if info, err := os.Stat(cfg.Path); err == nil && info.IsDir() {
			options = append(options, templates.WithFS(os.DirFS(cfg.Path)))
			src = templates.FromFS(".")
		} else {
			src = templates.FromFile(cfg.Path)
		}
	default:
		set, err := templates.Builtin()
		if err != nil {
			logger.Warn("bootstrap: built-in templates unavailable, using fallback", zap.Error(err))
			return templates.Fallback()
		}
		return set
	}

	set, _ := templates.NewLoader(options...).LoadOrFallback(ctx, src)
	return set
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-resumegen/internal/bootstrap"
	"github.com/goliatone/go-resumegen/internal/config"
	"github.com/goliatone/go-resumegen/internal/logging"
	"github.com/goliatone/go-resumegen/internal/server"
	"github.com/goliatone/go-resumegen/pkg/orchestrator"
)

func main() {
	configFile := flag.String("config", "", "config file (searches ./config.yaml when empty)")
	flag.Parse()

	if err := run(*configFile); err != nil {
		fmt.Fprintf(os.Stderr, "resumegen-server: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	cfg, err := config.Load(config.Options{ConfigFile: configFile})
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	gin.SetMode(cfg.Server.Mode)
	srv, err := server.New(func(ctx context.Context) (*orchestrator.Orchestrator, error) {
		editor, err := server.NewEditor()
		if err != nil {
			return nil, err
		}
		return app.NewSession(ctx, orchestrator.WithEditor(editor))
	},
		server.WithLogger(logger.Named("http")),
		server.WithExportDefaults(app.ExportOptions()),
		server.WithSessionTTL(cfg.Server.SessionTTL),
	)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Handler(),
	}

	go func() {
		logger.Info("server listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("storage", cfg.Storage.Driver),
			zap.Int("templates", app.Templates.Len()),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	if err := srv.Close(); err != nil {
		logger.Warn("flush sessions", zap.Error(err))
	}
	return nil
}

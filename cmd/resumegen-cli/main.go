package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-resumegen/internal/bootstrap"
	"github.com/goliatone/go-resumegen/internal/config"
	"github.com/goliatone/go-resumegen/internal/logging"
	"github.com/goliatone/go-resumegen/pkg/form"
	"github.com/goliatone/go-resumegen/pkg/orchestrator"
	"github.com/goliatone/go-resumegen/pkg/renderers/tui"
)

type flags struct {
	config   string
	template string
	theme    string
	open     string
	sections string
	save     string
	html     string
	pdf      string
	list     bool
	noPrompt bool
}

func main() {
	var f flags
	flag.StringVar(&f.config, "config", "", "config file (searches ./config.yaml when empty)")
	flag.StringVar(&f.template, "template", "", "template id to start from")
	flag.StringVar(&f.theme, "theme", "", "theme override")
	flag.StringVar(&f.open, "open", "", "saved resume id to open")
	flag.StringVar(&f.sections, "sections", "", "comma separated section ids to prompt (all when empty)")
	flag.StringVar(&f.save, "save", "", "save the resume under this name")
	flag.StringVar(&f.html, "html", "", "write the printable HTML page to this file")
	flag.StringVar(&f.pdf, "pdf", "", "export the resume as PDF to this file")
	flag.BoolVar(&f.list, "list", false, "list saved resumes and exit")
	flag.BoolVar(&f.noPrompt, "no-prompt", false, "skip the interactive form")
	flag.Parse()

	if err := run(context.Background(), f); err != nil {
		if errors.Is(err, tui.ErrAborted) {
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "resumegen: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, f flags) error {
	cfg, err := config.Load(config.Options{ConfigFile: f.config})
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	session, err := app.NewSession(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("auto-save failed", zap.Error(err))
		}
	}()

	if f.list {
		return listResumes(ctx, session)
	}
	if f.open != "" {
		if err := session.Open(ctx, f.open); err != nil {
			return err
		}
	}
	if f.template != "" {
		if err := session.SelectTemplate(f.template); err != nil {
			return err
		}
	}
	if f.theme != "" {
		if err := session.SetTheme(f.theme); err != nil {
			return err
		}
	}

	if !f.noPrompt {
		var opts []tui.Option
		if f.sections != "" {
			opts = append(opts, tui.WithSections(strings.Split(f.sections, ",")...))
		}
		filler := tui.New(append(opts, tui.WithLogger(logger.Named("tui")))...)
		if err := session.Edit(func(engine *form.Engine) error {
			_, err := filler.Fill(ctx, engine)
			return err
		}); err != nil {
			return err
		}
	}

	if f.save != "" {
		id, err := session.SaveAs(ctx, f.save)
		if err != nil {
			return err
		}
		fmt.Printf("Saved %q as %s\n", f.save, id)
	}
	if f.html != "" {
		out, err := session.Document(ctx)
		if err != nil {
			return err
		}
		if err := os.WriteFile(f.html, out, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.html, err)
		}
		fmt.Printf("Document written to %s\n", f.html)
	}
	if f.pdf != "" {
		return exportPDF(ctx, app, session, f.pdf)
	}
	return nil
}

func listResumes(ctx context.Context, session *orchestrator.Orchestrator) error {
	list := session.List(ctx)
	if len(list) == 0 {
		fmt.Println("No saved resumes.")
		return nil
	}
	for _, item := range list {
		fmt.Printf("%s\t%s\t%s\t%s\n", item.ID, item.Name, item.Template, item.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func exportPDF(ctx context.Context, app *bootstrap.App, session *orchestrator.Orchestrator, path string) error {
	opts := app.ExportOptions()
	opts.OutputDir = filepath.Dir(path)
	opts.Filename = filepath.Base(path)

	result, err := session.Export(ctx, opts, func(percent int, step string) {
		fmt.Fprintf(os.Stderr, "[%3d%%] %s\n", percent, step)
	})
	if err != nil {
		return err
	}
	fmt.Printf("PDF written to %s\n", result.Path)
	return nil
}

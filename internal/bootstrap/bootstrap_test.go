package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-resumegen/internal/config"
	"github.com/goliatone/go-resumegen/pkg/export"
	"github.com/goliatone/go-resumegen/pkg/storage"
	"github.com/goliatone/go-resumegen/pkg/testsupport"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Storage:  config.StorageConfig{Driver: config.DriverFile, Dir: t.TempDir()},
		AutoSave: config.AutoSaveConfig{Delay: 0},
		Export:   config.ExportConfig{PageFormat: "letter", Orientation: "landscape", MarginMm: 12},
	}
}

func TestOpenKV(t *testing.T) {
	ctx := testsupport.Context()
	kv, closer, err := OpenKV(ctx, config.StorageConfig{Driver: config.DriverMemory})
	if err != nil || closer != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := kv.(*storage.Memory); !ok {
		t.Fatalf("expected memory store, got %T", kv)
	}

	kv, _, err = OpenKV(ctx, config.StorageConfig{Driver: config.DriverFile, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if _, ok := kv.(*storage.FileKV); !ok {
		t.Fatalf("expected file store, got %T", kv)
	}

	if _, _, err := OpenKV(ctx, config.StorageConfig{Driver: "tape"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestLoadTemplates(t *testing.T) {
	ctx := testsupport.Context()
	if diff := cmp.Diff([]string{"modern", "classic", "creative"}, LoadTemplates(ctx, config.TemplatesConfig{}, nil).IDs()); diff != "" {
		t.Fatalf("builtin ids mismatch (-want +got):\n%s", diff)
	}

	dir := t.TempDir()
	doc := `{"id":"mine","name":"Mine","sections":[{"id":"personal","name":"Personal","fields":[{"name":"fullName","label":"Full Name","type":"text"}]}]}`
	if err := os.WriteFile(filepath.Join(dir, "mine.json"), []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if diff := cmp.Diff([]string{"mine"}, LoadTemplates(ctx, config.TemplatesConfig{Path: dir}, nil).IDs()); diff != "" {
		t.Fatalf("dir ids mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"modern"}, LoadTemplates(ctx, config.TemplatesConfig{Path: filepath.Join(dir, "missing.json")}, nil).IDs()); diff != "" {
		t.Fatalf("fallback ids mismatch (-want +got):\n%s", diff)
	}
}

func TestAppSessions(t *testing.T) {
	ctx := testsupport.Context()
	app, err := New(ctx, testConfig(t), nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })

	session, err := app.NewSession(ctx)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if tpl := session.Template(); tpl == nil || tpl.ID != "modern" {
		t.Fatalf("unexpected template %+v", tpl)
	}

	want := export.Options{PageFormat: export.FormatLetter, Orientation: export.Landscape, MarginMm: 12}
	if diff := cmp.Diff(want, app.ExportOptions()); diff != "" {
		t.Fatalf("export options mismatch (-want +got):\n%s", diff)
	}
}

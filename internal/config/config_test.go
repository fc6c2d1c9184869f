package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(Options{Paths: []string{dir}, EnvFiles: []string{filepath.Join(dir, "missing.env")}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		Server:   ServerConfig{Addr: ":8080", Mode: "debug", ShutdownTimeout: 10 * time.Second, SessionTTL: 30 * time.Minute},
		Storage:  StorageConfig{Driver: DriverMemory, Dir: "./data", Redis: RedisConfig{Addr: "localhost:6379", Prefix: "resumegen:"}},
		AutoSave: AutoSaveConfig{Delay: 5 * time.Second},
		Export:   ExportConfig{Timeout: time.Minute, PageFormat: "a4", Orientation: "portrait", MarginMm: 10},
		Log:      LogConfig{Level: "info", Format: "console"},
	}
	if diff := cmp.Diff(want, *cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", `
server:
  addr: ":9000"
storage:
  driver: FILE
  dir: /var/lib/resumegen
autosave:
  delay: 2s
export:
  page_format: letter
`)
	envFile := writeFile(t, dir, "test.env", "RESUMEGEN_LOG_LEVEL=debug\n")
	t.Setenv("RESUMEGEN_SERVER_ADDR", ":7000")
	t.Cleanup(func() { os.Unsetenv("RESUMEGEN_LOG_LEVEL") })

	cfg, err := Load(Options{Paths: []string{dir}, EnvFiles: []string{envFile}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Fatalf("env override ignored: %q", cfg.Server.Addr)
	}
	if cfg.Storage.Driver != DriverFile || cfg.Storage.Dir != "/var/lib/resumegen" {
		t.Fatalf("unexpected storage %+v", cfg.Storage)
	}
	if cfg.AutoSave.Delay != 2*time.Second || cfg.Export.PageFormat != "letter" {
		t.Fatalf("unexpected values %+v %+v", cfg.AutoSave, cfg.Export)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf(".env value ignored: %q", cfg.Log.Level)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.yaml", "storage:\n  driver: floppy\n")
	if _, err := Load(Options{ConfigFile: path, EnvFiles: []string{filepath.Join(dir, "none.env")}}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

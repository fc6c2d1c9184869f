package themes

import (
	"errors"
	"testing"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"
)

func TestDefaultCatalogNames(t *testing.T) {
	got := DefaultCatalog().Names()
	if diff := cmp.Diff([]string{Modern, Classic, Creative}, got); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectFallsBackToDefault(t *testing.T) {
	catalog := DefaultCatalog()

	selection, err := catalog.Select("Neon", "night")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if selection.Theme != Modern || selection.Variant != "" {
		t.Fatalf("unexpected selection: %s/%s", selection.Theme, selection.Variant)
	}

	if got := catalog.Normalize(" CLASSIC "); got != Classic {
		t.Fatalf("normalize: want classic, got %s", got)
	}
	if _, err := catalog.Lookup("neon"); !errors.Is(err, ErrUnknownTheme) {
		t.Fatalf("expected ErrUnknownTheme, got %v", err)
	}
}

func TestResolveMergesVariantTokens(t *testing.T) {
	cfg, err := DefaultCatalog().Resolve(Creative, PrintVariant)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Theme != Creative || cfg.Variant != PrintVariant {
		t.Fatalf("unexpected config identity: %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.Tokens["section-gap"] != "14px" {
		t.Fatalf("variant token not applied: %s", cfg.Tokens["section-gap"])
	}
	if cfg.CSSVars["--accent-color"] != "#db2777" {
		t.Fatalf("css var not derived: %v", cfg.CSSVars)
	}
	if got := cfg.Partials[DocumentPartial]; got != "document.tmpl" {
		t.Fatalf("partial missing: %q", got)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/themes/creative/resume.css" {
		t.Fatalf("asset url: %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("unknown asset should resolve empty, got %q", got)
	}
}

func TestRegisterRejectsDuplicatesAndBlankNames(t *testing.T) {
	catalog := NewCatalog()
	acme := &theme.Manifest{
		Name:      "acme",
		Version:   "1.0.0",
		Tokens:    map[string]string{"accent-color": "#123456"},
		Templates: map[string]string{DocumentPartial: "document.tmpl"},
	}
	if err := catalog.Register(acme); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := catalog.Register(&theme.Manifest{Name: "ACME", Version: "1.0.0"}); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if err := catalog.Register(&theme.Manifest{Name: "  "}); err == nil {
		t.Fatalf("expected blank name error")
	}
}

func TestInlineStyle(t *testing.T) {
	got := InlineStyle(map[string]string{"--b": "2", "--a": "1"})
	if got != "--a: 1; --b: 2;" {
		t.Fatalf("inline style: %q", got)
	}
	if InlineStyle(nil) != "" {
		t.Fatalf("empty vars should produce empty style")
	}
}

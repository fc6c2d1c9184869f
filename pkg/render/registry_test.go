package render

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func stub(name string) Renderer {
	return Func{RendererName: name, Type: "text/plain", Fn: func(context.Context, Input) ([]byte, error) {
		return []byte(name), nil
	}}
}

func TestRegistryDefaultsToFirstRegistered(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(stub("html"))
	reg.MustRegister(stub("document"))

	got, err := reg.Get("")
	if err != nil {
		t.Fatalf("get default: %v", err)
	}
	if got.Name() != "html" {
		t.Fatalf("default = %q", got.Name())
	}
	if err := reg.SetDefault("document"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	got, _ = reg.Get("")
	if got.Name() != "document" {
		t.Fatalf("default after SetDefault = %q", got.Name())
	}
	if diff := cmp.Diff([]string{"document", "html"}, reg.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryRejectsDuplicatesAndUnknown(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(stub("html"))
	if err := reg.Register(stub("html")); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if _, err := reg.Get("pdf"); err == nil {
		t.Fatalf("expected not found error")
	}
	if err := reg.SetDefault("pdf"); err == nil {
		t.Fatalf("expected SetDefault error")
	}
}

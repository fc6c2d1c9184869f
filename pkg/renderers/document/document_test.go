package document_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-resumegen/pkg/render"
	"github.com/goliatone/go-resumegen/pkg/renderers/document"
	"github.com/goliatone/go-resumegen/pkg/renderers/markup"
	"github.com/goliatone/go-resumegen/pkg/testsupport"
	"github.com/goliatone/go-resumegen/pkg/themes"
)

func TestRenderWrapsMarkupWithThemeVars(t *testing.T) {
	renderer, err := document.New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	tpl := testsupport.BuiltinTemplate(t, "modern")
	data := testsupport.SampleData()

	out, err := renderer.Render(context.Background(), render.Input{Template: tpl, Data: data, Theme: themes.Creative})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	page := string(out)

	fragment := markup.Generate(tpl, data, themes.Creative)
	if !strings.Contains(page, fragment) {
		t.Fatalf("page does not contain the unescaped resume markup")
	}
	for _, want := range []string{
		"<title>Ada Lovelace - Resume</title>",
		"--accent-color: #db2777;",
		"size: A4; margin: 10mm;",
		`class="resume-document theme-creative"`,
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("page missing %q", want)
		}
	}
}

func TestRenderFallsBackForUnknownTheme(t *testing.T) {
	renderer, err := document.New(
		document.WithVariant(themes.PrintVariant),
		document.WithPage(document.Page{Size: "letter landscape", MarginMm: 12.5}),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	out, err := renderer.Wrap(context.Background(), "<p>hi</p>", "neon", "")
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	page := string(out)
	for _, want := range []string{
		"<title>Resume</title>",
		`theme-modern variant-print`,
		"--section-gap: 14px;",
		"size: letter landscape; margin: 12.5mm;",
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("page missing %q", want)
		}
	}
}

func TestCustomTemplateBundle(t *testing.T) {
	files := fstest.MapFS{
		"document.tmpl": {Data: []byte(`[{{ theme }}]{{ content|safe }}`)},
	}
	renderer, err := document.New(document.WithTemplatesFS(files))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	out, err := renderer.Wrap(context.Background(), "<b>x</b>", themes.Classic, "t")
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if string(out) != "[classic]<b>x</b>" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestRenderHonoursCancelledContext(t *testing.T) {
	renderer, err := document.New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := renderer.Render(ctx, render.Input{}); err == nil {
		t.Fatalf("expected context error")
	}
}

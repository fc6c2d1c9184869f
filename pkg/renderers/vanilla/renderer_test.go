package vanilla_test

import (
	"bytes"
	"context"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-resumegen/pkg/form"
	"github.com/goliatone/go-resumegen/pkg/formdata"
	"github.com/goliatone/go-resumegen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-resumegen/pkg/renderers/vanilla"
	"github.com/goliatone/go-resumegen/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-resumegen/pkg/schema"
	"github.com/goliatone/go-resumegen/pkg/testsupport"
)

func newEngine(t *testing.T) *form.Engine {
	t.Helper()
	engine := form.New()
	if err := engine.Init(testsupport.BuiltinTemplate(t, "modern")); err != nil {
		t.Fatalf("init: %v", err)
	}
	return engine
}

func TestRenderSectionsReflectsEngineState(t *testing.T) {
	engine := newEngine(t)
	engine.UpdateField(formdata.ItemField("experience", 0, "company"), `Acme & "Sons"`)
	engine.UpdateField(formdata.ItemField("experience", 0, "current"), true)
	engine.AddItem("experience")
	engine.Toggle("education")

	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	out, err := renderer.RenderSections(engine.Sections())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{
		`<div class="form-section" data-section-id="personal">`,
		`<label class="form-label" for="personal_fullName">Full Name <span class="required">*</span></label>`,
		`<input type="email" class="form-input" id="personal_email" name="personal_email" value="" required>`,
		`id="experience_0_company" name="experience_0_company" value="Acme &amp; &quot;Sons&quot;"`,
		`<input type="checkbox" value="true" id="experience_0_current" name="experience_0_current" checked>`,
		`<h5 class="item-title">Experience 2</h5><button type="submit" class="remove-item" title="Remove this item" name="remove" value="experience:1">×</button>`,
		`<button type="submit" class="add-item" name="add" value="experience">+ Add Experience</button>`,
		`<textarea class="form-textarea" rows="4" id="summary_summary" name="summary_summary" placeholder="A short overview of your experience"></textarea>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("rendered sections missing %q", want)
		}
	}
	if strings.Contains(out, `value="experience:0"`) {
		t.Fatalf("first item must not be removable")
	}

	educationStart := strings.Index(out, `data-section-id="education"`)
	if educationStart < 0 || !strings.Contains(out[educationStart:], `<div class="section-content collapsed">`) {
		t.Fatalf("collapsed section not marked")
	}
}

func TestRenderPage(t *testing.T) {
	engine := newEngine(t)
	renderer, err := vanilla.New(vanilla.WithStylesheets("/assets/editor.css"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	out, err := renderer.RenderPage(context.Background(), vanilla.Page{
		Action:    "/form",
		Sections:  engine.Sections(),
		Errors:    []string{"Full Name is required in Personal Information"},
		Preview:   `<div class="resume-content theme-modern"></div>`,
		Templates: []vanilla.Choice{{ID: "modern", Name: "Modern Professional", Selected: true}, {ID: "classic", Name: "Classic"}},
		Themes:    []vanilla.Choice{{ID: "modern", Name: "modern", Selected: true}},
	})
	if err != nil {
		t.Fatalf("render page: %v", err)
	}
	page := string(out)
	for _, want := range []string{
		"<title>Resume Builder</title>",
		`<link rel="stylesheet" href="/assets/editor.css">`,
		`<form class="resume-form" method="post" action="/form">`,
		`<option value="modern" selected>Modern Professional</option><option value="classic">Classic</option>`,
		"<li>Full Name is required in Personal Information</li>",
		`<div class="preview-pane"><div class="resume-content theme-modern"></div></div>`,
		`data-section-id="experience"`,
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("page missing %q", want)
		}
	}
}

func TestCustomComponentViaTemplate(t *testing.T) {
	files := bundleWith(t, map[string]string{
		"page.tmpl":       `{{ sections|safe }}`,
		"fancy-text.tmpl": `<x-field id="{{ control.id }}">{{ control.value }}</x-field>`,
	})
	engine, err := gotemplate.New(gotemplate.WithFS(files))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	registry := components.NewDefaultRegistry().Clone()
	registry.MustRegister(components.NameInput, components.Descriptor{
		Renderer: components.TemplateComponent("fancy-text"),
	})

	editor := newEngine(t)
	editor.UpdateField(formdata.Field("personal", "fullName"), "Ada <3")

	renderer, err := vanilla.New(vanilla.WithTemplateRenderer(engine), vanilla.WithComponents(registry))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	out, err := renderer.RenderPage(context.Background(), vanilla.Page{Sections: editor.Sections()})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `<x-field id="personal_fullName">Ada &lt;3</x-field>`) {
		t.Fatalf("template component not used:\n%s", out)
	}
}

// bundleWith returns the embedded templates with overrides layered on top.
func bundleWith(t *testing.T, overrides map[string]string) fstest.MapFS {
	t.Helper()
	files := fstest.MapFS{}
	err := fs.WalkDir(vanilla.TemplatesFS(), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(vanilla.TemplatesFS(), path)
		if err != nil {
			return err
		}
		files[path] = &fstest.MapFile{Data: data}
		return nil
	})
	if err != nil {
		t.Fatalf("walk templates: %v", err)
	}
	for name, body := range overrides {
		files[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return files
}

func TestDefaultComponentsAreTemplates(t *testing.T) {
	for _, name := range []string{"input", "textarea", "select", "checkbox"} {
		if _, err := fs.Stat(vanilla.TemplatesFS(), components.TemplatePrefix+name+".tmpl"); err != nil {
			t.Fatalf("component template %s not embedded: %v", name, err)
		}
	}

	files := bundleWith(t, map[string]string{
		components.TemplatePrefix + "input.tmpl": `<custom-input for="{{ control.id }}">{{ control.value }}</custom-input>`,
	})
	renderer, err := vanilla.New(vanilla.WithTemplatesFS(files))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	editor := newEngine(t)
	editor.UpdateField(formdata.Field("personal", "fullName"), "Ada")
	out, err := renderer.RenderSections(editor.Sections())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `<custom-input for="personal_fullName">Ada</custom-input>`) {
		t.Fatalf("input template override not used:\n%s", out)
	}
	if !strings.Contains(out, `<textarea class="form-textarea"`) {
		t.Fatalf("remaining defaults should render from the bundle:\n%s", out)
	}
}

func TestSelectComponent(t *testing.T) {
	editor := form.New()
	err := editor.Init(&schema.Template{
		ID: "picker",
		Sections: []schema.SectionSchema{{
			ID: "prefs",
			Fields: []schema.FieldSchema{{
				Name:     "level",
				Label:    "Level",
				Kind:     schema.FieldSelect,
				Required: true,
				Options:  []schema.Option{{Value: "junior"}, {Value: "senior", Label: "Senior & up"}},
			}},
		}},
	})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	editor.UpdateField(formdata.Field("prefs", "level"), "senior")

	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	out, err := renderer.RenderSections(editor.Sections())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<select class="form-select" id="prefs_level" name="prefs_level" required><option value="junior">junior</option><option value="senior" selected>Senior &amp; up</option></select>`
	if !strings.Contains(out, want) {
		t.Fatalf("select markup mismatch, want %q in:\n%s", want, out)
	}
}

func TestRemoveValueRoundTrip(t *testing.T) {
	section, index, ok := vanilla.ParseRemoveValue(vanilla.RemoveValue("work:history", 3))
	if !ok || section != "work:history" || index != 3 {
		t.Fatalf("round trip failed: %q %d %v", section, index, ok)
	}
	for _, bad := range []string{"", "experience", ":2", "experience:x"} {
		if _, _, ok := vanilla.ParseRemoveValue(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestRegistry(t *testing.T) {
	registry := components.NewDefaultRegistry()
	if diff := cmp.Diff([]string{"checkbox", "input", "select", "textarea"}, registry.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if err := registry.Register(" ", components.Descriptor{Renderer: func(*bytes.Buffer, *form.Control, components.ComponentData) error { return nil }}); err == nil {
		t.Fatalf("expected name error")
	}
	if err := registry.Register("x", components.Descriptor{}); err == nil {
		t.Fatalf("expected nil renderer error")
	}
	registry.MustRegister("Rich", components.Descriptor{
		Renderer:    func(*bytes.Buffer, *form.Control, components.ComponentData) error { return nil },
		Stylesheets: []string{"/rich.css", "/rich.css"},
	})
	if diff := cmp.Diff([]string{"/rich.css"}, registry.Stylesheets([]string{"rich", "input"})); diff != "" {
		t.Fatalf("stylesheets mismatch (-want +got):\n%s", diff)
	}
}

package form

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-resumegen/pkg/formdata"
	"github.com/goliatone/go-resumegen/pkg/schema"
)

func sampleTemplate() *schema.Template {
	return &schema.Template{
		ID:    "modern",
		Name:  "Modern Professional",
		Theme: "modern",
		Sections: []schema.SectionSchema{
			{
				ID:       "personal",
				Name:     "Personal Information",
				Required: true,
				Fields: []schema.FieldSchema{
					{Name: "fullName", Label: "Full Name", Kind: schema.FieldText, Required: true},
					{Name: "email", Label: "Email", Kind: schema.FieldEmail},
				},
			},
			{
				ID:         "experience",
				Name:       "Experience",
				Repeatable: true,
				Fields: []schema.FieldSchema{
					{Name: "company", Label: "Company", Kind: schema.FieldText, Required: true},
					{Name: "current", Label: "Current", Kind: schema.FieldCheckbox},
					{Name: "level", Label: "Level", Kind: schema.FieldSelect, Options: []schema.Option{{Value: "junior", Label: "Junior"}, {Value: "senior", Label: "Senior"}}},
				},
			},
		},
	}
}

func newEngine(t *testing.T) *Engine {
	t.Helper()
	engine := New()
	if err := engine.Init(sampleTemplate()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return engine
}

func companies(t *testing.T, engine *Engine) []string {
	t.Helper()
	entry := engine.Data()["experience"]
	var out []string
	for i, idx := range entry.Indices() {
		if idx != i {
			t.Fatalf("indices not contiguous: %v", entry.Indices())
		}
		out = append(out, entry.Items[idx].Text("company"))
	}
	return out
}

func TestInitBuildsSectionsInOrder(t *testing.T) {
	engine := newEngine(t)

	sections := engine.Sections()
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Items != nil {
		t.Fatalf("non-repeatable section should have nil items")
	}
	if got := len(sections[1].Items); got != 1 {
		t.Fatalf("repeatable section should start with one item, got %d", got)
	}
	first := sections[1].Items[0]
	if first.Title != "Experience 1" || first.Removable {
		t.Fatalf("unexpected first item state: %+v", first)
	}
	if got := first.Control("company").ID; got != "experience_0_company" {
		t.Fatalf("control id = %q", got)
	}
	if got := sections[0].Control("email").ID; got != "personal_email" {
		t.Fatalf("flat control id = %q", got)
	}
	if got := first.Control("level").Text(); got != "junior" {
		t.Fatalf("select should display first option, got %q", got)
	}

	want := formdata.Data{"experience": {Items: map[int]formdata.Fields{0: {}}}}
	if diff := cmp.Diff(want, engine.Data()); diff != "" {
		t.Fatalf("initial data mismatch (-want +got):\n%s", diff)
	}
}

func TestInitRejectsMalformedTemplate(t *testing.T) {
	engine := New()
	err := engine.Init(&schema.Template{ID: "broken", Sections: []schema.SectionSchema{{Name: "No ID"}}})
	if !errors.Is(err, schema.ErrMissingSectionID) {
		t.Fatalf("expected missing section id error, got %v", err)
	}
	if len(engine.Sections()) != 0 {
		t.Fatalf("engine should be empty after failed init")
	}
}

func TestInitWithoutSections(t *testing.T) {
	engine := New()
	if err := engine.Init(&schema.Template{ID: "empty"}); err != nil {
		t.Fatalf("init: %v", err)
	}
	if len(engine.Sections()) != 0 {
		t.Fatalf("expected zero sections")
	}
}

func TestAddItemAppendsWithoutDisturbingExisting(t *testing.T) {
	engine := newEngine(t)
	engine.UpdateField(formdata.ItemField("experience", 0, "company"), "A")
	engine.AddItem("experience")
	engine.AddItem("personal")
	engine.AddItem("unknown")

	state, _ := engine.Section("experience")
	if len(state.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(state.Items))
	}
	if diff := cmp.Diff([]string{"A", ""}, companies(t, engine)); diff != "" {
		t.Fatalf("companies mismatch (-want +got):\n%s", diff)
	}
	if !state.Items[1].Removable || state.Items[1].Title != "Experience 2" {
		t.Fatalf("unexpected new item: %+v", state.Items[1])
	}
}

func TestRemoveItemReindexesAndKeepsData(t *testing.T) {
	values := []string{"v0", "v1", "v2", "v3", "v4"}
	for k := 1; k < len(values); k++ {
		engine := newEngine(t)
		for i := 1; i < len(values); i++ {
			engine.AddItem("experience")
		}
		for i, v := range values {
			engine.UpdateField(formdata.ItemField("experience", i, "company"), v)
		}

		engine.RemoveItem("experience", k)

		want := append(append([]string{}, values[:k]...), values[k+1:]...)
		if diff := cmp.Diff(want, companies(t, engine)); diff != "" {
			t.Fatalf("remove %d mismatch (-want +got):\n%s", k, diff)
		}

		state, _ := engine.Section("experience")
		for i, item := range state.Items {
			ctrl := item.Control("company")
			if item.Index != i || ctrl.Key.Item != i || ctrl.ID != formdata.ItemField("experience", i, "company").ElementID() {
				t.Fatalf("item %d identifiers not updated: %+v", i, ctrl)
			}
			if ctrl.Text() != want[i] {
				t.Fatalf("item %d control shows %q, want %q", i, ctrl.Text(), want[i])
			}
		}
	}
}

func TestRemoveThenEditTargetsShiftedItem(t *testing.T) {
	engine := newEngine(t)
	engine.AddItem("experience")
	engine.AddItem("experience")
	engine.UpdateField(formdata.ItemField("experience", 0, "company"), "first")
	engine.UpdateField(formdata.ItemField("experience", 1, "company"), "second")
	engine.UpdateField(formdata.ItemField("experience", 2, "company"), "third")

	engine.RemoveItem("experience", 1)
	engine.UpdateField(formdata.ItemField("experience", 1, "company"), "third (edited)")
	engine.AddItem("experience")

	if diff := cmp.Diff([]string{"first", "third (edited)", ""}, companies(t, engine)); diff != "" {
		t.Fatalf("companies mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveItemIgnoresUnknownTargets(t *testing.T) {
	engine := newEngine(t)
	engine.RemoveItem("personal", 0)
	engine.RemoveItem("missing", 0)
	engine.RemoveItem("experience", 7)
	state, _ := engine.Section("experience")
	if len(state.Items) != 1 {
		t.Fatalf("expected one item to remain, got %d", len(state.Items))
	}
}

func TestUpdateFieldCoercesAndNotifies(t *testing.T) {
	engine := newEngine(t)
	var snapshots []formdata.Data
	engine.OnChange(func(data formdata.Data) {
		snapshots = append(snapshots, data)
	})

	engine.UpdateField(formdata.ItemField("experience", 0, "current"), "on")
	engine.UpdateField(formdata.Field("personal", "fullName"), "Ada")
	engine.UpdateField(formdata.Field("hobbies", "list"), "chess")

	if len(snapshots) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(snapshots))
	}
	last := snapshots[2]
	if got, _ := last.Get(formdata.ItemField("experience", 0, "current")); got != true {
		t.Fatalf("checkbox value = %#v", got)
	}
	if got, _ := last.Get(formdata.Field("hobbies", "list")); got != "chess" {
		t.Fatalf("unknown section value = %#v", got)
	}
	state, _ := engine.Section("experience")
	if !state.Items[0].Control("current").Checked() {
		t.Fatalf("checkbox control not updated")
	}
}

func TestDataReturnsDefensiveCopy(t *testing.T) {
	engine := newEngine(t)
	engine.UpdateField(formdata.Field("personal", "fullName"), "Ada")

	snapshot := engine.Data()
	snapshot.Set(formdata.Field("personal", "fullName"), "Mutated")
	snapshot["experience"].Items[0]["company"] = "Mutated"

	if got, _ := engine.Data().Get(formdata.Field("personal", "fullName")); got != "Ada" {
		t.Fatalf("internal state mutated: %v", got)
	}
	if _, ok := engine.Data().Get(formdata.ItemField("experience", 0, "company")); ok {
		t.Fatalf("internal item mutated")
	}
}

func TestSetDataRebuildsItems(t *testing.T) {
	engine := newEngine(t)
	engine.SetData(formdata.Data{
		"personal": {Fields: formdata.Fields{"fullName": "Ada"}},
		"experience": {Items: map[int]formdata.Fields{
			0: {"company": "A"},
			3: {"company": "B", "current": true},
		}},
	})

	state, _ := engine.Section("experience")
	if len(state.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(state.Items))
	}
	if got := state.Items[1].Control("company").Text(); got != "B" {
		t.Fatalf("second item control = %q", got)
	}
	if !state.Items[1].Control("current").Checked() {
		t.Fatalf("checkbox not populated")
	}
	personal, _ := engine.Section("personal")
	if got := personal.Control("fullName").Text(); got != "Ada" {
		t.Fatalf("flat control = %q", got)
	}
	if diff := cmp.Diff([]string{"A", "B"}, companies(t, engine)); diff != "" {
		t.Fatalf("companies mismatch (-want +got):\n%s", diff)
	}

	engine.RemoveItem("experience", 0)
	if diff := cmp.Diff([]string{"B"}, companies(t, engine)); diff != "" {
		t.Fatalf("after remove (-want +got):\n%s", diff)
	}
}

func TestSetDataKeepsAbsentSections(t *testing.T) {
	engine := newEngine(t)
	engine.UpdateField(formdata.ItemField("experience", 0, "company"), "Kept")
	engine.SetData(formdata.Data{"personal": {Fields: formdata.Fields{"fullName": "Ada"}}})

	if diff := cmp.Diff([]string{"Kept"}, companies(t, engine)); diff != "" {
		t.Fatalf("absent section changed (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tpl := &schema.Template{
		ID: "minimal",
		Sections: []schema.SectionSchema{{
			ID:       "personal",
			Name:     "Personal Information",
			Required: true,
			Fields:   []schema.FieldSchema{{Name: "fullName", Label: "Full Name", Required: true}},
		}},
	}
	engine := New()
	if err := engine.Init(tpl); err != nil {
		t.Fatalf("init: %v", err)
	}

	result := engine.Validate()
	if result.IsValid || len(result.Errors) != 1 {
		t.Fatalf("expected one error, got %+v", result)
	}
	if result.Errors[0] != "Personal Information is required" {
		t.Fatalf("unexpected message %q", result.Errors[0])
	}

	engine.UpdateField(formdata.Field("personal", "fullName"), "Ada Lovelace")
	result = engine.Validate()
	if !result.IsValid || len(result.Errors) != 0 || len(result.Warnings) != 0 {
		t.Fatalf("expected valid result, got %+v", result)
	}
}

func TestValidateReportsItemOrdinals(t *testing.T) {
	engine := newEngine(t)
	engine.UpdateField(formdata.Field("personal", "email"), "ada@example.com")
	engine.AddItem("experience")
	engine.UpdateField(formdata.ItemField("experience", 0, "company"), "A")
	engine.UpdateField(formdata.ItemField("experience", 1, "company"), "   ")

	want := []string{
		"Full Name is required in Personal Information",
		"Company is required in Experience 2",
	}
	if diff := cmp.Diff(want, engine.Validate().Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestToggleNotifiesObserver(t *testing.T) {
	var events []string
	engine := New(WithToggleObserver(func(id string, expanded bool) {
		if expanded {
			events = append(events, id+":open")
			return
		}
		events = append(events, id+":closed")
	}))
	if err := engine.Init(sampleTemplate()); err != nil {
		t.Fatalf("init: %v", err)
	}

	engine.Toggle("personal")
	engine.Toggle("personal")
	engine.Toggle("nope")

	if diff := cmp.Diff([]string{"personal:closed", "personal:open"}, events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
	state, _ := engine.Section("personal")
	if state.ToggleGlyph() != "▼" {
		t.Fatalf("expanded glyph = %q", state.ToggleGlyph())
	}
}

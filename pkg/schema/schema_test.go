package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeFillsDerivedValues(t *testing.T) {
	tpl := &Template{
		ID: "modern",
		Sections: []SectionSchema{
			{ID: "personal", Fields: []FieldSchema{{Name: "fullName"}, {Name: "email", Kind: "EMAIL"}}},
			{ID: "portfolio", Name: "Work"},
			{ID: "volunteering"},
		},
	}
	if err := Normalize(tpl); err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if tpl.Name != "Modern" {
		t.Fatalf("template name = %q", tpl.Name)
	}
	gotKinds := []SectionKind{tpl.Sections[0].Kind, tpl.Sections[1].Kind, tpl.Sections[2].Kind}
	wantKinds := []SectionKind{KindPersonal, KindProjects, KindGeneric}
	if diff := cmp.Diff(wantKinds, gotKinds); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
	if got := tpl.Sections[2].Name; got != "Volunteering" {
		t.Fatalf("section name = %q", got)
	}
	field := tpl.Sections[0].Fields[0]
	if field.Label != "Full Name" || field.Kind != FieldText {
		t.Fatalf("unexpected field defaults: %+v", field)
	}
	if tpl.Sections[0].Fields[1].Kind != FieldEmail {
		t.Fatalf("kind not lower-cased: %q", tpl.Sections[0].Fields[1].Kind)
	}
}

func TestNormalizeMissingSectionsIsEmpty(t *testing.T) {
	tpl := &Template{ID: "blank"}
	if err := Normalize(tpl); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(tpl.Sections) != 0 {
		t.Fatalf("expected zero sections, got %d", len(tpl.Sections))
	}
}

func TestNormalizeRejectsMalformedTemplates(t *testing.T) {
	cases := map[string]struct {
		tpl  *Template
		want error
	}{
		"nil":              {tpl: nil, want: ErrNilTemplate},
		"missing id":       {tpl: &Template{}, want: ErrMissingTemplateID},
		"section id":       {tpl: &Template{ID: "x", Sections: []SectionSchema{{Name: "A"}}}, want: ErrMissingSectionID},
		"dup section":      {tpl: &Template{ID: "x", Sections: []SectionSchema{{ID: "a"}, {ID: "a"}}}, want: ErrDuplicateSection},
		"field name":       {tpl: &Template{ID: "x", Sections: []SectionSchema{{ID: "a", Fields: []FieldSchema{{Label: "L"}}}}}, want: ErrMissingFieldName},
		"dup field name":   {tpl: &Template{ID: "x", Sections: []SectionSchema{{ID: "a", Fields: []FieldSchema{{Name: "f"}, {Name: "f"}}}}}, want: ErrDuplicateField},
		"item id overlap":  {tpl: &Template{ID: "x", Sections: []SectionSchema{{ID: "exp_0", Fields: []FieldSchema{{Name: "x"}}}, {ID: "exp", Repeatable: true, Fields: []FieldSchema{{Name: "x"}}}}}, want: ErrAmbiguousSection},
		"field id overlap": {tpl: &Template{ID: "x", Sections: []SectionSchema{{ID: "a", Fields: []FieldSchema{{Name: "b_c"}}}, {ID: "a_b", Fields: []FieldSchema{{Name: "c"}}}}}, want: ErrAmbiguousSection},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if err := Normalize(tc.tpl); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestNormalizeAcceptsSharedPrefixWithoutSeparator(t *testing.T) {
	tpl := &Template{ID: "x", Sections: []SectionSchema{
		{ID: "exp", Repeatable: true, Fields: []FieldSchema{{Name: "x"}}},
		{ID: "expertise", Fields: []FieldSchema{{Name: "x"}}},
		{ID: "exp0", Fields: []FieldSchema{{Name: "x"}}},
	}}
	if err := Normalize(tpl); err != nil {
		t.Fatalf("normalize: %v", err)
	}
}

func TestDisplayName(t *testing.T) {
	summary := SectionSchema{ID: "summary", Name: "Summary"}
	custom := SectionSchema{ID: "languages", Name: "Languages Spoken"}
	if got := summary.DisplayName(); got != "Professional Summary" {
		t.Fatalf("summary display name = %q", got)
	}
	if got := custom.DisplayName(); got != "Languages Spoken" {
		t.Fatalf("custom display name = %q", got)
	}
}

func TestHumanize(t *testing.T) {
	cases := map[string]string{
		"fullName":   "Full Name",
		"start_date": "Start Date",
		"gpa":        "Gpa",
		"address2":   "Address 2",
		"":           "",
	}
	for in, want := range cases {
		if got := Humanize(in); got != want {
			t.Fatalf("Humanize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFieldSchemaAcceptsKindAlias(t *testing.T) {
	var field FieldSchema
	if err := json.Unmarshal([]byte(`{"name":"bio","kind":"textarea"}`), &field); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if field.Kind != FieldTextarea {
		t.Fatalf("kind = %q", field.Kind)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	tpl := &Template{ID: "x", Sections: []SectionSchema{{ID: "a", Fields: []FieldSchema{{Name: "f", Options: []Option{{Value: "1"}}}}}}}
	clone := tpl.Clone()
	clone.Sections[0].Fields[0].Options[0].Value = "2"
	clone.Sections[0].ID = "b"
	if tpl.Sections[0].ID != "a" || tpl.Sections[0].Fields[0].Options[0].Value != "1" {
		t.Fatalf("clone shares state with original")
	}
}

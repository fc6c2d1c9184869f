// Package testsupport holds fixtures and helpers shared by package tests.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/goliatone/go-resumegen/pkg/formdata"
	"github.com/goliatone/go-resumegen/pkg/schema"
	"github.com/goliatone/go-resumegen/pkg/templates"
)

// FixedTime is the instant returned by FixedClock.
var FixedTime = time.Date(2024, time.March, 5, 9, 30, 0, 0, time.UTC)

// FixedClock returns a clock that always reports FixedTime.
func FixedClock() func() time.Time {
	return func() time.Time { return FixedTime }
}

// BuiltinTemplate returns a copy of the embedded template with id.
func BuiltinTemplate(t *testing.T, id string) *schema.Template {
	t.Helper()

	set, err := templates.Builtin()
	if err != nil {
		t.Fatalf("builtin templates: %v", err)
	}
	tpl, ok := set.Get(id)
	if !ok {
		t.Fatalf("builtin template %q not found", id)
	}
	return tpl
}

// SampleData returns resume data matching the built-in modern template, with
// two experience entries.
func SampleData() formdata.Data {
	return formdata.Data{
		"personal": {Fields: formdata.Fields{
			"fullName": "Ada Lovelace",
			"title":    "Analyst",
			"email":    "ada@example.com",
			"phone":    "+44 20 0000 0000",
			"location": "London, UK",
		}},
		"summary": {Fields: formdata.Fields{
			"summary": "Mathematician working on the Analytical Engine.",
		}},
		"experience": {Items: map[int]formdata.Fields{
			0: {
				"jobTitle":    "Analyst",
				"company":     "Analytical Engine Co",
				"startDate":   "1842-01",
				"current":     true,
				"description": "- Wrote the first program\n- Annotated the memoir",
			},
			1: {
				"jobTitle":  "Translator",
				"company":   "Scientific Memoirs",
				"startDate": "1840-06",
				"endDate":   "1841-12",
			},
		}},
		"skills": {Fields: formdata.Fields{
			"technical": "Mathematics, Algorithms",
		}},
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an
// io.Writer, returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}

package templates

import (
	_ "embed"
	"sync"

	"github.com/goliatone/go-resumegen/pkg/schema"
)

//go:embed builtin/templates.yaml
var builtinDocument []byte

var (
	builtinOnce sync.Once
	builtinSet  *Set
	builtinErr  error
)

// Builtin returns the embedded template set (modern, classic, creative).
func Builtin() (*Set, error) {
	builtinOnce.Do(func() {
		builtinSet, builtinErr = Parse(builtinDocument, "builtin/templates.yaml")
	})
	return builtinSet, builtinErr
}

// BuiltinDocument returns the raw embedded document.
func BuiltinDocument() []byte {
	return append([]byte(nil), builtinDocument...)
}

// Fallback returns the minimal set used when configuration cannot be loaded:
// a single modern template with a required personal section.
func Fallback() *Set {
	set, err := NewSet(&schema.Template{
		ID:          "modern",
		Name:        "Modern Professional",
		Description: "Clean and modern design",
		Theme:       "modern",
		Sections: []schema.SectionSchema{{
			ID:       "personal",
			Name:     "Personal Information",
			Required: true,
			Fields: []schema.FieldSchema{
				{Name: "fullName", Label: "Full Name", Kind: schema.FieldText, Required: true},
				{Name: "email", Label: "Email", Kind: schema.FieldEmail, Required: true},
				{Name: "phone", Label: "Phone", Kind: schema.FieldTel, Required: true},
				{Name: "location", Label: "Location", Kind: schema.FieldText},
			},
		}},
	})
	if err != nil {
		panic(err)
	}
	return set
}

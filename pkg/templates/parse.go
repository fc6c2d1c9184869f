package templates

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-resumegen/pkg/schema"
)

//go:embed document.schema.json
var documentSchema string

var (
	schemaOnce     sync.Once
	compiledSchema *gojsonschema.Schema
	schemaErr      error
)

// ErrEmptyDocument is returned for blank input.
var ErrEmptyDocument = errors.New("templates: document is empty")

// ValidationError lists JSON Schema violations of a document.
type ValidationError struct {
	Source   string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("templates: %s failed validation: %s", e.Source, strings.Join(e.Problems, "; "))
}

type documentFile struct {
	Templates []*schema.Template `json:"templates"`
}

// Parse decodes a JSON or YAML template document. name is used in errors.
func Parse(data []byte, name string) (*Set, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, name)
	}

	generic, err := decodeGeneric(data)
	if err != nil {
		return nil, fmt.Errorf("templates: parse %s: %w", name, err)
	}
	if err := validateDocument(generic, name); err != nil {
		return nil, err
	}

	normalized, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("templates: re-encode %s: %w", name, err)
	}

	var list []*schema.Template
	if object, ok := generic.(map[string]any); ok {
		if _, hasList := object["templates"]; hasList {
			var doc documentFile
			if err := json.Unmarshal(normalized, &doc); err != nil {
				return nil, fmt.Errorf("templates: decode %s: %w", name, err)
			}
			list = doc.Templates
		}
	}
	if list == nil {
		var single schema.Template
		if err := json.Unmarshal(normalized, &single); err != nil {
			return nil, fmt.Errorf("templates: decode %s: %w", name, err)
		}
		list = []*schema.Template{&single}
	}

	set, err := NewSet(list...)
	if err != nil {
		return nil, fmt.Errorf("templates: %s: %w", name, err)
	}
	return set, nil
}

// decodeGeneric reads JSON first and falls back to YAML.
func decodeGeneric(data []byte) (any, error) {
	var out any
	if err := json.Unmarshal(data, &out); err == nil {
		return out, nil
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, errors.New("invalid JSON or YAML")
	}
	return out, nil
}

func validateDocument(doc any, name string) error {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(documentSchema))
	})
	if schemaErr != nil {
		return fmt.Errorf("templates: compile document schema: %w", schemaErr)
	}

	result, err := compiledSchema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("templates: validate %s: %w", name, err)
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return &ValidationError{Source: name, Problems: problems}
}

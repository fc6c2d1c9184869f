package form

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-resumegen/pkg/formdata"
	"github.com/goliatone/go-resumegen/pkg/schema"
)

// Result is the outcome of Validate. Warnings is reserved and always empty.
type Result struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Validate checks required sections and fields against the current data.
// Required sections without data produce a single message and are not
// checked further. Sections without data that are not required are skipped.
func (e *Engine) Validate() Result {
	result := Result{Errors: []string{}, Warnings: []string{}}

	for _, state := range e.sections {
		section := state.Schema
		entry := e.data[section.ID]
		if entry.Empty() {
			if section.Required {
				result.Errors = append(result.Errors, fmt.Sprintf("%s is required", section.Name))
			}
			continue
		}

		if section.Repeatable {
			for _, idx := range entry.Indices() {
				result.Errors = append(result.Errors, missingFields(section, entry.Items[idx], fmt.Sprintf(" %d", idx+1))...)
			}
			continue
		}
		result.Errors = append(result.Errors, missingFields(section, entry.Fields, "")...)
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

func missingFields(section schema.SectionSchema, fields formdata.Fields, ordinal string) []string {
	var out []string
	for _, field := range section.Fields {
		if !field.Required || present(fields[field.Name]) {
			continue
		}
		out = append(out, fmt.Sprintf("%s is required in %s%s", field.Label, section.Name, ordinal))
	}
	return out
}

// present treats a false checkbox like a missing value.
func present(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		return strings.TrimSpace(formdata.Text(v)) != ""
	}
}

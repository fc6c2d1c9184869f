package markup

import (
	"strings"

	"github.com/goliatone/go-resumegen/pkg/formdata"
	"github.com/goliatone/go-resumegen/pkg/schema"
)

var skillCategories = []struct {
	field string
	label string
}{
	{"technical", "Technical Skills"},
	{"soft", "Soft Skills"},
	{"design", "Design Skills"},
	{"tools", "Tools & Software"},
	{"skills", "Skills"},
}

func skillsContent(section *schema.SectionSchema, fields formdata.Fields, theme string) string {
	switch theme {
	case ThemeModern:
		return modernSkills(fields)
	case ThemeCreative:
		return flatSkills(section, fields, `<div class="skills-grid">`, `<span class="skill-tag">`, `</span>`)
	default:
		return flatSkills(section, fields, `<div class="skills-list">`, `<div class="skill-item">• `, `</div>`)
	}
}

func modernSkills(fields formdata.Fields) string {
	var b strings.Builder
	for _, category := range skillCategories {
		value := firstText(fields, category.field)
		if value == "" {
			continue
		}
		b.WriteString(`<div class="skills-category"><h4 class="skills-title">`)
		b.WriteString(escape(category.label))
		b.WriteString(`</h4><div class="skills-content">`)
		b.WriteString(escape(value))
		b.WriteString(`</div></div>`)
	}
	if b.Len() == 0 {
		return ""
	}
	return `<div class="skills-grid">` + b.String() + `</div>`
}

func flatSkills(section *schema.SectionSchema, fields formdata.Fields, open, itemOpen, itemClose string) string {
	var b strings.Builder
	for _, value := range stringValues(section, fields) {
		for _, skill := range SplitList(value) {
			b.WriteString(itemOpen)
			b.WriteString(escape(skill))
			b.WriteString(itemClose)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return open + b.String() + `</div>`
}

package markup

import (
	"context"
	"strings"

	"github.com/goliatone/go-resumegen/pkg/formdata"
	"github.com/goliatone/go-resumegen/pkg/render"
	"github.com/goliatone/go-resumegen/pkg/schema"
)

// Theme names with dedicated skills layouts.
const (
	ThemeModern   = "modern"
	ThemeClassic  = "classic"
	ThemeCreative = "creative"
)

// Name is the registry name of the markup renderer.
const Name = "html"

// Renderer exposes Generate through the render.Renderer contract.
type Renderer struct{}

// New returns the markup renderer.
func New() *Renderer {
	return &Renderer{}
}

var _ render.Renderer = (*Renderer)(nil)

func (r *Renderer) Name() string        { return Name }
func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render writes the resume fragment for in.
func (r *Renderer) Render(ctx context.Context, in render.Input) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []byte(Generate(in.Template, in.Data, in.Theme)), nil
}

// Generate renders the resume. Section layouts follow the section ids, so
// templates that never went through schema.Normalize render the same way.
func Generate(tpl *schema.Template, data formdata.Data, theme string) string {
	if tpl == nil || len(data) == 0 {
		return EmptyState
	}

	var b strings.Builder
	b.WriteString(`<div class="resume-content theme-`)
	b.WriteString(escape(theme))
	b.WriteString(`">`)
	writeHeader(&b, data.Section("personal"))
	for _, section := range tpl.Sections {
		section.Kind = schema.ResolveKind(section.ID)
		if section.Kind == schema.KindPersonal {
			continue
		}
		entry := data.Section(section.ID)
		if entry.Empty() {
			continue
		}
		writeSection(&b, &section, entry, theme)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func writeHeader(b *strings.Builder, entry *formdata.Entry) {
	if entry == nil || len(entry.Fields) == 0 {
		return
	}
	personal := entry.Fields
	name := personal.Text("fullName")
	title := firstText(personal, "title", "jobTitle")

	b.WriteString(`<div class="resume-header">`)
	if name != "" {
		b.WriteString(`<h1 class="resume-name">` + escape(name) + `</h1>`)
	}
	if title != "" {
		b.WriteString(`<div class="resume-title">` + escape(title) + `</div>`)
	}
	if contact := contactInfo(personal); contact != "" {
		b.WriteString(`<div class="resume-contact">` + contact + `</div>`)
	}
	b.WriteString(`</div>`)
}

func contactInfo(personal formdata.Fields) string {
	var b strings.Builder
	item := func(icon, text string) {
		b.WriteString(`<div class="contact-item">`)
		b.WriteString(icon)
		b.WriteString(`<span>` + text + `</span></div>`)
	}
	if v := personal.Text("email"); v != "" {
		item(iconEmail, escape(v))
	}
	if v := personal.Text("phone"); v != "" {
		item(iconPhone, escape(v))
	}
	if v := personal.Text("location"); v != "" {
		item(iconLocation, escape(v))
	}
	if v := firstText(personal, "website", "portfolio"); v != "" {
		item(iconWebsite, escape(v))
	}
	if personal.Text("linkedin") != "" {
		item(iconLinkedIn, "LinkedIn")
	}
	return b.String()
}

func writeSection(b *strings.Builder, section *schema.SectionSchema, entry *formdata.Entry, theme string) {
	var content string
	if section.Repeatable {
		content = repeatableContent(section, entry)
	} else {
		content = singleContent(section, entry.Fields, theme)
	}
	if content == "" {
		return
	}
	b.WriteString(`<div class="resume-section" data-section="` + escape(section.ID) + `">`)
	b.WriteString(`<h2 class="section-title">` + escape(section.DisplayName()) + `</h2>`)
	b.WriteString(content)
	b.WriteString(`</div>`)
}

func repeatableContent(section *schema.SectionSchema, entry *formdata.Entry) string {
	items := entry.Items
	if items == nil && len(entry.Fields) > 0 {
		items = map[int]formdata.Fields{0: entry.Fields}
	}
	class := escape(section.ID) + "-item"

	var b strings.Builder
	for _, idx := range formdata.Indices(items) {
		item := items[idx]
		if len(item) == 0 {
			continue
		}
		switch section.Kind {
		case schema.KindExperience:
			writeExperience(&b, item, class)
		case schema.KindEducation:
			writeEducation(&b, item, class)
		case schema.KindProjects:
			writeProject(&b, item, class)
		case schema.KindCertification:
			writeCertification(&b, item, class)
		default:
			writeGenericItem(&b, section, item, class)
		}
	}
	return b.String()
}

func singleContent(section *schema.SectionSchema, fields formdata.Fields, theme string) string {
	switch section.Kind {
	case schema.KindSummary:
		text := firstText(fields, "summary", "objective", "about")
		if text == "" {
			return ""
		}
		return `<div class="section-content">` + FormatDescription(text) + `</div>`
	case schema.KindSkills:
		return skillsContent(section, fields, theme)
	default:
		text := strings.Join(stringValues(section, fields), " ")
		if text == "" {
			return ""
		}
		return `<div class="section-content">` + FormatDescription(text) + `</div>`
	}
}

func writeItemHeader(b *strings.Builder, title, subtitle, aside string) {
	b.WriteString(`<div class="item-header"><div>`)
	if title != "" {
		b.WriteString(`<h3 class="item-title">` + escape(title) + `</h3>`)
	}
	if subtitle != "" {
		b.WriteString(`<div class="item-subtitle">` + subtitle + `</div>`)
	}
	b.WriteString(`</div>`)
	if aside != "" {
		b.WriteString(`<div class="item-date">` + aside + `</div>`)
	}
	b.WriteString(`</div>`)
}

// placeLine renders "org, location" with both parts escaped.
func placeLine(org, location string) string {
	if org == "" {
		return ""
	}
	if location == "" {
		return escape(org)
	}
	return escape(org) + ", " + escape(location)
}

func writeExperience(b *strings.Builder, item formdata.Fields, class string) {
	dates := FormatDateRange(item.Text("startDate"), item.Text("endDate"), item.Bool("current"))
	b.WriteString(`<div class="` + class + `">`)
	writeItemHeader(b, item.Text("jobTitle"), placeLine(item.Text("company"), item.Text("location")), escape(dates))
	if desc := item.Text("description"); desc != "" {
		b.WriteString(`<div class="item-description">` + FormatDescription(desc) + `</div>`)
	}
	b.WriteString(`</div>`)
}

func writeEducation(b *strings.Builder, item formdata.Fields, class string) {
	graduated := FormatDate(item.Text("graduationDate"))
	b.WriteString(`<div class="` + class + `">`)
	writeItemHeader(b, item.Text("degree"), placeLine(item.Text("school"), item.Text("location")), escape(graduated))
	gpa, honors := item.Text("gpa"), item.Text("honors")
	if gpa != "" || honors != "" {
		b.WriteString(`<div class="item-description">`)
		if gpa != "" {
			b.WriteString(`<p><strong>GPA:</strong> ` + escape(gpa) + `</p>`)
		}
		if honors != "" {
			b.WriteString(`<p><strong>Honors:</strong> ` + escape(honors) + `</p>`)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
}

func writeProject(b *strings.Builder, item formdata.Fields, class string) {
	var link string
	if target := item.Text("url"); target != "" {
		link = `<a href="` + safeHref(target) + `" target="_blank">View Project</a>`
	}
	b.WriteString(`<div class="` + class + `">`)
	writeItemHeader(b, item.Text("name"), escape(item.Text("role")), link)
	if desc := item.Text("description"); desc != "" {
		b.WriteString(`<div class="item-description">` + FormatDescription(desc) + `</div>`)
	}
	if tech := item.Text("technologies"); tech != "" {
		b.WriteString(`<div class="item-description"><strong>Technologies:</strong> ` + escape(tech) + `</div>`)
	}
	b.WriteString(`</div>`)
}

func writeCertification(b *strings.Builder, item formdata.Fields, class string) {
	b.WriteString(`<div class="` + class + `">`)
	writeItemHeader(b, item.Text("name"), escape(item.Text("issuer")), escape(FormatDate(item.Text("date"))))
	b.WriteString(`</div>`)
}

func writeGenericItem(b *strings.Builder, section *schema.SectionSchema, item formdata.Fields, class string) {
	title := firstText(item, "title", "name")
	if title == "" {
		if values := stringValues(section, item); len(values) > 0 {
			title = values[0]
		}
	}
	subtitle := firstText(item, "subtitle", "company", "organization")
	desc := item.Text("description")

	b.WriteString(`<div class="` + class + `">`)
	if title != "" {
		b.WriteString(`<h3 class="item-title">` + escape(title) + `</h3>`)
	}
	if subtitle != "" {
		b.WriteString(`<div class="item-subtitle">` + escape(subtitle) + `</div>`)
	}
	if desc != "" {
		b.WriteString(`<div class="item-description">` + FormatDescription(desc) + `</div>`)
	}
	b.WriteString(`</div>`)
}

func firstText(fields formdata.Fields, names ...string) string {
	for _, name := range names {
		if v, ok := fields[name].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// stringValues returns the non-empty string values of fields in the
// section's field order, then remaining keys lexically.
func stringValues(section *schema.SectionSchema, fields formdata.Fields) []string {
	var out []string
	for _, key := range fields.OrderedKeys(section.FieldNames()) {
		if v, ok := fields[key].(string); ok && v != "" {
			out = append(out, v)
		}
	}
	return out
}

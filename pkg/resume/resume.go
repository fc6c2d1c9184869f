package resume

import (
	"regexp"
	"strings"
	"time"

	"github.com/goliatone/go-resumegen/pkg/formdata"
	"github.com/goliatone/go-resumegen/pkg/renderers/markup"
	"github.com/goliatone/go-resumegen/pkg/schema"
)

// DefaultTheme is used until SetTheme is called.
const DefaultTheme = markup.ThemeModern

// Resume holds the template, form data and theme used to render one resume.
type Resume struct {
	template *schema.Template
	data     formdata.Data
	theme    string
	now      func() time.Time
}

// Option configures a Resume.
type Option func(*Resume)

// WithClock overrides the clock used for metadata timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Resume) {
		if now != nil {
			r.now = now
		}
	}
}

// New returns an empty resume using the modern theme.
func New(options ...Option) *Resume {
	r := &Resume{
		data:  formdata.New(),
		theme: DefaultTheme,
		now:   time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// SetTemplate stores a copy of tpl with section kinds resolved.
func (r *Resume) SetTemplate(tpl *schema.Template) {
	clone := tpl.Clone()
	schema.ResolveKinds(clone)
	r.template = clone
}

// SetData stores a copy of data.
func (r *Resume) SetData(data formdata.Data) {
	r.data = data.Clone()
	if r.data == nil {
		r.data = formdata.New()
	}
}

// SetTheme selects the rendering style.
func (r *Resume) SetTheme(theme string) {
	r.theme = theme
}

// Template returns a copy of the current template, or nil.
func (r *Resume) Template() *schema.Template {
	return r.template.Clone()
}

// Data returns a copy of the current data.
func (r *Resume) Data() formdata.Data {
	return r.data.Clone()
}

// Theme returns the current theme name.
func (r *Resume) Theme() string {
	return r.theme
}

// Markup renders the resume. The result depends only on template, data and
// theme.
func (r *Resume) Markup() string {
	return markup.Generate(r.template, r.data, r.theme)
}

// HasContent reports whether any section carries data.
func (r *Resume) HasContent() bool {
	return HasContent(r.data)
}

// HasContent reports whether data holds at least one non-empty section.
func HasContent(data formdata.Data) bool {
	for _, entry := range data {
		if !entry.Empty() {
			return true
		}
	}
	return false
}

// OwnerName returns the personal fullName value, if any.
func (r *Resume) OwnerName() string {
	return OwnerName(r.data)
}

// OwnerName returns the trimmed personal fullName of data.
func OwnerName(data formdata.Data) string {
	return ownerField(data, "fullName")
}

func ownerField(data formdata.Data, field string) string {
	entry := data.Section("personal")
	if entry == nil {
		return ""
	}
	return strings.TrimSpace(entry.Fields.Text(field))
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Filename derives the export file name from the owner's name.
func (r *Resume) Filename() string {
	return Filename(r.OwnerName())
}

// Filename replaces every non alphanumeric character of fullName with an
// underscore and appends "_Resume.pdf"; without a name it returns
// "Resume.pdf".
func Filename(fullName string) string {
	if fullName == "" {
		return "Resume.pdf"
	}
	return nonAlnum.ReplaceAllString(fullName, "_") + "_Resume.pdf"
}

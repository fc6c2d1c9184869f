package markup

import (
	"html"
	"net/url"
	"strconv"
	"strings"
)

var monthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// FormatDate renders "YYYY-MM" as "Mon YYYY" and "YYYY" unchanged. Empty input
// renders empty and anything it cannot interpret is returned as given.
func FormatDate(value string) string {
	if value == "" {
		return ""
	}
	parts := strings.Split(value, "-")
	year := parts[0]
	if year == "" {
		return ""
	}
	if len(parts) == 1 {
		return year
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return value
	}
	return monthNames[month-1] + " " + year
}

// FormatDateRange joins formatted start and end dates with " - ". current
// forces the end label to "Present".
func FormatDateRange(start, end string, current bool) string {
	from := FormatDate(start)
	to := FormatDate(end)
	if current {
		to = "Present"
	}
	switch {
	case from == "" && to == "":
		return ""
	case from == "":
		return to
	case to == "":
		return from
	}
	return from + " - " + to
}

// FormatDescription converts free text into paragraphs and bullet lists.
// Lines starting with •, - or * become list items; adjacent items share one
// list.
func FormatDescription(text string) string {
	if text == "" {
		return ""
	}
	var (
		b      strings.Builder
		inList bool
	)
	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if item, ok := bulletText(line); ok {
			if !inList {
				b.WriteString("<ul>")
				inList = true
			}
			b.WriteString("<li>")
			b.WriteString(escape(item))
			b.WriteString("</li>")
			continue
		}
		if inList {
			b.WriteString("</ul>")
			inList = false
		}
		b.WriteString("<p>")
		b.WriteString(escape(line))
		b.WriteString("</p>")
	}
	if inList {
		b.WriteString("</ul>")
	}
	return b.String()
}

func bulletText(line string) (string, bool) {
	for _, glyph := range []string{"•", "-", "*"} {
		if strings.HasPrefix(line, glyph) {
			return strings.TrimSpace(strings.TrimPrefix(line, glyph)), true
		}
	}
	return "", false
}

// SplitList splits a comma separated list, trimming entries and dropping
// empty ones.
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func escape(value string) string {
	return html.EscapeString(value)
}

// safeHref escapes a link target and neutralises non web schemes.
func safeHref(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "#"
	}
	switch strings.ToLower(parsed.Scheme) {
	case "", "http", "https", "mailto":
		return escape(trimmed)
	}
	return "#"
}

package schema

import (
	"strings"
	"unicode"
)

// Humanize turns an identifier such as "fullName", "start_date" or
// "tools-and-software" into a Title Case label.
func Humanize(id string) string {
	words := splitIdentifier(id)
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func splitIdentifier(id string) []string {
	var (
		words   []string
		current []rune
	)
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	runes := []rune(id)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
			continue
		case i > 0 && wordBoundary(runes[i-1], r):
			flush()
		}
		current = append(current, r)
	}
	flush()
	return words
}

func wordBoundary(prev, r rune) bool {
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(r):
		return true
	case unicode.IsLetter(prev) && unicode.IsDigit(r):
		return true
	case unicode.IsDigit(prev) && unicode.IsLetter(r):
		return true
	}
	return false
}

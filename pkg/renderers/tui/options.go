package tui

import "go.uber.org/zap"

// Theme captures optional prefixes the filler applies to messages.
type Theme struct {
	SectionPrefix string
	InfoPrefix    string
	ErrorPrefix   string
}

// DefaultTheme is applied when WithTheme is not used.
var DefaultTheme = Theme{SectionPrefix: "== ", InfoPrefix: "", ErrorPrefix: "! "}

// Option configures the Filler.
type Option func(*Filler)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(f *Filler) {
		f.theme = theme
	}
}

// WithSections restricts prompting to the listed section ids.
func WithSections(ids ...string) Option {
	return func(f *Filler) {
		if len(ids) == 0 {
			f.only = nil
			return
		}
		f.only = make(map[string]struct{}, len(ids))
		for _, id := range ids {
			f.only[id] = struct{}{}
		}
	}
}

// WithMaxItems bounds how many items a repeatable section can collect.
// Zero means unbounded.
func WithMaxItems(n int) Option {
	return func(f *Filler) {
		if n >= 0 {
			f.maxItems = n
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Filler) {
		if logger != nil {
			f.logger = logger
		}
	}
}

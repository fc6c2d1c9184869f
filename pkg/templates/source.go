package templates

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// SourceKind enumerates where a template document comes from.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// Source identifies a template document location.
type Source struct {
	Kind     SourceKind
	Location string
}

func (s Source) String() string {
	return string(s.Kind) + ":" + s.Location
}

// FromFile points at a document on disk.
func FromFile(path string) Source {
	return Source{Kind: SourceKindFile, Location: filepath.Clean(path)}
}

// FromFS points at a file or directory inside the loader's fs.FS.
func FromFS(name string) Source {
	if name == "" {
		name = "."
	}
	return Source{Kind: SourceKindFS, Location: name}
}

// FromURL validates raw and points at an HTTP(S) document.
func FromURL(raw string) (Source, error) {
	parsed, err := url.ParseRequestURI(strings.TrimSpace(raw))
	if err != nil {
		return Source{}, fmt.Errorf("templates: invalid url %q: %w", raw, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return Source{}, fmt.Errorf("templates: unsupported url scheme %q", parsed.Scheme)
	}
	return Source{Kind: SourceKindURL, Location: parsed.String()}, nil
}

// Package themes registers the resume themes as go-theme manifests and
// resolves a theme name into the renderer configuration used by the document
// renderer.
package themes

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

const (
	Modern   = "modern"
	Classic  = "classic"
	Creative = "creative"

	// Default is used whenever a theme name is empty or unknown.
	Default = Modern

	// PrintVariant tightens spacing for paged output.
	PrintVariant = "print"

	// DocumentPartial names the page template each manifest points at.
	DocumentPartial = "resume.document"
)

// ErrUnknownTheme is returned by Lookup for unregistered names.
var ErrUnknownTheme = errors.New("themes: unknown theme")

// Catalog holds the registered manifests.
type Catalog struct {
	mu        sync.RWMutex
	provider  manifestRegistry
	manifests map[string]*theme.Manifest
	order     []string
}

type manifestRegistry interface {
	Register(manifest *theme.Manifest) error
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// DefaultCatalog returns a shared catalog holding the built-in themes.
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = NewCatalog()
		for _, manifest := range Builtin() {
			if err := defaultCatalog.Register(manifest); err != nil {
				panic(err)
			}
		}
	})
	return defaultCatalog
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		provider:  theme.NewRegistry(),
		manifests: make(map[string]*theme.Manifest),
	}
}

// Register adds a manifest. Names are case-insensitive.
func (c *Catalog) Register(manifest *theme.Manifest) error {
	if manifest == nil {
		return errors.New("themes: nil manifest")
	}
	name := strings.ToLower(strings.TrimSpace(manifest.Name))
	if name == "" {
		return errors.New("themes: manifest name is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.manifests[name]; exists {
		return fmt.Errorf("themes: theme %q already registered", name)
	}
	if err := c.provider.Register(manifest); err != nil {
		return fmt.Errorf("themes: register %q: %w", name, err)
	}
	c.manifests[name] = manifest
	c.order = append(c.order, name)
	return nil
}

// Names lists registered themes in registration order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

// Has reports whether name is registered.
func (c *Catalog) Has(name string) bool {
	_, err := c.Lookup(name)
	return err == nil
}

// Lookup returns the manifest registered under name.
func (c *Catalog) Lookup(name string) (*theme.Manifest, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	c.mu.RLock()
	defer c.mu.RUnlock()
	manifest, ok := c.manifests[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	return manifest, nil
}

// Normalize maps name onto a registered theme, falling back to Default.
func (c *Catalog) Normalize(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if c.Has(key) {
		return key
	}
	return Default
}

// Select implements theme.ThemeSelector over the catalog. Unknown themes fall
// back to Default; unknown variants resolve to the base manifest.
func (c *Catalog) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	resolved := c.Normalize(name)
	manifest, err := c.Lookup(resolved)
	if err != nil {
		return nil, err
	}
	if _, ok := manifest.Variants[variant]; !ok {
		variant = ""
	}
	return &theme.Selection{Theme: resolved, Variant: variant, Manifest: manifest}, nil
}

// RendererConfig merges base and variant tokens, templates, and assets into
// the config handed to renderers.
func RendererConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest

	tokens := copyMap(manifest.Tokens)
	partials := copyMap(manifest.Templates)
	prefix := manifest.Assets.Prefix
	files := copyMap(manifest.Assets.Files)

	if v, ok := manifest.Variants[selection.Variant]; ok {
		mergeInto(tokens, v.Tokens)
		mergeInto(partials, v.Templates)
		mergeInto(files, v.Assets.Files)
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  CSSVars(tokens),
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		},
	}
}

// Resolve selects name/variant and returns its renderer config.
func (c *Catalog) Resolve(name, variant string) (*theme.RendererConfig, error) {
	selection, err := c.Select(name, variant)
	if err != nil {
		return nil, err
	}
	return RendererConfig(selection), nil
}

// CSSVars derives custom properties from tokens ("accent" -> "--accent").
func CSSVars(tokens map[string]string) map[string]string {
	if len(tokens) == 0 {
		return nil
	}
	out := make(map[string]string, len(tokens))
	for key, value := range tokens {
		out["--"+strings.TrimPrefix(key, "--")] = value
	}
	return out
}

// InlineStyle renders vars as a sorted `--a: x; --b: y;` declaration list.
func InlineStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteByte(';')
	}
	return b.String()
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func mergeInto(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}

package components

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-resumegen/pkg/form"
	rendertemplate "github.com/goliatone/go-resumegen/pkg/render/template"
)

// Renderer writes the HTML of one control into buf.
type Renderer func(buf *bytes.Buffer, control *form.Control, data ComponentData) error

// ComponentData carries helpers available to component renderers.
type ComponentData struct {
	Template rendertemplate.TemplateRenderer
	Config   map[string]any
}

// Descriptor bundles a renderer with the stylesheets it depends on.
type Descriptor struct {
	Name        string
	Renderer    Renderer
	Stylesheets []string
}

// Registry tracks component descriptors keyed by name.
type Registry struct {
	mu         sync.RWMutex
	components map[string]Descriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{components: make(map[string]Descriptor)}
}

// Clone returns an independent copy so callers can override entries.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := New()
	for name, descriptor := range r.components {
		descriptor.Stylesheets = slices.Clone(descriptor.Stylesheets)
		cloned.components[name] = descriptor
	}
	return cloned
}

// Register associates descriptor with name, replacing existing entries.
func (r *Registry) Register(name string, descriptor Descriptor) error {
	if name = normalize(name); name == "" {
		return fmt.Errorf("components: component name is required")
	}
	if descriptor.Renderer == nil {
		return fmt.Errorf("components: renderer for %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	descriptor.Name = name
	descriptor.Stylesheets = slices.Clone(descriptor.Stylesheets)
	r.components[name] = descriptor
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(name string, descriptor Descriptor) {
	if err := r.Register(name, descriptor); err != nil {
		panic(err)
	}
}

// Descriptor fetches a descriptor by name.
func (r *Registry) Descriptor(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.components[normalize(name)]
	return descriptor, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Stylesheets returns the de-duplicated stylesheets of the named components.
func (r *Registry) Stylesheets(names []string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	seen := make(map[string]struct{})
	for _, name := range names {
		for _, href := range r.components[normalize(name)].Stylesheets {
			if _, dup := seen[href]; dup || href == "" {
				continue
			}
			seen[href] = struct{}{}
			out = append(out, href)
		}
	}
	return out
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

package templates

import "github.com/goliatone/go-resumegen/pkg/schema"

// Set is an ordered collection of normalised templates with unique ids.
type Set struct {
	templates []*schema.Template
	byID      map[string]*schema.Template
}

// NewSet normalises and indexes the given templates.
func NewSet(list ...*schema.Template) (*Set, error) {
	set := &Set{byID: make(map[string]*schema.Template, len(list))}
	for _, tpl := range list {
		clone := tpl.Clone()
		if err := schema.Normalize(clone); err != nil {
			return nil, err
		}
		if _, dup := set.byID[clone.ID]; dup {
			return nil, &DuplicateError{ID: clone.ID}
		}
		set.templates = append(set.templates, clone)
		set.byID[clone.ID] = clone
	}
	return set, nil
}

// DuplicateError reports two templates sharing an id.
type DuplicateError struct {
	ID string
}

func (e *DuplicateError) Error() string {
	return "templates: duplicate template id " + e.ID
}

// Get returns a copy of the template with id.
func (s *Set) Get(id string) (*schema.Template, bool) {
	if s == nil {
		return nil, false
	}
	tpl, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return tpl.Clone(), true
}

// Default returns a copy of the first template, or nil for an empty set.
func (s *Set) Default() *schema.Template {
	if s == nil || len(s.templates) == 0 {
		return nil
	}
	return s.templates[0].Clone()
}

// List returns copies of every template in document order.
func (s *Set) List() []*schema.Template {
	if s == nil {
		return nil
	}
	out := make([]*schema.Template, 0, len(s.templates))
	for _, tpl := range s.templates {
		out = append(out, tpl.Clone())
	}
	return out
}

// IDs returns template ids in document order.
func (s *Set) IDs() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.templates))
	for _, tpl := range s.templates {
		out = append(out, tpl.ID)
	}
	return out
}

// Len reports the number of templates.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.templates)
}

// Merge returns a set with the templates of s followed by those of other.
func (s *Set) Merge(other *Set) (*Set, error) {
	return NewSet(append(s.List(), other.List()...)...)
}

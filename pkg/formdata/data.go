package formdata

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Fields is a flat field-name to value mapping. Values are string or bool.
type Fields map[string]any

// Entry is the data stored for one section. Items is non-nil for repeatable
// sections; Fields is used otherwise.
type Entry struct {
	Fields Fields
	Items  map[int]Fields
}

// Data maps section ids to their entries.
type Data map[string]*Entry

// New returns an empty Data value.
func New() Data {
	return make(Data)
}

// Repeatable reports whether the entry stores indexed items.
func (e *Entry) Repeatable() bool {
	return e != nil && e.Items != nil
}

// Empty reports whether the entry carries no keys at all.
func (e *Entry) Empty() bool {
	if e == nil {
		return true
	}
	return len(e.Fields) == 0 && len(e.Items) == 0
}

// Indices returns item indices in ascending order.
func (e *Entry) Indices() []int {
	if e == nil {
		return nil
	}
	return Indices(e.Items)
}

// Indices returns the keys of items in ascending order.
func Indices(items map[int]Fields) []int {
	if len(items) == 0 {
		return nil
	}
	out := make([]int, 0, len(items))
	for idx := range items {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	out := &Entry{Fields: e.Fields.Clone()}
	if e.Items != nil {
		out.Items = make(map[int]Fields, len(e.Items))
		for idx, item := range e.Items {
			out.Items[idx] = item.Clone()
			if out.Items[idx] == nil {
				out.Items[idx] = Fields{}
			}
		}
	}
	return out
}

// Clone returns a copy of the field map.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Text returns the value of name as text. Booleans become "true"/"false",
// missing values the empty string.
func (f Fields) Text(name string) string {
	return Text(f[name])
}

// Bool returns the boolean value of name. Strings equal to "true" or "on"
// count as true.
func (f Fields) Bool(name string) bool {
	return Bool(f[name])
}

// Bool converts a stored value to a boolean.
func Bool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		lower := strings.ToLower(strings.TrimSpace(v))
		return lower == "true" || lower == "on"
	}
	return false
}

// Text converts a stored value to text.
func Text(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// Normalize coerces incoming values into the stored scalar types. Numbers and
// other scalars become strings.
func Normalize(value any) any {
	switch v := value.(type) {
	case nil:
		return ""
	case string, bool:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Clone returns an independent deep copy of d.
func (d Data) Clone() Data {
	if d == nil {
		return nil
	}
	out := make(Data, len(d))
	for id, entry := range d {
		out[id] = entry.Clone()
	}
	return out
}

// Get returns the value stored at key.
func (d Data) Get(key Key) (any, bool) {
	entry, ok := d[key.Section]
	if !ok || entry == nil {
		return nil, false
	}
	if key.HasItem() {
		item, ok := entry.Items[key.Item]
		if !ok {
			return nil, false
		}
		v, ok := item[key.Field]
		return v, ok
	}
	v, ok := entry.Fields[key.Field]
	return v, ok
}

// Set writes value at key, creating intermediate entries as needed.
func (d Data) Set(key Key, value any) {
	entry := d[key.Section]
	if entry == nil {
		entry = &Entry{}
		d[key.Section] = entry
	}
	value = Normalize(value)
	if key.HasItem() {
		if entry.Items == nil {
			entry.Items = make(map[int]Fields)
		}
		item := entry.Items[key.Item]
		if item == nil {
			item = Fields{}
			entry.Items[key.Item] = item
		}
		item[key.Field] = value
		return
	}
	if entry.Fields == nil {
		entry.Fields = Fields{}
	}
	entry.Fields[key.Field] = value
}

// Section returns the entry for id, or nil.
func (d Data) Section(id string) *Entry {
	return d[id]
}

// OrderedKeys returns the keys of f: known names first in the given order,
// then any remaining keys lexically.
func (f Fields) OrderedKeys(known []string) []string {
	out := make([]string, 0, len(f))
	seen := make(map[string]struct{}, len(known))
	for _, name := range known {
		if _, ok := f[name]; ok {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	var extra []string
	for name := range f {
		if _, ok := seen[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

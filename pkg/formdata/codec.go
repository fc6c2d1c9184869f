package formdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// MarshalJSON writes the wire shape used by saved snapshots: repeatable
// entries become objects keyed by the decimal item index.
func (d Data) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d))
	for id, entry := range d {
		if entry == nil {
			continue
		}
		if entry.Items != nil {
			items := make(map[string]Fields, len(entry.Items))
			for idx, item := range entry.Items {
				if item == nil {
					item = Fields{}
				}
				items[strconv.Itoa(idx)] = item
			}
			out[id] = items
			continue
		}
		fields := entry.Fields
		if fields == nil {
			fields = Fields{}
		}
		out[id] = fields
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the wire shape. A section object whose keys are all
// non-negative integers mapping to objects is decoded as repeatable items.
// Non-scalar field values are dropped; numbers become strings.
func (d *Data) UnmarshalJSON(raw []byte) error {
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sections); err != nil {
		return fmt.Errorf("formdata: decode: %w", err)
	}
	out := make(Data, len(sections))
	for id, body := range sections {
		entry, err := decodeEntry(body)
		if err != nil {
			return fmt.Errorf("formdata: decode section %q: %w", id, err)
		}
		if entry != nil {
			out[id] = entry
		}
	}
	*d = out
	return nil
}

func decodeEntry(body json.RawMessage) (*Entry, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &members); err != nil {
		return nil, err
	}

	if looksIndexed(members) {
		entry := &Entry{Items: make(map[int]Fields, len(members))}
		for key, itemBody := range members {
			idx, _ := strconv.Atoi(key)
			fields, err := decodeFields(itemBody)
			if err != nil {
				return nil, err
			}
			entry.Items[idx] = fields
		}
		return entry, nil
	}

	fields, err := decodeFields(trimmed)
	if err != nil {
		return nil, err
	}
	return &Entry{Fields: fields}, nil
}

func looksIndexed(members map[string]json.RawMessage) bool {
	if len(members) == 0 {
		return false
	}
	for key, body := range members {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || strconv.Itoa(idx) != key {
			return false
		}
		trimmed := bytes.TrimSpace(body)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return false
		}
	}
	return true
}

func decodeFields(body json.RawMessage) (Fields, error) {
	var values map[string]any
	if err := json.Unmarshal(body, &values); err != nil {
		return nil, err
	}
	fields := make(Fields, len(values))
	for name, value := range values {
		switch value.(type) {
		case map[string]any, []any:
			continue
		}
		fields[name] = Normalize(value)
	}
	return fields, nil
}

package formdata

import "strconv"

// NoItem marks a Key that addresses a non-repeatable section.
const NoItem = -1

// Key addresses a single field value.
type Key struct {
	Section string
	Item    int
	Field   string
}

// Field builds a key for a non-repeatable section field.
func Field(section, field string) Key {
	return Key{Section: section, Item: NoItem, Field: field}
}

// ItemField builds a key for a field of a repeatable section item.
func ItemField(section string, item int, field string) Key {
	return Key{Section: section, Item: item, Field: field}
}

// HasItem reports whether the key addresses a repeatable item.
func (k Key) HasItem() bool {
	return k.Item >= 0
}

// ElementID formats the identifier used for rendered controls: section_field
// or section_index_field. Ids are unique within any template accepted by
// schema.Normalize, which rejects section ids that extend another with "_".
func (k Key) ElementID() string {
	if k.HasItem() {
		return k.Section + "_" + strconv.Itoa(k.Item) + "_" + k.Field
	}
	return k.Section + "_" + k.Field
}

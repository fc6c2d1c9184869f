// Package form builds editable form state from a resume template and keeps the
// live form data synchronised with it.
//
// The Engine owns one SectionState per template section. Repeatable sections
// hold an ordered list of ItemState values; each item is bound to its own data
// slot so that removing an item and reindexing the rest moves data with the
// item rather than with its position. UI drivers (HTML, terminal) read the
// Sections view and report edits back through UpdateField, AddItem and
// RemoveItem.
package form

// Package formdata holds the live answer set of a resume form.
//
// Data is keyed by section id. A section entry either carries a flat set of
// field values (non-repeatable sections) or a set of items keyed by a
// zero-based index (repeatable sections). Values are strings or booleans.
// Fields are addressed with a structured Key instead of formatted element ids.
package formdata

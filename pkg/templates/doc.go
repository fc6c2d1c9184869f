// Package templates loads resume template sets from files, fs.FS trees or
// URLs. Documents may be JSON or YAML and hold either a single template or a
// {"templates": [...]} list. Every document is checked against an embedded
// JSON Schema before it is decoded, and every template is normalised.
//
// When loading fails callers can fall back to Fallback, a minimal built-in
// set that keeps an editing session usable.
package templates

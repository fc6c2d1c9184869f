// Package template defines the engine interface used by the page renderers
// (printable document, editable form page). The gotemplate subpackage
// provides the pongo2-backed implementation.
package template

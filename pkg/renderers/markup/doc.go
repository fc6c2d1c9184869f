// Package markup projects a template, its form data and a theme name into
// resume HTML. Output is deterministic and every user supplied value is
// escaped before it is written.
package markup

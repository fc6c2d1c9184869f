package tui

import "errors"

// ErrAborted signals the user aborted input (e.g., Ctrl+C).
var ErrAborted = errors.New("tui: aborted")

// ErrNoForm is returned when Fill is called without an initialised engine.
var ErrNoForm = errors.New("tui: form engine has no template")

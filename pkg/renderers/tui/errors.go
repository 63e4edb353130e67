package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoChoice is returned when a prompt is shown without options.
	ErrNoChoice = errors.New("tui: no options to choose from")
)

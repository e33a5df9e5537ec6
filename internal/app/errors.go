package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrAlreadyRunning indicates Run was called while a run is active.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrUnknownSource indicates an unrecognised picture source.
	ErrUnknownSource = errors.New("unknown source")

	// ErrMissingPath indicates a file-based source without a path.
	ErrMissingPath = errors.New("source needs a file path")
)

// InitError reports a component that failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initializing %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// RenderError reports a source that could not be turned into a frame.
type RenderError struct {
	Source Source
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering %s: %v", e.Source, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

package script

import (
	"errors"
	"fmt"
)

// Errors for script execution.
var (
	// ErrStateClosed is returned when running on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrCallLimit is returned when a script makes too many gt calls.
	ErrCallLimit = errors.New("script call limit exceeded")
)

// Error is a failed script run.
type Error struct {
	// Chunk names the script, usually its path.
	Chunk string
	// Err is the buffer error the script raised, or the Lua error itself.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("script %s: %v", e.Chunk, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

package core

import (
	"errors"
	"fmt"
)

// Errors returned by buffer operations.
var (
	// ErrInvalidDimension indicates a zero or negative width or height.
	ErrInvalidDimension = errors.New("invalid buffer dimension")

	// ErrOutOfBounds indicates an operation would touch a cell outside the buffer.
	ErrOutOfBounds = errors.New("coordinate out of bounds")

	// ErrAllocation indicates the cell storage could not be obtained.
	ErrAllocation = errors.New("buffer allocation failed")

	// ErrDestroyed is returned when operating on a destroyed buffer.
	ErrDestroyed = errors.New("buffer is destroyed")
)

// BoundsError describes a rejected coordinate.
type BoundsError struct {
	// Op is the operation that was rejected.
	Op string
	// X and Y are the first offending coordinate.
	X, Y int
	// Width and Height are the buffer dimensions.
	Width, Height int
}

// Error implements the error interface.
func (e *BoundsError) Error() string {
	return fmt.Sprintf("%s: (%d, %d) outside %dx%d buffer", e.Op, e.X, e.Y, e.Width, e.Height)
}

// Unwrap returns ErrOutOfBounds.
func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}

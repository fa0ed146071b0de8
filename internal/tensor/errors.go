package tensor

import (
	"errors"
	"fmt"
)

// ErrShape is matched by every shape mismatch reported by this module.
var ErrShape = errors.New("shape mismatch")

// ShapeError provides detailed information about a shape mismatch.
type ShapeError struct {
	Op   string // Operation that rejected the tensor (e.g., "unflatten", "dense.feedforward")
	Want Shape  // Expected shape
	Got  Shape  // Shape that was supplied
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	if e.Want.NumElements() != e.Got.NumElements() {
		return fmt.Sprintf("%s: %v: want %v (%d elements), got %v (%d elements)",
			e.Op, ErrShape, e.Want, e.Want.NumElements(), e.Got, e.Got.NumElements())
	}
	return fmt.Sprintf("%s: %v: want %v, got %v", e.Op, ErrShape, e.Want, e.Got)
}

// Unwrap makes errors.Is(err, ErrShape) hold for every ShapeError.
func (e *ShapeError) Unwrap() error {
	return ErrShape
}

// NewShapeError returns a ShapeError for the given operation.
func NewShapeError(op string, want, got Shape) *ShapeError {
	return &ShapeError{Op: op, Want: want.Clone(), Got: got.Clone()}
}

package tensor

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors. Typed errors below unwrap to one of these, so callers can
// match with errors.Is and inspect the payload with errors.As.
var (
	ErrIndex           = errors.New("tensor: index out of bounds")
	ErrShapeMismatch   = errors.New("tensor: shape mismatch")
	ErrAllocation      = errors.New("tensor: allocation failed")
	ErrInvalidArgument = errors.New("tensor: invalid argument")
	ErrStaleView       = errors.New("tensor: view outlived its buffer")
)

// IndexError reports a coordinate or flat index outside [0, extent).
type IndexError struct {
	Op    string // Operation that detected the violation
	Index []int  // Offending coordinate
	Shape Shape  // Shape being indexed
	Axis  int    // Offending axis, or -1 when the rank does not match
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	if e.Axis < 0 {
		return fmt.Sprintf("tensor: %s: index %v has %d coordinates, shape %v has %d axes",
			e.Op, e.Index, len(e.Index), e.Shape, len(e.Shape))
	}
	return fmt.Sprintf("tensor: %s: index %v out of bounds for shape %v (axis %d)", e.Op, e.Index, e.Shape, e.Axis)
}

// Unwrap returns ErrIndex.
func (e *IndexError) Unwrap() error { return ErrIndex }

// ShapeError reports operands whose shapes cannot be reconciled.
type ShapeError struct {
	Op     string
	Shapes []Shape
	Detail string
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	parts := make([]string, len(e.Shapes))
	for i, s := range e.Shapes {
		parts[i] = s.String()
	}
	msg := fmt.Sprintf("tensor: %s: incompatible shapes %s", e.Op, strings.Join(parts, " and "))
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap returns ErrShapeMismatch.
func (e *ShapeError) Unwrap() error { return ErrShapeMismatch }

// AllocationError reports a storage request that could not be satisfied.
type AllocationError struct {
	Shape Shape
	Bytes int // Requested size in bytes, -1 if it overflowed
	Cause error
}

// Error implements the error interface.
func (e *AllocationError) Error() string {
	msg := fmt.Sprintf("tensor: cannot allocate %v", e.Shape)
	if e.Bytes >= 0 {
		msg += fmt.Sprintf(" (%d bytes)", e.Bytes)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns ErrAllocation and the underlying cause, if any.
func (e *AllocationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrAllocation}
	}
	return []error{ErrAllocation, e.Cause}
}

// InvalidArgumentError reports a parameter outside its valid domain.
type InvalidArgumentError struct {
	Op     string
	Detail string
}

// Error implements the error interface.
func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("tensor: %s: %s", e.Op, e.Detail)
}

// Unwrap returns ErrInvalidArgument.
func (e *InvalidArgumentError) Unwrap() error { return ErrInvalidArgument }

// Must panics if err is non-nil and returns v otherwise.
//
// Example:
//
//	sum := tensor.Must(tensor.Add(a, b))
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

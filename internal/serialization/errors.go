package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidMagic       = errors.New("invalid magic bytes: not an .npy file")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrHeaderTooLarge     = errors.New("header exceeds maximum size")
	ErrInvalidHeader      = errors.New("malformed .npy header")
	ErrUnsupportedDType   = errors.New("unsupported dtype descriptor")
	ErrDTypeMismatch      = errors.New("file dtype does not match element type")
	ErrTruncated          = errors.New("data section shorter than shape requires")
	ErrTrailingData       = errors.New("data section longer than shape requires")
)

// ValidationError provides detailed information about header validation failures.
type ValidationError struct {
	Type    string // Type of error (e.g., "negative_extent", "out_of_bounds")
	Field   string // Header field involved ("descr", "shape", "fortran_order")
	Details string // Additional details
	Err     error  // Matching sentinel, if any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: field %q: %s", e.Type, e.Field, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}

// Unwrap returns the matching sentinel error.
func (e *ValidationError) Unwrap() error { return e.Err }

package serialization

import (
	"fmt"
	"math"

	"github.com/born-ml/ndarray/internal/tensor"
)

// Validation limits for security and resource protection.
const (
	MaxHeaderSize = 10_000 // Same cap numpy applies before parsing a header
	MaxRank       = 64     // Maximum number of axes accepted from a file
)

// ValidationLevel controls the strictness of validation.
type ValidationLevel int

const (
	// ValidationStrict performs all validation checks (default, recommended for production).
	// The data section must hold exactly the bytes the shape requires.
	ValidationStrict ValidationLevel = iota
	// ValidationNormal performs basic validation checks only.
	// Trailing bytes after the data section are ignored.
	ValidationNormal
	// ValidationNone skips validation (dangerous! Use only with trusted input).
	ValidationNone
)

// ReaderOptions configures .npy decoding.
type ReaderOptions struct {
	ValidationLevel ValidationLevel // Validation strictness level
}

// DefaultReaderOptions returns strict validation.
func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{ValidationLevel: ValidationStrict}
}

// ValidateHeader checks the header for unsupported descriptors, bad shapes
// and, when dataSize is non-negative, a data section of the wrong length.
func ValidateHeader(h *Header, dataSize int64, level ValidationLevel) error {
	if level == ValidationNone {
		return nil
	}

	dt, _, err := h.DataType()
	if err != nil {
		return &ValidationError{Type: "unsupported_dtype", Field: "descr", Details: err.Error(), Err: ErrUnsupportedDType}
	}

	if len(h.Shape) > MaxRank {
		return &ValidationError{
			Type:    "rank_too_large",
			Field:   "shape",
			Details: fmt.Sprintf("got %d axes, max %d", len(h.Shape), MaxRank),
			Err:     ErrInvalidHeader,
		}
	}

	// Check for negative values and overflow (potential integer overflow attacks).
	count := int64(1)
	for i, d := range h.Shape {
		if d < 0 {
			return &ValidationError{
				Type:    "negative_extent",
				Field:   "shape",
				Details: fmt.Sprintf("axis %d has extent %d", i, d),
				Err:     ErrInvalidHeader,
			}
		}
		if d != 0 && count > math.MaxInt64/int64(dt.Size())/int64(d) {
			return &ValidationError{
				Type:    "size_overflow",
				Field:   "shape",
				Details: fmt.Sprintf("shape %v overflows", h.Shape),
				Err:     ErrInvalidHeader,
			}
		}
		count *= int64(d)
	}

	if dataSize < 0 {
		return nil
	}
	want := count * int64(dt.Size())
	if dataSize < want {
		return &ValidationError{
			Type:    "out_of_bounds",
			Details: fmt.Sprintf("shape %v needs %d bytes, data section has %d", h.Shape, want, dataSize),
			Err:     ErrTruncated,
		}
	}
	if level == ValidationStrict && dataSize > want {
		return &ValidationError{
			Type:    "trailing_data",
			Details: fmt.Sprintf("shape %v needs %d bytes, data section has %d", h.Shape, want, dataSize),
			Err:     ErrTrailingData,
		}
	}
	return nil
}

// checkElementType reports ErrDTypeMismatch unless the header's descriptor
// holds elements of type T.
func checkElementType[T tensor.DType](h *Header) (tensor.DataType, error) {
	dt, _, err := h.DataType()
	if err != nil {
		return 0, err
	}
	if want := tensor.DataTypeOf[T](); dt != want {
		return 0, fmt.Errorf("%w: file has %s (%q), want %s", ErrDTypeMismatch, dt, h.Descr, want)
	}
	return dt, nil
}

package serialization

import (
	"io"

	"github.com/born-ml/ndarray/internal/serialization"
	"github.com/born-ml/ndarray/tensor"
)

// Header is the metadata dictionary of an .npy file.
type Header = serialization.Header

// ReaderOptions configures .npy decoding.
type ReaderOptions = serialization.ReaderOptions

// ValidationLevel controls how strictly headers and data sections are checked.
type ValidationLevel = serialization.ValidationLevel

// Validation levels.
const (
	ValidationStrict ValidationLevel = serialization.ValidationStrict
	ValidationNormal ValidationLevel = serialization.ValidationNormal
	ValidationNone   ValidationLevel = serialization.ValidationNone
)

// ValidationError describes a header that failed validation.
type ValidationError = serialization.ValidationError

// MmapReader provides memory-mapped access to an .npy file.
type MmapReader = serialization.MmapReader

// PrintOptions controls the text format.
type PrintOptions = serialization.PrintOptions

// TextDecoder reads text literals from a stream.
type TextDecoder = serialization.TextDecoder

// Common errors.
var (
	ErrInvalidMagic       = serialization.ErrInvalidMagic
	ErrUnsupportedVersion = serialization.ErrUnsupportedVersion
	ErrHeaderTooLarge     = serialization.ErrHeaderTooLarge
	ErrInvalidHeader      = serialization.ErrInvalidHeader
	ErrUnsupportedDType   = serialization.ErrUnsupportedDType
	ErrDTypeMismatch      = serialization.ErrDTypeMismatch
	ErrTruncated          = serialization.ErrTruncated
	ErrTrailingData       = serialization.ErrTrailingData
)

// DefaultReaderOptions returns strict validation.
func DefaultReaderOptions() ReaderOptions {
	return serialization.DefaultReaderOptions()
}

// DescrOf returns the NumPy dtype descriptor for dt, e.g. "<f8".
func DescrOf(dt tensor.DataType) string {
	return serialization.DescrOf(dt)
}

// WriteNpy encodes src in .npy format.
func WriteNpy[T tensor.DType](w io.Writer, src tensor.Expr[T]) error {
	return serialization.WriteNpy(w, src)
}

// ReadNpy decodes an .npy stream. The file's dtype must match T.
func ReadNpy[T tensor.DType](r io.Reader, opts ReaderOptions) (*tensor.Array[T], error) {
	return serialization.ReadNpy[T](r, opts)
}

// SaveNpy writes src to the .npy file at path.
func SaveNpy[T tensor.DType](path string, src tensor.Expr[T]) error {
	return serialization.SaveNpy(path, src)
}

// LoadNpy reads the .npy file at path with strict validation.
func LoadNpy[T tensor.DType](path string) (*tensor.Array[T], error) {
	return serialization.LoadNpy[T](path)
}

// LoadNpyWithOptions reads the .npy file at path with custom options.
func LoadNpyWithOptions[T tensor.DType](path string, opts ReaderOptions) (*tensor.Array[T], error) {
	return serialization.LoadNpyWithOptions[T](path, opts)
}

// NewMmapReader memory-maps the .npy file at path and parses its header.
// Always call Close when done.
func NewMmapReader(path string, opts ReaderOptions) (*MmapReader, error) {
	return serialization.NewMmapReader(path, opts)
}

// MmapArray returns an array over the mapped data section of r. It is valid
// only until r is closed.
func MmapArray[T tensor.DType](r *MmapReader) (*tensor.Array[T], error) {
	return serialization.MmapArray[T](r)
}

// MmapNpy maps the .npy file at path and returns an array over it with the
// reader that owns the mapping.
func MmapNpy[T tensor.DType](path string) (*tensor.Array[T], *MmapReader, error) {
	return serialization.MmapNpy[T](path)
}

// DefaultPrintOptions returns the options used by Sprint.
func DefaultPrintOptions() PrintOptions {
	return serialization.DefaultPrintOptions()
}

// FormatText writes src as a nested bracketed literal.
func FormatText[T tensor.DType](w io.Writer, src tensor.Expr[T], opts PrintOptions) error {
	return serialization.FormatText(w, src, opts)
}

// Sprint formats src with DefaultPrintOptions.
//
// Example:
//
//	fmt.Println(serialization.Sprint[int](a))  // [[1, 2], [3, 4]]
func Sprint[T tensor.DType](src tensor.Expr[T]) string {
	return serialization.Sprint(src)
}

// NewTextDecoder returns a decoder reading from r.
func NewTextDecoder(r io.Reader) *TextDecoder {
	return serialization.NewTextDecoder(r)
}

// DecodeText reads the next literal from d into dst. On malformed input it
// reports false, leaves dst empty and puts d in a failed state until Reset.
func DecodeText[T tensor.DType](d *TextDecoder, dst *tensor.Array[T]) bool {
	return serialization.DecodeText(d, dst)
}

package serialization

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/born-ml/ndarray/internal/tensor"
)

// MmapReader provides memory-mapped access to an .npy file.
// Only the header is parsed up front; element data is served from the OS
// page cache on demand.
//
// The mapping is private copy-on-write: arrays built on it may be written,
// but the changes never reach the file.
type MmapReader struct {
	file     *os.File
	data     []byte // mmap'd region
	size     int64
	preamble Preamble
	closed   bool
}

// NewMmapReader memory-maps the .npy file at path and parses its header.
//
// Important: Always call Close() when done to unmap the file (use defer).
func NewMmapReader(path string, opts ReaderOptions) (*MmapReader, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for array loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if stat.Size() < MagicLen+2 {
		_ = file.Close()
		return nil, fmt.Errorf("file too small: %d bytes", stat.Size())
	}

	// Memory map the file (platform-specific implementation)
	data, err := mmapFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("mmap failed: %w", err)
	}

	r := &MmapReader{
		file: file,
		data: data,
		size: stat.Size(),
	}

	r.preamble, err = ReadHeader(bytes.NewReader(data), opts)
	if err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}
	if err := ValidateHeader(&r.preamble.Header, r.size-int64(r.preamble.Len), opts.ValidationLevel); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return r, nil
}

// Close unmaps and closes the file. Arrays obtained from Array must not be
// used afterwards.
func (r *MmapReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	var err error
	if r.data != nil {
		err = munmapFile(r.data)
		r.data = nil
	}

	if closeErr := r.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	return err
}

// Header returns the parsed header dictionary.
func (r *MmapReader) Header() Header {
	return r.preamble.Header
}

// Version returns the format version as (major, minor).
func (r *MmapReader) Version() (major, minor byte) {
	return r.preamble.Major, r.preamble.Minor
}

// Data returns a zero-copy slice of the data section.
// The returned slice is valid only while the reader is open.
func (r *MmapReader) Data() ([]byte, error) {
	if r.closed {
		return nil, fmt.Errorf("reader is closed")
	}
	return r.data[r.preamble.Len:], nil
}

// MmapArray returns an array over the mapped data section of r.
//
// When the file's byte order matches the host and the section is suitably
// aligned the array aliases the mapping (zero-copy) and is valid only until
// r is closed. Otherwise the elements are decoded into a fresh buffer.
func MmapArray[T tensor.DType](r *MmapReader) (*tensor.Array[T], error) {
	data, err := r.Data()
	if err != nil {
		return nil, err
	}
	h := r.preamble.Header
	if _, err := checkElementType[T](&h); err != nil {
		return nil, err
	}
	_, order, err := h.DataType()
	if err != nil {
		return nil, err
	}

	n := h.NumElements()
	native := order == binary.NativeEndian ||
		(order == binary.LittleEndian) == hostLittleEndian
	if native {
		if elems, ok := viewElements[T](data, n); ok {
			return tensor.Wrap(elems, tensor.Shape(h.Shape), h.Layout())
		}
	}

	a, err := tensor.New[T](tensor.Shape(h.Shape), h.Layout())
	if err != nil {
		return nil, err
	}
	if err := readElements(bytes.NewReader(data), order, a.Data()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	return a, nil
}

// MmapNpy maps the .npy file at path and returns an array over it along
// with the reader that owns the mapping. Close the reader when the array is
// no longer needed.
//
// Example:
//
//	a, r, err := serialization.MmapNpy[float32]("weights.npy")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
func MmapNpy[T tensor.DType](path string) (*tensor.Array[T], *MmapReader, error) {
	r, err := NewMmapReader(path, DefaultReaderOptions())
	if err != nil {
		return nil, nil, err
	}
	a, err := MmapArray[T](r)
	if err != nil {
		_ = r.Close()
		return nil, nil, err
	}
	return a, r, nil
}

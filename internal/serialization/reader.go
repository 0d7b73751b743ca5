package serialization

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/ndarray/internal/tensor"
)

// Preamble is the fixed part of an .npy file in front of the data section.
type Preamble struct {
	Major, Minor byte   // Format version
	Header       Header // Parsed metadata dictionary
	Len          int    // Bytes from the start of the file to the data section
}

// ReadHeader reads and parses the magic string, version and header
// dictionary, leaving r positioned at the first data byte.
func ReadHeader(r io.Reader, opts ReaderOptions) (Preamble, error) {
	var p Preamble
	magic := make([]byte, MagicLen)
	if _, err := io.ReadFull(r, magic); err != nil {
		return p, fmt.Errorf("failed to read magic bytes: %w", err)
	}
	if string(magic[:len(MagicString)]) != MagicString {
		return p, ErrInvalidMagic
	}
	p.Major, p.Minor = magic[6], magic[7]

	var hlen int
	switch p.Major {
	case 1:
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return p, fmt.Errorf("failed to read header length: %w", err)
		}
		hlen = int(n)
		p.Len = MagicLen + 2 + hlen
	case 2, 3:
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return p, fmt.Errorf("failed to read header length: %w", err)
		}
		hlen = int(n)
		p.Len = MagicLen + 4 + hlen
	default:
		return p, fmt.Errorf("%w: got %d.%d, expected 1.0, 2.0 or 3.0", ErrUnsupportedVersion, p.Major, p.Minor)
	}

	if hlen > MaxHeaderSize && opts.ValidationLevel != ValidationNone {
		return p, fmt.Errorf("%w: %d bytes, max %d", ErrHeaderTooLarge, hlen, MaxHeaderSize)
	}
	buf := make([]byte, hlen)
	if _, err := io.ReadFull(r, buf); err != nil {
		return p, fmt.Errorf("failed to read header: %w", err)
	}
	h, err := parseHeaderDict(string(buf))
	if err != nil {
		return p, err
	}
	p.Header = h
	return p, nil
}

// ReadNpy decodes an .npy stream into a new array. The file's dtype must
// match T exactly; the array takes the file's element order.
//
// Example:
//
//	a, err := serialization.ReadNpy[float64](f, serialization.DefaultReaderOptions())
func ReadNpy[T tensor.DType](r io.Reader, opts ReaderOptions) (*tensor.Array[T], error) {
	p, err := ReadHeader(r, opts)
	if err != nil {
		return nil, err
	}
	return readData[T](r, &p.Header, -1, opts)
}

// readData reads the data section described by h. dataSize is the number
// of bytes available, or -1 when unknown.
func readData[T tensor.DType](r io.Reader, h *Header, dataSize int64, opts ReaderOptions) (*tensor.Array[T], error) {
	if err := ValidateHeader(h, dataSize, opts.ValidationLevel); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if _, err := checkElementType[T](h); err != nil {
		return nil, err
	}
	_, order, err := h.DataType()
	if err != nil {
		return nil, err
	}

	a, err := tensor.New[T](tensor.Shape(h.Shape), h.Layout())
	if err != nil {
		return nil, err
	}
	if err := readElements(r, order, a.Data()); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: %w", ErrTruncated, err)
		}
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	return a, nil
}

// LoadNpy reads the .npy file at path with strict validation.
func LoadNpy[T tensor.DType](path string) (*tensor.Array[T], error) {
	return LoadNpyWithOptions[T](path, DefaultReaderOptions())
}

// LoadNpyWithOptions reads the .npy file at path with custom options.
func LoadNpyWithOptions[T tensor.DType](path string, opts ReaderOptions) (*tensor.Array[T], error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for array loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	br := bufio.NewReader(file)
	p, err := ReadHeader(br, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}
	return readData[T](br, &p.Header, stat.Size()-int64(p.Len), opts)
}

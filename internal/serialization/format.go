package serialization

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/born-ml/ndarray/internal/tensor"
)

// Format constants.
const (
	MagicString     = "\x93NUMPY"
	MagicLen        = 8  // magic string + major + minor version bytes
	HeaderAlignment = 64 // Total preamble length is a multiple of 64 bytes

	// growthAxisMaxDigits spare spaces let the header be rewritten in place
	// when the growth axis (first for C order, last for Fortran) gets larger.
	growthAxisMaxDigits = 21
)

// Header is the metadata dictionary of an .npy file.
type Header struct {
	Descr        string // NumPy dtype descriptor, e.g. "<f8"
	FortranOrder bool   // Column-major element order
	Shape        []int  // Per-axis extents
}

// Layout returns the element order of the data section.
func (h Header) Layout() tensor.Layout {
	if h.FortranOrder {
		return tensor.ColMajor
	}
	return tensor.RowMajor
}

// NumElements returns the product of the shape's extents.
func (h Header) NumElements() int {
	return tensor.Shape(h.Shape).NumElements()
}

// DataType resolves Descr to an element type and the byte order of the
// data section.
func (h Header) DataType() (tensor.DataType, binary.ByteOrder, error) {
	return parseDescr(h.Descr)
}

// DescrOf returns the little-endian NumPy descriptor for dt.
func DescrOf(dt tensor.DataType) string {
	var kind byte
	switch {
	case dt == tensor.Bool:
		kind = 'b'
	case dt.IsFloat():
		kind = 'f'
	case dt.IsSigned():
		kind = 'i'
	default:
		kind = 'u'
	}
	order := byte('<')
	if dt.Size() == 1 {
		order = '|'
	}
	return string([]byte{order, kind}) + strconv.Itoa(dt.Size())
}

// parseDescr maps a descriptor such as "<f8", ">i4", "|b1" or "|u1" to a
// data type and byte order. "=" means native order.
func parseDescr(descr string) (tensor.DataType, binary.ByteOrder, error) {
	unsupported := func() (tensor.DataType, binary.ByteOrder, error) {
		return 0, nil, fmt.Errorf("%w: %q", ErrUnsupportedDType, descr)
	}
	if len(descr) < 3 {
		return unsupported()
	}
	var order binary.ByteOrder
	switch descr[0] {
	case '<', '|':
		order = binary.LittleEndian
	case '>':
		order = binary.BigEndian
	case '=':
		order = binary.NativeEndian
	default:
		return unsupported()
	}
	size, err := strconv.Atoi(descr[2:])
	if err != nil {
		return unsupported()
	}
	var dt tensor.DataType
	switch descr[1] {
	case 'b', '?':
		if size != 1 {
			return unsupported()
		}
		dt = tensor.Bool
	case 'i':
		switch size {
		case 1:
			dt = tensor.Int8
		case 2:
			dt = tensor.Int16
		case 4:
			dt = tensor.Int32
		case 8:
			dt = tensor.Int64
		default:
			return unsupported()
		}
	case 'u':
		switch size {
		case 1:
			dt = tensor.Uint8
		case 2:
			dt = tensor.Uint16
		case 4:
			dt = tensor.Uint32
		case 8:
			dt = tensor.Uint64
		default:
			return unsupported()
		}
	case 'f':
		switch size {
		case 4:
			dt = tensor.Float32
		case 8:
			dt = tensor.Float64
		default:
			return unsupported()
		}
	default:
		return unsupported()
	}
	return dt, order, nil
}

// dictString renders h the way numpy.lib.format writes it: sorted keys,
// Python reprs, a trailing ", }" and spare room for the growth axis.
func (h Header) dictString() string {
	var b strings.Builder
	b.WriteString("{'descr': '")
	b.WriteString(h.Descr)
	b.WriteString("', 'fortran_order': ")
	if h.FortranOrder {
		b.WriteString("True")
	} else {
		b.WriteString("False")
	}
	b.WriteString(", 'shape': ")
	b.WriteString(shapeRepr(h.Shape))
	b.WriteString(", }")
	if n := len(h.Shape); n > 0 {
		growth := h.Shape[0]
		if h.FortranOrder {
			growth = h.Shape[n-1]
		}
		b.WriteString(strings.Repeat(" ", max(growthAxisMaxDigits-len(strconv.Itoa(growth)), 0)))
	}
	return b.String()
}

// shapeRepr formats a shape as a Python tuple: (), (3,), (2, 3).
func shapeRepr(shape []int) string {
	switch len(shape) {
	case 0:
		return "()"
	case 1:
		return "(" + strconv.Itoa(shape[0]) + ",)"
	}
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.Itoa(d)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// encodeHeader returns the complete preamble: magic, version, header
// length, dictionary, space padding and the terminating newline. Version
// 1.0 is used whenever the length fits in 16 bits, 2.0 otherwise.
func encodeHeader(h Header) []byte {
	dict := h.dictString()
	hlen := len(dict) + 1 // trailing '\n'

	major, lenSize := byte(1), 2
	pad := HeaderAlignment - (MagicLen+lenSize+hlen)%HeaderAlignment
	if hlen+pad > math.MaxUint16 {
		major, lenSize = 2, 4
		pad = HeaderAlignment - (MagicLen+lenSize+hlen)%HeaderAlignment
	}

	out := make([]byte, 0, MagicLen+lenSize+hlen+pad)
	out = append(out, MagicString...)
	out = append(out, major, 0)
	if lenSize == 2 {
		out = binary.LittleEndian.AppendUint16(out, uint16(hlen+pad)) //nolint:gosec // G115: checked against MaxUint16 above
	} else {
		out = binary.LittleEndian.AppendUint32(out, uint32(hlen+pad)) //nolint:gosec // G115: header is far below 4GB
	}
	out = append(out, dict...)
	out = append(out, strings.Repeat(" ", pad)...)
	out = append(out, '\n')
	return out
}

// parseHeaderDict parses the Python literal dictionary of an .npy header.
// Exactly the keys descr, fortran_order and shape must be present.
func parseHeaderDict(s string) (Header, error) {
	var h Header
	l := &pyLexer{s: s}
	if err := l.expect('{'); err != nil {
		return h, err
	}
	seen := map[string]bool{}
	for {
		l.skipSpace()
		if l.peek() == '}' {
			l.pos++
			break
		}
		key, err := l.str()
		if err != nil {
			return h, err
		}
		if seen[key] {
			return h, l.errorf("duplicate key %q", key)
		}
		seen[key] = true
		if err := l.expect(':'); err != nil {
			return h, err
		}
		switch key {
		case "descr":
			if h.Descr, err = l.str(); err != nil {
				return h, err
			}
		case "fortran_order":
			switch word := l.ident(); word {
			case "True":
				h.FortranOrder = true
			case "False":
				h.FortranOrder = false
			default:
				return h, l.errorf("fortran_order must be True or False, got %q", word)
			}
		case "shape":
			if h.Shape, err = l.tuple(); err != nil {
				return h, err
			}
		default:
			return h, l.errorf("unexpected key %q", key)
		}
		l.skipSpace()
		switch l.peek() {
		case ',':
			l.pos++
		case '}':
		default:
			return h, l.errorf("expected ',' or '}'")
		}
	}
	l.skipSpace()
	if l.pos != len(l.s) {
		return h, l.errorf("trailing characters after dictionary")
	}
	for _, key := range []string{"descr", "fortran_order", "shape"} {
		if !seen[key] {
			return h, l.errorf("missing key %q", key)
		}
	}
	return h, nil
}

// pyLexer scans the small subset of Python literals used in .npy headers.
type pyLexer struct {
	s   string
	pos int
}

func (l *pyLexer) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: at offset %d: %s", ErrInvalidHeader, l.pos, fmt.Sprintf(format, args...))
}

func (l *pyLexer) skipSpace() {
	for l.pos < len(l.s) && strings.IndexByte(" \t\r\n", l.s[l.pos]) >= 0 {
		l.pos++
	}
}

func (l *pyLexer) peek() byte {
	if l.pos >= len(l.s) {
		return 0
	}
	return l.s[l.pos]
}

func (l *pyLexer) expect(c byte) error {
	l.skipSpace()
	if l.peek() != c {
		return l.errorf("expected %q", c)
	}
	l.pos++
	return nil
}

// str scans a single- or double-quoted string without escapes.
func (l *pyLexer) str() (string, error) {
	l.skipSpace()
	q := l.peek()
	if q != '\'' && q != '"' {
		return "", l.errorf("expected string")
	}
	end := strings.IndexByte(l.s[l.pos+1:], q)
	if end < 0 {
		return "", l.errorf("unterminated string")
	}
	v := l.s[l.pos+1 : l.pos+1+end]
	l.pos += end + 2
	return v, nil
}

func (l *pyLexer) ident() string {
	l.skipSpace()
	start := l.pos
	for l.pos < len(l.s) {
		c := l.s[l.pos]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			break
		}
		l.pos++
	}
	return l.s[start:l.pos]
}

// tuple scans a tuple of non-negative integers. Python 2 long suffixes
// ("3L") are accepted.
func (l *pyLexer) tuple() ([]int, error) {
	if err := l.expect('('); err != nil {
		return nil, err
	}
	shape := []int{}
	for {
		l.skipSpace()
		if l.peek() == ')' {
			l.pos++
			return shape, nil
		}
		start := l.pos
		for l.pos < len(l.s) && l.s[l.pos] >= '0' && l.s[l.pos] <= '9' {
			l.pos++
		}
		if start == l.pos {
			return nil, l.errorf("expected integer in shape")
		}
		n, err := strconv.Atoi(l.s[start:l.pos])
		if err != nil {
			return nil, l.errorf("shape extent %q: %v", l.s[start:l.pos], err)
		}
		if l.peek() == 'L' {
			l.pos++
		}
		shape = append(shape, n)
		l.skipSpace()
		switch l.peek() {
		case ',':
			l.pos++
		case ')':
		default:
			return nil, l.errorf("expected ',' or ')' in shape")
		}
	}
}

package serialization

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/born-ml/ndarray/internal/tensor"
)

// PrintOptions controls the bracketed text format.
type PrintOptions struct {
	Precision int    // Digits after the decimal point for floats; -1 for the shortest exact form.
	Width     int    // Minimum field width; values are right-aligned with spaces.
	Separator string // Placed between elements of a row.
	Multiline bool   // Put each row of a rank ≥ 2 array on its own line.
}

// DefaultPrintOptions returns the options used by Sprint.
func DefaultPrintOptions() PrintOptions {
	return PrintOptions{
		Precision: -1,
		Width:     0,
		Separator: ", ",
		Multiline: false,
	}
}

// FormatText writes src as a nested bracketed literal: [1, 2, 3] for rank
// 1, [[1, 2], [3, 4]] for rank 2 and so on. A rank-0 operand is written as
// a bare value.
//
// Example:
//
//	_ = serialization.FormatText[float64](os.Stdout, a, serialization.PrintOptions{
//	    Precision: 2, Separator: ", ", Multiline: true,
//	})
func FormatText[T tensor.DType](w io.Writer, src tensor.Expr[T], opts PrintOptions) error {
	bw := bufio.NewWriter(w)
	shape := src.Shape()
	idx := make([]int, len(shape))
	f := &textFormatter[T]{w: bw, src: src, shape: shape, idx: idx, opts: opts}
	f.block(0)
	if f.err != nil {
		return f.err
	}
	return bw.Flush()
}

// Sprint formats src with DefaultPrintOptions.
func Sprint[T tensor.DType](src tensor.Expr[T]) string {
	var b strings.Builder
	_ = FormatText(&b, src, DefaultPrintOptions())
	return b.String()
}

type textFormatter[T tensor.DType] struct {
	w     *bufio.Writer
	src   tensor.Expr[T]
	shape tensor.Shape
	idx   []int
	opts  PrintOptions
	err   error
}

func (f *textFormatter[T]) write(s string) {
	if f.err == nil {
		_, f.err = f.w.WriteString(s)
	}
}

// block writes the sub-array at the current prefix of idx, starting at axis.
func (f *textFormatter[T]) block(axis int) {
	if axis == len(f.shape) {
		s := formatScalar(f.src.Value(f.idx), f.opts.Precision)
		if pad := f.opts.Width - len(s); pad > 0 {
			s = strings.Repeat(" ", pad) + s
		}
		f.write(s)
		return
	}
	f.write("[")
	inner := len(f.shape) - axis - 1
	for i := 0; i < f.shape[axis]; i++ {
		if i > 0 {
			if f.opts.Multiline && inner > 0 {
				f.write(strings.TrimRight(f.opts.Separator, " "))
				f.write(strings.Repeat("\n", inner))
				f.write(strings.Repeat(" ", axis+1))
			} else {
				f.write(f.opts.Separator)
			}
		}
		f.idx[axis] = i
		f.block(axis + 1)
	}
	f.idx[axis] = 0
	f.write("]")
}

// formatScalar renders one element. Floats use precision digits after the
// point, or the shortest exact form when precision is negative.
func formatScalar[T tensor.DType](v T, precision int) string {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		if precision < 0 {
			return strconv.FormatFloat(rv.Float(), 'g', -1, rv.Type().Bits())
		}
		return strconv.FormatFloat(rv.Float(), 'f', precision, rv.Type().Bits())
	default:
		return fmt.Sprint(v)
	}
}

// parseScalar parses one element of type T. Booleans accept true/false in
// Go or Python spelling; floats accept nan and inf.
func parseScalar[T tensor.DType](s string) (T, error) {
	var v T
	rv := reflect.ValueOf(&v).Elem()
	switch rv.Kind() {
	case reflect.Bool:
		switch s {
		case "true", "True":
			rv.SetBool(true)
		case "false", "False":
			rv.SetBool(false)
		default:
			return v, fmt.Errorf("invalid bool %q", s)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, rv.Type().Bits())
		if err != nil {
			return v, err
		}
		rv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, rv.Type().Bits())
		if err != nil {
			return v, err
		}
		rv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		x, err := strconv.ParseFloat(s, rv.Type().Bits())
		if err != nil {
			return v, err
		}
		rv.SetFloat(x)
	default:
		return v, fmt.Errorf("unsupported element kind %s", rv.Kind())
	}
	return v, nil
}

// TextDecoder reads bracketed array literals from a stream.
//
// Decoding never returns an error: on malformed input the destination is
// left empty and the decoder enters a failed state, which every later
// decode observes until Reset. Err reports what went wrong.
type TextDecoder struct {
	r      *bufio.Reader
	failed bool
	err    error
}

// NewTextDecoder returns a decoder reading from r.
func NewTextDecoder(r io.Reader) *TextDecoder {
	return &TextDecoder{r: bufio.NewReader(r)}
}

// Failed reports whether a decode has failed.
func (d *TextDecoder) Failed() bool { return d.failed }

// Err returns the reason for the failure, or nil.
func (d *TextDecoder) Err() error { return d.err }

// Reset clears the failed state.
func (d *TextDecoder) Reset() {
	d.failed = false
	d.err = nil
}

var errSyntax = errors.New("malformed array literal")

// DecodeText reads the next literal from d into dst, replacing dst's shape
// and contents (row-major). It reports false, leaving dst empty with shape
// (0,), if the input is malformed or the decoder has already failed.
//
// Example:
//
//	d := serialization.NewTextDecoder(strings.NewReader("[[1, 2], [3, 4]]"))
//	var a tensor.Array[int]
//	if !serialization.DecodeText(d, &a) {
//	    return d.Err()
//	}
func DecodeText[T tensor.DType](d *TextDecoder, dst *tensor.Array[T]) bool {
	if !d.failed {
		a, err := decodeLiteral[T](d.r)
		if err == nil {
			dst.MoveFrom(a)
			return true
		}
		d.failed = true
		d.err = err
	}
	dst.MoveFrom(tensor.Zeros[T](tensor.Shape{0}))
	return false
}

func decodeLiteral[T tensor.DType](r *bufio.Reader) (*tensor.Array[T], error) {
	p := &textParser{r: r, leafDepth: -1}
	c, err := p.peekNonSpace()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errSyntax, err)
	}
	if c != '[' {
		tok, err := p.token()
		if err != nil {
			return nil, err
		}
		v, err := parseScalar[T](tok)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errSyntax, err)
		}
		return tensor.FromSlice([]T{v}, tensor.Shape{}, tensor.RowMajor)
	}
	_, _, _ = p.r.ReadRune()
	if err := p.list(0); err != nil {
		return nil, err
	}
	if p.leafDepth >= 0 && p.leafDepth != len(p.shape) {
		return nil, fmt.Errorf("%w: ragged nesting", errSyntax)
	}

	vals := make([]T, len(p.tokens))
	for i, tok := range p.tokens {
		if vals[i], err = parseScalar[T](tok); err != nil {
			return nil, fmt.Errorf("%w: %w", errSyntax, err)
		}
	}
	return tensor.FromSlice(vals, tensor.Shape(p.shape), tensor.RowMajor)
}

// textParser collects the scalar tokens of a nested list in row-major
// order and checks that every list at the same depth has the same length.
type textParser struct {
	r         *bufio.Reader
	shape     []int // -1 until a list at that depth closes
	leafDepth int   // depth of scalar elements, -1 until one is seen
	tokens    []string
}

func (p *textParser) peekNonSpace() (rune, error) {
	for {
		c, _, err := p.r.ReadRune()
		if err != nil {
			return 0, err
		}
		if !unicode.IsSpace(c) {
			return c, p.r.UnreadRune()
		}
	}
}

// token reads a scalar up to whitespace, ',', '[' or ']'.
func (p *textParser) token() (string, error) {
	var b strings.Builder
	for {
		c, _, err := p.r.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if unicode.IsSpace(c) || c == ',' || c == '[' || c == ']' {
			_ = p.r.UnreadRune()
			break
		}
		b.WriteRune(c)
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: empty element", errSyntax)
	}
	return b.String(), nil
}

// list parses the elements of a list whose '[' has been consumed.
// Elements are separated by commas and/or whitespace.
func (p *textParser) list(depth int) error {
	count := 0
	afterComma := false
	for {
		c, err := p.peekNonSpace()
		if err != nil {
			return fmt.Errorf("%w: unterminated list", errSyntax)
		}
		switch c {
		case ']':
			_, _, _ = p.r.ReadRune()
			if afterComma {
				return fmt.Errorf("%w: trailing ','", errSyntax)
			}
			return p.setExtent(depth, count)
		case ',':
			_, _, _ = p.r.ReadRune()
			if count == 0 || afterComma {
				return fmt.Errorf("%w: empty element", errSyntax)
			}
			afterComma = true
			continue
		case '[':
			_, _, _ = p.r.ReadRune()
			if p.leafDepth == depth+1 {
				return fmt.Errorf("%w: ragged nesting", errSyntax)
			}
			if err := p.list(depth + 1); err != nil {
				return err
			}
		default:
			if p.leafDepth >= 0 && p.leafDepth != depth+1 {
				return fmt.Errorf("%w: ragged nesting", errSyntax)
			}
			p.leafDepth = depth + 1
			tok, err := p.token()
			if err != nil {
				return err
			}
			p.tokens = append(p.tokens, tok)
		}
		count++
		afterComma = false
	}
}

func (p *textParser) setExtent(depth, n int) error {
	for len(p.shape) <= depth {
		p.shape = append(p.shape, -1)
	}
	switch p.shape[depth] {
	case -1:
		p.shape[depth] = n
	case n:
	default:
		return fmt.Errorf("%w: rows of length %d and %d at depth %d", errSyntax, p.shape[depth], n, depth)
	}
	return nil
}

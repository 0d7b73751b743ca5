package tensor

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Shape represents the per-axis extents of an array.
type Shape []int

// Layout selects which axis varies fastest in linear memory.
type Layout int

// Supported layouts.
const (
	RowMajor Layout = iota // last axis fastest (C order)
	ColMajor               // first axis fastest (Fortran order)
)

// String returns a human-readable layout name.
func (l Layout) String() string {
	switch l {
	case RowMajor:
		return "row-major"
	case ColMajor:
		return "column-major"
	default:
		return "unknown"
	}
}

// Transposed returns the opposite layout.
func (l Layout) Transposed() Layout {
	if l == RowMajor {
		return ColMajor
	}
	return RowMajor
}

// Ndim returns the number of axes.
func (s Shape) Ndim() int {
	return len(s)
}

// NumElements returns the total number of elements in the array.
// A rank-0 shape describes a scalar and has one element; any zero extent
// yields zero.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that every extent is non-negative.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return &InvalidArgumentError{
				Op:     "shape",
				Detail: fmt.Sprintf("negative extent %d at axis %d in %v", dim, i, s),
			}
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// String formats the shape as a tuple: (), (3,), (2, 3).
func (s Shape) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, dim := range s {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(dim))
	}
	if len(s) == 1 {
		sb.WriteByte(',')
	}
	sb.WriteByte(')')
	return sb.String()
}

// Strides calculates contiguous strides for the shape in the given layout.
// Row-major: stride[i] = product of all extents after i.
// Column-major: stride[i] = product of all extents before i.
func (s Shape) Strides(layout Layout) []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	acc := 1
	if layout == ColMajor {
		for i := range s {
			strides[i] = acc
			acc *= max(s[i], 1)
		}
		return strides
	}
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= max(s[i], 1)
	}
	return strides
}

// Contains reports whether index is a valid coordinate of the shape.
func (s Shape) Contains(index []int) bool {
	if len(index) != len(s) {
		return false
	}
	for i, v := range index {
		if v < 0 || v >= s[i] {
			return false
		}
	}
	return true
}

// CheckIndex returns an *IndexError if index is not a valid coordinate.
func (s Shape) CheckIndex(op string, index []int) error {
	if len(index) != len(s) {
		return &IndexError{Op: op, Index: cloneInts(index), Shape: s.Clone(), Axis: -1}
	}
	for i, v := range index {
		if v < 0 || v >= s[i] {
			return &IndexError{Op: op, Index: cloneInts(index), Shape: s.Clone(), Axis: i}
		}
	}
	return nil
}

// checkedSize returns the element count, reporting false on int overflow
// or a negative extent.
func (s Shape) checkedSize() (int, bool) {
	n := 1
	for _, dim := range s {
		if dim < 0 {
			return 0, false
		}
		if dim != 0 && n > math.MaxInt/dim {
			return 0, false
		}
		n *= dim
	}
	return n, true
}

// Ravel linearizes a coordinate into a flat offset using the given layout.
//
// For a shape containing a zero extent only the all-zero coordinate is
// accepted and it maps to offset 0.
func Ravel(index []int, shape Shape, layout Layout) (int, error) {
	if shape.NumElements() == 0 && len(index) == len(shape) {
		for i, v := range index {
			if v != 0 {
				return 0, &IndexError{Op: "ravel", Index: cloneInts(index), Shape: shape.Clone(), Axis: i}
			}
		}
		return 0, nil
	}
	if err := shape.CheckIndex("ravel", index); err != nil {
		return 0, err
	}
	return ravel(index, shape, layout), nil
}

func ravel(index []int, shape Shape, layout Layout) int {
	flat := 0
	if layout == ColMajor {
		for i := len(shape) - 1; i >= 0; i-- {
			flat = flat*shape[i] + index[i]
		}
		return flat
	}
	for i := range shape {
		flat = flat*shape[i] + index[i]
	}
	return flat
}

// Unravel is the inverse of Ravel: it converts a flat offset into a coordinate.
func Unravel(flat int, shape Shape, layout Layout) ([]int, error) {
	index := make([]int, len(shape))
	size := shape.NumElements()
	if size == 0 {
		if flat != 0 {
			return nil, &IndexError{Op: "unravel", Index: []int{flat}, Shape: Shape{size}, Axis: 0}
		}
		return index, nil
	}
	if flat < 0 || flat >= size {
		return nil, &IndexError{Op: "unravel", Index: []int{flat}, Shape: Shape{size}, Axis: 0}
	}
	unravelInto(index, flat, shape, layout)
	return index, nil
}

// unravelInto writes the coordinate of flat into dst without bounds checks.
func unravelInto(dst []int, flat int, shape Shape, layout Layout) {
	if layout == ColMajor {
		for i := range shape {
			dst[i] = flat % shape[i]
			flat /= shape[i]
		}
		return
	}
	for i := len(shape) - 1; i >= 0; i-- {
		dst[i] = flat % shape[i]
		flat /= shape[i]
	}
}

// nextIndex advances index by one position in the given order.
// It returns false once every coordinate has been visited.
func nextIndex(index []int, shape Shape, layout Layout) bool {
	if layout == ColMajor {
		for i := range shape {
			index[i]++
			if index[i] < shape[i] {
				return true
			}
			index[i] = 0
		}
		return false
	}
	for i := len(shape) - 1; i >= 0; i-- {
		index[i]++
		if index[i] < shape[i] {
			return true
		}
		index[i] = 0
	}
	return false
}

// prevIndex moves index back by one position in the given order.
// It returns false when stepping back from the first coordinate.
func prevIndex(index []int, shape Shape, layout Layout) bool {
	if layout == ColMajor {
		for i := range shape {
			index[i]--
			if index[i] >= 0 {
				return true
			}
			index[i] = shape[i] - 1
		}
		return false
	}
	for i := len(shape) - 1; i >= 0; i-- {
		index[i]--
		if index[i] >= 0 {
			return true
		}
		index[i] = shape[i] - 1
	}
	return false
}

// BroadcastShapes implements NumPy-style broadcasting rules.
//
// Rules:
// 1. Compare shapes element-wise from right to left
// 2. Dimensions are compatible if:
//   - They are equal, OR
//   - One of them is 1
//
// 3. Missing dimensions are treated as 1
//
// Returns the broadcasted shape, a flag indicating if broadcasting is needed, and a
// *ShapeError naming both shapes if they are incompatible.
//
// Examples:
//
//	(3, 1) + (3, 5) → (3, 5), true, nil
//	(1, 5) + (3, 5) → (3, 5), true, nil
//	(3, 5) + (3, 5) → (3, 5), false, nil
//	(3, 4) + (3, 5) → nil, false, Error
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	maxLen := max(len(a), len(b))
	result := make(Shape, maxLen)
	needsBroadcast := len(a) != len(b)

	for i := 0; i < maxLen; i++ {
		aIdx := len(a) - 1 - i
		bIdx := len(b) - 1 - i

		aDim := 1
		if aIdx >= 0 {
			aDim = a[aIdx]
		}

		bDim := 1
		if bIdx >= 0 {
			bDim = b[bIdx]
		}

		switch {
		case aDim == bDim:
			result[maxLen-1-i] = aDim
		case aDim == 1:
			result[maxLen-1-i] = bDim
			needsBroadcast = true
		case bDim == 1:
			result[maxLen-1-i] = aDim
			needsBroadcast = true
		default:
			return nil, false, &ShapeError{
				Op:     "broadcast",
				Shapes: []Shape{a.Clone(), b.Clone()},
				Detail: fmt.Sprintf("axis %d: %d vs %d", maxLen-1-i, aDim, bDim),
			}
		}
	}

	return result, needsBroadcast, nil
}

// BroadcastAll reduces BroadcastShapes pairwise from left to right.
func BroadcastAll(shapes ...Shape) (Shape, error) {
	if len(shapes) == 0 {
		return Shape{}, nil
	}
	result := shapes[0].Clone()
	for _, s := range shapes[1:] {
		next, _, err := BroadcastShapes(result, s)
		if err != nil {
			return nil, err
		}
		result = next
	}
	return result, nil
}

// broadcastStrides maps src (with the given strides) onto out, using a stride
// of 0 for every prepended or size-1 axis that is stretched.
// src may only broadcast up: the target's extents are authoritative.
func broadcastStrides(op string, src Shape, strides []int, out Shape) ([]int, error) {
	if len(src) > len(out) {
		return nil, &ShapeError{Op: op, Shapes: []Shape{out.Clone(), src.Clone()}, Detail: "source has more axes than target"}
	}
	lead := len(out) - len(src)
	result := make([]int, len(out))
	for i := range src {
		switch {
		case src[i] == out[lead+i]:
			result[lead+i] = strides[i]
		case src[i] == 1:
			result[lead+i] = 0
		default:
			return nil, &ShapeError{
				Op:     op,
				Shapes: []Shape{out.Clone(), src.Clone()},
				Detail: fmt.Sprintf("axis %d: cannot stretch %d to %d", i, src[i], out[lead+i]),
			}
		}
	}
	return result, nil
}

// NormalizeAxis resolves a possibly negative axis (-1 = last) against ndim.
func NormalizeAxis(axis, ndim int) (int, error) {
	if axis < 0 {
		axis += ndim
	}
	if axis < 0 || axis >= ndim {
		return 0, &IndexError{Op: "axis", Index: []int{axis}, Shape: Shape{ndim}, Axis: 0}
	}
	return axis, nil
}

func cloneInts(v []int) []int {
	out := make([]int, len(v))
	copy(out, v)
	return out
}

package tensor

import (
	"fmt"
	"iter"
)

// Iterator is a random-access cursor over the elements of an Expr.
//
// The traversal order is chosen independently of the operand's physical
// layout: a column-major array can be walked in row-major order and vice
// versa. Positions run from 0 (Begin) to Size (End, one past the last
// element).
type Iterator[T any] struct {
	src   Expr[T]
	shape Shape
	order Layout
	pos   int
	size  int
	idx   []int
}

// NewIterator returns an iterator over src positioned at Begin.
//
// Example:
//
//	it := tensor.NewIterator[float64](a, tensor.ColMajor)
//	for ; !it.Done(); it.Next() {
//	    fmt.Println(it.Coord(), it.Value())
//	}
func NewIterator[T any](src Expr[T], order Layout) *Iterator[T] {
	shape := src.Shape()
	return &Iterator[T]{
		src:   src,
		shape: shape,
		order: order,
		size:  shape.NumElements(),
		idx:   make([]int, len(shape)),
	}
}

// Order returns the traversal order.
func (it *Iterator[T]) Order() Layout { return it.order }

// Pos returns the current position in traversal order.
func (it *Iterator[T]) Pos() int { return it.pos }

// Done reports whether the iterator is at End.
func (it *Iterator[T]) Done() bool { return it.pos >= it.size }

// Begin moves to the first element.
func (it *Iterator[T]) Begin() {
	it.pos = 0
	clear(it.idx)
}

// End moves one past the last element.
func (it *Iterator[T]) End() {
	it.pos = it.size
}

// Seek moves to position pos in [0, Size]. Other positions fail with ErrIndex.
func (it *Iterator[T]) Seek(pos int) error {
	if pos < 0 || pos > it.size {
		return &IndexError{Op: "seek", Index: []int{pos}, Shape: Shape{it.size + 1}, Axis: 0}
	}
	it.pos = pos
	if pos < it.size {
		unravelInto(it.idx, pos, it.shape, it.order)
	}
	return nil
}

// Advance moves n positions forward (backward when negative).
func (it *Iterator[T]) Advance(n int) error {
	return it.Seek(it.pos + n)
}

// Next moves to the following element and reports whether it exists.
// At End it stays at End.
func (it *Iterator[T]) Next() bool {
	if it.pos >= it.size {
		return false
	}
	it.pos++
	if it.pos < it.size {
		nextIndex(it.idx, it.shape, it.order)
		return true
	}
	return false
}

// Prev moves to the preceding element and reports whether it exists.
// At Begin it stays at Begin.
func (it *Iterator[T]) Prev() bool {
	if it.pos == 0 {
		return false
	}
	if it.pos == it.size {
		it.pos--
		unravelInto(it.idx, it.pos, it.shape, it.order)
		return true
	}
	it.pos--
	prevIndex(it.idx, it.shape, it.order)
	return true
}

// Distance returns the number of steps from it to other.
func (it *Iterator[T]) Distance(other *Iterator[T]) int {
	return other.pos - it.pos
}

// Coord returns a copy of the current coordinate.
func (it *Iterator[T]) Coord() []int {
	return cloneInts(it.idx)
}

// Value returns the current element.
// Panics with an *IndexError at End.
func (it *Iterator[T]) Value() T {
	if it.pos >= it.size {
		panic(&IndexError{Op: "iterator value", Index: []int{it.pos}, Shape: Shape{it.size}, Axis: 0})
	}
	return it.src.Value(it.idx)
}

// Set writes v at the current element. It fails with ErrIndex at End and
// with ErrInvalidArgument when the operand is not writable.
func (it *Iterator[T]) Set(v T) error {
	if it.pos >= it.size {
		return &IndexError{Op: "iterator set", Index: []int{it.pos}, Shape: Shape{it.size}, Axis: 0}
	}
	w, ok := it.src.(interface{ SetValue([]int, T) })
	if !ok {
		return &InvalidArgumentError{Op: "iterator set", Detail: fmt.Sprintf("%T is not writable", it.src)}
	}
	w.SetValue(it.idx, v)
	return nil
}

// Coords yields every coordinate of shape in the given order.
// The yielded slice is reused between iterations; copy it to retain it.
func Coords(shape Shape, order Layout) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if shape.NumElements() == 0 {
			return
		}
		idx := make([]int, len(shape))
		for {
			if !yield(idx) {
				return
			}
			if !nextIndex(idx, shape, order) {
				return
			}
		}
	}
}

// Enumerate yields (coordinate, value) pairs of src in the given order.
// The coordinate slice is reused between iterations.
//
// Example:
//
//	for idx, v := range tensor.Enumerate[float64](a, tensor.RowMajor) {
//	    fmt.Println(idx, v)
//	}
func Enumerate[T any](src Expr[T], order Layout) iter.Seq2[[]int, T] {
	return func(yield func([]int, T) bool) {
		for idx := range Coords(src.Shape(), order) {
			if !yield(idx, src.Value(idx)) {
				return
			}
		}
	}
}

// Values yields the elements of src in the given order.
func Values[T any](src Expr[T], order Layout) iter.Seq[T] {
	return func(yield func(T) bool) {
		for idx := range Coords(src.Shape(), order) {
			if !yield(src.Value(idx)) {
				return
			}
		}
	}
}

// Backward yields (coordinate, value) pairs of src from the last element to
// the first in the given order.
func Backward[T any](src Expr[T], order Layout) iter.Seq2[[]int, T] {
	return func(yield func([]int, T) bool) {
		shape := src.Shape()
		if shape.NumElements() == 0 {
			return
		}
		idx := make([]int, len(shape))
		for i, dim := range shape {
			idx[i] = dim - 1
		}
		for {
			if !yield(idx, src.Value(idx)) {
				return
			}
			if !prevIndex(idx, shape, order) {
				return
			}
		}
	}
}

// ToSlice returns the elements of src in the given order as a new slice.
func ToSlice[T any](src Expr[T], order Layout) []T {
	out := make([]T, 0, src.Size())
	for v := range Values(src, order) {
		out = append(out, v)
	}
	return out
}

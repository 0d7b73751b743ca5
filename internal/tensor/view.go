package tensor

import (
	"fmt"
	"slices"
)

// View is a non-owning strided window onto an Array's buffer.
//
// Element index maps to buffer position offset + Σ index[k]*strides[k].
// Strides may be negative (reversed slices) or zero (broadcast views).
// Writes go through to the aliased memory.
//
// A view keeps the buffer reachable, so it never dangles; if the owning
// array reallocates (Resize) or is moved from, the view is stale: it keeps
// reading the detached memory and Check reports ErrStaleView.
type View[T DType] struct {
	buf      *buffer[T]
	shape    Shape
	strides  []int
	offset   int
	layout   Layout
	readOnly bool
}

// NewView creates a view over base's buffer with an explicit physical
// offset, shape and per-axis strides. Every reachable position must lie
// inside the buffer, otherwise ErrIndex is returned.
func NewView[T DType](base Strided[T], offset int, shape Shape, strides []int) (*View[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if len(strides) != len(shape) {
		return nil, &InvalidArgumentError{
			Op:     "view",
			Detail: fmt.Sprintf("%d strides for %d axes", len(strides), len(shape)),
		}
	}
	buf := base.storage()
	if err := checkSpan("view", offset, shape, strides, len(buf.data)); err != nil {
		return nil, err
	}
	return &View[T]{
		buf:     buf,
		shape:   shape.Clone(),
		strides: cloneInts(strides),
		offset:  offset,
		layout:  base.Layout(),
	}, nil
}

// NewMatrixView creates a 2-D view of rows×cols elements starting at offset,
// where ld is the leading (trailing-dimension) pitch between consecutive
// rows (RowMajor) or columns (ColMajor) in the buffer.
func NewMatrixView[T DType](base Strided[T], offset, rows, cols, ld int, layout Layout) (*View[T], error) {
	var strides []int
	switch layout {
	case RowMajor:
		if ld < cols {
			return nil, &InvalidArgumentError{Op: "matrix view", Detail: fmt.Sprintf("leading dimension %d < cols %d", ld, cols)}
		}
		strides = []int{ld, 1}
	case ColMajor:
		if ld < rows {
			return nil, &InvalidArgumentError{Op: "matrix view", Detail: fmt.Sprintf("leading dimension %d < rows %d", ld, rows)}
		}
		strides = []int{1, ld}
	default:
		return nil, &InvalidArgumentError{Op: "matrix view", Detail: fmt.Sprintf("unknown layout %d", layout)}
	}
	v, err := NewView(base, offset, Shape{rows, cols}, strides)
	if err != nil {
		return nil, err
	}
	v.layout = layout
	return v, nil
}

// checkSpan verifies that every position reachable through strides lies in [0, n).
func checkSpan(op string, offset int, shape Shape, strides []int, n int) error {
	if shape.NumElements() == 0 {
		return nil
	}
	lo, hi := offset, offset
	for i, dim := range shape {
		step := (dim - 1) * strides[i]
		if step < 0 {
			lo += step
		} else {
			hi += step
		}
	}
	if lo < 0 {
		return &IndexError{Op: op, Index: []int{lo}, Shape: Shape{n}, Axis: 0}
	}
	if hi >= n {
		return &IndexError{Op: op, Index: []int{hi}, Shape: Shape{n}, Axis: 0}
	}
	return nil
}

// Shape returns the view's shape.
func (v *View[T]) Shape() Shape { return v.shape }

// Ndim returns the number of axes.
func (v *View[T]) Ndim() int { return len(v.shape) }

// Size returns the number of elements.
func (v *View[T]) Size() int { return v.shape.NumElements() }

// Empty reports whether the view holds no elements.
func (v *View[T]) Empty() bool { return v.Size() == 0 }

// Layout returns the preferred traversal order.
func (v *View[T]) Layout() Layout { return v.layout }

// Strides returns the per-axis strides in elements.
func (v *View[T]) Strides() []int { return v.strides }

// Base returns the physical offset of the first element.
func (v *View[T]) Base() int { return v.offset }

// ReadOnly reports whether writes are rejected (broadcast views).
func (v *View[T]) ReadOnly() bool { return v.readOnly }

// Stale reports whether the owning array has released the buffer.
func (v *View[T]) Stale() bool { return v.buf.detached }

// Check returns ErrStaleView if the view outlived its owner's buffer.
func (v *View[T]) Check() error {
	if v.buf.detached {
		return ErrStaleView
	}
	return nil
}

// Offset returns the physical position of index in the buffer.
func (v *View[T]) Offset(index []int) int {
	off := v.offset
	for i, x := range index {
		off += x * v.strides[i]
	}
	return off
}

// Value returns the element at index without bounds checks.
func (v *View[T]) Value(index []int) T {
	return v.buf.data[v.Offset(index)]
}

// SetValue stores x at index without bounds checks.
// Panics with ErrInvalidArgument on a read-only view.
func (v *View[T]) SetValue(index []int, x T) {
	if v.readOnly {
		panic(&InvalidArgumentError{Op: "set", Detail: "view is read-only"})
	}
	v.buf.data[v.Offset(index)] = x
}

// At returns the element at the given indices.
// Panics with an *IndexError if indices are out of bounds.
func (v *View[T]) At(indices ...int) T {
	if err := v.shape.CheckIndex("at", indices); err != nil {
		panic(err)
	}
	return v.Value(indices)
}

// Get is the error-returning form of At.
func (v *View[T]) Get(indices ...int) (T, error) {
	if err := v.shape.CheckIndex("get", indices); err != nil {
		var zero T
		return zero, err
	}
	return v.Value(indices), nil
}

// Set writes through the view at the given indices.
// Panics with an *IndexError if indices are out of bounds.
func (v *View[T]) Set(value T, indices ...int) {
	if err := v.shape.CheckIndex("set", indices); err != nil {
		panic(err)
	}
	v.SetValue(indices, value)
}

// Put is the error-returning form of Set.
func (v *View[T]) Put(value T, indices ...int) error {
	if err := v.shape.CheckIndex("put", indices); err != nil {
		return err
	}
	if v.readOnly {
		return &InvalidArgumentError{Op: "put", Detail: "view is read-only"}
	}
	v.SetValue(indices, value)
	return nil
}

// Fill sets every element of the view to value.
func (v *View[T]) Fill(value T) error {
	return Assign[T](v, Scalar(value))
}

// Assign copies src element by element through the alias, broadcasting src
// up to the view's shape.
func (v *View[T]) Assign(src Expr[T]) error {
	return Assign[T](v, src)
}

// T returns the view with axes reversed and the layout flag inverted.
func (v *View[T]) T() *View[T] {
	n := len(v.shape)
	out := &View[T]{
		buf:      v.buf,
		shape:    make(Shape, n),
		strides:  make([]int, n),
		offset:   v.offset,
		layout:   v.layout.Transposed(),
		readOnly: v.readOnly,
	}
	for i := 0; i < n; i++ {
		out.shape[i] = v.shape[n-1-i]
		out.strides[i] = v.strides[n-1-i]
	}
	return out
}

// Transpose permutes the axes. With no arguments the axes are reversed.
// Negative axes count from the end.
func (v *View[T]) Transpose(axes ...int) (*View[T], error) {
	n := len(v.shape)
	if len(axes) == 0 {
		return v.T(), nil
	}
	if len(axes) != n {
		return nil, &InvalidArgumentError{Op: "transpose", Detail: fmt.Sprintf("%d axes for a %d-D view", len(axes), n)}
	}
	seen := make([]bool, n)
	out := &View[T]{
		buf:      v.buf,
		shape:    make(Shape, n),
		strides:  make([]int, n),
		offset:   v.offset,
		layout:   v.layout,
		readOnly: v.readOnly,
	}
	reversed := true
	for i, ax := range axes {
		a, err := NormalizeAxis(ax, n)
		if err != nil {
			return nil, err
		}
		if seen[a] {
			return nil, &InvalidArgumentError{Op: "transpose", Detail: fmt.Sprintf("repeated axis %d", a)}
		}
		seen[a] = true
		out.shape[i] = v.shape[a]
		out.strides[i] = v.strides[a]
		if a != n-1-i {
			reversed = false
		}
	}
	if reversed && n > 1 {
		out.layout = v.layout.Transposed()
	}
	return out, nil
}

// Slice returns a sub-view selecting the given ranges. Missing trailing
// specs select whole axes; Pick specs drop their axis.
func (v *View[T]) Slice(specs ...Slice) (*View[T], error) {
	if len(specs) > len(v.shape) {
		return nil, &IndexError{Op: "slice", Index: make([]int, len(specs)), Shape: v.shape.Clone(), Axis: -1}
	}
	out := &View[T]{
		buf:      v.buf,
		offset:   v.offset,
		layout:   v.layout,
		readOnly: v.readOnly,
		shape:    make(Shape, 0, len(v.shape)),
		strides:  make([]int, 0, len(v.shape)),
	}
	for i, dim := range v.shape {
		spec := All()
		if i < len(specs) {
			spec = specs[i]
		}
		start, length, step, err := spec.resolve(dim)
		if err != nil {
			return nil, err
		}
		out.offset += start * v.strides[i]
		if spec.pick {
			continue
		}
		out.shape = append(out.shape, length)
		out.strides = append(out.strides, step*v.strides[i])
	}
	return out, nil
}

// contiguousIn reports whether the view covers a dense block in the given order.
func (v *View[T]) contiguousIn(layout Layout) bool {
	if v.Size() <= 1 {
		return true
	}
	want := v.shape.Strides(layout)
	for i, dim := range v.shape {
		if dim != 1 && v.strides[i] != want[i] {
			return false
		}
	}
	return true
}

// Contiguous reports whether the view covers a dense block of memory in
// row-major or column-major order.
func (v *View[T]) Contiguous() bool {
	return v.contiguousIn(RowMajor) || v.contiguousIn(ColMajor)
}

// Flatten collapses a contiguous view to rank 1, still aliasing the buffer.
// Non-contiguous views fail with ErrInvalidArgument; Copy them first.
func (v *View[T]) Flatten() (*View[T], error) {
	return v.Reshape(Shape{v.Size()})
}

// Reshape returns a view with a new shape of the same size. The view must
// be contiguous; elements are read in the view's layout order.
func (v *View[T]) Reshape(shape Shape) (*View[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != v.Size() {
		return nil, &ShapeError{Op: "reshape", Shapes: []Shape{v.shape.Clone(), shape.Clone()}, Detail: "sizes differ"}
	}
	order := v.layout
	if !v.contiguousIn(order) {
		order = order.Transposed()
		if !v.contiguousIn(order) {
			return nil, &InvalidArgumentError{Op: "reshape", Detail: "view is not contiguous"}
		}
	}
	return &View[T]{
		buf:      v.buf,
		shape:    shape.Clone(),
		strides:  shape.Strides(order),
		offset:   v.offset,
		layout:   order,
		readOnly: v.readOnly,
	}, nil
}

// Squeeze removes the given size-1 axes, or every size-1 axis when none
// are given.
func (v *View[T]) Squeeze(axes ...int) (*View[T], error) {
	drop := make([]bool, len(v.shape))
	if len(axes) == 0 {
		for i, dim := range v.shape {
			drop[i] = dim == 1
		}
	}
	for _, ax := range axes {
		a, err := NormalizeAxis(ax, len(v.shape))
		if err != nil {
			return nil, err
		}
		if v.shape[a] != 1 {
			return nil, &InvalidArgumentError{Op: "squeeze", Detail: fmt.Sprintf("axis %d has extent %d", a, v.shape[a])}
		}
		drop[a] = true
	}
	out := &View[T]{buf: v.buf, offset: v.offset, layout: v.layout, readOnly: v.readOnly}
	for i, dim := range v.shape {
		if !drop[i] {
			out.shape = append(out.shape, dim)
			out.strides = append(out.strides, v.strides[i])
		}
	}
	if out.shape == nil {
		out.shape, out.strides = Shape{}, []int{}
	}
	return out, nil
}

// ExpandDims inserts a size-1 axis at position axis (0..Ndim()).
func (v *View[T]) ExpandDims(axis int) (*View[T], error) {
	a, err := NormalizeAxis(axis, len(v.shape)+1)
	if err != nil {
		return nil, err
	}
	return &View[T]{
		buf:      v.buf,
		shape:    slices.Insert(v.shape.Clone(), a, 1),
		strides:  slices.Insert(cloneInts(v.strides), a, 0),
		offset:   v.offset,
		layout:   v.layout,
		readOnly: v.readOnly,
	}, nil
}

// String returns a short description of the view.
func (v *View[T]) String() string {
	return fmt.Sprintf("View[%s]%v strides=%v offset=%d", DataTypeOf[T](), v.shape, v.strides, v.offset)
}

func (v *View[T]) broadcastView(shape Shape) (Expr[T], error) {
	strides, err := broadcastStrides("broadcast", v.shape, v.strides, shape)
	if err != nil {
		return nil, err
	}
	return &View[T]{
		buf:      v.buf,
		shape:    shape.Clone(),
		strides:  strides,
		offset:   v.offset,
		layout:   v.layout,
		readOnly: true,
	}, nil
}

func (v *View[T]) storage() *buffer[T] { return v.buf }

func (v *View[T]) storageID() any { return v.buf }

func (v *View[T]) readsFrom(buf any) bool { return any(v.buf) == buf }

func (v *View[T]) concurrentSafe() bool { return true }

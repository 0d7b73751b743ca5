package tensor

import (
	"fmt"
	"iter"
)

// Array is an owning, contiguous N-dimensional array with value semantics.
//
// The elements live in a single buffer laid out in row-major or
// column-major order. Views (Slice, Transpose, Flatten, masks) alias that
// buffer; Clone produces an independent deep copy.
//
// The zero Array is an empty array of shape (0,). MoveFrom and Resize give
// it storage.
//
// Example:
//
//	a, _ := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, tensor.RowMajor)
//	t := a.T()      // (3, 2) view, no data movement
//	t.Set(99, 0, 1) // writes a[1, 0]
type Array[T DType] struct {
	buf     *buffer[T]
	shape   Shape
	strides []int
	layout  Layout
}

// New creates an array of the given shape. Elements are zero-initialized.
// It fails with ErrInvalidArgument for a negative extent and with
// ErrAllocation when the storage request cannot be satisfied.
func New[T DType](shape Shape, layout Layout) (*Array[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	buf, err := newBuffer[T](shape)
	if err != nil {
		return nil, err
	}
	return &Array[T]{
		buf:     buf,
		shape:   shape.Clone(),
		strides: shape.Strides(layout),
		layout:  layout,
	}, nil
}

// NewFull creates an array with every element set to value.
func NewFull[T DType](shape Shape, value T, layout Layout) (*Array[T], error) {
	a, err := New[T](shape, layout)
	if err != nil {
		return nil, err
	}
	a.Fill(value)
	return a, nil
}

// FromSlice creates an array by copying Size() elements from data, read in
// the given layout order. A shorter slice fails with ErrShapeMismatch;
// excess elements are ignored.
func FromSlice[T DType](data []T, shape Shape, layout Layout) (*Array[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	n := shape.NumElements()
	if len(data) < n {
		return nil, &ShapeError{
			Op:     "from slice",
			Shapes: []Shape{shape.Clone(), {len(data)}},
			Detail: fmt.Sprintf("need %d elements, got %d", n, len(data)),
		}
	}
	a, err := New[T](shape, layout)
	if err != nil {
		return nil, err
	}
	copy(a.buf.data, data[:n])
	return a, nil
}

// FromSeq creates an array from the first Size() values yielded by seq.
// A sequence that ends early fails with ErrShapeMismatch; the rest of a
// longer sequence is never pulled.
func FromSeq[T DType](seq iter.Seq[T], shape Shape, layout Layout) (*Array[T], error) {
	a, err := New[T](shape, layout)
	if err != nil {
		return nil, err
	}
	n := len(a.buf.data)
	i := 0
	if n > 0 {
		for v := range seq {
			a.buf.data[i] = v
			i++
			if i == n {
				break
			}
		}
	}
	if i < n {
		return nil, &ShapeError{
			Op:     "from sequence",
			Shapes: []Shape{shape.Clone(), {i}},
			Detail: fmt.Sprintf("need %d elements, got %d", n, i),
		}
	}
	return a, nil
}

// Wrap adopts data as the backing store of a new array without copying.
// The caller must not use data afterwards except through the array.
func Wrap[T DType](data []T, shape Shape, layout Layout) (*Array[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	n := shape.NumElements()
	if len(data) < n {
		return nil, &ShapeError{
			Op:     "wrap",
			Shapes: []Shape{shape.Clone(), {len(data)}},
			Detail: fmt.Sprintf("need %d elements, got %d", n, len(data)),
		}
	}
	return &Array[T]{
		buf:     wrapBuffer(data[:n:n]),
		shape:   shape.Clone(),
		strides: shape.Strides(layout),
		layout:  layout,
	}, nil
}

// EmptyLike creates a zero-initialized array with the shape of src.
func EmptyLike[T DType](src Expr[T]) (*Array[T], error) {
	layout := RowMajor
	if t, ok := src.(interface{ Layout() Layout }); ok {
		layout = t.Layout()
	}
	return New[T](src.Shape(), layout)
}

// Shape returns the array's shape.
func (a *Array[T]) Shape() Shape {
	if a.buf == nil {
		return Shape{0}
	}
	return a.shape
}

// Ndim returns the number of axes.
func (a *Array[T]) Ndim() int { return len(a.Shape()) }

// Size returns the total number of elements.
func (a *Array[T]) Size() int { return len(a.Data()) }

// Empty reports whether the array holds no elements.
func (a *Array[T]) Empty() bool { return len(a.Data()) == 0 }

// Layout returns the physical layout of the buffer.
func (a *Array[T]) Layout() Layout { return a.layout }

// Strides returns the per-axis element strides.
func (a *Array[T]) Strides() []int {
	if a.buf == nil {
		return []int{1}
	}
	return a.strides
}

// DType returns the runtime element type.
func (a *Array[T]) DType() DataType { return DataTypeOf[T]() }

// Rows returns the extent of the first axis (1 for a scalar).
func (a *Array[T]) Rows() int {
	if len(a.shape) == 0 {
		return 1
	}
	return a.shape[0]
}

// Cols returns the extent of the second axis (1 below rank 2).
func (a *Array[T]) Cols() int {
	if len(a.shape) < 2 {
		return 1
	}
	return a.shape[1]
}

// Data returns the backing slice in physical (layout) order.
// The slice directly accesses the underlying memory (zero-copy).
//
// WARNING: Modifications to the returned slice will modify the array.
func (a *Array[T]) Data() []T {
	if a.buf == nil {
		return nil
	}
	return a.buf.data
}

// Offset returns the position of index in Data().
func (a *Array[T]) Offset(index []int) int {
	off := 0
	for i, v := range index {
		off += v * a.strides[i]
	}
	return off
}

// Value returns the element at index without bounds checks.
func (a *Array[T]) Value(index []int) T {
	return a.buf.data[a.Offset(index)]
}

// SetValue stores v at index without bounds checks.
func (a *Array[T]) SetValue(index []int, v T) {
	a.buf.data[a.Offset(index)] = v
}

// At returns the element at the given indices.
// Panics with an *IndexError if indices are out of bounds.
//
// Example:
//
//	a := tensor.Zeros[float32](tensor.Shape{3, 4})
//	value := a.At(1, 2) // Row 1, column 2
func (a *Array[T]) At(indices ...int) T {
	if err := a.Shape().CheckIndex("at", indices); err != nil {
		panic(err)
	}
	return a.Value(indices)
}

// Get is the error-returning form of At.
func (a *Array[T]) Get(indices ...int) (T, error) {
	if err := a.Shape().CheckIndex("get", indices); err != nil {
		var zero T
		return zero, err
	}
	return a.Value(indices), nil
}

// Set sets the element at the given indices.
// Panics with an *IndexError if indices are out of bounds.
func (a *Array[T]) Set(value T, indices ...int) {
	if err := a.Shape().CheckIndex("set", indices); err != nil {
		panic(err)
	}
	a.SetValue(indices, value)
}

// Put is the error-returning form of Set.
func (a *Array[T]) Put(value T, indices ...int) error {
	if err := a.Shape().CheckIndex("put", indices); err != nil {
		return err
	}
	a.SetValue(indices, value)
	return nil
}

// Fill sets every element to value.
func (a *Array[T]) Fill(value T) {
	data := a.Data()
	for i := range data {
		data[i] = value
	}
}

// Apply replaces every element x with f(x) in place.
func (a *Array[T]) Apply(f func(T) T) {
	data := a.Data()
	for i, v := range data {
		data[i] = f(v)
	}
}

// Assign copies src into the array, broadcasting src up to the array's shape.
func (a *Array[T]) Assign(src Expr[T]) error {
	return Assign[T](a, src)
}

// Clone creates a deep copy with an independent buffer.
func (a *Array[T]) Clone() *Array[T] {
	data := make([]T, a.Size())
	copy(data, a.Data())
	return &Array[T]{
		buf:     wrapBuffer(data),
		shape:   a.Shape().Clone(),
		strides: cloneInts(a.Strides()),
		layout:  a.layout,
	}
}

// MoveFrom transfers src's buffer to a. Views of a's previous buffer
// become stale; src is left as an empty (0,) array. The zero Array is a
// valid destination.
func (a *Array[T]) MoveFrom(src *Array[T]) {
	if a == src {
		return
	}
	if a.buf != nil && a.buf != src.buf {
		a.buf.detach()
	}
	a.buf, a.shape, a.strides, a.layout = src.buf, src.shape, src.strides, src.layout
	src.buf = wrapBuffer([]T{})
	src.shape = Shape{0}
	src.strides = []int{1}
	src.layout = RowMajor
}

// Resize changes the array's shape. When the element count changes the
// buffer is reallocated and zeroed: values are not preserved by position,
// and views of the old buffer become stale. Otherwise only the shape
// metadata changes and the buffer is reused in the current layout.
func (a *Array[T]) Resize(shape Shape) error {
	if err := shape.Validate(); err != nil {
		return err
	}
	if a.buf == nil || shape.NumElements() != len(a.buf.data) {
		buf, err := newBuffer[T](shape)
		if err != nil {
			return err
		}
		if a.buf != nil {
			a.buf.detach()
		}
		a.buf = buf
	}
	a.shape = shape.Clone()
	a.strides = shape.Strides(a.layout)
	return nil
}

// View returns a strided view over the whole array.
func (a *Array[T]) View() *View[T] {
	if a.buf == nil {
		return &View[T]{buf: wrapBuffer([]T{}), shape: Shape{0}, strides: []int{1}}
	}
	return &View[T]{
		buf:     a.buf,
		shape:   a.shape.Clone(),
		strides: cloneInts(a.strides),
		layout:  a.layout,
	}
}

// Flatten returns a rank-1 view over the buffer in physical order.
// It remains an alias, not a copy.
func (a *Array[T]) Flatten() *View[T] {
	if a.buf == nil {
		return a.View()
	}
	return &View[T]{
		buf:     a.buf,
		shape:   Shape{len(a.buf.data)},
		strides: []int{1},
		layout:  a.layout,
	}
}

// T returns the transposed view (axes reversed, layout flag inverted).
func (a *Array[T]) T() *View[T] {
	return a.View().T()
}

// Transpose returns a view with axes permuted. With no arguments the axes
// are reversed.
func (a *Array[T]) Transpose(axes ...int) (*View[T], error) {
	return a.View().Transpose(axes...)
}

// Slice returns a strided view selecting the given ranges.
// Missing trailing specs select whole axes.
func (a *Array[T]) Slice(specs ...Slice) (*View[T], error) {
	return a.View().Slice(specs...)
}

// Reshape returns a view with a new shape of the same size, interpreting
// the buffer in the array's layout.
func (a *Array[T]) Reshape(shape Shape) (*View[T], error) {
	return a.View().Reshape(shape)
}

// Row returns row i of a 2-D array as a rank-1 view.
func (a *Array[T]) Row(i int) (*View[T], error) {
	if len(a.shape) != 2 {
		return nil, &InvalidArgumentError{Op: "row", Detail: fmt.Sprintf("need a 2-D array, got shape %v", a.shape)}
	}
	return a.Slice(Pick(i))
}

// Col returns column j of a 2-D array as a rank-1 view.
func (a *Array[T]) Col(j int) (*View[T], error) {
	if len(a.shape) != 2 {
		return nil, &InvalidArgumentError{Op: "col", Detail: fmt.Sprintf("need a 2-D array, got shape %v", a.shape)}
	}
	return a.Slice(All(), Pick(j))
}

// String returns a short description of the array.
func (a *Array[T]) String() string {
	return fmt.Sprintf("Array[%s]%v %s", DataTypeOf[T](), a.Shape(), a.layout)
}

func (a *Array[T]) storage() *buffer[T] {
	if a.buf == nil {
		return wrapBuffer([]T{})
	}
	return a.buf
}

func (a *Array[T]) storageID() any { return a.buf }

func (a *Array[T]) readsFrom(buf any) bool { return any(a.buf) == buf }

func (a *Array[T]) concurrentSafe() bool { return true }

func (a *Array[T]) broadcastView(shape Shape) (Expr[T], error) {
	return a.View().broadcastView(shape)
}

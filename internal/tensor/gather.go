package tensor

import "fmt"

// Ownership selects how a GatherView holds its index list.
type Ownership int

// Index list ownership modes.
const (
	// CopyIndex stores an independent copy; later changes by the caller are invisible.
	CopyIndex Ownership = iota
	// BorrowIndex keeps the caller's slice. The caller may keep mutating
	// it, so every access re-checks the position it reads.
	BorrowIndex
	// AdoptIndex takes the slice over without copying; the caller must not
	// touch it afterwards.
	AdoptIndex
)

// String returns the mode name.
func (o Ownership) String() string {
	switch o {
	case CopyIndex:
		return "copy"
	case BorrowIndex:
		return "borrow"
	case AdoptIndex:
		return "adopt"
	default:
		return "unknown"
	}
}

// GatherView aliases scattered positions of a buffer through an explicit
// list of physical offsets: element k (row-major) is buffer[index[k]].
// It realizes boolean-mask selection and fancy indexing; writes scatter
// back into the aliased buffer.
type GatherView[T DType] struct {
	buf   *buffer[T]
	index []int
	shape Shape
	mode  Ownership
}

// NewGatherView creates a rank-1 gather view over base's buffer.
// offsets are physical positions in that buffer (see Strided.Offset);
// any position outside the buffer fails with ErrIndex.
func NewGatherView[T DType](base Strided[T], offsets []int, mode Ownership) (*GatherView[T], error) {
	buf := base.storage()
	for _, off := range offsets {
		if off < 0 || off >= len(buf.data) {
			return nil, &IndexError{Op: "gather", Index: []int{off}, Shape: Shape{len(buf.data)}, Axis: 0}
		}
	}
	var index []int
	switch mode {
	case CopyIndex:
		index = cloneInts(offsets)
	case BorrowIndex, AdoptIndex:
		index = offsets
	default:
		return nil, &InvalidArgumentError{Op: "gather", Detail: fmt.Sprintf("unknown ownership mode %d", mode)}
	}
	return &GatherView[T]{
		buf:   buf,
		index: index,
		shape: Shape{len(offsets)},
		mode:  mode,
	}, nil
}

// MaskView selects the elements of base where mask is true, in row-major
// order. mask must have exactly base's shape.
//
// Example:
//
//	neg, _ := tensor.Less(a, tensor.Scalar(0.0))
//	g, _ := tensor.MaskView(a, neg)
//	_ = g.Fill(0) // zero every negative element of a
func MaskView[T DType](base Strided[T], mask Expr[bool]) (*GatherView[T], error) {
	if !mask.Shape().Equal(base.Shape()) {
		return nil, &ShapeError{Op: "mask", Shapes: []Shape{base.Shape().Clone(), mask.Shape().Clone()}}
	}
	var offsets []int
	for idx := range Coords(base.Shape(), RowMajor) {
		if mask.Value(idx) {
			offsets = append(offsets, base.Offset(idx))
		}
	}
	if offsets == nil {
		offsets = []int{}
	}
	return NewGatherView(base, offsets, AdoptIndex)
}

// TakeView selects elements of base by flat row-major position.
func TakeView[T DType](base Strided[T], flat []int) (*GatherView[T], error) {
	shape := base.Shape()
	size := shape.NumElements()
	idx := make([]int, len(shape))
	offsets := make([]int, len(flat))
	for k, f := range flat {
		if f < 0 || f >= size {
			return nil, &IndexError{Op: "take", Index: []int{f}, Shape: Shape{size}, Axis: 0}
		}
		unravelInto(idx, f, shape, RowMajor)
		offsets[k] = base.Offset(idx)
	}
	return NewGatherView(base, offsets, AdoptIndex)
}

// PointsView selects the points (coords[0][k], coords[1][k], ...) of base,
// one coordinate list per axis, as NumPy fancy indexing does.
func PointsView[T DType](base Strided[T], coords ...[]int) (*GatherView[T], error) {
	shape := base.Shape()
	if len(coords) != len(shape) {
		return nil, &InvalidArgumentError{Op: "points", Detail: fmt.Sprintf("%d coordinate lists for %d axes", len(coords), len(shape))}
	}
	n := 0
	if len(coords) > 0 {
		n = len(coords[0])
	}
	for axis, c := range coords {
		if len(c) != n {
			return nil, &ShapeError{Op: "points", Shapes: []Shape{{n}, {len(c)}}, Detail: fmt.Sprintf("coordinate list %d", axis)}
		}
	}
	idx := make([]int, len(shape))
	offsets := make([]int, n)
	for k := 0; k < n; k++ {
		for axis := range shape {
			idx[axis] = coords[axis][k]
		}
		if err := shape.CheckIndex("points", idx); err != nil {
			return nil, err
		}
		offsets[k] = base.Offset(idx)
	}
	return NewGatherView(base, offsets, AdoptIndex)
}

// Shape returns the view's shape.
func (g *GatherView[T]) Shape() Shape { return g.shape }

// Ndim returns the number of axes.
func (g *GatherView[T]) Ndim() int { return len(g.shape) }

// Size returns the number of selected elements.
func (g *GatherView[T]) Size() int { return len(g.index) }

// Layout returns RowMajor: elements follow the index list.
func (g *GatherView[T]) Layout() Layout { return RowMajor }

// Ownership returns how the index list is held.
func (g *GatherView[T]) Ownership() Ownership { return g.mode }

// Indices returns a copy of the physical offsets.
func (g *GatherView[T]) Indices() []int { return cloneInts(g.index) }

// Stale reports whether the owning array has released the buffer.
func (g *GatherView[T]) Stale() bool { return g.buf.detached }

func (g *GatherView[T]) position(index []int) int {
	off := g.index[ravel(index, g.shape, RowMajor)]
	if g.mode == BorrowIndex && (off < 0 || off >= len(g.buf.data)) {
		panic(&IndexError{Op: "gather", Index: []int{off}, Shape: Shape{len(g.buf.data)}, Axis: 0})
	}
	return off
}

// Value returns the gathered element at index.
func (g *GatherView[T]) Value(index []int) T {
	return g.buf.data[g.position(index)]
}

// SetValue scatters v to the aliased position of index.
func (g *GatherView[T]) SetValue(index []int, v T) {
	g.buf.data[g.position(index)] = v
}

// At returns the element at the given indices.
// Panics with an *IndexError if indices are out of bounds.
func (g *GatherView[T]) At(indices ...int) T {
	if err := g.shape.CheckIndex("at", indices); err != nil {
		panic(err)
	}
	return g.Value(indices)
}

// Set writes through the view at the given indices.
// Panics with an *IndexError if indices are out of bounds.
func (g *GatherView[T]) Set(value T, indices ...int) {
	if err := g.shape.CheckIndex("set", indices); err != nil {
		panic(err)
	}
	g.SetValue(indices, value)
}

// Fill writes value to every selected position.
func (g *GatherView[T]) Fill(value T) error {
	return Assign[T](g, Scalar(value))
}

// Assign scatters src into the selected positions, broadcasting src up to
// the view's shape.
func (g *GatherView[T]) Assign(src Expr[T]) error {
	return Assign[T](g, src)
}

// Reshape returns a gather view over the same index list with a new shape
// of the same size.
func (g *GatherView[T]) Reshape(shape Shape) (*GatherView[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(g.index) {
		return nil, &ShapeError{Op: "reshape", Shapes: []Shape{g.shape.Clone(), shape.Clone()}, Detail: "sizes differ"}
	}
	return &GatherView[T]{buf: g.buf, index: g.index, shape: shape.Clone(), mode: g.mode}, nil
}

// String returns a short description of the view.
func (g *GatherView[T]) String() string {
	return fmt.Sprintf("GatherView[%s]%v (%s)", DataTypeOf[T](), g.shape, g.mode)
}

func (g *GatherView[T]) storageID() any { return g.buf }

func (g *GatherView[T]) readsFrom(buf any) bool { return any(g.buf) == buf }

func (g *GatherView[T]) concurrentSafe() bool { return true }

// Compress returns a rank-1 copy of the elements of src where mask is true,
// in row-major order. mask must have exactly src's shape.
func Compress[T DType](src Expr[T], mask Expr[bool]) (*Array[T], error) {
	if !mask.Shape().Equal(src.Shape()) {
		return nil, &ShapeError{Op: "compress", Shapes: []Shape{src.Shape().Clone(), mask.Shape().Clone()}}
	}
	var out []T
	for idx := range Coords(src.Shape(), RowMajor) {
		if mask.Value(idx) {
			out = append(out, src.Value(idx))
		}
	}
	return Wrap(out, Shape{len(out)}, RowMajor)
}

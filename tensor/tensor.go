package tensor

import (
	"iter"
	"math/rand"

	"github.com/born-ml/ndarray/internal/parallel"
	"github.com/born-ml/ndarray/internal/tensor"
	"gonum.org/v1/gonum/mat"
)

// Type aliases for public API

// DType is a constraint for array element types.
type DType = tensor.DType

// Numeric is a constraint for element types that support arithmetic.
type Numeric = tensor.Numeric

// Integer is a constraint for integer element types.
type Integer = tensor.Integer

// Float is a constraint for floating-point element types.
type Float = tensor.Float

// DataType represents the element type of an array at runtime.
type DataType = tensor.DataType

// Data type constants.
const (
	Bool    DataType = tensor.Bool
	Int8    DataType = tensor.Int8
	Int16   DataType = tensor.Int16
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Uint16  DataType = tensor.Uint16
	Uint32  DataType = tensor.Uint32
	Uint64  DataType = tensor.Uint64
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
)

// Shape represents the per-axis extents of an array.
// Example: Shape{2, 3, 4} is a 3D array with dimensions 2×3×4.
type Shape = tensor.Shape

// Layout selects which axis varies fastest in linear memory.
type Layout = tensor.Layout

// Layout constants.
const (
	RowMajor Layout = tensor.RowMajor
	ColMajor Layout = tensor.ColMajor
)

// Expr is the read contract shared by arrays, views and lazy expressions.
type Expr[T any] = tensor.Expr[T]

// Target is an Expr whose elements can be written.
type Target[T DType] = tensor.Target[T]

// Strided is a Target addressed through offset and strides: an Array or a View.
type Strided[T DType] = tensor.Strided[T]

// Array is an owning, contiguous N-dimensional array.
type Array[T DType] = tensor.Array[T]

// View is a strided window onto an array's buffer.
type View[T DType] = tensor.View[T]

// GatherView addresses scattered elements of a buffer through an index list.
type GatherView[T DType] = tensor.GatherView[T]

// Ownership selects how a GatherView holds its index list.
type Ownership = tensor.Ownership

// Index list ownership modes.
const (
	CopyIndex   Ownership = tensor.CopyIndex
	BorrowIndex Ownership = tensor.BorrowIndex
	AdoptIndex  Ownership = tensor.AdoptIndex
)

// Slice selects positions along one axis.
type Slice = tensor.Slice

// Iterator walks an operand in a fixed traversal order with random access.
type Iterator[T any] = tensor.Iterator[T]

// ParallelConfig controls MaterializeParallel.
type ParallelConfig = parallel.Config

// Expression node types, returned by the lazy constructors.
type (
	ScalarExpr[T any]       = tensor.ScalarExpr[T]
	UnaryExpr[T, R any]     = tensor.UnaryExpr[T, R]
	BinaryExpr[A, B, R any] = tensor.BinaryExpr[A, B, R]
	OuterExpr[A, B, R any]  = tensor.OuterExpr[A, B, R]
	ReduceExpr[T, R any]    = tensor.ReduceExpr[T, R]
	BroadcastExpr[T any]    = tensor.BroadcastExpr[T]
)

// Error types.
type (
	IndexError           = tensor.IndexError
	ShapeError           = tensor.ShapeError
	AllocationError      = tensor.AllocationError
	InvalidArgumentError = tensor.InvalidArgumentError
)

// Common errors.
var (
	ErrIndex           = tensor.ErrIndex
	ErrShapeMismatch   = tensor.ErrShapeMismatch
	ErrAllocation      = tensor.ErrAllocation
	ErrInvalidArgument = tensor.ErrInvalidArgument
	ErrStaleView       = tensor.ErrStaleView
)

// DataTypeOf returns the DataType for the element type T.
func DataTypeOf[T DType]() DataType {
	return tensor.DataTypeOf[T]()
}

// DefaultParallelConfig returns a configuration sized to the machine's CPUs.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}

// Must panics if err is non-nil and returns v otherwise.
//
// Example:
//
//	a := tensor.Must(tensor.FromSlice([]int{1, 2, 3}, tensor.Shape{3}, tensor.RowMajor))
func Must[T any](v T, err error) T {
	return tensor.Must(v, err)
}

// Creation functions

// New creates a zero-initialized array.
func New[T DType](shape Shape, layout Layout) (*Array[T], error) {
	return tensor.New[T](shape, layout)
}

// NewFull creates an array with every element set to value.
func NewFull[T DType](shape Shape, value T, layout Layout) (*Array[T], error) {
	return tensor.NewFull(shape, value, layout)
}

// FromSlice creates an array by copying data, read in layout order.
//
// Example:
//
//	data := []float32{1, 2, 3, 4, 5, 6}
//	x, err := tensor.FromSlice(data, tensor.Shape{2, 3}, tensor.RowMajor)
func FromSlice[T DType](data []T, shape Shape, layout Layout) (*Array[T], error) {
	return tensor.FromSlice(data, shape, layout)
}

// FromSeq creates an array from the values yielded by seq.
func FromSeq[T DType](seq iter.Seq[T], shape Shape, layout Layout) (*Array[T], error) {
	return tensor.FromSeq(seq, shape, layout)
}

// Wrap adopts data as the backing store of a new array without copying.
func Wrap[T DType](data []T, shape Shape, layout Layout) (*Array[T], error) {
	return tensor.Wrap(data, shape, layout)
}

// EmptyLike creates a zero-initialized row-major array with the shape of src.
func EmptyLike[T DType](src Expr[T]) (*Array[T], error) {
	return tensor.EmptyLike(src)
}

// Zeros creates a row-major array filled with zeros. It panics on an invalid shape.
//
// Example:
//
//	x := tensor.Zeros[float32](tensor.Shape{2, 3})
func Zeros[T DType](shape Shape) *Array[T] {
	return tensor.Zeros[T](shape)
}

// Ones creates a row-major array filled with ones.
//
// Example:
//
//	x := tensor.Ones[float32](tensor.Shape{2, 3})
func Ones[T DType](shape Shape) *Array[T] {
	return tensor.Ones[T](shape)
}

// Full creates a row-major array filled with value.
//
// Example:
//
//	x := tensor.Full[float32](tensor.Shape{2, 3}, 3.14)
func Full[T DType](shape Shape, value T) *Array[T] {
	return tensor.Full(shape, value)
}

// Randn creates an array of samples from the standard normal distribution N(0, 1).
//
// Example:
//
//	x := tensor.Randn[float32](tensor.Shape{2, 3}, rand.New(rand.NewSource(1)))
func Randn[T Float](shape Shape, rng *rand.Rand) *Array[T] {
	return tensor.Randn[T](shape, rng)
}

// Rand creates an array of samples from the uniform distribution U(0, 1).
func Rand[T Float](shape Shape, rng *rand.Rand) *Array[T] {
	return tensor.Rand[T](shape, rng)
}

// Arange creates a 1D array of values from start to stop (exclusive) by step.
//
// Example:
//
//	x, _ := tensor.Arange(0.0, 10.0, 1.0)  // [0, 1, 2, ..., 9]
func Arange[T Numeric](start, stop, step T) (*Array[T], error) {
	return tensor.Arange(start, stop, step)
}

// Linspace creates num evenly spaced values over [start, stop], or
// [start, stop) without the endpoint.
func Linspace[T Float](start, stop T, num int, endpoint bool) (*Array[T], error) {
	return tensor.Linspace(start, stop, num, endpoint)
}

// Eye creates an n×n identity matrix.
//
// Example:
//
//	identity := tensor.Eye[float32](3)  // 3x3 identity matrix
func Eye[T DType](n int) *Array[T] {
	return tensor.Eye[T](n)
}

// Views

// NewView creates a strided view over base's buffer.
func NewView[T DType](base Strided[T], offset int, shape Shape, strides []int) (*View[T], error) {
	return tensor.NewView(base, offset, shape, strides)
}

// NewMatrixView creates a rows×cols view with leading dimension ld.
func NewMatrixView[T DType](base Strided[T], offset, rows, cols, ld int, layout Layout) (*View[T], error) {
	return tensor.NewMatrixView(base, offset, rows, cols, ld, layout)
}

// NewGatherView creates a view over explicit physical offsets of base.
func NewGatherView[T DType](base Strided[T], offsets []int, mode Ownership) (*GatherView[T], error) {
	return tensor.NewGatherView(base, offsets, mode)
}

// MaskView selects the elements of base where mask is true, in row-major order.
//
// Example:
//
//	pos, _ := tensor.Greater[float64](a, tensor.Scalar(0.0))
//	m, _ := tensor.MaskView[float64](a, pos)
//	_ = m.Fill(0)  // zero every positive element of a
func MaskView[T DType](base Strided[T], mask Expr[bool]) (*GatherView[T], error) {
	return tensor.MaskView(base, mask)
}

// TakeView selects elements of base by row-major flat index.
func TakeView[T DType](base Strided[T], flat []int) (*GatherView[T], error) {
	return tensor.TakeView(base, flat)
}

// PointsView selects elements of base by coordinate tuple.
func PointsView[T DType](base Strided[T], coords ...[]int) (*GatherView[T], error) {
	return tensor.PointsView(base, coords...)
}

// Compress copies the elements of src where mask is true into a new 1D array.
func Compress[T DType](src Expr[T], mask Expr[bool]) (*Array[T], error) {
	return tensor.Compress(src, mask)
}

// Slice specifications

// All selects every position along an axis.
func All() Slice { return tensor.All() }

// Span selects [start, stop).
func Span(start, stop int) Slice { return tensor.Span(start, stop) }

// SpanStep selects [start, stop) by step.
func SpanStep(start, stop, step int) Slice { return tensor.SpanStep(start, stop, step) }

// From selects [start, end).
func From(start int) Slice { return tensor.From(start) }

// To selects [0, stop).
func To(stop int) Slice { return tensor.To(stop) }

// Step selects every step-th position.
func Step(step int) Slice { return tensor.Step(step) }

// Reverse selects every position in reverse order.
func Reverse() Slice { return tensor.Reverse() }

// Pick selects position i and drops the axis.
func Pick(i int) Slice { return tensor.Pick(i) }

// Shape helpers

// BroadcastShapes returns the broadcast of a and b and whether a equals it.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}

// BroadcastAll returns the common broadcast of shapes.
func BroadcastAll(shapes ...Shape) (Shape, error) {
	return tensor.BroadcastAll(shapes...)
}

// BroadcastTo presents src with the given shape.
func BroadcastTo[T any](src Expr[T], shape Shape) (Expr[T], error) {
	return tensor.BroadcastTo(src, shape)
}

// NormalizeAxis maps a possibly negative axis into [0, ndim).
func NormalizeAxis(axis, ndim int) (int, error) {
	return tensor.NormalizeAxis(axis, ndim)
}

// Ravel converts a coordinate to a flat position in layout order.
func Ravel(index []int, shape Shape, layout Layout) (int, error) {
	return tensor.Ravel(index, shape, layout)
}

// Unravel converts a flat position in layout order to a coordinate.
func Unravel(flat int, shape Shape, layout Layout) ([]int, error) {
	return tensor.Unravel(flat, shape, layout)
}

// Matrix interop

// AsMatrix exposes a rank-2 float64 operand as a gonum matrix without copying.
func AsMatrix(src Expr[float64]) (mat.Matrix, error) {
	return tensor.AsMatrix(src)
}

// FromMatrix copies a gonum matrix into a new array.
func FromMatrix(m mat.Matrix, layout Layout) (*Array[float64], error) {
	return tensor.FromMatrix(m, layout)
}

// MatMul returns the matrix product of two rank-2 operands.
//
// Example:
//
//	c, err := tensor.MatMul(a, b.T())
func MatMul(a, b Expr[float64]) (*Array[float64], error) {
	return tensor.MatMul(a, b)
}

// Manipulation functions

// Concatenate joins operands along axis into a new array.
//
// Example:
//
//	a := tensor.Ones[float32](tensor.Shape{2, 3})
//	b := tensor.Zeros[float32](tensor.Shape{2, 3})
//	c, _ := tensor.Concatenate([]tensor.Expr[float32]{a, b}, 0)  // Shape: (4, 3)
func Concatenate[T DType](srcs []Expr[T], axis int) (*Array[T], error) {
	return tensor.Concatenate(srcs, axis)
}

// Split divides v into n equal views along axis.
func Split[T DType](v *View[T], n, axis int) ([]*View[T], error) {
	return tensor.Split(v, n, axis)
}

// Where selects elements from x where cond is true and from y elsewhere.
//
// Example:
//
//	pos, _ := tensor.Greater[float32](x, tensor.Scalar[float32](0))
//	relu, _ := tensor.Where[float32](pos, x, tensor.Scalar[float32](0))
func Where[T DType](cond Expr[bool], x, y Expr[T]) (*Array[T], error) {
	return tensor.Where(cond, x, y)
}

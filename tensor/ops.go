package tensor

import (
	"iter"

	"github.com/born-ml/ndarray/internal/tensor"
)

// Lazy expressions

// Scalar wraps v as a rank-0 operand that broadcasts to any shape.
func Scalar[T any](v T) *ScalarExpr[T] {
	return tensor.Scalar(v)
}

// Map applies f to every element of src lazily.
func Map[T, R any](src Expr[T], f func(T) R) *UnaryExpr[T, R] {
	return tensor.Map(src, f)
}

// AsType converts every element of src to R lazily.
//
// Example:
//
//	f := tensor.AsType[float64, int](counts)
func AsType[R, T Numeric](src Expr[T]) *UnaryExpr[T, R] {
	return tensor.AsType[R](src)
}

// Neg negates every element of src lazily.
func Neg[T Numeric](src Expr[T]) *UnaryExpr[T, T] { return tensor.Neg(src) }

// Abs takes the absolute value of every element of src lazily.
func Abs[T Numeric](src Expr[T]) *UnaryExpr[T, T] { return tensor.Abs(src) }

// Not negates a boolean operand lazily.
func Not(src Expr[bool]) *UnaryExpr[bool, bool] { return tensor.Not(src) }

// Binary combines a and b element-wise with f after broadcasting.
func Binary[A, B, R any](a Expr[A], b Expr[B], f func(A, B) R) (*BinaryExpr[A, B, R], error) {
	return tensor.Binary(a, b, f)
}

// Add returns the lazy element-wise sum of a and b.
//
// Example:
//
//	sum, err := tensor.Add[float32](a, b)
func Add[T Numeric](a, b Expr[T]) (*BinaryExpr[T, T, T], error) { return tensor.Add(a, b) }

// Sub returns the lazy element-wise difference of a and b.
func Sub[T Numeric](a, b Expr[T]) (*BinaryExpr[T, T, T], error) { return tensor.Sub(a, b) }

// Mul returns the lazy element-wise product of a and b.
func Mul[T Numeric](a, b Expr[T]) (*BinaryExpr[T, T, T], error) { return tensor.Mul(a, b) }

// Div returns the lazy element-wise quotient of a and b.
func Div[T Numeric](a, b Expr[T]) (*BinaryExpr[T, T, T], error) { return tensor.Div(a, b) }

// Maximum returns the lazy element-wise maximum of a and b.
func Maximum[T Numeric](a, b Expr[T]) (*BinaryExpr[T, T, T], error) { return tensor.Maximum(a, b) }

// Minimum returns the lazy element-wise minimum of a and b.
func Minimum[T Numeric](a, b Expr[T]) (*BinaryExpr[T, T, T], error) { return tensor.Minimum(a, b) }

// Comparison operations (return a boolean expression)

// Less reports a < b element-wise.
func Less[T Numeric](a, b Expr[T]) (*BinaryExpr[T, T, bool], error) { return tensor.Less(a, b) }

// LessEqual reports a <= b element-wise.
func LessEqual[T Numeric](a, b Expr[T]) (*BinaryExpr[T, T, bool], error) {
	return tensor.LessEqual(a, b)
}

// Greater reports a > b element-wise.
func Greater[T Numeric](a, b Expr[T]) (*BinaryExpr[T, T, bool], error) {
	return tensor.Greater(a, b)
}

// GreaterEqual reports a >= b element-wise.
func GreaterEqual[T Numeric](a, b Expr[T]) (*BinaryExpr[T, T, bool], error) {
	return tensor.GreaterEqual(a, b)
}

// Equal reports a == b element-wise.
func Equal[T DType](a, b Expr[T]) (*BinaryExpr[T, T, bool], error) { return tensor.Equal(a, b) }

// NotEqual reports a != b element-wise.
func NotEqual[T DType](a, b Expr[T]) (*BinaryExpr[T, T, bool], error) {
	return tensor.NotEqual(a, b)
}

// And is the element-wise logical conjunction.
func And(a, b Expr[bool]) (*BinaryExpr[bool, bool, bool], error) { return tensor.And(a, b) }

// Or is the element-wise logical disjunction.
func Or(a, b Expr[bool]) (*BinaryExpr[bool, bool, bool], error) { return tensor.Or(a, b) }

// Xor is the element-wise exclusive or.
func Xor(a, b Expr[bool]) (*BinaryExpr[bool, bool, bool], error) { return tensor.Xor(a, b) }

// Outer returns the lazy outer combination of a and b: the result's shape is
// a's shape followed by b's.
func Outer[A, B, R any](a Expr[A], b Expr[B], f func(A, B) R) *OuterExpr[A, B, R] {
	return tensor.Outer(a, b, f)
}

// OuterProduct returns the lazy outer product of a and b.
func OuterProduct[T Numeric](a, b Expr[T]) *OuterExpr[T, T, T] {
	return tensor.OuterProduct(a, b)
}

// Assignment

// Assign evaluates src into dst after broadcasting src to dst's shape.
// On a shape mismatch dst is left untouched.
func Assign[T DType](dst Target[T], src Expr[T]) error {
	return tensor.Assign(dst, src)
}

// Copy evaluates src into a new array with the given layout.
func Copy[T DType](src Expr[T], layout Layout) (*Array[T], error) {
	return tensor.Copy(src, layout)
}

// MaterializeParallel evaluates src into dst, splitting the work across
// goroutines when src can be read concurrently.
func MaterializeParallel[T DType](dst *Array[T], src Expr[T], cfg ParallelConfig) error {
	return tensor.MaterializeParallel(dst, src, cfg)
}

// ApplyAssign replaces every element of dst with f of itself.
func ApplyAssign[T DType](dst Target[T], f func(T) T) error {
	return tensor.ApplyAssign(dst, f)
}

// AddAssign computes dst += src.
func AddAssign[T Numeric](dst Target[T], src Expr[T]) error { return tensor.AddAssign(dst, src) }

// SubAssign computes dst -= src.
func SubAssign[T Numeric](dst Target[T], src Expr[T]) error { return tensor.SubAssign(dst, src) }

// MulAssign computes dst *= src.
func MulAssign[T Numeric](dst Target[T], src Expr[T]) error { return tensor.MulAssign(dst, src) }

// DivAssign computes dst /= src.
func DivAssign[T Numeric](dst Target[T], src Expr[T]) error { return tensor.DivAssign(dst, src) }

// Reductions

// Reduce returns a lazy reduction of src over axes. f receives the elements
// of each reduced block in row-major order. With no axes every axis is reduced.
func Reduce[T, R any](src Expr[T], f func([]T) R, keepDims bool, axes ...int) (*ReduceExpr[T, R], error) {
	return tensor.Reduce(src, f, keepDims, axes...)
}

// Accumulate returns the running fold of f along axis.
func Accumulate[T DType](src Expr[T], f func(acc, x T) T, axis int) (*Array[T], error) {
	return tensor.Accumulate(src, f, axis)
}

// CumSum returns the cumulative sum along axis.
func CumSum[T Numeric](src Expr[T], axis int) (*Array[T], error) { return tensor.CumSum(src, axis) }

// CumProd returns the cumulative product along axis.
func CumProd[T Numeric](src Expr[T], axis int) (*Array[T], error) { return tensor.CumProd(src, axis) }

// Fold folds every element of src, in row-major order, into init.
func Fold[T, R any](src Expr[T], init R, f func(R, T) R) R { return tensor.Fold(src, init, f) }

// Sum returns the sum of all elements.
func Sum[T Numeric](src Expr[T]) T { return tensor.Sum(src) }

// Prod returns the product of all elements.
func Prod[T Numeric](src Expr[T]) T { return tensor.Prod(src) }

// Min returns the smallest element. An empty operand is an error.
func Min[T Numeric](src Expr[T]) (T, error) { return tensor.Min(src) }

// Max returns the largest element. An empty operand is an error.
func Max[T Numeric](src Expr[T]) (T, error) { return tensor.Max(src) }

// Argmin returns the row-major position of the first smallest element.
func Argmin[T Numeric](src Expr[T]) (int, error) { return tensor.Argmin(src) }

// Argmax returns the row-major position of the first largest element.
func Argmax[T Numeric](src Expr[T]) (int, error) { return tensor.Argmax(src) }

// Mean returns the arithmetic mean, NaN for an empty operand.
func Mean[T Numeric](src Expr[T]) float64 { return tensor.Mean(src) }

// Var returns the variance with ddof delta degrees of freedom.
func Var[T Numeric](src Expr[T], ddof int) float64 { return tensor.Var(src, ddof) }

// Std returns the standard deviation with ddof delta degrees of freedom.
func Std[T Numeric](src Expr[T], ddof int) float64 { return tensor.Std(src, ddof) }

// SumAxis sums over axes lazily.
//
// Example:
//
//	colSums, _ := tensor.SumAxis[float64](a, false, 0)
func SumAxis[T Numeric](src Expr[T], keepDims bool, axes ...int) (*ReduceExpr[T, T], error) {
	return tensor.SumAxis(src, keepDims, axes...)
}

// ProdAxis multiplies over axes lazily.
func ProdAxis[T Numeric](src Expr[T], keepDims bool, axes ...int) (*ReduceExpr[T, T], error) {
	return tensor.ProdAxis(src, keepDims, axes...)
}

// MinAxis takes the minimum over axes lazily.
func MinAxis[T Numeric](src Expr[T], keepDims bool, axes ...int) (*ReduceExpr[T, T], error) {
	return tensor.MinAxis(src, keepDims, axes...)
}

// MaxAxis takes the maximum over axes lazily.
func MaxAxis[T Numeric](src Expr[T], keepDims bool, axes ...int) (*ReduceExpr[T, T], error) {
	return tensor.MaxAxis(src, keepDims, axes...)
}

// ArgminAxis returns, per reduced block, the row-major position of its first minimum.
func ArgminAxis[T Numeric](src Expr[T], keepDims bool, axes ...int) (*ReduceExpr[T, int], error) {
	return tensor.ArgminAxis(src, keepDims, axes...)
}

// ArgmaxAxis returns, per reduced block, the row-major position of its first maximum.
func ArgmaxAxis[T Numeric](src Expr[T], keepDims bool, axes ...int) (*ReduceExpr[T, int], error) {
	return tensor.ArgmaxAxis(src, keepDims, axes...)
}

// MeanAxis averages over axes lazily.
func MeanAxis[T Numeric](src Expr[T], keepDims bool, axes ...int) (*ReduceExpr[T, float64], error) {
	return tensor.MeanAxis(src, keepDims, axes...)
}

// VarAxis computes the variance over axes lazily.
func VarAxis[T Numeric](src Expr[T], ddof int, keepDims bool, axes ...int) (*ReduceExpr[T, float64], error) {
	return tensor.VarAxis(src, ddof, keepDims, axes...)
}

// StdAxis computes the standard deviation over axes lazily.
func StdAxis[T Numeric](src Expr[T], ddof int, keepDims bool, axes ...int) (*ReduceExpr[T, float64], error) {
	return tensor.StdAxis(src, ddof, keepDims, axes...)
}

// Dot returns the inner product of two operands of equal size, read in row-major order.
func Dot(a, b Expr[float64]) (float64, error) { return tensor.Dot(a, b) }

// Norm returns the l-norm of src; l = math.Inf(1) gives the max norm.
func Norm(src Expr[float64], l float64) float64 { return tensor.Norm(src, l) }

// AllClose reports whether a and b broadcast to a common shape and agree
// element-wise within tol, absolute or relative.
func AllClose(a, b Expr[float64], tol float64) (bool, error) { return tensor.AllClose(a, b, tol) }

// Iteration

// NewIterator returns an iterator over src positioned at the first element.
//
// Example:
//
//	for it := tensor.NewIterator[float64](a, tensor.ColMajor); !it.Done(); it.Next() {
//	    fmt.Println(it.Coord(), it.Value())
//	}
func NewIterator[T any](src Expr[T], order Layout) *Iterator[T] {
	return tensor.NewIterator(src, order)
}

// Coords yields every coordinate of shape in order. The yielded slice is
// reused between iterations.
func Coords(shape Shape, order Layout) iter.Seq[[]int] { return tensor.Coords(shape, order) }

// Enumerate yields every coordinate of src with its element.
//
// Example:
//
//	for idx, v := range tensor.Enumerate[float64](a, tensor.RowMajor) {
//	    fmt.Println(idx, v)
//	}
func Enumerate[T any](src Expr[T], order Layout) iter.Seq2[[]int, T] {
	return tensor.Enumerate(src, order)
}

// Values yields every element of src in order.
func Values[T any](src Expr[T], order Layout) iter.Seq[T] { return tensor.Values(src, order) }

// Backward yields every coordinate and element of src in reverse order.
func Backward[T any](src Expr[T], order Layout) iter.Seq2[[]int, T] {
	return tensor.Backward(src, order)
}

// ToSlice collects the elements of src in order.
func ToSlice[T any](src Expr[T], order Layout) []T { return tensor.ToSlice(src, order) }

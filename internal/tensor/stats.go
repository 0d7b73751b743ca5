package tensor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Fold reduces every element of src, in row-major order, into an
// accumulator starting at init.
//
// Example:
//
//	count := tensor.Fold(mask, 0, func(n int, b bool) int {
//	    if b {
//	        return n + 1
//	    }
//	    return n
//	})
func Fold[T, R any](src Expr[T], init R, f func(R, T) R) R {
	acc := init
	for v := range Values(src, RowMajor) {
		acc = f(acc, v)
	}
	return acc
}

// Sum returns the sum of all elements (0 for an empty operand).
func Sum[T Numeric](src Expr[T]) T {
	return sumOf(ToSlice(src, RowMajor))
}

// Prod returns the product of all elements (1 for an empty operand).
func Prod[T Numeric](src Expr[T]) T {
	return prodOf(ToSlice(src, RowMajor))
}

// Min returns the smallest element. An empty operand fails with
// ErrInvalidArgument.
func Min[T Numeric](src Expr[T]) (T, error) {
	vals := ToSlice(src, RowMajor)
	if len(vals) == 0 {
		var zero T
		return zero, errEmptyReduction("min")
	}
	return vals[argminOf(vals)], nil
}

// Max returns the largest element. An empty operand fails with
// ErrInvalidArgument.
func Max[T Numeric](src Expr[T]) (T, error) {
	vals := ToSlice(src, RowMajor)
	if len(vals) == 0 {
		var zero T
		return zero, errEmptyReduction("max")
	}
	return vals[argmaxOf(vals)], nil
}

// Argmin returns the row-major flat position of the first smallest element.
func Argmin[T Numeric](src Expr[T]) (int, error) {
	vals := ToSlice(src, RowMajor)
	if len(vals) == 0 {
		return 0, errEmptyReduction("argmin")
	}
	return argminOf(vals), nil
}

// Argmax returns the row-major flat position of the first largest element.
func Argmax[T Numeric](src Expr[T]) (int, error) {
	vals := ToSlice(src, RowMajor)
	if len(vals) == 0 {
		return 0, errEmptyReduction("argmax")
	}
	return argmaxOf(vals), nil
}

// Mean returns the arithmetic mean of all elements (NaN when empty).
func Mean[T Numeric](src Expr[T]) float64 {
	return meanOf(ToSlice(src, RowMajor))
}

// Var returns the variance of all elements with ddof delta degrees of
// freedom: Σ(x - mean)² / (n - ddof). ddof 0 is the population variance,
// 1 the sample variance. NaN when n - ddof <= 0.
func Var[T Numeric](src Expr[T], ddof int) float64 {
	return varOf(ToSlice(src, RowMajor), ddof)
}

// Std returns the standard deviation, the square root of Var.
func Std[T Numeric](src Expr[T], ddof int) float64 {
	return math.Sqrt(Var(src, ddof))
}

// SumAxis returns the lazy sum over axes (all axes when none are given).
//
// Example:
//
//	m := tensor.Must(tensor.FromSlice([]int{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, tensor.RowMajor))
//	cols, _ := tensor.SumAxis[int](m, false, 0) // (3,): [5 7 9]
//	rows, _ := tensor.SumAxis[int](m, true, 1)  // (2, 1): [[6] [15]]
func SumAxis[T Numeric](src Expr[T], keepDims bool, axes ...int) (*ReduceExpr[T, T], error) {
	return Reduce(src, sumOf[T], keepDims, axes...)
}

// ProdAxis returns the lazy product over axes.
func ProdAxis[T Numeric](src Expr[T], keepDims bool, axes ...int) (*ReduceExpr[T, T], error) {
	return Reduce(src, prodOf[T], keepDims, axes...)
}

// MinAxis returns the lazy minimum over axes. The reduced axes must not be
// empty.
func MinAxis[T Numeric](src Expr[T], keepDims bool, axes ...int) (*ReduceExpr[T, T], error) {
	e, err := Reduce(src, func(v []T) T { return v[argminOf(v)] }, keepDims, axes...)
	if err != nil {
		return nil, err
	}
	if err := checkNonEmptyReduction("min", e); err != nil {
		return nil, err
	}
	return e, nil
}

// MaxAxis returns the lazy maximum over axes. The reduced axes must not be
// empty.
func MaxAxis[T Numeric](src Expr[T], keepDims bool, axes ...int) (*ReduceExpr[T, T], error) {
	e, err := Reduce(src, func(v []T) T { return v[argmaxOf(v)] }, keepDims, axes...)
	if err != nil {
		return nil, err
	}
	if err := checkNonEmptyReduction("max", e); err != nil {
		return nil, err
	}
	return e, nil
}

// ArgminAxis returns, for each output element, the row-major position of
// the first minimum within the reduced block. With a single axis this is
// the index along that axis.
func ArgminAxis[T Numeric](src Expr[T], keepDims bool, axes ...int) (*ReduceExpr[T, int], error) {
	e, err := Reduce(src, argminOf[T], keepDims, axes...)
	if err != nil {
		return nil, err
	}
	if err := checkNonEmptyReduction("argmin", e); err != nil {
		return nil, err
	}
	return e, nil
}

// ArgmaxAxis is the maximum counterpart of ArgminAxis.
func ArgmaxAxis[T Numeric](src Expr[T], keepDims bool, axes ...int) (*ReduceExpr[T, int], error) {
	e, err := Reduce(src, argmaxOf[T], keepDims, axes...)
	if err != nil {
		return nil, err
	}
	if err := checkNonEmptyReduction("argmax", e); err != nil {
		return nil, err
	}
	return e, nil
}

// MeanAxis returns the lazy mean over axes.
func MeanAxis[T Numeric](src Expr[T], keepDims bool, axes ...int) (*ReduceExpr[T, float64], error) {
	return Reduce(src, meanOf[T], keepDims, axes...)
}

// VarAxis returns the lazy variance over axes with ddof delta degrees of
// freedom.
func VarAxis[T Numeric](src Expr[T], ddof int, keepDims bool, axes ...int) (*ReduceExpr[T, float64], error) {
	return Reduce(src, func(v []T) float64 { return varOf(v, ddof) }, keepDims, axes...)
}

// StdAxis returns the lazy standard deviation over axes.
func StdAxis[T Numeric](src Expr[T], ddof int, keepDims bool, axes ...int) (*ReduceExpr[T, float64], error) {
	return Reduce(src, func(v []T) float64 { return math.Sqrt(varOf(v, ddof)) }, keepDims, axes...)
}

// Dot returns the inner product of two operands of equal size, both read
// in row-major order.
func Dot(a, b Expr[float64]) (float64, error) {
	if a.Size() != b.Size() {
		return 0, &ShapeError{Op: "dot", Shapes: []Shape{a.Shape().Clone(), b.Shape().Clone()}, Detail: "sizes differ"}
	}
	return floats.Dot(ToSlice(a, RowMajor), ToSlice(b, RowMajor)), nil
}

// Norm returns the L-norm of all elements; L may be math.Inf(1) for the
// maximum norm.
func Norm(src Expr[float64], l float64) float64 {
	return floats.Norm(ToSlice(src, RowMajor), l)
}

// AllClose reports whether a and b, broadcast to a common shape, are
// element-wise equal within tol (absolute or relative).
func AllClose(a, b Expr[float64], tol float64) (bool, error) {
	shape, _, err := BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		return false, err
	}
	ba, err := BroadcastTo(a, shape)
	if err != nil {
		return false, err
	}
	bb, err := BroadcastTo(b, shape)
	if err != nil {
		return false, err
	}
	return floats.EqualApprox(ToSlice(ba, RowMajor), ToSlice(bb, RowMajor), tol), nil
}

func errEmptyReduction(op string) error {
	return &InvalidArgumentError{Op: op, Detail: "empty operand has no identity"}
}

// checkNonEmptyReduction rejects reductions whose reduced block is empty
// while the output is not.
func checkNonEmptyReduction[T, R any](op string, e *ReduceExpr[T, R]) error {
	if e.inner.NumElements() == 0 && e.Size() > 0 {
		return &InvalidArgumentError{Op: op, Detail: fmt.Sprintf("reduced axes of %v are empty", e.src.Shape())}
	}
	return nil
}

func sumOf[T Numeric](v []T) T {
	var s T
	for _, x := range v {
		s += x
	}
	return s
}

func prodOf[T Numeric](v []T) T {
	p := T(1)
	for _, x := range v {
		p *= x
	}
	return p
}

// argminOf returns the first position of the minimum. NaN compares false
// and is skipped unless every value is NaN.
func argminOf[T Numeric](v []T) int {
	if f, ok := any(v).([]float64); ok {
		return floats.MinIdx(f)
	}
	best := 0
	for i, x := range v {
		if x < v[best] || v[best] != v[best] {
			best = i
		}
	}
	return best
}

// argmaxOf is the maximum counterpart of argminOf.
func argmaxOf[T Numeric](v []T) int {
	if f, ok := any(v).([]float64); ok {
		return floats.MaxIdx(f)
	}
	best := 0
	for i, x := range v {
		if x > v[best] || v[best] != v[best] {
			best = i
		}
	}
	return best
}

func toFloat64s[T Numeric](v []T) []float64 {
	if f, ok := any(v).([]float64); ok {
		return f
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

func meanOf[T Numeric](v []T) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	return stat.Mean(toFloat64s(v), nil)
}

func varOf[T Numeric](v []T, ddof int) float64 {
	n := len(v)
	if n-ddof <= 0 {
		return math.NaN()
	}
	if n == 1 {
		return 0
	}
	// stat.MeanVariance is the unbiased (n-1) estimator; rescale to n-ddof.
	_, uvar := stat.MeanVariance(toFloat64s(v), nil)
	return uvar * float64(n-1) / float64(n-ddof)
}

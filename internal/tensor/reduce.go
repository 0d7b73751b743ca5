package tensor

import "fmt"

// ReduceExpr lazily reduces one or more axes of an operand. Each output
// element gathers the operand's values along the reduced axes (row-major)
// and passes them to f.
//
// The slice handed to f is scratch space reused between elements; f must
// not retain it. A single ReduceExpr must not be read from several
// goroutines at once.
type ReduceExpr[T, R any] struct {
	src      Expr[T]
	f        func([]T) R
	shape    Shape
	reduced  []bool
	keepDims bool
	inner    Shape
	innerAx  []int
	srcIdx   []int
	innerIdx []int
	vals     []T
}

// Reduce builds a lazy reduction of src over axes using f. With no axes
// every axis is reduced. When keepDims is set the reduced axes stay in the
// result with extent 1. An axis outside the operand's rank, or a repeated
// axis, fails with ErrShapeMismatch.
//
// Example:
//
//	rowSums, _ := tensor.Reduce(m, func(v []float64) float64 {
//	    return floats.Sum(v)
//	}, false, 1)
func Reduce[T, R any](src Expr[T], f func([]T) R, keepDims bool, axes ...int) (*ReduceExpr[T, R], error) {
	srcShape := src.Shape()
	n := len(srcShape)
	reduced := make([]bool, n)
	if len(axes) == 0 {
		for i := range reduced {
			reduced[i] = true
		}
	}
	for _, ax := range axes {
		a := ax
		if a < 0 {
			a += n
		}
		if a < 0 || a >= n {
			return nil, &ShapeError{Op: "reduce", Shapes: []Shape{srcShape.Clone()}, Detail: fmt.Sprintf("axis %d out of range", ax)}
		}
		if reduced[a] {
			return nil, &ShapeError{Op: "reduce", Shapes: []Shape{srcShape.Clone()}, Detail: fmt.Sprintf("repeated axis %d", ax)}
		}
		reduced[a] = true
	}

	e := &ReduceExpr[T, R]{
		src:      src,
		f:        f,
		shape:    Shape{},
		reduced:  reduced,
		keepDims: keepDims,
		inner:    Shape{},
		srcIdx:   make([]int, n),
	}
	for i, dim := range srcShape {
		if reduced[i] {
			e.inner = append(e.inner, dim)
			e.innerAx = append(e.innerAx, i)
			if keepDims {
				e.shape = append(e.shape, 1)
			}
			continue
		}
		e.shape = append(e.shape, dim)
	}
	e.innerIdx = make([]int, len(e.inner))
	e.vals = make([]T, 0, e.inner.NumElements())
	return e, nil
}

// Shape returns the reduced shape.
func (e *ReduceExpr[T, R]) Shape() Shape { return e.shape }

// Ndim returns the number of axes.
func (e *ReduceExpr[T, R]) Ndim() int { return len(e.shape) }

// Size returns the number of elements.
func (e *ReduceExpr[T, R]) Size() int { return e.shape.NumElements() }

// Value reduces the operand's slab at index.
func (e *ReduceExpr[T, R]) Value(index []int) R {
	j := 0
	for i, red := range e.reduced {
		if red {
			if e.keepDims {
				j++
			}
			continue
		}
		e.srcIdx[i] = index[j]
		j++
	}

	e.vals = e.vals[:0]
	if e.inner.NumElements() > 0 {
		clear(e.innerIdx)
		for {
			for k, ax := range e.innerAx {
				e.srcIdx[ax] = e.innerIdx[k]
			}
			e.vals = append(e.vals, e.src.Value(e.srcIdx))
			if !nextIndex(e.innerIdx, e.inner, RowMajor) {
				break
			}
		}
	}
	return e.f(e.vals)
}

func (e *ReduceExpr[T, R]) readsFrom(buf any) bool { return readsFrom(e.src, buf) }

// Accumulate returns the running reduction of src along axis: element i
// along the axis is f(result[i-1], src[i]), starting from src[0].
//
// Example:
//
//	cs, _ := tensor.Accumulate(a, func(acc, x int) int { return acc + x }, 0)
func Accumulate[T DType](src Expr[T], f func(acc, x T) T, axis int) (*Array[T], error) {
	shape := src.Shape()
	ax, err := NormalizeAxis(axis, len(shape))
	if err != nil {
		return nil, err
	}
	out, err := New[T](shape, RowMajor)
	if err != nil {
		return nil, err
	}
	if out.Size() == 0 {
		return out, nil
	}
	data := out.buf.data
	step := out.strides[ax]
	idx := make([]int, len(shape))
	for pos := 0; ; pos++ {
		x := src.Value(idx)
		if idx[ax] == 0 {
			data[pos] = x
		} else {
			data[pos] = f(data[pos-step], x)
		}
		if !nextIndex(idx, shape, RowMajor) {
			break
		}
	}
	return out, nil
}

// CumSum returns the cumulative sum along axis.
func CumSum[T Numeric](src Expr[T], axis int) (*Array[T], error) {
	return Accumulate(src, func(acc, x T) T { return acc + x }, axis)
}

// CumProd returns the cumulative product along axis.
func CumProd[T Numeric](src Expr[T], axis int) (*Array[T], error) {
	return Accumulate(src, func(acc, x T) T { return acc * x }, axis)
}

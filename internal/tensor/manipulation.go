package tensor

import "fmt"

// Concatenate joins arrays along axis into a new row-major array.
//
// All inputs must have the same rank and the same extents except along the
// concatenation axis. Supports negative axis indexing (-1 = last axis).
//
// Example:
//
//	a := tensor.Zeros[float32](tensor.Shape{2, 3})
//	b := tensor.Ones[float32](tensor.Shape{2, 5})
//	c, _ := tensor.Concatenate([]tensor.Expr[float32]{a, b}, 1) // Shape: (2, 8)
func Concatenate[T DType](srcs []Expr[T], axis int) (*Array[T], error) {
	if len(srcs) == 0 {
		return nil, &InvalidArgumentError{Op: "concatenate", Detail: "at least one array required"}
	}
	first := srcs[0].Shape()
	ax, err := NormalizeAxis(axis, len(first))
	if err != nil {
		return nil, err
	}
	out := first.Clone()
	out[ax] = 0
	for _, src := range srcs {
		s := src.Shape()
		if len(s) != len(first) {
			return nil, &ShapeError{Op: "concatenate", Shapes: []Shape{first.Clone(), s.Clone()}, Detail: "ranks differ"}
		}
		for i := range s {
			if i != ax && s[i] != first[i] {
				return nil, &ShapeError{Op: "concatenate", Shapes: []Shape{first.Clone(), s.Clone()}, Detail: fmt.Sprintf("axis %d differs", i)}
			}
		}
		out[ax] += s[ax]
	}

	dst, err := New[T](out, RowMajor)
	if err != nil {
		return nil, err
	}
	start := 0
	for _, src := range srcs {
		n := src.Shape()[ax]
		specs := make([]Slice, ax+1)
		for i := range ax {
			specs[i] = All()
		}
		specs[ax] = Span(start, start+n)
		part, err := dst.Slice(specs...)
		if err != nil {
			return nil, err
		}
		if err := Assign[T](part, src); err != nil {
			return nil, err
		}
		start += n
	}
	return dst, nil
}

// Split divides v into n equal views along axis.
// The axis extent must be divisible by n.
//
// Example:
//
//	x := tensor.Zeros[float32](tensor.Shape{2, 3, 6})
//	parts, _ := tensor.Split(x.View(), 3, -1) // 3 views of shape (2, 3, 2)
func Split[T DType](v *View[T], n, axis int) ([]*View[T], error) {
	ax, err := NormalizeAxis(axis, v.Ndim())
	if err != nil {
		return nil, err
	}
	dim := v.shape[ax]
	if n <= 0 || dim%n != 0 {
		return nil, &InvalidArgumentError{Op: "split", Detail: fmt.Sprintf("axis %d of extent %d cannot be split into %d parts", ax, dim, n)}
	}
	step := dim / n
	parts := make([]*View[T], n)
	specs := make([]Slice, ax+1)
	for i := range ax {
		specs[i] = All()
	}
	for k := range parts {
		specs[ax] = Span(k*step, (k+1)*step)
		part, err := v.Slice(specs...)
		if err != nil {
			return nil, err
		}
		parts[k] = part
	}
	return parts, nil
}

// Where selects elements from x where cond is true and from y elsewhere.
// All three operands are broadcast to a common shape.
//
// Example:
//
//	pos, _ := tensor.Greater(a, tensor.Scalar(0.0))
//	relu, _ := tensor.Where[float64](pos, a, tensor.Scalar(0.0))
func Where[T DType](cond Expr[bool], x, y Expr[T]) (*Array[T], error) {
	shape, err := BroadcastAll(cond.Shape(), x.Shape(), y.Shape())
	if err != nil {
		return nil, err
	}
	bc, err := BroadcastTo(cond, shape)
	if err != nil {
		return nil, err
	}
	bx, err := BroadcastTo(x, shape)
	if err != nil {
		return nil, err
	}
	by, err := BroadcastTo(y, shape)
	if err != nil {
		return nil, err
	}
	out, err := New[T](shape, RowMajor)
	if err != nil {
		return nil, err
	}
	pos := 0
	for idx := range Coords(shape, RowMajor) {
		if bc.Value(idx) {
			out.buf.data[pos] = bx.Value(idx)
		} else {
			out.buf.data[pos] = by.Value(idx)
		}
		pos++
	}
	return out, nil
}

// Squeeze returns a view without the given size-1 axes, or without every
// size-1 axis when none are given.
func (a *Array[T]) Squeeze(axes ...int) (*View[T], error) {
	return a.View().Squeeze(axes...)
}

// ExpandDims returns a view with a size-1 axis inserted at position axis.
//
// Example:
//
//	x := tensor.Zeros[float32](tensor.Shape{2, 3})
//	y, _ := x.ExpandDims(1)  // Shape: (2, 1, 3)
//	z, _ := x.ExpandDims(-1) // Shape: (2, 3, 1)
func (a *Array[T]) ExpandDims(axis int) (*View[T], error) {
	return a.View().ExpandDims(axis)
}

package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// exprMatrix adapts a 2-D Expr[float64] to gonum's mat.Matrix.
type exprMatrix struct {
	src Expr[float64]
	r   int
	c   int
}

// AsMatrix exposes a 2-D operand (array, view or expression) as a
// mat.Matrix without copying. Elements are computed on each At call.
func AsMatrix(src Expr[float64]) (mat.Matrix, error) {
	shape := src.Shape()
	if len(shape) != 2 {
		return nil, &InvalidArgumentError{Op: "as matrix", Detail: fmt.Sprintf("need a 2-D operand, got shape %v", shape)}
	}
	return &exprMatrix{src: src, r: shape[0], c: shape[1]}, nil
}

// Dims returns the number of rows and columns.
func (m *exprMatrix) Dims() (r, c int) { return m.r, m.c }

// At returns the element at row i, column j.
func (m *exprMatrix) At(i, j int) float64 {
	if i < 0 || i >= m.r || j < 0 || j >= m.c {
		panic(mat.ErrIndexOutOfRange)
	}
	return m.src.Value([]int{i, j})
}

// T returns the transpose.
func (m *exprMatrix) T() mat.Matrix { return mat.Transpose{Matrix: m} }

// FromMatrix copies a gonum matrix into a new 2-D array with the given layout.
func FromMatrix(m mat.Matrix, layout Layout) (*Array[float64], error) {
	r, c := m.Dims()
	out, err := New[float64](Shape{r, c}, layout)
	if err != nil {
		return nil, err
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.buf.data[i*out.strides[0]+j*out.strides[1]] = m.At(i, j)
		}
	}
	return out, nil
}

// MatMul returns the matrix product a·b of two 2-D operands as a new
// row-major array. Inner dimensions must agree.
//
// Example:
//
//	a := tensor.Must(tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2}, tensor.RowMajor))
//	p, _ := tensor.MatMul(a, a.T()) // a·aᵀ
func MatMul(a, b Expr[float64]) (*Array[float64], error) {
	as, bs := a.Shape(), b.Shape()
	if len(as) != 2 || len(bs) != 2 || as[1] != bs[0] {
		return nil, &ShapeError{Op: "matmul", Shapes: []Shape{as.Clone(), bs.Clone()}, Detail: "need (m, k) and (k, n)"}
	}
	out, err := New[float64](Shape{as[0], bs[1]}, RowMajor)
	if err != nil {
		return nil, err
	}
	if out.Size() == 0 {
		return out, nil
	}
	if as[1] == 0 {
		return out, nil
	}
	da, err := denseOf(a)
	if err != nil {
		return nil, err
	}
	db, err := denseOf(b)
	if err != nil {
		return nil, err
	}
	dst := mat.NewDense(as[0], bs[1], out.buf.data)
	dst.Mul(da, db)
	return out, nil
}

// denseOf returns src as a *mat.Dense, sharing memory with row-major arrays
// and copying anything else.
func denseOf(src Expr[float64]) (*mat.Dense, error) {
	shape := src.Shape()
	if a, ok := src.(*Array[float64]); ok && a.layout == RowMajor {
		return mat.NewDense(shape[0], shape[1], a.buf.data), nil
	}
	c, err := Copy(src, RowMajor)
	if err != nil {
		return nil, err
	}
	return mat.NewDense(shape[0], shape[1], c.buf.data), nil
}

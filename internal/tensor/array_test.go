package tensor

import (
	"errors"
	"slices"
	"testing"

	"github.com/born-ml/ndarray/internal/parallel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	a, err := New[float32](Shape{2, 3}, RowMajor)
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 3}, a.Shape())
	assert.Equal(t, 2, a.Ndim())
	assert.Equal(t, 6, a.Size())
	assert.Equal(t, []int{3, 1}, a.Strides())
	assert.Equal(t, Float32, a.DType())
	for _, v := range a.Data() {
		assert.Zero(t, v)
	}

	_, err = New[float32](Shape{2, -3}, RowMajor)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewScalarAndEmpty(t *testing.T) {
	s, err := New[int](Shape{}, RowMajor)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Size())
	s.Set(7)
	assert.Equal(t, 7, s.At())

	e, err := New[int](Shape{3, 0}, RowMajor)
	require.NoError(t, err)
	assert.True(t, e.Empty())
	assert.Equal(t, 0, e.Size())
}

func TestFromSlice(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}

	row, err := FromSlice(data, Shape{2, 3}, RowMajor)
	require.NoError(t, err)
	assert.Equal(t, 2.0, row.At(0, 1))
	assert.Equal(t, 4.0, row.At(1, 0))

	col, err := FromSlice(data, Shape{2, 3}, ColMajor)
	require.NoError(t, err)
	assert.Equal(t, 3.0, col.At(0, 1))
	assert.Equal(t, 2.0, col.At(1, 0))
	assert.Equal(t, []float64{1, 3, 5, 2, 4, 6}, ToSlice[float64](col, RowMajor))

	// The array owns a copy.
	data[0] = 100
	assert.Equal(t, 1.0, row.At(0, 0))

	_, err = FromSlice(data[:5], Shape{2, 3}, RowMajor)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	long, err := FromSlice([]int{1, 2, 3, 4}, Shape{3}, RowMajor)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, long.Data())
}

func TestFromSeq(t *testing.T) {
	a, err := FromSeq(slices.Values([]int{1, 2, 3, 4, 5, 6, 7}), Shape{2, 3}, RowMajor)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, a.Data())

	_, err = FromSeq(slices.Values([]int{1, 2}), Shape{2, 3}, RowMajor)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestWrap(t *testing.T) {
	data := []int{1, 2, 3, 4}
	a, err := Wrap(data, Shape{2, 2}, RowMajor)
	require.NoError(t, err)
	data[3] = 40
	assert.Equal(t, 40, a.At(1, 1))
}

func TestArrayAccess(t *testing.T) {
	a := Must(FromSlice([]int{1, 2, 3, 4, 5, 6}, Shape{2, 3}, RowMajor))

	a.Set(60, 1, 2)
	assert.Equal(t, 60, a.At(1, 2))

	v, err := a.Get(0, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = a.Get(2, 0)
	var ie *IndexError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, 0, ie.Axis)
	assert.Equal(t, []int{2, 0}, ie.Index)

	assert.ErrorIs(t, a.Put(1, 0, 3), ErrIndex)
	assert.ErrorIs(t, a.Put(1, 0), ErrIndex)
	require.NoError(t, a.Put(9, 0, 0))
	assert.Equal(t, 9, a.At(0, 0))

	assert.Panics(t, func() { a.At(0, -1) })
	assert.Panics(t, func() { a.Set(0, 5, 5) })
}

func TestArrayFillApply(t *testing.T) {
	a := Zeros[int](Shape{2, 2})
	a.Fill(3)
	assert.Equal(t, []int{3, 3, 3, 3}, a.Data())
	a.Apply(func(x int) int { return x * x })
	assert.Equal(t, []int{9, 9, 9, 9}, a.Data())
}

func TestArrayClone(t *testing.T) {
	a := Must(FromSlice([]float32{1, 2, 3, 4}, Shape{2, 2}, ColMajor))
	b := a.Clone()

	assert.Equal(t, a.Shape(), b.Shape())
	assert.Equal(t, a.Layout(), b.Layout())
	assert.Equal(t, a.Data(), b.Data())

	b.Set(100, 0, 0)
	assert.Equal(t, float32(1), a.At(0, 0), "clone must not alias")
}

func TestArrayMoveFrom(t *testing.T) {
	a := Must(FromSlice([]int{1, 2, 3}, Shape{3}, RowMajor))
	old := a.View()
	b := Must(FromSlice([]int{4, 5}, Shape{2}, RowMajor))

	a.MoveFrom(b)
	assert.Equal(t, []int{4, 5}, a.Data())
	assert.Equal(t, Shape{0}, b.Shape())
	assert.True(t, b.Empty())

	assert.True(t, old.Stale())
	assert.ErrorIs(t, old.Check(), ErrStaleView)
	assert.ErrorIs(t, old.Fill(0), ErrStaleView)

	var zero Array[int]
	zero.MoveFrom(a)
	assert.Equal(t, []int{4, 5}, zero.Data())
}

func TestArrayZeroValue(t *testing.T) {
	var a Array[int]
	assert.Equal(t, Shape{0}, a.Shape())
	assert.Equal(t, 1, a.Ndim())
	assert.Equal(t, 0, a.Size())
	assert.True(t, a.Empty())
	assert.Empty(t, a.Data())
	assert.Empty(t, ToSlice[int](&a, RowMajor))
	assert.Equal(t, 0, a.Clone().Size())
	assert.Equal(t, Shape{0}, a.Flatten().Shape())

	_, err := a.Get(0)
	assert.ErrorIs(t, err, ErrIndex)
	require.NoError(t, a.Assign(Scalar(1)))
	require.NoError(t, MaterializeParallel[int](&a, Scalar(1), parallel.DefaultConfig()))

	require.NoError(t, a.Resize(Shape{2, 2}))
	a.Fill(3)
	assert.Equal(t, []int{3, 3, 3, 3}, a.Data())
}

func TestArrayResize(t *testing.T) {
	a := Must(FromSlice([]int{1, 2, 3, 4, 5, 6}, Shape{2, 3}, RowMajor))
	v := a.View()

	// Same element count: metadata only.
	require.NoError(t, a.Resize(Shape{3, 2}))
	assert.False(t, v.Stale())
	assert.Equal(t, 3, a.At(1, 0))

	// New element count: reallocated and zeroed.
	require.NoError(t, a.Resize(Shape{4}))
	assert.True(t, v.Stale())
	assert.Equal(t, []int{0, 0, 0, 0}, a.Data())

	assert.ErrorIs(t, a.Resize(Shape{-1}), ErrInvalidArgument)
}

func TestArrayRowCol(t *testing.T) {
	a := Must(FromSlice([]int{1, 2, 3, 4, 5, 6}, Shape{2, 3}, RowMajor))

	r, err := a.Row(1)
	require.NoError(t, err)
	assertValues(t, []int{4, 5, 6}, r, "row 1")

	c, err := a.Col(2)
	require.NoError(t, err)
	assertValues(t, []int{3, 6}, c, "col 2")

	c.Set(0, 0)
	assert.Equal(t, 0, a.At(0, 2))

	_, err = Zeros[int](Shape{3}).Row(0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTransposeWriteThrough(t *testing.T) {
	a := Must(FromSlice([]float64{1, 2, 3, 4, 5, 6}, Shape{2, 3}, RowMajor))
	at := a.T()

	assert.Equal(t, Shape{3, 2}, at.Shape())
	assert.Equal(t, ColMajor, at.Layout())
	at.Set(99, 0, 1)
	assert.Equal(t, 99.0, a.At(1, 0))
	assertValues(t, []float64{1, 99, 2, 5, 3, 6}, at, "transposed")
}

func TestArrayFlatten(t *testing.T) {
	a := Must(FromSlice([]int{1, 2, 3, 4}, Shape{2, 2}, ColMajor))
	f := a.Flatten()
	assert.Equal(t, Shape{4}, f.Shape())
	assertValues(t, []int{1, 2, 3, 4}, f, "physical order")

	f.Set(10, 1)
	assert.Equal(t, 10, a.At(1, 0))
}

func TestArrayString(t *testing.T) {
	a := Zeros[float32](Shape{2, 3})
	assert.Equal(t, "Array[float32](2, 3) row-major", a.String())
}

func TestEmptyLike(t *testing.T) {
	a := Must(FromSlice([]int{1, 2, 3, 4}, Shape{2, 2}, ColMajor))
	e, err := EmptyLike[int](a)
	require.NoError(t, err)
	assert.Equal(t, a.Shape(), e.Shape())
	assert.Equal(t, ColMajor, e.Layout())
	assert.Equal(t, []int{0, 0, 0, 0}, e.Data())

	sum := Must(Add[int](a, a))
	e2, err := EmptyLike[int](sum)
	require.NoError(t, err)
	assert.Equal(t, RowMajor, e2.Layout())
}

func TestErrorMessages(t *testing.T) {
	err := Zeros[int](Shape{2, 3}).Put(0, 2, 0)
	assert.EqualError(t, err, "tensor: put: index [2 0] out of bounds for shape (2, 3) (axis 0)")

	_, err = Add[int](Zeros[int](Shape{2, 3}), Zeros[int](Shape{4}))
	var se *ShapeError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, err.Error(), "(2, 3) and (4,)")
}

package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskViewScatter(t *testing.T) {
	a := Must(FromSlice([]float64{1, -2, 3, -4}, Shape{2, 2}, RowMajor))
	neg := Must(Less[float64](a, Scalar(0.0)))

	g, err := MaskView[float64](a, neg)
	require.NoError(t, err)
	assert.Equal(t, Shape{2}, g.Shape())
	assertValues(t, []float64{-2, -4}, g, "masked")

	require.NoError(t, g.Fill(0))
	assert.Equal(t, []float64{1, 0, 3, 0}, a.Data())
}

func TestCompress(t *testing.T) {
	a := Must(FromSlice([]int{1, -2, 3, -4}, Shape{4}, RowMajor))
	mask := Must(Less[int](a, Scalar(0)))

	c, err := Compress[int](a, mask)
	require.NoError(t, err)
	assert.Equal(t, []int{-2, -4}, c.Data())

	// The result is a copy.
	c.Set(100, 0)
	assert.Equal(t, -2, a.At(1))

	none, err := Compress[int](a, Must(Greater[int](a, Scalar(10))))
	require.NoError(t, err)
	assert.Equal(t, Shape{0}, none.Shape())

	_, err = Compress[int](a, Zeros[bool](Shape{2, 2}))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestMaskViewShapeMismatch(t *testing.T) {
	a := Zeros[int](Shape{2, 2})
	_, err := MaskView[int](a, Zeros[bool](Shape{4}))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestMaskViewOnTransposed(t *testing.T) {
	a := Must(FromSlice([]int{1, 2, 3, 4, 5, 6}, Shape{2, 3}, RowMajor))
	at := a.T()
	even := Must(Equal[int](Map[int, int](at, func(x int) int { return x % 2 }), Scalar(0)))

	g, err := MaskView[int](at, even)
	require.NoError(t, err)
	// Row-major over the transposed (3, 2) view: 1 4 2 5 3 6.
	assertValues(t, []int{4, 2, 6}, g, "even")

	require.NoError(t, g.Assign(Must(FromSlice([]int{40, 20, 60}, Shape{3}, RowMajor))))
	assert.Equal(t, []int{1, 20, 3, 40, 5, 60}, a.Data())
}

func TestTakeView(t *testing.T) {
	a := Must(FromSlice([]int{10, 11, 12, 13, 14, 15}, Shape{2, 3}, RowMajor))

	g, err := TakeView[int](a, []int{5, 0, 5})
	require.NoError(t, err)
	assertValues(t, []int{15, 10, 15}, g, "take")

	_, err = TakeView[int](a, []int{6})
	assert.ErrorIs(t, err, ErrIndex)
}

func TestPointsView(t *testing.T) {
	a := Must(FromSlice([]int{10, 11, 12, 13, 14, 15}, Shape{2, 3}, RowMajor))

	g, err := PointsView[int](a, []int{0, 1, 1}, []int{2, 0, 2})
	require.NoError(t, err)
	assertValues(t, []int{12, 13, 15}, g, "points")

	g.Set(0, 1)
	assert.Equal(t, 0, a.At(1, 0))

	_, err = PointsView[int](a, []int{0}, []int{3})
	assert.ErrorIs(t, err, ErrIndex)
	_, err = PointsView[int](a, []int{0, 1}, []int{0})
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = PointsView[int](a, []int{0})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGatherOwnership(t *testing.T) {
	a := Must(FromSlice([]int{10, 11, 12, 13}, Shape{4}, RowMajor))

	idx := []int{0, 1}
	copied, err := NewGatherView[int](a, idx, CopyIndex)
	require.NoError(t, err)
	borrowed, err := NewGatherView[int](a, idx, BorrowIndex)
	require.NoError(t, err)

	idx[0] = 3
	assert.Equal(t, 10, copied.At(0), "copied index is independent")
	assert.Equal(t, 13, borrowed.At(0), "borrowed index tracks the caller")
	assert.Equal(t, []int{0, 1}, copied.Indices())
	assert.Equal(t, BorrowIndex, borrowed.Ownership())
	assert.Equal(t, "borrow", borrowed.Ownership().String())

	// Borrowed positions are re-checked on every access.
	idx[1] = 99
	assert.Panics(t, func() { borrowed.At(1) })

	_, err = NewGatherView[int](a, []int{4}, CopyIndex)
	assert.ErrorIs(t, err, ErrIndex)
	_, err = NewGatherView[int](a, []int{0}, Ownership(7))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGatherReshape(t *testing.T) {
	a := Must(FromSlice([]int{1, 2, 3, 4, 5, 6}, Shape{6}, RowMajor))
	g := Must(TakeView[int](a, []int{5, 4, 3, 2}))

	r, err := g.Reshape(Shape{2, 2})
	require.NoError(t, err)
	assert.Equal(t, 4, r.At(1, 0))

	_, err = g.Reshape(Shape{3})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestGatherDuplicateCompoundAssign(t *testing.T) {
	a := Must(FromSlice([]int{0, 0, 0}, Shape{3}, RowMajor))
	g := Must(TakeView[int](a, []int{1, 1, 2}))

	// Each selected position is updated from the value read before the
	// assignment, so duplicates apply once.
	require.NoError(t, AddAssign[int](g, Scalar(1)))
	assert.Equal(t, []int{0, 1, 1}, a.Data())
}

func TestGatherStale(t *testing.T) {
	a := Zeros[int](Shape{3})
	g := Must(TakeView[int](a, []int{0}))
	require.NoError(t, a.Resize(Shape{5}))
	assert.True(t, g.Stale())
	assert.ErrorIs(t, g.Fill(1), ErrStaleView)
}

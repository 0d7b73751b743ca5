package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryBroadcast(t *testing.T) {
	a := Must(FromSlice([]int{1, 2}, Shape{2, 1}, RowMajor))
	b := Must(FromSlice([]int{10, 20, 30}, Shape{1, 3}, RowMajor))

	sum, err := Add[int](a, b)
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 3}, sum.Shape())
	assertValues(t, []int{11, 21, 31, 12, 22, 32}, sum, "(2,1)+(1,3)")

	// Operand order does not change the shape.
	rev, err := Add[int](b, a)
	require.NoError(t, err)
	assert.Equal(t, sum.Shape(), rev.Shape())
	assertValues(t, []int{11, 21, 31, 12, 22, 32}, rev, "(1,3)+(2,1)")
}

func TestBinaryShapeMismatch(t *testing.T) {
	a := Zeros[float64](Shape{2, 3})
	b := Zeros[float64](Shape{4})

	_, err := Add[float64](a, b)
	var se *ShapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, []Shape{{2, 3}, {4}}, se.Shapes)
}

func TestArithmetic(t *testing.T) {
	a := Must(FromSlice([]float64{1, 2, 3, 4}, Shape{4}, RowMajor))
	b := Must(FromSlice([]float64{4, 3, 2, 1}, Shape{4}, RowMajor))

	tests := []struct {
		name     string
		build    func() (*BinaryExpr[float64, float64, float64], error)
		expected []float64
	}{
		{"add", func() (*BinaryExpr[float64, float64, float64], error) { return Add[float64](a, b) }, []float64{5, 5, 5, 5}},
		{"sub", func() (*BinaryExpr[float64, float64, float64], error) { return Sub[float64](a, b) }, []float64{-3, -1, 1, 3}},
		{"mul", func() (*BinaryExpr[float64, float64, float64], error) { return Mul[float64](a, b) }, []float64{4, 6, 6, 4}},
		{"div", func() (*BinaryExpr[float64, float64, float64], error) { return Div[float64](a, b) }, []float64{0.25, 2.0 / 3.0, 1.5, 4}},
		{"max", func() (*BinaryExpr[float64, float64, float64], error) { return Maximum[float64](a, b) }, []float64{4, 3, 3, 4}},
		{"min", func() (*BinaryExpr[float64, float64, float64], error) { return Minimum[float64](a, b) }, []float64{1, 2, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := tt.build()
			require.NoError(t, err)
			got := ToSlice[float64](e, RowMajor)
			assert.InDeltaSlice(t, tt.expected, got, 1e-12)
		})
	}
}

func TestComparison(t *testing.T) {
	a := Must(FromSlice([]int{1, 2, 3}, Shape{3}, RowMajor))
	two := Scalar(2)

	tests := []struct {
		name     string
		build    func() (*BinaryExpr[int, int, bool], error)
		expected []bool
	}{
		{"less", func() (*BinaryExpr[int, int, bool], error) { return Less[int](a, two) }, []bool{true, false, false}},
		{"less equal", func() (*BinaryExpr[int, int, bool], error) { return LessEqual[int](a, two) }, []bool{true, true, false}},
		{"greater", func() (*BinaryExpr[int, int, bool], error) { return Greater[int](a, two) }, []bool{false, false, true}},
		{"greater equal", func() (*BinaryExpr[int, int, bool], error) { return GreaterEqual[int](a, two) }, []bool{false, true, true}},
		{"equal", func() (*BinaryExpr[int, int, bool], error) { return Equal[int](a, two) }, []bool{false, true, false}},
		{"not equal", func() (*BinaryExpr[int, int, bool], error) { return NotEqual[int](a, two) }, []bool{true, false, true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := tt.build()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ToSlice[bool](e, RowMajor))
		})
	}
}

func TestLogical(t *testing.T) {
	p := Must(FromSlice([]bool{true, true, false, false}, Shape{4}, RowMajor))
	q := Must(FromSlice([]bool{true, false, true, false}, Shape{4}, RowMajor))

	assert.Equal(t, []bool{true, false, false, false}, ToSlice[bool](Must(And(p, q)), RowMajor))
	assert.Equal(t, []bool{true, true, true, false}, ToSlice[bool](Must(Or(p, q)), RowMajor))
	assert.Equal(t, []bool{false, true, true, false}, ToSlice[bool](Must(Xor(p, q)), RowMajor))
	assert.Equal(t, []bool{false, false, true, true}, ToSlice[bool](Not(p), RowMajor))
}

func TestUnary(t *testing.T) {
	a := Must(FromSlice([]int32{-3, 0, 5}, Shape{3}, RowMajor))

	assertValues(t, []int32{3, 0, -5}, Neg[int32](a), "neg")
	assertValues(t, []int32{3, 0, 5}, Abs[int32](a), "abs")
	assertValues(t, []float64{-1.5, 0, 2.5}, Map[int32, float64](a, func(x int32) float64 { return float64(x) / 2 }), "map")

	f := AsType[float32, int32](a)
	assert.Equal(t, []float32{-3, 0, 5}, ToSlice[float32](f, RowMajor))
}

func TestScalarSymmetry(t *testing.T) {
	a := Must(FromSlice([]int{1, 2, 3}, Shape{3}, RowMajor))

	left := Must(Sub[int](Scalar(10), a))
	right := Must(Sub[int](a, Scalar(10)))
	assert.Equal(t, Shape{3}, left.Shape())
	assert.Equal(t, Shape{3}, right.Shape())
	assertValues(t, []int{9, 8, 7}, left, "scalar - a")
	assertValues(t, []int{-9, -8, -7}, right, "a - scalar")

	s := Must(Add[int](Scalar(1), Scalar(2)))
	assert.Equal(t, 0, s.Ndim())
	assert.Equal(t, 3, s.Value(nil))
}

func TestLazyEvaluation(t *testing.T) {
	a := Must(FromSlice([]int{1, 2, 3, 4}, Shape{4}, RowMajor))
	calls := 0
	counted := Map[int, int](a, func(x int) int {
		calls++
		return x * 10
	})

	sum := Must(Add[int](counted, Scalar(1)))
	assert.Zero(t, calls, "building expressions computes nothing")

	assert.Equal(t, 31, sum.Value([]int{2}))
	assert.Equal(t, 1, calls, "one read evaluates one element")

	// Expressions see later writes to their operands.
	a.Set(7, 2)
	assert.Equal(t, 71, sum.Value([]int{2}))

	out, err := Copy[int](sum, RowMajor)
	require.NoError(t, err)
	assert.Equal(t, []int{11, 21, 71, 41}, out.Data())
	assert.Equal(t, 6, calls)
}

func TestLazyBroadcast(t *testing.T) {
	col := Map[int, int](Must(FromSlice([]int{1, 2}, Shape{2, 1}, RowMajor)), func(x int) int { return x })

	b, err := BroadcastTo[int](col, Shape{3, 2, 4})
	require.NoError(t, err)
	_, lazy := b.(*BroadcastExpr[int])
	assert.True(t, lazy)
	assert.Equal(t, Shape{3, 2, 4}, b.Shape())
	assert.Equal(t, 24, b.Size())
	assert.Equal(t, 2, b.Value([]int{2, 1, 3}))
	assert.Equal(t, 1, b.Value([]int{0, 0, 2}))

	same, err := BroadcastTo[int](col, Shape{2, 1})
	require.NoError(t, err)
	assert.Same(t, col, same)

	_, err = BroadcastTo[int](col, Shape{3, 3})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestOuter(t *testing.T) {
	a := Must(FromSlice([]int{1, 2}, Shape{2}, RowMajor))
	b := Must(FromSlice([]int{1, 10, 100}, Shape{3}, RowMajor))

	o := OuterProduct[int](a, b)
	assert.Equal(t, Shape{2, 3}, o.Shape())
	assertValues(t, []int{1, 10, 100, 2, 20, 200}, o, "outer product")

	m := Must(FromSlice([]int{1, 2, 3, 4}, Shape{2, 2}, RowMajor))
	pairs := Outer[int, int, bool](m, b, func(x, y int) bool { return x*y > 20 })
	assert.Equal(t, Shape{2, 2, 3}, pairs.Shape())
	assert.Equal(t, 12, pairs.Size())
	assert.True(t, pairs.Value([]int{1, 1, 1}))
	assert.False(t, pairs.Value([]int{0, 1, 1}))
}

func TestConcurrentSafety(t *testing.T) {
	a := Zeros[float64](Shape{2, 3})
	row := Zeros[float64](Shape{3})

	assert.True(t, concurrentSafe(a))
	assert.True(t, concurrentSafe(Must(Add[float64](a, row))), "strided broadcast is stateless")
	assert.True(t, concurrentSafe(Must(Add[float64](a, Scalar(1.0)))))

	lazyRow := Neg[float64](row)
	assert.False(t, concurrentSafe(Must(Add[float64](a, lazyRow))), "lazy broadcast keeps scratch state")

	sum := Must(SumAxis[float64](a, false, 0))
	assert.False(t, concurrentSafe(sum))
}

func TestReadsFrom(t *testing.T) {
	a := Zeros[int](Shape{3})
	b := Zeros[int](Shape{3})

	e := Must(Add[int](Neg[int](a), Scalar(1)))
	assert.True(t, readsFrom(e, a.storageID()))
	assert.False(t, readsFrom(e, b.storageID()))
	assert.True(t, readsFrom(a.T(), a.storageID()))
}

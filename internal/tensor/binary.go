package tensor

// BinaryExpr lazily combines two operands element by element after
// broadcasting both to a common shape. The shape check happens once, when
// the expression is built.
type BinaryExpr[A, B, R any] struct {
	a     Expr[A]
	b     Expr[B]
	f     func(A, B) R
	shape Shape
}

// Binary builds f(a, b) over the broadcast shape of a and b.
// Incompatible shapes fail immediately with a *ShapeError naming both.
func Binary[A, B, R any](a Expr[A], b Expr[B], f func(A, B) R) (*BinaryExpr[A, B, R], error) {
	shape, _, err := BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		return nil, err
	}
	ab, err := BroadcastTo(a, shape)
	if err != nil {
		return nil, err
	}
	bb, err := BroadcastTo(b, shape)
	if err != nil {
		return nil, err
	}
	return &BinaryExpr[A, B, R]{a: ab, b: bb, f: f, shape: shape}, nil
}

// Shape returns the broadcast shape.
func (e *BinaryExpr[A, B, R]) Shape() Shape { return e.shape }

// Ndim returns the number of axes.
func (e *BinaryExpr[A, B, R]) Ndim() int { return len(e.shape) }

// Size returns the number of elements.
func (e *BinaryExpr[A, B, R]) Size() int { return e.shape.NumElements() }

// Value computes f(a[index], b[index]).
func (e *BinaryExpr[A, B, R]) Value(index []int) R {
	return e.f(e.a.Value(index), e.b.Value(index))
}

func (e *BinaryExpr[A, B, R]) readsFrom(buf any) bool {
	return readsFrom(e.a, buf) || readsFrom(e.b, buf)
}

func (e *BinaryExpr[A, B, R]) concurrentSafe() bool {
	return concurrentSafe(e.a) && concurrentSafe(e.b)
}

// Add returns the lazy element-wise sum a + b.
//
// Example:
//
//	a := tensor.Must(tensor.FromSlice([]int{1, 2}, tensor.Shape{2, 1}, tensor.RowMajor))
//	b := tensor.Must(tensor.FromSlice([]int{10, 20, 30}, tensor.Shape{1, 3}, tensor.RowMajor))
//	sum := tensor.Must(tensor.Add[int](a, b)) // (2, 3): [[11 21 31] [12 22 32]]
func Add[T Numeric](a, b Expr[T]) (*BinaryExpr[T, T, T], error) {
	return Binary(a, b, func(x, y T) T { return x + y })
}

// Sub returns the lazy element-wise difference a - b.
func Sub[T Numeric](a, b Expr[T]) (*BinaryExpr[T, T, T], error) {
	return Binary(a, b, func(x, y T) T { return x - y })
}

// Mul returns the lazy element-wise product a * b.
func Mul[T Numeric](a, b Expr[T]) (*BinaryExpr[T, T, T], error) {
	return Binary(a, b, func(x, y T) T { return x * y })
}

// Div returns the lazy element-wise quotient a / b.
// Integer division by zero panics when the element is read.
func Div[T Numeric](a, b Expr[T]) (*BinaryExpr[T, T, T], error) {
	return Binary(a, b, func(x, y T) T { return x / y })
}

// Maximum returns the lazy element-wise maximum.
func Maximum[T Numeric](a, b Expr[T]) (*BinaryExpr[T, T, T], error) {
	return Binary(a, b, func(x, y T) T { return max(x, y) })
}

// Minimum returns the lazy element-wise minimum.
func Minimum[T Numeric](a, b Expr[T]) (*BinaryExpr[T, T, T], error) {
	return Binary(a, b, func(x, y T) T { return min(x, y) })
}

// Less returns the lazy element-wise comparison a < b.
func Less[T Numeric](a, b Expr[T]) (*BinaryExpr[T, T, bool], error) {
	return Binary(a, b, func(x, y T) bool { return x < y })
}

// LessEqual returns the lazy element-wise comparison a <= b.
func LessEqual[T Numeric](a, b Expr[T]) (*BinaryExpr[T, T, bool], error) {
	return Binary(a, b, func(x, y T) bool { return x <= y })
}

// Greater returns the lazy element-wise comparison a > b.
func Greater[T Numeric](a, b Expr[T]) (*BinaryExpr[T, T, bool], error) {
	return Binary(a, b, func(x, y T) bool { return x > y })
}

// GreaterEqual returns the lazy element-wise comparison a >= b.
func GreaterEqual[T Numeric](a, b Expr[T]) (*BinaryExpr[T, T, bool], error) {
	return Binary(a, b, func(x, y T) bool { return x >= y })
}

// Equal returns the lazy element-wise comparison a == b.
func Equal[T DType](a, b Expr[T]) (*BinaryExpr[T, T, bool], error) {
	return Binary(a, b, func(x, y T) bool { return x == y })
}

// NotEqual returns the lazy element-wise comparison a != b.
func NotEqual[T DType](a, b Expr[T]) (*BinaryExpr[T, T, bool], error) {
	return Binary(a, b, func(x, y T) bool { return x != y })
}

// And returns the lazy element-wise logical AND.
func And(a, b Expr[bool]) (*BinaryExpr[bool, bool, bool], error) {
	return Binary(a, b, func(x, y bool) bool { return x && y })
}

// Or returns the lazy element-wise logical OR.
func Or(a, b Expr[bool]) (*BinaryExpr[bool, bool, bool], error) {
	return Binary(a, b, func(x, y bool) bool { return x || y })
}

// Xor returns the lazy element-wise logical XOR.
func Xor(a, b Expr[bool]) (*BinaryExpr[bool, bool, bool], error) {
	return Binary(a, b, func(x, y bool) bool { return x != y })
}

package tensor

// UnaryExpr lazily applies f to every element of one operand. Nothing is
// computed until an element is read; reading the same coordinate twice
// calls f twice.
type UnaryExpr[T, R any] struct {
	src Expr[T]
	f   func(T) R
}

// Map returns the lazy expression f(src).
//
// Example:
//
//	sq := tensor.Map(a, func(x float64) float64 { return x * x })
//	out, _ := tensor.Copy(sq, tensor.RowMajor)
func Map[T, R any](src Expr[T], f func(T) R) *UnaryExpr[T, R] {
	return &UnaryExpr[T, R]{src: src, f: f}
}

// AsType lazily converts every element to R.
func AsType[R, T Numeric](src Expr[T]) *UnaryExpr[T, R] {
	return Map(src, func(x T) R { return R(x) })
}

// Neg lazily negates every element.
func Neg[T Numeric](src Expr[T]) *UnaryExpr[T, T] {
	return Map(src, func(x T) T { return -x })
}

// Abs lazily takes the absolute value of every element.
func Abs[T Numeric](src Expr[T]) *UnaryExpr[T, T] {
	return Map(src, func(x T) T {
		if x < 0 {
			return -x
		}
		return x
	})
}

// Not lazily negates a boolean operand.
func Not(src Expr[bool]) *UnaryExpr[bool, bool] {
	return Map(src, func(x bool) bool { return !x })
}

// Shape returns the operand's shape.
func (u *UnaryExpr[T, R]) Shape() Shape { return u.src.Shape() }

// Ndim returns the number of axes.
func (u *UnaryExpr[T, R]) Ndim() int { return u.src.Ndim() }

// Size returns the number of elements.
func (u *UnaryExpr[T, R]) Size() int { return u.src.Size() }

// Value computes f(src[index]).
func (u *UnaryExpr[T, R]) Value(index []int) R { return u.f(u.src.Value(index)) }

func (u *UnaryExpr[T, R]) readsFrom(buf any) bool { return readsFrom(u.src, buf) }

func (u *UnaryExpr[T, R]) concurrentSafe() bool { return concurrentSafe(u.src) }

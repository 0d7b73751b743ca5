package tensor

// OuterExpr lazily combines every element of a with every element of b.
// Its shape is a's shape followed by b's; element (i..., j...) is
// f(a[i...], b[j...]).
type OuterExpr[A, B, R any] struct {
	a     Expr[A]
	b     Expr[B]
	f     func(A, B) R
	shape Shape
	split int
}

// Outer builds the generalized outer product of a and b under f.
// Operands of any rank are accepted.
func Outer[A, B, R any](a Expr[A], b Expr[B], f func(A, B) R) *OuterExpr[A, B, R] {
	shape := make(Shape, 0, a.Ndim()+b.Ndim())
	shape = append(shape, a.Shape()...)
	shape = append(shape, b.Shape()...)
	return &OuterExpr[A, B, R]{a: a, b: b, f: f, shape: shape, split: a.Ndim()}
}

// OuterProduct returns the lazy outer product a ⊗ b.
func OuterProduct[T Numeric](a, b Expr[T]) *OuterExpr[T, T, T] {
	return Outer(a, b, func(x, y T) T { return x * y })
}

// Shape returns a's shape followed by b's.
func (o *OuterExpr[A, B, R]) Shape() Shape { return o.shape }

// Ndim returns the number of axes.
func (o *OuterExpr[A, B, R]) Ndim() int { return len(o.shape) }

// Size returns the number of elements.
func (o *OuterExpr[A, B, R]) Size() int { return o.shape.NumElements() }

// Value computes f(a[index[:a.Ndim()]], b[index[a.Ndim():]]).
func (o *OuterExpr[A, B, R]) Value(index []int) R {
	return o.f(o.a.Value(index[:o.split]), o.b.Value(index[o.split:]))
}

func (o *OuterExpr[A, B, R]) readsFrom(buf any) bool {
	return readsFrom(o.a, buf) || readsFrom(o.b, buf)
}

func (o *OuterExpr[A, B, R]) concurrentSafe() bool {
	return concurrentSafe(o.a) && concurrentSafe(o.b)
}

package tensor

// Expr is the read contract shared by every storage realization: owning
// arrays, strided views, gather views and lazy expressions. Any Expr can be
// an operand of another expression and the source of an assignment.
type Expr[T any] interface {
	// Shape returns the per-axis extents. Callers must not modify it.
	Shape() Shape
	// Ndim returns the number of axes.
	Ndim() int
	// Size returns the number of elements.
	Size() int
	// Value returns the element at index. The index must be in bounds;
	// realizations are free to skip the check.
	Value(index []int) T
}

// Target is an Expr whose elements can be written.
type Target[T DType] interface {
	Expr[T]
	// SetValue stores v at index. The index must be in bounds.
	SetValue(index []int, v T)
	// Layout returns the preferred traversal order.
	Layout() Layout
}

// Strided is a Target backed by memory addressed through offset and strides:
// an owning Array or a View over one. Only this package implements it.
type Strided[T DType] interface {
	Target[T]
	// Offset returns the physical position of index in the backing buffer.
	Offset(index []int) int
	storage() *buffer[T]
}

// bufferReader is implemented by realizations that can tell whether they
// read from a given backing buffer.
type bufferReader interface {
	readsFrom(buf any) bool
}

// bufferWriter is implemented by targets to expose their backing buffer.
type bufferWriter interface {
	storageID() any
}

// concurrentReader is implemented by realizations that report whether Value
// may be called from several goroutines at once.
type concurrentReader interface {
	concurrentSafe() bool
}

// readsFrom reports whether e might read buf. Unknown Expr implementations
// are assumed to.
func readsFrom(e any, buf any) bool {
	if r, ok := e.(bufferReader); ok {
		return r.readsFrom(buf)
	}
	return true
}

func concurrentSafe(e any) bool {
	if c, ok := e.(concurrentReader); ok {
		return c.concurrentSafe()
	}
	return false
}

// ScalarExpr is a rank-0 operand holding a single value. When broadcast it
// is replayed for every coordinate, which makes binary expressions
// symmetric in the scalar's position.
type ScalarExpr[T any] struct {
	v T
}

// Scalar wraps v as a rank-0 operand.
//
// Example:
//
//	y, _ := tensor.Mul(x, tensor.Scalar(2.0))
func Scalar[T any](v T) *ScalarExpr[T] {
	return &ScalarExpr[T]{v: v}
}

// Shape returns the empty shape.
func (s *ScalarExpr[T]) Shape() Shape { return Shape{} }

// Ndim returns 0.
func (s *ScalarExpr[T]) Ndim() int { return 0 }

// Size returns 1.
func (s *ScalarExpr[T]) Size() int { return 1 }

// Value returns the scalar regardless of index.
func (s *ScalarExpr[T]) Value(_ []int) T { return s.v }

func (s *ScalarExpr[T]) readsFrom(_ any) bool { return false }

func (s *ScalarExpr[T]) concurrentSafe() bool { return true }

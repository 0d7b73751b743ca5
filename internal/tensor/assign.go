package tensor

import (
	"fmt"

	"github.com/born-ml/ndarray/internal/parallel"
)

// Assign evaluates src into dst element by element.
//
// src is broadcast up to dst's shape; dst's rank and extents are
// authoritative, and a src that cannot be stretched to them fails with a
// *ShapeError before anything is written. When src reads dst's own buffer
// (v = v.T(), a += a[::-1]) it is first materialized into a temporary, so
// overlapping assignments see the old values.
//
// Elements are visited in dst's natural order.
func Assign[T DType](dst Target[T], src Expr[T]) error {
	if err := checkWritable("assign", dst); err != nil {
		return err
	}
	shape := dst.Shape()
	bsrc, err := BroadcastTo(src, shape)
	if err != nil {
		return &ShapeError{
			Op:     "assign",
			Shapes: []Shape{shape.Clone(), src.Shape().Clone()},
			Detail: "source does not broadcast to destination",
		}
	}
	if shape.NumElements() == 0 {
		return nil
	}
	if w, ok := dst.(bufferWriter); ok && readsFrom(bsrc, w.storageID()) {
		tmp, err := Copy(bsrc, dst.Layout())
		if err != nil {
			return err
		}
		bsrc = tmp
	}

	if a, ok := dst.(*Array[T]); ok {
		fillArray(a, bsrc, 0, len(a.buf.data))
		return nil
	}
	order := dst.Layout()
	idx := make([]int, len(shape))
	for {
		dst.SetValue(idx, bsrc.Value(idx))
		if !nextIndex(idx, shape, order) {
			return nil
		}
	}
}

// fillArray writes src into dst's physical positions [lo, hi).
// src must already have dst's shape.
func fillArray[T DType](dst *Array[T], src Expr[T], lo, hi int) {
	if s, ok := src.(*Array[T]); ok && s.layout == dst.layout {
		copy(dst.buf.data[lo:hi], s.buf.data[lo:hi])
		return
	}
	data := dst.buf.data
	idx := make([]int, len(dst.shape))
	unravelInto(idx, lo, dst.shape, dst.layout)
	for pos := lo; pos < hi; pos++ {
		data[pos] = src.Value(idx)
		nextIndex(idx, dst.shape, dst.layout)
	}
}

func checkWritable(op string, dst any) error {
	if r, ok := dst.(interface{ ReadOnly() bool }); ok && r.ReadOnly() {
		return &InvalidArgumentError{Op: op, Detail: "destination is read-only"}
	}
	if s, ok := dst.(interface{ Stale() bool }); ok && s.Stale() {
		return fmt.Errorf("%s: %w", op, ErrStaleView)
	}
	return nil
}

// Copy materializes src into a new owning array with the given layout.
// Copying an Array, a View or an expression always yields an independent
// buffer.
func Copy[T DType](src Expr[T], layout Layout) (*Array[T], error) {
	out, err := New[T](src.Shape(), layout)
	if err != nil {
		return nil, err
	}
	if out.Size() > 0 {
		fillArray(out, src, 0, len(out.buf.data))
	}
	return out, nil
}

// MaterializeParallel is Assign split across goroutines by cfg.
//
// Only sources whose elements may be read concurrently are split; lazy
// nodes that keep scratch state (reductions, non-strided broadcasts) and
// unknown Expr implementations are evaluated sequentially. f passed to Map
// or Binary must be safe for concurrent use when cfg enables parallelism.
func MaterializeParallel[T DType](dst *Array[T], src Expr[T], cfg parallel.Config) error {
	bsrc, err := BroadcastTo(src, dst.Shape())
	if err != nil {
		return &ShapeError{
			Op:     "materialize",
			Shapes: []Shape{dst.Shape().Clone(), src.Shape().Clone()},
			Detail: "source does not broadcast to destination",
		}
	}
	if dst.Empty() || !concurrentSafe(bsrc) || readsFrom(bsrc, dst.storageID()) {
		return Assign[T](dst, bsrc)
	}
	parallel.Chunks(len(dst.buf.data), cfg, func(lo, hi int) {
		fillArray(dst, bsrc, lo, hi)
	})
	return nil
}

// ApplyAssign replaces every element x of dst with f(x).
func ApplyAssign[T DType](dst Target[T], f func(T) T) error {
	return Assign[T](dst, Map[T, T](dst, f))
}

// AddAssign performs dst += src through dst's alias.
func AddAssign[T Numeric](dst Target[T], src Expr[T]) error {
	e, err := Add[T](dst, src)
	if err != nil {
		return err
	}
	return Assign[T](dst, e)
}

// SubAssign performs dst -= src through dst's alias.
func SubAssign[T Numeric](dst Target[T], src Expr[T]) error {
	e, err := Sub[T](dst, src)
	if err != nil {
		return err
	}
	return Assign[T](dst, e)
}

// MulAssign performs dst *= src through dst's alias.
func MulAssign[T Numeric](dst Target[T], src Expr[T]) error {
	e, err := Mul[T](dst, src)
	if err != nil {
		return err
	}
	return Assign[T](dst, e)
}

// DivAssign performs dst /= src through dst's alias.
func DivAssign[T Numeric](dst Target[T], src Expr[T]) error {
	e, err := Div[T](dst, src)
	if err != nil {
		return err
	}
	return Assign[T](dst, e)
}

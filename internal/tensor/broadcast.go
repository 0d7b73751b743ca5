package tensor

// BroadcastExpr replays a lower-rank or size-1-axis operand over a larger
// shape without copying: prepended axes are ignored and stretched axes are
// read at coordinate 0, the lazy equivalent of a zero stride.
//
// BroadcastExpr keeps a scratch coordinate, so a single instance must not
// be read from several goroutines at once.
type BroadcastExpr[T any] struct {
	src    Expr[T]
	shape  Shape
	lead   int
	keep   []bool
	srcIdx []int
}

// broadcaster is implemented by realizations that broadcast to a cheaper
// form than BroadcastExpr (strided storage returns a stride-0 view).
type broadcaster[T any] interface {
	broadcastView(shape Shape) (Expr[T], error)
}

// BroadcastTo returns src stretched to shape following NumPy rules. src may
// only broadcast up: shape's extents are authoritative. Strided sources
// yield a read-only View with zero strides; other sources are wrapped lazily.
func BroadcastTo[T any](src Expr[T], shape Shape) (Expr[T], error) {
	if src.Shape().Equal(shape) {
		return src, nil
	}
	if b, ok := src.(broadcaster[T]); ok {
		return b.broadcastView(shape)
	}
	srcShape := src.Shape()
	if _, err := broadcastStrides("broadcast", srcShape, make([]int, len(srcShape)), shape); err != nil {
		return nil, err
	}
	lead := len(shape) - len(srcShape)
	keep := make([]bool, len(srcShape))
	for i, dim := range srcShape {
		keep[i] = dim == shape[lead+i]
	}
	return &BroadcastExpr[T]{
		src:    src,
		shape:  shape.Clone(),
		lead:   lead,
		keep:   keep,
		srcIdx: make([]int, len(srcShape)),
	}, nil
}

// Shape returns the broadcast shape.
func (b *BroadcastExpr[T]) Shape() Shape { return b.shape }

// Ndim returns the number of axes.
func (b *BroadcastExpr[T]) Ndim() int { return len(b.shape) }

// Size returns the number of elements.
func (b *BroadcastExpr[T]) Size() int { return b.shape.NumElements() }

// Value maps index onto the operand and reads it.
func (b *BroadcastExpr[T]) Value(index []int) T {
	for i, kept := range b.keep {
		if kept {
			b.srcIdx[i] = index[b.lead+i]
		}
	}
	return b.src.Value(b.srcIdx)
}

func (b *BroadcastExpr[T]) readsFrom(buf any) bool { return readsFrom(b.src, buf) }

// concurrentSafe holds when no axis is copied into the scratch coordinate.
func (b *BroadcastExpr[T]) concurrentSafe() bool {
	for _, kept := range b.keep {
		if kept {
			return false
		}
	}
	return concurrentSafe(b.src)
}

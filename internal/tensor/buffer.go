package tensor

import (
	"fmt"
	"math"
	"unsafe"
)

// maxAllocBytes caps a single allocation; larger requests fail with
// ErrAllocation instead of crashing the runtime.
const maxAllocBytes = 1 << 46

// buffer is the shared backing store of an Array and of every view derived
// from it. Views hold the *buffer itself, so the memory stays valid for as
// long as any view is reachable; detached marks a buffer whose owner has
// reallocated or been moved from.
type buffer[T DType] struct {
	data     []T
	detached bool
}

// newBuffer allocates a zeroed buffer large enough for shape.
func newBuffer[T DType](shape Shape) (*buffer[T], error) {
	data, err := allocate[T](shape)
	if err != nil {
		return nil, err
	}
	return &buffer[T]{data: data}, nil
}

// wrapBuffer adopts data without copying.
func wrapBuffer[T DType](data []T) *buffer[T] {
	return &buffer[T]{data: data}
}

// detach marks the buffer as no longer owned by any array.
func (b *buffer[T]) detach() {
	b.detached = true
}

func allocate[T DType](shape Shape) (data []T, err error) {
	var zero T
	elem := int(unsafe.Sizeof(zero))

	n, ok := shape.checkedSize()
	if !ok || (elem > 0 && n > maxAllocBytes/elem) {
		bytes := -1
		if ok && n <= math.MaxInt/elem {
			bytes = n * elem
		}
		return nil, &AllocationError{Shape: shape.Clone(), Bytes: bytes}
	}

	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = &AllocationError{Shape: shape.Clone(), Bytes: n * elem, Cause: fmt.Errorf("%v", r)}
		}
	}()
	return make([]T, n), nil
}

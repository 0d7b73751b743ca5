// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides generic N-dimensional arrays with NumPy semantics.
//
// # Overview
//
// This package provides:
//   - Owning arrays (Array[T]) in row-major or column-major layout
//   - Strided views (slices, transposes, reshapes) that alias an array's buffer
//   - Gather views (boolean masks, fancy indexing) that scatter writes back
//   - NumPy-style broadcasting
//   - Lazy element-wise, outer and reduction expressions
//   - Iterators and range functions over any operand
//
// # Basic Usage
//
//	import "github.com/born-ml/ndarray/tensor"
//
//	func main() {
//	    a := tensor.Must(tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, tensor.RowMajor))
//	    b := tensor.Ones[float64](tensor.Shape{3})
//
//	    // Build an expression; nothing is computed yet
//	    sum, err := tensor.Add[float64](a, b)   // (2, 3) + (3,) -> (2, 3)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Evaluate into a new array
//	    c, err := tensor.Copy[float64](sum, tensor.RowMajor)
//	}
//
// # Supported Data Types
//
// The DType constraint admits bool and every fixed-size and word-size Go
// integer and float kind, including named types built on them:
//   - float32, float64 (floating-point)
//   - int, int8, int16, int32, int64 (signed integers)
//   - uint, uint8, uint16, uint32, uint64 (unsigned integers)
//   - bool (boolean masks)
//
// # Broadcasting
//
// Operations follow NumPy broadcasting rules. Shapes are aligned at the
// trailing axis; extents must match or one of them must be 1:
//
//	a := tensor.Zeros[float32](tensor.Shape{3, 1})  // (3, 1)
//	b := tensor.Ones[float32](tensor.Shape{3, 4})   // (3, 4)
//	c, _ := tensor.Add[float32](a, b)              // (3, 4)
//
// # Views and Aliasing
//
// Views share the buffer of the array they came from:
//
//	t := a.T()                    // transpose, no data movement
//	row, _ := a.Row(1)            // (cols,) view
//	s, _ := a.Slice(tensor.All(), tensor.SpanStep(0, 4, 2))
//
// Assigning a source that reads the destination's own buffer is safe: the
// source is evaluated into a temporary first.
//
//	_ = a.Assign(a.T())           // in-place transpose of a square array
//
// Resizing or moving out of an array detaches its buffer. Views of it then
// report Stale and fail assignment with ErrStaleView.
//
// # Errors
//
// Failures return typed errors that unwrap to one of ErrIndex,
// ErrShapeMismatch, ErrAllocation, ErrInvalidArgument or ErrStaleView:
//
//	if _, err := tensor.Add[float64](a, tensor.Zeros[float64](tensor.Shape{4})); errors.Is(err, tensor.ErrShapeMismatch) {
//	    var se *tensor.ShapeError
//	    errors.As(err, &se)
//	}
package tensor

package tensor

import (
	"fmt"
	"math"
	"math/rand"
	"reflect"
)

// Zeros creates a row-major array filled with zeros.
// Panics with the typed error if the shape is invalid or cannot be allocated.
//
// Example:
//
//	a := tensor.Zeros[float32](tensor.Shape{3, 4})
func Zeros[T DType](shape Shape) *Array[T] {
	return Must(New[T](shape, RowMajor))
}

// Ones creates a row-major array filled with ones (true for bool).
//
// Example:
//
//	a := tensor.Ones[float64](tensor.Shape{2, 3})
func Ones[T DType](shape Shape) *Array[T] {
	return Full(shape, one[T]())
}

// Full creates a row-major array filled with value.
//
// Example:
//
//	a := tensor.Full[float32](tensor.Shape{3, 3}, 3.14)
func Full[T DType](shape Shape, value T) *Array[T] {
	return Must(NewFull(shape, value, RowMajor))
}

// one returns the multiplicative identity of T. Named element types
// resolve through their underlying kind.
func one[T DType]() T {
	var v T
	rv := reflect.ValueOf(&v).Elem()
	switch rv.Kind() {
	case reflect.Bool:
		rv.SetBool(true)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		rv.SetInt(1)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		rv.SetUint(1)
	case reflect.Float32, reflect.Float64:
		rv.SetFloat(1)
	}
	return v
}

// Randn creates an array with values from the standard normal distribution
// drawn from rng. Uses the Box-Muller transform.
// Note: Uses math/rand (not crypto/rand) - appropriate for statistical purposes.
//
// Example:
//
//	a := tensor.Randn[float64](tensor.Shape{100, 100}, rand.New(rand.NewSource(1)))
func Randn[T Float](shape Shape, rng *rand.Rand) *Array[T] {
	a := Zeros[T](shape)
	data := a.Data()
	for i := 0; i < len(data); i += 2 {
		u1 := 1 - rng.Float64() // (0, 1] keeps the log finite
		u2 := rng.Float64()
		r := math.Sqrt(-2.0 * math.Log(u1))
		data[i] = T(r * math.Cos(2.0*math.Pi*u2))
		if i+1 < len(data) {
			data[i+1] = T(r * math.Sin(2.0*math.Pi*u2))
		}
	}
	return a
}

// Rand creates an array with values uniformly distributed in [0, 1).
//
// Example:
//
//	a := tensor.Rand[float32](tensor.Shape{10, 10}, rand.New(rand.NewSource(1)))
func Rand[T Float](shape Shape, rng *rand.Rand) *Array[T] {
	a := Zeros[T](shape)
	data := a.Data()
	for i := range data {
		data[i] = T(rng.Float64())
	}
	return a
}

// Arange creates a 1-D array with values start, start+step, ... stopping
// before stop. A zero step fails with ErrInvalidArgument; a step pointing
// away from stop yields an empty array.
//
// Example:
//
//	a, _ := tensor.Arange[int32](0, 10, 1) // [0, 1, 2, ..., 9]
func Arange[T Numeric](start, stop, step T) (*Array[T], error) {
	if step == 0 {
		return nil, &InvalidArgumentError{Op: "arange", Detail: "step must be non-zero"}
	}
	n := int(math.Ceil((float64(stop) - float64(start)) / float64(step)))
	if n < 0 {
		n = 0
	}
	a, err := New[T](Shape{n}, RowMajor)
	if err != nil {
		return nil, err
	}
	v := start
	for i := range a.buf.data {
		a.buf.data[i] = v
		v += step
	}
	return a, nil
}

// Linspace creates num evenly spaced values over [start, stop], or over
// [start, stop) when endpoint is false.
//
// Example:
//
//	a, _ := tensor.Linspace(0.0, 1.0, 5, true) // [0, 0.25, 0.5, 0.75, 1]
func Linspace[T Float](start, stop T, num int, endpoint bool) (*Array[T], error) {
	if num < 0 {
		return nil, &InvalidArgumentError{Op: "linspace", Detail: fmt.Sprintf("negative count %d", num)}
	}
	a, err := New[T](Shape{num}, RowMajor)
	if err != nil {
		return nil, err
	}
	div := num
	if endpoint {
		div = num - 1
	}
	if div <= 0 {
		if num > 0 {
			a.buf.data[0] = start
		}
		return a, nil
	}
	step := (float64(stop) - float64(start)) / float64(div)
	for i := range a.buf.data {
		a.buf.data[i] = T(float64(start) + float64(i)*step)
	}
	if endpoint {
		a.buf.data[num-1] = stop
	}
	return a, nil
}

// Eye creates an n×n identity matrix.
//
// Example:
//
//	a := tensor.Eye[float32](3) // 3x3 identity matrix
func Eye[T DType](n int) *Array[T] {
	a := Zeros[T](Shape{n, n})
	v := one[T]()
	for i := 0; i < n; i++ {
		a.buf.data[i*n+i] = v
	}
	return a
}

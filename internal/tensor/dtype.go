package tensor

import (
	"reflect"
	"strconv"
)

// Integer is a constraint for signed and unsigned integer element types.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Float is a constraint for floating-point element types.
type Float interface {
	~float32 | ~float64
}

// Numeric is a constraint for element types that support arithmetic.
type Numeric interface {
	Integer | Float
}

// DType is a constraint for supported array element types.
// It uses Go generics to ensure compile-time type safety.
type DType interface {
	Numeric | ~bool
}

// DataType represents runtime type information for arrays.
type DataType int

// Supported data types for arrays.
const (
	Bool DataType = iota
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Bool, Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Bool:
		return "bool"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// IsFloat reports whether the data type is a floating-point type.
func (dt DataType) IsFloat() bool {
	return dt == Float32 || dt == Float64
}

// IsSigned reports whether the data type is a signed integer type.
func (dt DataType) IsSigned() bool {
	return dt == Int8 || dt == Int16 || dt == Int32 || dt == Int64
}

// DataTypeOf returns the DataType for the element type T.
// Named types resolve through their underlying kind; int and uint map to
// the fixed-size type of the platform word.
//
//nolint:cyclop // One case per supported kind.
func DataTypeOf[T DType]() DataType {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Bool:
		return Bool
	case reflect.Int8:
		return Int8
	case reflect.Int16:
		return Int16
	case reflect.Int32:
		return Int32
	case reflect.Int64:
		return Int64
	case reflect.Int:
		if strconv.IntSize == 32 {
			return Int32
		}
		return Int64
	case reflect.Uint8:
		return Uint8
	case reflect.Uint16:
		return Uint16
	case reflect.Uint32:
		return Uint32
	case reflect.Uint64:
		return Uint64
	case reflect.Uint:
		if strconv.IntSize == 32 {
			return Uint32
		}
		return Uint64
	case reflect.Float32:
		return Float32
	case reflect.Float64:
		return Float64
	default:
		panic("unsupported type")
	}
}

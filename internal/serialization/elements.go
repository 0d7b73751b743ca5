package serialization

import (
	"encoding/binary"
	"io"
	"reflect"
	"strconv"
	"unsafe"

	"github.com/born-ml/ndarray/internal/tensor"
)

// hostLittleEndian reports whether the machine stores integers little-endian.
var hostLittleEndian = func() bool {
	x := uint16(1)
	return *(*byte)(unsafe.Pointer(&x)) == 1 //nolint:gosec // G103: byte probe of a local
}()

// fixedSize returns data as a slice encoding/binary can handle: Go's int
// and uint kinds have no fixed size and are widened or narrowed to the
// platform word. Other kinds are returned unchanged.
func fixedSize[T tensor.DType](data []T) any {
	rv := reflect.ValueOf(data)
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Int:
		if strconv.IntSize == 32 {
			out := make([]int32, len(data))
			for i := range out {
				out[i] = int32(rv.Index(i).Int()) //nolint:gosec // G115: int is 32 bits here
			}
			return out
		}
		out := make([]int64, len(data))
		for i := range out {
			out[i] = rv.Index(i).Int()
		}
		return out
	case reflect.Uint:
		if strconv.IntSize == 32 {
			out := make([]uint32, len(data))
			for i := range out {
				out[i] = uint32(rv.Index(i).Uint()) //nolint:gosec // G115: uint is 32 bits here
			}
			return out
		}
		out := make([]uint64, len(data))
		for i := range out {
			out[i] = rv.Index(i).Uint()
		}
		return out
	}
	return data
}

// writeElements writes data little-endian.
func writeElements[T tensor.DType](w io.Writer, data []T) error {
	if len(data) == 0 {
		return nil
	}
	return binary.Write(w, binary.LittleEndian, fixedSize(data))
}

// readElements fills dst from r in the given byte order.
func readElements[T tensor.DType](r io.Reader, order binary.ByteOrder, dst []T) error {
	if len(dst) == 0 {
		return nil
	}
	kind := reflect.TypeFor[T]().Kind()
	if kind != reflect.Int && kind != reflect.Uint {
		return binary.Read(r, order, dst)
	}
	tmp := fixedSize(make([]T, len(dst)))
	if err := binary.Read(r, order, tmp); err != nil {
		return err
	}
	rv := reflect.ValueOf(dst)
	tv := reflect.ValueOf(tmp)
	for i := range dst {
		if kind == reflect.Int {
			rv.Index(i).SetInt(tv.Index(i).Int())
		} else {
			rv.Index(i).SetUint(tv.Index(i).Uint())
		}
	}
	return nil
}

// viewElements reinterprets b as n elements of T without copying. It
// returns false when b is misaligned for T or too short.
func viewElements[T tensor.DType](b []byte, n int) ([]T, bool) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if n == 0 {
		return []T{}, true
	}
	if len(b) < n*size {
		return nil, false
	}
	p := unsafe.Pointer(&b[0]) //nolint:gosec // G103: reinterpreting mapped file bytes
	if uintptr(p)%unsafe.Alignof(zero) != 0 {
		return nil, false
	}
	return unsafe.Slice((*T)(p), n), true
}

package serialization

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/born-ml/ndarray/internal/tensor"
)

// roundTrip writes src to a buffer and reads it back as T.
func roundTrip[T tensor.DType](t *testing.T, src tensor.Expr[T]) *tensor.Array[T] {
	t.Helper()

	var buf bytes.Buffer
	if err := WriteNpy(&buf, src); err != nil {
		t.Fatalf("WriteNpy failed: %v", err)
	}
	if buf.Len()%HeaderAlignment != src.Size()*tensor.DataTypeOf[T]().Size()%HeaderAlignment {
		t.Errorf("data section does not start on a %d-byte boundary", HeaderAlignment)
	}
	out, err := ReadNpy[T](&buf, DefaultReaderOptions())
	if err != nil {
		t.Fatalf("ReadNpy failed: %v", err)
	}
	return out
}

// rowMajor returns the elements of src in row-major order.
func rowMajor[T tensor.DType](t *testing.T, src tensor.Expr[T]) []T {
	t.Helper()
	c, err := tensor.Copy(src, tensor.RowMajor)
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	return c.Data()
}

func TestNpyRoundTrip(t *testing.T) {
	t.Run("float64", func(t *testing.T) {
		a := tensor.Must(tensor.FromSlice([]float64{1, 2.5, -3, math.Inf(1), 0, 6}, tensor.Shape{2, 3}, tensor.RowMajor))
		b := roundTrip[float64](t, a)
		if !reflect.DeepEqual(b.Shape(), a.Shape()) {
			t.Errorf("shape = %v, want %v", b.Shape(), a.Shape())
		}
		if !reflect.DeepEqual(b.Data(), a.Data()) {
			t.Errorf("data = %v, want %v", b.Data(), a.Data())
		}
	})

	t.Run("int32", func(t *testing.T) {
		a := tensor.Must(tensor.FromSlice([]int32{-1, 0, 1 << 30}, tensor.Shape{3}, tensor.RowMajor))
		b := roundTrip[int32](t, a)
		if !reflect.DeepEqual(b.Data(), a.Data()) {
			t.Errorf("data = %v, want %v", b.Data(), a.Data())
		}
	})

	t.Run("int", func(t *testing.T) {
		a := tensor.Must(tensor.FromSlice([]int{7, -8, 9, 10}, tensor.Shape{2, 2}, tensor.RowMajor))
		b := roundTrip[int](t, a)
		if !reflect.DeepEqual(b.Data(), a.Data()) {
			t.Errorf("data = %v, want %v", b.Data(), a.Data())
		}
	})

	t.Run("bool", func(t *testing.T) {
		a := tensor.Must(tensor.FromSlice([]bool{true, false, true}, tensor.Shape{3}, tensor.RowMajor))
		b := roundTrip[bool](t, a)
		if !reflect.DeepEqual(b.Data(), a.Data()) {
			t.Errorf("data = %v, want %v", b.Data(), a.Data())
		}
	})

	t.Run("scalar", func(t *testing.T) {
		a := tensor.Must(tensor.FromSlice([]uint8{42}, tensor.Shape{}, tensor.RowMajor))
		b := roundTrip[uint8](t, a)
		if b.Ndim() != 0 || b.At() != 42 {
			t.Errorf("scalar round trip = %v %v", b.Shape(), b.Data())
		}
	})

	t.Run("empty", func(t *testing.T) {
		a := tensor.Zeros[float32](tensor.Shape{0, 4})
		b := roundTrip[float32](t, a)
		if !reflect.DeepEqual(b.Shape(), tensor.Shape{0, 4}) {
			t.Errorf("shape = %v, want (0, 4)", b.Shape())
		}
	})
}

func TestNpyColumnMajor(t *testing.T) {
	a := tensor.Must(tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, tensor.ColMajor))

	var buf bytes.Buffer
	if err := WriteNpy[float32](&buf, a); err != nil {
		t.Fatalf("WriteNpy failed: %v", err)
	}
	p, err := ReadHeader(bytes.NewReader(buf.Bytes()), DefaultReaderOptions())
	if err != nil {
		t.Fatalf("ReadHeader failed: %v", err)
	}
	if !p.Header.FortranOrder {
		t.Errorf("column-major array should be written with fortran_order True")
	}

	b, err := ReadNpy[float32](&buf, DefaultReaderOptions())
	if err != nil {
		t.Fatalf("ReadNpy failed: %v", err)
	}
	if b.Layout() != tensor.ColMajor {
		t.Errorf("layout = %v, want ColMajor", b.Layout())
	}
	if !reflect.DeepEqual(rowMajor[float32](t, b), rowMajor[float32](t, a)) {
		t.Errorf("values differ after round trip")
	}
	if b.At(1, 0) != 2 {
		t.Errorf("b(1, 0) = %v, want 2", b.At(1, 0))
	}
}

func TestNpyViewsAndExpressions(t *testing.T) {
	a := tensor.Must(tensor.FromSlice([]int64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, tensor.RowMajor))

	// A transposed view is column-major and is written in Fortran order.
	tr := roundTrip[int64](t, a.T())
	if !reflect.DeepEqual(tr.Shape(), tensor.Shape{3, 2}) {
		t.Errorf("shape = %v, want (3, 2)", tr.Shape())
	}
	if !reflect.DeepEqual(rowMajor[int64](t, tr), []int64{1, 4, 2, 5, 3, 6}) {
		t.Errorf("transposed values = %v", rowMajor[int64](t, tr))
	}

	// Strided views are materialized.
	col, err := a.Slice(tensor.All(), tensor.SpanStep(0, 3, 2))
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	sv := roundTrip[int64](t, col)
	if !reflect.DeepEqual(rowMajor[int64](t, sv), []int64{1, 3, 4, 6}) {
		t.Errorf("sliced values = %v", rowMajor[int64](t, sv))
	}

	// Lazy expressions are evaluated on write.
	sum := tensor.Must(tensor.Add[int64](a, tensor.Scalar(int64(10))))
	ev := roundTrip[int64](t, sum)
	if !reflect.DeepEqual(ev.Data(), []int64{11, 12, 13, 14, 15, 16}) {
		t.Errorf("expression values = %v", ev.Data())
	}
}

func TestReadNpyBigEndian(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(encodeHeader(Header{Descr: ">i4", Shape: []int{2}}))
	_ = binary.Write(&buf, binary.BigEndian, []int32{1, 256})

	a, err := ReadNpy[int32](&buf, DefaultReaderOptions())
	if err != nil {
		t.Fatalf("ReadNpy failed: %v", err)
	}
	if !reflect.DeepEqual(a.Data(), []int32{1, 256}) {
		t.Errorf("data = %v, want [1 256]", a.Data())
	}
}

func TestReadNpyErrors(t *testing.T) {
	valid := func() []byte {
		var buf bytes.Buffer
		_ = WriteNpy[float64](&buf, tensor.Ones[float64](tensor.Shape{4}))
		return buf.Bytes()
	}

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{
			name:    "invalid magic",
			data:    append([]byte("XNUMPY\x01\x00"), valid()[8:]...),
			wantErr: ErrInvalidMagic,
		},
		{
			name:    "unsupported version",
			data:    append([]byte("\x93NUMPY\x04\x00"), valid()[8:]...),
			wantErr: ErrUnsupportedVersion,
		},
		{
			name:    "header too large",
			data:    []byte("\x93NUMPY\x01\x00\xff\xff"),
			wantErr: ErrHeaderTooLarge,
		},
		{
			name:    "truncated data",
			data:    valid()[:len(valid())-4],
			wantErr: ErrTruncated,
		},
		{
			name: "malformed dict",
			data: func() []byte {
				b := valid()
				copy(b[10:], "[")
				return b
			}(),
			wantErr: ErrInvalidHeader,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadNpy[float64](bytes.NewReader(tt.data), DefaultReaderOptions())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if _, err := ReadNpy[float64](bytes.NewReader(nil), DefaultReaderOptions()); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestReadNpyDTypeMismatch(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteNpy[float64](&buf, tensor.Ones[float64](tensor.Shape{2})); err != nil {
		t.Fatalf("WriteNpy failed: %v", err)
	}
	if _, err := ReadNpy[float32](&buf, DefaultReaderOptions()); !errors.Is(err, ErrDTypeMismatch) {
		t.Errorf("expected ErrDTypeMismatch, got %v", err)
	}
}

func TestSaveLoadNpy(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "a.npy")

	a := tensor.Must(tensor.FromSlice([]uint16{1, 2, 3, 4, 5, 6}, tensor.Shape{3, 2}, tensor.RowMajor))
	if err := SaveNpy[uint16](path, a); err != nil {
		t.Fatalf("SaveNpy failed: %v", err)
	}

	b, err := LoadNpy[uint16](path)
	if err != nil {
		t.Fatalf("LoadNpy failed: %v", err)
	}
	if !reflect.DeepEqual(b.Shape(), a.Shape()) || !reflect.DeepEqual(b.Data(), a.Data()) {
		t.Errorf("loaded %v %v, want %v %v", b.Shape(), b.Data(), a.Shape(), a.Data())
	}

	if _, err := LoadNpy[uint16](filepath.Join(tmpDir, "missing.npy")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadNpyValidationLevels(t *testing.T) {
	tmpDir := t.TempDir()

	var buf bytes.Buffer
	if err := WriteNpy[float32](&buf, tensor.Ones[float32](tensor.Shape{3})); err != nil {
		t.Fatalf("WriteNpy failed: %v", err)
	}

	trailing := filepath.Join(tmpDir, "trailing.npy")
	if err := os.WriteFile(trailing, append(bytes.Clone(buf.Bytes()), 0, 0, 0, 0), 0o600); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	if _, err := LoadNpy[float32](trailing); !errors.Is(err, ErrTrailingData) {
		t.Errorf("strict: expected ErrTrailingData, got %v", err)
	}
	a, err := LoadNpyWithOptions[float32](trailing, ReaderOptions{ValidationLevel: ValidationNormal})
	if err != nil {
		t.Fatalf("normal: unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a.Data(), []float32{1, 1, 1}) {
		t.Errorf("normal: data = %v", a.Data())
	}

	short := filepath.Join(tmpDir, "short.npy")
	if err := os.WriteFile(short, buf.Bytes()[:buf.Len()-2], 0o600); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	if _, err := LoadNpyWithOptions[float32](short, ReaderOptions{ValidationLevel: ValidationNormal}); !errors.Is(err, ErrTruncated) {
		t.Errorf("normal: expected ErrTruncated, got %v", err)
	}
	if _, err := LoadNpyWithOptions[float32](short, ReaderOptions{ValidationLevel: ValidationNone}); !errors.Is(err, ErrTruncated) {
		t.Errorf("none: expected ErrTruncated from the short read, got %v", err)
	}
}

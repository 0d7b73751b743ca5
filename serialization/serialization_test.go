package serialization_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/born-ml/ndarray/serialization"
	"github.com/born-ml/ndarray/tensor"
)

func TestNpyRoundTrip(t *testing.T) {
	a := tensor.Must(tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, tensor.RowMajor))

	var buf bytes.Buffer
	if err := serialization.WriteNpy[float32](&buf, a.T()); err != nil {
		t.Fatalf("WriteNpy failed: %v", err)
	}
	b, err := serialization.ReadNpy[float32](&buf, serialization.DefaultReaderOptions())
	if err != nil {
		t.Fatalf("ReadNpy failed: %v", err)
	}
	if !b.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("shape = %v, want (3, 2)", b.Shape())
	}
	ok, err := tensor.AllClose(tensor.AsType[float64, float32](b), tensor.AsType[float64, float32](a.T()), 0)
	if err != nil || !ok {
		t.Errorf("round trip changed values: %v", err)
	}

	if _, err := serialization.ReadNpy[float32](strings.NewReader("not npy"), serialization.DefaultReaderOptions()); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestSaveMmap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.npy")
	if err := serialization.SaveNpy[int64](path, tensor.Must(tensor.Arange[int64](0, 6, 1))); err != nil {
		t.Fatalf("SaveNpy failed: %v", err)
	}

	a, r, err := serialization.MmapNpy[int64](path)
	if err != nil {
		t.Fatalf("MmapNpy failed: %v", err)
	}
	defer r.Close()

	if got := tensor.Sum[int64](a); got != 15 {
		t.Errorf("Sum = %d, want 15", got)
	}
	if _, _, err := serialization.MmapNpy[int32](path); !errors.Is(err, serialization.ErrDTypeMismatch) {
		t.Errorf("expected ErrDTypeMismatch, got %v", err)
	}
}

func TestTextRoundTrip(t *testing.T) {
	a := tensor.Must(tensor.FromSlice([]int{1, 2, 3, 4}, tensor.Shape{2, 2}, tensor.RowMajor))

	s := serialization.Sprint[int](a)
	if s != "[[1, 2], [3, 4]]" {
		t.Errorf("Sprint = %q", s)
	}

	d := serialization.NewTextDecoder(strings.NewReader(s))
	var b tensor.Array[int]
	if !serialization.DecodeText(d, &b) {
		t.Fatalf("DecodeText failed: %v", d.Err())
	}
	if !b.Shape().Equal(a.Shape()) || b.At(1, 0) != 3 {
		t.Errorf("decoded %v %v", b.Shape(), b.Data())
	}
}

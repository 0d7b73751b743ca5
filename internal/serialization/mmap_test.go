package serialization

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"unsafe"

	"github.com/born-ml/ndarray/internal/tensor"
)

// createTestFile writes src as an .npy file for testing.
func createTestFile[T tensor.DType](t *testing.T, path string, src tensor.Expr[T]) {
	t.Helper()

	if err := SaveNpy(path, src); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
}

func TestMmapReaderBasic(t *testing.T) {
	a := tensor.Must(tensor.FromSlice([]float32{1.0, 2.0, 3.0, 4.0}, tensor.Shape{2, 2}, tensor.RowMajor))

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.npy")
	createTestFile[float32](t, path, a)

	reader, err := NewMmapReader(path, DefaultReaderOptions())
	if err != nil {
		t.Fatalf("Failed to create mmap reader: %v", err)
	}
	defer reader.Close()

	major, minor := reader.Version()
	if major != 1 || minor != 0 {
		t.Errorf("Version = %d.%d, want 1.0", major, minor)
	}
	h := reader.Header()
	if h.Descr != "<f4" || h.FortranOrder || !reflect.DeepEqual(h.Shape, []int{2, 2}) {
		t.Errorf("Header = %+v", h)
	}

	data, err := reader.Data()
	if err != nil {
		t.Fatalf("Data failed: %v", err)
	}
	if len(data) != 16 {
		t.Errorf("data section has %d bytes, want 16", len(data))
	}

	b, err := MmapArray[float32](reader)
	if err != nil {
		t.Fatalf("MmapArray failed: %v", err)
	}
	if !reflect.DeepEqual(b.Data(), a.Data()) {
		t.Errorf("data = %v, want %v", b.Data(), a.Data())
	}
	if b.At(1, 0) != 3 {
		t.Errorf("b(1, 0) = %v, want 3", b.At(1, 0))
	}
}

func TestMmapReaderZeroCopy(t *testing.T) {
	if !hostLittleEndian {
		t.Skip("zero-copy needs a little-endian host")
	}

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.npy")
	createTestFile[float64](t, path, tensor.Must(tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{4}, tensor.RowMajor)))

	reader, err := NewMmapReader(path, DefaultReaderOptions())
	if err != nil {
		t.Fatalf("Failed to create mmap reader: %v", err)
	}
	defer reader.Close()

	a, err := MmapArray[float64](reader)
	if err != nil {
		t.Fatalf("MmapArray failed: %v", err)
	}

	// Verify it's within mmap bounds (address check)
	mmapStart := uintptr(unsafe.Pointer(&reader.data[0]))
	mmapEnd := mmapStart + uintptr(len(reader.data))
	dataStart := uintptr(unsafe.Pointer(&a.Data()[0]))

	if dataStart < mmapStart || dataStart >= mmapEnd {
		t.Errorf("MmapArray returned data outside mmap region:\nMmap: [%x, %x)\nData: %x",
			mmapStart, mmapEnd, dataStart)
	}

	// Writes go to the private mapping, never to the file.
	a.Set(99, 0)
	if a.At(0) != 99 {
		t.Errorf("write through mapped array lost")
	}
	b, err := LoadNpy[float64](path)
	if err != nil {
		t.Fatalf("LoadNpy failed: %v", err)
	}
	if b.At(0) != 1 {
		t.Errorf("file changed through private mapping: %v", b.At(0))
	}
}

func TestMmapReaderColumnMajor(t *testing.T) {
	a := tensor.Must(tensor.FromSlice([]int32{1, 2, 3, 4, 5, 6}, tensor.Shape{3, 2}, tensor.RowMajor))

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "fortran.npy")
	createTestFile[int32](t, path, a.T())

	b, reader, err := MmapNpy[int32](path)
	if err != nil {
		t.Fatalf("MmapNpy failed: %v", err)
	}
	defer reader.Close()

	if b.Layout() != tensor.ColMajor {
		t.Errorf("layout = %v, want ColMajor", b.Layout())
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			if b.At(i, j) != a.At(j, i) {
				t.Errorf("b(%d, %d) = %v, want %v", i, j, b.At(i, j), a.At(j, i))
			}
		}
	}
}

func TestMmapReaderDTypeMismatch(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.npy")
	createTestFile[float32](t, path, tensor.Ones[float32](tensor.Shape{2}))

	if _, _, err := MmapNpy[float64](path); !errors.Is(err, ErrDTypeMismatch) {
		t.Errorf("expected ErrDTypeMismatch, got %v", err)
	}
}

func TestMmapReaderClosed(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.npy")
	createTestFile[float32](t, path, tensor.Zeros[float32](tensor.Shape{1}))

	// Open and close reader
	reader, err := NewMmapReader(path, DefaultReaderOptions())
	if err != nil {
		t.Fatalf("Failed to create mmap reader: %v", err)
	}
	if err := reader.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Try to use closed reader
	if _, err := reader.Data(); err == nil {
		t.Error("Expected error when accessing data from closed reader")
	}

	if _, err := MmapArray[float32](reader); err == nil {
		t.Error("Expected error when mapping an array from closed reader")
	}

	// Close again should be safe
	if err := reader.Close(); err != nil {
		t.Errorf("Second close should not error, got: %v", err)
	}
}

func TestMmapReaderInvalidFile(t *testing.T) {
	tests := []struct {
		name     string
		contents []byte
	}{
		{
			name:     "empty file",
			contents: []byte{},
		},
		{
			name:     "too small",
			contents: []byte("\x93NUMPY"),
		},
		{
			name:     "invalid magic",
			contents: []byte("XXXX\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00"),
		},
		{
			name: "trailing data",
			contents: append(
				encodeHeader(Header{Descr: "|u1", Shape: []int{2}}),
				1, 2, 3,
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			path := filepath.Join(tmpDir, "invalid.npy")

			if err := os.WriteFile(path, tt.contents, 0o600); err != nil {
				t.Fatalf("Failed to write test file: %v", err)
			}

			reader, err := NewMmapReader(path, DefaultReaderOptions())
			if reader != nil {
				defer reader.Close()
			}

			if err == nil {
				t.Errorf("NewMmapReader() expected error")
			}
		})
	}

	if _, err := NewMmapReader(filepath.Join(t.TempDir(), "missing.npy"), DefaultReaderOptions()); err == nil {
		t.Error("expected error for missing file")
	}
}

func BenchmarkMmapVsRegularSmall(b *testing.B) {
	benchmarkMmapVsRegular(b, 1000) // 4KB
}

func BenchmarkMmapVsRegularMedium(b *testing.B) {
	benchmarkMmapVsRegular(b, 100000) // 400KB
}

func BenchmarkMmapVsRegularLarge(b *testing.B) {
	if testing.Short() {
		b.Skip("Skipping large benchmark in short mode")
	}
	benchmarkMmapVsRegular(b, 10000000) // 40MB
}

// createBenchFile writes a float32 vector of numElements to a temp file.
func createBenchFile(b *testing.B, numElements int) string {
	b.Helper()

	tmpDir := b.TempDir()
	path := filepath.Join(tmpDir, "bench.npy")
	if err := SaveNpy[float32](path, tensor.Ones[float32](tensor.Shape{numElements})); err != nil {
		b.Fatalf("Failed to write file: %v", err)
	}
	return path
}

func benchmarkMmapVsRegular(b *testing.B, numElements int) {
	path := createBenchFile(b, numElements)

	b.Run("Regular", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, err := LoadNpy[float32](path); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("Mmap", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_, r, err := MmapNpy[float32](path)
			if err != nil {
				b.Fatal(err)
			}
			_ = r.Close()
		}
	})
}

package serialization

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/ndarray/internal/tensor"
)

// layoutOf returns the preferred order of src, RowMajor for expressions.
func layoutOf[T tensor.DType](src tensor.Expr[T]) tensor.Layout {
	if l, ok := src.(interface{ Layout() tensor.Layout }); ok {
		return l.Layout()
	}
	return tensor.RowMajor
}

// contiguous returns src's elements as one slice in layout order, sharing
// memory with owning arrays and materializing anything else.
func contiguous[T tensor.DType](src tensor.Expr[T], layout tensor.Layout) ([]T, error) {
	if a, ok := src.(*tensor.Array[T]); ok && a.Layout() == layout {
		return a.Data(), nil
	}
	c, err := tensor.Copy(src, layout)
	if err != nil {
		return nil, err
	}
	return c.Data(), nil
}

// WriteNpy encodes src in .npy format. Column-major arrays and views are
// written with fortran_order True, everything else in C order.
//
// Example:
//
//	var buf bytes.Buffer
//	if err := serialization.WriteNpy[float64](&buf, a); err != nil {
//	    return err
//	}
func WriteNpy[T tensor.DType](w io.Writer, src tensor.Expr[T]) error {
	layout := layoutOf(src)
	data, err := contiguous(src, layout)
	if err != nil {
		return fmt.Errorf("failed to materialize array: %w", err)
	}
	h := Header{
		Descr:        DescrOf(tensor.DataTypeOf[T]()),
		FortranOrder: layout == tensor.ColMajor && src.Ndim() > 1,
		Shape:        []int(src.Shape().Clone()),
	}
	if _, err := w.Write(encodeHeader(h)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := writeElements(w, data); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}
	return nil
}

// SaveNpy writes src to the .npy file at path, replacing any existing file.
func SaveNpy[T tensor.DType](path string, src tensor.Expr[T]) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for array saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", closeErr)
		}
	}()

	bw := bufio.NewWriter(file)
	if err := WriteNpy(bw, src); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush file: %w", err)
	}
	return nil
}

// Package main provides the ndarray CLI for inspecting .npy files.
package main

import (
	"fmt"
	"os"

	"github.com/born-ml/ndarray/serialization"
	"github.com/born-ml/ndarray/tensor"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch cmd := os.Args[1]; cmd {
	case "version":
		fmt.Printf("ndarray %s\n", version)
	case "info", "print":
		if len(os.Args) != 3 {
			usage()
			os.Exit(2)
		}
		if cmd == "info" {
			err = info(os.Args[2])
		} else {
			err = printFile(os.Args[2])
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("ndarray - N-dimensional arrays for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version        Show version")
	fmt.Println("  info <file>    Show the header of an .npy file")
	fmt.Println("  print <file>   Print the contents of an .npy file")
}

func info(path string) error {
	r, err := serialization.NewMmapReader(path, serialization.DefaultReaderOptions())
	if err != nil {
		return err
	}
	defer r.Close()

	h := r.Header()
	dt, _, err := h.DataType()
	if err != nil {
		return err
	}
	major, minor := r.Version()
	fmt.Printf("format:   %d.%d\n", major, minor)
	fmt.Printf("descr:    %s (%s)\n", h.Descr, dt)
	fmt.Printf("shape:    %v\n", tensor.Shape(h.Shape))
	fmt.Printf("layout:   %s\n", h.Layout())
	fmt.Printf("elements: %d\n", h.NumElements())
	return nil
}

func printFile(path string) error {
	r, err := serialization.NewMmapReader(path, serialization.DefaultReaderOptions())
	if err != nil {
		return err
	}
	dt, _, err := r.Header().DataType()
	r.Close()
	if err != nil {
		return err
	}

	switch dt {
	case tensor.Bool:
		return printAs[bool](path)
	case tensor.Int8:
		return printAs[int8](path)
	case tensor.Int16:
		return printAs[int16](path)
	case tensor.Int32:
		return printAs[int32](path)
	case tensor.Int64:
		return printAs[int64](path)
	case tensor.Uint8:
		return printAs[uint8](path)
	case tensor.Uint16:
		return printAs[uint16](path)
	case tensor.Uint32:
		return printAs[uint32](path)
	case tensor.Uint64:
		return printAs[uint64](path)
	case tensor.Float32:
		return printAs[float32](path)
	case tensor.Float64:
		return printAs[float64](path)
	default:
		return fmt.Errorf("unsupported dtype %s", dt)
	}
}

func printAs[T tensor.DType](path string) error {
	a, err := serialization.LoadNpy[T](path)
	if err != nil {
		return err
	}
	opts := serialization.DefaultPrintOptions()
	opts.Multiline = true
	if err := serialization.FormatText[T](os.Stdout, a, opts); err != nil {
		return err
	}
	fmt.Println()
	return nil
}

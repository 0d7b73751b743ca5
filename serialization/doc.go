// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package serialization reads and writes arrays as NumPy .npy files and as
// bracketed text literals.
//
// # NPY Files
//
// Files written here load with numpy.load and vice versa. Column-major
// arrays are stored with fortran_order True, so a transposed view round
// trips without a copy on either side:
//
//	import (
//	    "github.com/born-ml/ndarray/serialization"
//	    "github.com/born-ml/ndarray/tensor"
//	)
//
//	if err := serialization.SaveNpy[float64]("weights.npy", w); err != nil {
//	    log.Fatal(err)
//	}
//	w2, err := serialization.LoadNpy[float64]("weights.npy")
//
// Large files can be memory-mapped instead of read:
//
//	a, r, err := serialization.MmapNpy[float32]("embeddings.npy")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
// # Text Format
//
// Sprint renders an operand as a nested list, [[1, 2], [3, 4]], and
// DecodeText parses the same syntax back. Elements may be separated by
// commas or whitespace.
package serialization

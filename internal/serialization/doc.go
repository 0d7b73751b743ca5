// Package serialization reads and writes arrays in NumPy's .npy container
// format and in a bracketed text format.
//
// The .npy format (versions 1.0, 2.0 and 3.0) is:
//
//	Format Structure:
//	  [6 bytes: Magic "\x93NUMPY"]
//	  [2 bytes: Major, minor version]
//	  [2 bytes (v1) or 4 bytes (v2, v3): Header length (LE)]
//	  [Header: Python dict literal, space padded, '\n' terminated]
//	  [Array data: raw elements in C or Fortran order]
//
// The preamble is padded so the data section starts on a 64-byte boundary.
//
// Example usage:
//
//	// Save an array
//	if err := serialization.SaveNpy[float64]("a.npy", a); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Load it back
//	b, err := serialization.LoadNpy[float64]("a.npy")
//	if err != nil {
//	    log.Fatal(err)
//	}
package serialization

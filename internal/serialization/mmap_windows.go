//go:build windows

package serialization

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// mmapFile memory-maps a file copy-on-write (Windows implementation).
func mmapFile(f *os.File, size int64) ([]byte, error) {
	// Create file mapping object
	handle, err := windows.CreateFileMapping(
		windows.Handle(f.Fd()),
		nil,
		windows.PAGE_WRITECOPY,
		uint32(size>>32), //nolint:gosec // G115: integer overflow conversion int64 -> uint32
		uint32(size),     //nolint:gosec // G115: integer overflow conversion int64 -> uint32
		nil,
	)
	if err != nil {
		return nil, err
	}
	// The view keeps the mapping alive after the handle is closed.
	defer func() { _ = windows.CloseHandle(handle) }()

	// Map view of file into address space
	addr, err := windows.MapViewOfFile(
		handle,
		windows.FILE_MAP_COPY,
		0,
		0,
		uintptr(size), //nolint:gosec // G115: int64-to-uintptr needed for syscall
	)
	if err != nil {
		return nil, err
	}

	//nolint:gosec,govet // G103: addr is a valid mapped address from MapViewOfFile
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), int(size)), nil
}

// munmapFile unmaps a memory-mapped file (Windows implementation).
func munmapFile(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("cannot unmap empty data")
	}
	return windows.UnmapViewOfFile(uintptr(unsafe.Pointer(&data[0]))) //nolint:gosec // G103: base of the mapped view
}

package mem

import "unsafe"

// CacheLine is the alignment of buffers returned by AllocAligned.
const CacheLine = 64

// AllocAligned returns a zeroed buffer of size bytes whose first byte sits
// on a CacheLine boundary. It returns nil for a non-positive size.
//
// The backing array is over-allocated by up to CacheLine bytes and kept alive
// by the returned slice.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	buf := make([]byte, size+CacheLine)
	offset := int(alignUp(address(buf)) - address(buf))
	return buf[offset : offset+size : offset+size]
}

// IsAligned reports whether buf starts on a CacheLine boundary.
// An empty buffer is never aligned.
func IsAligned(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	return address(buf)%CacheLine == 0
}

func address(buf []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(buf))) //nolint:gosec // address arithmetic only
}

func alignUp(addr uintptr) uintptr {
	return (addr + CacheLine - 1) &^ (CacheLine - 1)
}

package rlbridge

import "unsafe"

// Ptr is an address in foreign memory. Ptr 0 is the NULL pointer.
type Ptr uintptr

// PtrSize is the width of a foreign pointer in bytes.
const PtrSize = int(unsafe.Sizeof(uintptr(0)))

// Memory represents memory owned by the foreign side of the boundary
type Memory interface {
	Read(ptr Ptr, length int) ([]byte, error)
	Write(ptr Ptr, data []byte) error
	ReadI32(ptr Ptr) (int32, error)
	WriteI32(ptr Ptr, value int32) error
	ReadPtr(ptr Ptr) (Ptr, error)
	WritePtr(ptr Ptr, value Ptr) error
	// StrLen returns the number of bytes before the first NUL at ptr.
	StrLen(ptr Ptr) (int, error)
}

// Allocator allocates and releases foreign memory.
// Every Ptr returned by Alloc must be passed to Free of the same Allocator exactly once.
type Allocator interface {
	Alloc(size int) (Ptr, error)
	Free(ptr Ptr)
}

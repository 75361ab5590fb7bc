package main

/*
#include <stdlib.h>
#include <string.h>
*/
import "C"

import (
	"unsafe"

	"github.com/wippyai/rlbridge"
	"github.com/wippyai/rlbridge/errors"
)

// cHeap is the process C heap. Addresses are trusted: the bridge only
// dereferences pointers the host passed in or that malloc returned.
type cHeap struct{}

var (
	_ rlbridge.Memory    = cHeap{}
	_ rlbridge.Allocator = cHeap{}
)

func addr(p rlbridge.Ptr) unsafe.Pointer {
	return unsafe.Pointer(uintptr(p))
}

func nilCheck(p rlbridge.Ptr) error {
	if p == 0 {
		return errors.NilPointer(errors.PhaseDecode, nil, "void*")
	}
	return nil
}

func (cHeap) Alloc(size int) (rlbridge.Ptr, error) {
	p := C.malloc(C.size_t(max(size, 1)))
	if p == nil {
		return 0, errors.AllocationFailed(errors.PhaseEncode, size)
	}
	return rlbridge.Ptr(uintptr(p)), nil
}

func (cHeap) Free(p rlbridge.Ptr) {
	C.free(addr(p))
}

func (cHeap) Read(p rlbridge.Ptr, n int) ([]byte, error) {
	if err := nilCheck(p); err != nil {
		return nil, err
	}
	return C.GoBytes(addr(p), C.int(n)), nil
}

func (cHeap) Write(p rlbridge.Ptr, data []byte) error {
	if err := nilCheck(p); err != nil {
		return err
	}
	copy(unsafe.Slice((*byte)(addr(p)), len(data)), data)
	return nil
}

func (cHeap) ReadI32(p rlbridge.Ptr) (int32, error) {
	if err := nilCheck(p); err != nil {
		return 0, err
	}
	return *(*int32)(addr(p)), nil
}

func (cHeap) WriteI32(p rlbridge.Ptr, v int32) error {
	if err := nilCheck(p); err != nil {
		return err
	}
	*(*int32)(addr(p)) = v
	return nil
}

func (cHeap) ReadPtr(p rlbridge.Ptr) (rlbridge.Ptr, error) {
	if err := nilCheck(p); err != nil {
		return 0, err
	}
	return *(*rlbridge.Ptr)(addr(p)), nil
}

func (cHeap) WritePtr(p rlbridge.Ptr, v rlbridge.Ptr) error {
	if err := nilCheck(p); err != nil {
		return err
	}
	*(*rlbridge.Ptr)(addr(p)) = v
	return nil
}

func (cHeap) StrLen(p rlbridge.Ptr) (int, error) {
	if err := nilCheck(p); err != nil {
		return 0, err
	}
	return int(C.strlen((*C.char)(addr(p)))), nil
}

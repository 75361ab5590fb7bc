package marshal

import (
	"sync"

	"github.com/wippyai/rlbridge"
)

// AllocationList records temporary foreign allocations so they can be freed
// together, typically the argument strings of one host callback.
type AllocationList struct {
	ptrs []rlbridge.Ptr
}

var allocationListPool = sync.Pool{
	New: func() any {
		return &AllocationList{ptrs: make([]rlbridge.Ptr, 0, 4)}
	},
}

// NewAllocationList returns an empty list from the pool.
func NewAllocationList() *AllocationList {
	return allocationListPool.Get().(*AllocationList)
}

const maxPooledAllocationCapacity = 64

// Release returns to pool. Must call after Free(); list invalid after Release.
func (al *AllocationList) Release() {
	// Only pool small lists to prevent memory bloat
	if cap(al.ptrs) > maxPooledAllocationCapacity {
		return
	}
	al.Reset()
	allocationListPool.Put(al)
}

// FreeAndRelease frees every recorded pointer and returns the list to the pool.
func (al *AllocationList) FreeAndRelease(alloc rlbridge.Allocator) {
	al.Free(alloc)
	al.Release()
}

// Add records ptr. NULL pointers are ignored.
func (al *AllocationList) Add(ptr rlbridge.Ptr) {
	if ptr == 0 {
		return
	}
	al.ptrs = append(al.ptrs, ptr)
}

// CString writes s like WriteCString and records the allocation.
func (al *AllocationList) CString(mem rlbridge.Memory, alloc rlbridge.Allocator, s string, path ...string) (rlbridge.Ptr, error) {
	ptr, err := WriteCString(mem, alloc, s, path...)
	if err != nil {
		return 0, err
	}
	al.Add(ptr)
	return ptr, nil
}

// Free releases every recorded pointer with alloc.
func (al *AllocationList) Free(alloc rlbridge.Allocator) {
	if alloc == nil {
		return
	}
	for _, p := range al.ptrs {
		alloc.Free(p)
	}
	al.ptrs = al.ptrs[:0]
}

// Reset forgets recorded pointers without freeing them.
func (al *AllocationList) Reset() {
	al.ptrs = al.ptrs[:0]
}

// Count returns the number of recorded allocations.
func (al *AllocationList) Count() int {
	return len(al.ptrs)
}

// Package heap implements rlbridge.Memory and rlbridge.Allocator over
// Go-managed blocks.
//
// It models the C heap for code that runs without cgo: tests, and Go hosts
// that embed the bridge in-process. Every allocation is accounted so leak and
// double-free properties of the boundary protocol can be asserted.
package heap

import (
	"encoding/binary"
	"sort"
	"sync"

	"github.com/wippyai/rlbridge"
	"github.com/wippyai/rlbridge/errors"
)

// base is the first address handed out; it keeps small integers from looking
// like valid pointers.
const base rlbridge.Ptr = 0x10000

// Stats summarizes allocator activity.
type Stats struct {
	Allocs    int
	Frees     int
	BadFrees  int
	LiveBytes int
}

// Live returns the number of outstanding allocations.
func (s Stats) Live() int {
	return s.Allocs - s.Frees
}

// Heap is a Go-managed foreign heap. The zero value is not usable; call New.
type Heap struct {
	blocks map[rlbridge.Ptr][]byte
	bases  []rlbridge.Ptr
	next   rlbridge.Ptr
	stats  Stats
	mu     sync.Mutex
}

var (
	_ rlbridge.Memory    = (*Heap)(nil)
	_ rlbridge.Allocator = (*Heap)(nil)
)

// New creates an empty heap.
func New() *Heap {
	return &Heap{
		blocks: make(map[rlbridge.Ptr][]byte),
		next:   base,
	}
}

// Alloc reserves size bytes, zero-filled. A zero size still yields a unique,
// freeable pointer.
func (h *Heap) Alloc(size int) (rlbridge.Ptr, error) {
	if size < 0 {
		return 0, errors.AllocationFailed(errors.PhaseEncode, size)
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	ptr := h.next
	// 16-byte alignment with a guard gap so adjacent blocks never touch
	h.next += rlbridge.Ptr((size+16)/16*16 + 16)

	h.blocks[ptr] = make([]byte, size)
	h.bases = append(h.bases, ptr)
	h.stats.Allocs++
	h.stats.LiveBytes += size
	return ptr, nil
}

// Free releases a block. Freeing NULL is a no-op; freeing an unknown or
// interior pointer is counted as a bad free and otherwise ignored.
func (h *Heap) Free(ptr rlbridge.Ptr) {
	if ptr == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	block, ok := h.blocks[ptr]
	if !ok {
		h.stats.BadFrees++
		return
	}
	delete(h.blocks, ptr)
	i := sort.Search(len(h.bases), func(i int) bool { return h.bases[i] >= ptr })
	h.bases = append(h.bases[:i], h.bases[i+1:]...)
	h.stats.Frees++
	h.stats.LiveBytes -= len(block)
}

// Stats returns a snapshot of allocator counters.
func (h *Heap) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats
}

// Live returns the number of outstanding allocations.
func (h *Heap) Live() int {
	return h.Stats().Live()
}

// locate finds the live block containing ptr and the offset of ptr within it.
// Caller holds mu.
func (h *Heap) locate(ptr rlbridge.Ptr) ([]byte, int, error) {
	if ptr == 0 {
		return nil, 0, errors.NilPointer(errors.PhaseDecode, nil, "void*")
	}
	i := sort.Search(len(h.bases), func(i int) bool { return h.bases[i] > ptr }) - 1
	if i < 0 {
		return nil, 0, errors.OutOfBounds(errors.PhaseDecode, nil, int(ptr), 0)
	}
	block := h.blocks[h.bases[i]]
	off := int(ptr - h.bases[i])
	if off > len(block) {
		return nil, 0, errors.OutOfBounds(errors.PhaseDecode, nil, off, len(block))
	}
	return block, off, nil
}

// span returns the bytes of the live block covering [ptr, ptr+length).
// Caller holds mu.
func (h *Heap) span(ptr rlbridge.Ptr, length int) ([]byte, error) {
	block, off, err := h.locate(ptr)
	if err != nil {
		return nil, err
	}
	if length < 0 || off+length > len(block) {
		return nil, errors.OutOfBounds(errors.PhaseDecode, nil, off+length, len(block))
	}
	return block[off : off+length], nil
}

// Read copies length bytes starting at ptr.
func (h *Heap) Read(ptr rlbridge.Ptr, length int) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, err := h.span(ptr, length)
	if err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, b)
	return out, nil
}

// Write copies data to ptr.
func (h *Heap) Write(ptr rlbridge.Ptr, data []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, err := h.span(ptr, len(data))
	if err != nil {
		return err
	}
	copy(b, data)
	return nil
}

// ReadI32 reads a 32-bit signed integer.
func (h *Heap) ReadI32(ptr rlbridge.Ptr) (int32, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, err := h.span(ptr, 4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// WriteI32 writes a 32-bit signed integer.
func (h *Heap) WriteI32(ptr rlbridge.Ptr, value int32) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, err := h.span(ptr, 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, uint32(value))
	return nil
}

// ReadPtr reads a pointer-sized value.
func (h *Heap) ReadPtr(ptr rlbridge.Ptr) (rlbridge.Ptr, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, err := h.span(ptr, rlbridge.PtrSize)
	if err != nil {
		return 0, err
	}
	if rlbridge.PtrSize == 4 {
		return rlbridge.Ptr(binary.LittleEndian.Uint32(b)), nil
	}
	return rlbridge.Ptr(binary.LittleEndian.Uint64(b)), nil
}

// WritePtr writes a pointer-sized value.
func (h *Heap) WritePtr(ptr rlbridge.Ptr, value rlbridge.Ptr) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, err := h.span(ptr, rlbridge.PtrSize)
	if err != nil {
		return err
	}
	if rlbridge.PtrSize == 4 {
		binary.LittleEndian.PutUint32(b, uint32(value))
	} else {
		binary.LittleEndian.PutUint64(b, uint64(value))
	}
	return nil
}

// StrLen returns the number of bytes before the first NUL at ptr. A block
// without a terminator is an out-of-bounds error, never an overread.
func (h *Heap) StrLen(ptr rlbridge.Ptr) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	block, off, err := h.locate(ptr)
	if err != nil {
		return 0, err
	}
	rest := block[off:]
	for n, c := range rest {
		if c == 0 {
			return n, nil
		}
	}
	return 0, errors.OutOfBounds(errors.PhaseDecode, nil, len(rest), len(rest))
}

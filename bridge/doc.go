// Package bridge exposes line-editing sessions to a foreign caller that only
// speaks a flat C ABI.
//
// Everything crossing the boundary goes through rlbridge.Memory and
// rlbridge.Allocator, so the package has no cgo of its own: cmd/librl plugs
// in the C heap, tests plug in heap.Heap.
//
// # Sessions
//
// A session is an editor.Editor registered in a resource table. The caller
// holds a resource.Handle, never an address. Operations on a released or
// unknown handle return an ERROR_INVALID_HANDLE envelope instead of touching
// freed memory. Each session admits one operation at a time; an overlapping
// call, including one made from inside a hook, is rejected as busy.
//
// # Envelopes
//
// Results come back as ReadLineResult records:
//
//	offset 0            int32  code (-1 on success)
//	offset PtrSize      char*  error_message (set for code >= 0)
//	offset 2*PtrSize    char*  result (set for a read line)
//
// The caller returns each one with ReleaseEnvelope, which frees the message
// only for error codes. Strings returned by host callbacks are freed with the
// host allocator once copied.
//
// # Hooks
//
// Completion, highlighting and validation are host function pointers wrapped
// in trampolines that are installed on every session. An absent hook behaves
// as a fixed no-op, so the editor never sees a nil hook from this package.
package bridge

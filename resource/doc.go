// Package resource provides the handle registry behind every opaque value the
// bridge hands to a foreign host.
//
// A foreign host cannot hold Go pointers, so values are stored in a table and
// the host receives a 32-bit handle. Handle 0 is reserved and always invalid.
//
// # Handle Table
//
// The UnifiedTable maps handles to Go values:
//
//	table := resource.NewTable()
//
//	// Insert a value, get a handle
//	handle := table.Insert(typeID, myValue)
//
//	// Retrieve value by handle
//	value, ok := table.Get(handle)
//
//	// Remove and get value (ownership returns to Go)
//	value, ok := table.Remove(handle)
//
// # Stale Handles
//
// Each handle carries the generation of its slot. Removing a value bumps the
// generation, so a handle used after release fails every lookup even when the
// slot has been reused. Use-after-release is detected, never aliased.
//
// # Borrows
//
// Borrow marks a value as in use for the duration of an operation. Remove
// refuses to drop a borrowed value, which keeps a release issued during an
// in-flight read from freeing the session under it.
//
// # Type Safety
//
// Typed wraps a table for one Go type and type ID:
//
//	sessions := resource.NewTyped[*Session](table, TypeSession)
//	h := sessions.Insert(s)
//	s, ok := sessions.Get(h)
//
// # Observers
//
// Observers receive Created, Dropped, Borrowed and BorrowReturned events,
// which the bridge uses for lifecycle logging.
//
// # Memory Management
//
// Values are never reclaimed implicitly. The host must call the matching
// release operation; values implementing Dropper are dropped on Remove.
package resource

// Package rlbridge exposes an interactive line editor to foreign hosts through a
// C-compatible ABI.
//
// The host never sees the editor's Go types. It receives integer session
// handles, flat result envelopes and NUL-terminated strings, and supplies
// behaviour (completion, highlighting, validation) as C function pointers.
//
// # Architecture Overview
//
//	rlbridge/        Root package with the Ptr, Memory and Allocator model of foreign memory
//	├── errors/      Structured error types
//	├── resource/    Handle registry (arena + index) for sessions
//	├── heap/        Go-managed Memory/Allocator with allocation accounting
//	├── marshal/     C string marshalling and candidate encoding
//	├── editor/      Line-editing engine: history, completion, hints, highlighting
//	├── helper/      Built-in completers, hinters and highlighters
//	├── bridge/      Envelopes, config translation, sessions, callback trampolines
//	├── cmd/librl/   cgo c-shared library exporting the C ABI
//	├── cmd/rlshell/ Interactive shell driving the editor directly
//	├── examples/    Go host walking through the bridge calls
//	└── testbed/     End-to-end scenarios against the bridge
//
// # Ownership
//
// Every string and envelope the bridge returns is allocated by the bridge and
// must be released exactly once through free_read_line_result. Strings returned
// by host callbacks are allocated by the host with malloc and released by the
// bridge with free after their contents are copied.
//
// # Thread Safety
//
// A session is single-owner: operations on one handle must be issued
// sequentially. Overlapping or nested operations on the same handle are
// rejected with an error envelope rather than raced. Distinct sessions may be
// used from different threads.
package rlbridge

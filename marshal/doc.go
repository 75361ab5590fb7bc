// Package marshal converts values between Go and foreign memory.
//
// Strings cross the boundary as NUL-terminated UTF-8 byte sequences:
//
//	┌────────────────────────────────────────────────────────────┐
//	│ Go string ←→ [marshal] ←→ char* in foreign memory (NUL)   │
//	└────────────────────────────────────────────────────────────┘
//
// # Ownership
//
//	WriteCString  - allocates with the given Allocator; caller owns the result
//	ReadCString   - copies; the foreign buffer stays owned by its allocator
//	TakeCString   - copies, then frees with the given Allocator
//
// A Go string with an embedded NUL cannot be represented and is an
// embedded_nul error. Foreign bytes that are not valid UTF-8 are an
// invalid_utf8 error. Neither condition aborts the process.
//
// # Candidate Lists
//
// Completion hooks return all candidates in one C string joined by
// CandidateDelimiter. SplitCandidates drops empty segments.
package marshal

// Package errors provides structured error types for the line-editor bridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, Go/C type names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseConfig, errors.KindInvalidEnum).
//		Path("EditorConfig", "completion_type").
//		CType("int32_t").
//		Value(5).
//		Detail("expected 0 (circular) or 1 (list)").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidEnum(errors.PhaseConfig, path, 5, "CompletionType")
//	err := errors.InvalidHandle(errors.PhaseSession, 7)
//
// All errors implement the standard error interface and support errors.Is/As.
// Is matches on Phase and Kind only, so a bare &Error{Phase, Kind} works as a target.
package errors

package bridge

import (
	"fmt"
	"strings"

	"github.com/wippyai/rlbridge/editor"
	"github.com/wippyai/rlbridge/errors"
)

// Code is the envelope discriminant.
type Code int32

const (
	CodeOK            Code = -1
	CodeEOF           Code = 0
	CodeInterrupted   Code = 1
	CodeUnknown       Code = 2
	CodeConfig        Code = 3
	CodeEncoding      Code = 4
	CodeInvalidHandle Code = 5
)

const (
	msgEOF         = "Reached end of file"
	msgInterrupted = "Received interrupt signal"
)

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeEOF:
		return "ERROR_EOF"
	case CodeInterrupted:
		return "ERROR_INTERRUPTED"
	case CodeUnknown:
		return "ERROR_UNKNOWN"
	case CodeConfig:
		return "ERROR_CONFIG"
	case CodeEncoding:
		return "ERROR_ENCODING"
	case CodeInvalidHandle:
		return "ERROR_INVALID_HANDLE"
	}
	return fmt.Sprintf("Code(%d)", int32(c))
}

// IsError reports whether c is an error discriminant.
func (c Code) IsError() bool { return c >= 0 }

// classify maps an error to its discriminant and host-visible message.
func classify(err error) (Code, string) {
	switch {
	case errors.Is(err, editor.ErrEOF):
		return CodeEOF, msgEOF
	case errors.Is(err, editor.ErrInterrupted):
		return CodeInterrupted, msgInterrupted
	case errors.HasKind(err, errors.KindInvalidHandle):
		return CodeInvalidHandle, "Invalid handle: " + sanitize(err.Error())
	case errors.HasKind(err, errors.KindInvalidUTF8),
		errors.HasKind(err, errors.KindEmbeddedNUL),
		errors.HasKind(err, errors.KindNilPointer):
		return CodeEncoding, "Encoding error: " + sanitize(err.Error())
	case inPhase(err, errors.PhaseConfig):
		return CodeConfig, "Invalid configuration: " + sanitize(err.Error())
	}
	return CodeUnknown, "Unknown error: " + sanitize(err.Error())
}

func inPhase(err error, phase errors.Phase) bool {
	var e *errors.Error
	return errors.As(err, &e) && e.Phase == phase
}

// sanitize keeps messages representable as C strings.
func sanitize(s string) string {
	return strings.ReplaceAll(s, "\x00", `\0`)
}

package bridge

import (
	"github.com/wippyai/rlbridge"
	"github.com/wippyai/rlbridge/marshal"
)

// Host callback signatures. Each mirrors one C function pointer type of the
// ABI; cmd/librl adapts the C pointers into these, tests write them in Go.
// Returned strings are owned by the host allocator and freed by the bridge
// after copying. A zero return means "no value".
type (
	// CompleterFunc returns the candidates joined by CandidateDelimiter and
	// may move *outStart back to where replacement begins.
	CompleterFunc func(userData, line rlbridge.Ptr, pos int32, outStart *int32) rlbridge.Ptr

	HintHighlighterFunc func(userData, hint rlbridge.Ptr) rlbridge.Ptr

	// PromptHighlighterFunc receives the prompt passed to the read. The
	// editor draws no other prompt, so isDefault is always true.
	PromptHighlighterFunc func(userData, prompt rlbridge.Ptr, isDefault bool) rlbridge.Ptr

	CandidateHighlighterFunc func(userData, candidate rlbridge.Ptr, completionType int32) rlbridge.Ptr
	HighlighterFunc          func(userData, line rlbridge.Ptr, pos int32) rlbridge.Ptr

	// ValidatorFunc returns ValidationValid, ValidationInvalid or
	// ValidationIncomplete and may store a message in *outMessage.
	ValidatorFunc func(userData, line rlbridge.Ptr, pos int32, outMessage *rlbridge.Ptr) int32
)

// Validator return codes.
const (
	ValidationValid      int32 = 0
	ValidationInvalid    int32 = 1
	ValidationIncomplete int32 = 2
)

// CandidateDelimiter separates candidates in a completer's return string.
const CandidateDelimiter = marshal.CandidateDelimiter

// hookSet is the behaviour installed on one session. Nil members are absent.
type hookSet struct {
	completer            CompleterFunc
	hintHighlighter      HintHighlighterFunc
	promptHighlighter    PromptHighlighterFunc
	candidateHighlighter CandidateHighlighterFunc
	highlighter          HighlighterFunc
	validator            ValidatorFunc

	userData rlbridge.Ptr

	// fileCompleter serves completion when no completer is installed.
	// History hints show when it is set or a hint highlighter is installed.
	fileCompleter bool
}

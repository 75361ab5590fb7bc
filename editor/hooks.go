package editor

import (
	"errors"
	"io"
)

var (
	// ErrEOF is returned by ReadLine when input ends on an empty line.
	ErrEOF = io.EOF
	// ErrInterrupted is returned by ReadLine when the user presses Ctrl-C.
	ErrInterrupted = errors.New("editor: interrupted")
)

// Candidate is one completion proposal.
type Candidate struct {
	Display     string
	Replacement string
}

// Completer proposes replacements for the text ending at pos. Positions are
// UTF-8 byte offsets into line. The returned start is where replacement
// begins.
type Completer interface {
	Complete(line string, pos int) (start int, candidates []Candidate, err error)
}

// Hinter suggests text to show after the cursor.
type Hinter interface {
	Hint(line string, pos int) (string, bool)
}

// Highlighter decorates text for display. Results may contain ANSI escapes;
// they must not change the visible width. HighlightPrompt is only called
// with the prompt given to ReadLine, so isDefault is always true.
type Highlighter interface {
	Highlight(line string, pos int) string
	HighlightPrompt(prompt string, isDefault bool) string
	HighlightHint(hint string) string
	HighlightCandidate(candidate string, ct CompletionType) string
}

// ValidationKind is the outcome of validating a submitted line.
type ValidationKind int

const (
	Valid ValidationKind = iota
	Invalid
	Incomplete
)

func (k ValidationKind) String() string {
	switch k {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	case Incomplete:
		return "incomplete"
	}
	return "unknown"
}

// ValidationResult carries the outcome and an optional message to display.
type ValidationResult struct {
	Kind    ValidationKind
	Message string
}

// Validator decides whether Enter accepts the line.
type Validator interface {
	Validate(line string, pos int) ValidationResult
}

// NopHighlighter returns its inputs unchanged. Embed it to implement only
// some Highlighter methods.
type NopHighlighter struct{}

func (NopHighlighter) Highlight(line string, _ int) string                 { return line }
func (NopHighlighter) HighlightPrompt(prompt string, _ bool) string        { return prompt }
func (NopHighlighter) HighlightHint(hint string) string                    { return hint }
func (NopHighlighter) HighlightCandidate(c string, _ CompletionType) string { return c }

package bridge

import (
	"go.uber.org/zap"

	"github.com/wippyai/rlbridge"
	"github.com/wippyai/rlbridge/editor"
	"github.com/wippyai/rlbridge/helper"
	"github.com/wippyai/rlbridge/marshal"
)

// callHost passes arg to a host callback as a temporary C string and takes
// ownership of the string it returns. ok is false when the host returned
// NULL.
func (b *Bridge) callHost(hook, arg string, call func(rlbridge.Ptr) rlbridge.Ptr) (out string, ok bool, err error) {
	al := marshal.NewAllocationList()
	defer al.FreeAndRelease(b.alloc)

	p, err := al.CString(b.mem, b.alloc, arg, hook, "arg")
	if err != nil {
		return "", false, err
	}
	return marshal.TakeCString(b.mem, b.hostAlloc, call(p), hook, "return")
}

func hookFailed(s *Session, hook string, err error) {
	Logger().Warn("hook failed",
		zap.Uint32("handle", uint32(s.handle)),
		zap.String("hook", hook),
		zap.Error(err))
}

type completerTrampoline struct {
	b *Bridge
	s *Session
}

var _ editor.Completer = completerTrampoline{}

func (t completerTrampoline) Complete(line string, pos int) (int, []editor.Candidate, error) {
	hs := t.s.snapshot()
	if hs.completer == nil {
		if hs.fileCompleter {
			return (&helper.FileCompleter{}).Complete(line, pos)
		}
		return pos, nil, nil
	}

	start := int32(pos)
	out, ok, err := t.b.callHost("completer", line, func(p rlbridge.Ptr) rlbridge.Ptr {
		return hs.completer(hs.userData, p, int32(pos), &start)
	})
	if err != nil {
		hookFailed(t.s, "completer", err)
		return pos, nil, err
	}
	if !ok {
		return pos, nil, nil
	}

	words := marshal.SplitCandidates(out)
	cands := make([]editor.Candidate, len(words))
	for i, w := range words {
		cands[i] = editor.Candidate{Display: w, Replacement: w}
	}
	return int(min(max(start, 0), int32(pos))), cands, nil
}

type hinterTrampoline struct {
	s *Session
}

func (t hinterTrampoline) Hint(line string, pos int) (string, bool) {
	hs := t.s.snapshot()
	if !hs.fileCompleter && hs.hintHighlighter == nil {
		return "", false
	}
	return helper.HistoryHinter{History: t.s.ed.History()}.Hint(line, pos)
}

type highlighterTrampoline struct {
	b *Bridge
	s *Session
}

var _ editor.Highlighter = highlighterTrampoline{}

// replace returns the host's rendering of text, or text itself when the host
// declines or fails.
func (t highlighterTrampoline) replace(hook, text string, call func(rlbridge.Ptr) rlbridge.Ptr) string {
	out, ok, err := t.b.callHost(hook, text, call)
	if err != nil {
		hookFailed(t.s, hook, err)
		return text
	}
	if !ok {
		return text
	}
	return out
}

func (t highlighterTrampoline) Highlight(line string, pos int) string {
	hs := t.s.snapshot()
	if hs.highlighter == nil {
		return line
	}
	return t.replace("highlighter", line, func(p rlbridge.Ptr) rlbridge.Ptr {
		return hs.highlighter(hs.userData, p, int32(pos))
	})
}

func (t highlighterTrampoline) HighlightPrompt(prompt string, isDefault bool) string {
	hs := t.s.snapshot()
	if hs.promptHighlighter == nil {
		return prompt
	}
	return t.replace("prompt highlighter", prompt, func(p rlbridge.Ptr) rlbridge.Ptr {
		return hs.promptHighlighter(hs.userData, p, isDefault)
	})
}

func (t highlighterTrampoline) HighlightHint(hint string) string {
	hs := t.s.snapshot()
	if hs.hintHighlighter == nil {
		return hint
	}
	return t.replace("hint highlighter", hint, func(p rlbridge.Ptr) rlbridge.Ptr {
		return hs.hintHighlighter(hs.userData, p)
	})
}

func (t highlighterTrampoline) HighlightCandidate(candidate string, ct editor.CompletionType) string {
	hs := t.s.snapshot()
	if hs.candidateHighlighter == nil {
		return candidate
	}
	return t.replace("candidate highlighter", candidate, func(p rlbridge.Ptr) rlbridge.Ptr {
		return hs.candidateHighlighter(hs.userData, p, int32(ct))
	})
}

type validatorTrampoline struct {
	b *Bridge
	s *Session
}

var _ editor.Validator = validatorTrampoline{}

func (t validatorTrampoline) Validate(line string, pos int) editor.ValidationResult {
	hs := t.s.snapshot()
	if hs.validator == nil {
		return editor.ValidationResult{Kind: editor.Valid}
	}

	var (
		code int32
		msg  rlbridge.Ptr
	)
	_, _, err := t.b.callHost("validator", line, func(p rlbridge.Ptr) rlbridge.Ptr {
		code = hs.validator(hs.userData, p, int32(pos), &msg)
		return 0
	})
	if err != nil {
		hookFailed(t.s, "validator", err)
		return editor.ValidationResult{Kind: editor.Invalid}
	}

	var res editor.ValidationResult
	res.Message, _, err = marshal.TakeCString(t.b.mem, t.b.hostAlloc, msg, "validator", "message")
	if err != nil {
		hookFailed(t.s, "validator", err)
	}
	switch code {
	case ValidationValid:
		res.Kind = editor.Valid
	case ValidationIncomplete:
		res.Kind = editor.Incomplete
	case ValidationInvalid:
		res.Kind = editor.Invalid
	default:
		Logger().Warn("unknown validation result",
			zap.Uint32("handle", uint32(t.s.handle)),
			zap.Int32("code", code))
		res.Kind = editor.Invalid
	}
	return res
}

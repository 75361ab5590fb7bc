package main

/*
#include "rl_types.h"

static inline char *call_completer(CompleterCallback cb, void *ud, const char *line, int pos, int *out_start) {
    return cb(ud, line, pos, out_start);
}
static inline char *call_hint_highlighter(HintHighlighterCallback cb, void *ud, const char *hint) {
    return cb(ud, hint);
}
static inline char *call_prompt_highlighter(PromptHighlighterCallback cb, void *ud, const char *prompt, bool is_default) {
    return cb(ud, prompt, is_default);
}
static inline char *call_candidate_highlighter(CandidateHighlighterCallback cb, void *ud, const char *candidate, int completion_type) {
    return cb(ud, candidate, completion_type);
}
static inline char *call_highlighter(HighlighterCallback cb, void *ud, const char *line, int pos) {
    return cb(ud, line, pos);
}
static inline int call_validator(ValidatorCallback cb, void *ud, const char *line, int pos, char **out_message) {
    return cb(ud, line, pos, out_message);
}
*/
import "C"

import (
	"unsafe"

	"github.com/wippyai/rlbridge"
	"github.com/wippyai/rlbridge/bridge"
)

func cstr(p rlbridge.Ptr) *C.char { return (*C.char)(addr(p)) }

func ret(s *C.char) rlbridge.Ptr { return rlbridge.Ptr(uintptr(unsafe.Pointer(s))) }

func completer(cb C.CompleterCallback) bridge.CompleterFunc {
	if cb == nil {
		return nil
	}
	return func(ud, line rlbridge.Ptr, pos int32, outStart *int32) rlbridge.Ptr {
		start := C.int(*outStart)
		r := C.call_completer(cb, addr(ud), cstr(line), C.int(pos), &start)
		*outStart = int32(start)
		return ret(r)
	}
}

func hintHighlighter(cb C.HintHighlighterCallback) bridge.HintHighlighterFunc {
	if cb == nil {
		return nil
	}
	return func(ud, hint rlbridge.Ptr) rlbridge.Ptr {
		return ret(C.call_hint_highlighter(cb, addr(ud), cstr(hint)))
	}
}

func promptHighlighter(cb C.PromptHighlighterCallback) bridge.PromptHighlighterFunc {
	if cb == nil {
		return nil
	}
	return func(ud, prompt rlbridge.Ptr, isDefault bool) rlbridge.Ptr {
		return ret(C.call_prompt_highlighter(cb, addr(ud), cstr(prompt), C.bool(isDefault)))
	}
}

func candidateHighlighter(cb C.CandidateHighlighterCallback) bridge.CandidateHighlighterFunc {
	if cb == nil {
		return nil
	}
	return func(ud, candidate rlbridge.Ptr, ct int32) rlbridge.Ptr {
		return ret(C.call_candidate_highlighter(cb, addr(ud), cstr(candidate), C.int(ct)))
	}
}

func highlighter(cb C.HighlighterCallback) bridge.HighlighterFunc {
	if cb == nil {
		return nil
	}
	return func(ud, line rlbridge.Ptr, pos int32) rlbridge.Ptr {
		return ret(C.call_highlighter(cb, addr(ud), cstr(line), C.int(pos)))
	}
}

func validator(cb C.ValidatorCallback) bridge.ValidatorFunc {
	if cb == nil {
		return nil
	}
	return func(ud, line rlbridge.Ptr, pos int32, outMessage *rlbridge.Ptr) int32 {
		var msg *C.char
		code := C.call_validator(cb, addr(ud), cstr(line), C.int(pos), &msg)
		*outMessage = ret(msg)
		return int32(code)
	}
}

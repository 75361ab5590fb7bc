// Command librl builds the line editor as a C shared library.
//
//	go build -buildmode=c-shared -o librl.so ./cmd/librl
//
// Hosts include rl.h. Set RLBRIDGE_LOG to debug, info, warn or error to log
// to stderr.
package main

/*
#include "rl_types.h"
*/
import "C"

import (
	"fmt"
	"os"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/rlbridge"
	"github.com/wippyai/rlbridge/bridge"
	"github.com/wippyai/rlbridge/editor"
	"github.com/wippyai/rlbridge/resource"
)

var lib *bridge.Bridge

func init() {
	checkLayout()
	if level := os.Getenv("RLBRIDGE_LOG"); level != "" {
		if l, err := newLogger(level); err != nil {
			fmt.Fprintf(os.Stderr, "librl: RLBRIDGE_LOG: %v\n", err)
		} else {
			bridge.SetLogger(l)
			editor.SetLogger(l)
		}
	}
	lib = bridge.NewWithDefaults(cHeap{}, cHeap{})
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	return cfg.Build()
}

// checkLayout panics when the C records disagree with the offsets the
// bridge reads and writes.
func checkLayout() {
	var cfg C.EditorConfig
	var res C.ReadLineResult
	checks := []struct {
		name      string
		got, want uintptr
	}{
		{"sizeof(EditorConfig)", unsafe.Sizeof(cfg), bridge.ConfigRecordSize},
		{"EditorConfig.history_ignore_space", unsafe.Offsetof(cfg.history_ignore_space), uintptr(bridge.OffHistoryIgnoreSpace)},
		{"EditorConfig.completion_prompt_limit", unsafe.Offsetof(cfg.completion_prompt_limit), uintptr(bridge.OffCompletionPromptLimit)},
		{"EditorConfig.behavior", unsafe.Offsetof(cfg.behavior), uintptr(bridge.OffBehavior)},
		{"EditorConfig.tab_stop", unsafe.Offsetof(cfg.tab_stop), uintptr(bridge.OffTabStop)},
		{"EditorConfig.enable_signals", unsafe.Offsetof(cfg.enable_signals), uintptr(bridge.OffEnableSignals)},
		{"sizeof(ReadLineResult)", unsafe.Sizeof(res), uintptr(bridge.EnvelopeSize)},
		{"ReadLineResult.error_message", unsafe.Offsetof(res.error_message), uintptr(bridge.EnvelopeMessageOffset)},
		{"ReadLineResult.result", unsafe.Offsetof(res.result), uintptr(bridge.EnvelopeResultOffset)},
	}
	for _, c := range checks {
		if c.got != c.want {
			panic(fmt.Sprintf("librl: %s is %d, bridge expects %d", c.name, c.got, c.want))
		}
	}
}

func ptr(p unsafe.Pointer) rlbridge.Ptr { return rlbridge.Ptr(uintptr(p)) }

func envelope(p rlbridge.Ptr) *C.ReadLineResult {
	return (*C.ReadLineResult)(addr(p))
}

func handle(h C.rl_editor) resource.Handle { return resource.Handle(h) }

// create starts a session. A non-zero out receives the error envelope, or
// NULL when the session was created.
func create(b *bridge.Bridge, mem rlbridge.Memory, cfg, out rlbridge.Ptr) resource.Handle {
	h, env := b.Create(cfg)
	if out == 0 {
		if env != 0 {
			b.ReleaseEnvelope(env)
		}
		return h
	}
	if err := mem.WritePtr(out, env); err != nil {
		bridge.Logger().Warn("store create error", zap.Error(err))
		if env != 0 {
			b.ReleaseEnvelope(env)
		}
	}
	return h
}

//export new_default_editor
func new_default_editor(outError **C.ReadLineResult) C.rl_editor {
	return C.rl_editor(create(lib, cHeap{}, 0, ptr(unsafe.Pointer(outError))))
}

//export new_editor_with_config
func new_editor_with_config(cfg *C.EditorConfig, outError **C.ReadLineResult) C.rl_editor {
	return C.rl_editor(create(lib, cHeap{}, ptr(unsafe.Pointer(cfg)), ptr(unsafe.Pointer(outError))))
}

//export free_editor
func free_editor(h C.rl_editor) {
	lib.Release(handle(h))
}

//export editor_read_line
func editor_read_line(h C.rl_editor, prompt *C.char) *C.ReadLineResult {
	return envelope(lib.ReadLine(handle(h), ptr(unsafe.Pointer(prompt))))
}

//export editor_load_history
func editor_load_history(h C.rl_editor, path *C.char) *C.ReadLineResult {
	return envelope(lib.LoadHistory(handle(h), ptr(unsafe.Pointer(path))))
}

//export editor_save_history
func editor_save_history(h C.rl_editor, path *C.char) *C.ReadLineResult {
	return envelope(lib.SaveHistory(handle(h), ptr(unsafe.Pointer(path))))
}

//export editor_clear_history
func editor_clear_history(h C.rl_editor) *C.ReadLineResult {
	return envelope(lib.ClearHistory(handle(h)))
}

//export editor_add_history_entry
func editor_add_history_entry(h C.rl_editor, entry *C.char) {
	lib.AddHistoryEntry(handle(h), ptr(unsafe.Pointer(entry)))
}

//export editor_set_completer
func editor_set_completer(h C.rl_editor, cb C.CompleterCallback, userData unsafe.Pointer) {
	lib.SetCompleter(handle(h), completer(cb), ptr(userData))
}

//export editor_set_hint_highlighter
func editor_set_hint_highlighter(h C.rl_editor, cb C.HintHighlighterCallback, userData unsafe.Pointer) {
	lib.SetHintHighlighter(handle(h), hintHighlighter(cb), ptr(userData))
}

//export editor_set_prompt_highlighter
func editor_set_prompt_highlighter(h C.rl_editor, cb C.PromptHighlighterCallback, userData unsafe.Pointer) {
	lib.SetPromptHighlighter(handle(h), promptHighlighter(cb), ptr(userData))
}

//export editor_set_candidate_highlighter
func editor_set_candidate_highlighter(h C.rl_editor, cb C.CandidateHighlighterCallback, userData unsafe.Pointer) {
	lib.SetCandidateHighlighter(handle(h), candidateHighlighter(cb), ptr(userData))
}

//export editor_set_highlighter
func editor_set_highlighter(h C.rl_editor, cb C.HighlighterCallback, userData unsafe.Pointer) {
	lib.SetHighlighter(handle(h), highlighter(cb), ptr(userData))
}

//export editor_set_validator
func editor_set_validator(h C.rl_editor, cb C.ValidatorCallback, userData unsafe.Pointer) {
	lib.SetValidator(handle(h), validator(cb), ptr(userData))
}

//export editor_use_file_completer
func editor_use_file_completer(h C.rl_editor) {
	lib.UseFileCompleter(handle(h))
}

//export editor_set_validate_while_typing
func editor_set_validate_while_typing(h C.rl_editor, enabled C.bool) {
	lib.SetValidateWhileTyping(handle(h), bool(enabled))
}

//export editor_set_auto_add_history
func editor_set_auto_add_history(h C.rl_editor, enabled C.bool) {
	lib.SetAutoAddHistory(handle(h), bool(enabled))
}

//export editor_set_color_mode
func editor_set_color_mode(h C.rl_editor, mode C.int) *C.ReadLineResult {
	return envelope(lib.SetColorMode(handle(h), int32(mode)))
}

//export editor_clear_screen
func editor_clear_screen(h C.rl_editor) *C.ReadLineResult {
	return envelope(lib.ClearScreen(handle(h)))
}

//export editor_set_cursor_visibility
func editor_set_cursor_visibility(h C.rl_editor, visible C.bool) *C.ReadLineResult {
	return envelope(lib.SetCursorVisibility(handle(h), bool(visible)))
}

//export free_read_line_result
func free_read_line_result(r *C.ReadLineResult) {
	lib.ReleaseEnvelope(ptr(unsafe.Pointer(r)))
}

func main() {}

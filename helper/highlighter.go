package helper

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rivo/uniseg"

	"github.com/wippyai/rlbridge/editor"
)

// SimpleHighlighter colours hints grey, prompts green and candidates cyan
// with basic ANSI colours. The edited line is left as typed.
type SimpleHighlighter struct {
	hint      lipgloss.Style
	prompt    lipgloss.Style
	candidate lipgloss.Style
}

var _ editor.Highlighter = (*SimpleHighlighter)(nil)

// NewSimpleHighlighter returns a highlighter that always emits 16-colour ANSI
// sequences. Whether they are shown is decided by the editor's colour mode.
func NewSimpleHighlighter() *SimpleHighlighter {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI)
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return &SimpleHighlighter{
		hint:      base.Foreground(lipgloss.Color("8")),
		prompt:    base.Foreground(lipgloss.Color("2")),
		candidate: base.Foreground(lipgloss.Color("6")),
	}
}

func (h *SimpleHighlighter) Highlight(line string, _ int) string { return line }

func (h *SimpleHighlighter) HighlightPrompt(prompt string, _ bool) string {
	return h.prompt.Render(prompt)
}

func (h *SimpleHighlighter) HighlightHint(hint string) string {
	return h.hint.Render(hint)
}

func (h *SimpleHighlighter) HighlightCandidate(candidate string, _ editor.CompletionType) string {
	return h.candidate.Render(candidate)
}

// PasswordHighlighter masks every displayed cell of the line with '*'.
type PasswordHighlighter struct {
	editor.NopHighlighter
}

var _ editor.Highlighter = PasswordHighlighter{}

func (PasswordHighlighter) Highlight(line string, _ int) string {
	return strings.Repeat("*", uniseg.StringWidth(line))
}

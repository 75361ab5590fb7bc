package editor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"
)

// screenPos is a cell position relative to the first prompt row.
type screenPos struct {
	row, col int
	// wrapped is set when the last cell written filled the row.
	wrapped bool
}

// layout advances p over text as the terminal would. Escape sequences take no
// space. Tabs advance to the next tab stop. It returns the end position and
// text with tabs expanded to spaces.
func layout(p screenPos, text string, cols, tabStop int) (screenPos, string) {
	if cols <= 0 {
		cols = 80
	}
	if tabStop <= 0 {
		tabStop = 8
	}
	var out strings.Builder
	rest := ansi.Strip(text)
	state := -1
	var cluster string
	var width int
	for len(rest) > 0 {
		cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)
		switch cluster {
		case "\n", "\r\n":
			p.row++
			p.col = 0
			p.wrapped = false
			out.WriteByte('\n')
			continue
		case "\t":
			n := tabStop - p.col%tabStop
			for i := 0; i < n; i++ {
				p = advanceCell(p, 1, cols)
				out.WriteByte(' ')
			}
			continue
		}
		p = advanceCell(p, width, cols)
		out.WriteString(cluster)
	}
	return p, out.String()
}

// layoutStyled is layout for highlighter output. Escape sequences are copied
// through unchanged and tabs in the text between them are expanded.
func layoutStyled(p screenPos, text string, cols, tabStop int) (screenPos, string) {
	var out strings.Builder
	for text != "" {
		i := strings.IndexByte(text, '\x1b')
		if i == 0 {
			n := escapeLen(text)
			out.WriteString(text[:n])
			text = text[n:]
			continue
		}
		if i < 0 {
			i = len(text)
		}
		var seg string
		p, seg = layout(p, text[:i], cols, tabStop)
		out.WriteString(seg)
		text = text[i:]
	}
	return p, out.String()
}

// escapeLen returns the length of the escape sequence at the start of s.
func escapeLen(s string) int {
	if len(s) < 2 {
		return len(s)
	}
	switch s[1] {
	case '[':
		for i := 2; i < len(s); i++ {
			if s[i] >= 0x40 && s[i] <= 0x7e {
				return i + 1
			}
		}
		return len(s)
	case ']', 'P', '_', '^':
		for i := 2; i < len(s); i++ {
			if s[i] == '\a' {
				return i + 1
			}
			if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '\\' {
				return i + 2
			}
		}
		return len(s)
	}
	return 2
}

func advanceCell(p screenPos, w, cols int) screenPos {
	if p.col+w > cols {
		p.row++
		p.col = 0
	}
	p.col += w
	p.wrapped = false
	if p.col >= cols {
		p.row++
		p.col = 0
		p.wrapped = true
	}
	return p
}

// crlf converts line feeds for a terminal with output post-processing off.
func crlf(s string) string {
	if !strings.Contains(s, "\n") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}

// refresh redraws prompt, line, hint and message, then places the cursor.
func (e *Editor) refresh(s *readState) error {
	cols := e.width()
	tab := e.cfg.TabStop
	hl := e.activeHighlighter()

	line := s.buf.String()
	bytePos := s.buf.BytePos()

	promptEnd, _ := layout(screenPos{}, s.prompt, cols, tab)
	cursor, _ := layout(promptEnd, line[:bytePos], cols, tab)
	lineEnd, plainLine := layout(promptEnd, line, cols, tab)
	end := lineEnd

	promptOut := s.prompt
	lineOut := plainLine
	if hl != nil {
		_, promptOut = layoutStyled(screenPos{}, hl.HighlightPrompt(s.prompt, true), cols, tab)
		_, lineOut = layoutStyled(promptEnd, e.highlightLine(hl, s, line, bytePos), cols, tab)
	}

	var hintOut string
	if s.hint != "" && s.buf.pos == s.buf.Len() {
		var plainHint string
		end, plainHint = layout(lineEnd, s.hint, cols, tab)
		hintOut = plainHint
		if hl != nil {
			_, hintOut = layoutStyled(lineEnd, hl.HighlightHint(s.hint), cols, tab)
		}
	}

	var b bytes.Buffer
	if e.cfg.EnableSynchronizedOutput {
		b.WriteString("\x1b[?2026h")
	}
	if s.cursorRow > 0 {
		fmt.Fprintf(&b, "\x1b[%dA", s.cursorRow)
	}
	b.WriteString("\r\x1b[J")
	b.WriteString(crlf(promptOut))
	b.WriteString(crlf(lineOut))
	b.WriteString(crlf(hintOut))
	if end.wrapped {
		b.WriteString("\r\n")
	}
	if s.msg != "" {
		if !end.wrapped {
			b.WriteString("\r\n")
			end = screenPos{row: end.row + 1}
		}
		var plainMsg string
		end, plainMsg = layout(end, s.msg, cols, tab)
		b.WriteString(crlf(plainMsg))
		if end.wrapped {
			b.WriteString("\r\n")
		}
	}

	if up := end.row - cursor.row; up > 0 {
		fmt.Fprintf(&b, "\x1b[%dA", up)
	}
	b.WriteByte('\r')
	if cursor.col > 0 {
		fmt.Fprintf(&b, "\x1b[%dC", cursor.col)
	}
	if e.cfg.EnableSynchronizedOutput {
		b.WriteString("\x1b[?2026l")
	}

	s.cursorRow = cursor.row
	s.rows = end.row
	_, err := e.out.Write(b.Bytes())
	return err
}

func (e *Editor) highlightLine(hl Highlighter, s *readState, line string, bytePos int) string {
	c := s.cycle
	if c == nil || c.idx >= len(c.candidates) {
		return hl.Highlight(line, bytePos)
	}
	repl := []rune(c.candidates[c.idx].Replacement)
	before := string(s.buf.buf[:c.start])
	after := string(s.buf.buf[c.start+len(repl):])
	return before + hl.HighlightCandidate(string(repl), Circular) + after
}

// moveBelow leaves the cursor on a fresh row under the rendered input.
func (e *Editor) moveBelow(s *readState) error {
	var b bytes.Buffer
	if down := s.rows - s.cursorRow; down > 0 {
		fmt.Fprintf(&b, "\x1b[%dB", down)
	}
	b.WriteString("\r\n")
	s.rows = 0
	s.cursorRow = 0
	_, err := e.out.Write(b.Bytes())
	return err
}

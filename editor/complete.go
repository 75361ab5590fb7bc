package editor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"
)

// cycleState tracks circular completion between Tab presses.
type cycleState struct {
	original   []rune
	origPos    int
	start      int
	candidates []Candidate
	// idx == len(candidates) shows the original line.
	idx int
}

func (c *cycleState) apply(b *lineBuffer) {
	b.buf = append(b.buf[:0], c.original...)
	b.pos = c.origPos
	if c.idx < len(c.candidates) {
		b.Replace(c.start, c.origPos, c.candidates[c.idx].Replacement)
	}
}

// complete runs the completer for the text before the cursor.
func (e *Editor) complete(s *readState, keys *keyReader) error {
	if e.completer == nil {
		e.bell()
		return nil
	}
	line := s.buf.String()
	pos := s.buf.BytePos()
	start, cands, err := e.completer.Complete(line, pos)
	if err != nil {
		Logger().Debug("completion failed", zap.Error(err))
		e.bell()
		return nil
	}
	if len(cands) == 0 {
		e.bell()
		return nil
	}
	if start < 0 || start > pos {
		start = pos
	}
	startRune := s.buf.runeIndex(start)

	if len(cands) == 1 {
		s.buf.Replace(startRune, s.buf.pos, cands[0].Replacement)
		return nil
	}
	if e.cfg.CompletionType == Circular {
		s.cycle = &cycleState{
			original:   append([]rune(nil), s.buf.buf...),
			origPos:    s.buf.pos,
			start:      startRune,
			candidates: cands,
		}
		s.cycle.apply(&s.buf)
		return nil
	}
	return e.completeList(s, keys, startRune, cands)
}

// cycleKey handles a key while circular completion is active and reports
// whether it was consumed.
func (e *Editor) cycleKey(s *readState, key Key) bool {
	c := s.cycle
	n := len(c.candidates) + 1
	switch key.Code {
	case KeyTab:
		c.idx = (c.idx + 1) % n
	case KeyBackTab:
		c.idx = (c.idx + n - 1) % n
	case KeyEsc:
		c.idx = len(c.candidates)
		c.apply(&s.buf)
		s.cycle = nil
		return true
	default:
		s.cycle = nil
		return false
	}
	if c.idx == len(c.candidates) {
		e.bell()
	}
	c.apply(&s.buf)
	return true
}

func (e *Editor) completeList(s *readState, keys *keyReader, start int, cands []Candidate) error {
	replacements := make([]string, len(cands))
	for i, c := range cands {
		replacements[i] = c.Replacement
	}
	prefix := longestCommonPrefix(replacements)
	word := string(s.buf.buf[start:s.buf.pos])
	if len(prefix) > len(word) && strings.HasPrefix(prefix, word) {
		s.buf.Replace(start, s.buf.pos, prefix)
		if !e.cfg.CompletionShowAllIfAmbiguous {
			return nil
		}
	} else if !e.cfg.CompletionShowAllIfAmbiguous && !s.prevTab {
		e.bell()
		return nil
	}

	if err := e.moveBelow(s); err != nil {
		return err
	}
	if limit := e.cfg.CompletionPromptLimit; limit > 0 && len(cands) > limit {
		ok, err := e.confirm(keys, fmt.Sprintf("Display all %d possibilities? (y or n)", len(cands)))
		if err != nil || !ok {
			return err
		}
	}
	_, err := e.out.Write([]byte(e.candidateGrid(cands)))
	return err
}

func (e *Editor) confirm(keys *keyReader, question string) (bool, error) {
	if _, err := e.out.Write([]byte(question)); err != nil {
		return false, err
	}
	for {
		k, err := keys.ReadKey()
		if err != nil {
			return false, err
		}
		var yes bool
		switch {
		case k.Code == KeyRune && (k.Rune == 'y' || k.Rune == 'Y' || k.Rune == ' '):
			yes = true
		case k.Code == KeyRune && (k.Rune == 'n' || k.Rune == 'N' || k.Rune == 'q'),
			k.Code == KeyEsc, k.Code == KeyCtrl && (k.Rune == 'c' || k.Rune == 'g'):
		default:
			continue
		}
		_, err = e.out.Write([]byte("\r\n"))
		return yes, err
	}
}

// candidateGrid lays candidates out column-major to fit the terminal width.
func (e *Editor) candidateGrid(cands []Candidate) string {
	hl := e.activeHighlighter()
	maxWidth := 0
	for _, c := range cands {
		maxWidth = max(maxWidth, ansi.StringWidth(c.Display))
	}
	colWidth := maxWidth + 2
	ncols := max(1, e.width()/colWidth)
	nrows := (len(cands) + ncols - 1) / ncols

	cell := lipgloss.NewStyle().Width(colWidth)
	var b strings.Builder
	for r := 0; r < nrows; r++ {
		cells := make([]string, 0, ncols)
		for c := 0; c < ncols; c++ {
			i := c*nrows + r
			if i >= len(cands) {
				break
			}
			text := cands[i].Display
			if hl != nil {
				text = hl.HighlightCandidate(text, List)
			}
			cells = append(cells, cell.Render(text))
		}
		b.WriteString(strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, cells...), " "))
		b.WriteString("\r\n")
	}
	return b.String()
}

func longestCommonPrefix(items []string) string {
	if len(items) == 0 {
		return ""
	}
	prefix := items[0]
	for _, s := range items[1:] {
		for !strings.HasPrefix(s, prefix) {
			_, size := utf8.DecodeLastRuneInString(prefix)
			prefix = prefix[:len(prefix)-size]
		}
	}
	return prefix
}

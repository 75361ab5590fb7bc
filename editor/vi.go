package editor

// viState is the modal state of vi editing.
type viState struct {
	normal bool
	// pending is an operator (d, c, >, <) waiting for its motion.
	pending rune
}

func (e *Editor) enterViNormal(s *readState) {
	s.vi.normal = true
	s.vi.pending = 0
	s.buf.Left()
}

func (e *Editor) enterViInsert(s *readState) {
	s.vi.normal = false
	s.vi.pending = 0
}

// clampNormal keeps the cursor on a character, as normal mode requires.
func clampNormal(b *lineBuffer) {
	if b.pos > 0 && b.pos >= b.Len() {
		b.pos = b.Len() - 1
	}
}

// viMotion returns the target of a motion key from the cursor.
func viMotion(b *lineBuffer, r rune) (int, bool) {
	switch r {
	case 'h':
		return max(b.pos-1, b.lineStart()), true
	case 'l':
		return min(b.pos+1, b.lineEnd()), true
	case '0':
		return b.lineStart(), true
	case '^':
		return b.firstNonBlank(), true
	case '$':
		return b.lineEnd(), true
	case 'w':
		return b.nextWordStart(b.pos), true
	case 'b':
		return b.wordStartBefore(b.pos), true
	case 'e':
		if b.pos+1 >= b.Len() {
			return b.Len(), true
		}
		return b.wordEndAfter(b.pos + 1), true
	}
	return 0, false
}

// viCommand handles a key in normal mode.
func (e *Editor) viCommand(s *readState, key Key) (bool, error) {
	b := &s.buf
	switch key.Code {
	case KeyEnter:
		return e.accept(s)
	case KeyCtrl:
		return e.controlKey(s, key)
	case KeyLeft:
		b.Left()
	case KeyRight:
		b.Right()
	case KeyHome:
		b.Home()
	case KeyEnd:
		b.End()
	case KeyUp:
		e.historyMove(s, -1)
	case KeyDown:
		e.historyMove(s, 1)
	case KeyEsc:
		s.vi.pending = 0
	case KeyRune:
		if s.vi.pending != 0 {
			e.viOperator(s, key.Rune)
			break
		}
		e.viKey(s, key.Rune)
	default:
		e.bell()
	}
	if s.vi.normal {
		clampNormal(b)
	}
	return false, nil
}

func (e *Editor) viKey(s *readState, r rune) {
	b := &s.buf
	if target, ok := viMotion(b, r); ok {
		if r == 'e' && target > b.pos+1 {
			target--
		}
		b.pos = target
		return
	}
	switch r {
	case 'x':
		e.kill(b.Delete(b.pos, b.pos+1))
	case 'X':
		e.kill(b.Delete(b.pos-1, b.pos))
	case 'i':
		e.enterViInsert(s)
	case 'a':
		b.Right()
		e.enterViInsert(s)
	case 'I':
		b.pos = b.firstNonBlank()
		e.enterViInsert(s)
	case 'A':
		b.End()
		e.enterViInsert(s)
	case 'D':
		e.kill(b.KillToEnd())
	case 'C':
		e.kill(b.KillToEnd())
		e.enterViInsert(s)
	case 'S':
		e.kill(b.Delete(b.lineStart(), b.lineEnd()))
		e.enterViInsert(s)
	case 'd', 'c', '>', '<':
		s.vi.pending = r
	case 'j', '+':
		e.historyMove(s, 1)
	case 'k', '-':
		e.historyMove(s, -1)
	case 'p':
		if e.yank == "" {
			e.bell()
			return
		}
		b.Right()
		b.InsertString(e.yank)
		b.Left()
	case 'P':
		if e.yank == "" {
			e.bell()
			return
		}
		b.InsertString(e.yank)
		b.Left()
	default:
		e.bell()
	}
}

func (e *Editor) viOperator(s *readState, r rune) {
	b := &s.buf
	op := s.vi.pending
	s.vi.pending = 0

	if r == op {
		switch op {
		case 'd':
			e.kill(b.Delete(b.lineStart(), b.lineEnd()))
		case 'c':
			e.kill(b.Delete(b.lineStart(), b.lineEnd()))
			e.enterViInsert(s)
		case '>':
			b.Indent(e.cfg.IndentSize)
		case '<':
			b.Dedent(e.cfg.IndentSize)
		}
		return
	}
	if op != 'd' && op != 'c' {
		e.bell()
		return
	}
	target, ok := viMotion(b, r)
	if !ok {
		e.bell()
		return
	}
	if op == 'c' && r == 'w' {
		// cw changes to the end of the word, like ce.
		target = b.wordEndAfter(b.pos)
	}
	from, to := b.pos, target
	if to < from {
		from, to = to, from
	}
	e.kill(b.Delete(from, to))
	if op == 'c' {
		e.enterViInsert(s)
	}
}

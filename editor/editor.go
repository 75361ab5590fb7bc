package editor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// readState is the per-call editing state.
type readState struct {
	prompt string
	buf    lineBuffer
	hint   string
	msg    string

	// cursorRow and rows describe the last render, relative to the prompt row.
	cursorRow int
	rows      int

	histIdx int
	scratch string

	cycle   *cycleState
	prevTab bool
	vi      viState
}

// Editor reads lines with editing, history and completion. An Editor is not
// safe for concurrent use.
type Editor struct {
	cfg     Config
	history *History

	in      *bufio.Reader
	out     io.Writer
	inFile  *os.File
	outFile *os.File
	tty     *os.File

	interactive *bool
	cols        int

	completer   Completer
	hinter      Hinter
	highlighter Highlighter
	validator   Validator

	autoAdd       bool
	validateTyped bool
	colorMode     ColorMode
	yank          string
}

// Option configures an Editor.
type Option func(*Editor)

// WithIO reads input from r and writes output to w instead of the streams
// selected by Config.Behavior.
func WithIO(r io.Reader, w io.Writer) Option {
	return func(e *Editor) {
		e.setInput(r)
		e.setOutput(w)
	}
}

// WithInteractive forces key-by-key editing on or off. By default editing is
// interactive when input is a terminal.
func WithInteractive(on bool) Option {
	return func(e *Editor) {
		e.interactive = &on
	}
}

// WithWidth sets the width used when output is not a terminal.
func WithWidth(cols int) Option {
	return func(e *Editor) {
		if cols > 0 {
			e.cols = cols
		}
	}
}

// New creates an editor. Invalid configuration is an error.
func New(cfg Config, opts ...Option) (*Editor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("editor: invalid config: %w", err)
	}
	e := &Editor{
		cfg:       cfg,
		history:   NewHistory(cfg.MaxHistorySize, cfg.HistoryDuplicates, cfg.HistoryIgnoreSpace),
		cols:      80,
		autoAdd:   cfg.AutoAddHistory,
		colorMode: cfg.ColorMode,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.in == nil && cfg.Behavior == PreferTerm {
		tty, err := openTTY()
		if err != nil {
			Logger().Debug("no controlling terminal, using stdio", zap.Error(err))
		} else {
			e.tty = tty
			e.setInput(tty)
			e.setOutput(tty)
		}
	}
	if e.in == nil {
		e.setInput(os.Stdin)
	}
	if e.out == nil {
		e.setOutput(os.Stdout)
	}

	Logger().Debug("editor created",
		zap.Stringer("edit_mode", cfg.EditMode),
		zap.Stringer("completion", cfg.CompletionType),
		zap.Bool("interactive", e.isInteractive()))
	return e, nil
}

func (e *Editor) setInput(r io.Reader) {
	e.in = bufio.NewReader(r)
	e.inFile, _ = r.(*os.File)
}

func (e *Editor) setOutput(w io.Writer) {
	e.out = w
	e.outFile, _ = w.(*os.File)
}

func (e *Editor) isInteractive() bool {
	if e.interactive != nil {
		return *e.interactive
	}
	return isTerminal(e.inFile)
}

// Config returns the configuration the editor was created with, with the
// current auto-add and colour settings.
func (e *Editor) Config() Config {
	cfg := e.cfg
	cfg.AutoAddHistory = e.autoAdd
	cfg.ColorMode = e.colorMode
	return cfg
}

// History returns the editor's history.
func (e *Editor) History() *History { return e.history }

func (e *Editor) SetCompleter(c Completer)     { e.completer = c }
func (e *Editor) SetHinter(h Hinter)           { e.hinter = h }
func (e *Editor) SetHighlighter(h Highlighter) { e.highlighter = h }
func (e *Editor) SetValidator(v Validator)     { e.validator = v }

// SetAutoAddHistory controls whether accepted lines are added to history.
func (e *Editor) SetAutoAddHistory(on bool) { e.autoAdd = on }

// SetValidateWhileTyping runs the validator after every edit and shows the
// message of an invalid line under it.
func (e *Editor) SetValidateWhileTyping(on bool) { e.validateTyped = on }

// SetColorMode changes when highlighting applies.
func (e *Editor) SetColorMode(m ColorMode) error {
	if !m.Valid() {
		return fmt.Errorf("editor: invalid color mode %s", m)
	}
	e.colorMode = m
	return nil
}

// AddHistoryEntry adds line to history and reports whether it was stored.
func (e *Editor) AddHistoryEntry(line string) bool {
	return e.history.Add(line)
}

// LoadHistory appends entries from path. A missing file loads nothing.
func (e *Editor) LoadHistory(path string) error {
	if err := e.history.Load(path); err != nil {
		return fmt.Errorf("load history %s: %w", path, err)
	}
	return nil
}

// SaveHistory writes all entries to path.
func (e *Editor) SaveHistory(path string) error {
	if err := e.history.Save(path); err != nil {
		return fmt.Errorf("save history %s: %w", path, err)
	}
	return nil
}

// ClearHistory removes every entry.
func (e *Editor) ClearHistory() error {
	e.history.Clear()
	return nil
}

// ClearScreen clears the terminal. It does nothing when not interactive.
func (e *Editor) ClearScreen() error {
	if !e.isInteractive() {
		return nil
	}
	_, err := io.WriteString(e.out, "\x1b[H\x1b[2J")
	return err
}

// SetCursorVisibility shows or hides the terminal cursor. It does nothing
// when not interactive.
func (e *Editor) SetCursorVisibility(visible bool) error {
	if !e.isInteractive() {
		return nil
	}
	seq := "\x1b[?25l"
	if visible {
		seq = "\x1b[?25h"
	}
	_, err := io.WriteString(e.out, seq)
	return err
}

// Close releases the terminal device opened for PreferTerm.
func (e *Editor) Close() error {
	if e.tty == nil {
		return nil
	}
	err := e.tty.Close()
	e.tty = nil
	return err
}

// ReadLine shows prompt and returns the accepted line without its line
// terminator. It returns ErrEOF when input ends on an empty line and
// ErrInterrupted on Ctrl-C.
func (e *Editor) ReadLine(prompt string) (string, error) {
	var (
		line string
		err  error
	)
	if e.isInteractive() {
		line, err = e.readInteractive(prompt)
	} else {
		line, err = e.readPlain(prompt)
	}
	if err == nil && e.autoAdd {
		e.history.Add(line)
	}
	return line, err
}

// readPlain reads one line from a stream that is not edited key by key.
func (e *Editor) readPlain(prompt string) (string, error) {
	if _, err := io.WriteString(e.out, prompt); err != nil {
		return "", err
	}
	var acc strings.Builder
	for {
		s, err := e.in.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}
		eof := err == io.EOF
		if eof && s == "" {
			if acc.Len() == 0 {
				return "", ErrEOF
			}
			return e.validateLast(strings.TrimSuffix(acc.String(), "\n"))
		}
		s = strings.TrimSuffix(s, "\n")
		s = strings.TrimSuffix(s, "\r")
		acc.WriteString(s)
		line := acc.String()
		if e.validator == nil {
			return line, nil
		}
		if eof {
			return e.validateLast(line)
		}

		res := e.validator.Validate(line, len(line))
		switch res.Kind {
		case Incomplete:
			acc.WriteByte('\n')
			continue
		case Invalid:
			acc.Reset()
			if res.Message != "" {
				io.WriteString(e.out, res.Message+"\n")
			}
			if _, err := io.WriteString(e.out, prompt); err != nil {
				return "", err
			}
			continue
		}
		if res.Message != "" {
			io.WriteString(e.out, res.Message+"\n")
		}
		return line, nil
	}
}

// validateLast checks a line cut short by end of input. There is nothing
// left to read, so an incomplete or invalid line ends input with ErrEOF.
func (e *Editor) validateLast(line string) (string, error) {
	if e.validator == nil {
		return line, nil
	}
	res := e.validator.Validate(line, len(line))
	if res.Message != "" {
		io.WriteString(e.out, res.Message+"\n")
	}
	if res.Kind != Valid {
		return "", ErrEOF
	}
	return line, nil
}

func (e *Editor) readInteractive(prompt string) (string, error) {
	restore, err := e.enterRaw()
	if err != nil {
		return "", fmt.Errorf("editor: enter raw mode: %w", err)
	}
	defer restore()

	if e.cfg.EnableBracketedPaste {
		io.WriteString(e.out, "\x1b[?2004h")
		defer io.WriteString(e.out, "\x1b[?2004l")
	}

	meta := e.cfg.EditMode == Emacs && e.cfg.KeySeqTimeout != 0
	keys := newKeyReader(e.in, meta)
	if e.cfg.CheckCursorPosition && isTerminal(e.inFile) {
		if err := e.ensureColumnZero(keys); err != nil {
			return "", err
		}
	}

	s := &readState{prompt: prompt, histIdx: e.history.Len()}
	if err := e.refresh(s); err != nil {
		return "", err
	}
	for {
		key, err := keys.ReadKey()
		if err != nil {
			if err != io.EOF {
				return "", err
			}
			if s.buf.Empty() {
				e.finish(s, "")
				return "", ErrEOF
			}
			line := s.buf.String()
			return line, e.finish(s, "")
		}

		s.msg = ""
		done, err := e.dispatch(s, keys, key)
		s.prevTab = key.Code == KeyTab
		if err != nil || done {
			return s.buf.String(), err
		}
		e.updateHint(s)
		if e.validateTyped && e.validator != nil && s.msg == "" {
			if res := e.validator.Validate(s.buf.String(), s.buf.BytePos()); res.Kind == Invalid {
				s.msg = res.Message
			}
		}
		if err := e.refresh(s); err != nil {
			return "", err
		}
	}
}

// ensureColumnZero starts a new row when the cursor is not in the first
// column, so the prompt is not drawn over earlier output.
func (e *Editor) ensureColumnZero(keys *keyReader) error {
	if _, err := io.WriteString(e.out, "\x1b[6n"); err != nil {
		return err
	}
	for {
		k, err := keys.ReadKey()
		if err != nil {
			return err
		}
		if k.Code != KeyCursorReport {
			continue
		}
		if k.Col > 1 {
			_, err = io.WriteString(e.out, "\r\n")
		}
		return err
	}
}

func (e *Editor) dispatch(s *readState, keys *keyReader, key Key) (bool, error) {
	if s.cycle != nil && e.cycleKey(s, key) {
		return false, nil
	}
	if e.cfg.EditMode == Vi && s.vi.normal {
		return e.viCommand(s, key)
	}

	b := &s.buf
	switch key.Code {
	case KeyRune:
		if key.Alt {
			e.metaKey(s, key.Rune)
			break
		}
		b.Insert(key.Rune)
	case KeyEnter:
		return e.accept(s)
	case KeyTab:
		return false, e.complete(s, keys)
	case KeyBackspace:
		if key.Alt {
			e.kill(b.KillWordBack())
		} else if !b.Backspace() {
			e.bell()
		}
	case KeyDelete:
		if !b.DeleteChar() {
			e.bell()
		}
	case KeyLeft:
		if key.Ctrl || key.Alt {
			b.WordLeft()
		} else {
			b.Left()
		}
	case KeyRight:
		if key.Ctrl || key.Alt {
			b.WordRight()
		} else if !e.acceptHint(s) {
			b.Right()
		}
	case KeyHome:
		b.Home()
	case KeyEnd:
		if !e.acceptHint(s) {
			b.End()
		}
	case KeyUp:
		e.historyMove(s, -1)
	case KeyDown:
		e.historyMove(s, 1)
	case KeyEsc:
		if e.cfg.EditMode == Vi {
			e.enterViNormal(s)
		}
	case KeyPasteStart:
		text, err := keys.readPaste()
		b.InsertString(text)
		if err != nil && err != io.EOF {
			return false, err
		}
	case KeyCtrl:
		return e.controlKey(s, key)
	}
	return false, nil
}

// controlKey handles Ctrl-letter keys shared by both edit modes.
func (e *Editor) controlKey(s *readState, key Key) (bool, error) {
	b := &s.buf
	switch key.Rune {
	case 'a':
		b.Home()
	case 'e':
		if !e.acceptHint(s) {
			b.End()
		}
	case 'b':
		b.Left()
	case 'f':
		if !e.acceptHint(s) {
			b.Right()
		}
	case 'd':
		if b.Empty() {
			e.finish(s, "")
			return true, ErrEOF
		}
		if !b.DeleteChar() {
			e.bell()
		}
	case 'c':
		e.finish(s, "")
		return true, ErrInterrupted
	case 'k':
		e.kill(b.KillToEnd())
	case 'u':
		e.kill(b.KillToStart())
	case 'w':
		e.kill(b.KillWordBack())
	case 'y':
		if e.yank == "" {
			e.bell()
			break
		}
		b.InsertString(e.yank)
	case 't':
		if !b.Transpose() {
			e.bell()
		}
	case 'l':
		if _, err := io.WriteString(e.out, "\x1b[H\x1b[2J"); err != nil {
			return false, err
		}
		s.cursorRow = 0
		s.rows = 0
	case 'p':
		e.historyMove(s, -1)
	case 'n':
		e.historyMove(s, 1)
	case 'g':
		e.bell()
	}
	return false, nil
}

func (e *Editor) metaKey(s *readState, r rune) {
	b := &s.buf
	switch r {
	case 'b', 'B':
		b.WordLeft()
	case 'f', 'F':
		if !e.acceptHint(s) {
			b.WordRight()
		}
	case 'd', 'D':
		e.kill(b.KillWordForward())
	default:
		e.bell()
	}
}

// accept runs the validator and finishes the line when it is valid.
func (e *Editor) accept(s *readState) (bool, error) {
	msg := ""
	if e.validator != nil {
		res := e.validator.Validate(s.buf.String(), s.buf.BytePos())
		switch res.Kind {
		case Incomplete:
			s.buf.Insert('\n')
			return false, nil
		case Invalid:
			s.msg = res.Message
			if s.msg == "" {
				e.bell()
			}
			return false, nil
		}
		msg = res.Message
	}
	return true, e.finish(s, msg)
}

// finish redraws the line without hint, moves below it and writes trailer on
// its own row.
func (e *Editor) finish(s *readState, trailer string) error {
	s.hint = ""
	s.msg = ""
	s.cycle = nil
	s.buf.pos = s.buf.Len()
	if err := e.refresh(s); err != nil {
		return err
	}
	out := "\r\n"
	if trailer != "" {
		out += crlf(trailer) + "\r\n"
	}
	_, err := io.WriteString(e.out, out)
	return err
}

func (e *Editor) historyMove(s *readState, delta int) {
	n := e.history.Len()
	idx := s.histIdx + delta
	if idx < 0 || idx > n {
		e.bell()
		return
	}
	if s.histIdx == n {
		s.scratch = s.buf.String()
	}
	s.histIdx = idx
	if idx == n {
		s.buf.Set(s.scratch)
		return
	}
	entry, _ := e.history.Get(idx)
	s.buf.Set(entry)
}

func (e *Editor) updateHint(s *readState) {
	s.hint = ""
	if e.hinter == nil || s.cycle != nil || s.buf.pos != s.buf.Len() {
		return
	}
	if h, ok := e.hinter.Hint(s.buf.String(), s.buf.BytePos()); ok {
		s.hint = h
	}
}

// acceptHint inserts the visible hint when the cursor is at the end.
func (e *Editor) acceptHint(s *readState) bool {
	if s.hint == "" || s.buf.pos != s.buf.Len() {
		return false
	}
	s.buf.InsertString(s.hint)
	s.hint = ""
	return true
}

func (e *Editor) kill(text string) {
	if text != "" {
		e.yank = text
	}
}

func (e *Editor) bell() {
	switch e.cfg.BellStyle {
	case Audible:
		io.WriteString(e.out, "\a")
	case Visible:
		io.WriteString(e.out, "\x1b[?5h\x1b[?5l")
	}
}

// activeHighlighter returns the highlighter when colour output applies.
func (e *Editor) activeHighlighter() Highlighter {
	if e.highlighter == nil {
		return nil
	}
	switch e.colorMode {
	case ColorForced:
		return e.highlighter
	case ColorEnabled:
		if isTerminal(e.outFile) {
			return e.highlighter
		}
	}
	return nil
}

package bridge

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/rlbridge"
	"github.com/wippyai/rlbridge/editor"
	"github.com/wippyai/rlbridge/errors"
	"github.com/wippyai/rlbridge/marshal"
	"github.com/wippyai/rlbridge/resource"
)

// sessionType is the resource type ID of sessions.
const sessionType uint32 = 1

// Options configures a Bridge.
type Options struct {
	// HostAllocator frees strings returned by host callbacks. Nil means the
	// bridge allocator, which is the shared malloc/free convention of the C
	// ABI.
	HostAllocator rlbridge.Allocator

	// EditorOptions are applied to every editor a session creates.
	EditorOptions []editor.Option
}

// Bridge owns the sessions and envelopes of one foreign caller.
// Thread-safe; each session still admits one operation at a time.
type Bridge struct {
	mem       rlbridge.Memory
	alloc     rlbridge.Allocator
	hostAlloc rlbridge.Allocator
	options   Options

	table    *resource.UnifiedTable
	sessions *resource.Typed[*Session]

	envelopes map[rlbridge.Ptr]struct{}
	envMu     sync.Mutex
}

// New creates a Bridge whose strings and envelopes live in mem and are
// allocated with alloc.
func New(mem rlbridge.Memory, alloc rlbridge.Allocator, opts Options) *Bridge {
	table := resource.NewTable()
	table.Subscribe(sessionLog{})

	hostAlloc := opts.HostAllocator
	if hostAlloc == nil {
		hostAlloc = alloc
	}
	return &Bridge{
		mem:       mem,
		alloc:     alloc,
		hostAlloc: hostAlloc,
		options:   opts,
		table:     table,
		sessions:  resource.NewTyped[*Session](table, sessionType),
		envelopes: make(map[rlbridge.Ptr]struct{}),
	}
}

// NewWithDefaults creates a Bridge with default options.
func NewWithDefaults(mem rlbridge.Memory, alloc rlbridge.Allocator) *Bridge {
	return New(mem, alloc, Options{})
}

type sessionLog struct{}

func (sessionLog) OnResourceEvent(e resource.Event) {
	switch e.Type {
	case resource.EventCreated, resource.EventDropped:
		Logger().Debug("session "+e.Type.String(), zap.Uint32("handle", uint32(e.Handle)))
	}
}

// Create starts a session. cfg points to an EditorConfig record; zero means
// defaults. On failure the handle is zero and the returned envelope holds
// the error. On success the envelope is zero.
func (b *Bridge) Create(cfg rlbridge.Ptr) (resource.Handle, rlbridge.Ptr) {
	conf := editor.DefaultConfig()
	if cfg != 0 {
		rec, err := ReadConfigRecord(b.mem, cfg)
		if err != nil {
			return 0, b.publishError(err)
		}
		if conf, err = Translate(rec); err != nil {
			Logger().Debug("rejected config", zap.Error(err))
			return 0, b.publishError(err)
		}
	}

	ed, err := editor.New(conf, b.options.EditorOptions...)
	if err != nil {
		return 0, b.publishError(errors.Wrap(errors.PhaseTerminal, errors.KindIO, err, "create editor"))
	}

	s := &Session{ed: ed}
	ed.SetCompleter(completerTrampoline{b, s})
	ed.SetHinter(hinterTrampoline{s})
	ed.SetHighlighter(highlighterTrampoline{b, s})
	ed.SetValidator(validatorTrampoline{b, s})

	h := b.sessions.Insert(s)
	s.handle = h
	if h == 0 {
		ed.Close()
		return 0, b.publishError(errors.New(errors.PhaseSession, errors.KindAllocation).
			Detail("session table full").
			Build())
	}
	return h, 0
}

// Release ends a session. Releasing an unknown handle is logged and
// ignored. A session released from inside one of its own hooks is dropped
// once the running operation returns.
func (b *Bridge) Release(h resource.Handle) {
	s, ok := b.sessions.Get(h)
	if !ok || s.released.Swap(true) {
		Logger().Warn("release of unknown session", zap.Uint32("handle", uint32(h)))
		return
	}
	b.sessions.Remove(h)
}

// Sessions returns the number of live sessions.
func (b *Bridge) Sessions() int {
	return b.sessions.Len()
}

// Session returns the live session behind h.
func (b *Bridge) Session(h resource.Handle) (*Session, bool) {
	s, ok := b.sessions.Get(h)
	if !ok || s.released.Load() {
		return nil, false
	}
	return s, true
}

// Close releases every session. Envelopes already returned stay valid.
func (b *Bridge) Close() {
	var handles []resource.Handle
	b.sessions.Each(func(h resource.Handle, _ *Session) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		b.Release(h)
	}
}

// borrow pins a live session against removal.
func (b *Bridge) borrow(h resource.Handle, phase errors.Phase) (*Session, error) {
	s, ok := b.sessions.Borrow(h)
	if !ok {
		return nil, errors.InvalidHandle(phase, uint32(h))
	}
	if s.released.Load() {
		b.giveBack(s)
		return nil, errors.InvalidHandle(phase, uint32(h))
	}
	return s, nil
}

func (b *Bridge) giveBack(s *Session) {
	b.sessions.ReturnBorrow(s.handle)
	if s.released.Load() {
		b.sessions.Remove(s.handle)
	}
}

// begin borrows the session and claims its operation slot.
func (b *Bridge) begin(h resource.Handle, phase errors.Phase) (*Session, error) {
	s, err := b.borrow(h, phase)
	if err != nil {
		return nil, err
	}
	if !s.op.TryLock() {
		b.giveBack(s)
		return nil, errors.Busy(phase, uint32(h))
	}
	return s, nil
}

func (b *Bridge) end(s *Session) {
	s.op.Unlock()
	b.giveBack(s)
}

// ReadLine reads one line with prompt, a C string or zero for none.
func (b *Bridge) ReadLine(h resource.Handle, prompt rlbridge.Ptr) rlbridge.Ptr {
	s, err := b.begin(h, errors.PhaseRead)
	if err != nil {
		return b.publishError(err)
	}
	defer b.end(s)

	var text string
	if prompt != 0 {
		if text, err = marshal.ReadCString(b.mem, prompt, "prompt"); err != nil {
			return b.publishError(err)
		}
	}
	line, err := s.ed.ReadLine(text)
	switch {
	case err == nil:
		return b.publishLine(line)
	case errors.Is(err, editor.ErrEOF), errors.Is(err, editor.ErrInterrupted):
		return b.publishError(err)
	}
	Logger().Debug("read failed", zap.Uint32("handle", uint32(h)), zap.Error(err))
	return b.publishError(errors.Wrap(errors.PhaseRead, errors.KindIO, err, "read line"))
}

// LoadHistory appends the entries stored at path. A missing file loads
// nothing and succeeds.
func (b *Bridge) LoadHistory(h resource.Handle, path rlbridge.Ptr) rlbridge.Ptr {
	return b.historyFile(h, path, "load history", (*editor.Editor).LoadHistory)
}

// SaveHistory writes every entry to path.
func (b *Bridge) SaveHistory(h resource.Handle, path rlbridge.Ptr) rlbridge.Ptr {
	return b.historyFile(h, path, "save history", (*editor.Editor).SaveHistory)
}

func (b *Bridge) historyFile(h resource.Handle, path rlbridge.Ptr, op string, fn func(*editor.Editor, string) error) rlbridge.Ptr {
	s, err := b.begin(h, errors.PhaseHistory)
	if err != nil {
		return b.publishError(err)
	}
	defer b.end(s)

	name, err := marshal.ReadCString(b.mem, path, "path")
	if err != nil {
		return b.publishError(err)
	}
	if err := fn(s.ed, name); err != nil {
		return b.publishError(errors.IO(errors.PhaseHistory, op, err))
	}
	return b.publishOK()
}

// ClearHistory removes every entry.
func (b *Bridge) ClearHistory(h resource.Handle) rlbridge.Ptr {
	s, err := b.begin(h, errors.PhaseHistory)
	if err != nil {
		return b.publishError(err)
	}
	defer b.end(s)

	if err := s.ed.ClearHistory(); err != nil {
		return b.publishError(errors.IO(errors.PhaseHistory, "clear history", err))
	}
	return b.publishOK()
}

// AddHistoryEntry records entry. Failures are logged; the C signature has no
// way to report them.
func (b *Bridge) AddHistoryEntry(h resource.Handle, entry rlbridge.Ptr) {
	s, err := b.begin(h, errors.PhaseHistory)
	if err != nil {
		Logger().Warn("add history entry", zap.Error(err))
		return
	}
	defer b.end(s)

	text, err := marshal.ReadCString(b.mem, entry, "entry")
	if err != nil {
		Logger().Warn("add history entry", zap.Uint32("handle", uint32(h)), zap.Error(err))
		return
	}
	s.ed.AddHistoryEntry(text)
}

// setHook installs a hook. It does not claim the operation slot, so hooks
// may be replaced from inside a running hook.
func (b *Bridge) setHook(h resource.Handle, op string, userData rlbridge.Ptr, set func(*hookSet)) {
	s, err := b.borrow(h, errors.PhaseHook)
	if err != nil {
		Logger().Warn(op, zap.Error(err))
		return
	}
	defer b.giveBack(s)
	s.install(userData, set)
}

// SetCompleter installs fn as the completion hook; nil uninstalls it. A
// non-zero userData replaces the pointer shared by all hooks of the session.
func (b *Bridge) SetCompleter(h resource.Handle, fn CompleterFunc, userData rlbridge.Ptr) {
	b.setHook(h, "set completer", userData, func(hs *hookSet) { hs.completer = fn })
}

// SetHintHighlighter installs the hint highlighting hook. While it is
// installed the session hints from history.
func (b *Bridge) SetHintHighlighter(h resource.Handle, fn HintHighlighterFunc, userData rlbridge.Ptr) {
	b.setHook(h, "set hint highlighter", userData, func(hs *hookSet) { hs.hintHighlighter = fn })
}

// SetPromptHighlighter installs the prompt highlighting hook.
func (b *Bridge) SetPromptHighlighter(h resource.Handle, fn PromptHighlighterFunc, userData rlbridge.Ptr) {
	b.setHook(h, "set prompt highlighter", userData, func(hs *hookSet) { hs.promptHighlighter = fn })
}

// SetCandidateHighlighter installs the candidate highlighting hook.
func (b *Bridge) SetCandidateHighlighter(h resource.Handle, fn CandidateHighlighterFunc, userData rlbridge.Ptr) {
	b.setHook(h, "set candidate highlighter", userData, func(hs *hookSet) { hs.candidateHighlighter = fn })
}

// SetHighlighter installs the line highlighting hook.
func (b *Bridge) SetHighlighter(h resource.Handle, fn HighlighterFunc, userData rlbridge.Ptr) {
	b.setHook(h, "set highlighter", userData, func(hs *hookSet) { hs.highlighter = fn })
}

// SetValidator installs the validation hook.
func (b *Bridge) SetValidator(h resource.Handle, fn ValidatorFunc, userData rlbridge.Ptr) {
	b.setHook(h, "set validator", userData, func(hs *hookSet) { hs.validator = fn })
}

// UseFileCompleter replaces the completion hook with filename completion and
// enables history hints.
func (b *Bridge) UseFileCompleter(h resource.Handle) {
	b.setHook(h, "use file completer", 0, func(hs *hookSet) {
		hs.completer = nil
		hs.fileCompleter = true
	})
}

// SetAutoAddHistory controls whether accepted lines enter history.
func (b *Bridge) SetAutoAddHistory(h resource.Handle, on bool) {
	s, err := b.begin(h, errors.PhaseSession)
	if err != nil {
		Logger().Warn("set auto add history", zap.Error(err))
		return
	}
	defer b.end(s)
	s.ed.SetAutoAddHistory(on)
}

// SetValidateWhileTyping makes the validator run after every edit, showing
// the message of an invalid line as it is typed.
func (b *Bridge) SetValidateWhileTyping(h resource.Handle, on bool) {
	s, err := b.begin(h, errors.PhaseSession)
	if err != nil {
		Logger().Warn("set validate while typing", zap.Error(err))
		return
	}
	defer b.end(s)
	s.ed.SetValidateWhileTyping(on)
}

// SetColorMode changes when highlighting applies. mode uses the color_mode
// encoding of EditorConfig.
func (b *Bridge) SetColorMode(h resource.Handle, mode int32) rlbridge.Ptr {
	s, err := b.begin(h, errors.PhaseSession)
	if err != nil {
		return b.publishError(err)
	}
	defer b.end(s)

	m := editor.ColorMode(mode)
	if !m.Valid() {
		return b.publishError(errors.InvalidEnum(errors.PhaseConfig, []string{"color_mode"}, mode, "editor.ColorMode"))
	}
	if err := s.ed.SetColorMode(m); err != nil {
		return b.publishError(errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "color_mode"))
	}
	return b.publishOK()
}

// ClearScreen clears the session's terminal.
func (b *Bridge) ClearScreen(h resource.Handle) rlbridge.Ptr {
	return b.terminal(h, "clear screen", (*editor.Editor).ClearScreen)
}

// SetCursorVisibility shows or hides the session's terminal cursor.
func (b *Bridge) SetCursorVisibility(h resource.Handle, visible bool) rlbridge.Ptr {
	return b.terminal(h, "set cursor visibility", func(ed *editor.Editor) error {
		return ed.SetCursorVisibility(visible)
	})
}

func (b *Bridge) terminal(h resource.Handle, op string, fn func(*editor.Editor) error) rlbridge.Ptr {
	s, err := b.begin(h, errors.PhaseTerminal)
	if err != nil {
		return b.publishError(err)
	}
	defer b.end(s)

	if err := fn(s.ed); err != nil {
		return b.publishError(errors.IO(errors.PhaseTerminal, op, err))
	}
	return b.publishOK()
}

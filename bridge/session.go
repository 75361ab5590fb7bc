package bridge

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/rlbridge"
	"github.com/wippyai/rlbridge/editor"
	"github.com/wippyai/rlbridge/resource"
)

// Session is one editor registered with a Bridge.
type Session struct {
	handle resource.Handle
	ed     *editor.Editor

	// op admits one operation at a time. Overlapping calls fail with Busy
	// rather than block, so a hook calling back into its own session cannot
	// deadlock.
	op sync.Mutex

	hookMu sync.RWMutex
	hooks  hookSet

	// released is set by Release while an operation still holds a borrow;
	// the last borrower drops the session.
	released atomic.Bool
}

// Handle returns the session's registry handle.
func (s *Session) Handle() resource.Handle { return s.handle }

// Editor returns the underlying editor.
func (s *Session) Editor() *editor.Editor { return s.ed }

func (s *Session) snapshot() hookSet {
	s.hookMu.RLock()
	defer s.hookMu.RUnlock()
	return s.hooks
}

func (s *Session) install(userData rlbridge.Ptr, set func(*hookSet)) {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	set(&s.hooks)
	if userData != 0 {
		s.hooks.userData = userData
	}
}

// Drop closes the editor. The resource table calls it on removal.
func (s *Session) Drop() {
	if err := s.ed.Close(); err != nil {
		Logger().Warn("close editor", zap.Uint32("handle", uint32(s.handle)), zap.Error(err))
	}
}

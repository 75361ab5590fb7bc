package editor

import (
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"
)

const ttyPath = "/dev/tty"

func isTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

func openTTY() (*os.File, error) {
	return os.OpenFile(ttyPath, os.O_RDWR, 0)
}

// enterRaw switches the input terminal to raw mode. The returned function
// restores the previous mode. Input that is not a terminal is left alone.
func (e *Editor) enterRaw() (func(), error) {
	if !isTerminal(e.inFile) {
		return func() {}, nil
	}
	fd := int(e.inFile.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	if e.cfg.EnableSignals {
		if err := enableSignals(fd); err != nil {
			Logger().Debug("cannot re-enable terminal signals", zap.Error(err))
		}
	}
	return func() {
		if err := term.Restore(fd, state); err != nil {
			Logger().Warn("restore terminal mode", zap.Error(err))
		}
	}, nil
}

// width returns the terminal width in columns.
func (e *Editor) width() int {
	if isTerminal(e.outFile) {
		if w, _, err := term.GetSize(int(e.outFile.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return e.cols
}

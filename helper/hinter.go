package helper

import "github.com/wippyai/rlbridge/editor"

// HistoryHinter suggests the rest of the most recent history entry that
// starts with the current line.
type HistoryHinter struct {
	History *editor.History
}

var _ editor.Hinter = HistoryHinter{}

func (h HistoryHinter) Hint(line string, pos int) (string, bool) {
	if h.History == nil || line == "" || pos < len(line) {
		return "", false
	}
	entry, ok := h.History.SearchPrefix(line)
	if !ok {
		return "", false
	}
	return entry[len(line):], true
}

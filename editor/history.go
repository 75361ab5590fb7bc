package editor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const historyHeader = "#V2"

// History is a bounded list of accepted lines, oldest first.
type History struct {
	entries     []string
	max         int
	duplicates  HistoryDuplicates
	ignoreSpace bool
}

// NewHistory creates an empty history holding at most max entries.
func NewHistory(max int, duplicates HistoryDuplicates, ignoreSpace bool) *History {
	if max < 0 {
		max = 0
	}
	return &History{max: max, duplicates: duplicates, ignoreSpace: ignoreSpace}
}

// Add records line and reports whether it was stored. Empty lines are never
// stored.
func (h *History) Add(line string) bool {
	if h.max == 0 || line == "" {
		return false
	}
	if h.ignoreSpace && line[0] == ' ' {
		return false
	}
	if h.duplicates == IgnoreConsecutive && len(h.entries) > 0 && h.entries[len(h.entries)-1] == line {
		return false
	}
	if len(h.entries) == h.max {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:len(h.entries)-1]
	}
	h.entries = append(h.entries, line)
	return true
}

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }

// Get returns entry i, counting from the oldest.
func (h *History) Get(i int) (string, bool) {
	if i < 0 || i >= len(h.entries) {
		return "", false
	}
	return h.entries[i], true
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Clear removes every entry.
func (h *History) Clear() {
	h.entries = h.entries[:0]
}

// Max returns the capacity.
func (h *History) Max() int { return h.max }

// SetMax changes the capacity, dropping the oldest entries if needed.
func (h *History) SetMax(max int) {
	if max < 0 {
		max = 0
	}
	h.max = max
	if over := len(h.entries) - max; over > 0 {
		h.entries = append(h.entries[:0], h.entries[over:]...)
	}
}

// SearchPrefix returns the most recent entry that starts with prefix and is
// longer than it.
func (h *History) SearchPrefix(prefix string) (string, bool) {
	if prefix == "" {
		return "", false
	}
	for i := len(h.entries) - 1; i >= 0; i-- {
		e := h.entries[i]
		if len(e) > len(prefix) && strings.HasPrefix(e, prefix) {
			return e, true
		}
	}
	return "", false
}

// Load appends the entries stored in path. A missing file is not an error.
func (h *History) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	return h.read(f)
}

func (h *History) read(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	first := true
	escaped := false
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if first {
			first = false
			if line == historyHeader {
				escaped = true
				continue
			}
		}
		if escaped {
			line = unescapeHistory(line)
		}
		h.Add(line)
	}
	return sc.Err()
}

// Save writes all entries to path, replacing it atomically.
func (h *History) Save(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := h.write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func (h *History) write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, historyHeader); err != nil {
		return err
	}
	for _, e := range h.entries {
		if _, err := fmt.Fprintln(bw, escapeHistory(e)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

var historyEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", `\r`)

func escapeHistory(s string) string {
	return historyEscaper.Replace(s)
}

func unescapeHistory(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case 'r':
				b.WriteByte('\r')
				i++
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

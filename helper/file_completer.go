package helper

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/wippyai/rlbridge/editor"
)

// FileCompleter completes the whitespace-separated token before the cursor as
// a filesystem path. Directories are suggested with a trailing separator.
// Dotfiles are offered only when the typed name starts with a dot.
type FileCompleter struct {
	// Dir resolves relative paths. Empty means the working directory.
	Dir string
}

var _ editor.Completer = (*FileCompleter)(nil)

func (c *FileCompleter) Complete(line string, pos int) (int, []editor.Candidate, error) {
	if pos > len(line) {
		pos = len(line)
	}
	start := tokenStart(line, pos)
	token := line[start:pos]

	dirPart, prefix := "", token
	if i := strings.LastIndexAny(token, `/\`); i >= 0 {
		dirPart, prefix = token[:i+1], token[i+1:]
	}

	entries, err := os.ReadDir(c.lookupDir(dirPart))
	if err != nil {
		return start, nil, nil
	}
	includeDot := strings.HasPrefix(prefix, ".")
	var names []string
	for _, ent := range entries {
		name := ent.Name()
		if !includeDot && strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if isDir(c.lookupDir(dirPart), ent) {
			name += string(os.PathSeparator)
		}
		names = append(names, dirPart+name)
	}
	sort.Strings(names)

	cands := make([]editor.Candidate, len(names))
	for i, n := range names {
		cands[i] = editor.Candidate{Display: n, Replacement: n}
	}
	return start, cands, nil
}

func (c *FileCompleter) lookupDir(dirPart string) string {
	if dirPart == "" {
		dirPart = "."
	}
	if strings.HasPrefix(dirPart, "~/") || strings.HasPrefix(dirPart, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			dirPart = filepath.Join(home, dirPart[2:])
		}
	}
	if c.Dir != "" && !filepath.IsAbs(dirPart) {
		dirPart = filepath.Join(c.Dir, dirPart)
	}
	return dirPart
}

func isDir(dir string, ent os.DirEntry) bool {
	if ent.IsDir() {
		return true
	}
	if ent.Type()&os.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(filepath.Join(dir, ent.Name()))
	return err == nil && fi.IsDir()
}

// tokenStart returns the byte offset after the last whitespace before pos.
func tokenStart(line string, pos int) int {
	i := pos
	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(line[:i])
		if unicode.IsSpace(r) {
			return i
		}
		i -= size
	}
	return 0
}

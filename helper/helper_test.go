package helper

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/wippyai/rlbridge/editor"
)

func makeTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, d := range []string{"src", "scripts", ".git"} {
		if err := os.Mkdir(filepath.Join(dir, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range []string{"setup.py", ".env", "src/main.go", "src/util.go"} {
		if err := os.WriteFile(filepath.Join(dir, f), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestFileCompleter(t *testing.T) {
	dir := makeTree(t)
	c := &FileCompleter{Dir: dir}
	sep := string(os.PathSeparator)

	tests := []struct {
		name      string
		line      string
		pos       int
		wantStart int
		want      []string
	}{
		{"prefix", "cat s", 5, 4, []string{"scripts" + sep, "setup.py", "src" + sep}},
		{"nested", "vim src/m", 9, 4, []string{"src/main.go"}},
		{"dotfiles on demand", "ls .", 4, 3, []string{".env", ".git" + sep}},
		{"empty token lists directory", "ls ", 3, 3, []string{"scripts" + sep, "setup.py", "src" + sep}},
		{"cursor mid line", "cat s more", 5, 4, []string{"scripts" + sep, "setup.py", "src" + sep}},
		{"no match", "cat zz", 6, 4, nil},
		{"missing dir", "cat nope/x", 10, 4, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, cands, err := c.Complete(tt.line, tt.pos)
			if err != nil {
				t.Fatal(err)
			}
			if start != tt.wantStart {
				t.Errorf("start = %d, want %d", start, tt.wantStart)
			}
			if len(cands) != len(tt.want) {
				t.Fatalf("candidates = %v, want %v", cands, tt.want)
			}
			for i, w := range tt.want {
				if cands[i].Replacement != w || cands[i].Display != w {
					t.Errorf("candidate %d = %+v, want %q", i, cands[i], w)
				}
			}
		})
	}
}

func TestHistoryHinter(t *testing.T) {
	h := editor.NewHistory(10, editor.AlwaysAdd, false)
	h.Add("git status")
	h.Add("git stash")
	hinter := HistoryHinter{History: h}

	tests := []struct {
		line string
		pos  int
		want string
		ok   bool
	}{
		{"git st", 6, "ash", true},
		{"git stat", 8, "us", true},
		{"git st", 3, "", false},
		{"", 0, "", false},
		{"git stash", 9, "", false},
	}
	for _, tt := range tests {
		got, ok := hinter.Hint(tt.line, tt.pos)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Hint(%q, %d) = %q, %v", tt.line, tt.pos, got, ok)
		}
	}

	if _, ok := (HistoryHinter{}).Hint("x", 1); ok {
		t.Error("nil history should not hint")
	}
}

func TestSimpleHighlighter(t *testing.T) {
	h := NewSimpleHighlighter()

	tests := []struct {
		name string
		got  string
		in   string
		sgr  string
	}{
		{"hint", h.HighlightHint("tatus"), "tatus", "\x1b[90m"},
		{"prompt", h.HighlightPrompt("> ", true), "> ", "\x1b[32m"},
		{"candidate", h.HighlightCandidate("src/", editor.List), "src/", "\x1b[36m"},
	}
	for _, tt := range tests {
		if !strings.HasPrefix(tt.got, tt.sgr) {
			t.Errorf("%s: %q does not start with %q", tt.name, tt.got, tt.sgr)
		}
		if ansi.Strip(tt.got) != tt.in {
			t.Errorf("%s: visible text = %q, want %q", tt.name, ansi.Strip(tt.got), tt.in)
		}
	}
	if got := h.Highlight("ls -la", 2); got != "ls -la" {
		t.Errorf("line changed: %q", got)
	}
}

func TestPasswordHighlighter(t *testing.T) {
	var h PasswordHighlighter
	if got := h.Highlight("s3cret", 2); got != "******" {
		t.Errorf("mask = %q", got)
	}
	if got := h.Highlight("日本", 0); got != "****" {
		t.Errorf("wide mask = %q", got)
	}
	if got := h.HighlightPrompt("Password: ", true); got != "Password: " {
		t.Errorf("prompt = %q", got)
	}
}

func TestPasswordHighlighter_Editor(t *testing.T) {
	cfg := editor.DefaultConfig()
	cfg.ColorMode = editor.ColorForced
	var out strings.Builder
	e, err := editor.New(cfg, editor.WithIO(strings.NewReader("hunter2\r"), &out), editor.WithInteractive(true))
	if err != nil {
		t.Fatal(err)
	}
	e.SetHighlighter(PasswordHighlighter{})

	line, err := e.ReadLine("Password: ")
	if err != nil {
		t.Fatal(err)
	}
	if line != "hunter2" {
		t.Errorf("line = %q", line)
	}
	if strings.Contains(out.String(), "hunter2") {
		t.Error("password echoed in clear")
	}
}

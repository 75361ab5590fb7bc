package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wippyai/rlbridge/editor"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		check   func(editor.Config) bool
		wantErr bool
	}{
		{
			name:  "overrides",
			body:  "edit_mode = \"vi\"\ncompletion_type = \"list\"\nmax_history_size = 5\n",
			check: func(c editor.Config) bool { return c.EditMode == editor.Vi && c.CompletionType == editor.List && c.MaxHistorySize == 5 },
		},
		{
			name:  "defaults kept",
			body:  "auto_add_history = true\n",
			check: func(c editor.Config) bool { return c.AutoAddHistory && c.TabStop == 8 },
		},
		{name: "bad enum", body: "bell_style = \"loud\"\n", wantErr: true},
		{name: "unknown key", body: "colour = 1\n", wantErr: true},
		{name: "invalid value", body: "tab_stop = 0\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rl.toml")
			if err := os.WriteFile(path, []byte(tt.body), 0o600); err != nil {
				t.Fatal(err)
			}
			cfg, err := loadConfig(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && !tt.check(cfg) {
				t.Errorf("unexpected config %+v", cfg)
			}
		})
	}

	if cfg, err := loadConfig(""); err != nil || cfg != editor.DefaultConfig() {
		t.Errorf("empty path = %+v, %v", cfg, err)
	}
}

func TestCommandCompleter(t *testing.T) {
	start, cands, _ := commandCompleter{}.Complete("h", 1)
	if start != 0 || len(cands) != 2 || cands[0].Replacement != "help" || cands[1].Replacement != "history" {
		t.Errorf("got %d %+v", start, cands)
	}
	if _, cands, _ := (commandCompleter{}).Complete("echo h", 6); len(cands) != 0 {
		t.Errorf("argument completed: %+v", cands)
	}
}

func TestBracketValidator(t *testing.T) {
	tests := []struct {
		line string
		want editor.ValidationKind
	}{
		{"f(x)", editor.Valid},
		{"f(x", editor.Incomplete},
		{"{[(", editor.Incomplete},
		{"f(x]", editor.Invalid},
		{")", editor.Invalid},
	}
	for _, tt := range tests {
		if got := (bracketValidator{}).Validate(tt.line, len(tt.line)).Kind; got != tt.want {
			t.Errorf("%q: got %s, want %s", tt.line, got, tt.want)
		}
	}
}

func TestConfigureModes(t *testing.T) {
	for _, mode := range modes {
		ed, err := editor.New(editor.DefaultConfig(), editor.WithIO(strings.NewReader(""), io.Discard))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := configure(ed, mode); err != nil {
			t.Errorf("%s: %v", mode, err)
		}
	}
	ed, _ := editor.New(editor.DefaultConfig(), editor.WithIO(strings.NewReader(""), io.Discard))
	if _, err := configure(ed, "nope"); err == nil {
		t.Error("unknown mode accepted")
	}
}

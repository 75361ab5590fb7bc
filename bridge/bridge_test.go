package bridge

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/wippyai/rlbridge"
	"github.com/wippyai/rlbridge/editor"
	"github.com/wippyai/rlbridge/heap"
	"github.com/wippyai/rlbridge/marshal"
	"github.com/wippyai/rlbridge/resource"
)

type fixture struct {
	b    *Bridge
	mem  *heap.Heap
	out  *bytes.Buffer
	args []rlbridge.Ptr
}

func newFixture(t *testing.T, input string, interactive bool) *fixture {
	t.Helper()
	mem := heap.New()
	out := &bytes.Buffer{}
	b := New(mem, mem, Options{
		EditorOptions: []editor.Option{
			editor.WithIO(strings.NewReader(input), out),
			editor.WithInteractive(interactive),
		},
	})
	return &fixture{b: b, mem: mem, out: out}
}

// cstr stores s as a caller-owned C string, freed by checkLeaks.
func (f *fixture) cstr(t *testing.T, s string) rlbridge.Ptr {
	t.Helper()
	p, err := marshal.WriteCString(f.mem, f.mem, s)
	if err != nil {
		t.Fatalf("WriteCString: %v", err)
	}
	f.args = append(f.args, p)
	return p
}

// hostString allocates a string the way a host callback returns one.
func (f *fixture) hostString(t *testing.T, s string) rlbridge.Ptr {
	t.Helper()
	p, err := marshal.WriteCString(f.mem, f.mem, s)
	if err != nil {
		t.Fatalf("WriteCString: %v", err)
	}
	return p
}

func (f *fixture) read(t *testing.T, p rlbridge.Ptr) string {
	t.Helper()
	s, err := marshal.ReadCString(f.mem, p)
	if err != nil {
		t.Fatalf("ReadCString: %v", err)
	}
	return s
}

func (f *fixture) create(t *testing.T, rec *ConfigRecord) resource.Handle {
	t.Helper()
	h, env := f.createRaw(t, rec)
	if env != 0 {
		t.Fatalf("Create failed: %+v", f.take(t, env))
	}
	if h == 0 {
		t.Fatal("Create returned handle 0")
	}
	return h
}

func (f *fixture) createRaw(t *testing.T, rec *ConfigRecord) (resource.Handle, rlbridge.Ptr) {
	t.Helper()
	if rec == nil {
		return f.b.Create(0)
	}
	p, err := f.mem.Alloc(ConfigRecordSize)
	if err != nil {
		t.Fatal(err)
	}
	defer f.mem.Free(p)
	if err := WriteConfigRecord(f.mem, p, *rec); err != nil {
		t.Fatal(err)
	}
	return f.b.Create(p)
}

// take decodes and releases an envelope, checking its shape.
func (f *fixture) take(t *testing.T, p rlbridge.Ptr) Envelope {
	t.Helper()
	if p == 0 {
		t.Fatal("nil envelope")
	}
	env, err := ReadEnvelope(f.mem, p)
	if err != nil {
		t.Fatalf("ReadEnvelope: %v", err)
	}
	f.b.ReleaseEnvelope(p)
	if env.Code.IsError() && (!env.HasMessage || env.HasResult) {
		t.Errorf("error envelope %+v must carry only a message", env)
	}
	if !env.Code.IsError() && env.HasMessage {
		t.Errorf("success envelope %+v carries a message", env)
	}
	return env
}

func (f *fixture) checkLeaks(t *testing.T) {
	t.Helper()
	for _, p := range f.args {
		f.mem.Free(p)
	}
	f.args = nil
	f.b.Close()
	if n := f.b.Sessions(); n != 0 {
		t.Errorf("%d sessions left", n)
	}
	if n := f.b.LiveEnvelopes(); n != 0 {
		t.Errorf("%d envelopes not released", n)
	}
	if st := f.mem.Stats(); st.Live() != 0 || st.BadFrees != 0 {
		t.Errorf("heap stats %+v", st)
	}
}

func TestReadLine_PipedHello(t *testing.T) {
	f := newFixture(t, "hello\n", false)
	h := f.create(t, nil)
	prompt := f.cstr(t, "> ")

	env := f.take(t, f.b.ReadLine(h, prompt))
	if env.Code != CodeOK || !env.HasResult || env.Result != "hello" {
		t.Fatalf("first read = %+v", env)
	}

	env = f.take(t, f.b.ReadLine(h, prompt))
	if env.Code != CodeEOF || env.Message != "Reached end of file" {
		t.Fatalf("second read = %+v", env)
	}
	if got := f.out.String(); got != "> > " {
		t.Errorf("output = %q", got)
	}

	f.b.Release(h)
	f.checkLeaks(t)
}

func TestReadLine_NullPrompt(t *testing.T) {
	f := newFixture(t, "x\n", false)
	h := f.create(t, nil)
	if env := f.take(t, f.b.ReadLine(h, 0)); env.Result != "x" {
		t.Errorf("got %+v", env)
	}
	if f.out.Len() != 0 {
		t.Errorf("NULL prompt wrote %q", f.out.String())
	}
	f.checkLeaks(t)
}

func TestReadLine_Interrupted(t *testing.T) {
	f := newFixture(t, "ab\x03", true)
	h := f.create(t, nil)
	env := f.take(t, f.b.ReadLine(h, 0))
	if env.Code != CodeInterrupted || env.Message != "Received interrupt signal" {
		t.Errorf("got %+v", env)
	}
	f.checkLeaks(t)
}

func TestCreateRelease_NoLeak(t *testing.T) {
	vi := DefaultConfigRecord()
	vi.EditMode = int32(editor.Vi)
	vi.KeySeqTimeout = 500

	list := DefaultConfigRecord()
	list.CompletionType = int32(editor.List)
	list.CompletionShowAllIfAmbiguous = true

	negative := DefaultConfigRecord()
	negative.MaxHistorySize = -3
	negative.CompletionPromptLimit = -1
	negative.KeySeqTimeout = -20

	tests := []struct {
		name string
		rec  *ConfigRecord
	}{
		{"defaults", nil},
		{"default record", func() *ConfigRecord { r := DefaultConfigRecord(); return &r }()},
		{"vi", &vi},
		{"list", &list},
		{"negative numbers", &negative},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "", false)
			for i := 0; i < 3; i++ {
				h := f.create(t, tt.rec)
				f.b.Release(h)
			}
			f.checkLeaks(t)
		})
	}
}

func TestCreate_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*ConfigRecord)
		want   []string
	}{
		{"completion type", func(r *ConfigRecord) { r.CompletionType = 5 }, []string{"completion_type"}},
		{"history duplicates", func(r *ConfigRecord) { r.HistoryDuplicates = -1 }, []string{"history_duplicates"}},
		{"behavior", func(r *ConfigRecord) { r.Behavior = 2 }, []string{"behavior"}},
		{"several", func(r *ConfigRecord) { r.EditMode = 9; r.BellStyle = 7 }, []string{"edit_mode", "bell_style"}},
		{"version", func(r *ConfigRecord) { r.Version = 2 }, []string{"version"}},
		{"tab stop", func(r *ConfigRecord) { r.TabStop = 0 }, []string{"tab_stop"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "", false)
			rec := DefaultConfigRecord()
			tt.modify(&rec)

			h, p := f.createRaw(t, &rec)
			if h != 0 {
				t.Fatalf("handle %d for invalid config", h)
			}
			env := f.take(t, p)
			if env.Code != CodeConfig || !strings.HasPrefix(env.Message, "Invalid configuration: ") {
				t.Fatalf("got %+v", env)
			}
			for _, w := range tt.want {
				if !strings.Contains(env.Message, w) {
					t.Errorf("message %q does not name %s", env.Message, w)
				}
			}
			f.checkLeaks(t)
		})
	}
}

func TestTranslate(t *testing.T) {
	cfg, err := Translate(DefaultConfigRecord())
	if err != nil {
		t.Fatal(err)
	}
	if cfg != editor.DefaultConfig() {
		t.Errorf("default record translates to %+v", cfg)
	}

	rec := DefaultConfigRecord()
	rec.MaxHistorySize = -1
	rec.CompletionPromptLimit = -7
	rec.KeySeqTimeout = -100
	rec.HistoryDuplicates = int32(editor.AlwaysAdd)
	rec.ColorMode = int32(editor.ColorDisabled)
	rec.Behavior = int32(editor.PreferTerm)
	rec.TabStop = 4
	rec.EnableSignals = true
	if cfg, err = Translate(rec); err != nil {
		t.Fatal(err)
	}
	if cfg.MaxHistorySize != 0 || cfg.CompletionPromptLimit != 0 {
		t.Errorf("negative sizes not clamped: %+v", cfg)
	}
	if cfg.KeySeqTimeout != editor.NoKeySeqTimeout {
		t.Errorf("timeout = %d", cfg.KeySeqTimeout)
	}
	if cfg.HistoryDuplicates != editor.AlwaysAdd || cfg.ColorMode != editor.ColorDisabled ||
		cfg.Behavior != editor.PreferTerm || cfg.TabStop != 4 || !cfg.EnableSignals {
		t.Errorf("fields not carried: %+v", cfg)
	}

	rec.KeySeqTimeout = 0
	if cfg, _ = Translate(rec); cfg.KeySeqTimeout != 0 {
		t.Errorf("zero timeout became %d", cfg.KeySeqTimeout)
	}
}

func TestConfigRecord_Layout(t *testing.T) {
	mem := heap.New()
	p, _ := mem.Alloc(ConfigRecordSize)

	rec := DefaultConfigRecord()
	rec.TabStop = 3
	rec.EnableSignals = true
	rec.CompletionType = int32(editor.List)
	if err := WriteConfigRecord(mem, p, rec); err != nil {
		t.Fatal(err)
	}

	raw, _ := mem.Read(p, ConfigRecordSize)
	if raw[OffTabStop] != 3 || raw[OffEnableSignals] != 1 || raw[OffVersion] != ConfigVersion {
		t.Errorf("unexpected bytes % x", raw)
	}
	if v, _ := mem.ReadI32(p + OffCompletionType); v != int32(editor.List) {
		t.Errorf("completion_type at %d = %d", OffCompletionType, v)
	}

	got, err := ReadConfigRecord(mem, p)
	if err != nil || got != rec {
		t.Errorf("ReadConfigRecord = %+v, %v", got, err)
	}
	if _, err := ReadConfigRecord(mem, 0); err == nil {
		t.Error("NULL record accepted")
	}
}

func TestInvalidHandle(t *testing.T) {
	f := newFixture(t, "", false)
	released := f.create(t, nil)
	f.b.Release(released)
	live := f.create(t, nil)
	path := f.cstr(t, filepath.Join(t.TempDir(), "h"))

	for _, h := range []resource.Handle{0, 4242, released} {
		ops := map[string]rlbridge.Ptr{
			"read":       f.b.ReadLine(h, 0),
			"load":       f.b.LoadHistory(h, path),
			"save":       f.b.SaveHistory(h, path),
			"clear":      f.b.ClearHistory(h),
			"color":      f.b.SetColorMode(h, 0),
			"screen":     f.b.ClearScreen(h),
			"visibility": f.b.SetCursorVisibility(h, true),
		}
		for name, p := range ops {
			env := f.take(t, p)
			if env.Code != CodeInvalidHandle || !strings.HasPrefix(env.Message, "Invalid handle: ") {
				t.Errorf("handle %d %s: %+v", h, name, env)
			}
		}
		f.b.AddHistoryEntry(h, path)
		f.b.SetCompleter(h, nil, 0)
		f.b.UseFileCompleter(h)
		f.b.SetAutoAddHistory(h, true)
		f.b.Release(h)
	}

	if f.b.Sessions() != 1 {
		t.Errorf("sessions = %d", f.b.Sessions())
	}
	if s, ok := f.b.Session(live); !ok || s.Editor().History().Len() != 0 {
		t.Error("live session disturbed")
	}
	f.checkLeaks(t)
}

func TestStaleHandleAfterReuse(t *testing.T) {
	f := newFixture(t, "", false)
	old := f.create(t, nil)
	f.b.Release(old)
	fresh := f.create(t, nil)
	if fresh == old {
		t.Fatal("handle reused verbatim")
	}
	if env := f.take(t, f.b.ClearHistory(old)); env.Code != CodeInvalidHandle {
		t.Errorf("stale handle: %+v", env)
	}
	if env := f.take(t, f.b.ClearHistory(fresh)); env.Code != CodeOK {
		t.Errorf("fresh handle: %+v", env)
	}
	f.checkLeaks(t)
}

func TestReleaseEnvelope_Unknown(t *testing.T) {
	f := newFixture(t, "", false)
	h := f.create(t, nil)

	p := f.b.ClearHistory(h)
	f.b.ReleaseEnvelope(p)
	f.b.ReleaseEnvelope(p)
	f.b.ReleaseEnvelope(0)

	other := f.cstr(t, "not an envelope")
	f.b.ReleaseEnvelope(other)
	if got := f.read(t, other); got != "not an envelope" {
		t.Errorf("foreign pointer disturbed: %q", got)
	}
	f.checkLeaks(t)
}

func TestHistory_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		dups editor.HistoryDuplicates
		want []string
	}{
		{"always add", editor.AlwaysAdd, []string{"a", "a", "b", "a"}},
		{"ignore consecutive", editor.IgnoreConsecutive, []string{"a", "b", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "", false)
			rec := DefaultConfigRecord()
			rec.HistoryDuplicates = int32(tt.dups)
			path := f.cstr(t, filepath.Join(t.TempDir(), "history"))

			h := f.create(t, &rec)
			for _, e := range []string{"a", "a", "b", "a"} {
				f.b.AddHistoryEntry(h, f.cstr(t, e))
			}
			if env := f.take(t, f.b.SaveHistory(h, path)); env.Code != CodeOK || env.HasResult {
				t.Fatalf("save: %+v", env)
			}
			f.b.Release(h)

			h = f.create(t, &rec)
			if env := f.take(t, f.b.LoadHistory(h, path)); env.Code != CodeOK {
				t.Fatalf("load: %+v", env)
			}
			s, _ := f.b.Session(h)
			if got := s.Editor().History().Entries(); !slices.Equal(got, tt.want) {
				t.Errorf("entries = %q, want %q", got, tt.want)
			}

			if env := f.take(t, f.b.ClearHistory(h)); env.Code != CodeOK {
				t.Fatalf("clear: %+v", env)
			}
			if s.Editor().History().Len() != 0 {
				t.Error("clear left entries")
			}
			f.checkLeaks(t)
		})
	}
}

func TestHistory_Errors(t *testing.T) {
	f := newFixture(t, "", false)
	h := f.create(t, nil)

	missing := f.cstr(t, filepath.Join(t.TempDir(), "absent"))
	if env := f.take(t, f.b.LoadHistory(h, missing)); env.Code != CodeOK {
		t.Errorf("missing file: %+v", env)
	}
	if env := f.take(t, f.b.LoadHistory(h, 0)); env.Code != CodeEncoding {
		t.Errorf("NULL path: %+v", env)
	}
	dir := f.cstr(t, filepath.Join(t.TempDir(), "no", "such", "dir", "h"))
	if env := f.take(t, f.b.SaveHistory(h, dir)); env.Code != CodeUnknown || !strings.HasPrefix(env.Message, "Unknown error: ") {
		t.Errorf("unwritable path: %+v", env)
	}

	bad, _ := f.mem.Alloc(3)
	f.mem.Write(bad, []byte{0xff, 0xfe, 0})
	f.args = append(f.args, bad)
	if env := f.take(t, f.b.LoadHistory(h, bad)); env.Code != CodeEncoding {
		t.Errorf("invalid UTF-8 path: %+v", env)
	}
	f.checkLeaks(t)
}

func TestAutoAddHistory(t *testing.T) {
	f := newFixture(t, "one\ntwo\n", false)
	rec := DefaultConfigRecord()
	rec.AutoAddHistory = true
	h := f.create(t, &rec)
	s, _ := f.b.Session(h)

	f.take(t, f.b.ReadLine(h, 0))
	f.b.SetAutoAddHistory(h, false)
	f.take(t, f.b.ReadLine(h, 0))
	if got := s.Editor().History().Entries(); !slices.Equal(got, []string{"one"}) {
		t.Errorf("history = %q", got)
	}
	f.checkLeaks(t)
}

func TestCompleter(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reply  string
		start  int32
		want   string
		called string
	}{
		{"single", "he\t\r", "hello", 0, "hello", "he"},
		{"cycle", "he\t\t\r", "hello_*#*_help", 0, "help", "he"},
		{"empty segments dropped", "he\t\t\r", "_*#*_hello_*#*__*#*_help_*#*_", 0, "help", "he"},
		{"start past cursor", "he\t\r", "llo", 9, "hello", "he"},
		{"negative start", "he\t\r", "yo", -4, "yo", "he"},
		{"utf-8 positions", "héé\t\r", "héllo", 0, "héllo", "héé"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.input, true)
			h := f.create(t, nil)

			var (
				gotLine string
				gotPos  int32
				gotUD   rlbridge.Ptr
			)
			f.b.SetCompleter(h, func(ud, line rlbridge.Ptr, pos int32, start *int32) rlbridge.Ptr {
				gotUD, gotLine, gotPos = ud, f.read(t, line), pos
				*start = tt.start
				return f.hostString(t, tt.reply)
			}, 0xbeef)

			env := f.take(t, f.b.ReadLine(h, 0))
			if env.Result != tt.want {
				t.Errorf("got %q, want %q", env.Result, tt.want)
			}
			if gotUD != 0xbeef || gotLine != tt.called || gotPos != int32(len(tt.called)) {
				t.Errorf("completer saw ud=%#x line=%q pos=%d", gotUD, gotLine, gotPos)
			}
			f.checkLeaks(t)
		})
	}
}

func TestCompleter_NoCandidates(t *testing.T) {
	replies := map[string]string{"null": "", "only delimiters": "_*#*__*#*_"}
	for name, reply := range replies {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, "ab\x02\tX\r", true)
			h := f.create(t, nil)
			calls := 0
			f.b.SetCompleter(h, func(_, _ rlbridge.Ptr, pos int32, _ *int32) rlbridge.Ptr {
				calls++
				if pos != 1 || reply == "" {
					return 0
				}
				return f.hostString(t, reply)
			}, 0)

			if env := f.take(t, f.b.ReadLine(h, 0)); env.Result != "aXb" {
				t.Errorf("got %+v", env)
			}
			if calls != 1 || !strings.Contains(f.out.String(), "\a") {
				t.Errorf("calls=%d, bell=%v", calls, strings.Contains(f.out.String(), "\a"))
			}
			f.checkLeaks(t)
		})
	}
}

func TestCompleter_Uninstall(t *testing.T) {
	f := newFixture(t, "a\t\r", true)
	h := f.create(t, nil)
	f.b.SetCompleter(h, func(_, _ rlbridge.Ptr, _ int32, _ *int32) rlbridge.Ptr {
		t.Error("uninstalled completer called")
		return 0
	}, 0x1)
	f.b.SetCompleter(h, nil, 0)

	if env := f.take(t, f.b.ReadLine(h, 0)); env.Result != "a" {
		t.Errorf("got %+v", env)
	}
	s, _ := f.b.Session(h)
	if ud := s.snapshot().userData; ud != 0x1 {
		t.Errorf("NULL user data replaced the shared pointer: %#x", ud)
	}
	f.checkLeaks(t)
}

func TestFileCompleter(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, "", true)
	path := f.cstr(t, filepath.Join(dir, "history"))
	h := f.create(t, nil)
	f.take(t, f.b.SaveHistory(h, path))
	f.b.Release(h)

	f = newFixture(t, "cat "+dir+string(filepath.Separator)+"hi\t\r", true)
	h = f.create(t, nil)
	f.b.UseFileCompleter(h)
	want := "cat " + filepath.Join(dir, "history")
	if env := f.take(t, f.b.ReadLine(h, 0)); env.Result != want {
		t.Errorf("got %q, want %q", env.Result, want)
	}
	f.checkLeaks(t)
}

func TestNestedCallIsBusy(t *testing.T) {
	f := newFixture(t, "he\t\r", true)
	h := f.create(t, nil)

	var nested []Envelope
	f.b.SetCompleter(h, func(_, _ rlbridge.Ptr, _ int32, _ *int32) rlbridge.Ptr {
		nested = append(nested, f.take(t, f.b.ReadLine(h, 0)))
		nested = append(nested, f.take(t, f.b.ClearHistory(h)))
		return f.hostString(t, "hello")
	}, 0)

	if env := f.take(t, f.b.ReadLine(h, 0)); env.Result != "hello" {
		t.Errorf("outer read = %+v", env)
	}
	if len(nested) != 2 {
		t.Fatalf("nested = %+v", nested)
	}
	for _, env := range nested {
		if env.Code != CodeUnknown || !strings.Contains(env.Message, "busy") {
			t.Errorf("nested call = %+v", env)
		}
	}
	f.checkLeaks(t)
}

func TestReleaseDuringRead(t *testing.T) {
	f := newFixture(t, "he\t\r", true)
	h := f.create(t, nil)
	f.b.SetCompleter(h, func(_, _ rlbridge.Ptr, _ int32, _ *int32) rlbridge.Ptr {
		f.b.Release(h)
		if _, ok := f.b.Session(h); ok {
			t.Error("released session still visible")
		}
		return f.hostString(t, "hello")
	}, 0)

	if env := f.take(t, f.b.ReadLine(h, 0)); env.Result != "hello" {
		t.Errorf("read = %+v", env)
	}
	if f.b.Sessions() != 0 {
		t.Error("session not dropped after read returned")
	}
	if env := f.take(t, f.b.ReadLine(h, 0)); env.Code != CodeInvalidHandle {
		t.Errorf("after release = %+v", env)
	}
	f.checkLeaks(t)
}

func TestValidator(t *testing.T) {
	f := newFixture(t, "(a\nb)\nbad\nodd\nok\n", false)
	h := f.create(t, nil)

	var seen []string
	f.b.SetValidator(h, func(ud, line rlbridge.Ptr, pos int32, msg *rlbridge.Ptr) int32 {
		text := f.read(t, line)
		seen = append(seen, text)
		if ud != 0x42 || int(pos) != len(text) {
			t.Errorf("validator ud=%#x pos=%d for %q", ud, pos, text)
		}
		switch {
		case text == "bad":
			*msg = f.hostString(t, "nope")
			return ValidationInvalid
		case text == "odd":
			return 7
		case strings.Count(text, "(") > strings.Count(text, ")"):
			return ValidationIncomplete
		}
		return ValidationValid
	}, 0x42)

	if env := f.take(t, f.b.ReadLine(h, f.cstr(t, "> "))); env.Result != "(a\nb)" {
		t.Errorf("multi-line = %+v", env)
	}
	if env := f.take(t, f.b.ReadLine(h, f.cstr(t, "> "))); env.Result != "ok" {
		t.Errorf("after invalid = %+v", env)
	}
	if !strings.Contains(f.out.String(), "nope\n") {
		t.Errorf("message not shown: %q", f.out.String())
	}
	want := []string{"(a", "(a\nb)", "bad", "odd", "ok"}
	if !slices.Equal(seen, want) {
		t.Errorf("validated %q, want %q", seen, want)
	}
	f.checkLeaks(t)
}

func TestValidator_PipedLastLine(t *testing.T) {
	f := newFixture(t, "bad", false)
	h := f.create(t, nil)
	calls := 0
	f.b.SetValidator(h, func(_, _ rlbridge.Ptr, _ int32, msg *rlbridge.Ptr) int32 {
		calls++
		*msg = f.hostString(t, "nope")
		return ValidationInvalid
	}, 0)

	if env := f.take(t, f.b.ReadLine(h, 0)); env.Code != CodeEOF {
		t.Errorf("invalid unterminated line = %+v, want EOF", env)
	}
	if calls != 1 {
		t.Errorf("validator called %d times", calls)
	}
	if !strings.Contains(f.out.String(), "nope\n") {
		t.Errorf("message not shown: %q", f.out.String())
	}
	f.checkLeaks(t)
}

func TestValidateWhileTyping(t *testing.T) {
	f := newFixture(t, "bad\x15ok\r", true)
	h := f.create(t, nil)
	f.b.SetValidator(h, func(_, line rlbridge.Ptr, _ int32, msg *rlbridge.Ptr) int32 {
		if f.read(t, line) == "bad" {
			*msg = f.hostString(t, "nope")
			return ValidationInvalid
		}
		return ValidationValid
	}, 0)
	f.b.SetValidateWhileTyping(h, true)

	if env := f.take(t, f.b.ReadLine(h, 0)); env.Result != "ok" {
		t.Errorf("read = %+v", env)
	}
	if !strings.Contains(f.out.String(), "nope") {
		t.Errorf("message not shown while typing: %q", f.out.String())
	}
	f.checkLeaks(t)
}

func TestHintHighlighter(t *testing.T) {
	f := newFixture(t, "hel\r", true)
	h := f.create(t, nil)
	if env := f.take(t, f.b.SetColorMode(h, int32(editor.ColorForced))); env.Code != CodeOK {
		t.Fatalf("SetColorMode = %+v", env)
	}
	f.b.AddHistoryEntry(h, f.cstr(t, "hello world"))

	var hints []string
	f.b.SetHintHighlighter(h, func(_, hint rlbridge.Ptr) rlbridge.Ptr {
		text := f.read(t, hint)
		hints = append(hints, text)
		return f.hostString(t, "("+text+")")
	}, 0)

	if env := f.take(t, f.b.ReadLine(h, 0)); env.Result != "hel" {
		t.Errorf("read = %+v", env)
	}
	if !slices.Contains(hints, "lo world") {
		t.Errorf("hint highlighter saw %q", hints)
	}
	if !strings.Contains(f.out.String(), "(lo world)") {
		t.Errorf("highlighted hint not rendered: %q", f.out.String())
	}
	f.checkLeaks(t)
}

func TestHighlighters(t *testing.T) {
	f := newFixture(t, "he\t\r", true)
	h := f.create(t, nil)
	if env := f.take(t, f.b.SetColorMode(h, int32(editor.ColorForced))); env.Code != CodeOK || env.HasResult {
		t.Fatalf("SetColorMode = %+v", env)
	}

	wrap := func(l, r string, p rlbridge.Ptr) rlbridge.Ptr {
		return f.hostString(t, l+f.read(t, p)+r)
	}
	var candidateType int32 = -1
	f.b.SetPromptHighlighter(h, func(_, p rlbridge.Ptr, isDefault bool) rlbridge.Ptr {
		if !isDefault {
			return 0
		}
		return wrap("[", "]", p)
	}, 0)
	f.b.SetHighlighter(h, func(_, line rlbridge.Ptr, _ int32) rlbridge.Ptr {
		return wrap("<", ">", line)
	}, 0)
	f.b.SetCandidateHighlighter(h, func(_, c rlbridge.Ptr, ct int32) rlbridge.Ptr {
		candidateType = ct
		return wrap("{", "}", c)
	}, 0)
	f.b.SetHintHighlighter(h, func(_, _ rlbridge.Ptr) rlbridge.Ptr { return 0 }, 0)
	f.b.SetCompleter(h, func(_, _ rlbridge.Ptr, _ int32, _ *int32) rlbridge.Ptr {
		return f.hostString(t, "hello_*#*_help")
	}, 0)

	if env := f.take(t, f.b.ReadLine(h, f.cstr(t, "> "))); env.Result != "hello" {
		t.Errorf("read = %+v", env)
	}
	out := f.out.String()
	for _, want := range []string{"[> ]", "<he>", "{hello}"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q lacks %q", out, want)
		}
	}
	if candidateType != int32(editor.Circular) {
		t.Errorf("candidate type = %d", candidateType)
	}

	if env := f.take(t, f.b.SetColorMode(h, 9)); env.Code != CodeConfig {
		t.Errorf("invalid colour mode = %+v", env)
	}
	f.checkLeaks(t)
}

func TestScreenControls(t *testing.T) {
	f := newFixture(t, "", true)
	h := f.create(t, nil)
	for _, p := range []rlbridge.Ptr{
		f.b.ClearScreen(h),
		f.b.SetCursorVisibility(h, false),
		f.b.SetCursorVisibility(h, true),
	} {
		if env := f.take(t, p); env.Code != CodeOK || env.HasResult {
			t.Errorf("got %+v", env)
		}
	}
	if got := f.out.String(); got != "\x1b[H\x1b[2J\x1b[?25l\x1b[?25h" {
		t.Errorf("output = %q", got)
	}
	f.checkLeaks(t)
}

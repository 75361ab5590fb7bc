package editor

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// HistoryDuplicates selects how repeated lines enter the history.
type HistoryDuplicates int

const (
	// AlwaysAdd records every accepted line.
	AlwaysAdd HistoryDuplicates = iota
	// IgnoreConsecutive drops a line equal to the most recent entry.
	IgnoreConsecutive
)

// CompletionType selects how multiple completion candidates are offered.
type CompletionType int

const (
	// Circular replaces the word with each candidate in turn.
	Circular CompletionType = iota
	// List inserts the longest common prefix and prints all candidates.
	List
)

// EditMode selects the key binding set.
type EditMode int

const (
	Emacs EditMode = iota
	Vi
)

// BellStyle selects how the editor signals a refused action.
type BellStyle int

const (
	// Audible writes BEL.
	Audible BellStyle = iota
	// NoBell stays silent.
	NoBell
	// Visible flashes the screen.
	Visible
)

// ColorMode controls when highlighters are applied.
type ColorMode int

const (
	// ColorEnabled highlights when output is a terminal.
	ColorEnabled ColorMode = iota
	// ColorForced always highlights.
	ColorForced
	// ColorDisabled never highlights.
	ColorDisabled
)

// Behavior selects the input and output streams.
type Behavior int

const (
	// Stdio uses the process standard streams.
	Stdio Behavior = iota
	// PreferTerm uses the controlling terminal when one can be opened.
	PreferTerm
)

var (
	historyDuplicatesNames = []string{"always_add", "ignore_consecutive"}
	completionTypeNames    = []string{"circular", "list"}
	editModeNames          = []string{"emacs", "vi"}
	bellStyleNames         = []string{"audible", "none", "visible"}
	colorModeNames         = []string{"enabled", "forced", "disabled"}
	behaviorNames          = []string{"stdio", "prefer_term"}
)

func enumName(names []string, v int) string {
	if v >= 0 && v < len(names) {
		return names[v]
	}
	return fmt.Sprintf("unknown(%d)", v)
}

func parseEnum(names []string, what, s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q (want one of %s)", what, s, strings.Join(names, ", "))
}

func (d HistoryDuplicates) String() string { return enumName(historyDuplicatesNames, int(d)) }
func (c CompletionType) String() string    { return enumName(completionTypeNames, int(c)) }
func (m EditMode) String() string          { return enumName(editModeNames, int(m)) }
func (b BellStyle) String() string         { return enumName(bellStyleNames, int(b)) }
func (c ColorMode) String() string         { return enumName(colorModeNames, int(c)) }
func (b Behavior) String() string          { return enumName(behaviorNames, int(b)) }

// Valid reports whether d is a known policy.
func (d HistoryDuplicates) Valid() bool { return d >= AlwaysAdd && d <= IgnoreConsecutive }
func (c CompletionType) Valid() bool    { return c >= Circular && c <= List }
func (m EditMode) Valid() bool          { return m >= Emacs && m <= Vi }
func (b BellStyle) Valid() bool         { return b >= Audible && b <= Visible }
func (c ColorMode) Valid() bool         { return c >= ColorEnabled && c <= ColorDisabled }
func (b Behavior) Valid() bool          { return b >= Stdio && b <= PreferTerm }

// UnmarshalText lets configuration files name enumerants.

func (d *HistoryDuplicates) UnmarshalText(b []byte) error {
	v, err := parseEnum(historyDuplicatesNames, "history duplicates policy", string(b))
	*d = HistoryDuplicates(v)
	return err
}

func (c *CompletionType) UnmarshalText(b []byte) error {
	v, err := parseEnum(completionTypeNames, "completion type", string(b))
	*c = CompletionType(v)
	return err
}

func (m *EditMode) UnmarshalText(b []byte) error {
	v, err := parseEnum(editModeNames, "edit mode", string(b))
	*m = EditMode(v)
	return err
}

func (b *BellStyle) UnmarshalText(t []byte) error {
	v, err := parseEnum(bellStyleNames, "bell style", string(t))
	*b = BellStyle(v)
	return err
}

func (c *ColorMode) UnmarshalText(b []byte) error {
	v, err := parseEnum(colorModeNames, "color mode", string(b))
	*c = ColorMode(v)
	return err
}

func (b *Behavior) UnmarshalText(t []byte) error {
	v, err := parseEnum(behaviorNames, "behavior", string(t))
	*b = Behavior(v)
	return err
}

// NoKeySeqTimeout disables the escape sequence timeout.
const NoKeySeqTimeout = -1

// Config is the typed editor configuration.
type Config struct {
	MaxHistorySize               int               `toml:"max_history_size"`
	HistoryDuplicates            HistoryDuplicates `toml:"history_duplicates"`
	HistoryIgnoreSpace           bool              `toml:"history_ignore_space"`
	CompletionType               CompletionType    `toml:"completion_type"`
	CompletionShowAllIfAmbiguous bool              `toml:"completion_show_all_if_ambiguous"`
	CompletionPromptLimit        int               `toml:"completion_prompt_limit"`
	// KeySeqTimeout is in milliseconds. Negative means no timeout.
	KeySeqTimeout            int       `toml:"key_seq_timeout"`
	EditMode                 EditMode  `toml:"edit_mode"`
	AutoAddHistory           bool      `toml:"auto_add_history"`
	BellStyle                BellStyle `toml:"bell_style"`
	ColorMode                ColorMode `toml:"color_mode"`
	Behavior                 Behavior  `toml:"behavior"`
	TabStop                  int       `toml:"tab_stop"`
	IndentSize               int       `toml:"indent_size"`
	CheckCursorPosition      bool      `toml:"check_cursor_position"`
	EnableBracketedPaste     bool      `toml:"enable_bracketed_paste"`
	EnableSynchronizedOutput bool      `toml:"enable_synchronized_output"`
	EnableSignals            bool      `toml:"enable_signals"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		MaxHistorySize:           100,
		HistoryDuplicates:        IgnoreConsecutive,
		CompletionType:           Circular,
		CompletionPromptLimit:    100,
		KeySeqTimeout:            NoKeySeqTimeout,
		EditMode:                 Emacs,
		BellStyle:                defaultBellStyle,
		ColorMode:                ColorEnabled,
		Behavior:                 Stdio,
		TabStop:                  8,
		IndentSize:               2,
		EnableBracketedPaste:     true,
		EnableSynchronizedOutput: true,
	}
}

// Validate reports every invalid field. Negative sizes are invalid here;
// callers translating foreign records clamp them first.
func (c Config) Validate() error {
	var err error
	if c.MaxHistorySize < 0 {
		err = multierr.Append(err, fmt.Errorf("max_history_size: negative value %d", c.MaxHistorySize))
	}
	if !c.HistoryDuplicates.Valid() {
		err = multierr.Append(err, fmt.Errorf("history_duplicates: %s", c.HistoryDuplicates))
	}
	if !c.CompletionType.Valid() {
		err = multierr.Append(err, fmt.Errorf("completion_type: %s", c.CompletionType))
	}
	if c.CompletionPromptLimit < 0 {
		err = multierr.Append(err, fmt.Errorf("completion_prompt_limit: negative value %d", c.CompletionPromptLimit))
	}
	if !c.EditMode.Valid() {
		err = multierr.Append(err, fmt.Errorf("edit_mode: %s", c.EditMode))
	}
	if !c.BellStyle.Valid() {
		err = multierr.Append(err, fmt.Errorf("bell_style: %s", c.BellStyle))
	}
	if !c.ColorMode.Valid() {
		err = multierr.Append(err, fmt.Errorf("color_mode: %s", c.ColorMode))
	}
	if !c.Behavior.Valid() {
		err = multierr.Append(err, fmt.Errorf("behavior: %s", c.Behavior))
	}
	if c.TabStop < 1 || c.TabStop > 255 {
		err = multierr.Append(err, fmt.Errorf("tab_stop: %d out of range 1..255", c.TabStop))
	}
	if c.IndentSize < 0 || c.IndentSize > 255 {
		err = multierr.Append(err, fmt.Errorf("indent_size: %d out of range 0..255", c.IndentSize))
	}
	return err
}

package bridge

import (
	"go.uber.org/multierr"

	"github.com/wippyai/rlbridge"
	"github.com/wippyai/rlbridge/editor"
	"github.com/wippyai/rlbridge/errors"
)

// ConfigVersion is the only EditorConfig layout this bridge accepts.
const ConfigVersion = 1

// ConfigRecord mirrors the foreign EditorConfig record field for field.
type ConfigRecord struct {
	Version                      uint32
	MaxHistorySize               int32
	HistoryDuplicates            int32
	HistoryIgnoreSpace           bool
	CompletionType               int32
	CompletionShowAllIfAmbiguous bool
	CompletionPromptLimit        int32
	KeySeqTimeout                int32
	EditMode                     int32
	AutoAddHistory               bool
	BellStyle                    int32
	ColorMode                    int32
	Behavior                     int32
	TabStop                      uint8
	IndentSize                   uint8
	CheckCursorPosition          bool
	EnableBracketedPaste         bool
	EnableSynchronizedOutput     bool
	EnableSignals                bool
}

// EditorConfig field offsets under natural C alignment.
const (
	OffVersion                      rlbridge.Ptr = 0
	OffMaxHistorySize               rlbridge.Ptr = 4
	OffHistoryDuplicates            rlbridge.Ptr = 8
	OffHistoryIgnoreSpace           rlbridge.Ptr = 12
	OffCompletionType               rlbridge.Ptr = 16
	OffCompletionShowAllIfAmbiguous rlbridge.Ptr = 20
	OffCompletionPromptLimit        rlbridge.Ptr = 24
	OffKeySeqTimeout                rlbridge.Ptr = 28
	OffEditMode                     rlbridge.Ptr = 32
	OffAutoAddHistory               rlbridge.Ptr = 36
	OffBellStyle                    rlbridge.Ptr = 40
	OffColorMode                    rlbridge.Ptr = 44
	OffBehavior                     rlbridge.Ptr = 48
	OffTabStop                      rlbridge.Ptr = 52
	OffIndentSize                   rlbridge.Ptr = 53
	OffCheckCursorPosition          rlbridge.Ptr = 54
	OffEnableBracketedPaste         rlbridge.Ptr = 55
	OffEnableSynchronizedOutput     rlbridge.Ptr = 56
	OffEnableSignals                rlbridge.Ptr = 57

	ConfigRecordSize = 60
)

// DefaultConfigRecord returns a record that translates to editor.DefaultConfig.
func DefaultConfigRecord() ConfigRecord {
	d := editor.DefaultConfig()
	return ConfigRecord{
		Version:                  ConfigVersion,
		MaxHistorySize:           int32(d.MaxHistorySize),
		HistoryDuplicates:        int32(d.HistoryDuplicates),
		CompletionType:           int32(d.CompletionType),
		CompletionPromptLimit:    int32(d.CompletionPromptLimit),
		KeySeqTimeout:            int32(d.KeySeqTimeout),
		EditMode:                 int32(d.EditMode),
		BellStyle:                int32(d.BellStyle),
		ColorMode:                int32(d.ColorMode),
		Behavior:                 int32(d.Behavior),
		TabStop:                  uint8(d.TabStop),
		IndentSize:               uint8(d.IndentSize),
		EnableBracketedPaste:     d.EnableBracketedPaste,
		EnableSynchronizedOutput: d.EnableSynchronizedOutput,
	}
}

// ReadConfigRecord copies the record at ptr. The bridge keeps no reference to
// foreign memory afterwards.
func ReadConfigRecord(mem rlbridge.Memory, ptr rlbridge.Ptr) (ConfigRecord, error) {
	var rec ConfigRecord
	if ptr == 0 {
		return rec, errors.NilPointer(errors.PhaseConfig, []string{"EditorConfig"}, "const EditorConfig*")
	}
	raw, err := mem.Read(ptr, ConfigRecordSize)
	if err != nil {
		return rec, errors.Wrap(errors.PhaseConfig, errors.KindOutOfBounds, err, "read EditorConfig")
	}

	i32 := func(off rlbridge.Ptr) int32 {
		v, e := mem.ReadI32(ptr + off)
		err = multierr.Append(err, e)
		return v
	}
	flag := func(off rlbridge.Ptr) bool { return raw[off] != 0 }

	rec = ConfigRecord{
		Version:                      uint32(i32(OffVersion)),
		MaxHistorySize:               i32(OffMaxHistorySize),
		HistoryDuplicates:            i32(OffHistoryDuplicates),
		HistoryIgnoreSpace:           flag(OffHistoryIgnoreSpace),
		CompletionType:               i32(OffCompletionType),
		CompletionShowAllIfAmbiguous: flag(OffCompletionShowAllIfAmbiguous),
		CompletionPromptLimit:        i32(OffCompletionPromptLimit),
		KeySeqTimeout:                i32(OffKeySeqTimeout),
		EditMode:                     i32(OffEditMode),
		AutoAddHistory:               flag(OffAutoAddHistory),
		BellStyle:                    i32(OffBellStyle),
		ColorMode:                    i32(OffColorMode),
		Behavior:                     i32(OffBehavior),
		TabStop:                      raw[OffTabStop],
		IndentSize:                   raw[OffIndentSize],
		CheckCursorPosition:          flag(OffCheckCursorPosition),
		EnableBracketedPaste:         flag(OffEnableBracketedPaste),
		EnableSynchronizedOutput:     flag(OffEnableSynchronizedOutput),
		EnableSignals:                flag(OffEnableSignals),
	}
	if err != nil {
		return ConfigRecord{}, errors.Wrap(errors.PhaseConfig, errors.KindOutOfBounds, err, "read EditorConfig")
	}
	return rec, nil
}

// WriteConfigRecord stores rec at ptr, which must hold ConfigRecordSize bytes.
func WriteConfigRecord(mem rlbridge.Memory, ptr rlbridge.Ptr, rec ConfigRecord) error {
	raw := make([]byte, ConfigRecordSize)
	b := func(v bool) byte {
		if v {
			return 1
		}
		return 0
	}
	raw[OffHistoryIgnoreSpace] = b(rec.HistoryIgnoreSpace)
	raw[OffCompletionShowAllIfAmbiguous] = b(rec.CompletionShowAllIfAmbiguous)
	raw[OffAutoAddHistory] = b(rec.AutoAddHistory)
	raw[OffTabStop] = rec.TabStop
	raw[OffIndentSize] = rec.IndentSize
	raw[OffCheckCursorPosition] = b(rec.CheckCursorPosition)
	raw[OffEnableBracketedPaste] = b(rec.EnableBracketedPaste)
	raw[OffEnableSynchronizedOutput] = b(rec.EnableSynchronizedOutput)
	raw[OffEnableSignals] = b(rec.EnableSignals)
	if err := mem.Write(ptr, raw); err != nil {
		return err
	}

	ints := []struct {
		off rlbridge.Ptr
		v   int32
	}{
		{OffVersion, int32(rec.Version)},
		{OffMaxHistorySize, rec.MaxHistorySize},
		{OffHistoryDuplicates, rec.HistoryDuplicates},
		{OffCompletionType, rec.CompletionType},
		{OffCompletionPromptLimit, rec.CompletionPromptLimit},
		{OffKeySeqTimeout, rec.KeySeqTimeout},
		{OffEditMode, rec.EditMode},
		{OffBellStyle, rec.BellStyle},
		{OffColorMode, rec.ColorMode},
		{OffBehavior, rec.Behavior},
	}
	for _, f := range ints {
		if err := mem.WriteI32(ptr+f.off, f.v); err != nil {
			return err
		}
	}
	return nil
}

func configPath(field string) []string {
	return []string{"EditorConfig", field}
}

// Translate converts a record into an editor configuration. Every invalid
// enumerant is reported; none is replaced by a default. Negative history and
// prompt limits clamp to zero and a negative key timeout means none.
func Translate(rec ConfigRecord) (editor.Config, error) {
	if rec.Version != ConfigVersion {
		return editor.Config{}, errors.UnsupportedVersion(errors.PhaseConfig, configPath("version"), rec.Version, ConfigVersion)
	}

	var errs error
	enum := func(field string, raw int32, valid bool, goType string) {
		if !valid {
			errs = multierr.Append(errs, errors.InvalidEnum(errors.PhaseConfig, configPath(field), raw, goType))
		}
	}

	dups := editor.HistoryDuplicates(rec.HistoryDuplicates)
	enum("history_duplicates", rec.HistoryDuplicates, dups.Valid(), "editor.HistoryDuplicates")
	ct := editor.CompletionType(rec.CompletionType)
	enum("completion_type", rec.CompletionType, ct.Valid(), "editor.CompletionType")
	mode := editor.EditMode(rec.EditMode)
	enum("edit_mode", rec.EditMode, mode.Valid(), "editor.EditMode")
	bell := editor.BellStyle(rec.BellStyle)
	enum("bell_style", rec.BellStyle, bell.Valid(), "editor.BellStyle")
	color := editor.ColorMode(rec.ColorMode)
	enum("color_mode", rec.ColorMode, color.Valid(), "editor.ColorMode")
	behavior := editor.Behavior(rec.Behavior)
	enum("behavior", rec.Behavior, behavior.Valid(), "editor.Behavior")

	if rec.TabStop == 0 {
		errs = multierr.Append(errs, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path(configPath("tab_stop")...).
			Value(rec.TabStop).
			Detail("tab stop must be at least 1").
			Build())
	}
	if errs != nil {
		return editor.Config{}, errs
	}

	timeout := int(rec.KeySeqTimeout)
	if timeout < 0 {
		timeout = editor.NoKeySeqTimeout
	}
	cfg := editor.Config{
		MaxHistorySize:               max(0, int(rec.MaxHistorySize)),
		HistoryDuplicates:            dups,
		HistoryIgnoreSpace:           rec.HistoryIgnoreSpace,
		CompletionType:               ct,
		CompletionShowAllIfAmbiguous: rec.CompletionShowAllIfAmbiguous,
		CompletionPromptLimit:        max(0, int(rec.CompletionPromptLimit)),
		KeySeqTimeout:                timeout,
		EditMode:                     mode,
		AutoAddHistory:               rec.AutoAddHistory,
		BellStyle:                    bell,
		ColorMode:                    color,
		Behavior:                     behavior,
		TabStop:                      int(rec.TabStop),
		IndentSize:                   int(rec.IndentSize),
		CheckCursorPosition:          rec.CheckCursorPosition,
		EnableBracketedPaste:         rec.EnableBracketedPaste,
		EnableSynchronizedOutput:     rec.EnableSynchronizedOutput,
		EnableSignals:                rec.EnableSignals,
	}
	if err := cfg.Validate(); err != nil {
		return editor.Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "EditorConfig")
	}
	return cfg, nil
}

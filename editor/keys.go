package editor

import (
	"bufio"
	"strconv"
	"strings"
	"unicode/utf8"
)

// KeyCode identifies a decoded key.
type KeyCode int

const (
	KeyUnknown KeyCode = iota
	KeyRune
	KeyCtrl
	KeyEnter
	KeyTab
	KeyBackTab
	KeyBackspace
	KeyDelete
	KeyEsc
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyPasteStart
	KeyCursorReport
)

// Key is one decoded input event.
type Key struct {
	Code KeyCode
	// Rune is the character for KeyRune and the lower-case letter for KeyCtrl.
	Rune rune
	Alt  bool
	Ctrl bool
	// Row and Col are set for KeyCursorReport, 1-based.
	Row, Col int
}

func ctrl(r rune) Key { return Key{Code: KeyCtrl, Rune: r} }

const (
	esc          = 0x1b
	pasteEnd     = "\x1b[201~"
	maxCSILength = 32
)

// keyReader decodes terminal input into keys.
type keyReader struct {
	r *bufio.Reader
	// meta combines ESC with a following buffered key into an Alt key.
	meta bool
}

func newKeyReader(r *bufio.Reader, meta bool) *keyReader {
	return &keyReader{r: r, meta: meta}
}

// ReadKey returns the next key. Bytes that are not valid UTF-8 decode as
// utf8.RuneError.
func (k *keyReader) ReadKey() (Key, error) {
	c, _, err := k.r.ReadRune()
	if err != nil {
		return Key{}, err
	}
	switch {
	case c == '\r' || c == '\n':
		return Key{Code: KeyEnter}, nil
	case c == '\t':
		return Key{Code: KeyTab}, nil
	case c == 0x7f || c == 0x08:
		return Key{Code: KeyBackspace}, nil
	case c == esc:
		return k.readEscape()
	case c >= 1 && c <= 26:
		return ctrl('a' + c - 1), nil
	case c < 0x20:
		return Key{Code: KeyUnknown, Rune: c}, nil
	}
	return Key{Code: KeyRune, Rune: c}, nil
}

func (k *keyReader) readEscape() (Key, error) {
	// A lone ESC arrives without a follow-up byte in the same read.
	if k.r.Buffered() == 0 {
		return Key{Code: KeyEsc}, nil
	}
	next, err := k.r.Peek(1)
	if err != nil {
		return Key{Code: KeyEsc}, nil
	}
	switch next[0] {
	case '[':
		k.r.ReadByte()
		return k.readCSI()
	case 'O':
		k.r.ReadByte()
		return k.readSS3()
	}
	if !k.meta {
		return Key{Code: KeyEsc}, nil
	}
	key, err := k.ReadKey()
	if err != nil {
		return Key{Code: KeyEsc}, nil
	}
	key.Alt = true
	return key, nil
}

func (k *keyReader) readSS3() (Key, error) {
	b, err := k.r.ReadByte()
	if err != nil {
		return Key{}, err
	}
	switch b {
	case 'A':
		return Key{Code: KeyUp}, nil
	case 'B':
		return Key{Code: KeyDown}, nil
	case 'C':
		return Key{Code: KeyRight}, nil
	case 'D':
		return Key{Code: KeyLeft}, nil
	case 'H':
		return Key{Code: KeyHome}, nil
	case 'F':
		return Key{Code: KeyEnd}, nil
	}
	return Key{Code: KeyUnknown}, nil
}

func (k *keyReader) readCSI() (Key, error) {
	var params strings.Builder
	for {
		b, err := k.r.ReadByte()
		if err != nil {
			return Key{}, err
		}
		if b >= 0x40 && b <= 0x7e {
			return decodeCSI(params.String(), b), nil
		}
		if params.Len() >= maxCSILength {
			return Key{Code: KeyUnknown}, nil
		}
		params.WriteByte(b)
	}
}

func decodeCSI(params string, final byte) Key {
	fields := strings.Split(params, ";")
	num := func(i int) int {
		if i >= len(fields) {
			return 0
		}
		n, _ := strconv.Atoi(fields[i])
		return n
	}

	var key Key
	switch final {
	case 'A':
		key.Code = KeyUp
	case 'B':
		key.Code = KeyDown
	case 'C':
		key.Code = KeyRight
	case 'D':
		key.Code = KeyLeft
	case 'H':
		key.Code = KeyHome
	case 'F':
		key.Code = KeyEnd
	case 'Z':
		return Key{Code: KeyBackTab}
	case 'R':
		return Key{Code: KeyCursorReport, Row: num(0), Col: num(1)}
	case '~':
		switch num(0) {
		case 1, 7:
			key.Code = KeyHome
		case 4, 8:
			key.Code = KeyEnd
		case 3:
			key.Code = KeyDelete
		case 5:
			key.Code = KeyPageUp
		case 6:
			key.Code = KeyPageDown
		case 200:
			return Key{Code: KeyPasteStart}
		default:
			return Key{Code: KeyUnknown}
		}
	default:
		return Key{Code: KeyUnknown}
	}

	// xterm modifier parameter: 1 + (shift=1 | alt=2 | ctrl=4)
	if mod := num(1); mod > 1 {
		mod--
		key.Alt = mod&2 != 0
		key.Ctrl = mod&4 != 0
	}
	return key
}

// readPaste returns the text up to the end-of-paste marker with line endings
// normalized to \n.
func (k *keyReader) readPaste() (string, error) {
	var buf []byte
	for {
		b, err := k.r.ReadByte()
		if err != nil {
			return normalizePaste(buf), err
		}
		buf = append(buf, b)
		if len(buf) >= len(pasteEnd) && string(buf[len(buf)-len(pasteEnd):]) == pasteEnd {
			return normalizePaste(buf[:len(buf)-len(pasteEnd)]), nil
		}
	}
}

func normalizePaste(b []byte) string {
	s := strings.ReplaceAll(string(b), "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, string(utf8.RuneError))
	}
	return s
}

package editor

import (
	"unicode"
	"unicode/utf8"
)

// lineBuffer is the edited text with a cursor, both in runes.
type lineBuffer struct {
	buf []rune
	pos int
}

func (b *lineBuffer) String() string { return string(b.buf) }
func (b *lineBuffer) Len() int       { return len(b.buf) }
func (b *lineBuffer) Empty() bool    { return len(b.buf) == 0 }

// BytePos returns the cursor as a UTF-8 byte offset.
func (b *lineBuffer) BytePos() int {
	n := 0
	for _, r := range b.buf[:b.pos] {
		n += utf8.RuneLen(r)
	}
	return n
}

// runeIndex converts a byte offset in the buffer text to a rune index,
// clamping to the buffer.
func (b *lineBuffer) runeIndex(byteOff int) int {
	n := 0
	for i, r := range b.buf {
		if n >= byteOff {
			return i
		}
		n += utf8.RuneLen(r)
	}
	return len(b.buf)
}

func (b *lineBuffer) Set(s string) {
	b.buf = []rune(s)
	b.pos = len(b.buf)
}

func (b *lineBuffer) Reset() {
	b.buf = b.buf[:0]
	b.pos = 0
}

func (b *lineBuffer) Insert(rs ...rune) {
	b.buf = append(b.buf[:b.pos], append(rs, b.buf[b.pos:]...)...)
	b.pos += len(rs)
}

func (b *lineBuffer) InsertString(s string) { b.Insert([]rune(s)...) }

// Replace substitutes runes [start, end) with s and leaves the cursor after it.
func (b *lineBuffer) Replace(start, end int, s string) {
	rs := []rune(s)
	tail := append([]rune(nil), b.buf[end:]...)
	b.buf = append(append(b.buf[:start], rs...), tail...)
	b.pos = start + len(rs)
}

// Delete removes runes [start, end) and returns them.
func (b *lineBuffer) Delete(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(b.buf) {
		end = len(b.buf)
	}
	if start >= end {
		return ""
	}
	removed := string(b.buf[start:end])
	b.buf = append(b.buf[:start], b.buf[end:]...)
	if b.pos > end {
		b.pos -= end - start
	} else if b.pos > start {
		b.pos = start
	}
	return removed
}

func (b *lineBuffer) Backspace() bool {
	if b.pos == 0 {
		return false
	}
	b.Delete(b.pos-1, b.pos)
	return true
}

func (b *lineBuffer) DeleteChar() bool {
	if b.pos >= len(b.buf) {
		return false
	}
	b.Delete(b.pos, b.pos+1)
	return true
}

func (b *lineBuffer) Left() bool {
	if b.pos == 0 {
		return false
	}
	b.pos--
	return true
}

func (b *lineBuffer) Right() bool {
	if b.pos >= len(b.buf) {
		return false
	}
	b.pos++
	return true
}

// lineStart returns the index of the first rune of the logical line holding
// the cursor.
func (b *lineBuffer) lineStart() int {
	i := b.pos
	for i > 0 && b.buf[i-1] != '\n' {
		i--
	}
	return i
}

func (b *lineBuffer) lineEnd() int {
	i := b.pos
	for i < len(b.buf) && b.buf[i] != '\n' {
		i++
	}
	return i
}

func (b *lineBuffer) Home() { b.pos = b.lineStart() }
func (b *lineBuffer) End()  { b.pos = b.lineEnd() }

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// wordStartBefore returns the start of the word left of pos.
func (b *lineBuffer) wordStartBefore(pos int) int {
	i := pos
	for i > 0 && !isWordRune(b.buf[i-1]) {
		i--
	}
	for i > 0 && isWordRune(b.buf[i-1]) {
		i--
	}
	return i
}

// wordEndAfter returns the end of the word right of pos.
func (b *lineBuffer) wordEndAfter(pos int) int {
	i := pos
	for i < len(b.buf) && !isWordRune(b.buf[i]) {
		i++
	}
	for i < len(b.buf) && isWordRune(b.buf[i]) {
		i++
	}
	return i
}

// nextWordStart returns the start of the next word after pos, vi style.
func (b *lineBuffer) nextWordStart(pos int) int {
	i := pos
	for i < len(b.buf) && isWordRune(b.buf[i]) {
		i++
	}
	for i < len(b.buf) && !isWordRune(b.buf[i]) {
		i++
	}
	return i
}

func (b *lineBuffer) WordLeft()  { b.pos = b.wordStartBefore(b.pos) }
func (b *lineBuffer) WordRight() { b.pos = b.wordEndAfter(b.pos) }

func (b *lineBuffer) KillToEnd() string   { return b.Delete(b.pos, b.lineEnd()) }
func (b *lineBuffer) KillToStart() string { return b.Delete(b.lineStart(), b.pos) }

func (b *lineBuffer) KillWordBack() string {
	return b.Delete(b.wordStartBefore(b.pos), b.pos)
}

func (b *lineBuffer) KillWordForward() string {
	return b.Delete(b.pos, b.wordEndAfter(b.pos))
}

// Transpose swaps the two runes around the cursor, or the last two at the end
// of the line.
func (b *lineBuffer) Transpose() bool {
	if len(b.buf) < 2 || b.pos == 0 {
		return false
	}
	if b.pos == len(b.buf) {
		b.pos--
	}
	b.buf[b.pos-1], b.buf[b.pos] = b.buf[b.pos], b.buf[b.pos-1]
	b.pos++
	return true
}

// firstNonBlank returns the index of the first non-space rune of the current
// logical line.
func (b *lineBuffer) firstNonBlank() int {
	i := b.lineStart()
	for i < len(b.buf) && b.buf[i] != '\n' && unicode.IsSpace(b.buf[i]) {
		i++
	}
	return i
}

// Indent adds n spaces at the start of the current logical line.
func (b *lineBuffer) Indent(n int) {
	if n <= 0 {
		return
	}
	start := b.lineStart()
	pad := make([]rune, n)
	for i := range pad {
		pad[i] = ' '
	}
	b.buf = append(b.buf[:start], append(pad, b.buf[start:]...)...)
	b.pos += n
}

// Dedent removes up to n leading spaces from the current logical line.
func (b *lineBuffer) Dedent(n int) {
	start := b.lineStart()
	end := start
	for end < len(b.buf) && end-start < n && b.buf[end] == ' ' {
		end++
	}
	b.Delete(start, end)
}

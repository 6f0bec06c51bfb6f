package jsonscan

import (
	"fmt"
	"strings"
)

// ParseError describes the first grammar violation met by a Cursor.
// It is a diagnostic, not a failure: callers keep the partial result.
type ParseError struct {
	// Offset is the byte offset in the scanned text where the error was detected.
	Offset int

	// Message describes what was expected.
	Message string
}

// Error satisfies the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Message)
}

// Cursor is a forward-only scan position over an immutable text.
//
// Every Try* method either succeeds and advances, or fails and leaves the
// offset where it was. Once SetError has been called the Cursor is latched:
// all further operations fail without moving.
type Cursor struct {
	text string
	pos  int
	err  *ParseError
}

// NewCursor creates a Cursor positioned at offset 0.
func NewCursor(text string) *Cursor {
	return &Cursor{text: text}
}

// NewCursorAt creates a Cursor positioned at offset. It is used for
// lookahead that must not disturb the main traversal.
func NewCursorAt(text string, offset int) *Cursor {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	return &Cursor{text: text, pos: offset}
}

// Text returns the scanned text.
func (c *Cursor) Text() string { return c.text }

// Pos returns the current offset.
func (c *Cursor) Pos() int { return c.pos }

// AtEnd reports whether the whole text has been consumed.
func (c *Cursor) AtEnd() bool { return c.pos >= len(c.text) }

// Failed reports whether an error has been latched.
func (c *Cursor) Failed() bool { return c.err != nil }

// Err returns the latched error, or nil.
func (c *Cursor) Err() *ParseError { return c.err }

// Head returns the byte at the current offset. It reports false at the end
// of the text or when an error is latched.
func (c *Cursor) Head() (byte, bool) {
	if c.err != nil || c.pos >= len(c.text) {
		return 0, false
	}
	return c.text[c.pos], true
}

// SetError latches msg at the current offset. Only the first error is kept.
// It always returns false so grammar functions can write
// `return c.SetError("...")`.
func (c *Cursor) SetError(msg string) bool {
	if c.err == nil {
		c.err = &ParseError{Offset: c.pos, Message: msg}
	}
	return false
}

// SetErrorf is SetError with formatting.
func (c *Cursor) SetErrorf(format string, args ...interface{}) bool {
	return c.SetError(fmt.Sprintf(format, args...))
}

// TryChar consumes b if it is the next byte.
func (c *Cursor) TryChar(b byte) bool {
	if h, ok := c.Head(); ok && h == b {
		c.pos++
		return true
	}
	return false
}

// TryLiteral consumes s if the text continues with it.
func (c *Cursor) TryLiteral(s string) bool {
	if c.err != nil || !strings.HasPrefix(c.text[c.pos:], s) {
		return false
	}
	c.pos += len(s)
	return true
}

// TrySkipWhitespace skips JSON whitespace. It only fails when latched.
func (c *Cursor) TrySkipWhitespace() bool {
	if c.err != nil {
		return false
	}
	for c.pos < len(c.text) && isSpace(c.text[c.pos]) {
		c.pos++
	}
	return true
}

// TrySkipTo advances to the first byte satisfying pred. When no such byte
// exists the offset is left untouched and false is returned.
func (c *Cursor) TrySkipTo(pred func(byte) bool) bool {
	if c.err != nil {
		return false
	}
	for i := c.pos; i < len(c.text); i++ {
		if pred(c.text[i]) {
			c.pos = i
			return true
		}
	}
	return false
}

// TryString matches a double-quoted string with backslash escapes and
// returns the span including both quotes. A string that never closes
// latches an error.
func (c *Cursor) TryString() (start, end int, ok bool) {
	if h, ok := c.Head(); !ok || h != '"' {
		return 0, 0, false
	}
	start = c.pos
	for i := start + 1; i < len(c.text); i++ {
		switch c.text[i] {
		case '\\':
			i++
		case '"':
			c.pos = i + 1
			return start, c.pos, true
		}
	}
	return 0, 0, c.SetError("unterminated string")
}

// TryBareword matches a run of bytes that are neither whitespace nor
// structural characters. Numbers and the literals true, false and null are
// barewords.
func (c *Cursor) TryBareword() (start, end int, ok bool) {
	if c.err != nil {
		return 0, 0, false
	}
	start = c.pos
	i := start
	for i < len(c.text) && !isSpace(c.text[i]) && !isStructural(c.text[i]) {
		i++
	}
	if i == start {
		return 0, 0, false
	}
	c.pos = i
	return start, i, true
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isStructural(b byte) bool {
	switch b {
	case '{', '}', '[', ']', '"', ',', ':':
		return true
	}
	return false
}

package jsonscan

import (
	"encoding/json"
	"regexp"
)

// Handler holds the callbacks a Visitor invokes. Both are optional.
type Handler struct {
	// Property is called once the name and colon of an object property have
	// been matched, before its value is visited. path is the ancestry of the
	// object holding the property, start the offset of the name's opening
	// quote, ordinal the 0-based index of the property within its object.
	//
	// Returning false silences the callbacks for the rest of that object
	// (this property's value included). The remaining members are still
	// scanned so the traversal stays in sync with the text.
	Property func(path Path, start int, name string, ordinal int) bool

	// Value is called for every string, number and literal with its raw
	// span. path ends with the frame of the value itself.
	Value func(path Path, start, end int)
}

// Visitor walks JSON-like text with a Cursor and reports what it meets to a
// Handler.
//
// Tolerated beyond strict JSON:
//   - any text before the first '{' or '[' and after the matching closer
//   - stray bare words and anonymous objects/arrays between object members,
//     skipped with callbacks muted
//   - missing ',' between object members
//
// Latched as errors: trailing commas, duplicate keys, a ':' without a string
// key, bare words in value position that are not numbers or literals,
// unterminated strings and containers.
type Visitor struct {
	c         *Cursor
	h         Handler
	path      Path
	mute      int
	rootStart int
}

// NewVisitor prepares a traversal of text.
func NewVisitor(text string, h Handler) *Visitor {
	return &Visitor{c: NewCursor(text), h: h, rootStart: -1}
}

// Run locates the root container and visits it. It returns the latched
// error, if any; whatever the callbacks collected before it stays valid.
func (v *Visitor) Run() *ParseError {
	if !v.c.TrySkipTo(func(b byte) bool { return b == '{' || b == '[' }) {
		v.c.SetError("no JSON object or array found")
		return v.c.Err()
	}
	v.rootStart = v.c.Pos()
	v.value()
	return v.c.Err()
}

// RootStart returns the offset of the root's opening bracket, or -1.
func (v *Visitor) RootStart() int { return v.rootStart }

// Text returns the text being visited.
func (v *Visitor) Text() string { return v.c.Text() }

// Fail latches msg at the current offset. Callbacks use it to reject
// content the grammar accepts; the traversal then unwinds.
func (v *Visitor) Fail(msg string) {
	v.c.SetError(msg)
}

func (v *Visitor) value() bool {
	c := v.c
	if !c.TrySkipWhitespace() {
		return false
	}
	h, ok := c.Head()
	if !ok {
		return c.SetError("unexpected end of input, expected a value")
	}
	switch h {
	case '{':
		return v.object()
	case '[':
		return v.array()
	case '"':
		start, end, ok := c.TryString()
		if !ok {
			return false
		}
		v.emitValue(start, end)
		return true
	}
	start := c.Pos()
	if !isLiteralAt(c.text, start) {
		return c.SetErrorf("unexpected %q, expected a value", h)
	}
	_, end, _ := c.TryBareword()
	v.emitValue(start, end)
	return true
}

func (v *Visitor) object() bool {
	c := v.c
	c.TryChar('{')

	var seen map[string]struct{}
	ordinal := 0
	hasMember := false
	afterComma := false
	muted := false
	defer func() {
		if muted {
			v.mute--
		}
	}()

	for {
		if !c.TrySkipWhitespace() {
			return false
		}
		h, ok := c.Head()
		if !ok {
			return c.SetError("unexpected end of input, expected '}'")
		}
		switch h {
		case '}':
			if afterComma {
				return c.SetError("trailing comma before '}'")
			}
			c.TryChar('}')
			return true
		case ',':
			if !hasMember || afterComma {
				return c.SetError("unexpected ','")
			}
			c.TryChar(',')
			afterComma = true
			continue
		case ':':
			return c.SetError("unexpected ':' without a property name")
		case ']':
			return c.SetError("unexpected ']' inside an object")
		case '"':
			start, end, ok := c.TryString()
			if !ok {
				return false
			}
			name := decodeString(c.text[start:end])
			if seen == nil {
				seen = make(map[string]struct{})
			}
			if _, dup := seen[name]; dup {
				return c.setErrorAt(start, "duplicate key "+c.text[start:end])
			}
			seen[name] = struct{}{}

			c.TrySkipWhitespace()
			if !c.TryChar(':') {
				return c.SetErrorf("expected ':' after property %s", c.text[start:end])
			}
			c.TrySkipWhitespace()

			if v.mute == 0 && v.h.Property != nil && !v.h.Property(v.path, start, name, ordinal) {
				muted = true
				v.mute++
			}
			if c.Failed() {
				return false
			}

			v.path = append(v.path, Frame{Name: name, Index: ordinal})
			ok = v.value()
			v.path = v.path[:len(v.path)-1]
			if !ok {
				return false
			}
			ordinal++
		default:
			if !v.stray() {
				return false
			}
		}
		hasMember = true
		afterComma = false
	}
}

// stray skips a bare word or an anonymous container found where an object
// member was expected.
func (v *Visitor) stray() bool {
	v.mute++
	defer func() { v.mute-- }()

	if h, _ := v.c.Head(); h == '{' || h == '[' {
		return v.value()
	}
	_, _, ok := v.c.TryBareword()
	return ok
}

func (v *Visitor) array() bool {
	c := v.c
	c.TryChar('[')
	c.TrySkipWhitespace()
	if c.TryChar(']') {
		return true
	}
	for index := 0; ; index++ {
		v.path = append(v.path, Frame{Index: index, InArray: true})
		ok := v.value()
		v.path = v.path[:len(v.path)-1]
		if !ok {
			return false
		}

		if !c.TrySkipWhitespace() {
			return false
		}
		if c.TryChar(']') {
			return true
		}
		if !c.TryChar(',') {
			if c.AtEnd() {
				return c.SetError("unexpected end of input, expected ']'")
			}
			return c.SetError("expected ',' or ']' in array")
		}
		c.TrySkipWhitespace()
		if h, ok := c.Head(); ok && h == ']' {
			return c.SetError("trailing comma before ']'")
		}
	}
}

func (v *Visitor) emitValue(start, end int) {
	if v.mute == 0 && v.h.Value != nil {
		v.h.Value(v.path, start, end)
	}
}

// setErrorAt latches an error reported at offset rather than at the current
// position. The position itself does not move.
func (c *Cursor) setErrorAt(offset int, msg string) bool {
	if c.err == nil {
		c.err = &ParseError{Offset: offset, Message: msg}
	}
	return false
}

var literalPattern = regexp.MustCompile(`^(?:true|false|null|-?(?:0|[1-9][0-9]*)(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?)$`)

func isLiteralAt(text string, start int) bool {
	end := start
	for end < len(text) && !isSpace(text[end]) && !isStructural(text[end]) {
		end++
	}
	return end > start && literalPattern.MatchString(text[start:end])
}

// DecodeString returns the content of a quoted JSON string. Invalid escapes
// fall back to the raw content between the quotes.
func DecodeString(raw string) string {
	return decodeString(raw)
}

func decodeString(raw string) string {
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err == nil {
		return s
	}
	if len(raw) >= 2 {
		return raw[1 : len(raw)-1]
	}
	return raw
}

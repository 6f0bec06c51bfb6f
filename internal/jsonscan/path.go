package jsonscan

import (
	"strconv"
	"strings"
)

// Frame is one step of a Path: a property of an object or an element of an
// array. Index is always the 0-based ordinal among the container's members,
// Name is only meaningful when InArray is false.
type Frame struct {
	Name    string
	Index   int
	InArray bool
}

// Path is the ancestry of the node being visited, from the root down.
//
// The slice passed to Handler callbacks is reused by the traversal; use
// Clone to keep it.
type Path []Frame

// Depth returns the number of frames.
func (p Path) Depth() int { return len(p) }

// Last returns the innermost frame.
func (p Path) Last() (Frame, bool) {
	if len(p) == 0 {
		return Frame{}, false
	}
	return p[len(p)-1], true
}

// NearestName returns the name of the innermost property frame, skipping
// array frames.
func (p Path) NearestName() (string, bool) {
	for i := len(p) - 1; i >= 0; i-- {
		if !p[i].InArray {
			return p[i].Name, true
		}
	}
	return "", false
}

// Clone returns a copy that does not share storage with p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// String renders the path as `$.name["dotted.name"][0]`.
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("$")
	for _, f := range p {
		switch {
		case f.InArray:
			b.WriteString("[")
			b.WriteString(strconv.Itoa(f.Index))
			b.WriteString("]")
		case isPlainName(f.Name):
			b.WriteString(".")
			b.WriteString(f.Name)
		default:
			b.WriteString("[")
			b.WriteString(strconv.Quote(f.Name))
			b.WriteString("]")
		}
	}
	return b.String()
}

func isPlainName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (i > 0 && c >= '0' && c <= '9') {
			continue
		}
		return false
	}
	return true
}

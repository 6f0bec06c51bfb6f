package manifest

import (
	"bytes"
	"encoding/json"
	"runtime"
	"strings"
	"sync"
)

// LineEnding is the line terminator Normalize produces: the host convention.
var LineEnding = hostLineEnding()

func hostLineEnding() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

// Normalize rewrites every "\r\n", "\r" and "\n" as LineEnding. Texts are
// normalized before they are compared, never before they are rewritten.
func Normalize(text string) string {
	if LineEnding == "\n" && !strings.Contains(text, "\r") {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if LineEnding != "\n" {
		text = strings.ReplaceAll(text, "\n", LineEnding)
	}
	return text
}

// Content is a manifest text with its version occurrences.
//
// A Content never changes: WithVersion returns a new text. Occurrences are
// computed on first use, once, so a Content may be shared between
// goroutines.
type Content struct {
	text      string
	isProject func(string) bool

	scanOnce sync.Once
	scan     Extraction

	// normalized backs EqualsIgnoringVersion only.
	normOnce   sync.Once
	normalized string
	normScan   Extraction

	frameworksOnce sync.Once
	frameworks     []string
}

// NewContent wraps text. isProject may be nil; see ExtractVersions.
func NewContent(text string, isProject func(string) bool) *Content {
	return &Content{
		text:      text,
		isProject: isProject,
	}
}

// Text returns the text as given to NewContent. Occurrence offsets refer
// to it.
func (c *Content) Text() string { return c.text }

func (c *Content) extraction() *Extraction {
	c.scanOnce.Do(func() {
		c.scan = ExtractVersions(c.text, c.isProject)
	})
	return &c.scan
}

func (c *Content) normalizedExtraction() (string, *Extraction) {
	c.normOnce.Do(func() {
		c.normalized = Normalize(c.text)
		if c.normalized == c.text {
			c.normScan = *c.extraction()
			return
		}
		c.normScan = ExtractVersions(c.normalized, c.isProject)
	})
	return c.normalized, &c.normScan
}

// ParseError returns the first grammar violation, or nil.
func (c *Content) ParseError() error {
	if err := c.extraction().Err; err != nil {
		return err
	}
	return nil
}

// Occurrences returns a copy of the version occurrences in text order.
func (c *Content) Occurrences() []Occurrence {
	occ := c.extraction().Occurrences
	out := make([]Occurrence, len(occ))
	copy(out, occ)
	return out
}

// Version returns the manifest's own version. It reports false when the
// text is malformed or its root is not an object; a root object without a
// "version" property reports an empty version.
func (c *Content) Version() (string, bool) {
	ext := c.extraction()
	if ext.Err != nil || ext.Identity < 0 {
		return "", false
	}
	return ext.Occurrences[ext.Identity].Value, true
}

// AllVersionsEqual reports whether every occurrence carries the manifest's
// own version.
func (c *Content) AllVersionsEqual() bool {
	ext := c.extraction()
	return ext.Err == nil && ext.AllShareValue()
}

// NeedsUpdate reports whether WithVersion(version) would change anything.
func (c *Content) NeedsUpdate(version string) bool {
	if _, ok := c.Version(); !ok {
		return false
	}
	for _, o := range c.extraction().Occurrences {
		if o.Value != version {
			return true
		}
	}
	return false
}

// WithVersion writes version into every occurrence.
//
// A malformed manifest, one whose root is not an object, or one already at
// version everywhere comes back unchanged. Bytes outside the occurrence
// spans, line endings included, are copied as they are.
func (c *Content) WithVersion(version string) string {
	if !c.NeedsUpdate(version) {
		return c.text
	}

	occ := c.extraction().Occurrences
	var b strings.Builder
	b.Grow(len(c.text) + len(occ)*(len(version)+16))

	last := 0
	for _, o := range occ {
		b.WriteString(c.text[last:o.Start])
		b.WriteString(o.replacement(version))
		last = o.End()
	}
	b.WriteString(c.text[last:])
	return b.String()
}

// EqualsIgnoringVersion reports whether c and other differ only inside
// their version occurrences. Line endings are normalized first. Two texts
// without a version (malformed, or rooted at an array) are compared as
// plain text; such a text never equals one with a version. other must not
// be nil.
func (c *Content) EqualsIgnoringVersion(other *Content) bool {
	textA, extA := c.normalizedExtraction()
	textB, extB := other.normalizedExtraction()

	hasA := extA.Err == nil && extA.Identity >= 0
	hasB := extB.Err == nil && extB.Identity >= 0
	if hasA != hasB {
		return false
	}
	if !hasA {
		return textA == textB
	}

	a, b := extA.Occurrences, extB.Occurrences
	if len(a) != len(b) {
		return false
	}

	lastA, lastB := 0, 0
	for i := range a {
		if textA[lastA:a[i].Start] != textB[lastB:b[i].Start] {
			return false
		}
		lastA, lastB = a[i].End(), b[i].End()
	}
	return textA[lastA:] == textB[lastB:]
}

// Frameworks returns the names under the root "frameworks" object.
func (c *Content) Frameworks() []string {
	c.frameworksOnce.Do(func() {
		c.frameworks, _ = ExtractFrameworks(c.text)
	})
	out := make([]string, len(c.frameworks))
	copy(out, c.frameworks)
	return out
}

// DeclaredName returns the root "name" property of the manifest.
func (c *Content) DeclaredName() (string, bool) {
	return DeclaredName(c.text)
}

// Lint reports whether the manifest is strict JSON.
func (c *Content) Lint() LintResult {
	return Lint(c.text)
}

// quoteJSON encodes s as a JSON string literal. HTML characters are kept
// as they are.
func quoteJSON(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `"` + s + `"`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

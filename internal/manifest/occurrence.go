package manifest

import (
	"github.com/shinji-kodama/manifestver/internal/jsonscan"
)

// OccurrenceKind tells how a version occurrence is written in the text.
type OccurrenceKind string

const (
	// KindKeyed is a `"version": "x"` property. The span covers the key, the
	// colon and the quoted value.
	KindKeyed OccurrenceKind = "keyed"

	// KindNaked is a version-shaped string literal with no key, such as a
	// dependency version `"CK.Core": "1.0.0"` or an array element. The span
	// covers the quoted literal only.
	KindNaked OccurrenceKind = "naked"

	// KindInserted marks the place right after the root '{' where a missing
	// "version" property will be written. The span is empty.
	KindInserted OccurrenceKind = "inserted"
)

// String returns the kind name.
func (k OccurrenceKind) String() string {
	return string(k)
}

// Occurrence is one located version value inside a manifest text.
// Occurrences of one document never overlap and are ordered by Start.
type Occurrence struct {
	// Kind is the shape of the occurrence.
	Kind OccurrenceKind `json:"kind"`

	// Value is the decoded version string (empty for KindInserted).
	Value string `json:"value"`

	// Start is the byte offset where the span begins.
	Start int `json:"start"`

	// Length is the byte length of the span.
	Length int `json:"length"`

	// ExpectComma is set when the rewrite must append a ',' after the
	// written property because another member follows without a separator.
	ExpectComma bool `json:"expectComma,omitempty"`

	// Path locates the value, e.g. `$.dependencies["CK.Core"]`.
	Path string `json:"path"`
}

// End returns the offset just past the span.
func (o Occurrence) End() int {
	return o.Start + o.Length
}

// IsNaked reports whether the span is just the quoted literal.
func (o Occurrence) IsNaked() bool {
	return o.Kind == KindNaked
}

// replacement is the text written in place of the span.
func (o Occurrence) replacement(version string) string {
	quoted := quoteJSON(version)
	if o.Kind == KindNaked {
		return quoted
	}
	if o.ExpectComma {
		return `"version": ` + quoted + ","
	}
	return `"version": ` + quoted
}

// Extraction is the result of scanning a manifest for version occurrences.
type Extraction struct {
	// Occurrences in left-to-right order. On a parse error these are the
	// ones found before the error.
	Occurrences []Occurrence

	// Identity is the index in Occurrences of the manifest's own version,
	// or -1.
	Identity int

	// Err is the first grammar violation, or nil.
	Err *jsonscan.ParseError
}

// AllShareValue reports whether every occurrence carries the identity's value.
func (e Extraction) AllShareValue() bool {
	if e.Identity < 0 {
		return false
	}
	want := e.Occurrences[e.Identity].Value
	for _, o := range e.Occurrences {
		if o.Value != want {
			return false
		}
	}
	return true
}

// ExtractVersions scans text for version occurrences.
//
// isProject names the projects whose versions live in this manifest besides
// its own: a "version" property inside an object held by such a name, and a
// version-shaped string whose nearest property name is such a name, are
// recorded too. It may be nil.
//
// The root object's own "version" property is the identity occurrence; it
// must be a string. When the root object has none, an empty KindInserted
// occurrence is synthesized right after its '{' so that a rewrite adds the
// property. A document whose root is an array has no identity and its
// occurrences are still reported.
func ExtractVersions(text string, isProject func(string) bool) Extraction {
	x := &versionExtractor{
		text:      text,
		isProject: isProject,
		identity:  -1,
	}
	x.visitor = jsonscan.NewVisitor(text, jsonscan.Handler{
		Property: x.property,
		Value:    x.value,
	})

	err := x.visitor.Run()
	if err == nil && x.identity < 0 {
		if root := x.visitor.RootStart(); text[root] == '{' {
			x.insertVersion(root)
		}
	}

	return Extraction{
		Occurrences: x.occurrences,
		Identity:    x.identity,
		Err:         err,
	}
}

type versionExtractor struct {
	text        string
	isProject   func(string) bool
	visitor     *jsonscan.Visitor
	occurrences []Occurrence
	identity    int
}

func (x *versionExtractor) property(path jsonscan.Path, start int, name string, ordinal int) bool {
	if name != "version" {
		return true
	}
	atRoot := path.Depth() == 0
	if !atRoot {
		last, _ := path.Last()
		if last.InArray || !x.matches(last.Name) {
			return true
		}
	}

	valueStart, valueEnd, ok := propertyValueSpan(x.text, start)
	if !ok || x.text[valueStart] != '"' {
		// Only the manifest's own version has to be a string.
		if atRoot {
			x.visitor.Fail(`"version" must be a string`)
		}
		return true
	}

	if atRoot && x.identity < 0 {
		x.identity = len(x.occurrences)
	}
	x.occurrences = append(x.occurrences, Occurrence{
		Kind:        KindKeyed,
		Value:       jsonscan.DecodeString(x.text[valueStart:valueEnd]),
		Start:       start,
		Length:      valueEnd - start,
		ExpectComma: memberFollows(x.text, valueEnd),
		Path:        append(path.Clone(), jsonscan.Frame{Name: name, Index: ordinal}).String(),
	})
	return true
}

func (x *versionExtractor) value(path jsonscan.Path, start, end int) {
	if x.text[start] != '"' {
		return
	}
	if last, ok := path.Last(); ok && !last.InArray && last.Name == "version" {
		return
	}
	name, ok := path.NearestName()
	if !ok || !x.matches(name) {
		return
	}
	value := jsonscan.DecodeString(x.text[start:end])
	if !IsVersionLike(value) {
		return
	}
	x.occurrences = append(x.occurrences, Occurrence{
		Kind:   KindNaked,
		Value:  value,
		Start:  start,
		Length: end - start,
		Path:   path.String(),
	})
}

func (x *versionExtractor) matches(name string) bool {
	return x.isProject != nil && x.isProject(name)
}

// insertVersion records the synthesized identity occurrence. It goes first:
// every other occurrence lies after the root '{'.
func (x *versionExtractor) insertVersion(root int) {
	c := jsonscan.NewCursorAt(x.text, root+1)
	c.TrySkipWhitespace()
	h, _ := c.Head()

	inserted := Occurrence{
		Kind:        KindInserted,
		Start:       root + 1,
		ExpectComma: h != '}',
		Path:        "$.version",
	}
	x.occurrences = append([]Occurrence{inserted}, x.occurrences...)
	x.identity = 0
}

// propertyValueSpan re-reads the property whose name starts at start and
// returns the span of its value when the value is a string or a bare word.
func propertyValueSpan(text string, start int) (int, int, bool) {
	c := jsonscan.NewCursorAt(text, start)
	if _, _, ok := c.TryString(); !ok {
		return 0, 0, false
	}
	c.TrySkipWhitespace()
	if !c.TryChar(':') {
		return 0, 0, false
	}
	c.TrySkipWhitespace()
	if s, e, ok := c.TryString(); ok {
		return s, e, true
	}
	if s, e, ok := c.TryBareword(); ok {
		return s, e, true
	}
	return c.Pos(), c.Pos(), false
}

// memberFollows reports whether the next significant byte after offset
// starts another member, i.e. neither ',' nor '}' separates it.
func memberFollows(text string, offset int) bool {
	c := jsonscan.NewCursorAt(text, offset)
	c.TrySkipWhitespace()
	h, ok := c.Head()
	return ok && h != ',' && h != '}'
}

// Package jsonscan is a tolerant, position-tracking scanner for JSON-like
// manifest text.
//
// Nothing is decoded into values. The Visitor walks the text once, keeps a
// Path of property names and array indexes, and hands byte offsets to
// caller-supplied callbacks so that callers can rewrite exact spans of the
// original text.
//
// Malformed input never panics and never returns a Go error: the Cursor
// latches the first ParseError and every later operation becomes a no-op,
// so the traversal unwinds with whatever the callbacks collected so far.
package jsonscan

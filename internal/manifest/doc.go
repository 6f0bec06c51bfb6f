// Package manifest finds and rewrites version numbers inside project
// manifests (project.json, package.json and similar JSON-like files) without
// touching anything else in the text.
//
// The package works on positions, not on decoded values: internal/jsonscan
// reports byte offsets, ExtractVersions turns them into Occurrence spans,
// and Content rewrites or compares texts span by span. A manifest that does
// not scan is never rewritten; its ParseError says why.
//
// Key responsibilities:
//   - Locate the manifest's own "version" and the versions of sibling
//     projects it references (see ExtractVersions)
//   - Rewrite every occurrence in one pass (Content.WithVersion)
//   - Compare two manifests ignoring their versions (Content.EqualsIgnoringVersion)
//   - List the target frameworks (ExtractFrameworks)
package manifest

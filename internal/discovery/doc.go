// Package discovery locates manifest files on disk and moves their text in
// and out of manifest.Content.
//
// Finder expands doublestar globs ("**/project.json") below a root
// directory. FindManifest looks for the conventional manifest names in a
// single directory. ReadManifest and WriteManifest do the file I/O; a
// rewrite keeps the permissions of the file it replaces.
package discovery

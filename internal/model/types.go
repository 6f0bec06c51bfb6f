package model

import (
	"fmt"
	"strings"
)

// ManifestStatus summarizes the state of a manifest's version occurrences.
type ManifestStatus string

const (
	// StatusConsistent indicates every version occurrence carries the
	// manifest's own version.
	StatusConsistent ManifestStatus = "consistent"

	// StatusInconsistent indicates at least one occurrence (usually a
	// sibling project reference) carries a different version.
	StatusInconsistent ManifestStatus = "inconsistent"

	// StatusMalformed indicates the manifest did not scan. It is never
	// rewritten.
	StatusMalformed ManifestStatus = "malformed"

	// StatusUnversioned indicates a well-formed manifest whose root is not
	// an object, so it has no place for a version.
	StatusUnversioned ManifestStatus = "unversioned"
)

// String returns the string representation of ManifestStatus.
func (s ManifestStatus) String() string {
	return string(s)
}

// IsValid checks whether the ManifestStatus value is one of the
// predefined valid states.
func (s ManifestStatus) IsValid() bool {
	switch s {
	case StatusConsistent, StatusInconsistent, StatusMalformed, StatusUnversioned:
		return true
	default:
		return false
	}
}

// ParseManifestStatus converts a --status flag value, in any case, to a
// ManifestStatus.
func ParseManifestStatus(s string) (ManifestStatus, error) {
	status := ManifestStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid manifest status: %q (valid: consistent, inconsistent, malformed, unversioned)", s)
	}
	return status, nil
}

// ManifestReport is what the CLI knows about one manifest file.
type ManifestReport struct {
	// Path is the manifest file path as given or discovered.
	Path string `json:"path"`

	// Name is the root "name" property, if declared.
	Name string `json:"name,omitempty"`

	// Version is the manifest's own version. Empty when the root object has
	// no "version" property, or when HasVersion is false.
	Version string `json:"version"`

	// HasVersion is false for malformed and unversioned manifests.
	HasVersion bool `json:"hasVersion"`

	// Status summarizes the occurrences.
	Status ManifestStatus `json:"status"`

	// ParseError is the scanner diagnostic for malformed manifests.
	ParseError string `json:"parseError,omitempty"`

	// StrictJSON tells whether the file is valid JSON as-is.
	StrictJSON bool `json:"strictJson"`

	// Occurrences lists every located version value.
	Occurrences []OccurrenceReport `json:"occurrences"`

	// Frameworks lists the names under the root "frameworks" object.
	Frameworks []string `json:"frameworks,omitempty"`
}

// OccurrenceReport is one located version value inside a manifest.
type OccurrenceReport struct {
	// Kind is "keyed", "naked" or "inserted".
	Kind string `json:"kind"`

	// Path locates the value, e.g. `$.dependencies["CK.Core"]`.
	Path string `json:"path"`

	// Value is the current literal.
	Value string `json:"value"`

	// Line and Column are 1-based, computed from the byte offset.
	Line   int `json:"line"`
	Column int `json:"column"`
}

// String returns a one-line description: `$.version = "1.0.0" (keyed, 2:3)`.
func (o OccurrenceReport) String() string {
	return fmt.Sprintf("%s = %q (%s, %d:%d)", o.Path, o.Value, o.Kind, o.Line, o.Column)
}

// LineColumn converts a byte offset of text into 1-based line and column.
// Offsets past the end are clamped.
func LineColumn(text string, offset int) (line, column int) {
	if offset > len(text) {
		offset = len(text)
	}
	line = 1 + strings.Count(text[:offset], "\n")
	column = offset - strings.LastIndex(text[:offset], "\n")
	return line, column
}

// ExitCode defines standard CLI exit codes. These codes allow scripts and
// CI systems to programmatically determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitManifestNotFound indicates no manifest file was found.
	ExitManifestNotFound ExitCode = 2

	// ExitParseError indicates a manifest is malformed and was left untouched.
	ExitParseError ExitCode = 3

	// ExitVersionMismatch indicates manifests (or the occurrences inside a
	// manifest) disagree on the version.
	ExitVersionMismatch ExitCode = 4

	// ExitGitError indicates a Git operation failed.
	ExitGitError ExitCode = 5

	// ExitInvalidArgument indicates a flag or argument is invalid.
	ExitInvalidArgument ExitCode = 6

	// ExitContentDiffers indicates two manifests differ beyond their versions.
	ExitContentDiffers ExitCode = 7
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

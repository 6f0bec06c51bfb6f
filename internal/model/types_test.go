package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestManifestStatus_String verifies that ManifestStatus values produce
// the expected string representations for CLI output and JSON serialization.
func TestManifestStatus_String(t *testing.T) {
	tests := []struct {
		status   ManifestStatus
		expected string
	}{
		{StatusConsistent, "consistent"},
		{StatusInconsistent, "inconsistent"},
		{StatusMalformed, "malformed"},
		{StatusUnversioned, "unversioned"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.String())
		})
	}
}

// TestManifestStatus_IsValid checks that only defined status values pass validation.
func TestManifestStatus_IsValid(t *testing.T) {
	assert.True(t, StatusConsistent.IsValid())
	assert.True(t, StatusInconsistent.IsValid())
	assert.True(t, StatusMalformed.IsValid())
	assert.True(t, StatusUnversioned.IsValid())
	assert.False(t, ManifestStatus("invalid").IsValid())
	assert.False(t, ManifestStatus("").IsValid())
}

// TestParseManifestStatus verifies string-to-status conversion,
// including case normalization and error cases.
func TestParseManifestStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected ManifestStatus
		hasError bool
	}{
		{"consistent", StatusConsistent, false},
		{"Malformed", StatusMalformed, false}, // case insensitive
		{"INCONSISTENT", StatusInconsistent, false},
		{" unversioned ", StatusUnversioned, false},
		{"invalid", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseManifestStatus(tt.input)
			if tt.hasError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestLineColumn(t *testing.T) {
	text := "{\n  \"version\": \"1\"\n}"

	tests := []struct {
		offset       int
		line, column int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{4, 2, 3},
		{len(text), 3, 2},
		{len(text) + 10, 3, 2},
	}

	for _, tt := range tests {
		line, column := LineColumn(text, tt.offset)
		assert.Equal(t, tt.line, line, "line of offset %d", tt.offset)
		assert.Equal(t, tt.column, column, "column of offset %d", tt.offset)
	}
}

func TestOccurrenceReport_String(t *testing.T) {
	o := OccurrenceReport{Kind: "keyed", Path: "$.version", Value: "1.0.0", Line: 2, Column: 3}
	assert.Equal(t, `$.version = "1.0.0" (keyed, 2:3)`, o.String())
}

// TestCLIError verifies the custom error type used for exit code mapping.
func TestCLIError(t *testing.T) {
	t.Run("simple error", func(t *testing.T) {
		err := NewCLIError(ExitManifestNotFound, "no manifest found")
		assert.Equal(t, ExitManifestNotFound, err.Code)
		assert.Equal(t, "no manifest found", err.Error())
		assert.Nil(t, err.Unwrap())
	})

	t.Run("wrapped error", func(t *testing.T) {
		inner := errors.New("exit status 128")
		err := WrapCLIError(ExitGitError, "git describe failed", inner)
		assert.Equal(t, ExitGitError, err.Code)
		assert.Contains(t, err.Error(), "exit status 128")
		assert.Equal(t, inner, err.Unwrap())
	})

	// Verify errors.Is works with unwrapped errors (Go 1.13+ error chain).
	t.Run("errors.Is chain", func(t *testing.T) {
		inner := errors.New("exit status 128")
		err := WrapCLIError(ExitGitError, "git describe failed", inner)
		assert.True(t, errors.Is(err, inner))
	})
}

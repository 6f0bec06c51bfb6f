// Package model defines the report types and exit codes for the manifestver
// CLI.
//
// This package contains pure data structures with no external dependencies.
// ManifestReport and OccurrenceReport are what the commands print, as text
// or as JSON with --json.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model

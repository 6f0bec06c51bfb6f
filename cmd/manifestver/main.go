// Package main is the entry point for the manifestver CLI.
//
// This binary reads and stamps the version numbers of project manifests
// (project.json, package.json). It delegates all functionality to the
// internal/cli package, which defines cobra commands.
//
// Build-time variables (version, commit, date) are injected via ldflags.
// During development, they default to "dev", "none", and "unknown"
// respectively.
package main

import (
	"github.com/shinji-kodama/manifestver/internal/cli"
)

// version, commit, and date are set at build time via ldflags
// (-X main.version=...). They provide binary identification for the
// --version flag output.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Inject build-time version info into the CLI package.
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	// Create the root command with all subcommands registered,
	// then execute it. Execute handles error formatting and exit codes.
	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}

// Package cli implements the cobra-based CLI commands for manifestver.
//
// Each subcommand (show, set, check, compare, frameworks) is defined in its
// own file within this package. This file holds the root command, the
// global flags and the error and log output shared by the subcommands.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/manifestver/internal/model"
)

// Global flags, bound to persistent flags of the root command.
var (
	// jsonOutput switches command output, and error output, to JSON.
	jsonOutput bool

	// verbose turns VerboseLog on.
	verbose bool

	// configPath is an explicit configuration file. When empty, the
	// .manifestver.* files of the working directory are used.
	configPath string
)

// logOutput receives errors and verbose logs.
var logOutput io.Writer = os.Stderr

// Build information, set from main through ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// NewRootCommand builds the manifestver command tree. The root command has
// no action of its own.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "manifestver",
		Short: "Version stamping for project.json and package.json manifests",
		Long: `manifestver reads and rewrites the version numbers of project manifests
(project.json, package.json) without reformatting them.

Besides the manifest's own "version", the versions of sibling projects it
references are kept in step: a solution built from several manifests is
stamped in one pass. Comments, spacing and key order are preserved.`,

		// Errors are printed by Execute, in text or JSON.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log each step to stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (default: .manifestver.yaml, .manifestver.yml or .manifestver.toml)")

	rootCmd.AddCommand(NewShowCommand())
	rootCmd.AddCommand(NewSetCommand())
	rootCmd.AddCommand(NewCheckCommand())
	rootCmd.AddCommand(NewCompareCommand())
	rootCmd.AddCommand(NewFrameworksCommand())

	return rootCmd
}

// Execute runs rootCmd and exits with the code carried by a CLIError, or
// ExitGeneralError for any other error.
func Execute(rootCmd *cobra.Command) {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	os.Exit(int(printError(logOutput, err)))
}

// errorOutput is the JSON shape of a failed run.
type errorOutput struct {
	Error struct {
		Code    model.ExitCode `json:"code"`
		Message string         `json:"message"`
		Detail  string         `json:"detail,omitempty"`
	} `json:"error"`
}

// printError reports err on w and returns the exit code for it.
func printError(w io.Writer, err error) model.ExitCode {
	var out errorOutput
	out.Error.Code = model.ExitGeneralError
	out.Error.Message = err.Error()

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		out.Error.Code = cliErr.Code
		out.Error.Message = cliErr.Message
		if cliErr.Err != nil {
			out.Error.Detail = cliErr.Err.Error()
		}
	}

	if !jsonOutput {
		if out.Error.Detail != "" {
			fmt.Fprintf(w, "manifestver: %s: %s\n", out.Error.Message, out.Error.Detail)
		} else {
			fmt.Fprintf(w, "manifestver: %s\n", out.Error.Message)
		}
		return out.Error.Code
	}

	data, jerr := json.MarshalIndent(out, "", "  ")
	if jerr != nil {
		fmt.Fprintf(w, "manifestver: %s\n", out.Error.Message)
		return out.Error.Code
	}
	fmt.Fprintln(w, string(data))
	return out.Error.Code
}

// VerboseLog writes one line to stderr when --verbose is set.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(logOutput, "manifestver: "+format+"\n", args...)
	}
}

// IsJSONOutput tells whether --json is set.
func IsJSONOutput() bool {
	return jsonOutput
}

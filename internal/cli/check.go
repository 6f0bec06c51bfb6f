// Package cli: check.go implements the "manifestver check" command.
//
// The check command verifies that a set of manifests agree on one version:
// every manifest carries the same version, and inside each manifest every
// sibling project reference carries that version too. It is meant for CI,
// where a non-zero exit code fails the build.
package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/manifestver/internal/model"
)

// NewCheckCommand creates the "check" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [manifest...]",
		Short: "Verify that manifests agree on their version",
		Long: `Verify that manifests agree on their version.

Exit codes:
  0  every manifest and every sibling reference carries the same version
  3  a manifest could not be parsed
  4  versions disagree

Examples:
  manifestver check
  manifestver check --json src/*/project.json`,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.OutOrStdout(), args)
		},
	}

	return cmd
}

// checkResult is the JSON output of the check command.
type checkResult struct {
	Consistent bool                   `json:"consistent"`
	Versions   []string               `json:"versions"`
	Manifests  []model.ManifestReport `json:"manifests"`
}

// runCheck is the main logic function for the check command.
func runCheck(w io.Writer, args []string) error {
	// Step 1: Load configuration and the manifests.
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	paths, err := resolveManifests(cfg, args)
	if err != nil {
		return err
	}
	manifests, err := loadManifests(cfg, paths)
	if err != nil {
		return err
	}

	// Step 2: Classify each manifest and collect the distinct versions.
	result := checkResult{
		Versions:  make([]string, 0),
		Manifests: make([]model.ManifestReport, 0, len(manifests)),
	}
	seen := make(map[string]struct{})
	malformed, inconsistent := 0, 0
	for _, m := range manifests {
		r := buildReport(m)
		result.Manifests = append(result.Manifests, r)

		switch r.Status {
		case model.StatusMalformed:
			malformed++
			continue
		case model.StatusUnversioned:
			continue
		case model.StatusInconsistent:
			inconsistent++
		}
		if _, ok := seen[r.Version]; !ok {
			seen[r.Version] = struct{}{}
			result.Versions = append(result.Versions, r.Version)
		}
	}
	sort.Strings(result.Versions)
	result.Consistent = malformed == 0 && inconsistent == 0 && len(result.Versions) <= 1

	// Step 3: Output results in the appropriate format.
	if IsJSONOutput() {
		if err := printJSON(w, result); err != nil {
			return err
		}
	} else {
		printCheckText(w, result)
	}

	// Step 4: Map the verdict to an exit code. A parse error takes
	// precedence over a version mismatch.
	switch {
	case malformed > 0:
		return model.NewCLIError(model.ExitParseError, fmt.Sprintf("%d manifest(s) could not be parsed", malformed))
	case inconsistent > 0:
		return model.NewCLIError(model.ExitVersionMismatch, fmt.Sprintf("%d manifest(s) reference sibling projects at another version", inconsistent))
	case len(result.Versions) > 1:
		return model.NewCLIError(model.ExitVersionMismatch, fmt.Sprintf("manifests disagree on the version: %s", strings.Join(result.Versions, ", ")))
	}
	return nil
}

// printCheckText outputs one line per manifest and a summary line.
func printCheckText(w io.Writer, result checkResult) {
	for _, r := range result.Manifests {
		switch r.Status {
		case model.StatusMalformed:
			fmt.Fprintf(w, "%-40s %s: %s\n", r.Path, r.Status, r.ParseError)
		case model.StatusUnversioned:
			fmt.Fprintf(w, "%-40s %s\n", r.Path, r.Status)
		case model.StatusInconsistent:
			fmt.Fprintf(w, "%-40s %s (%s)\n", r.Path, displayVersion(r.Version), r.Status)
			for _, o := range r.Occurrences {
				if o.Value != r.Version {
					fmt.Fprintf(w, "    %s\n", o)
				}
			}
		default:
			fmt.Fprintf(w, "%-40s %s\n", r.Path, displayVersion(r.Version))
		}
	}

	if result.Consistent {
		version := ""
		if len(result.Versions) == 1 {
			version = result.Versions[0]
		}
		fmt.Fprintf(w, "All %d manifest(s) at version %s.\n", len(result.Manifests), displayVersion(version))
	}
}

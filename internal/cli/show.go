// Package cli: show.go implements the "manifestver show" command.
//
// The show command prints what manifestver sees in each manifest: its own
// version, the sibling project versions it references and where they are,
// whether the file is strict JSON, and its target frameworks. Malformed
// manifests are listed with their parse error.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/manifestver/internal/model"
)

// NewShowCommand creates the "show" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewShowCommand() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "show [manifest...]",
		Short: "Show the versions found in manifests",
		Long: `Show the version of each manifest and every version occurrence in it.

Arguments may be manifest files or directories holding a project.json or
package.json. Without arguments, the manifests matching the configured
globs (default **/project.json) are shown.

Examples:
  manifestver show
  manifestver show src/CK.Core
  manifestver show --json src/CK.Core/project.json
  manifestver show --status inconsistent`,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.OutOrStdout(), status, args)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only show manifests with this status (consistent, inconsistent, malformed, unversioned)")

	return cmd
}

// runShow is the main logic function for the show command.
func runShow(w io.Writer, status string, args []string) error {
	// Step 1: Validate the status filter.
	var only model.ManifestStatus
	if status != "" {
		parsed, err := model.ParseManifestStatus(status)
		if err != nil {
			return model.WrapCLIError(model.ExitInvalidArgument, "invalid --status", err)
		}
		only = parsed
	}

	// Step 2: Load configuration and resolve the manifests.
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

	// Step 3: Build one report per manifest, keeping those with the
	// requested status.
	reports := make([]model.ManifestReport, 0, len(manifests))
	for _, m := range manifests {
		r := buildReport(m)
		if only != "" && r.Status != only {
			continue
		}
		reports = append(reports, r)
	}
	VerboseLog("Showing %d of %d manifests", len(reports), len(manifests))

	// Step 4: Output results in the appropriate format.
	if IsJSONOutput() {
		return printJSON(w, struct {
			Manifests []model.ManifestReport `json:"manifests"`
		}{reports})
	}
	printShowText(w, reports)
	return nil
}

// printShowText outputs the reports as indented text blocks:
//
//	src/CK.Text/project.json
//	  Name:        CK.Text
//	  Version:     1.0.0
//	  Status:      consistent
//	  Strict JSON: yes
//	  Frameworks:  net451, netstandard1.3
//	  Occurrences:
//	    $.version = "1.0.0" (keyed, 2:3)
func printShowText(w io.Writer, reports []model.ManifestReport) {
	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, r.Path)
		if r.Name != "" {
			fmt.Fprintf(w, "  Name:        %s\n", r.Name)
		}
		if r.HasVersion {
			fmt.Fprintf(w, "  Version:     %s\n", displayVersion(r.Version))
		}
		fmt.Fprintf(w, "  Status:      %s\n", r.Status)
		if r.ParseError != "" {
			fmt.Fprintf(w, "  Error:       %s\n", r.ParseError)
		}
		fmt.Fprintf(w, "  Strict JSON: %s\n", yesNo(r.StrictJSON))
		if len(r.Frameworks) > 0 {
			fmt.Fprintf(w, "  Frameworks:  %s\n", strings.Join(r.Frameworks, ", "))
		}
		if len(r.Occurrences) > 0 {
			fmt.Fprintln(w, "  Occurrences:")
			for _, o := range r.Occurrences {
				fmt.Fprintf(w, "    %s\n", o)
			}
		}
	}
}

// displayVersion shows a manifest without "version" property as "(none)".
func displayVersion(v string) string {
	if v == "" {
		return "(none)"
	}
	return v
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Package cli: set.go implements the "manifestver set" command.
//
// The set command writes a version into manifests: the manifest's own
// "version" and every reference to a sibling project. Only the version
// literals change; the rest of each file is kept byte for byte. Malformed
// manifests are reported and left untouched.
//
// With --from-git the version is the nearest Git tag (minus the configured
// prefix). With --dry-run nothing is written and a unified diff of the
// pending changes is printed instead.
package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/manifestver/internal/config"
	"github.com/shinji-kodama/manifestver/internal/discovery"
	"github.com/shinji-kodama/manifestver/internal/gitver"
	"github.com/shinji-kodama/manifestver/internal/manifest"
	"github.com/shinji-kodama/manifestver/internal/model"
)

// setFlags holds the flag values for the set command.
// These are bound to cobra flags in NewSetCommand.
type setFlags struct {
	// fromGit reads the version from the nearest Git tag instead of the
	// first argument.
	fromGit bool

	// dryRun prints a diff instead of writing files.
	dryRun bool
}

// Result states of one manifest in the set command output.
const (
	setUpdated   = "updated"
	setWouldEdit = "would-update"
	setUnchanged = "unchanged"
	setSkipped   = "skipped"
	setNoRoot    = "no-root-object"
)

// setResult is the outcome for one manifest.
type setResult struct {
	Path            string `json:"path"`
	PreviousVersion string `json:"previousVersion"`
	Version         string `json:"version"`
	Status          string `json:"status"`
	Occurrences     int    `json:"occurrences"`
	Error           string `json:"error,omitempty"`
	Diff            string `json:"diff,omitempty"`
}

// NewSetCommand creates the "set" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewSetCommand() *cobra.Command {
	flags := &setFlags{}

	cmd := &cobra.Command{
		Use:   "set <version> [manifest...]",
		Short: "Write a version into manifests",
		Long: `Write a version into manifests.

The manifest's own "version" is replaced (or added when missing), and so is
every version of a sibling project it references. A sibling project is any
dependency named like one of the manifests being processed, or matched by
the configured projects and projectPattern.

Examples:
  manifestver set 1.2.0
  manifestver set 1.2.0-beta src/CK.Core src/CK.Text
  manifestver set --from-git
  manifestver set --from-git --dry-run`,

		Args: func(cmd *cobra.Command, args []string) error {
			if !flags.fromGit && len(args) == 0 {
				return model.NewCLIError(model.ExitInvalidArgument, "a version argument is required (or use --from-git)")
			}
			return nil
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(cmd.OutOrStdout(), flags, args)
		},
	}

	cmd.Flags().BoolVar(&flags.fromGit, "from-git", false, "Use the nearest Git tag as the version")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print a diff of the changes without writing files")

	return cmd
}

// runSet is the main logic function for the set command.
func runSet(w io.Writer, flags *setFlags, args []string) error {
	// Step 1: Load configuration.
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Step 2: Pick the version source and the manifest arguments.
	source, files := versionSource(cfg, flags, args)

	// Step 3: Resolve and read the manifests.
	paths, err := resolveManifests(cfg, files)
	if err != nil {
		return err
	}
	manifests, err := loadManifests(cfg, paths)
	if err != nil {
		return err
	}

	// Step 4: Read the version. Git is asked about the repository holding
	// the first manifest.
	var repo string
	if flags.fromGit {
		repo, err = gitver.RepoRoot(filepath.Dir(paths[0]))
		if err != nil {
			return err
		}
		VerboseLog("Repository root: %s", repo)
	}
	version, err := source.Version(repo)
	if err != nil {
		return err
	}
	VerboseLog("Version: %s", version)
	if !manifest.IsVersionLike(version) {
		return model.NewCLIError(model.ExitInvalidArgument, fmt.Sprintf("%q is not a version number", version))
	}

	// Step 5: Rewrite each manifest.
	results := make([]setResult, 0, len(manifests))
	skipped := 0
	for _, m := range manifests {
		r, err := applyVersion(m, version, flags.dryRun)
		if err != nil {
			return err
		}
		if r.Status == setSkipped {
			skipped++
		}
		results = append(results, r)
	}

	// Step 6: Output results in the appropriate format.
	if IsJSONOutput() {
		if err := printJSON(w, struct {
			Version string      `json:"version"`
			DryRun  bool        `json:"dryRun"`
			Results []setResult `json:"results"`
		}{version, flags.dryRun, results}); err != nil {
			return err
		}
	} else {
		printSetText(w, results)
	}

	if skipped > 0 {
		return model.NewCLIError(
			model.ExitParseError,
			fmt.Sprintf("%d manifest(s) could not be parsed and were left untouched", skipped),
		)
	}
	return nil
}

// versionSource returns where the version comes from and the manifest
// arguments left once the version argument is taken out.
func versionSource(cfg config.Config, flags *setFlags, args []string) (gitver.Source, []string) {
	if flags.fromGit {
		return gitver.TagSource{Prefix: cfg.TagPrefix}, args
	}
	return gitver.Fixed(args[0]), args[1:]
}

// applyVersion rewrites one manifest, or computes its diff in dry-run mode.
func applyVersion(m loadedManifest, version string, dryRun bool) (setResult, error) {
	c := m.Content
	r := setResult{
		Path:        m.Path,
		Version:     version,
		Occurrences: len(c.Occurrences()),
	}
	previous, hasVersion := c.Version()
	r.PreviousVersion = previous

	if err := c.ParseError(); err != nil {
		VerboseLog("Skipping malformed manifest %s: %v", m.Path, err)
		r.Status = setSkipped
		r.Error = err.Error()
		return r, nil
	}
	if !hasVersion {
		r.Status = setNoRoot
		return r, nil
	}
	if !c.NeedsUpdate(version) {
		r.Status = setUnchanged
		return r, nil
	}

	updated := c.WithVersion(version)
	if dryRun {
		diff, err := unifiedDiff(m.Path, m.Path, c.Text(), updated)
		if err != nil {
			return r, err
		}
		r.Status = setWouldEdit
		r.Diff = diff
		return r, nil
	}

	if err := discovery.WriteManifest(m.Path, updated); err != nil {
		return r, err
	}
	VerboseLog("Wrote %s", m.Path)
	r.Status = setUpdated
	return r, nil
}

// unifiedDiff renders the change from before to after as a unified diff
// with three lines of context.
func unifiedDiff(fromFile, toFile, before, after string) (string, error) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: fromFile,
		ToFile:   toFile,
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("failed to compute diff for %s: %w", toFile, err)
	}
	return diff, nil
}

// printSetText outputs one line per manifest, followed by the diffs of a
// dry run.
func printSetText(w io.Writer, results []setResult) {
	for _, r := range results {
		switch r.Status {
		case setSkipped:
			fmt.Fprintf(w, "%s: skipped: %s\n", r.Path, r.Error)
		case setUnchanged:
			fmt.Fprintf(w, "%s: already at %s\n", r.Path, r.Version)
		case setNoRoot:
			fmt.Fprintf(w, "%s: root is not an object, nothing to write\n", r.Path)
		case setWouldEdit:
			fmt.Fprintf(w, "%s: %s -> %s (%d occurrences, dry run)\n", r.Path, displayVersion(r.PreviousVersion), r.Version, r.Occurrences)
		default:
			fmt.Fprintf(w, "%s: %s -> %s (%d occurrences)\n", r.Path, displayVersion(r.PreviousVersion), r.Version, r.Occurrences)
		}
	}

	for _, r := range results {
		if r.Diff != "" {
			fmt.Fprintln(w)
			fmt.Fprint(w, r.Diff)
		}
	}
}

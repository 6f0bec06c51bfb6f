// Package cli: compare.go implements the "manifestver compare" command.
//
// The compare command tells whether two manifests differ only by their
// version numbers. Two builds of the same project stamped with different
// versions compare equal; any other edit makes them differ.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/manifestver/internal/manifest"
	"github.com/shinji-kodama/manifestver/internal/model"
)

// compareResult is the JSON output of the compare command.
type compareResult struct {
	A        string `json:"a"`
	B        string `json:"b"`
	VersionA string `json:"versionA"`
	VersionB string `json:"versionB"`
	Equal    bool   `json:"equal"`
	Diff     string `json:"diff,omitempty"`
}

// NewCompareCommand creates the "compare" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <manifest-a> <manifest-b>",
		Short: "Compare two manifests ignoring their versions",
		Long: `Compare two manifests ignoring their version numbers.

Exits with code 7 when the manifests differ elsewhere than in their
versions; the text output then includes a unified diff.

Examples:
  manifestver compare old/project.json new/project.json`,

		// Exactly two positional arguments are required.
		Args: cobra.ExactArgs(2),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd.OutOrStdout(), args[0], args[1])
		},
	}

	return cmd
}

// runCompare is the main logic function for the compare command.
func runCompare(w io.Writer, a, b string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	paths, err := resolveManifests(cfg, []string{a, b})
	if err != nil {
		return err
	}
	manifests, err := loadManifests(cfg, paths)
	if err != nil {
		return err
	}
	ca, cb := manifests[0].Content, manifests[1].Content

	result := compareResult{
		A:     paths[0],
		B:     paths[1],
		Equal: ca.EqualsIgnoringVersion(cb),
	}
	result.VersionA, _ = ca.Version()
	result.VersionB, _ = cb.Version()

	if !result.Equal {
		result.Diff, err = unifiedDiff(paths[0], paths[1], manifest.Normalize(ca.Text()), manifest.Normalize(cb.Text()))
		if err != nil {
			return err
		}
	}

	if IsJSONOutput() {
		if err := printJSON(w, result); err != nil {
			return err
		}
	} else if result.Equal {
		fmt.Fprintf(w, "%s and %s are identical apart from their versions (%s, %s).\n",
			result.A, result.B, displayVersion(result.VersionA), displayVersion(result.VersionB))
	} else {
		fmt.Fprintf(w, "%s and %s differ:\n", result.A, result.B)
		fmt.Fprint(w, result.Diff)
	}

	if !result.Equal {
		return model.NewCLIError(model.ExitContentDiffers, fmt.Sprintf("%s and %s differ", result.A, result.B))
	}
	return nil
}

// Package cli: frameworks.go implements the "manifestver frameworks" command.
//
// The frameworks command lists the target frameworks a project.json
// declares (the member names of its root "frameworks" object), one per
// line, in document order.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/manifestver/internal/manifest"
)

// NewFrameworksCommand creates the "frameworks" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewFrameworksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "frameworks <manifest>",
		Short: "List the target frameworks of a manifest",
		Long: `List the target frameworks declared by a manifest.

Examples:
  manifestver frameworks src/CK.Core/project.json
  manifestver frameworks --json src/CK.Core`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runFrameworks(cmd.OutOrStdout(), args[0])
		},
	}

	return cmd
}

// runFrameworks is the main logic function for the frameworks command.
func runFrameworks(w io.Writer, arg string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	paths, err := resolveManifests(cfg, []string{arg})
	if err != nil {
		return err
	}
	manifests, err := loadManifests(cfg, paths)
	if err != nil {
		return err
	}
	m := manifests[0]

	// A malformed manifest still lists the frameworks read before the error.
	names, perr := manifest.ExtractFrameworks(m.Content.Text())
	if perr != nil {
		VerboseLog("%s: %v", m.Path, perr)
	}
	if names == nil {
		names = []string{}
	}

	if IsJSONOutput() {
		return printJSON(w, struct {
			Path       string   `json:"path"`
			Frameworks []string `json:"frameworks"`
		}{m.Path, names})
	}
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
	return nil
}

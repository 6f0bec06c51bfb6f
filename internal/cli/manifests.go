// Package cli: manifests.go holds the manifest loading and reporting
// helpers shared by the subcommands.
//
// Every command resolves its manifests the same way: explicit file (or
// directory) arguments when given, otherwise the configured discovery globs.
// Manifests are read in two passes so that the names they declare can feed
// the sibling project predicate of each other.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/manifestver/internal/config"
	"github.com/shinji-kodama/manifestver/internal/discovery"
	"github.com/shinji-kodama/manifestver/internal/manifest"
	"github.com/shinji-kodama/manifestver/internal/model"
)

// loadedManifest pairs a manifest path with its parsed content.
type loadedManifest struct {
	Path    string
	Content *manifest.Content
}

// loadConfig reads the configuration selected by --config, or the one found
// in the working directory.
func loadConfig() (config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get current directory: %w", err)
	}

	cfg, path, err := config.Load(configPath, cwd)
	if err != nil {
		return config.Config{}, model.WrapCLIError(model.ExitInvalidArgument, "failed to load configuration", err)
	}

	if path != "" {
		VerboseLog("Loaded configuration from %s", path)
	} else {
		VerboseLog("No configuration file found, using defaults")
	}
	return cfg, nil
}

// resolveManifests turns command arguments into manifest paths.
//
// A directory argument is replaced by its project.json or package.json.
// Without arguments, the configured globs are expanded from the working
// directory; finding nothing is an ExitManifestNotFound error.
func resolveManifests(cfg config.Config, args []string) ([]string, error) {
	if len(args) > 0 {
		paths := make([]string, 0, len(args))
		for _, arg := range args {
			info, err := os.Stat(arg)
			if err == nil && info.IsDir() {
				path, err := discovery.FindManifest(arg)
				if err != nil {
					return nil, err
				}
				paths = append(paths, path)
				continue
			}
			paths = append(paths, arg)
		}
		return paths, nil
	}

	finder := discovery.Finder{Include: cfg.Manifests, Exclude: cfg.Exclude}
	paths, err := finder.Find()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, model.NewCLIError(
			model.ExitManifestNotFound,
			fmt.Sprintf("no manifest matches %s", strings.Join(cfg.Manifests, ", ")),
		)
	}
	VerboseLog("Discovered %d manifests", len(paths))
	return paths, nil
}

// loadManifests reads every path and builds contents whose sibling project
// predicate knows the names of all the manifests of the run.
//
// The names are the declared "name" of each manifest and the name of the
// directory holding it (the project name of a project.json), merged with
// the configured projects and projectPattern.
func loadManifests(cfg config.Config, paths []string) ([]loadedManifest, error) {
	// Step 1: Read the files and collect the project names they define.
	raw := make([]*manifest.Content, 0, len(paths))
	var names []string
	for _, path := range paths {
		c, err := discovery.ReadManifest(path, nil)
		if err != nil {
			return nil, err
		}
		raw = append(raw, c)

		if name, ok := c.DeclaredName(); ok {
			names = append(names, name)
		}
		if dir := filepath.Base(filepath.Dir(path)); dir != "." && dir != string(filepath.Separator) {
			names = append(names, dir)
		}
	}

	// Step 2: Build the predicate from the configuration and those names.
	isProject, err := cfg.ProjectPredicate(names...)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitInvalidArgument, "invalid project configuration", err)
	}
	VerboseLog("Sibling project names: %s", strings.Join(names, ", "))

	// Step 3: Re-wrap the texts with the predicate.
	out := make([]loadedManifest, 0, len(paths))
	for i, path := range paths {
		out = append(out, loadedManifest{
			Path:    path,
			Content: manifest.NewContent(raw[i].Text(), isProject),
		})
	}
	return out, nil
}

// buildReport summarizes one manifest for output.
func buildReport(m loadedManifest) model.ManifestReport {
	c := m.Content
	report := model.ManifestReport{
		Path:        m.Path,
		Occurrences: make([]model.OccurrenceReport, 0),
		Frameworks:  c.Frameworks(),
		StrictJSON:  c.Lint().StrictJSON,
	}

	report.Name, _ = c.DeclaredName()
	report.Version, report.HasVersion = c.Version()

	for _, o := range c.Occurrences() {
		line, column := model.LineColumn(c.Text(), o.Start)
		report.Occurrences = append(report.Occurrences, model.OccurrenceReport{
			Kind:   o.Kind.String(),
			Path:   o.Path,
			Value:  o.Value,
			Line:   line,
			Column: column,
		})
	}

	switch {
	case c.ParseError() != nil:
		report.Status = model.StatusMalformed
		report.ParseError = c.ParseError().Error()
	case !report.HasVersion:
		report.Status = model.StatusUnversioned
	case c.AllVersionsEqual():
		report.Status = model.StatusConsistent
	default:
		report.Status = model.StatusInconsistent
	}
	return report
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	// MarshalIndent produces human-readable JSON with 2-space indentation.
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

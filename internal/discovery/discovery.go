package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/shinji-kodama/manifestver/internal/manifest"
	"github.com/shinji-kodama/manifestver/internal/model"
)

// ManifestNames are the file names FindManifest accepts, in priority order.
var ManifestNames = []string{"project.json", "package.json"}

// Finder selects manifest files below Root.
type Finder struct {
	// Root is the directory relative patterns are resolved against.
	// Empty means the current working directory.
	Root string

	// Include are doublestar globs ("**/project.json"). Absolute patterns
	// are used as they are.
	Include []string

	// Exclude are doublestar globs matched against the path relative to
	// Root, using forward slashes.
	Exclude []string
}

// Find returns the absolute paths of the regular files matching at least
// one Include glob and no Exclude glob, sorted and without duplicates.
//
// An invalid pattern is reported as a CLIError with ExitInvalidArgument.
func (f Finder) Find() ([]string, error) {
	root := f.Root
	if root == "" {
		root = "."
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	include := normalizePatterns(f.Include)
	exclude := normalizePatterns(f.Exclude)
	for _, p := range include {
		if !doublestar.ValidatePattern(p) {
			return nil, model.NewCLIError(model.ExitInvalidArgument, fmt.Sprintf("invalid manifest pattern %q", p))
		}
	}
	for _, p := range exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, model.NewCLIError(model.ExitInvalidArgument, fmt.Sprintf("invalid exclude pattern %q", p))
		}
	}

	seen := make(map[string]struct{})
	var out []string
	for _, pattern := range include {
		matches, err := expandPattern(rootAbs, pattern)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitInvalidArgument, fmt.Sprintf("invalid manifest pattern %q", pattern), err)
		}
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			info, err := os.Stat(m)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			if rel, err := filepath.Rel(rootAbs, m); err == nil && matchesAny(exclude, rel) {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}

	sort.Strings(out)
	return out, nil
}

func expandPattern(rootAbs, pattern string) ([]string, error) {
	pat := filepath.FromSlash(pattern)
	if filepath.IsAbs(pat) {
		return doublestar.FilepathGlob(filepath.Clean(pat))
	}
	return doublestar.FilepathGlob(filepath.Join(rootAbs, pat))
}

func normalizePatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, filepath.ToSlash(p))
	}
	return out
}

func matchesAny(patterns []string, rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// FindManifest returns the first of ManifestNames present in dir.
//
// Returns a CLIError with ExitManifestNotFound when there is none.
func FindManifest(dir string) (string, error) {
	for _, name := range ManifestNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}

	return "", model.NewCLIError(
		model.ExitManifestNotFound,
		fmt.Sprintf("no manifest found in %s (searched %s)", dir, strings.Join(ManifestNames, ", ")),
	)
}

// ReadManifest loads the file at path.
//
// Parameters:
//   - path: manifest file.
//   - isProject: sibling project predicate, may be nil (see manifest.ExtractVersions).
//
// A missing file is reported as a CLIError with ExitManifestNotFound.
func ReadManifest(path string, isProject func(string) bool) (*manifest.Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(model.ExitManifestNotFound, fmt.Sprintf("manifest %s not found", path), err)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return manifest.NewContent(string(data), isProject), nil
}

// WriteManifest replaces the file at path with text.
//
// The text is written to a temporary file in the same directory, which is
// then renamed over path, so readers never see a partial manifest. The
// permissions of the existing file are kept; a new file gets 0644.
func WriteManifest(path, text string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	// Removing a renamed file fails harmlessly.
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}

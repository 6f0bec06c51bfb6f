// Package gitver reads the version of a repository from its Git tags.
//
// This package wraps Git CLI commands (via os/exec). It is the version
// source the set command consults with --from-git: the nearest tag
// reachable from HEAD, stripped of its prefix ("v1.2.0" becomes "1.2.0").
//
// Design decisions:
//   - We shell out to `git` rather than using a Go Git library, so that the
//     user's own Git configuration (safe.directory, tag sorting) applies.
//   - Computing a version from commit history is not attempted: an untagged
//     repository is an error.
//   - All errors from Git commands are wrapped in model.CLIError with
//     ExitGitError to enable proper CLI exit code handling.
package gitver

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/shinji-kodama/manifestver/internal/manifest"
	"github.com/shinji-kodama/manifestver/internal/model"
)

// Source provides the version a repository should carry.
type Source interface {
	// Version returns the version for the repository containing repoPath.
	Version(repoPath string) (string, error)
}

// TagSource reads the version from the nearest Git tag.
type TagSource struct {
	// Prefix is removed from the tag name when present, e.g. "v".
	Prefix string
}

// Version returns the nearest tag reachable from HEAD, without Prefix.
//
// Uses `git describe --tags --abbrev=0`, which prints the tag name alone
// (no commit count or hash suffix). A tag that does not look like a version
// once the prefix is removed is rejected with ExitGitError.
func (s TagSource) Version(repoPath string) (string, error) {
	output, err := runGit(repoPath, "describe", "--tags", "--abbrev=0")
	if err != nil {
		return "", err
	}
	tag := strings.TrimSpace(output)
	return s.tagVersion(tag)
}

func (s TagSource) tagVersion(tag string) (string, error) {
	version := strings.TrimPrefix(tag, s.Prefix)
	if !manifest.IsVersionLike(version) {
		return "", model.NewCLIError(
			model.ExitGitError,
			fmt.Sprintf("tag %q is not a version (prefix %q)", tag, s.Prefix),
		)
	}
	return version, nil
}

// Fixed is a Source that always returns the same version.
type Fixed string

// Version returns the fixed version.
func (f Fixed) Version(string) (string, error) {
	return string(f), nil
}

// RepoRoot returns the absolute path to the top-level directory of the
// Git repository containing the given path.
//
// This uses `git rev-parse --show-toplevel`, which for a linked worktree
// returns the worktree root, not the main repository root.
func RepoRoot(path string) (string, error) {
	output, err := runGit(path, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// runGit executes a git command with the given arguments in the specified directory.
//
// It captures both stdout and stderr. On success (exit code 0), it returns
// the stdout output. On failure, it returns a model.CLIError with ExitGitError
// code, including the stderr output in the error message.
//
// The repoPath parameter is passed to git via the -C flag, so the process's
// working directory is never changed.
func runGit(repoPath string, args ...string) (string, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)

	// #nosec G204: args are constructed internally, not from user input
	cmd := exec.Command("git", fullArgs...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		message := fmt.Sprintf("git %s failed", strings.Join(args, " "))
		if stderrStr != "" {
			message = fmt.Sprintf("%s: %s", message, stderrStr)
		}
		return "", model.WrapCLIError(model.ExitGitError, message, err)
	}

	return stdout.String(), nil
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/manifestver/internal/manifest"
)

// writeFile creates a file under dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// --- Load tests ---

func TestLoad_NoFile(t *testing.T) {
	t.Setenv(EnvTagPrefix, "")
	t.Setenv(EnvProjects, "")

	cfg, path, err := Load("", t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	t.Setenv(EnvTagPrefix, "")
	t.Setenv(EnvProjects, "")
	dir := t.TempDir()
	writeFile(t, dir, ".manifestver.yaml", `
manifests:
  - src/**/project.json
exclude:
  - "**/bin/**"
projects: [CK.Core, CK.Text]
projectPattern: "CK\\..*"
`)

	cfg, path, err := Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".manifestver.yaml"), path)
	assert.Equal(t, []string{"src/**/project.json"}, cfg.Manifests)
	assert.Equal(t, []string{"**/bin/**"}, cfg.Exclude)
	assert.Equal(t, []string{"CK.Core", "CK.Text"}, cfg.Projects)
	assert.Equal(t, `CK\..*`, cfg.ProjectPattern)
	assert.Equal(t, "v", cfg.TagPrefix, "absent fields keep their default")
}

func TestLoad_TOML(t *testing.T) {
	t.Setenv(EnvTagPrefix, "")
	t.Setenv(EnvProjects, "")
	dir := t.TempDir()
	writeFile(t, dir, ".manifestver.toml", `
manifests = ["**/package.json"]
tagPrefix = "release-"
`)

	cfg, _, err := Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"**/package.json"}, cfg.Manifests)
	assert.Equal(t, "release-", cfg.TagPrefix)
	assert.Empty(t, cfg.Projects)
}

func TestLoad_PriorityOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".manifestver.toml", `tagPrefix = "toml"`)
	writeFile(t, dir, ".manifestver.yml", `tagPrefix: yml`)

	assert.Equal(t, filepath.Join(dir, ".manifestver.yml"), Find(dir))
}

func TestLoad_ExplicitPath(t *testing.T) {
	t.Setenv(EnvTagPrefix, "")
	t.Setenv(EnvProjects, "")
	path := writeFile(t, t.TempDir(), "custom.yaml", `tagPrefix: ""`)

	cfg, got, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, "", cfg.TagPrefix, "an explicit empty prefix is kept")
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvTagPrefix, "rel/")
	t.Setenv(EnvProjects, " A, ,B ")
	dir := t.TempDir()
	writeFile(t, dir, ".manifestver.yaml", "projects: [C]\n")

	cfg, _, err := Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, "rel/", cfg.TagPrefix)
	assert.Equal(t, []string{"A", "B"}, cfg.Projects)
}

// --- Parse tests ---

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		data      string
		wantParse bool
	}{
		{"unknown yaml field", "c.yaml", "tagprefix: v\n", true},
		{"invalid yaml", "c.yaml", "manifests: [a\n", true},
		{"unknown toml field", "c.toml", "nope = 1\n", true},
		{"invalid toml", "c.toml", "manifests = [\n", true},
		{"unsupported extension", "c.json", "{}", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			err := Parse(tt.path, []byte(tt.data), &cfg)
			require.Error(t, err)

			var perr *ParseError
			assert.Equal(t, tt.wantParse, errors.As(err, &perr))
			if !tt.wantParse {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
			} else {
				assert.Contains(t, err.Error(), tt.path)
			}
		})
	}
}

func TestParse_TOMLPosition(t *testing.T) {
	cfg := Default()
	err := Parse("c.toml", []byte("tagPrefix = \"v\"\nmanifests = =\n"), &cfg)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
	assert.Contains(t, perr.Error(), "line 2")
}

func TestParse_EmptyYAML(t *testing.T) {
	cfg := Default()
	require.NoError(t, Parse("c.yaml", nil, &cfg))
	assert.Equal(t, Default(), cfg)
}

// --- ProjectPredicate tests ---

func TestProjectPredicate(t *testing.T) {
	t.Run("nothing configured", func(t *testing.T) {
		pred, err := Default().ProjectPredicate()
		require.NoError(t, err)
		assert.Nil(t, pred)
	})

	t.Run("names, pattern and extra names", func(t *testing.T) {
		cfg := Config{Projects: []string{"CK.Core"}, ProjectPattern: `Acme\..+`}
		pred, err := cfg.ProjectPredicate("CK.Text")
		require.NoError(t, err)

		assert.True(t, pred("ck.core"))
		assert.True(t, pred("CK.Text"))
		assert.True(t, pred("Acme.Tools"))
		assert.False(t, pred("Acme"))
		assert.False(t, pred("Newtonsoft.Json"))
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := Config{ProjectPattern: "("}.ProjectPredicate()
		assert.ErrorIs(t, err, manifest.ErrInvalidArgument)
	})
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/manifestver/internal/manifest"
)

// FileNames lists the configuration files looked up in a directory, in
// priority order. The first one that exists wins.
var FileNames = []string{".manifestver.yaml", ".manifestver.yml", ".manifestver.toml"}

// Environment variables that override file settings.
const (
	EnvTagPrefix = "MANIFESTVER_TAG_PREFIX"
	EnvProjects  = "MANIFESTVER_PROJECTS"
)

// ErrUnsupportedFormat is returned for a config file whose extension is
// neither YAML nor TOML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Config holds the settings for one manifestver run.
type Config struct {
	// Manifests are the doublestar globs, relative to the working directory,
	// that select the manifest files when no file argument is given.
	Manifests []string `yaml:"manifests" toml:"manifests" json:"manifests"`

	// Exclude are globs removed from the Manifests matches.
	Exclude []string `yaml:"exclude" toml:"exclude" json:"exclude,omitempty"`

	// Projects are dependency names treated as sibling projects whose
	// version follows the manifest's own.
	Projects []string `yaml:"projects" toml:"projects" json:"projects,omitempty"`

	// ProjectPattern is a regular expression matching sibling project names.
	ProjectPattern string `yaml:"projectPattern" toml:"projectPattern" json:"projectPattern,omitempty"`

	// TagPrefix is stripped from Git tags before they are used as versions.
	TagPrefix string `yaml:"tagPrefix" toml:"tagPrefix" json:"tagPrefix"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Manifests: []string{"**/project.json"},
		TagPrefix: "v",
	}
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Find returns the path of the first file of FileNames present in dir, or
// "" when there is none.
func Find(dir string) string {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Load reads the configuration.
//
// Parameters:
//   - path: explicit config file (from --config). When empty, the file is
//     looked up in dir with Find, and a missing file yields Default().
//   - dir: directory searched when path is empty.
//
// Returns the configuration with environment overrides applied, and the
// path of the file that was read ("" when none).
func Load(path, dir string) (Config, string, error) {
	if path == "" {
		path = Find(dir)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, "", fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := Parse(path, data, &cfg); err != nil {
			return Config{}, "", err
		}
	}

	cfg.ApplyEnv(os.Getenv)
	return cfg, path, nil
}

// Parse decodes data into cfg. The format is chosen from the extension of
// path. Fields absent from data keep the values already in cfg; unknown
// fields are rejected so that typos do not go unnoticed.
func Parse(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAML(path, data, cfg)
	case ".toml":
		return parseTOML(path, data, cfg)
	default:
		return fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

func parseYAML(path string, data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			// Empty document.
			return nil
		}
		return &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return nil
}

func parseTOML(path string, data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		perr := &ParseError{Path: path, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return perr
	}
	return nil
}

// ApplyEnv overrides settings from environment variables read through
// getenv. Empty variables are ignored.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v, ok := lookup(getenv, EnvTagPrefix); ok {
		c.TagPrefix = v
	}
	if v, ok := lookup(getenv, EnvProjects); ok {
		c.Projects = splitList(v)
	}
}

func lookup(getenv func(string) string, key string) (string, bool) {
	v := strings.TrimSpace(getenv(key))
	return v, v != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ProjectPredicate builds the sibling project predicate from Projects,
// ProjectPattern and the extra names given (typically the names declared by
// the other manifests of the run). It returns nil when nothing can match.
func (c Config) ProjectPredicate(extra ...string) (func(string) bool, error) {
	var preds []func(string) bool

	names := append(append([]string(nil), c.Projects...), extra...)
	if len(names) > 0 {
		preds = append(preds, manifest.MatchNames(names...))
	}
	if c.ProjectPattern != "" {
		p, err := manifest.MatchPattern(c.ProjectPattern)
		if err != nil {
			return nil, fmt.Errorf("projectPattern: %w", err)
		}
		preds = append(preds, p)
	}

	if len(preds) == 0 {
		return nil, nil
	}
	return manifest.AnyOf(preds...), nil
}

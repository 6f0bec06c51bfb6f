// Package config loads manifestver settings from .manifestver.yaml,
// .manifestver.yml or .manifestver.toml, with environment overrides.
//
// A missing file is not an error: Load falls back to Default(), which
// selects every project.json below the working directory and strips a "v"
// prefix from Git tags.
package config

package manifest

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
)

// LintResult tells how far a manifest is from strict JSON. It is purely
// informational; rewriting never depends on it.
type LintResult struct {
	// StrictJSON is true when the text parses as JSON as-is.
	StrictJSON bool `json:"strictJson"`

	// JSONC is true when the text parses once comments and trailing commas
	// are stripped.
	JSONC bool `json:"jsonc"`

	// Err is the decoder error for the JSONC form, if any.
	Err error `json:"-"`
}

// Lint checks text against encoding/json, first as-is and then through
// github.com/tidwall/jsonc.
func Lint(text string) LintResult {
	if json.Valid([]byte(text)) {
		return LintResult{StrictJSON: true, JSONC: true}
	}

	var v interface{}
	if err := json.Unmarshal(jsonc.ToJSON([]byte(text)), &v); err != nil {
		return LintResult{Err: fmt.Errorf("not valid JSON even without comments: %w", err)}
	}
	return LintResult{JSONC: true}
}

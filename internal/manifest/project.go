package manifest

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidArgument reports a caller contract violation, such as an
// identity predicate that cannot be built.
var ErrInvalidArgument = errors.New("invalid argument")

// MatchNames returns a predicate accepting any of names, ignoring case.
// Empty names are ignored; with no names the predicate accepts nothing.
func MatchNames(names ...string) func(string) bool {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			set[strings.ToLower(n)] = struct{}{}
		}
	}
	return func(name string) bool {
		_, ok := set[strings.ToLower(name)]
		return ok
	}
}

// MatchPattern returns a predicate accepting names that fully match the
// regular expression pattern.
func MatchPattern(pattern string) (func(string) bool, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("empty project pattern: %w", ErrInvalidArgument)
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("project pattern %q: %v: %w", pattern, err, ErrInvalidArgument)
	}
	return re.MatchString, nil
}

// AnyOf combines predicates; nil entries are skipped.
func AnyOf(preds ...func(string) bool) func(string) bool {
	var active []func(string) bool
	for _, p := range preds {
		if p != nil {
			active = append(active, p)
		}
	}
	return func(name string) bool {
		for _, p := range active {
			if p(name) {
				return true
			}
		}
		return false
	}
}

package manifest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MaxPrereleaseLength is the longest prerelease tag a version-shaped
// literal may carry.
const MaxPrereleaseLength = 20

// versionPattern accepts `major[.minor[.patch[.build]]][-prerelease]` with
// optional whitespace around the numeric parts. The prerelease length is
// checked separately.
var versionPattern = regexp.MustCompile(`(?i)^\s*(\d+)\s*(?:\.\s*(\d+)\s*(?:\.\s*(\d+)\s*(?:\.\s*(\d+)\s*)?)?)?(?:-([a-z][0-9a-z-]*))?$`)

// VersionShape is a parsed version-shaped literal. Parts that are absent
// are -1.
type VersionShape struct {
	Major, Minor, Patch, Build int
	Prerelease                 string
}

// String renders the shape without whitespace.
func (v VersionShape) String() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(v.Major))
	for _, part := range []int{v.Minor, v.Patch, v.Build} {
		if part < 0 {
			break
		}
		b.WriteString(".")
		b.WriteString(strconv.Itoa(part))
	}
	if v.Prerelease != "" {
		b.WriteString("-")
		b.WriteString(v.Prerelease)
	}
	return b.String()
}

// ParseVersionShape parses s as a version-shaped literal.
func ParseVersionShape(s string) (VersionShape, error) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return VersionShape{}, fmt.Errorf("%q is not a version number", s)
	}
	if len(m[5]) > MaxPrereleaseLength {
		return VersionShape{}, fmt.Errorf("prerelease %q of %q is longer than %d characters", m[5], s, MaxPrereleaseLength)
	}

	parts := [4]int{-1, -1, -1, -1}
	for i := range parts {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return VersionShape{}, fmt.Errorf("version part %q of %q: %w", m[i+1], s, err)
		}
		parts[i] = n
	}
	return VersionShape{
		Major:      parts[0],
		Minor:      parts[1],
		Patch:      parts[2],
		Build:      parts[3],
		Prerelease: m[5],
	}, nil
}

// IsVersionLike reports whether s looks like a version number.
func IsVersionLike(s string) bool {
	_, err := ParseVersionShape(s)
	return err == nil
}

package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVersions_Spans(t *testing.T) {
	text := `{"version":"1.0","deps":{"A":"1.0","B":{"version":"1.0"}}}`

	ext := ExtractVersions(text, MatchNames("A", "B"))
	require.Nil(t, ext.Err)
	require.Len(t, ext.Occurrences, 3)
	assert.Equal(t, 0, ext.Identity)

	assert.Equal(t, Occurrence{Kind: KindKeyed, Value: "1.0", Start: 1, Length: 15, Path: "$.version"}, ext.Occurrences[0])
	assert.Equal(t, Occurrence{Kind: KindNaked, Value: "1.0", Start: 29, Length: 5, Path: "$.deps.A"}, ext.Occurrences[1])
	assert.Equal(t, Occurrence{Kind: KindKeyed, Value: "1.0", Start: 40, Length: 15, Path: "$.deps.B.version"}, ext.Occurrences[2])

	for _, o := range ext.Occurrences {
		assert.GreaterOrEqual(t, o.Length, len(o.Value))
		assert.Equal(t, o.IsNaked(), o.Length == len(o.Value)+2)
	}
	assert.Equal(t, `"version":"1.0"`, text[ext.Occurrences[0].Start:ext.Occurrences[0].End()])
}

func TestExtractVersions_WithoutPredicate(t *testing.T) {
	text := `{"version":"1.0","deps":{"A":"1.0","B":{"version":"1.0"}}}`

	ext := ExtractVersions(text, nil)
	require.Nil(t, ext.Err)
	require.Len(t, ext.Occurrences, 1)
	assert.Equal(t, "$.version", ext.Occurrences[0].Path)
}

func TestExtractVersions_NakedArrayElements(t *testing.T) {
	text := `{"version": "2.0", "CK.Core": ["1.0", "abc", "1.0.0-alpha"], "tags": ["1.0"]}`

	ext := ExtractVersions(text, MatchNames("ck.core"))
	require.Nil(t, ext.Err)

	var paths []string
	for _, o := range ext.Occurrences {
		paths = append(paths, o.Path)
	}
	assert.Equal(t, []string{`$.version`, `$["CK.Core"][0]`, `$["CK.Core"][2]`}, paths)
	assert.False(t, ext.AllShareValue())
}

func TestExtractVersions_OrderedAndDisjoint(t *testing.T) {
	ext := ExtractVersions(solutionManifest, MatchNames("CK.Core", "CK.Reflection"))
	require.Nil(t, ext.Err)

	for i := 1; i < len(ext.Occurrences); i++ {
		assert.LessOrEqual(t, ext.Occurrences[i-1].End(), ext.Occurrences[i].Start)
	}
}

func TestExtractVersions_ExpectComma(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"comma follows", `{"version": "1", "a": 2}`, false},
		{"last member", `{"a": 2, "version": "1"  }`, false},
		{"member without separator", `{"version": "1" "a": 2}`, true},
		{"stray word follows", `{"version": "1" b}`, true},
		{"inserted into empty object", `{ }`, false},
		{"inserted before members", `{ "a": 2 }`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := ExtractVersions(tt.input, nil)
			require.Nil(t, ext.Err)
			require.GreaterOrEqual(t, ext.Identity, 0)
			assert.Equal(t, tt.want, ext.Occurrences[ext.Identity].ExpectComma)
		})
	}
}

func TestExtractVersions_InsertedIdentity(t *testing.T) {
	ext := ExtractVersions(`xx{"deps": {"A": "1.0"}}`, MatchNames("A"))
	require.Nil(t, ext.Err)
	require.Len(t, ext.Occurrences, 2)

	inserted := ext.Occurrences[0]
	assert.Equal(t, KindInserted, inserted.Kind)
	assert.Equal(t, 3, inserted.Start)
	assert.Equal(t, 0, inserted.Length)
	assert.True(t, inserted.ExpectComma)
	assert.Equal(t, 0, ext.Identity)
	assert.False(t, ext.AllShareValue(), "the empty inserted version differs from 1.0")
}

func TestExtraction_AllShareValue_NoIdentity(t *testing.T) {
	ext := ExtractVersions("nothing here", nil)
	assert.NotNil(t, ext.Err)
	assert.Equal(t, -1, ext.Identity)
	assert.False(t, ext.AllShareValue())
}

func TestExtractVersions_ArrayRoot(t *testing.T) {
	ext := ExtractVersions(`[{"A": "1.0"}, {"version": "1.0"}]`, MatchNames("A"))
	require.Nil(t, ext.Err)
	assert.Equal(t, -1, ext.Identity, "nothing is inserted into an array")
	require.Len(t, ext.Occurrences, 1)
	assert.Equal(t, KindNaked, ext.Occurrences[0].Kind)
	assert.False(t, ext.AllShareValue())
}

func TestExtractVersions_NonStringVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"root number", `{"version": 1}`, true},
		{"root object", `{"version": {"major": 1}}`, true},
		{"sibling project number", `{"version": "1", "deps": {"A": {"version": 1}}}`, false},
		{"unrelated object", `{"version": "1", "x": {"version": true}}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := ExtractVersions(tt.input, MatchNames("A"))
			if tt.wantErr {
				require.NotNil(t, ext.Err)
				assert.Contains(t, ext.Err.Error(), `"version" must be a string`)
				return
			}
			require.Nil(t, ext.Err)
			require.Len(t, ext.Occurrences, 1)
			assert.Equal(t, "$.version", ext.Occurrences[0].Path)
		})
	}
}

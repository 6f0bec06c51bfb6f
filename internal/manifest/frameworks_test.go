package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFrameworks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "document order",
			input: `{"frameworks": {"net46": {}, "netstandard1.3": {}}}`,
			want:  []string{"net46", "netstandard1.3"},
		},
		{
			name:  "nested frameworks objects are ignored",
			input: `{"x": {"frameworks": {"a": {}}}, "frameworks": {"net46": {"frameworks": {"inner": {}}}}}`,
			want:  []string{"net46"},
		},
		{
			name:  "no frameworks",
			input: `{"version": "1.0"}`,
			want:  nil,
		},
		{
			name:  "frameworks inside a root array",
			input: `[{"frameworks": {"a": {}}}]`,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names, err := ExtractFrameworks(tt.input)
			assert.Nil(t, err)
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestExtractFrameworks_PartialOnError(t *testing.T) {
	names, err := ExtractFrameworks(`{"frameworks": {"a": {}, "b": {}, "a": {}}}`)
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "duplicate key")
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestDeclaredName(t *testing.T) {
	name, ok := DeclaredName(`{"version": "1", "name": "CK.Core", "x": {"name": "inner"}}`)
	require.True(t, ok)
	assert.Equal(t, "CK.Core", name)

	_, ok = DeclaredName(`{"name": 42}`)
	assert.False(t, ok, "a non-string name is not a declared name")

	_, ok = DeclaredName(`not json`)
	assert.False(t, ok)
}

package semver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Version
	}{
		{"1.4", Version{Major: 1, Minor: 4}},
		{"1.4.2", Version{Major: 1, Minor: 4, Patch: 2}},
		{"v2.0.1", Version{Major: 2, Minor: 0, Patch: 1}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, input := range []string{"", "1", "a.b", "1.4.2.9", "1.x"} {
		_, err := Parse(input)
		assert.Error(t, err, input)
	}
}

func TestCompare(t *testing.T) {
	assert.Equal(t, 0, NewVersion(1, 4, 0).Compare(NewVersion(1, 4, 0)))
	assert.Equal(t, -1, NewVersion(1, 2, 0).Compare(NewVersion(1, 4, 0)))
	assert.Equal(t, 1, NewVersion(2, 0, 0).Compare(NewVersion(1, 9, 9)))
	assert.Equal(t, 1, NewVersion(1, 4, 1).Compare(NewVersion(1, 4, 0)))
}

func TestCompatible(t *testing.T) {
	required := NewVersion(1, 2, 0)

	assert.True(t, Compatible(required, NewVersion(1, 2, 0)))
	assert.True(t, Compatible(required, NewVersion(1, 4, 0)))
	assert.False(t, Compatible(required, NewVersion(1, 1, 0)))
	assert.False(t, Compatible(required, NewVersion(2, 2, 0)))
}

func TestAnyCompatible(t *testing.T) {
	required := []Version{NewVersion(1, 2, 0), NewVersion(2, 0, 0)}

	assert.True(t, AnyCompatible(required, NewVersion(1, 4, 0)))
	assert.True(t, AnyCompatible(required, NewVersion(2, 1, 0)))
	assert.False(t, AnyCompatible(required, NewVersion(0, 9, 0)))
	assert.False(t, AnyCompatible(required, NewVersion(3, 0, 0)))
}

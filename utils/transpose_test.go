package utils_test

import (
	"testing"

	"jamdevientos-api/utils"

	"github.com/stretchr/testify/assert"
)

func TestTransposeKey(t *testing.T) {
	cases := []struct {
		key    string
		tuning string
		want   string
	}{
		// Concert pitch instruments read the concert key
		{"C", "C", "C"},
		{"F#m", "NONE", "F#m"},

		// Classic band transpositions
		{"C", "Bb", "D"},  // trumpet, clarinet
		{"C", "Eb", "A"},  // alto sax
		{"C", "F", "G"},   // french horn
		{"F", "Bb", "G"},
		{"G", "Eb", "E"},

		// Quality is preserved
		{"Cm", "Bb", "Dm"},
		{"Am", "Eb", "F#m"},

		// Wrap around the octave
		{"B", "Bb", "C#"},
	}
	for _, tc := range cases {
		got := utils.TransposeKey(tc.key, tc.tuning)
		assert.Equal(t, tc.want, got, "%s for %s instrument", tc.key, tc.tuning)
	}
}

func TestTransposeKeyFailSoft(t *testing.T) {
	// Unknown inputs come back unchanged, never an error
	assert.Equal(t, "H", utils.TransposeKey("H", "Bb"))
	assert.Equal(t, "C", utils.TransposeKey("C", "Xx"))
	assert.Equal(t, "", utils.TransposeKey("", "Bb"))
	assert.Equal(t, "C", utils.TransposeKey("C", ""))
}

func TestKnownKey(t *testing.T) {
	assert.True(t, utils.KnownKey("C"))
	assert.True(t, utils.KnownKey("A#m"))
	assert.False(t, utils.KnownKey("H"))
	assert.False(t, utils.KnownKey(""))
}

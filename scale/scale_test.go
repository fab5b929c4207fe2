package scale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyIndex(t *testing.T) {
	assert.Equal(t, 0, KeyIndex("C"))
	assert.Equal(t, 1, KeyIndex("c#"))
	assert.Equal(t, 10, KeyIndex("Bb"))
	assert.Equal(t, 11, KeyIndex("B"))
	assert.Equal(t, 0, KeyIndex("H"))
}

func TestCatalogue(t *testing.T) {
	require.Len(t, Names(), 40)
	for _, name := range Names() {
		s, ok := Lookup(name)
		require.True(t, ok, name)
		for i := 1; i < len(s.Intervals); i++ {
			assert.Less(t, s.Intervals[i-1], s.Intervals[i], name)
		}
		assert.Equal(t, 0, s.Intervals[0], name)
	}
}

func TestUnknownScaleIsChromatic(t *testing.T) {
	assert.Equal(t, "Chromatic", Get("not a scale").Name)
	assert.Len(t, Get("").Intervals, 12)
	assert.Equal(t, "Natural Minor", Get("natural minor").Name)
	assert.Equal(t, "Phrygian Nat3", Get("Phyrgian Nat3").Name)
}

func TestDegreeToPitchStaysInScale(t *testing.T) {
	for _, name := range Names() {
		s := Get(name)
		for root := 0; root < 12; root++ {
			for degree := -10; degree < 20; degree++ {
				for octave := -1; octave <= 11; octave++ {
					p := s.DegreeToPitch(root, degree, octave)
					require.GreaterOrEqual(t, p, 0)
					require.LessOrEqual(t, p, 127)
					require.True(t, s.Contains(root, p), "%s root %d degree %d octave %d -> %d", name, root, degree, octave, p)
				}
			}
		}
	}
}

func TestDegreeToPitchValues(t *testing.T) {
	minor := Get("Natural Minor")
	assert.Equal(t, 36+9, minor.DegreeToPitch(9, 0, 3)) // A2
	assert.Equal(t, 36+0, minor.DegreeToPitch(9, 2, 3)) // C wraps inside the octave
	assert.Equal(t, 45, minor.DegreeToPitch(9, 7, 3))   // degree wraps to root
	assert.Equal(t, 119, Chromatic().DegreeToPitch(0, 11, 20))
}

func TestDegreeToPitchFoldsHighRegisters(t *testing.T) {
	major := Get("Major")
	root := KeyIndex("C#")
	assert.Equal(t, 116, major.DegreeToPitch(root, 4, 10)) // G#8, not a clamped 127
	assert.Equal(t, 118, major.DegreeToPitch(root, 5, 10)) // A#8
	assert.Equal(t, 1, major.DegreeToPitch(root, 0, -3))
	for degree := 0; degree < major.Len(); degree++ {
		assert.True(t, major.Contains(root, major.DegreeToPitch(root, degree, 10)))
	}
}

func TestSnapIsIdempotent(t *testing.T) {
	for _, name := range Names() {
		s := Get(name)
		for root := 0; root < 12; root++ {
			for p := 0; p < 128; p++ {
				snapped := s.Snap(root, p)
				if s.Contains(root, p) {
					assert.Equal(t, p, snapped)
				}
				assert.Equal(t, snapped, s.Snap(root, snapped))
			}
		}
	}
}

func TestSnapPrefersUp(t *testing.T) {
	major := Get("Major")
	assert.Equal(t, 62, major.Snap(0, 61))
	assert.Equal(t, 67, major.Snap(0, 66))
	assert.True(t, major.Contains(0, major.Snap(0, 70)))
}

func TestDegreeOf(t *testing.T) {
	major := Get("Major")
	assert.Equal(t, 4, major.DegreeOf(0, 67))
	assert.Equal(t, 0, major.DegreeOf(2, 50))
}

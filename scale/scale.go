package scale

import "strings"

// Keys lists the 12 pitch classes, sharps only
var Keys = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var flats = map[string]int{
	"DB": 1, "EB": 3, "GB": 6, "AB": 8, "BB": 10,
}

// KeyIndex returns the pitch class of a key name, 0 (C) when unknown
func KeyIndex(name string) int {
	n := strings.ToUpper(strings.TrimSpace(name))
	for i, k := range Keys {
		if n == k {
			return i
		}
	}
	if i, ok := flats[n]; ok {
		return i
	}
	return 0
}

// Scale is a named set of semitone offsets from a root, ascending
type Scale struct {
	Name      string
	Intervals []int
}

// Len returns the number of degrees
func (s Scale) Len() int {
	return len(s.Intervals)
}

var chromatic = Scale{Name: "Chromatic", Intervals: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}}

var scales = []Scale{
	{"Major", []int{0, 2, 4, 5, 7, 9, 11}},
	{"Natural Minor", []int{0, 2, 3, 5, 7, 8, 10}},
	{"Harmonic Minor", []int{0, 2, 3, 5, 7, 8, 11}},
	{"Dorian", []int{0, 2, 3, 5, 7, 9, 10}},
	{"Phrygian", []int{0, 1, 3, 5, 7, 8, 10}},
	{"Lydian", []int{0, 2, 4, 6, 7, 9, 11}},
	{"Mixolydian", []int{0, 2, 4, 5, 7, 9, 10}},
	{"Aeolian", []int{0, 2, 3, 5, 7, 8, 10}},
	{"Locrian", []int{0, 1, 3, 5, 6, 8, 10}},
	{"Locrian Nat6", []int{0, 1, 3, 5, 6, 9, 10}},
	{"Ionian #5", []int{0, 2, 4, 6, 7, 9, 11}},
	{"Dorian #4", []int{0, 2, 3, 6, 7, 9, 10}},
	{"Phrygian Dom", []int{0, 1, 3, 5, 7, 9, 10}},
	{"Lydian #2", []int{0, 3, 4, 6, 7, 9, 11}},
	{"Super Locrian", []int{0, 1, 3, 4, 6, 8, 10}},
	{"Dorian b2", []int{0, 1, 3, 5, 7, 9, 10}},
	{"Lydian Aug", []int{0, 2, 4, 6, 8, 9, 11}},
	{"Lydian Dom", []int{0, 2, 4, 6, 7, 9, 10}},
	{"Mixo b6", []int{0, 2, 4, 5, 7, 8, 10}},
	{"Locrian #2", []int{0, 2, 3, 5, 6, 8, 10}},
	{"8 Tone Spanish", []int{0, 1, 3, 4, 5, 6, 8, 10}},
	{"Phrygian Nat3", []int{0, 1, 4, 5, 7, 8, 10}},
	{"Blues", []int{0, 3, 5, 6, 7, 10}},
	{"Hungarian Min", []int{0, 3, 5, 8, 11}},
	{"Harmonic Maj(Ethiopian)", []int{0, 2, 4, 5, 7, 8, 11}},
	{"Dorian b5", []int{0, 2, 3, 5, 6, 9, 10}},
	{"Phrygian b4", []int{0, 1, 3, 4, 7, 8, 10}},
	{"Lydian b3", []int{0, 2, 3, 6, 7, 9, 11}},
	{"Mixolydian b2", []int{0, 1, 4, 5, 7, 9, 10}},
	{"Lydian Aug2", []int{0, 3, 4, 6, 8, 9, 11}},
	{"Locrian bb7", []int{0, 1, 3, 5, 6, 8, 9}},
	{"Pentatonic Maj", []int{0, 2, 4, 7, 9}},
	{"Pentatonic Min", []int{0, 3, 5, 7, 10}},
	{"Neopolitan Maj", []int{0, 1, 3, 5, 7, 9, 11}},
	{"Neopolitan Min", []int{0, 1, 3, 5, 7, 8, 10}},
	{"Spanish Gypsy", []int{0, 1, 4, 5, 7, 8, 10}},
	{"Romanian Minor", []int{0, 2, 3, 6, 7, 9, 10}},
	chromatic,
	{"Bebop Major", []int{0, 2, 4, 5, 7, 8, 9, 11}},
	{"Bebop Minor", []int{0, 2, 3, 5, 7, 8, 9, 10}},
}

var aliases = map[string]string{
	"minor":                  "Natural Minor",
	"ionian":                 "Major",
	"phyrgian nat3":          "Phrygian Nat3",
	"harmonic maj(ethopian)": "Harmonic Maj(Ethiopian)",
	"harmonic major":         "Harmonic Maj(Ethiopian)",
	"mixolydian b6":          "Mixo b6",
}

// Names lists scale names for selection UIs
func Names() []string {
	out := make([]string, len(scales))
	for i, s := range scales {
		out[i] = s.Name
	}
	return out
}

// Lookup finds a scale by case-insensitive name
func Lookup(name string) (Scale, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if a, ok := aliases[n]; ok {
		n = strings.ToLower(a)
	}
	for _, s := range scales {
		if strings.ToLower(s.Name) == n {
			return s, true
		}
	}
	return Scale{}, false
}

// Get returns a scale by name, falling back to Chromatic
func Get(name string) Scale {
	if s, ok := Lookup(name); ok {
		return s
	}
	return chromatic
}

// Chromatic returns the 12-tone scale
func Chromatic() Scale {
	return chromatic
}

func wrap12(v int) int {
	v %= 12
	if v < 0 {
		v += 12
	}
	return v
}

func wrapDegree(degree, n int) int {
	degree %= n
	if degree < 0 {
		degree += n
	}
	return degree
}

func clampPitch(p int) int {
	if p < 0 {
		return 0
	}
	if p > 127 {
		return 127
	}
	return p
}

// DegreeToPitch maps a scale degree to a MIDI note. The degree wraps into the scale; octave selects the register.
// Registers outside 0..127 fold back by whole octaves so the pitch class stays in the scale.
func (s Scale) DegreeToPitch(root, degree, octave int) int {
	if len(s.Intervals) == 0 {
		s = chromatic
	}
	pc := wrap12(root + s.Intervals[wrapDegree(degree, len(s.Intervals))])
	p := octave*12 + pc
	for p > 127 {
		p -= 12
	}
	for p < 0 {
		p += 12
	}
	return p
}

// Contains reports whether pitch belongs to the scale rooted at root
func (s Scale) Contains(root, pitch int) bool {
	if len(s.Intervals) == 0 {
		return true
	}
	rel := wrap12(pitch - root)
	for _, iv := range s.Intervals {
		if iv == rel {
			return true
		}
	}
	return false
}

// Snap moves pitch to the nearest scale tone, preferring upward on ties. In-scale pitches are unchanged.
func (s Scale) Snap(root, pitch int) int {
	pitch = clampPitch(pitch)
	if s.Contains(root, pitch) {
		return pitch
	}
	for d := 1; d <= 6; d++ {
		if up := pitch + d; up <= 127 && s.Contains(root, up) {
			return up
		}
		if down := pitch - d; down >= 0 && s.Contains(root, down) {
			return down
		}
	}
	return pitch
}

// DegreeOf returns the degree of pitch in the scale, or the degree of its snapped pitch
func (s Scale) DegreeOf(root, pitch int) int {
	rel := wrap12(s.Snap(root, pitch) - root)
	for i, iv := range s.Intervals {
		if iv == rel {
			return i
		}
	}
	return 0
}

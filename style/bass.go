package style

import "strings"

// BassID identifies a bass/808 style
type BassID int

const (
	BassEDM BassID = iota
	BassTrap
	BassDrill
	BassRnB
	BassRock
	BassReggaeton
	BassHipHop
	BassWxstie
	numBassIDs
)

// DefaultBassID is returned for unknown names
const DefaultBassID = BassTrap

var bassNames = [numBassIDs]string{
	"edm", "trap", "drill", "r&b", "rock", "reggaeton", "hip hop", "wxstie",
}

func (id BassID) String() string {
	if id < 0 || id >= numBassIDs {
		return bassNames[DefaultBassID]
	}
	return bassNames[id]
}

// Subdivision indexes BassSpec.Weights
type Subdivision int

const (
	Quarter Subdivision = iota
	Eighth
	OffEighth
	Sixteenth
	EighthTriplet
	SixteenthTriplet
	NumSubdivisions
)

// BassSpec is a melodic/bass style rule table
type BassSpec struct {
	ID              BassID
	Name            string
	Weights         [NumSubdivisions]float64
	SyncopationProb float64
	SwingPct        float64 // 50 is straight
	RestDensityMin  float64
	RestDensityMax  float64
	SmallVarEvery   int // bars between small variations
	BigVarEvery     int // bars between big variations
	MaxHitsPerBar   int
	PrefersTriplets bool
	PrefersCells    bool
	EnforceTresillo bool
}

// NormalizedWeights returns Weights scaled to sum to 1, uniform when they sum to <= 0
func (s BassSpec) NormalizedWeights() [NumSubdivisions]float64 {
	var out [NumSubdivisions]float64
	sum := 0.0
	for _, w := range s.Weights {
		if w > 0 {
			sum += w
		}
	}
	if sum <= 0 {
		for i := range out {
			out[i] = 1.0 / float64(NumSubdivisions)
		}
		return out
	}
	for i, w := range s.Weights {
		if w > 0 {
			out[i] = w / sum
		}
	}
	return out
}

// TripletWeight is the normalized share of triplet subdivisions
func (s BassSpec) TripletWeight() float64 {
	w := s.NormalizedWeights()
	return w[EighthTriplet] + w[SixteenthTriplet]
}

// SwingAmount maps SwingPct (50 straight, 75 full shuffle) onto [0,1]
func (s BassSpec) SwingAmount() float64 {
	a := (s.SwingPct - 50) / 25
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}

// IsLowEnd reports the styles that sit an octave lower with short sustains
func (s BassSpec) IsLowEnd() bool {
	return s.ID == BassTrap || s.ID == BassDrill || s.ID == BassWxstie
}

var bassAliases = map[string]BassID{
	"edm":        BassEDM,
	"trap":       BassTrap,
	"drill":      BassDrill,
	"r&b":        BassRnB,
	"rnb":        BassRnB,
	"rock":       BassRock,
	"reggaeton":  BassReggaeton,
	"hip hop":    BassHipHop,
	"hiphop":     BassHipHop,
	"hip-hop":    BassHipHop,
	"wxstie":     BassWxstie,
	"westcoast":  BassWxstie,
	"west coast": BassWxstie,
}

// ParseBassID looks up a bass style by case-insensitive name or alias
func ParseBassID(name string) (BassID, bool) {
	id, ok := bassAliases[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

func bass(id BassID, w [NumSubdivisions]float64, sync, swing, restMin, restMax float64, small, big, maxHits int, trip, cells, tresillo bool) BassSpec {
	return BassSpec{
		ID:              id,
		Name:            id.String(),
		Weights:         w,
		SyncopationProb: sync,
		SwingPct:        swing,
		RestDensityMin:  restMin,
		RestDensityMax:  restMax,
		SmallVarEvery:   small,
		BigVarEvery:     big,
		MaxHitsPerBar:   maxHits,
		PrefersTriplets: trip,
		PrefersCells:    cells,
		EnforceTresillo: tresillo,
	}
}

func bassTable() [numBassIDs]BassSpec {
	var t [numBassIDs]BassSpec
	t[BassEDM] = bass(BassEDM, [6]float64{.05, .55, .25, .15, 0, 0}, .35, 50, .30, .55, 2, 4, 8, false, false, false)
	t[BassTrap] = bass(BassTrap, [6]float64{.25, .35, 0, .25, .10, .05}, .40, 50, .25, .55, 2, 4, 8, false, false, false)
	t[BassDrill] = bass(BassDrill, [6]float64{.10, .20, 0, .30, .30, .10}, .45, 50, .30, .60, 2, 4, 8, true, false, false)
	t[BassRnB] = bass(BassRnB, [6]float64{.20, .40, 0, .40, 0, 0}, .35, 56, .25, .55, 2, 4, 8, true, false, false)
	t[BassRock] = bass(BassRock, [6]float64{.15, .70, 0, .15, 0, 0}, .15, 50, .10, .40, 4, 8, 10, false, false, false)
	t[BassReggaeton] = bass(BassReggaeton, [6]float64{.10, .55, .15, .20, 0, 0}, .45, 50, .25, .55, 2, 4, 8, false, true, true)
	t[BassHipHop] = bass(BassHipHop, [6]float64{.25, .55, 0, .20, 0, 0}, .30, 52, .20, .50, 2, 4, 8, false, false, false)
	t[BassWxstie] = bass(BassWxstie, [6]float64{.10, .55, 0, .25, .10, 0}, .40, 50, .35, .50, 2, 4, 8, false, false, false)
	return t
}

var accentCells = map[int][]int{
	5:  {3, 2},
	7:  {3, 2, 2},
	9:  {3, 3, 3},
	11: {3, 3, 3, 2},
	13: {3, 3, 3, 2, 2},
	15: {3, 3, 3, 3, 3},
	17: {3, 3, 3, 3, 3, 2},
	19: {3, 3, 3, 3, 3, 2, 2},
	21: {3, 3, 3, 3, 3, 3, 3},
}

// AccentCells projects an irregular /8 numerator onto an additive grouping.
// Even numerators and /4 or /16 meters return nil: accent uniformly.
func AccentCells(num, den int) []int {
	if den != 8 {
		return nil
	}
	cells, ok := accentCells[num]
	if !ok {
		return nil
	}
	return append([]int(nil), cells...)
}

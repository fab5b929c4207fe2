package style

import (
	"strings"

	"go-boom/grid"
)

// ID identifies a drum style
type ID int

const (
	HipHop ID = iota
	Trap
	Drill
	EDM
	Reggaeton
	RnB
	Pop
	Rock
	Wxstie
	numIDs
)

// DefaultID is returned for unknown names
const DefaultID = HipHop

var idNames = [numIDs]string{
	"hip hop", "trap", "drill", "edm", "reggaeton", "r&b", "pop", "rock", "wxstie",
}

func (id ID) String() string {
	if id < 0 || id >= numIDs {
		return idNames[DefaultID]
	}
	return idNames[id]
}

// Row is the generation rule for one drum lane
type Row struct {
	P          [16]float64 // onset probability per 16th step
	VelMin     int
	VelMax     int
	RollProb   float64
	MaxRollSub int
	LenTicks   int
}

// Spec is a drum style rule table
type Spec struct {
	ID           ID
	Name         string
	SwingPct     float64
	TripletBias  float64
	DottedBias   float64
	BPMMin       int
	BPMMax       int
	LockBackbeat bool
	Rows         [grid.GeneratedLanes]Row
}

// Row returns the rule for a lane; lanes outside the table get a silent row
func (s Spec) Row(l grid.Lane) Row {
	if l < 0 || int(l) >= grid.GeneratedLanes {
		return newRow()
	}
	return s.Rows[l]
}

var drumAliases = map[string]ID{
	"hip hop":    HipHop,
	"hiphop":     HipHop,
	"hip-hop":    HipHop,
	"trap":       Trap,
	"drill":      Drill,
	"edm":        EDM,
	"reggaeton":  Reggaeton,
	"r&b":        RnB,
	"rnb":        RnB,
	"pop":        Pop,
	"rock":       Rock,
	"wxstie":     Wxstie,
	"westcoast":  Wxstie,
	"west coast": Wxstie,
}

// ParseID looks up a style by case-insensitive name or alias
func ParseID(name string) (ID, bool) {
	id, ok := drumAliases[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

func newRow() Row {
	return Row{VelMin: 90, VelMax: 120, LenTicks: 24, MaxRollSub: 1}
}

func pulses(r *Row, every int, prob float64, vmin, vmax int) {
	for i := 0; i < 16; i += every {
		r.P[i] = prob
	}
	r.VelMin, r.VelMax = vmin, vmax
}

func backbeat(r *Row, on float64, vmin, vmax int) {
	r.P[4], r.P[12] = on, on
	r.VelMin, r.VelMax = vmin, vmax
}

// sprinkle raises the given steps to at least prob and widens the velocity range
func sprinkle(r *Row, steps []int, prob float64, vmin, vmax int) {
	for _, s := range steps {
		if s >= 0 && s < 16 && r.P[s] < prob {
			r.P[s] = prob
		}
	}
	r.VelMin = min(r.VelMin, vmin)
	r.VelMax = max(r.VelMax, vmax)
}

func alternate(r *Row, even, odd float64) {
	for i := range r.P {
		if i%2 == 0 {
			r.P[i] = even
		} else {
			r.P[i] = odd
		}
	}
}

func baseSpec(id ID, swing, triplet, dotted float64, bpmMin, bpmMax int) Spec {
	s := Spec{
		ID:           id,
		Name:         id.String(),
		SwingPct:     swing,
		TripletBias:  triplet,
		DottedBias:   dotted,
		BPMMin:       bpmMin,
		BPMMax:       bpmMax,
		LockBackbeat: true,
	}
	for i := range s.Rows {
		s.Rows[i] = newRow()
	}
	return s
}

func makeTrap() Spec {
	s := baseSpec(Trap, 10, 0.25, 0.10, 120, 160)
	r := &s.Rows
	pulses(&r[grid.Kick], 4, 0.55, 95, 120)
	sprinkle(&r[grid.Kick], []int{1, 3, 6, 7, 9, 11, 14, 15}, 0.35, 92, 118)
	backbeat(&r[grid.Snare], 1, 100, 127)
	backbeat(&r[grid.Clap], 0.6, 96, 115)

	hat := &r[grid.ClosedHat]
	alternate(hat, 0.85, 0.35)
	hat.VelMin, hat.VelMax = 75, 105
	hat.RollProb, hat.MaxRollSub = 0.45, 2

	oh := &r[grid.OpenHat]
	for i := range oh.P {
		if i%4 == 2 {
			oh.P[i] = 0.45
		} else {
			oh.P[i] = 0.05
		}
	}
	oh.LenTicks = 36

	sprinkle(&r[grid.Perc], []int{2, 10}, 0.15, 70, 100)
	return s
}

func makeDrill() Spec {
	s := baseSpec(Drill, 5, 0.55, 0.10, 130, 145)
	r := &s.Rows
	kick := &r[grid.Kick]
	for i := 0; i < 16; i += 4 {
		kick.P[i] = 0.6
	}
	sprinkle(kick, []int{3, 5, 7, 8, 11, 13, 15}, 0.4, 95, 120)

	sn := &r[grid.Snare]
	sn.P[12], sn.P[4] = 1, 0.2
	sn.VelMin, sn.VelMax = 100, 127
	r[grid.Clap] = *sn
	r[grid.Clap].VelMin, r[grid.Clap].VelMax = 90, 115

	hat := &r[grid.ClosedHat]
	alternate(hat, 0.6, 0.25)
	hat.VelMin, hat.VelMax = 70, 100
	hat.RollProb, hat.MaxRollSub = 0.6, 3

	sprinkle(&r[grid.OpenHat], []int{11, 13}, 0.4, 80, 105)
	r[grid.OpenHat].LenTicks = 28
	return s
}

func makeEDM() Spec {
	s := baseSpec(EDM, 0, 0, 0.05, 120, 128)
	r := &s.Rows
	pulses(&r[grid.Kick], 4, 1, 105, 120)
	backbeat(&r[grid.Snare], 0.9, 100, 118)
	backbeat(&r[grid.Clap], 0.9, 96, 115)

	hat := &r[grid.ClosedHat]
	alternate(hat, 0.05, 0.9)
	hat.VelMin, hat.VelMax = 85, 105

	oh := &r[grid.OpenHat]
	oh.P[2], oh.P[10] = 0.25, 0.25
	oh.LenTicks = 32
	return s
}

func makeReggaeton() Spec {
	s := baseSpec(Reggaeton, 0, 0.15, 0.10, 85, 105)
	r := &s.Rows
	kick := &r[grid.Kick]
	kick.P[0], kick.P[6], kick.P[8] = 0.95, 0.65, 0.55
	kick.VelMin, kick.VelMax = 96, 118

	sn := &r[grid.Snare]
	sn.P[4], sn.P[10] = 0.85, 0.95
	r[grid.Clap] = *sn
	r[grid.Clap].VelMin, r[grid.Clap].VelMax = 90, 112

	alternate(&r[grid.ClosedHat], 0.55, 0.2)
	r[grid.OpenHat].P[15] = 0.35
	return s
}

func makeRnB() Spec {
	s := baseSpec(RnB, 18, 0.20, 0.15, 70, 95)
	r := &s.Rows
	backbeat(&r[grid.Snare], 0.95, 98, 118)
	r[grid.Clap] = r[grid.Snare]
	r[grid.Clap].VelMin, r[grid.Clap].VelMax = 85, 108
	sprinkle(&r[grid.Kick], []int{0, 3, 8, 11, 14}, 0.5, 92, 115)

	hat := &r[grid.ClosedHat]
	alternate(hat, 0.7, 0.25)
	hat.VelMin, hat.VelMax = 70, 96
	hat.RollProb, hat.MaxRollSub = 0.2, 2

	oh := &r[grid.OpenHat]
	oh.P[2], oh.P[10] = 0.2, 0.2
	oh.LenTicks = 28
	return s
}

func makePop() Spec {
	s := baseSpec(Pop, 5, 0.05, 0.05, 90, 120)
	r := &s.Rows
	backbeat(&r[grid.Snare], 0.95, 98, 118)
	r[grid.Clap] = r[grid.Snare]
	r[grid.Clap].VelMin, r[grid.Clap].VelMax = 90, 112
	pulses(&r[grid.Kick], 4, 0.85, 98, 118)
	alternate(&r[grid.ClosedHat], 0.8, 0.2)

	oh := &r[grid.OpenHat]
	oh.P[2], oh.P[10] = 0.25, 0.25
	oh.LenTicks = 30
	return s
}

func makeRock() Spec {
	s := baseSpec(Rock, 0, 0, 0, 90, 140)
	r := &s.Rows
	backbeat(&r[grid.Snare], 1, 100, 124)
	pulses(&r[grid.Kick], 4, 0.75, 98, 118)
	alternate(&r[grid.ClosedHat], 0.95, 0)
	r[grid.OpenHat].P[7], r[grid.OpenHat].P[15] = 0.35, 0.35
	return s
}

func makeWxstie() Spec {
	s := baseSpec(Wxstie, 20, 0.15, 0.10, 85, 105)
	r := &s.Rows
	backbeat(&r[grid.Snare], 0.95, 100, 124)
	r[grid.Clap] = r[grid.Snare]
	r[grid.Clap].VelMin, r[grid.Clap].VelMax = 92, 114
	sprinkle(&r[grid.Kick], []int{0, 3, 7, 8, 11, 15}, 0.55, 95, 118)

	hat := &r[grid.ClosedHat]
	alternate(hat, 0.55, 0.15)
	hat.RollProb, hat.MaxRollSub = 0.25, 2

	oh := &r[grid.OpenHat]
	oh.P[2], oh.P[10] = 0.25, 0.25
	oh.LenTicks = 28

	sprinkle(&r[grid.Perc], []int{6, 14}, 0.2, 75, 100)
	return s
}

func makeHipHop() Spec {
	s := baseSpec(HipHop, 8, 0.05, 0.05, 85, 100)
	r := &s.Rows
	backbeat(&r[grid.Snare], 0.95, 98, 118)
	pulses(&r[grid.Kick], 4, 0.7, 96, 115)
	alternate(&r[grid.ClosedHat], 0.75, 0.05)
	r[grid.OpenHat].P[10] = 0.2
	r[grid.OpenHat].LenTicks = 28
	return s
}

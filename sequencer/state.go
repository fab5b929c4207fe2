package sequencer

import (
	"strings"

	"go-boom/config"
	"go-boom/grid"
)

// Engine selects which generator the manager drives
type Engine string

const (
	Engine808   Engine = "808"
	EngineBass  Engine = "Bass"
	EngineDrums Engine = "Drums"
)

// Engines lists the engines in UI order
var Engines = []Engine{Engine808, EngineBass, EngineDrums}

// ParseEngine maps a name to an engine, defaulting to Drums
func ParseEngine(s string) Engine {
	for _, e := range Engines {
		if strings.EqualFold(s, string(e)) {
			return e
		}
	}
	return EngineDrums
}

// Melodic reports whether the engine produces pitched notes
func (e Engine) Melodic() bool {
	return e == Engine808 || e == EngineBass
}

// State is the single source of truth for a session: the generator settings
// and the two patterns they produced
type State struct {
	Engine        Engine `yaml:"engine"`
	DrumStyle     string `yaml:"drumStyle"`
	BassStyle     string `yaml:"bassStyle"`
	Key           string `yaml:"key"`
	Scale         string `yaml:"scale"`
	Octave        int    `yaml:"octave"`
	Bars          int    `yaml:"bars"`
	TimeSignature string `yaml:"timeSignature"`
	RestPct       int    `yaml:"restPct"`
	DottedPct     int    `yaml:"dottedPct"`
	TripletPct    int    `yaml:"tripletPct"`
	SwingPct      int    `yaml:"swingPct"`
	Seed          int64  `yaml:"seed"`
	FlipDensity   int    `yaml:"flipDensity"`
	FollowKicks   bool   `yaml:"followKicks"`
	BPM           int    `yaml:"bpm"`
	Kit           string `yaml:"kit"`

	// LastSeed is the resolved seed behind the current pattern
	LastSeed int64 `yaml:"lastSeed"`

	Drums   grid.Pattern `yaml:"drums"`
	Melodic grid.Pattern `yaml:"melodic"`

	ProjectName string `yaml:"-"`
}

// NewState creates a state from configured defaults
func NewState(cfg *config.Config) *State {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	g := cfg.Generation
	s := &State{
		Engine:        ParseEngine(g.Engine),
		DrumStyle:     g.DrumStyle,
		BassStyle:     g.BassStyle,
		Key:           g.Key,
		Scale:         g.Scale,
		Octave:        g.Octave,
		Bars:          grid.ClampBars(g.Bars),
		TimeSignature: g.TimeSignature,
		RestPct:       g.RestPct,
		DottedPct:     g.DottedPct,
		TripletPct:    g.TripletPct,
		SwingPct:      g.SwingPct,
		Seed:          g.Seed,
		FlipDensity:   g.FlipDensity,
		BPM:           cfg.Export.BPM,
		Kit:           cfg.Export.Kit,
	}
	s.reset()
	return s
}

// reset clears both patterns to the current bar count and meter
func (s *State) reset() {
	spb := s.Meter().StepsPerBar()
	s.Drums = grid.NewPattern(grid.KindDrum, s.Bars, spb)
	s.Melodic = grid.NewPattern(grid.KindMelodic, s.Bars, spb)
}

// Meter returns the parsed time signature
func (s *State) Meter() grid.TimeSignature {
	return grid.ParseTimeSignature(s.TimeSignature)
}

// Active returns the pattern the current engine works on
func (s *State) Active() grid.Pattern {
	if s.Engine.Melodic() {
		return s.Melodic
	}
	return s.Drums
}

// Clone returns a deep copy
func (s *State) Clone() State {
	c := *s
	c.Drums = s.Drums.Clone()
	c.Melodic = s.Melodic.Clone()
	return c
}

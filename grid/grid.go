package grid

import "sort"

// Tick model
const (
	TicksPerStep     = 24                        // one 16th note
	StepsPerBar      = 16                        // 4/4 at 16th resolution
	BarTicks         = TicksPerStep * StepsPerBar // 384
	PPQ              = TicksPerStep * 4           // export resolution, ticks per quarter
	SubdivisionTicks = 2                          // every start tick is a multiple of this
	MinLengthTicks   = 4
	MaxBars          = 16
)

// Kind tells drum patterns (Pitch is a Lane) from melodic ones (Pitch is a MIDI note)
type Kind int

const (
	KindDrum Kind = iota
	KindMelodic
)

func (k Kind) String() string {
	if k == KindMelodic {
		return "melodic"
	}
	return "drum"
}

// Note is a single event on the tick clock
type Note struct {
	Pitch    int `yaml:"pitch"` // lane for drums, MIDI note for melodic
	Start    int `yaml:"start"`
	Length   int `yaml:"length"`
	Velocity int `yaml:"velocity"`
	Channel  int `yaml:"channel"` // 1-16
}

// End returns the tick after the last tick the note sounds
func (n Note) End() int {
	return n.Start + n.Length
}

// Pattern is a bag of notes scoped to a fixed span
type Pattern struct {
	Kind        Kind   `yaml:"kind"`
	Bars        int    `yaml:"bars"`
	StepsPerBar int    `yaml:"stepsPerBar"`
	Notes       []Note `yaml:"notes"`
}

// NewPattern creates an empty pattern, clamping bars and steps per bar
func NewPattern(kind Kind, bars, stepsPerBar int) Pattern {
	if stepsPerBar <= 0 {
		stepsPerBar = StepsPerBar
	}
	return Pattern{
		Kind:        kind,
		Bars:        ClampBars(bars),
		StepsPerBar: stepsPerBar,
	}
}

// ClampBars clamps a bar count to [1,16]
func ClampBars(bars int) int {
	return Clamp(bars, 1, MaxBars)
}

// BarTicks returns the length of one bar in ticks
func (p Pattern) BarTicks() int {
	return p.StepsPerBar * TicksPerStep
}

// TotalSteps returns the number of 16th steps in the span
func (p Pattern) TotalSteps() int {
	return p.Bars * p.StepsPerBar
}

// SpanTicks returns the length of the pattern in ticks
func (p Pattern) SpanTicks() int {
	return p.TotalSteps() * TicksPerStep
}

// Len returns the number of notes
func (p Pattern) Len() int {
	return len(p.Notes)
}

// Empty reports whether the pattern has no notes
func (p Pattern) Empty() bool {
	return len(p.Notes) == 0
}

// Add normalizes a note and appends it. Notes starting outside the span are dropped.
func (p *Pattern) Add(n Note) bool {
	n.Start = SnapTick(n.Start)
	if n.Start < 0 || n.Start >= p.SpanTicks() {
		return false
	}
	if n.Length < MinLengthTicks {
		n.Length = MinLengthTicks
	}
	n.Velocity = ClampVelocity(n.Velocity)
	if n.Channel < 1 || n.Channel > 16 {
		n.Channel = defaultChannel(p.Kind)
	}
	if p.Kind == KindMelodic {
		n.Pitch = Clamp(n.Pitch, 0, 127)
	} else {
		n.Pitch = Clamp(n.Pitch, 0, NumLanes-1)
	}
	p.Notes = append(p.Notes, n)
	return true
}

// Has reports whether a note with the given pitch starts at tick
func (p Pattern) Has(pitch, tick int) bool {
	for _, n := range p.Notes {
		if n.Pitch == pitch && n.Start == tick {
			return true
		}
	}
	return false
}

// Clone returns a deep copy
func (p Pattern) Clone() Pattern {
	c := p
	c.Notes = append([]Note(nil), p.Notes...)
	return c
}

// Sort orders notes by start, then pitch
func (p *Pattern) Sort() {
	sort.SliceStable(p.Notes, func(i, j int) bool {
		if p.Notes[i].Start != p.Notes[j].Start {
			return p.Notes[i].Start < p.Notes[j].Start
		}
		return p.Notes[i].Pitch < p.Notes[j].Pitch
	})
}

// NotesInBar returns the notes that start inside bar (0-based)
func (p Pattern) NotesInBar(bar int) []Note {
	start := bar * p.BarTicks()
	end := start + p.BarTicks()
	var out []Note
	for _, n := range p.Notes {
		if n.Start >= start && n.Start < end {
			out = append(out, n)
		}
	}
	return out
}

// Pitches returns the distinct pitches (lanes) in use, ascending
func (p Pattern) Pitches() []int {
	seen := make(map[int]bool)
	var out []int
	for _, n := range p.Notes {
		if !seen[n.Pitch] {
			seen[n.Pitch] = true
			out = append(out, n.Pitch)
		}
	}
	sort.Ints(out)
	return out
}

// StepTick converts an absolute step index to a tick
func StepTick(step int) int {
	return step * TicksPerStep
}

// TickStep returns the step a tick falls in
func TickStep(tick int) int {
	return tick / TicksPerStep
}

// SnapTick rounds a tick down onto the subdivision grid
func SnapTick(tick int) int {
	if tick < 0 {
		return -((-tick + SubdivisionTicks - 1) / SubdivisionTicks * SubdivisionTicks)
	}
	return tick / SubdivisionTicks * SubdivisionTicks
}

// SwingTicks converts a swing amount in [0,1] to an offset of at most half a step, on the subdivision grid
func SwingTicks(amount float64) int {
	if amount <= 0 {
		return 0
	}
	if amount > 1 {
		amount = 1
	}
	half := TicksPerStep / 2 / SubdivisionTicks
	return int(amount*float64(half)+0.5) * SubdivisionTicks
}

// ClampVelocity clamps to the MIDI velocity range, excluding note-off 0
func ClampVelocity(v int) int {
	return Clamp(v, 1, 127)
}

// Clamp clamps v to [lo,hi]
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampPct clamps a percentage to [0,100]
func ClampPct(v int) int {
	return Clamp(v, 0, 100)
}

func defaultChannel(kind Kind) int {
	if kind == KindDrum {
		return DrumChannel
	}
	return 1
}

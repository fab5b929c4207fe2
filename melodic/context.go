package melodic

import (
	"math/rand/v2"

	"go-boom/grid"
	"go-boom/scale"
	"go-boom/seed"
	"go-boom/style"
)

// Options are the inputs for one melodic generation call
type Options struct {
	Style      string // bass style name
	Key        string
	Scale      string
	Bars       int
	Octave     int // register offset, -2..+2
	RestPct    int
	DottedPct  int
	TripletPct int
	SwingPct   int
	Seed       int64
	Meter      grid.TimeSignature
	Channel    int
	Kicks      *grid.Pattern // optional drum pattern to follow
}

// context is the resolved, clamped state shared by both generation paths
type context struct {
	spec     style.BassSpec
	scale    scale.Scale
	root     int
	meter    grid.TimeSignature
	cells    []int
	steps    int
	density  float64 // chance a candidate position sounds
	triplet  float64
	dotted   float64
	swing    int
	baseOct  int
	channel  int
	kickBias []int
	seed     int64
	rng      *rand.Rand
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func newContext(opts Options) *context {
	spec := style.GetBass(opts.Style)
	meter := opts.Meter.OrDefault()
	cells := meter.Cells
	if len(cells) == 0 {
		cells = style.AccentCells(meter.Num, meter.Den)
	}

	rest := float64(grid.ClampPct(opts.RestPct)) / 100
	restFrac := spec.RestDensityMin + (spec.RestDensityMax-spec.RestDensityMin)*rest

	baseOct := 3
	if spec.IsLowEnd() {
		baseOct = 2
	}
	baseOct = grid.Clamp(baseOct+grid.Clamp(opts.Octave, -2, 2), 1, 6)

	channel := opts.Channel
	if channel < 1 || channel > 16 {
		channel = 1
	}

	s := seed.Resolve(opts.Seed)
	c := &context{
		spec:    spec,
		scale:   scale.Get(opts.Scale),
		root:    scale.KeyIndex(opts.Key),
		meter:   meter,
		cells:   cells,
		steps:   meter.StepsPerBar(),
		density: clamp01(1 - restFrac),
		triplet: clamp01(float64(grid.ClampPct(opts.TripletPct))/100 + spec.TripletWeight() + tripletMeterBonus(spec, meter)),
		dotted:  clamp01(0.2 + 0.6*float64(grid.ClampPct(opts.DottedPct))/100),
		swing:   grid.SwingTicks(spec.SwingAmount() + float64(grid.ClampPct(opts.SwingPct))/100),
		baseOct: baseOct,
		channel: channel,
		seed:    s,
		rng:     seed.New(s),
	}
	if opts.Kicks != nil && !opts.Kicks.Empty() {
		c.kickBias = KickBias(*opts.Kicks)
	}
	return c
}

// tripletMeterBonus favours triplet figures for styles that lean into
// compound /8 meters
func tripletMeterBonus(spec style.BassSpec, meter grid.TimeSignature) float64 {
	if spec.PrefersTriplets && meter.Den == 8 {
		return 0.25
	}
	return 0
}

func (c *context) pattern(bars int) grid.Pattern {
	return grid.NewPattern(grid.KindMelodic, bars, c.steps)
}

func (c *context) barTicks() int {
	return c.steps * grid.TicksPerStep
}

func (c *context) pitch(degree, octave int) int {
	return c.scale.DegreeToPitch(c.root, degree, octave)
}

// add trims the note so it never sounds past the end of the span
func (c *context) add(p *grid.Pattern, n grid.Note) bool {
	n.Channel = c.channel
	if end := p.SpanTicks(); n.Start+n.Length > end {
		n.Length = max(grid.MinLengthTicks, end-n.Start)
	}
	return p.Add(n)
}

// swungStep reports steps on the second eighth of a beat
func swungStep(inBar int) bool {
	return inBar%4 == 2
}

func (c *context) bias(step int) float64 {
	if len(c.kickBias) == 0 {
		return 0
	}
	return float64(c.kickBias[step%len(c.kickBias)]) / 100
}

func (c *context) octaveHop(oct int) int {
	if c.rng.IntN(2) == 0 {
		oct--
	} else {
		oct++
	}
	return grid.Clamp(oct, max(1, c.baseOct-1), min(6, c.baseOct+1))
}

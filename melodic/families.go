package melodic

import (
	"go-boom/debug"
	"go-boom/grid"
	"go-boom/seed"
	"go-boom/style"
)

// Family is the rhythmic grid a whole 808 line is laid on
type Family int

const (
	FamilyQuarter Family = iota
	FamilyEighth
	FamilyTriplet
	FamilySixteenth
)

func (f Family) String() string {
	switch f {
	case FamilyEighth:
		return "eighth"
	case FamilyTriplet:
		return "eighth-triplet"
	case FamilySixteenth:
		return "sixteenth"
	}
	return "quarter"
}

// Interval returns the slot spacing in ticks
func (f Family) Interval() int {
	switch f {
	case FamilyEighth:
		return 2 * grid.TicksPerStep
	case FamilyTriplet:
		return 4 * grid.TicksPerStep / 3
	case FamilySixteenth:
		return grid.TicksPerStep
	}
	return 4 * grid.TicksPerStep
}

// Strategy picks how the target degree moves across the bar
type Strategy int

const (
	RootCentric Strategy = iota
	ChordWalk
)

func (s Strategy) String() string {
	if s == ChordWalk {
		return "chord-walk"
	}
	return "root-centric"
}

var walks = [][]int{
	{0, 3, 4, 0},
	{0, 5, 3, 4},
	{0, 4, 5, 3},
	{0, 2, 3, 4},
	{0, 5, 4, 3},
	{0, 6, 5, 4},
}

func (c *context) pickFamily() Family {
	w := c.spec.NormalizedWeights()
	weights := []float64{
		w[style.Quarter],
		w[style.Eighth] + w[style.OffEighth],
		w[style.EighthTriplet] + w[style.SixteenthTriplet] + c.triplet*0.5,
		w[style.Sixteenth] * 0.35,
	}
	if c.triplet <= 0 {
		weights[FamilyTriplet] = 0
	}
	total := 0.0
	for _, v := range weights {
		total += v
	}
	if total <= 0 {
		return FamilyEighth
	}
	r := c.rng.Float64() * total
	for i, v := range weights {
		if r < v {
			return Family(i)
		}
		r -= v
	}
	return FamilyEighth
}

// plan is the per-call macro choice for the grid-family path
type plan struct {
	family   Family
	strategy Strategy
	period   int // ticks between target changes
	walk     []int
}

func (c *context) newPlan() plan {
	pl := plan{
		family:   c.pickFamily(),
		strategy: RootCentric,
		period:   c.barTicks(),
		walk:     walks[c.rng.IntN(len(walks))],
	}
	if seed.Chance(c.rng, 0.5) {
		pl.strategy = ChordWalk
	}
	if seed.Chance(c.rng, 0.5) && c.barTicks() >= 2*grid.TicksPerStep {
		pl.period = c.barTicks() / 2 / grid.SubdivisionTicks * grid.SubdivisionTicks
	}
	return pl
}

// targets resolves the target degree for every period of the pattern
func (c *context) targets(pl plan, periods int) []int {
	out := make([]int, periods)
	for i := range out {
		if pl.strategy == ChordWalk {
			out[i] = pl.walk[i%len(pl.walk)]
			continue
		}
		if i > 0 && seed.Chance(c.rng, 0.2) {
			out[i] = 4
		}
	}
	return out
}

// Generate808 lays a line on one grid family per call, with a root-centric or
// chord-walking target that changes every half bar or bar.
func Generate808(opts Options) grid.Pattern {
	c := newContext(opts)
	p := c.pattern(opts.Bars)
	pl := c.newPlan()

	interval := pl.family.Interval()
	periods := (p.SpanTicks() + pl.period - 1) / pl.period
	targets := c.targets(pl, periods)

	for bar := 0; bar < p.Bars; bar++ {
		barStart := bar * c.barTicks()
		hits := 0
		for slot := 0; slot < c.barTicks(); slot += interval {
			if hits >= c.spec.MaxHitsPerBar {
				break
			}
			t := barStart + slot
			period := t / pl.period
			periodStart := period*pl.period == t
			onBeat := slot%(4*grid.TicksPerStep) == 0

			keep := c.density
			if onBeat {
				keep = min(1, keep+0.25)
			}
			keep = clamp01(keep + c.bias(t/grid.TicksPerStep))
			if !periodStart && !seed.Chance(c.rng, keep) {
				continue
			}

			degree := targets[period]
			next := t + interval
			switch {
			case next < p.SpanTicks() && next/pl.period != period && seed.Chance(c.rng, 0.3):
				degree = targets[next/pl.period] - 1 // approach from below
			case !periodStart && seed.Chance(c.rng, 0.15):
				degree += c.rng.IntN(3) - 1
			}

			oct := c.baseOct
			if !onBeat && seed.Chance(c.rng, 0.1) {
				oct = min(6, oct+1)
			}

			length := interval
			if seed.Chance(c.rng, c.dotted*0.5) {
				length = interval * 3 / 2
			}
			start := t
			if pl.family == FamilyEighth && swungStep(slot/grid.TicksPerStep) {
				start += c.swing
			}

			vel := seed.Between(c.rng, 90, 108)
			if onBeat {
				vel = seed.Between(c.rng, 104, 118)
			}
			c.add(&p, grid.Note{Pitch: c.pitch(degree, oct), Start: start, Length: length, Velocity: vel})
			hits++
		}
	}

	debug.Log("gen", "808 style=%s family=%s strategy=%s period=%d seed=%d notes=%d",
		c.spec.Name, pl.family, pl.strategy, pl.period, c.seed, p.Len())
	return p
}

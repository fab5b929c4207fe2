package melodic

import (
	"go-boom/debug"
	"go-boom/grid"
	"go-boom/seed"
	"go-boom/style"
)

var burstSubs = []int{24, 12, 8, 6, 4}

// move is a melodic step: a change of scale degree, or an octave jump
type move struct {
	degree int
	octave bool
}

func (c *context) nextMove() move {
	r := c.rng.IntN(100)
	pm := func(n int) int {
		if c.rng.IntN(2) == 0 {
			return -n
		}
		return n
	}
	switch c.spec.ID {
	case style.BassTrap:
		switch {
		case r < 40:
			return move{}
		case r < 65:
			return move{degree: 4}
		case r < 80:
			return move{degree: -3}
		case r < 90:
			return move{octave: true}
		}
		return move{degree: pm(1)}
	case style.BassDrill:
		switch {
		case r < 35:
			return move{}
		case r < 60:
			return move{degree: 4}
		case r < 75:
			return move{degree: -2}
		case r < 90:
			return move{octave: true}
		}
		return move{degree: pm(2)}
	case style.BassWxstie:
		switch {
		case r < 45:
			return move{}
		case r < 70:
			return move{degree: 4}
		case r < 85:
			return move{degree: pm(1)}
		}
		return move{octave: true}
	}
	switch {
	case r < 50:
		return move{}
	case r < 75:
		return move{degree: 4}
	}
	return move{degree: pm(1)}
}

func (c *context) burstChance() float64 {
	if c.spec.ID == style.BassTrap || c.spec.ID == style.BassDrill {
		return 0.55
	}
	return 0.25
}

// placeChance weighs a step of the bar by its metric position and the style's subdivision taste
func (c *context) placeChance(inBar, abs int) float64 {
	w := c.spec.NormalizedWeights()
	var weight float64
	switch {
	case inBar%4 == 0:
		weight = 1
	case inBar%2 == 0:
		weight = 0.5 + w[style.Eighth] + w[style.OffEighth]
	default:
		weight = 0.2 + w[style.Sixteenth] + 0.5*c.spec.SyncopationProb
	}
	p := c.density * weight

	if len(c.cells) > 0 && c.spec.PrefersCells {
		for _, s := range c.meter.AccentSteps(c.cells) {
			if s == inBar {
				p = max(p, c.density+0.2)
			}
		}
	}
	if c.spec.EnforceTresillo {
		for k := 0; k < 3; k++ {
			if inBar == k*c.steps*3/8 {
				return 1
			}
		}
	}
	return clamp01(p + c.bias(abs))
}

// Generate builds a melodic line by scanning the grid step by step. Each
// sounding step is either a sustained note that walks the scale, or a burst
// of fast notes that consumes a few steps at once.
func Generate(opts Options) grid.Pattern {
	c := newContext(opts)
	p := c.pattern(opts.Bars)

	sustain := 1
	if c.meter.Den == 8 && !c.spec.IsLowEnd() {
		sustain = 2
	}

	degree, oct := 0, c.baseOct
	hits, curBar := 0, 0
	for step := 0; step < p.TotalSteps(); {
		bar, inBar := step/c.steps, step%c.steps
		if bar != curBar {
			curBar, hits = bar, 0
			degree, oct = c.vary(bar, degree, oct)
		}
		if hits >= c.spec.MaxHitsPerBar || !seed.Chance(c.rng, c.placeChance(inBar, step)) {
			step++
			continue
		}
		barStart := bar * c.barTicks()

		if seed.Chance(c.rng, c.burstChance()) {
			added, used := c.burst(&p, barStart, inBar, degree, oct, c.spec.MaxHitsPerBar-hits)
			hits += added
			step += used
			if seed.Chance(c.rng, 0.2) {
				oct = c.octaveHop(oct)
			}
			continue
		}

		length := (sustain + c.rng.IntN(2)) * grid.TicksPerStep
		if seed.Chance(c.rng, c.dotted) {
			length = length * 3 / 2
		}
		start := barStart + grid.StepTick(inBar)
		if swungStep(inBar) {
			start += c.swing
		}
		c.add(&p, grid.Note{
			Pitch:    c.pitch(degree, oct),
			Start:    start,
			Length:   length,
			Velocity: seed.Between(c.rng, 96, 115),
		})
		hits++

		m := c.nextMove()
		degree = (degree + m.degree) % max(1, c.scale.Len())
		if m.octave || seed.Chance(c.rng, 0.1) {
			oct = c.octaveHop(oct)
		}
		step += (length + grid.TicksPerStep - 1) / grid.TicksPerStep
	}

	debug.Log("gen", "bass style=%s key=%s scale=%s bars=%d seed=%d notes=%d",
		c.spec.Name, opts.Key, c.scale.Name, p.Bars, c.seed, p.Len())
	return p
}

// vary applies the style's phrase cadence at a bar line. A big variation
// jumps to the fifth in a new octave; a small one nudges the degree.
func (c *context) vary(bar, degree, oct int) (int, int) {
	switch {
	case c.spec.BigVarEvery > 0 && bar%c.spec.BigVarEvery == 0:
		return degree + 4, c.octaveHop(oct)
	case c.spec.SmallVarEvery > 0 && bar%c.spec.SmallVarEvery == 0:
		if c.rng.IntN(2) == 0 {
			return degree - 1, oct
		}
		return degree + 1, oct
	}
	return degree, oct
}

// burst writes fast repeated notes from inBar for 1-3 steps, never crossing the bar line
func (c *context) burst(p *grid.Pattern, barStart, inBar, degree, oct, budget int) (added, used int) {
	sub := burstSubs[c.rng.IntN(len(burstSubs))]
	if sub == 8 && !seed.Chance(c.rng, c.triplet) {
		sub = 12
	}
	start := barStart + grid.StepTick(inBar)
	end := min(start+(1+c.rng.IntN(3))*grid.TicksPerStep, barStart+c.barTicks())

	d := degree
	for t := start; t < end && added < budget; t += sub {
		c.add(p, grid.Note{
			Pitch:    c.pitch(d, oct),
			Start:    t,
			Length:   max(grid.MinLengthTicks, min(sub, end-t)),
			Velocity: seed.Between(c.rng, 90, 114),
		})
		added++
		if seed.Chance(c.rng, 0.35) {
			if c.rng.IntN(2) == 0 {
				d--
			} else {
				d++
			}
		}
	}
	used = max(1, (end-start+grid.TicksPerStep-1)/grid.TicksPerStep)
	return added, used
}

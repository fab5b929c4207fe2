package drums

import (
	"math/rand/v2"

	"go-boom/debug"
	"go-boom/grid"
	"go-boom/seed"
	"go-boom/style"
)

// Options are the per-call modifiers for drum generation
type Options struct {
	Bars       int
	RestPct    int
	DottedPct  int
	TripletPct int
	SwingPct   int
	Seed       int64 // seed.Auto for a fresh groove each call
	Meter      grid.TimeSignature
}

// Feel biases derived from the style and the user's modifiers
type feel struct {
	rest    float64
	dotted  float64
	triplet float64
	swing   int // ticks added to off-beat hats and percs
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

// newFeel folds the user's modifiers into the style's biases. Swing comes from
// the caller alone; the style's swing is a catalogue hint.
func newFeel(spec style.Spec, opts Options) feel {
	return feel{
		rest:    float64(grid.ClampPct(opts.RestPct)) / 100,
		dotted:  clamp01(spec.DottedBias + float64(grid.ClampPct(opts.DottedPct))/100*0.75),
		triplet: clamp01(spec.TripletBias + float64(grid.ClampPct(opts.TripletPct))/100*0.75),
		swing:   grid.SwingTicks(float64(grid.ClampPct(opts.SwingPct)) / 100),
	}
}

// swung lanes get pushed on off-beats
func swung(l grid.Lane) bool {
	return l == grid.ClosedHat || l == grid.OpenHat || l == grid.Perc
}

// Generate builds a drum pattern from a style rule table.
// Every step of every generated lane is an independent Bernoulli trial; the
// backbeat is then repaired if the style locks it.
func Generate(spec style.Spec, opts Options) grid.Pattern {
	meter := opts.Meter.OrDefault()
	steps := meter.StepsPerBar()
	cells := meter.Cells
	if len(cells) == 0 {
		cells = style.AccentCells(meter.Num, meter.Den)
	}

	p := grid.NewPattern(grid.KindDrum, opts.Bars, steps)
	s := seed.Resolve(opts.Seed)
	rng := seed.New(s)
	f := newFeel(spec, opts)
	accents := accentMask(meter, cells)

	for bar := 0; bar < p.Bars; bar++ {
		barStart := bar * p.BarTicks()
		barEnd := barStart + p.BarTicks()

		for lane := grid.Lane(0); lane < grid.GeneratedLanes; lane++ {
			row := spec.Row(lane)
			for step := 0; step < steps; step++ {
				prob := stepProbability(row, lane, step, accents, f)
				if !seed.Chance(rng, prob) {
					continue
				}

				start := barStart + grid.StepTick(step)
				if step%2 == 1 && swung(lane) {
					start += f.swing
				}
				vel := seed.Between(rng, row.VelMin, row.VelMax)

				if row.RollProb > 0 && row.MaxRollSub > 1 && seed.Chance(rng, row.RollProb) {
					addRoll(&p, rng, row, lane, start, vel, barEnd)
					continue
				}
				p.Add(grid.Note{Pitch: int(lane), Start: start, Length: row.LenTicks, Velocity: vel})
			}
		}
	}

	if spec.LockBackbeat {
		lockBackbeat(&p, spec, rng, meter.BackbeatSteps(cells))
	}

	debug.Log("gen", "drums style=%s bars=%d meter=%s seed=%d notes=%d", spec.Name, p.Bars, meter, s, p.Len())
	return p
}

// accentMask marks cell starts in grouped meters; nil for uniform accenting
func accentMask(meter grid.TimeSignature, cells []int) []bool {
	if len(cells) == 0 {
		return nil
	}
	mask := make([]bool, meter.StepsPerBar())
	for _, s := range meter.AccentSteps(cells) {
		mask[s] = true
	}
	return mask
}

func stepProbability(row style.Row, lane grid.Lane, step int, accents []bool, f feel) float64 {
	p := row.P[step%16]
	if accents != nil && lane == grid.Kick && accents[step] {
		p = max(p, row.P[0])
	}
	if step%4 == 3 {
		p = min(1, p+0.35*f.dotted)
	}
	if step%2 == 1 && f.triplet > 0 {
		p = min(1, p+0.25*f.triplet)
	}
	return p * (1 - f.rest)
}

// addRoll expands one hit into 2-4 decaying sub-hits that stay inside the bar
func addRoll(p *grid.Pattern, rng *rand.Rand, row style.Row, lane grid.Lane, start, vel, barEnd int) {
	sub := seed.Between(rng, 2, row.MaxRollSub)
	div := 12 // 32nds
	if sub >= 3 {
		div = 16 // 16th triplets
	}
	hits := seed.Between(rng, 2, 4)
	for r := 0; r < hits; r++ {
		t := start + r*div
		if t >= barEnd {
			break
		}
		p.Add(grid.Note{
			Pitch:    int(lane),
			Start:    t,
			Length:   max(12, row.LenTicks-4*r),
			Velocity: grid.Clamp(vel-3*r, 40, 127),
		})
	}
}

// lockBackbeat guarantees a snare or clap on every backbeat of every bar
func lockBackbeat(p *grid.Pattern, spec style.Spec, rng *rand.Rand, backbeats []int) {
	row := spec.Row(grid.Snare)
	for bar := 0; bar < p.Bars; bar++ {
		for _, step := range backbeats {
			t := bar*p.BarTicks() + grid.StepTick(step)
			if p.Has(int(grid.Snare), t) || p.Has(int(grid.Clap), t) {
				continue
			}
			p.Add(grid.Note{
				Pitch:    int(grid.Snare),
				Start:    t,
				Length:   row.LenTicks,
				Velocity: seed.Between(rng, row.VelMin, row.VelMax),
			})
		}
	}
}

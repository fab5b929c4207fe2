package flip

import (
	"math"
	"math/rand/v2"

	"go-boom/debug"
	"go-boom/grid"
	"go-boom/seed"
)

// Length bounds for resize edits
const (
	MinLength = 12
	MaxLength = 6 * grid.TicksPerStep
)

type edit int

const (
	editShift edit = iota
	editResize
	editNudge
	numEdits
)

// DrumOps returns how many edits a drum flip makes at density (0-100)
func DrumOps(density int) int {
	return grid.Clamp(grid.ClampPct(density)/6, 1, 16)
}

// MelodicOps returns how many edits a melodic flip makes at density (0-100)
func MelodicOps(density int) int {
	return grid.Clamp(int(math.Round(float64(grid.ClampPct(density))/5)), 1, 20)
}

// Drums returns a varied copy of a drum pattern. Lanes stay inside the kit.
func Drums(p grid.Pattern, seedVal int64, density, bars int) grid.Pattern {
	return run(p, seedVal, bars, DrumOps(density), grid.NumLanes-1, "drums")
}

// Melodic returns a varied copy of a melodic pattern. Pitches stay inside MIDI range.
func Melodic(p grid.Pattern, seedVal int64, density, bars int) grid.Pattern {
	return run(p, seedVal, bars, MelodicOps(density), 127, "melodic")
}

func run(p grid.Pattern, seedVal int64, bars, ops, maxPitch int, kind string) grid.Pattern {
	out := p.Clone()
	if out.Empty() {
		return out
	}
	if bars > 0 {
		out.Bars = grid.ClampBars(bars)
	}
	if out.StepsPerBar <= 0 {
		out.StepsPerBar = grid.StepsPerBar
	}

	s := seed.Resolve(seedVal)
	rng := seed.New(s)
	cols := out.TotalSteps()
	for i := 0; i < ops; i++ {
		n := &out.Notes[rng.IntN(len(out.Notes))]
		apply(n, edit(rng.IntN(int(numEdits))), rng, cols, maxPitch)
		n.Velocity = grid.Clamp(n.Velocity+seed.Between(rng, -8, 8), 30, 127)
	}

	// notes from a longer source must not hang past the flipped span
	kept := out.Notes[:0]
	for _, n := range out.Notes {
		if n.Start < out.SpanTicks() {
			kept = append(kept, n)
		}
	}
	out.Notes = kept

	debug.Log("flip", "%s ops=%d seed=%d notes=%d", kind, ops, s, out.Len())
	return out
}

func apply(n *grid.Note, e edit, rng *rand.Rand, cols, maxPitch int) {
	switch e {
	case editShift:
		col := grid.Clamp(n.Start/grid.TicksPerStep+plusMinus(rng), 0, cols-1)
		n.Start = grid.StepTick(col)
	case editResize:
		n.Length = grid.Clamp(n.Length+12*plusMinus(rng), MinLength, MaxLength)
	case editNudge:
		n.Pitch = grid.Clamp(n.Pitch+plusMinus(rng), 0, maxPitch)
	}
}

func plusMinus(rng *rand.Rand) int {
	if rng.IntN(2) == 0 {
		return -1
	}
	return 1
}

package drums

import (
	"go-boom/debug"
	"go-boom/grid"
)

// Expand grows a sparse seed groove into a full one: 8th hats where the seed
// has none, ghost hats on the off-16ths, snare flams into 2 and 4, and kick
// anchors around each downbeat. Seed notes are kept as they are.
func Expand(src grid.Pattern, bars int) grid.Pattern {
	out := grid.NewPattern(grid.KindDrum, bars, src.StepsPerBar)
	for _, n := range src.Notes {
		out.Add(n)
	}

	hat := int(grid.ClosedHat)
	add := func(n grid.Note) {
		if !out.Has(n.Pitch, n.Start) {
			out.Add(n)
		}
	}

	for s := 0; s < out.TotalSteps(); s++ {
		t := grid.StepTick(s)
		if s%2 == 0 {
			add(grid.Note{Pitch: hat, Start: t, Length: 12, Velocity: 78})
		} else {
			add(grid.Note{Pitch: hat, Start: t, Length: 8, Velocity: 58})
		}
	}

	snare := int(grid.Snare)
	kick := int(grid.Kick)
	for bar := 0; bar < out.Bars; bar++ {
		barStart := bar * out.BarTicks()
		for _, s := range grid.FourFour.BackbeatSteps(nil) {
			if s >= out.StepsPerBar {
				continue
			}
			t := barStart + grid.StepTick(s)
			add(grid.Note{Pitch: snare, Start: t - 6, Length: 8, Velocity: 72})
			add(grid.Note{Pitch: snare, Start: t, Length: 24, Velocity: 110})
			add(grid.Note{Pitch: snare, Start: t + 6, Length: 8, Velocity: 72})
		}

		if bar > 0 {
			add(grid.Note{Pitch: kick, Start: barStart - grid.StepTick(3), Length: 12, Velocity: 95})
		}
		add(grid.Note{Pitch: kick, Start: barStart, Length: 24, Velocity: 118})
		if out.StepsPerBar > 8 {
			add(grid.Note{Pitch: kick, Start: barStart + grid.StepTick(8), Length: 24, Velocity: 112})
		}
	}

	out.Sort()
	debug.Log("gen", "expand bars=%d seed notes=%d -> %d", out.Bars, src.Len(), out.Len())
	return out
}

// BumpRows moves every drum note to the next lane, wrapping past the highest lane in use
func BumpRows(p grid.Pattern) grid.Pattern {
	out := p.Clone()
	if out.Empty() {
		return out
	}
	maxRow := 0
	for _, n := range out.Notes {
		maxRow = max(maxRow, n.Pitch)
	}
	for i := range out.Notes {
		out.Notes[i].Pitch = (out.Notes[i].Pitch + 1) % (maxRow + 1)
	}
	return out
}

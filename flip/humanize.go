package flip

import (
	"go-boom/grid"
	"go-boom/seed"
)

// Humanize returns a copy with small random timing and velocity offsets.
// Starts stay on the subdivision grid and inside the span.
func Humanize(p grid.Pattern, seedVal int64, timingTicks, velocity int) grid.Pattern {
	out := p.Clone()
	if out.Empty() {
		return out
	}
	timingTicks = grid.Clamp(timingTicks, 0, grid.TicksPerStep/2)
	velocity = grid.Clamp(velocity, 0, 64)

	rng := seed.New(seed.Resolve(seedVal))
	last := out.SpanTicks() - grid.SubdivisionTicks
	for i := range out.Notes {
		n := &out.Notes[i]
		if timingTicks > 0 {
			t := n.Start + seed.Between(rng, -timingTicks, timingTicks)
			n.Start = grid.Clamp(grid.SnapTick(t), 0, last)
		}
		if velocity > 0 {
			n.Velocity = grid.ClampVelocity(n.Velocity + seed.Between(rng, -velocity, velocity))
		}
	}
	return out
}

package melodic

import (
	"go-boom/debug"
	"go-boom/grid"
	"go-boom/scale"
)

// KickBias turns the kicks of a drum pattern into a per-step placement bonus
// in percent. Louder kicks pull harder; their neighbours get a smaller pull
// and every step keeps a small baseline.
func KickBias(drums grid.Pattern) []int {
	steps := drums.TotalSteps()
	if steps <= 0 || drums.Kind != grid.KindDrum {
		return nil
	}
	raw := make([]int, steps)
	for _, n := range drums.Notes {
		if n.Pitch != int(grid.Kick) {
			continue
		}
		s := grid.TickStep(n.Start) % steps
		raw[s] += 15 + (grid.ClampVelocity(n.Velocity)-1)*30/126
	}

	bias := make([]int, steps)
	copy(bias, raw)
	for s, b := range raw {
		if b == 0 {
			continue
		}
		prev, next := (s+steps-1)%steps, (s+1)%steps
		bias[prev] = max(bias[prev], 12)
		bias[next] = max(bias[next], 12)
	}
	for s := range bias {
		bias[s] = grid.Clamp(max(bias[s], 6), 0, 100)
	}
	return bias
}

// Transpose shifts every note by whole octaves, then snaps it into key and scale.
// Drum patterns come back unchanged.
func Transpose(p grid.Pattern, key, scaleName string, octaves int) grid.Pattern {
	out := p.Clone()
	if out.Kind != grid.KindMelodic {
		return out
	}
	sc := scale.Get(scaleName)
	root := scale.KeyIndex(key)
	for i := range out.Notes {
		shifted := grid.Clamp(out.Notes[i].Pitch+12*octaves, 0, 127)
		out.Notes[i].Pitch = sc.Snap(root, shifted)
	}
	debug.Log("gen", "transpose key=%s scale=%s octaves=%d notes=%d", key, sc.Name, octaves, out.Len())
	return out
}

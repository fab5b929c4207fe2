package flip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-boom/drums"
	"go-boom/grid"
	"go-boom/style"
)

func drumGroove(t *testing.T, bars int) grid.Pattern {
	t.Helper()
	p := drums.Generate(style.Get("trap"), drums.Options{Bars: bars, Seed: 21})
	require.False(t, p.Empty())
	return p
}

func melodicLine(bars int) grid.Pattern {
	p := grid.NewPattern(grid.KindMelodic, bars, 16)
	for s := 0; s < bars*16; s += 2 {
		p.Add(grid.Note{Pitch: 36 + s%12, Start: grid.StepTick(s), Length: 24, Velocity: 100})
	}
	p.Add(grid.Note{Pitch: 0, Start: 0, Length: 24, Velocity: 100})
	p.Add(grid.Note{Pitch: 127, Start: 24, Length: 144, Velocity: 100})
	return p
}

func TestOpCounts(t *testing.T) {
	assert.Equal(t, 1, DrumOps(0))
	assert.Equal(t, 16, DrumOps(100))
	assert.Equal(t, 16, DrumOps(1000))
	assert.Equal(t, 8, DrumOps(50))
	assert.Equal(t, 1, MelodicOps(-5))
	assert.Equal(t, 20, MelodicOps(100))
	assert.Equal(t, 10, MelodicOps(50))
}

func TestFlipDrumBounds(t *testing.T) {
	src := drumGroove(t, 4)
	for s := int64(0); s < 100; s++ {
		out := Drums(src, s, 100, 4)
		require.Len(t, out.Notes, len(src.Notes))
		for _, n := range out.Notes {
			require.GreaterOrEqual(t, n.Pitch, 0)
			require.Less(t, n.Pitch, grid.NumLanes)
			require.GreaterOrEqual(t, n.Start, 0)
			require.Less(t, n.Start, 4*16*grid.TicksPerStep)
			require.GreaterOrEqual(t, n.Velocity, 1)
			require.LessOrEqual(t, n.Velocity, 127)
			require.GreaterOrEqual(t, n.Length, grid.MinLengthTicks)
		}
	}
}

func TestFlipMelodicBounds(t *testing.T) {
	src := melodicLine(4)
	for s := int64(0); s < 100; s++ {
		out := Melodic(src, s, 100, 4)
		for _, n := range out.Notes {
			require.GreaterOrEqual(t, n.Pitch, 0)
			require.LessOrEqual(t, n.Pitch, 127)
			require.GreaterOrEqual(t, n.Start, 0)
			require.Less(t, n.Start, out.SpanTicks())
			require.LessOrEqual(t, n.Length, MaxLength)
		}
	}
}

func TestFlipChangesSomething(t *testing.T) {
	src := drumGroove(t, 2)
	out := Drums(src, 5, 100, 2)
	assert.NotEqual(t, src.Notes, out.Notes)
}

func TestFlipDoesNotMutateInput(t *testing.T) {
	src := melodicLine(2)
	before := src.Clone()
	Melodic(src, 3, 100, 2)
	assert.Equal(t, before, src)
}

func TestFlipDeterministic(t *testing.T) {
	src := drumGroove(t, 2)
	assert.Equal(t, Drums(src, 77, 60, 2), Drums(src, 77, 60, 2))
}

func TestFlipEmptyIsNoop(t *testing.T) {
	empty := grid.NewPattern(grid.KindDrum, 4, 16)
	assert.True(t, Drums(empty, 1, 100, 4).Empty())
	assert.True(t, Melodic(grid.NewPattern(grid.KindMelodic, 4, 16), 1, 100, 4).Empty())
}

func TestFlipShorterSpanDropsOverhang(t *testing.T) {
	src := drumGroove(t, 4)
	out := Drums(src, 2, 10, 1)
	assert.Equal(t, 1, out.Bars)
	for _, n := range out.Notes {
		assert.Less(t, n.Start, grid.BarTicks)
	}
}

func TestHumanizeStaysOnGrid(t *testing.T) {
	src := drumGroove(t, 2)
	for s := int64(0); s < 30; s++ {
		out := Humanize(src, s, 6, 12)
		require.Len(t, out.Notes, len(src.Notes))
		for i, n := range out.Notes {
			require.Zero(t, n.Start%grid.SubdivisionTicks)
			require.GreaterOrEqual(t, n.Start, 0)
			require.Less(t, n.Start, src.SpanTicks())
			require.InDelta(t, src.Notes[i].Start, n.Start, 8)
			require.GreaterOrEqual(t, n.Velocity, 1)
			require.LessOrEqual(t, n.Velocity, 127)
		}
	}
	assert.Equal(t, src, Humanize(src, 1, 0, 0))
}

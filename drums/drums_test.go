package drums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-boom/grid"
	"go-boom/seed"
	"go-boom/style"
)

func requireValid(t *testing.T, p grid.Pattern) {
	t.Helper()
	for _, n := range p.Notes {
		require.GreaterOrEqual(t, n.Start, 0)
		require.Less(t, n.Start, p.SpanTicks())
		require.Zero(t, n.Start%grid.SubdivisionTicks)
		require.GreaterOrEqual(t, n.Length, grid.MinLengthTicks)
		require.GreaterOrEqual(t, n.Velocity, 1)
		require.LessOrEqual(t, n.Velocity, 127)
		require.GreaterOrEqual(t, n.Pitch, 0)
		require.Less(t, n.Pitch, grid.NumLanes)
	}
}

func hasBackbeat(p grid.Pattern, tick int) bool {
	return p.Has(int(grid.Snare), tick) || p.Has(int(grid.Clap), tick)
}

func TestTrapSeedSevenLocksBackbeat(t *testing.T) {
	opts := Options{Bars: 1, Seed: 7}
	p := Generate(style.Get("trap"), opts)
	requireValid(t, p)
	assert.True(t, hasBackbeat(p, grid.StepTick(4)))
	assert.True(t, hasBackbeat(p, grid.StepTick(12)))
	assert.Equal(t, p, Generate(style.Get("trap"), opts))
}

func TestGeneratedPatternsAreValid(t *testing.T) {
	for _, spec := range style.Builtin().Drums() {
		for _, bars := range []int{1, 2, 4, 8, 16} {
			for _, opts := range []Options{
				{Bars: bars, Seed: 1},
				{Bars: bars, Seed: 2, RestPct: 100},
				{Bars: bars, Seed: 3, DottedPct: 100, TripletPct: 100, SwingPct: 100},
				{Bars: bars, Seed: 4, RestPct: -20, SwingPct: 400},
			} {
				p := Generate(spec, opts)
				requireValid(t, p)
				require.Equal(t, bars, p.Bars)
				for bar := 0; bar < bars; bar++ {
					for _, step := range []int{4, 12} {
						require.True(t, hasBackbeat(p, bar*grid.BarTicks+grid.StepTick(step)), "%s bar %d step %d", spec.Name, bar, step)
					}
				}
			}
		}
	}
}

func TestBarsClamped(t *testing.T) {
	assert.Equal(t, 1, Generate(style.Default(), Options{Bars: 0, Seed: 1}).Bars)
	assert.Equal(t, 16, Generate(style.Default(), Options{Bars: 40, Seed: 1}).Bars)
}

func TestDeterministicWithSeed(t *testing.T) {
	opts := Options{Bars: 4, RestPct: 20, DottedPct: 30, TripletPct: 10, SwingPct: 15, Seed: 42}
	for _, name := range style.Names() {
		a := Generate(style.Get(name), opts)
		b := Generate(style.Get(name), opts)
		assert.Equal(t, a, b, name)
	}
}

func TestAutoSeedVaries(t *testing.T) {
	spec := style.Get("trap")
	differ := 0
	const trials = 40
	for i := 0; i < trials; i++ {
		a := Generate(spec, Options{Bars: 2, Seed: seed.Auto})
		b := Generate(spec, Options{Bars: 2, Seed: seed.Auto})
		if !assert.ObjectsAreEqual(a, b) {
			differ++
		}
	}
	assert.GreaterOrEqual(t, differ, trials*95/100)
}

func TestFullRestLeavesOnlyBackbeat(t *testing.T) {
	p := Generate(style.Get("edm"), Options{Bars: 2, RestPct: 100, Seed: 9})
	require.Len(t, p.Notes, 4)
	for _, n := range p.Notes {
		assert.Equal(t, int(grid.Snare), n.Pitch)
	}
}

func TestRollsStayInsideBar(t *testing.T) {
	row := style.Row{VelMin: 90, VelMax: 110, RollProb: 1, MaxRollSub: 3, LenTicks: 24}
	for bar := 0; bar < 2; bar++ {
		barEnd := (bar + 1) * grid.BarTicks
		start := bar*grid.BarTicks + grid.StepTick(15) + 12
		for s := int64(0); s < 50; s++ {
			p := grid.NewPattern(grid.KindDrum, 2, 16)
			addRoll(&p, seed.New(s), row, grid.ClosedHat, start, 100, barEnd)
			require.NotEmpty(t, p.Notes)
			for _, n := range p.Notes {
				require.Less(t, n.Start, barEnd, "seed %d", s)
				require.GreaterOrEqual(t, n.Start, start)
			}
		}
	}
}

func TestRollingRowStaysInOneBar(t *testing.T) {
	spec := style.Get("drill")
	hat := &spec.Rows[grid.ClosedHat]
	for i := range hat.P {
		hat.P[i] = 1
	}
	hat.RollProb, hat.MaxRollSub = 1, 3
	for s := int64(0); s < 20; s++ {
		p := Generate(spec, Options{Bars: 1, SwingPct: 100, Seed: s})
		requireValid(t, p)
		for _, n := range p.Notes {
			require.Less(t, n.Start, grid.BarTicks)
		}
	}
}

func TestTripletFeelReachesSilentRows(t *testing.T) {
	rock := style.Get("rock")
	require.Zero(t, rock.Row(grid.Clap).P[1])
	f := newFeel(rock, Options{TripletPct: 100})
	assert.InDelta(t, 0.1875, stepProbability(rock.Row(grid.Clap), grid.Clap, 1, nil, f), 1e-9)
	assert.Zero(t, stepProbability(rock.Row(grid.Clap), grid.Clap, 2, nil, f))

	offbeats := 0
	for s := int64(0); s < 20; s++ {
		p := Generate(rock, Options{Bars: 4, TripletPct: 100, Seed: s})
		for _, n := range p.Notes {
			if n.Pitch == int(grid.Clap) || n.Pitch == int(grid.Perc) {
				require.Equal(t, 1, grid.TickStep(n.Start)%2, "clap/perc off an odd step at %d", n.Start)
				offbeats++
			}
		}
	}
	assert.Greater(t, offbeats, 0)
}

func TestDottedFeelReachesSilentRows(t *testing.T) {
	rock := style.Get("rock")
	f := newFeel(rock, Options{DottedPct: 100})
	assert.InDelta(t, 0.2625, stepProbability(rock.Row(grid.Perc), grid.Perc, 3, nil, f), 1e-9)
	assert.Zero(t, stepProbability(rock.Row(grid.Perc), grid.Perc, 1, nil, f))
}

func TestSwingFollowsCallerOnly(t *testing.T) {
	trap := style.Get("trap")
	require.Greater(t, trap.SwingPct, 0.0)
	assert.Zero(t, newFeel(trap, Options{}).swing)
	assert.Equal(t, 12, newFeel(trap, Options{SwingPct: 100}).swing)
}

func TestSwingPushesOffbeatHats(t *testing.T) {
	p := Generate(style.Get("rock"), Options{Bars: 1, SwingPct: 100, Seed: 3})
	for _, n := range p.Notes {
		if n.Pitch == int(grid.OpenHat) && n.Start%grid.TicksPerStep != 0 {
			assert.Equal(t, 12, n.Start%grid.TicksPerStep)
		}
		if n.Pitch == int(grid.Kick) {
			assert.Zero(t, n.Start%grid.TicksPerStep)
		}
	}
}

func TestOddMeter(t *testing.T) {
	meter := grid.ParseTimeSignature("7/8")
	p := Generate(style.Get("hip hop"), Options{Bars: 2, Seed: 5, Meter: meter})
	requireValid(t, p)
	assert.Equal(t, 14, p.StepsPerBar)
	assert.Equal(t, 2*14*grid.TicksPerStep, p.SpanTicks())
	for bar := 0; bar < 2; bar++ {
		assert.True(t, hasBackbeat(p, bar*p.BarTicks()+grid.StepTick(6)))
	}
}

func TestBlendWeights(t *testing.T) {
	a, b := style.Get("trap"), style.Get("rock")
	for s := int64(0); s < 20; s++ {
		_, chosen := Blend(a, b, 1, 0, Options{Bars: 1, Seed: s})
		assert.Equal(t, style.Trap, chosen.ID)
		_, chosen = Blend(a, b, 0, 3, Options{Bars: 1, Seed: s})
		assert.Equal(t, style.Rock, chosen.ID)
	}

	picks := map[style.ID]int{}
	for s := int64(0); s < 400; s++ {
		_, chosen := Blend(a, b, -1, -1, Options{Bars: 1, Seed: s})
		picks[chosen.ID]++
	}
	assert.Greater(t, picks[style.Trap], 120)
	assert.Greater(t, picks[style.Rock], 120)
}

func TestBlendIsDeterministic(t *testing.T) {
	a, b := style.Get("pop"), style.Get("drill")
	p1, s1 := Blend(a, b, 0.3, 0.7, Options{Bars: 2, Seed: 11})
	p2, s2 := Blend(a, b, 0.3, 0.7, Options{Bars: 2, Seed: 11})
	assert.Equal(t, s1.ID, s2.ID)
	assert.Equal(t, p1, p2)
	requireValid(t, p1)
}

func TestExpand(t *testing.T) {
	src := grid.NewPattern(grid.KindDrum, 1, 16)
	src.Add(grid.Note{Pitch: int(grid.Kick), Start: grid.StepTick(6), Length: 24, Velocity: 100})
	src.Add(grid.Note{Pitch: int(grid.ClosedHat), Start: 0, Length: 24, Velocity: 127})

	out := Expand(src, 2)
	requireValid(t, out)
	assert.Equal(t, 2, out.Bars)
	assert.True(t, out.Has(int(grid.Kick), grid.StepTick(6)))

	hats := 0
	for _, n := range out.Notes {
		if n.Pitch == int(grid.ClosedHat) {
			hats++
			if n.Start == 0 {
				assert.Equal(t, 127, n.Velocity)
			}
		}
	}
	assert.Equal(t, 32, hats)

	for bar := 0; bar < 2; bar++ {
		base := bar * grid.BarTicks
		assert.True(t, out.Has(int(grid.Snare), base+96-6))
		assert.True(t, out.Has(int(grid.Snare), base+96))
		assert.True(t, out.Has(int(grid.Snare), base+288+6))
		assert.True(t, out.Has(int(grid.Kick), base))
		assert.True(t, out.Has(int(grid.Kick), base+grid.StepTick(8)))
	}
	assert.True(t, out.Has(int(grid.Kick), grid.BarTicks-grid.StepTick(3)))
}

func TestBumpRows(t *testing.T) {
	p := grid.NewPattern(grid.KindDrum, 1, 16)
	p.Add(grid.Note{Pitch: int(grid.Kick), Start: 0, Length: 24, Velocity: 100})
	p.Add(grid.Note{Pitch: int(grid.Snare), Start: 96, Length: 24, Velocity: 100})
	p.Add(grid.Note{Pitch: int(grid.ClosedHat), Start: 48, Length: 24, Velocity: 100})

	out := BumpRows(p)
	assert.Equal(t, int(grid.Snare), out.Notes[0].Pitch)
	assert.Equal(t, int(grid.ClosedHat), out.Notes[1].Pitch)
	assert.Equal(t, int(grid.Kick), out.Notes[2].Pitch)
	assert.Equal(t, int(grid.Kick), p.Notes[0].Pitch)

	assert.True(t, BumpRows(grid.NewPattern(grid.KindDrum, 1, 16)).Empty())
}

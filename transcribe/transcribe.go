package transcribe

import (
	"math"

	"github.com/viterin/vek/vek32"

	"go-boom/debug"
	"go-boom/grid"
)

const (
	HopSize    = 512
	WindowSize = 1024
	MinBPM     = 40
	MaxBPM     = 240
	DefaultBPM = 120

	preEmphasis = 0.97
	hitLength   = 12

	// a band whose loudest frame is below this fraction of the loudest band
	// carries only leakage from its neighbours
	bandFloor = 0.05
	silence   = 1e-6
)

// Options describe the captured material. The tempo is supplied by the caller;
// zero means DefaultBPM.
type Options struct {
	SampleRate int
	Bars       int
	BPM        int
}

type band struct {
	name      string
	lane      grid.Lane
	velocity  int
	threshold float32
	gap       float64 // seconds between accepted peaks
	lowCut    float64 // Hz, 0 for none
	highCut   float64 // Hz, 0 for none
	emphasis  bool
}

var bands = []band{
	{name: "low", lane: grid.Kick, velocity: 115, threshold: 0.35, gap: 0.040, highCut: 200},
	{name: "mid", lane: grid.Snare, velocity: 108, threshold: 0.30, gap: 0.050, lowCut: 200, highCut: 2000, emphasis: true},
	{name: "high", lane: grid.ClosedHat, velocity: 80, threshold: 0.28, gap: 0.030, lowCut: 5000, emphasis: true},
}

// Drums turns a mono recording into a one-hit-per-step drum pattern: kicks from
// the low band, snares from the mid band, closed hats from the high band. Input
// shorter than one analysis window yields an empty pattern.
func Drums(mono []float32, opts Options) grid.Pattern {
	p := grid.NewPattern(grid.KindDrum, opts.Bars, grid.StepsPerBar)
	fs := opts.SampleRate
	if fs <= 0 || len(mono) < WindowSize {
		return p
	}
	bpm := opts.BPM
	if bpm == 0 {
		bpm = DefaultBPM
	}
	bpm = grid.Clamp(bpm, MinBPM, MaxBPM)
	secPerStep := 60 / float64(bpm) / 4
	total := p.TotalSteps()

	envs := make([][]float32, len(bands))
	peaks := make([]float32, len(bands))
	var loudest float32
	for i, b := range bands {
		envs[i] = envelope(filter(mono, fs, b))
		peaks[i] = vek32.Max(envs[i])
		loudest = max(loudest, peaks[i])
	}
	if loudest < silence {
		debug.Log("transcribe", "silent input samples=%d", len(mono))
		return p
	}

	for i, b := range bands {
		if peaks[i] < loudest*bandFloor {
			continue
		}
		vek32.DivNumber_Inplace(envs[i], peaks[i])
		gap := int(math.Round(b.gap * float64(fs) / HopSize))
		frames := pickPeaks(envs[i], b.threshold, gap)
		debug.Log("transcribe", "band=%s peak=%.4f onsets=%d", b.name, peaks[i], len(frames))
		for _, f := range frames {
			t := float64(f*HopSize) / float64(fs)
			step := int(math.Round(t / secPerStep))
			step = (step%total + total) % total
			tick := grid.StepTick(step)
			if p.Has(int(b.lane), tick) {
				continue
			}
			p.Add(grid.Note{Pitch: int(b.lane), Start: tick, Length: hitLength, Velocity: b.velocity})
		}
	}
	p.Sort()

	debug.Log("transcribe", "samples=%d fs=%d bpm=%d bars=%d hits=%d", len(mono), fs, bpm, p.Bars, p.Len())
	return p
}

// filter isolates one band with cascaded one-pole sections. The low band skips
// pre-emphasis, which would otherwise remove most of its energy.
func filter(mono []float32, fs int, b band) []float32 {
	out := make([]float32, len(mono))
	if b.emphasis {
		var prev float32
		for i, x := range mono {
			out[i] = x - preEmphasis*prev
			prev = x
		}
	} else {
		copy(out, mono)
	}
	if b.lowCut > 0 {
		highPass(out, coefficient(b.lowCut, fs))
	}
	if b.highCut > 0 {
		a := coefficient(b.highCut, fs)
		lowPass(out, a)
		lowPass(out, a)
	}
	return out
}

func coefficient(cutoff float64, fs int) float32 {
	return float32(1 - math.Exp(-2*math.Pi*cutoff/float64(fs)))
}

func lowPass(x []float32, a float32) {
	var y float32
	for i, v := range x {
		y += a * (v - y)
		x[i] = y
	}
}

func highPass(x []float32, a float32) {
	var y float32
	for i, v := range x {
		y += a * (v - y)
		x[i] = v - y
	}
}

// envelope is the mean absolute level of each analysis frame
func envelope(x []float32) []float32 {
	vek32.Abs_Inplace(x)
	frames := (len(x)-WindowSize)/HopSize + 1
	env := make([]float32, frames)
	for f := range env {
		i := f * HopSize
		env[f] = vek32.Mean(x[i : i+WindowSize])
	}
	return env
}

// pickPeaks returns local maxima above threshold, at least gap frames apart
func pickPeaks(env []float32, threshold float32, gap int) []int {
	var frames []int
	last := -gap
	for i := 1; i+1 < len(env); i++ {
		if env[i] > threshold && env[i] > env[i-1] && env[i] >= env[i+1] && i-last >= gap {
			frames = append(frames, i)
			last = i
		}
	}
	return frames
}

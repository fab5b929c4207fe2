package capture

import (
	"strings"
	"sync/atomic"

	"go-boom/debug"
)

// Source selects what the recorder listens to
type Source int32

const (
	Loopback Source = iota
	Microphone
)

func (s Source) String() string {
	if s == Microphone {
		return "microphone"
	}
	return "loopback"
}

// ParseSource maps a config string to a Source, defaulting to loopback
func ParseSource(s string) Source {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mic", "microphone", "input":
		return Microphone
	}
	return Loopback
}

// Defaults for a capture session
const (
	DefaultSampleRate = 44100
	DefaultSeconds    = 65.0
)

// Recorder owns the capture ring and the session-level controls around it:
// start/stop, source, length and a seekable playhead.
type Recorder struct {
	ring       atomic.Pointer[Ring]
	sampleRate atomic.Int64
	seconds    float64
	source     atomic.Int32
	playhead   atomic.Int64 // samples
}

// NewRecorder allocates a ring of seconds at sampleRate
func NewRecorder(sampleRate int, seconds float64) *Recorder {
	if seconds <= 0 {
		seconds = DefaultSeconds
	}
	r := &Recorder{seconds: seconds}
	r.allocate(sampleRate)
	return r
}

func (r *Recorder) allocate(sampleRate int) {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	r.sampleRate.Store(int64(sampleRate))
	r.ring.Store(NewRing(int(r.seconds * float64(sampleRate))))
	r.playhead.Store(0)
}

// Prepare resizes the ring for a new sample rate. Ignored while capturing.
func (r *Recorder) Prepare(sampleRate int) {
	if r.IsCapturing() || sampleRate <= 0 || int64(sampleRate) == r.sampleRate.Load() {
		return
	}
	r.allocate(sampleRate)
	debug.Log("capture", "prepared %d Hz, %d samples", sampleRate, r.ring.Load().Cap())
}

// Start clears the ring and begins a new capture from src
func (r *Recorder) Start(src Source) {
	r.source.Store(int32(src))
	r.playhead.Store(0)
	r.ring.Load().Start()
	debug.Log("capture", "start source=%s", src)
}

// Stop freezes the capture
func (r *Recorder) Stop() {
	ring := r.ring.Load()
	ring.Stop()
	debug.Log("capture", "stop samples=%d", ring.Len())
}

// IsCapturing reports whether a capture is running
func (r *Recorder) IsCapturing() bool {
	return r.ring.Load().Capturing()
}

// Source returns the source of the current or last capture
func (r *Recorder) Source() Source {
	return Source(r.source.Load())
}

// SampleRate returns the ring's sample rate
func (r *Recorder) SampleRate() int {
	return int(r.sampleRate.Load())
}

// Process is the audio callback: it mixes one block of channels to mono into the ring.
// It never blocks or allocates.
func (r *Recorder) Process(channels [][]float32) {
	if len(channels) == 0 {
		return
	}
	r.ring.Load().WriteMix(channels, len(channels[0]))
}

// LengthSeconds returns the captured length
func (r *Recorder) LengthSeconds() float64 {
	return float64(r.ring.Load().Len()) / float64(r.SampleRate())
}

// PositionSeconds returns the playhead
func (r *Recorder) PositionSeconds() float64 {
	return float64(r.playhead.Load()) / float64(r.SampleRate())
}

// Seek moves the playhead, clamped to the captured length
func (r *Recorder) Seek(seconds float64) {
	pos := int64(seconds * float64(r.SampleRate()))
	pos = max(0, min(pos, int64(r.ring.Load().Len())))
	r.playhead.Store(pos)
}

// Samples returns a copy of the captured audio, oldest first
func (r *Recorder) Samples() []float32 {
	ring := r.ring.Load()
	return ring.Snapshot(make([]float32, 0, ring.Len()))
}

// Level returns the recent RMS level for a meter
func (r *Recorder) Level() float32 {
	return r.ring.Load().Level(r.SampleRate() / 20)
}

package sequencer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"go-boom/capture"
	"go-boom/config"
	"go-boom/debug"
	"go-boom/drums"
	"go-boom/flip"
	"go-boom/grid"
	"go-boom/melodic"
	"go-boom/midi"
	"go-boom/seed"
	"go-boom/style"
	"go-boom/transcribe"
)

// Manager owns the session state and dispatches generator calls to the active
// engine. Calls that do not apply to the active engine leave state untouched.
type Manager struct {
	state    *State
	recorder *capture.Recorder
	mu       sync.RWMutex

	// Notify TUI of updates
	UpdateChan chan struct{}
}

// NewManager creates a manager with state and capture sized from cfg
func NewManager(cfg *config.Config) *Manager {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	rec := capture.NewRecorder(cfg.Capture.SampleRate, cfg.Capture.Seconds)
	return &Manager{
		state:      NewState(cfg),
		recorder:   rec,
		UpdateChan: make(chan struct{}, 1),
	}
}

func (m *Manager) notify() {
	select {
	case m.UpdateChan <- struct{}{}:
	default:
	}
}

// State returns a copy of the current state
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Clone()
}

// Pattern returns a copy of the active engine's pattern
func (m *Manager) Pattern() grid.Pattern {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Active().Clone()
}

// Update edits settings under the lock. Patterns changed by fn are kept.
func (m *Manager) Update(fn func(s *State)) {
	m.mu.Lock()
	fn(m.state)
	m.state.Bars = grid.ClampBars(m.state.Bars)
	m.mu.Unlock()
	m.notify()
}

// SetEngine switches the active engine
func (m *Manager) SetEngine(e Engine) {
	m.Update(func(s *State) { s.Engine = e })
}

// Recorder exposes the capture buffer for the audio producer
func (m *Manager) Recorder() *capture.Recorder {
	return m.recorder
}

func (s *State) drumOptions(seedVal int64) drums.Options {
	return drums.Options{
		Bars:       s.Bars,
		RestPct:    s.RestPct,
		DottedPct:  s.DottedPct,
		TripletPct: s.TripletPct,
		SwingPct:   s.SwingPct,
		Seed:       seedVal,
		Meter:      s.Meter(),
	}
}

func (s *State) melodicOptions(seedVal int64) melodic.Options {
	opts := melodic.Options{
		Style:      s.BassStyle,
		Key:        s.Key,
		Scale:      s.Scale,
		Bars:       s.Bars,
		Octave:     s.Octave,
		RestPct:    s.RestPct,
		DottedPct:  s.DottedPct,
		TripletPct: s.TripletPct,
		SwingPct:   s.SwingPct,
		Seed:       seedVal,
		Meter:      s.Meter(),
	}
	if s.FollowKicks && !s.Drums.Empty() {
		kicks := s.Drums.Clone()
		opts.Kicks = &kicks
	}
	return opts
}

// mutate runs fn when the active engine passes want, then notifies listeners.
// It returns the active pattern either way.
func (m *Manager) mutate(want func(Engine) bool, fn func(s *State)) grid.Pattern {
	m.mu.Lock()
	applied := want(m.state.Engine)
	if applied {
		fn(m.state)
	}
	out := m.state.Active().Clone()
	m.mu.Unlock()
	if applied {
		m.notify()
	}
	return out
}

func isDrums(e Engine) bool   { return e == EngineDrums }
func isMelodic(e Engine) bool { return e.Melodic() }
func anyEngine(Engine) bool   { return true }

// Generate runs the active engine's generator
func (m *Manager) Generate() grid.Pattern {
	switch m.State().Engine {
	case Engine808:
		return m.Generate808()
	case EngineBass:
		return m.GenerateBass()
	}
	return m.GenerateDrums()
}

// GenerateDrums replaces the drum pattern with a fresh groove in the
// configured style
func (m *Manager) GenerateDrums() grid.Pattern {
	return m.mutate(isDrums, func(s *State) {
		s.LastSeed = seed.Resolve(s.Seed)
		s.Drums = drums.Generate(style.Get(s.DrumStyle), s.drumOptions(s.LastSeed))
	})
}

// Generate808 replaces the melodic pattern using the grid-family generator
func (m *Manager) Generate808() grid.Pattern {
	return m.mutate(func(e Engine) bool { return e == Engine808 }, func(s *State) {
		s.LastSeed = seed.Resolve(s.Seed)
		s.Melodic = melodic.Generate808(s.melodicOptions(s.LastSeed))
	})
}

// GenerateBass replaces the melodic pattern using the stepwise generator
func (m *Manager) GenerateBass() grid.Pattern {
	return m.mutate(func(e Engine) bool { return e == EngineBass }, func(s *State) {
		s.LastSeed = seed.Resolve(s.Seed)
		s.Melodic = melodic.Generate(s.melodicOptions(s.LastSeed))
	})
}

// Blend generates drums from one of two styles picked by weight
func (m *Manager) Blend(a, b string, weightA, weightB float64) (grid.Pattern, string) {
	var chosen string
	p := m.mutate(isDrums, func(s *State) {
		s.LastSeed = seed.Resolve(s.Seed)
		var spec style.Spec
		s.Drums, spec = drums.Blend(style.Get(a), style.Get(b), weightA, weightB, s.drumOptions(s.LastSeed))
		chosen = spec.Name
	})
	return p, chosen
}

// Flip varies the active pattern. An empty pattern stays empty.
func (m *Manager) Flip() grid.Pattern {
	return m.mutate(anyEngine, func(s *State) {
		sv := seed.Resolve(seed.Auto)
		if s.Engine.Melodic() {
			s.Melodic = flip.Melodic(s.Melodic, sv, s.FlipDensity, s.Bars)
		} else {
			s.Drums = flip.Drums(s.Drums, sv, s.FlipDensity, s.Bars)
		}
	})
}

// Humanize jitters timing and velocity of the active pattern
func (m *Manager) Humanize(timingTicks, velocity int) grid.Pattern {
	return m.mutate(anyEngine, func(s *State) {
		sv := seed.Resolve(seed.Auto)
		if s.Engine.Melodic() {
			s.Melodic = flip.Humanize(s.Melodic, sv, timingTicks, velocity)
		} else {
			s.Drums = flip.Humanize(s.Drums, sv, timingTicks, velocity)
		}
	})
}

// Expand fills out the drum pattern around its existing hits
func (m *Manager) Expand() grid.Pattern {
	return m.mutate(isDrums, func(s *State) {
		s.Drums = drums.Expand(s.Drums, s.Bars)
	})
}

// BumpRows rotates every drum hit to the next lane in use
func (m *Manager) BumpRows() grid.Pattern {
	return m.mutate(isDrums, func(s *State) {
		s.Drums = drums.BumpRows(s.Drums)
	})
}

// Transpose moves the melodic pattern by octaves into key and scale, and
// makes them the current settings
func (m *Manager) Transpose(key, scaleName string, octaves int) grid.Pattern {
	return m.mutate(isMelodic, func(s *State) {
		s.Melodic = melodic.Transpose(s.Melodic, key, scaleName, octaves)
		s.Key, s.Scale = key, scaleName
	})
}

// Clear empties the active pattern
func (m *Manager) Clear() grid.Pattern {
	return m.mutate(anyEngine, func(s *State) {
		spb := s.Meter().StepsPerBar()
		if s.Engine.Melodic() {
			s.Melodic = grid.NewPattern(grid.KindMelodic, s.Bars, spb)
		} else {
			s.Drums = grid.NewPattern(grid.KindDrum, s.Bars, spb)
		}
	})
}

// StartCapture clears the capture buffer and starts recording from src
func (m *Manager) StartCapture(src capture.Source) {
	m.recorder.Start(src)
	debug.Log("capture", "start source=%s sr=%d", src, m.recorder.SampleRate())
}

// StopCapture freezes the captured length
func (m *Manager) StopCapture() {
	m.recorder.Stop()
	debug.Log("capture", "stop length=%.2fs", m.recorder.LengthSeconds())
}

// CaptureWAV replaces the capture buffer with a decoded WAV stream
func (m *Manager) CaptureWAV(r io.Reader) error {
	if err := capture.CaptureWAV(m.recorder, r, capture.DefaultBlockSize); err != nil {
		return err
	}
	debug.Log("capture", "wav length=%.2fs sr=%d", m.recorder.LengthSeconds(), m.recorder.SampleRate())
	m.notify()
	return nil
}

// Transcribe converts the captured audio into the drum pattern. Nothing
// happens while a capture is running, without captured audio, or outside the
// Drums engine.
func (m *Manager) Transcribe() grid.Pattern {
	if m.recorder.IsCapturing() {
		return m.Pattern()
	}
	samples := m.recorder.Samples()
	sr := m.recorder.SampleRate()
	return m.mutate(func(e Engine) bool { return isDrums(e) && len(samples) > 0 }, func(s *State) {
		s.Drums = transcribe.Drums(samples, transcribe.Options{SampleRate: sr, Bars: s.Bars, BPM: s.BPM})
	})
}

// Export writes the active pattern as a MIDI file to w
func (m *Manager) Export(w io.Writer) error {
	st := m.State()
	return midi.Export(w, st.Active(), st.exportOptions())
}

// ExportFile writes the active pattern into dir and returns the file path
func (m *Manager) ExportFile(dir string) (string, error) {
	st := m.State()
	path := filepath.Join(dir, st.ExportName())
	if err := midi.WriteFile(path, st.Active(), st.exportOptions()); err != nil {
		return "", fmt.Errorf("exporting %s: %w", st.Engine, err)
	}
	return path, nil
}

func (s *State) exportOptions() midi.ExportOptions {
	return midi.ExportOptions{
		BPM:   float64(s.BPM),
		Kit:   s.Kit,
		Meter: s.Meter(),
		Name:  strings.TrimSuffix(s.ExportName(), ".mid"),
	}
}

// ExportName is a file name describing the active pattern
func (s *State) ExportName() string {
	styleName := s.DrumStyle
	if s.Engine.Melodic() {
		styleName = s.BassStyle + "_" + s.Key
	}
	name := fmt.Sprintf("boom_%s_%s_%d", strings.ToLower(string(s.Engine)), styleName, s.LastSeed)
	return sanitizeFilename(strings.ToLower(name)) + ".mid"
}

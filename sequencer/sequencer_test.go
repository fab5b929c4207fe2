package sequencer

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"

	"go-boom/capture"
	"go-boom/config"
	"go-boom/grid"
	"go-boom/scale"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cfg := config.DefaultConfig()
	cfg.Generation.Seed = 21
	cfg.Capture.Seconds = 3
	return NewManager(cfg)
}

func TestParseEngine(t *testing.T) {
	assert.Equal(t, Engine808, ParseEngine("808"))
	assert.Equal(t, EngineBass, ParseEngine("bass"))
	assert.Equal(t, EngineDrums, ParseEngine("kazoo"))
	assert.True(t, EngineBass.Melodic())
	assert.False(t, EngineDrums.Melodic())
}

func TestGenerateDrums(t *testing.T) {
	m := newManager(t)
	p := m.GenerateDrums()
	require.False(t, p.Empty())
	assert.Equal(t, grid.KindDrum, p.Kind)
	assert.Equal(t, 4, p.Bars)
	assert.Equal(t, int64(21), m.State().LastSeed)

	again := m.GenerateDrums()
	assert.Equal(t, p, again)
}

func TestEngineMismatchIsNoOp(t *testing.T) {
	m := newManager(t)
	drums := m.GenerateDrums()

	// melodic ops under the Drums engine
	assert.Equal(t, drums, m.Generate808())
	assert.Equal(t, drums, m.GenerateBass())
	assert.Equal(t, drums, m.Transpose("D", "Dorian", 1))
	assert.True(t, m.State().Melodic.Empty())

	m.SetEngine(EngineBass)
	bass := m.GenerateBass()
	require.False(t, bass.Empty())
	assert.Equal(t, grid.KindMelodic, bass.Kind)

	// drum ops under a melodic engine
	assert.Equal(t, bass, m.GenerateDrums())
	assert.Equal(t, bass, m.Expand())
	assert.Equal(t, bass, m.BumpRows())
	p, chosen := m.Blend("trap", "rock", 1, 1)
	assert.Equal(t, bass, p)
	assert.Empty(t, chosen)
	assert.Equal(t, bass, m.Generate808())
	assert.Equal(t, drums, m.State().Drums)
}

func TestGenerateDispatchesOnEngine(t *testing.T) {
	m := newManager(t)
	m.SetEngine(Engine808)
	p := m.Generate()
	assert.Equal(t, grid.KindMelodic, p.Kind)
	assert.True(t, m.State().Drums.Empty())

	m.SetEngine(EngineDrums)
	assert.Equal(t, grid.KindDrum, m.Generate().Kind)
}

func TestFlipAndHumanizeStayValid(t *testing.T) {
	m := newManager(t)
	assert.True(t, m.Flip().Empty())

	m.GenerateDrums()
	for i := 0; i < 10; i++ {
		p := m.Flip()
		for _, n := range p.Notes {
			require.Less(t, n.Start, p.SpanTicks())
			require.Less(t, n.Pitch, grid.NumLanes)
		}
	}
	p := m.Humanize(6, 10)
	for _, n := range p.Notes {
		require.Zero(t, n.Start%grid.SubdivisionTicks)
	}
}

func TestTransposeUpdatesKey(t *testing.T) {
	m := newManager(t)
	m.SetEngine(Engine808)
	m.Generate808()

	p := m.Transpose("E", "Phrygian", 0)
	st := m.State()
	assert.Equal(t, "E", st.Key)
	assert.Equal(t, "Phrygian", st.Scale)
	root := scale.KeyIndex("E")
	for _, n := range p.Notes {
		assert.True(t, scale.Get("Phrygian").Contains(root, n.Pitch))
	}
}

func TestExpandAndBump(t *testing.T) {
	m := newManager(t)
	m.Update(func(s *State) {
		s.Bars = 2
		s.Drums = grid.NewPattern(grid.KindDrum, 2, 16)
		s.Drums.Add(grid.Note{Pitch: int(grid.Kick), Start: 0, Length: 24, Velocity: 120})
	})
	p := m.Expand()
	assert.Greater(t, p.Len(), 1)

	before := m.State().Drums
	bumped := m.BumpRows()
	require.Equal(t, before.Len(), bumped.Len())
}

func TestBlendReportsStyle(t *testing.T) {
	m := newManager(t)
	p, chosen := m.Blend("trap", "rock", 1, 0)
	assert.Equal(t, "trap", chosen)
	assert.False(t, p.Empty())
}

func TestFollowKicks(t *testing.T) {
	m := newManager(t)
	m.GenerateDrums()
	m.Update(func(s *State) {
		s.Engine = EngineBass
		s.FollowKicks = true
	})
	st := m.State()
	opts := st.melodicOptions(1)
	require.NotNil(t, opts.Kicks)
	assert.Equal(t, st.Drums, *opts.Kicks)
}

func writeClickWAV(t *testing.T) []byte {
	t.Helper()
	const sr = 22050
	samples := make([][2]float64, sr)
	start := sr / 2
	for i := start; i < len(samples); i++ {
		tt := float64(i-start) / sr
		v := 0.9 * math.Exp(-tt/0.05) * math.Sin(2*math.Pi*70*tt)
		samples[i] = [2]float64{v, v}
	}
	pos := 0
	s := beep.StreamerFunc(func(buf [][2]float64) (int, bool) {
		if pos >= len(samples) {
			return 0, false
		}
		n := copy(buf, samples[pos:])
		pos += n
		return n, true
	})

	path := filepath.Join(t.TempDir(), "click.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, wav.Encode(f, s, beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2}))
	require.NoError(t, f.Close())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestCaptureAndTranscribe(t *testing.T) {
	m := newManager(t)
	m.Update(func(s *State) {
		s.Bars = 1
		s.BPM = 120
	})

	// nothing captured yet
	assert.True(t, m.Transcribe().Empty())

	require.NoError(t, m.CaptureWAV(bytes.NewReader(writeClickWAV(t))))
	p := m.Transcribe()
	require.Equal(t, 1, p.Len())
	assert.Equal(t, int(grid.Kick), p.Notes[0].Pitch)
	assert.Equal(t, grid.StepTick(4), p.Notes[0].Start)

	m.SetEngine(EngineBass)
	m.GenerateBass()
	assert.Equal(t, grid.KindMelodic, m.Transcribe().Kind)
	assert.Equal(t, p, m.State().Drums)
}

func TestTranscribeWaitsForStop(t *testing.T) {
	m := newManager(t)
	groove := m.GenerateDrums()
	require.False(t, groove.Empty())

	m.StartCapture(capture.Loopback)
	m.Recorder().Process([][]float32{make([]float32, 4410)})
	assert.Equal(t, groove, m.Transcribe())
	assert.Equal(t, groove, m.State().Drums)

	// silence transcribes to an empty groove once stopped
	m.StopCapture()
	assert.True(t, m.Transcribe().Empty())
}

func TestCaptureControls(t *testing.T) {
	m := newManager(t)
	m.StartCapture(capture.Microphone)
	assert.True(t, m.Recorder().IsCapturing())
	m.Recorder().Process([][]float32{make([]float32, 4410)})
	m.StopCapture()
	assert.False(t, m.Recorder().IsCapturing())
	assert.InDelta(t, 0.1, m.Recorder().LengthSeconds(), 1e-6)
}

func TestExport(t *testing.T) {
	m := newManager(t)
	m.GenerateDrums()

	var buf bytes.Buffer
	require.NoError(t, m.Export(&buf))
	rd, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Len(t, rd.Tracks, 2)

	dir := t.TempDir()
	path, err := m.ExportFile(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "boom_drums_hip-hop_21.mid"), path)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestExportName(t *testing.T) {
	st := NewState(nil)
	st.Engine = EngineBass
	st.BassStyle = "r&b"
	st.Key = "F#"
	st.LastSeed = 9
	assert.Equal(t, "boom_bass_rnb_f#_9.mid", st.ExportName())
}

func TestProjectSaveLoad(t *testing.T) {
	m := newManager(t)
	m.GenerateDrums()
	m.Update(func(s *State) { s.SwingPct = 40 })

	filename, err := m.SaveProject("my beat")
	require.NoError(t, err)
	assert.Equal(t, "my beat", m.State().ProjectName)

	projects, err := ListProjects()
	require.NoError(t, err)
	assert.Equal(t, []string{"my-beat"}, projects)

	saves, err := ListSaves("my beat")
	require.NoError(t, err)
	require.Len(t, saves, 1)
	assert.Equal(t, filename, saves[0].Filename)

	want := m.State()
	m.Clear()
	require.NoError(t, m.LoadProject("my beat", ""))
	got := m.State()
	assert.Equal(t, want.Drums, got.Drums)
	assert.Equal(t, 40, got.SwingPct)
	assert.Equal(t, EngineDrums, got.Engine)
}

func TestSavesNewestFirstAndRename(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	st := NewState(nil)
	base := time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)

	first, err := WriteState(st, "p", base)
	require.NoError(t, err)
	second, err := WriteState(st, "p", base.Add(time.Minute))
	require.NoError(t, err)

	saves, err := ListSaves("p")
	require.NoError(t, err)
	require.Len(t, saves, 2)
	assert.Equal(t, second, saves[0].Filename)

	renamed, err := RenameSave("p", first, "verse idea")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15_14-30-00_verse-idea.yaml", renamed)

	saves, err = ListSaves("p")
	require.NoError(t, err)
	assert.Equal(t, "verse-idea", saves[1].Name)

	require.NoError(t, DeleteSave("p", second))
	saves, err = ListSaves("p")
	require.NoError(t, err)
	assert.Len(t, saves, 1)

	_, err = RenameSave("p", "junk.yaml", "x")
	assert.Error(t, err)

	require.NoError(t, RenameProject("p", "q"))
	projects, err := ListProjects()
	require.NoError(t, err)
	assert.Equal(t, []string{"q"}, projects)
	require.NoError(t, DeleteProject("q"))
	projects, err = ListProjects()
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestLoadRepairsState(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "go-boom", "projects", "odd")
	require.NoError(t, os.MkdirAll(dir, 0755))
	doc := "engine: banjo\nbars: 99\ndrums:\n  kind: 0\n  bars: 1\n  stepsPerBar: 16\n  notes:\n    - {pitch: 40, start: 3, length: 1, velocity: 300}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-01-15_14-30-00.yaml"), []byte(doc), 0644))

	st, err := ReadState("odd", "")
	require.NoError(t, err)
	assert.Equal(t, EngineDrums, st.Engine)
	assert.Equal(t, 16, st.Bars)
	require.Len(t, st.Drums.Notes, 1)
	n := st.Drums.Notes[0]
	assert.Equal(t, grid.NumLanes-1, n.Pitch)
	assert.Equal(t, 127, n.Velocity)
	assert.Equal(t, grid.MinLengthTicks, n.Length)
	assert.Zero(t, n.Start%grid.SubdivisionTicks)

	_, err = ReadState("missing", "")
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a-b-c", sanitizeFilename(" a/b:c "))
	assert.Equal(t, "what", sanitizeFilename("wh?at*"))
}

package midi

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"go-boom/drums"
	"go-boom/grid"
	"go-boom/style"
)

func drumPattern() grid.Pattern {
	p := grid.NewPattern(grid.KindDrum, 1, 16)
	p.Add(grid.Note{Pitch: int(grid.Kick), Start: 0, Length: 24, Velocity: 120})
	p.Add(grid.Note{Pitch: int(grid.ClosedHat), Start: 0, Length: 12, Velocity: 80})
	p.Add(grid.Note{Pitch: int(grid.Snare), Start: grid.StepTick(4), Length: 24, Velocity: 110})
	p.Add(grid.Note{Pitch: int(grid.Kick), Start: grid.StepTick(1), Length: 24, Velocity: 90})
	return p
}

func TestEventsOrderOffsBeforeOns(t *testing.T) {
	events := Events(drumPattern(), grid.GetKit("gm"))
	require.Len(t, events, 8)
	for i := 1; i < len(events); i++ {
		assert.LessOrEqual(t, events[i-1].Tick, events[i].Tick)
	}
	// kick at step 0 releases exactly when the kick at step 1 starts
	var at24 []Event
	for _, ev := range events {
		if ev.Tick == 24 {
			at24 = append(at24, ev)
		}
	}
	require.Len(t, at24, 2)
	assert.Equal(t, NoteOff, at24[0].Type)
	assert.Equal(t, NoteOn, at24[1].Type)
}

func TestEventsMapDrumLanes(t *testing.T) {
	events := Events(drumPattern(), grid.GetKit("gm"))
	for _, ev := range events {
		assert.Equal(t, uint8(9), ev.Channel)
	}
	assert.Equal(t, uint8(36), events[0].Note)

	p := grid.NewPattern(grid.KindMelodic, 1, 16)
	p.Add(grid.Note{Pitch: 40, Start: 0, Length: 2, Velocity: 100, Channel: 3})
	events = Events(p, grid.GetKit("gm"))
	require.Len(t, events, 2)
	assert.Equal(t, uint8(2), events[0].Channel)
	assert.Equal(t, uint8(40), events[0].Note)
	assert.Equal(t, grid.MinLengthTicks, events[1].Tick)
}

func TestExportHeader(t *testing.T) {
	var buf bytes.Buffer
	meter := grid.ParseTimeSignature("7/8")
	require.NoError(t, Export(&buf, drumPattern(), ExportOptions{BPM: 93, Meter: meter, Name: "boom"}))

	rd, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, smf.MetricTicks(96), rd.TimeFormat)
	require.Len(t, rd.Tracks, 2)

	tempos := rd.TempoChanges()
	require.NotEmpty(t, tempos)
	assert.InDelta(t, 93, tempos[0].BPM, 0.01)

	var num, den uint8
	found := false
	for _, ev := range rd.Tracks[0] {
		if ev.Message.GetMetaMeter(&num, &den) {
			found = true
		}
	}
	require.True(t, found)
	assert.Equal(t, uint8(7), num)
	assert.Equal(t, uint8(8), den)
}

func TestExportNotes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, drumPattern(), ExportOptions{Kit: "tr8s"}))
	rd, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	kit := grid.GetKit("tr8s")
	var ons []uint8
	for _, ev := range rd.Tracks[1] {
		var ch, key, vel uint8
		if gomidi.Message(ev.Message).GetNoteStart(&ch, &key, &vel) {
			assert.Equal(t, uint8(9), ch)
			ons = append(ons, key)
		}
	}
	assert.ElementsMatch(t, []uint8{
		kit.Notes[grid.Kick], kit.Notes[grid.ClosedHat], kit.Notes[grid.Snare], kit.Notes[grid.Kick],
	}, ons)
}

func TestRoundTrip(t *testing.T) {
	src := drumPattern()
	src.Sort()

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, src, ExportOptions{Kit: "rd8"}))
	back, err := Import(bytes.NewReader(buf.Bytes()), ImportOptions{Kind: grid.KindDrum, Kit: "rd8"})
	require.NoError(t, err)
	assert.Equal(t, src, back)

	mel := grid.NewPattern(grid.KindMelodic, 2, 16)
	mel.Add(grid.Note{Pitch: 36, Start: 0, Length: 48, Velocity: 100, Channel: 2})
	mel.Add(grid.Note{Pitch: 43, Start: grid.BarTicks + 24, Length: 24, Velocity: 90, Channel: 2})
	buf.Reset()
	require.NoError(t, Export(&buf, mel, ExportOptions{}))
	back, err = Import(bytes.NewReader(buf.Bytes()), ImportOptions{Kind: grid.KindMelodic})
	require.NoError(t, err)
	assert.Equal(t, mel, back)
}

func TestGeneratedPatternExports(t *testing.T) {
	p := drums.Generate(style.Get("trap"), drums.Options{Bars: 4, Seed: 11})
	path := filepath.Join(t.TempDir(), "out", "trap.mid")
	require.NoError(t, WriteFile(path, p, ExportOptions{BPM: 140}))

	rd, err := smf.ReadFile(path)
	require.NoError(t, err)
	ons := 0
	for _, ev := range rd.Tracks[1] {
		var ch, key, vel uint8
		if gomidi.Message(ev.Message).GetNoteStart(&ch, &key, &vel) {
			ons++
		}
	}
	assert.Equal(t, p.Len(), ons)
}

func TestImportRejectsGarbage(t *testing.T) {
	_, err := Import(bytes.NewReader([]byte("MThd nope")), ImportOptions{})
	assert.Error(t, err)
}

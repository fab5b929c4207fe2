package midi

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"go-boom/debug"
	"go-boom/grid"
)

const DefaultBPM = 120

// ExportOptions control the file header and the drum map
type ExportOptions struct {
	BPM   float64
	Kit   string
	Meter grid.TimeSignature
	Name  string
}

func (o ExportOptions) bpm() float64 {
	if o.BPM <= 0 {
		return DefaultBPM
	}
	return o.BPM
}

// Build lays the pattern out as a two-track SMF at grid.PPQ: track 0 carries
// name, meter and tempo, track 1 the notes.
func Build(p grid.Pattern, opts ExportOptions) (*smf.SMF, error) {
	meter := opts.Meter.OrDefault()

	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(grid.PPQ)

	var track0 smf.Track
	if opts.Name != "" {
		track0.Add(0, smf.MetaTrackSequenceName(opts.Name))
	}
	track0.Add(0, smf.MetaMeter(uint8(meter.Num), uint8(meter.Den)))
	track0.Add(0, smf.MetaTempo(opts.bpm()))
	track0.Close(0)
	if err := sm.Add(track0); err != nil {
		return nil, fmt.Errorf("adding tempo track: %w", err)
	}

	var track smf.Track
	last := 0
	for _, ev := range Events(p, grid.GetKit(opts.Kit)) {
		delta := uint32(ev.Tick - last)
		switch ev.Type {
		case NoteOn:
			track.Add(delta, gomidi.NoteOn(ev.Channel, ev.Note, ev.Velocity))
		case NoteOff:
			track.Add(delta, gomidi.NoteOff(ev.Channel, ev.Note))
		}
		last = ev.Tick
	}
	track.Close(uint32(max(0, p.SpanTicks()-last)))
	if err := sm.Add(track); err != nil {
		return nil, fmt.Errorf("adding note track: %w", err)
	}
	return sm, nil
}

// Export writes the pattern as a Standard MIDI File
func Export(w io.Writer, p grid.Pattern, opts ExportOptions) error {
	sm, err := Build(p, opts)
	if err != nil {
		return err
	}
	if _, err := sm.WriteTo(w); err != nil {
		return fmt.Errorf("writing midi: %w", err)
	}
	debug.Log("export", "kind=%s bars=%d notes=%d bpm=%.1f", p.Kind, p.Bars, p.Len(), opts.bpm())
	return nil
}

// WriteFile exports to path, creating parent directories as needed
func WriteFile(path string, p grid.Pattern, opts ExportOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Export(f, p, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

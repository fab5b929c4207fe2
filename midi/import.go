package midi

import (
	"fmt"
	"io"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"go-boom/grid"
)

// ImportOptions select how a file is folded back onto the grid. Bars zero
// means as many bars as the notes need.
type ImportOptions struct {
	Kind  grid.Kind
	Kit   string
	Bars  int
	Meter grid.TimeSignature
}

type held struct {
	start    int
	velocity uint8
}

// Import reads a Standard MIDI File into a pattern. Drum keys the kit does not
// map are skipped, as are notes that fall outside the bar span.
func Import(r io.Reader, opts ImportOptions) (grid.Pattern, error) {
	rd, err := smf.ReadFrom(r)
	if err != nil {
		return grid.Pattern{}, fmt.Errorf("reading midi: %w", err)
	}
	res := grid.PPQ
	if mt, ok := rd.TimeFormat.(smf.MetricTicks); ok && mt.Resolution() > 0 {
		res = int(mt.Resolution())
	}
	lanes := map[uint8]grid.Lane{}
	kit := grid.GetKit(opts.Kit)
	for l := grid.NumLanes - 1; l >= 0; l-- {
		lanes[kit.Notes[l]] = grid.Lane(l)
	}

	var notes []grid.Note
	end := 0
	for _, tr := range rd.Tracks {
		abs := 0
		open := map[[2]uint8]held{}
		for _, ev := range tr {
			abs += int(ev.Delta)
			tick := abs * grid.PPQ / res
			msg := gomidi.Message(ev.Message)

			var ch, key, vel uint8
			switch {
			case msg.GetNoteStart(&ch, &key, &vel):
				open[[2]uint8{ch, key}] = held{start: tick, velocity: vel}
			case msg.GetNoteEnd(&ch, &key):
				h, ok := open[[2]uint8{ch, key}]
				if !ok {
					continue
				}
				delete(open, [2]uint8{ch, key})
				n := grid.Note{Pitch: int(key), Start: h.start, Length: tick - h.start, Velocity: int(h.velocity), Channel: int(ch) + 1}
				if opts.Kind == grid.KindDrum {
					lane, ok := lanes[key]
					if !ok {
						continue
					}
					n.Pitch = int(lane)
				}
				notes = append(notes, n)
				end = max(end, n.Start+1)
			}
		}
	}

	meter := opts.Meter.OrDefault()
	barTicks := meter.StepsPerBar() * grid.TicksPerStep
	bars := opts.Bars
	if bars <= 0 {
		bars = (end + barTicks - 1) / barTicks
	}
	p := grid.NewPattern(opts.Kind, bars, meter.StepsPerBar())
	for _, n := range notes {
		p.Add(n)
	}
	p.Sort()
	return p, nil
}

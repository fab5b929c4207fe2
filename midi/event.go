package midi

import (
	"sort"

	"go-boom/grid"
)

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
)

// Event is a note message at an absolute tick of the pattern clock
type Event struct {
	Tick     int
	Type     uint8 // NoteOn, NoteOff
	Channel  uint8 // wire channel, 0-15
	Note     uint8
	Velocity uint8
}

// Events flattens a pattern into note on/off pairs ordered by tick. At equal
// ticks offs come first so a retriggered note is never cut by its own release.
// Drum lanes are mapped to pitches through kit.
func Events(p grid.Pattern, kit grid.DrumKit) []Event {
	events := make([]Event, 0, 2*len(p.Notes))
	for _, n := range p.Notes {
		key := n.Pitch
		ch := n.Channel
		if p.Kind == grid.KindDrum {
			key = int(kit.Notes[grid.Clamp(n.Pitch, 0, grid.NumLanes-1)])
			ch = grid.DrumChannel
		}
		ch = grid.Clamp(ch, 1, 16) - 1
		key = grid.Clamp(key, 0, 127)
		length := max(n.Length, grid.MinLengthTicks)

		events = append(events,
			Event{Tick: n.Start, Type: NoteOn, Channel: uint8(ch), Note: uint8(key), Velocity: uint8(grid.ClampVelocity(n.Velocity))},
			Event{Tick: n.Start + length, Type: NoteOff, Channel: uint8(ch), Note: uint8(key)},
		)
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Tick != events[j].Tick {
			return events[i].Tick < events[j].Tick
		}
		return events[i].Type == NoteOff && events[j].Type == NoteOn
	})
	return events
}

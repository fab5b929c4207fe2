package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-boom/grid"
	"go-boom/theme"
)

const (
	ghostVelocity  = 70
	accentVelocity = 110
)

// cells returns the loudest velocity starting in each step, 0 for none
func cells(p grid.Pattern, pitch int) []int {
	out := make([]int, p.TotalSteps())
	for _, n := range p.Notes {
		if n.Pitch != pitch {
			continue
		}
		if s := grid.TickStep(n.Start); s >= 0 && s < len(out) {
			out[s] = max(out[s], n.Velocity)
		}
	}
	return out
}

func stepRune(th *theme.Theme, vel int, beat bool) rune {
	switch {
	case vel == 0 && beat:
		return th.Symbols.StepBeat
	case vel == 0:
		return th.Symbols.StepEmpty
	case vel < ghostVelocity:
		return th.Symbols.StepGhost
	case vel >= accentVelocity:
		return th.Symbols.StepAccent
	}
	return th.Symbols.StepActive
}

// RenderDrumGrid draws one row per lane that has hits, plus the generated
// lanes, with bar separators. cursor marks a lane (-1 for none).
func RenderDrumGrid(p grid.Pattern, th *theme.Theme, cursor int) string {
	used := map[int]bool{}
	for l := 0; l < grid.GeneratedLanes; l++ {
		used[l] = true
	}
	for _, n := range p.Notes {
		used[n.Pitch] = true
	}

	dim := lipgloss.NewStyle().Foreground(th.Muted())
	label := lipgloss.NewStyle().Foreground(th.FG())
	var lines []string
	for l := 0; l < grid.NumLanes; l++ {
		if !used[l] {
			continue
		}
		var line strings.Builder
		marker := " "
		if l == cursor {
			marker = string(th.Symbols.Cursor)
		}
		line.WriteString(label.Render(fmt.Sprintf("%s%-9s ", marker, grid.Lane(l))))
		for s, vel := range cells(p, l) {
			if s > 0 && s%p.StepsPerBar == 0 {
				line.WriteString(dim.Render("|"))
			}
			r := string(stepRune(th, vel, s%4 == 0))
			if vel == 0 {
				line.WriteString(dim.Render(r))
			} else {
				line.WriteString(lipgloss.NewStyle().Foreground(th.Velocity(vel)).Render(r))
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// RenderPianoRoll draws the pitch range of a melodic pattern, highest on top.
// Sustained steps use the hold symbol.
func RenderPianoRoll(p grid.Pattern, th *theme.Theme) string {
	pitches := p.Pitches()
	if len(pitches) == 0 {
		return lipgloss.NewStyle().Foreground(th.Muted()).Render("  (empty)")
	}
	lo, hi := pitches[0], pitches[len(pitches)-1]

	dim := lipgloss.NewStyle().Foreground(th.Muted())
	label := lipgloss.NewStyle().Foreground(th.FG())
	var lines []string
	for pitch := hi; pitch >= lo; pitch-- {
		row := make([]int, p.TotalSteps())
		hold := make([]bool, p.TotalSteps())
		for _, n := range p.Notes {
			if n.Pitch != pitch {
				continue
			}
			first := grid.TickStep(n.Start)
			if first >= len(row) {
				continue
			}
			row[first] = max(row[first], n.Velocity)
			for s := first + 1; s < len(row) && grid.StepTick(s) < n.End(); s++ {
				hold[s] = true
			}
		}

		var line strings.Builder
		line.WriteString(label.Render(fmt.Sprintf(" %-4s ", NoteName(pitch))))
		for s, vel := range row {
			if s > 0 && s%p.StepsPerBar == 0 {
				line.WriteString(dim.Render("|"))
			}
			switch {
			case vel > 0:
				line.WriteString(lipgloss.NewStyle().Foreground(th.Velocity(vel)).Render(string(stepRune(th, vel, false))))
			case hold[s]:
				line.WriteString(lipgloss.NewStyle().Foreground(th.Accent()).Render(string(th.Symbols.NoteHold)))
			default:
				line.WriteString(dim.Render(string(stepRune(th, 0, s%4 == 0))))
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName formats a MIDI note as name and octave, C4 = 60
func NoteName(pitch int) string {
	return fmt.Sprintf("%s%d", noteNames[((pitch%12)+12)%12], pitch/12-1)
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

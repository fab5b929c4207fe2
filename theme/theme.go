package theme

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	StepEmpty  rune // · no hit
	StepBeat   rune // : empty step on a beat
	StepGhost  rune // ○ quiet hit
	StepActive rune // ● hit
	StepAccent rune // ◉ loud hit
	NoteHold   rune // ─ melodic note sustain
	Cursor     rune // ▸ selected row
}

func New(palette *Palette) *Theme {
	if palette == nil {
		palette = Plasma()
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			StepEmpty:  '·',
			StepBeat:   ':',
			StepGhost:  '○',
			StepActive: '●',
			StepAccent: '◉',
			NoteHold:   '─',
			Cursor:     '▸',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0
	RoleMuted   = 0.2
	RoleFG      = 0.4
	RoleAccent  = 0.5
	RoleActive  = 0.7
	RoleWarning = 0.8
	RoleSuccess = 1.0
)

func (t *Theme) BG() lipgloss.Color {
	return t.Color(RoleBG)
}

func (t *Theme) FG() lipgloss.Color {
	return t.Color(RoleFG)
}

func (t *Theme) Accent() lipgloss.Color {
	return t.Color(RoleAccent)
}

func (t *Theme) Muted() lipgloss.Color {
	return t.Color(RoleMuted)
}

func (t *Theme) Active() lipgloss.Color {
	return t.Color(RoleActive)
}

func (t *Theme) Warning() lipgloss.Color {
	return t.Color(RoleWarning)
}

func (t *Theme) Success() lipgloss.Color {
	return t.Color(RoleSuccess)
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return lipgloss.Color(t.Palette.Lookup(norm).Hex())
}

// Velocity maps a MIDI velocity onto the upper half of the palette
func (t *Theme) Velocity(v int) lipgloss.Color {
	return t.Color(0.4 + 0.6*float64(v)/127)
}

// VelocityRGB is Velocity for raster output
func (t *Theme) VelocityRGB(v int) RGB {
	return t.Palette.Lookup(0.4 + 0.6*float64(v)/127)
}

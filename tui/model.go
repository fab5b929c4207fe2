package tui

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-boom/capture"
	"go-boom/config"
	"go-boom/grid"
	"go-boom/render"
	"go-boom/scale"
	"go-boom/sequencer"
	"go-boom/style"
	"go-boom/theme"
	"go-boom/widgets"
)

type Model struct {
	Manager  *sequencer.Manager
	Config   *config.Config
	Theme    *theme.Theme
	status   string
	cursor   int
	showHelp bool
	quitting bool
}

type UpdateMsg struct{}

func NewModel(manager *sequencer.Manager, cfg *config.Config, th *theme.Theme) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return Model{
		Manager: manager,
		Config:  cfg,
		Theme:   th,
	}
}

func ListenForUpdates(manager *sequencer.Manager) tea.Cmd {
	return func() tea.Msg {
		<-manager.UpdateChan
		return UpdateMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForUpdates(m.Manager)
}

// cycle returns the entry after (or before, for step -1) cur in list
func cycle(list []string, cur string, step int) string {
	i := slices.IndexFunc(list, func(s string) bool { return strings.EqualFold(s, cur) })
	if i < 0 {
		return list[0]
	}
	return list[((i+step)%len(list)+len(list))%len(list)]
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case UpdateMsg:
		return m, ListenForUpdates(m.Manager)
	}
	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	mgr := m.Manager
	st := mgr.State()
	m.status = ""

	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.showHelp = !m.showHelp

	case "tab":
		engines := make([]string, len(sequencer.Engines))
		for i, e := range sequencer.Engines {
			engines[i] = string(e)
		}
		mgr.SetEngine(sequencer.ParseEngine(cycle(engines, string(st.Engine), 1)))

	case "g", " ":
		mgr.Generate()
		m.status = fmt.Sprintf("seed %d", mgr.State().LastSeed)

	case "f":
		mgr.Flip()

	case "e":
		mgr.Expand()

	case "b":
		mgr.BumpRows()

	case "u":
		mgr.Humanize(4, 10)

	case "backspace":
		mgr.Clear()

	case "[", "]":
		step := 1
		if key == "[" {
			step = -1
		}
		mgr.Update(func(s *sequencer.State) {
			if s.Engine.Melodic() {
				s.BassStyle = cycle(style.BassNames(), s.BassStyle, step)
			} else {
				s.DrumStyle = cycle(style.Names(), s.DrumStyle, step)
			}
		})

	case "k", "K":
		step := 1
		if key == "K" {
			step = -1
		}
		mgr.Update(func(s *sequencer.State) { s.Key = cycle(scale.Keys[:], s.Key, step) })

	case "s", "S":
		step := 1
		if key == "S" {
			step = -1
		}
		mgr.Update(func(s *sequencer.State) { s.Scale = cycle(scale.Names(), s.Scale, step) })

	case "m", "M":
		step := 1
		if key == "M" {
			step = -1
		}
		mgr.Update(func(s *sequencer.State) {
			s.TimeSignature = cycle(grid.TimeSignatures, s.TimeSignature, step)
		})

	case "+", "=":
		mgr.Update(func(s *sequencer.State) { s.Bars++ })

	case "-", "_":
		mgr.Update(func(s *sequencer.State) { s.Bars-- })

	case "o", "O":
		delta := 1
		if key == "O" {
			delta = -1
		}
		mgr.Update(func(s *sequencer.State) { s.Octave = grid.Clamp(s.Octave+delta, -2, 2) })

	case "l":
		mgr.Update(func(s *sequencer.State) { s.FollowKicks = !s.FollowKicks })

	case "c":
		rec := mgr.Recorder()
		if rec.IsCapturing() {
			mgr.StopCapture()
			m.status = fmt.Sprintf("captured %.1fs", rec.LengthSeconds())
		} else {
			mgr.StartCapture(capture.ParseSource(m.Config.Capture.Source))
			m.status = "capturing"
		}

	case "t":
		p := mgr.Transcribe()
		m.status = fmt.Sprintf("transcribed %d hits", p.Len())

	case "x":
		m.status = m.export()

	case "p":
		m.status = m.snapshot()

	case "w":
		if name, err := mgr.SaveProject(st.ProjectName); err != nil {
			m.status = "save failed: " + err.Error()
		} else {
			m.status = "saved " + name
		}

	case "j", "down":
		m.cursor = min(m.cursor+1, grid.NumLanes-1)

	case "up":
		m.cursor = max(m.cursor-1, 0)
	}
	return m, nil
}

func (m Model) export() string {
	dir, err := m.Config.ExportDir()
	if err != nil {
		return "export failed: " + err.Error()
	}
	path, err := m.Manager.ExportFile(dir)
	if err != nil {
		return "export failed: " + err.Error()
	}
	return "exported " + path
}

func (m Model) snapshot() string {
	dir, err := m.Config.ExportDir()
	if err != nil {
		return "snapshot failed: " + err.Error()
	}
	st := m.Manager.State()
	path := filepath.Join(dir, strings.TrimSuffix(st.ExportName(), ".mid")+".png")
	if err := render.SavePNG(path, st.Active(), render.Options{Theme: m.Theme}); err != nil {
		return "snapshot failed: " + err.Error()
	}
	return "snapshot " + path
}

func (m Model) header(st sequencer.State) string {
	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	var parts []string
	for _, e := range sequencer.Engines {
		name := string(e)
		if e == st.Engine {
			name = "[" + name + "]"
		}
		parts = append(parts, name)
	}
	line := "go-boom  " + strings.Join(parts, " ")
	if m.Manager.Recorder().IsCapturing() {
		line += lipgloss.NewStyle().Foreground(m.Theme.Warning()).Render("  ● REC")
	}
	return headerStyle.Render(line)
}

func (m Model) settings(st sequencer.State) string {
	dim := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	fg := lipgloss.NewStyle().Foreground(m.Theme.FG())
	field := func(k, v string) string {
		return dim.Render(k+":") + fg.Render(v)
	}
	var fields []string
	if st.Engine.Melodic() {
		follow := "off"
		if st.FollowKicks {
			follow = "on"
		}
		fields = []string{
			field("style", st.BassStyle),
			field("key", st.Key),
			field("scale", scale.Get(st.Scale).Name),
			field("oct", fmt.Sprintf("%+d", st.Octave)),
			field("kicks", follow),
		}
	} else {
		fields = []string{field("style", style.Get(st.DrumStyle).Name)}
	}
	fields = append(fields,
		field("bars", fmt.Sprint(st.Bars)),
		field("meter", st.Meter().String()),
		field("seed", fmt.Sprint(st.LastSeed)),
	)
	return strings.Join(fields, "  ")
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.Manager.State()
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	var body string
	if st.Engine.Melodic() {
		body = widgets.RenderPianoRoll(st.Melodic, m.Theme)
	} else {
		body = widgets.RenderDrumGrid(st.Drums, m.Theme, m.cursor)
	}

	help := dimStyle.Render("tab:engine  g:generate  f:flip  e:expand  b:bump  c:capture  t:transcribe  x:export  ?:help  q:quit")
	if m.showHelp {
		help = widgets.RenderKeyHelp([]widgets.KeySection{
			{Title: "Generate", Keys: []widgets.KeyBinding{
				{Key: "g / space", Desc: "generate with the active engine"},
				{Key: "f", Desc: "flip (vary) the pattern"},
				{Key: "u", Desc: "humanize timing and velocity"},
				{Key: "e", Desc: "expand drum hits into a groove"},
				{Key: "b", Desc: "bump drum rows"},
				{Key: "backspace", Desc: "clear"},
			}},
			{Title: "Settings", Keys: []widgets.KeyBinding{
				{Key: "[ / ]", Desc: "style"},
				{Key: "k / K", Desc: "key"},
				{Key: "s / S", Desc: "scale"},
				{Key: "o / O", Desc: "octave"},
				{Key: "m / M", Desc: "time signature"},
				{Key: "+ / -", Desc: "bars"},
				{Key: "l", Desc: "follow kicks"},
			}},
			{Title: "Audio and files", Keys: []widgets.KeyBinding{
				{Key: "c", Desc: "start/stop capture"},
				{Key: "t", Desc: "transcribe capture to drums"},
				{Key: "x", Desc: "export MIDI"},
				{Key: "p", Desc: "save PNG snapshot"},
				{Key: "w", Desc: "save project"},
			}},
		})
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(m.header(st))
	out.WriteString("\n")
	out.WriteString(m.settings(st))
	out.WriteString("\n\n")
	out.WriteString(body)
	out.WriteString("\n\n")
	if m.status != "" {
		out.WriteString(lipgloss.NewStyle().Foreground(m.Theme.Success()).Render(m.status))
		out.WriteString("\n")
	}
	out.WriteString(help)
	return out.String()
}

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"go-boom/config"
	"go-boom/debug"
	"go-boom/sequencer"
	"go-boom/theme"
	"go-boom/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.Debug {
		if err := debug.Enable(); err != nil {
			fmt.Printf("debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	palette, err := theme.Load(cfg.UI.Palette)
	if err != nil {
		fmt.Printf("palette %s: %v, using default\n", cfg.UI.Palette, err)
		palette = theme.Plasma()
	}
	th := theme.New(palette)

	// Reopen on the engine used last
	if cfg.UI.LastEngine != "" {
		cfg.Generation.Engine = cfg.UI.LastEngine
	}
	manager := sequencer.NewManager(cfg)

	m := tui.NewModel(manager, cfg, th)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	cfg.UI.LastEngine = string(manager.State().Engine)
	if err := cfg.Save(); err != nil {
		fmt.Printf("saving config: %v\n", err)
	}
}

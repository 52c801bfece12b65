// Package tui runs match-3 games in a terminal through Bubble Tea. It maps
// keys and mouse events to input frames, paints the game screen and hosts the
// menu, the trace journal browser and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg drives one simulation step.
type TickMsg time.Time

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

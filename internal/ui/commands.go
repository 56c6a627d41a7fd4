package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// statusTTL is how long a status message stays before the help bar returns.
const (
	statusTTL      = 5 * time.Second
	statusErrorTTL = 8 * time.Second
)

// holdCmd fires holdEndMsg after d.
func holdCmd(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return holdEndMsg{seq: seq}
	})
}

// clearStatusCmd fires statusClearMsg after d.
func clearStatusCmd(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return statusClearMsg{seq: seq}
	})
}

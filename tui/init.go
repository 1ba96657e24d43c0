// Package tui provides the primary terminal user interface implementation.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Init sets the terminal title, starts the engine and begins listening for its events.
func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle(b.options.Title),
		b.spinnerC.Tick,
		b.startSession(),
		b.waitForEvent(),
	)
}

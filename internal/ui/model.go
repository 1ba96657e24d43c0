// Package ui provides state management and rendering for ephemeral terminal notifications.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/reel-player/reel/color"
	"github.com/reel-player/reel/style"
)

// Lifetime is how long a transient notification stays visible.
const Lifetime = 3 * time.Second

// Model holds the notification currently shown under the control strip.
type Model struct {
	notification string
	sticky       bool
	seq          int
}

// NotificationMsg asks the model to display Text. Sticky notifications stay until replaced.
type NotificationMsg struct {
	Text   string
	Sticky bool
}

// ClearNotificationMsg clears the notification with the matching sequence number.
type ClearNotificationMsg struct{ seq int }

// Notify returns a tea.Cmd that shows a transient notification.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return NotificationMsg{Text: text}
	}
}

// NotifyHalted returns a tea.Cmd that reports an engine failure until the user quits.
func NotifyHalted(reason string) tea.Cmd {
	return func() tea.Msg {
		return NotificationMsg{Text: "Playback halted: " + reason, Sticky: true}
	}
}

func clearAfter(seq int) tea.Cmd {
	return tea.Tick(Lifetime, func(time.Time) tea.Msg {
		return ClearNotificationMsg{seq: seq}
	})
}

// Update processes incoming messages to modify the notification state.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotificationMsg:
		m.seq++
		m.notification = msg.Text
		m.sticky = msg.Sticky
		if m.sticky {
			return nil
		}
		return clearAfter(m.seq)
	case ClearNotificationMsg:
		// a newer notification replaced the one this tick was scheduled for
		if msg.seq != m.seq || m.sticky {
			return nil
		}
		m.notification = ""
	}
	return nil
}

// Text returns the visible notification, if any.
func (m *Model) Text() string {
	return m.notification
}

// View appends the current notification to the last line of mainContent.
func (m *Model) View(mainContent string) string {
	if m.notification == "" {
		return mainContent
	}

	render := style.Fg(color.Gray)
	if m.sticky {
		render = style.Fg(color.HiRed)
	}

	lines := strings.Split(mainContent, "\n")
	lines[len(lines)-1] = lines[len(lines)-1] + "  " + render(m.notification)
	return strings.Join(lines, "\n")
}

// Package color provides the palette used by the player interface.
package color

import "github.com/charmbracelet/lipgloss"

// New initializes a lipgloss.Color from a string value.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// Standard ANSI palette.
var (
	Red    = New("1")
	Green  = New("2")
	Yellow = New("3")
	Blue   = New("4")
	Purple = New("5")
	Cyan   = New("6")
	White  = New("7")
	Black  = New("8")
)

var (
	HiRed    = New("9")
	HiPurple = New("13")
	HiCyan   = New("14")
)

// Semantic colors for the control strip.
var (
	Accent   = New("#ffb703")
	Gray     = New("#808080")
	Track    = New("#3c3c3c")
	Disabled = New("#5c5c5c")
)

// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/reel-player/reel/color"
	"github.com/reel-player/reel/icon"
	"github.com/reel-player/reel/player"
	"github.com/reel-player/reel/style"
	"github.com/reel-player/reel/util"
	"github.com/samber/lo"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case playState:
		output = b.viewPlay()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) title() string {
	return style.Title(style.Truncate(lo.Max([]int{b.width - 2, 1}))(b.options.Title))
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			b.title(),
			"",
			b.spinnerC.View() + " " + style.Truncate(b.width)("Opening "+style.Fg(color.Purple)(b.options.URI)),
		},
	)
}

func (b *statefulBubble) button() string {
	status := b.controller.Status()
	disabled := status == player.StatusUnknown || status == player.StatusHalted
	return style.Button(b.controller.Button().String(), disabled)
}

func (b *statefulBubble) statusLine() string {
	status := b.controller.Status()

	text := icon.Get(icon.Media) + " " + util.Capitalize(status.String()) + " in the mpv window"
	if status == player.StatusHalted {
		text = icon.Get(icon.Fail) + " " + util.Capitalize(status.String())
	}
	if b.controller.Session().Repeat {
		text += " " + icon.Get(icon.Repeat)
	}
	if b.controller.Session().AtEndOfMedia {
		text += style.Faint(" (end)")
	}

	return style.Truncate(b.width)(text)
}

func (b *statefulBubble) viewPlay() string {
	sync := b.controller.Sync()

	seekBar := b.seekC.ViewAs(sync.Seek.Value / 100)
	if sync.Seek.Disabled {
		seekBar = b.seekDisabledC.ViewAs(0)
	}

	lines := []string{
		b.title(),
		"",
		b.statusLine(),
		"",
		b.button(),
		"",
		fmt.Sprintf("%s%s %s", b.volumePrefix(), b.volumeC.ViewAs(sync.Volume.Value/100), sync.VolumeLabel),
		"",
		fmt.Sprintf("%s %s", seekBar, sync.TimeLabel),
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}

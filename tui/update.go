// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"errors"
	"fmt"
	"time"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/reel-player/reel/internal/ui"
	"github.com/reel-player/reel/key"
	"github.com/reel-player/reel/log"
	"github.com/reel-player/reel/open"
	"github.com/reel-player/reel/player"
	"github.com/spf13/viper"
)

// errMediaFailed is reported when the engine halts before the media became ready.
var errMediaFailed = errors.New("media failed to load")

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmd = uiCmd
	}

	switch msg := msg.(type) {
	case error:
		b.lastError = msg
		return b, tea.Quit
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case engineGoneMsg:
		return b, tea.Quit
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.forceQuit), bubblesKey.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		case bubblesKey.Matches(msg, b.keymap.showHelp):
			b.helpC.ShowAll = !b.helpC.ShowAll
			return b, cmd
		}
	}

	switch b.state {
	case loadingState:
		return b.updateLoading(msg, cmd)
	case playState:
		return b.updatePlay(msg, cmd)
	}

	return b, cmd
}

func (b *statefulBubble) updateLoading(msg tea.Msg, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var tick tea.Cmd
		b.spinnerC, tick = b.spinnerC.Update(msg)
		return b, tea.Batch(cmd, tick)
	case engineEventMsg:
		b.controller.Handle(msg.event)

		switch ev := msg.event.(type) {
		case player.Ready:
			log.Infof("media ready: %s", b.options.URI)
			b.setState(playState)
		case player.StatusChanged:
			if ev.Status == player.StatusHalted {
				b.lastError = fmt.Errorf("%w: %s", errMediaFailed, ev.Reason)
				return b, tea.Quit
			}
		case player.Closed:
			return b, tea.Quit
		}
		return b, tea.Batch(cmd, b.waitForEvent())
	}

	return b, cmd
}

func (b *statefulBubble) updatePlay(msg tea.Msg, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case engineEventMsg:
		b.controller.Handle(msg.event)

		switch ev := msg.event.(type) {
		case player.StatusChanged:
			if ev.Status == player.StatusHalted {
				cmd = tea.Batch(cmd, ui.NotifyHalted(ev.Reason))
			}
		case player.Closed:
			return b, tea.Quit
		}
		return b, tea.Batch(cmd, b.waitForEvent())
	case dragReleaseMsg:
		if msg.slider == b.mouseDrag {
			return b, cmd
		}
		if (msg.slider == seekSlider && msg.generation == b.seekNudges) ||
			(msg.slider == volumeSlider && msg.generation == b.volumeNudges) {
			b.release(msg.slider)
		}
		return b, cmd
	case tea.MouseMsg:
		b.handleMouse(msg)
		return b, cmd
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.playPause):
			b.controller.TogglePlayPause()
		case bubblesKey.Matches(msg, b.keymap.seekBackward):
			return b, tea.Batch(cmd, b.nudgeSeek(-b.seekStep()))
		case bubblesKey.Matches(msg, b.keymap.seekForward):
			return b, tea.Batch(cmd, b.nudgeSeek(b.seekStep()))
		case bubblesKey.Matches(msg, b.keymap.volumeUp):
			return b, tea.Batch(cmd, b.nudgeVolume(viper.GetFloat64(key.TUIVolumeStep)))
		case bubblesKey.Matches(msg, b.keymap.volumeDown):
			return b, tea.Batch(cmd, b.nudgeVolume(-viper.GetFloat64(key.TUIVolumeStep)))
		case bubblesKey.Matches(msg, b.keymap.openFolder):
			return b, tea.Batch(cmd, b.openFolder())
		}
	}

	return b, cmd
}

func (b *statefulBubble) seekStep() time.Duration {
	return time.Duration(viper.GetInt(key.TUISeekStep)) * time.Second
}

// handleMouse turns left-button presses, motion and releases on the bars into slider drags.
func (b *statefulBubble) handleMouse(msg tea.MouseMsg) {
	l := b.layout()
	sync := b.controller.Sync()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		switch {
		case l.button.contains(msg.X, msg.Y):
			b.controller.TogglePlayPause()
		case l.seek.contains(msg.X, msg.Y):
			sync.BeginSeekDrag()
			if sync.Seek.Dragging() {
				b.mouseDrag = seekSlider
				sync.DragSeek(l.seek.value(msg.X))
			}
		case l.volume.contains(msg.X, msg.Y):
			b.mouseDrag = volumeSlider
			sync.BeginVolumeDrag()
			sync.DragVolume(l.volume.value(msg.X))
		}
	case tea.MouseActionMotion:
		switch b.mouseDrag {
		case seekSlider:
			sync.DragSeek(l.seek.value(msg.X))
		case volumeSlider:
			sync.DragVolume(l.volume.value(msg.X))
		}
	case tea.MouseActionRelease:
		if b.mouseDrag != noSlider {
			b.release(b.mouseDrag)
			b.mouseDrag = noSlider
		}
	}
}

func (b *statefulBubble) openFolder() tea.Cmd {
	if open.IsURL(b.options.URI) {
		return ui.Notify("Streams have no folder")
	}
	if err := open.Folder(b.options.URI); err != nil {
		log.Warnf("open folder: %v", err)
		return ui.Notify("Could not open folder: " + err.Error())
	}
	return ui.Notify("Opened containing folder")
}

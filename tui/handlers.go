// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/reel-player/reel/key"
	"github.com/reel-player/reel/log"
	"github.com/reel-player/reel/player"
	"github.com/spf13/viper"
)

type (
	sessionStartedMsg struct{}

	engineEventMsg struct {
		event player.Event
	}

	// engineGoneMsg means the events channel was closed.
	engineGoneMsg struct{}

	dragReleaseMsg struct {
		slider     slider
		generation int
	}
)

// startSession configures the engine and loads the media off the UI loop.
func (b *statefulBubble) startSession() tea.Cmd {
	controller, uri := b.controller, b.options.URI
	return func() tea.Msg {
		if err := controller.Start(uri); err != nil {
			log.Errorf("start session: %v", err)
			return err
		}
		return sessionStartedMsg{}
	}
}

// waitForEvent delivers the next engine event to the UI loop.
func (b *statefulBubble) waitForEvent() tea.Cmd {
	events := b.options.Engine.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return engineGoneMsg{}
		}
		return engineEventMsg{event: ev}
	}
}

// releaseAfterIdle ends a keyboard drag once no further nudge arrived for the configured delay.
func releaseAfterIdle(s slider, generation int) tea.Cmd {
	delay := time.Duration(viper.GetInt(key.TUIDragRelease)) * time.Millisecond
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return dragReleaseMsg{slider: s, generation: generation}
	})
}

// nudgeSeek moves the seek slider by delta as a short drag.
func (b *statefulBubble) nudgeSeek(delta time.Duration) tea.Cmd {
	sync, session := b.controller.Sync(), b.controller.Session()
	if sync.Seek.Disabled || !session.DurationKnown() {
		return nil
	}

	if b.mouseDrag != seekSlider {
		sync.BeginSeekDrag()
	}
	step := float64(delta) / float64(session.Duration) * 100
	sync.DragSeek(sync.Seek.Value + step)

	b.seekNudges++
	return releaseAfterIdle(seekSlider, b.seekNudges)
}

// nudgeVolume moves the volume slider by delta percent as a short drag.
func (b *statefulBubble) nudgeVolume(delta float64) tea.Cmd {
	sync := b.controller.Sync()

	if b.mouseDrag != volumeSlider {
		sync.BeginVolumeDrag()
	}
	sync.DragVolume(sync.Volume.Value + delta)

	b.volumeNudges++
	return releaseAfterIdle(volumeSlider, b.volumeNudges)
}

func (b *statefulBubble) release(s slider) {
	sync := b.controller.Sync()
	switch s {
	case seekSlider:
		sync.EndSeekDrag()
	case volumeSlider:
		sync.EndVolumeDrag()
	}
}

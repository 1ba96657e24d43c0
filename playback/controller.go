package playback

import (
	"fmt"

	"github.com/reel-player/reel/icon"
	"github.com/reel-player/reel/log"
	"github.com/reel-player/reel/player"
	"github.com/sirupsen/logrus"
)

// Glyph is the symbol shown on the play/pause button.
type Glyph int

const (
	GlyphPlay Glyph = iota
	GlyphPause
)

// String renders the glyph with the configured icon variant.
func (g Glyph) String() string {
	if g == GlyphPause {
		return icon.Get(icon.Pause)
	}
	return icon.Get(icon.Play)
}

// Controller owns the play/pause decisions for one session.
type Controller struct {
	engine   player.Engine
	session  *Session
	sync     *Sync
	button   Glyph
	autoplay bool
}

// NewController binds a session to an engine.
func NewController(engine player.Engine, session *Session, autoplay bool) *Controller {
	return &Controller{
		engine:   engine,
		session:  session,
		sync:     NewSync(engine, session),
		button:   GlyphPlay,
		autoplay: autoplay,
	}
}

// Start configures the engine for the session and loads uri.
func (c *Controller) Start(uri string) error {
	cycles := 1
	if c.session.Repeat {
		cycles = player.Infinite
	}

	if err := c.engine.SetCycleCount(cycles); err != nil {
		return fmt.Errorf("set cycle count: %w", err)
	}
	if err := c.engine.SetAutoPlay(c.autoplay); err != nil {
		return fmt.Errorf("set autoplay: %w", err)
	}
	if err := c.engine.SetVolume(c.session.Volume); err != nil {
		return fmt.Errorf("set volume: %w", err)
	}

	log.WithFields(logrus.Fields{
		"uri":      uri,
		"repeat":   c.session.Repeat,
		"autoplay": c.autoplay,
		"volume":   c.session.Volume,
	}).Info("starting session")

	if err := c.engine.SetSource(uri); err != nil {
		return fmt.Errorf("load %s: %w", uri, err)
	}
	return nil
}

// TogglePlayPause reacts to the play/pause button.
// It does nothing until the media is loaded or after the engine halted.
func (c *Controller) TogglePlayPause() {
	status := c.engine.Status()

	switch status {
	case player.StatusUnknown, player.StatusHalted:
		return
	case player.StatusPaused, player.StatusReady, player.StatusStopped:
		if c.session.AtEndOfMedia {
			if err := c.engine.Seek(0); err != nil {
				log.Warnf("rewind: %v", err)
			}
			c.session.SetPosition(0)
			c.session.AtEndOfMedia = false
		}
		c.button = GlyphPlay
		if err := c.engine.Play(); err != nil {
			log.Warnf("play: %v", err)
		}
	default:
		c.button = GlyphPause
		if err := c.engine.Pause(); err != nil {
			log.Warnf("pause: %v", err)
		}
	}
}

// OnEndOfMedia records that playback reached the end. A repeating session never gets here.
func (c *Controller) OnEndOfMedia() {
	if c.session.Repeat {
		return
	}
	c.button = GlyphPlay
	c.session.AtEndOfMedia = true
}

// Handle applies an engine event to the session and sliders.
func (c *Controller) Handle(ev player.Event) {
	switch ev := ev.(type) {
	case player.Ready:
		duration := ev.Duration
		if duration <= 0 {
			duration = c.engine.Duration()
		}
		c.session.SetDuration(duration)
		c.sync.Refresh(c.engine.CurrentTime())
	case player.TimeChanged:
		c.session.SetDuration(ev.Duration)
		c.sync.Refresh(ev.Position)
	case player.EndOfMedia:
		c.OnEndOfMedia()
	case player.StatusChanged:
		log.Infof("engine status: %s", ev.Status)
	}
}

// Button returns the glyph currently shown on the play/pause button.
func (c *Controller) Button() Glyph {
	return c.button
}

// Status returns the engine status.
func (c *Controller) Status() player.Status {
	return c.engine.Status()
}

// Sync returns the slider state.
func (c *Controller) Sync() *Sync {
	return c.sync
}

// Session returns the session being played.
func (c *Controller) Session() *Session {
	return c.session
}

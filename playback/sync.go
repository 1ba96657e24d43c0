package playback

import (
	"fmt"
	"math"
	"time"

	"github.com/reel-player/reel/log"
	"github.com/reel-player/reel/player"
	"github.com/samber/lo"
)

// Interaction tells whether the user is currently holding a slider.
type Interaction int

const (
	Idle Interaction = iota
	UserDragging
)

// Slider is the model of a 0-100 slider widget.
type Slider struct {
	Value    float64
	Mode     Interaction
	Disabled bool
}

// Dragging reports whether the user holds the slider.
func (s Slider) Dragging() bool {
	return s.Mode == UserDragging
}

// Sync keeps the seek and volume sliders and the two labels in line with the engine,
// and turns user drags into engine commands. Programmatic updates never overwrite a slider
// the user is dragging.
type Sync struct {
	engine  player.Engine
	session *Session

	Seek   Slider
	Volume Slider

	TimeLabel   string
	VolumeLabel string
}

// NewSync returns a Sync showing the session's initial state.
func NewSync(engine player.Engine, session *Session) *Sync {
	s := &Sync{
		engine:  engine,
		session: session,
		Seek:    Slider{Disabled: true},
		Volume:  Slider{Value: session.Volume * 100},
	}
	s.updateLabels()
	return s
}

// Refresh applies a position update from the engine.
func (s *Sync) Refresh(position time.Duration) {
	s.session.SetPosition(position)

	s.Seek.Disabled = !s.session.DurationKnown()
	if !s.Seek.Disabled && !s.Seek.Dragging() {
		s.Seek.Value = percentOf(s.session.Position, s.session.Duration)
	}

	if !s.Volume.Dragging() {
		s.session.Volume = s.engine.Volume()
		s.Volume.Value = math.Round(s.session.Volume * 100)
	}

	s.updateLabels()
}

func (s *Sync) updateLabels() {
	s.TimeLabel = FormatTime(s.session.Position, s.session.Duration)
	s.VolumeLabel = fmt.Sprintf("%d%%", int(math.Round(s.Volume.Value)))
}

// BeginSeekDrag marks the seek slider as held. It has no effect while the slider is disabled.
func (s *Sync) BeginSeekDrag() {
	if s.Seek.Disabled {
		return
	}
	s.Seek.Mode = UserDragging
}

// DragSeek moves the held seek slider to value (0-100) and seeks the engine to the matching position.
func (s *Sync) DragSeek(value float64) {
	if !s.Seek.Dragging() || !s.session.DurationKnown() {
		return
	}

	s.Seek.Value = lo.Clamp(value, 0, 100)
	target := time.Duration(float64(s.session.Duration) * s.Seek.Value / 100)

	if err := s.engine.Seek(target); err != nil {
		log.Warnf("seek to %s: %v", target, err)
		return
	}
	s.session.SetPosition(target)
	s.session.AtEndOfMedia = false
	s.updateLabels()
}

// EndSeekDrag releases the seek slider.
func (s *Sync) EndSeekDrag() {
	s.Seek.Mode = Idle
}

// BeginVolumeDrag marks the volume slider as held.
func (s *Sync) BeginVolumeDrag() {
	s.Volume.Mode = UserDragging
}

// DragVolume moves the held volume slider to value (0-100) and applies it to the engine.
func (s *Sync) DragVolume(value float64) {
	if !s.Volume.Dragging() {
		return
	}

	s.Volume.Value = lo.Clamp(value, 0, 100)
	volume := s.Volume.Value / 100

	if err := s.engine.SetVolume(volume); err != nil {
		log.Warnf("set volume to %.2f: %v", volume, err)
	}
	s.session.Volume = volume
	s.updateLabels()
}

// EndVolumeDrag releases the volume slider.
func (s *Sync) EndVolumeDrag() {
	s.Volume.Mode = Idle
}

func percentOf(elapsed, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	return lo.Clamp(float64(elapsed)/float64(total)*100, 0, 100)
}

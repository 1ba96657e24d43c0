// Package playback holds the player core: the per-file session, the play/pause
// decisions, time formatting and slider synchronization.
//
// Everything in this package is meant to run on the UI loop. Engine events are
// handed to Controller.Handle one at a time; nothing here is safe for concurrent use.
package playback

import (
	"time"

	"github.com/samber/lo"
)

// UnknownDuration marks a session whose media has not reported its length yet.
const UnknownDuration time.Duration = -1

// Session is the state of one opened file.
type Session struct {
	Position time.Duration
	Duration time.Duration

	// Volume is in [0, 1].
	Volume float64

	// AtEndOfMedia is set by an end-of-media event and cleared by the next play or seek.
	AtEndOfMedia bool

	// Repeat loops the media forever.
	Repeat bool
}

// NewSession returns a session with an unknown duration.
func NewSession(repeat bool, volume float64) *Session {
	return &Session{
		Duration: UnknownDuration,
		Volume:   lo.Clamp(volume, 0, 1),
		Repeat:   repeat,
	}
}

// DurationKnown reports whether the media length is available.
func (s *Session) DurationKnown() bool {
	return s.Duration > 0
}

// SetDuration records a positive duration. Zero and negative values keep the duration unknown.
func (s *Session) SetDuration(d time.Duration) {
	if d > 0 {
		s.Duration = d
		s.SetPosition(s.Position)
	}
}

// SetPosition stores p clamped to [0, Duration], or to [0, ∞) while the duration is unknown.
func (s *Session) SetPosition(p time.Duration) {
	p = max(p, 0)
	if s.DurationKnown() {
		p = min(p, s.Duration)
	}
	s.Position = p
}

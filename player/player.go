// Package player defines the media engine contract used by the playback controller.
// The implementation drives 'mpv' through its JSON-IPC interface.
package player

import (
	"errors"
	"time"
)

// Status is the playback state reported by the engine.
type Status int

const (
	StatusUnknown Status = iota
	StatusReady
	StatusPlaying
	StatusPaused
	StatusStopped
	StatusHalted
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusStopped:
		return "stopped"
	case StatusHalted:
		return "halted"
	default:
		return "unknown"
	}
}

// Infinite is the cycle count that makes the engine loop the media forever.
const Infinite = -1

var (
	// ErrNotRunning is returned by commands issued before a source was set or after the engine exited.
	ErrNotRunning = errors.New("media engine is not running")

	// ErrClosed is returned by a launch that was aborted by Close.
	ErrClosed = errors.New("media engine was closed")
)

// Event is a notification emitted by the engine on its Events channel.
type Event interface {
	event()
}

// Ready is emitted once the media is loaded and its duration is known (zero for live streams).
type Ready struct {
	Duration time.Duration
}

// TimeChanged carries the current playback position.
type TimeChanged struct {
	Position time.Duration
	Duration time.Duration
}

// EndOfMedia is emitted when playback reaches the end and the engine will not loop.
type EndOfMedia struct{}

// StatusChanged is emitted whenever the derived Status changes.
// Reason is set when the engine halted on an error.
type StatusChanged struct {
	Status Status
	Reason string
}

// Closed is emitted when the engine process exited, e.g. because its window was closed.
type Closed struct{}

func (Ready) event()         {}
func (TimeChanged) event()   {}
func (EndOfMedia) event()    {}
func (StatusChanged) event() {}
func (Closed) event()        {}

// Engine encapsulates the capabilities the player core needs from a media backend.
type Engine interface {
	// SetSource loads the given file path or http(s) URL, starting the backend if necessary.
	SetSource(uri string) error

	Play() error
	Pause() error

	// Seek moves playback to an absolute position.
	Seek(position time.Duration) error

	// SetVolume sets the output volume in [0, 1].
	SetVolume(volume float64) error

	// SetCycleCount sets how many times the media plays. Infinite loops forever.
	SetCycleCount(n int) error

	// SetAutoPlay controls whether playback starts as soon as the media is ready.
	SetAutoPlay(autoplay bool) error

	Status() Status
	CurrentTime() time.Duration
	Duration() time.Duration
	Volume() float64

	// Events returns the channel engine notifications are delivered on.
	// The channel is closed after the backend exits.
	Events() <-chan Event

	// Close terminates the backend and releases its resources.
	Close() error
}

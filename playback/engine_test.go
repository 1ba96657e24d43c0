package playback

import (
	"fmt"
	"time"

	"github.com/reel-player/reel/player"
)

// recorder is an in-memory player.Engine that records every command it receives.
type recorder struct {
	status   player.Status
	position time.Duration
	duration time.Duration
	volume   float64
	cycles   int
	autoplay bool
	source   string
	calls    []string
	events   chan player.Event
	fail     error
}

func newRecorder(status player.Status) *recorder {
	return &recorder{status: status, volume: 1, events: make(chan player.Event)}
}

func (r *recorder) record(format string, args ...interface{}) error {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
	return r.fail
}

func (r *recorder) SetSource(uri string) error {
	r.source = uri
	return r.record("source %s", uri)
}

func (r *recorder) Play() error { return r.record("play") }
func (r *recorder) Pause() error { return r.record("pause") }

func (r *recorder) Seek(position time.Duration) error {
	return r.record("seek %s", position)
}

func (r *recorder) SetVolume(volume float64) error {
	r.volume = volume
	return r.record("volume %.2f", volume)
}

func (r *recorder) SetCycleCount(n int) error {
	r.cycles = n
	return r.record("cycles %d", n)
}

func (r *recorder) SetAutoPlay(autoplay bool) error {
	r.autoplay = autoplay
	return r.record("autoplay %t", autoplay)
}

func (r *recorder) Status() player.Status { return r.status }
func (r *recorder) CurrentTime() time.Duration { return r.position }
func (r *recorder) Duration() time.Duration { return r.duration }
func (r *recorder) Volume() float64 { return r.volume }
func (r *recorder) Events() <-chan player.Event { return r.events }
func (r *recorder) Close() error { return nil }

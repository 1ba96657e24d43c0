package inline

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/reel-player/reel/player"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

// scripted is an engine that replays canned events, answering seeks with a position update.
type scripted struct {
	events   chan player.Event
	status   player.Status
	position time.Duration
	duration time.Duration
	autoplay bool
	closed   bool
}

func newScripted(events ...player.Event) *scripted {
	s := &scripted{events: make(chan player.Event, 16), status: player.StatusReady, autoplay: true}
	for _, ev := range events {
		s.events <- ev
	}
	return s
}

func (s *scripted) SetSource(string) error { return nil }
func (s *scripted) Play() error { return nil }
func (s *scripted) Pause() error { return nil }
func (s *scripted) SetVolume(float64) error { return nil }
func (s *scripted) SetCycleCount(int) error { return nil }
func (s *scripted) SetAutoPlay(a bool) error {
	s.autoplay = a
	return nil
}

func (s *scripted) Status() player.Status { return s.status }
func (s *scripted) CurrentTime() time.Duration { return s.position }
func (s *scripted) Duration() time.Duration { return s.duration }
func (s *scripted) Volume() float64 { return 0.8 }
func (s *scripted) Events() <-chan player.Event { return s.events }

func (s *scripted) Close() error {
	s.closed = true
	return nil
}

func (s *scripted) Seek(p time.Duration) error {
	s.position = p
	s.events <- player.TimeChanged{Position: p, Duration: s.duration}
	return nil
}

func TestRun(t *testing.T) {
	Convey("Given media of 130 seconds", t, func() {
		engine := newScripted(player.Ready{Duration: 130 * time.Second})
		engine.duration = 130 * time.Second
		var out bytes.Buffer

		options := &Options{Engine: engine, URI: "/videos/clip.mkv", Title: "clip", Out: &out, Timeout: time.Second}

		Convey("It prints the time label without starting playback", func() {
			So(Run(options), ShouldBeNil)
			So(out.String(), ShouldEqual, "00:00/02:10\n")
			So(engine.autoplay, ShouldBeFalse)
			So(engine.closed, ShouldBeTrue)
		})

		Convey("It seeks first when asked", func() {
			options.At = mo.Some(half())
			So(Run(options), ShouldBeNil)
			So(out.String(), ShouldEqual, "01:05/02:10\n")
		})

		Convey("It prints JSON", func() {
			options.Json = true
			So(Run(options), ShouldBeNil)

			var output Output
			So(json.Unmarshal(out.Bytes(), &output), ShouldBeNil)
			So(output.Media, ShouldEqual, "/videos/clip.mkv")
			So(output.Status, ShouldEqual, "ready")
			So(*output.Duration, ShouldEqual, 130.0)
			So(output.Label, ShouldEqual, "00:00/02:10")
			So(output.Volume, ShouldEqual, 80)
		})
	})

	Convey("Given an engine that reports ready before the duration", t, func() {
		engine := newScripted(player.Ready{}, player.TimeChanged{Duration: 130 * time.Second})
		engine.duration = 130 * time.Second
		var out bytes.Buffer

		options := &Options{Engine: engine, URI: "/videos/clip.mkv", Title: "clip", Out: &out, Timeout: time.Second}

		Convey("A relative position resolves against the engine's duration", func() {
			options.At = mo.Some(half())
			So(Run(options), ShouldBeNil)
			So(out.String(), ShouldEqual, "01:05/02:10\n")
		})

		Convey("The label carries the total", func() {
			So(Run(options), ShouldBeNil)
			So(out.String(), ShouldEqual, "00:00/02:10\n")
		})
	})

	Convey("Given media that fails to load", t, func() {
		engine := newScripted(player.StatusChanged{Status: player.StatusHalted, Reason: "unrecognized file format"})
		err := Run(&Options{Engine: engine, URI: "notes.txt", Out: &bytes.Buffer{}, Timeout: time.Second})
		So(errors.Is(err, ErrHalted), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "unrecognized file format")
	})

	Convey("Given an engine that exits", t, func() {
		engine := newScripted()
		close(engine.events)
		err := Run(&Options{Engine: engine, URI: "clip.mkv", Out: &bytes.Buffer{}, Timeout: time.Second})
		So(errors.Is(err, ErrClosed), ShouldBeTrue)
	})

	Convey("Given an engine that never becomes ready", t, func() {
		engine := newScripted()
		err := Run(&Options{Engine: engine, URI: "clip.mkv", Out: &bytes.Buffer{}, Timeout: 50 * time.Millisecond})
		So(errors.Is(err, ErrTimeout), ShouldBeTrue)
	})
}

func half() Position {
	p, err := ParsePosition("50%")
	if err != nil {
		panic(err)
	}
	return p
}

func TestParsePosition(t *testing.T) {
	total := 200 * time.Second

	Convey("ParsePosition", t, func() {
		cases := map[string]time.Duration{
			"90":      90 * time.Second,
			"1.5":     1500 * time.Millisecond,
			"1:30":    90 * time.Second,
			"1:02:03": 3723 * time.Second,
			"2m":      120 * time.Second,
			"25%":     50 * time.Second,
			"500":     total,
		}
		for input, want := range cases {
			p, err := ParsePosition(input)
			So(err, ShouldBeNil)
			So(p.Resolve(total), ShouldEqual, want)
		}

		Convey("Percentages of unknown media resolve to the start", func() {
			p, _ := ParsePosition("50%")
			So(p.Resolve(0), ShouldEqual, 0)
		})

		Convey("Absolute offsets of unknown media are kept", func() {
			p, _ := ParsePosition("500")
			So(p.Resolve(-1), ShouldEqual, 500*time.Second)
		})

		Convey("Garbage is rejected", func() {
			for _, input := range []string{"", "abc", "-5", "1:75", "1:2:3:4", "150%", "x%"} {
				_, err := ParsePosition(input)
				So(err, ShouldNotBeNil)
			}
		})

		Convey("Non-finite numbers are rejected", func() {
			for _, input := range []string{"NaN", "nan", "Inf", "+Inf", "-Inf", "infinity", "NaN%", "Inf%"} {
				_, err := ParsePosition(input)
				So(err, ShouldNotBeNil)
			}
		})
	})
}

func TestAsJson(t *testing.T) {
	Convey("Live streams have no duration", t, func() {
		data, err := asJson("https://example.com/live", "live", player.StatusPlaying, 5*time.Second, -1, "00:05", 1)
		So(err, ShouldBeNil)
		So(strings.Contains(string(data), `"duration"`), ShouldBeFalse)
		So(string(data), ShouldContainSubstring, `"status":"playing"`)
	})
}

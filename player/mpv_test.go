package player

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/reel-player/reel/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoopFileValue(t *testing.T) {
	Convey("Given a cycle count", t, func() {
		So(loopFileValue(Infinite), ShouldEqual, "inf")
		So(loopFileValue(1), ShouldEqual, "no")
		So(loopFileValue(0), ShouldEqual, "no")
		So(loopFileValue(3), ShouldEqual, "2")
	})
}

func TestBuildArgs(t *testing.T) {
	Convey("Given a fresh engine", t, func() {
		filesystem.SetMemMapFs()
		m := NewMPV(Options{Title: "holiday\nclip"})

		Convey("The defaults play once, autoplay, at full volume in a window", func() {
			args := m.buildArgs("/tmp/mpv.sock", "/videos/holiday.mkv")
			So(args, ShouldContain, "--keep-open=yes")
			So(args, ShouldContain, "--loop-file=no")
			So(args, ShouldContain, "--volume=100")
			So(args, ShouldContain, "--force-window=yes")
			So(args, ShouldContain, "--title=holiday clip")
			So(args, ShouldNotContain, "--pause")
			So(args[len(args)-2:], ShouldResemble, []string{"--", "/videos/holiday.mkv"})
		})

		Convey("Configuration set before launch is reflected in the arguments", func() {
			So(m.SetCycleCount(Infinite), ShouldBeNil)
			So(m.SetAutoPlay(false), ShouldBeNil)
			So(m.SetVolume(0.4), ShouldBeNil)

			args := m.buildArgs("/tmp/mpv.sock", "clip.mkv")
			So(args, ShouldContain, "--loop-file=inf")
			So(args, ShouldContain, "--pause")
			So(args, ShouldContain, "--volume=40")
		})

		Convey("Headless mode disables output", func() {
			m.opts.Headless = true
			args := m.buildArgs("/tmp/mpv.sock", "clip.mkv")
			So(args, ShouldContain, "--vo=null")
			So(args, ShouldContain, "--ao=null")
			So(args, ShouldNotContain, "--force-window=yes")
		})
	})
}

func TestEngineBeforeLaunch(t *testing.T) {
	Convey("Given an engine without a source", t, func() {
		m := NewMPV(Options{})

		Convey("Transport commands report that it is not running", func() {
			So(errors.Is(m.Play(), ErrNotRunning), ShouldBeTrue)
			So(errors.Is(m.Pause(), ErrNotRunning), ShouldBeTrue)
			So(errors.Is(m.Seek(time.Second), ErrNotRunning), ShouldBeTrue)
		})

		Convey("Volume is clamped and cached", func() {
			So(m.SetVolume(1.7), ShouldBeNil)
			So(m.Volume(), ShouldEqual, 1.0)
			So(m.SetVolume(-1), ShouldBeNil)
			So(m.Volume(), ShouldEqual, 0.0)
		})

		Convey("Status is unknown", func() {
			So(m.Status(), ShouldEqual, StatusUnknown)
		})

		Convey("Close is a no-op", func() {
			So(m.Close(), ShouldBeNil)
		})

		Convey("Invalid targets are rejected before launch", func() {
			So(m.SetSource("--script=evil.lua"), ShouldNotBeNil)
			So(m.SetSource("   "), ShouldNotBeNil)
		})
	})
}

func TestStateApply(t *testing.T) {
	Convey("Given a state mirroring a freshly launched mpv", t, func() {
		s := &mpvState{volume: 1}

		Convey("Before the file loads status stays unknown", func() {
			So(s.apply("pause", false), ShouldBeEmpty)
			So(s.status, ShouldEqual, StatusUnknown)
		})

		Convey("Loading without autoplay yields Ready", func() {
			s.apply("pause", true)
			s.apply("duration", 200.0)
			events := s.apply("file-loaded", nil)
			So(events, ShouldResemble, []Event{
				Ready{Duration: 200 * time.Second},
				StatusChanged{Status: StatusReady},
			})

			Convey("Unpausing yields Playing, pausing again yields Paused", func() {
				So(s.apply("pause", false), ShouldResemble, []Event{StatusChanged{Status: StatusPlaying}})
				So(s.apply("pause", true), ShouldResemble, []Event{StatusChanged{Status: StatusPaused}})
			})

			Convey("Position updates carry the duration and are clamped", func() {
				So(s.apply("time-pos", 50.5), ShouldResemble, []Event{
					TimeChanged{Position: 50500 * time.Millisecond, Duration: 200 * time.Second},
				})
				s.apply("time-pos", 250.0)
				So(s.position, ShouldEqual, 200*time.Second)
			})

			Convey("A nil position is ignored", func() {
				So(s.apply("time-pos", nil), ShouldBeEmpty)
			})

			Convey("End of media fires once per transition", func() {
				s.apply("pause", false)
				events := s.apply("eof-reached", true)
				So(events, ShouldResemble, []Event{EndOfMedia{}})
				So(s.apply("eof-reached", true), ShouldBeEmpty)
				s.apply("eof-reached", false)
				So(s.apply("eof-reached", true), ShouldResemble, []Event{EndOfMedia{}})
			})

			Convey("Going idle yields Stopped", func() {
				So(s.apply("idle-active", true), ShouldResemble, []Event{StatusChanged{Status: StatusStopped}})
			})
		})

		Convey("A duration arriving after file-loaded completes Ready", func() {
			s.apply("pause", true)
			So(s.apply("file-loaded", nil), ShouldResemble, []Event{StatusChanged{Status: StatusReady}})
			So(s.apply("duration", 200.0), ShouldResemble, []Event{Ready{Duration: 200 * time.Second}})
			So(s.apply("duration", 201.0), ShouldBeEmpty)
		})

		Convey("A duration before the file loads announces nothing yet", func() {
			So(s.apply("duration", 200.0), ShouldBeEmpty)
			So(s.announce(true), ShouldBeEmpty)
		})

		Convey("Forcing the announcement covers media without a duration", func() {
			s.apply("file-loaded", nil)
			So(s.announce(true), ShouldResemble, []Event{Ready{Duration: 0}})
			So(s.announce(true), ShouldBeEmpty)
		})

		Convey("Loading with autoplay goes straight to Playing", func() {
			events := s.apply("file-loaded", nil)
			So(events[len(events)-1], ShouldResemble, StatusChanged{Status: StatusPlaying})
		})

		Convey("A load error halts with the reason", func() {
			events := s.apply("end-file", map[string]interface{}{"reason": "error", "file_error": "unrecognized file format"})
			So(events, ShouldResemble, []Event{StatusChanged{Status: StatusHalted, Reason: "unrecognized file format"}})
			So(s.derive(), ShouldEqual, StatusHalted)
		})

		Convey("Other end-file reasons do not halt", func() {
			s.apply("file-loaded", nil)
			s.apply("end-file", map[string]interface{}{"reason": "stop"})
			So(s.status, ShouldNotEqual, StatusHalted)
		})

		Convey("Volume is mapped from 0-100", func() {
			s.apply("volume", 35.0)
			So(s.volume, ShouldAlmostEqual, 0.35)
		})
	})
}

func TestEmit(t *testing.T) {
	Convey("Given an engine whose consumer lags", t, func() {
		m := NewMPV(Options{})
		m.exited = make(chan struct{})
		for i := 0; i < eventBuffer; i++ {
			m.events <- TimeChanged{}
		}

		Convey("Position updates are dropped instead of blocking", func() {
			done := make(chan struct{})
			go func() {
				m.emit(TimeChanged{Position: time.Second})
				close(done)
			}()
			So(waitClosed(done), ShouldBeTrue)
		})

		Convey("Other events block until the process exits", func() {
			done := make(chan struct{})
			go func() {
				m.emit(EndOfMedia{})
				close(done)
			}()
			So(waitClosed(done), ShouldBeFalse)
			close(m.exited)
			So(waitClosed(done), ShouldBeTrue)
		})
	})
}

func waitClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	case <-time.After(100 * time.Millisecond):
		return false
	}
}

func TestSanitize(t *testing.T) {
	Convey("sanitizeMediaTarget", t, func() {
		Convey("Accepts local paths and http(s) URLs", func() {
			So(mustTarget("/videos/../videos/a.mkv"), ShouldEqual, "/videos/a.mkv")
			So(mustTarget("https://example.com/a.mp4"), ShouldEqual, "https://example.com/a.mp4")
		})

		Convey("Rejects flags, control characters and other schemes", func() {
			for _, bad := range []string{"-v", "a\nb", "ftp://example.com/a.mp4", ""} {
				_, err := sanitizeMediaTarget(bad)
				So(err, ShouldNotBeNil)
			}
		})
	})

	Convey("sanitizeTitle", t, func() {
		So(sanitizeTitle(" a\tb\r\nc\x00 "), ShouldEqual, "a b  c")
		So(strings.Contains(sanitizeTitle("x\ny"), "\n"), ShouldBeFalse)
	})
}

func mustTarget(s string) string {
	target, err := sanitizeMediaTarget(s)
	if err != nil {
		panic(err)
	}
	return target
}

func TestStatusString(t *testing.T) {
	Convey("Status names", t, func() {
		So(StatusPlaying.String(), ShouldEqual, "playing")
		So(StatusHalted.String(), ShouldEqual, "halted")
		So(Status(42).String(), ShouldEqual, "unknown")
	})
}

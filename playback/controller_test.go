package playback

import (
	"errors"
	"testing"
	"time"

	"github.com/reel-player/reel/key"
	"github.com/reel-player/reel/player"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestTogglePlayPause(t *testing.T) {
	Convey("Given a controller", t, func() {
		engine := newRecorder(player.StatusUnknown)
		session := NewSession(false, 1)
		c := NewController(engine, session, true)

		Convey("The button starts on the play glyph", func() {
			So(c.Button(), ShouldEqual, GlyphPlay)
		})

		Convey("Before the media loads nothing happens", func() {
			session.AtEndOfMedia = true
			c.TogglePlayPause()
			So(engine.calls, ShouldBeEmpty)
			So(session.AtEndOfMedia, ShouldBeTrue)
			So(c.Button(), ShouldEqual, GlyphPlay)
		})

		Convey("After a halt nothing happens", func() {
			engine.status = player.StatusHalted
			c.TogglePlayPause()
			So(engine.calls, ShouldBeEmpty)
		})

		Convey("While playing it pauses and shows the pause glyph", func() {
			engine.status = player.StatusPlaying
			c.TogglePlayPause()
			So(engine.calls, ShouldResemble, []string{"pause"})
			So(c.Button(), ShouldEqual, GlyphPause)
		})

		for _, status := range []player.Status{player.StatusPaused, player.StatusReady, player.StatusStopped} {
			Convey("When "+status.String()+" it plays and shows the play glyph", func() {
				engine.status = status
				c.button = GlyphPause
				c.TogglePlayPause()
				So(engine.calls, ShouldResemble, []string{"play"})
				So(c.Button(), ShouldEqual, GlyphPlay)
			})
		}

		Convey("When ready at the end of media it rewinds first", func() {
			engine.status = player.StatusReady
			session.SetDuration(time.Minute)
			session.SetPosition(time.Minute)
			session.AtEndOfMedia = true

			c.TogglePlayPause()
			So(engine.calls, ShouldResemble, []string{"seek 0s", "play"})
			So(session.AtEndOfMedia, ShouldBeFalse)
			So(session.Position, ShouldEqual, 0)
			So(c.Button(), ShouldEqual, GlyphPlay)
		})

		Convey("Engine failures are swallowed", func() {
			engine.status = player.StatusPlaying
			engine.fail = errors.New("broken pipe")
			So(c.TogglePlayPause, ShouldNotPanic)
			So(c.Button(), ShouldEqual, GlyphPause)
		})
	})
}

func TestOnEndOfMedia(t *testing.T) {
	Convey("Given a session without repeat", t, func() {
		engine := newRecorder(player.StatusPlaying)
		c := NewController(engine, NewSession(false, 1), true)
		So(c.Start("/videos/clip.mkv"), ShouldBeNil)

		Convey("The engine plays the media once", func() {
			So(engine.cycles, ShouldEqual, 1)
		})

		Convey("End of media sets the flag and the play glyph", func() {
			c.TogglePlayPause()
			So(c.Button(), ShouldEqual, GlyphPause)

			c.Handle(player.EndOfMedia{})
			So(c.Session().AtEndOfMedia, ShouldBeTrue)
			So(c.Button(), ShouldEqual, GlyphPlay)
		})
	})

	Convey("Given a repeating session", t, func() {
		engine := newRecorder(player.StatusPlaying)
		c := NewController(engine, NewSession(true, 1), true)
		So(c.Start("/videos/clip.mkv"), ShouldBeNil)

		Convey("The engine loops forever", func() {
			So(engine.cycles, ShouldEqual, player.Infinite)
		})

		Convey("A stray end of media changes nothing", func() {
			c.OnEndOfMedia()
			So(c.Session().AtEndOfMedia, ShouldBeFalse)
		})
	})
}

func TestStart(t *testing.T) {
	Convey("Given a controller with autoplay off and half volume", t, func() {
		engine := newRecorder(player.StatusUnknown)
		c := NewController(engine, NewSession(false, 0.5), false)

		Convey("Start configures the engine before loading the source", func() {
			So(c.Start("clip.mkv"), ShouldBeNil)
			So(engine.calls, ShouldResemble, []string{"cycles 1", "autoplay false", "volume 0.50", "source clip.mkv"})
		})

		Convey("A failing engine aborts the start", func() {
			engine.fail = errors.New("mpv not found")
			err := c.Start("clip.mkv")
			So(err, ShouldNotBeNil)
			So(errors.Is(err, engine.fail), ShouldBeTrue)
		})
	})
}

func TestHandle(t *testing.T) {
	Convey("Given a started controller", t, func() {
		engine := newRecorder(player.StatusReady)
		c := NewController(engine, NewSession(false, 1), true)

		Convey("Ready publishes the duration and enables seeking", func() {
			c.Handle(player.Ready{Duration: 130 * time.Second})
			So(c.Session().Duration, ShouldEqual, 130*time.Second)
			So(c.Sync().Seek.Disabled, ShouldBeFalse)
			So(c.Sync().TimeLabel, ShouldEqual, "00:00/02:10")
		})

		Convey("Ready without a duration keeps seeking disabled", func() {
			c.Handle(player.Ready{})
			So(c.Sync().Seek.Disabled, ShouldBeTrue)
		})

		Convey("Ready without a duration falls back to the engine's", func() {
			engine.duration = 130 * time.Second
			c.Handle(player.Ready{})
			So(c.Sync().Seek.Disabled, ShouldBeFalse)
			So(c.Sync().TimeLabel, ShouldEqual, "00:00/02:10")
		})

		Convey("Position updates reach the labels", func() {
			c.Handle(player.TimeChanged{Position: 65 * time.Second, Duration: 130 * time.Second})
			So(c.Sync().TimeLabel, ShouldEqual, "01:05/02:10")
			So(c.Sync().Seek.Value, ShouldEqual, 50.0)
		})

		Convey("Status changes are only observed", func() {
			c.Handle(player.StatusChanged{Status: player.StatusPaused})
			So(engine.calls, ShouldBeEmpty)
		})
	})
}

func TestGlyph(t *testing.T) {
	Convey("Given plain icons", t, func() {
		viper.Set(key.IconsVariant, "plain")
		So(GlyphPlay.String(), ShouldEqual, ">")
		So(GlyphPause.String(), ShouldEqual, "||")
	})
}

package cmd

import (
	"testing"

	"github.com/reel-player/reel/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMediaTitle(t *testing.T) {
	Convey("Given a media location", t, func() {
		Convey("A local path is shown without directory and extension", func() {
			So(mediaTitle("/home/user/Videos/holiday.mkv"), ShouldEqual, "holiday")
		})

		Convey("A URL drops its query string", func() {
			So(mediaTitle("https://example.com/media/clip.mp4?token=abc"), ShouldEqual, "clip")
		})

		Convey("A location without a name falls back to the window title", func() {
			So(mediaTitle("https://example.com/"), ShouldEqual, "example")
			So(mediaTitle("/"), ShouldEqual, constant.WindowTitle)
		})
	})
}

func TestCommands(t *testing.T) {
	Convey("Given the root command", t, func() {
		names := make(map[string]bool)
		for _, c := range rootCmd.Commands() {
			names[c.Name()] = true
		}

		Convey("Every subcommand is registered", func() {
			for _, name := range []string{"config", "where", "env", "version", "inline", "clear"} {
				So(names[name], ShouldBeTrue)
			}
		})

		Convey("Playback flags are available", func() {
			for _, flag := range []string{"repeat", "volume", "no-autoplay", "version"} {
				So(rootCmd.Flags().Lookup(flag), ShouldNotBeNil)
			}
			So(rootCmd.PersistentFlags().Lookup("icons"), ShouldNotBeNil)
		})
	})
}

package util

import (
	"testing"

	"github.com/reel-player/reel/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("paused"), ShouldEqual, "Paused")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestFileStem(t *testing.T) {
	Convey("FileStem", t, func() {
		So(FileStem("/videos/holiday.final.mkv"), ShouldEqual, "holiday.final")
		So(FileStem("clip"), ShouldEqual, "clip")
	})
}

func TestDelete(t *testing.T) {
	Convey("Given an in-memory directory tree", t, func() {
		filesystem.SetMemMapFs()
		fs := filesystem.API()
		So(fs.MkdirAll("/tmp/reel/sockets", 0o755), ShouldBeNil)
		So(lo.Must(fs.Create("/tmp/reel/sockets/mpv.sock")).Close(), ShouldBeNil)

		Convey("Delete removes it recursively", func() {
			So(Delete("/tmp/reel"), ShouldBeNil)
			So(lo.Must(fs.Exists("/tmp/reel")), ShouldBeFalse)
		})

		Convey("Delete reports a missing path", func() {
			So(Delete("/nope"), ShouldNotBeNil)
		})
	})
}

package log

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/reel-player/reel/filesystem"
	"github.com/reel-player/reel/key"
	"github.com/reel-player/reel/where"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given logging is disabled", t, func() {
		viper.Set(key.LogsWrite, false)
		So(Setup(), ShouldBeNil)

		Convey("WithFields still returns a usable entry", func() {
			entry := WithFields(logrus.Fields{"media": "clip.mkv"})
			So(entry, ShouldNotBeNil)
			So(func() { entry.Info("ignored") }, ShouldNotPanic)
		})
	})

	Convey("Given logging is enabled", t, func() {
		viper.Set(key.LogsWrite, true)
		viper.Set(key.LogsLevel, "not-a-level")
		defer viper.Set(key.LogsWrite, false)

		So(Setup(), ShouldBeNil)

		Convey("A dated log file is created", func() {
			path := filepath.Join(where.Logs(), time.Now().Format("2006-01-02")+".log")
			So(lo.Must(filesystem.API().Exists(path)), ShouldBeTrue)
		})

		Convey("An unknown level falls back to info", func() {
			So(logrus.GetLevel(), ShouldEqual, logrus.InfoLevel)
		})
	})
}

package playback

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSession(t *testing.T) {
	Convey("Given a new session", t, func() {
		s := NewSession(false, 1.5)

		Convey("The duration is unknown and the volume clamped", func() {
			So(s.Duration, ShouldEqual, UnknownDuration)
			So(s.DurationKnown(), ShouldBeFalse)
			So(s.Volume, ShouldEqual, 1.0)
		})

		Convey("Before the duration is known only negatives are clamped", func() {
			s.SetPosition(-time.Second)
			So(s.Position, ShouldEqual, 0)
			s.SetPosition(time.Hour)
			So(s.Position, ShouldEqual, time.Hour)
		})

		Convey("Learning the duration clamps the position into it", func() {
			s.SetPosition(time.Hour)
			s.SetDuration(time.Minute)
			So(s.Position, ShouldEqual, time.Minute)
		})

		Convey("Non-positive durations leave it unknown", func() {
			s.SetDuration(0)
			So(s.Duration, ShouldEqual, UnknownDuration)
		})
	})
}

package icon

import (
	"testing"

	"github.com/reel-player/reel/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	Convey("Given every registered icon", t, func() {
		Convey("It renders for each variant", func() {
			for _, variant := range AvailableVariants() {
				viper.Set(key.IconsVariant, variant)
				for i := range icons {
					So(Get(i), ShouldNotBeEmpty)
				}
			}
		})

		Convey("It returns empty for an unknown variant", func() {
			viper.Set(key.IconsVariant, "")
			So(Get(Play), ShouldBeEmpty)
		})

		Convey("It returns empty for an unregistered icon", func() {
			viper.Set(key.IconsVariant, plain)
			So(Get(Icon(-1)), ShouldBeEmpty)
		})
	})

	Convey("Given the plain variant", t, func() {
		viper.Set(key.IconsVariant, plain)

		Convey("The transport glyphs are the classic ones", func() {
			So(Get(Play), ShouldEqual, ">")
			So(Get(Pause), ShouldEqual, "||")
		})
	})
}

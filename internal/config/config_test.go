package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/foundermatch/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.DataSource, convey.ShouldEqual, config.SourceCSV)
			convey.So(cfg.RowLimit, convey.ShouldEqual, 5000)
			convey.So(cfg.ProfilesPath, convey.ShouldEqual, "profiles.json")
			convey.So(cfg.DefaultDegreeWeight, convey.ShouldEqual, 50)
			convey.So(cfg.DefaultNeighbors, convey.ShouldEqual, 5)
			convey.So(cfg.AcquisitionSuccessThreshold, convey.ShouldEqual, 1e7)
			convey.So(cfg.IPOSuccessThreshold, convey.ShouldEqual, 5e7)
			convey.So(cfg.TopEducationPatterns, convey.ShouldEqual, 3)
			convey.So(cfg.ShutdownTimeout, convey.ShouldEqual, 10*time.Second)
		})

		convey.Convey("Then the defaults validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

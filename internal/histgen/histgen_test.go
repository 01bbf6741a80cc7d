package histgen_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/okian/foundermatch/internal/adapters/dataset"
	"github.com/okian/foundermatch/internal/histgen"
	"github.com/okian/foundermatch/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func smallConfig() histgen.Config {
	cfg := histgen.DefaultConfig()
	cfg.People = 40
	cfg.Seed = 7
	return cfg
}

func TestGenerate(t *testing.T) {
	Convey("Given a small config", t, func() {
		cfg := smallConfig()

		Convey("When a history is generated twice with the same seed", func() {
			a, errA := histgen.Generate(cfg)
			b, errB := histgen.Generate(cfg)

			Convey("Then both runs produce the same tables", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(a, ShouldResemble, b)
			})

			Convey("Then every person has a degree and a relationship", func() {
				So(a.PeopleRows, ShouldHaveLength, cfg.People)
				So(a.RelationshipRows, ShouldHaveLength, cfg.People)
				seen := map[string]bool{}
				for _, r := range a.EducationRows {
					seen[r.PersonID] = true
				}
				So(seen, ShouldHaveLength, cfg.People)
			})

			Convey("Then founders are present", func() {
				founders := 0
				for _, r := range a.RelationshipRows {
					if r.IsFounder() {
						founders++
					}
				}
				So(founders, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When the seed changes", func() {
			a, _ := histgen.Generate(cfg)
			cfg.Seed = 8
			b, _ := histgen.Generate(cfg)

			Convey("Then the tables differ", func() {
				So(a, ShouldNotResemble, b)
			})
		})

		Convey("When the config is invalid", func() {
			cfg.People = 0
			_, err := histgen.Generate(cfg)

			Convey("Then ErrInvalidConfig is returned", func() {
				So(errors.Is(err, histgen.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}

func TestWrite(t *testing.T) {
	ctx := context.Background()

	Convey("Given a generated history", t, func() {
		tables, err := histgen.Generate(smallConfig())
		So(err, ShouldBeNil)

		Convey("When it is written as SQLite and read back", func() {
			path := filepath.Join(t.TempDir(), "out", "history.db")
			So(histgen.Write(ctx, histgen.FormatSQLite, path, tables), ShouldBeNil)

			src, err := dataset.OpenSQLite(ctx, path)
			So(err, ShouldBeNil)
			defer src.Close()

			Convey("Then row counts survive the round trip", func() {
				people, err := src.People(ctx)
				So(err, ShouldBeNil)
				So(people, ShouldHaveLength, len(tables.PeopleRows))

				rels, err := src.Relationships(ctx)
				So(err, ShouldBeNil)
				So(rels, ShouldHaveLength, len(tables.RelationshipRows))

				edu, err := src.Education(ctx)
				So(err, ShouldBeNil)
				So(edu, ShouldHaveLength, len(tables.EducationRows))

				rounds, err := src.FundingRounds(ctx)
				So(err, ShouldBeNil)
				So(rounds, ShouldHaveLength, len(tables.FundingRows))
				for i, r := range rounds {
					So(r.RaisedAmountUSD, ShouldResemble, tables.FundingRows[i].RaisedAmountUSD)
				}
			})
		})

		Convey("When it is written as CSV and read back", func() {
			dir := filepath.Join(t.TempDir(), "csv")
			So(histgen.Write(ctx, histgen.FormatCSV, dir, tables), ShouldBeNil)

			src, err := dataset.OpenCSV(ctx, dir)
			So(err, ShouldBeNil)
			defer src.Close()

			Convey("Then row counts survive the round trip", func() {
				acq, err := src.Acquisitions(ctx)
				So(err, ShouldBeNil)
				So(acq, ShouldHaveLength, len(tables.AcquisitionRows))

				ipos, err := src.IPOs(ctx)
				So(err, ShouldBeNil)
				So(ipos, ShouldHaveLength, len(tables.IPORows))

				people, err := src.People(ctx)
				So(err, ShouldBeNil)
				So(people["p:1"].FirstName, ShouldEqual, tables.PeopleRows[0].FirstName)
			})
		})

		Convey("When writing without a process-wide logger", func() {
			dir := t.TempDir()

			Convey("Then both writers run on their own logger", func() {
				So(func() {
					_ = histgen.WriteCSV(ctx, filepath.Join(dir, "csv"), tables)
					_ = histgen.WriteSQLite(ctx, filepath.Join(dir, "history.db"), tables, histgen.WithLogger(logger.Nop()))
				}, ShouldNotPanic)
			})
		})

		Convey("When the format is unknown", func() {
			err := histgen.Write(ctx, "parquet", t.TempDir(), tables)

			Convey("Then ErrUnknownFormat is returned", func() {
				So(errors.Is(err, histgen.ErrUnknownFormat), ShouldBeTrue)
			})
		})
	})
}

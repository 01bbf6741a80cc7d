package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/foundermatch/internal/config"
	"github.com/okian/foundermatch/internal/histgen"
	"github.com/okian/foundermatch/pkg/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New(context.Background())
	cfg.DataSource = config.SourceMemory
	cfg.MemoryPeople = 200
	cfg.ProfilesPath = filepath.Join(t.TempDir(), "profiles.json")
	return cfg
}

func TestOpenProvider(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a config", t, func() {
		cfg := testConfig(t)

		convey.Convey("When the memory source is selected", func() {
			p, err := openProvider(ctx, cfg, logger.Nop())

			convey.Convey("Then a synthetic history is served", func() {
				convey.So(err, convey.ShouldBeNil)
				people, err := p.People(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(people, convey.ShouldHaveLength, 200)
			})
		})

		convey.Convey("When the sqlite source points at a generated database", func() {
			gen := histgen.DefaultConfig()
			gen.People = 20
			tables, err := histgen.Generate(gen)
			convey.So(err, convey.ShouldBeNil)
			cfg.DataSource = config.SourceSQLite
			cfg.SQLitePath = filepath.Join(t.TempDir(), "history.db")
			convey.So(histgen.WriteSQLite(ctx, cfg.SQLitePath, tables), convey.ShouldBeNil)

			p, err := openProvider(ctx, cfg, logger.Nop())

			convey.Convey("Then the database is read", func() {
				convey.So(err, convey.ShouldBeNil)
				defer p.Close()
				rels, err := p.Relationships(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(rels, convey.ShouldHaveLength, 20)
			})
		})

		convey.Convey("When the csv directory is missing", func() {
			cfg.DataSource = config.SourceCSV
			cfg.DataDir = filepath.Join(t.TempDir(), "absent")

			_, err := openProvider(ctx, cfg, logger.Nop())

			convey.Convey("Then opening fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the source is unknown", func() {
			cfg.DataSource = "parquet"

			_, err := openProvider(ctx, cfg, logger.Nop())

			convey.Convey("Then ErrInvalidConfig is returned", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestApplicationWiring(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a started service over a synthetic history", t, func() {
		cfg := testConfig(t)
		provider, err := openProvider(ctx, cfg, logger.Nop())
		convey.So(err, convey.ShouldBeNil)

		svc := newService(cfg, provider, logger.Nop())
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()
		h := newRouter(ctx, svc)

		convey.Convey("When a profile is saved, matched and predicted", func() {
			put := do(h, http.MethodPut, "/profiles/ada",
				`{"degree_type":"MBA","graduation_year":"2000","creation_year":2006}`)
			match := do(h, http.MethodPost, "/profiles/ada/matches", "")
			pred := do(h, http.MethodGet, "/profiles/ada/prediction", "")

			convey.Convey("Then every step succeeds and the matches are kept", func() {
				convey.So(put.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(match.Code, convey.ShouldEqual, http.StatusOK)

				var out struct {
					Matches   []map[string]any `json:"matches"`
					Persisted bool             `json:"persisted"`
				}
				convey.So(json.Unmarshal(match.Body.Bytes(), &out), convey.ShouldBeNil)
				convey.So(out.Persisted, convey.ShouldBeTrue)
				convey.So(out.Matches, convey.ShouldHaveLength, cfg.DefaultNeighbors)

				convey.So(pred.Code, convey.ShouldEqual, http.StatusOK)
				var report struct {
					BasedOn int `json:"based_on"`
				}
				convey.So(json.Unmarshal(pred.Body.Bytes(), &report), convey.ShouldBeNil)
				convey.So(report.BasedOn, convey.ShouldEqual, cfg.DefaultNeighbors)
			})
		})

		convey.Convey("When the docs are requested", func() {
			w := do(h, http.MethodGet, "/openapi.yaml", "")

			convey.Convey("Then they are served next to the API", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			})
		})

		convey.Convey("When stats are requested", func() {
			w := do(h, http.MethodGet, "/stats", "")

			convey.Convey("Then the service reports it is started", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"started":true`)
			})
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("Then a refresh does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})
	})
}

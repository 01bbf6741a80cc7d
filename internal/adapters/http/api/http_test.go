package api_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/okian/foundermatch/internal/adapters/http/api"
	"github.com/okian/foundermatch/internal/adapters/repository"
	service "github.com/okian/foundermatch/internal/app"
	"github.com/okian/foundermatch/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDeps records calls and returns canned answers.
type mockDeps struct {
	profiles map[string]model.SavedProfile
	matches  []model.MatchResult
	report   model.PredictionReport
	err      error

	lastQuery model.QueryProfile
	saved     []model.QueryProfile
	persisted []string
}

func newMockDeps() *mockDeps {
	return &mockDeps{
		profiles: map[string]model.SavedProfile{},
		matches: []model.MatchResult{
			{Name: "Ada Lovelace", DegreeType: "MBA", ExperienceYears: 5, Similarity: model.Similarity(math.Inf(1)), ObjectID: "p:1"},
			{Name: "Alan Turing", DegreeType: "BS", ExperienceYears: 1, Similarity: 0.4, ObjectID: "p:2", Distance: 2.5},
		},
	}
}

func (m *mockDeps) QueryDefaults() (int, int) { return 50, 5 }

func (m *mockDeps) ProfileSummaries(context.Context) ([]model.ProfileSummary, error) {
	out := []model.ProfileSummary{}
	for _, p := range m.profiles {
		out = append(out, p.Summarize())
	}
	return out, m.err
}

func (m *mockDeps) Profile(_ context.Context, name string) (model.SavedProfile, error) {
	if m.err != nil {
		return model.SavedProfile{}, m.err
	}
	p, ok := m.profiles[name]
	if !ok {
		return model.SavedProfile{}, fmt.Errorf("%w: %q", repository.ErrNotFound, name)
	}
	return p, nil
}

func (m *mockDeps) SaveProfile(_ context.Context, q model.QueryProfile) (model.SavedProfile, error) {
	if err := q.ValidateForSave(); err != nil {
		return model.SavedProfile{}, err
	}
	m.saved = append(m.saved, q)
	p := model.NewSavedProfile(q)
	m.profiles[q.Name] = p
	return p, nil
}

func (m *mockDeps) FindMatches(_ context.Context, q model.QueryProfile) (service.MatchOutcome, error) {
	m.lastQuery = q
	if err := q.Validate(); err != nil {
		return service.MatchOutcome{}, err
	}
	exp, _ := q.ExperienceYears()
	return service.MatchOutcome{Profile: q, ExperienceYears: exp, Matches: m.matches}, nil
}

func (m *mockDeps) Match(ctx context.Context, q model.QueryProfile) (service.MatchOutcome, error) {
	out, err := m.FindMatches(ctx, q)
	if err != nil {
		return out, err
	}
	if _, ok := m.profiles[q.Name]; ok {
		m.persisted = append(m.persisted, q.Name)
		out.Persisted = true
	}
	return out, nil
}

func (m *mockDeps) MatchStored(ctx context.Context, name string) (service.MatchOutcome, error) {
	p, err := m.Profile(ctx, name)
	if err != nil {
		return service.MatchOutcome{}, err
	}
	return m.Match(ctx, p.QueryProfile)
}

func (m *mockDeps) Predict(_ context.Context, name string) (model.PredictionReport, error) {
	if _, ok := m.profiles[name]; !ok {
		return model.PredictionReport{}, fmt.Errorf("%w: %q", repository.ErrNotFound, name)
	}
	r := m.report
	r.ProfileName = name
	return r, m.err
}

type mockStats struct{}

func (mockStats) GetStats() map[string]interface{} { return map[string]interface{}{"started": true} }

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

func decode(w *httptest.ResponseRecorder, v any) {
	So(json.Unmarshal(w.Body.Bytes(), v), ShouldBeNil)
}

func TestHealthAndStats(t *testing.T) {
	Convey("Given an API router", t, func() {
		h := api.NewServer(newMockDeps(), mockStats{}).Router(context.Background())

		Convey("When calling /healthz", func() {
			w := do(h, http.MethodGet, "/healthz", "")

			Convey("Then it reports ok with a request id", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
				So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)
			})
		})

		Convey("When a request id is supplied", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "abc-123")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then it is echoed back", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "abc-123")
			})
		})

		Convey("When calling /metrics after a request", func() {
			do(h, http.MethodGet, "/healthz", "")
			w := do(h, http.MethodGet, "/metrics", "")

			Convey("Then the exposition includes HTTP metrics", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "foundermatch_engine_http_requests_total")
			})
		})

		Convey("When calling /stats", func() {
			w := do(h, http.MethodGet, "/stats", "")

			Convey("Then the provider's stats are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"started":true`)
			})
		})
	})
}

func TestProfiles(t *testing.T) {
	Convey("Given an API router", t, func() {
		deps := newMockDeps()
		h := api.NewServer(deps, mockStats{}).Router(context.Background())

		Convey("When a profile is saved with years as numbers and no weight", func() {
			w := do(h, http.MethodPut, "/profiles/alice", `{"degree_type":"MBA","graduation_year":2000,"creation_year":"2005"}`)

			Convey("Then defaults fill the omitted fields", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.saved, ShouldHaveLength, 1)
				So(deps.saved[0].Name, ShouldEqual, "alice")
				So(deps.saved[0].GraduationYear, ShouldEqual, "2000")
				So(deps.saved[0].Weight, ShouldEqual, 50)
				So(deps.saved[0].NumNeighbors, ShouldEqual, 5)

				var p model.SavedProfile
				decode(w, &p)
				So(p.MatchedProfiles, ShouldBeEmpty)
			})

			Convey("Then it can be fetched and listed", func() {
				w := do(h, http.MethodGet, "/profiles/alice", "")
				So(w.Code, ShouldEqual, http.StatusOK)

				w = do(h, http.MethodGet, "/profiles", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "alice - MBA, 5 years experience")
			})
		})

		Convey("When an explicit zero weight is sent", func() {
			w := do(h, http.MethodPut, "/profiles/bob", `{"degree_type":"BS","graduation_year":"2000","creation_year":"2001","weight":0}`)

			Convey("Then zero is kept", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.saved[0].Weight, ShouldEqual, 0)
			})
		})

		Convey("When the years are not valid", func() {
			w := do(h, http.MethodPut, "/profiles/carol", `{"degree_type":"BS","graduation_year":"twenty","creation_year":"2001"}`)

			Convey("Then a 400 with field details is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "graduation_year")
			})
		})

		Convey("When the body is malformed or empty", func() {
			So(do(h, http.MethodPut, "/profiles/x", `{"degree_type":`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(h, http.MethodPut, "/profiles/x", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(h, http.MethodPut, "/profiles/x", `{"unknown":1}`).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When fetching an unknown profile", func() {
			w := do(h, http.MethodGet, "/profiles/ghost", "")

			Convey("Then 404 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(w.Body.String(), ShouldContainSubstring, "not_found")
			})
		})

		Convey("When the backend fails", func() {
			deps.err = errors.New("disk on fire")
			w := do(h, http.MethodGet, "/profiles", "")

			Convey("Then 500 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})
	})
}

func TestMatches(t *testing.T) {
	Convey("Given an API router with a saved profile", t, func() {
		deps := newMockDeps()
		deps.profiles["alice"] = model.NewSavedProfile(model.QueryProfile{
			Name: "alice", DegreeType: "MBA", GraduationYear: "2000", CreationYear: "2005", Weight: 70, NumNeighbors: 2,
		})
		h := api.NewServer(deps, mockStats{}).Router(context.Background())

		Convey("When posting an ad-hoc match", func() {
			w := do(h, http.MethodPost, "/matches", `{"degree_type":"PhD","graduation_year":"1990","creation_year":"2000","num_neighbors":3}`)

			Convey("Then matches are returned without persistence", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var out service.MatchOutcome
				decode(w, &out)
				So(out.Persisted, ShouldBeFalse)
				So(out.ExperienceYears, ShouldEqual, 10)
				So(out.Matches, ShouldHaveLength, 2)
				So(out.Matches[0].Similarity.IsInf(), ShouldBeTrue)
				So(w.Body.String(), ShouldContainSubstring, `"similarity":"Infinity"`)
				So(deps.lastQuery.NumNeighbors, ShouldEqual, 3)
				So(deps.persisted, ShouldBeEmpty)
			})
		})

		Convey("When asking for the text rendering", func() {
			w := do(h, http.MethodPost, "/matches?format=text", `{"degree_type":"MBA","graduation_year":"2000","creation_year":"2005"}`)

			Convey("Then the results pane text is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "text/plain")
				So(w.Body.String(), ShouldContainSubstring, "Match #1 (Distance: 0.00, Similarity: inf)")
				So(w.Body.String(), ShouldContainSubstring, "Name: Alan Turing")
			})
		})

		Convey("When rematching a stored profile without a body", func() {
			w := do(h, http.MethodPost, "/profiles/alice/matches", "")

			Convey("Then the saved inputs are reused and persisted", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastQuery.Weight, ShouldEqual, 70)
				So(deps.persisted, ShouldResemble, []string{"alice"})
			})
		})

		Convey("When rematching with overrides", func() {
			w := do(h, http.MethodPost, "/profiles/alice/matches", `{"weight":10}`)

			Convey("Then only the given fields change", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastQuery.Weight, ShouldEqual, 10)
				So(deps.lastQuery.NumNeighbors, ShouldEqual, 2)
				So(deps.lastQuery.Name, ShouldEqual, "alice")
			})
		})

		Convey("When rematching an unknown profile", func() {
			w := do(h, http.MethodPost, "/profiles/ghost/matches", "")

			Convey("Then 404 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestPrediction(t *testing.T) {
	Convey("Given an API router with a saved profile", t, func() {
		deps := newMockDeps()
		deps.profiles["alice"] = model.NewSavedProfile(model.QueryProfile{Name: "alice"})
		rate := 50.0
		deps.report = model.PredictionReport{
			BasedOn:           2,
			EducationPatterns: []model.EducationPattern{{Pattern: "MBA in Business", Count: 2}},
			TotalExits:        2,
			SuccessfulExits:   1,
			ExitSuccessRate:   &rate,
			Recommendations:   []string{},
		}
		h := api.NewServer(deps, mockStats{}).Router(context.Background())

		Convey("When requesting JSON", func() {
			w := do(h, http.MethodGet, "/profiles/alice/prediction", "")

			Convey("Then the report is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var r model.PredictionReport
				decode(w, &r)
				So(r.ProfileName, ShouldEqual, "alice")
				So(*r.ExitSuccessRate, ShouldEqual, 50)
			})
		})

		Convey("When requesting text", func() {
			w := do(h, http.MethodGet, "/profiles/alice/prediction?format=text", "")

			Convey("Then the rendered summary is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "Success Prediction for alice:")
				So(w.Body.String(), ShouldContainSubstring, "Exit Success Rate: 50.0%")
			})
		})

		Convey("When the profile is unknown", func() {
			w := do(h, http.MethodGet, "/profiles/ghost/prediction", "")

			Convey("Then 404 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

package repository_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/okian/foundermatch/internal/adapters/repository"
	"github.com/okian/foundermatch/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleProfile(name string) model.SavedProfile {
	p := model.NewSavedProfile(model.QueryProfile{
		Name:           name,
		DegreeType:     "MBA",
		GraduationYear: "2010",
		CreationYear:   "2015",
		Weight:         70,
		NumNeighbors:   3,
	})
	p.MatchedProfiles = []model.MatchResult{
		{Name: "Ada Lovelace", DegreeType: "MS", ExperienceYears: 5, Similarity: model.Similarity(math.Inf(1)), ObjectID: "p:1"},
		{Name: "Grace Hopper", DegreeType: "PhD", ExperienceYears: 3, Similarity: 0.5, ObjectID: "p:2"},
	}
	return p
}

func TestJSONFileStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store over a fresh path", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "profiles.json")
		store := repository.NewJSONFileStore(path)

		Convey("When nothing has been written", func() {
			all, err := store.Load(ctx)

			Convey("Then the store is empty and no file exists", func() {
				So(err, ShouldBeNil)
				So(all, ShouldBeEmpty)
				_, statErr := os.Stat(path)
				So(os.IsNotExist(statErr), ShouldBeTrue)
			})
		})

		Convey("When a profile is saved", func() {
			So(store.Save(ctx, sampleProfile("alice")), ShouldBeNil)

			Convey("Then it loads back unchanged", func() {
				got, err := store.Get(ctx, "alice")
				So(err, ShouldBeNil)
				So(got.DegreeType, ShouldEqual, "MBA")
				So(got.GraduationYear, ShouldEqual, "2010")
				So(got.Weight, ShouldEqual, 70)
				So(got.NumNeighbors, ShouldEqual, 3)
				So(got.MatchedProfiles, ShouldHaveLength, 2)
				So(got.MatchedProfiles[0].Similarity.IsInf(), ShouldBeTrue)
				So(float64(got.MatchedProfiles[1].Similarity), ShouldEqual, 0.5)
			})

			Convey("Then saving the same name again replaces it", func() {
				p := sampleProfile("alice")
				p.DegreeType = "BS"
				p.MatchedProfiles = nil
				So(store.Save(ctx, p), ShouldBeNil)

				all, err := store.Load(ctx)
				So(err, ShouldBeNil)
				So(all, ShouldHaveLength, 1)
				So(all["alice"].DegreeType, ShouldEqual, "BS")
				So(all["alice"].MatchedProfiles, ShouldNotBeNil)
				So(all["alice"].MatchedProfiles, ShouldBeEmpty)
			})

			Convey("Then updating matches leaves other profiles untouched", func() {
				So(store.Save(ctx, sampleProfile("bob")), ShouldBeNil)
				repl := []model.MatchResult{{Name: "Linus", DegreeType: "BS", ExperienceYears: 1, Similarity: 2, ObjectID: "p:9"}}
				So(store.UpdateMatches(ctx, "alice", repl), ShouldBeNil)

				all, err := store.Load(ctx)
				So(err, ShouldBeNil)
				So(all["alice"].MatchedProfiles, ShouldHaveLength, 1)
				So(all["alice"].MatchedProfiles[0].ObjectID, ShouldEqual, "p:9")
				So(all["alice"].Weight, ShouldEqual, 70)
				So(all["bob"].MatchedProfiles, ShouldHaveLength, 2)
			})
		})

		Convey("When a profile has no name", func() {
			err := store.Save(ctx, model.SavedProfile{})

			Convey("Then it is rejected as invalid", func() {
				So(errors.Is(err, model.ErrInvalidProfile), ShouldBeTrue)
			})
		})

		Convey("When matches are updated for an unknown name", func() {
			err := store.UpdateMatches(ctx, "ghost", nil)

			Convey("Then ErrNotFound is returned and nothing is written", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				So(errors.Is(err, model.ErrInvalidProfile), ShouldBeTrue)
				_, statErr := os.Stat(path)
				So(os.IsNotExist(statErr), ShouldBeTrue)
			})
		})

		Convey("When listeners are registered", func() {
			var seen []string
			store.OnChange(func(_ context.Context, ev repository.ChangeEvent) {
				seen = append(seen, "first:"+string(ev.Op)+":"+ev.Name)
			})
			store.OnChange(func(_ context.Context, ev repository.ChangeEvent) {
				seen = append(seen, "second:"+string(ev.Op)+":"+ev.Name)
			})

			So(store.Save(ctx, sampleProfile("carol")), ShouldBeNil)
			So(store.UpdateMatches(ctx, "carol", nil), ShouldBeNil)
			_ = store.UpdateMatches(ctx, "nobody", nil)

			Convey("Then they fire in order for committed mutations only", func() {
				So(seen, ShouldResemble, []string{
					"first:save:carol",
					"second:save:carol",
					"first:update_matches:carol",
					"second:update_matches:carol",
				})
			})
		})
	})
}

func TestJSONFileStore_ExistingDocuments(t *testing.T) {
	ctx := context.Background()

	Convey("Given a document written by another tool", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "profiles.json")

		Convey("When it carries bare Infinity tokens and no weight fields", func() {
			doc := `{"dave": {"name": "dave", "degree_type": "PhD", "graduation_year": "2000", "creation_year": "2004",
				"matched_profiles": [{"name": "X", "degree_type": "PhD", "experience_years": 4, "similarity": Infinity, "object_id": "p:7"}]}}`
			So(os.WriteFile(path, []byte(doc), 0o644), ShouldBeNil)

			got, err := repository.NewJSONFileStore(path).Get(ctx, "dave")

			Convey("Then it decodes with defaults applied", func() {
				So(err, ShouldBeNil)
				So(got.Weight, ShouldEqual, model.DefaultWeight)
				So(got.NumNeighbors, ShouldEqual, model.DefaultNumNeighbors)
				So(got.MatchedProfiles[0].Similarity.IsInf(), ShouldBeTrue)
			})
		})

		Convey("When it has an entry without a name field", func() {
			So(os.WriteFile(path, []byte(`{"erin": {"degree_type": "BS"}}`), 0o644), ShouldBeNil)

			all, err := repository.NewJSONFileStore(path).Load(ctx)

			Convey("Then the key supplies the name", func() {
				So(err, ShouldBeNil)
				So(all["erin"].Name, ShouldEqual, "erin")
			})
		})

		Convey("When it contains extra fields on an entry", func() {
			So(os.WriteFile(path, []byte(`{"fay": {"name": "fay", "degree_type": "MS", "note": "keep me"}}`), 0o644), ShouldBeNil)
			store := repository.NewJSONFileStore(path)

			So(store.UpdateMatches(ctx, "fay", nil), ShouldBeNil)

			Convey("Then an update keeps them", func() {
				b, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				var raw map[string]map[string]any
				So(json.Unmarshal(b, &raw), ShouldBeNil)
				So(raw["fay"]["note"], ShouldEqual, "keep me")
				So(raw["fay"]["matched_profiles"], ShouldResemble, []any{})
			})
		})

		Convey("When the file is empty", func() {
			So(os.WriteFile(path, nil, 0o644), ShouldBeNil)
			all, err := repository.NewJSONFileStore(path).Load(ctx)

			Convey("Then it is an empty store", func() {
				So(err, ShouldBeNil)
				So(all, ShouldBeEmpty)
			})
		})

		Convey("When the file is not JSON", func() {
			So(os.WriteFile(path, []byte("{not json"), 0o644), ShouldBeNil)
			_, err := repository.NewJSONFileStore(path).Load(ctx)

			Convey("Then ErrCorruptDocument is returned", func() {
				So(errors.Is(err, repository.ErrCorruptDocument), ShouldBeTrue)
			})
		})
	})

	Convey("Given a path whose parent is a regular file", t, func() {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocker")
		So(os.WriteFile(blocker, []byte("x"), 0o644), ShouldBeNil)
		store := repository.NewJSONFileStore(filepath.Join(blocker, "profiles.json"))

		Convey("When saving", func() {
			err := store.Save(ctx, sampleProfile("gil"))

			Convey("Then the write error surfaces", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

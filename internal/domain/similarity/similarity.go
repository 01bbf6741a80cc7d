// Package similarity finds the historical founders closest to a query using
// a weighted distance over degree level and experience years.
package similarity

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/okian/foundermatch/internal/domain/features"
	"github.com/okian/foundermatch/internal/domain/model"
	"github.com/okian/foundermatch/pkg/logger"
	"github.com/okian/foundermatch/pkg/metrics"
)

// Query is a matcher request.
type Query struct {
	Vector       features.Vector
	DegreeWeight float64 // in [0,1]; experience weight is 1-DegreeWeight
	K            int
}

// Matcher returns the closest historical records to a query.
type Matcher interface {
	// FindMatches returns at most K results ordered by ascending distance.
	FindMatches(ctx context.Context, q Query) ([]model.MatchResult, error)
}

// PeopleDirectory resolves person ids to directory rows.
type PeopleDirectory interface {
	Lookup(personID string) (model.Person, bool)
}

// PeopleMap is a PeopleDirectory backed by a map keyed by object_id.
type PeopleMap map[string]model.Person

// Lookup implements PeopleDirectory.
func (m PeopleMap) Lookup(personID string) (model.Person, bool) {
	p, ok := m[personID]
	return p, ok
}

// WeightedMatcher scans the whole feature set on every query.
type WeightedMatcher struct {
	set    features.FeatureSet
	people PeopleDirectory
	logger logger.Logger
}

// NewWeightedMatcher creates a matcher over an immutable feature set.
func NewWeightedMatcher(set features.FeatureSet, opts ...Option) *WeightedMatcher {
	m := &WeightedMatcher{
		set:    set,
		people: PeopleMap{},
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Distance is the weighted L1 distance on raw, unscaled features.
func Distance(q, v features.Vector, degreeWeight float64) float64 {
	degreeDiff := math.Abs(float64(q.DegreeLevel-v.DegreeLevel)) * degreeWeight
	expDiff := math.Abs(float64(q.ExperienceYears-v.ExperienceYears)) * (1 - degreeWeight)
	return degreeDiff + expDiff
}

type scored struct {
	index    int
	distance float64
}

// FindMatches implements Matcher. An empty feature set yields an empty result.
// K is clamped to [1, set size]; ties keep the feature set's order.
func (m *WeightedMatcher) FindMatches(ctx context.Context, q Query) ([]model.MatchResult, error) {
	if math.IsNaN(q.DegreeWeight) || q.DegreeWeight < 0 || q.DegreeWeight > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWeight, q.DegreeWeight)
	}
	start := time.Now()
	defer func() {
		metrics.RecordMatchLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if m.set.Empty() {
		metrics.RecordMatchRequest("empty_dataset")
		if m.logger != nil {
			m.logger.Warn(ctx, "no historical feature vectors; no matches possible")
		}
		return []model.MatchResult{}, nil
	}

	k := clampK(q.K, m.set.Len())

	distances := make([]scored, m.set.Len())
	for i := range distances {
		_, v := m.set.At(i)
		distances[i] = scored{index: i, distance: Distance(q.Vector, v, q.DegreeWeight)}
	}
	sort.SliceStable(distances, func(a, b int) bool {
		return distances[a].distance < distances[b].distance
	})

	results := make([]model.MatchResult, 0, k)
	for _, d := range distances[:k] {
		rec, v := m.set.At(d.index)
		results = append(results, model.MatchResult{
			Name:            m.displayName(rec.PersonID),
			DegreeType:      rec.DegreeType,
			ExperienceYears: v.ExperienceYears,
			Similarity:      model.SimilarityFromDistance(d.distance),
			ObjectID:        rec.PersonID,
			RecordID:        rec.ID,
			Distance:        d.distance,
		})
	}

	metrics.RecordMatchRequest("ok")
	metrics.ObserveMatchResults(len(results))
	if m.logger != nil {
		m.logger.Debug(ctx, "matches computed",
			logger.Int("candidates", m.set.Len()),
			logger.Int("k", k),
			logger.Float64("degreeWeight", q.DegreeWeight),
		)
	}
	return results, nil
}

// Size returns the number of historical vectors the matcher scans.
func (m *WeightedMatcher) Size() int { return m.set.Len() }

func (m *WeightedMatcher) displayName(personID string) string {
	if p, ok := m.people.Lookup(personID); ok {
		return p.DisplayName()
	}
	return model.UnknownName
}

func clampK(k, total int) int {
	if k < 1 {
		k = 1
	}
	if k > total {
		k = total
	}
	return k
}

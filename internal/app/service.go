// Package service wires the dataset, feature set, matcher, profile store and
// prediction aggregator behind the operations the HTTP API exposes.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/okian/foundermatch/internal/adapters/dataset"
	"github.com/okian/foundermatch/internal/adapters/repository"
	"github.com/okian/foundermatch/internal/domain/features"
	"github.com/okian/foundermatch/internal/domain/model"
	"github.com/okian/foundermatch/internal/domain/prediction"
	"github.com/okian/foundermatch/internal/domain/similarity"
	"github.com/okian/foundermatch/pkg/logger"
	"github.com/okian/foundermatch/pkg/metrics"
)

// MatchOutcome is the result of one search.
type MatchOutcome struct {
	Profile         model.QueryProfile  `json:"profile"`
	ExperienceYears int                 `json:"experience_years"`
	Matches         []model.MatchResult `json:"matches"`
	// Persisted is true when the matches were written to a saved profile.
	Persisted bool `json:"persisted"`
}

// Service implements the API dependencies for profile matching.
//
// The profile store has no concurrency control of its own, so every
// operation touching it runs under mu.
type Service struct {
	mu sync.Mutex

	provider   dataset.Provider
	store      repository.Store
	matcher    *similarity.WeightedMatcher
	aggregator *prediction.Aggregator

	// Configuration
	acquisitionThreshold float64
	ipoThreshold         float64
	topPatterns          int
	defaultWeight        int
	defaultNeighbors     int

	// Profile names, refreshed by the store change listener.
	namesMu sync.RWMutex
	names   map[string]struct{}

	// State
	started   bool
	listening bool
	startedAt time.Time
	features  int
	dropped   int

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		acquisitionThreshold: 10_000_000,
		ipoThreshold:         50_000_000,
		topPatterns:          3,
		defaultWeight:        model.DefaultWeight,
		defaultNeighbors:     model.DefaultNumNeighbors,
		names:                make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start derives the feature set from the dataset and builds the matcher.
// Features are computed once per session.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Nop()
	}
	if s.provider == nil {
		return fmt.Errorf("%w: dataset provider", ErrMissingDependency)
	}
	if s.store == nil {
		return fmt.Errorf("%w: profile store", ErrMissingDependency)
	}

	s.logger.Info(ctx, "starting founder matching service...")

	records, err := s.provider.Education(ctx)
	if err != nil {
		return fmt.Errorf("load education records: %w", err)
	}
	people, err := s.provider.People(ctx)
	if err != nil {
		return fmt.Errorf("load people: %w", err)
	}

	set := features.Derive(records)
	metrics.RecordFeaturesDerived(set.Len(), set.Dropped())
	if set.Empty() {
		s.logger.Warn(ctx, "no usable education records; matches will be empty",
			logger.Int("records", len(records)),
		)
	}

	s.matcher = similarity.NewWeightedMatcher(set,
		similarity.WithPeople(similarity.PeopleMap(people)),
		similarity.WithLogger(s.logger.Named("matcher")),
	)
	s.aggregator = prediction.NewAggregator(
		prediction.WithSuccessThresholds(s.acquisitionThreshold, s.ipoThreshold),
		prediction.WithTopPatterns(s.topPatterns),
		prediction.WithLogger(s.logger.Named("prediction")),
	)

	saved, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load saved profiles: %w", err)
	}
	s.namesMu.Lock()
	for name := range saved {
		s.names[name] = struct{}{}
	}
	s.namesMu.Unlock()
	if !s.listening {
		s.store.OnChange(s.onProfileChange)
		s.listening = true
	}

	s.features = set.Len()
	s.dropped = set.Dropped()
	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "founder matching service started",
		logger.Int("features", set.Len()),
		logger.Int("dropped", set.Dropped()),
		logger.Int("people", len(people)),
		logger.Int("profiles", len(saved)),
	)

	return nil
}

// Stop releases the dataset provider.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping founder matching service...")
	if err := s.provider.Close(); err != nil {
		s.logger.Warn(ctx, "closing dataset provider failed", logger.Error(err))
	}
	s.started = false
	s.logger.Info(ctx, "founder matching service stopped")
}

// QueryDefaults returns the weight and neighbor count applied to requests
// that omit them.
func (s *Service) QueryDefaults() (weight, neighbors int) {
	return s.defaultWeight, s.defaultNeighbors
}

// SaveProfile validates q and upserts it with no matches.
func (s *Service) SaveProfile(ctx context.Context, q model.QueryProfile) (model.SavedProfile, error) {
	if err := q.ValidateForSave(); err != nil {
		return model.SavedProfile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return model.SavedProfile{}, ErrNotStarted
	}

	p := model.NewSavedProfile(q)
	if err := s.store.Save(ctx, p); err != nil {
		return model.SavedProfile{}, err
	}
	return p, nil
}

// FindMatches runs the matcher without touching the store.
func (s *Service) FindMatches(ctx context.Context, q model.QueryProfile) (MatchOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.findMatchesLocked(ctx, q)
}

// Match runs the matcher and, when q names a saved profile, replaces that
// profile's matches. An unknown name is not an error: the matches are
// returned with Persisted unset.
func (s *Service) Match(ctx context.Context, q model.QueryProfile) (MatchOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.findMatchesLocked(ctx, q)
	if err != nil {
		return MatchOutcome{}, err
	}
	if q.Name == "" {
		return out, nil
	}

	err = s.store.UpdateMatches(ctx, q.Name, out.Matches)
	switch {
	case err == nil:
		out.Persisted = true
	case errors.Is(err, repository.ErrNotFound):
		s.logger.Warn(ctx, "matches not saved: profile does not exist",
			logger.String("profile", q.Name),
		)
	default:
		return MatchOutcome{}, err
	}
	return out, nil
}

// MatchStored reruns the matcher for a saved profile's inputs and persists
// the new matches.
func (s *Service) MatchStored(ctx context.Context, name string) (MatchOutcome, error) {
	p, err := s.Profile(ctx, name)
	if err != nil {
		return MatchOutcome{}, err
	}
	q := p.QueryProfile
	q.Name = name
	return s.Match(ctx, q)
}

func (s *Service) findMatchesLocked(ctx context.Context, q model.QueryProfile) (MatchOutcome, error) {
	if !s.started {
		return MatchOutcome{}, ErrNotStarted
	}
	if err := q.Validate(); err != nil {
		metrics.RecordMatchRequest("invalid")
		return MatchOutcome{}, err
	}
	grad, created, err := q.Years()
	if err != nil {
		return MatchOutcome{}, err
	}

	matches, err := s.matcher.FindMatches(ctx, similarity.Query{
		Vector:       features.QueryVector(q.DegreeType, grad, created),
		DegreeWeight: q.DegreeWeight(),
		K:            q.NumNeighbors,
	})
	if err != nil {
		return MatchOutcome{}, err
	}

	return MatchOutcome{
		Profile:         q,
		ExperienceYears: created - grad,
		Matches:         matches,
	}, nil
}

// Profile returns one saved profile.
func (s *Service) Profile(ctx context.Context, name string) (model.SavedProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return model.SavedProfile{}, ErrNotStarted
	}
	return s.store.Get(ctx, name)
}

// ProfileNames returns the cached saved profile names, sorted.
func (s *Service) ProfileNames() []string {
	s.namesMu.RLock()
	defer s.namesMu.RUnlock()

	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// ProfileSummaries describes every saved profile, sorted by name.
func (s *Service) ProfileSummaries(ctx context.Context) ([]model.ProfileSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	saved, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.ProfileSummary, 0, len(saved))
	for _, p := range saved {
		out = append(out, p.Summarize())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Predict aggregates outcome statistics for a saved profile's matches
// against a fresh pull of the historical tables.
func (s *Service) Predict(ctx context.Context, name string) (model.PredictionReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return model.PredictionReport{}, ErrNotStarted
	}

	p, err := s.store.Get(ctx, name)
	if err != nil {
		return model.PredictionReport{}, err
	}
	if len(p.MatchedProfiles) == 0 {
		return s.aggregator.Predict(ctx, p, prediction.Snapshot{}), nil
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return model.PredictionReport{}, err
	}
	return s.aggregator.Predict(ctx, p, snap), nil
}

func (s *Service) snapshot(ctx context.Context) (prediction.Snapshot, error) {
	var (
		snap prediction.Snapshot
		err  error
	)
	if snap.Education, err = s.provider.Education(ctx); err != nil {
		return snap, fmt.Errorf("load education records: %w", err)
	}
	if snap.Relationships, err = s.provider.Relationships(ctx); err != nil {
		return snap, fmt.Errorf("load relationships: %w", err)
	}
	if snap.FundingRounds, err = s.provider.FundingRounds(ctx); err != nil {
		return snap, fmt.Errorf("load funding rounds: %w", err)
	}
	if snap.Acquisitions, err = s.provider.Acquisitions(ctx); err != nil {
		return snap, fmt.Errorf("load acquisitions: %w", err)
	}
	if snap.IPOs, err = s.provider.IPOs(ctx); err != nil {
		return snap, fmt.Errorf("load ipos: %w", err)
	}
	return snap, nil
}

func (s *Service) onProfileChange(ctx context.Context, ev repository.ChangeEvent) {
	s.namesMu.Lock()
	s.names[ev.Name] = struct{}{}
	n := len(s.names)
	s.namesMu.Unlock()

	s.logger.Debug(ctx, "profile list refreshed",
		logger.String("op", string(ev.Op)),
		logger.String("profile", ev.Name),
		logger.Int("profiles", n),
	)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"defaultWeight":    s.defaultWeight,
		"defaultNeighbors": s.defaultNeighbors,
	}
	if s.started {
		s.namesMu.RLock()
		stats["profiles"] = len(s.names)
		s.namesMu.RUnlock()
		stats["featureVectors"] = s.features
		stats["droppedRecords"] = s.dropped
		stats["uptimeSeconds"] = int(time.Since(s.startedAt).Seconds())
	}
	return stats
}

// Package prediction turns a saved profile's matched founders into outcome
// statistics: education patterns, exit rates and funding patterns.
package prediction

import (
	"context"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/okian/foundermatch/internal/domain/model"
	"github.com/okian/foundermatch/pkg/logger"
	"github.com/okian/foundermatch/pkg/metrics"
)

// Default aggregation constants.
const (
	defaultAcquisitionThreshold = 10_000_000
	defaultIPOThreshold         = 50_000_000
	defaultTopPatterns          = 3
	unknownField                = "Unknown"
)

// Snapshot is the set of historical tables an aggregation joins against.
type Snapshot struct {
	Education     []model.EducationRecord
	Relationships []model.Relationship
	FundingRounds []model.FundingRound
	Acquisitions  []model.Acquisition
	IPOs          []model.IPO
}

// Aggregator computes PredictionReports.
type Aggregator struct {
	acquisitionThreshold float64
	ipoThreshold         float64
	topPatterns          int
	logger               logger.Logger
}

// NewAggregator creates an aggregator with configuration options.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		acquisitionThreshold: defaultAcquisitionThreshold,
		ipoThreshold:         defaultIPOThreshold,
		topPatterns:          defaultTopPatterns,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// index holds per-key lookups built once per prediction.
type index struct {
	educationByPerson map[string][]model.EducationRecord
	foundedByPerson   map[string][]string
	roundsByCompany   map[string][]model.FundingRound
	acquisition       map[string]model.Acquisition
	ipo               map[string]model.IPO
}

func buildIndex(s Snapshot) index {
	idx := index{
		educationByPerson: make(map[string][]model.EducationRecord),
		foundedByPerson:   make(map[string][]string),
		roundsByCompany:   make(map[string][]model.FundingRound),
		acquisition:       make(map[string]model.Acquisition),
		ipo:               make(map[string]model.IPO),
	}
	for _, e := range s.Education {
		idx.educationByPerson[e.PersonID] = append(idx.educationByPerson[e.PersonID], e)
	}
	for _, r := range s.Relationships {
		if r.IsFounder() {
			idx.foundedByPerson[r.PersonID] = append(idx.foundedByPerson[r.PersonID], r.CompanyID)
		}
	}
	for _, f := range s.FundingRounds {
		idx.roundsByCompany[f.CompanyID] = append(idx.roundsByCompany[f.CompanyID], f)
	}
	for id, rounds := range idx.roundsByCompany {
		sortRounds(rounds)
		idx.roundsByCompany[id] = rounds
	}
	// Only the first row per company takes part in the threshold check.
	for _, a := range s.Acquisitions {
		if _, ok := idx.acquisition[a.CompanyID]; !ok {
			idx.acquisition[a.CompanyID] = a
		}
	}
	for _, i := range s.IPOs {
		if _, ok := idx.ipo[i.CompanyID]; !ok {
			idx.ipo[i.CompanyID] = i
		}
	}
	return idx
}

// sortRounds orders rounds by funding date; undated rounds go last.
func sortRounds(rounds []model.FundingRound) {
	sort.SliceStable(rounds, func(i, j int) bool {
		a, b := rounds[i].FundedAt, rounds[j].FundedAt
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.Before(b)
	})
}

// Predict aggregates outcomes for the profile's matched people.
func (a *Aggregator) Predict(ctx context.Context, profile model.SavedProfile, snap Snapshot) model.PredictionReport {
	start := time.Now()
	defer func() {
		metrics.RecordPredictionLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	personIDs := profile.PersonIDs()
	report := model.PredictionReport{
		ProfileName:       profile.Name,
		BasedOn:           len(personIDs),
		EducationPatterns: []model.EducationPattern{},
		Recommendations:   []string{},
	}
	if len(personIDs) == 0 {
		report.NoMatches = true
		metrics.RecordPrediction("no_matches")
		return report
	}

	idx := buildIndex(snap)

	patterns := educationPatterns(personIDs, idx)
	if len(patterns) > a.topPatterns {
		report.EducationPatterns = patterns[:a.topPatterns]
	} else {
		report.EducationPatterns = patterns
	}

	var (
		totalFunding float64
		roundCounts  []int
	)
	for _, personID := range personIDs {
		for _, companyID := range idx.foundedByPerson[personID] {
			if rounds := idx.roundsByCompany[companyID]; len(rounds) > 0 {
				for _, r := range rounds {
					if r.RaisedAmountUSD.Valid {
						totalFunding += r.RaisedAmountUSD.Value
					}
				}
				roundCounts = append(roundCounts, len(rounds))
			}

			acq, acquired := idx.acquisition[companyID]
			ipo, listed := idx.ipo[companyID]
			if !acquired && !listed {
				continue
			}
			report.TotalExits++
			switch {
			case acquired && acq.Price.Exceeds(a.acquisitionThreshold):
				report.SuccessfulExits++
			case listed && ipo.Valuation.Exceeds(a.ipoThreshold):
				report.SuccessfulExits++
			}
		}
	}

	if report.TotalExits > 0 {
		rate := float64(report.SuccessfulExits) / float64(report.TotalExits) * 100
		report.ExitSuccessRate = &rate
	}

	report.FundedCompanies = len(roundCounts)
	if len(roundCounts) > 0 {
		sum := 0
		for _, c := range roundCounts {
			sum += c
		}
		avgRounds := float64(sum) / float64(len(roundCounts))
		avgFunding := totalFunding / float64(len(roundCounts))
		report.AverageFundingRounds = &avgRounds
		report.AverageTotalFunding = &avgFunding
	}

	report.Recommendations = recommendations(patterns, report)

	metrics.RecordPrediction("ok")
	if a.logger != nil {
		a.logger.Debug(ctx, "prediction computed",
			logger.String("profile", profile.Name),
			logger.Int("basedOn", report.BasedOn),
			logger.Int("totalExits", report.TotalExits),
			logger.Int("successfulExits", report.SuccessfulExits),
			logger.Int("fundedCompanies", report.FundedCompanies),
		)
	}
	return report
}

// educationPatterns counts "<degree> in <subject>" keys, most frequent first;
// ties keep first-encountered order.
func educationPatterns(personIDs []string, idx index) []model.EducationPattern {
	counts := make(map[string]int)
	var order []string
	for _, personID := range personIDs {
		for _, e := range idx.educationByPerson[personID] {
			key := orUnknown(e.DegreeType) + " in " + orUnknown(e.Subject)
			if _, seen := counts[key]; !seen {
				order = append(order, key)
			}
			counts[key]++
		}
	}
	out := make([]model.EducationPattern, len(order))
	for i, key := range order {
		out[i] = model.EducationPattern{Pattern: key, Count: counts[key]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func recommendations(patterns []model.EducationPattern, report model.PredictionReport) []string {
	recs := []string{}
	if len(patterns) > 0 {
		recs = append(recs, "Consider "+patterns[0].Pattern+" as it's common among successful founders")
	}
	if report.AverageFundingRounds != nil {
		recs = append(recs, "Plan for approximately "+strconv.Itoa(int(math.RoundToEven(*report.AverageFundingRounds)))+" funding rounds")
	}
	if report.SuccessfulExits > 0 {
		recs = append(recs, "Focus on building significant value for potential exit opportunities")
	}
	return recs
}

func orUnknown(s string) string {
	if s == "" {
		return unknownField
	}
	return s
}

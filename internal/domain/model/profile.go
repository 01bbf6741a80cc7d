package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Defaults applied to profiles persisted without weight or neighbor count.
const (
	DefaultWeight       = 50
	DefaultNumNeighbors = 5
)

// QueryProfile is one user-entered query. Years are kept as the text the
// user typed so they round-trip through the profile document unchanged.
type QueryProfile struct {
	Name           string `json:"name" validate:"max=200"`
	DegreeType     string `json:"degree_type" validate:"required,max=64"`
	GraduationYear string `json:"graduation_year" validate:"required,number,len=4"`
	CreationYear   string `json:"creation_year" validate:"required,number,len=4"`
	Weight         int    `json:"weight" validate:"min=0,max=100"`
	NumNeighbors   int    `json:"num_neighbors" validate:"min=1,max=100"`
}

// Years parses graduation and creation years.
func (q QueryProfile) Years() (graduation, creation int, err error) {
	graduation, err = strconv.Atoi(strings.TrimSpace(q.GraduationYear))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: graduation_year %q", ErrInvalidYear, q.GraduationYear)
	}
	creation, err = strconv.Atoi(strings.TrimSpace(q.CreationYear))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: creation_year %q", ErrInvalidYear, q.CreationYear)
	}
	return graduation, creation, nil
}

// ExperienceYears is creation year minus graduation year; may be negative.
func (q QueryProfile) ExperienceYears() (int, error) {
	g, c, err := q.Years()
	if err != nil {
		return 0, err
	}
	return c - g, nil
}

// DegreeWeight converts the 0-100 slider value to [0,1].
func (q QueryProfile) DegreeWeight() float64 {
	return float64(q.Weight) / 100
}

// Similarity is the reciprocal of a weighted distance. Distance zero yields +Inf.
type Similarity float64

const infinityLiteral = "Infinity"

// SimilarityFromDistance returns 1/distance, or +Inf at distance 0.
func SimilarityFromDistance(distance float64) Similarity {
	if distance == 0 {
		return Similarity(math.Inf(1))
	}
	return Similarity(1 / distance)
}

// IsInf reports whether the similarity is the infinite sentinel.
func (s Similarity) IsInf() bool { return math.IsInf(float64(s), 1) }

// MarshalJSON writes finite values as numbers and the infinite sentinel as
// the string "Infinity", which strict JSON cannot express as a number.
func (s Similarity) MarshalJSON() ([]byte, error) {
	f := float64(s)
	switch {
	case math.IsInf(f, 1):
		return []byte(`"` + infinityLiteral + `"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-` + infinityLiteral + `"`), nil
	case math.IsNaN(f):
		return []byte(`"NaN"`), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

// UnmarshalJSON accepts numbers and the string forms written by MarshalJSON.
func (s *Similarity) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*s = 0
		return nil
	}
	raw = strings.Trim(raw, `"`)
	switch strings.ToLower(raw) {
	case "infinity", "+infinity", "inf", "+inf":
		*s = Similarity(math.Inf(1))
		return nil
	case "-infinity", "-inf":
		*s = Similarity(math.Inf(-1))
		return nil
	case "nan":
		*s = Similarity(math.NaN())
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("similarity %q: %w", raw, err)
	}
	*s = Similarity(f)
	return nil
}

// MatchResult is one historical record judged similar to a query.
type MatchResult struct {
	Name            string     `json:"name"`
	DegreeType      string     `json:"degree_type"`
	ExperienceYears int        `json:"experience_years"`
	Similarity      Similarity `json:"similarity"`
	ObjectID        string     `json:"object_id"`
	RecordID        string     `json:"record_id,omitempty"`
	Distance        float64    `json:"distance,omitempty"`
}

// SavedProfile is a persisted query together with its matches.
type SavedProfile struct {
	QueryProfile
	MatchedProfiles []MatchResult `json:"matched_profiles"`
}

// NewSavedProfile wraps a query with no matches.
func NewSavedProfile(q QueryProfile) SavedProfile {
	return SavedProfile{QueryProfile: q, MatchedProfiles: []MatchResult{}}
}

// PersonIDs returns the person ids referenced by the matches, in match order.
// Duplicates are kept: a person matched through two degrees counts twice.
func (p SavedProfile) PersonIDs() []string {
	ids := make([]string, 0, len(p.MatchedProfiles))
	for _, m := range p.MatchedProfiles {
		ids = append(ids, m.ObjectID)
	}
	return ids
}

// ProfileSummary is the one-line description shown when picking a profile.
type ProfileSummary struct {
	Name            string `json:"name"`
	DegreeType      string `json:"degree_type"`
	ExperienceYears *int   `json:"experience_years,omitempty"`
	Matches         int    `json:"matches"`
}

// Summarize builds a ProfileSummary; experience is omitted when years do not parse.
func (p SavedProfile) Summarize() ProfileSummary {
	s := ProfileSummary{Name: p.Name, DegreeType: p.DegreeType, Matches: len(p.MatchedProfiles)}
	if exp, err := p.ExperienceYears(); err == nil {
		s.ExperienceYears = &exp
	}
	return s
}

// String renders "<name> - <degree>, <n> years experience".
func (s ProfileSummary) String() string {
	if s.ExperienceYears == nil {
		return fmt.Sprintf("%s - %s", s.Name, s.DegreeType)
	}
	return fmt.Sprintf("%s - %s, %d years experience", s.Name, s.DegreeType, *s.ExperienceYears)
}

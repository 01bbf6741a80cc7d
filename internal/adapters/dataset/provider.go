// Package dataset exposes the historical founder tables the engine reads:
// education records, people, founder relationships, funding rounds,
// acquisitions and IPOs. Sources are read-only.
package dataset

import (
	"context"

	"github.com/okian/foundermatch/internal/domain/model"
)

// Provider returns bounded snapshots of the historical tables.
type Provider interface {
	Education(ctx context.Context) ([]model.EducationRecord, error)
	// People is keyed by object_id.
	People(ctx context.Context) (map[string]model.Person, error)
	Relationships(ctx context.Context) ([]model.Relationship, error)
	FundingRounds(ctx context.Context) ([]model.FundingRound, error)
	Acquisitions(ctx context.Context) ([]model.Acquisition, error)
	IPOs(ctx context.Context) ([]model.IPO, error)
	Close() error
}

// Tables is an in-memory Provider.
type Tables struct {
	EducationRows    []model.EducationRecord
	PeopleRows       []model.Person
	RelationshipRows []model.Relationship
	FundingRows      []model.FundingRound
	AcquisitionRows  []model.Acquisition
	IPORows          []model.IPO
}

var _ Provider = (*Tables)(nil)

// Education implements Provider.
func (t *Tables) Education(context.Context) ([]model.EducationRecord, error) {
	return append([]model.EducationRecord(nil), t.EducationRows...), nil
}

// People implements Provider. Later rows win on duplicate ids.
func (t *Tables) People(context.Context) (map[string]model.Person, error) {
	out := make(map[string]model.Person, len(t.PeopleRows))
	for _, p := range t.PeopleRows {
		out[p.ObjectID] = p
	}
	return out, nil
}

// Relationships implements Provider.
func (t *Tables) Relationships(context.Context) ([]model.Relationship, error) {
	return append([]model.Relationship(nil), t.RelationshipRows...), nil
}

// FundingRounds implements Provider.
func (t *Tables) FundingRounds(context.Context) ([]model.FundingRound, error) {
	return append([]model.FundingRound(nil), t.FundingRows...), nil
}

// Acquisitions implements Provider.
func (t *Tables) Acquisitions(context.Context) ([]model.Acquisition, error) {
	return append([]model.Acquisition(nil), t.AcquisitionRows...), nil
}

// IPOs implements Provider.
func (t *Tables) IPOs(context.Context) ([]model.IPO, error) {
	return append([]model.IPO(nil), t.IPORows...), nil
}

// Close implements Provider.
func (t *Tables) Close() error { return nil }

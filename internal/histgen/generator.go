package histgen

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/okian/foundermatch/internal/adapters/dataset"
	"github.com/okian/foundermatch/internal/domain/model"
)

const (
	day             = 24 * time.Hour
	graduationSpan  = 25 * 365 // days after Epoch
	absentRatio     = 0.1
	coFounderRatio  = 0.25
	acquisitionBias = 0.7 // share of exits that are acquisitions
	pcgStream       = 0x9e3779b97f4a7c15
)

var (
	firstNames   = []string{"Ada", "Grace", "Alan", "Linus", "Margaret", "Ken", "Barbara", "Dennis", "Frances", "Edsger", "Radia", "Tim"}
	lastNames    = []string{"Lovelace", "Hopper", "Turing", "Torvalds", "Hamilton", "Thompson", "Liskov", "Ritchie", "Allen", "Dijkstra", "Perlman", "Berners-Lee"}
	degreeTypes  = []string{"BS", "BA", "MS", "MBA", "PhD", "JD"}
	subjects     = []string{"Computer Science", "Electrical Engineering", "Business", "Economics", "Mathematics", "Physics", "Law"}
	institutions = []string{"Stanford University", "MIT", "Harvard University", "UC Berkeley", "Carnegie Mellon University", "Caltech", "Wharton"}
	founderRoles = []string{"Founder", "Co-Founder", "Co-Founder & CEO", "Founder and CTO"}
	otherRoles   = []string{"CEO", "CTO", "VP Engineering", "Board Member", "Advisor"}
	roundCodes   = []string{"angel", "seed", "a", "b", "c", "d"}
)

// Validate reports whether c can produce a history.
func (c Config) Validate() error {
	switch {
	case c.People <= 0:
		return fmt.Errorf("%w: people must be positive", ErrInvalidConfig)
	case c.FounderRatio < 0 || c.FounderRatio > 1:
		return fmt.Errorf("%w: founder ratio must be within [0,1]", ErrInvalidConfig)
	case c.ExitRatio < 0 || c.ExitRatio > 1:
		return fmt.Errorf("%w: exit ratio must be within [0,1]", ErrInvalidConfig)
	case c.DegreesPerPerson < 1:
		return fmt.Errorf("%w: degrees per person must be at least 1", ErrInvalidConfig)
	case c.RoundsPerCompany < 0:
		return fmt.Errorf("%w: rounds per company must not be negative", ErrInvalidConfig)
	}
	return nil
}

type generator struct {
	cfg       Config
	rnd       *rand.Rand
	out       *dataset.Tables
	degreeSeq int
	companies int
}

// Generate builds a deterministic history from cfg.
func Generate(cfg Config) (*dataset.Tables, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Epoch.IsZero() {
		cfg.Epoch = DefaultConfig().Epoch
	}
	g := &generator{
		cfg: cfg,
		rnd: rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^pcgStream)),
		out: &dataset.Tables{},
	}

	lastCompany := ""
	for i := 1; i <= cfg.People; i++ {
		id := "p:" + strconv.Itoa(i)
		g.out.PeopleRows = append(g.out.PeopleRows, model.Person{
			ObjectID:        id,
			FirstName:       pick(g.rnd, firstNames),
			LastName:        pick(g.rnd, lastNames),
			AffiliationName: pick(g.rnd, institutions),
		})
		graduated := g.degrees(id)

		if g.rnd.Float64() >= cfg.FounderRatio {
			g.out.RelationshipRows = append(g.out.RelationshipRows, model.Relationship{
				PersonID:  id,
				CompanyID: g.anyCompany(),
				Title:     pick(g.rnd, otherRoles),
			})
			continue
		}

		company := lastCompany
		if company == "" || g.rnd.Float64() >= coFounderRatio {
			company = g.company(graduated)
		}
		lastCompany = company
		g.out.RelationshipRows = append(g.out.RelationshipRows, model.Relationship{
			PersonID:  id,
			CompanyID: company,
			Title:     pick(g.rnd, founderRoles),
		})
	}
	return g.out, nil
}

// degrees appends the person's degrees and returns the latest graduation.
func (g *generator) degrees(personID string) time.Time {
	n := 1 + g.rnd.IntN(g.cfg.DegreesPerPerson)
	graduated := g.cfg.Epoch.Add(time.Duration(g.rnd.IntN(graduationSpan)) * day)
	for range n {
		g.degreeSeq++
		rec := model.EducationRecord{
			ID:          strconv.Itoa(g.degreeSeq),
			PersonID:    personID,
			DegreeType:  pick(g.rnd, degreeTypes),
			Subject:     pick(g.rnd, subjects),
			Institution: pick(g.rnd, institutions),
			GraduatedAt: graduated,
			CreatedAt:   graduated.Add(time.Duration(30+g.rnd.IntN(3650)) * day),
		}
		if g.rnd.Float64() < absentRatio {
			rec.CreatedAt = time.Time{}
		}
		if g.rnd.Float64() < absentRatio {
			rec.GraduatedAt = time.Time{}
		}
		if !rec.CreatedAt.IsZero() && g.rnd.Float64() < 0.5 {
			rec.UpdatedAt = rec.CreatedAt.Add(time.Duration(g.rnd.IntN(365)) * day)
		}
		g.out.EducationRows = append(g.out.EducationRows, rec)
		graduated = graduated.Add(time.Duration(365+g.rnd.IntN(3*365)) * day)
	}
	return graduated
}

// company creates a company founded after since, with its rounds and exit.
func (g *generator) company(since time.Time) string {
	g.companies++
	id := "c:" + strconv.Itoa(g.companies)

	funded := since.Add(time.Duration(g.rnd.IntN(5*365)) * day)
	rounds := g.rnd.IntN(g.cfg.RoundsPerCompany + 1)
	for i := range rounds {
		usd := g.amount(5, 2.5) // 1e5 .. ~3e7
		round := model.FundingRound{
			CompanyID:       id,
			FundedAt:        funded,
			RaisedAmountUSD: usd,
			RaisedAmount:    usd,
			RoundCode:       roundCodes[min(i, len(roundCodes)-1)],
		}
		if g.rnd.Float64() < 0.5 {
			round.PreMoneyValuationUSD = g.amount(6, 3)
		}
		g.out.FundingRows = append(g.out.FundingRows, round)
		funded = funded.Add(time.Duration(180+g.rnd.IntN(2*365)) * day)
	}

	if g.rnd.Float64() < g.cfg.ExitRatio {
		if g.rnd.Float64() < acquisitionBias {
			g.out.AcquisitionRows = append(g.out.AcquisitionRows, model.Acquisition{
				CompanyID: id,
				Price:     g.amount(6, 3.5),
			})
		} else {
			g.out.IPORows = append(g.out.IPORows, model.IPO{
				CompanyID: id,
				Valuation: g.amount(7, 3),
			})
		}
	}
	return id
}

// anyCompany returns an existing company, or a new one when none exist.
func (g *generator) anyCompany() string {
	if g.companies == 0 {
		return g.company(g.cfg.Epoch)
	}
	return "c:" + strconv.Itoa(1+g.rnd.IntN(g.companies))
}

// amount draws 10^(exp + U[0,spread)), absent absentRatio of the time.
func (g *generator) amount(exp, spread float64) model.Amount {
	if g.rnd.Float64() < absentRatio {
		return model.Amount{}
	}
	return model.KnownAmount(math.Round(math.Pow(10, exp+g.rnd.Float64()*spread)))
}

func pick(r *rand.Rand, values []string) string {
	return values[r.IntN(len(values))]
}

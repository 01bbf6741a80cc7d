package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/okian/foundermatch/internal/domain/model"
	"github.com/okian/foundermatch/pkg/logger"
	"github.com/okian/foundermatch/pkg/metrics"
)

const defaultRowLimit = 5000

// resolver maps a table to the goqu FROM expression of a source. ok is false
// when the table is absent, which reads as an empty table.
type resolver func(ctx context.Context, t Table) (from any, ok bool, err error)

// SQLSource is a Provider over a database/sql connection. Every value is
// scanned as nullable text and parsed here, so all backends behave alike.
type SQLSource struct {
	name     string
	db       *sql.DB
	qb       *goqu.Database
	resolve  resolver
	rowLimit int
	logger   logger.Logger
}

var _ Provider = (*SQLSource)(nil)

func newSQLSource(name string, db *sql.DB, dialect string, resolve resolver, opts ...Option) *SQLSource {
	s := &SQLSource{
		name:     name,
		db:       db,
		qb:       goqu.New(dialect, db),
		resolve:  resolve,
		rowLimit: defaultRowLimit,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// cells reads one scanned row, indexed like Table.Columns. Values that fail
// to parse read as absent and are tallied in bad.
type cells struct {
	row []sql.NullString
	bad int
}

func (c *cells) text(i int) string { return text(c.row[i]) }

func (c *cells) date(i int) time.Time {
	t, err := parseDate(c.row[i])
	if err != nil {
		c.bad++
	}
	return t
}

func (c *cells) amount(i int) model.Amount {
	a, err := parseAmount(c.row[i])
	if err != nil {
		c.bad++
	}
	return a
}

// rowFunc receives one row. A non-nil error marks the row as malformed; it
// is skipped and counted.
type rowFunc func(c *cells) error

func (s *SQLSource) scan(ctx context.Context, t Table, fn rowFunc) error {
	start := time.Now()

	from, ok, err := s.resolve(ctx, t)
	if err != nil {
		metrics.RecordErrorByComponent("dataset", "query")
		return fmt.Errorf("%w %s: %w", ErrQueryTable, t.Name, err)
	}
	if !ok {
		if s.logger != nil {
			s.logger.Warn(ctx, "dataset table missing, treating as empty",
				logger.String("source", s.name),
				logger.String("table", t.Name),
			)
		}
		metrics.RecordDatasetRows(t.Name, 0)
		return nil
	}

	cols := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = goqu.C(c)
	}
	ds := s.qb.From(from).Select(cols...)
	if s.rowLimit > 0 {
		ds = ds.Limit(uint(s.rowLimit))
	}
	query, args, err := ds.ToSQL()
	if err != nil {
		return fmt.Errorf("%w %s: build query: %w", ErrQueryTable, t.Name, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.RecordErrorByComponent("dataset", "query")
		return fmt.Errorf("%w %s: %w", ErrQueryTable, t.Name, err)
	}
	defer rows.Close()

	c := &cells{row: make([]sql.NullString, len(t.Columns))}
	dest := make([]any, len(c.row))
	for i := range c.row {
		dest[i] = &c.row[i]
	}

	var n, malformed, badValues int
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("%w %s: scan: %w", ErrQueryTable, t.Name, err)
		}
		c.bad = 0
		err := fn(c)
		badValues += c.bad
		if err != nil {
			malformed++
			continue
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w %s: %w", ErrQueryTable, t.Name, err)
	}

	metrics.RecordDatasetRows(t.Name, n)
	metrics.RecordErrorsByComponent("dataset", "malformed_row", malformed)
	metrics.RecordErrorsByComponent("dataset", "bad_value", badValues)
	if s.logger != nil {
		fields := []logger.Field{
			logger.String("source", s.name),
			logger.String("table", t.Name),
			logger.Int("rows", n),
			logger.Float64("elapsed_ms", float64(time.Since(start).Microseconds())/1000),
		}
		if malformed > 0 {
			fields = append(fields, logger.Int("malformed", malformed))
		}
		if badValues > 0 {
			fields = append(fields, logger.Int("bad_values", badValues))
		}
		s.logger.Debug(ctx, "dataset table loaded", fields...)
	}
	return nil
}

// Education implements Provider. Unparsable dates read as absent; feature
// derivation drops those records.
func (s *SQLSource) Education(ctx context.Context) ([]model.EducationRecord, error) {
	var out []model.EducationRecord
	err := s.scan(ctx, EducationTable, func(c *cells) error {
		out = append(out, model.EducationRecord{
			ID:          c.text(0),
			PersonID:    c.text(1),
			DegreeType:  c.text(2),
			Subject:     c.text(3),
			Institution: c.text(4),
			GraduatedAt: c.date(5),
			CreatedAt:   c.date(6),
			UpdatedAt:   c.date(7),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// People implements Provider.
func (s *SQLSource) People(ctx context.Context) (map[string]model.Person, error) {
	out := make(map[string]model.Person)
	err := s.scan(ctx, PeopleTable, func(c *cells) error {
		p := model.Person{
			ObjectID:        c.text(0),
			FirstName:       c.text(1),
			LastName:        c.text(2),
			AffiliationName: c.text(3),
		}
		if p.ObjectID == "" {
			return fmt.Errorf("%w: person without object_id", ErrBadValue)
		}
		out[p.ObjectID] = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Relationships implements Provider.
func (s *SQLSource) Relationships(ctx context.Context) ([]model.Relationship, error) {
	var out []model.Relationship
	err := s.scan(ctx, RelationshipsTable, func(c *cells) error {
		out = append(out, model.Relationship{
			PersonID:  c.text(0),
			CompanyID: c.text(1),
			Title:     c.text(2),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FundingRounds implements Provider. Unparsable amounts read as absent; the
// round itself is kept.
func (s *SQLSource) FundingRounds(ctx context.Context) ([]model.FundingRound, error) {
	var out []model.FundingRound
	err := s.scan(ctx, FundingRoundsTable, func(c *cells) error {
		out = append(out, model.FundingRound{
			CompanyID:            c.text(0),
			FundedAt:             c.date(1),
			RaisedAmountUSD:      c.amount(2),
			RaisedAmount:         c.amount(3),
			PreMoneyValuationUSD: c.amount(4),
			RoundCode:            c.text(5),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Acquisitions implements Provider. An unparsable price reads as absent so
// the exit still counts.
func (s *SQLSource) Acquisitions(ctx context.Context) ([]model.Acquisition, error) {
	var out []model.Acquisition
	err := s.scan(ctx, AcquisitionsTable, func(c *cells) error {
		out = append(out, model.Acquisition{CompanyID: c.text(0), Price: c.amount(1)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// IPOs implements Provider. An unparsable valuation reads as absent.
func (s *SQLSource) IPOs(ctx context.Context) ([]model.IPO, error) {
	var out []model.IPO
	err := s.scan(ctx, IPOsTable, func(c *cells) error {
		out = append(out, model.IPO{CompanyID: c.text(0), Valuation: c.amount(1)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Close releases the underlying connection.
func (s *SQLSource) Close() error {
	return s.db.Close()
}

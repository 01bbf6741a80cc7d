package dataset

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	_ "github.com/mattn/go-sqlite3"
)

// OpenSQLite reads the historical tables from a SQLite database. Tables the
// database lacks read as empty.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLSource, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: sqlite %s: %w", ErrOpenSource, path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: sqlite %s: %w", ErrOpenSource, path, err)
	}
	return NewSQLiteSource(db, opts...), nil
}

// NewSQLiteSource wraps an already open SQLite connection.
func NewSQLiteSource(db *sql.DB, opts ...Option) *SQLSource {
	qb := goqu.New("sqlite3", db)
	resolve := func(ctx context.Context, t Table) (any, bool, error) {
		query, args, err := qb.From("sqlite_master").
			Select(goqu.COUNT(goqu.Star())).
			Where(goqu.Ex{"type": []string{"table", "view"}, "name": t.Name}).
			ToSQL()
		if err != nil {
			return nil, false, err
		}
		var n int
		if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
			return nil, false, err
		}
		return goqu.T(t.Name), n > 0, nil
	}
	return newSQLSource("sqlite", db, "sqlite3", resolve, opts...)
}

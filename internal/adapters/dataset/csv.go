package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/duckdb/duckdb-go/v2"
)

// OpenCSV reads the historical tables from <dir>/<table>.csv through an
// in-memory DuckDB connection. A missing file is an empty table.
func OpenCSV(ctx context.Context, dir string, opts ...Option) (*SQLSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: csv dir %s: %w", ErrOpenSource, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: csv dir %s is not a directory", ErrOpenSource, dir)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("%w: duckdb: %w", ErrOpenSource, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: duckdb: %w", ErrOpenSource, err)
	}

	resolve := func(_ context.Context, t Table) (any, bool, error) {
		path := filepath.Join(dir, t.Name+".csv")
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, false, nil
			}
			return nil, false, err
		}
		return goqu.L("read_csv(?, header = true, all_varchar = true)", path), true, nil
	}

	return newSQLSource("csv", db, "postgres", resolve, opts...), nil
}

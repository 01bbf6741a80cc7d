package histgen

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	_ "github.com/mattn/go-sqlite3"

	"github.com/okian/foundermatch/internal/adapters/dataset"
	"github.com/okian/foundermatch/pkg/logger"
)

const (
	dirPermission = 0o755
	insertBatch   = 500
)

// Write stores t in dest using format: a directory of <table>.csv files for
// FormatCSV, a database file for FormatSQLite.
func Write(ctx context.Context, format, dest string, t *dataset.Tables, opts ...Option) error {
	switch format {
	case FormatCSV:
		return WriteCSV(ctx, dest, t, opts...)
	case FormatSQLite:
		return WriteSQLite(ctx, dest, t, opts...)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteCSV writes one headered CSV file per table into dir. Tables without
// rows are skipped; readers treat a missing file as an empty table.
func WriteCSV(ctx context.Context, dir string, t *dataset.Tables, opts ...Option) error {
	o := newWriteOptions(opts)
	if err := os.MkdirAll(dir, dirPermission); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	for _, table := range dataset.AllTables() {
		if err := ctx.Err(); err != nil {
			return err
		}
		data := rows(t, table)
		if len(data) == 0 {
			continue
		}
		path := filepath.Join(dir, table.Name+".csv")
		if err := writeCSVFile(path, table, data); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
		}
		o.logger.Debug(ctx, "wrote csv table", logger.String("path", path))
	}
	return nil
}

func writeCSVFile(path string, table dataset.Table, data [][]any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(table.Columns); err != nil {
		return err
	}
	record := make([]string, len(table.Columns))
	for _, row := range data {
		for i, v := range row {
			record[i] = field(v)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteSQLite creates the historical tables in the database at path and
// inserts t. Existing tables are replaced.
func WriteSQLite(ctx context.Context, path string, t *dataset.Tables, opts ...Option) error {
	o := newWriteOptions(opts)
	if err := os.MkdirAll(filepath.Dir(path), dirPermission); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	defer db.Close()

	qb := goqu.New("sqlite3", db)
	err = qb.WithTx(func(tx *goqu.TxDatabase) error {
		for _, table := range dataset.AllTables() {
			if err := createTable(ctx, tx, table); err != nil {
				return err
			}
			if err := insertRows(ctx, tx, table, rows(t, table)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	o.logger.Debug(ctx, "wrote sqlite history", logger.String("path", path))
	return nil
}

func createTable(ctx context.Context, tx *goqu.TxDatabase, table dataset.Table) error {
	cols := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		cols[i] = fmt.Sprintf("%q TEXT", c)
	}
	ddl := fmt.Sprintf("DROP TABLE IF EXISTS %q; CREATE TABLE %q (%s)", table.Name, table.Name, strings.Join(cols, ", "))
	_, err := tx.ExecContext(ctx, ddl)
	return err
}

func insertRows(ctx context.Context, tx *goqu.TxDatabase, table dataset.Table, data [][]any) error {
	cols := make([]any, len(table.Columns))
	for i, c := range table.Columns {
		cols[i] = c
	}
	for start := 0; start < len(data); start += insertBatch {
		end := min(start+insertBatch, len(data))
		vals := make([][]any, 0, end-start)
		for _, row := range data[start:end] {
			vals = append(vals, sqliteValues(row))
		}
		if _, err := tx.Insert(table.Name).Cols(cols...).Vals(vals...).Executor().ExecContext(ctx); err != nil {
			return fmt.Errorf("insert %s: %w", table.Name, err)
		}
	}
	return nil
}

// sqliteValues stores amounts as text so every column shares one affinity.
func sqliteValues(row []any) []any {
	out := make([]any, len(row))
	for i, v := range row {
		if f, ok := v.(float64); ok {
			out[i] = field(f)
			continue
		}
		out[i] = v
	}
	return out
}

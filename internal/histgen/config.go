// Package histgen produces synthetic historical founder tables for local
// runs and fixtures, and writes them as CSV files or a SQLite database.
package histgen

import "time"

// Output formats.
const (
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
)

// Config controls the shape of a generated history.
type Config struct {
	People           int       // number of people in the directory
	FounderRatio     float64   // share of people holding a founder title
	DegreesPerPerson int       // upper bound on degrees per person
	RoundsPerCompany int       // upper bound on funding rounds per company
	ExitRatio        float64   // share of companies with an acquisition or IPO
	Seed             uint64    // same seed, same tables
	Epoch            time.Time // earliest graduation date
}

// DefaultConfig returns a small history suitable for a local run.
func DefaultConfig() Config {
	return Config{
		People:           500,
		FounderRatio:     0.6,
		DegreesPerPerson: 3,
		RoundsPerCompany: 4,
		ExitRatio:        0.3,
		Seed:             1,
		Epoch:            time.Date(1985, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

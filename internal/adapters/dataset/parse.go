package dataset

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/okian/foundermatch/internal/domain/model"
)

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05-07:00",
}

// text returns the trimmed value, "" when NULL.
func text(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return strings.TrimSpace(v.String)
}

// parseDate returns the zero time for NULL or empty values.
func parseDate(v sql.NullString) (time.Time, error) {
	s := text(v)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q", ErrBadValue, s)
}

// parseAmount returns an absent Amount for NULL, empty or NaN values.
func parseAmount(v sql.NullString) (model.Amount, error) {
	s := text(v)
	if s == "" {
		return model.Amount{}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return model.Amount{}, fmt.Errorf("%w: amount %q", ErrBadValue, s)
	}
	if f != f {
		return model.Amount{}, nil
	}
	return model.KnownAmount(f), nil
}

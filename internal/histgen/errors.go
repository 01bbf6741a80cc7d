package histgen

import "errors"

var (
	// ErrInvalidConfig is returned when a Config cannot produce a history.
	ErrInvalidConfig = errors.New("histgen: invalid config")
	// ErrUnknownFormat is returned for an output format other than csv or sqlite.
	ErrUnknownFormat = errors.New("histgen: unknown output format")
	// ErrWrite is returned when an output file or database cannot be written.
	ErrWrite = errors.New("histgen: write failed")
)

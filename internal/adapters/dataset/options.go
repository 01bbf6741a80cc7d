package dataset

import "github.com/okian/foundermatch/pkg/logger"

// Option applies a configuration option to a SQLSource.
type Option func(*SQLSource)

// WithRowLimit bounds every table pull. Zero or less reads whole tables.
func WithRowLimit(n int) Option {
	return func(s *SQLSource) {
		s.rowLimit = n
	}
}

// WithLogger sets a logger for the source.
func WithLogger(l logger.Logger) Option {
	return func(s *SQLSource) {
		if l != nil {
			s.logger = l
		}
	}
}

package repository

import (
	"io/fs"

	"github.com/okian/foundermatch/pkg/logger"
)

// Option applies a configuration option to the JSONFileStore.
type Option func(*JSONFileStore)

// WithLogger sets a logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *JSONFileStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFileMode sets the permissions of the written document.
func WithFileMode(mode fs.FileMode) Option {
	return func(s *JSONFileStore) {
		if mode != 0 {
			s.mode = mode
		}
	}
}

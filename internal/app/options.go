package service

import (
	"github.com/okian/foundermatch/internal/adapters/dataset"
	"github.com/okian/foundermatch/internal/adapters/repository"
	"github.com/okian/foundermatch/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithProvider sets the historical dataset.
func WithProvider(p dataset.Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.provider = p
		}
	}
}

// WithStore sets the profile store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithSuccessThresholds sets the acquisition and IPO exit thresholds in USD.
func WithSuccessThresholds(acquisition, ipo float64) Option {
	return func(s *Service) {
		if acquisition >= 0 {
			s.acquisitionThreshold = acquisition
		}
		if ipo >= 0 {
			s.ipoThreshold = ipo
		}
	}
}

// WithTopPatterns caps the education patterns reported by predictions.
func WithTopPatterns(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topPatterns = n
		}
	}
}

// WithQueryDefaults sets the weight and neighbor count used when a request
// leaves them out.
func WithQueryDefaults(weight, neighbors int) Option {
	return func(s *Service) {
		if weight >= 0 && weight <= 100 {
			s.defaultWeight = weight
		}
		if neighbors > 0 {
			s.defaultNeighbors = neighbors
		}
	}
}

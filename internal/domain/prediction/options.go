package prediction

import "github.com/okian/foundermatch/pkg/logger"

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithSuccessThresholds sets the strict lower bounds for a successful exit.
func WithSuccessThresholds(acquisition, ipo float64) Option {
	return func(a *Aggregator) {
		if acquisition >= 0 {
			a.acquisitionThreshold = acquisition
		}
		if ipo >= 0 {
			a.ipoThreshold = ipo
		}
	}
}

// WithTopPatterns sets how many education patterns are reported.
func WithTopPatterns(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.topPatterns = n
		}
	}
}

// WithLogger sets a logger for the aggregator.
func WithLogger(l logger.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

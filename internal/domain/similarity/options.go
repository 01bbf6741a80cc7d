package similarity

import "github.com/okian/foundermatch/pkg/logger"

// Option applies a configuration option to the WeightedMatcher.
type Option func(*WeightedMatcher)

// WithPeople sets the directory used to resolve display names.
func WithPeople(people PeopleDirectory) Option {
	return func(m *WeightedMatcher) {
		if people != nil {
			m.people = people
		}
	}
}

// WithLogger sets a logger for the matcher.
func WithLogger(l logger.Logger) Option {
	return func(m *WeightedMatcher) {
		if l != nil {
			m.logger = l
		}
	}
}

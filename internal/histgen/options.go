package histgen

import "github.com/okian/foundermatch/pkg/logger"

// writeOptions configures the writers.
type writeOptions struct {
	logger logger.Logger
}

// Option applies a configuration option to a writer.
type Option func(*writeOptions)

// WithLogger sets a logger for the writers.
func WithLogger(l logger.Logger) Option {
	return func(o *writeOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

func newWriteOptions(opts []Option) writeOptions {
	o := writeOptions{logger: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

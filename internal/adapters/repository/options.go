package repository

import "github.com/mergington/signup/pkg/logger"

// Option applies a configuration option to the MemoryRegistry.
type Option func(*MemoryRegistry)

// WithLogger sets the logger used for registry diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(r *MemoryRegistry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics toggles the participant gauges the registry keeps up to date.
func WithMetrics(enabled bool) Option {
	return func(r *MemoryRegistry) {
		r.metrics = enabled
	}
}

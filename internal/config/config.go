// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New(ctx) returns the defaults; Load(ctx) layers file and environment on top.
// - All functions accept context.Context as the first parameter.
// - Validation failures wrap ErrInvalidConfig, loading failures wrap ErrLoadConfig.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`
	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`
	// SeedFile optionally replaces the embedded activity seed (.yaml, .yml or .hcl).
	SeedFile string `koanf:"seed_file"`
	// EventQueueSize bounds the in-memory registration event queue.
	EventQueueSize int `koanf:"event_queue_size"`
	// WorkerCount sets the number of event publishing workers.
	WorkerCount int `koanf:"worker_count"`
	// KafkaBrokers enables Kafka publishing when non-empty.
	KafkaBrokers []string `koanf:"kafka_brokers"`
	// KafkaTopic receives registration events.
	KafkaTopic string `koanf:"kafka_topic"`
}

// New returns a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":8000",
		EventQueueSize: 1024,
		WorkerCount:    runtime.NumCPU(),
		KafkaTopic:     "activity-registrations",
	}
}

// EventsToKafka reports whether registration events go to Kafka.
func (c *Config) EventsToKafka() bool {
	return len(c.KafkaBrokers) > 0
}

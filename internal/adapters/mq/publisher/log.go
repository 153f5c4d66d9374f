package publisher

import (
	"context"

	"github.com/mergington/signup/internal/domain/model"
	"github.com/mergington/signup/pkg/logger"
)

// LogPublisher writes registration events to the structured log. It is the
// fallback when no Kafka brokers are configured.
type LogPublisher struct {
	logger logger.Logger
}

// NewLogPublisher creates a LogPublisher writing through log.
func NewLogPublisher(log logger.Logger) *LogPublisher {
	return &LogPublisher{logger: log}
}

// Publish implements Publisher.
func (p *LogPublisher) Publish(ctx context.Context, e model.RegistrationEvent) error { //nolint:gocritic // hugeParam: event is a value type
	p.logger.Info(ctx, "registration event",
		logger.String("event_id", e.ID),
		logger.String("type", string(e.Type)),
		logger.String("activity", e.Activity),
		logger.String("email", e.Email),
		logger.Any("occurred_at", e.OccurredAt),
	)
	return nil
}

// Close implements Publisher.
func (p *LogPublisher) Close() error { return nil }

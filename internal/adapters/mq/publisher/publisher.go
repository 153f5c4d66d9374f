// Package publisher delivers registration events to downstream consumers.
package publisher

import (
	"context"

	"github.com/mergington/signup/internal/domain/model"
)

// Publisher sends one registration event somewhere outside the process.
type Publisher interface {
	Publish(ctx context.Context, e model.RegistrationEvent) error
	Close() error
}

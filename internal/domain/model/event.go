package model

import "time"

// RegistrationEventType names the mutation a RegistrationEvent reports.
type RegistrationEventType string

// Registration event types.
const (
	EventSignup     RegistrationEventType = "signup"
	EventUnregister RegistrationEventType = "unregister"
)

// RegistrationEvent is emitted after a signup or unregister has been applied.
type RegistrationEvent struct {
	ID         string                `json:"id"`
	Type       RegistrationEventType `json:"type"`
	Activity   string                `json:"activity"`
	Email      string                `json:"email"`
	OccurredAt time.Time             `json:"occurred_at"`
}

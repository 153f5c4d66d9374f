// Package repository defines the activity registry interface and errors.
package repository

import (
	"context"

	"github.com/mergington/signup/internal/domain/model"
)

// MutateFunc changes an activity in place. Returning an error discards the change.
type MutateFunc func(a *model.Activity) error

// Registry provides read/write access to the activity state.
type Registry interface {
	// All returns a deep copy of every activity in seed order.
	All(ctx context.Context) (model.Catalog, error)

	// Get returns a copy of the named activity.
	// Returns ErrNotFound if the name is unknown.
	Get(ctx context.Context, name string) (model.Activity, error)

	// Update runs fn against a copy of the named activity while holding the
	// write lock and commits the copy only when fn succeeds.
	// Returns ErrNotFound if the name is unknown.
	Update(ctx context.Context, name string, fn MutateFunc) (model.Activity, error)

	// Count returns the number of activities and the total number of participants.
	Count(ctx context.Context) (activities, participants int)
}

package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mergington/signup/internal/domain/model"
	"github.com/mergington/signup/pkg/logger"
	"github.com/mergington/signup/pkg/metrics"
)

// MemoryRegistry is the in-memory Registry. A single RWMutex guards the
// whole map so check-then-mutate in Update is atomic per call.
type MemoryRegistry struct {
	mu     sync.RWMutex
	order  []string
	byName map[string]*model.Activity

	participants int
	metrics      bool
	logger       logger.Logger
}

// NewMemoryRegistry builds a registry from the seed activities, keeping
// their order. It rejects empty or duplicate names, negative capacities
// and repeated emails inside one activity.
func NewMemoryRegistry(ctx context.Context, seed []model.Activity, opts ...Option) (*MemoryRegistry, error) {
	r := &MemoryRegistry{
		order:   make([]string, 0, len(seed)),
		byName:  make(map[string]*model.Activity, len(seed)),
		metrics: true,
	}
	for _, opt := range opts {
		opt(r)
	}

	for i := range seed {
		a := seed[i].Clone()
		if err := validate(a); err != nil {
			return nil, err
		}
		if _, exists := r.byName[a.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateActivity, a.Name)
		}
		r.byName[a.Name] = &a
		r.order = append(r.order, a.Name)
		r.participants += len(a.Participants)
		r.observe(&a)
	}
	r.observeTotals()

	if r.logger != nil {
		r.logger.Info(ctx, "activity registry seeded",
			logger.Int("activities", len(r.order)),
			logger.Int("participants", r.participants),
		)
	}
	return r, nil
}

func validate(a model.Activity) error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidActivity)
	}
	if a.MaxParticipants < 0 {
		return fmt.Errorf("%w: %q has negative max_participants", ErrInvalidActivity, a.Name)
	}
	seen := make(map[string]struct{}, len(a.Participants))
	for _, email := range a.Participants {
		if email == "" {
			return fmt.Errorf("%w: %q has an empty participant", ErrInvalidActivity, a.Name)
		}
		if _, dup := seen[email]; dup {
			return fmt.Errorf("%w: %q lists %s twice", ErrInvalidActivity, a.Name, email)
		}
		seen[email] = struct{}{}
	}
	return nil
}

// All implements Registry.
func (r *MemoryRegistry) All(_ context.Context) (model.Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(model.Catalog, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name].Clone())
	}
	return out, nil
}

// Get implements Registry.
func (r *MemoryRegistry) Get(_ context.Context, name string) (model.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byName[name]
	if !ok {
		return model.Activity{}, ErrNotFound
	}
	return a.Clone(), nil
}

// Update implements Registry.
func (r *MemoryRegistry) Update(_ context.Context, name string, fn MutateFunc) (model.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byName[name]
	if !ok {
		return model.Activity{}, ErrNotFound
	}

	next := current.Clone()
	if err := fn(&next); err != nil {
		return model.Activity{}, err
	}
	// The key fields are immutable whatever fn did.
	next.Name = current.Name
	next.MaxParticipants = current.MaxParticipants

	r.participants += len(next.Participants) - len(current.Participants)
	r.byName[name] = &next
	r.observe(&next)
	r.observeTotals()
	return next.Clone(), nil
}

// Count implements Registry.
func (r *MemoryRegistry) Count(_ context.Context) (activities, participants int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order), r.participants
}

func (r *MemoryRegistry) observe(a *model.Activity) {
	if r.metrics {
		metrics.UpdateActivityParticipants(a.Name, len(a.Participants))
	}
}

func (r *MemoryRegistry) observeTotals() {
	if r.metrics {
		metrics.UpdateRegistryTotals(len(r.order), r.participants)
	}
}

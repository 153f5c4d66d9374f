// Package service provides the registration service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	eventqueue "github.com/mergington/signup/internal/adapters/mq/queue"
	"github.com/mergington/signup/internal/adapters/mq/publisher"
	workerpool "github.com/mergington/signup/internal/adapters/mq/worker"
	"github.com/mergington/signup/internal/adapters/repository"
	"github.com/mergington/signup/internal/domain/model"
	"github.com/mergington/signup/internal/domain/registration"
	"github.com/mergington/signup/pkg/logger"
	"github.com/mergington/signup/pkg/metrics"
)

const defaultQueueSize = 1024

// Service implements the API dependencies for activity registration.
type Service struct {
	mu sync.RWMutex

	// Core components
	registry   repository.Registry
	eventQueue *eventqueue.InMemoryQueue
	publisher  publisher.Publisher
	workerPool *workerpool.Pool

	// Configuration
	seed        []model.Activity
	workerCount int
	queueSize   int
	now         func() time.Time

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of event publishing workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of buffered registration events.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSeed sets the activities the in-memory registry starts from.
// Ignored when WithRegistry is also given.
func WithSeed(seed []model.Activity) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithRegistry uses an existing registry instead of building one from the seed.
func WithRegistry(r repository.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithPublisher sets where registration events go. Defaults to the log.
func WithPublisher(p publisher.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   defaultQueueSize,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the registry and starts the event pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting registration service...")

	if s.registry == nil {
		registry, err := repository.NewMemoryRegistry(ctx, s.seed, repository.WithLogger(s.logger))
		if err != nil {
			return fmt.Errorf("build registry: %w", err)
		}
		s.registry = registry
	}
	if s.publisher == nil {
		s.publisher = publisher.NewLogPublisher(s.logger.Named("events"))
	}

	s.eventQueue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	// Workers outlive the start context; Stop drains them.
	s.workerPool = workerpool.NewPool(s.workerCount, s.eventQueue, s.publisher,
		workerpool.WithLogger(s.logger.Named("worker")),
	)
	s.workerPool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "registration service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

// Stop closes the event queue, waits for buffered events to be published
// until ctx expires, then closes the publisher. The registry stays readable.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping registration service...")

	var errs []error
	if err := s.workerPool.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}

	s.started = false
	s.logger.Info(ctx, "registration service stopped",
		logger.Any("eventsPublished", s.workerPool.Processed()),
	)
	return errors.Join(errs...)
}

// Activities returns every activity in seed order.
func (s *Service) Activities(ctx context.Context) (model.Catalog, error) {
	const op = "service.Activities"

	registry := s.currentRegistry()
	if registry == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNotStarted)
	}
	catalog, err := registry.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return catalog, nil
}

// Signup adds email to the named activity and returns the confirmation message.
func (s *Service) Signup(ctx context.Context, activity, email string) (string, error) {
	const op = "service.Signup"

	if err := s.apply(ctx, model.EventSignup, activity, email, registration.Signup); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	metrics.RecordSignup(activity)
	return registration.SignupMessage(activity, email), nil
}

// Unregister removes email from the named activity and returns the confirmation message.
func (s *Service) Unregister(ctx context.Context, activity, email string) (string, error) {
	const op = "service.Unregister"

	if err := s.apply(ctx, model.EventUnregister, activity, email, registration.Unregister); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	metrics.RecordUnregister(activity)
	return registration.UnregisterMessage(activity, email), nil
}

// apply runs rule against the named activity as one atomic registry update
// and, on success, emits a registration event.
func (s *Service) apply(
	ctx context.Context,
	eventType model.RegistrationEventType,
	activity, email string,
	rule func(*model.Activity, string) error,
) error {
	registry := s.currentRegistry()
	if registry == nil {
		return ErrNotStarted
	}

	_, err := registry.Update(ctx, activity, func(a *model.Activity) error {
		return rule(a, email)
	})
	if errors.Is(err, repository.ErrNotFound) {
		err = registration.ErrActivityNotFound
	}
	if err != nil {
		metrics.RecordRegistrationError(string(eventType), registration.Reason(err))
		s.log().Debug(ctx, "registration rejected",
			logger.String("type", string(eventType)),
			logger.String("activity", activity),
			logger.String("email", email),
			logger.Error(err),
		)
		return err
	}

	s.log().Info(ctx, "registration applied",
		logger.String("type", string(eventType)),
		logger.String("activity", activity),
		logger.String("email", email),
	)
	s.emit(ctx, model.RegistrationEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		Activity:   activity,
		Email:      email,
		OccurredAt: s.now().UTC(),
	})
	return nil
}

// emit hands the event to the pipeline. Delivery is best effort: a full or
// closed queue is logged and never fails the registration.
func (s *Service) emit(ctx context.Context, e model.RegistrationEvent) { //nolint:gocritic // hugeParam: event is a value type
	s.mu.RLock()
	q := s.eventQueue
	s.mu.RUnlock()
	if q == nil {
		return
	}
	if err := q.Enqueue(context.WithoutCancel(ctx), e); err != nil {
		s.log().Warn(ctx, "registration event dropped",
			logger.String("event_id", e.ID),
			logger.String("activity", e.Activity),
			logger.Error(err),
		)
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}
	if s.registry != nil {
		activities, participants := s.registry.Count(ctx)
		stats["activities"] = activities
		stats["participants"] = participants
	}
	if s.eventQueue != nil {
		stats["queueLength"] = s.eventQueue.Len(ctx)
	}
	if s.workerPool != nil {
		stats["eventsPublished"] = s.workerPool.Processed()
	}
	return stats
}

func (s *Service) currentRegistry() repository.Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.logger == nil {
		return logger.Get()
	}
	return s.logger
}

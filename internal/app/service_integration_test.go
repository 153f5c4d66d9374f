package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	service "github.com/mergington/signup/internal/app"
	"github.com/mergington/signup/internal/domain/model"
	"github.com/mergington/signup/internal/domain/registration"
	"github.com/mergington/signup/internal/seed"
	. "github.com/smartystreets/goconvey/convey"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.RegistrationEvent
	closed bool
}

func (p *recordingPublisher) Publish(_ context.Context, e model.RegistrationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *recordingPublisher) snapshot() ([]model.RegistrationEvent, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.RegistrationEvent(nil), p.events...), p.closed
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service with the default seed and a recording publisher", t, func() {
		ctx := context.Background()
		activities, err := seed.Default(ctx)
		So(err, ShouldBeNil)

		fixed := time.Date(2024, 9, 6, 15, 30, 0, 0, time.UTC)
		pub := &recordingPublisher{}
		svc := service.New(
			service.WithSeed(activities),
			service.WithPublisher(pub),
			service.WithWorkerCount(2),
			service.WithQueueSize(1000),
			service.WithClock(func() time.Time { return fixed }),
		)
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When registrations succeed and fail", func() {
			_, err := svc.Signup(ctx, "Debate Team", "newstudent@mergington.edu")
			So(err, ShouldBeNil)
			_, err = svc.Unregister(ctx, "Chess Club", "michael@mergington.edu")
			So(err, ShouldBeNil)
			_, err = svc.Signup(ctx, "Chess Club", "daniel@mergington.edu")
			So(errors.Is(err, registration.ErrAlreadyRegistered), ShouldBeTrue)

			stopCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			So(svc.Stop(stopCtx), ShouldBeNil)

			Convey("Then only the successful ones are published before stop returns", func() {
				events, closed := pub.snapshot()
				So(closed, ShouldBeTrue)
				So(events, ShouldHaveLength, 2)

				byType := map[model.RegistrationEventType]model.RegistrationEvent{}
				for _, e := range events {
					So(e.ID, ShouldNotBeEmpty)
					So(e.OccurredAt, ShouldEqual, fixed)
					byType[e.Type] = e
				}
				So(byType[model.EventSignup].Activity, ShouldEqual, "Debate Team")
				So(byType[model.EventSignup].Email, ShouldEqual, "newstudent@mergington.edu")
				So(byType[model.EventUnregister].Activity, ShouldEqual, "Chess Club")
				So(byType[model.EventUnregister].Email, ShouldEqual, "michael@mergington.edu")
				So(svc.GetStats(ctx)["eventsPublished"], ShouldEqual, int64(2))
			})
		})

		Convey("When registrations arrive after stop", func() {
			stopCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			So(svc.Stop(stopCtx), ShouldBeNil)

			_, err := svc.Signup(ctx, "Math Club", "late@mergington.edu")

			Convey("Then the registration still applies and the event is dropped", func() {
				So(err, ShouldBeNil)
				events, _ := pub.snapshot()
				So(events, ShouldBeEmpty)
			})
		})

		Convey("When many students sign up concurrently", func() {
			const n = 100
			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, _ = svc.Signup(ctx, "Debate Team", fmt.Sprintf("student%d@mergington.edu", i))
				}(i)
			}
			wg.Wait()

			Convey("Then every signup lands exactly once", func() {
				catalog, err := svc.Activities(ctx)
				So(err, ShouldBeNil)
				debate, _ := catalog.Lookup("Debate Team")
				So(debate.Participants, ShouldHaveLength, n)

				stopCtx, cancel := context.WithTimeout(ctx, time.Second)
				defer cancel()
				So(svc.Stop(stopCtx), ShouldBeNil)
				events, _ := pub.snapshot()
				So(events, ShouldHaveLength, n)
			})
		})

		Convey("When the same student signs up concurrently", func() {
			const n = 50
			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				successes int
			)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, err := svc.Signup(ctx, "Art Club", "same@mergington.edu"); err == nil {
						mu.Lock()
						successes++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			Convey("Then exactly one succeeds", func() {
				So(successes, ShouldEqual, 1)
			})
		})

		Reset(func() {
			stopCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			_ = svc.Stop(stopCtx)
		})
	})
}

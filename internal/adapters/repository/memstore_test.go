package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/mergington/signup/internal/adapters/repository"
	"github.com/mergington/signup/internal/domain/model"
	"github.com/mergington/signup/internal/domain/registration"
	. "github.com/smartystreets/goconvey/convey"
)

func seed() []model.Activity {
	return []model.Activity{
		{Name: "Chess Club", Description: "Strategy", Schedule: "Fridays", MaxParticipants: 12,
			Participants: []string{"michael@mergington.edu", "daniel@mergington.edu"}},
		{Name: "Debate Team", Description: "Argue", Schedule: "Tuesdays", MaxParticipants: 4},
		{Name: "Art Club", Description: "Paint", Schedule: "Thursdays", MaxParticipants: 15,
			Participants: []string{"amelia@mergington.edu"}},
	}
}

func TestNewMemoryRegistry(t *testing.T) {
	ctx := context.Background()

	Convey("Given seed activities", t, func() {
		Convey("When building a registry", func() {
			r, err := repository.NewMemoryRegistry(ctx, seed(), repository.WithMetrics(false))

			Convey("Then it keeps the seed order and counts", func() {
				So(err, ShouldBeNil)
				all, err := r.All(ctx)
				So(err, ShouldBeNil)
				So(all.Names(), ShouldResemble, []string{"Chess Club", "Debate Team", "Art Club"})
				activities, participants := r.Count(ctx)
				So(activities, ShouldEqual, 3)
				So(participants, ShouldEqual, 3)
			})
		})

		Convey("When the seed has a duplicate name", func() {
			s := append(seed(), model.Activity{Name: "Chess Club"})
			_, err := repository.NewMemoryRegistry(ctx, s, repository.WithMetrics(false))

			Convey("Then construction fails", func() {
				So(errors.Is(err, repository.ErrDuplicateActivity), ShouldBeTrue)
			})
		})

		Convey("When the seed has invalid activities", func() {
			bad := []model.Activity{
				{Name: "  "},
				{Name: "Gym Class", MaxParticipants: -1},
				{Name: "Gym Class", Participants: []string{"a@x.edu", "a@x.edu"}},
				{Name: "Gym Class", Participants: []string{""}},
			}

			Convey("Then each is rejected", func() {
				for _, a := range bad {
					_, err := repository.NewMemoryRegistry(ctx, []model.Activity{a}, repository.WithMetrics(false))
					So(errors.Is(err, repository.ErrInvalidActivity), ShouldBeTrue)
				}
			})
		})

		Convey("When the seed is empty", func() {
			r, err := repository.NewMemoryRegistry(ctx, nil)

			Convey("Then the registry is empty but usable", func() {
				So(err, ShouldBeNil)
				all, _ := r.All(ctx)
				So(all, ShouldBeEmpty)
			})
		})
	})
}

func TestMemoryRegistryReads(t *testing.T) {
	ctx := context.Background()

	Convey("Given a seeded registry", t, func() {
		r, err := repository.NewMemoryRegistry(ctx, seed(), repository.WithMetrics(false))
		So(err, ShouldBeNil)

		Convey("When getting an existing activity", func() {
			a, err := r.Get(ctx, "Chess Club")

			Convey("Then the record is returned", func() {
				So(err, ShouldBeNil)
				So(a.Description, ShouldEqual, "Strategy")
				So(a.MaxParticipants, ShouldEqual, 12)
			})

			Convey("And mutating the copy does not leak into the registry", func() {
				a.Participants[0] = "intruder@x.edu"
				again, _ := r.Get(ctx, "Chess Club")
				So(again.Participants[0], ShouldEqual, "michael@mergington.edu")
			})
		})

		Convey("When getting by a name that differs only by case", func() {
			_, err := r.Get(ctx, "chess club")

			Convey("Then it is not found", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When mutating the All snapshot", func() {
			all, _ := r.All(ctx)
			all[1].Participants = append(all[1].Participants, "x@x.edu")

			Convey("Then the registry is unchanged", func() {
				d, _ := r.Get(ctx, "Debate Team")
				So(d.Participants, ShouldBeEmpty)
			})
		})
	})
}

func TestMemoryRegistryUpdate(t *testing.T) {
	ctx := context.Background()

	Convey("Given a seeded registry", t, func() {
		r, err := repository.NewMemoryRegistry(ctx, seed(), repository.WithMetrics(false))
		So(err, ShouldBeNil)

		Convey("When an update succeeds", func() {
			a, err := r.Update(ctx, "Debate Team", func(a *model.Activity) error {
				return registration.Signup(a, "new@mergington.edu")
			})

			Convey("Then the change is committed and counted", func() {
				So(err, ShouldBeNil)
				So(a.Participants, ShouldResemble, []string{"new@mergington.edu"})
				stored, _ := r.Get(ctx, "Debate Team")
				So(stored.Participants, ShouldResemble, []string{"new@mergington.edu"})
				_, participants := r.Count(ctx)
				So(participants, ShouldEqual, 4)
			})
		})

		Convey("When an update fails halfway", func() {
			_, err := r.Update(ctx, "Chess Club", func(a *model.Activity) error {
				a.Participants = append(a.Participants, "partial@x.edu")
				return errors.New("boom")
			})

			Convey("Then nothing is committed", func() {
				So(err, ShouldNotBeNil)
				stored, _ := r.Get(ctx, "Chess Club")
				So(stored.Participants, ShouldHaveLength, 2)
			})
		})

		Convey("When an update tries to change key fields", func() {
			a, err := r.Update(ctx, "Art Club", func(a *model.Activity) error {
				a.Name = "Renamed"
				a.MaxParticipants = 1
				a.Schedule = "Sundays"
				return nil
			})

			Convey("Then name and capacity stay, other fields change", func() {
				So(err, ShouldBeNil)
				So(a.Name, ShouldEqual, "Art Club")
				So(a.MaxParticipants, ShouldEqual, 15)
				So(a.Schedule, ShouldEqual, "Sundays")
			})
		})

		Convey("When updating an unknown activity", func() {
			called := false
			_, err := r.Update(ctx, "Nonexistent Activity", func(*model.Activity) error {
				called = true
				return nil
			})

			Convey("Then ErrNotFound is returned and fn never runs", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				So(called, ShouldBeFalse)
			})
		})
	})
}

func TestMemoryRegistryConcurrency(t *testing.T) {
	ctx := context.Background()

	Convey("Given a seeded registry", t, func() {
		r, err := repository.NewMemoryRegistry(ctx, seed(), repository.WithMetrics(false))
		So(err, ShouldBeNil)

		Convey("When many goroutines sign up distinct emails", func() {
			const n = 200
			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, _ = r.Update(ctx, "Debate Team", func(a *model.Activity) error {
						return registration.Signup(a, fmt.Sprintf("student%d@x.edu", i))
					})
				}(i)
			}
			wg.Wait()

			Convey("Then every signup lands exactly once", func() {
				d, _ := r.Get(ctx, "Debate Team")
				So(d.Participants, ShouldHaveLength, n)
				_, participants := r.Count(ctx)
				So(participants, ShouldEqual, n+3)
			})
		})

		Convey("When many goroutines sign up the same email", func() {
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
					_, err := r.Update(ctx, "Art Club", func(a *model.Activity) error {
						return registration.Signup(a, "same@x.edu")
					})
					if err == nil {
						mu.Lock()
						successes++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			Convey("Then exactly one succeeds", func() {
				So(successes, ShouldEqual, 1)
				a, _ := r.Get(ctx, "Art Club")
				So(a.Participants, ShouldResemble, []string{"amelia@mergington.edu", "same@x.edu"})
			})
		})
	})
}

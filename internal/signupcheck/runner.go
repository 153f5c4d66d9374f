package signupcheck

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/mergington/signup/pkg/logger"
)

// Run executes the complete check against cfg.BaseURL.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	log := logger.Get().Named("signup-check")
	client := NewClient(cfg.BaseURL, cfg.Timeout)
	stats := &Stats{
		Activity:  cfg.Activity,
		Students:  cfg.Students,
		StartTime: time.Now(),
	}
	defer func() { stats.Duration = time.Since(stats.StartTime) }()

	baseline, err := participantsOf(ctx, client, cfg.Activity)
	if err != nil {
		return stats, err
	}
	log.Info(ctx, "baseline fetched",
		logger.String("activity", cfg.Activity),
		logger.Int("participants", len(baseline)),
	)

	emails := generateEmails(cfg.Students)

	// Step 1: every generated student signs up exactly once.
	ok, failed := fanOut(ctx, cfg, emails, func(ctx context.Context, email string) bool {
		status, msg, err := client.Signup(ctx, cfg.Activity, email)
		if cfg.Verbose {
			log.Debug(ctx, "signup", logger.String("email", email), logger.Int("status", status), logger.String("message", msg))
		}
		return err == nil && status == http.StatusOK
	})
	stats.Signups, stats.SignupFailures = ok, failed
	if failed > 0 {
		return stats, fmt.Errorf("%w: %d of %d signups failed", ErrVerification, failed, len(emails))
	}

	current, err := participantsOf(ctx, client, cfg.Activity)
	if err != nil {
		return stats, err
	}
	for _, email := range emails {
		if !slices.Contains(current, email) {
			return stats, fmt.Errorf("%w: %s missing after signup", ErrVerification, email)
		}
	}

	// Step 2: a repeated signup is rejected.
	if len(emails) > 0 {
		status, _, err := client.Signup(ctx, cfg.Activity, emails[0])
		if err != nil {
			return stats, err
		}
		stats.DuplicateRejected = status == http.StatusBadRequest
		if !stats.DuplicateRejected {
			return stats, fmt.Errorf("%w: duplicate signup returned %d", ErrUnexpectedStatus, status)
		}
	}

	// Step 3: everyone unregisters and the list is back to the baseline.
	ok, failed = fanOut(ctx, cfg, emails, func(ctx context.Context, email string) bool {
		status, _, err := client.Unregister(ctx, cfg.Activity, email)
		return err == nil && status == http.StatusOK
	})
	stats.Unregisters, stats.UnregisterFailures = ok, failed
	if failed > 0 {
		return stats, fmt.Errorf("%w: %d of %d unregisters failed", ErrVerification, failed, len(emails))
	}

	final, err := participantsOf(ctx, client, cfg.Activity)
	if err != nil {
		return stats, err
	}
	stats.Restored = slices.Equal(final, baseline)
	if !stats.Restored {
		return stats, fmt.Errorf("%w: participants not restored (before %d, after %d)", ErrVerification, len(baseline), len(final))
	}

	log.Info(ctx, "signup check passed",
		logger.Int("students", cfg.Students),
		logger.Any("duration", time.Since(stats.StartTime)),
	)
	return stats, nil
}

func participantsOf(ctx context.Context, client *Client, activity string) ([]string, error) {
	activities, err := client.Activities(ctx)
	if err != nil {
		return nil, err
	}
	a, ok := activities[activity]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrActivityMissing, activity)
	}
	return a.Participants, nil
}

func generateEmails(n int) []string {
	emails := make([]string, n)
	for i := range emails {
		emails[i] = "student-" + uuid.NewString() + "@" + EmailDomain
	}
	return emails
}

// fanOut runs call for every email on cfg.Workers goroutines and counts
// successes and failures.
func fanOut(ctx context.Context, cfg *Config, emails []string, call func(context.Context, string) bool) (ok, failed int) {
	workers := max(cfg.Workers, 1)
	jobs := make(chan string, workers*2)
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int64
		errored   atomic.Int64
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for email := range jobs {
				if call(ctx, email) {
					succeeded.Add(1)
				} else {
					errored.Add(1)
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, email := range emails {
			select {
			case <-ctx.Done():
				return
			case jobs <- email:
			}
		}
	}()

	wg.Wait()
	ok, failed = int(succeeded.Load()), int(errored.Load())
	// Emails never dispatched because ctx ended count as failures.
	failed += len(emails) - ok - failed
	return ok, failed
}

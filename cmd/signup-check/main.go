// Package main provides the signup-check smoke test CLI.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mergington/signup/internal/signupcheck"
	"github.com/mergington/signup/pkg/logger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		cfg           signupcheck.Config
		outputJSON    bool
		globalTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "signup-check [activity]",
		Short: "Run a signup round-trip against a live signup service",
		Long: `Sign up a batch of generated students for one activity, verify they are
listed, confirm a repeated signup is rejected, then unregister them all and
verify the participant list is back where it started.

Examples:
  signup-check                              # Debate Team on localhost:8000
  signup-check "Chess Club" --students 200  # Custom activity and batch size
  signup-check --url http://host:8000 --json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				cfg.Activity = args[0]
			}
			if err := initLogger(cfg.Verbose); err != nil {
				return err
			}
			return run(&cfg, outputJSON, globalTimeout)
		},
	}

	cmd.Flags().StringVar(&cfg.BaseURL, "url", signupcheck.DefaultBaseURL, "Base URL of the signup service")
	cmd.Flags().StringVar(&cfg.Activity, "activity", signupcheck.DefaultActivity, "Activity to sign students up for")
	cmd.Flags().IntVar(&cfg.Students, "students", signupcheck.DefaultStudents, "Number of generated students")
	cmd.Flags().IntVar(&cfg.Workers, "workers", signupcheck.DefaultWorkers, "Concurrent request workers")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", signupcheck.DefaultTimeout, "Per-request timeout")
	cmd.Flags().BoolVar(&cfg.Verbose, "verbose", false, "Log every request")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output results as JSON")
	cmd.Flags().DurationVar(&globalTimeout, "global-timeout", 2*time.Minute, "Timeout for the whole run")

	cmd.AddCommand(listCmd())

	return cmd
}

func listCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the activities the service offers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			activities, err := signupcheck.NewClient(baseURL, timeout).Activities(cmd.Context())
			if err != nil {
				return err
			}
			names := make([]string, 0, len(activities))
			for name := range activities {
				names = append(names, name)
			}
			sort.Strings(names)
			out := cmd.OutOrStdout()
			for _, name := range names {
				a := activities[name]
				fmt.Fprintf(out, "  %-20s %d/%d  %s\n", name, len(a.Participants), a.MaxParticipants, a.Schedule)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", signupcheck.DefaultBaseURL, "Base URL of the signup service")
	cmd.Flags().DurationVar(&timeout, "timeout", signupcheck.DefaultTimeout, "Request timeout")
	return cmd
}

func initLogger(verbose bool) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

func run(cfg *signupcheck.Config, outputJSON bool, globalTimeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), globalTimeout)
	defer cancel()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := signupcheck.Run(ctx, cfg)

	if outputJSON {
		output := struct {
			Passed bool               `json:"passed"`
			Error  string             `json:"error,omitempty"`
			Stats  *signupcheck.Stats `json:"stats"`
		}{Passed: err == nil, Stats: stats}
		if err != nil {
			output.Error = err.Error()
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(output); encErr != nil {
			return fmt.Errorf("encode results: %w", encErr)
		}
		return err
	}

	fmt.Printf("Activity:      %s\n", stats.Activity)
	fmt.Printf("Students:      %d\n", stats.Students)
	fmt.Printf("Signups:       %d ok, %d failed\n", stats.Signups, stats.SignupFailures)
	fmt.Printf("Duplicate:     rejected=%t\n", stats.DuplicateRejected)
	fmt.Printf("Unregisters:   %d ok, %d failed\n", stats.Unregisters, stats.UnregisterFailures)
	fmt.Printf("Restored:      %t\n", stats.Restored)
	fmt.Printf("Duration:      %s\n", stats.Duration.Round(time.Millisecond))
	if err != nil {
		fmt.Println("\nFAILED")
		return err
	}
	fmt.Println("\nPASSED")
	return nil
}

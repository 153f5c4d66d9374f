// Package signupcheck drives a live signup service through a concurrent
// signup and unregister round-trip and verifies the registry ends where it
// started.
package signupcheck

import "time"

// Default check configuration.
const (
	DefaultBaseURL  = "http://localhost:8000"
	DefaultActivity = "Debate Team"
	DefaultStudents = 50
	DefaultWorkers  = 8
	DefaultTimeout  = 10 * time.Second
	EmailDomain     = "check.mergington.edu"
)

// Config holds configuration for a check run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Activity string        // Activity to sign students up for
	Students int           // Number of generated students
	Workers  int           // Number of concurrent request workers
	Timeout  time.Duration // Per-request timeout
	Verbose  bool          // Log every request
}

// Stats holds the outcome of a check run.
type Stats struct {
	Activity           string        `json:"activity"`
	Students           int           `json:"students"`
	Signups            int           `json:"signups"`
	SignupFailures     int           `json:"signup_failures"`
	DuplicateRejected  bool          `json:"duplicate_rejected"`
	Unregisters        int           `json:"unregisters"`
	UnregisterFailures int           `json:"unregister_failures"`
	Restored           bool          `json:"restored"`
	StartTime          time.Time     `json:"start_time"`
	Duration           time.Duration `json:"duration"`
}

// Activity mirrors one entry of GET /activities.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

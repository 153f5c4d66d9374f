// Package registration holds the signup and unregister rules applied to a
// single activity. Callers are responsible for running them atomically
// against the registry.
package registration

import (
	"fmt"
	"slices"

	"github.com/mergington/signup/internal/domain/model"
)

// Signup appends email to the activity's participants.
// Capacity is informational: MaxParticipants is not enforced.
func Signup(a *model.Activity, email string) error {
	if email == "" {
		return ErrEmptyEmail
	}
	if a.HasParticipant(email) {
		return ErrAlreadyRegistered
	}
	a.Participants = append(a.Participants, email)
	return nil
}

// Unregister removes email from the activity's participants, keeping the
// order of everyone else.
func Unregister(a *model.Activity, email string) error {
	if email == "" {
		return ErrEmptyEmail
	}
	i := slices.Index(a.Participants, email)
	if i < 0 {
		return ErrNotRegistered
	}
	a.Participants = slices.Delete(a.Participants, i, i+1)
	return nil
}

// SignupMessage is the confirmation returned after a successful signup.
func SignupMessage(activity, email string) string {
	return fmt.Sprintf("Signed up %s for %s", email, activity)
}

// UnregisterMessage is the confirmation returned after a successful unregister.
func UnregisterMessage(activity, email string) string {
	return fmt.Sprintf("Unregistered %s from %s", email, activity)
}

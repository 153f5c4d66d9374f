package registration

import "errors"

// Sentinel kinds for registration errors.
var (
	ErrActivityNotFound  = errors.New("activity not found")
	ErrAlreadyRegistered = errors.New("student already signed up for this activity")
	ErrNotRegistered     = errors.New("student is not signed up for this activity")
	ErrEmptyEmail        = errors.New("email must not be empty")
)

// Reason returns a short, label-safe name for a registration error.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrActivityNotFound):
		return "activity_not_found"
	case errors.Is(err, ErrAlreadyRegistered):
		return "already_registered"
	case errors.Is(err, ErrNotRegistered):
		return "not_registered"
	case errors.Is(err, ErrEmptyEmail):
		return "empty_email"
	default:
		return "internal"
	}
}

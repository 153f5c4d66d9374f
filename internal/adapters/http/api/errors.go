package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/mergington/signup/internal/domain/registration"
)

// Sentinel kinds for API errors.
var (
	ErrMissingEmail = errors.New("missing required query parameter: email")
	ErrInternal     = errors.New("internal server error")
)

// Error tags a failure with the handler operation that saw it and an
// optional sentinel kind used for status mapping.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	if e.Kind != nil {
		parts = append(parts, e.Kind.Error())
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Wrap tags err with op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// NewKind returns an error of the given kind raised by op.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// WrapKind tags err with op and kind.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Response details. The client renders these verbatim.
const (
	detailActivityNotFound  = "Activity not found"
	detailAlreadyRegistered = "Student already signed up for this activity"
	detailNotRegistered     = "Student is not signed up for this activity"
	detailMissingEmail      = "Missing required query parameter: email"
	detailEmptyEmail        = "Email must not be empty"
	detailInternal          = "Internal Server Error"
)

// statusFor maps an error chain to the HTTP status and detail sent to the client.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, registration.ErrActivityNotFound):
		return http.StatusNotFound, detailActivityNotFound
	case errors.Is(err, registration.ErrAlreadyRegistered):
		return http.StatusBadRequest, detailAlreadyRegistered
	case errors.Is(err, registration.ErrNotRegistered):
		return http.StatusBadRequest, detailNotRegistered
	case errors.Is(err, ErrMissingEmail):
		return http.StatusUnprocessableEntity, detailMissingEmail
	case errors.Is(err, registration.ErrEmptyEmail):
		return http.StatusUnprocessableEntity, detailEmptyEmail
	default:
		return http.StatusInternalServerError, detailInternal
	}
}

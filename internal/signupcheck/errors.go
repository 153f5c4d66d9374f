package signupcheck

import "errors"

// Sentinel kinds for check failures.
var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrActivityMissing  = errors.New("activity not listed")
	ErrVerification     = errors.New("verification failed")
)

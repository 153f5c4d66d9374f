package seed

import "errors"

// Sentinel kinds for seed loading errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported seed format")
	ErrParseSeed         = errors.New("parse seed failed")
)

package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrUnavailable = errors.New("prediction store unavailable")
)

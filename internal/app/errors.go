package app

import "errors"

// Sentinel kinds for request validation. The HTTP layer maps these to
// transport status codes; anything else surfaces as an internal error.
var (
	ErrUnauthorized = errors.New("no authenticated user")
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrEventClosed  = errors.New("event closed for predictions")
)

package api

import "errors"

// Sentinel kinds for request decoding errors.
var (
	ErrMalformedBody = errors.New("malformed request body")
	ErrMissingFields = errors.New("eventoId, peleaIndex and peleadorElegido are required")
)

package corpus

import "errors"

// Sentinel kinds for corpus errors.
var (
	ErrLoad = errors.New("corpus load failed")
)

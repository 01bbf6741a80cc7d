package similarity

import "errors"

// Sentinel kinds for matcher errors.
var (
	ErrInvalidWeight = errors.New("degree weight must be within [0,1]")
)

package dataset

import "errors"

// Sentinel errors for dataset sources.
var (
	ErrOpenSource = errors.New("open dataset source")
	ErrQueryTable = errors.New("query dataset table")
	ErrBadValue   = errors.New("malformed dataset value")
)

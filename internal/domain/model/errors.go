package model

import "errors"

// Sentinel kinds for profile errors.
var (
	ErrInvalidProfile = errors.New("invalid profile")
	ErrInvalidYear    = errors.New("please enter valid years in YYYY format")
	ErrMissingName    = errors.New("please enter a profile name before saving")
)

package app

import "errors"

// Sentinel errors.
var (
	ErrNoSource = errors.New("no match source configured")
	ErrNoData   = errors.New("no matches available")
)

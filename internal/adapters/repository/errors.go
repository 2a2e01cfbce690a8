package repository

import "errors"

// Sentinel kinds for snapshot errors.
var (
	ErrNotFound   = errors.New("snapshot not found")
	ErrInvalidKey = errors.New("invalid snapshot key")
)

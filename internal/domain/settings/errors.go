package settings

import "errors"

var (
	// ErrInvalidTarget indicates a negative cycle target.
	ErrInvalidTarget = errors.New("invalid cycle target")
	// ErrInvalidRate indicates a negative or malformed rate profile.
	ErrInvalidRate = errors.New("invalid rate profile")
)

package billing

import "errors"

var (
	// ErrInvalidCycle indicates a cycle id that cannot be parsed.
	ErrInvalidCycle = errors.New("invalid cycle")
	// ErrNotInCycle indicates a claim for a manuscript that is not done yet.
	ErrNotInCycle = errors.New("manuscript is not worked or billed")
)

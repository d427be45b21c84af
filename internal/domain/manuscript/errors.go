package manuscript

import "errors"

var (
	// ErrManuscriptNotFound indicates the manuscript doesn't exist.
	ErrManuscriptNotFound = errors.New("manuscript not found")
	// ErrDuplicateCode indicates the manuscript code is already tracked.
	ErrDuplicateCode = errors.New("manuscript code already tracked")
	// ErrInvalidStatus indicates an unknown status value.
	ErrInvalidStatus = errors.New("invalid manuscript status")
	// ErrInvalidPriority indicates an unknown priority value.
	ErrInvalidPriority = errors.New("invalid manuscript priority")
	// ErrInvalidInput indicates invalid input for manuscript operations.
	ErrInvalidInput = errors.New("invalid manuscript input")
)

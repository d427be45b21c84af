package manuscript

import (
	"strings"

	"golang.org/x/text/cases"
)

// CodeKey is the comparison form of a manuscript code: trimmed and Unicode
// case folded. Two codes with the same key are the same manuscript.
func CodeKey(code string) string {
	return cases.Fold().String(strings.TrimSpace(code))
}

// ValidateCreateInput validates fields required to create a manuscript.
func ValidateCreateInput(req CreateRequest) error {
	if strings.TrimSpace(req.Code) == "" {
		return ErrInvalidInput
	}
	if req.DateReceived.IsZero() {
		return ErrInvalidInput
	}
	if req.Priority != "" && !req.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

// ValidateUpdateInput validates a partial manuscript update.
func ValidateUpdateInput(req UpdateRequest) error {
	if strings.TrimSpace(req.ID) == "" {
		return ErrInvalidInput
	}
	if req.Status != nil && !req.Status.Valid() {
		return ErrInvalidStatus
	}
	if req.Priority != nil && !req.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

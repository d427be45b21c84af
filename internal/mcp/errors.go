package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/folio/internal/domain/activity"
	"github.com/rpggio/folio/internal/domain/billing"
	"github.com/rpggio/folio/internal/domain/cycle"
	"github.com/rpggio/folio/internal/domain/manuscript"
	"github.com/rpggio/folio/internal/domain/schedule"
	"github.com/rpggio/folio/internal/domain/settings"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, manuscript.ErrManuscriptNotFound):
		return &APIError{Code: "MANUSCRIPT_NOT_FOUND", Message: "manuscript not found", RecoveryHint: "Check the id with list_manuscripts"}
	case errors.Is(err, manuscript.ErrDuplicateCode):
		return &APIError{Code: "DUPLICATE_CODE", Message: "a manuscript with this code already exists", RecoveryHint: "Codes are unique ignoring case"}
	case errors.Is(err, manuscript.ErrInvalidStatus):
		return &APIError{Code: "INVALID_STATUS", Message: "unknown status", RecoveryHint: "Use UNTOUCHED, WORKED, BILLED, PENDING_JM, PENDING_TL or PENDING_CED"}
	case errors.Is(err, manuscript.ErrInvalidPriority):
		return &APIError{Code: "INVALID_PRIORITY", Message: "unknown priority", RecoveryHint: "Use Normal, High or Urgent"}
	case errors.Is(err, manuscript.ErrInvalidInput), errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, schedule.ErrInvalidSchedule):
		return &APIError{Code: "INVALID_SCHEDULE", Message: err.Error(), RecoveryHint: "Send 7 weights (Sunday first), each 0, 0.5 or 1"}
	case errors.Is(err, settings.ErrInvalidTarget):
		return &APIError{Code: "INVALID_TARGET", Message: "target must be zero or positive"}
	case errors.Is(err, settings.ErrInvalidRate):
		return &APIError{Code: "INVALID_RATE", Message: "rates must be zero or positive"}
	case errors.Is(err, billing.ErrInvalidCycle), errors.Is(err, cycle.ErrInvalidID):
		return &APIError{Code: "INVALID_CYCLE", Message: err.Error(), RecoveryHint: "Cycle ids look like 2026-01-C1; see list_cycles"}
	case errors.Is(err, billing.ErrNotInCycle):
		return &APIError{Code: "NOT_DONE", Message: "only WORKED or BILLED manuscripts can be claimed", RecoveryHint: "Update the status first"}
	default:
		return nil
	}
}

// toolError converts err into the error returned to the client.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return &APIError{Code: "INTERNAL", Message: err.Error()}
}

func invalidDate(field, value string) error {
	return &APIError{
		Code:         "INVALID_DATE",
		Message:      fmt.Sprintf("%s %q is not a date", field, value),
		RecoveryHint: "Use YYYY-MM-DD or an RFC 3339 timestamp",
	}
}

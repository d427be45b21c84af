package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/folio/internal/domain/cycle"
)

// ErrInvalidSchedule indicates a schedule that violates the weekly-weight or
// day-off format rules.
var ErrInvalidSchedule = errors.New("invalid schedule")

// Validate enforces exactly seven weekly weights, each 0, 0.5 or 1, and
// well-formed day-off keys. Invalid schedules are rejected, never coerced.
func Validate(s Schedule) error {
	if len(s.WeeklyWeights) != 7 {
		return fmt.Errorf("%w: expected 7 weekly weights, got %d", ErrInvalidSchedule, len(s.WeeklyWeights))
	}
	for i, w := range s.WeeklyWeights {
		if w != Off && w != Half && w != Full {
			return fmt.Errorf("%w: weight %v for %s", ErrInvalidSchedule, w, time.Weekday(i))
		}
	}
	for key := range s.DaysOff {
		if _, err := time.Parse(cycle.DateLayout, key); err != nil {
			return fmt.Errorf("%w: day off %q", ErrInvalidSchedule, key)
		}
	}
	return nil
}

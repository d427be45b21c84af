// Package schedule weights calendar days by a weekly capacity profile and
// explicit days off.
package schedule

import (
	"sort"
	"time"

	"github.com/rpggio/folio/internal/domain/cycle"
)

// Allowed weight values for a single day.
const (
	Off  = 0.0
	Half = 0.5
	Full = 1.0
)

// Schedule is an immutable snapshot of a user's work week.
// WeeklyWeights is indexed by time.Weekday (Sunday = 0).
type Schedule struct {
	WeeklyWeights []float64       `json:"weekly_weights"`
	DaysOff       map[string]bool `json:"days_off,omitempty"`
}

// Default returns a full seven-day week with no days off.
func Default() Schedule {
	return Schedule{WeeklyWeights: []float64{Full, Full, Full, Full, Full, Full, Full}}
}

// New builds a schedule from weekly weights and a list of YYYY-MM-DD keys.
func New(weights []float64, daysOff []string) Schedule {
	s := Schedule{WeeklyWeights: append([]float64(nil), weights...)}
	if len(daysOff) > 0 {
		s.DaysOff = make(map[string]bool, len(daysOff))
		for _, key := range daysOff {
			s.DaysOff[key] = true
		}
	}
	return s
}

// DayKey returns the local YYYY-MM-DD key for t.
func DayKey(t time.Time) string {
	return t.Format(cycle.DateLayout)
}

// IsDayOff reports whether t is an explicit day off.
func (s Schedule) IsDayOff(t time.Time) bool {
	return s.DaysOff[DayKey(t)]
}

// DaysOffList returns the day-off keys in ascending order.
func (s Schedule) DaysOffList() []string {
	keys := make([]string, 0, len(s.DaysOff))
	for key, off := range s.DaysOff {
		if off {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// WeightFor returns the work weight of t's calendar day.
func (s Schedule) WeightFor(t time.Time) float64 {
	if s.IsDayOff(t) {
		return Off
	}
	wd := int(t.Weekday())
	if wd >= len(s.WeeklyWeights) {
		return Full
	}
	return s.WeeklyWeights[wd]
}

// WorkUnitsBetween sums WeightFor over every calendar day in the closed
// range [start, end]. An inverted range yields 0.
func (s Schedule) WorkUnitsBetween(start, end time.Time) float64 {
	end = end.In(start.Location())
	last := cycle.StartOfDay(end)
	total := 0.0
	for d := cycle.StartOfDay(start); !d.After(last); d = cycle.NextDay(d) {
		total += s.WeightFor(d)
	}
	return total
}

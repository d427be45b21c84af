package pacing

import (
	"time"

	"github.com/rpggio/folio/internal/domain/cycle"
	"github.com/rpggio/folio/internal/domain/schedule"
)

// CoachingState classifies today's standing against the cycle target
type CoachingState string

const (
	StateAhead      CoachingState = "AHEAD"
	StateOnTrack    CoachingState = "ON_TRACK"
	StateCatchingUp CoachingState = "CATCHING_UP"
	StateBehind     CoachingState = "BEHIND"
	StateCritical   CoachingState = "CRITICAL"
	StateRest       CoachingState = "REST"
)

// Thresholds are coaching policy constants, not derived values.
type Thresholds struct {
	// Moderate marks BEHIND when the required pace exceeds Moderate x baseline.
	Moderate float64 `yaml:"moderate"`
	// Severe marks CRITICAL when the required pace exceeds Severe x baseline.
	Severe float64 `yaml:"severe"`
	// NominalWorkDays defines the baseline pace as target / NominalWorkDays.
	NominalWorkDays float64 `yaml:"nominal_work_days"`
	// SmallRemaining is the remaining-today count treated as "almost there".
	SmallRemaining int `yaml:"small_remaining"`
}

// DefaultThresholds returns the standard coaching policy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Moderate:        1.2,
		Severe:          1.6,
		NominalWorkDays: 15,
		SmallRemaining:  5,
	}
}

// Input is an immutable snapshot of everything the forecast depends on.
type Input struct {
	Cycle    cycle.Cycle
	Today    time.Time
	Target   int
	Schedule schedule.Schedule
	// CompletedBeforeToday counts in-cycle completions dated before today.
	CompletedBeforeToday int
	// CompletedToday counts completions dated today. It never feeds the
	// baseline for today's quota.
	CompletedToday int
}

// DayQuota is the planned quota for one future day.
type DayQuota struct {
	Date   time.Time
	Weight float64
	Quota  int
}

// Forecast is the computed pacing plan for today and the rest of the cycle.
type Forecast struct {
	Cycle              cycle.Cycle
	Today              time.Time
	Target             int
	CompletedInCycle   int
	CompletedToday     int
	RemainingToTarget  int
	RemainingWorkUnits float64
	BaseDailyTarget    float64
	TodayWeight        float64
	TodayQuota         int
	RemainingToday     int
	RequiredPace       float64
	BaselinePace       float64
	Days               []DayQuota
	State              CoachingState
}

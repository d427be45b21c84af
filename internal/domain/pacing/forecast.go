// Package pacing turns a cycle target and a weighted work week into daily
// quotas and a coaching classification.
package pacing

import (
	"math"
	"time"

	"github.com/rpggio/folio/internal/domain/cycle"
	"github.com/rpggio/folio/internal/domain/schedule"
)

// minWorkUnits floors the divisor so the last day of a cycle caps instead of
// dividing by zero.
const minWorkUnits = 0.1

// ceilEpsilon absorbs float noise such as 4.000000000001 before rounding up.
const ceilEpsilon = 1e-9

// Compute builds the forecast for in. It never fails: degenerate inputs
// produce zero quotas.
func Compute(in Input, th Thresholds) Forecast {
	today := cycle.StartOfDay(in.Today.In(in.Cycle.Start.Location()))
	completedInCycle := in.CompletedBeforeToday + in.CompletedToday
	targetMet := in.Target <= 0 || completedInCycle >= in.Target

	remainingAtStartOfDay := max(0, in.Target-in.CompletedBeforeToday)
	units := in.Schedule.WorkUnitsBetween(today, in.Cycle.End)
	base := float64(remainingAtStartOfDay) / math.Max(minWorkUnits, units)
	weight := in.Schedule.WeightFor(today)

	quota := 0
	if !targetMet && weight > 0 {
		quota = min(ceilQuota(base*weight), remainingAtStartOfDay)
	}

	f := Forecast{
		Cycle:              in.Cycle,
		Today:              today,
		Target:             in.Target,
		CompletedInCycle:   completedInCycle,
		CompletedToday:     in.CompletedToday,
		RemainingToTarget:  max(0, in.Target-completedInCycle),
		RemainingWorkUnits: units,
		BaseDailyTarget:    base,
		TodayWeight:        weight,
		TodayQuota:         quota,
		RemainingToday:     max(0, quota-in.CompletedToday),
		RequiredPace:       base,
	}
	if in.Target > 0 && th.NominalWorkDays > 0 {
		f.BaselinePace = float64(in.Target) / th.NominalWorkDays
	}

	futureRemaining := 0
	if !targetMet {
		futureRemaining = max(0, remainingAtStartOfDay-max(quota, in.CompletedToday))
	}
	f.Days = Series(in.Cycle, today, in.Schedule, futureRemaining)
	f.State = Classify(f, th)
	return f
}

// Series plans each day from the day after today through the cycle end,
// spreading remaining over the future weighted units only. The planned
// quotas never add up to more than remaining.
func Series(c cycle.Cycle, today time.Time, sched schedule.Schedule, remaining int) []DayQuota {
	first := cycle.NextDay(today)
	if first.After(c.End) {
		return []DayQuota{}
	}

	units := sched.WorkUnitsBetween(first, c.End)
	base := float64(max(0, remaining)) / math.Max(minWorkUnits, units)
	left := max(0, remaining)

	days := make([]DayQuota, 0, c.Days())
	for d := first; !d.After(c.End); d = cycle.NextDay(d) {
		w := sched.WeightFor(d)
		q := min(ceilQuota(base*w), left)
		left -= q
		days = append(days, DayQuota{Date: d, Weight: w, Quota: q})
	}
	return days
}

// Classify applies the coaching decision table to a computed forecast.
func Classify(f Forecast, th Thresholds) CoachingState {
	switch {
	case f.Target <= 0 || f.CompletedInCycle >= f.Target:
		return StateAhead
	case f.TodayWeight == 0:
		return StateRest
	case f.RemainingToday <= 0:
		return StateOnTrack
	case f.RemainingToday <= th.SmallRemaining && f.CompletedToday > 0:
		return StateCatchingUp
	case f.BaselinePace > 0 && f.RequiredPace > th.Severe*f.BaselinePace:
		return StateCritical
	case f.BaselinePace > 0 && f.RequiredPace > th.Moderate*f.BaselinePace:
		return StateBehind
	default:
		return StateOnTrack
	}
}

func ceilQuota(x float64) int {
	if x <= 0 {
		return 0
	}
	return int(math.Ceil(x - ceilEpsilon))
}

package pacing_test

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/rpggio/folio/internal/domain/cycle"
	"github.com/rpggio/folio/internal/domain/pacing"
	"github.com/rpggio/folio/internal/domain/schedule"
	"github.com/stretchr/testify/require"
)

func janDay(d int) time.Time {
	return time.Date(2026, time.January, d, 14, 0, 0, 0, time.UTC)
}

func input(today time.Time, target, before, onToday int, sched schedule.Schedule) pacing.Input {
	return pacing.Input{
		Cycle:                cycle.Resolve(today),
		Today:                today,
		Target:               target,
		Schedule:             sched,
		CompletedBeforeToday: before,
		CompletedToday:       onToday,
	}
}

func TestCompute_EndToEndExample(t *testing.T) {
	f := pacing.Compute(input(janDay(20), 50, 20, 0, schedule.Default()), pacing.DefaultThresholds())

	require.Equal(t, "2026-01-C1", f.Cycle.ID)
	require.Equal(t, 6.0, f.RemainingWorkUnits)
	require.InDelta(t, 5.0, f.BaseDailyTarget, 1e-9)
	require.Equal(t, 5, f.TodayQuota)
	require.Equal(t, 5, f.RemainingToday)
	require.Equal(t, 30, f.RemainingToTarget)
}

func TestCompute_TodayQuotaStableAsCompletionsLogged(t *testing.T) {
	th := pacing.DefaultThresholds()
	morning := pacing.Compute(input(janDay(20), 50, 20, 0, schedule.Default()), th)
	evening := pacing.Compute(input(janDay(20), 50, 20, 3, schedule.Default()), th)

	require.Equal(t, morning.TodayQuota, evening.TodayQuota)
	require.Equal(t, 2, evening.RemainingToday)
	require.Equal(t, 23, evening.CompletedInCycle)
}

func TestCompute_TargetMetGivesZeroQuota(t *testing.T) {
	th := pacing.DefaultThresholds()
	scheds := []schedule.Schedule{
		schedule.Default(),
		schedule.New([]float64{0, 0.5, 0.5, 1, 1, 1, 0}, nil),
		schedule.New([]float64{1, 1, 1, 1, 1, 1, 1}, []string{"2026-01-21"}),
	}
	for _, s := range scheds {
		f := pacing.Compute(input(janDay(20), 50, 48, 2, s), th)
		require.Equal(t, 0, f.TodayQuota)
		require.Equal(t, pacing.StateAhead, f.State)
		for _, d := range f.Days {
			require.Equal(t, 0, d.Quota)
		}

		f = pacing.Compute(input(janDay(20), 50, 60, 0, s), th)
		require.Equal(t, 0, f.TodayQuota)
	}
}

func TestCompute_DayOffGivesZeroQuota(t *testing.T) {
	sched := schedule.New([]float64{1, 1, 1, 1, 1, 1, 1}, []string{"2026-01-20"})
	f := pacing.Compute(input(janDay(20), 50, 20, 0, sched), pacing.DefaultThresholds())

	require.Equal(t, 0.0, f.TodayWeight)
	require.Equal(t, 0, f.TodayQuota)
	require.Equal(t, pacing.StateRest, f.State)
	require.Equal(t, 5.0, f.RemainingWorkUnits)
}

func TestCompute_HalfDayWeight(t *testing.T) {
	// Jan 20 2026 is a Tuesday.
	sched := schedule.New([]float64{1, 1, 0.5, 1, 1, 1, 1}, nil)
	f := pacing.Compute(input(janDay(20), 50, 28, 0, sched), pacing.DefaultThresholds())

	// 22 remaining over 5.5 units -> 4.0 per unit, half day -> 2.
	require.Equal(t, 5.5, f.RemainingWorkUnits)
	require.Equal(t, 2, f.TodayQuota)
}

func TestCompute_LastDayCapsInsteadOfDividingByZero(t *testing.T) {
	sched := schedule.New([]float64{1, 1, 1, 1, 1, 1, 1}, []string{"2026-01-25"})
	f := pacing.Compute(input(janDay(25), 50, 40, 0, sched), pacing.DefaultThresholds())

	require.Equal(t, 0.0, f.RemainingWorkUnits)
	require.InDelta(t, 100.0, f.BaseDailyTarget, 1e-9)
	require.Equal(t, 0, f.TodayQuota)
	require.Empty(t, f.Days)
}

func TestCompute_QuotaClampedToRemaining(t *testing.T) {
	f := pacing.Compute(input(janDay(25), 50, 47, 0, schedule.Default()), pacing.DefaultThresholds())
	require.Equal(t, 3, f.TodayQuota)
}

func TestCompute_DegenerateTarget(t *testing.T) {
	th := pacing.DefaultThresholds()
	for _, target := range []int{0, -5} {
		f := pacing.Compute(input(janDay(20), target, 0, 0, schedule.Default()), th)
		require.Equal(t, 0, f.TodayQuota)
		require.Equal(t, pacing.StateAhead, f.State)
		for _, d := range f.Days {
			require.Equal(t, 0, d.Quota)
		}
	}
}

func TestSeries_ExcludesTodayAndSpreadsRemaining(t *testing.T) {
	f := pacing.Compute(input(janDay(20), 50, 20, 0, schedule.Default()), pacing.DefaultThresholds())

	require.Len(t, f.Days, 5)
	require.Equal(t, 21, f.Days[0].Date.Day())
	require.Equal(t, 25, f.Days[4].Date.Day())

	total := 0
	for _, d := range f.Days {
		require.Equal(t, 5, d.Quota)
		total += d.Quota
	}
	require.Equal(t, 25, total)
}

func TestSeries_NeverExceedsRemaining(t *testing.T) {
	c := cycle.Resolve(janDay(12))
	days := pacing.Series(c, janDay(12), schedule.Default(), 7)

	total := 0
	for _, d := range days {
		total += d.Quota
	}
	require.Len(t, days, 13)
	require.Equal(t, 7, total)
}

func TestSeries_SkipsDaysOff(t *testing.T) {
	c := cycle.Resolve(janDay(20))
	sched := schedule.New([]float64{1, 1, 1, 1, 1, 1, 1}, []string{"2026-01-22"})
	days := pacing.Series(c, janDay(20), sched, 8)

	require.Len(t, days, 5)
	require.Equal(t, 0, days[1].Quota)
	require.Equal(t, 2, days[0].Quota)
}

func TestClassify(t *testing.T) {
	th := pacing.DefaultThresholds()
	base := pacing.Forecast{Target: 150, TodayWeight: 1, BaselinePace: 10}

	tests := []struct {
		name string
		mod  func(f *pacing.Forecast)
		want pacing.CoachingState
	}{
		{"target met", func(f *pacing.Forecast) { f.CompletedInCycle = 150 }, pacing.StateAhead},
		{"rest day", func(f *pacing.Forecast) { f.TodayWeight = 0; f.RemainingToday = 9 }, pacing.StateRest},
		{"today done", func(f *pacing.Forecast) { f.RemainingToday = 0; f.RequiredPace = 30 }, pacing.StateOnTrack},
		{"almost there", func(f *pacing.Forecast) { f.RemainingToday = 4; f.CompletedToday = 6; f.RequiredPace = 30 }, pacing.StateCatchingUp},
		{"small but no progress", func(f *pacing.Forecast) { f.RemainingToday = 4; f.RequiredPace = 17 }, pacing.StateCritical},
		{"severely behind", func(f *pacing.Forecast) { f.RemainingToday = 17; f.RequiredPace = 16.5 }, pacing.StateCritical},
		{"moderately behind", func(f *pacing.Forecast) { f.RemainingToday = 13; f.RequiredPace = 12.5 }, pacing.StateBehind},
		{"on pace", func(f *pacing.Forecast) { f.RemainingToday = 10; f.RequiredPace = 10 }, pacing.StateOnTrack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := base
			tt.mod(&f)
			require.Equal(t, tt.want, pacing.Classify(f, th))
		})
	}
}

func TestCompute_SkippedMidnightKeepsCalendarDate(t *testing.T) {
	santiago, err := time.LoadLocation("America/Santiago")
	require.NoError(t, err)
	now := time.Date(2026, time.September, 6, 12, 0, 0, 0, santiago)
	sched := schedule.New([]float64{1, 1, 1, 1, 1, 1, 1}, []string{"2026-09-05"})

	f := pacing.Compute(input(now, 10, 0, 0, sched), pacing.DefaultThresholds())

	require.Equal(t, "2026-09-06", f.Today.Format(cycle.DateLayout))
	require.Equal(t, 1.0, f.TodayWeight)
	require.Equal(t, 5.0, f.RemainingWorkUnits)
	require.Equal(t, 2, f.TodayQuota)
	require.NotEqual(t, pacing.StateRest, f.State)

	var got []string
	for _, d := range f.Days {
		got = append(got, d.Date.Format(cycle.DateLayout))
		require.Equal(t, 2, d.Quota)
	}
	require.Equal(t, []string{"2026-09-07", "2026-09-08", "2026-09-09", "2026-09-10"}, got)
}

package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/folio/internal/domain/billing"
	"github.com/rpggio/folio/internal/domain/manuscript"
	"github.com/rpggio/folio/internal/domain/settings"
	"github.com/rpggio/folio/internal/repository"
	"github.com/rpggio/folio/internal/repository/mocks"
)

type recorder struct {
	items  map[string]int
	billed int
}

func (r *recorder) ReconciliationItems(kind string, n int) {
	if r.items == nil {
		r.items = map[string]int{}
	}
	r.items[kind] += n
}

func (r *recorder) ManuscriptsBilled(n int) { r.billed += n }

func newBillingService(repo *mocks.ManuscriptRepository, store *mocks.SettingsRepository, activities *mocks.ActivityRepository, rec billing.Recorder) *billing.Service {
	manuscripts := manuscript.NewService(repo, nil, nil)
	rates := settings.NewService(store, nil, settings.Defaults{}, nil)
	return billing.NewService(manuscripts, rates, activities, rec, time.UTC, nil)
}

func januaryRecords() []manuscript.Manuscript {
	return []manuscript.Manuscript{
		record("A", manuscript.StatusWorked, day(time.January, 12)),
		record("B", manuscript.StatusBilled, day(time.January, 13)),
		record("C", manuscript.StatusWorked, day(time.January, 14)),
		record("D", manuscript.StatusWorked, day(time.January, 2)),
	}
}

func TestBillingService_Preview(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ManuscriptRepository{}
	repo.On("List", ctx, "user1", manuscript.ListOptions{}).Return(januaryRecords(), nil)
	store := &mocks.SettingsRepository{}
	store.On("GetRate", ctx, "user1", "2026-01-C1").Return(settings.RateProfile{USD: 3}, nil)

	svc := newBillingService(repo, store, nil, nil)
	report, err := svc.Preview(ctx, "user1", "2026-01-c1", "a\nb\nd\nzz")
	require.NoError(t, err)
	require.Equal(t, "2026-01-C1", report.Cycle.ID)
	require.Equal(t, []string{"A", "B"}, codes(report.Result.Matched))
	require.Equal(t, []string{"C"}, codes(report.Result.Missing))
	require.Len(t, report.Result.Extra, 2)
	require.Equal(t, "2025-12-C2", report.Result.Extra[0].CycleID)
	require.Equal(t, billing.ExtraUnknown, report.Result.Extra[1].Kind)
	require.InDelta(t, 6.0, report.Summary.ConfirmedUSD, 1e-9)
}

func TestBillingService_PreviewMissingRateIsZero(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ManuscriptRepository{}
	repo.On("List", ctx, "user1", manuscript.ListOptions{}).Return(januaryRecords(), nil)
	store := &mocks.SettingsRepository{}
	store.On("GetRate", ctx, "user1", "2026-01-C1").Return(settings.RateProfile{}, repository.ErrNotFound)

	svc := newBillingService(repo, store, nil, nil)
	report, err := svc.Preview(ctx, "user1", "2026-01-C1", "")
	require.NoError(t, err)
	require.Zero(t, report.Summary.ProjectedUSD)
	require.Len(t, report.Result.Missing, 3)
}

func TestBillingService_PreviewInvalidCycle(t *testing.T) {
	svc := newBillingService(&mocks.ManuscriptRepository{}, &mocks.SettingsRepository{}, nil, nil)
	_, err := svc.Preview(context.Background(), "user1", "2026-13-C1", "a")
	require.ErrorIs(t, err, billing.ErrInvalidCycle)
}

func TestBillingService_FinishBillsMatchedWorkedOnly(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, time.January, 27, 9, 0, 0, 0, time.UTC)
	records := januaryRecords()

	repo := &mocks.ManuscriptRepository{}
	repo.On("List", ctx, "user1", manuscript.ListOptions{}).Return(records, nil)
	repo.On("Get", ctx, "user1", "id-A").Return(&records[0], nil)
	repo.On("UpdateMany", ctx, "user1", mock.MatchedBy(func(ms []manuscript.Manuscript) bool {
		return len(ms) == 1 && ms[0].ID == "id-A" &&
			ms[0].Status == manuscript.StatusBilled &&
			ms[0].ClaimedCycleID == "2026-01-C1"
	})).Return(nil)
	store := &mocks.SettingsRepository{}
	store.On("GetRate", ctx, "user1", "2026-01-C1").Return(settings.RateProfile{}, nil)
	activities := &mocks.ActivityRepository{}
	activities.On("Log", ctx, "user1", mock.Anything).Return(nil)
	rec := &recorder{}

	svc := newBillingService(repo, store, activities, rec)
	out, err := svc.Finish(ctx, "user1", "2026-01-C1", "A\nB\nD", at)
	require.NoError(t, err)
	require.Len(t, out.Billed, 1)
	require.Equal(t, "A", out.Billed[0].Code)
	require.Equal(t, 1, rec.billed)
	require.Equal(t, 2, rec.items["matched"])
	require.Equal(t, 1, rec.items["missing"])
	require.Equal(t, 1, rec.items["other_cycle"])
	repo.AssertNotCalled(t, "Get", ctx, "user1", "id-B")
	repo.AssertNotCalled(t, "Get", ctx, "user1", "id-C")
	repo.AssertExpectations(t)
	activities.AssertExpectations(t)
}

func TestBillingService_Claim(t *testing.T) {
	ctx := context.Background()
	records := januaryRecords()

	repo := &mocks.ManuscriptRepository{}
	repo.On("Get", ctx, "user1", "id-D").Return(&records[3], nil)
	repo.On("Update", ctx, "user1", mock.MatchedBy(func(m *manuscript.Manuscript) bool {
		return m.ClaimedCycleID == "2026-01-C1"
	})).Return(nil)

	svc := newBillingService(repo, &mocks.SettingsRepository{}, nil, nil)
	m, err := svc.Claim(ctx, "user1", "id-D", "2026-01-c1")
	require.NoError(t, err)
	require.Equal(t, "2026-01-C1", m.ClaimedCycleID)

	_, err = svc.Claim(ctx, "user1", "id-D", "nope")
	require.ErrorIs(t, err, billing.ErrInvalidCycle)
}

func TestBillingService_ClaimRejectsUndone(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ManuscriptRepository{}
	repo.On("Get", ctx, "user1", "m1").Return(&manuscript.Manuscript{ID: "m1", Status: manuscript.StatusUntouched}, nil)

	svc := newBillingService(repo, &mocks.SettingsRepository{}, nil, nil)
	_, err := svc.Claim(ctx, "user1", "m1", "2026-01-C1")
	require.ErrorIs(t, err, billing.ErrNotInCycle)
}

func TestBillingService_Cycles(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ManuscriptRepository{}
	repo.On("List", ctx, "user1", mock.Anything).Return(januaryRecords(), nil)

	svc := newBillingService(repo, &mocks.SettingsRepository{}, nil, nil)
	counts, err := svc.Cycles(ctx, "user1", 0)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	require.Equal(t, "2026-01-C1", counts[0].Cycle.ID)
	require.Equal(t, 3, counts[0].Files)

	counts, err = svc.Cycles(ctx, "user1", 1)
	require.NoError(t, err)
	require.Len(t, counts, 1)
}

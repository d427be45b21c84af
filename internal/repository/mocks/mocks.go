package mocks

import (
	"context"

	"github.com/rpggio/folio/internal/domain/activity"
	"github.com/rpggio/folio/internal/domain/manuscript"
	"github.com/rpggio/folio/internal/domain/schedule"
	"github.com/rpggio/folio/internal/domain/settings"
	"github.com/stretchr/testify/mock"
)

// ManuscriptRepository is a mock for manuscript.Repository.
type ManuscriptRepository struct {
	mock.Mock
}

func (m *ManuscriptRepository) Create(ctx context.Context, userID string, ms *manuscript.Manuscript) error {
	args := m.Called(ctx, userID, ms)
	return args.Error(0)
}

func (m *ManuscriptRepository) Get(ctx context.Context, userID, id string) (*manuscript.Manuscript, error) {
	args := m.Called(ctx, userID, id)
	if ms, ok := args.Get(0).(*manuscript.Manuscript); ok {
		return ms, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ManuscriptRepository) List(ctx context.Context, userID string, opts manuscript.ListOptions) ([]manuscript.Manuscript, error) {
	args := m.Called(ctx, userID, opts)
	if list, ok := args.Get(0).([]manuscript.Manuscript); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ManuscriptRepository) Update(ctx context.Context, userID string, ms *manuscript.Manuscript) error {
	args := m.Called(ctx, userID, ms)
	return args.Error(0)
}

func (m *ManuscriptRepository) UpdateMany(ctx context.Context, userID string, ms []manuscript.Manuscript) error {
	args := m.Called(ctx, userID, ms)
	return args.Error(0)
}

func (m *ManuscriptRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *ManuscriptRepository) AddNote(ctx context.Context, manuscriptID string, note *manuscript.Note) error {
	args := m.Called(ctx, manuscriptID, note)
	return args.Error(0)
}

// SettingsRepository is a mock for settings.Repository.
type SettingsRepository struct {
	mock.Mock
}

func (m *SettingsRepository) Get(ctx context.Context, userID string) (*settings.Settings, error) {
	args := m.Called(ctx, userID)
	if s, ok := args.Get(0).(*settings.Settings); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SettingsRepository) SaveTarget(ctx context.Context, userID string, target int) error {
	args := m.Called(ctx, userID, target)
	return args.Error(0)
}

func (m *SettingsRepository) SaveSchedule(ctx context.Context, userID string, sched schedule.Schedule) error {
	args := m.Called(ctx, userID, sched)
	return args.Error(0)
}

func (m *SettingsRepository) GetRate(ctx context.Context, userID, cycleID string) (settings.RateProfile, error) {
	args := m.Called(ctx, userID, cycleID)
	if rate, ok := args.Get(0).(settings.RateProfile); ok {
		return rate, args.Error(1)
	}
	return settings.RateProfile{}, args.Error(1)
}

func (m *SettingsRepository) SaveRate(ctx context.Context, userID, cycleID string, rate settings.RateProfile) error {
	args := m.Called(ctx, userID, cycleID, rate)
	return args.Error(0)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, userID string, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, userID, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, userID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, userID, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

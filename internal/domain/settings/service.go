package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/folio/internal/domain/activity"
	"github.com/rpggio/folio/internal/domain/cycle"
	"github.com/rpggio/folio/internal/domain/schedule"
	"github.com/rpggio/folio/internal/repository"
)

// Service handles settings operations.
type Service struct {
	repo       Repository
	activities ActivityRepository
	defaults   Defaults
	logger     *slog.Logger
}

// NewService creates a new settings service.
func NewService(repo Repository, activities ActivityRepository, defaults Defaults, logger *slog.Logger) *Service {
	return &Service{repo: repo, activities: activities, defaults: defaults, logger: logger}
}

// Get returns the stored settings, falling back to defaults for users that
// have not saved any.
func (s *Service) Get(ctx context.Context, userID string) (*Settings, error) {
	stored, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &Settings{
				UserID:   userID,
				Target:   s.defaults.Target,
				Schedule: schedule.Default(),
			}, nil
		}
		return nil, fmt.Errorf("getting settings: %w", err)
	}
	if len(stored.Schedule.WeeklyWeights) == 0 {
		stored.Schedule.WeeklyWeights = schedule.Default().WeeklyWeights
	}
	return stored, nil
}

// UpdateTarget stores the cycle completion goal.
func (s *Service) UpdateTarget(ctx context.Context, userID string, target int) (*Settings, error) {
	if target < 0 {
		return nil, ErrInvalidTarget
	}
	if err := s.repo.SaveTarget(ctx, userID, target); err != nil {
		return nil, fmt.Errorf("saving target: %w", err)
	}
	s.logChange(ctx, userID, fmt.Sprintf("target set to %d", target))
	return s.Get(ctx, userID)
}

// UpdateSchedule replaces the weekly weights and days off. Invalid
// schedules are rejected with schedule.ErrInvalidSchedule.
func (s *Service) UpdateSchedule(ctx context.Context, userID string, sched schedule.Schedule) (*Settings, error) {
	if err := schedule.Validate(sched); err != nil {
		return nil, err
	}
	if _, err := s.repo.Get(ctx, userID); errors.Is(err, repository.ErrNotFound) {
		// First save for this user: keep the configured default target.
		if err := s.repo.SaveTarget(ctx, userID, s.defaults.Target); err != nil {
			return nil, fmt.Errorf("saving target: %w", err)
		}
	}
	if err := s.repo.SaveSchedule(ctx, userID, sched); err != nil {
		return nil, fmt.Errorf("saving schedule: %w", err)
	}
	s.logChange(ctx, userID, fmt.Sprintf("schedule updated (%d days off)", len(sched.DaysOffList())))
	return s.Get(ctx, userID)
}

// GetRate returns the rate profile for cycleID, or a zero profile.
func (s *Service) GetRate(ctx context.Context, userID, cycleID string) (RateProfile, error) {
	rate, err := s.repo.GetRate(ctx, userID, cycleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return RateProfile{}, nil
		}
		return RateProfile{}, fmt.Errorf("getting rate: %w", err)
	}
	return rate, nil
}

// SetRate stores the rate profile for cycleID.
func (s *Service) SetRate(ctx context.Context, userID, cycleID string, rate RateProfile) error {
	c, err := cycle.ParseID(cycleID, time.UTC)
	if err != nil {
		return err
	}
	if rate.USD < 0 || rate.PHP < 0 {
		return ErrInvalidRate
	}
	if err := s.repo.SaveRate(ctx, userID, c.ID, rate); err != nil {
		return fmt.Errorf("saving rate: %w", err)
	}
	s.logChange(ctx, userID, fmt.Sprintf("rate for %s set to %.2f USD / %.2f PHP", c.ID, rate.USD, rate.PHP))
	return nil
}

func (s *Service) logChange(ctx context.Context, userID, summary string) {
	if s.activities == nil {
		return
	}
	if err := s.activities.Log(ctx, userID, &activity.ActivityEntry{
		ActivityType: activity.TypeSettingsUpdated,
		Summary:      summary,
	}); err != nil && s.logger != nil {
		s.logger.Warn("failed to log activity", "type", activity.TypeSettingsUpdated, "error", err)
	}
}

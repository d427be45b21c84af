package pacing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/folio/internal/domain/cycle"
	"github.com/rpggio/folio/internal/domain/manuscript"
	"github.com/rpggio/folio/internal/domain/settings"
)

// ManuscriptLister loads the manuscripts that feed completion counts.
type ManuscriptLister interface {
	List(ctx context.Context, userID string, opts manuscript.ListOptions) ([]manuscript.Manuscript, error)
}

// SettingsProvider loads the target and schedule snapshot.
type SettingsProvider interface {
	Get(ctx context.Context, userID string) (*settings.Settings, error)
}

// Service computes forecasts from stored manuscripts and settings.
type Service struct {
	manuscripts ManuscriptLister
	settings    SettingsProvider
	thresholds  Thresholds
	loc         *time.Location
	logger      *slog.Logger
}

// NewService creates a new pacing service. A nil loc means time.Local.
func NewService(manuscripts ManuscriptLister, settingsProvider SettingsProvider, thresholds Thresholds, loc *time.Location, logger *slog.Logger) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		manuscripts: manuscripts,
		settings:    settingsProvider,
		thresholds:  thresholds,
		loc:         loc,
		logger:      logger,
	}
}

// Today returns the forecast for the cycle enclosing now.
func (s *Service) Today(ctx context.Context, userID string, now time.Time) (*Forecast, error) {
	cfg, err := s.settings.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	done, err := s.manuscripts.List(ctx, userID, manuscript.ListOptions{
		Statuses: []manuscript.Status{manuscript.StatusWorked, manuscript.StatusBilled},
	})
	if err != nil {
		return nil, fmt.Errorf("loading manuscripts: %w", err)
	}

	now = now.In(s.loc)
	c := cycle.Resolve(now)
	before, today, undated := CountCompletions(done, c, now, s.loc)
	if undated > 0 && s.logger != nil {
		s.logger.Warn("manuscripts without a usable completion date", "user_id", userID, "count", undated)
	}

	f := Compute(Input{
		Cycle:                c,
		Today:                now,
		Target:               cfg.Target,
		Schedule:             cfg.Schedule,
		CompletedBeforeToday: before,
		CompletedToday:       today,
	}, s.thresholds)
	return &f, nil
}

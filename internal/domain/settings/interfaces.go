package settings

import (
	"context"

	"github.com/rpggio/folio/internal/domain/activity"
	"github.com/rpggio/folio/internal/domain/schedule"
)

// Repository provides persistence for settings and cycle rates.
type Repository interface {
	Get(ctx context.Context, userID string) (*Settings, error)
	SaveTarget(ctx context.Context, userID string, target int) error
	SaveSchedule(ctx context.Context, userID string, sched schedule.Schedule) error
	GetRate(ctx context.Context, userID, cycleID string) (RateProfile, error)
	SaveRate(ctx context.Context, userID, cycleID string, rate RateProfile) error
}

// ActivityRepository logs settings changes.
type ActivityRepository interface {
	Log(ctx context.Context, userID string, entry *activity.ActivityEntry) error
}

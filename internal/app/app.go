// Package app wires the sqlite store into the domain services.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/folio/internal/config"
	"github.com/rpggio/folio/internal/domain/activity"
	"github.com/rpggio/folio/internal/domain/billing"
	"github.com/rpggio/folio/internal/domain/manuscript"
	"github.com/rpggio/folio/internal/domain/pacing"
	"github.com/rpggio/folio/internal/domain/settings"
	"github.com/rpggio/folio/internal/mcp"
	"github.com/rpggio/folio/internal/metrics"
	"github.com/rpggio/folio/internal/sqlite"
)

// App holds the services backed by one database.
type App struct {
	DB          *sqlite.DB
	Location    *time.Location
	Manuscripts *manuscript.Service
	Settings    *settings.Service
	Pacing      *pacing.Service
	Billing     *billing.Service
	Activity    *activity.Service
	APIKeys     *sqlite.APIKeyRepository
}

// New builds the services over db. m may be nil.
func New(db *sqlite.DB, cfg config.Config, m *metrics.Metrics, logger *slog.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("resolving timezone: %w", err)
	}

	manuscriptRepo := sqlite.NewManuscriptRepository(db)
	settingsRepo := sqlite.NewSettingsRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	manuscriptSvc := manuscript.NewService(manuscriptRepo, activityRepo, logger)
	settingsSvc := settings.NewService(settingsRepo, activityRepo, settings.Defaults{Target: cfg.Tracker.DefaultTarget}, logger)

	return &App{
		DB:          db,
		Location:    loc,
		Manuscripts: manuscriptSvc,
		Settings:    settingsSvc,
		Pacing:      pacing.NewService(manuscriptSvc, settingsSvc, cfg.Tracker.Thresholds, loc, logger),
		Billing:     billing.NewService(manuscriptSvc, settingsSvc, activityRepo, m, loc, logger),
		Activity:    activity.NewService(activityRepo, logger),
		APIKeys:     sqlite.NewAPIKeyRepository(db),
	}, nil
}

// Services exposes the app to the MCP layer.
func (a *App) Services() mcp.Services {
	return mcp.Services{
		Manuscripts: a.Manuscripts,
		Settings:    a.Settings,
		Pacing:      a.Pacing,
		Billing:     a.Billing,
		Activity:    a.Activity,
	}
}

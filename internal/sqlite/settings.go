package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/folio/internal/domain/schedule"
	"github.com/rpggio/folio/internal/domain/settings"
	"github.com/rpggio/folio/internal/repository"
)

// SettingsRepository implements settings.Repository for SQLite
type SettingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the stored target and schedule
func (r *SettingsRepository) Get(ctx context.Context, userID string) (*settings.Settings, error) {
	var s settings.Settings
	var weights string
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, target, weekly_weights, updated_at FROM settings WHERE user_id = ?`,
		userID,
	).Scan(&s.UserID, &s.Target, &weights, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	var ww []float64
	if err := json.Unmarshal([]byte(weights), &ww); err != nil {
		return nil, fmt.Errorf("failed to decode weekly weights: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT day FROM days_off WHERE user_id = ? ORDER BY day`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list days off: %w", err)
	}
	defer rows.Close()

	var days []string
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("failed to scan day off: %w", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating day off rows: %w", err)
	}

	s.Schedule = schedule.New(ww, days)
	return &s, nil
}

// SaveTarget upserts the cycle target
func (r *SettingsRepository) SaveTarget(ctx context.Context, userID string, target int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (user_id, target, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET target = excluded.target, updated_at = excluded.updated_at
	`, userID, target, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save target: %w", err)
	}
	return nil
}

// SaveSchedule replaces the weekly weights and days off atomically
func (r *SettingsRepository) SaveSchedule(ctx context.Context, userID string, sched schedule.Schedule) error {
	weights, err := json.Marshal(sched.WeeklyWeights)
	if err != nil {
		return fmt.Errorf("failed to encode weekly weights: %w", err)
	}

	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO settings (user_id, weekly_weights, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(user_id) DO UPDATE SET weekly_weights = excluded.weekly_weights, updated_at = excluded.updated_at
		`, userID, string(weights), time.Now()); err != nil {
			return fmt.Errorf("failed to save weekly weights: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM days_off WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("failed to clear days off: %w", err)
		}
		for _, day := range sched.DaysOffList() {
			if _, err := tx.ExecContext(ctx, `INSERT INTO days_off (user_id, day) VALUES (?, ?)`, userID, day); err != nil {
				return fmt.Errorf("failed to save day off: %w", err)
			}
		}
		return nil
	})
}

// GetRate returns the rate profile stored for a cycle
func (r *SettingsRepository) GetRate(ctx context.Context, userID, cycleID string) (settings.RateProfile, error) {
	var rate settings.RateProfile
	err := r.db.QueryRowContext(ctx,
		`SELECT usd, php FROM cycle_rates WHERE user_id = ? AND cycle_id = ?`,
		userID, cycleID,
	).Scan(&rate.USD, &rate.PHP)
	if errors.Is(err, sql.ErrNoRows) {
		return settings.RateProfile{}, repository.ErrNotFound
	}
	if err != nil {
		return settings.RateProfile{}, fmt.Errorf("failed to get rate: %w", err)
	}
	return rate, nil
}

// SaveRate upserts the rate profile for a cycle
func (r *SettingsRepository) SaveRate(ctx context.Context, userID, cycleID string, rate settings.RateProfile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cycle_rates (user_id, cycle_id, usd, php) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, cycle_id) DO UPDATE SET usd = excluded.usd, php = excluded.php
	`, userID, cycleID, rate.USD, rate.PHP)
	if err != nil {
		return fmt.Errorf("failed to save rate: %w", err)
	}
	return nil
}

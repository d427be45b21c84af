package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/rpggio/folio/internal/domain/activity"
)

// ActivityRepository implements activity.Repository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log inserts a new activity entry
func (r *ActivityRepository) Log(ctx context.Context, userID string, entry *activity.ActivityEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	createdAt = createdAt.UTC()

	query := `
		INSERT INTO activity_log (
			user_id, manuscript_id, cycle_id,
			activity_type, summary, details, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		userID,
		nullString(entry.ManuscriptID),
		nullString(entry.CycleID),
		string(entry.ActivityType),
		entry.Summary,
		entry.Details,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}

	entry.UserID = userID
	entry.CreatedAt = createdAt

	return nil
}

// List returns activity entries matching the given filters, newest first
func (r *ActivityRepository) List(ctx context.Context, userID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	q := builder.Select(
		"id", "user_id", "manuscript_id", "cycle_id",
		"activity_type", "summary", "details", "created_at",
	).From("activity_log").Where(sq.Eq{"user_id": userID})

	if opts.ManuscriptID != nil {
		q = q.Where(sq.Eq{"manuscript_id": *opts.ManuscriptID})
	}
	if opts.CycleID != nil {
		q = q.Where(sq.Eq{"cycle_id": *opts.CycleID})
	}
	if len(opts.Types) > 0 {
		q = q.Where(sq.Eq{"activity_type": stringsOf(opts.Types)})
	}
	if opts.Since != nil {
		q = q.Where(sq.GtOrEq{"created_at": opts.Since.UTC()})
	}

	q = q.OrderBy("created_at DESC", "id DESC")
	if opts.Limit > 0 {
		q = q.Limit(uint64(opts.Limit))
	}
	if opts.Offset > 0 {
		if opts.Limit <= 0 {
			q = q.Limit(uint64(1 << 62))
		}
		q = q.Offset(uint64(opts.Offset))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	entries := make([]activity.ActivityEntry, 0)
	for rows.Next() {
		var entry activity.ActivityEntry
		var manuscriptID sql.NullString
		var cycleID sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&manuscriptID,
			&cycleID,
			&entry.ActivityType,
			&entry.Summary,
			&entry.Details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		if manuscriptID.Valid {
			entry.ManuscriptID = &manuscriptID.String
		}
		if cycleID.Valid {
			entry.CycleID = &cycleID.String
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return entries, nil
}

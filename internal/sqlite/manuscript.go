package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/rpggio/folio/internal/domain/manuscript"
	"github.com/rpggio/folio/internal/repository"
)

// ManuscriptRepository implements manuscript.Repository for SQLite
type ManuscriptRepository struct {
	db *DB
}

// NewManuscriptRepository creates a new ManuscriptRepository
func NewManuscriptRepository(db *DB) *ManuscriptRepository {
	return &ManuscriptRepository{db: db}
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

var manuscriptColumns = []string{
	"id", "user_id", "code", "status", "priority",
	"date_received", "due_date", "date_status_changed", "completed_date",
	"billed_date", "date_queried", "date_emailed", "date_updated",
	"claimed_cycle_id",
}

// Create inserts a manuscript and its initial notes
func (r *ManuscriptRepository) Create(ctx context.Context, userID string, m *manuscript.Manuscript) error {
	m.UserID = userID
	query, args, err := builder.Insert("manuscripts").
		Columns(manuscriptColumns...).
		Columns("code_key").
		Values(
			m.ID, userID, m.Code, string(m.Status), string(m.Priority),
			m.DateReceived.UTC(), nullTime(m.DueDate), nullTime(m.DateStatusChanged), nullTime(m.CompletedDate),
			nullTime(m.BilledDate), nullTime(m.DateQueried), nullTime(m.DateEmailed), nullTime(m.DateUpdated),
			m.ClaimedCycleID, manuscript.CodeKey(m.Code),
		).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			if isUniqueViolation(err) {
				return repository.ErrConflict
			}
			return fmt.Errorf("failed to create manuscript: %w", err)
		}
		return insertNotes(ctx, tx, m.ID, m.Notes)
	})
}

// Get retrieves a manuscript with its notes, newest first
func (r *ManuscriptRepository) Get(ctx context.Context, userID, id string) (*manuscript.Manuscript, error) {
	query, args, err := builder.Select(manuscriptColumns...).
		From("manuscripts").
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	m, err := scanManuscript(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get manuscript: %w", err)
	}

	notes, err := r.listNotes(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Notes = notes
	return m, nil
}

// List returns manuscripts matching opts ordered by receipt date, newest
// first. Notes are not loaded.
func (r *ManuscriptRepository) List(ctx context.Context, userID string, opts manuscript.ListOptions) ([]manuscript.Manuscript, error) {
	q := builder.Select(manuscriptColumns...).
		From("manuscripts").
		Where(sq.Eq{"user_id": userID})

	if len(opts.Statuses) > 0 {
		q = q.Where(sq.Eq{"status": stringsOf(opts.Statuses)})
	}
	if len(opts.Priorities) > 0 {
		q = q.Where(sq.Eq{"priority": stringsOf(opts.Priorities)})
	}
	if opts.CodeContains != "" {
		q = q.Where(sq.Expr(`code_key LIKE ? ESCAPE '\'`, "%"+escapeLike(manuscript.CodeKey(opts.CodeContains))+"%"))
	}
	if opts.ReceivedFrom != nil {
		q = q.Where(sq.GtOrEq{"date_received": opts.ReceivedFrom.UTC()})
	}
	if opts.ReceivedTo != nil {
		q = q.Where(sq.LtOrEq{"date_received": opts.ReceivedTo.UTC()})
	}

	q = q.OrderBy("date_received DESC", "code ASC")
	if opts.Limit > 0 {
		q = q.Limit(uint64(opts.Limit))
	}
	if opts.Offset > 0 {
		if opts.Limit <= 0 {
			q = q.Limit(uint64(1<<62))
		}
		q = q.Offset(uint64(opts.Offset))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list manuscripts: %w", err)
	}
	defer rows.Close()

	list := make([]manuscript.Manuscript, 0)
	for rows.Next() {
		m, err := scanManuscript(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan manuscript: %w", err)
		}
		list = append(list, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating manuscript rows: %w", err)
	}
	return list, nil
}

// Update writes every field of m and persists any new notes
func (r *ManuscriptRepository) Update(ctx context.Context, userID string, m *manuscript.Manuscript) error {
	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		return updateManuscript(ctx, tx, userID, m)
	})
}

// UpdateMany writes all records in one transaction. Either every record is
// written or none is.
func (r *ManuscriptRepository) UpdateMany(ctx context.Context, userID string, ms []manuscript.Manuscript) error {
	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		for i := range ms {
			if err := updateManuscript(ctx, tx, userID, &ms[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a manuscript and its notes
func (r *ManuscriptRepository) Delete(ctx context.Context, userID, id string) error {
	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM manuscript_notes WHERE manuscript_id IN (SELECT id FROM manuscripts WHERE id = ? AND user_id = ?)`,
			id, userID); err != nil {
			return fmt.Errorf("failed to delete notes: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM manuscripts WHERE id = ? AND user_id = ?`, id, userID)
		if err != nil {
			return fmt.Errorf("failed to delete manuscript: %w", err)
		}
		return requireRow(result)
	})
}

// AddNote attaches a note to a manuscript
func (r *ManuscriptRepository) AddNote(ctx context.Context, manuscriptID string, note *manuscript.Note) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO manuscript_notes (id, manuscript_id, text, created_at) VALUES (?, ?, ?, ?)`,
		note.ID, manuscriptID, note.Text, note.CreatedAt.UTC())
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("failed to add note: %w", err)
	}
	return nil
}

func updateManuscript(ctx context.Context, tx *sql.Tx, userID string, m *manuscript.Manuscript) error {
	query, args, err := builder.Update("manuscripts").
		SetMap(map[string]any{
			"code":                m.Code,
			"code_key":            manuscript.CodeKey(m.Code),
			"status":              string(m.Status),
			"priority":            string(m.Priority),
			"date_received":       m.DateReceived.UTC(),
			"due_date":            nullTime(m.DueDate),
			"date_status_changed": nullTime(m.DateStatusChanged),
			"completed_date":      nullTime(m.CompletedDate),
			"billed_date":         nullTime(m.BilledDate),
			"date_queried":        nullTime(m.DateQueried),
			"date_emailed":        nullTime(m.DateEmailed),
			"date_updated":        nullTime(m.DateUpdated),
			"claimed_cycle_id":    m.ClaimedCycleID,
		}).
		Where(sq.Eq{"id": m.ID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to update manuscript: %w", err)
	}
	if err := requireRow(result); err != nil {
		return err
	}
	return insertNotes(ctx, tx, m.ID, m.Notes)
}

// insertNotes stores notes not yet persisted; existing ids are skipped.
func insertNotes(ctx context.Context, db execer, manuscriptID string, notes []manuscript.Note) error {
	for _, n := range notes {
		if _, err := db.ExecContext(ctx,
			`INSERT OR IGNORE INTO manuscript_notes (id, manuscript_id, text, created_at) VALUES (?, ?, ?, ?)`,
			n.ID, manuscriptID, n.Text, n.CreatedAt.UTC(),
		); err != nil {
			return fmt.Errorf("failed to save note: %w", err)
		}
	}
	return nil
}

func (r *ManuscriptRepository) listNotes(ctx context.Context, manuscriptID string) ([]manuscript.Note, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, text, created_at FROM manuscript_notes WHERE manuscript_id = ? ORDER BY created_at DESC, rowid DESC`,
		manuscriptID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]manuscript.Note, 0)
	for rows.Next() {
		var n manuscript.Note
		if err := rows.Scan(&n.ID, &n.Text, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating note rows: %w", err)
	}
	return notes, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanManuscript(row rowScanner) (*manuscript.Manuscript, error) {
	var m manuscript.Manuscript
	var due, changed, completed, billed, queried, emailed, updated sql.NullTime
	if err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.Code,
		&m.Status,
		&m.Priority,
		&m.DateReceived,
		&due,
		&changed,
		&completed,
		&billed,
		&queried,
		&emailed,
		&updated,
		&m.ClaimedCycleID,
	); err != nil {
		return nil, err
	}
	m.DueDate = timePtr(due)
	m.DateStatusChanged = timePtr(changed)
	m.CompletedDate = timePtr(completed)
	m.BilledDate = timePtr(billed)
	m.DateQueried = timePtr(queried)
	m.DateEmailed = timePtr(emailed)
	m.DateUpdated = timePtr(updated)
	return &m, nil
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func stringsOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike quotes LIKE wildcards so s matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

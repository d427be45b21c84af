package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/rpggio/folio/internal/domain/manuscript"
	"github.com/rpggio/folio/migrations"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// builder renders squirrel statements with ? placeholders.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection keeps pragmas and in-memory databases consistent.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations applies every embedded migration newer than the schema
// version recorded in PRAGMA user_version, then rekeys manuscript codes.
func (db *DB) RunMigrations() error {
	ctx := context.Background()
	if err := db.migrate(ctx, migrations.FS); err != nil {
		return err
	}
	return db.rekeyCodes(ctx)
}

// rekeyCodes rewrites code_key for rows whose stored key differs from
// manuscript.CodeKey, which SQL alone cannot compute.
func (db *DB) rekeyCodes(ctx context.Context) error {
	rows, err := db.QueryContext(ctx, "SELECT id, code, code_key FROM manuscripts")
	if err != nil {
		return fmt.Errorf("failed to read manuscript codes: %w", err)
	}
	stale := map[string]string{}
	for rows.Next() {
		var id, code, key string
		if err := rows.Scan(&id, &code, &key); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan manuscript code: %w", err)
		}
		if want := manuscript.CodeKey(code); want != key {
			stale[id] = want
		}
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	return db.withTx(ctx, func(tx *sql.Tx) error {
		for id, key := range stale {
			query, args, err := builder.Update("manuscripts").
				Set("code_key", key).
				Where(sq.Eq{"id": id}).
				ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("manuscript %s: code collides with another code of the same user", id)
				}
				return fmt.Errorf("failed to rekey manuscript %s: %w", id, err)
			}
		}
		return nil
	})
}

type migration struct {
	version int
	name    string
}

func (db *DB) migrate(ctx context.Context, fsys fs.FS) error {
	names, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}

	pending := make([]migration, 0, len(names))
	for _, name := range names {
		prefix, _, _ := strings.Cut(name, "_")
		version, err := strconv.Atoi(prefix)
		if err != nil {
			return fmt.Errorf("invalid migration name %q", name)
		}
		pending = append(pending, migration{version: version, name: name})
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].version < pending[j].version })

	var current int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range pending {
		if m.version <= current {
			continue
		}
		data, err := fs.ReadFile(fsys, m.name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", m.name, err)
		}
		if err := db.withTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, string(data)); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.version))
			return err
		}); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", m.name, err)
		}
	}
	return nil
}

// withTx runs fn inside a transaction, committing only if fn succeeds.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

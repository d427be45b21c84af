package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rpggio/folio/internal/app"
	"github.com/rpggio/folio/internal/config"
	"github.com/rpggio/folio/internal/logging"
	"github.com/rpggio/folio/internal/metrics"
	"github.com/rpggio/folio/internal/sqlite"
)

// deps bundles what a command needs and how to release it.
type deps struct {
	cfg    config.Config
	app    *app.App
	logger *slog.Logger
	close  func()
}

// openDeps loads config, opens and migrates the database and builds the
// services. Logs go to stderr unless a log file is configured, keeping
// stdout clean for JSON-RPC and command output.
func openDeps(m *metrics.Metrics) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger, logCloser, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("log file error: %w", err)
	}

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("failed to prepare database path: %w", err)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		_ = db.Close()
		_ = logCloser.Close()
		return nil, err
	}

	a, err := app.New(db, cfg, m, logger)
	if err != nil {
		_ = db.Close()
		_ = logCloser.Close()
		return nil, err
	}

	return &deps{
		cfg:    cfg,
		app:    a,
		logger: logger,
		close: func() {
			_ = db.Close()
			_ = logCloser.Close()
		},
	}, nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

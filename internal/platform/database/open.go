package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	// Registers the "sqlite3" database/sql driver.
	_ "github.com/mattn/go-sqlite3"

	"github.com/nadezdatsygankova/my-english-trainer/internal/config"
	"github.com/nadezdatsygankova/my-english-trainer/internal/redact"
)

// Supported driver names, matching config.DatabaseConfig.Driver.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

// pingTimeout bounds the connectivity check performed by Open.
const pingTimeout = 5 * time.Second

// Open connects to the configured database and verifies the connection.
// SQLite is limited to one open connection since it does not support
// concurrent writers.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sqlx.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(slog.String("component", "database"), slog.String("driver", cfg.Driver))

	if _, err := dialectFor(cfg.Driver); err != nil {
		return nil, err
	}

	db, err := sqlx.Open(cfg.Driver, cfg.URL)
	if err != nil {
		log.Error("failed to open database", slog.String("error", redact.Error(err)))
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	switch cfg.Driver {
	case DriverSQLite:
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	case DriverPostgres:
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		log.Error("database ping failed", slog.String("error", redact.Error(err)))
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("database connection established", slog.String("url", redact.DSN(cfg.URL)))
	return db, nil
}

//go:build integration

// Package testdb opens migrated databases for integration tests. Tests run
// against a private in-memory SQLite database unless
// TRAINER_TEST_DATABASE_URL points at a PostgreSQL instance.
package testdb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nadezdatsygankova/my-english-trainer/internal/config"
	"github.com/nadezdatsygankova/my-english-trainer/internal/platform/database"
	"github.com/nadezdatsygankova/my-english-trainer/internal/redact"
)

// EnvTestDatabaseURL selects a PostgreSQL database for integration tests.
const EnvTestDatabaseURL = "TRAINER_TEST_DATABASE_URL"

const setupTimeout = 30 * time.Second

// Config returns the database settings integration tests should use.
func Config() config.DatabaseConfig {
	if url := os.Getenv(EnvTestDatabaseURL); url != "" {
		return config.DatabaseConfig{Driver: database.DriverPostgres, URL: url}
	}
	return config.DatabaseConfig{
		Driver: database.DriverSQLite,
		URL:    fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString()),
	}
}

// IsShared reports whether tests share one external database. Tests that
// count rows must not run in parallel when it does.
func IsShared() bool {
	return os.Getenv(EnvTestDatabaseURL) != ""
}

// Open connects to a fresh, fully migrated database and closes it when the
// test ends. A shared PostgreSQL database is reset first.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()

	cfg := Config()
	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := database.Open(ctx, cfg, quiet)
	if err != nil {
		t.Fatalf("failed to open test database %s: %v", redact.DSN(cfg.URL), err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if IsShared() {
		if err := database.Migrate(ctx, db, database.MigrateReset, quiet); err != nil {
			t.Fatalf("failed to reset test database: %v", err)
		}
	}
	if err := database.Migrate(ctx, db, database.MigrateUp, quiet); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

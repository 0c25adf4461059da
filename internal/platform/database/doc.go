// Package database provides the sqlx-backed implementations of the
// interfaces in the store package. The same statements run against
// PostgreSQL (through the pgx stdlib driver) and SQLite (through
// mattn/go-sqlite3); queries use '?' placeholders and are rebound for the
// active driver.
//
// The schema is managed with goose. Migration files are embedded in the
// binary so the server and the migrate command never depend on the
// working directory.
package database

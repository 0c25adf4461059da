package mocks

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

// NewSQLMock returns a sqlx handle backed by go-sqlmock. The connection is
// closed when the test ends.
func NewSQLMock(tb testing.TB) (*sqlx.DB, sqlmock.Sqlmock) {
	tb.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		tb.Fatalf("failed to create sqlmock: %v", err)
	}
	tb.Cleanup(func() { _ = db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/nadezdatsygankova/my-english-trainer/internal/store"
)

// PostgreSQL error codes
const (
	// uniqueViolationCode is the PostgreSQL error code for unique constraint violations
	uniqueViolationCode = "23505"

	// foreignKeyViolationCode is the PostgreSQL error code for foreign key violations
	foreignKeyViolationCode = "23503"

	// checkViolationCode is the PostgreSQL error code for check constraint violations
	checkViolationCode = "23514"

	// notNullViolationCode is the PostgreSQL error code for not null violations
	notNullViolationCode = "23502"
)

// constraintKind is the driver-independent class of a constraint failure.
type constraintKind int

const (
	constraintNone constraintKind = iota
	constraintUnique
	constraintForeignKey
	constraintCheck
	constraintNotNull
)

// classify inspects PostgreSQL and SQLite errors and reports which
// constraint, if any, was violated together with its name when known.
func classify(err error) (constraintKind, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return constraintUnique, pgErr.ConstraintName
		case foreignKeyViolationCode:
			return constraintForeignKey, pgErr.ConstraintName
		case checkViolationCode:
			return constraintCheck, pgErr.ConstraintName
		case notNullViolationCode:
			return constraintNotNull, pgErr.ColumnName
		}
		return constraintNone, ""
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.Code == sqlite3.ErrConstraint {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return constraintUnique, ""
		case sqlite3.ErrConstraintForeignKey:
			return constraintForeignKey, ""
		case sqlite3.ErrConstraintCheck:
			return constraintCheck, ""
		case sqlite3.ErrConstraintNotNull:
			return constraintNotNull, ""
		}
	}
	return constraintNone, ""
}

// MapError maps a database error to an appropriate store error.
// It wraps the original error to preserve context and provide better debugging information.
// This function should be used in all database operations to ensure consistent error handling.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	kind, name := classify(err)
	switch kind {
	case constraintUnique:
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case constraintForeignKey:
		return fmt.Errorf("%w: foreign key violation (%s): %v", store.ErrInvalidEntity, name, err)
	case constraintCheck:
		return fmt.Errorf("%w: check constraint violation (%s): %v", store.ErrInvalidEntity, name, err)
	case constraintNotNull:
		return fmt.Errorf("%w: not null violation (%s): %v", store.ErrInvalidEntity, name, err)
	}

	// Return the original error for errors that don't have specific mappings
	return err
}

// IsUniqueViolation reports whether err is a unique or primary key violation
// on either supported driver.
func IsUniqueViolation(err error) bool {
	kind, _ := classify(err)
	return kind == constraintUnique
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	kind, _ := classify(err)
	return kind == constraintForeignKey
}

// CheckRowsAffected examines the number of rows affected by a database operation.
// If no rows were affected, it returns store.ErrNotFound.
func CheckRowsAffected(result sql.Result, entityName string) error {
	if result == nil {
		return fmt.Errorf("nil result provided to CheckRowsAffected")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if entityName == "" {
			return store.ErrNotFound
		}
		return fmt.Errorf("%w: %s not found", store.ErrNotFound, entityName)
	}

	return nil
}

// MapUniqueViolation maps a unique violation to a more specific error.
// If the error is not a unique violation, it returns the original error.
func MapUniqueViolation(err error, specificError error) error {
	if !IsUniqueViolation(err) {
		return err
	}
	if specificError != nil {
		return fmt.Errorf("%w: %v", specificError, err)
	}
	return fmt.Errorf("%w: duplicate entry: %v", store.ErrDuplicate, err)
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/nadezdatsygankova/my-english-trainer/internal/platform/logger"
)

// TxFn runs inside a transaction opened by RunInTransaction. Stores used by
// the function must be bound to tx with WithTx.
type TxFn func(ctx context.Context, tx *sqlx.Tx) error

// Transactor starts transactions. *sqlx.DB satisfies it.
type Transactor interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// RunInTransaction commits when fn returns nil and rolls back otherwise.
// A panic inside fn rolls back and is re-raised. The error returned by fn is
// passed through unchanged so callers can still match it with errors.Is.
func RunInTransaction(ctx context.Context, db Transactor, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", slog.String("error", err.Error()))
		return fmt.Errorf("%w: failed to begin transaction: %w", ErrTransactionFailed, err)
	}

	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("failed to roll back transaction after panic",
				slog.String("error", rbErr.Error()),
				slog.Any("panic", p))
		} else {
			log.Error("rolled back transaction after panic", slog.Any("panic", p))
		}
		// ALLOW-PANIC: Propagating caught panic from transaction
		panic(p)
	}()

	if err := fn(ctx, tx); err != nil {
		return rollback(log, tx, err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction", slog.String("error", err.Error()))
		return fmt.Errorf("%w: failed to commit transaction: %w", ErrTransactionFailed, err)
	}
	return nil
}

func rollback(log *slog.Logger, tx *sqlx.Tx, cause error) error {
	err := tx.Rollback()
	if err == nil || errors.Is(err, sql.ErrTxDone) {
		log.Debug("rolled back transaction", slog.String("cause", cause.Error()))
		return cause
	}

	log.Error("failed to roll back transaction",
		slog.String("rollback_error", err.Error()),
		slog.String("original_error", cause.Error()))
	return fmt.Errorf("error rolling back transaction: %v (original error: %w)", err, cause)
}

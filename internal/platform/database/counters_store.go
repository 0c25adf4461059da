package database

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
	"github.com/nadezdatsygankova/my-english-trainer/internal/redact"
	"github.com/nadezdatsygankova/my-english-trainer/internal/store"
)

type countersRow struct {
	DateKey     domain.Date `db:"date_key"`
	ShownNew    int         `db:"shown_new"`
	ShownReview int         `db:"shown_review"`
}

// CountersStore implements store.CountersStore.
type CountersStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCountersStore creates a counters store over a connection or transaction.
func NewCountersStore(db store.DBTX, logger *slog.Logger) *CountersStore {
	if db == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CountersStore{
		db:     db,
		logger: logger.With(slog.String("component", "counters_store")),
	}
}

var _ store.CountersStore = (*CountersStore)(nil)

// WithTx implements store.CountersStore.WithTx
func (s *CountersStore) WithTx(tx *sqlx.Tx) store.CountersStore {
	return &CountersStore{db: tx, logger: s.logger}
}

// Get implements store.CountersStore.Get
func (s *CountersStore) Get(ctx context.Context, scope string) (domain.DailyCounters, error) {
	var row countersRow
	query := s.db.Rebind(`SELECT date_key, shown_new, shown_review FROM daily_counters WHERE scope = ?`)

	if err := sqlx.GetContext(ctx, s.db, &row, query, scope); err != nil {
		mapped := MapError(err)
		if store.IsNotFoundError(mapped) {
			return domain.DailyCounters{}, nil
		}
		s.logger.Error("failed to read daily counters",
			slog.String("scope", scope),
			slog.String("error", redact.Error(err)))
		return domain.DailyCounters{}, mapped
	}

	return domain.DailyCounters{
		DateKey:     row.DateKey,
		ShownNew:    row.ShownNew,
		ShownReview: row.ShownReview,
	}, nil
}

// Save implements store.CountersStore.Save
func (s *CountersStore) Save(ctx context.Context, scope string, counters domain.DailyCounters) error {
	query := s.db.Rebind(`INSERT INTO daily_counters (scope, date_key, shown_new, shown_review)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (scope) DO UPDATE SET
			date_key = excluded.date_key,
			shown_new = excluded.shown_new,
			shown_review = excluded.shown_review`)

	_, err := s.db.ExecContext(ctx, query, scope, counters.DateKey, counters.ShownNew, counters.ShownReview)
	if err != nil {
		s.logger.Error("failed to save daily counters",
			slog.String("scope", scope),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}
	return nil
}

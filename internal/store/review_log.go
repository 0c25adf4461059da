package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
)

// ReviewLogStore persists the append-only review log.
type ReviewLogStore interface {
	// Append stores one entry. Entries are never updated afterwards.
	Append(ctx context.Context, entry domain.ReviewLogEntry) error

	// List returns the whole log ordered by date, oldest first.
	List(ctx context.Context) ([]domain.ReviewLogEntry, error)

	// ListSince returns entries dated on or after since, oldest first.
	ListSince(ctx context.Context, since domain.Date) ([]domain.ReviewLogEntry, error)

	// ListForCard returns the history of one card, oldest first.
	ListForCard(ctx context.Context, cardID uuid.UUID) ([]domain.ReviewLogEntry, error)

	// Replace swaps the whole log for entries. Run it inside a transaction
	// so a failed insert leaves the old log in place.
	Replace(ctx context.Context, entries []domain.ReviewLogEntry) error

	// DeleteBefore removes entries dated strictly before cutoff and reports
	// how many were removed.
	DeleteBefore(ctx context.Context, cutoff domain.Date) (int64, error)

	// WithTx returns a new ReviewLogStore instance that uses the provided transaction.
	WithTx(tx *sqlx.Tx) ReviewLogStore
}

// DefaultCounterScope is the counters key used by the single-learner setup.
const DefaultCounterScope = "default"

// CountersStore persists the daily presentation counters.
type CountersStore interface {
	// Get returns the counters stored under scope. A missing row yields
	// zero counters with no date key, which reads as "nothing shown today".
	Get(ctx context.Context, scope string) (domain.DailyCounters, error)

	// Save upserts the counters stored under scope.
	Save(ctx context.Context, scope string, counters domain.DailyCounters) error

	// WithTx returns a new CountersStore instance that uses the provided transaction.
	WithTx(tx *sqlx.Tx) CountersStore
}

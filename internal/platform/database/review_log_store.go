package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
	"github.com/nadezdatsygankova/my-english-trainer/internal/redact"
	"github.com/nadezdatsygankova/my-english-trainer/internal/store"
)

const reviewColumns = `id, card_id, word, correct, mode, review_date, mature_at_review`

type reviewRow struct {
	ID             uuid.UUID   `db:"id"`
	CardID         uuid.UUID   `db:"card_id"`
	Word           string      `db:"word"`
	Correct        bool        `db:"correct"`
	Mode           string      `db:"mode"`
	Date           domain.Date `db:"review_date"`
	MatureAtReview bool        `db:"mature_at_review"`
}

func (r reviewRow) toDomain() domain.ReviewLogEntry {
	return domain.ReviewLogEntry{
		ID:             r.ID,
		CardID:         r.CardID,
		Word:           r.Word,
		Correct:        r.Correct,
		Mode:           domain.Mode(r.Mode),
		Date:           r.Date,
		MatureAtReview: r.MatureAtReview,
	}
}

// ReviewLogStore implements store.ReviewLogStore.
type ReviewLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewReviewLogStore creates a review log store over a connection or transaction.
func NewReviewLogStore(db store.DBTX, logger *slog.Logger) *ReviewLogStore {
	if db == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ReviewLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_log_store")),
	}
}

var _ store.ReviewLogStore = (*ReviewLogStore)(nil)

// WithTx implements store.ReviewLogStore.WithTx
func (s *ReviewLogStore) WithTx(tx *sqlx.Tx) store.ReviewLogStore {
	return &ReviewLogStore{db: tx, logger: s.logger}
}

// Append implements store.ReviewLogStore.Append
func (s *ReviewLogStore) Append(ctx context.Context, entry domain.ReviewLogEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	return s.insert(ctx, entry)
}

func (s *ReviewLogStore) insert(ctx context.Context, entry domain.ReviewLogEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	query := s.db.Rebind(`INSERT INTO review_log (` + reviewColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.CardID, entry.Word, entry.Correct, string(entry.Mode), entry.Date, entry.MatureAtReview)
	if err != nil {
		s.logger.Error("failed to append review entry",
			slog.String("card_id", entry.CardID.String()),
			slog.String("error", redact.Error(err)))
		if IsForeignKeyViolation(err) {
			return store.ErrCardNotFound
		}
		return MapError(err)
	}
	return nil
}

// Replace implements store.ReviewLogStore.Replace
func (s *ReviewLogStore) Replace(ctx context.Context, entries []domain.ReviewLogEntry) error {
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM review_log`); err != nil {
		s.logger.Error("failed to clear review log", slog.String("error", redact.Error(err)))
		return MapError(err)
	}
	for _, entry := range entries {
		if err := s.insert(ctx, entry); err != nil {
			return err
		}
	}

	s.logger.Debug("review log replaced", slog.Int("entries", len(entries)))
	return nil
}

// List implements store.ReviewLogStore.List
func (s *ReviewLogStore) List(ctx context.Context) ([]domain.ReviewLogEntry, error) {
	return s.selectEntries(ctx, `SELECT `+reviewColumns+` FROM review_log ORDER BY review_date, id`)
}

// ListSince implements store.ReviewLogStore.ListSince
func (s *ReviewLogStore) ListSince(ctx context.Context, since domain.Date) ([]domain.ReviewLogEntry, error) {
	return s.selectEntries(ctx,
		`SELECT `+reviewColumns+` FROM review_log WHERE review_date >= ? ORDER BY review_date, id`, since)
}

// ListForCard implements store.ReviewLogStore.ListForCard
func (s *ReviewLogStore) ListForCard(ctx context.Context, cardID uuid.UUID) ([]domain.ReviewLogEntry, error) {
	return s.selectEntries(ctx,
		`SELECT `+reviewColumns+` FROM review_log WHERE card_id = ? ORDER BY review_date, id`, cardID)
}

func (s *ReviewLogStore) selectEntries(ctx context.Context, query string, args ...any) ([]domain.ReviewLogEntry, error) {
	var rows []reviewRow
	if err := sqlx.SelectContext(ctx, s.db, &rows, s.db.Rebind(query), args...); err != nil {
		s.logger.Error("failed to list review entries", slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}

	entries := make([]domain.ReviewLogEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toDomain())
	}
	return entries, nil
}

// DeleteBefore implements store.ReviewLogStore.DeleteBefore
func (s *ReviewLogStore) DeleteBefore(ctx context.Context, cutoff domain.Date) (int64, error) {
	if cutoff.IsZero() {
		return 0, fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrInvalidDate)
	}

	result, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM review_log WHERE review_date < ?`), cutoff)
	if err != nil {
		s.logger.Error("failed to prune review log", slog.String("error", redact.Error(err)))
		return 0, MapError(err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	s.logger.Info("review log pruned",
		slog.String("cutoff", cutoff.String()),
		slog.Int64("removed", removed))
	return removed, nil
}

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
	"github.com/nadezdatsygankova/my-english-trainer/internal/redact"
	"github.com/nadezdatsygankova/my-english-trainer/internal/store"
)

const cardColumns = `id, word, translation, category, difficulty,
	interval_days, ease, reps, lapses, next_review, created_on,
	mode_flashcard, mode_spelling, ipa, mnemonic, image_url, example,
	version, updated_at`

// cardRow is the flat column layout of the cards table.
type cardRow struct {
	ID            uuid.UUID   `db:"id"`
	Word          string      `db:"word"`
	Translation   string      `db:"translation"`
	Category      string      `db:"category"`
	Difficulty    string      `db:"difficulty"`
	Interval      int         `db:"interval_days"`
	Ease          float64     `db:"ease"`
	Reps          int         `db:"reps"`
	Lapses        int         `db:"lapses"`
	NextReview    domain.Date `db:"next_review"`
	CreatedOn     domain.Date `db:"created_on"`
	ModeFlashcard bool        `db:"mode_flashcard"`
	ModeSpelling  bool        `db:"mode_spelling"`
	IPA           string      `db:"ipa"`
	Mnemonic      string      `db:"mnemonic"`
	ImageURL      string      `db:"image_url"`
	Example       string      `db:"example"`
	Version       int         `db:"version"`
	UpdatedAt     time.Time   `db:"updated_at"`
}

func (r cardRow) toDomain() domain.Card {
	return domain.Card{
		ID:          r.ID,
		Word:        r.Word,
		Translation: r.Translation,
		Category:    r.Category,
		Difficulty:  r.Difficulty,
		Interval:    r.Interval,
		Ease:        r.Ease,
		Reps:        r.Reps,
		Lapses:      r.Lapses,
		NextReview:  r.NextReview,
		CreatedAt:   r.CreatedOn,
		Modes:       domain.Modes{Flashcard: r.ModeFlashcard, Spelling: r.ModeSpelling},
		IPA:         r.IPA,
		Mnemonic:    r.Mnemonic,
		ImageURL:    r.ImageURL,
		Example:     r.Example,
		Version:     r.Version,
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

// CardStore implements the store.CardStore interface on top of sqlx.
type CardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCardStore creates a new card store.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewCardStore(db store.DBTX, logger *slog.Logger) *CardStore {
	if db == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure CardStore implements store.CardStore interface
var _ store.CardStore = (*CardStore)(nil)

// WithTx implements store.CardStore.WithTx
func (s *CardStore) WithTx(tx *sqlx.Tx) store.CardStore {
	return &CardStore{db: tx, logger: s.logger}
}

// Create implements store.CardStore.Create
func (s *CardStore) Create(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	card.Version = 1
	card.UpdatedAt = time.Now().UTC()

	if err := s.insert(ctx, card); err != nil {
		s.logger.Error("failed to create card",
			slog.String("card_id", card.ID.String()),
			slog.String("error", redact.Error(err)))
		return MapUniqueViolation(MapError(err), store.ErrCardExists)
	}

	s.logger.Debug("card created", slog.String("card_id", card.ID.String()))
	return nil
}

// CreateMultiple implements store.CardStore.CreateMultiple
// It validates every card before writing any of them. Callers that need
// all-or-nothing semantics run it through WithTx.
func (s *CardStore) CreateMultiple(ctx context.Context, cards []domain.Card) error {
	for i := range cards {
		if err := cards[i].Validate(); err != nil {
			return fmt.Errorf("%w: card %d: %w", store.ErrInvalidEntity, i, err)
		}
	}

	now := time.Now().UTC()
	for i := range cards {
		cards[i].Version = 1
		cards[i].UpdatedAt = now
		if err := s.insert(ctx, &cards[i]); err != nil {
			s.logger.Error("failed to create card in batch",
				slog.Int("index", i),
				slog.String("card_id", cards[i].ID.String()),
				slog.String("error", redact.Error(err)))
			return MapUniqueViolation(MapError(err), store.ErrCardExists)
		}
	}

	s.logger.Debug("cards created", slog.Int("count", len(cards)))
	return nil
}

func (s *CardStore) insert(ctx context.Context, card *domain.Card) error {
	query := s.db.Rebind(`INSERT INTO cards (` + cardColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := s.db.ExecContext(ctx, query,
		card.ID, card.Word, card.Translation, card.Category, card.Difficulty,
		card.Interval, card.Ease, card.Reps, card.Lapses, card.NextReview, card.CreatedAt,
		card.Modes.Flashcard, card.Modes.Spelling, card.IPA, card.Mnemonic, card.ImageURL, card.Example,
		card.Version, card.UpdatedAt,
	)
	return err
}

// GetByID implements store.CardStore.GetByID
func (s *CardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	var row cardRow
	query := s.db.Rebind(`SELECT ` + cardColumns + ` FROM cards WHERE id = ?`)

	if err := sqlx.GetContext(ctx, s.db, &row, query, id); err != nil {
		mapped := MapError(err)
		if store.IsNotFoundError(mapped) {
			return nil, store.ErrCardNotFound
		}
		s.logger.Error("failed to get card",
			slog.String("card_id", id.String()),
			slog.String("error", redact.Error(err)))
		return nil, mapped
	}

	card := row.toDomain()
	return &card, nil
}

// List implements store.CardStore.List
func (s *CardStore) List(ctx context.Context) ([]domain.Card, error) {
	var rows []cardRow
	query := `SELECT ` + cardColumns + ` FROM cards ORDER BY created_on, word, id`

	if err := sqlx.SelectContext(ctx, s.db, &rows, query); err != nil {
		s.logger.Error("failed to list cards", slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}

	cards := make([]domain.Card, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, row.toDomain())
	}
	return cards, nil
}

// UpdateContent implements store.CardStore.UpdateContent
func (s *CardStore) UpdateContent(ctx context.Context, card *domain.Card, expectedVersion int) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	now := time.Now().UTC()
	query := s.db.Rebind(`UPDATE cards SET
		word = ?, translation = ?, category = ?, difficulty = ?,
		mode_flashcard = ?, mode_spelling = ?,
		ipa = ?, mnemonic = ?, image_url = ?, example = ?,
		version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`)

	result, err := s.db.ExecContext(ctx, query,
		card.Word, card.Translation, card.Category, card.Difficulty,
		card.Modes.Flashcard, card.Modes.Spelling,
		card.IPA, card.Mnemonic, card.ImageURL, card.Example,
		now, card.ID, expectedVersion,
	)
	if err != nil {
		s.logger.Error("failed to update card content",
			slog.String("card_id", card.ID.String()),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}

	if err := s.checkSwapped(ctx, result, card.ID); err != nil {
		return err
	}

	card.Version = expectedVersion + 1
	card.UpdatedAt = now
	return nil
}

// UpdateSchedule implements store.CardStore.UpdateSchedule
func (s *CardStore) UpdateSchedule(ctx context.Context, card *domain.Card, expectedVersion int) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	now := time.Now().UTC()
	query := s.db.Rebind(`UPDATE cards SET
		interval_days = ?, ease = ?, reps = ?, lapses = ?, next_review = ?,
		version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`)

	result, err := s.db.ExecContext(ctx, query,
		card.Interval, card.Ease, card.Reps, card.Lapses, card.NextReview,
		now, card.ID, expectedVersion,
	)
	if err != nil {
		s.logger.Error("failed to update card schedule",
			slog.String("card_id", card.ID.String()),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}

	if err := s.checkSwapped(ctx, result, card.ID); err != nil {
		return err
	}

	card.Version = expectedVersion + 1
	card.UpdatedAt = now
	s.logger.Debug("card schedule updated",
		slog.String("card_id", card.ID.String()),
		slog.Int("version", card.Version),
		slog.String("next_review", card.NextReview.String()))
	return nil
}

// checkSwapped distinguishes a missing card from a lost compare-and-swap
// when a versioned update touched no rows.
func (s *CardStore) checkSwapped(ctx context.Context, result sql.Result, id uuid.UUID) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var version int
	query := s.db.Rebind(`SELECT version FROM cards WHERE id = ?`)
	err = sqlx.GetContext(ctx, s.db, &version, query, id)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return store.ErrCardNotFound
		}
		return MapError(err)
	}

	s.logger.Debug("stale card version",
		slog.String("card_id", id.String()),
		slog.Int("stored_version", version))
	return store.ErrStaleVersion
}

// Delete implements store.CardStore.Delete
// Review entries are removed explicitly so the behaviour does not depend on
// the driver enforcing foreign keys.
func (s *CardStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM review_log WHERE card_id = ?`), id); err != nil {
		s.logger.Error("failed to delete card history",
			slog.String("card_id", id.String()),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}

	result, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM cards WHERE id = ?`), id)
	if err != nil {
		s.logger.Error("failed to delete card",
			slog.String("card_id", id.String()),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "card"); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrCardNotFound
		}
		return err
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain/queue"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain/srs"
	"github.com/nadezdatsygankova/my-english-trainer/internal/platform/logger"
	"github.com/nadezdatsygankova/my-english-trainer/internal/store"
)

// CardContent holds the editable, non-scheduling fields of a card.
type CardContent struct {
	Word        string
	Translation string
	Category    string
	Difficulty  string
	IPA         string
	Mnemonic    string
	ImageURL    string
	Example     string
	// Modes nil keeps both pools enabled on create and the current pools on update.
	Modes *domain.Modes
}

// ImportResult summarises a bulk import.
type ImportResult struct {
	Imported int           `json:"imported"`
	Cards    []domain.Card `json:"cards"`
}

// CardService provides card-related operations
type CardService interface {
	// AddCard creates a fresh card due today.
	AddCard(ctx context.Context, content CardContent) (*domain.Card, error)

	// GetCard retrieves a card by its ID
	GetCard(ctx context.Context, cardID uuid.UUID) (*domain.Card, error)

	// ListCards returns the cards matching filters in creation order.
	ListCards(ctx context.Context, filters queue.Filters) ([]domain.Card, error)

	// UpdateCard replaces the content of a card. Scheduling state is kept.
	// A non-zero version must match the stored one.
	UpdateCard(ctx context.Context, cardID uuid.UUID, content CardContent, version int) (*domain.Card, error)

	// DeleteCard removes a card and its review history.
	DeleteCard(ctx context.Context, cardID uuid.UUID) error

	// PostponeCard pushes the next review of a card by days.
	PostponeCard(ctx context.Context, cardID uuid.UUID, days int, version int) (*domain.Card, error)

	// ImportCards normalises raw records and stores them all or none.
	ImportCards(ctx context.Context, raw []domain.RawCard) (*ImportResult, error)
}

// CardServiceOptions tunes the card service.
type CardServiceOptions struct {
	Location *time.Location
	Now      func() time.Time
}

// cardServiceImpl implements the CardService interface
type cardServiceImpl struct {
	db     store.Transactor
	cards  store.CardStore
	opts   CardServiceOptions
	logger *slog.Logger
}

// NewCardService creates a new CardService
// It returns an error if any of the required dependencies are nil.
func NewCardService(
	db store.Transactor,
	cards store.CardStore,
	opts CardServiceOptions,
	logger *slog.Logger,
) (CardService, error) {
	if db == nil {
		return nil, NewCardServiceError("new", "db cannot be nil", domain.ErrValidation)
	}
	if cards == nil {
		return nil, NewCardServiceError("new", "card store cannot be nil", domain.ErrValidation)
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &cardServiceImpl{
		db:     db,
		cards:  cards,
		opts:   opts,
		logger: logger.With(slog.String("component", "card_service")),
	}, nil
}

func (s *cardServiceImpl) today() domain.Date {
	return domain.Today(s.opts.Now(), s.opts.Location)
}

// AddCard implements CardService.AddCard
func (s *cardServiceImpl) AddCard(ctx context.Context, content CardContent) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := domain.NewCard(content.Word, content.Translation, content.Category, content.Difficulty, s.today())
	if err != nil {
		return nil, err
	}
	applyExtras(card, content)

	if err := s.cards.Create(ctx, card); err != nil {
		if errors.Is(err, store.ErrCardExists) {
			return nil, ErrCardExists
		}
		log.Error("failed to create card", slog.String("error", err.Error()))
		return nil, NewCardServiceError("add_card", "failed to save card", err)
	}

	log.Info("card added", slog.String("card_id", card.ID.String()))
	return card, nil
}

// GetCard implements CardService.GetCard
func (s *cardServiceImpl) GetCard(ctx context.Context, cardID uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrCardNotFound
		}
		log.Error("failed to retrieve card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, NewCardServiceError("get_card", "failed to retrieve card", err)
	}
	return card, nil
}

// ListCards implements CardService.ListCards
func (s *cardServiceImpl) ListCards(ctx context.Context, filters queue.Filters) ([]domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cards, err := s.cards.List(ctx)
	if err != nil {
		log.Error("failed to list cards", slog.String("error", err.Error()))
		return nil, NewCardServiceError("list_cards", "failed to list cards", err)
	}

	out := make([]domain.Card, 0, len(cards))
	for _, c := range cards {
		if filters.Matches(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

// UpdateCard implements CardService.UpdateCard
func (s *cardServiceImpl) UpdateCard(
	ctx context.Context,
	cardID uuid.UUID,
	content CardContent,
	version int,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Card
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		cards := s.cards.WithTx(tx)

		card, err := cards.GetByID(ctx, cardID)
		if err != nil {
			return mapStoreError(err)
		}
		if version != 0 && version != card.Version {
			return ErrStaleVersion
		}

		card.Word = strings.TrimSpace(content.Word)
		card.Translation = strings.TrimSpace(content.Translation)
		if content.Category != "" {
			card.Category = content.Category
		}
		if content.Difficulty != "" {
			card.Difficulty = content.Difficulty
		}
		applyExtras(card, content)

		if err := card.Validate(); err != nil {
			return err
		}
		if err := cards.UpdateContent(ctx, card, card.Version); err != nil {
			return mapStoreError(err)
		}
		updated = card
		return nil
	})
	if err != nil {
		if isExpected(err) {
			return nil, err
		}
		log.Error("failed to update card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, NewCardServiceError("update_card", "failed to update card", err)
	}

	log.Info("card updated", slog.String("card_id", cardID.String()), slog.Int("version", updated.Version))
	return updated, nil
}

// DeleteCard implements CardService.DeleteCard
func (s *cardServiceImpl) DeleteCard(ctx context.Context, cardID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		return mapStoreError(s.cards.WithTx(tx).Delete(ctx, cardID))
	})
	if err != nil {
		if isExpected(err) {
			return err
		}
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return NewCardServiceError("delete_card", "failed to delete card", err)
	}

	log.Info("card deleted", slog.String("card_id", cardID.String()))
	return nil
}

// PostponeCard implements CardService.PostponeCard
func (s *cardServiceImpl) PostponeCard(
	ctx context.Context,
	cardID uuid.UUID,
	days int,
	version int,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if days < 1 {
		return nil, srs.ErrInvalidDays
	}
	today := s.today()

	var postponed domain.Card
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		cards := s.cards.WithTx(tx)

		card, err := cards.GetByID(ctx, cardID)
		if err != nil {
			return mapStoreError(err)
		}
		if version != 0 && version != card.Version {
			return ErrStaleVersion
		}

		next, err := srs.Postpone(*card, days, today)
		if err != nil {
			return err
		}
		if err := cards.UpdateSchedule(ctx, &next, card.Version); err != nil {
			return mapStoreError(err)
		}
		postponed = next
		return nil
	})
	if err != nil {
		if isExpected(err) {
			return nil, err
		}
		log.Error("failed to postpone card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, NewCardServiceError("postpone_card", "failed to postpone card", err)
	}

	log.Info("card postponed",
		slog.String("card_id", cardID.String()),
		slog.Int("days", days),
		slog.String("next_review", postponed.NextReview.String()))
	return &postponed, nil
}

// ImportCards implements CardService.ImportCards
func (s *cardServiceImpl) ImportCards(ctx context.Context, raw []domain.RawCard) (*ImportResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(raw) == 0 {
		return nil, ErrEmptyImport
	}
	today := s.today()

	cards := make([]domain.Card, 0, len(raw))
	seen := make(map[uuid.UUID]int, len(raw))
	for i, r := range raw {
		card, err := domain.NormalizeCard(r, today)
		if err != nil {
			return nil, &ImportError{Index: i, Word: r.Word, Err: err}
		}
		if first, dup := seen[card.ID]; dup {
			return nil, &ImportError{
				Index: i,
				Word:  r.Word,
				Err:   fmt.Errorf("%w: same id as record %d", ErrCardExists, first),
			}
		}
		seen[card.ID] = i
		cards = append(cards, card)
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		return s.cards.WithTx(tx).CreateMultiple(ctx, cards)
	})
	if err != nil {
		if errors.Is(err, store.ErrCardExists) {
			return nil, ErrCardExists
		}
		log.Error("failed to import cards",
			slog.String("error", err.Error()),
			slog.Int("count", len(cards)))
		return nil, NewCardServiceError("import_cards", "failed to save cards", err)
	}

	log.Info("cards imported", slog.Int("count", len(cards)))
	return &ImportResult{Imported: len(cards), Cards: cards}, nil
}

// applyExtras copies the optional content fields onto card.
func applyExtras(card *domain.Card, content CardContent) {
	card.IPA = strings.TrimSpace(content.IPA)
	card.Mnemonic = strings.TrimSpace(content.Mnemonic)
	card.ImageURL = strings.TrimSpace(content.ImageURL)
	card.Example = strings.TrimSpace(content.Example)
	if content.Modes != nil {
		card.Modes = *content.Modes
	}
}

func mapStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrCardNotFound):
		return ErrCardNotFound
	case errors.Is(err, store.ErrStaleVersion):
		return ErrStaleVersion
	default:
		return err
	}
}

// isExpected reports whether err is a sentinel or validation failure callers handle.
func isExpected(err error) bool {
	return errors.Is(err, ErrCardNotFound) ||
		errors.Is(err, ErrStaleVersion) ||
		errors.Is(err, srs.ErrInvalidDays) ||
		errors.Is(err, domain.ErrCardWordEmpty) ||
		errors.Is(err, domain.ErrInvalidEase)
}

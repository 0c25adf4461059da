package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
)

// CardStore defines the interface for card data persistence.
// Version: 1.0
type CardStore interface {
	// Create saves a new card to the store and sets its Version to 1.
	// Returns ErrCardExists if a card with the same ID exists.
	// Returns validation errors if the card data is invalid.
	Create(ctx context.Context, card *domain.Card) error

	// CreateMultiple saves multiple cards in a single batch. The operation
	// is all-or-nothing when run inside a transaction.
	CreateMultiple(ctx context.Context, cards []domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// List returns every card in creation order.
	List(ctx context.Context) ([]domain.Card, error)

	// UpdateContent replaces the display fields and practice modes of a card.
	// Scheduling fields are left untouched.
	// Returns ErrStaleVersion if the stored version differs from expectedVersion,
	// ErrCardNotFound if the card does not exist.
	UpdateContent(ctx context.Context, card *domain.Card, expectedVersion int) error

	// UpdateSchedule writes the scheduling fields of a card (interval, ease,
	// reps, lapses, next review) as a compare-and-swap on the version.
	// On success card.Version holds the new version.
	// Returns ErrStaleVersion if the stored version differs from expectedVersion,
	// ErrCardNotFound if the card does not exist.
	UpdateSchedule(ctx context.Context, card *domain.Card, expectedVersion int) error

	// Delete removes a card and its review history.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new CardStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	WithTx(tx *sqlx.Tx) CardStore
}

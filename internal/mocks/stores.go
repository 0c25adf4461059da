package mocks

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
	"github.com/nadezdatsygankova/my-english-trainer/internal/store"
)

// MemoryCardStore is an in-memory store.CardStore.
type MemoryCardStore struct {
	mu    sync.Mutex
	cards map[uuid.UUID]domain.Card
	order []uuid.UUID

	// Injected failures
	CreateErr         error
	GetErr            error
	ListErr           error
	UpdateScheduleErr error
}

var _ store.CardStore = (*MemoryCardStore)(nil)

// NewMemoryCardStore creates a store holding a copy of cards, each stamped
// with version 1 when it has none.
func NewMemoryCardStore(cards ...domain.Card) *MemoryCardStore {
	s := &MemoryCardStore{cards: make(map[uuid.UUID]domain.Card)}
	for _, c := range cards {
		if c.Version == 0 {
			c.Version = 1
		}
		s.cards[c.ID] = c
		s.order = append(s.order, c.ID)
	}
	return s
}

// WithTx returns the same store; transactions are not simulated.
func (s *MemoryCardStore) WithTx(*sqlx.Tx) store.CardStore { return s }

// Create implements store.CardStore.
func (s *MemoryCardStore) Create(_ context.Context, card *domain.Card) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	if err := card.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cards[card.ID]; ok {
		return store.ErrCardExists
	}
	card.Version = 1
	s.cards[card.ID] = *card
	s.order = append(s.order, card.ID)
	return nil
}

// CreateMultiple implements store.CardStore.
func (s *MemoryCardStore) CreateMultiple(ctx context.Context, cards []domain.Card) error {
	for i := range cards {
		if err := s.Create(ctx, &cards[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByID implements store.CardStore.
func (s *MemoryCardStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Card, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	return &card, nil
}

// List implements store.CardStore.
func (s *MemoryCardStore) List(context.Context) ([]domain.Card, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Card, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.cards[id])
	}
	return out, nil
}

// UpdateContent implements store.CardStore.
func (s *MemoryCardStore) UpdateContent(_ context.Context, card *domain.Card, expectedVersion int) error {
	return s.swap(card, expectedVersion, func(stored *domain.Card) {
		stored.Word = card.Word
		stored.Translation = card.Translation
		stored.Category = card.Category
		stored.Difficulty = card.Difficulty
		stored.Modes = card.Modes
		stored.IPA = card.IPA
		stored.Mnemonic = card.Mnemonic
		stored.ImageURL = card.ImageURL
		stored.Example = card.Example
	})
}

// UpdateSchedule implements store.CardStore.
func (s *MemoryCardStore) UpdateSchedule(_ context.Context, card *domain.Card, expectedVersion int) error {
	if s.UpdateScheduleErr != nil {
		return s.UpdateScheduleErr
	}
	return s.swap(card, expectedVersion, func(stored *domain.Card) {
		stored.Interval = card.Interval
		stored.Ease = card.Ease
		stored.Reps = card.Reps
		stored.Lapses = card.Lapses
		stored.NextReview = card.NextReview
	})
}

func (s *MemoryCardStore) swap(card *domain.Card, expectedVersion int, apply func(*domain.Card)) error {
	if err := card.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.cards[card.ID]
	if !ok {
		return store.ErrCardNotFound
	}
	if stored.Version != expectedVersion {
		return store.ErrStaleVersion
	}
	apply(&stored)
	stored.Version++
	s.cards[card.ID] = stored
	card.Version = stored.Version
	return nil
}

// Delete implements store.CardStore.
func (s *MemoryCardStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cards[id]; !ok {
		return store.ErrCardNotFound
	}
	delete(s.cards, id)
	s.order = slices.DeleteFunc(s.order, func(other uuid.UUID) bool { return other == id })
	return nil
}

// MemoryReviewLogStore is an in-memory store.ReviewLogStore.
type MemoryReviewLogStore struct {
	mu      sync.Mutex
	entries []domain.ReviewLogEntry

	AppendErr error
	ListErr   error
}

var _ store.ReviewLogStore = (*MemoryReviewLogStore)(nil)

// NewMemoryReviewLogStore creates a log holding a copy of entries.
func NewMemoryReviewLogStore(entries ...domain.ReviewLogEntry) *MemoryReviewLogStore {
	return &MemoryReviewLogStore{entries: slices.Clone(entries)}
}

// WithTx returns the same store.
func (s *MemoryReviewLogStore) WithTx(*sqlx.Tx) store.ReviewLogStore { return s }

// Append implements store.ReviewLogStore.
func (s *MemoryReviewLogStore) Append(_ context.Context, entry domain.ReviewLogEntry) error {
	if s.AppendErr != nil {
		return s.AppendErr
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// List implements store.ReviewLogStore.
func (s *MemoryReviewLogStore) List(context.Context) ([]domain.ReviewLogEntry, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	return s.filter(func(domain.ReviewLogEntry) bool { return true }), nil
}

// ListSince implements store.ReviewLogStore.
func (s *MemoryReviewLogStore) ListSince(_ context.Context, since domain.Date) ([]domain.ReviewLogEntry, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	return s.filter(func(e domain.ReviewLogEntry) bool { return !e.Date.Before(since) }), nil
}

// ListForCard implements store.ReviewLogStore.
func (s *MemoryReviewLogStore) ListForCard(_ context.Context, cardID uuid.UUID) ([]domain.ReviewLogEntry, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	return s.filter(func(e domain.ReviewLogEntry) bool { return e.CardID == cardID }), nil
}

// Replace implements store.ReviewLogStore.
func (s *MemoryReviewLogStore) Replace(_ context.Context, entries []domain.ReviewLogEntry) error {
	if s.AppendErr != nil {
		return s.AppendErr
	}
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = slices.Clone(entries)
	return nil
}

// DeleteBefore implements store.ReviewLogStore.
func (s *MemoryReviewLogStore) DeleteBefore(_ context.Context, cutoff domain.Date) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.entries)
	s.entries = slices.DeleteFunc(s.entries, func(e domain.ReviewLogEntry) bool { return e.Date.Before(cutoff) })
	return int64(before - len(s.entries)), nil
}

func (s *MemoryReviewLogStore) filter(keep func(domain.ReviewLogEntry) bool) []domain.ReviewLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ReviewLogEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.ReviewLogEntry) int {
		return strings.Compare(a.Date.String(), b.Date.String())
	})
	return out
}

// MemoryCountersStore is an in-memory store.CountersStore.
type MemoryCountersStore struct {
	mu     sync.Mutex
	scopes map[string]domain.DailyCounters

	GetErr  error
	SaveErr error
}

var _ store.CountersStore = (*MemoryCountersStore)(nil)

// NewMemoryCountersStore creates an empty counters store.
func NewMemoryCountersStore() *MemoryCountersStore {
	return &MemoryCountersStore{scopes: make(map[string]domain.DailyCounters)}
}

// WithTx returns the same store.
func (s *MemoryCountersStore) WithTx(*sqlx.Tx) store.CountersStore { return s }

// Get implements store.CountersStore.
func (s *MemoryCountersStore) Get(_ context.Context, scope string) (domain.DailyCounters, error) {
	if s.GetErr != nil {
		return domain.DailyCounters{}, s.GetErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scopes[scope], nil
}

// Save implements store.CountersStore.
func (s *MemoryCountersStore) Save(_ context.Context, scope string, counters domain.DailyCounters) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scopes[scope] = counters
	return nil
}

package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain/queue"
	"github.com/nadezdatsygankova/my-english-trainer/internal/service"
)

// MockCardService implements service.CardService for testing
type MockCardService struct {
	// Custom behavior functions
	AddCardFn      func(ctx context.Context, content service.CardContent) (*domain.Card, error)
	GetCardFn      func(ctx context.Context, cardID uuid.UUID) (*domain.Card, error)
	ListCardsFn    func(ctx context.Context, filters queue.Filters) ([]domain.Card, error)
	UpdateCardFn   func(ctx context.Context, cardID uuid.UUID, content service.CardContent, version int) (*domain.Card, error)
	DeleteCardFn   func(ctx context.Context, cardID uuid.UUID) error
	PostponeCardFn func(ctx context.Context, cardID uuid.UUID, days int, version int) (*domain.Card, error)
	ImportCardsFn  func(ctx context.Context, raw []domain.RawCard) (*service.ImportResult, error)

	// Default return values
	Card         *domain.Card
	Cards        []domain.Card
	DefaultError error
}

var _ service.CardService = (*MockCardService)(nil)

// AddCard implements the CardService.AddCard method
func (m *MockCardService) AddCard(ctx context.Context, content service.CardContent) (*domain.Card, error) {
	if m.AddCardFn != nil {
		return m.AddCardFn(ctx, content)
	}
	return m.Card, m.DefaultError
}

// GetCard implements the CardService.GetCard method
func (m *MockCardService) GetCard(ctx context.Context, cardID uuid.UUID) (*domain.Card, error) {
	if m.GetCardFn != nil {
		return m.GetCardFn(ctx, cardID)
	}
	return m.Card, m.DefaultError
}

// ListCards implements the CardService.ListCards method
func (m *MockCardService) ListCards(ctx context.Context, filters queue.Filters) ([]domain.Card, error) {
	if m.ListCardsFn != nil {
		return m.ListCardsFn(ctx, filters)
	}
	return m.Cards, m.DefaultError
}

// UpdateCard implements the CardService.UpdateCard method
func (m *MockCardService) UpdateCard(
	ctx context.Context,
	cardID uuid.UUID,
	content service.CardContent,
	version int,
) (*domain.Card, error) {
	if m.UpdateCardFn != nil {
		return m.UpdateCardFn(ctx, cardID, content, version)
	}
	return m.Card, m.DefaultError
}

// DeleteCard implements the CardService.DeleteCard method
func (m *MockCardService) DeleteCard(ctx context.Context, cardID uuid.UUID) error {
	if m.DeleteCardFn != nil {
		return m.DeleteCardFn(ctx, cardID)
	}
	return m.DefaultError
}

// PostponeCard implements the CardService.PostponeCard method
func (m *MockCardService) PostponeCard(
	ctx context.Context,
	cardID uuid.UUID,
	days int,
	version int,
) (*domain.Card, error) {
	if m.PostponeCardFn != nil {
		return m.PostponeCardFn(ctx, cardID, days, version)
	}
	return m.Card, m.DefaultError
}

// ImportCards implements the CardService.ImportCards method
func (m *MockCardService) ImportCards(ctx context.Context, raw []domain.RawCard) (*service.ImportResult, error) {
	if m.ImportCardsFn != nil {
		return m.ImportCardsFn(ctx, raw)
	}
	if m.DefaultError != nil {
		return nil, m.DefaultError
	}
	return &service.ImportResult{Imported: len(m.Cards), Cards: m.Cards}, nil
}

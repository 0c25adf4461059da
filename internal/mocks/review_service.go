package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain/stats"
	"github.com/nadezdatsygankova/my-english-trainer/internal/service/review"
)

// MockReviewService implements review.Service for testing
type MockReviewService struct {
	QueueFn         func(ctx context.Context, req review.QueueRequest) (*review.Queue, error)
	GradeFn         func(ctx context.Context, cardID uuid.UUID, req review.GradeRequest) (*review.GradeResult, error)
	CheckSpellingFn func(ctx context.Context, cardID uuid.UUID, req review.SpellingRequest) (*review.SpellingResult, error)
	StatsFn         func(ctx context.Context) (*stats.Snapshot, error)
	HistoryFn       func(ctx context.Context, cardID uuid.UUID) ([]domain.ReviewLogEntry, error)
	LogFn           func(ctx context.Context, since domain.Date) ([]domain.ReviewLogEntry, error)
	SyncLogFn       func(ctx context.Context, remote []domain.ReviewLogEntry) (*review.SyncResult, error)

	// Calls records the card IDs passed to Grade and CheckSpelling.
	Calls []uuid.UUID
}

var _ review.Service = (*MockReviewService)(nil)

// Queue implements review.Service.
func (m *MockReviewService) Queue(ctx context.Context, req review.QueueRequest) (*review.Queue, error) {
	if m.QueueFn != nil {
		return m.QueueFn(ctx, req)
	}
	return &review.Queue{Mode: req.Mode, Filters: req.Filters}, nil
}

// Grade implements review.Service.
func (m *MockReviewService) Grade(
	ctx context.Context,
	cardID uuid.UUID,
	req review.GradeRequest,
) (*review.GradeResult, error) {
	m.Calls = append(m.Calls, cardID)
	if m.GradeFn != nil {
		return m.GradeFn(ctx, cardID, req)
	}
	return &review.GradeResult{}, nil
}

// CheckSpelling implements review.Service.
func (m *MockReviewService) CheckSpelling(
	ctx context.Context,
	cardID uuid.UUID,
	req review.SpellingRequest,
) (*review.SpellingResult, error) {
	m.Calls = append(m.Calls, cardID)
	if m.CheckSpellingFn != nil {
		return m.CheckSpellingFn(ctx, cardID, req)
	}
	return &review.SpellingResult{}, nil
}

// Stats implements review.Service.
func (m *MockReviewService) Stats(ctx context.Context) (*stats.Snapshot, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx)
	}
	return &stats.Snapshot{}, nil
}

// History implements review.Service.
func (m *MockReviewService) History(ctx context.Context, cardID uuid.UUID) ([]domain.ReviewLogEntry, error) {
	if m.HistoryFn != nil {
		return m.HistoryFn(ctx, cardID)
	}
	return nil, nil
}

// Log implements review.Service.
func (m *MockReviewService) Log(ctx context.Context, since domain.Date) ([]domain.ReviewLogEntry, error) {
	if m.LogFn != nil {
		return m.LogFn(ctx, since)
	}
	return nil, nil
}

// SyncLog implements review.Service.
func (m *MockReviewService) SyncLog(
	ctx context.Context,
	remote []domain.ReviewLogEntry,
) (*review.SyncResult, error) {
	if m.SyncLogFn != nil {
		return m.SyncLogFn(ctx, remote)
	}
	return &review.SyncResult{Entries: remote}, nil
}

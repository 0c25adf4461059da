// Package review orchestrates a practice session: it builds the due queue,
// applies grades through the scheduler and keeps the review log and the
// daily counters in step with every card update.
package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain/queue"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain/scoring"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain/stats"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain/throttle"
)

// QueueRequest selects the practice pool and the card under the cursor.
type QueueRequest struct {
	Mode    domain.Mode
	Filters queue.Filters
	Cursor  int
	// PreviousFilters are the filters Cursor was taken under. When they
	// differ from Filters the cursor starts over at the first card. Nil
	// means the filters did not change.
	PreviousFilters *queue.Filters
}

// Queue is the due list for one mode and filter set.
type Queue struct {
	Date    domain.Date     `json:"date"`
	Mode    domain.Mode     `json:"mode"`
	Filters queue.Filters   `json:"filters"`
	Cards   []domain.Card   `json:"cards"`
	Counts  throttle.Counts `json:"counts"`
	Cursor  queue.Cursor    `json:"cursor"`
	Current *domain.Card    `json:"current"`
	// Restricted reports whether the daily caps trimmed the due list.
	Restricted bool `json:"restricted"`
}

// GradeRequest carries one answer for a card.
type GradeRequest struct {
	Mode    domain.Mode
	Outcome domain.Outcome
	// Version is the card version the client graded. Zero skips the check.
	Version int
	// Filters and Cursor describe the queue the card was shown from.
	Filters queue.Filters
	Cursor  int
}

// GradeResult is the state after a grade was applied.
type GradeResult struct {
	Card     domain.Card           `json:"card"`
	Entry    domain.ReviewLogEntry `json:"entry"`
	Counters domain.DailyCounters  `json:"counters"`
	// Cursor is the position of the next card in the queue the grade was
	// submitted from.
	Cursor queue.Cursor `json:"cursor"`
}

// SpellingRequest carries a typed answer.
type SpellingRequest struct {
	Guess   string
	Version int
	Filters queue.Filters
	Cursor  int
}

// SpellingResult is the feedback for a typed answer. Graded is set when a
// perfect answer was applied as a successful review.
type SpellingResult struct {
	Feedback scoring.Feedback `json:"feedback"`
	Target   string           `json:"target"`
	Graded   *GradeResult     `json:"graded,omitempty"`
}

// SyncResult is the review log after a merge with an uploaded copy.
type SyncResult struct {
	Entries []domain.ReviewLogEntry `json:"entries"`
	// Skipped counts uploaded entries that reference unknown cards.
	Skipped int `json:"skipped"`
	// Pruned counts merged entries dropped by the retention window.
	Pruned int `json:"pruned"`
}

// Service provides the practice-session operations.
type Service interface {
	// Queue returns the cards due today in the requested mode, narrowed by
	// filters and, when caps are enforced, by the remaining daily budget.
	Queue(ctx context.Context, req QueueRequest) (*Queue, error)

	// Grade applies an outcome to a due card. The scheduler transition, the
	// card update, the review-log entry and the counters bump are committed
	// together or not at all.
	//
	// Returns:
	//   - ErrCardNotFound when the card does not exist
	//   - ErrCardNotInPool when the card is disabled for the mode
	//   - ErrCardNotDue when the card is not due today, including a second
	//     grade for a presentation that was already graded
	//   - ErrStaleVersion when the card changed since the client read it
	//   - ErrInvalidOutcome for an unknown grade
	Grade(ctx context.Context, cardID uuid.UUID, req GradeRequest) (*GradeResult, error)

	// CheckSpelling scores a typed answer against the card's word. A perfect
	// answer is graded as a correct spelling review; anything else only
	// returns feedback.
	CheckSpelling(ctx context.Context, cardID uuid.UUID, req SpellingRequest) (*SpellingResult, error)

	// Stats aggregates the statistics snapshot for today.
	Stats(ctx context.Context) (*stats.Snapshot, error)

	// History returns the review log of one card, oldest first.
	History(ctx context.Context, cardID uuid.UUID) ([]domain.ReviewLogEntry, error)

	// Log returns the review log dated on or after since. A zero since
	// returns the whole log.
	Log(ctx context.Context, since domain.Date) ([]domain.ReviewLogEntry, error)

	// SyncLog merges an uploaded log into the stored one. Entries sharing a
	// date, card and mode collapse to the uploaded copy. The merged log
	// replaces the stored log in one transaction.
	//
	// Returns:
	//   - ErrInvalidLogEntry when an uploaded entry is malformed
	SyncLog(ctx context.Context, remote []domain.ReviewLogEntry) (*SyncResult, error)
}

// Common error types for the review service
var (
	// ErrCardNotFound indicates that the card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrCardNotDue indicates that the card is not scheduled for today.
	ErrCardNotDue = errors.New("card is not due for review")

	// ErrCardNotInPool indicates that the card is disabled for the requested mode.
	ErrCardNotInPool = errors.New("card is not in the practice pool for this mode")

	// ErrStaleVersion indicates that the card changed since the client read it.
	ErrStaleVersion = errors.New("card was modified by another request")

	// ErrInvalidOutcome indicates an unknown grade.
	ErrInvalidOutcome = domain.ErrInvalidOutcome

	// ErrInvalidLogEntry indicates a malformed entry in an uploaded log.
	ErrInvalidLogEntry = errors.New("invalid review log entry")
)

// ServiceError wraps errors from the review service with additional context.
// This allows consumers to differentiate between different types of service errors
// using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "queue", "grade")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError returns a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

package domain

import (
	"errors"

	"github.com/google/uuid"
)

// ErrReviewCardIDEmpty is returned when a review entry does not reference a card.
var ErrReviewCardIDEmpty = errors.New("review entry card ID cannot be empty")

// ReviewLogEntry records one grading event. Entries are immutable once appended.
type ReviewLogEntry struct {
	ID      uuid.UUID `json:"id"`
	CardID  uuid.UUID `json:"cardId"`
	Word    string    `json:"word"`
	Correct bool      `json:"correct"`
	Mode    Mode      `json:"mode"`
	Date    Date      `json:"date"`

	// MatureAtReview records whether the card was mature before this review,
	// so retention can be computed against point-in-time maturity.
	MatureAtReview bool `json:"matureAtReview"`
}

// NewReviewLogEntry snapshots a card and the outcome of reviewing it.
// The card passed in is the state before the transition.
func NewReviewLogEntry(before Card, correct bool, mode Mode, date Date) ReviewLogEntry {
	return ReviewLogEntry{
		ID:             uuid.New(),
		CardID:         before.ID,
		Word:           before.Word,
		Correct:        correct,
		Mode:           mode,
		Date:           date,
		MatureAtReview: before.IsMature(),
	}
}

// Validate checks that the entry references a card, a mode and a date.
func (e ReviewLogEntry) Validate() error {
	if e.CardID == uuid.Nil {
		return ErrReviewCardIDEmpty
	}
	if _, err := ParseMode(string(e.Mode)); err != nil {
		return err
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// ShownKind classifies a presentation for the daily throttle.
type ShownKind string

// Presentation kinds
const (
	ShownNew    ShownKind = "new"
	ShownReview ShownKind = "review"
)

// DailyCounters tracks how many cards were shown on DateKey.
type DailyCounters struct {
	DateKey     Date `json:"dateKey"`
	ShownNew    int  `json:"shownNew"`
	ShownReview int  `json:"shownReview"`
}

// Caps holds the configured daily throughput limits.
type Caps struct {
	NewCardsPerDay   int `json:"newCardsPerDay"`
	MaxReviewsPerDay int `json:"maxReviewsPerDay"`
}

// DefaultCaps returns the stock daily limits.
func DefaultCaps() Caps {
	return Caps{NewCardsPerDay: 20, MaxReviewsPerDay: 200}
}

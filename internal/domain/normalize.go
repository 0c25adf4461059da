package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RawCard is a partially populated card record as received from an external
// collaborator (an API client, a backup file, a synced row). Pointer fields
// distinguish "missing" from an explicit zero.
type RawCard struct {
	ID          string   `json:"id"`
	Word        string   `json:"word"`
	Translation string   `json:"translation"`
	Category    string   `json:"category"`
	Difficulty  string   `json:"difficulty"`
	Interval    *int     `json:"interval"`
	Ease        *float64 `json:"ease"`
	Reps        *int     `json:"reps"`
	Lapses      *int     `json:"lapses"`
	NextReview  string   `json:"nextReview"`
	CreatedAt   string   `json:"createdAt"`
	Modes       *Modes   `json:"modes"`
	IPA         string   `json:"ipa"`
	Mnemonic    string   `json:"mnemonic"`
	ImageURL    string   `json:"imageUrl"`
	Example     string   `json:"example"`
}

// NormalizeCard turns a raw record into a fully populated Card. It is the
// only place where missing fields are defaulted: interval/ease/reps/lapses
// become 0/2.5/0/0, absent modes enable both pools, and a missing creation
// date becomes today. Out-of-range numbers are clamped rather than rejected.
// Only structurally broken input (bad id, empty word, malformed date) fails.
func NormalizeCard(raw RawCard, today Date) (Card, error) {
	card := Card{
		Word:        strings.TrimSpace(raw.Word),
		Translation: strings.TrimSpace(raw.Translation),
		Category:    raw.Category,
		Difficulty:  raw.Difficulty,
		Interval:    0,
		Ease:        DefaultEase,
		Modes:       AllModes(),
		IPA:         raw.IPA,
		Mnemonic:    raw.Mnemonic,
		ImageURL:    raw.ImageURL,
		Example:     raw.Example,
		UpdatedAt:   time.Now().UTC(),
	}

	if card.Word == "" {
		return Card{}, ErrCardWordEmpty
	}

	if raw.ID == "" {
		card.ID = uuid.New()
	} else {
		id, err := uuid.Parse(raw.ID)
		if err != nil {
			return Card{}, fmt.Errorf("%w: %v", ErrInvalidID, err)
		}
		card.ID = id
	}

	if card.Category == "" {
		card.Category = DefaultCategory
	}
	if card.Difficulty == "" {
		card.Difficulty = DefaultLevel
	}

	if raw.Interval != nil && *raw.Interval > 0 {
		card.Interval = *raw.Interval
	}
	if raw.Ease != nil && *raw.Ease > 0 {
		card.Ease = ClampEase(*raw.Ease)
	}
	if raw.Reps != nil && *raw.Reps > 0 {
		card.Reps = *raw.Reps
	}
	if raw.Lapses != nil && *raw.Lapses > 0 {
		card.Lapses = *raw.Lapses
	}
	if raw.Modes != nil {
		card.Modes = *raw.Modes
	}

	var err error
	if raw.NextReview != "" {
		if card.NextReview, err = parseLooseDate(raw.NextReview); err != nil {
			return Card{}, err
		}
	}
	if raw.CreatedAt != "" {
		if card.CreatedAt, err = parseLooseDate(raw.CreatedAt); err != nil {
			return Card{}, err
		}
	} else {
		card.CreatedAt = today
	}

	return card, nil
}

// parseLooseDate accepts a plain date or an RFC 3339 timestamp whose date
// part is taken verbatim, so no timezone shift can move it by a day.
func parseLooseDate(s string) (Date, error) {
	if len(s) > len(DateLayout) && s[len(DateLayout)] == 'T' {
		s = s[:len(DateLayout)]
	}
	return ParseDate(s)
}

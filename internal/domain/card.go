package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Scheduling defaults and bounds shared by every strategy.
const (
	DefaultEase     = 2.5
	MinEase         = 1.3
	MaxEase         = 3.5
	MatureInterval  = 21
	DefaultCategory = "noun"
	DefaultLevel    = "easy"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardWordEmpty is returned when a card has no word to learn.
	ErrCardWordEmpty = errors.New("card word cannot be empty")

	// ErrInvalidInterval is returned when an interval is negative.
	ErrInvalidInterval = errors.New("interval must be greater than or equal to 0")

	// ErrInvalidEase is returned when the ease factor is outside its bounds.
	ErrInvalidEase = errors.New("ease factor out of bounds")

	// ErrInvalidCounter is returned when reps or lapses are negative.
	ErrInvalidCounter = errors.New("review counters must be greater than or equal to 0")
)

// Modes lists the practice pools a card participates in.
type Modes struct {
	Flashcard bool `json:"flashcard"`
	Spelling  bool `json:"spelling"`
}

// AllModes enables a card in every pool.
func AllModes() Modes {
	return Modes{Flashcard: true, Spelling: true}
}

// Has reports whether the pool for mode is enabled.
func (m Modes) Has(mode Mode) bool {
	switch mode {
	case ModeFlashcard:
		return m.Flashcard
	case ModeSpelling:
		return m.Spelling
	default:
		return false
	}
}

// Card is the scheduling state of one learnable word.
type Card struct {
	ID          uuid.UUID `json:"id"`
	Word        string    `json:"word"`
	Translation string    `json:"translation"`
	Category    string    `json:"category"`
	Difficulty  string    `json:"difficulty"`

	Interval   int     `json:"interval"` // days until next review
	Ease       float64 `json:"ease"`
	Reps       int     `json:"reps"`   // consecutive successes since last lapse
	Lapses     int     `json:"lapses"` // lifetime failures
	NextReview Date    `json:"nextReview"`
	CreatedAt  Date    `json:"createdAt"`
	Modes      Modes   `json:"modes"`

	IPA      string `json:"ipa,omitempty"`
	Mnemonic string `json:"mnemonic,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	Example  string `json:"example,omitempty"`

	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewCard creates a fresh card that is due today in every pool.
func NewCard(word, translation, category, difficulty string, today Date) (*Card, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, ErrCardWordEmpty
	}
	if category == "" {
		category = DefaultCategory
	}
	if difficulty == "" {
		difficulty = DefaultLevel
	}

	card := &Card{
		ID:          uuid.New(),
		Word:        word,
		Translation: strings.TrimSpace(translation),
		Category:    category,
		Difficulty:  difficulty,
		Interval:    0,
		Ease:        DefaultEase,
		Reps:        0,
		Lapses:      0,
		NextReview:  today,
		CreatedAt:   today,
		Modes:       AllModes(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}
	return card, nil
}

// Validate checks if the card has valid data.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}
	if strings.TrimSpace(c.Word) == "" {
		return ErrCardWordEmpty
	}
	if c.Interval < 0 {
		return ErrInvalidInterval
	}
	if c.Reps < 0 || c.Lapses < 0 {
		return ErrInvalidCounter
	}
	if c.Ease < MinEase || c.Ease > MaxEase {
		return ErrInvalidEase
	}
	return nil
}

// IsDue reports whether the card should be presented on today.
// A card without a scheduled date is always due.
func (c Card) IsDue(today Date) bool {
	return c.NextReview.IsZero() || !c.NextReview.After(today)
}

// IsNew reports whether the card has never been successfully learned.
func (c Card) IsNew() bool {
	return c.Reps == 0 || c.Interval == 0
}

// IsMature reports whether the current interval reached the maturity threshold.
func (c Card) IsMature() bool {
	return c.Interval >= MatureInterval
}

// InPool reports whether the card participates in the given practice mode.
func (c Card) InPool(mode Mode) bool {
	return c.Modes.Has(mode)
}

// ClampEase bounds an ease factor to [MinEase, MaxEase].
func ClampEase(ease float64) float64 {
	if ease < MinEase {
		return MinEase
	}
	if ease > MaxEase {
		return MaxEase
	}
	return ease
}

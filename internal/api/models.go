package api

import (
	"fmt"
	"strings"

	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
	"github.com/nadezdatsygankova/my-english-trainer/internal/service"
)

// CardRequest defines the payload for creating or editing a card.
type CardRequest struct {
	Word        string        `json:"word"        validate:"required,max=200"`
	Translation string        `json:"translation" validate:"max=500"`
	Category    string        `json:"category"    validate:"max=50"`
	Difficulty  string        `json:"difficulty"  validate:"omitempty,oneof=easy medium hard"`
	IPA         string        `json:"ipa"         validate:"max=100"`
	Mnemonic    string        `json:"mnemonic"    validate:"max=1000"`
	ImageURL    string        `json:"imageUrl"    validate:"omitempty,url"`
	Example     string        `json:"example"     validate:"max=1000"`
	Modes       *domain.Modes `json:"modes"`

	// Version is the card version the client edited. Zero skips the check.
	Version int `json:"version" validate:"gte=0"`
}

// Validate rejects a card enabled in no practice pool.
func (r *CardRequest) Validate() error {
	if strings.TrimSpace(r.Word) == "" {
		return domain.ErrCardWordEmpty
	}
	if r.Modes != nil && !r.Modes.Flashcard && !r.Modes.Spelling {
		return fmt.Errorf("%w: a card needs at least one practice mode", domain.ErrValidation)
	}
	return nil
}

func (r *CardRequest) content() service.CardContent {
	return service.CardContent{
		Word:        r.Word,
		Translation: r.Translation,
		Category:    r.Category,
		Difficulty:  r.Difficulty,
		IPA:         r.IPA,
		Mnemonic:    r.Mnemonic,
		ImageURL:    r.ImageURL,
		Example:     r.Example,
		Modes:       r.Modes,
	}
}

// PostponeRequest defines the payload for pushing a card's next review.
type PostponeRequest struct {
	Days    int `json:"days"    validate:"required,min=1,max=365"`
	Version int `json:"version" validate:"gte=0"`
}

// ImportRequest wraps a batch of raw card records. The import endpoint also
// accepts a bare JSON array.
type ImportRequest struct {
	Cards []domain.RawCard `json:"cards" validate:"required,min=1,max=5000"`
}

// GradeRequest defines the payload for grading a card. Exactly one of
// Outcome (four-level grade) and Correct (binary answer) is set.
type GradeRequest struct {
	Mode    string `json:"mode"    validate:"required,oneof=flashcard spelling"`
	Outcome string `json:"outcome" validate:"omitempty,oneof=again hard good easy"`
	Correct *bool  `json:"correct"`
	Version int    `json:"version" validate:"gte=0"`

	// The queue the card was shown from.
	Cursor     int    `json:"cursor"     validate:"gte=0"`
	Category   string `json:"category"   validate:"max=50"`
	Difficulty string `json:"difficulty" validate:"max=50"`
}

// Validate requires exactly one answer form.
func (r *GradeRequest) Validate() error {
	if (r.Outcome == "") == (r.Correct == nil) {
		return fmt.Errorf("%w: exactly one of outcome and correct is required", domain.ErrValidation)
	}
	return nil
}

// outcome converts the request into a scheduler outcome.
func (r *GradeRequest) outcome() domain.Outcome {
	if r.Correct != nil {
		return domain.Correct(*r.Correct)
	}
	return domain.Graded(domain.Grade(r.Outcome))
}

// SpellingRequest defines the payload for a typed answer.
type SpellingRequest struct {
	Guess   string `json:"guess"   validate:"max=200"`
	Version int    `json:"version" validate:"gte=0"`

	Cursor     int    `json:"cursor"     validate:"gte=0"`
	Category   string `json:"category"   validate:"max=50"`
	Difficulty string `json:"difficulty" validate:"max=50"`
}

// SyncLogRequest carries a review log to merge into the stored one.
type SyncLogRequest struct {
	Entries []domain.ReviewLogEntry `json:"entries" validate:"max=100000"`
}

// ReviewLogResponse lists review log entries, oldest first.
type ReviewLogResponse struct {
	Entries []domain.ReviewLogEntry `json:"entries"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

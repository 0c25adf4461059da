package srs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
)

// Common errors
var (
	ErrInvalidOutcome  = domain.ErrInvalidOutcome
	ErrUnknownStrategy = errors.New("unknown scheduling strategy")
	ErrInvalidDays     = errors.New("postpone days must be at least 1")
)

// Strategy names a scheduling algorithm.
type Strategy string

// Available strategies
const (
	StrategyBinary    Strategy = "binary"
	StrategyFourGrade Strategy = "fourgrade"
)

// ParseStrategy converts a configuration value into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyBinary:
		return StrategyBinary, nil
	case StrategyFourGrade:
		return StrategyFourGrade, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// Scheduler turns a review outcome into the next card state.
// Implementations are pure: the input card is never modified and the same
// inputs always produce the same output.
type Scheduler interface {
	// Advance computes the card state after a review on today
	Advance(card domain.Card, outcome domain.Outcome, today domain.Date) (domain.Card, error)

	// Strategy reports which algorithm the scheduler runs
	Strategy() Strategy
}

// New creates a scheduler for the given strategy. A nil params uses defaults.
func New(strategy Strategy, params *Params) (Scheduler, error) {
	if params == nil {
		params = NewDefaultParams()
	}
	switch strategy {
	case StrategyBinary:
		return &binaryScheduler{params: params}, nil
	case StrategyFourGrade:
		return &fourGradeScheduler{params: params}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

type binaryScheduler struct {
	params *Params
}

// Advance implements Scheduler. A graded outcome counts as correct for any
// grade except "again".
func (s *binaryScheduler) Advance(
	card domain.Card,
	outcome domain.Outcome,
	today domain.Date,
) (domain.Card, error) {
	if today.IsZero() {
		return domain.Card{}, domain.ErrInvalidDate
	}
	if g, ok := outcome.Grade(); ok && !g.IsValid() {
		return domain.Card{}, fmt.Errorf("%w: %q", ErrInvalidOutcome, g)
	}
	return advanceBinary(card, outcome.WasCorrect(), today, s.params), nil
}

func (s *binaryScheduler) Strategy() Strategy { return StrategyBinary }

type fourGradeScheduler struct {
	params *Params
}

// Advance implements Scheduler. A boolean outcome carries no grade, so it
// is handed to the binary algorithm with the same parameters. Unknown
// grades are rejected.
func (s *fourGradeScheduler) Advance(
	card domain.Card,
	outcome domain.Outcome,
	today domain.Date,
) (domain.Card, error) {
	if today.IsZero() {
		return domain.Card{}, domain.ErrInvalidDate
	}

	grade, graded := outcome.Grade()
	if !graded {
		return advanceBinary(card, outcome.WasCorrect(), today, s.params), nil
	}
	if !grade.IsValid() {
		return domain.Card{}, fmt.Errorf("%w: %q", ErrInvalidOutcome, grade)
	}
	return advanceFourGrade(card, grade, today, s.params), nil
}

func (s *fourGradeScheduler) Strategy() Strategy { return StrategyFourGrade }

// Postpone pushes a card's next review forward by days. The shift starts
// from the later of the scheduled date and today, so postponing an overdue
// card never leaves it due.
func Postpone(card domain.Card, days int, today domain.Date) (domain.Card, error) {
	if days < 1 {
		return domain.Card{}, ErrInvalidDays
	}
	if today.IsZero() {
		return domain.Card{}, domain.ErrInvalidDate
	}

	next := card
	from := card.NextReview
	if from.IsZero() || from.Before(today) {
		from = today
	}
	next.NextReview = from.AddDays(days)
	return next, nil
}

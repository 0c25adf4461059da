// Package throttle computes how many new and review cards may still be
// shown today and keeps the per-day presentation counters.
package throttle

import (
	"errors"
	"fmt"

	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
)

// ErrInvalidKind is returned when a presentation kind is neither new nor review.
var ErrInvalidKind = errors.New("invalid presentation kind")

// Counts is the daily throughput picture for one card pool.
type Counts struct {
	All    int `json:"all"`
	DueAll int `json:"dueAll"`
	NewAll int `json:"newAll"`

	ReviewsCap      int `json:"reviewsCap"`
	NewCap          int `json:"newCap"`
	ReviewsCapLeft  int `json:"reviewsCapLeft"`
	NewCapLeft      int `json:"newCapLeft"`
	ReviewsDueToday int `json:"reviewsDueToday"`
	ReviewBacklog   int `json:"reviewBacklog"`
	NewToday        int `json:"newToday"`
}

// Current returns the counters that apply to today. Counters stamped with
// another day read as zero; nothing is written until the next Bump.
func Current(counters domain.DailyCounters, today domain.Date) domain.DailyCounters {
	if !counters.DateKey.Equal(today) {
		return domain.DailyCounters{DateKey: today}
	}
	return counters
}

// GetCounts computes the day's counts for pool, which the caller has already
// narrowed to one practice mode and filter set. A card counts as new while
// it has no successful reps.
func GetCounts(
	pool []domain.Card,
	counters domain.DailyCounters,
	caps domain.Caps,
	today domain.Date,
) Counts {
	daily := Current(counters, today)

	c := Counts{
		All:        len(pool),
		ReviewsCap: caps.MaxReviewsPerDay,
		NewCap:     caps.NewCardsPerDay,
	}
	for _, card := range pool {
		if card.IsDue(today) {
			c.DueAll++
		}
		if card.Reps == 0 {
			c.NewAll++
		}
	}

	c.ReviewsCapLeft = max(0, caps.MaxReviewsPerDay-daily.ShownReview)
	c.ReviewsDueToday = min(c.DueAll, c.ReviewsCapLeft)
	c.ReviewBacklog = max(0, c.DueAll-c.ReviewsCapLeft)

	c.NewCapLeft = max(0, caps.NewCardsPerDay-daily.ShownNew)
	c.NewToday = min(c.NewAll, c.NewCapLeft)

	return c
}

// KindFor classifies a card by its state before grading.
func KindFor(before domain.Card) domain.ShownKind {
	if before.Reps == 0 {
		return domain.ShownNew
	}
	return domain.ShownReview
}

// Bump records one more presentation of kind on today, resetting the
// counters first when they belong to an earlier day.
func Bump(
	counters domain.DailyCounters,
	kind domain.ShownKind,
	today domain.Date,
) (domain.DailyCounters, error) {
	next := Current(counters, today)
	switch kind {
	case domain.ShownNew:
		next.ShownNew++
	case domain.ShownReview:
		next.ShownReview++
	default:
		return counters, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	return next, nil
}

// Reset returns zeroed counters for today.
func Reset(today domain.Date) domain.DailyCounters {
	return domain.DailyCounters{DateKey: today}
}

package srs

import (
	"math"

	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
)

// clampEase bounds an ease factor to the configured limits.
//
// Parameters:
//   - ease: The unclamped ease factor
//   - params: Configuration parameters for the scheduler
//
// Returns:
//   - The ease factor within [params.MinEase, params.MaxEase]
func clampEase(ease float64, params *Params) float64 {
	if ease < params.MinEase {
		ease = params.MinEase
	}
	if ease > params.MaxEase {
		ease = params.MaxEase
	}
	return ease
}

// scaleInterval multiplies an interval and rounds half away from zero.
func scaleInterval(interval int, factor float64) int {
	return int(math.Round(float64(interval) * factor))
}

// nextReviewDate converts an interval into the calendar day of the next review.
//
// The date is always derived from today's local midnight, never from a
// timestamp, and is at least one day after today even when the interval is 0.
func nextReviewDate(interval int, today domain.Date) domain.Date {
	return today.AddDays(max(1, interval))
}

// advanceBinary applies a correct/incorrect answer to a card.
//
// Parameters:
//   - card: The card state before the review (not modified)
//   - correct: Whether the answer was right
//   - today: The local calendar day of the review
//   - params: Configuration parameters for the scheduler
//
// Returns:
//   - A new card state with the transition applied
//
// Algorithm behavior:
//   - Incorrect: reps reset to 0, one more lapse, interval 1, ease lowered
//     by BinaryIncorrectEase
//   - Correct: reps grows by one; the interval is 1 on the first success,
//     3 on the second, and afterwards the old interval times the old ease
//     (never less than 1); ease grows by BinaryCorrectEase
//   - Ease is clamped to both bounds
func advanceBinary(card domain.Card, correct bool, today domain.Date, params *Params) domain.Card {
	next := card

	if !correct {
		next.Reps = 0
		next.Lapses = card.Lapses + 1
		next.Interval = 1
		next.Ease = clampEase(card.Ease+params.BinaryIncorrectEase, params)
	} else {
		next.Reps = card.Reps + 1
		switch next.Reps {
		case 1:
			next.Interval = 1
		case 2:
			next.Interval = 3
		default:
			next.Interval = max(1, scaleInterval(card.Interval, card.Ease))
		}
		next.Ease = clampEase(card.Ease+params.BinaryCorrectEase, params)
	}

	next.NextReview = nextReviewDate(next.Interval, today)
	return next
}

// advanceFourGrade applies a four-level grade to a card.
//
// Parameters:
//   - card: The card state before the review (not modified)
//   - grade: One of again, hard, good, easy (validated by the caller)
//   - today: The local calendar day of the review
//   - params: Configuration parameters for the scheduler
//
// Returns:
//   - A new card state with the transition applied
//
// Algorithm behavior:
//   - "Again" resets reps, records a lapse and schedules for tomorrow
//   - "Hard", "Good" and "Easy" use fixed learning intervals while reps is
//     at most 2, then grow the old interval by old ease times the grade's
//     interval modifier, floored at MinGraduatedInterval
//   - The ease adjustment for the grade is applied and clamped to both bounds
func advanceFourGrade(card domain.Card, grade domain.Grade, today domain.Date, params *Params) domain.Card {
	next := card
	next.Ease = clampEase(card.Ease+params.EaseAdjustment[grade], params)

	if grade == domain.GradeAgain {
		next.Reps = 0
		next.Lapses = card.Lapses + 1
		next.Interval = 1
		next.NextReview = nextReviewDate(next.Interval, today)
		return next
	}

	next.Reps = card.Reps + 1
	if next.Reps <= 2 {
		next.Interval = params.LearningIntervals[grade][next.Reps-1]
	} else {
		next.Interval = max(
			params.MinGraduatedInterval[grade],
			scaleInterval(card.Interval, card.Ease*params.IntervalModifier[grade]),
		)
	}

	next.NextReview = nextReviewDate(next.Interval, today)
	return next
}

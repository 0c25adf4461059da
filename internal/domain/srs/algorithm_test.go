package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
)

var testToday = domain.NewDate(2025, time.March, 10)

func freshCard(t *testing.T) domain.Card {
	t.Helper()
	card, err := domain.NewCard("world", "мир", "", "", testToday)
	require.NoError(t, err)
	return *card
}

func TestAdvanceBinary(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name         string
		card         domain.Card
		correct      bool
		wantInterval int
		wantReps     int
		wantLapses   int
		wantEase     float64
	}{
		{
			name:         "incorrect resets reps and records a lapse",
			card:         domain.Card{Interval: 10, Ease: 2.5, Reps: 4, Lapses: 1},
			correct:      false,
			wantInterval: 1,
			wantReps:     0,
			wantLapses:   2,
			wantEase:     2.3,
		},
		{
			name:         "incorrect never drops ease below the floor",
			card:         domain.Card{Interval: 3, Ease: 1.4, Reps: 2},
			correct:      false,
			wantInterval: 1,
			wantReps:     0,
			wantLapses:   1,
			wantEase:     1.3,
		},
		{
			name:         "first success schedules tomorrow",
			card:         domain.Card{Interval: 0, Ease: 2.5},
			correct:      true,
			wantInterval: 1,
			wantReps:     1,
			wantEase:     2.52,
		},
		{
			name:         "second success schedules three days",
			card:         domain.Card{Interval: 1, Ease: 2.5, Reps: 1},
			correct:      true,
			wantInterval: 3,
			wantReps:     2,
			wantEase:     2.52,
		},
		{
			name:         "later success multiplies by the old ease",
			card:         domain.Card{Interval: 3, Ease: 2.5, Reps: 2},
			correct:      true,
			wantInterval: 8,
			wantReps:     3,
			wantEase:     2.52,
		},
		{
			name:         "later success on a zero interval still schedules ahead",
			card:         domain.Card{Interval: 0, Ease: 2.5, Reps: 2},
			correct:      true,
			wantInterval: 1,
			wantReps:     3,
			wantEase:     2.52,
		},
		{
			name:         "success at the ceiling stays clamped",
			card:         domain.Card{Interval: 10, Ease: 3.5, Reps: 5},
			correct:      true,
			wantInterval: 35,
			wantReps:     6,
			wantEase:     3.5,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := advanceBinary(tc.card, tc.correct, testToday, params)

			assert.Equal(t, tc.wantInterval, got.Interval)
			assert.Equal(t, tc.wantReps, got.Reps)
			assert.Equal(t, tc.wantLapses, got.Lapses)
			assert.InDelta(t, tc.wantEase, got.Ease, 1e-9)
			assert.Equal(t, testToday.AddDays(tc.wantInterval), got.NextReview)
		})
	}
}

func TestAdvanceFourGrade(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name         string
		card         domain.Card
		grade        domain.Grade
		wantInterval int
		wantReps     int
		wantLapses   int
		wantEase     float64
	}{
		{
			name:         "again resets and lapses",
			card:         domain.Card{Interval: 20, Ease: 2.5, Reps: 5},
			grade:        domain.GradeAgain,
			wantInterval: 1,
			wantLapses:   1,
			wantEase:     2.2,
		},
		{
			name:         "hard on first rep",
			card:         domain.Card{Ease: 2.5},
			grade:        domain.GradeHard,
			wantInterval: 1,
			wantReps:     1,
			wantEase:     2.35,
		},
		{
			name:         "hard on second rep",
			card:         domain.Card{Interval: 1, Ease: 2.5, Reps: 1},
			grade:        domain.GradeHard,
			wantInterval: 2,
			wantReps:     2,
			wantEase:     2.35,
		},
		{
			name:         "hard after graduation",
			card:         domain.Card{Interval: 10, Ease: 2.0, Reps: 3},
			grade:        domain.GradeHard,
			wantInterval: 17,
			wantReps:     4,
			wantEase:     1.85,
		},
		{
			name:         "good keeps ease",
			card:         domain.Card{Interval: 3, Ease: 2.5, Reps: 2},
			grade:        domain.GradeGood,
			wantInterval: 8,
			wantReps:     3,
			wantEase:     2.5,
		},
		{
			name:         "easy on a fresh card jumps to four days",
			card:         domain.Card{Ease: 2.5},
			grade:        domain.GradeEasy,
			wantInterval: 4,
			wantReps:     1,
			wantEase:     2.65,
		},
		{
			name:         "easy after graduation",
			card:         domain.Card{Interval: 4, Ease: 2.5, Reps: 2},
			grade:        domain.GradeEasy,
			wantInterval: 13,
			wantReps:     3,
			wantEase:     2.65,
		},
		{
			name:         "easy from a zero interval is floored at two",
			card:         domain.Card{Interval: 0, Ease: 2.5, Reps: 2},
			grade:        domain.GradeEasy,
			wantInterval: 2,
			wantReps:     3,
			wantEase:     2.65,
		},
		{
			name:         "good from a zero interval is floored at one",
			card:         domain.Card{Interval: 0, Ease: 2.5, Reps: 2},
			grade:        domain.GradeGood,
			wantInterval: 1,
			wantReps:     3,
			wantEase:     2.5,
		},
		{
			name:         "easy at the ceiling stays clamped",
			card:         domain.Card{Interval: 30, Ease: 3.45, Reps: 6},
			grade:        domain.GradeEasy,
			wantInterval: 135,
			wantReps:     7,
			wantEase:     3.5,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := advanceFourGrade(tc.card, tc.grade, testToday, params)

			assert.Equal(t, tc.wantInterval, got.Interval)
			assert.Equal(t, tc.wantReps, got.Reps)
			assert.Equal(t, tc.wantLapses, got.Lapses)
			assert.InDelta(t, tc.wantEase, got.Ease, 1e-9)
			assert.Equal(t, testToday.AddDays(tc.wantInterval), got.NextReview)
		})
	}
}

func TestNextReviewDateIsAtLeastTomorrow(t *testing.T) {
	t.Parallel()

	assert.Equal(t, testToday.AddDays(1), nextReviewDate(0, testToday))
	assert.Equal(t, testToday.AddDays(1), nextReviewDate(1, testToday))
	assert.Equal(t, testToday.AddDays(9), nextReviewDate(9, testToday))
}

func TestAdvanceDoesNotModifyInput(t *testing.T) {
	t.Parallel()
	card := freshCard(t)
	before := card

	_ = advanceBinary(card, true, testToday, NewDefaultParams())
	_ = advanceFourGrade(card, domain.GradeAgain, testToday, NewDefaultParams())

	assert.Equal(t, before, card)
}

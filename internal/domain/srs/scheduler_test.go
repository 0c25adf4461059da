package srs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
)

func newBinary() Scheduler {
	return &binaryScheduler{params: NewDefaultParams()}
}

func newFourGrade() Scheduler {
	return &fourGradeScheduler{params: NewDefaultParams()}
}

func TestNew(t *testing.T) {
	t.Parallel()

	s, err := New(StrategyBinary, nil)
	require.NoError(t, err)
	assert.Equal(t, StrategyBinary, s.Strategy())

	s, err = New(StrategyFourGrade, NewDefaultParams())
	require.NoError(t, err)
	assert.Equal(t, StrategyFourGrade, s.Strategy())

	_, err = New("anki", nil)
	require.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestParseStrategy(t *testing.T) {
	t.Parallel()

	got, err := ParseStrategy(" FourGrade ")
	require.NoError(t, err)
	assert.Equal(t, StrategyFourGrade, got)

	_, err = ParseStrategy("")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestBinaryFromFreshCard(t *testing.T) {
	t.Parallel()
	s := newBinary()
	card := freshCard(t)

	var intervals []int
	for i := 0; i < 4; i++ {
		var err error
		card, err = s.Advance(card, domain.Correct(true), testToday)
		require.NoError(t, err)
		intervals = append(intervals, card.Interval)
	}

	// 3 * 2.54 = 7.62 and 8 * 2.56 = 20.48
	assert.Equal(t, []int{1, 3, 8, 20}, intervals)
}

func TestFourGradeGoodThreeTimes(t *testing.T) {
	t.Parallel()
	s := newFourGrade()
	card := freshCard(t)

	var intervals []int
	for i := 0; i < 3; i++ {
		var err error
		card, err = s.Advance(card, domain.Graded(domain.GradeGood), testToday)
		require.NoError(t, err)
		intervals = append(intervals, card.Interval)
	}

	assert.Equal(t, []int{1, 3, 8}, intervals)
	assert.InDelta(t, 2.5, card.Ease, 1e-9)
}

func TestFourGradeAgainGoodGood(t *testing.T) {
	t.Parallel()
	s := newFourGrade()
	card := freshCard(t)

	for _, g := range []domain.Grade{domain.GradeAgain, domain.GradeGood, domain.GradeGood} {
		var err error
		card, err = s.Advance(card, domain.Graded(g), testToday)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, card.Reps)
	assert.Equal(t, 1, card.Lapses)
	assert.Equal(t, 3, card.Interval)
	assert.InDelta(t, 2.2, card.Ease, 1e-9)
	assert.Equal(t, testToday.AddDays(3), card.NextReview)
}

func TestFourGradeEaseStaysInBounds(t *testing.T) {
	t.Parallel()
	s := newFourGrade()
	grades := []domain.Grade{domain.GradeAgain, domain.GradeHard, domain.GradeGood, domain.GradeEasy}

	// Walk a deterministic pseudo-random sequence of grades.
	card := freshCard(t)
	seed := uint32(7)
	for i := 0; i < 500; i++ {
		seed = seed*1103515245 + 12345
		g := grades[(seed>>16)%uint32(len(grades))]

		var err error
		card, err = s.Advance(card, domain.Graded(g), testToday)
		require.NoError(t, err)

		require.GreaterOrEqual(t, card.Ease, domain.MinEase)
		require.LessOrEqual(t, card.Ease, domain.MaxEase)
		require.GreaterOrEqual(t, card.Interval, 1)
		require.True(t, card.NextReview.After(testToday))
	}

	for i := 0; i < 30; i++ {
		card, _ = s.Advance(card, domain.Graded(domain.GradeAgain), testToday)
	}
	assert.InDelta(t, domain.MinEase, card.Ease, 1e-9)

	for i := 0; i < 30; i++ {
		card, _ = s.Advance(card, domain.Graded(domain.GradeEasy), testToday)
	}
	assert.InDelta(t, domain.MaxEase, card.Ease, 1e-9)
}

func TestFourGradeBooleanOutcomeUsesBinary(t *testing.T) {
	t.Parallel()
	card := domain.Card{Interval: 3, Ease: 2.5, Reps: 2}

	got, err := newFourGrade().Advance(card, domain.Correct(false), testToday)
	require.NoError(t, err)
	want, err := newBinary().Advance(card, domain.Correct(false), testToday)
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.InDelta(t, 2.3, got.Ease, 1e-9)
}

func TestCorrectAnswerOnZeroIntervalCardSchedulesAhead(t *testing.T) {
	t.Parallel()
	// An imported or hand-edited card can carry reps without an interval.
	card := domain.Card{Interval: 0, Ease: 2.5, Reps: 2}

	for _, s := range []Scheduler{newBinary(), newFourGrade()} {
		got, err := s.Advance(card, domain.Correct(true), testToday)
		require.NoError(t, err, s.Strategy())

		assert.Equal(t, 1, got.Interval, s.Strategy())
		assert.Equal(t, 3, got.Reps, s.Strategy())
		assert.Equal(t, testToday.AddDays(1), got.NextReview, s.Strategy())
	}
}

func TestAdvanceRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	card := domain.Card{Ease: 2.5}

	for _, s := range []Scheduler{newBinary(), newFourGrade()} {
		_, err := s.Advance(card, domain.Graded("meh"), testToday)
		assert.ErrorIs(t, err, ErrInvalidOutcome, s.Strategy())

		_, err = s.Advance(card, domain.Correct(true), domain.Date{})
		assert.ErrorIs(t, err, domain.ErrInvalidDate, s.Strategy())
	}
}

func TestBinaryAcceptsGrades(t *testing.T) {
	t.Parallel()
	card := domain.Card{Interval: 3, Ease: 2.5, Reps: 2}

	got, err := newBinary().Advance(card, domain.Graded(domain.GradeHard), testToday)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Reps)

	got, err = newBinary().Advance(card, domain.Graded(domain.GradeAgain), testToday)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Lapses)
}

func TestPostpone(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		nextReview domain.Date
		days       int
		want       domain.Date
	}{
		{"future review is pushed from its date", testToday.AddDays(5), 2, testToday.AddDays(7)},
		{"overdue review is pushed from today", testToday.AddDays(-3), 2, testToday.AddDays(2)},
		{"unscheduled card is pushed from today", domain.Date{}, 1, testToday.AddDays(1)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			card := domain.Card{Interval: 4, Ease: 2.5, NextReview: tc.nextReview}

			got, err := Postpone(card, tc.days, testToday)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.NextReview)
			assert.Equal(t, card.Interval, got.Interval)
			assert.Equal(t, tc.nextReview, card.NextReview)
		})
	}

	_, err := Postpone(domain.Card{}, 0, testToday)
	assert.ErrorIs(t, err, ErrInvalidDays)
}

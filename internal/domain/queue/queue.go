// Package queue selects the cards that are due for a practice session and
// keeps the position of the card currently being shown.
package queue

import (
	"github.com/samber/lo"

	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain/throttle"
)

// FilterAll matches every category or difficulty.
const FilterAll = "all"

// Filters narrows a session to one category and one difficulty level.
type Filters struct {
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

// Matches reports whether the card passes both filters. Empty filter values
// behave like FilterAll.
func (f Filters) Matches(card domain.Card) bool {
	return matchTag(f.Category, card.Category) && matchTag(f.Difficulty, card.Difficulty)
}

func (f Filters) normalized() Filters {
	if f.Category == "" {
		f.Category = FilterAll
	}
	if f.Difficulty == "" {
		f.Difficulty = FilterAll
	}
	return f
}

func matchTag(filter, value string) bool {
	return filter == "" || filter == FilterAll || filter == value
}

// Pool returns the cards enrolled in mode that pass the filters, due or not.
func Pool(cards []domain.Card, mode domain.Mode, filters Filters) []domain.Card {
	return lo.Filter(cards, func(c domain.Card, _ int) bool {
		return c.InPool(mode) && filters.Matches(c)
	})
}

// DueCards returns the cards of mode that are due on today and pass the
// filters, in their original order.
func DueCards(cards []domain.Card, mode domain.Mode, filters Filters, today domain.Date) []domain.Card {
	return lo.Filter(cards, func(c domain.Card, _ int) bool {
		return c.InPool(mode) && c.IsDue(today) && filters.Matches(c)
	})
}

// Restrict applies the daily caps to a due list: at most counts.NewToday
// cards without successful reps and at most counts.ReviewsCapLeft other
// cards are kept. Order is preserved.
func Restrict(due []domain.Card, counts throttle.Counts) []domain.Card {
	newLeft, reviewLeft := counts.NewToday, counts.ReviewsCapLeft
	return lo.Filter(due, func(c domain.Card, _ int) bool {
		if throttle.KindFor(c) == domain.ShownNew {
			if newLeft == 0 {
				return false
			}
			newLeft--
			return true
		}
		if reviewLeft == 0 {
			return false
		}
		reviewLeft--
		return true
	})
}

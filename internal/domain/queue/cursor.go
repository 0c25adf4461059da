package queue

import "github.com/nadezdatsygankova/my-english-trainer/internal/domain"

// Cursor points at the current card of a due list. It is a value: every
// method returns the updated cursor.
type Cursor struct {
	Index   int     `json:"index"`
	Filters Filters `json:"filters"`
}

// Current returns the card under the cursor, or false for an empty list.
// An index left past the end by a shrinking list falls back to the first card.
func (c Cursor) Current(list []domain.Card) (domain.Card, bool) {
	if len(list) == 0 {
		return domain.Card{}, false
	}
	return list[c.normalize(len(list))], true
}

// Advance moves to the next card, wrapping to the start after the last one.
func (c Cursor) Advance(length int) Cursor {
	if length <= 0 {
		c.Index = 0
		return c
	}
	c.Index = (c.normalize(length) + 1) % length
	return c
}

// Reset moves the cursor back to the first card.
func (c Cursor) Reset() Cursor {
	c.Index = 0
	return c
}

// WithFilters switches the cursor to filters, resetting the position when
// they differ from the current ones. An empty filter value equals FilterAll.
func (c Cursor) WithFilters(filters Filters) Cursor {
	if c.Filters.normalized() != filters.normalized() {
		return Cursor{Filters: filters}
	}
	c.Filters = filters
	return c
}

func (c Cursor) normalize(length int) int {
	if c.Index < 0 || c.Index >= length {
		return 0
	}
	return c.Index
}

package reviewlog

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
)

var today = domain.NewDate(2025, time.March, 10)

func entry(id uuid.UUID, word string, correct bool, mode domain.Mode, date domain.Date) domain.ReviewLogEntry {
	return domain.ReviewLogEntry{
		ID:      uuid.New(),
		CardID:  id,
		Word:    word,
		Correct: correct,
		Mode:    mode,
		Date:    date,
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	apple, pear := uuid.New(), uuid.New()
	d1, d2, d3 := today.AddDays(-2), today.AddDays(-1), today

	local := []domain.ReviewLogEntry{
		entry(apple, "apple", false, domain.ModeFlashcard, d3),
		entry(apple, "apple", false, domain.ModeFlashcard, d1),
		entry(pear, "pear", true, domain.ModeSpelling, d2),
	}
	remote := []domain.ReviewLogEntry{
		entry(apple, "apple", true, domain.ModeFlashcard, d1),
		entry(apple, "apple", true, domain.ModeSpelling, d1),
		entry(pear, "pear", true, domain.ModeSpelling, d3),
	}

	merged := Merge(local, remote)
	require.Len(t, merged, 5)

	for i := 1; i < len(merged); i++ {
		assert.False(t, merged[i].Date.Before(merged[i-1].Date), "sorted ascending")
	}

	// The collision on (d1, apple, flashcard) keeps the remote copy.
	assert.Equal(t, remote[0].ID, merged[0].ID)
	assert.True(t, merged[0].Correct)
	assert.Equal(t, remote[1].ID, merged[1].ID)
	assert.Equal(t, local[2].ID, merged[2].ID)
	assert.Equal(t, local[0].ID, merged[3].ID)
	assert.Equal(t, remote[2].ID, merged[4].ID)

	seen := map[Key]bool{}
	for _, e := range merged {
		k := KeyOf(e)
		assert.False(t, seen[k], "duplicate key %v", k)
		seen[k] = true
	}
}

func TestMergeEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Merge(nil, nil))

	only := []domain.ReviewLogEntry{entry(uuid.New(), "a", true, domain.ModeFlashcard, today)}
	assert.Equal(t, only, Merge(nil, only))
	assert.Equal(t, only, Merge(only, nil))
}

func TestPrune(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	log := []domain.ReviewLogEntry{
		entry(id, "a", true, domain.ModeFlashcard, today.AddDays(-40)),
		entry(id, "a", true, domain.ModeFlashcard, today.AddDays(-30)),
		entry(id, "a", true, domain.ModeFlashcard, today.AddDays(-29)),
		entry(id, "a", true, domain.ModeFlashcard, today),
	}

	kept := Prune(log, 30, today)
	require.Len(t, kept, 3)
	assert.Equal(t, log[1].ID, kept[0].ID)

	assert.Len(t, Prune(log, 0, today), 4)
	assert.Len(t, Prune(log, -5, today), 4)
	assert.Len(t, log, 4)
}

// Package reviewlog holds the pure operations over the append-only log of
// grading events. Appending itself is a store concern.
package reviewlog

import (
	"slices"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
)

// Key identifies a review for reconciliation: at most one entry per card,
// mode and day survives a merge.
type Key struct {
	Date   string
	CardID uuid.UUID
	Mode   domain.Mode
}

// KeyOf returns the reconciliation key of an entry.
func KeyOf(e domain.ReviewLogEntry) Key {
	return Key{Date: e.Date.String(), CardID: e.CardID, Mode: e.Mode}
}

// Merge reconciles a local and a remote log. Entries sharing a Key are
// collapsed with the remote copy winning; the result is sorted by date,
// keeping the local-then-remote order among entries of the same day.
func Merge(local, remote []domain.ReviewLogEntry) []domain.ReviewLogEntry {
	index := make(map[Key]int, len(local)+len(remote))
	out := make([]domain.ReviewLogEntry, 0, len(local)+len(remote))

	add := func(e domain.ReviewLogEntry, overwrite bool) {
		k := KeyOf(e)
		if i, ok := index[k]; ok {
			if overwrite {
				out[i] = e
			}
			return
		}
		index[k] = len(out)
		out = append(out, e)
	}
	for _, e := range local {
		add(e, false)
	}
	for _, e := range remote {
		add(e, true)
	}

	slices.SortStableFunc(out, func(a, b domain.ReviewLogEntry) int {
		return a.Date.Time().Compare(b.Date.Time())
	})
	return out
}

// Prune drops entries dated before today-keepDays. A non-positive keepDays
// keeps the whole log.
func Prune(log []domain.ReviewLogEntry, keepDays int, today domain.Date) []domain.ReviewLogEntry {
	if keepDays <= 0 {
		return slices.Clone(log)
	}
	cutoff := Cutoff(keepDays, today)
	return lo.Filter(log, func(e domain.ReviewLogEntry, _ int) bool {
		return !e.Date.Before(cutoff)
	})
}

// Cutoff is the oldest day kept by a retention window of keepDays.
func Cutoff(keepDays int, today domain.Date) domain.Date {
	return today.AddDays(-keepDays)
}

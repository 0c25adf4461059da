// Package stats derives review statistics from the card collection and the
// review log. Everything here is a pure function of its inputs and "today".
package stats

import (
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
)

// Window sizes used by the snapshot
const (
	RecentDays    = 7
	ForecastDays  = 7
	AddedDays     = 30
	RetentionDays = 30
)

// DayTally is the review activity of one day.
type DayTally struct {
	Date     domain.Date `json:"date"`
	Total    int         `json:"total"`
	Correct  int         `json:"correct"`
	Accuracy float64     `json:"accuracy"`
}

// DayCount is a number of cards attached to one day.
type DayCount struct {
	Date  domain.Date `json:"date"`
	Count int         `json:"count"`
}

// Bucket is one bar of the interval histogram.
type Bucket struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"` // 0 means unbounded
	Count int    `json:"count"`
}

// Maturity partitions the card collection by learning stage.
type Maturity struct {
	New      int `json:"new"`
	Learning int `json:"learning"`
	Mature   int `json:"mature"`
}

// Snapshot is the full statistics view at one point in time.
type Snapshot struct {
	Date domain.Date `json:"date"`

	Streak        int        `json:"streak"`
	TodayCount    int        `json:"todayCount"`
	TodayAccuracy float64    `json:"todayAccuracy"`
	TotalReviews  int        `json:"totalReviews"`
	TotalAccuracy float64    `json:"totalAccuracy"`
	Last7         []DayTally `json:"last7"`

	TotalCards int        `json:"totalCards"`
	DueToday   int        `json:"dueToday"`
	FutureDue  int        `json:"futureDue"`
	Upcoming   []DayCount `json:"upcoming"`

	Maturity    Maturity   `json:"maturity"`
	Histogram   []Bucket   `json:"histogram"`
	AddedPerDay []DayCount `json:"addedPerDay"`

	// TrueRetention uses the maturity each card has now, so reviews taken
	// before a card matured are counted as mature reviews.
	TrueRetention float64 `json:"trueRetention"`
	// SnapshotRetention uses the maturity recorded with each review.
	SnapshotRetention float64 `json:"snapshotRetention"`
	RetentionReviews  int     `json:"retentionReviews"`
}

// histogramBounds are the fixed interval buckets. An interval of 0 belongs
// to the first bucket so that every card is counted exactly once.
var histogramBounds = []Bucket{
	{Label: "1", Min: 0, Max: 1},
	{Label: "2", Min: 2, Max: 2},
	{Label: "3", Min: 3, Max: 3},
	{Label: "4-7", Min: 4, Max: 7},
	{Label: "8-14", Min: 8, Max: 14},
	{Label: "15-30", Min: 15, Max: 30},
	{Label: "31-90", Min: 31, Max: 90},
	{Label: "91+", Min: 91},
}

// Aggregate computes a Snapshot relative to today.
func Aggregate(cards []domain.Card, log []domain.ReviewLogEntry, today domain.Date) Snapshot {
	byDay := tallyByDay(log)

	s := Snapshot{
		Date:       today,
		Streak:     Streak(byDay, today),
		TotalCards: len(cards),
	}

	todayTally := byDay[today.String()]
	s.TodayCount = todayTally.Total
	s.TodayAccuracy = ratio(todayTally.Correct, todayTally.Total)

	correct := lo.CountBy(log, func(e domain.ReviewLogEntry) bool { return e.Correct })
	s.TotalReviews = len(log)
	s.TotalAccuracy = ratio(correct, len(log))

	s.Last7 = make([]DayTally, 0, RecentDays)
	for i := RecentDays - 1; i >= 0; i-- {
		d := today.AddDays(-i)
		t := byDay[d.String()]
		s.Last7 = append(s.Last7, DayTally{
			Date:     d,
			Total:    t.Total,
			Correct:  t.Correct,
			Accuracy: ratio(t.Correct, t.Total),
		})
	}

	s.DueToday, s.FutureDue = dueSplit(cards, today)
	s.Upcoming = Upcoming(cards, today)
	s.Maturity = MaturityCounts(cards)
	s.Histogram = Histogram(cards)
	s.AddedPerDay = AddedPerDay(cards, today)
	s.TrueRetention, s.SnapshotRetention, s.RetentionReviews = Retention(cards, log, today)

	return s
}

// tallyByDay groups review counts by date string.
func tallyByDay(log []domain.ReviewLogEntry) map[string]DayTally {
	byDay := make(map[string]DayTally)
	for _, e := range log {
		k := e.Date.String()
		t := byDay[k]
		t.Total++
		if e.Correct {
			t.Correct++
		}
		byDay[k] = t
	}
	return byDay
}

// Streak counts consecutive days with at least one review, walking back
// from today and stopping at the first empty day.
func Streak(byDay map[string]DayTally, today domain.Date) int {
	if today.IsZero() {
		return 0
	}
	streak := 0
	for d := today; byDay[d.String()].Total > 0; d = d.AddDays(-1) {
		streak++
	}
	return streak
}

// dueSplit counts scheduled cards due on or before today and after today.
// Cards without a scheduled date are in neither count.
func dueSplit(cards []domain.Card, today domain.Date) (due, future int) {
	for _, c := range cards {
		switch {
		case c.NextReview.IsZero():
		case c.NextReview.After(today):
			future++
		default:
			due++
		}
	}
	return due, future
}

// Upcoming forecasts how many cards fall due on each of the next days,
// starting tomorrow.
func Upcoming(cards []domain.Card, today domain.Date) []DayCount {
	out := make([]DayCount, ForecastDays)
	for i := range out {
		out[i].Date = today.AddDays(i + 1)
	}
	for _, c := range cards {
		if c.NextReview.IsZero() {
			continue
		}
		if n := today.DaysUntil(c.NextReview); n >= 1 && n <= ForecastDays {
			out[n-1].Count++
		}
	}
	return out
}

// MaturityCounts partitions cards into new, learning and mature. A card
// without successful reps is new even when its interval is long.
func MaturityCounts(cards []domain.Card) Maturity {
	var m Maturity
	for _, c := range cards {
		switch {
		case c.IsNew():
			m.New++
		case c.IsMature():
			m.Mature++
		default:
			m.Learning++
		}
	}
	return m
}

// Histogram distributes cards over the fixed interval buckets.
func Histogram(cards []domain.Card) []Bucket {
	out := make([]Bucket, len(histogramBounds))
	copy(out, histogramBounds)
	for _, c := range cards {
		out[bucketIndex(c.Interval)].Count++
	}
	return out
}

func bucketIndex(interval int) int {
	for i, b := range histogramBounds {
		if b.Max == 0 || interval <= b.Max {
			return i
		}
	}
	return len(histogramBounds) - 1
}

// AddedPerDay counts cards created on each of the last AddedDays days,
// oldest first and ending today.
func AddedPerDay(cards []domain.Card, today domain.Date) []DayCount {
	out := make([]DayCount, AddedDays)
	first := today.AddDays(-(AddedDays - 1))
	for i := range out {
		out[i].Date = first.AddDays(i)
	}
	for _, c := range cards {
		if c.CreatedAt.IsZero() {
			continue
		}
		if n := first.DaysUntil(c.CreatedAt); n >= 0 && n < AddedDays {
			out[n].Count++
		}
	}
	return out
}

// Retention reports accuracy on mature cards over reviews dated within the
// last RetentionDays days. The first figure checks each card's current
// maturity; the second uses the maturity recorded with the review. The
// third value is the number of reviews in the window.
func Retention(
	cards []domain.Card,
	log []domain.ReviewLogEntry,
	today domain.Date,
) (current float64, snapshot float64, reviews int) {
	cutoff := today.AddDays(-RetentionDays)
	mature := make(map[uuid.UUID]bool)
	for _, c := range cards {
		if c.IsMature() {
			mature[c.ID] = true
		}
	}

	var curTotal, curCorrect, snapTotal, snapCorrect int
	for _, e := range log {
		if e.Date.Before(cutoff) {
			continue
		}
		reviews++
		if mature[e.CardID] {
			curTotal++
			if e.Correct {
				curCorrect++
			}
		}
		if e.MatureAtReview {
			snapTotal++
			if e.Correct {
				snapCorrect++
			}
		}
	}
	return ratio(curCorrect, curTotal), ratio(snapCorrect, snapTotal), reviews
}

func ratio(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}

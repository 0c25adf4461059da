package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain/reviewlog"
	"github.com/nadezdatsygankova/my-english-trainer/internal/service/review"
	"github.com/nadezdatsygankova/my-english-trainer/internal/store"
)

// Clock returns the current date in the learner's timezone.
type Clock func() domain.Date

// NewClock returns a Clock reading now in loc.
func NewClock(now func() time.Time, loc *time.Location) Clock {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return func() domain.Date { return domain.Today(now(), loc) }
}

// PruneReviewLogJob deletes review-log entries older than keepDays. A
// non-positive keepDays keeps the whole log and the job does nothing.
func PruneReviewLogJob(reviews store.ReviewLogStore, keepDays int, today Clock, logger *slog.Logger) Job {
	return Job{
		Name: "prune_review_log",
		Run: func(ctx context.Context) error {
			if keepDays <= 0 {
				return nil
			}
			cutoff := reviewlog.Cutoff(keepDays, today())
			removed, err := reviews.DeleteBefore(ctx, cutoff)
			if err != nil {
				return fmt.Errorf("failed to prune review log: %w", err)
			}
			logger.Info("review log pruned",
				slog.String("cutoff", cutoff.String()),
				slog.Int64("removed", removed))
			return nil
		},
	}
}

// ReportBacklogJob logs the due counts of every practice mode.
func ReportBacklogJob(reviews review.Service, logger *slog.Logger) Job {
	return Job{
		Name: "report_backlog",
		Run: func(ctx context.Context) error {
			for _, mode := range []domain.Mode{domain.ModeFlashcard, domain.ModeSpelling} {
				q, err := reviews.Queue(ctx, review.QueueRequest{Mode: mode})
				if err != nil {
					return fmt.Errorf("failed to load %s queue: %w", mode, err)
				}
				logger.Info("review backlog",
					slog.String("mode", string(mode)),
					slog.Int("due", q.Counts.DueAll),
					slog.Int("due_today", q.Counts.ReviewsDueToday),
					slog.Int("backlog", q.Counts.ReviewBacklog),
					slog.Int("new_today", q.Counts.NewToday))
			}
			return nil
		},
	}
}

package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain/queue"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain/reviewlog"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain/scoring"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain/srs"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain/stats"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain/throttle"
	"github.com/nadezdatsygankova/my-english-trainer/internal/platform/logger"
	"github.com/nadezdatsygankova/my-english-trainer/internal/store"
)

// Options tunes the review service.
type Options struct {
	Caps        domain.Caps
	EnforceCaps bool
	// Location decides where "today" starts. Defaults to time.Local.
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
	// CounterScope defaults to store.DefaultCounterScope.
	CounterScope string
	// RetentionDays bounds the log kept by SyncLog. Zero keeps everything.
	RetentionDays int
}

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	db        store.Transactor
	cards     store.CardStore
	reviews   store.ReviewLogStore
	counters  store.CountersStore
	scheduler srs.Scheduler
	opts      Options
	locks     *cardLocks
	logger    *slog.Logger
}

// NewService creates a new review Service.
func NewService(
	db store.Transactor,
	cards store.CardStore,
	reviews store.ReviewLogStore,
	counters store.CountersStore,
	scheduler srs.Scheduler,
	opts Options,
	logger *slog.Logger,
) Service {
	// ALLOW-PANIC: constructors enforce required dependencies
	if db == nil {
		panic("db cannot be nil")
	}
	if cards == nil {
		panic("cards cannot be nil")
	}
	if reviews == nil {
		panic("reviews cannot be nil")
	}
	if counters == nil {
		panic("counters cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}

	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CounterScope == "" {
		opts.CounterScope = store.DefaultCounterScope
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &serviceImpl{
		db:        db,
		cards:     cards,
		reviews:   reviews,
		counters:  counters,
		scheduler: scheduler,
		opts:      opts,
		locks:     newCardLocks(),
		logger:    logger.With(slog.String("component", "review_service")),
	}
}

func (s *serviceImpl) today() domain.Date {
	return domain.Today(s.opts.Now(), s.opts.Location)
}

// Queue implements Service.Queue.
func (s *serviceImpl) Queue(ctx context.Context, req QueueRequest) (*Queue, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := domain.ParseMode(string(req.Mode)); err != nil {
		return nil, err
	}
	today := s.today()

	cards, err := s.cards.List(ctx)
	if err != nil {
		log.Error("failed to load cards for queue", slog.String("error", err.Error()))
		return nil, NewServiceError("queue", "failed to load cards", err)
	}
	counters, err := s.counters.Get(ctx, s.opts.CounterScope)
	if err != nil {
		log.Error("failed to load daily counters", slog.String("error", err.Error()))
		return nil, NewServiceError("queue", "failed to load daily counters", err)
	}

	due, counts, restricted := s.dueList(cards, counters, req.Mode, req.Filters, today)

	previous := req.Filters
	if req.PreviousFilters != nil {
		previous = *req.PreviousFilters
	}
	cursor := queue.Cursor{Index: req.Cursor, Filters: previous}.WithFilters(req.Filters)
	if cursor.Index < 0 || cursor.Index >= len(due) {
		cursor = cursor.Reset()
	}

	q := &Queue{
		Date:       today,
		Mode:       req.Mode,
		Filters:    req.Filters,
		Cards:      due,
		Counts:     counts,
		Cursor:     cursor,
		Restricted: restricted,
	}
	if current, ok := cursor.Current(due); ok {
		q.Current = &current
	}

	log.Debug("built review queue",
		slog.String("mode", string(req.Mode)),
		slog.Int("due", len(due)),
		slog.Int("backlog", counts.ReviewBacklog),
		slog.Bool("restricted", restricted))
	return q, nil
}

// Grade implements Service.Grade.
func (s *serviceImpl) Grade(ctx context.Context, cardID uuid.UUID, req GradeRequest) (*GradeResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("card_id", cardID.String()),
		slog.String("mode", string(req.Mode)),
		slog.String("outcome", req.Outcome.String()))

	if _, err := domain.ParseMode(string(req.Mode)); err != nil {
		return nil, err
	}
	if g, graded := req.Outcome.Grade(); graded && !g.IsValid() {
		log.Warn("invalid review outcome")
		return nil, ErrInvalidOutcome
	}

	unlock := s.locks.lock(cardID)
	defer unlock()

	today := s.today()
	var result *GradeResult

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		cards := s.cards.WithTx(tx)

		card, err := cards.GetByID(ctx, cardID)
		if err != nil {
			return mapStoreError(err)
		}
		if req.Version != 0 && req.Version != card.Version {
			log.Info("grade rejected: stale version",
				slog.Int("client_version", req.Version),
				slog.Int("stored_version", card.Version))
			return ErrStaleVersion
		}
		if !card.InPool(req.Mode) {
			return ErrCardNotInPool
		}
		if !card.IsDue(today) {
			log.Info("grade rejected: card not due", slog.String("next_review", card.NextReview.String()))
			return ErrCardNotDue
		}

		counterStore := s.counters.WithTx(tx)
		counters, err := counterStore.Get(ctx, s.opts.CounterScope)
		if err != nil {
			return err
		}
		all, err := cards.List(ctx)
		if err != nil {
			return err
		}
		due, _, _ := s.dueList(all, counters, req.Mode, req.Filters, today)
		cursor := queue.Cursor{Index: req.Cursor, Filters: req.Filters}.Advance(len(due))

		before := *card
		next, err := s.scheduler.Advance(before, req.Outcome, today)
		if err != nil {
			return err
		}
		if err := cards.UpdateSchedule(ctx, &next, before.Version); err != nil {
			return mapStoreError(err)
		}

		entry := domain.NewReviewLogEntry(before, req.Outcome.WasCorrect(), req.Mode, today)
		if err := s.reviews.WithTx(tx).Append(ctx, entry); err != nil {
			return mapStoreError(err)
		}

		counters, err = throttle.Bump(counters, throttle.KindFor(before), today)
		if err != nil {
			return err
		}
		if err := counterStore.Save(ctx, s.opts.CounterScope, counters); err != nil {
			return err
		}

		result = &GradeResult{Card: next, Entry: entry, Counters: counters, Cursor: cursor}
		return nil
	})
	if err != nil {
		if isExpected(err) {
			return nil, err
		}
		log.Error("failed to grade card", slog.String("error", err.Error()))
		return nil, NewServiceError("grade", "failed to grade card", err)
	}

	log.Debug("card graded",
		slog.Int("interval", result.Card.Interval),
		slog.Float64("ease", result.Card.Ease),
		slog.String("next_review", result.Card.NextReview.String()))
	return result, nil
}

// CheckSpelling implements Service.CheckSpelling.
func (s *serviceImpl) CheckSpelling(
	ctx context.Context,
	cardID uuid.UUID,
	req SpellingRequest,
) (*SpellingResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("card_id", cardID.String()))

	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		mapped := mapStoreError(err)
		if isExpected(mapped) {
			return nil, mapped
		}
		log.Error("failed to load card for spelling", slog.String("error", err.Error()))
		return nil, NewServiceError("check_spelling", "failed to load card", err)
	}
	if !card.InPool(domain.ModeSpelling) {
		return nil, ErrCardNotInPool
	}

	feedback := scoring.Check(req.Guess, card.Word)
	result := &SpellingResult{Feedback: feedback, Target: card.Word}

	if outcome, ok := feedback.Verdict.AutoGrade(); ok {
		graded, err := s.Grade(ctx, cardID, GradeRequest{
			Mode:    domain.ModeSpelling,
			Outcome: outcome,
			Version: req.Version,
			Filters: req.Filters,
			Cursor:  req.Cursor,
		})
		if err != nil {
			return nil, err
		}
		result.Graded = graded
	}

	log.Debug("spelling checked",
		slog.String("verdict", string(feedback.Verdict)),
		slog.Int("distance", feedback.Distance))
	return result, nil
}

// Stats implements Service.Stats.
func (s *serviceImpl) Stats(ctx context.Context) (*stats.Snapshot, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cards, err := s.cards.List(ctx)
	if err != nil {
		log.Error("failed to load cards for stats", slog.String("error", err.Error()))
		return nil, NewServiceError("stats", "failed to load cards", err)
	}
	entries, err := s.reviews.List(ctx)
	if err != nil {
		log.Error("failed to load review log for stats", slog.String("error", err.Error()))
		return nil, NewServiceError("stats", "failed to load review log", err)
	}

	snapshot := stats.Aggregate(cards, entries, s.today())
	return &snapshot, nil
}

// History implements Service.History.
func (s *serviceImpl) History(ctx context.Context, cardID uuid.UUID) ([]domain.ReviewLogEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("card_id", cardID.String()))

	if _, err := s.cards.GetByID(ctx, cardID); err != nil {
		mapped := mapStoreError(err)
		if isExpected(mapped) {
			return nil, mapped
		}
		log.Error("failed to load card for history", slog.String("error", err.Error()))
		return nil, NewServiceError("history", "failed to load card", err)
	}

	entries, err := s.reviews.ListForCard(ctx, cardID)
	if err != nil {
		log.Error("failed to load card history", slog.String("error", err.Error()))
		return nil, NewServiceError("history", "failed to load review log", err)
	}
	return entries, nil
}

// Log implements Service.Log.
func (s *serviceImpl) Log(ctx context.Context, since domain.Date) ([]domain.ReviewLogEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		entries []domain.ReviewLogEntry
		err     error
	)
	if since.IsZero() {
		entries, err = s.reviews.List(ctx)
	} else {
		entries, err = s.reviews.ListSince(ctx, since)
	}
	if err != nil {
		log.Error("failed to load review log", slog.String("error", err.Error()))
		return nil, NewServiceError("log", "failed to load review log", err)
	}
	return entries, nil
}

// SyncLog implements Service.SyncLog.
func (s *serviceImpl) SyncLog(ctx context.Context, remote []domain.ReviewLogEntry) (*SyncResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for i, e := range remote {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrInvalidLogEntry, i, err)
		}
	}

	today := s.today()
	var result *SyncResult

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		cards, err := s.cards.WithTx(tx).List(ctx)
		if err != nil {
			return err
		}
		known := make(map[uuid.UUID]struct{}, len(cards))
		for _, c := range cards {
			known[c.ID] = struct{}{}
		}

		accepted := make([]domain.ReviewLogEntry, 0, len(remote))
		for _, e := range remote {
			if _, ok := known[e.CardID]; !ok {
				continue
			}
			if e.ID == uuid.Nil {
				e.ID = uuid.New()
			}
			accepted = append(accepted, e)
		}

		reviews := s.reviews.WithTx(tx)
		stored, err := reviews.List(ctx)
		if err != nil {
			return err
		}

		// IDs are the primary key; an ID seen under two keys keeps its
		// earliest copy.
		merged := lo.UniqBy(reviewlog.Merge(stored, accepted), func(e domain.ReviewLogEntry) uuid.UUID {
			return e.ID
		})
		kept := reviewlog.Prune(merged, s.opts.RetentionDays, today)
		if err := reviews.Replace(ctx, kept); err != nil {
			return mapStoreError(err)
		}

		result = &SyncResult{
			Entries: kept,
			Skipped: len(remote) - len(accepted),
			Pruned:  len(merged) - len(kept),
		}
		return nil
	})
	if err != nil {
		if isExpected(err) {
			return nil, err
		}
		log.Error("failed to sync review log", slog.String("error", err.Error()))
		return nil, NewServiceError("sync_log", "failed to sync review log", err)
	}

	log.Info("review log synced",
		slog.Int("uploaded", len(remote)),
		slog.Int("entries", len(result.Entries)),
		slog.Int("skipped", result.Skipped),
		slog.Int("pruned", result.Pruned))
	return result, nil
}

// dueList builds the due list for a mode and filter set, trimmed by the
// remaining daily budget when caps are enforced.
func (s *serviceImpl) dueList(
	cards []domain.Card,
	counters domain.DailyCounters,
	mode domain.Mode,
	filters queue.Filters,
	today domain.Date,
) ([]domain.Card, throttle.Counts, bool) {
	pool := queue.Pool(cards, mode, filters)
	counts := throttle.GetCounts(pool, counters, s.opts.Caps, today)
	due := queue.DueCards(cards, mode, filters, today)
	if !s.opts.EnforceCaps {
		return due, counts, false
	}
	limited := queue.Restrict(due, counts)
	return limited, counts, len(limited) < len(due)
}

// mapStoreError translates store sentinels into service sentinels.
func mapStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrCardNotFound):
		return ErrCardNotFound
	case errors.Is(err, store.ErrStaleVersion):
		return ErrStaleVersion
	default:
		return err
	}
}

// isExpected reports whether err is a sentinel callers are meant to handle.
func isExpected(err error) bool {
	return errors.Is(err, ErrCardNotFound) ||
		errors.Is(err, ErrCardNotDue) ||
		errors.Is(err, ErrCardNotInPool) ||
		errors.Is(err, ErrStaleVersion) ||
		errors.Is(err, ErrInvalidOutcome) ||
		errors.Is(err, ErrInvalidLogEntry) ||
		errors.Is(err, domain.ErrInvalidMode)
}

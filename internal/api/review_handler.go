package api

import (
	"log/slog"
	"net/http"

	"github.com/nadezdatsygankova/my-english-trainer/internal/api/shared"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
	"github.com/nadezdatsygankova/my-english-trainer/internal/platform/logger"
	"github.com/nadezdatsygankova/my-english-trainer/internal/service/review"
)

// ReviewHandler handles practice-session HTTP requests
type ReviewHandler struct {
	reviewService review.Service
	logger        *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService review.Service, logger *slog.Logger) *ReviewHandler {
	if reviewService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("reviewService cannot be nil for ReviewHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReviewHandler")
	}

	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger.With(slog.String("component", "review_handler")),
	}
}

// GetQueue handles GET /review/queue requests.
// Query parameters: mode (flashcard|spelling), category, difficulty, cursor,
// and prevCategory/prevDifficulty naming the filters cursor was taken under.
func (h *ReviewHandler) GetQueue(w http.ResponseWriter, r *http.Request) {
	mode, err := modeFromQuery(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	cursor, err := intFromQuery(r, "cursor")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	q, err := h.reviewService.Queue(r.Context(), review.QueueRequest{
		Mode:            mode,
		Filters:         filtersFromQuery(r),
		Cursor:          cursor,
		PreviousFilters: previousFiltersFromQuery(r),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build review queue")
		return
	}
	if q.Cards == nil {
		q.Cards = []domain.Card{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, q)
}

// GradeCard handles POST /review/{id}/grade requests.
// It applies the answer to the card schedule and records it in the review log.
func (h *ReviewHandler) GradeCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req GradeRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	outcome := req.outcome()
	res, err := h.reviewService.Grade(r.Context(), cardID, review.GradeRequest{
		Mode:    domain.Mode(req.Mode),
		Outcome: outcome,
		Version: req.Version,
		Filters: queueFilters(req.Category, req.Difficulty),
		Cursor:  req.Cursor,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit answer")
		return
	}

	log.Debug("card graded",
		slog.String("card_id", cardID.String()),
		slog.String("mode", req.Mode),
		slog.String("outcome", outcome.String()),
		slog.String("next_review", res.Card.NextReview.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, res)
}

// CheckSpelling handles POST /review/{id}/spelling requests.
// A perfect answer is graded as a correct spelling review; other answers
// only return feedback.
func (h *ReviewHandler) CheckSpelling(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req SpellingRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	res, err := h.reviewService.CheckSpelling(r.Context(), cardID, review.SpellingRequest{
		Guess:   req.Guess,
		Version: req.Version,
		Filters: queueFilters(req.Category, req.Difficulty),
		Cursor:  req.Cursor,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to check answer")
		return
	}

	log.Debug("spelling checked",
		slog.String("card_id", cardID.String()),
		slog.String("verdict", string(res.Feedback.Verdict)),
		slog.Bool("graded", res.Graded != nil))
	shared.RespondWithJSON(w, r, http.StatusOK, res)
}

// GetStats handles GET /stats requests.
func (h *ReviewHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	snap, err := h.reviewService.Stats(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute statistics")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, snap)
}

// CardHistory handles GET /cards/{id}/history requests.
func (h *ReviewHandler) CardHistory(w http.ResponseWriter, r *http.Request) {
	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	entries, err := h.reviewService.History(r.Context(), cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load card history")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newReviewLogResponse(entries))
}

// GetLog handles GET /review/log requests.
// Query parameters: since (YYYY-MM-DD, optional).
func (h *ReviewHandler) GetLog(w http.ResponseWriter, r *http.Request) {
	since, err := dateFromQuery(r, "since")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	entries, err := h.reviewService.Log(r.Context(), since)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load review log")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newReviewLogResponse(entries))
}

// SyncLog handles POST /review/log/sync requests.
// The uploaded entries win over stored entries for the same day, card and
// mode; the merged log is returned.
func (h *ReviewHandler) SyncLog(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req SyncLogRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	res, err := h.reviewService.SyncLog(r.Context(), req.Entries)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to sync review log")
		return
	}
	if res.Entries == nil {
		res.Entries = []domain.ReviewLogEntry{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, res)
}

func newReviewLogResponse(entries []domain.ReviewLogEntry) ReviewLogResponse {
	if entries == nil {
		entries = []domain.ReviewLogEntry{}
	}
	return ReviewLogResponse{Entries: entries}
}

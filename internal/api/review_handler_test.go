package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain/queue"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain/scoring"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain/stats"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain/throttle"
	"github.com/nadezdatsygankova/my-english-trainer/internal/mocks"
	"github.com/nadezdatsygankova/my-english-trainer/internal/service/review"
)

func TestGetQueue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantReq    review.QueueRequest
	}{
		{
			name:       "defaults",
			query:      "",
			wantStatus: http.StatusOK,
			wantReq: review.QueueRequest{
				Mode:    domain.ModeFlashcard,
				Filters: queue.Filters{Category: queue.FilterAll, Difficulty: queue.FilterAll},
			},
		},
		{
			name:       "spelling with filters and cursor",
			query:      "?mode=spelling&category=verb&difficulty=hard&cursor=2",
			wantStatus: http.StatusOK,
			wantReq: review.QueueRequest{
				Mode:    domain.ModeSpelling,
				Filters: queue.Filters{Category: "verb", Difficulty: "hard"},
				Cursor:  2,
			},
		},
		{
			name:       "filters changed since the cursor",
			query:      "?category=verb&cursor=3&prevCategory=noun",
			wantStatus: http.StatusOK,
			wantReq: review.QueueRequest{
				Mode:            domain.ModeFlashcard,
				Filters:         queue.Filters{Category: "verb", Difficulty: queue.FilterAll},
				Cursor:          3,
				PreviousFilters: &queue.Filters{Category: "noun", Difficulty: queue.FilterAll},
			},
		},
		{name: "unknown mode", query: "?mode=listening", wantStatus: http.StatusBadRequest},
		{name: "bad cursor", query: "?cursor=-1", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got review.QueueRequest
			reviews := &mocks.MockReviewService{
				QueueFn: func(_ context.Context, req review.QueueRequest) (*review.Queue, error) {
					got = req
					return &review.Queue{
						Date:   testToday,
						Mode:   req.Mode,
						Counts: throttle.Counts{DueAll: 5, ReviewsDueToday: 3, ReviewBacklog: 2},
					}, nil
				},
			}

			w := doRequest(t, newRouter(nil, reviews), http.MethodGet, "/api/review/queue"+tt.query, nil)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			assert.Equal(t, tt.wantReq, got)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "2024-03-10", body["date"])
			assert.Equal(t, []interface{}{}, body["cards"])
			counts := body["counts"].(map[string]interface{})
			assert.EqualValues(t, 2, counts["reviewBacklog"])
		})
	}
}

func TestGradeCard(t *testing.T) {
	t.Parallel()

	cardID := uuid.New()
	tests := []struct {
		name        string
		body        interface{}
		serviceErr  error
		wantStatus  int
		wantError   string
		wantOutcome domain.Outcome
	}{
		{
			name:        "four-level grade",
			body:        map[string]interface{}{"mode": "flashcard", "outcome": "good", "version": 2},
			wantStatus:  http.StatusOK,
			wantOutcome: domain.Graded(domain.GradeGood),
		},
		{
			name:        "binary answer",
			body:        map[string]interface{}{"mode": "spelling", "correct": false},
			wantStatus:  http.StatusOK,
			wantOutcome: domain.Correct(false),
		},
		{
			name:       "both answer forms",
			body:       map[string]interface{}{"mode": "flashcard", "outcome": "good", "correct": true},
			wantStatus: http.StatusBadRequest,
			wantError:  "Validation error",
		},
		{
			name:       "no answer",
			body:       map[string]interface{}{"mode": "flashcard"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Validation error",
		},
		{
			name:       "unknown grade",
			body:       map[string]interface{}{"mode": "flashcard", "outcome": "perfect"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid outcome: invalid value",
		},
		{
			name:       "missing mode",
			body:       map[string]interface{}{"outcome": "good"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid mode: required field",
		},
		{
			name:       "not due",
			body:       map[string]interface{}{"mode": "flashcard", "outcome": "easy"},
			serviceErr: review.ErrCardNotDue,
			wantStatus: http.StatusConflict,
			wantError:  "Card is not due for review",
		},
		{
			name:       "stale",
			body:       map[string]interface{}{"mode": "flashcard", "outcome": "easy", "version": 1},
			serviceErr: review.ErrStaleVersion,
			wantStatus: http.StatusConflict,
			wantError:  "Card was modified, reload it and try again",
		},
		{
			name:       "not in pool",
			body:       map[string]interface{}{"mode": "spelling", "correct": true},
			serviceErr: review.ErrCardNotInPool,
			wantStatus: http.StatusConflict,
			wantError:  "Card is not enabled for this practice mode",
		},
		{
			name:       "missing card",
			body:       map[string]interface{}{"mode": "flashcard", "correct": true},
			serviceErr: review.ErrCardNotFound,
			wantStatus: http.StatusNotFound,
			wantError:  "Card not found",
		},
		{
			name:       "transaction failure",
			body:       map[string]interface{}{"mode": "flashcard", "correct": true},
			serviceErr: review.NewServiceError("grade", "failed to apply grade", errors.New("database is locked")),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to submit answer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got review.GradeRequest
			reviews := &mocks.MockReviewService{
				GradeFn: func(_ context.Context, id uuid.UUID, req review.GradeRequest) (*review.GradeResult, error) {
					got = req
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &review.GradeResult{
						Card: domain.Card{ID: id, Word: "harbour", NextReview: testToday.AddDays(1)},
					}, nil
				},
			}

			w := doRequest(t, newRouter(nil, reviews), http.MethodPost, "/api/review/"+cardID.String()+"/grade", tt.body)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeError(t, w).Error)
				return
			}
			assert.Equal(t, tt.wantOutcome, got.Outcome)

			var res review.GradeResult
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
			assert.Equal(t, cardID, res.Card.ID)
			assert.Equal(t, domain.NewDate(2024, 3, 11), res.Card.NextReview)
		})
	}
}

func TestGradeCardPassesRequestFields(t *testing.T) {
	t.Parallel()

	reviews := &mocks.MockReviewService{}
	cardID := uuid.New()

	var got review.GradeRequest
	reviews.GradeFn = func(_ context.Context, _ uuid.UUID, req review.GradeRequest) (*review.GradeResult, error) {
		got = req
		return &review.GradeResult{}, nil
	}

	w := doRequest(t, newRouter(nil, reviews), http.MethodPost, "/api/review/"+cardID.String()+"/grade",
		map[string]interface{}{"mode": "spelling", "outcome": "hard", "version": 7, "cursor": 4, "category": "verb"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.ModeSpelling, got.Mode)
	assert.Equal(t, 7, got.Version)
	assert.Equal(t, 4, got.Cursor)
	assert.Equal(t, queue.Filters{Category: "verb", Difficulty: queue.FilterAll}, got.Filters)
	assert.Equal(t, []uuid.UUID{cardID}, reviews.Calls)
}

func TestCheckSpelling(t *testing.T) {
	t.Parallel()

	t.Run("perfect answer is graded", func(t *testing.T) {
		t.Parallel()

		var got review.SpellingRequest
		reviews := &mocks.MockReviewService{
			CheckSpellingFn: func(_ context.Context, _ uuid.UUID, req review.SpellingRequest) (*review.SpellingResult, error) {
				got = req
				return &review.SpellingResult{
					Feedback: scoring.Check(req.Guess, "harbour"),
					Target:   "harbour",
					Graded:   &review.GradeResult{},
				}, nil
			},
		}

		w := doRequest(t, newRouter(nil, reviews), http.MethodPost, "/api/review/"+uuid.NewString()+"/spelling",
			map[string]interface{}{"guess": " harbour ", "version": 1, "cursor": 2})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, review.SpellingRequest{
			Guess:   " harbour ",
			Version: 1,
			Filters: queue.Filters{Category: queue.FilterAll, Difficulty: queue.FilterAll},
			Cursor:  2,
		}, got)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "perfect", body["feedback"].(map[string]interface{})["verdict"])
		assert.Contains(t, body, "graded")
	})

	t.Run("near miss returns feedback only", func(t *testing.T) {
		t.Parallel()

		reviews := &mocks.MockReviewService{
			CheckSpellingFn: func(_ context.Context, _ uuid.UUID, req review.SpellingRequest) (*review.SpellingResult, error) {
				return &review.SpellingResult{Feedback: scoring.Check(req.Guess, "harbour"), Target: "harbour"}, nil
			},
		}

		w := doRequest(t, newRouter(nil, reviews), http.MethodPost, "/api/review/"+uuid.NewString()+"/spelling",
			map[string]interface{}{"guess": "harbor"})

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		feedback := body["feedback"].(map[string]interface{})
		assert.Equal(t, "close", feedback["verdict"])
		assert.EqualValues(t, 1, feedback["distance"])
		assert.NotContains(t, body, "graded")
	})

	t.Run("invalid id", func(t *testing.T) {
		t.Parallel()

		reviews := &mocks.MockReviewService{}
		w := doRequest(t, newRouter(nil, reviews), http.MethodPost, "/api/review/abc/spelling",
			map[string]interface{}{"guess": "harbour"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, reviews.Calls)
	})
}

func TestGetStats(t *testing.T) {
	t.Parallel()

	reviews := &mocks.MockReviewService{
		StatsFn: func(context.Context) (*stats.Snapshot, error) {
			return &stats.Snapshot{Date: testToday, Streak: 4, TotalCards: 12, DueToday: 3}, nil
		},
	}

	w := doRequest(t, newRouter(nil, reviews), http.MethodGet, "/api/stats", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 4, body["streak"])
	assert.EqualValues(t, 12, body["totalCards"])
	assert.EqualValues(t, 3, body["dueToday"])
}

func TestGetStatsFailure(t *testing.T) {
	t.Parallel()

	reviews := &mocks.MockReviewService{
		StatsFn: func(context.Context) (*stats.Snapshot, error) {
			return nil, review.NewServiceError("stats", "failed to load review log", errors.New("timeout"))
		},
	}

	w := doRequest(t, newRouter(nil, reviews), http.MethodGet, "/api/stats", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to compute statistics", decodeError(t, w).Error)
}

func TestCardHistory(t *testing.T) {
	t.Parallel()

	cardID := uuid.New()
	entry := domain.ReviewLogEntry{
		ID: uuid.New(), CardID: cardID, Word: "harbour", Correct: true, Mode: domain.ModeFlashcard, Date: testToday,
	}

	tests := []struct {
		name       string
		path       string
		serviceErr error
		entries    []domain.ReviewLogEntry
		wantStatus int
		wantLen    int
	}{
		{name: "entries", path: cardID.String(), entries: []domain.ReviewLogEntry{entry}, wantStatus: http.StatusOK, wantLen: 1},
		{name: "no reviews yet", path: cardID.String(), wantStatus: http.StatusOK},
		{name: "missing card", path: cardID.String(), serviceErr: review.ErrCardNotFound, wantStatus: http.StatusNotFound},
		{name: "invalid id", path: "abc", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reviews := &mocks.MockReviewService{
				HistoryFn: func(_ context.Context, id uuid.UUID) ([]domain.ReviewLogEntry, error) {
					assert.Equal(t, cardID, id)
					return tt.entries, tt.serviceErr
				},
			}

			w := doRequest(t, newRouter(nil, reviews), http.MethodGet, "/api/cards/"+tt.path+"/history", nil)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}
			var body struct {
				Entries []domain.ReviewLogEntry `json:"entries"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotNil(t, body.Entries)
			assert.Len(t, body.Entries, tt.wantLen)
		})
	}
}

func TestGetLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantSince  domain.Date
	}{
		{name: "whole log", query: "", wantStatus: http.StatusOK},
		{name: "since a day", query: "?since=2024-03-01", wantStatus: http.StatusOK, wantSince: domain.NewDate(2024, 3, 1)},
		{name: "malformed day", query: "?since=03/01/2024", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false
			reviews := &mocks.MockReviewService{
				LogFn: func(_ context.Context, since domain.Date) ([]domain.ReviewLogEntry, error) {
					called = true
					assert.Equal(t, tt.wantSince, since)
					return nil, nil
				},
			}

			w := doRequest(t, newRouter(nil, reviews), http.MethodGet, "/api/review/log"+tt.query, nil)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantStatus == http.StatusOK, called)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"entries":[]}`, w.Body.String())
			}
		})
	}
}

func TestSyncLog(t *testing.T) {
	t.Parallel()

	cardID := uuid.New()
	uploaded := domain.ReviewLogEntry{
		ID: uuid.New(), CardID: cardID, Word: "harbour", Correct: true, Mode: domain.ModeSpelling, Date: testToday,
	}

	t.Run("returns the merged log", func(t *testing.T) {
		t.Parallel()

		var got []domain.ReviewLogEntry
		reviews := &mocks.MockReviewService{
			SyncLogFn: func(_ context.Context, remote []domain.ReviewLogEntry) (*review.SyncResult, error) {
				got = remote
				return &review.SyncResult{Entries: remote, Skipped: 1}, nil
			},
		}

		w := doRequest(t, newRouter(nil, reviews), http.MethodPost, "/api/review/log/sync",
			map[string]interface{}{"entries": []domain.ReviewLogEntry{uploaded}})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.Len(t, got, 1)
		assert.Equal(t, uploaded.ID, got[0].ID)
		assert.Equal(t, testToday, got[0].Date)

		var res review.SyncResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Len(t, res.Entries, 1)
		assert.Equal(t, 1, res.Skipped)
	})

	t.Run("malformed entry", func(t *testing.T) {
		t.Parallel()

		reviews := &mocks.MockReviewService{
			SyncLogFn: func(context.Context, []domain.ReviewLogEntry) (*review.SyncResult, error) {
				return nil, fmt.Errorf("%w: entry 0: %w", review.ErrInvalidLogEntry, domain.ErrInvalidMode)
			},
		}

		w := doRequest(t, newRouter(nil, reviews), http.MethodPost, "/api/review/log/sync",
			map[string]interface{}{"entries": []domain.ReviewLogEntry{uploaded}})

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid review log entry", decodeError(t, w).Error)
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()

		reviews := &mocks.MockReviewService{}
		w := doRequest(t, newRouter(nil, reviews), http.MethodPost, "/api/review/log/sync", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

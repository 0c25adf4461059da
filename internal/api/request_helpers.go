package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain/queue"
)

// getPathUUID extracts a UUID from the URL path parameters.
//
// Returns:
//   - (uuid.UUID, nil): The parsed UUID if valid
//   - (uuid.Nil, error): wrapping domain.ErrValidation when the parameter is
//     missing, domain.ErrInvalidID when it is malformed
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", domain.ErrValidation, paramName)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s has invalid format", domain.ErrInvalidID, paramName)
	}
	return id, nil
}

// filtersFromQuery reads the category and difficulty query parameters.
// Missing parameters match everything.
func filtersFromQuery(r *http.Request) queue.Filters {
	q := r.URL.Query()
	return queueFilters(q.Get("category"), q.Get("difficulty"))
}

// previousFiltersFromQuery reads prevCategory and prevDifficulty, the
// filters the cursor parameter was taken under. It returns nil when neither
// is present.
func previousFiltersFromQuery(r *http.Request) *queue.Filters {
	q := r.URL.Query()
	if !q.Has("prevCategory") && !q.Has("prevDifficulty") {
		return nil
	}
	f := queueFilters(q.Get("prevCategory"), q.Get("prevDifficulty"))
	return &f
}

// dateFromQuery reads an optional YYYY-MM-DD query parameter.
func dateFromQuery(r *http.Request, name string) (domain.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return domain.Date{}, nil
	}
	return domain.ParseDate(raw)
}

func queueFilters(category, difficulty string) queue.Filters {
	f := queue.Filters{Category: category, Difficulty: difficulty}
	if f.Category == "" {
		f.Category = queue.FilterAll
	}
	if f.Difficulty == "" {
		f.Difficulty = queue.FilterAll
	}
	return f
}

// modeFromQuery reads the practice mode, defaulting to flashcards.
func modeFromQuery(r *http.Request) (domain.Mode, error) {
	raw := r.URL.Query().Get("mode")
	if raw == "" {
		return domain.ModeFlashcard, nil
	}
	return domain.ParseMode(raw)
}

// intFromQuery reads a non-negative integer query parameter.
func intFromQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrValidation, name)
	}
	return n, nil
}

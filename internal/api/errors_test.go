package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nadezdatsygankova/my-english-trainer/internal/api/shared"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain/srs"
	"github.com/nadezdatsygankova/my-english-trainer/internal/service"
	"github.com/nadezdatsygankova/my-english-trainer/internal/service/review"
	"github.com/nadezdatsygankova/my-english-trainer/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"card service not found", service.ErrCardNotFound, http.StatusNotFound},
		{"review not found", review.ErrCardNotFound, http.StatusNotFound},
		{"store not found", fmt.Errorf("lookup: %w", store.ErrCardNotFound), http.StatusNotFound},
		{"duplicate", service.ErrCardExists, http.StatusConflict},
		{"stale edit", service.ErrStaleVersion, http.StatusConflict},
		{"stale grade", review.ErrStaleVersion, http.StatusConflict},
		{"not due", review.ErrCardNotDue, http.StatusConflict},
		{"not in pool", review.ErrCardNotInPool, http.StatusConflict},
		{"import record", &service.ImportError{Index: 2, Err: domain.ErrCardWordEmpty}, http.StatusBadRequest},
		{"empty import", service.ErrEmptyImport, http.StatusBadRequest},
		{"empty body", shared.ErrEmptyBody, http.StatusBadRequest},
		{"invalid mode", fmt.Errorf("%w: %q", domain.ErrInvalidMode, "x"), http.StatusBadRequest},
		{"invalid outcome", domain.ErrInvalidOutcome, http.StatusBadRequest},
		{"invalid date", domain.ErrInvalidDate, http.StatusBadRequest},
		{"invalid days", srs.ErrInvalidDays, http.StatusBadRequest},
		{
			"invalid uploaded log entry",
			fmt.Errorf("%w: entry 3: %w", review.ErrInvalidLogEntry, domain.ErrInvalidMode),
			http.StatusBadRequest,
		},
		{"wrapped unknown", service.NewCardServiceError("add_card", "failed", errors.New("boom")), http.StatusInternalServerError},
		{"plain unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "An unexpected error occurred"},
		{"not found", review.ErrCardNotFound, "Card not found"},
		{"not due", review.ErrCardNotDue, "Card is not due for review"},
		{
			"import duplicate",
			&service.ImportError{Index: 1, Err: fmt.Errorf("%w: same id as record 0", service.ErrCardExists)},
			"Invalid card at index 1: Card already exists",
		},
		{"validation", fmt.Errorf("%w: bad", domain.ErrValidation), "Validation error"},
		{
			"uploaded log entry",
			fmt.Errorf("%w: entry 0: %w", review.ErrInvalidLogEntry, domain.ErrInvalidDate),
			"Invalid review log entry",
		},
		{"internal details hidden", errors.New("pq: relation \"cards\" does not exist"), "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := shared.ValidateRequest(&CardRequest{Word: "harbour", ImageURL: "not a url"})
	assert.Equal(t, "Invalid imageUrl: invalid URL", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}

func TestHandleAPIErrorFallback(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/api/cards", nil)

	w := httptest.NewRecorder()
	HandleAPIError(w, req, errors.New("boom"), "Failed to create card")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to create card")

	// the fallback only replaces the generic 5xx message
	w = httptest.NewRecorder()
	HandleAPIError(w, req, service.ErrCardNotFound, "Failed to create card")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Card not found")
}

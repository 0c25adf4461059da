package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain/queue"
)

func requestWithParam(target, name, value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rctx := chi.NewRouteContext()
	if name != "" {
		rctx.URLParams.Add(name, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestGetPathUUID(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	got, err := getPathUUID(requestWithParam("/cards/x", "id", id.String()), "id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = getPathUUID(requestWithParam("/cards/x", "id", "nope"), "id")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = getPathUUID(requestWithParam("/cards/x", "", ""), "id")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestQueryHelpers(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/review/queue?mode=spelling&difficulty=hard&cursor=4", nil)

	mode, err := modeFromQuery(req)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeSpelling, mode)
	assert.Equal(t, queue.Filters{Category: queue.FilterAll, Difficulty: "hard"}, filtersFromQuery(req))

	n, err := intFromQuery(req, "cursor")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = intFromQuery(req, "missing")
	require.NoError(t, err)
	assert.Zero(t, n)

	bad := httptest.NewRequest(http.MethodGet, "/review/queue?mode=audio&cursor=x", nil)
	_, err = modeFromQuery(bad)
	assert.ErrorIs(t, err, domain.ErrInvalidMode)
	_, err = intFromQuery(bad, "cursor")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

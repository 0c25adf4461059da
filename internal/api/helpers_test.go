package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/nadezdatsygankova/my-english-trainer/internal/api"
	"github.com/nadezdatsygankova/my-english-trainer/internal/api/shared"
	"github.com/nadezdatsygankova/my-english-trainer/internal/mocks"
)

func newRouter(cards *mocks.MockCardService, reviews *mocks.MockReviewService) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if cards == nil {
		cards = &mocks.MockCardService{}
	}
	if reviews == nil {
		reviews = &mocks.MockReviewService{}
	}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		api.RegisterRoutes(r, api.NewCardHandler(cards, log), api.NewReviewHandler(reviews, log))
	})
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/nadezdatsygankova/my-english-trainer/internal/api/shared"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
	"github.com/nadezdatsygankova/my-english-trainer/internal/platform/logger"
	"github.com/nadezdatsygankova/my-english-trainer/internal/redact"
	"github.com/nadezdatsygankova/my-english-trainer/internal/service"
)

// CardHandler handles card management HTTP requests
type CardHandler struct {
	cardService service.CardService
	logger      *slog.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cardService service.CardService, logger *slog.Logger) *CardHandler {
	if cardService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cardService cannot be nil for CardHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardHandler")
	}

	return &CardHandler{
		cardService: cardService,
		logger:      logger.With(slog.String("component", "card_handler")),
	}
}

// ListCards handles GET /cards requests.
// Optional category and difficulty query parameters narrow the list.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.cardService.ListCards(r.Context(), filtersFromQuery(r))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list cards")
		return
	}
	if cards == nil {
		cards = []domain.Card{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

// CreateCard handles POST /cards requests.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CardRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	card, err := h.cardService.AddCard(r.Context(), req.content())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create card")
		return
	}

	log.Debug("card created", slog.String("card_id", card.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

// GetCard handles GET /cards/{id} requests.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	card, err := h.cardService.GetCard(r.Context(), cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// EditCard handles PUT /cards/{id} requests.
// It replaces the card content; scheduling state is untouched.
func (h *CardHandler) EditCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req CardRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	card, err := h.cardService.UpdateCard(r.Context(), cardID, req.content(), req.Version)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update card")
		return
	}

	log.Debug("card updated",
		slog.String("card_id", cardID.String()),
		slog.Int("version", card.Version))
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// DeleteCard handles DELETE /cards/{id} requests.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.cardService.DeleteCard(r.Context(), cardID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete card")
		return
	}
	shared.RespondNoContent(w)
}

// PostponeCard handles POST /cards/{id}/postpone requests.
func (h *CardHandler) PostponeCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req PostponeRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	card, err := h.cardService.PostponeCard(r.Context(), cardID, req.Days, req.Version)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to postpone card")
		return
	}

	log.Debug("card postponed",
		slog.String("card_id", cardID.String()),
		slog.String("next_review", card.NextReview.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// ImportCards handles POST /cards/import requests. The body is either
// {"cards": [...]} or a bare array of card records.
func (h *CardHandler) ImportCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ImportRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, shared.MaxBodyBytes))
	if err == nil {
		err = decodeImport(body, &req)
	}
	if err != nil {
		log.Warn("invalid import payload", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	res, err := h.cardService.ImportCards(r.Context(), req.Cards)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to import cards")
		return
	}

	log.Info("cards imported", slog.Int("count", res.Imported))
	shared.RespondWithJSON(w, r, http.StatusCreated, res)
}

func decodeImport(body []byte, req *ImportRequest) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return shared.ErrEmptyBody
	}
	if trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &req.Cards)
	}
	return json.Unmarshal(trimmed, req)
}

// decodeAndValidate decodes the body into req and validates it, writing a
// 400 response on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}, log *slog.Logger) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	return true
}

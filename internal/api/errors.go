package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/nadezdatsygankova/my-english-trainer/internal/api/shared"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain/srs"
	"github.com/nadezdatsygankova/my-english-trainer/internal/service"
	"github.com/nadezdatsygankova/my-english-trainer/internal/service/review"
	"github.com/nadezdatsygankova/my-english-trainer/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var (
		importErr *service.ImportError
		verrs     validator.ValidationErrors
	)

	switch {
	// Not found errors
	case errors.Is(err, service.ErrCardNotFound),
		errors.Is(err, review.ErrCardNotFound),
		errors.Is(err, store.ErrCardNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrCardExists),
		errors.Is(err, service.ErrStaleVersion),
		errors.Is(err, review.ErrStaleVersion),
		errors.Is(err, review.ErrCardNotDue),
		errors.Is(err, review.ErrCardNotInPool):
		return http.StatusConflict

	// Bad request errors
	case errors.As(err, &importErr),
		errors.As(err, &verrs),
		errors.Is(err, shared.ErrEmptyBody),
		errors.Is(err, shared.ErrTrailingData),
		errors.Is(err, service.ErrEmptyImport),
		errors.Is(err, review.ErrInvalidLogEntry),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidMode),
		errors.Is(err, domain.ErrInvalidOutcome),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrCardWordEmpty),
		errors.Is(err, domain.ErrInvalidEase),
		errors.Is(err, srs.ErrInvalidDays):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var (
		importErr *service.ImportError
		verrs     validator.ValidationErrors
	)

	switch {
	case errors.Is(err, service.ErrCardNotFound),
		errors.Is(err, review.ErrCardNotFound),
		errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, service.ErrStaleVersion),
		errors.Is(err, review.ErrStaleVersion):
		return "Card was modified, reload it and try again"

	case errors.Is(err, review.ErrCardNotDue):
		return "Card is not due for review"

	case errors.Is(err, review.ErrCardNotInPool):
		return "Card is not enabled for this practice mode"

	case errors.As(err, &importErr):
		return fmt.Sprintf("Invalid card at index %d: %s", importErr.Index, GetSafeErrorMessage(importErr.Err))

	case errors.Is(err, service.ErrCardExists):
		return "Card already exists"

	case errors.As(err, &verrs):
		return SanitizeValidationError(err)

	case errors.Is(err, shared.ErrEmptyBody),
		errors.Is(err, shared.ErrTrailingData):
		return "Invalid request format"

	case errors.Is(err, service.ErrEmptyImport):
		return "No cards to import"

	case errors.Is(err, review.ErrInvalidLogEntry):
		return "Invalid review log entry"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid card ID format"

	case errors.Is(err, domain.ErrInvalidMode):
		return "Invalid practice mode"

	case errors.Is(err, domain.ErrInvalidOutcome):
		return "Invalid review outcome"

	case errors.Is(err, domain.ErrInvalidDate):
		return "Invalid date, expected YYYY-MM-DD"

	case errors.Is(err, domain.ErrCardWordEmpty):
		return "Word is required"

	case errors.Is(err, domain.ErrInvalidEase):
		return "Ease factor out of range"

	case errors.Is(err, srs.ErrInvalidDays):
		return "Days must be at least 1"

	case errors.Is(err, domain.ErrValidation):
		return "Validation error"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a short message naming
// the first offending field by its JSON name.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}

	fe := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	case "url":
		return "invalid URL"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the response for err. fallback replaces the generic
// message of unexpected (5xx) errors so the client learns which step failed.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string, opts ...shared.ResponseOption) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	if status == http.StatusConflict {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrCardNotFound indicates the card does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrCardNotFound = errors.New("card not found")

	// ErrCardExists indicates a card with the same ID already exists.
	// API layer should map this to HTTP 409 Conflict.
	ErrCardExists = errors.New("card already exists")

	// ErrStaleVersion indicates the card changed since the client read it.
	// API layer should map this to HTTP 409 Conflict.
	ErrStaleVersion = errors.New("card was modified by another request")

	// ErrEmptyImport indicates an import request without cards.
	ErrEmptyImport = errors.New("no cards to import")
)

// CardServiceError is a custom error type for card service errors.
type CardServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for CardServiceError.
func (e *CardServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("card service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("card service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *CardServiceError) Unwrap() error {
	return e.Err
}

// NewCardServiceError creates a new CardServiceError.
func NewCardServiceError(operation, message string, err error) *CardServiceError {
	return &CardServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// ImportError reports which record of an import batch was rejected.
type ImportError struct {
	Index int
	Word  string
	Err   error
}

// Error implements the error interface for ImportError.
func (e *ImportError) Error() string {
	return fmt.Sprintf("record %d (%q): %v", e.Index, e.Word, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ImportError) Unwrap() error {
	return e.Err
}

package store

import (
	"errors"
	"fmt"
)

// Generic failure classes. Implementations wrap driver errors in one of
// these so callers never inspect driver types.
var (
	ErrNotFound          = errors.New("entity not found")
	ErrDuplicate         = errors.New("entity already exists")
	ErrInvalidEntity     = errors.New("invalid entity")
	ErrUpdateFailed      = errors.New("update failed")
	ErrTransactionFailed = errors.New("transaction failed")
)

// Card errors. Each wraps its generic class.
var (
	// ErrCardNotFound is returned for an unknown card ID.
	ErrCardNotFound = fmt.Errorf("%w: card", ErrNotFound)

	// ErrCardExists is returned when creating a card whose ID is taken.
	ErrCardExists = fmt.Errorf("%w: card", ErrDuplicate)

	// ErrStaleVersion is returned by compare-and-swap updates when the stored
	// version no longer matches the one the caller read.
	ErrStaleVersion = fmt.Errorf("%w: stale version", ErrUpdateFailed)
)

// IsNotFoundError reports whether err is ErrNotFound or one of its
// entity-specific variants.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is ErrDuplicate or one of its
// entity-specific variants.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

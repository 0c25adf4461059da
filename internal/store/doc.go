// Package store declares the persistence contracts of the trainer: cards,
// the review log and the daily counters. Implementations live in
// internal/platform/database; in-memory fakes live in internal/mocks.
// Every store can be rebound to a transaction with WithTx so a grade is
// written atomically across all three.
package store

// Package mocks provides centralized test doubles for the store and service
// interfaces.
//
// The store doubles keep their data in memory and honour the same contracts
// as the database implementations, including version compare-and-swap. Each
// one exposes error fields that, when set, are returned instead of running
// the operation. The service doubles follow the function-field pattern:
//
//	reviews := &mocks.MockReviewService{
//	    StatsFn: func(ctx context.Context) (*stats.Snapshot, error) {
//	        return &stats.Snapshot{Streak: 3}, nil
//	    },
//	}
//
// Transactions are backed by go-sqlmock through NewSQLMock, so tests can
// assert whether a unit of work committed or rolled back.
package mocks

package review

import (
	"sync"

	"github.com/google/uuid"
)

// cardLocks serialises work per card id. Entries are reference counted
// and removed when the last holder releases them.
type cardLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*cardLock
}

type cardLock struct {
	mu   sync.Mutex
	refs int
}

func newCardLocks() *cardLocks {
	return &cardLocks{locks: make(map[uuid.UUID]*cardLock)}
}

// lock blocks until the caller holds the lock for id and returns the
// function that releases it.
func (l *cardLocks) lock(id uuid.UUID) (unlock func()) {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &cardLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

// size reports how many ids currently have holders or waiters.
func (l *cardLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

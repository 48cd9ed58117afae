package tokenbus

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// issueKey scopes mutual exclusion to one person, meal type and calendar
// date within one tenant.
type issueKey struct {
	tenantID   uuid.UUID
	personID   uuid.UUID
	mealTypeID uuid.UUID
	date       time.Time
}

type issueLock struct {
	mu   sync.Mutex
	refs int
}

// issueLocks hands out per-key mutexes so the guard-check-then-record
// sequence for the same issuance slot never runs concurrently in this
// process. Entries are removed once the last holder releases.
type issueLocks struct {
	mu    sync.Mutex
	locks map[issueKey]*issueLock
}

func newIssueLocks() *issueLocks {
	return &issueLocks{
		locks: make(map[issueKey]*issueLock),
	}
}

// acquire blocks until the key is exclusively held and returns the release
// function.
func (il *issueLocks) acquire(key issueKey) func() {
	il.mu.Lock()
	l, exists := il.locks[key]
	if !exists {
		l = &issueLock{}
		il.locks[key] = l
	}
	l.refs++
	il.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		il.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(il.locks, key)
		}
		il.mu.Unlock()
	}
}

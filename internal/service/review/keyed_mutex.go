package review

import (
	"sync"

	"github.com/google/uuid"
)

// reviewKey identifies the serialization domain for review writes: one
// (user, card) pair.
type reviewKey struct {
	userID uuid.UUID
	cardID uuid.UUID
}

// keyedMutex is an arena of per-(user, card) mutexes. Two reviews of the
// same card by the same user are serialized across the whole
// read-latest / compute / append / update-aggregates sequence; reviews of
// different cards or by different users never contend.
//
// Entries are created on first use and kept for the process lifetime. The
// arena grows with the number of distinct (user, card) pairs reviewed, a few
// dozen bytes each.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[reviewKey]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[reviewKey]*sync.Mutex)}
}

// Lock acquires the mutex for the given pair, creating it if needed, and
// returns the unlock function.
func (k *keyedMutex) Lock(userID, cardID uuid.UUID) func() {
	key := reviewKey{userID: userID, cardID: cardID}

	k.mu.Lock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	k.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

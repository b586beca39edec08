package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fukushu-app/fukushu-api/internal/domain"
	"github.com/fukushu-app/fukushu-api/internal/store"
)

// ReviewLogStore is an in-memory store.ReviewLogStore fake. Deck membership
// for the deck-scoped queries comes from the Cards store the fake is linked
// to at construction.
type ReviewLogStore struct {
	mu      sync.RWMutex
	entries []*domain.ReviewLog
	cards   *CardStore

	// InsertFn is an error injection hook for atomicity tests.
	InsertFn func(ctx context.Context, entry *domain.ReviewLog) error
}

// NewReviewLogStore creates an empty in-memory review log store. The card
// store resolves deck membership and may be shared with the system under
// test.
func NewReviewLogStore(cards *CardStore) *ReviewLogStore {
	if cards == nil {
		panic("cards cannot be nil")
	}
	return &ReviewLogStore{cards: cards}
}

var _ store.ReviewLogStore = (*ReviewLogStore)(nil)

// Insert implements store.ReviewLogStore.Insert
func (s *ReviewLogStore) Insert(ctx context.Context, entry *domain.ReviewLog) error {
	if s.InsertFn != nil {
		if err := s.InsertFn(ctx, entry); err != nil {
			return err
		}
	}

	if err := entry.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *entry
	s.entries = append(s.entries, &copied)
	return nil
}

// GetLatest implements store.ReviewLogStore.GetLatest
func (s *ReviewLogStore) GetLatest(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.ReviewLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.ReviewLog
	for _, entry := range s.entries {
		if entry.UserID != userID || entry.CardID != cardID || entry.Deleted {
			continue
		}
		if latest == nil || entry.ReviewedAt.After(latest.ReviewedAt) {
			latest = entry
		}
	}

	if latest == nil {
		return nil, store.ErrReviewLogNotFound
	}
	copied := *latest
	return &copied, nil
}

// LatestByDeck implements store.ReviewLogStore.LatestByDeck
func (s *ReviewLogStore) LatestByDeck(
	ctx context.Context,
	userID, deckID uuid.UUID,
) (map[uuid.UUID]*domain.ReviewLog, error) {
	ids, err := s.cards.ListIDsByDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	inDeck := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		inDeck[id] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := make(map[uuid.UUID]*domain.ReviewLog)
	for _, entry := range s.entries {
		if entry.UserID != userID || entry.Deleted || !inDeck[entry.CardID] {
			continue
		}
		current, ok := latest[entry.CardID]
		if !ok || entry.ReviewedAt.After(current.ReviewedAt) {
			copied := *entry
			latest[entry.CardID] = &copied
		}
	}
	return latest, nil
}

// CountAgain implements store.ReviewLogStore.CountAgain
func (s *ReviewLogStore) CountAgain(ctx context.Context, userID, cardID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, entry := range s.entries {
		if entry.UserID == userID && entry.CardID == cardID &&
			entry.Grade == domain.GradeAgain && !entry.Deleted {
			count++
		}
	}
	return count, nil
}

// CountReviewedSince implements store.ReviewLogStore.CountReviewedSince
func (s *ReviewLogStore) CountReviewedSince(
	ctx context.Context,
	userID, deckID uuid.UUID,
	since time.Time,
) (int, error) {
	ids, err := s.cards.ListIDsByDeck(ctx, deckID)
	if err != nil {
		return 0, err
	}
	inDeck := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		inDeck[id] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, entry := range s.entries {
		if entry.UserID == userID && inDeck[entry.CardID] &&
			entry.State != domain.StateNew && !entry.Deleted &&
			!entry.ReviewedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// SoftDelete implements store.ReviewLogStore.SoftDelete
func (s *ReviewLogStore) SoftDelete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.entries {
		if entry.ID == id {
			entry.Deleted = true
			return nil
		}
	}
	return store.ErrReviewLogNotFound
}

// WithTx implements store.ReviewLogStore.WithTx
func (s *ReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore {
	return s
}

// Entries returns a snapshot of every stored entry, including soft-deleted
// ones, in insertion order.
func (s *ReviewLogStore) Entries() []*domain.ReviewLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]*domain.ReviewLog, 0, len(s.entries))
	for _, entry := range s.entries {
		copied := *entry
		snapshot = append(snapshot, &copied)
	}
	return snapshot
}

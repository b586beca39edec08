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

type deckStateKey struct {
	userID uuid.UUID
	deckID uuid.UUID
}

// UserDeckStateStore is an in-memory store.UserDeckStateStore fake.
type UserDeckStateStore struct {
	mu     sync.RWMutex
	states map[deckStateKey]*domain.UserDeckState

	// ApplyReviewFn is an error injection hook for atomicity tests.
	ApplyReviewFn func(ctx context.Context, userID, deckID uuid.UUID) error
}

// NewUserDeckStateStore creates an empty in-memory deck state store.
func NewUserDeckStateStore() *UserDeckStateStore {
	return &UserDeckStateStore{states: make(map[deckStateKey]*domain.UserDeckState)}
}

var _ store.UserDeckStateStore = (*UserDeckStateStore)(nil)

// Get implements store.UserDeckStateStore.Get
func (s *UserDeckStateStore) Get(
	ctx context.Context,
	userID, deckID uuid.UUID,
) (*domain.UserDeckState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[deckStateKey{userID, deckID}]
	if !ok {
		return nil, store.ErrDeckStateNotFound
	}
	copied := *state
	return &copied, nil
}

// Put stores a state record directly, bypassing the upsert path. Tests use
// it to seed customized quotas.
func (s *UserDeckStateStore) Put(state *domain.UserDeckState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *state
	s.states[deckStateKey{state.UserID, state.DeckID}] = &copied
}

// ApplyReview implements store.UserDeckStateStore.ApplyReview
func (s *UserDeckStateStore) ApplyReview(
	ctx context.Context,
	userID, deckID uuid.UUID,
	delta domain.CounterDelta,
	studiedAt time.Time,
) error {
	if s.ApplyReviewFn != nil {
		if err := s.ApplyReviewFn(ctx, userID, deckID); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := deckStateKey{userID, deckID}
	state, ok := s.states[key]
	if !ok {
		now := time.Now().UTC()
		state = &domain.UserDeckState{
			UserID:         userID,
			DeckID:         deckID,
			NewCardsPerDay: domain.DefaultNewCardsPerDay,
			ReviewsPerDay:  domain.DefaultReviewsPerDay,
			CreatedAt:      now,
		}
		s.states[key] = state
	}

	state.Counters.NewCards += delta.New
	state.Counters.LearningCards += delta.Learning
	state.Counters.ReviewCards += delta.Review
	state.LastStudied = studiedAt
	state.UpdatedAt = time.Now().UTC()
	return nil
}

// WithTx implements store.UserDeckStateStore.WithTx
func (s *UserDeckStateStore) WithTx(tx *sql.Tx) store.UserDeckStateStore {
	return s
}

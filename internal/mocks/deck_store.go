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

// DeckStore is an in-memory store.DeckStore fake.
type DeckStore struct {
	mu    sync.RWMutex
	decks map[uuid.UUID]*domain.Deck
}

// NewDeckStore creates an empty in-memory deck store.
func NewDeckStore() *DeckStore {
	return &DeckStore{decks: make(map[uuid.UUID]*domain.Deck)}
}

var _ store.DeckStore = (*DeckStore)(nil)

// Create implements store.DeckStore.Create
func (s *DeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	if err := deck.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := cloneDeck(deck)
	s.decks[deck.ID] = copied
	return nil
}

// GetByID implements store.DeckStore.GetByID
func (s *DeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deck, ok := s.decks[id]
	if !ok {
		return nil, store.ErrDeckNotFound
	}
	return cloneDeck(deck), nil
}

// UpdateParameters implements store.DeckStore.UpdateParameters
func (s *DeckStore) UpdateParameters(
	ctx context.Context,
	id uuid.UUID,
	params *domain.FSRSParameters,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	deck, ok := s.decks[id]
	if !ok {
		return store.ErrDeckNotFound
	}
	if params == nil {
		deck.Parameters = nil
	} else {
		copied := *params
		deck.Parameters = &copied
	}
	deck.UpdatedAt = time.Now().UTC()
	return nil
}

// WithTx implements store.DeckStore.WithTx
func (s *DeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return s
}

func cloneDeck(deck *domain.Deck) *domain.Deck {
	copied := *deck
	if deck.Parameters != nil {
		params := *deck.Parameters
		copied.Parameters = &params
	}
	return &copied
}

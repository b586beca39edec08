package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/fukushu-app/fukushu-api/internal/domain"
	"github.com/fukushu-app/fukushu-api/internal/store"
)

// CardStore is an in-memory store.CardStore fake.
type CardStore struct {
	mu    sync.RWMutex
	cards map[uuid.UUID]*domain.Card
}

// NewCardStore creates an empty in-memory card store.
func NewCardStore() *CardStore {
	return &CardStore{cards: make(map[uuid.UUID]*domain.Card)}
}

var _ store.CardStore = (*CardStore)(nil)

// Create implements store.CardStore.Create
func (s *CardStore) Create(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *card
	s.cards[card.ID] = &copied
	return nil
}

// GetByID implements store.CardStore.GetByID
func (s *CardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	card, ok := s.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	copied := *card
	return &copied, nil
}

// ListIDsByDeck implements store.CardStore.ListIDsByDeck
// Cards sort by ascending creation time with ID as the tie-break, matching
// the deck's natural order.
func (s *CardStore) ListIDsByDeck(ctx context.Context, deckID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var inDeck []*domain.Card
	for _, card := range s.cards {
		if card.DeckID == deckID {
			inDeck = append(inDeck, card)
		}
	}

	sort.Slice(inDeck, func(i, j int) bool {
		if !inDeck[i].CreatedAt.Equal(inDeck[j].CreatedAt) {
			return inDeck[i].CreatedAt.Before(inDeck[j].CreatedAt)
		}
		return inDeck[i].ID.String() < inDeck[j].ID.String()
	})

	ids := make([]uuid.UUID, 0, len(inDeck))
	for _, card := range inDeck {
		ids = append(ids, card.ID)
	}
	return ids, nil
}

// WithTx implements store.CardStore.WithTx
func (s *CardStore) WithTx(tx *sql.Tx) store.CardStore {
	return s
}

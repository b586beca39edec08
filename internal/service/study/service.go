// Package study selects the bounded daily set of cards a user should see
// for one deck: new cards up to the remaining daily introduction quota,
// then due cards up to the session cap.
package study

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fukushu-app/fukushu-api/internal/domain"
	"github.com/fukushu-app/fukushu-api/internal/platform/logger"
	"github.com/fukushu-app/fukushu-api/internal/service/params"
	"github.com/fukushu-app/fukushu-api/internal/store"
)

// StudyService is the interface consumed by the HTTP layer.
type StudyService interface {
	// GetDueCards returns the quota-limited, ordered study set for a deck.
	GetDueCards(ctx context.Context, userID, deckID uuid.UUID, now time.Time) ([]uuid.UUID, error)
}

// Service implements due-card selection.
type Service struct {
	users      store.UserStore
	decks      store.DeckStore
	cards      store.CardStore
	logs       store.ReviewLogStore
	deckStates store.UserDeckStateStore
	params     *params.Service
	logger     *slog.Logger
}

var _ StudyService = (*Service)(nil)

// NewService creates a study service.
func NewService(
	users store.UserStore,
	decks store.DeckStore,
	cards store.CardStore,
	logs store.ReviewLogStore,
	deckStates store.UserDeckStateStore,
	paramsService *params.Service,
	logger *slog.Logger,
) *Service {
	if users == nil {
		panic("users cannot be nil")
	}
	if decks == nil {
		panic("decks cannot be nil")
	}
	if cards == nil {
		panic("cards cannot be nil")
	}
	if logs == nil {
		panic("logs cannot be nil")
	}
	if deckStates == nil {
		panic("deckStates cannot be nil")
	}
	if paramsService == nil {
		panic("paramsService cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		users:      users,
		decks:      decks,
		cards:      cards,
		logs:       logs,
		deckStates: deckStates,
		params:     paramsService,
		logger:     logger.With(slog.String("component", "study_service")),
	}
}

// GetDueCards returns the ordered study set for (user, deck) at the given
// instant: new cards first, then due cards, both in the deck's natural card
// order. The result is a snapshot; a concurrent review may update a card
// after it was selected.
//
// Quotas: new cards are limited to CardLimit minus the cards already
// introduced since local midnight, due cards to ReviewsPerDay minus the
// selected new cards. An empty result is valid.
func (s *Service) GetDueCards(
	ctx context.Context,
	userID, deckID uuid.UUID,
	now time.Time,
) ([]uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	resolved, err := s.params.Resolve(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}

	cardIDs, err := s.cards.ListIDsByDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if len(cardIDs) == 0 {
		return []uuid.UUID{}, nil
	}

	latest, err := s.logs.LatestByDeck(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}

	// Partition in natural order so the quota cut is deterministic.
	var candidatesNew, candidatesDue []uuid.UUID
	for _, id := range cardIDs {
		entry, reviewed := latest[id]
		switch {
		case !reviewed:
			candidatesNew = append(candidatesNew, id)
		case !entry.Due.After(now):
			candidatesDue = append(candidatesDue, id)
		}
	}

	seenToday, err := s.logs.CountReviewedSince(
		ctx, userID, deckID, domain.LocalMidnight(now))
	if err != nil {
		return nil, err
	}

	newQuota := resolved.CardLimit - seenToday
	if newQuota < 0 {
		newQuota = 0
	}
	if newQuota > len(candidatesNew) {
		newQuota = len(candidatesNew)
	}
	selected := append([]uuid.UUID{}, candidatesNew[:newQuota]...)

	reviewQuota := s.reviewsPerDay(ctx, userID, deckID) - len(selected)
	if reviewQuota < 0 {
		reviewQuota = 0
	}
	if reviewQuota > len(candidatesDue) {
		reviewQuota = len(candidatesDue)
	}
	selected = append(selected, candidatesDue[:reviewQuota]...)

	log.Debug("due cards selected",
		slog.String("user_id", userID.String()),
		slog.String("deck_id", deckID.String()),
		slog.Int("seen_today", seenToday),
		slog.Int("selected_new", newQuota),
		slog.Int("selected_due", len(selected)-newQuota))

	return selected, nil
}

// reviewsPerDay reads the per-deck session cap, falling back to the default
// when the user has never customized the deck.
func (s *Service) reviewsPerDay(ctx context.Context, userID, deckID uuid.UUID) int {
	state, err := s.deckStates.Get(ctx, userID, deckID)
	if err != nil {
		if !errors.Is(err, store.ErrDeckStateNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Warn(
				"failed to read deck state, using default session cap",
				slog.String("error", err.Error()),
				slog.String("deck_id", deckID.String()))
		}
		return domain.DefaultReviewsPerDay
	}
	if state.ReviewsPerDay <= 0 {
		return domain.DefaultReviewsPerDay
	}
	return state.ReviewsPerDay
}

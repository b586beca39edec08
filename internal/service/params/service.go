// Package params resolves and updates FSRS scheduling parameter sets.
//
// Resolution picks one whole level: a deck's override when present,
// otherwise the owner's user-level set, otherwise the built-in defaults.
// Fields are never mixed across levels.
package params

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fukushu-app/fukushu-api/internal/domain"
	"github.com/fukushu-app/fukushu-api/internal/platform/logger"
	"github.com/fukushu-app/fukushu-api/internal/store"
)

// ParamsService is the interface consumed by the HTTP layer.
type ParamsService interface {
	// GetUserParameters returns the user's stored parameter set.
	GetUserParameters(ctx context.Context, userID uuid.UUID) (domain.FSRSParameters, error)

	// UpdateUserParameters merges a partial update into the user's set.
	UpdateUserParameters(
		ctx context.Context,
		userID uuid.UUID,
		patch domain.FSRSParametersPatch,
	) (domain.FSRSParameters, error)

	// UpdateDeckParameters merges a partial update into the deck override.
	UpdateDeckParameters(
		ctx context.Context,
		userID, deckID uuid.UUID,
		patch domain.FSRSParametersPatch,
	) (domain.FSRSParameters, error)

	// ClearDeckParameters removes the deck override.
	ClearDeckParameters(ctx context.Context, userID, deckID uuid.UUID) error
}

// Service implements parameter resolution and partial updates.
type Service struct {
	users  store.UserStore
	decks  store.DeckStore
	logger *slog.Logger
}

var _ ParamsService = (*Service)(nil)

// NewService creates a parameter service.
func NewService(users store.UserStore, decks store.DeckStore, logger *slog.Logger) *Service {
	if users == nil {
		panic("users cannot be nil")
	}
	if decks == nil {
		panic("decks cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		users:  users,
		decks:  decks,
		logger: logger.With(slog.String("component", "params_service")),
	}
}

// Resolve returns the effective parameter set for scheduling a card in the
// given deck. Returns store.ErrUserNotFound or store.ErrDeckNotFound when
// either side of the pair is missing.
func (s *Service) Resolve(
	ctx context.Context,
	userID, deckID uuid.UUID,
) (domain.FSRSParameters, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return domain.FSRSParameters{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.FSRSParameters{}, err
	}

	if deck.Parameters != nil {
		log.Debug("resolved parameters from deck override",
			slog.String("deck_id", deckID.String()))
		return *deck.Parameters, nil
	}

	// A stored user set that no longer validates falls through to the
	// built-in defaults rather than poisoning every schedule.
	if err := user.Parameters.Validate(); err != nil {
		log.Warn("stored user parameters invalid, using defaults",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return domain.DefaultParameters(), nil
	}

	return user.Parameters, nil
}

// GetUserParameters returns the user-level parameter set.
func (s *Service) GetUserParameters(
	ctx context.Context,
	userID uuid.UUID,
) (domain.FSRSParameters, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.FSRSParameters{}, err
	}
	return user.Parameters, nil
}

// UpdateUserParameters merges the patch into the user's current set,
// validates the result, and persists it. Nothing is written when the merged
// set is invalid.
func (s *Service) UpdateUserParameters(
	ctx context.Context,
	userID uuid.UUID,
	patch domain.FSRSParametersPatch,
) (domain.FSRSParameters, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.FSRSParameters{}, err
	}

	merged, err := patch.Apply(user.Parameters)
	if err != nil {
		log.Warn("rejected user parameter update",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return domain.FSRSParameters{}, err
	}

	if err := s.users.UpdateParameters(ctx, userID, merged); err != nil {
		return domain.FSRSParameters{}, err
	}

	log.Info("user parameters updated",
		slog.String("user_id", userID.String()))
	return merged, nil
}

// UpdateDeckParameters merges the patch into the deck's effective set and
// stores the result as the deck override. The merge base is the existing
// override when present, otherwise the owner's user-level set. Only the
// deck's owner may update it; anyone else gets store.ErrDeckNotFound.
func (s *Service) UpdateDeckParameters(
	ctx context.Context,
	userID, deckID uuid.UUID,
	patch domain.FSRSParametersPatch,
) (domain.FSRSParameters, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return domain.FSRSParameters{}, err
	}
	if deck.OwnerID != userID {
		log.Warn("deck parameter update by non-owner",
			slog.String("deck_id", deckID.String()),
			slog.String("user_id", userID.String()))
		return domain.FSRSParameters{}, store.ErrDeckNotFound
	}

	base := deck.Parameters
	if base == nil {
		owner, err := s.users.GetByID(ctx, deck.OwnerID)
		if err != nil {
			return domain.FSRSParameters{}, err
		}
		base = &owner.Parameters
	}

	merged, err := patch.Apply(*base)
	if err != nil {
		log.Warn("rejected deck parameter update",
			slog.String("deck_id", deckID.String()),
			slog.String("error", err.Error()))
		return domain.FSRSParameters{}, err
	}

	if err := s.decks.UpdateParameters(ctx, deckID, &merged); err != nil {
		return domain.FSRSParameters{}, err
	}

	log.Info("deck parameters updated",
		slog.String("deck_id", deckID.String()))
	return merged, nil
}

// ClearDeckParameters removes the deck-level override so the deck falls
// back to the owner's defaults.
func (s *Service) ClearDeckParameters(ctx context.Context, userID, deckID uuid.UUID) error {
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return err
	}
	if deck.OwnerID != userID {
		return store.ErrDeckNotFound
	}

	return s.decks.UpdateParameters(ctx, deckID, nil)
}

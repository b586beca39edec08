package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fukushu-app/fukushu-api/internal/domain"
	"github.com/fukushu-app/fukushu-api/internal/platform/logger"
	"github.com/fukushu-app/fukushu-api/internal/store"
)

// PostgresUserDeckStateStore implements the store.UserDeckStateStore
// interface using a PostgreSQL database as the storage backend.
type PostgresUserDeckStateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserDeckStateStore creates a new PostgreSQL implementation of
// the UserDeckStateStore interface. If logger is nil, a default logger will
// be used.
func NewPostgresUserDeckStateStore(
	db store.DBTX,
	logger *slog.Logger,
) *PostgresUserDeckStateStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserDeckStateStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_state_store")),
	}
}

// Ensure PostgresUserDeckStateStore implements store.UserDeckStateStore interface
var _ store.UserDeckStateStore = (*PostgresUserDeckStateStore)(nil)

// WithTx implements store.UserDeckStateStore.WithTx
func (s *PostgresUserDeckStateStore) WithTx(tx *sql.Tx) store.UserDeckStateStore {
	return &PostgresUserDeckStateStore{
		db:     tx,
		logger: s.logger,
	}
}

// Get implements store.UserDeckStateStore.Get
// Returns store.ErrDeckStateNotFound if no record exists for the pair.
func (s *PostgresUserDeckStateStore) Get(
	ctx context.Context,
	userID, deckID uuid.UUID,
) (*domain.UserDeckState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, deck_id, new_cards_per_day, reviews_per_day,
			new_cards, learning_cards, review_cards,
			last_studied, created_at, updated_at
		FROM user_deck_states
		WHERE user_id = $1 AND deck_id = $2
	`

	var state domain.UserDeckState
	var lastStudied sql.NullTime

	err := s.db.QueryRowContext(ctx, query, userID, deckID).Scan(
		&state.UserID,
		&state.DeckID,
		&state.NewCardsPerDay,
		&state.ReviewsPerDay,
		&state.Counters.NewCards,
		&state.Counters.LearningCards,
		&state.Counters.ReviewCards,
		&lastStudied,
		&state.CreatedAt,
		&state.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user deck state not found",
				slog.String("user_id", userID.String()),
				slog.String("deck_id", deckID.String()))
			return nil, store.ErrDeckStateNotFound
		}
		log.Error("failed to get user deck state",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("deck_id", deckID.String()))
		return nil, MapError(err)
	}

	if lastStudied.Valid {
		state.LastStudied = lastStudied.Time
	}

	return &state, nil
}

// ApplyReview implements store.UserDeckStateStore.ApplyReview
// The upsert creates the record with default quotas on first contact and
// accumulates the counter delta on every subsequent review, so the caller
// never has to pre-create the record.
func (s *PostgresUserDeckStateStore) ApplyReview(
	ctx context.Context,
	userID, deckID uuid.UUID,
	delta domain.CounterDelta,
	studiedAt time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := time.Now().UTC()

	query := `
		INSERT INTO user_deck_states (user_id, deck_id,
			new_cards_per_day, reviews_per_day,
			new_cards, learning_cards, review_cards,
			last_studied, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		ON CONFLICT (user_id, deck_id) DO UPDATE SET
			new_cards      = user_deck_states.new_cards + EXCLUDED.new_cards,
			learning_cards = user_deck_states.learning_cards + EXCLUDED.learning_cards,
			review_cards   = user_deck_states.review_cards + EXCLUDED.review_cards,
			last_studied   = EXCLUDED.last_studied,
			updated_at     = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		userID,
		deckID,
		domain.DefaultNewCardsPerDay,
		domain.DefaultReviewsPerDay,
		delta.New,
		delta.Learning,
		delta.Review,
		studiedAt,
		now,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during deck state upsert",
				slog.String("user_id", userID.String()),
				slog.String("deck_id", deckID.String()))
			return fmt.Errorf("%w: user or deck for deck state not found",
				store.ErrInvalidEntity)
		}

		log.Error("failed to apply review to user deck state",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("deck_id", deckID.String()))
		return MapError(err)
	}

	log.Debug("user deck state updated",
		slog.String("user_id", userID.String()),
		slog.String("deck_id", deckID.String()),
		slog.Int("delta_new", delta.New),
		slog.Int("delta_learning", delta.Learning),
		slog.Int("delta_review", delta.Review))
	return nil
}

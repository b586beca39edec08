package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fukushu-app/fukushu-api/internal/domain"
	"github.com/fukushu-app/fukushu-api/internal/platform/logger"
	"github.com/fukushu-app/fukushu-api/internal/store"
)

// PostgresDeckStore implements the store.DeckStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the DeckStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

// Ensure PostgresDeckStore implements store.DeckStore interface
var _ store.DeckStore = (*PostgresDeckStore)(nil)

// WithTx implements store.DeckStore.WithTx
func (s *PostgresDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &PostgresDeckStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.DeckStore.Create
// Returns store.ErrInvalidEntity if the owner does not exist.
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		log.Warn("deck validation failed during create",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()))
		return err
	}

	paramsJSON, err := marshalOverride(deck.Parameters)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO decks (id, owner_id, name, description, fsrs_params, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		deck.ID,
		deck.OwnerID,
		deck.Name,
		deck.Description,
		paramsJSON,
		deck.CreatedAt,
		deck.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during deck creation",
				slog.String("deck_id", deck.ID.String()),
				slog.String("owner_id", deck.OwnerID.String()))
			return fmt.Errorf("%w: owner with ID %s not found",
				store.ErrInvalidEntity, deck.OwnerID)
		}

		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()))
		return MapError(err)
	}

	log.Info("deck created successfully",
		slog.String("deck_id", deck.ID.String()),
		slog.String("owner_id", deck.OwnerID.String()))
	return nil
}

// GetByID implements store.DeckStore.GetByID
// Returns store.ErrDeckNotFound if the deck does not exist.
func (s *PostgresDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, name, description, fsrs_params, created_at, updated_at
		FROM decks
		WHERE id = $1
	`

	var deck domain.Deck
	var paramsJSON []byte

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&deck.ID,
		&deck.OwnerID,
		&deck.Name,
		&deck.Description,
		&paramsJSON,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deck not found", slog.String("deck_id", id.String()))
			return nil, store.ErrDeckNotFound
		}
		log.Error("failed to get deck by ID",
			slog.String("error", err.Error()),
			slog.String("deck_id", id.String()))
		return nil, MapError(err)
	}

	if len(paramsJSON) > 0 {
		var params domain.FSRSParameters
		if err := json.Unmarshal(paramsJSON, &params); err != nil {
			log.Error("failed to unmarshal deck parameters",
				slog.String("error", err.Error()),
				slog.String("deck_id", id.String()))
			return nil, fmt.Errorf("failed to unmarshal deck parameters: %w", err)
		}
		deck.Parameters = &params
	}

	return &deck, nil
}

// UpdateParameters implements store.DeckStore.UpdateParameters
// A nil params stores SQL NULL, clearing the override entirely.
// Returns store.ErrDeckNotFound if the deck does not exist.
func (s *PostgresDeckStore) UpdateParameters(
	ctx context.Context,
	id uuid.UUID,
	params *domain.FSRSParameters,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	paramsJSON, err := marshalOverride(params)
	if err != nil {
		return err
	}

	query := `
		UPDATE decks
		SET fsrs_params = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, paramsJSON, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update deck parameters",
			slog.String("error", err.Error()),
			slog.String("deck_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrDeckNotFound); err != nil {
		log.Debug("deck not found for parameter update",
			slog.String("deck_id", id.String()))
		return err
	}

	log.Info("deck parameters updated successfully",
		slog.String("deck_id", id.String()),
		slog.Bool("override_cleared", params == nil))
	return nil
}

// marshalOverride serializes an optional parameter override, mapping a nil
// override to SQL NULL.
func marshalOverride(params *domain.FSRSParameters) ([]byte, error) {
	if params == nil {
		return nil, nil
	}
	data, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal deck parameters: %w", err)
	}
	return data, nil
}

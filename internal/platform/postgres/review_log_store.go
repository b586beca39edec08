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

// PostgresReviewLogStore implements the store.ReviewLogStore interface
// using a PostgreSQL database as the storage backend.
//
// The review_logs table is append-only. Rows are inserted and soft-deleted;
// there is no UPDATE path for scheduling fields, so history can always be
// replayed to rebuild derived state.
type PostgresReviewLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewLogStore creates a new PostgreSQL implementation of the
// ReviewLogStore interface. If logger is nil, a default logger will be used.
func NewPostgresReviewLogStore(db store.DBTX, logger *slog.Logger) *PostgresReviewLogStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_log_store")),
	}
}

// Ensure PostgresReviewLogStore implements store.ReviewLogStore interface
var _ store.ReviewLogStore = (*PostgresReviewLogStore)(nil)

// WithTx implements store.ReviewLogStore.WithTx
func (s *PostgresReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore {
	return &PostgresReviewLogStore{
		db:     tx,
		logger: s.logger,
	}
}

const reviewLogColumns = `id, user_id, card_id, grade, state, due,
	stability, difficulty, elapsed_days, last_elapsed_days, scheduled_days,
	reviewed_at, duration_seconds, deleted, created_at`

// Insert implements store.ReviewLogStore.Insert
// Returns store.ErrInvalidEntity if the user or card does not exist.
func (s *PostgresReviewLogStore) Insert(ctx context.Context, entry *domain.ReviewLog) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("review log validation failed during insert",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()))
		return err
	}

	query := `
		INSERT INTO review_logs (` + reviewLogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.UserID,
		entry.CardID,
		entry.Grade,
		entry.State,
		entry.Due,
		entry.Stability,
		entry.Difficulty,
		entry.ElapsedDays,
		entry.LastElapsedDays,
		entry.ScheduledDays,
		entry.ReviewedAt,
		entry.DurationSeconds,
		entry.Deleted,
		entry.CreatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during review log insert",
				slog.String("entry_id", entry.ID.String()),
				slog.String("user_id", entry.UserID.String()),
				slog.String("card_id", entry.CardID.String()))
			return fmt.Errorf("%w: user or card for review log not found",
				store.ErrInvalidEntity)
		}

		log.Error("failed to insert review log",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()))
		return MapError(err)
	}

	log.Debug("review log inserted",
		slog.String("entry_id", entry.ID.String()),
		slog.String("card_id", entry.CardID.String()),
		slog.Int("grade", int(entry.Grade)),
		slog.Int("state", int(entry.State)))
	return nil
}

// GetLatest implements store.ReviewLogStore.GetLatest
// Returns store.ErrReviewLogNotFound when the card has no non-deleted history.
func (s *PostgresReviewLogStore) GetLatest(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.ReviewLog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + reviewLogColumns + `
		FROM review_logs
		WHERE user_id = $1 AND card_id = $2 AND NOT deleted
		ORDER BY reviewed_at DESC, created_at DESC
		LIMIT 1
	`

	entry, err := scanReviewLog(s.db.QueryRowContext(ctx, query, userID, cardID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrReviewLogNotFound
		}
		log.Error("failed to get latest review log",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, MapError(err)
	}

	return entry, nil
}

// LatestByDeck implements store.ReviewLogStore.LatestByDeck
// It returns the latest non-deleted entry per card for every reviewed card
// in the deck. DISTINCT ON keeps only the newest row per card_id.
func (s *PostgresReviewLogStore) LatestByDeck(
	ctx context.Context,
	userID, deckID uuid.UUID,
) (map[uuid.UUID]*domain.ReviewLog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT DISTINCT ON (r.card_id)
			r.id, r.user_id, r.card_id, r.grade, r.state, r.due,
			r.stability, r.difficulty, r.elapsed_days, r.last_elapsed_days,
			r.scheduled_days, r.reviewed_at, r.duration_seconds, r.deleted,
			r.created_at
		FROM review_logs r
		JOIN cards c ON c.id = r.card_id
		WHERE r.user_id = $1 AND c.deck_id = $2 AND NOT r.deleted
		ORDER BY r.card_id, r.reviewed_at DESC, r.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, deckID)
	if err != nil {
		log.Error("failed to query latest review logs by deck",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("deck_id", deckID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	latest := make(map[uuid.UUID]*domain.ReviewLog)
	for rows.Next() {
		entry, err := scanReviewLog(rows)
		if err != nil {
			log.Error("failed to scan review log row",
				slog.String("error", err.Error()),
				slog.String("deck_id", deckID.String()))
			return nil, MapError(err)
		}
		latest[entry.CardID] = entry
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning review log rows",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, MapError(err)
	}

	return latest, nil
}

// CountAgain implements store.ReviewLogStore.CountAgain
func (s *PostgresReviewLogStore) CountAgain(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(*)
		FROM review_logs
		WHERE user_id = $1 AND card_id = $2 AND grade = $3 AND NOT deleted
	`

	var count int
	err := s.db.QueryRowContext(ctx, query, userID, cardID, domain.GradeAgain).Scan(&count)
	if err != nil {
		log.Error("failed to count Again reviews",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return 0, MapError(err)
	}

	return count, nil
}

// CountReviewedSince implements store.ReviewLogStore.CountReviewedSince
// An entry counts when its recorded state is anything but New, so the
// figure measures cards actually introduced to study since the cutoff.
func (s *PostgresReviewLogStore) CountReviewedSince(
	ctx context.Context,
	userID, deckID uuid.UUID,
	since time.Time,
) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(*)
		FROM review_logs r
		JOIN cards c ON c.id = r.card_id
		WHERE r.user_id = $1 AND c.deck_id = $2
			AND r.state <> $3 AND r.reviewed_at >= $4 AND NOT r.deleted
	`

	var count int
	err := s.db.QueryRowContext(ctx, query, userID, deckID, domain.StateNew, since).Scan(&count)
	if err != nil {
		log.Error("failed to count reviews since cutoff",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("deck_id", deckID.String()),
			slog.Time("since", since))
		return 0, MapError(err)
	}

	return count, nil
}

// SoftDelete implements store.ReviewLogStore.SoftDelete
// Returns store.ErrReviewLogNotFound if the entry does not exist.
func (s *PostgresReviewLogStore) SoftDelete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE review_logs
		SET deleted = TRUE
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to soft delete review log",
			slog.String("error", err.Error()),
			slog.String("entry_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrReviewLogNotFound); err != nil {
		log.Debug("review log not found for soft delete",
			slog.String("entry_id", id.String()))
		return err
	}

	log.Info("review log soft deleted", slog.String("entry_id", id.String()))
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanReviewLog.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReviewLog(row rowScanner) (*domain.ReviewLog, error) {
	var entry domain.ReviewLog
	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.CardID,
		&entry.Grade,
		&entry.State,
		&entry.Due,
		&entry.Stability,
		&entry.Difficulty,
		&entry.ElapsedDays,
		&entry.LastElapsedDays,
		&entry.ScheduledDays,
		&entry.ReviewedAt,
		&entry.DurationSeconds,
		&entry.Deleted,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

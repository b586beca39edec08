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

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction that should be initialized and managed
// by the caller. If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.UserStore.Create
// It saves a new user together with its scheduling parameter set and
// zero-valued study counters.
// Returns store.ErrDuplicate if the email is already taken.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	paramsJSON, err := json.Marshal(user.Parameters)
	if err != nil {
		return fmt.Errorf("failed to marshal user parameters: %w", err)
	}

	query := `
		INSERT INTO users (id, email, name, fsrs_params,
			total_reviews, study_streak, longest_streak, last_study_date,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Email,
		user.Name,
		paramsJSON,
		user.Stats.TotalReviews,
		user.Stats.StudyStreak,
		user.Stats.LongestStreak,
		nullableTime(user.Stats.LastStudyDate),
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate email during user creation",
				slog.String("user_id", user.ID.String()))
			return fmt.Errorf("%w: email already registered", store.ErrDuplicate)
		}

		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	log.Info("user created successfully",
		slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, email, name, fsrs_params,
			total_reviews, study_streak, longest_streak, last_study_date,
			created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user domain.User
	var paramsJSON []byte
	var lastStudy sql.NullTime

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&paramsJSON,
		&user.Stats.TotalReviews,
		&user.Stats.StudyStreak,
		&user.Stats.LongestStreak,
		&lastStudy,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.String("user_id", id.String()))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by ID",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return nil, MapError(err)
	}

	if err := json.Unmarshal(paramsJSON, &user.Parameters); err != nil {
		log.Error("failed to unmarshal user parameters",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return nil, fmt.Errorf("failed to unmarshal user parameters: %w", err)
	}
	if lastStudy.Valid {
		user.Stats.LastStudyDate = lastStudy.Time
	}

	return &user, nil
}

// UpdateParameters implements store.UserStore.UpdateParameters
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) UpdateParameters(
	ctx context.Context,
	id uuid.UUID,
	params domain.FSRSParameters,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal user parameters: %w", err)
	}

	query := `
		UPDATE users
		SET fsrs_params = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, paramsJSON, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update user parameters",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		log.Debug("user not found for parameter update",
			slog.String("user_id", id.String()))
		return err
	}

	log.Info("user parameters updated successfully",
		slog.String("user_id", id.String()))
	return nil
}

// UpdateStats implements store.UserStore.UpdateStats
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) UpdateStats(
	ctx context.Context,
	id uuid.UUID,
	stats domain.UserStats,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE users
		SET total_reviews = $1, study_streak = $2, longest_streak = $3,
			last_study_date = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		stats.TotalReviews,
		stats.StudyStreak,
		stats.LongestStreak,
		nullableTime(stats.LastStudyDate),
		time.Now().UTC(),
		id,
	)
	if err != nil {
		log.Error("failed to update user stats",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		log.Debug("user not found for stats update",
			slog.String("user_id", id.String()))
		return err
	}

	return nil
}

// nullableTime maps the zero time to SQL NULL so "never studied" is not
// persisted as year one.
func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

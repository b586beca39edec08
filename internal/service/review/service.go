// Package review processes graded card reviews: it folds the new grade into
// the card's review history, appends the resulting log entry, and keeps the
// per-deck counters and the user's study streak in step, all atomically.
package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/fukushu-app/fukushu-api/internal/domain"
	"github.com/fukushu-app/fukushu-api/internal/domain/fsrs"
	"github.com/fukushu-app/fukushu-api/internal/events"
	"github.com/fukushu-app/fukushu-api/internal/platform/logger"
	"github.com/fukushu-app/fukushu-api/internal/service/params"
	"github.com/fukushu-app/fukushu-api/internal/store"
)

// skipStabilityFloor is the minimum stability a skipped card is parked at.
// Skipping means "I know this"; the floor pushes the card roughly a year
// out even when its prior stability was low.
const skipStabilityFloor = 365

// Result is the caller-facing outcome of a processed review.
type Result struct {
	State        domain.CardState `json:"state"`
	Due          time.Time        `json:"due"`
	IntervalDays int              `json:"interval_days"`
}

// RNGFactory supplies a randomness source for one scheduling computation.
// A nil factory disables interval fuzzing.
type RNGFactory func() *rand.Rand

// ReviewService is the interface consumed by the HTTP layer.
type ReviewService interface {
	// ProcessReview grades a card and returns its next scheduling state.
	ProcessReview(
		ctx context.Context,
		userID, cardID uuid.UUID,
		grade domain.Grade,
		durationSeconds int,
		now time.Time,
	) (*Result, error)

	// SkipCard parks a card at the maximum interval without counting it
	// as a study event.
	SkipCard(ctx context.Context, userID, cardID uuid.UUID, now time.Time) (*Result, error)
}

// Service implements review processing, lapse tracking, and card skipping.
type Service struct {
	tx         store.TxRunner
	users      store.UserStore
	cards      store.CardStore
	logs       store.ReviewLogStore
	deckStates store.UserDeckStateStore
	params     *params.Service
	newRNG     RNGFactory
	locks      *keyedMutex
	emitter    events.Emitter
	logger     *slog.Logger
}

var _ ReviewService = (*Service)(nil)

// SetEventEmitter attaches an emitter that receives an event after each
// committed review. A nil emitter disables emission.
func (s *Service) SetEventEmitter(emitter events.Emitter) {
	s.emitter = emitter
}

// NewService creates a review service.
func NewService(
	tx store.TxRunner,
	users store.UserStore,
	cards store.CardStore,
	logs store.ReviewLogStore,
	deckStates store.UserDeckStateStore,
	paramsService *params.Service,
	newRNG RNGFactory,
	logger *slog.Logger,
) *Service {
	if tx == nil {
		panic("tx cannot be nil")
	}
	if users == nil {
		panic("users cannot be nil")
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
		tx:         tx,
		users:      users,
		cards:      cards,
		logs:       logs,
		deckStates: deckStates,
		params:     paramsService,
		newRNG:     newRNG,
		locks:      newKeyedMutex(),
		logger:     logger.With(slog.String("component", "review_service")),
	}
}

// ProcessReview folds a new grade into the card's history. It reads the
// latest log entry, schedules the next review, appends the new entry, and
// updates the deck counters and user streak in one transaction.
//
// When the card's non-deleted Again count reaches the lapse threshold after
// an Again grade, the returned state is New; the persisted entry still
// records the transition-table state so history stays replayable.
func (s *Service) ProcessReview(
	ctx context.Context,
	userID, cardID uuid.UUID,
	grade domain.Grade,
	durationSeconds int,
	now time.Time,
) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !grade.IsValid() {
		return nil, fmt.Errorf("%w: grade %d", domain.ErrInvalidGrade, int(grade))
	}

	unlock := s.locks.Lock(userID, cardID)
	defer unlock()

	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}

	resolved, err := s.params.Resolve(ctx, userID, card.DeckID)
	if err != nil {
		return nil, err
	}

	var rng *rand.Rand
	if s.newRNG != nil {
		rng = s.newRNG()
	}
	scheduler := fsrs.NewScheduler(resolved, rng)

	var result *Result
	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		logs := s.logs.WithTx(tx)
		deckStates := s.deckStates.WithTx(tx)
		users := s.users.WithTx(tx)

		latest, err := latestEntry(ctx, logs, userID, cardID)
		if err != nil {
			return err
		}
		prev := snapshotOf(latest)

		outcome, err := fsrs.Schedule(resolved, prev, grade, now, scheduler)
		if err != nil {
			log.Error("scheduling computation failed",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()),
				slog.String("card_id", cardID.String()))
			return err
		}

		entry := &domain.ReviewLog{
			ID:              uuid.New(),
			UserID:          userID,
			CardID:          cardID,
			Grade:           grade,
			State:           outcome.State,
			Due:             outcome.Due,
			Stability:       outcome.Stability,
			Difficulty:      outcome.Difficulty,
			ElapsedDays:     outcome.ElapsedDays,
			ScheduledDays:   outcome.IntervalDays,
			ReviewedAt:      now,
			DurationSeconds: durationSeconds,
			CreatedAt:       time.Now().UTC(),
		}
		if latest != nil {
			entry.LastElapsedDays = latest.ElapsedDays
		}
		if err := logs.Insert(ctx, entry); err != nil {
			return err
		}

		prevState := domain.StateNew
		if prev != nil {
			prevState = prev.State
		}
		delta := domain.TransitionDelta(prevState, outcome.State, latest != nil)
		if err := deckStates.ApplyReview(ctx, userID, card.DeckID, delta, now); err != nil {
			return err
		}

		returnedState := outcome.State
		if grade == domain.GradeAgain {
			lapsed, err := s.checkLapse(ctx, logs, userID, cardID, resolved.LapseThreshold)
			if err != nil {
				return err
			}
			if lapsed {
				log.Info("lapse threshold reached, card reset to new",
					slog.String("user_id", userID.String()),
					slog.String("card_id", cardID.String()),
					slog.Int("threshold", resolved.LapseThreshold))
				returnedState = domain.StateNew
			}
		}

		if err := s.updateStreak(ctx, users, userID, now); err != nil {
			return err
		}

		result = &Result{
			State:        returnedState,
			Due:          outcome.Due,
			IntervalDays: outcome.IntervalDays,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emitReviewEvent(ctx, userID, cardID, grade, result, now)

	log.Debug("review processed",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Int("grade", int(grade)),
		slog.Int("state", int(result.State)),
		slog.Int("interval_days", result.IntervalDays))

	return result, nil
}

// emitReviewEvent publishes a committed review to the attached emitter.
// Emission failures are logged, never surfaced: the review itself already
// succeeded.
func (s *Service) emitReviewEvent(
	ctx context.Context,
	userID, cardID uuid.UUID,
	grade domain.Grade,
	result *Result,
	now time.Time,
) {
	if s.emitter == nil {
		return
	}

	event := events.NewReviewEvent(userID, cardID, grade, result.State, result.Due, now)
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Warn("review event emission failed",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
	}
}

// SkipCard pushes a card far into the future without treating it as a
// normal success. The persisted entry is Easy-graded in state Review with
// the interval forced to MaximumInterval and stability raised to at least
// skipStabilityFloor; difficulty is carried over unchanged. Skips do not
// touch the user's study streak.
func (s *Service) SkipCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	now time.Time,
) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	unlock := s.locks.Lock(userID, cardID)
	defer unlock()

	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}

	resolved, err := s.params.Resolve(ctx, userID, card.DeckID)
	if err != nil {
		return nil, err
	}

	var result *Result
	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		logs := s.logs.WithTx(tx)
		deckStates := s.deckStates.WithTx(tx)

		latest, err := latestEntry(ctx, logs, userID, cardID)
		if err != nil {
			return err
		}

		stability := float64(skipStabilityFloor)
		difficulty := fsrs.InitialDifficulty(resolved.Weights, domain.GradeEasy)
		var elapsedDays float64
		prevState := domain.StateNew
		if latest != nil {
			if latest.Stability > stability {
				stability = latest.Stability
			}
			difficulty = latest.Difficulty
			prevState = latest.State
			elapsedDays = now.Sub(latest.ReviewedAt).Hours() / 24
			if elapsedDays < 0 {
				elapsedDays = 0
			}
		}

		interval := resolved.MaximumInterval
		due := now.AddDate(0, 0, interval)

		entry := &domain.ReviewLog{
			ID:            uuid.New(),
			UserID:        userID,
			CardID:        cardID,
			Grade:         domain.GradeEasy,
			State:         domain.StateReview,
			Due:           due,
			Stability:     stability,
			Difficulty:    difficulty,
			ElapsedDays:   elapsedDays,
			ScheduledDays: interval,
			ReviewedAt:    now,
			CreatedAt:     time.Now().UTC(),
		}
		if latest != nil {
			entry.LastElapsedDays = latest.ElapsedDays
		}
		if err := logs.Insert(ctx, entry); err != nil {
			return err
		}

		delta := domain.TransitionDelta(prevState, domain.StateReview, latest != nil)
		if err := deckStates.ApplyReview(ctx, userID, card.DeckID, delta, now); err != nil {
			return err
		}

		result = &Result{
			State:        domain.StateReview,
			Due:          due,
			IntervalDays: interval,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Grade zero marks the event as a skip rather than a graded review.
	s.emitReviewEvent(ctx, userID, cardID, 0, result, now)

	log.Debug("card skipped",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Int("interval_days", result.IntervalDays))

	return result, nil
}

// checkLapse reports whether the card's non-deleted Again count has reached
// the lapse threshold.
func (s *Service) checkLapse(
	ctx context.Context,
	logs store.ReviewLogStore,
	userID, cardID uuid.UUID,
	threshold int,
) (bool, error) {
	count, err := logs.CountAgain(ctx, userID, cardID)
	if err != nil {
		return false, err
	}
	return count >= threshold, nil
}

// updateStreak advances the user's lifetime counters for one processed
// review. Streak arithmetic runs over local study days: a review on the
// same day keeps the streak, the day after extends it, anything later
// restarts it at one.
func (s *Service) updateStreak(
	ctx context.Context,
	users store.UserStore,
	userID uuid.UUID,
	now time.Time,
) error {
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	stats := user.Stats
	stats.TotalReviews++

	switch {
	case stats.LastStudyDate.IsZero():
		stats.StudyStreak = 1
	case domain.SameStudyDay(stats.LastStudyDate, now):
		// Already counted today.
	case domain.SameStudyDay(stats.LastStudyDate, domain.LocalMidnight(now).AddDate(0, 0, -1)):
		stats.StudyStreak++
	default:
		stats.StudyStreak = 1
	}
	if stats.StudyStreak > stats.LongestStreak {
		stats.LongestStreak = stats.StudyStreak
	}
	stats.LastStudyDate = now

	return users.UpdateStats(ctx, userID, stats)
}

// latestEntry loads the card's latest non-deleted log entry. A card with no
// history yields nil rather than an error.
func latestEntry(
	ctx context.Context,
	logs store.ReviewLogStore,
	userID, cardID uuid.UUID,
) (*domain.ReviewLog, error) {
	latest, err := logs.GetLatest(ctx, userID, cardID)
	if err != nil {
		if errors.Is(err, store.ErrReviewLogNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return latest, nil
}

// snapshotOf converts a log entry into the scheduling snapshot the engine
// consumes. A nil entry maps to a nil snapshot (state New).
func snapshotOf(entry *domain.ReviewLog) *fsrs.Snapshot {
	if entry == nil {
		return nil
	}
	return &fsrs.Snapshot{
		State:      entry.State,
		Stability:  entry.Stability,
		Difficulty: entry.Difficulty,
		ReviewedAt: entry.ReviewedAt,
	}
}

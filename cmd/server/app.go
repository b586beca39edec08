package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/fukushu-app/fukushu-api/internal/config"
	"github.com/fukushu-app/fukushu-api/internal/events"
	"github.com/fukushu-app/fukushu-api/internal/platform/postgres"
	"github.com/fukushu-app/fukushu-api/internal/service/auth"
	"github.com/fukushu-app/fukushu-api/internal/service/params"
	"github.com/fukushu-app/fukushu-api/internal/service/review"
	"github.com/fukushu-app/fukushu-api/internal/service/study"
	"github.com/fukushu-app/fukushu-api/internal/store"
)

// application holds the shared dependencies the server wires together at
// startup.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore      store.UserStore
	deckStore      store.DeckStore
	cardStore      store.CardStore
	reviewLogStore store.ReviewLogStore
	deckStateStore store.UserDeckStateStore

	tokenVerifier *auth.TokenVerifier
	paramsService *params.Service
	reviewService *review.Service
	studyService  *study.Service
}

// initializeApp loads configuration, sets up logging, connects to the
// database, and wires the service graph.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	logger.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))

	db, err := setupAppDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	tokenVerifier, err := auth.NewTokenVerifier(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create token verifier: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, logger)
	deckStore := postgres.NewPostgresDeckStore(db, logger)
	cardStore := postgres.NewPostgresCardStore(db, logger)
	reviewLogStore := postgres.NewPostgresReviewLogStore(db, logger)
	deckStateStore := postgres.NewPostgresUserDeckStateStore(db, logger)

	paramsService := params.NewService(userStore, deckStore, logger)

	// Each scheduling computation gets its own time-seeded source so
	// concurrent reviews never share RNG state.
	newRNG := func() *rand.Rand {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	reviewService := review.NewService(
		store.NewSQLTxRunner(db),
		userStore,
		cardStore,
		reviewLogStore,
		deckStateStore,
		paramsService,
		newRNG,
		logger,
	)

	emitter := events.NewInMemoryEmitter(logger)
	emitter.RegisterHandler(events.NewLoggingHandler(logger))
	reviewService.SetEventEmitter(emitter)

	studyService := study.NewService(
		userStore,
		deckStore,
		cardStore,
		reviewLogStore,
		deckStateStore,
		paramsService,
		logger,
	)

	return &application{
		config:         cfg,
		logger:         logger,
		db:             db,
		userStore:      userStore,
		deckStore:      deckStore,
		cardStore:      cardStore,
		reviewLogStore: reviewLogStore,
		deckStateStore: deckStateStore,
		tokenVerifier:  tokenVerifier,
		paramsService:  paramsService,
		reviewService:  reviewService,
		studyService:   studyService,
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
		}
	}
}

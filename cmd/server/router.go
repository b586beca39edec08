package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/fukushu-app/fukushu-api/internal/api"
	apimiddleware "github.com/fukushu-app/fukushu-api/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   app.config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	authMiddleware := apimiddleware.NewAuthMiddleware(app.tokenVerifier)

	reviewHandler := api.NewReviewHandler(app.reviewService, app.logger)
	studyHandler := api.NewStudyHandler(app.studyService, app.logger)
	paramsHandler := api.NewParamsHandler(app.paramsService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Review endpoints
			r.Post("/cards/{id}/review", reviewHandler.SubmitReview)
			r.Post("/cards/{id}/skip", reviewHandler.SkipCard)

			// Study queue endpoints
			r.Get("/decks/{id}/due-cards", studyHandler.GetDueCards)

			// Scheduling parameter endpoints
			r.Get("/params", paramsHandler.GetUserParameters)
			r.Put("/params", paramsHandler.UpdateUserParameters)
			r.Put("/decks/{id}/params", paramsHandler.UpdateDeckParameters)
			r.Delete("/decks/{id}/params", paramsHandler.ClearDeckParameters)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}

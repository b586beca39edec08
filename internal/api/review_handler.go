package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fukushu-app/fukushu-api/internal/api/middleware"
	"github.com/fukushu-app/fukushu-api/internal/api/shared"
	"github.com/fukushu-app/fukushu-api/internal/domain"
	"github.com/fukushu-app/fukushu-api/internal/platform/logger"
	"github.com/fukushu-app/fukushu-api/internal/redact"
	"github.com/fukushu-app/fukushu-api/internal/service/review"
)

// ReviewRequest represents the request body for grading a card.
type ReviewRequest struct {
	Grade                 string `json:"grade"                   validate:"required,oneof=again hard good easy"`
	ReviewDurationSeconds int    `json:"review_duration_seconds" validate:"gte=0"`
}

// ReviewResponse represents the scheduling outcome returned to the client.
type ReviewResponse struct {
	State        string    `json:"state"`
	Due          time.Time `json:"due"`
	IntervalDays int       `json:"interval_days"`
}

// SkipResponse represents the outcome of skipping a card.
type SkipResponse struct {
	Status       string    `json:"status"`
	Due          time.Time `json:"due"`
	IntervalDays int       `json:"interval_days"`
}

// ReviewHandler handles review-related HTTP requests.
type ReviewHandler struct {
	reviews review.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler. Panics if any dependency
// is nil.
func NewReviewHandler(reviews review.ReviewService, log *slog.Logger) *ReviewHandler {
	if reviews == nil {
		panic("review service cannot be nil for ReviewHandler")
	}
	if log == nil {
		panic("logger cannot be nil for ReviewHandler")
	}

	return &ReviewHandler{
		reviews: reviews,
		logger:  log.With(slog.String("component", "review_handler")),
	}
}

// SubmitReview handles POST /cards/{id}/review requests. It grades the card
// for the authenticated user and returns the next scheduling state.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, ok := cardIDFromPath(w, r, log)
	if !ok {
		return
	}

	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req ReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	grade, err := domain.ParseGrade(req.Grade)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	result, err := h.reviews.ProcessReview(
		r.Context(),
		userID,
		cardID,
		grade,
		req.ReviewDurationSeconds,
		time.Now(),
	)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to process review"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("review processed",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("grade", grade.String()),
		slog.String("state", result.State.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, ReviewResponse{
		State:        result.State.String(),
		Due:          result.Due,
		IntervalDays: result.IntervalDays,
	})
}

// SkipCard handles POST /cards/{id}/skip requests. It pushes the card to
// the maximum interval without affecting the user's streak.
func (h *ReviewHandler) SkipCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, ok := cardIDFromPath(w, r, log)
	if !ok {
		return
	}

	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	result, err := h.reviews.SkipCard(r.Context(), userID, cardID, time.Now())
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to skip card"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("card skipped",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, SkipResponse{
		Status:       "ok",
		Due:          result.Due,
		IntervalDays: result.IntervalDays,
	})
}

// cardIDFromPath extracts and parses the {id} URL parameter. On failure it
// writes the error response and returns ok=false.
func cardIDFromPath(
	w http.ResponseWriter,
	r *http.Request,
	log *slog.Logger,
) (uuid.UUID, bool) {
	pathCardID := chi.URLParam(r, "id")
	if pathCardID == "" {
		log.Warn("card ID not found in URL path")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Card ID is required")
		return uuid.Nil, false
	}

	cardID, err := uuid.Parse(pathCardID)
	if err != nil {
		log.Warn("invalid card ID format", slog.String("card_id", pathCardID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID format")
		return uuid.Nil, false
	}
	return cardID, true
}

package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/fukushu-app/fukushu-api/internal/api/middleware"
	"github.com/fukushu-app/fukushu-api/internal/api/shared"
	"github.com/fukushu-app/fukushu-api/internal/platform/logger"
	"github.com/fukushu-app/fukushu-api/internal/service/study"
)

// DueCardsResponse lists the card IDs selected for today's study session,
// new cards first.
type DueCardsResponse struct {
	CardIDs []string `json:"card_ids"`
}

// StudyHandler handles study queue HTTP requests.
type StudyHandler struct {
	study  study.StudyService
	logger *slog.Logger
}

// NewStudyHandler creates a new StudyHandler. Panics if any dependency
// is nil.
func NewStudyHandler(studyService study.StudyService, log *slog.Logger) *StudyHandler {
	if studyService == nil {
		panic("study service cannot be nil for StudyHandler")
	}
	if log == nil {
		panic("logger cannot be nil for StudyHandler")
	}

	return &StudyHandler{
		study:  studyService,
		logger: log.With(slog.String("component", "study_handler")),
	}
}

// GetDueCards handles GET /decks/{id}/due-cards requests. It returns the
// quota-limited list of cards the user should study now.
func (h *StudyHandler) GetDueCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	deckID, ok := deckIDFromPath(w, r, log)
	if !ok {
		return
	}

	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	cardIDs, err := h.study.GetDueCards(r.Context(), userID, deckID, time.Now())
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to build study queue"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	ids := make([]string, 0, len(cardIDs))
	for _, id := range cardIDs {
		ids = append(ids, id.String())
	}

	log.Debug("study queue built",
		slog.String("user_id", userID.String()),
		slog.String("deck_id", deckID.String()),
		slog.Int("count", len(ids)))
	shared.RespondWithJSON(w, r, http.StatusOK, DueCardsResponse{CardIDs: ids})
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fukushu-app/fukushu-api/internal/api/middleware"
	"github.com/fukushu-app/fukushu-api/internal/api/shared"
	"github.com/fukushu-app/fukushu-api/internal/domain"
	"github.com/fukushu-app/fukushu-api/internal/platform/logger"
	"github.com/fukushu-app/fukushu-api/internal/redact"
	"github.com/fukushu-app/fukushu-api/internal/service/params"
)

// ParamsHandler handles scheduling-parameter HTTP requests.
type ParamsHandler struct {
	params params.ParamsService
	logger *slog.Logger
}

// NewParamsHandler creates a new ParamsHandler. Panics if any dependency
// is nil.
func NewParamsHandler(paramsService params.ParamsService, log *slog.Logger) *ParamsHandler {
	if paramsService == nil {
		panic("params service cannot be nil for ParamsHandler")
	}
	if log == nil {
		panic("logger cannot be nil for ParamsHandler")
	}

	return &ParamsHandler{
		params: paramsService,
		logger: log.With(slog.String("component", "params_handler")),
	}
}

// GetUserParameters handles GET /params requests. It returns the
// authenticated user's parameter set.
func (h *ParamsHandler) GetUserParameters(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	parameters, err := h.params.GetUserParameters(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, parameters)
}

// UpdateUserParameters handles PUT /params requests. The body is a partial
// parameter set; omitted fields keep their stored values.
func (h *ParamsHandler) UpdateUserParameters(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var patch domain.FSRSParametersPatch
	if err := shared.DecodeJSON(r, &patch); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	merged, err := h.params.UpdateUserParameters(r.Context(), userID, patch)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, merged)
}

// UpdateDeckParameters handles PUT /decks/{id}/params requests. The merged
// set is stored as the deck's override of the owner's defaults.
func (h *ParamsHandler) UpdateDeckParameters(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	deckID, ok := deckIDFromPath(w, r, log)
	if !ok {
		return
	}

	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var patch domain.FSRSParametersPatch
	if err := shared.DecodeJSON(r, &patch); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()),
			slog.String("deck_id", deckID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	merged, err := h.params.UpdateDeckParameters(r.Context(), userID, deckID, patch)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, merged)
}

// ClearDeckParameters handles DELETE /decks/{id}/params requests. The deck
// falls back to its owner's parameter set.
func (h *ParamsHandler) ClearDeckParameters(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	deckID, ok := deckIDFromPath(w, r, log)
	if !ok {
		return
	}

	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	if err := h.params.ClearDeckParameters(r.Context(), userID, deckID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// deckIDFromPath extracts and parses the {id} URL parameter. On failure it
// writes the error response and returns ok=false.
func deckIDFromPath(
	w http.ResponseWriter,
	r *http.Request,
	log *slog.Logger,
) (uuid.UUID, bool) {
	pathDeckID := chi.URLParam(r, "id")
	if pathDeckID == "" {
		log.Warn("deck ID not found in URL path")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Deck ID is required")
		return uuid.Nil, false
	}

	deckID, err := uuid.Parse(pathDeckID)
	if err != nil {
		log.Warn("invalid deck ID format", slog.String("deck_id", pathDeckID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID format")
		return uuid.Nil, false
	}
	return deckID, true
}

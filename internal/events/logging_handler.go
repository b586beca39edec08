package events

import (
	"context"
	"log/slog"
)

// LoggingHandler writes one structured log line per completed review. It is
// the default consumer wired in at startup.
type LoggingHandler struct {
	logger *slog.Logger
}

// NewLoggingHandler creates a LoggingHandler.
func NewLoggingHandler(logger *slog.Logger) *LoggingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingHandler{
		logger: logger.With("component", "review_event_log"),
	}
}

// HandleEvent implements Handler.
func (h *LoggingHandler) HandleEvent(_ context.Context, event *ReviewEvent) error {
	h.logger.Info("review completed",
		slog.String("event_id", event.ID.String()),
		slog.String("user_id", event.UserID.String()),
		slog.String("card_id", event.CardID.String()),
		slog.Int("grade", int(event.Grade)),
		slog.String("state", event.State.String()),
		slog.Time("due", event.Due))
	return nil
}

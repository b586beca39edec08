package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fukushu-app/fukushu-api/internal/domain"
)

type captureHandler struct {
	events []*ReviewEvent
	err    error
}

func (h *captureHandler) HandleEvent(_ context.Context, event *ReviewEvent) error {
	h.events = append(h.events, event)
	return h.err
}

func newTestEmitter() *InMemoryEmitter {
	return NewInMemoryEmitter(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestEmitEventDeliversToAllHandlers(t *testing.T) {
	t.Parallel()

	emitter := newTestEmitter()
	first := &captureHandler{}
	second := &captureHandler{}
	emitter.RegisterHandler(first)
	emitter.RegisterHandler(second)

	event := NewReviewEvent(
		uuid.New(), uuid.New(),
		domain.GradeGood, domain.StateReview,
		time.Now().AddDate(0, 0, 3), time.Now())

	require.NoError(t, emitter.EmitEvent(context.Background(), event))
	require.Len(t, first.events, 1)
	require.Len(t, second.events, 1)
	assert.Equal(t, event.ID, first.events[0].ID)
	assert.Equal(t, domain.GradeGood, first.events[0].Grade)
}

func TestEmitEventContinuesPastFailingHandler(t *testing.T) {
	t.Parallel()

	emitter := newTestEmitter()
	failing := &captureHandler{err: errors.New("handler broke")}
	healthy := &captureHandler{}
	emitter.RegisterHandler(failing)
	emitter.RegisterHandler(healthy)

	event := NewReviewEvent(
		uuid.New(), uuid.New(),
		domain.GradeAgain, domain.StateRelearning,
		time.Now(), time.Now())

	err := emitter.EmitEvent(context.Background(), event)
	assert.Error(t, err)
	assert.Len(t, healthy.events, 1, "later handlers still receive the event")
}

func TestEmitEventNoHandlers(t *testing.T) {
	t.Parallel()

	emitter := newTestEmitter()
	event := NewReviewEvent(
		uuid.New(), uuid.New(),
		domain.GradeEasy, domain.StateReview,
		time.Now(), time.Now())

	assert.NoError(t, emitter.EmitEvent(context.Background(), event))
}

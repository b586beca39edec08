package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fukushu-app/fukushu-api/internal/api/shared"
	"github.com/fukushu-app/fukushu-api/internal/domain"
	"github.com/fukushu-app/fukushu-api/internal/service/review"
	"github.com/fukushu-app/fukushu-api/internal/store"
)

// mockReviewService is a function-field mock of review.ReviewService.
type mockReviewService struct {
	processReviewFn func(ctx context.Context, userID, cardID uuid.UUID, grade domain.Grade, durationSeconds int, now time.Time) (*review.Result, error)
	skipCardFn      func(ctx context.Context, userID, cardID uuid.UUID, now time.Time) (*review.Result, error)
}

func (m *mockReviewService) ProcessReview(
	ctx context.Context,
	userID, cardID uuid.UUID,
	grade domain.Grade,
	durationSeconds int,
	now time.Time,
) (*review.Result, error) {
	return m.processReviewFn(ctx, userID, cardID, grade, durationSeconds, now)
}

func (m *mockReviewService) SkipCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	now time.Time,
) (*review.Result, error) {
	return m.skipCardFn(ctx, userID, cardID, now)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// serveReview routes the request through a chi router so URL parameters
// resolve the same way they do in production.
func serveReview(
	t *testing.T,
	svc review.ReviewService,
	method, target string,
	body []byte,
	userID uuid.UUID,
) *httptest.ResponseRecorder {
	t.Helper()

	handler := NewReviewHandler(svc, testLogger())
	router := chi.NewRouter()
	router.Post("/cards/{id}/review", handler.SubmitReview)
	router.Post("/cards/{id}/skip", handler.SkipCard)

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if userID != uuid.Nil {
		ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
		req = req.WithContext(ctx)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestSubmitReview(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	cardID := uuid.New()
	due := time.Now().Add(72 * time.Hour).UTC()

	tests := []struct {
		name           string
		body           string
		userIDInCtx    uuid.UUID
		serviceResult  *review.Result
		serviceError   error
		expectedStatus int
		expectedState  string
	}{
		{
			name:        "good grade schedules review",
			body:        `{"grade":"good","review_duration_seconds":12}`,
			userIDInCtx: userID,
			serviceResult: &review.Result{
				State:        domain.StateReview,
				Due:          due,
				IntervalDays: 3,
			},
			expectedStatus: http.StatusOK,
			expectedState:  "review",
		},
		{
			name:           "unknown grade rejected",
			body:           `{"grade":"perfect"}`,
			userIDInCtx:    userID,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing grade rejected",
			body:           `{"review_duration_seconds":5}`,
			userIDInCtx:    userID,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed body rejected",
			body:           `{"grade":`,
			userIDInCtx:    userID,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing user ID",
			body:           `{"grade":"good"}`,
			userIDInCtx:    uuid.Nil,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "card not found",
			body:           `{"grade":"good"}`,
			userIDInCtx:    userID,
			serviceError:   store.ErrCardNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "unexpected service error",
			body:           `{"grade":"good"}`,
			userIDInCtx:    userID,
			serviceError:   errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := &mockReviewService{
				processReviewFn: func(
					_ context.Context,
					gotUser, gotCard uuid.UUID,
					grade domain.Grade,
					_ int,
					_ time.Time,
				) (*review.Result, error) {
					assert.Equal(t, userID, gotUser)
					assert.Equal(t, cardID, gotCard)
					assert.True(t, grade.IsValid())
					return tc.serviceResult, tc.serviceError
				},
			}

			target := fmt.Sprintf("/cards/%s/review", cardID)
			rr := serveReview(t, svc, http.MethodPost, target, []byte(tc.body), tc.userIDInCtx)

			require.Equal(t, tc.expectedStatus, rr.Code, "body: %s", rr.Body.String())

			if tc.expectedStatus == http.StatusOK {
				var resp ReviewResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tc.expectedState, resp.State)
				assert.Equal(t, 3, resp.IntervalDays)
				assert.WithinDuration(t, due, resp.Due, time.Second)
			}
		})
	}
}

func TestSubmitReviewInvalidCardID(t *testing.T) {
	t.Parallel()

	svc := &mockReviewService{}
	rr := serveReview(t, svc,
		http.MethodPost, "/cards/not-a-uuid/review",
		[]byte(`{"grade":"good"}`), uuid.New())

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSubmitReviewDoesNotLeakInternalErrors(t *testing.T) {
	t.Parallel()

	svc := &mockReviewService{
		processReviewFn: func(
			context.Context, uuid.UUID, uuid.UUID, domain.Grade, int, time.Time,
		) (*review.Result, error) {
			return nil, errors.New("pq: connection to postgres://user:hunter2@db:5432 refused")
		},
	}

	target := fmt.Sprintf("/cards/%s/review", uuid.New())
	rr := serveReview(t, svc, http.MethodPost, target, []byte(`{"grade":"again"}`), uuid.New())

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "hunter2")
	assert.NotContains(t, rr.Body.String(), "postgres://")
}

func TestSkipCard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	cardID := uuid.New()
	due := time.Now().AddDate(0, 0, 36500).UTC()

	tests := []struct {
		name           string
		userIDInCtx    uuid.UUID
		serviceResult  *review.Result
		serviceError   error
		expectedStatus int
	}{
		{
			name:        "skip parks the card",
			userIDInCtx: userID,
			serviceResult: &review.Result{
				State:        domain.StateReview,
				Due:          due,
				IntervalDays: 36500,
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "card not found",
			userIDInCtx:    userID,
			serviceError:   store.ErrCardNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "missing user ID",
			userIDInCtx:    uuid.Nil,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := &mockReviewService{
				skipCardFn: func(
					_ context.Context,
					gotUser, gotCard uuid.UUID,
					_ time.Time,
				) (*review.Result, error) {
					assert.Equal(t, userID, gotUser)
					assert.Equal(t, cardID, gotCard)
					return tc.serviceResult, tc.serviceError
				},
			}

			target := fmt.Sprintf("/cards/%s/skip", cardID)
			rr := serveReview(t, svc, http.MethodPost, target, nil, tc.userIDInCtx)

			require.Equal(t, tc.expectedStatus, rr.Code, "body: %s", rr.Body.String())

			if tc.expectedStatus == http.StatusOK {
				var resp SkipResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, "ok", resp.Status)
				assert.Equal(t, 36500, resp.IntervalDays)
			}
		})
	}
}

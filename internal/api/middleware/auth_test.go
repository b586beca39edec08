package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fukushu-app/fukushu-api/internal/config"
	"github.com/fukushu-app/fukushu-api/internal/service/auth"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func signToken(t *testing.T, secret string, userID uuid.UUID, expiresAt time.Time) string {
	t.Helper()

	claims := jwt.MapClaims{
		"uid": userID.String(),
		"sub": userID.String(),
		"iat": time.Now().Add(-time.Minute).Unix(),
		"exp": expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newTestMiddleware(t *testing.T) *AuthMiddleware {
	t.Helper()

	verifier, err := auth.NewTokenVerifier(config.AuthConfig{JWTSecret: testSecret})
	require.NoError(t, err)
	return NewAuthMiddleware(verifier)
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	// Next handler records the user ID it sees in the request context.
	var seenUserID uuid.UUID
	var seenOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID, seenOK = GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectUserID   bool
	}{
		{
			name:           "valid token",
			authHeader:     "Bearer " + signToken(t, testSecret, userID, time.Now().Add(time.Hour)),
			expectedStatus: http.StatusOK,
			expectUserID:   true,
		},
		{
			name:           "missing header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong scheme",
			authHeader:     "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed token",
			authHeader:     "Bearer not.a.token",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired token",
			authHeader:     "Bearer " + signToken(t, testSecret, userID, time.Now().Add(-time.Hour)),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "token signed with wrong key",
			authHeader:     "Bearer " + signToken(t, "ffffffffffffffffffffffffffffffff", userID, time.Now().Add(time.Hour)),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	m := newTestMiddleware(t)

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			seenUserID, seenOK = uuid.Nil, false

			req := httptest.NewRequest(http.MethodGet, "/params", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}

			rr := httptest.NewRecorder()
			m.Authenticate(next).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "body: %s", rr.Body.String())

			if tc.expectUserID {
				assert.True(t, seenOK)
				assert.Equal(t, userID, seenUserID)
			} else {
				assert.False(t, seenOK)
			}
		})
	}
}

func TestAuthenticateCaseInsensitiveBearer(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	m := newTestMiddleware(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/params", nil)
	req.Header.Set("Authorization", "bearer "+signToken(t, testSecret, userID, time.Now().Add(time.Hour)))

	rr := httptest.NewRecorder()
	m.Authenticate(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGetUserIDWithoutMiddleware(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/params", nil)
	_, ok := GetUserID(req)
	assert.False(t, ok)
}

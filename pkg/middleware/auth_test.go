package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtutil "github.com/Dastan2231/Social_Network/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func protected() (http.Handler, *string) {
	var seen string
	handler := AuthMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims := GetUserFromContext(r.Context()); claims != nil {
			seen = claims.UserID
		}
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &seen
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	token, err := jwtutil.GenerateToken("user-123", testSecret, time.Hour)
	require.NoError(t, err)

	handler, seen := protected()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-123", *seen)
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	handler, seen := protected()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, *seen)
}

func TestAuthMiddlewareBadToken(t *testing.T) {
	handler, _ := protected()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUserFromContextWithoutClaims(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, GetUserFromContext(req.Context()))
}

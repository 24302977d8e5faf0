package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"freight-marketplace-service/internal/auth"
	"freight-marketplace-service/internal/domain"
)

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	})
	h := authMiddleware("secret", zap.NewNop(), next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/shipments", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"authentication required"}`, rec.Body.String())
}

func TestAuthMiddlewareRejectsBadToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a bad token")
	})
	h := authMiddleware("secret", zap.NewNop(), next)

	req := httptest.NewRequest(http.MethodGet, "/api/shipments", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewarePassesIdentity(t *testing.T) {
	var got auth.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.FromContext(r.Context())
		require.True(t, ok)
		got = id
	})
	h := authMiddleware("secret", zap.NewNop(), next)

	token, err := auth.GenerateToken("secret", "user-1", domain.RoleCarrier, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/shipments", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, domain.RoleCarrier, got.Role)
}

func TestAuthMiddlewareLeavesHealthOpen(t *testing.T) {
	ran := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ran = true
	})
	h := authMiddleware("secret", zap.NewNop(), next)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.True(t, ran)
}

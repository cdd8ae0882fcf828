package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nguza/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(globals.JwtSecret)
	require.NoError(t, err)
	return signed
}

func freshClaims(roles ...string) *Claims {
	return &Claims{
		Username: "okello",
		UserID:   "u1234567890",
		Role:     roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestAuthenticate(t *testing.T) {
	var gotUserID string
	var gotRoles []string
	next := func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotUserID, _ = r.Context().Value(globals.UserIDKey).(string)
		gotRoles, _ = r.Context().Value(globals.RoleKey).([]string)
		w.WriteHeader(http.StatusOK)
	}

	t.Run("valid token passes identity through context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, freshClaims("user")))
		rec := httptest.NewRecorder()

		Authenticate(next)(rec, req, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u1234567890", gotUserID)
		assert.Equal(t, []string{"user"}, gotRoles)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Authenticate(next)(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil), nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		// Clients render the message field, so even auth failures are JSON.
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"success":false,"message":"Missing token"}`, rec.Body.String())
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		req.Header.Set("Authorization", "token-without-scheme")
		rec := httptest.NewRecorder()
		Authenticate(next)(rec, req, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := freshClaims("user")
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, claims))
		rec := httptest.NewRecorder()
		Authenticate(next)(rec, req, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	next := func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	}

	t.Run("admin role passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, freshClaims("user", "admin")))
		rec := httptest.NewRecorder()
		RequireAdmin(next)(rec, req, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("plain user is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, freshClaims("user")))
		rec := httptest.NewRecorder()
		RequireAdmin(next)(rec, req, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"success":false,"message":"Admin access required"}`, rec.Body.String())
	})
}

func TestClaimsIsAdmin(t *testing.T) {
	assert.True(t, freshClaims("user", "admin").IsAdmin())
	assert.False(t, freshClaims("user").IsAdmin())
	assert.False(t, freshClaims().IsAdmin())
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-foodorder/models"
	"go-foodorder/utils"
)

func issueToken(t *testing.T, ts *utils.TokenService, role string) string {
	t.Helper()
	token, err := ts.Generate(models.User{
		ID:       primitive.NewObjectID(),
		Email:    "alice@example.com",
		Username: "alice",
		Role:     role,
	})
	require.NoError(t, err)
	return token
}

func TestAuth_MissingHeader(t *testing.T) {
	ts := utils.NewTokenService([]byte("test-secret"))
	handler := Auth(ts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/cart", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_MalformedHeader(t *testing.T) {
	ts := utils.NewTokenService([]byte("test-secret"))
	handler := Auth(ts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest("GET", "/api/cart", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	ts := utils.NewTokenService([]byte("test-secret"))
	handler := Auth(ts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest("GET", "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_ValidTokenAttachesClaims(t *testing.T) {
	ts := utils.NewTokenService([]byte("test-secret"))
	var got *utils.Claims
	handler := Auth(ts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		got = claims
	}))

	req := httptest.NewRequest("GET", "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, ts, models.RoleCustomer))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)
}

func TestAdmin_RejectsCustomer(t *testing.T) {
	ts := utils.NewTokenService([]byte("test-secret"))
	handler := Auth(ts)(Admin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	})))

	req := httptest.NewRequest("GET", "/api/menu/deleted", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, ts, models.RoleCustomer))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdmin_AllowsAdmin(t *testing.T) {
	ts := utils.NewTokenService([]byte("test-secret"))
	reached := false
	handler := Auth(ts)(Admin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	})))

	req := httptest.NewRequest("GET", "/api/menu/deleted", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, ts, models.RoleAdmin))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-foodorder/utils"
)

func newTestLimiter(t *testing.T, max int) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	tokens := utils.NewTokenService([]byte("test-secret"))
	return NewRateLimiter(client, tokens, time.Minute, max), mr
}

func hit(limiter *RateLimiter, remoteAddr string) int {
	handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest("GET", "/api/menu", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimiter_RejectsOverLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, hit(limiter, "10.0.0.1:1234"))
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(limiter, "10.0.0.1:1234"))
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1)

	assert.Equal(t, http.StatusOK, hit(limiter, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, hit(limiter, "10.0.0.2:1234"))
	assert.Equal(t, http.StatusTooManyRequests, hit(limiter, "10.0.0.1:5678"))
}

func TestRateLimiter_IPv4MappedIPv6SharesKey(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1)

	// Both representations of the same address must collide to one key.
	assert.Equal(t, http.StatusOK, hit(limiter, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, hit(limiter, "[::ffff:10.0.0.1]:4321"))
}

func TestRateLimiter_WindowExpires(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1)

	require.Equal(t, http.StatusOK, hit(limiter, "10.0.0.1:1234"))
	require.Equal(t, http.StatusTooManyRequests, hit(limiter, "10.0.0.1:1234"))

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, hit(limiter, "10.0.0.1:1234"))
}

func TestRateLimiter_AuthenticatedUsersKeyedById(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1)
	token := issueToken(t, utils.NewTokenService([]byte("test-secret")), "customer")

	handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Same user from two different addresses shares one counter.
	for i, code := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest("GET", "/api/cart", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		if i == 1 {
			req.RemoteAddr = "10.9.9.9:1234"
		}
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, code, rec.Code)
	}
}

func TestNormalizeClientIP(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"10.0.0.1:1234", "10.0.0.1"},
		{"[::ffff:10.0.0.1]:1234", "10.0.0.1"},
		{"[2001:db8::1]:1234", "2001:db8::1"},
		{"10.0.0.1", "10.0.0.1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeClientIP(tt.in), "input %q", tt.in)
	}
}

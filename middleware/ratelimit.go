package middleware

import (
	"log"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"go-foodorder/utils"
)

// RateLimiter is a hard-reject request-count guard. Counters live in redis so
// concurrent requests increment atomically across the whole process.
type RateLimiter struct {
	client *redis.Client
	tokens *utils.TokenService
	window time.Duration
	max    int64
}

// NewRateLimiter builds a limiter allowing max requests per window per key.
func NewRateLimiter(client *redis.Client, tokens *utils.TokenService, window time.Duration, max int) *RateLimiter {
	return &RateLimiter{
		client: client,
		tokens: tokens,
		window: window,
		max:    int64(max),
	}
}

// Limit is the middleware. The counter key is the authenticated user id when
// a valid token is present, otherwise the normalized client IP. Requests over
// the limit are rejected with 429; nothing is queued or delayed.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "ratelimit:" + rl.keyFor(r)

		ctx := r.Context()
		count, err := rl.client.Incr(ctx, key).Result()
		if err != nil {
			// Counter store being down should not take the API with it.
			log.Printf("rate limiter unavailable: %v", err)
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			rl.client.Expire(ctx, key, rl.window)
		}
		if count > rl.max {
			utils.RespondError(w, http.StatusTooManyRequests, "too many requests, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) keyFor(r *http.Request) string {
	if claims, ok := parseBearer(r, rl.tokens); ok {
		return "user:" + claims.UserID
	}
	return "ip:" + NormalizeClientIP(r.RemoteAddr)
}

// NormalizeClientIP reduces a remote address to a canonical IP string so the
// IPv4-mapped IPv6 form of an address (::ffff:1.2.3.4) counts against the
// same key as its dotted-quad form.
func NormalizeClientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return host
	}
	if v4 := ip.To4(); v4 != nil {
		return v4.String()
	}
	return ip.String()
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestLimiter(limit int) (*RateLimiter, *time.Time) {
	logger := zerolog.Nop()
	rl := NewRateLimiter(limit, &logger)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestRateLimiterAllow(t *testing.T) {
	rl, now := newTestLimiter(2)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))

	*now = now.Add(time.Minute + time.Second)
	assert.True(t, rl.Allow("10.0.0.1"))
}

func TestRateLimiterEvict(t *testing.T) {
	rl, now := newTestLimiter(1)
	rl.Allow("10.0.0.1")

	*now = now.Add(11 * time.Minute)
	rl.evict(10 * time.Minute)

	assert.Empty(t, rl.visitors)
}

func TestRateLimitMiddleware(t *testing.T) {
	rl, _ := newTestLimiter(1)
	handler := RateLimit(rl)(okHandler())

	send := func(forwarded string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		if forwarded != "" {
			req.Header.Set("X-Forwarded-For", forwarded)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send("").Code)
	rec := send("")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"RATE_LIMITED"`)

	assert.Equal(t, http.StatusOK, send("203.0.113.7, 10.0.0.1").Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientIP(req))
}

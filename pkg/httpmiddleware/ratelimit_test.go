package httpmiddleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func hit(h http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = ip + ":12345"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_WindowExhaustion(t *testing.T) {
	h := RateLimit(RateLimitConfig{Max: 3, Window: time.Minute})(okHandler())

	for i := range 3 {
		rec := hit(h, "10.0.0.1")
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
	}

	rec := hit(h, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"code":429,"message":"rate limit exceeded"}`, rec.Body.String())

	// A different client has its own window.
	rec = hit(h, "10.0.0.2")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimit_WindowRotation(t *testing.T) {
	rl := newRateLimiter(RateLimitConfig{Max: 2, Window: time.Minute})
	now := time.Now()

	_, _, ok := rl.take("k", now)
	require.True(t, ok)
	_, _, ok = rl.take("k", now)
	require.True(t, ok)
	_, _, ok = rl.take("k", now.Add(30*time.Second))
	assert.False(t, ok, "window still open")

	remaining, _, ok := rl.take("k", now.Add(time.Minute))
	assert.True(t, ok, "fresh window")
	assert.Equal(t, 1, remaining)
}

func TestRateLimit_Headers(t *testing.T) {
	h := RateLimit(RateLimitConfig{Max: 5, Window: time.Minute})(okHandler())
	rec := hit(h, "10.0.0.3")
	assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
}

func TestRateLimit_ForwardedForKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "127.0.0.1:9999"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientIP(req))

	req.Header.Del("X-Forwarded-For")
	req.Header.Set("X-Real-IP", "203.0.113.8")
	assert.Equal(t, "203.0.113.8", clientIP(req))

	req.Header.Del("X-Real-IP")
	assert.Equal(t, "127.0.0.1", clientIP(req))
}

func TestRateLimit_Eviction(t *testing.T) {
	rl := newRateLimiter(RateLimitConfig{Max: 1, Window: time.Minute})
	now := time.Now()
	rl.take("old", now.Add(-2*time.Minute))
	rl.take("fresh", now)

	rl.evictStale(now)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.clients, "old")
	assert.Contains(t, rl.clients, "fresh")
}

func TestRateLimitWithCleanup_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := RateLimitWithCleanup(ctx, RateLimitConfig{Max: 1, Window: 10 * time.Millisecond})(okHandler())
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.4").Code)
	cancel()
	// The limiter keeps serving after the cleanup goroutine exits.
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.5").Code)
}

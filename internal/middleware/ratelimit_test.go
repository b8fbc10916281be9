package middleware

import (
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

func requestFrom(addr string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = addr
	return req
}

func TestRateLimiter_BurstThen429(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.5, Burst: 2, CleanupInterval: time.Minute}, nil)
	defer rl.Stop()

	h := rl.Middleware()(okHandler())

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, requestFrom("10.0.0.1:1234"))
		require.Equal(t, http.StatusOK, rr.Code, "request %d", i)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, requestFrom("10.0.0.1:5555"))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "2", rr.Header().Get("Retry-After"))
	assert.Contains(t, rr.Body.String(), "error")

	// Otro cliente tiene su propio cupo.
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, requestFrom("10.0.0.2:1234"))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 2, rl.Len())
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 1, CleanupInterval: time.Minute}, nil)
	defer rl.Stop()

	rl.limiter("a")
	rl.limiter("b")
	require.Equal(t, 2, rl.Len())

	rl.cleanup(time.Now())
	assert.Equal(t, 2, rl.Len())

	rl.cleanup(time.Now().Add(3 * time.Minute))
	assert.Equal(t, 0, rl.Len())
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter(DefaultLoginRateConfig(), nil)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}

func TestClientKey(t *testing.T) {
	assert.Equal(t, "10.0.0.1", clientKey(requestFrom("10.0.0.1:80")))
	assert.Equal(t, "10.0.0.1", clientKey(requestFrom("10.0.0.1")))
}

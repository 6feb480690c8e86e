package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"milktracker/internal/structures"
)

func rateLimitConfig(perSec float64, burst int) *structures.Config {
	return &structures.Config{WebServer: structures.Server{RateLimitPerSec: perSec, RateLimitBurst: burst}}
}

func doRequest(h http.Handler, method, remote string) int {
	req := httptest.NewRequest(method, "/meals", nil)
	req.RemoteAddr = remote
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code
}

func TestRateLimitMiddleware_BlocksPostAboveBurst(t *testing.T) {
	metrics := &mockMetrics{}
	h := RateLimitMiddleware(rateLimitConfig(0.001, 2), metrics, dummyHandler("ok"))

	assert.Equal(t, http.StatusOK, doRequest(h, http.MethodPost, "10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, doRequest(h, http.MethodPost, "10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, doRequest(h, http.MethodPost, "10.0.0.1:5002"))
	assert.Equal(t, 1, metrics.rateLimited)

	// other clients have their own bucket
	assert.Equal(t, http.StatusOK, doRequest(h, http.MethodPost, "10.0.0.2:5000"))
}

func TestRateLimitMiddleware_GetPassesThrough(t *testing.T) {
	h := RateLimitMiddleware(rateLimitConfig(0.001, 1), &mockMetrics{}, dummyHandler("ok"))
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doRequest(h, http.MethodGet, "10.0.0.1:5000"))
	}
}

func TestRateLimitMiddleware_DisabledReturnsNext(t *testing.T) {
	next := dummyHandler("ok")
	h := RateLimitMiddleware(rateLimitConfig(0, 0), &mockMetrics{}, next)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doRequest(h, http.MethodPost, "10.0.0.1:5000"))
	}
}

func TestIPRateLimiter_ReusesLimiter(t *testing.T) {
	l := NewIPRateLimiter(1, 1)
	assert.Same(t, l.GetLimiter("a"), l.GetLimiter("a"))
	assert.NotSame(t, l.GetLimiter("a"), l.GetLimiter("b"))
}

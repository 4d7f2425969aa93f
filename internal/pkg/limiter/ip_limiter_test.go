package limiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(h http.Handler, remoteAddr string) int {
	r := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	r.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec.Code
}

func TestMiddleware_RejectsAfterBurst(t *testing.T) {
	rejected := 0
	l := NewIPRateLimiter(rate.Every(time.Hour), 3, WithRejectHook(func() { rejected++ }))
	t.Cleanup(l.Stop)

	h := l.Middleware(okHandler())

	for n := range 3 {
		require.Equal(t, http.StatusOK, doRequest(h, "192.0.2.1:1234"), "request %d", n)
	}
	assert.Equal(t, http.StatusTooManyRequests, doRequest(h, "192.0.2.1:5678"))
	assert.Equal(t, 1, rejected)

	// Another client has its own bucket.
	assert.Equal(t, http.StatusOK, doRequest(h, "198.51.100.7:1234"))
}

func TestMiddleware_ErrorBody(t *testing.T) {
	l := NewIPRateLimiter(rate.Every(time.Hour), 1)
	t.Cleanup(l.Stop)
	h := l.Middleware(okHandler())

	require.Equal(t, http.StatusOK, doRequest(h, "192.0.2.1:1"))

	r := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	r.RemoteAddr = "192.0.2.1:1"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"Too many requests. Please try again later.","code":1007}`, rec.Body.String())
}

func TestSweep_DropsFullBuckets(t *testing.T) {
	l := NewIPRateLimiter(rate.Every(time.Hour), 2)
	t.Cleanup(l.Stop)

	l.GetLimiter("idle")
	l.GetLimiter("busy").Allow()
	require.Equal(t, 2, l.Len())

	removed, remaining := l.sweep(time.Now())
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, remaining)
}

func TestPerMinute(t *testing.T) {
	assert.InDelta(t, 1.0/3.0, float64(PerMinute(20)), 1e-9)
}

func TestStop_Idempotent(t *testing.T) {
	l := NewIPRateLimiter(rate.Inf, 1)
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

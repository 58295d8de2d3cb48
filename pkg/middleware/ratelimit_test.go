package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shop-project/catalog/pkg/httputil"
)

func requestFrom(addr string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/products", nil)
	req.RemoteAddr = addr
	return req
}

func TestRateLimit_RejectsAfterBurst(t *testing.T) {
	h := RateLimit(1, 2, discardLogger())(http.HandlerFunc(okHandler))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestFrom("10.0.0.1:5000"))
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestFrom("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	var resp httputil.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "RATE_LIMITED", resp.Error.Code)

	// Another client has its own bucket.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, requestFrom("10.0.0.2:5000"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_IgnoresForwardedFor(t *testing.T) {
	h := RateLimit(1, 1, discardLogger())(http.HandlerFunc(okHandler))

	first := requestFrom("10.0.0.1:5000")
	first.Header.Set("X-Forwarded-For", "1.1.1.1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	second := requestFrom("10.0.0.1:5000")
	second.Header.Set("X-Forwarded-For", "2.2.2.2")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, second)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestVisitorStore_RefillsAndSweeps(t *testing.T) {
	now := time.Now()
	store := newVisitorStore(1, 1, time.Minute)
	store.now = func() time.Time { return now }

	assert.True(t, store.allow("a"))
	assert.False(t, store.allow("a"))

	now = now.Add(1100 * time.Millisecond)
	assert.True(t, store.allow("a"))

	now = now.Add(2 * time.Minute)
	assert.True(t, store.allow("b"))
	store.mu.Lock()
	_, kept := store.visitors["a"]
	store.mu.Unlock()
	assert.False(t, kept)
}

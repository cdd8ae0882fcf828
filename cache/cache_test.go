package cache

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(ttl time.Duration, bypass ...string) *Cache {
	c := New(ttl, bypass...)
	// The sweeper only matters for long-running processes.
	c.Stop()
	return c
}

func TestCacheGetSet(t *testing.T) {
	c := newTestCache(time.Minute)

	_, _, _, ok := c.Get("/api/listings")
	assert.False(t, ok)

	c.Set("/api/listings", []byte(`{"success":true}`), http.StatusOK, "application/json", 0)

	body, status, contentType, ok := c.Get("/api/listings")
	require.True(t, ok)
	assert.Equal(t, `{"success":true}`, string(body))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", contentType)
}

func TestCacheExpiry(t *testing.T) {
	c := newTestCache(time.Minute)

	c.Set("/api/listings", []byte("x"), http.StatusOK, "application/json", 10*time.Millisecond)
	_, _, _, ok := c.Get("/api/listings")
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, _, _, ok = c.Get("/api/listings")
	assert.False(t, ok)
	// Expired entry was evicted on access.
	assert.Equal(t, 0, c.Len())
}

func TestCacheInvalidateBySubstring(t *testing.T) {
	c := newTestCache(time.Minute)

	c.Set("/api/listings?category=Crops", []byte("a"), 200, "application/json", 0)
	c.Set("/api/listings/lst123", []byte("b"), 200, "application/json", 0)
	c.Set("/api/reference/districts", []byte("c"), 200, "application/json", 0)

	n := c.Invalidate("/api/listings")
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, c.Len())

	_, _, _, ok := c.Get("/api/reference/districts")
	assert.True(t, ok)
}

func TestCacheKeysAreVerbatim(t *testing.T) {
	c := newTestCache(time.Minute)

	// Reordered query parameters are distinct keys on purpose.
	c.Set("/api/listings?a=1&b=2", []byte("x"), 200, "application/json", 0)
	_, _, _, ok := c.Get("/api/listings?b=2&a=1")
	assert.False(t, ok)
}

func countingHandler(hits *int) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		*hits++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"hits":%d}`, *hits)
	}
}

func TestPageMissThenHit(t *testing.T) {
	c := newTestCache(time.Minute)
	hits := 0
	handler := c.Page(time.Minute, countingHandler(&hits))

	first := httptest.NewRecorder()
	handler(first, httptest.NewRequest(http.MethodGet, "/api/listings?category=Crops", nil), nil)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, `{"hits":1}`, first.Body.String())

	second := httptest.NewRecorder()
	handler(second, httptest.NewRequest(http.MethodGet, "/api/listings?category=Crops", nil), nil)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, `{"hits":1}`, second.Body.String())
	assert.Equal(t, 1, hits)

	// Different query string is a different entry.
	third := httptest.NewRecorder()
	handler(third, httptest.NewRequest(http.MethodGet, "/api/listings?category=Inputs", nil), nil)
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
	assert.Equal(t, 2, hits)
}

func TestPageOuterWrapperRunsOnEveryRequest(t *testing.T) {
	c := newTestCache(time.Minute)
	inner := 0
	cached := c.Page(time.Minute, countingHandler(&inner))

	// Per-request side effects (view counters and the like) must be chained
	// outside Page; this pins down that the outer layer fires on HITs too.
	outer := 0
	handler := func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		outer++
		cached(w, r, ps)
	}

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/api/listings/lst123", nil), nil)
	}

	assert.Equal(t, 1, inner)
	assert.Equal(t, 5, outer)
}

func TestPageSkipsNonGet(t *testing.T) {
	c := newTestCache(time.Minute)
	hits := 0
	handler := c.Page(time.Minute, countingHandler(&hits))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodPost, "/api/listings", nil), nil)
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, hits)
	assert.Equal(t, 0, c.Len())
}

func TestPageBypassPrefix(t *testing.T) {
	c := newTestCache(time.Minute, "/api/admin")
	hits := 0
	handler := c.Page(time.Minute, countingHandler(&hits))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/api/admin/listings", nil), nil)
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, hits)
	assert.Equal(t, 0, c.Len())
}

func TestPageSkipsErrorResponses(t *testing.T) {
	c := newTestCache(time.Minute)
	handler := c.Page(time.Minute, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/listings/missing", nil), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, c.Len())
}

func TestInvalidateAfter(t *testing.T) {
	c := newTestCache(time.Minute)
	c.Set("/api/listings?category=Crops", []byte("stale"), 200, "application/json", 0)

	t.Run("successful write invalidates", func(t *testing.T) {
		handler := c.InvalidateAfter("/api/listings", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
			w.WriteHeader(http.StatusCreated)
		})
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodPost, "/api/listings", nil), nil)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("failed write leaves cache alone", func(t *testing.T) {
		c.Set("/api/listings?category=Crops", []byte("kept"), 200, "application/json", 0)
		handler := c.InvalidateAfter("/api/listings", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
			w.WriteHeader(http.StatusBadRequest)
		})
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodPost, "/api/listings", nil), nil)
		assert.Equal(t, 1, c.Len())
	})
}

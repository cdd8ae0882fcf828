package ratelim

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func TestLimit(t *testing.T) {
	rl := NewRateLimiter()
	hits := 0
	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		hits++
		w.WriteHeader(http.StatusOK)
	})

	var last *httptest.ResponseRecorder
	for i := 0; i < 20; i++ {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		handler(last, req, nil)
	}

	assert.Less(t, hits, 20)
	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	// Rejections use the same JSON envelope as every other error.
	assert.JSONEq(t, `{"success":false,"message":"Too many requests"}`, last.Body.String())

	// A different address has its own bucket.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", nil)
	req.RemoteAddr = "10.0.0.2:4000"
	handler(rec, req, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

package cache

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
)

// recorder captures the handler's response so it can be stored.
type recorder struct {
	http.ResponseWriter
	status int
	body   []byte
}

func (rec *recorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *recorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	rec.body = append(rec.body, b...)
	return rec.ResponseWriter.Write(b)
}

// Page serves GET responses from the cache with the given ttl. Non-GET
// requests and bypassed path prefixes pass straight through. Every cacheable
// response is tagged with an X-Cache header.
func (c *Cache) Page(ttl time.Duration, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if r.Method != http.MethodGet || c.bypassed(r.URL.Path) {
			next(w, r, ps)
			return
		}

		key := r.URL.Path
		if r.URL.RawQuery != "" {
			key += "?" + r.URL.RawQuery
		}

		if body, status, contentType, ok := c.Get(key); ok {
			w.Header().Set("Content-Type", contentType)
			w.Header().Set("X-Cache", "HIT")
			w.WriteHeader(status)
			w.Write(body)
			return
		}

		w.Header().Set("X-Cache", "MISS")
		rec := &recorder{ResponseWriter: w}
		next(rec, r, ps)

		// Only successful responses are worth replaying.
		if rec.status == http.StatusOK && len(rec.body) > 0 {
			c.Set(key, rec.body, rec.status, rec.Header().Get("Content-Type"), ttl)
		}
	}
}

// InvalidateAfter runs the write handler and, if it succeeded, drops every
// cached entry for the resource family so the next read recomputes.
func (c *Cache) InvalidateAfter(family string, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		rec := &recorder{ResponseWriter: w}
		next(rec, r, ps)
		if rec.status >= 200 && rec.status < 400 {
			c.Invalidate(family)
		}
	}
}

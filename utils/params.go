package utils

import (
	"net/http"
	"strconv"
)

// ParsePagination reads limit/skip with fallbacks. Malformed values fall back
// to the defaults instead of failing the request.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int64) (skip, limit int64) {
	limit = defaultLimit
	if l, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil && l > 0 {
		limit = l
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if s, err := strconv.ParseInt(r.URL.Query().Get("skip"), 10, 64); err == nil && s >= 0 {
		skip = s
	}
	return skip, limit
}

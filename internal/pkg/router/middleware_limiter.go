package router

import (
	"log/slog"
	"net/http"
)

// middlewareLimiter bounds the number of requests handled at once. Excess
// requests wait for a free slot until their context ends.
func middlewareLimiter(limit int) Middleware {
	if limit < 1 {
		return func(next http.Handler) http.Handler { return next }
	}

	sema := make(chan struct{}, limit)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case sema <- struct{}{}:
				defer func() { <-sema }()
				next.ServeHTTP(w, r)
			case <-r.Context().Done():
				slog.WarnContext(r.Context(), "request dropped while waiting for a worker slot", "error", r.Context().Err())
				writeText(w, "Service unavailable", http.StatusServiceUnavailable)
			}
		})
	}
}

package router

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/pkg/config"
)

// middlewareMaintenance closes the routes listed under app.maintenance.endpoints.
// The list is read per request so an edited config file takes effect without
// a restart.
func middlewareMaintenance(cfg config.Config) Middleware {
	return func(next http.Handler) http.Handler {
		if cfg == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := matchedRoutePath(r)
			closed := slices.ContainsFunc(cfg.GetArray("app.maintenance.endpoints"), func(e string) bool {
				return strings.TrimSpace(e) == route
			})
			if !closed {
				next.ServeHTTP(w, r)
				return
			}

			if after := cfg.GetInt("app.maintenance.retry_after_seconds"); after > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(after))
			}
			writeText(w, "Service is under maintenance", http.StatusServiceUnavailable)
		})
	}
}

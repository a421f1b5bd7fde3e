package router

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
)

// HeaderRequestID is read when a proxy already stamped the request.
const HeaderRequestID = "X-Request-ID"

const maxCorrelationIDLen = 128

// inboundCorrelationID returns a caller supplied id, or "" when it is unusable.
// Only printable ASCII survives so the id is safe to echo in a header and a log line.
func inboundCorrelationID(r *http.Request) string {
	for _, name := range []string{instrument.HeaderCorrelationID, HeaderRequestID} {
		v := strings.TrimSpace(r.Header.Get(name))
		if v == "" {
			continue
		}
		if strings.IndexFunc(v, func(c rune) bool { return c > unicode.MaxASCII || !unicode.IsPrint(c) }) >= 0 {
			continue
		}
		if len(v) > maxCorrelationIDLen {
			v = v[:maxCorrelationIDLen]
		}
		return v
	}
	return ""
}

func middlewareCorrelationID(gen uid.StringID) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := inboundCorrelationID(r)
			if cid == "" && gen != nil {
				cid = gen.Generate()
			}

			if cid != "" {
				w.Header().Set(instrument.HeaderCorrelationID, cid)
				r = r.WithContext(instrument.SetCorrelationID(r.Context(), cid))
			}

			next.ServeHTTP(w, r)
		})
	}
}

package router

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
)

func middlewareAuthentication(verifier jwt.JWT, publicEndpoints map[string]map[string]struct{}) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := matchedRoutePath(r)

			if s, ok := publicEndpoints[r.Method]; ok {
				if _, skip := s[path]; skip {
					next.ServeHTTP(w, r)
					return
				}
			}

			token, msg := bearerToken(r.Header.Get("Authorization"))
			if msg != "" {
				writeText(w, msg, http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(token)
			if errors.Is(err, jwt.ErrTokenExpired) {
				writeText(w, "Token expired", http.StatusUnauthorized)
				return
			}
			if err != nil {
				writeText(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := jwt.SetAuth(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token, or returns the message to send instead.
func bearerToken(header string) (token, msg string) {
	scheme, token, _ := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)

	switch {
	case scheme == "" || (token == "" && strings.EqualFold(scheme, "Bearer")):
		return "", "Missing token"
	case !strings.EqualFold(scheme, "Bearer") || token == "" || strings.ContainsAny(token, " \t"):
		return "", "Invalid token"
	default:
		return token, ""
	}
}

package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// authenticate enforces the shared static bearer token on every /api route.
// Responses stay generic; no token detail is echoed back.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if !strings.HasPrefix(authHeader, "Bearer ") {
			s.logger.Warn("Unauthorized API request from %s", r.RemoteAddr)
			writeError(w, http.StatusUnauthorized, "Unauthorized: Missing or invalid authorization header")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) != 1 {
			s.logger.Warn("Unauthorized API request from %s: Invalid token", r.RemoteAddr)
			writeError(w, http.StatusUnauthorized, "Unauthorized: Invalid API token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

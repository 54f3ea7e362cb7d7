package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/schemaforge/schemaforge/internal/config"
)

// requireAPIKey protects an endpoint with Bearer API-key auth. Auth is
// skipped entirely when require_auth is off. When auth is on but no key is
// configured the server refuses the request rather than failing open.
func (s *Server) requireAPIKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := s.configMgr.Get().Server
		if !cfg.RequireAuth {
			next(w, r)
			return
		}

		expected := config.ResolveEnvVars(cfg.APIKey)
		if expected == "" {
			s.logger.Error("auth required but no API key configured")
			writeAuthError(w, http.StatusInternalServerError, "API key not configured on server")
			return
		}

		got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			writeAuthError(w, http.StatusUnauthorized, "invalid or missing API key")
			return
		}

		next(w, r)
	}
}

// corsMiddleware allows cross-origin requests from any origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}

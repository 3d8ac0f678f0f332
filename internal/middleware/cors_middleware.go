package middleware

import (
	"net/http"
	"strings"

	"countme-core/internal/config"
)

// CORSMiddleware stamps allow headers from the configured policy and answers
// preflight requests directly. The origin list is parsed once at construction;
// a disallowed origin gets no allow headers.
func CORSMiddleware(cfg config.CORSConfig) func(http.Handler) http.Handler {
	allowAny := false
	origins := make(map[string]bool)
	for _, o := range strings.Split(cfg.AllowedOrigins, ",") {
		o = strings.TrimSpace(o)
		if o == "*" {
			allowAny = true
		} else if o != "" {
			origins[o] = true
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case allowAny && origin != "":
				w.Header().Set("Access-Control-Allow-Origin", origin)
			case allowAny:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origins[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", cfg.AllowedMethods)
				w.Header().Set("Access-Control-Allow-Headers", cfg.AllowedHeaders)
				w.Header().Set("Access-Control-Max-Age", "3600")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

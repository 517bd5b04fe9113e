package api

import "net/http"

const (
	corsAllowMethods        = "GET, POST, OPTIONS"
	corsDefaultAllowHeaders = "Content-Type, Authorization"
)

// corsMiddleware implements the configured origin allow-list. Credentials
// are allowed, so a permitted origin is echoed back rather than wildcarded,
// and the method/header lists are spelled out: with credentials a `*` is
// treated as the literal header name, not a wildcard.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	allowAll := false
	allowed := make(map[string]bool, len(s.cfg.Server.AllowOrigins))
	for _, origin := range s.cfg.Server.AllowOrigins {
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The response depends on Origin even when the origin is rejected,
		// so caches must key on it either way.
		w.Header().Add("Vary", "Origin")

		origin := r.Header.Get("Origin")
		if origin != "" && (allowAll || allowed[origin]) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
			allowHeaders := corsDefaultAllowHeaders
			if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
				allowHeaders = requested
			}
			w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

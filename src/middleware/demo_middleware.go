package middleware

import (
	"net/http"

	"fintrack-server/src/util"
)

// ReadOnlyMiddleware rejects writes when the deployment runs as a public demo.
func ReadOnlyMiddleware(readOnly bool) func(http.Handler) http.Handler {
	allowedPosts := map[string]bool{
		"/api/auth/login":    true,
		"/api/auth/register": true,
		"/api/auth/logout":   true,
		"/api/price":         true,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if readOnly && r.Method != http.MethodGet && r.Method != http.MethodOptions {
				if r.Method == http.MethodPost && allowedPosts[r.URL.Path] {
					next.ServeHTTP(w, r)
					return
				}
				util.WriteError(w, http.StatusForbidden, "Mode demo: hanya permintaan GET yang diizinkan")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import "net/http"

// RequireAvailable answers 503 while available reports false. Routes backed
// by the database use it when no database is configured.
func RequireAvailable(available func() bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !available() {
				writeJSONError(w, http.StatusServiceUnavailable, `{"error":"service unavailable"}`)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package handler

import "net/http"

// CORS policy for the embeddable widget. Any origin may call the gateway.
const (
	corsAllowOrigin  = "*"
	corsAllowMethods = "GET,POST,OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization"
)

// corsMiddleware stamps the CORS headers on every response and answers
// preflight requests on any path with an empty 204.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", corsAllowOrigin)
		h.Set("Access-Control-Allow-Methods", corsAllowMethods)
		h.Set("Access-Control-Allow-Headers", corsAllowHeaders)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

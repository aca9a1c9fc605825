package middleware

import "net/http"

// DefaultMaxRequestSize caps request bodies at 1MB. Prompts and responses
// are text; anything larger is not a legitimate request.
const DefaultMaxRequestSize = 1 << 20

// MaxRequestSize limits the size of request bodies.
func MaxRequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

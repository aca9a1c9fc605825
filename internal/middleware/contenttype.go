package middleware

import (
	"net/http"
	"strings"

	"github.com/aieng/conversations-api/internal/api"
)

// ContentType enforces application/json bodies on mutating requests.
func ContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPatch, http.MethodPut:
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				api.WriteError(w, http.StatusUnsupportedMediaType,
					"Content-Type must be application/json", nil)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

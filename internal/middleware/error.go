package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/aieng/conversations-api/internal/api"
)

// Recover creates middleware that converts panics into a 500 response on
// the standard error contract. Panic details stay in the server log.
func Recover(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic_recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)
					api.WriteError(w, http.StatusInternalServerError, "Internal Server Error", nil)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

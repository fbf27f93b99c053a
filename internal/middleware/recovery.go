package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/advisorhq/advisor-crm/pkg/logger"
)

// RecoveryMiddleware converts handler panics into 500 responses.
type RecoveryMiddleware struct {
	logger *logger.Logger
}

// NewRecoveryMiddleware creates a new recovery middleware.
func NewRecoveryMiddleware(log *logger.Logger) *RecoveryMiddleware {
	if log == nil {
		log = logger.NewDefault("http")
	}
	return &RecoveryMiddleware{logger: log}
}

// Handler returns the recovery middleware handler.
func (m *RecoveryMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				m.logger.WithFields(map[string]interface{}{
					"panic":      rec,
					"method":     r.Method,
					"path":       r.URL.Path,
					"request_id": RequestID(r.Context()),
					"stack":      string(debug.Stack()),
				}).Error("recovered from panic")
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

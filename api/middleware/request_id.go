package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/casalia/realty-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// Inbound ids are caller-controlled; anything unparseable is replaced so log
// correlation keys stay uniform.
func normalizeRequestID(raw string) string {
	if _, err := uuid.Parse(raw); err != nil {
		return uuid.NewString()
	}
	return raw
}

// RequestID tags every request with a correlation id, honoring a valid one
// supplied by the caller and echoing it back on the response.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := normalizeRequestID(r.Header.Get(requestIDHeader))
			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

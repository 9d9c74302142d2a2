package middleware

import (
	"log/slog"
	"net/http"

	"hrdash/internal/platform/requestctx"
	"hrdash/internal/transport/http/api"
)

// Recoverer keeps a panicking handler from taking the agent down; the
// dashboard shell sees a structured 500 instead of a dropped connection.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				reqID := requestctx.GetRequestID(r.Context())
				slog.Error("handler panic", "panic", rec, "path", r.URL.Path, "requestId", reqID)
				api.Fail(w, http.StatusInternalServerError, "internal_error", "internal error", reqID)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"log/slog"
	"net/http"

	"medilabel/internal/session"
	dErrors "medilabel/pkg/domain-errors"
	"medilabel/pkg/platform/httputil"
	"medilabel/pkg/requestcontext"
)

// RequireOperator rejects requests on operator-only routes while nobody
// is logged in. The operator's name rides the context for attribution.
func RequireOperator(sess *session.Context, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			op, ok := sess.Operator()
			if !ok {
				logger.WarnContext(r.Context(), "rejected: no operator logged in",
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "log in first"))
				return
			}

			ctx := requestcontext.WithOperator(r.Context(), op.FullName)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"veridesk/internal/session"
	dErrors "veridesk/pkg/domain-errors"
	"veridesk/pkg/platform/httputil"
	"veridesk/pkg/requestcontext"
)

// RequireSession authenticates requests with the console JWT, resolves the
// backing session, and injects it into the request context. The platform
// token never appears in any response; handlers read it off the session.
func RequireSession(sessions *session.Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := bearerToken(r)
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			sess, err := sessions.Resolve(ctx, token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"request_id", requestID,
					"error", err,
				)
				httputil.WriteError(w, err)
				return
			}

			sessions.Touch(ctx, sess)

			ctx = session.NewContext(ctx, sess)
			ctx = requestcontext.WithSessionID(ctx, sess.ID)
			ctx = requestcontext.WithRole(ctx, string(sess.Role))
			if sess.ClientProfile != nil {
				ctx = requestcontext.WithClientID(ctx, sess.ClientProfile.ID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	const bearerPrefix = "Bearer "
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

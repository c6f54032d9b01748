package session

import "context"

type contextKey struct{}

// NewContext attaches the resolved session to the request context. Set by the
// auth middleware after token validation.
func NewContext(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext returns the session attached by the auth middleware, or nil on
// unauthenticated requests.
func FromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(contextKey{}).(*Session)
	return sess
}

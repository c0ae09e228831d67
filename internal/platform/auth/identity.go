package auth

import "context"

// Identity describes the authenticated caller attached to a request.
type Identity struct {
	UserID   uint
	Username string
	Staff    bool
}

type contextKey string

const identityContextKey contextKey = "github.com/loomhaven/api/internal/platform/auth/identity"

// WithIdentity stores the caller identity in the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext retrieves the caller identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(Identity)
	return id, ok
}

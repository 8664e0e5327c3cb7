package utils

import (
	"context"
)

// Identity is the authenticated caller attached to a request after the
// session middleware has resolved the session cookie.
type Identity struct {
	UserID   int64
	Username string
}

type contextKey string

const ContextIdentityKey contextKey = "identity"

func GetIdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(ContextIdentityKey).(Identity)
	return identity, ok
}

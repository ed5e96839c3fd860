// Package auth provides request identity plumbing and password hashing.
package auth

import (
	"context"

	"github.com/sessiongate/sessiongate/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// identityContextKey is the context key for storing Identity.
	identityContextKey contextKey = "identity"
)

// Identity is the per-request authentication state published by the
// session middleware. Both fields are nil for unauthenticated requests;
// a non-nil Session always comes with a non-nil User.
type Identity struct {
	User    *model.User
	Session *model.Session
}

// ContextWithIdentity adds an Identity to the context.
func ContextWithIdentity(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, ident)
}

// IdentityFromContext retrieves the Identity from the context.
// Returns nil if the session middleware has not run.
func IdentityFromContext(ctx context.Context) *Identity {
	ident, ok := ctx.Value(identityContextKey).(*Identity)
	if !ok {
		return nil
	}
	return ident
}

// UserFromContext is a convenience function to get the authenticated
// user from context. Returns nil if not authenticated.
func UserFromContext(ctx context.Context) *model.User {
	ident := IdentityFromContext(ctx)
	if ident == nil {
		return nil
	}
	return ident.User
}

// SessionFromContext is a convenience function to get the current
// session from context. Returns nil if not authenticated.
func SessionFromContext(ctx context.Context) *model.Session {
	ident := IdentityFromContext(ctx)
	if ident == nil {
		return nil
	}
	return ident.Session
}

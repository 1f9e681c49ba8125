package auth

import (
	"context"

	"bank-ledger/internal/domain"
)

type contextKey struct{}

var identityKey contextKey

// WithIdentity returns a context carrying the resolved caller identity.
func WithIdentity(ctx context.Context, identity *domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFrom extracts the caller identity set by the middleware.
func IdentityFrom(ctx context.Context) (*domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*domain.Identity)
	return identity, ok
}

package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/jocril/storefront-backend/internal/auth"
	"github.com/jocril/storefront-backend/pkg/enums"
)

type contextKey string

const ctxPrincipal contextKey = "principal"

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (auth.Principal, bool) {
	if ctx == nil {
		return auth.Principal{}, false
	}
	principal, ok := ctx.Value(ctxPrincipal).(auth.Principal)
	return principal, ok
}

// WithPrincipal injects the authenticated principal into the context.
func WithPrincipal(ctx context.Context, principal auth.Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, principal)
}

// ActorFromContext returns the principal's identifiers for event attribution.
func ActorFromContext(ctx context.Context) (uuid.UUID, enums.UserRole) {
	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		return uuid.Nil, ""
	}
	return principal.UserID, principal.Role
}

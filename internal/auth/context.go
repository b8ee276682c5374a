package auth

import (
	"context"

	apperrors "centralvendas/internal/errors"
)

// Principal is the caller identity taken from the access token. Every
// tenant-scoped query uses TenantID.
type Principal struct {
	TenantID string
	UserID   string
	Role     string
}

type contextKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok && p.TenantID != ""
}

// RequirePrincipal is PrincipalFromContext for handlers that cannot run
// without a tenant.
func RequirePrincipal(ctx context.Context) (Principal, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return Principal{}, apperrors.NewUnauthorizedError("missing tenant context")
	}
	return p, nil
}

package auth

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	apperrors "centralvendas/internal/errors"
	"centralvendas/internal/httpx"
	"centralvendas/internal/infrastructure/logger"
)

type Verifier interface {
	Verify(token string) (Principal, error)
}

// Middleware rejects requests without a valid bearer token and stores the
// principal in the request context.
func Middleware(verifier Verifier, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := httpx.TraceID(r)

			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || strings.TrimSpace(token) == "" {
				httpx.WriteError(w, traceID, apperrors.NewUnauthorizedError("missing bearer token"), log)
				return
			}

			principal, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				log.Warn("rejected access token", zap.String("traceId", traceID), zap.Error(err))
				httpx.WriteError(w, traceID, err, log)
				return
			}

			ctx := WithPrincipal(r.Context(), principal)
			scoped := logger.FromContext(ctx, log).With(
				zap.String("tenantId", principal.TenantID),
				zap.String("userId", principal.UserID),
			)
			ctx = logger.WithContext(ctx, scoped)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

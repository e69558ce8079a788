package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/amara-naturals/storefront-backend/api/responses"
	pkgauth "github.com/amara-naturals/storefront-backend/pkg/auth"
	"github.com/amara-naturals/storefront-backend/pkg/config"
	pkgerrors "github.com/amara-naturals/storefront-backend/pkg/errors"
	"github.com/amara-naturals/storefront-backend/pkg/logger"
)

// AdminAuth validates a bearer token and seeds the request context with the
// admin identity. Every /admin route sits behind this.
func AdminAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if claims.Email == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxAdminEmail, claims.Email)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{"admin_email": claims.Email})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

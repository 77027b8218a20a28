package middleware

import (
	"net/http"
	"strings"

	"github.com/vitalfit/vitalfit-backend/api/responses"
	pkgauth "github.com/vitalfit/vitalfit-backend/pkg/auth"
	"github.com/vitalfit/vitalfit-backend/pkg/config"
	pkgerrors "github.com/vitalfit/vitalfit-backend/pkg/errors"
	"github.com/vitalfit/vitalfit-backend/pkg/logger"
)

// Auth validates a bearer token issued by the external auth provider and
// seeds the request context with the member identity.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
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

			ctx := WithMember(r.Context(), claims.MemberID, claims.IsMember)
			if logg != nil {
				ctx = logg.WithMemberID(ctx, claims.MemberID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/oakline/shopcart-backend/api/responses"
	pkgauth "github.com/oakline/shopcart-backend/pkg/auth"
	"github.com/oakline/shopcart-backend/pkg/config"
	pkgerrors "github.com/oakline/shopcart-backend/pkg/errors"
	"github.com/oakline/shopcart-backend/pkg/logger"
)

const profileTokenHeader = "X-Profile-Token"

// Profile validates the profile token and seeds the request context with the
// shopper's profile id.
func Profile(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(profileTokenHeader))
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing profile token"))
				return
			}

			claims, err := pkgauth.ParseProfileToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid profile token"))
				return
			}

			profileID, err := claims.ProfileID()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid profile subject"))
				return
			}

			ctx := WithProfileID(r.Context(), profileID.String())
			if logg != nil {
				ctx = logg.WithProfileID(ctx, profileID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

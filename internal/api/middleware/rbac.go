package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hasandag/auth-service/internal/api/metrics"
	"github.com/hasandag/auth-service/internal/core/domain"
	"github.com/hasandag/auth-service/pkg/principal"
)

// RequireAnyAuthority lets the request through when the principal holds at
// least one of roles. It must run after Auth.
func RequireAnyAuthority(roles ...domain.RoleName) echo.MiddlewareFunc {
	allowed := make([]string, 0, len(roles))
	for _, r := range roles {
		allowed = append(allowed, r.String())
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := principal.FromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if !p.HasAnyAuthority(allowed...) {
				metrics.AuthorizationDeniedTotal.Inc()
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			return next(c)
		}
	}
}

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hasandag/auth-service/internal/api/metrics"
	"github.com/hasandag/auth-service/pkg/authtoken"
	"github.com/hasandag/auth-service/pkg/principal"
)

// TokenValidator turns a bearer token into the principal it proves.
type TokenValidator interface {
	Validate(token string) (*principal.Principal, error)
}

// Auth validates the bearer token and stores the resulting principal on the
// request context, where handlers and RequireAnyAuthority read it back.
func Auth(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.TokenValidationTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				metrics.TokenValidationTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			p, err := validator.Validate(strings.TrimSpace(parts[1]))
			if err != nil {
				if errors.Is(err, authtoken.ErrTokenExpired) {
					metrics.TokenValidationTotal.WithLabelValues("expired").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
				}
				metrics.TokenValidationTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			metrics.TokenValidationTotal.WithLabelValues("valid").Inc()
			req := c.Request()
			c.SetRequest(req.WithContext(principal.WithPrincipal(req.Context(), p)))
			return next(c)
		}
	}
}

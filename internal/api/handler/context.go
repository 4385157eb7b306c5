package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hasandag/auth-service/pkg/principal"
)

// ctxPrincipal returns the principal the Auth middleware stored on the
// request context. A missing principal means the route was mounted without
// the middleware, which is reported as 401 rather than trusted.
func ctxPrincipal(c echo.Context) (*principal.Principal, error) {
	p, ok := principal.FromContext(c.Request().Context())
	if !ok || p.Subject == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return p, nil
}

func respondOK(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusOK, response{Success: true, Message: message, Data: data})
}

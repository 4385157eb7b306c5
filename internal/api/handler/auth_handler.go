package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hasandag/auth-service/internal/api/metrics"
	"github.com/hasandag/auth-service/internal/core/domain"
	"github.com/hasandag/auth-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signin authenticates a user and returns a bearer token.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signinRequest  true  "Login credentials"
// @Success      200   {object}  response{data=jwtResponse}
// @Failure      400   {object}  response
// @Failure      401   {object}  response
// @Failure      429   {object}  response
// @Router       /api/auth/signin [post]
func (h *AuthHandler) Signin(c echo.Context) error {
	var req signinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.authService.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.SigninTotal.WithLabelValues(signinResult(err)).Inc()
		return err
	}

	metrics.SigninTotal.WithLabelValues("success").Inc()
	return respondOK(c, "signed in", toJWTResponse(res))
}

// Signup registers a new identity.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Registration details"
// @Success      200   {object}  response{data=identityResponse}
// @Failure      400   {object}  response
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.SignupTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	identity, err := h.authService.Register(c.Request().Context(), toRegisterInput(req))
	if err != nil {
		metrics.SignupTotal.WithLabelValues(signupResult(err)).Inc()
		return err
	}

	metrics.SignupTotal.WithLabelValues("success").Inc()
	return respondOK(c, "User registered successfully!", toIdentityResponse(identity))
}

// Me returns the principal decoded from the presented token.
//
// @Summary      Current principal
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response{data=principalResponse}
// @Failure      401  {object}  response
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	return respondOK(c, "authenticated", toPrincipalResponse(p))
}

// Health reports that the auth endpoints are being served.
//
// @Summary      Auth health
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response
// @Router       /api/auth/health [get]
func (h *AuthHandler) Health(c echo.Context) error {
	return respondOK(c, "Auth service is running", nil)
}

func signinResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	default:
		return "error"
	}
}

func signupResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateUsername):
		return "duplicate_username"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return "duplicate_email"
	case errors.Is(err, domain.ErrUnknownRole):
		return "unknown_role"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}

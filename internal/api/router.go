package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/hasandag/auth-service/docs"
	"github.com/hasandag/auth-service/internal/api/handler"
	"github.com/hasandag/auth-service/internal/api/middleware"
	"github.com/hasandag/auth-service/internal/core/domain"
	"github.com/hasandag/auth-service/internal/core/ports"
	infrahttp "github.com/hasandag/auth-service/internal/infrastructure/http"
)

// Deps is everything the HTTP layer needs from the composition root.
type Deps struct {
	AuthService ports.AuthService
	Validator   middleware.TokenValidator
	Checks      map[string]ports.Pinger
	CORSOrigins []string
	Log         zerolog.Logger
	// Registry receives the HTTP request metrics. Nil means the default
	// Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestContext())
	e.Use(middleware.RequestLogger(d.Log))
	promMW, promHandler := prometheusHandlers(d.Registry)
	e.Use(promMW)
	if len(d.CORSOrigins) > 0 {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins: d.CORSOrigins,
			MaxAge:       3600,
		}))
	}

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.AuthService)
	boardHandler := handler.NewBoardHandler()
	requireAuth := middleware.Auth(d.Validator)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/signin", authHandler.Signin)
	auth.POST("/signup", authHandler.Signup)
	auth.GET("/health", authHandler.Health)
	auth.GET("/me", authHandler.Me, requireAuth)

	// --- Role boards ---
	boards := e.Group("/api/test")
	boards.GET("/all", boardHandler.Public)
	boards.GET("/user", boardHandler.User, requireAuth,
		middleware.RequireAnyAuthority(domain.RoleUser, domain.RoleInstructor, domain.RoleAdmin))
	boards.GET("/instructor", boardHandler.Instructor, requireAuth,
		middleware.RequireAnyAuthority(domain.RoleInstructor, domain.RoleAdmin))
	boards.GET("/admin", boardHandler.Admin, requireAuth,
		middleware.RequireAnyAuthority(domain.RoleAdmin))

	// --- Probes, metrics and docs (no auth required) ---
	infrahttp.RegisterProbes(e, d.Checks)
	e.GET("/metrics", promHandler)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func prometheusHandlers(reg *prometheus.Registry) (echo.MiddlewareFunc, echo.HandlerFunc) {
	if reg == nil {
		return echoprometheus.NewMiddleware("auth"), echoprometheus.NewHandler()
	}
	mw := echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "auth",
		Registerer: reg,
	})
	return mw, echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}

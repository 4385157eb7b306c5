package http

import (
	"github.com/labstack/echo/v4"

	"github.com/hasandag/auth-service/internal/core/ports"
	"github.com/hasandag/auth-service/internal/infrastructure/http/handlers"
)

// RegisterProbes mounts the liveness and readiness probes. They sit outside
// every auth group.
func RegisterProbes(e *echo.Echo, checks map[string]ports.Pinger) {
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
}

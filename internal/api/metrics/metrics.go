// Package metrics defines and registers the Prometheus metrics recorded by the
// HTTP layer. Audit dispatcher metrics live with the dispatcher.
//
// Metrics are registered with the default Prometheus registry through
// promauto at package init; /metrics is served by the echoprometheus handler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auth"

// ── Authentication metrics ────────────────────────────────────────────────────

// SigninTotal counts sign-in attempts.
// Label:
//   - result: "success", "invalid_credentials", "throttled" or "error"
var SigninTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signin_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// SignupTotal counts registration attempts.
// Label:
//   - result: "success", "duplicate_username", "duplicate_email", "unknown_role", "invalid" or "error"
var SignupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signup_total",
		Help:      "Total number of sign-up attempts, by result.",
	},
	[]string{"result"},
)

// TokenValidationTotal counts bearer token checks made by the auth middleware.
// Label:
//   - result: "valid", "expired", "invalid" or "missing"
var TokenValidationTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validation_total",
		Help:      "Total number of bearer token validations, by result.",
	},
	[]string{"result"},
)

// AuthorizationDeniedTotal counts requests rejected for missing authorities.
var AuthorizationDeniedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denied_total",
		Help:      "Total number of requests rejected with 403.",
	},
)

// Package metrics defines and registers all custom Prometheus metrics for the
// WORK21 portal. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "work21"

// ── Backend client metrics ────────────────────────────────────────────────────

// BackendRequestsTotal counts calls made to the WORK21 backend.
// Labels:
//   - method: HTTP method (e.g. "GET")
//   - outcome: "ok", "api_error" or "transport_error"
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of requests sent to the WORK21 backend, by outcome.",
	},
	[]string{"method", "outcome"},
)

// BackendRequestDuration measures backend round trips.
// Label:
//   - method: HTTP method
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests sent to the WORK21 backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionTransitionsTotal counts session store operations.
// Labels:
//   - op: "init", "login", "register", "logout", "refresh"
//   - result: resulting phase ("authenticated", "anonymous") or "error"
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session store operations, by operation and result.",
	},
	[]string{"op", "result"},
)

// WorkspacesActive tracks mounted browser workspaces.
var WorkspacesActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "workspaces_active",
		Help:      "Current number of mounted browser workspaces.",
	},
)

// LoginThrottledTotal counts login/register attempts rejected by the rate limiter.
var LoginThrottledTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_throttled_total",
		Help:      "Total number of login or register attempts rejected by the rate limiter.",
	},
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts portal requests.
// Labels:
//   - route: the echo route path (e.g. "/projects/:id")
//   - status: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of portal HTTP requests, by route and status.",
	},
	[]string{"route", "status"},
)

// HTTPRequestDuration measures portal request latency.
// Label:
//   - route: the echo route path
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of portal HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route"},
)

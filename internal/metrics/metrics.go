// Package metrics defines the Prometheus collectors of the user service.
// Collectors register with the default registry at package init; the gin
// router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	pkgerrors "user-service/pkg/errors"
)

const namespace = "user_service"

// HTTPRequestsTotal counts handled HTTP requests.
// Labels:
//   - method: HTTP method
//   - route: gin route template (e.g. "/api/v1/users/:id")
//   - status: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures request latency per route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// UserOperationsTotal counts use case invocations by outcome.
// Labels:
//   - operation: "create", "update" or "get"
//   - outcome: "success", "invalid_request", "conflict", "not_found" or "internal_error"
var UserOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_operations_total",
		Help:      "Total number of user operations, by outcome.",
	},
	[]string{"operation", "outcome"},
)

// RateLimitedTotal counts requests rejected by the rate limiter.
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
	[]string{"transport"},
)

// RecordUserOperation increments UserOperationsTotal for op with the outcome derived from err.
func RecordUserOperation(op string, err error) {
	outcome := "success"
	if err != nil {
		outcome = pkgerrors.KindOf(err).String()
	}
	UserOperationsTotal.WithLabelValues(op, outcome).Inc()
}

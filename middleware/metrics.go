package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API client metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todo_client_api_requests_total",
			Help: "Total number of API requests sent",
		},
		[]string{"operation", "method", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "todo_client_api_request_duration_seconds",
			Help:    "Duration of API requests",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation", "method"},
	)

	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "todo_client_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Session store metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "todo_client_session_store_duration_seconds",
			Help:    "Duration of session store operations",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "backend"},
	)

	// Authentication Metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todo_client_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"status", "type"}, // success/failure/superseded, login/register/bootstrap
	)

	// Error Metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todo_client_errors_total",
			Help: "Total number of errors by type",
		},
		[]string{"type"}, // network, auth, validation, not_found, server, store
	)
)

type operationKey struct{}

// WithOperation names the API operation a request belongs to, for metric and
// log labels ("tasks.update", "auth.login", ...).
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, operationKey{}, operation)
}

// OperationFrom returns the operation name set by WithOperation, or "unknown".
func OperationFrom(ctx context.Context) string {
	if op, ok := ctx.Value(operationKey{}).(string); ok && op != "" {
		return op
	}
	return "unknown"
}

// Metrics records request counts and latency.
func Metrics() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			operation := OperationFrom(req.Context())

			ActiveRequests.Inc()
			defer ActiveRequests.Dec()

			resp, err := next.RoundTrip(req)

			status := "error"
			if err == nil {
				status = strconv.Itoa(resp.StatusCode)
			}
			APIRequestsTotal.WithLabelValues(operation, req.Method, status).Inc()
			APIRequestDuration.WithLabelValues(operation, req.Method).Observe(time.Since(start).Seconds())

			return resp, err
		})
	}
}

// TrackStoreOperation times a session store operation
func TrackStoreOperation(operation, backend string) *prometheus.Timer {
	return prometheus.NewTimer(StoreOperationDuration.WithLabelValues(operation, backend))
}

// TrackAuthAttempt records authentication attempts
func TrackAuthAttempt(status, authType string) {
	AuthAttempts.WithLabelValues(status, authType).Inc()
}

// TrackError increments the error counter by type
func TrackError(errorType string) {
	ErrorsTotal.WithLabelValues(errorType).Inc()
}

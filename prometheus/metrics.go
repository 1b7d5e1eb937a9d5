package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pnci1029/Football-Club-sub002/pkg/config"
)

// Counter metrics
var (
	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Security event counter by kind and severity
	SecurityEventCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_security_events_total",
			Help: "Total number of security audit events",
		},
		[]string{"kind", "severity"},
	)

	// Tenant resolution counter by outcome
	TenantResolutionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_tenant_resolutions_total",
			Help: "Total number of tenant subdomain resolutions",
		},
		[]string{"outcome"}, // outcome can be "resolved", "unknown", "error"
	)

	// Login counter
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_login_total",
			Help: "Total number of administrator login attempts",
		},
	)

	// Token issuance counter by kind
	TokenIssuedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_tokens_issued_total",
			Help: "Total number of tokens issued",
		},
		[]string{"kind"}, // kind can be "access" or "refresh"
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "login_failure", "invalid_token", "db_error" etc.
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// Active tokens
	ActiveTokensGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gateway_active_tokens",
			Help: "Number of currently active authentication tokens",
		},
	)

	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gateway_info",
			Help: "Information about the gateway service",
		},
		[]string{"environment"},
	)
)

// InitMetrics registers all metrics with the Prometheus registry
func InitMetrics(cfg *config.Config) {
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(SecurityEventCounter)
	prometheus.MustRegister(TenantResolutionCounter)
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(TokenIssuedCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)
	prometheus.MustRegister(ActiveTokensGauge)
	prometheus.MustRegister(InfoGauge)

	InfoGauge.WithLabelValues(cfg.Server.Env).Set(1)
}

// RecordAuthError increments the auth error counter for the given type
func RecordAuthError(errorType string) {
	AuthErrorCounter.WithLabelValues(errorType).Inc()
}

// RecordSecurityEvent increments the security event counter
func RecordSecurityEvent(kind, severity string) {
	SecurityEventCounter.WithLabelValues(kind, severity).Inc()
}

// RecordTenantResolution increments the tenant resolution counter
func RecordTenantResolution(outcome string) {
	TenantResolutionCounter.WithLabelValues(outcome).Inc()
}

// RecordTokenIssued increments the token issuance counter
func RecordTokenIssued(kind string) {
	TokenIssuedCounter.WithLabelValues(kind).Inc()
}

// IncreaseActiveTokens increments the active tokens gauge
func IncreaseActiveTokens() {
	ActiveTokensGauge.Inc()
}

// TrackDBOperation returns a function that records the duration of a
// database operation when invoked, intended for use with defer.
func TrackDBOperation(operation string) func(time.Time) {
	return func(start time.Time) {
		DBOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// MetricsMiddleware creates an Echo middleware that records HTTP request metrics
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			method := c.Request().Method
			endpoint := c.Path()
			statusStr := strconv.Itoa(status)

			HTTPRequestCounter.WithLabelValues(endpoint, method, statusStr).Inc()
			RequestDuration.WithLabelValues(endpoint, method, statusStr).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// GetPrometheusHandler returns an HTTP handler for exposing Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

package audit

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/pnci1029/Football-Club-sub002/internal/tenant"
	"github.com/pnci1029/Football-Club-sub002/prometheus"
)

// Severity grades a security event
type Severity int

const (
	Low Severity = iota
	Medium
	High
	Critical
)

func (s Severity) String() string {
	switch s {
	case Medium:
		return "medium"
	case High:
		return "high"
	case Critical:
		return "critical"
	default:
		return "low"
	}
}

// Security event kinds
const (
	EventMissingHostHeader        = "missing_host_header"
	EventInvalidHostHeader        = "invalid_host_header"
	EventUnauthorizedAdminAccess  = "unauthorized_admin_access"
	EventTenantAdminAccessAttempt = "tenant_admin_access_attempt"
	EventUnknownSubdomainAccess   = "unknown_subdomain_access"
	EventCrossTenantAccessDenied  = "cross_tenant_access_denied"
	EventInvalidTokenPresented    = "invalid_token_presented"
	EventInactiveAdministrator    = "inactive_administrator"
)

// Event is one structured, severity-graded security audit record
type Event struct {
	Kind     string
	Severity Severity
	Context  map[string]string
}

// Log emits security audit events as structured log records and
// severity-labeled counters. Emission is fire-and-forget: a failure to
// record an event never fails the request.
type Log struct {
	logger *zap.Logger
}

// New creates a security audit log writing to the given logger
func New(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

// Emit records one security event
func (l *Log) Emit(kind string, severity Severity, context map[string]string) {
	// Emission must never fail the request
	defer func() { _ = recover() }()

	prometheus.RecordSecurityEvent(kind, severity.String())

	fields := make([]zap.Field, 0, len(context)+2)
	fields = append(fields,
		zap.String("event", kind),
		zap.String("severity", severity.String()),
	)
	for k, v := range context {
		fields = append(fields, zap.String(k, v))
	}

	switch {
	case severity >= High:
		l.logger.Error("security event", fields...)
	case severity == Medium:
		l.logger.Warn("security event", fields...)
	default:
		l.logger.Info("security event", fields...)
	}

	// Repeated high-severity events from one client are a blocking
	// candidate; this is a log-only signal, no blocking happens here.
	if severity >= High {
		if ip := context["client_ip"]; ip != "" {
			l.logger.Warn("high-severity event source, consider blocking",
				zap.String("client_ip", ip),
				zap.String("event", kind),
			)
		}
	}
}

// RequestContext builds the event context map from request metadata,
// including the resolved tenant when present.
func RequestContext(c echo.Context) map[string]string {
	req := c.Request()
	fields := map[string]string{
		"client_ip": c.RealIP(),
		"host":      req.Host,
		"method":    req.Method,
		"uri":       req.RequestURI,
	}
	if tc := tenant.CurrentOrNil(req.Context()); tc != nil {
		fields["tenant_id"] = strconv.FormatUint(uint64(tc.TenantID), 10)
		fields["subdomain"] = tc.Subdomain
	}
	return fields
}

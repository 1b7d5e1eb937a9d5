package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/pnci1029/Football-Club-sub002/internal/audit"
	"github.com/pnci1029/Football-Club-sub002/internal/hostclass"
	"github.com/pnci1029/Football-Club-sub002/internal/response"
	"github.com/pnci1029/Football-Club-sub002/internal/tenant"
	"github.com/pnci1029/Football-Club-sub002/pkg/config"
	"github.com/pnci1029/Football-Club-sub002/pkg/logger"
	"github.com/pnci1029/Football-Club-sub002/prometheus"
)

// TenantGate classifies the request host, resolves tenant subdomains
// through the directory and installs the tenant context into the
// request scope. The scope is installed fresh for every request and
// cleared on every exit path, so a reused worker never observes another
// request's identity.
func TenantGate(cl *hostclass.Classifier, dir tenant.Directory, auditLog *audit.Log, cfg *config.GatewayConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)
			start := time.Now()

			req := c.Request()
			ctx, scope := tenant.NewScope(req.Context())
			c.SetRequest(req.WithContext(ctx))
			defer scope.Clear()

			host := req.Host
			result := cl.Classify(host)

			switch result.Kind {
			case hostclass.Invalid:
				if result.Reason == hostclass.ReasonMissingHost {
					auditLog.Emit(audit.EventMissingHostHeader, audit.High, audit.RequestContext(c))
					return response.Error(c, http.StatusBadRequest, "missing_host", "host header is required")
				}
				auditLog.Emit(audit.EventInvalidHostHeader, audit.High, audit.RequestContext(c))
				return response.Error(c, http.StatusForbidden, "invalid_host", "host not allowed")

			case hostclass.Admin:
				// Admin-domain requests stay tenant-agnostic and may only
				// reach the reserved admin routes.
				if !strings.HasPrefix(req.URL.Path, cfg.AdminPathPrefix) {
					auditLog.Emit(audit.EventUnauthorizedAdminAccess, audit.High, audit.RequestContext(c))
					return response.Error(c, http.StatusForbidden, "forbidden", "not an admin route")
				}

			case hostclass.Main:
				// Marketing host passes through without tenant restriction

			case hostclass.Tenant:
				record, err := dir.LookupBySubdomain(ctx, result.Subdomain)
				if err != nil {
					if errors.Is(err, tenant.ErrNotFound) {
						prometheus.RecordTenantResolution("unknown")
						auditLog.Emit(audit.EventUnknownSubdomainAccess, audit.Medium, audit.RequestContext(c))
						return rejectUnknownSubdomain(c, cl, dir, result.Subdomain)
					}
					prometheus.RecordTenantResolution("error")
					log.Error("tenant directory lookup failed",
						zap.String("subdomain", result.Subdomain),
						zap.Error(err))
					return response.Error(c, http.StatusInternalServerError, "internal_error", "internal server error")
				}
				prometheus.RecordTenantResolution("resolved")

				tc := &tenant.Context{
					TenantID:   record.ID,
					Subdomain:  result.Subdomain,
					TenantName: record.Name,
					Host:       host,
					CreatedAt:  time.Now(),
				}
				if err := tenant.Install(ctx, tc); err != nil {
					// Invariant violation is a programming-contract error;
					// never proceed with a half-built context.
					log.Error("tenant context installation rejected",
						zap.String("subdomain", result.Subdomain),
						zap.Error(err))
					return response.Error(c, http.StatusInternalServerError, "internal_error", "internal server error")
				}

				// Tenant subdomains never reach admin-only routes, even
				// with a valid tenant.
				if strings.HasPrefix(req.URL.Path, cfg.AdminPathPrefix) {
					auditLog.Emit(audit.EventTenantAdminAccessAttempt, audit.Medium, audit.RequestContext(c))
					return response.Error(c, http.StatusForbidden, "forbidden", "admin routes are not reachable from tenant domains")
				}
			}

			if elapsed := time.Since(start); elapsed > cfg.SlowResolveThreshold {
				log.Warn("slow host resolution",
					zap.String("host", host),
					zap.Duration("elapsed", elapsed),
					zap.Duration("threshold", cfg.SlowResolveThreshold))
			}

			return next(c)
		}
	}
}

// rejectUnknownSubdomain answers 404. Development hosts get actionable
// suggestions; everywhere else the body stays generic.
func rejectUnknownSubdomain(c echo.Context, cl *hostclass.Classifier, dir tenant.Directory, subdomain string) error {
	if cl.IsLoopback(c.Request().Host) {
		suggestions, err := dir.ActiveSubdomains(c.Request().Context())
		if err == nil {
			return c.JSON(http.StatusNotFound, echo.Map{
				"success": false,
				"error": echo.Map{
					"code":    "unknown_subdomain",
					"message": "no tenant registered for subdomain \"" + subdomain + "\"",
				},
				"suggestions": suggestions,
			})
		}
	}
	return response.Error(c, http.StatusNotFound, "not_found", "not found")
}

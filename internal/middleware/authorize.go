package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pnci1029/Football-Club-sub002/internal/audit"
	"github.com/pnci1029/Football-Club-sub002/internal/hostclass"
	"github.com/pnci1029/Football-Club-sub002/internal/model"
	"github.com/pnci1029/Football-Club-sub002/internal/response"
	"github.com/pnci1029/Football-Club-sub002/internal/tenant"
)

// Policy declares what a route requires from the authenticated
// administrator. Policies are attached to route groups at registration
// time and evaluated by Authorize.
type Policy struct {
	// RequiredLevel is the minimum privilege level. The subdomain level
	// means "any authenticated administrator".
	RequiredLevel string

	// EnforceSubdomainRestriction binds subdomain-level administrators
	// to the tenant implied by the request host.
	EnforceSubdomainRestriction bool
}

// DefaultPolicy requires any authenticated administrator, restricted to
// their own tenant.
func DefaultPolicy() Policy {
	return Policy{
		RequiredLevel:               model.PrivilegeSubdomain,
		EnforceSubdomainRestriction: true,
	}
}

// MasterOnly requires a master administrator
func MasterOnly() Policy {
	return Policy{
		RequiredLevel:               model.PrivilegeMaster,
		EnforceSubdomainRestriction: true,
	}
}

// Authorize evaluates a policy against the authenticated principal and
// the resolved tenant. Runs after AuthGate.
func Authorize(policy Policy, auditLog *audit.Log) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			principal := tenant.PrincipalFrom(ctx)
			if principal == nil {
				return response.Error(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			}

			if policy.RequiredLevel == model.PrivilegeMaster && !principal.IsMaster() {
				return response.Error(c, http.StatusUnauthorized, "unauthorized", "insufficient privileges")
			}

			// The tenant-isolation invariant: a subdomain administrator
			// never acts against another tenant, token validity aside.
			if policy.EnforceSubdomainRestriction && principal.PrivilegeLevel == model.PrivilegeSubdomain && !principal.IsMaster() {
				subdomain := ""
				if tc := tenant.CurrentOrNil(ctx); tc != nil {
					subdomain = tc.Subdomain
				} else {
					subdomain = hostclass.SubdomainLabel(c.Request().Host)
				}
				if subdomain == "" || subdomain != principal.AssignedSubdomain {
					fields := audit.RequestContext(c)
					fields["assigned_subdomain"] = principal.AssignedSubdomain
					fields["requested_subdomain"] = subdomain
					fields["username"] = principal.Username
					auditLog.Emit(audit.EventCrossTenantAccessDenied, audit.High, fields)
					return response.Error(c, http.StatusForbidden, "forbidden", "access to this tenant is not permitted")
				}
			}

			return next(c)
		}
	}
}

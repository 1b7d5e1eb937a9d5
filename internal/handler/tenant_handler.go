package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pnci1029/Football-Club-sub002/internal/response"
	"github.com/pnci1029/Football-Club-sub002/internal/tenant"
	"github.com/pnci1029/Football-Club-sub002/pkg/logger"
)

// GetCurrentTenant returns the tenant resolved from the request host.
// Reads the ambient tenant context; no parameters are threaded here.
func GetCurrentTenant(c echo.Context) error {
	log := logger.FromContext(c)

	tc, err := tenant.Current(c.Request().Context())
	if err != nil {
		log.Warn("tenant endpoint reached without a resolved tenant")
		return response.Error(c, http.StatusNotFound, "not_found", "no tenant resolved for this host")
	}

	return response.OK(c, echo.Map{
		"tenant": echo.Map{
			"id":        tc.TenantID,
			"subdomain": tc.Subdomain,
			"name":      tc.TenantName,
		},
	})
}

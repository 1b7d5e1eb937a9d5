package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pnci1029/Football-Club-sub002/prometheus"
)

// HealthCheck handles the health check endpoint
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "healthy",
		"service": "gateway",
	})
}

// MetricsHandler exposes Prometheus metrics
func MetricsHandler(c echo.Context) error {
	h := prometheus.GetPrometheusHandler()
	h.ServeHTTP(c.Response(), c.Request())
	return nil
}

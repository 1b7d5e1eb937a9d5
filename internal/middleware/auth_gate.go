package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/pnci1029/Football-Club-sub002/internal/audit"
	"github.com/pnci1029/Football-Club-sub002/internal/security"
	"github.com/pnci1029/Football-Club-sub002/internal/tenant"
	"github.com/pnci1029/Football-Club-sub002/pkg/jwtutil"
	"github.com/pnci1029/Football-Club-sub002/pkg/logger"
	"github.com/pnci1029/Football-Club-sub002/prometheus"
)

// AuthGate resolves the bearer token into an administrator principal.
// It never rejects the request: routes that require authentication
// declare that through an authorization policy, so an absent or invalid
// token simply leaves the request unauthenticated.
func AuthGate(tokens *jwtutil.JWT, creds security.CredentialStore, auditLog *audit.Log) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return next(c)
			}
			tokenString := parts[1]

			if !tokens.Validate(tokenString) {
				prometheus.RecordAuthError("invalid_token")
				auditLog.Emit(audit.EventInvalidTokenPresented, audit.Low, audit.RequestContext(c))
				return next(c)
			}

			// Refresh tokens never authenticate a request, even with a
			// valid signature. Kind confusion is its own failure mode.
			if !tokens.IsAccessToken(tokenString) {
				prometheus.RecordAuthError("token_kind_mismatch")
				auditLog.Emit(audit.EventInvalidTokenPresented, audit.Low, audit.RequestContext(c))
				return next(c)
			}

			adminID, ok := tokens.Subject(tokenString)
			if !ok {
				return next(c)
			}

			// Resolve through the credential store rather than trusting
			// claims alone; claims may be stale relative to deactivation.
			principal, err := creds.ByID(c.Request().Context(), adminID)
			if err != nil {
				log.Error("administrator lookup failed", zap.Uint("admin_id", adminID), zap.Error(err))
				return next(c)
			}
			if principal == nil {
				return next(c)
			}
			if !principal.Active {
				auditLog.Emit(audit.EventInactiveAdministrator, audit.Medium, audit.RequestContext(c))
				return next(c)
			}

			if err := tenant.SetPrincipal(c.Request().Context(), principal); err != nil {
				log.Error("failed to install principal", zap.Error(err))
				return next(c)
			}

			log.Debug("request authenticated",
				zap.Uint("admin_id", principal.ID),
				zap.String("username", principal.Username),
				zap.String("privilege_level", principal.PrivilegeLevel))

			return next(c)
		}
	}
}

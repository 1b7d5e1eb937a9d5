package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/pnci1029/Football-Club-sub002/internal/response"
	"github.com/pnci1029/Football-Club-sub002/internal/security"
	"github.com/pnci1029/Football-Club-sub002/internal/tenant"
	"github.com/pnci1029/Football-Club-sub002/pkg/jwtutil"
	"github.com/pnci1029/Football-Club-sub002/pkg/logger"
	"github.com/pnci1029/Football-Club-sub002/prometheus"
)

// Login authenticates an administrator and issues an access/refresh
// token pair. On tenant subdomains the resolved tenant becomes the
// authentication scope, so a subdomain administrator cannot log in
// through another tenant's host.
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return response.Error(c, http.StatusBadRequest, "invalid_request", "invalid request")
	}

	if req.Username == "" || req.Password == "" {
		prometheus.RecordAuthError("incomplete_login")
		return response.Error(c, http.StatusBadRequest, "invalid_request", "username and password are required")
	}

	tenantScope := ""
	if tc := tenant.CurrentOrNil(c.Request().Context()); tc != nil {
		tenantScope = tc.Subdomain
	}

	queryStart := time.Now()
	principal, err := creds.Authenticate(c.Request().Context(), req.Username, req.Password, tenantScope)
	prometheus.TrackDBOperation("query")(queryStart)
	if err != nil {
		if errors.Is(err, security.ErrInvalidCredentials) {
			log.Warn("Login failed", zap.String("username", req.Username))
			prometheus.RecordAuthError("login_failure")
			return response.Error(c, http.StatusUnauthorized, "unauthorized", "invalid credentials")
		}
		log.Error("Credential store failure", zap.Error(err))
		prometheus.RecordAuthError("db_error")
		return response.Error(c, http.StatusInternalServerError, "internal_error", "login failed")
	}

	accessToken, refreshToken, err := issueTokenPair(principal)
	if err != nil {
		log.Error("Failed to generate tokens", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return response.Error(c, http.StatusInternalServerError, "internal_error", "token error")
	}

	log.Info("Administrator logged in",
		zap.String("username", principal.Username),
		zap.String("privilege_level", principal.PrivilegeLevel),
		zap.String("tenant_scope", tenantScope))

	return response.OK(c, echo.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"administrator": echo.Map{
			"id":                 principal.ID,
			"username":           principal.Username,
			"role":               principal.Role,
			"privilege_level":    principal.PrivilegeLevel,
			"assigned_subdomain": principal.AssignedSubdomain,
		},
	})
}

// Refresh exchanges a valid refresh token for a new token pair. An
// access token presented here is rejected: kind confusion.
func Refresh(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}

	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		prometheus.RecordAuthError("invalid_request")
		return response.Error(c, http.StatusBadRequest, "invalid_request", "refresh_token is required")
	}

	if !tokens.Validate(req.RefreshToken) {
		prometheus.RecordAuthError("invalid_token")
		return response.Error(c, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
	}

	if !tokens.IsRefreshToken(req.RefreshToken) {
		prometheus.RecordAuthError("token_kind_mismatch")
		return response.Error(c, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
	}

	adminID, ok := tokens.Subject(req.RefreshToken)
	if !ok {
		prometheus.RecordAuthError("invalid_token")
		return response.Error(c, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
	}

	queryStart := time.Now()
	principal, err := creds.ByID(c.Request().Context(), adminID)
	prometheus.TrackDBOperation("query")(queryStart)
	if err != nil {
		log.Error("Administrator lookup failed", zap.Uint("admin_id", adminID), zap.Error(err))
		prometheus.RecordAuthError("db_error")
		return response.Error(c, http.StatusInternalServerError, "internal_error", "token refresh failed")
	}
	if principal == nil || !principal.Active {
		prometheus.RecordAuthError("inactive_administrator")
		return response.Error(c, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
	}

	accessToken, refreshToken, err := issueTokenPair(principal)
	if err != nil {
		log.Error("Failed to generate tokens", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return response.Error(c, http.StatusInternalServerError, "internal_error", "token error")
	}

	log.Info("Tokens refreshed", zap.String("username", principal.Username))

	return response.OK(c, echo.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// Me returns the authenticated administrator's identity
func Me(c echo.Context) error {
	principal := tenant.PrincipalFrom(c.Request().Context())
	if principal == nil {
		return response.Error(c, http.StatusUnauthorized, "unauthorized", "authentication required")
	}

	return response.OK(c, echo.Map{
		"administrator": echo.Map{
			"id":                 principal.ID,
			"username":           principal.Username,
			"role":               principal.Role,
			"privilege_level":    principal.PrivilegeLevel,
			"assigned_subdomain": principal.AssignedSubdomain,
		},
	})
}

func issueTokenPair(principal *security.Principal) (string, string, error) {
	accessToken, err := tokens.IssueAccess(principal.ID, principal.Username, principal.Role)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := tokens.IssueRefresh(principal.ID)
	if err != nil {
		return "", "", err
	}

	prometheus.RecordTokenIssued(jwtutil.KindAccess)
	prometheus.RecordTokenIssued(jwtutil.KindRefresh)
	prometheus.IncreaseActiveTokens()
	return accessToken, refreshToken, nil
}

package handler

import (
	"net/http"
	"regexp"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pnci1029/Football-Club-sub002/internal/model"
	"github.com/pnci1029/Football-Club-sub002/internal/response"
	"github.com/pnci1029/Football-Club-sub002/pkg/database"
	"github.com/pnci1029/Football-Club-sub002/pkg/logger"
	"github.com/pnci1029/Football-Club-sub002/prometheus"
)

// subdomainPattern matches a valid DNS label
var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// reservedSubdomains can never be registered as tenants
var reservedSubdomains = map[string]bool{
	"admin": true,
	"www":   true,
}

// ListTenants returns all tenants. Master administrators only.
func ListTenants(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var tenants []model.Tenant
	if result := database.GetDB().WithContext(c.Request().Context()).Order("id").Find(&tenants); result.Error != nil {
		log.Error("Failed to list tenants", zap.Error(result.Error))
		return response.Error(c, http.StatusInternalServerError, "internal_error", "failed to list tenants")
	}

	return response.OK(c, echo.Map{"tenants": tenants})
}

// CreateTenant registers a new tenant subdomain. Master administrators only.
func CreateTenant(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Subdomain   string `json:"subdomain"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse tenant creation request", zap.Error(err))
		return response.Error(c, http.StatusBadRequest, "invalid_request", "invalid request")
	}

	if req.Subdomain == "" || req.Name == "" {
		return response.Error(c, http.StatusBadRequest, "invalid_request", "subdomain and name are required")
	}
	if !subdomainPattern.MatchString(req.Subdomain) {
		return response.Error(c, http.StatusBadRequest, "invalid_request", "subdomain must be a valid DNS label")
	}
	if reservedSubdomains[req.Subdomain] {
		return response.Error(c, http.StatusBadRequest, "invalid_request", "subdomain is reserved")
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	t := model.Tenant{
		Subdomain:   req.Subdomain,
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
	}
	if result := database.GetDB().WithContext(c.Request().Context()).Create(&t); result.Error != nil {
		log.Error("Failed to create tenant", zap.Error(result.Error))
		return response.Error(c, http.StatusConflict, "conflict", "tenant creation failed")
	}

	log.Info("Tenant created",
		zap.Uint("id", t.ID),
		zap.String("subdomain", t.Subdomain),
		zap.String("name", t.Name))

	return response.Created(c, echo.Map{"tenant": t})
}

// ListAdministrators returns all administrator accounts. Master only.
func ListAdministrators(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var admins []model.Administrator
	if result := database.GetDB().WithContext(c.Request().Context()).Order("id").Find(&admins); result.Error != nil {
		log.Error("Failed to list administrators", zap.Error(result.Error))
		return response.Error(c, http.StatusInternalServerError, "internal_error", "failed to list administrators")
	}

	return response.OK(c, echo.Map{"administrators": admins})
}

// CreateAdministrator creates an administrator account. Master only.
// Subdomain-level administrators must name their assigned subdomain.
func CreateAdministrator(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Username          string `json:"username"`
		Password          string `json:"password"`
		PrivilegeLevel    string `json:"privilege_level"`
		AssignedSubdomain string `json:"assigned_subdomain"`
		Role              string `json:"role"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse administrator creation request", zap.Error(err))
		return response.Error(c, http.StatusBadRequest, "invalid_request", "invalid request")
	}

	if req.Username == "" || req.Password == "" {
		return response.Error(c, http.StatusBadRequest, "invalid_request", "username and password are required")
	}

	switch req.PrivilegeLevel {
	case model.PrivilegeMaster:
		req.AssignedSubdomain = ""
	case model.PrivilegeSubdomain, "":
		req.PrivilegeLevel = model.PrivilegeSubdomain
		if req.AssignedSubdomain == "" {
			return response.Error(c, http.StatusBadRequest, "invalid_request", "assigned_subdomain is required for subdomain administrators")
		}
	default:
		return response.Error(c, http.StatusBadRequest, "invalid_request", "unknown privilege level")
	}

	if req.Role == "" {
		req.Role = "ADMIN"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return response.Error(c, http.StatusInternalServerError, "internal_error", "administrator creation failed")
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	admin := model.Administrator{
		Username:          req.Username,
		Password:          string(hashed),
		Role:              req.Role,
		PrivilegeLevel:    req.PrivilegeLevel,
		AssignedSubdomain: req.AssignedSubdomain,
		Active:            true,
	}
	if result := database.GetDB().WithContext(c.Request().Context()).Create(&admin); result.Error != nil {
		log.Error("Failed to create administrator", zap.Error(result.Error))
		return response.Error(c, http.StatusConflict, "conflict", "administrator creation failed")
	}

	log.Info("Administrator created",
		zap.Uint("id", admin.ID),
		zap.String("username", admin.Username),
		zap.String("privilege_level", admin.PrivilegeLevel))

	return response.Created(c, echo.Map{"administrator": admin})
}

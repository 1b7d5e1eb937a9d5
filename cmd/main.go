package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pnci1029/Football-Club-sub002/internal/audit"
	"github.com/pnci1029/Football-Club-sub002/internal/handler"
	"github.com/pnci1029/Football-Club-sub002/internal/hostclass"
	"github.com/pnci1029/Football-Club-sub002/internal/middleware"
	"github.com/pnci1029/Football-Club-sub002/internal/model"
	"github.com/pnci1029/Football-Club-sub002/internal/security"
	"github.com/pnci1029/Football-Club-sub002/internal/tenant"
	"github.com/pnci1029/Football-Club-sub002/pkg/config"
	"github.com/pnci1029/Football-Club-sub002/pkg/database"
	"github.com/pnci1029/Football-Club-sub002/pkg/jwtutil"
	"github.com/pnci1029/Football-Club-sub002/pkg/logger"
	"github.com/pnci1029/Football-Club-sub002/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting tenant gateway service...", cfg.LogConfig()...)

	// Initialize database
	if err := database.Initialize(&cfg.DB); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Seed a master administrator in development when none exists
	if cfg.Server.Env != "production" {
		seedMasterAdministrator(log)
	}

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Wire the gateway components
	tokens := jwtutil.New(&cfg.JWT)
	creds := security.NewCredentialStore(database.GetDB())
	directory := tenant.NewDirectory(database.GetDB())
	auditLog := audit.New(log)
	classifier := hostclass.New(hostclass.Options{
		AllowedHosts:  cfg.Gateway.AllowedHosts,
		MainDomains:   cfg.Gateway.MainDomains,
		AdminLabel:    cfg.Gateway.AdminSubdomain,
		AllowLoopback: cfg.Gateway.AllowLoopback,
	})
	handler.Init(tokens, creds)

	// Initialize Echo framework
	e := echo.New()
	e.HideBanner = true

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())
	e.Use(middleware.TenantGate(classifier, directory, auditLog, &cfg.Gateway))
	e.Use(middleware.AuthGate(tokens, creds, auditLog))

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes for tenant subdomains and the main domain
	auth := e.Group("/auth")
	auth.POST("/login", handler.Login)
	auth.POST("/refresh", handler.Refresh)

	// Tenant-facing API - any authenticated administrator, bound to the
	// tenant implied by the request host
	api := e.Group("/api", middleware.Authorize(middleware.DefaultPolicy(), auditLog))
	api.GET("/me", handler.Me)
	api.GET("/tenant", handler.GetCurrentTenant)

	// Admin surface - reachable only through the admin domain; the
	// tenant gate rejects these paths on tenant subdomains
	admin := e.Group(cfg.Gateway.AdminPathPrefix)
	admin.POST("/auth/login", handler.Login)
	admin.POST("/auth/refresh", handler.Refresh)
	admin.GET("/auth/me", handler.Me, middleware.Authorize(middleware.Policy{
		RequiredLevel:               model.PrivilegeSubdomain,
		EnforceSubdomainRestriction: false,
	}, auditLog))

	// Cross-tenant administration requires master privileges
	master := admin.Group("", middleware.Authorize(middleware.MasterOnly(), auditLog))
	master.GET("/tenants", handler.ListTenants)
	master.POST("/tenants", handler.CreateTenant)
	master.GET("/administrators", handler.ListAdministrators)
	master.POST("/administrators", handler.CreateAdministrator)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}

// seedMasterAdministrator creates a development master account when the
// administrator table is empty
func seedMasterAdministrator(log *zap.Logger) {
	db := database.GetDB()

	var count int64
	if err := db.Model(&model.Administrator{}).Count(&count).Error; err != nil {
		log.Warn("Failed to count administrators", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
	if err != nil {
		log.Warn("Failed to hash seed password", zap.Error(err))
		return
	}

	admin := model.Administrator{
		Username:       "admin",
		Password:       string(hashed),
		Role:           "ADMIN",
		PrivilegeLevel: model.PrivilegeMaster,
		Active:         true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Warn("Failed to seed master administrator", zap.Error(err))
		return
	}
	log.Info("Seeded development master administrator", zap.String("username", admin.Username))
}

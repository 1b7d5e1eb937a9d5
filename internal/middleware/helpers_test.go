package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/pnci1029/Football-Club-sub002/internal/audit"
	"github.com/pnci1029/Football-Club-sub002/internal/hostclass"
	"github.com/pnci1029/Football-Club-sub002/internal/security"
	"github.com/pnci1029/Football-Club-sub002/internal/tenant"
	"github.com/pnci1029/Football-Club-sub002/pkg/config"
)

type fakeDirectory struct {
	records map[string]*tenant.Record
}

func (f *fakeDirectory) LookupBySubdomain(_ context.Context, code string) (*tenant.Record, error) {
	if r, ok := f.records[code]; ok {
		return r, nil
	}
	return nil, tenant.ErrNotFound
}

func (f *fakeDirectory) ActiveSubdomains(_ context.Context) ([]string, error) {
	subs := make([]string, 0, len(f.records))
	for code := range f.records {
		subs = append(subs, code)
	}
	return subs, nil
}

type fakeCredentialStore struct {
	admins map[uint]*security.Principal
}

func (f *fakeCredentialStore) Authenticate(_ context.Context, username, password, tenantScope string) (*security.Principal, error) {
	for _, p := range f.admins {
		if p.Username == username {
			return p, nil
		}
	}
	return nil, security.ErrInvalidCredentials
}

func (f *fakeCredentialStore) ByID(_ context.Context, id uint) (*security.Principal, error) {
	return f.admins[id], nil
}

func testGatewayConfig() *config.GatewayConfig {
	return &config.GatewayConfig{
		AllowedHosts:         []string{"example-domain", "*.example-domain"},
		MainDomains:          []string{"example-domain"},
		AdminSubdomain:       "admin",
		AdminPathPrefix:      "/admin",
		AllowLoopback:        true,
		SlowResolveThreshold: time.Second,
	}
}

func testClassifier() *hostclass.Classifier {
	cfg := testGatewayConfig()
	return hostclass.New(hostclass.Options{
		AllowedHosts:  cfg.AllowedHosts,
		MainDomains:   cfg.MainDomains,
		AdminLabel:    cfg.AdminSubdomain,
		AllowLoopback: cfg.AllowLoopback,
	})
}

func testAuditLog() *audit.Log {
	return audit.New(zap.NewNop())
}

// newTestContext builds an echo context for one request against the
// given host and path.
func newTestContext(host, path string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Host = host
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// withScope installs a fresh request scope, mirroring what the tenant
// gate does before any downstream middleware runs.
func withScope(c echo.Context) *tenant.Scope {
	req := c.Request()
	ctx, scope := tenant.NewScope(req.Context())
	c.SetRequest(req.WithContext(ctx))
	return scope
}

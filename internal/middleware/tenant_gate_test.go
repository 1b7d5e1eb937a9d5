package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/pnci1029/Football-Club-sub002/internal/tenant"
)

func barcelonaDirectory() *fakeDirectory {
	return &fakeDirectory{records: map[string]*tenant.Record{
		"barcelona": {ID: 1, Name: "FC Barcelona"},
		"madrid":    {ID: 2, Name: "Real Madrid"},
	}}
}

func runTenantGate(t *testing.T, host, path string, next echo.HandlerFunc) (int, map[string]interface{}) {
	t.Helper()

	c, rec := newTestContext(host, path)
	gate := TenantGate(testClassifier(), barcelonaDirectory(), testAuditLog(), testGatewayConfig())

	if next == nil {
		next = func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	}
	if err := gate(next)(c); err != nil {
		t.Fatalf("gate returned error: %v", err)
	}

	var body map[string]interface{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("response is not JSON: %v", err)
		}
	}
	return rec.Code, body
}

func TestTenantGateBlankHost(t *testing.T) {
	status, body := runTenantGate(t, "", "/api/tenant", nil)
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if body["success"] != false {
		t.Fatal("expected failure envelope")
	}
}

func TestTenantGateUnknownHost(t *testing.T) {
	status, _ := runTenantGate(t, "evil.com", "/api/tenant", nil)
	if status != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", status)
	}
}

func TestTenantGateMainDomainPassesThrough(t *testing.T) {
	called := false
	status, _ := runTenantGate(t, "example-domain", "/", func(c echo.Context) error {
		called = true
		if tc := tenant.CurrentOrNil(c.Request().Context()); tc != nil {
			t.Errorf("main domain must not carry a tenant context, got %+v", tc)
		}
		return c.NoContent(http.StatusOK)
	})
	if !called {
		t.Fatal("handler was not reached")
	}
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
}

func TestTenantGateAdminHostRejectsNonAdminPath(t *testing.T) {
	called := false
	status, _ := runTenantGate(t, "admin.example-domain", "/v1/players", func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if called {
		t.Fatal("handler must not be reached")
	}
	if status != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", status)
	}
}

func TestTenantGateAdminHostAllowsAdminPath(t *testing.T) {
	called := false
	status, _ := runTenantGate(t, "admin.example-domain", "/admin/tenants", func(c echo.Context) error {
		called = true
		if tc := tenant.CurrentOrNil(c.Request().Context()); tc != nil {
			t.Errorf("admin domain must stay tenant-agnostic, got %+v", tc)
		}
		return c.NoContent(http.StatusOK)
	})
	if !called {
		t.Fatal("handler was not reached")
	}
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
}

func TestTenantGateTenantHostRejectsAdminPath(t *testing.T) {
	called := false
	status, _ := runTenantGate(t, "barcelona.example-domain", "/admin/tenants", func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if called {
		t.Fatal("handler must not be reached")
	}
	if status != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", status)
	}
}

func TestTenantGateResolvesTenant(t *testing.T) {
	var seenCtx context.Context

	status, _ := runTenantGate(t, "barcelona.example-domain", "/api/tenant", func(c echo.Context) error {
		seenCtx = c.Request().Context()

		tc, err := tenant.Current(seenCtx)
		if err != nil {
			t.Fatalf("no tenant context inside handler: %v", err)
		}
		if tc.TenantID != 1 || tc.Subdomain != "barcelona" || tc.TenantName != "FC Barcelona" {
			t.Fatalf("unexpected tenant context: %+v", tc)
		}
		if !tc.Valid() {
			t.Fatal("resolved context must be valid")
		}

		// Resolving twice within one request yields identical values
		again, err := tenant.Current(seenCtx)
		if err != nil || again.TenantID != tc.TenantID || again.TenantName != tc.TenantName {
			t.Fatal("repeated resolution must be idempotent")
		}
		return c.NoContent(http.StatusOK)
	})

	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}

	// Teardown: the worker's scope must report absent after completion
	if tenant.CurrentOrNil(seenCtx) != nil {
		t.Fatal("tenant context must be cleared after the request completes")
	}
}

func TestTenantGateUnknownSubdomain(t *testing.T) {
	called := false
	status, _ := runTenantGate(t, "unknown.example-domain", "/api/tenant", func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if called {
		t.Fatal("handler must not be reached")
	}
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
}

func TestTenantGateUnknownSubdomainDevSuggestions(t *testing.T) {
	status, body := runTenantGate(t, "unknown.localhost:3000", "/api/tenant", nil)
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
	if _, ok := body["suggestions"]; !ok {
		t.Fatal("development hosts get subdomain suggestions")
	}
}

func TestTenantGateClearsContextOnRejection(t *testing.T) {
	// The admin-path rejection happens after the context is installed;
	// teardown must still run.
	c, rec := newTestContext("barcelona.example-domain", "/admin/tenants")
	gate := TenantGate(testClassifier(), barcelonaDirectory(), testAuditLog(), testGatewayConfig())

	if err := gate(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c); err != nil {
		t.Fatalf("gate returned error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if tenant.CurrentOrNil(c.Request().Context()) != nil {
		t.Fatal("tenant context must be cleared after rejection")
	}
}

package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pnci1029/Football-Club-sub002/internal/model"
	"github.com/pnci1029/Football-Club-sub002/internal/security"
	"github.com/pnci1029/Football-Club-sub002/internal/tenant"
	"github.com/pnci1029/Football-Club-sub002/pkg/config"
	"github.com/pnci1029/Football-Club-sub002/pkg/jwtutil"
)

func testTokens() *jwtutil.JWT {
	return jwtutil.New(&config.JWTConfig{
		SigningKey: "test-signing-key",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	})
}

func testAdmins() *fakeCredentialStore {
	return &fakeCredentialStore{admins: map[uint]*security.Principal{
		1: {ID: 1, Username: "root", Role: "ADMIN", PrivilegeLevel: model.PrivilegeMaster, Active: true},
		2: {ID: 2, Username: "barca-admin", Role: "ADMIN", PrivilegeLevel: model.PrivilegeSubdomain, AssignedSubdomain: "barcelona", Active: true},
		3: {ID: 3, Username: "retired", Role: "ADMIN", PrivilegeLevel: model.PrivilegeSubdomain, AssignedSubdomain: "barcelona", Active: false},
	}}
}

func runAuthGate(t *testing.T, authorization string) *security.Principal {
	t.Helper()

	c, _ := newTestContext("barcelona.example-domain", "/api/me")
	withScope(c)
	if authorization != "" {
		c.Request().Header.Set(echo.HeaderAuthorization, authorization)
	}

	var principal *security.Principal
	gate := AuthGate(testTokens(), testAdmins(), testAuditLog())
	err := gate(func(c echo.Context) error {
		principal = tenant.PrincipalFrom(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		t.Fatalf("gate returned error: %v", err)
	}
	return principal
}

func TestAuthGateNoHeaderProceedsUnauthenticated(t *testing.T) {
	if p := runAuthGate(t, ""); p != nil {
		t.Fatalf("expected unauthenticated request, got %+v", p)
	}
}

func TestAuthGateValidAccessToken(t *testing.T) {
	token, err := testTokens().IssueAccess(2, "barca-admin", "ADMIN")
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}

	p := runAuthGate(t, "Bearer "+token)
	if p == nil {
		t.Fatal("expected an authenticated principal")
	}
	if p.ID != 2 || p.Username != "barca-admin" || p.AssignedSubdomain != "barcelona" {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestAuthGateRefreshTokenNeverAuthenticates(t *testing.T) {
	token, err := testTokens().IssueRefresh(2)
	if err != nil {
		t.Fatalf("IssueRefresh failed: %v", err)
	}

	if p := runAuthGate(t, "Bearer "+token); p != nil {
		t.Fatalf("refresh token must not authenticate a request, got %+v", p)
	}
}

func TestAuthGateInvalidTokenProceedsUnauthenticated(t *testing.T) {
	if p := runAuthGate(t, "Bearer garbage"); p != nil {
		t.Fatalf("invalid token must leave the request unauthenticated, got %+v", p)
	}
}

func TestAuthGateMalformedHeaderProceedsUnauthenticated(t *testing.T) {
	if p := runAuthGate(t, "Basic dXNlcjpwYXNz"); p != nil {
		t.Fatalf("non-bearer credentials must be ignored, got %+v", p)
	}
}

func TestAuthGateInactiveAdministrator(t *testing.T) {
	token, err := testTokens().IssueAccess(3, "retired", "ADMIN")
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}

	if p := runAuthGate(t, "Bearer "+token); p != nil {
		t.Fatalf("inactive administrator must never be authenticated, got %+v", p)
	}
}

func TestAuthGateUnknownSubject(t *testing.T) {
	token, err := testTokens().IssueAccess(99, "ghost", "ADMIN")
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}

	if p := runAuthGate(t, "Bearer "+token); p != nil {
		t.Fatalf("unknown administrator must not authenticate, got %+v", p)
	}
}

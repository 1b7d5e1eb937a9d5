package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pnci1029/Football-Club-sub002/internal/model"
	"github.com/pnci1029/Football-Club-sub002/internal/security"
	"github.com/pnci1029/Football-Club-sub002/pkg/config"
	"github.com/pnci1029/Football-Club-sub002/pkg/jwtutil"
)

type stubCredentialStore struct {
	admins map[uint]*security.Principal
}

func (s *stubCredentialStore) Authenticate(_ context.Context, username, password, tenantScope string) (*security.Principal, error) {
	return nil, security.ErrInvalidCredentials
}

func (s *stubCredentialStore) ByID(_ context.Context, id uint) (*security.Principal, error) {
	return s.admins[id], nil
}

// setupHandlers wires the package-level handler state the way
// cmd/main.go does and returns the token service for issuing test tokens.
func setupHandlers(t *testing.T) *jwtutil.JWT {
	t.Helper()

	jwt := jwtutil.New(&config.JWTConfig{
		SigningKey: "handler-test-key",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	})
	Init(jwt, &stubCredentialStore{admins: map[uint]*security.Principal{
		1: {ID: 1, Username: "root", Role: "ADMIN", PrivilegeLevel: model.PrivilegeMaster, Active: true},
		3: {ID: 3, Username: "retired", Role: "ADMIN", PrivilegeLevel: model.PrivilegeSubdomain, AssignedSubdomain: "barcelona", Active: false},
	}})
	return jwt
}

func postRefresh(t *testing.T, token string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(`{"refresh_token":"`+token+`"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := Refresh(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	return rec
}

func TestRefreshIssuesNewTokenPair(t *testing.T) {
	jwt := setupHandlers(t)
	token, err := jwt.IssueRefresh(1)
	if err != nil {
		t.Fatalf("IssueRefresh failed: %v", err)
	}

	rec := postRefresh(t, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"access_token"`) || !strings.Contains(body, `"refresh_token"`) {
		t.Fatalf("response missing token pair: %s", body)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	jwt := setupHandlers(t)

	// Structurally valid, correctly signed, wrong kind
	token, err := jwt.IssueAccess(1, "root", "ADMIN")
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}

	rec := postRefresh(t, token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("access token accepted as refresh: status = %d, want 401", rec.Code)
	}
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	setupHandlers(t)

	rec := postRefresh(t, "not-a-token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRefreshRejectsInactiveAdministrator(t *testing.T) {
	jwt := setupHandlers(t)
	token, err := jwt.IssueRefresh(3)
	if err != nil {
		t.Fatalf("IssueRefresh failed: %v", err)
	}

	rec := postRefresh(t, token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("inactive administrator refreshed a token: status = %d, want 401", rec.Code)
	}
}

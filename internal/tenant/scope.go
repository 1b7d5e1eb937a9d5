package tenant

import (
	"context"
	"errors"
	"strconv"

	"github.com/pnci1029/Football-Club-sub002/internal/security"
)

var (
	// ErrNoScope means no request scope was installed; the accessor was
	// called outside the gate pipeline.
	ErrNoScope = errors.New("no request scope installed")

	// ErrInvalidContext means the tenant context failed its installation
	// invariant. This is a programming-contract error, not a client error.
	ErrInvalidContext = errors.New("tenant context failed validation")

	// ErrNoTenant means no tenant has been resolved for this request
	ErrNoTenant = errors.New("no tenant resolved for this request")
)

type scopeKey struct{}

// Scope holds the ambient per-request state: the resolved tenant
// context and the authenticated principal. One scope belongs to exactly
// one request and is only touched by the goroutine handling it, so no
// locking is needed. Clear must run on every exit path.
type Scope struct {
	tenant    *Context
	principal *security.Principal
}

// NewScope installs a fresh empty scope into the request context and
// returns both the derived context and the scope handle for teardown.
func NewScope(ctx context.Context) (context.Context, *Scope) {
	s := &Scope{}
	return context.WithValue(ctx, scopeKey{}, s), s
}

// Clear drops the tenant context and principal. It is called
// unconditionally when the request finishes so a reused worker never
// inherits stale identity.
func (s *Scope) Clear() {
	s.tenant = nil
	s.principal = nil
}

func scopeFrom(ctx context.Context) *Scope {
	s, _ := ctx.Value(scopeKey{}).(*Scope)
	return s
}

// Install places a tenant context into the request scope. A context
// failing its invariant is rejected and never installed.
func Install(ctx context.Context, tc *Context) error {
	s := scopeFrom(ctx)
	if s == nil {
		return ErrNoScope
	}
	if !tc.Valid() {
		return ErrInvalidContext
	}
	s.tenant = tc
	return nil
}

// Current returns the resolved tenant context, failing loudly when absent
func Current(ctx context.Context) (*Context, error) {
	s := scopeFrom(ctx)
	if s == nil {
		return nil, ErrNoScope
	}
	if s.tenant == nil {
		return nil, ErrNoTenant
	}
	return s.tenant, nil
}

// CurrentOrNil returns the resolved tenant context or nil
func CurrentOrNil(ctx context.Context) *Context {
	if s := scopeFrom(ctx); s != nil {
		return s.tenant
	}
	return nil
}

// SetPrincipal records the authenticated administrator on the request
// scope and stamps the identity onto the tenant context when one is
// resolved.
func SetPrincipal(ctx context.Context, p *security.Principal) error {
	s := scopeFrom(ctx)
	if s == nil {
		return ErrNoScope
	}
	s.principal = p
	if s.tenant != nil && p != nil {
		s.tenant = s.tenant.WithPrincipal(strconv.FormatUint(uint64(p.ID), 10), p.Role)
	}
	return nil
}

// PrincipalFrom returns the authenticated administrator or nil
func PrincipalFrom(ctx context.Context) *security.Principal {
	if s := scopeFrom(ctx); s != nil {
		return s.principal
	}
	return nil
}

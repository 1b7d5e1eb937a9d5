package tenant

import (
	"time"
)

// Context is the resolved tenant identity for one request. It is
// created once by the tenant security gate, never mutated afterwards,
// and discarded when the request finishes.
type Context struct {
	TenantID      uint
	Subdomain     string
	TenantName    string
	Host          string
	PrincipalID   string
	PrincipalRole string
	CreatedAt     time.Time
}

// Valid reports whether the context satisfies the installation
// invariant: positive tenant ID and non-blank subdomain, name and host.
func (c *Context) Valid() bool {
	return c != nil &&
		c.TenantID > 0 &&
		c.Subdomain != "" &&
		c.TenantName != "" &&
		c.Host != ""
}

// WithPrincipal returns a copy of the context carrying the
// authenticated administrator's identity.
func (c *Context) WithPrincipal(id, role string) *Context {
	copied := *c
	copied.PrincipalID = id
	copied.PrincipalRole = role
	return &copied
}

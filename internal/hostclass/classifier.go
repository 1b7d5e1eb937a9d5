package hostclass

import (
	"net"
	"strings"
)

// Kind is the classification of a request host
type Kind int

const (
	// Invalid means the host is missing or not in the allow-list
	Invalid Kind = iota
	// Main is the bare marketing host, tenant-agnostic
	Main
	// Admin is the reserved administrative host
	Admin
	// Tenant is a tenant subdomain host
	Tenant
)

func (k Kind) String() string {
	switch k {
	case Main:
		return "main"
	case Admin:
		return "admin"
	case Tenant:
		return "tenant"
	default:
		return "invalid"
	}
}

// Rejection reasons for invalid hosts
const (
	ReasonMissingHost    = "missing host header"
	ReasonHostNotAllowed = "host not in allow-list"
)

// Result is the outcome of classifying a host header
type Result struct {
	Kind      Kind
	Subdomain string // set only for Kind == Tenant
	Reason    string // set only for Kind == Invalid
}

// Options configures a Classifier
type Options struct {
	AllowedHosts  []string // exact hosts or "*.suffix" wildcard patterns
	MainDomains   []string // bare marketing hosts
	AdminLabel    string   // reserved leftmost label, e.g. "admin"
	AllowLoopback bool     // accept localhost/127.0.0.1 without allow-listing
}

// Classifier decides whether a host header names the main domain, the
// admin domain, or a tenant subdomain. It is a pure function of the
// host string and the configured domains.
type Classifier struct {
	opts Options
}

// New creates a Classifier from the given options
func New(opts Options) *Classifier {
	if opts.AdminLabel == "" {
		opts.AdminLabel = "admin"
	}
	return &Classifier{opts: opts}
}

// Classify maps a raw host header to a classification. Precedence is
// fixed: allow-list check, then Admin, then Main, then Tenant.
func (cl *Classifier) Classify(rawHost string) Result {
	host := strings.ToLower(strings.TrimSpace(rawHost))
	if host == "" {
		return Result{Kind: Invalid, Reason: ReasonMissingHost}
	}

	host = stripPort(host)

	if !cl.allowed(host) {
		return Result{Kind: Invalid, Reason: ReasonHostNotAllowed}
	}

	// A bare IP host has no subdomain to extract
	if net.ParseIP(host) != nil {
		return Result{Kind: Main}
	}

	label, rest := splitLabel(host)

	if rest != "" && label == cl.opts.AdminLabel {
		return Result{Kind: Admin}
	}

	for _, m := range cl.opts.MainDomains {
		if host == strings.ToLower(m) {
			return Result{Kind: Main}
		}
	}

	if rest == "" || label == "www" {
		return Result{Kind: Main}
	}

	return Result{Kind: Tenant, Subdomain: label}
}

// IsLoopback reports whether the host (with or without port, with or
// without one leading label) is a development loopback host.
func (cl *Classifier) IsLoopback(rawHost string) bool {
	return isLoopback(stripPort(strings.ToLower(strings.TrimSpace(rawHost))))
}

// allowed checks the host against loopback handling and the allow-list
func (cl *Classifier) allowed(host string) bool {
	if cl.opts.AllowLoopback && isLoopback(host) {
		return true
	}
	for _, pattern := range cl.opts.AllowedHosts {
		pattern = strings.ToLower(pattern)
		if strings.HasPrefix(pattern, "*.") {
			// wildcard covers any subdomain of the suffix
			if strings.HasSuffix(host, pattern[1:]) {
				return true
			}
		} else if host == pattern {
			return true
		}
	}
	return false
}

func isLoopback(host string) bool {
	if host == "localhost" || host == "127.0.0.1" {
		return true
	}
	if i := strings.Index(host, "."); i > 0 {
		rest := host[i+1:]
		return rest == "localhost" || rest == "127.0.0.1"
	}
	return false
}

// SubdomainLabel extracts the leftmost dot-delimited label of a host,
// or "" when the host has no subdomain or names the reserved www label.
func SubdomainLabel(rawHost string) string {
	host := stripPort(strings.ToLower(strings.TrimSpace(rawHost)))
	if net.ParseIP(host) != nil {
		return ""
	}
	label, rest := splitLabel(host)
	if rest == "" || label == "www" {
		return ""
	}
	return label
}

// splitLabel splits a host into its leftmost label and the remainder
func splitLabel(host string) (label, rest string) {
	if i := strings.Index(host, "."); i > 0 {
		return host[:i], host[i+1:]
	}
	return host, ""
}

func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

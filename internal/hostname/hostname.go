// internal/hostname/hostname.go
//
// Hostname parsing and classification.
//
// Context
// -------
// Every request's serving path is decided by its Host header alone, so the
// rules live in one pure package with no I/O and no logging.  Classify is a
// total function over an ordered, first-match-wins rule list; callers never
// see an "unclassifiable" host because anything that matches nothing is a
// candidate custom domain by definition.
//
// Notes
// -----
// Multi-level prefixes under the root domain are kept whole: the host
// "a.b.inmosite.com" classifies as a tenant with subdomain "a.b".  Such
// slugs never match a real tenant and fail later at the config fetch,
// which keeps this function simple and the failure observable.
package hostname

import "strings"

// Class is the closed set of host categories the gateway serves.
type Class int

const (
	// ClassRoot is the platform root domain itself, its www alias, bare
	// "localhost", and the empty host.
	ClassRoot Class = iota

	// ClassPreview is a preview deployment under the preview suffix,
	// e.g. "myapp---feature-x.vercel.app".
	ClassPreview

	// ClassLocal is a development subdomain of localhost,
	// e.g. "acme.localhost".
	ClassLocal

	// ClassTenant is a subdomain of the root domain, e.g.
	// "acme.inmosite.com".
	ClassTenant

	// ClassCustom is any other hostname; a candidate customer-owned
	// domain that must be validated against the backend.
	ClassCustom
)

func (c Class) String() string {
	switch c {
	case ClassRoot:
		return "root"
	case ClassPreview:
		return "preview"
	case ClassLocal:
		return "local"
	case ClassTenant:
		return "tenant"
	default:
		return "custom"
	}
}

// Classification is the result of classifying one hostname.  Subdomain is
// set for the preview, local and tenant classes and empty otherwise.
type Classification struct {
	Class     Class
	Subdomain string
	Hostname  string
}

// Strip lowercases the raw Host header value and removes any :port suffix.
// IPv6 literals keep their bracketed form minus the port.
func Strip(raw string) string {
	h := strings.ToLower(strings.TrimSpace(raw))
	if h == "" {
		return ""
	}
	if h[0] == '[' {
		// [::1]:8080 → [::1]
		if i := strings.LastIndex(h, "]"); i >= 0 {
			return h[:i+1]
		}
		return h
	}
	if i := strings.LastIndex(h, ":"); i >= 0 {
		return h[:i]
	}
	return h
}

// Classify maps an already-stripped hostname to its class.  Rules run in
// order and the first match wins:
//
//  1. empty, the root domain, "www."+root, or "localhost"  → root
//  2. "<name>---…"+previewSuffix                           → preview
//  3. "<name>.localhost"                                   → local
//  4. "<prefix>."+root                                     → tenant
//  5. anything else                                        → custom
func Classify(host, rootDomain, previewSuffix string) Classification {
	c := Classification{Hostname: host}

	switch host {
	case "", rootDomain, "www." + rootDomain, "localhost":
		c.Class = ClassRoot
		return c
	}

	// An unset preview suffix disables the rule entirely; "."+"" would
	// otherwise match any host with a trailing dot.
	if previewSuffix != "" {
		if label, ok := strings.CutSuffix(host, "."+previewSuffix); ok {
			c.Class = ClassPreview
			// Deployment labels look like "<project>---<branch>---<hash>";
			// the project part identifies the tenant.
			c.Subdomain, _, _ = strings.Cut(label, "---")
			return c
		}
	}

	if sub, ok := strings.CutSuffix(host, ".localhost"); ok {
		c.Class = ClassLocal
		c.Subdomain = sub
		return c
	}

	if sub, ok := strings.CutSuffix(host, "."+rootDomain); ok {
		c.Class = ClassTenant
		c.Subdomain = sub
		return c
	}

	c.Class = ClassCustom
	return c
}

// internal/tenant/headers.go
//
// Forwarded-header channel for the resolved tenant.
//
// Context
// -------
// The gate threads the resolved tenant through context.Context, but some
// downstream consumers (external SSR workers, the legacy renderer) only
// see HTTP.  For those the identity is mirrored into x-* request headers.
// When both channels are populated the context value wins; headers exist
// for compatibility, not as the primary channel.
package tenant

import "net/http"

// Header names of the forwarded identity.  Lowercase to match what
// proxies and the legacy renderer already expect.
const (
	HeaderSubdomain     = "x-subdomain"
	HeaderCompanySlug   = "x-company-slug"
	HeaderCompanyName   = "x-company-name"
	HeaderCompanyID     = "x-company-id"
	HeaderWebsiteExists = "x-website-exists"
)

// ClearHeaders deletes the whole identity family from h.  The gate calls
// it on every request before resolution so a client-forged x-company-*
// header can never impersonate a tenant downstream.
func ClearHeaders(h http.Header) {
	h.Del(HeaderSubdomain)
	h.Del(HeaderCompanySlug)
	h.Del(HeaderCompanyName)
	h.Del(HeaderCompanyID)
	h.Del(HeaderWebsiteExists)
}

// SetHeaders mirrors the resolved identity into h.  Empty fields are
// omitted except the existence flag, which is always present so absence
// of the whole header family means "unresolved", not "does not exist".
func SetHeaders(h http.Header, t *Resolved) {
	if t.Subdomain != "" {
		h.Set(HeaderSubdomain, t.Subdomain)
	}
	if t.Slug != "" {
		h.Set(HeaderCompanySlug, t.Slug)
	}
	if t.Name != "" {
		h.Set(HeaderCompanyName, t.Name)
	}
	if t.ID != "" {
		h.Set(HeaderCompanyID, t.ID)
	}
	if t.Exists {
		h.Set(HeaderWebsiteExists, "true")
	} else {
		h.Set(HeaderWebsiteExists, "false")
	}
}

// FromHeaders rebuilds a Resolved from forwarded headers.  ok is false
// when the header family is absent, meaning resolution never ran and the
// caller should fall back to route parameters.
func FromHeaders(h http.Header) (*Resolved, bool) {
	if h.Get(HeaderWebsiteExists) == "" {
		return nil, false
	}
	return &Resolved{
		Subdomain: h.Get(HeaderSubdomain),
		Slug:      h.Get(HeaderCompanySlug),
		Name:      h.Get(HeaderCompanyName),
		ID:        h.Get(HeaderCompanyID),
		Exists:    h.Get(HeaderWebsiteExists) == "true",
	}, true
}

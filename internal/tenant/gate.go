// internal/tenant/gate.go
//
// The gate: per-request resolution and dispatch.
//
// Context
// -------
// Every request enters here.  The gate resolves the host, attaches the
// tenant to the request (context value plus forwarded headers), and hands
// off to exactly one of two handlers:
//
//   - marketing – the platform's own site (root domain, www, reserved
//     subdomains, unresolvable hosts)
//   - site      – the public tenant-website renderer
//
// A resolved-but-nonexistent tenant (failed custom-domain validation,
// negative backend answer) is redirected to the marketing root rather
// than rendered, so visitors of a stale DNS record land somewhere real.
package tenant

import (
	"net/http"
)

// Gate returns the root http.Handler that dispatches between the
// marketing handler and the tenant-site handler.
func Gate(r *Resolver, marketing, site http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		// The identity family is gateway-owned; whatever the client sent
		// is dropped before resolution runs.
		ClearHeaders(req.Header)

		// X-Forwarded-Host wins when a fronting proxy rewrote Host.
		rawHost := req.Header.Get("X-Forwarded-Host")
		if rawHost == "" {
			rawHost = req.Host
		}

		res := r.Resolve(req.Context(), rawHost)

		if res.Tenant == nil {
			marketing.ServeHTTP(w, req)
			return
		}

		if !res.Tenant.Exists {
			http.Redirect(w, req, r.MarketingRoot(req), http.StatusTemporaryRedirect)
			return
		}

		req = req.WithContext(WithContext(req.Context(), res.Tenant))
		SetHeaders(req.Header, res.Tenant)
		site.ServeHTTP(w, req)
	})
}

// MarketingRoot is the absolute URL of the platform marketing site, with
// the scheme picked to match how the current request arrived.
func (r *Resolver) MarketingRoot(req *http.Request) string {
	scheme := "https"
	if req.TLS == nil && req.Header.Get("X-Forwarded-Proto") != "https" {
		scheme = "http"
	}
	return scheme + "://" + r.rootDomain + "/"
}

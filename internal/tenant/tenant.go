// internal/tenant/tenant.go
//
// Resolved tenant identity and its per-request context channel.
//
// Context
// -------
// A Resolved value is constructed exactly once per request, either from
// subdomain parsing (no I/O) or from a custom-domain backend lookup, and
// then travels with the request: primarily as a context value, and
// additionally as forwarded x-* headers for downstream consumers that
// only speak HTTP (see headers.go).  It is never persisted.
//
// Notes
//   - Exists == false is a first-class state, not an error: the gate
//     redirects those requests to the marketing root.
//   - Treat Resolved as immutable after construction.
package tenant

import (
	"context"
	"errors"
)

// ErrNotFound is returned by loaders when a host maps to no tenant.
var ErrNotFound = errors.New("tenant not found")

// Resolved is the tenant identity attached to a request.
type Resolved struct {
	Slug      string // canonical tenant identifier ("acme")
	Name      string // display name ("Acme Realty"); empty on the no-I/O path
	Subdomain string // platform subdomain token, empty for custom domains
	ID        string // backend company id when known
	Exists    bool   // false means fail-closed: render the marketing root
}

type ctxKey struct{}

// WithContext returns a child context carrying the resolved tenant.
func WithContext(ctx context.Context, t *Resolved) context.Context {
	return context.WithValue(ctx, ctxKey{}, t)
}

// FromContext extracts the resolved tenant, if the gate has run.
func FromContext(ctx context.Context) (*Resolved, bool) {
	t, ok := ctx.Value(ctxKey{}).(*Resolved)
	return t, ok
}

// internal/tenant/resolver.go
//
// Host → tenant resolution.
//
// Context
// -------
// The resolver glues the pure classifier to the stateful pieces: reserved
// subdomains, the custom-domain validation cache, and Prometheus counters.
// Within one request the order is fixed: parse, classify, validate (custom
// domains only), propagate; there is no fan-out.
//
// Classification outcomes map to exactly one of three serving paths:
//
//   - Root           → marketing site
//   - Subdomain-ish  → tenant identity derived from the hostname, no I/O
//   - Custom domain  → identity from the backend validator, fail closed
//
// A reserved subdomain token ("www", "app", "api", …) is handled as the
// Root path so platform surfaces can never be shadowed by a tenant.
package tenant

import (
	"context"

	"github.com/inmosite/gateway/internal/backend"
	"github.com/inmosite/gateway/internal/hostname"
	"github.com/inmosite/gateway/internal/metrics"
)

// DomainValidator is the slice of the backend client the resolver needs.
// Defined here so tests can substitute a fake without HTTP.
type DomainValidator interface {
	ValidateDomain(ctx context.Context, host string) (*backend.DomainValidation, error)
}

// Resolution is what the gate dispatches on: the host class plus, for the
// non-root classes, the resolved tenant.
type Resolution struct {
	Class  hostname.Class
	Tenant *Resolved
}

// Resolver is safe for concurrent use.  Construct once at startup.
type Resolver struct {
	rootDomain    string
	previewSuffix string
	reserved      map[string]struct{}
	cache         *Cache
}

// NewResolver wires a resolver against the given platform topology and
// validator.  The validator is only consulted for custom domains, through
// the cache.
func NewResolver(rootDomain, previewSuffix string, reserved map[string]struct{},
	v DomainValidator, copts CacheOptions) *Resolver {

	load := func(ctx context.Context, host string) (*Resolved, error) {
		dv, err := v.ValidateDomain(ctx, host)
		if err != nil {
			return nil, err
		}
		return &Resolved{
			Slug:   dv.Slug,
			Name:   dv.Name,
			ID:     dv.CompanyID,
			Exists: dv.Exists,
		}, nil
	}

	return &Resolver{
		rootDomain:    rootDomain,
		previewSuffix: previewSuffix,
		reserved:      reserved,
		cache:         NewCache(load, copts),
	}
}

// Resolve classifies rawHost and produces the request's Resolution.  It
// never fails; every backend problem degrades to a non-existent tenant.
func (r *Resolver) Resolve(ctx context.Context, rawHost string) Resolution {
	host := hostname.Strip(rawHost)
	c := hostname.Classify(host, r.rootDomain, r.previewSuffix)
	metrics.ClassificationsTotal.WithLabelValues(c.Class.String()).Inc()

	switch c.Class {
	case hostname.ClassRoot:
		return Resolution{Class: c.Class}

	case hostname.ClassPreview, hostname.ClassLocal, hostname.ClassTenant:
		if _, ok := r.reserved[c.Subdomain]; ok {
			return Resolution{Class: hostname.ClassRoot}
		}
		// Subdomain path carries the identity in the hostname itself;
		// existence is confirmed later by the website-config fetch.
		return Resolution{
			Class: c.Class,
			Tenant: &Resolved{
				Slug:      c.Subdomain,
				Subdomain: c.Subdomain,
				Exists:    true,
			},
		}

	default: // hostname.ClassCustom
		return Resolution{
			Class:  c.Class,
			Tenant: r.cache.Get(ctx, host),
		}
	}
}

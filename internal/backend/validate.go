// internal/backend/validate.go
//
// Custom-domain validation call.
//
// Context
// -------
// A hostname that matches neither the root domain nor any platform
// subdomain pattern can only be a customer-owned custom domain.  The
// backend is the system of record for those: one authenticated GET asks it
// whether the domain maps to a tenant.
//
// The call itself is pure: no caching, no side effects beyond the outbound
// request.  Caching of results is the resolver's concern, one layer up.
//
// Notes
//   - The shared secret travels in X-Domain-Check-Key; a 401 means the
//     secret is wrong on one side and is reported as ErrUnauthorized so the
//     caller can log it as a configuration error.
//   - Non-200 responses are not retried here; the resolver fails closed.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/inmosite/gateway/internal/metrics"
)

// checkKeyHeader carries the pre-shared secret the backend trusts.
const checkKeyHeader = "X-Domain-Check-Key"

// DomainValidation is the backend's answer for one hostname.
type DomainValidation struct {
	Exists    bool   `json:"exists"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	CompanyID string `json:"company_id"`
}

// ValidateDomain asks the backend whether hostname is a registered custom
// domain.  On success the returned value's Exists flag is authoritative.
// Any error return means "could not determine"; callers must fail closed
// and never treat an error as existence.
func (c *Client) ValidateDomain(ctx context.Context, hostname string) (*DomainValidation, error) {
	// Outbound budget: a hostile scan of unknown hostnames must not turn
	// into a backend flood.  Over-budget requests fail closed immediately.
	if !c.limiter.Allow() {
		metrics.DomainValidateTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("domain validation %s: outbound rate limit exceeded", hostname)
	}

	u := c.baseURL + "/companies/public/domains/validate/?domain=" + url.QueryEscape(hostname)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("domain validation %s: %w", hostname, err)
	}
	req.Header.Set(checkKeyHeader, c.checkKey)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.DomainValidateTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("domain validation %s: %w", hostname, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusUnauthorized:
		metrics.DomainValidateTotal.WithLabelValues("unauthorized").Inc()
		return nil, ErrUnauthorized
	case http.StatusNotFound:
		metrics.DomainValidateTotal.WithLabelValues("not_found").Inc()
		return nil, ErrNotFound
	default:
		metrics.DomainValidateTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("domain validation %s: backend status %d", hostname, resp.StatusCode)
	}

	var dv DomainValidation
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&dv); err != nil {
		metrics.DomainValidateTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("domain validation %s: decode: %w", hostname, err)
	}

	if dv.Exists {
		metrics.DomainValidateTotal.WithLabelValues("found").Inc()
	} else {
		metrics.DomainValidateTotal.WithLabelValues("not_found").Inc()
	}
	return &dv, nil
}

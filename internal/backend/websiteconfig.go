// internal/backend/websiteconfig.go
//
// Website-config fetch with optional Redis read-through.
//
// Context
// -------
// The render phase needs the tenant's website-configuration document
// (theme tokens, content blocks, SEO fields, template id).  The backend
// owns the document; the gateway fetches it fresh per request unless the
// Redis cache holds a copy younger than the configured TTL.
//
// The fetch shares the validator's timeout bound so a slow backend is
// cut off at the same point in both phases.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/inmosite/gateway/internal/metrics"
	"github.com/inmosite/gateway/internal/siteconfig"
)

// WebsiteConfig fetches the website-configuration document for one tenant
// slug.  ErrNotFound means the backend has no config for the slug; any
// other error is transport-level and the caller shows a retry-capable
// error page rather than guessing a template.
func (c *Client) WebsiteConfig(ctx context.Context, slug string) (*siteconfig.Config, error) {
	if c.cache != nil {
		var cfg siteconfig.Config
		if err := c.cache.GetConfig(ctx, slug, &cfg); err == nil {
			metrics.WebsiteConfigFetchTotal.WithLabelValues("hit").Inc()
			return &cfg, nil
		}
	}

	u := c.baseURL + "/companies/public/website-config/" + url.PathEscape(slug) + "/"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("website config %s: %w", slug, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.WebsiteConfigFetchTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("website config %s: %w", slug, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		metrics.WebsiteConfigFetchTotal.WithLabelValues("not_found").Inc()
		return nil, ErrNotFound
	default:
		metrics.WebsiteConfigFetchTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("website config %s: backend status %d", slug, resp.StatusCode)
	}

	var cfg siteconfig.Config
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&cfg); err != nil {
		metrics.WebsiteConfigFetchTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("website config %s: decode: %w", slug, err)
	}

	if c.cache != nil {
		// Write failures are non-fatal; the next request re-fetches.
		c.cache.SetConfig(ctx, slug, &cfg)
	}

	metrics.WebsiteConfigFetchTotal.WithLabelValues("miss").Inc()
	return &cfg, nil
}

// internal/backend/client.go
//
// HTTP client for the platform backend REST API.
//
// Context
// -------
// The gateway consults the backend for exactly two things: resolving a
// customer-owned domain to a tenant identity, and fetching a tenant's
// website configuration.  Both calls are bounded by the configured timeout
// so a slow backend can never hang request handling; both fail closed.
//
// The client owns the outbound plumbing the individual calls share: the
// timeout-bound http.Client, the pre-shared domain-check secret, an
// outbound rate limiter for validation calls, and the optional Redis
// read-through for website configs.
package backend

import (
	"errors"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Sentinel errors callers branch on.  Everything else is transport noise
// that the resolver converts to a fail-closed result.
var (
	// ErrNotFound means the backend answered authoritatively: no such
	// domain or tenant.
	ErrNotFound = errors.New("backend: not found")

	// ErrUnauthorized means the shared domain-check secret was rejected.
	// This is a deployment misconfiguration, not a per-request condition.
	ErrUnauthorized = errors.New("backend: domain check key rejected")
)

// Options tunes a Client.  Zero values fall back to the defaults below.
type Options struct {
	Timeout   time.Duration // per-call bound, default 5s
	RateLimit float64       // validation calls per second, default 10
	RateBurst int           // default 20
	Redis     *ConfigCache  // optional website-config read-through
}

// Client is safe for concurrent use.  Construct once at startup.
type Client struct {
	baseURL  string
	checkKey string
	http     *http.Client
	limiter  *rate.Limiter
	cache    *ConfigCache
}

// New builds a Client for the given API base URL ("https://api.example.com")
// and domain-check secret.
func New(baseURL, checkKey string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 20
	}
	return &Client{
		baseURL:  trimSlash(baseURL),
		checkKey: checkKey,
		http:     &http.Client{Timeout: opts.Timeout},
		limiter:  rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateBurst),
		cache:    opts.Redis,
	}
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

// internal/tenant/gate_test.go
//
// Gate dispatch and header-propagation tests.

package tenant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/inmosite/gateway/internal/backend"
	"github.com/inmosite/gateway/internal/metrics"
)

func TestGate_RootGoesToMarketing(t *testing.T) {
	r := newResolver(&fakeValidator{})

	marketingHit := false
	marketing := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		marketingHit = true
	})
	site := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		t.Fatal("site handler must not run for the root domain")
	})

	req := httptest.NewRequest(http.MethodGet, "http://inmosite.com/", nil)
	Gate(r, marketing, site).ServeHTTP(httptest.NewRecorder(), req)

	if !marketingHit {
		t.Fatal("marketing handler not reached")
	}
}

func TestGate_TenantSubdomainPropagatesIdentity(t *testing.T) {
	r := newResolver(&fakeValidator{})

	var gotCtx *Resolved
	var gotHdr http.Header
	site := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotCtx, _ = FromContext(req.Context())
		gotHdr = req.Header.Clone()
	})

	req := httptest.NewRequest(http.MethodGet, "http://acme.inmosite.com/", nil)
	Gate(r, http.NotFoundHandler(), site).ServeHTTP(httptest.NewRecorder(), req)

	if gotCtx == nil || gotCtx.Slug != "acme" {
		t.Fatalf("context tenant = %+v", gotCtx)
	}
	if gotHdr.Get(HeaderSubdomain) != "acme" || gotHdr.Get(HeaderCompanySlug) != "acme" {
		t.Fatalf("forwarded headers = %v", gotHdr)
	}
	if gotHdr.Get(HeaderWebsiteExists) != "true" {
		t.Fatalf("x-website-exists = %q, want true", gotHdr.Get(HeaderWebsiteExists))
	}
}

func TestGate_ForwardedHostWins(t *testing.T) {
	r := newResolver(&fakeValidator{})

	var gotCtx *Resolved
	site := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotCtx, _ = FromContext(req.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "http://internal-lb:8080/", nil)
	req.Header.Set("X-Forwarded-Host", "acme.inmosite.com")
	Gate(r, http.NotFoundHandler(), site).ServeHTTP(httptest.NewRecorder(), req)

	if gotCtx == nil || gotCtx.Slug != "acme" {
		t.Fatalf("context tenant = %+v, want acme via X-Forwarded-Host", gotCtx)
	}
}

func TestGate_StripsForgedIdentityHeaders(t *testing.T) {
	r := newResolver(&fakeValidator{})

	forge := func(req *http.Request) {
		req.Header.Set(HeaderCompanySlug, "victim")
		req.Header.Set(HeaderCompanyName, "Victim Co")
		req.Header.Set(HeaderCompanyID, "666")
		req.Header.Set(HeaderWebsiteExists, "true")
	}

	// Marketing path: nothing resolves, so the family must arrive empty.
	var marketingHdr http.Header
	marketing := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		marketingHdr = req.Header.Clone()
	})
	req := httptest.NewRequest(http.MethodGet, "http://inmosite.com/", nil)
	forge(req)
	Gate(r, marketing, http.NotFoundHandler()).ServeHTTP(httptest.NewRecorder(), req)

	if marketingHdr.Get(HeaderCompanySlug) != "" || marketingHdr.Get(HeaderWebsiteExists) != "" {
		t.Fatalf("forged headers survived the marketing path: %v", marketingHdr)
	}

	// Tenant path: only the gateway's own resolution may be forwarded.
	var siteHdr http.Header
	site := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		siteHdr = req.Header.Clone()
	})
	req = httptest.NewRequest(http.MethodGet, "http://acme.inmosite.com/", nil)
	forge(req)
	Gate(r, http.NotFoundHandler(), site).ServeHTTP(httptest.NewRecorder(), req)

	if siteHdr.Get(HeaderCompanySlug) != "acme" {
		t.Fatalf("x-company-slug = %q, want acme", siteHdr.Get(HeaderCompanySlug))
	}
	if siteHdr.Get(HeaderCompanyName) != "" || siteHdr.Get(HeaderCompanyID) != "" {
		t.Fatalf("forged fields survived the tenant path: %v", siteHdr)
	}
}

func TestGate_NonexistentTenantRedirectsToMarketingRoot(t *testing.T) {
	v := &fakeValidator{answer: &backend.DomainValidation{Exists: false}}
	r := newResolver(v)

	req := httptest.NewRequest(http.MethodGet, "http://stale.example.org/listings", nil)
	rr := httptest.NewRecorder()
	Gate(r, http.NotFoundHandler(), http.NotFoundHandler()).ServeHTTP(rr, req)

	if rr.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "http://inmosite.com/" {
		t.Fatalf("location = %q", loc)
	}
}

func TestHeaders_RoundTrip(t *testing.T) {
	h := http.Header{}
	SetHeaders(h, &Resolved{Slug: "acme", Name: "Acme Realty", Subdomain: "acme", ID: "42", Exists: true})

	got, ok := FromHeaders(h)
	if !ok {
		t.Fatal("header family should be present")
	}
	if got.Slug != "acme" || got.Name != "Acme Realty" || got.ID != "42" || !got.Exists {
		t.Fatalf("got %+v", got)
	}

	if _, ok := FromHeaders(http.Header{}); ok {
		t.Fatal("absent headers must report !ok so callers fall back to route params")
	}
}

func TestCache_GetNeverFails(t *testing.T) {
	load := func(ctx context.Context, host string) (*Resolved, error) {
		return nil, context.DeadlineExceeded
	}
	c := NewCache(load, CacheOptions{})
	defer c.Stop()

	if res := c.Get(context.Background(), "x.org"); res == nil || res.Exists {
		t.Fatalf("res = %+v, want fail-closed", res)
	}
}

func TestCache_GaugeStableAcrossConcurrentExpiry(t *testing.T) {
	load := func(ctx context.Context, host string) (*Resolved, error) {
		return &Resolved{Exists: false}, nil
	}
	c := NewCache(load, CacheOptions{NegativeTTL: 20 * time.Millisecond})
	defer c.Stop()

	baseline := testutil.ToFloat64(metrics.ActiveTenants)

	c.Get(context.Background(), "scan.example.org")
	time.Sleep(40 * time.Millisecond)

	// Several goroutines race to delete the same expired entry; only one
	// removal may decrement the gauge or it drifts negative over time.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Get(context.Background(), "scan.example.org")
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(metrics.ActiveTenants); got != baseline+1 {
		t.Fatalf("active tenants gauge = %v, want %v (one live entry)", got, baseline+1)
	}
}

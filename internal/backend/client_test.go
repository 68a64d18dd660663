// internal/backend/client_test.go
//
// Backend client tests against httptest servers.
//
// Context
// -------
// The contract under test is §fail-closed: every transport-level problem
// (timeout, 401, 5xx, malformed JSON) must surface as an error so the
// resolver can map it to "tenant does not exist".  Success paths must
// carry the identity fields through unchanged.

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/inmosite/gateway/internal/metrics"
)

func newTestClient(url string, opts Options) *Client {
	return New(url, "sekret", opts)
}

func TestValidateDomain_Success(t *testing.T) {
	var gotKey, gotDomain string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Domain-Check-Key")
		gotDomain = r.URL.Query().Get("domain")
		if r.URL.Path != "/companies/public/domains/validate/" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(DomainValidation{
			Exists: true, Slug: "acme", Name: "Acme Realty", CompanyID: "42",
		})
	}))
	defer srv.Close()

	dv, err := newTestClient(srv.URL, Options{}).ValidateDomain(context.Background(), "www.acme-realty.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "sekret" {
		t.Errorf("check key = %q, want sekret", gotKey)
	}
	if gotDomain != "www.acme-realty.com" {
		t.Errorf("domain param = %q", gotDomain)
	}
	if !dv.Exists || dv.Slug != "acme" || dv.Name != "Acme Realty" || dv.CompanyID != "42" {
		t.Errorf("validation = %+v", dv)
	}
}

func TestValidateDomain_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, Options{}).ValidateDomain(context.Background(), "x.com")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestValidateDomain_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL, Options{}).ValidateDomain(context.Background(), "x.com"); err == nil {
		t.Fatal("want error on 502")
	}
}

func TestValidateDomain_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"exists": tru`))
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL, Options{}).ValidateDomain(context.Background(), "x.com"); err == nil {
		t.Fatal("want error on malformed body")
	}
}

func TestValidateDomain_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	cli := newTestClient(srv.URL, Options{Timeout: 20 * time.Millisecond})
	if _, err := cli.ValidateDomain(context.Background(), "slow.com"); err == nil {
		t.Fatal("want error on timeout")
	}
}

func TestValidateDomain_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(DomainValidation{Exists: false})
	}))
	defer srv.Close()

	cli := newTestClient(srv.URL, Options{RateLimit: 0.001, RateBurst: 1})
	if _, err := cli.ValidateDomain(context.Background(), "a.com"); err != nil {
		t.Fatalf("first call should pass: %v", err)
	}
	if _, err := cli.ValidateDomain(context.Background(), "b.com"); err == nil {
		t.Fatal("second call should exhaust the burst and fail closed")
	}
}

func TestWebsiteConfig_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/companies/public/website-config/acme/" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{
			"company": {"id": "42", "slug": "acme", "name": "Acme Realty"},
			"seo": {"title": "Acme"},
			"templateId": "template_2"
		}`))
	}))
	defer srv.Close()

	cfg, err := newTestClient(srv.URL, Options{}).WebsiteConfig(context.Background(), "acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TemplateID != "template_2" || cfg.Company.Slug != "acme" {
		t.Errorf("config = %+v", cfg)
	}
}

func TestWebsiteConfig_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	notFound := metrics.WebsiteConfigFetchTotal.WithLabelValues("not_found")
	miss := metrics.WebsiteConfigFetchTotal.WithLabelValues("miss")
	beforeNotFound := testutil.ToFloat64(notFound)
	beforeMiss := testutil.ToFloat64(miss)

	_, err := newTestClient(srv.URL, Options{}).WebsiteConfig(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	// A backend 404 is its own outcome, distinct from an uncached fetch.
	if got := testutil.ToFloat64(notFound); got != beforeNotFound+1 {
		t.Fatalf("not_found outcome = %v, want %v", got, beforeNotFound+1)
	}
	if got := testutil.ToFloat64(miss); got != beforeMiss {
		t.Fatalf("miss outcome moved on a 404: %v -> %v", beforeMiss, got)
	}
}

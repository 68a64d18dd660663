package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSecurity_SetsHeadersWithoutOverwriting(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "SAMEORIGIN") // handler's choice wins
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	Security(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("nosniff header = %q", got)
	}
	if got := rr.Header().Get("X-Frame-Options"); got != "SAMEORIGIN" {
		t.Fatalf("handler header overwritten: %q", got)
	}
	if rr.Header().Get("Strict-Transport-Security") == "" {
		t.Fatal("hsts missing")
	}
}

func TestForceHTTPS_RedirectsPlainHTTP(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "http://acme.inmosite.com/listings?page=2", nil)
	ForceHTTPS(http.NotFoundHandler()).ServeHTTP(rr, req)

	if rr.Code != http.StatusPermanentRedirect {
		t.Fatalf("status = %d, want 308", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "https://acme.inmosite.com/listings?page=2" {
		t.Fatalf("location = %q", loc)
	}
}

func TestForceHTTPS_SkipsLocalhostAndProxiedTLS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, tc := range []struct {
		name string
		req  *http.Request
	}{
		{"localhost", httptest.NewRequest(http.MethodGet, "http://acme.localhost:3000/", nil)},
		{"proxied tls", func() *http.Request {
			r := httptest.NewRequest(http.MethodGet, "http://acme.inmosite.com/", nil)
			r.Header.Set("X-Forwarded-Proto", "https")
			return r
		}()},
	} {
		rr := httptest.NewRecorder()
		ForceHTTPS(ok).ServeHTTP(rr, tc.req)
		if rr.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", tc.name, rr.Code)
		}
	}
}

// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"net/http"
	"strings"
)

// ForceHTTPS wraps h.  Plain-HTTP requests are 308-redirected to the HTTPS
// version of the same URL, except for development hosts (localhost and
// *.localhost) where TLS is not available.  Requests that already arrived
// over TLS, or whose terminating proxy vouches for TLS via
// X-Forwarded-Proto, pass through unchanged.
func ForceHTTPS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			h.ServeHTTP(w, r)
			return
		}

		host := stripPort(r.Host)
		if host == "localhost" || strings.HasSuffix(host, ".localhost") {
			h.ServeHTTP(w, r)
			return
		}

		target := "https://" + r.Host + r.URL.RequestURI()
		http.Redirect(w, r, target, http.StatusPermanentRedirect)
	})
}

// stripPort removes the :port suffix from Host when present.
func stripPort(h string) string {
	if i := strings.IndexByte(h, ':'); i != -1 {
		return h[:i]
	}
	return h
}

// internal/website/handler.go
//
// Public tenant-site renderer (the render phase).
//
// Context
// -------
// By the time a request reaches this handler the gate has attached a
// resolved tenant.  The handler fetches that tenant's website config from
// the backend (timeout-bound, optionally Redis-cached one layer down),
// picks the template set, seeds the <head> from the SEO fields, and
// renders.  Slug precedence follows the resolution contract: context
// value, then forwarded headers, then the route parameter as a last
// resort for direct navigation.
//
// Failure modes are user-visible but never fatal: a missing config is a
// 404 page, a backend failure is a retry-capable 503, and a template
// execution error is a 500.  All three render the shared error set.
package website

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/inmosite/gateway/internal/backend"
	"github.com/inmosite/gateway/internal/head"
	"github.com/inmosite/gateway/internal/metrics"
	"github.com/inmosite/gateway/internal/siteconfig"
	"github.com/inmosite/gateway/internal/tenant"
)

// ConfigSource is the slice of the backend client the handler needs.
type ConfigSource interface {
	WebsiteConfig(ctx context.Context, slug string) (*siteconfig.Config, error)
}

// Handler renders public tenant sites.
type Handler struct {
	Source       ConfigSource
	Templates    *Manager
	FetchTimeout time.Duration // bound on the config fetch, default 5s
}

// pageData is what template sets receive.
type pageData struct {
	Head   *head.Builder
	Config *siteconfig.Config
	Tenant *tenant.Resolved
}

// ServeHTTP implements the render phase for any path on a tenant host.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	slug := h.slug(r)
	if slug == "" {
		h.errorPage(w, http.StatusNotFound, "This site could not be identified.")
		return
	}

	timeout := h.FetchTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	cfg, err := h.Source.WebsiteConfig(ctx, slug)
	switch {
	case errors.Is(err, backend.ErrNotFound):
		h.errorPage(w, http.StatusNotFound, "This site is not published yet.")
		return
	case err != nil:
		zap.S().Errorw("website config fetch failed", "slug", slug, "err", err)
		w.Header().Set("Retry-After", "30")
		h.errorPage(w, http.StatusServiceUnavailable,
			"The site is temporarily unavailable. Please try again in a moment.")
		return
	}

	set := Dispatch(cfg.TemplateID, slug)
	tpl, err := h.Templates.Load(set)
	if err != nil {
		zap.S().Errorw("template set load failed", "set", set, "err", err)
		metrics.RenderErrorsTotal.Inc()
		h.errorPage(w, http.StatusInternalServerError, "Something went wrong rendering this site.")
		return
	}

	tn, _ := tenant.FromContext(r.Context())
	data := pageData{Head: h.buildHead(cfg), Config: cfg, Tenant: tn}

	// Render to a buffer first so a mid-template failure never leaks a
	// half-written page to the client.
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "home.html", data); err != nil {
		zap.S().Errorw("template execution failed", "set", set, "slug", slug, "err", err)
		metrics.RenderErrorsTotal.Inc()
		h.errorPage(w, http.StatusInternalServerError, "Something went wrong rendering this site.")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// slug applies the resolution-source precedence.
func (h *Handler) slug(r *http.Request) string {
	if tn, ok := tenant.FromContext(r.Context()); ok && tn.Slug != "" {
		return tn.Slug
	}
	if tn, ok := tenant.FromHeaders(r.Header); ok && tn.Slug != "" {
		return tn.Slug
	}
	return chi.URLParam(r, "slug")
}

// buildHead seeds the <head> builder from the config's SEO block.
func (h *Handler) buildHead(cfg *siteconfig.Config) *head.Builder {
	b := head.New()

	title := cfg.SEO.Title
	if title == "" {
		title = cfg.Company.Name
	}
	b.SetTitle(title)
	b.Meta(`<meta charset="utf-8">`)
	b.Meta(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	b.MetaNameContent("description", cfg.SEO.Description)
	b.MetaNameContent("keywords", cfg.SEO.Keywords)
	b.OpenGraph("og:title", title)
	b.OpenGraph("og:description", cfg.SEO.Description)
	b.OpenGraph("og:image", cfg.SEO.OGImage)

	if ld, err := json.Marshal(map[string]any{
		"@context":  "https://schema.org",
		"@type":     "RealEstateAgent",
		"name":      cfg.Company.Name,
		"telephone": cfg.Company.Phone,
		"email":     cfg.Company.Email,
	}); err == nil {
		b.JSONLD(string(ld))
	}
	return b
}

// errorPage renders the shared error set; if even that fails, plain text.
func (h *Handler) errorPage(w http.ResponseWriter, status int, msg string) {
	tpl, err := h.Templates.Load("shared")
	if err != nil {
		http.Error(w, msg, status)
		return
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "error.html", map[string]any{
		"Status":  status,
		"Message": msg,
	}); err != nil {
		http.Error(w, msg, status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

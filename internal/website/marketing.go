// internal/website/marketing.go
//
// Marketing-root handler: the platform's own landing page, served for the
// root domain, its www alias, reserved subdomains, and unresolvable hosts.
// The page is a template set like any tenant site, minus the per-tenant
// config fetch.
package website

import (
	"bytes"
	"net/http"

	"go.uber.org/zap"

	"github.com/inmosite/gateway/internal/head"
	"github.com/inmosite/gateway/internal/metrics"
)

// Marketing renders the platform landing page.
type Marketing struct {
	Templates *Manager
	RootName  string // platform brand, used as the <title>
}

func (m *Marketing) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tpl, err := m.Templates.Load("marketing")
	if err != nil {
		zap.S().Errorw("marketing template load failed", "err", err)
		metrics.RenderErrorsTotal.Inc()
		http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
		return
	}

	b := head.New()
	b.SetTitle(m.RootName)
	b.Meta(`<meta charset="utf-8">`)
	b.Meta(`<meta name="viewport" content="width=device-width, initial-scale=1">`)

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "home.html", map[string]any{"Head": b}); err != nil {
		zap.S().Errorw("marketing render failed", "err", err)
		metrics.RenderErrorsTotal.Inc()
		http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

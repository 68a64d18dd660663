// internal/requestinfo/middleware.go
//
// Enrichment middleware: assigns a correlation id, parses the UA, looks
// up geo (when configured), stores the Info in the request context, and
// echoes the id back as X-Request-ID.
package requestinfo

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/oschwald/geoip2-golang"
	"go.uber.org/zap"

	"github.com/inmosite/gateway/internal/metrics"
)

type ctxKey struct{}

// FromContext returns the enriched Info, if the middleware has run.
func FromContext(ctx context.Context) (*Info, bool) {
	i, ok := ctx.Value(ctxKey{}).(*Info)
	return i, ok
}

// Enricher builds the middleware.  geo may be nil.
type Enricher struct {
	Geo *geoip2.Reader
}

// Middleware wraps next with per-request enrichment.
func (e *Enricher) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}

		info := &Info{
			RequestID: id,
			UA:        ParseUA(r.UserAgent()),
			Geo:       lookupGeo(e.Geo, clientIP(r)),
			At:        time.Now(),
		}
		if info.UA.IsBot {
			metrics.BotRequestsTotal.Inc()
		}

		w.Header().Set("X-Request-ID", id)
		r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, info))

		next.ServeHTTP(w, r)

		zap.S().Debugw("request",
			"id", id,
			"host", r.Host,
			"path", r.URL.Path,
			"bot", info.UA.IsBot,
			"country", info.Geo.Country,
			"dur", time.Since(info.At).Truncate(time.Millisecond),
		)
	})
}

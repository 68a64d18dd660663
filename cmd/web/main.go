// cmd/web/main.go
//
// Tenant-resolution gateway – HTTP entry point.
//
// Request life-cycle
// ------------------
//
//  1. Load config (conf/.env → conf/global.yaml → INMO_* env overlay).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Resolve Vault references (domain-check secret) when present.
//
//  4. Wire the backend client: timeout-bound HTTP, outbound rate limit,
//     optional Redis read-through for website configs.
//
//  5. Build the tenant resolver with its in-process resolution cache.
//
//  6. Assemble the router:
//
//     • /metrics, /healthz         – operational endpoints
//     • request-id/UA enrichment   – requestinfo middleware
//     • security headers           – middleware.Security
//     • HTTPS enforcement          – middleware.ForceHTTPS (config-gated)
//     • everything else            – tenant.Gate → marketing or site
//
//  7. Serve with hardened timeouts; SIGINT/SIGTERM drain gracefully.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oschwald/geoip2-golang"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/inmosite/gateway/internal/backend"
	"github.com/inmosite/gateway/internal/config"
	"github.com/inmosite/gateway/internal/logger"
	"github.com/inmosite/gateway/internal/middleware"
	"github.com/inmosite/gateway/internal/requestinfo"
	"github.com/inmosite/gateway/internal/server"
	"github.com/inmosite/gateway/internal/tenant"
	"github.com/inmosite/gateway/internal/vault"
	"github.com/inmosite/gateway/internal/website"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logOut, err := logger.New(cfg.Paths.Root, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Secrets ─────────────────────────────────────────────────────
	//
	checkKey := cfg.Backend.DomainCheckKey
	if vault.IsRef(checkKey) {
		vcli, err := vault.New(ctx)
		if err != nil {
			logOut.Fatalw("vault client", "err", err)
		}
		checkKey, err = vcli.ResolveRef(ctx, checkKey)
		if err != nil {
			logOut.Fatalw("resolve domain check key", "err", err)
		}
	}

	//
	// ── 2.  Backend client (+ optional Redis read-through) ──────────────
	//
	var configCache *backend.ConfigCache
	if cfg.Cache.RedisURL != "" {
		configCache = backend.NewConfigCache(cfg.Cache.RedisURL, cfg.Cache.ConfigTTL)
		if err := configCache.Ping(ctx); err != nil {
			logOut.Fatalw("redis ping", "err", err)
		}
		defer configCache.Close()
		logOut.Infow("config cache online", "ttl", cfg.Cache.ConfigTTL)
	}

	api := backend.New(cfg.Backend.BaseURL, checkKey, backend.Options{
		Timeout:   cfg.Backend.Timeout,
		RateLimit: cfg.Backend.RateLimit,
		RateBurst: cfg.Backend.RateBurst,
		Redis:     configCache,
	})

	//
	// ── 3.  Tenant resolver ─────────────────────────────────────────────
	//
	resolver := tenant.NewResolver(
		cfg.Platform.RootDomain,
		cfg.Platform.PreviewSuffix,
		cfg.Platform.Reserved(),
		api,
		tenant.CacheOptions{
			IdleTTL:     cfg.Cache.IdleTTL,
			NegativeTTL: cfg.Cache.NegativeTTL,
			MaxEntries:  cfg.Cache.MaxTenants,
		},
	)

	//
	// ── 4.  Render phase: template sets and handlers ────────────────────
	//
	tmpl := website.NewManager(cfg.Templates.Dir)
	siteHandler := &website.Handler{
		Source:       api,
		Templates:    tmpl,
		FetchTimeout: cfg.Backend.Timeout,
	}

	marketingMux := chi.NewRouter()
	// Direct navigation fallback: slug from the route when no resolution
	// headers or context exist (e.g., /site/acme on the root domain).
	marketingMux.Get("/site/{slug}", siteHandler.ServeHTTP)
	marketingMux.NotFound((&website.Marketing{
		Templates: tmpl,
		RootName:  cfg.Platform.RootDomain,
	}).ServeHTTP)

	//
	// ── 5.  Router assembly ─────────────────────────────────────────────
	//
	var geoDB *geoip2.Reader
	if cfg.GeoIP.DBPath != "" {
		if geoDB, err = geoip2.Open(cfg.GeoIP.DBPath); err != nil {
			logOut.Warnw("geoip database unavailable", "path", cfg.GeoIP.DBPath, "err", err)
			geoDB = nil
		} else {
			defer geoDB.Close()
		}
	}
	enricher := &requestinfo.Enricher{Geo: geoDB}

	root := chi.NewRouter()
	root.Use(enricher.Middleware)
	root.Use(middleware.Security)

	root.Method(http.MethodGet, "/metrics", promhttp.Handler())
	root.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	gate := tenant.Gate(resolver, marketingMux, siteHandler)
	root.Handle("/*", gate)

	var handler http.Handler = root
	if cfg.HTTP.ForceHTTPS {
		handler = middleware.ForceHTTPS(handler)
	}

	//
	// ── 6.  Serve ───────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, handler)

	go func() {
		logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr,
			"root_domain", cfg.Platform.RootDomain)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logOut.Fatalw("http server", "err", err)
		}
	}()

	<-ctx.Done()
	logOut.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logOut.Errorw("shutdown", "err", err)
	}
}

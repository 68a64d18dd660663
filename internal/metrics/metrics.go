// Package metrics holds Prometheus instruments that are used across the
// gateway.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ClassificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "host_classifications_total",
			Help: "Hostname classifications by resulting class.",
		},
		[]string{"class"})

	DomainValidateTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domain_validate_total",
			Help: "Backend custom-domain validation calls by outcome.",
		},
		[]string{"outcome"}) // found, not_found, unauthorized, error

	ActiveTenants = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_tenants",
			Help: "Resolved tenants currently held in the in-process cache.",
		})

	TenantLoadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_load_total",
			Help: "Cumulative number of tenant resolutions loaded into the cache.",
		})

	TenantEvictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_evict_total",
			Help: "Cumulative number of tenants evicted from the cache.",
		})

	WebsiteConfigFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "website_config_fetch_total",
			Help: "Website-config fetches by outcome.",
		},
		[]string{"outcome"}) // hit, miss, not_found, error

	TemplateFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "template_fallback_total",
			Help: "Renders that degraded to template_1 because of an unknown template id.",
		})

	RenderErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "render_errors_total",
			Help: "Template executions that failed after a successful config fetch.",
		})

	BotRequestsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_requests_total",
			Help: "Requests whose User-Agent matched a known crawler signature.",
		})
)

func init() {
	prometheus.MustRegister(
		ClassificationsTotal,
		DomainValidateTotal,
		ActiveTenants,
		TenantLoadTotal,
		TenantEvictTotal,
		WebsiteConfigFetchTotal,
		TemplateFallbackTotal,
		RenderErrorsTotal,
		BotRequestsTotal,
	)
}

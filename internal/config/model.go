// internal/config/model.go
//
// Typed configuration model for the gateway.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   - optional `conf/.env`                   – dotenv values,
//   - `conf/global.yaml`                     – primary static file,
//   - `INMO_`-prefixed environment overrides – highest precedence.
//
// Any value written as `vault:<path>#<key>` is a reference into Vault KV-v2;
// the boot sequence resolves references *after* unmarshalling, so by the
// time handlers see Config it holds only plain strings.
//
// Everything in here is process-wide and read-only after startup.  The
// resolver, validator, and dispatcher receive it by injection, never via
// ambient lookups, so they stay unit-testable with arbitrary values.
//
// Notes
// -----
//   - Struct tags use `koanf:"…"`; Koanf ignores `yaml` tags.
//   - The `Paths` block is filled at runtime; YAML must not try to set it.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Platform section
//

// Platform describes the hosting topology the classifier works against:
// the marketing root domain, the preview-deployment suffix, and the
// subdomain labels that can never belong to a tenant.
type Platform struct {
	RootDomain         string   `koanf:"root_domain" validate:"required,fqdn"`
	PreviewSuffix      string   `koanf:"preview_suffix"`
	ReservedSubdomains []string `koanf:"reserved_subdomains"`
}

//
// Backend section
//

// Backend configures the platform REST API the gateway consults for
// custom-domain validation and website configs.  DomainCheckKey is the
// pre-shared secret sent as X-Domain-Check-Key; in production it is a
// `vault:` reference.
type Backend struct {
	BaseURL        string        `koanf:"base_url" validate:"required,url"`
	DomainCheckKey string        `koanf:"domain_check_key" validate:"required"`
	Timeout        time.Duration `koanf:"timeout"`
	RateLimit      float64       `koanf:"rate_limit"`
	RateBurst      int           `koanf:"rate_burst"`
}

//
// Cache section
//

// Cache tunes the two caching layers: the in-process tenant-resolution
// cache and the optional Redis read-through for website configs.  RedisURL
// empty means the Redis layer is disabled entirely.
type Cache struct {
	RedisURL    string        `koanf:"redis_url"`
	ConfigTTL   time.Duration `koanf:"config_ttl"`
	IdleTTL     time.Duration `koanf:"idle_ttl"`
	NegativeTTL time.Duration `koanf:"negative_ttl"`
	MaxTenants  int           `koanf:"max_tenants"`
}

//
// Templates section
//

// Templates points at the on-disk template sets (template_1 … template_3
// plus the marketing and shared error pages).
type Templates struct {
	Dir string `koanf:"dir" validate:"required"`
}

//
// GeoIP section
//

// GeoIP is optional; an empty DBPath disables geolocation enrichment.
type GeoIP struct {
	DBPath string `koanf:"db_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.  The loader
// discovers Root (repo root or INMO_ROOT override) so later code can build
// absolute file paths.
type Paths struct {
	Root string
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP      HTTP      `koanf:"http"`
	Platform  Platform  `koanf:"platform"`
	Backend   Backend   `koanf:"backend"`
	Cache     Cache     `koanf:"cache"`
	Templates Templates `koanf:"templates"`
	GeoIP     GeoIP     `koanf:"geoip"`
	Paths     Paths     `koanf:"-"`
}

// Reserved returns the reserved-subdomain set, always including "www".
func (p Platform) Reserved() map[string]struct{} {
	set := make(map[string]struct{}, len(p.ReservedSubdomains)+1)
	set["www"] = struct{}{}
	for _, s := range p.ReservedSubdomains {
		set[s] = struct{}{}
	}
	return set
}

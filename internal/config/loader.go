// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `conf/.env` — dotenv values for local development.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `INMO_`, where `__` maps to “.”
     (e.g., `INMO_PLATFORM__ROOT_DOMAIN → platform.root_domain`).

After merging, the tree is unmarshalled into strongly-typed structs,
defaulted, validated, enriched with the runtime root path, and cached in an
`atomic.Pointer` for lock-free reads.  `Reload()` simply calls `Load()`
again and swaps the pointer.

Vault references (`vault:<path>#<key>`) are left untouched here; the boot
sequence resolves them through internal/vault before wiring the backend
client, so Load() stays free of network I/O.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/global.yaml`, so
    `go run ./cmd/web` works from any sub-directory.
  • Logs use the global sugared logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed.
*/
package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

var current atomic.Pointer[Config]

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves INMO_ROOT or climbs directories until conf/global.yaml
// is found.  Falls back to the executable heuristic for production layout.
func rootDir() string {
	if r := os.Getenv("INMO_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, validates, and caches Config.
func Load() (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, err
	}

	// Env overrides: INMO_PLATFORM__ROOT_DOMAIN → platform.root_domain
	if err := k.Load(env.Provider("INMO_", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	applyDefaults(&cfg)

	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"root_domain", cfg.Platform.RootDomain,
		"backend", cfg.Backend.BaseURL,
		"redis", cfg.Cache.RedisURL != "",
	)
	return &cfg, nil
}

// applyDefaults fills the tunables that global.yaml may omit.  The backend
// timeout default matches the domain validator's 5-second bound; the config
// fetch shares it deliberately.
func applyDefaults(c *Config) {
	if c.Backend.Timeout <= 0 {
		c.Backend.Timeout = 5 * time.Second
	}
	if c.Backend.RateLimit <= 0 {
		c.Backend.RateLimit = 10 // validations per second
	}
	if c.Backend.RateBurst <= 0 {
		c.Backend.RateBurst = 20
	}
	if c.Cache.ConfigTTL <= 0 {
		c.Cache.ConfigTTL = 5 * time.Minute
	}
	if c.Cache.IdleTTL <= 0 {
		c.Cache.IdleTTL = 30 * time.Minute
	}
	if c.Cache.NegativeTTL <= 0 {
		c.Cache.NegativeTTL = 30 * time.Second
	}
	if c.Cache.MaxTenants <= 0 {
		c.Cache.MaxTenants = 1000
	}
	if c.Templates.Dir != "" && !filepath.IsAbs(c.Templates.Dir) {
		c.Templates.Dir = filepath.Join(c.Paths.Root, c.Templates.Dir)
	}
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func Get() *Config  { return current.Load() }
func Reload() error { _, err := Load(); return err }

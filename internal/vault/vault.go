// internal/vault/vault.go
//
// Vault client wrapper.
//
// Context
// -------
// Production deployments keep the X-Domain-Check-Key shared secret in
// HashiCorp Vault rather than in flat config files.  Config values written
// as `vault:<mount>/<path>#<key>` are resolved through this client once at
// boot; the rest of the app only ever sees plain strings.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New(ctx)                     // during boot
//  2. val, err := cli.ResolveRef(ctx, cfgValue)      // per config value
//
// Environment expectations
// ------------------------
//   - VAULT_ADDR  – scheme and host of the Vault server.
//   - VAULT_TOKEN – initial token (falls back to ~/.vault-token).
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

// RefPrefix marks a config value as a Vault KV-v2 reference.
const RefPrefix = "vault:"

// Client is safe for concurrent use.  Create once at startup and inject it.
// Zero value is invalid.
type Client struct {
	api *vault.Client
}

// New constructs a Vault client and starts a background token-renewal loop.
func New(ctx context.Context) (*Client, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}

	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		apiCli.SetToken(tok)
	}

	c := &Client{api: apiCli}
	go c.renewLoop(ctx)
	return c, nil
}

// IsRef reports whether a config value is a Vault reference.
func IsRef(val string) bool { return strings.HasPrefix(val, RefPrefix) }

// ResolveRef resolves `vault:<mount>/<path>#<key>` to the stored string.
// Values without the prefix are returned unchanged, so callers can pass
// every config value through without branching.  A nil receiver only
// tolerates non-reference values; references then fail with an error
// instead of silently running with a placeholder secret.
func (c *Client) ResolveRef(ctx context.Context, val string) (string, error) {
	if !IsRef(val) {
		return val, nil
	}
	if c == nil {
		return "", errors.New("vault reference present but no Vault client configured")
	}

	ref := strings.TrimPrefix(val, RefPrefix)
	path, key, ok := strings.Cut(ref, "#")
	if !ok || path == "" || key == "" {
		return "", fmt.Errorf("malformed vault reference %q", val)
	}
	return c.getKV(ctx, path, key)
}

// getKV fetches a single key from a KV-v2 secret.
func (c *Client) getKV(ctx context.Context, secretPath, key string) (string, error) {
	mount, rel, ok := strings.Cut(secretPath, "/")
	if !ok {
		return "", fmt.Errorf("vault path %q lacks a mount segment", secretPath)
	}

	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}

	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %q", key, secretPath)
	}
	sval, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s#%s is not a string", secretPath, key)
	}
	return sval, nil
}

// renewLoop keeps the token alive for long-running processes.  Renewal
// failures are logged and retried on the next tick; a token that cannot be
// renewed eventually surfaces as a ResolveRef error on the next reload.
func (c *Client) renewLoop(ctx context.Context) {
	t := time.NewTicker(15 * time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := c.api.Auth().Token().RenewSelf(0); err != nil {
				zap.S().Warnw("vault token renewal failed", "err", err)
			}
		}
	}
}

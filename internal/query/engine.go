package query

import "github.com/ali01/vault-lsp/internal/vault"

// Engine answers C7 queries against a vault. All methods are read-only
// and safe to call concurrently — they delegate to internal/vault's own
// locking, per spec §5 ("readers take the vault lock in shared mode").
type Engine struct {
	v   *vault.Vault
	cfg Config
}

// New constructs an Engine over v.
func New(v *vault.Vault, cfg Config) *Engine {
	return &Engine{v: v, cfg: cfg}
}

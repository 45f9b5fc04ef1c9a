// Package config loads and validates the server's YAML configuration:
// the §6 options table that shapes completion/query behavior, plus the
// ambient sections for the vault root, the optional remote-sync, cache,
// and snapshot-store collaborators, and the debug HTTP surface.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all server configuration loaded from YAML.
type Config struct {
	Vault   VaultConfig  `yaml:"vault"`
	Server  ServerConfig `yaml:"server"`
	Sync    SyncConfig   `yaml:"sync"`
	Cache   CacheConfig  `yaml:"cache"`
	Store   StoreConfig  `yaml:"store"`
	Options Options      `yaml:"options"`
}

// VaultConfig locates the Markdown vault this server indexes.
type VaultConfig struct {
	RootDir     string `yaml:"root_dir" validate:"required"`
	Concurrency int    `yaml:"concurrency" validate:"omitempty,min=1"`
}

// ServerConfig holds the debug/introspection HTTP surface settings —
// not the editor protocol itself, just an operational side-channel
// (spec SPEC_FULL §6.5).
type ServerConfig struct {
	DebugHost string `yaml:"debug_host"`
	DebugPort int    `yaml:"debug_port" validate:"omitempty,min=1,max=65535"`
}

// SyncConfig configures the optional git-backed remote vault mirror
// (internal/vaultsync).
type SyncConfig struct {
	Enabled      bool   `yaml:"enabled"`
	RemoteURL    string `yaml:"remote_url" validate:"required_if=Enabled true"`
	Branch       string `yaml:"branch"`
	LocalPath    string `yaml:"local_path"`
	SyncInterval string `yaml:"sync_interval"` // parsed with time.ParseDuration
	SSHKeyPath   string `yaml:"ssh_key_path"`
}

// CacheConfig configures the optional redis-backed query cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr" validate:"required_if=Enabled true"`
	DB      int    `yaml:"db"`
	TTL     string `yaml:"ttl"` // parsed with time.ParseDuration
}

// StoreConfig configures the optional postgres-backed vault snapshot
// persistence (internal/store).
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn" validate:"required_if=Enabled true"`
}

// Options is the §6 options table — every knob that shapes completion
// and query behavior.
type Options struct {
	DailyNoteFormat            string `yaml:"daily_note_format" validate:"required"`
	DailyNoteFolder            string `yaml:"daily_note_folder"`
	NewFileFolderPath          string `yaml:"new_file_folder_path"`
	HeadingCompletions         bool   `yaml:"heading_completions"`
	TitleHeadings              bool   `yaml:"title_headings"`
	UnresolvedDiagnostics      bool   `yaml:"unresolved_diagnostics"`
	SemanticTokens             bool   `yaml:"semantic_tokens"`
	TagsInCodeblocks           bool   `yaml:"tags_in_codeblocks"`
	ReferencesInCodeblocks     bool   `yaml:"references_in_codeblocks"`
	IncludeMDExtensionMDLink   bool   `yaml:"include_md_extension_md_link"`
	IncludeMDExtensionWikiLink bool   `yaml:"include_md_extension_wikilink"`
	Hover                      bool   `yaml:"hover"`
	CaseMatching               string `yaml:"case_matching" validate:"omitempty,oneof=ignore smart respect"`
	Normalization              string `yaml:"normalization" validate:"omitempty,oneof=never smart"`
	InlayHints                 bool   `yaml:"inlay_hints"`
	BlockTransclusion          bool   `yaml:"block_transclusion"`
	BlockTransclusionLength    string `yaml:"block_transclusion_length"`
	NumCompletions             int    `yaml:"num_completions" validate:"omitempty,min=1"`
	NumBlockCompletions        int    `yaml:"num_block_completions" validate:"omitempty,min=1"`
	BacklinksToPreview         int    `yaml:"backlinks_to_preview" validate:"omitempty,min=0"`
}

// DefaultConfig returns configuration with sensible defaults, mirroring
// the teacher's DefaultConfig shape (one literal per section).
func DefaultConfig() *Config {
	return &Config{
		Vault: VaultConfig{
			RootDir:     ".",
			Concurrency: 4,
		},
		Server: ServerConfig{
			DebugHost: "localhost",
			DebugPort: 8080,
		},
		Sync: SyncConfig{
			Enabled:      false,
			Branch:       "main",
			LocalPath:    "data/vault",
			SyncInterval: "5m",
		},
		Cache: CacheConfig{
			Enabled: false,
			Addr:    "localhost:6379",
			TTL:     "30m",
		},
		Store: StoreConfig{
			Enabled: false,
		},
		Options: Options{
			DailyNoteFormat:       "%Y-%m-%d",
			HeadingCompletions:    true,
			UnresolvedDiagnostics: true,
			Hover:                 true,
			CaseMatching:          "smart",
			Normalization:         "smart",
			NumCompletions:        50,
			NumBlockCompletions:   20,
			BacklinksToPreview:    5,
		},
	}
}

var validate = validator.New()

// LoadFromYAML loads configuration from a YAML file, overlaying it onto
// DefaultConfig, then validates it (teacher's internal/config.go shape,
// `validator.New().Struct()` promoted here from the teacher's test-only
// use to production validation).
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is controlled by application
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate runs struct-tag validation plus the handful of cross-field
// checks `validator` tags can't express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if c.Vault.RootDir == "" {
		return fmt.Errorf("vault root_dir is required")
	}
	return nil
}

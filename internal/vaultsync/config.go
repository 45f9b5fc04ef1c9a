package vaultsync

import "time"

// Config holds the settings for mirroring a remote git repository into
// a local vault directory. Grounded directly on the teacher's
// internal/git/config.go; sourced from config.SyncConfig by the caller
// (cmd/server), which owns YAML loading for the whole process.
type Config struct {
	RemoteURL string
	Branch    string
	LocalPath string

	SSHKeyPath string

	AutoSync     bool
	SyncInterval time.Duration

	ShallowClone bool
	SingleBranch bool
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.RemoteURL == "" {
		return ErrNoRemoteURL
	}
	if c.LocalPath == "" {
		return ErrNoLocalPath
	}
	return nil
}

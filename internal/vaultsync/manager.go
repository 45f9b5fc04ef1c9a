// Package vaultsync implements the optional git-backed remote vault
// mirror named in SPEC_FULL §7's domain stack: clone-or-open a remote
// repository into a local directory and pull it on an interval,
// feeding the same workspace-refresh path as internal/watcher does for
// local filesystem changes.
//
// Grounded directly on the teacher's internal/git/manager.go (clone/
// open/pull, ticker-based periodic sync, before/after file-list diffing
// to report exactly which paths changed), repurposed from "sync app
// data from git" to "keep a vault directory in sync with a git remote."
package vaultsync

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// Manager owns the local git mirror and drives periodic pulls.
type Manager struct {
	config *Config
	repo   *git.Repository

	mu         sync.RWMutex
	syncMu     sync.Mutex
	lastSync   time.Time
	syncTicker *time.Ticker
	stopChan   chan struct{}

	onUpdate func(changedFiles []string)
}

// NewManager validates config and constructs a Manager.
func NewManager(cfg *Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Manager{config: cfg, stopChan: make(chan struct{})}, nil
}

// SetUpdateCallback sets the function called with the changed paths
// after a successful pull — the caller wires this to the vault's
// Refresh (or a narrower per-file re-scan).
func (m *Manager) SetUpdateCallback(callback func(changedFiles []string)) {
	m.onUpdate = callback
}

// Initialize opens the existing local mirror, or clones it fresh if
// absent or corrupted.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := os.Stat(m.config.LocalPath); err == nil {
		repo, err := git.PlainOpen(m.config.LocalPath)
		if err != nil {
			log.Printf("vaultsync: failed to open existing mirror, re-cloning: %v", err)
			if rmErr := os.RemoveAll(m.config.LocalPath); rmErr != nil {
				return fmt.Errorf("vaultsync: failed to remove corrupted mirror: %w", rmErr)
			}
		} else {
			m.repo = repo
			log.Printf("vaultsync: opened existing mirror at %s", m.config.LocalPath)
			if err := m.pullInternal(ctx); err != nil {
				log.Printf("vaultsync: initial pull failed, continuing with stale mirror: %v", err)
			}
			return nil
		}
	}

	log.Printf("vaultsync: cloning %s to %s", m.config.RemoteURL, m.config.LocalPath)
	cloneOpts := &git.CloneOptions{
		URL:           m.config.RemoteURL,
		Auth:          m.getAuth(),
		Progress:      os.Stdout,
		SingleBranch:  m.config.SingleBranch,
		ReferenceName: plumbing.NewBranchReferenceName(m.config.Branch),
	}
	if m.config.ShallowClone {
		cloneOpts.Depth = 1
	}

	repo, err := git.PlainCloneContext(ctx, m.config.LocalPath, false, cloneOpts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCloneFailed, err)
	}

	m.repo = repo
	m.lastSync = time.Now()
	log.Printf("vaultsync: clone complete")
	return nil
}

// Pull fetches and force-merges latest changes, reporting any changed
// paths through the update callback. Concurrent pulls are rejected
// rather than queued — the mirror is read-only from the server's
// perspective, so a skipped pull just waits for the next tick.
func (m *Manager) Pull(ctx context.Context) error {
	if !m.syncMu.TryLock() {
		return ErrSyncInProgress
	}
	defer m.syncMu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pullInternal(ctx)
}

func (m *Manager) pullInternal(ctx context.Context) error {
	if m.repo == nil {
		return ErrRepoNotFound
	}

	worktree, err := m.repo.Worktree()
	if err != nil {
		return err
	}

	oldFiles := m.getFileList()

	err = worktree.PullContext(ctx, &git.PullOptions{
		RemoteName:    "origin",
		Auth:          m.getAuth(),
		Progress:      os.Stdout,
		Force:         true,
		SingleBranch:  m.config.SingleBranch,
		ReferenceName: plumbing.NewBranchReferenceName(m.config.Branch),
	})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return fmt.Errorf("%w: %v", ErrPullFailed, err)
	}

	m.lastSync = time.Now()
	newFiles := m.getFileList()
	changed := findChangedFiles(oldFiles, newFiles)

	if len(changed) > 0 && m.onUpdate != nil {
		log.Printf("vaultsync: %d files changed", len(changed))
		m.onUpdate(changed)
	}
	if err == git.NoErrAlreadyUpToDate {
		log.Printf("vaultsync: mirror already up to date")
	} else {
		log.Printf("vaultsync: pulled latest changes")
	}
	return nil
}

// StartAutoSync begins the periodic pull loop; it is a no-op if
// AutoSync is disabled.
func (m *Manager) StartAutoSync(ctx context.Context) {
	if !m.config.AutoSync {
		return
	}
	m.syncTicker = time.NewTicker(m.config.SyncInterval)

	go func() {
		log.Printf("vaultsync: auto-sync every %v", m.config.SyncInterval)
		for {
			select {
			case <-m.syncTicker.C:
				if err := m.Pull(ctx); err != nil {
					log.Printf("vaultsync: auto-sync pull failed: %v", err)
				}
			case <-m.stopChan:
				log.Printf("vaultsync: stopping auto-sync")
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the auto-sync loop.
func (m *Manager) Stop() {
	if m.syncTicker != nil {
		m.syncTicker.Stop()
	}
	close(m.stopChan)
}

// LastSync returns the time of the last successful pull.
func (m *Manager) LastSync() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastSync
}

// LocalPath returns the local mirror directory — the path a vault
// should be constructed/refreshed against.
func (m *Manager) LocalPath() string {
	return m.config.LocalPath
}

func (m *Manager) getAuth() transport.AuthMethod {
	if m.config.SSHKeyPath != "" {
		auth, err := ssh.NewPublicKeysFromFile("git", m.config.SSHKeyPath, "")
		if err == nil {
			return auth
		}
		log.Printf("vaultsync: failed to load SSH key: %v", err)
	}
	return nil
}

func (m *Manager) getFileList() map[string]time.Time {
	files := make(map[string]time.Time)
	err := filepath.Walk(m.config.LocalPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() && info.Name() == ".git" {
			return filepath.SkipDir
		}
		if !info.IsDir() {
			rel, relErr := filepath.Rel(m.config.LocalPath, path)
			if relErr == nil {
				files[rel] = info.ModTime()
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("vaultsync: error walking mirror: %v", err)
	}
	return files
}

func findChangedFiles(oldFiles, newFiles map[string]time.Time) []string {
	var changed []string
	for path, newTime := range newFiles {
		oldTime, exists := oldFiles[path]
		if !exists || !oldTime.Equal(newTime) {
			changed = append(changed, path)
		}
	}
	for path := range oldFiles {
		if _, exists := newFiles[path]; !exists {
			changed = append(changed, path)
		}
	}
	return changed
}

package vaultsync

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initSourceRepo creates a local git repository (not a network remote) so
// these tests never touch the network, unlike the teacher's own
// github.com-backed git manager tests.
func initSourceRepo(t *testing.T, dir string) *git.Repository {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	writeAndCommit(t, repo, dir, "note.md", "# hello\n", "initial commit")
	return repo
}

func writeAndCommit(t *testing.T, repo *git.Repository, dir, name, content, message string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)
	_, err = wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr error
	}{
		{
			name:   "valid config",
			config: &Config{RemoteURL: "/tmp/source", LocalPath: "/tmp/mirror"},
		},
		{
			name:    "missing remote url",
			config:  &Config{LocalPath: "/tmp/mirror"},
			wantErr: ErrNoRemoteURL,
		},
		{
			name:    "missing local path",
			config:  &Config{RemoteURL: "/tmp/source"},
			wantErr: ErrNoLocalPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestManager_InitializeClonesLocalRepository(t *testing.T) {
	srcDir := t.TempDir()
	initSourceRepo(t, srcDir)

	mirrorDir := filepath.Join(t.TempDir(), "mirror")
	mgr, err := NewManager(&Config{
		RemoteURL: srcDir,
		Branch:    "master",
		LocalPath: mirrorDir,
	})
	require.NoError(t, err)

	require.NoError(t, mgr.Initialize(context.Background()))

	assert.DirExists(t, mirrorDir)
	assert.FileExists(t, filepath.Join(mirrorDir, "note.md"))
	assert.WithinDuration(t, time.Now(), mgr.LastSync(), 5*time.Second)
}

func TestManager_InitializeOpensExistingMirror(t *testing.T) {
	srcDir := t.TempDir()
	initSourceRepo(t, srcDir)

	mirrorDir := filepath.Join(t.TempDir(), "mirror")
	cfg := &Config{RemoteURL: srcDir, Branch: "master", LocalPath: mirrorDir}

	first, err := NewManager(cfg)
	require.NoError(t, err)
	require.NoError(t, first.Initialize(context.Background()))

	second, err := NewManager(cfg)
	require.NoError(t, err)
	require.NoError(t, second.Initialize(context.Background()))

	assert.DirExists(t, mirrorDir)
}

func TestManager_PullReportsChangedFiles(t *testing.T) {
	srcDir := t.TempDir()
	repo := initSourceRepo(t, srcDir)

	mirrorDir := filepath.Join(t.TempDir(), "mirror")
	mgr, err := NewManager(&Config{RemoteURL: srcDir, Branch: "master", LocalPath: mirrorDir})
	require.NoError(t, err)
	require.NoError(t, mgr.Initialize(context.Background()))

	var changed []string
	mgr.SetUpdateCallback(func(files []string) { changed = files })

	writeAndCommit(t, repo, srcDir, "second.md", "# second\n", "add second note")

	require.NoError(t, mgr.Pull(context.Background()))
	assert.Contains(t, changed, "second.md")
}

func TestManager_PullRejectsConcurrentSync(t *testing.T) {
	srcDir := t.TempDir()
	initSourceRepo(t, srcDir)

	mirrorDir := filepath.Join(t.TempDir(), "mirror")
	mgr, err := NewManager(&Config{RemoteURL: srcDir, Branch: "master", LocalPath: mirrorDir})
	require.NoError(t, err)
	require.NoError(t, mgr.Initialize(context.Background()))

	require.NoError(t, mgr.syncMu.TryLock()) // simulate a pull already in flight
	defer mgr.syncMu.Unlock()

	err = mgr.Pull(context.Background())
	assert.ErrorIs(t, err, ErrSyncInProgress)
}

func TestFindChangedFiles(t *testing.T) {
	now := time.Now()
	old := map[string]time.Time{"a.md": now, "b.md": now}
	updated := map[string]time.Time{"a.md": now, "b.md": now.Add(time.Second), "c.md": now}

	changed := findChangedFiles(old, updated)
	assert.ElementsMatch(t, []string{"b.md", "c.md"}, changed)
}

func TestManager_LocalPath(t *testing.T) {
	mgr, err := NewManager(&Config{RemoteURL: "/tmp/source", LocalPath: "data/mirror"})
	require.NoError(t, err)
	assert.Equal(t, "data/mirror", mgr.LocalPath())
}

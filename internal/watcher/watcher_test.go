package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_DetectsNewMarkdownFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "existing.md"), []byte("# Existing\n"), 0o644))

	cfg := DefaultConfig()
	cfg.MinRefreshInterval = 20 * time.Millisecond

	w, err := New(dir, cfg)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	changed := make(chan []string, 1)
	w.OnChange(func(paths []string) { changed <- paths })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.md"), []byte("# New\n"), 0o644))

	select {
	case paths := <-changed:
		require.Contains(t, paths, "new.md")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}
}

func TestWatcher_IgnoresNonMarkdownFiles(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.MinRefreshInterval = 20 * time.Millisecond

	w, err := New(dir, cfg)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	changed := make(chan []string, 1)
	w.OnChange(func(paths []string) { changed <- paths })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not markdown"), 0o644))

	select {
	case paths := <-changed:
		t.Fatalf("unexpected change notification for non-markdown file: %v", paths)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_IgnoresConfiguredDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))

	cfg := DefaultConfig()
	cfg.MinRefreshInterval = 20 * time.Millisecond

	w, err := New(dir, cfg)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	changed := make(chan []string, 1)
	w.OnChange(func(paths []string) { changed <- paths })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "HEAD.md"), []byte("# x\n"), 0o644))

	select {
	case paths := <-changed:
		t.Fatalf("unexpected change notification for file under ignored directory: %v", paths)
	case <-time.After(300 * time.Millisecond):
	}
}

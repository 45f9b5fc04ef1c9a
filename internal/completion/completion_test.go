package completion

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ali01/vault-lsp/internal/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVault(t *testing.T) *vault.Vault {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"project-plan.md":  "# Project Plan\n\nSome content. ^blk1\n",
		"daily-standup.md": "# Daily Standup\n\n#project/status notes\n",
	}
	for name, text := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644))
	}
	v, errs := vault.Construct(dir, vault.ScanConfig{}, 2)
	require.Empty(t, errs)
	return v
}

func TestEngine_WikiLinkCompletion_RanksByFuzzyMatch(t *testing.T) {
	v := newTestVault(t)
	require.NoError(t, v.UpdateFile("scratch.md", "link to [[proj", nil))

	e := New(v, DefaultConfig())
	res, ok := e.Complete("scratch.md", 0, 14)
	require.True(t, ok)
	require.NotEmpty(t, res.Items)
	assertAnyItemContains(t, res.Items, "project-plan")
}

func TestEngine_TagCompletion(t *testing.T) {
	v := newTestVault(t)
	require.NoError(t, v.UpdateFile("scratch.md", "a #proj tag", nil))

	e := New(v, DefaultConfig())
	res, ok := e.Complete("scratch.md", 0, 6)
	require.True(t, ok)
	assert.NotEmpty(t, res.Items)
}

func TestEngine_UnindexedBlockCompletion_GeneratesID(t *testing.T) {
	v := newTestVault(t)
	require.NoError(t, v.UpdateFile("scratch.md", "see [[ ", nil))

	e := New(v, DefaultConfig())
	res, ok := e.Complete("scratch.md", 0, 7)
	require.True(t, ok)
	require.NotEmpty(t, res.Items)
	assert.Contains(t, res.Items[0].TextEdit.NewText, "#^")
}

func assertAnyItemContains(t *testing.T, items []Item, substr string) {
	t.Helper()
	for _, it := range items {
		if strings.Contains(it.Label, substr) || strings.Contains(it.TextEdit.NewText, substr) {
			return
		}
	}
	t.Fatalf("no completion item contains %q", substr)
}

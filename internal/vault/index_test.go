package vault

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ali01/vault-lsp/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeVaultFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"note-a.md": "# Heading A\n\nlinks to [[note-b]] and to [[note-b#Heading B]] and #project/x\n",
		"note-b.md": "# Heading B\n\nsome content here ^blk1\n\nbacklink to [[note-a]]\n",
		"note-c.md": "a dangling [[does not exist]] link\n",
	}
	for name, text := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644))
	}
	// a dot-directory should be skipped entirely
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".obsidian"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".obsidian", "skip.md"), []byte("# should not load\n"), 0o644))

	return dir
}

func TestConstruct_WalksAndParsesVault(t *testing.T) {
	dir := writeVaultFixture(t)
	v, errs := Construct(dir, ScanConfig{}, 2)
	assert.Empty(t, errs)

	_, ok := v.File("note-a.md")
	assert.True(t, ok)
	_, ok = v.File(filepath.Join(".obsidian", "skip.md"))
	assert.False(t, ok)
}

func TestVault_ReferenceablesAndReferences(t *testing.T) {
	dir := writeVaultFixture(t)
	v, errs := Construct(dir, ScanConfig{}, 2)
	require.Empty(t, errs)

	refables := v.Referenceables(AllScope())
	var sawFileB, sawHeadingB bool
	for _, r := range refables {
		if r.Kind == models.RefableFile && r.Path == "note-b.md" {
			sawFileB = true
		}
		if r.Kind == models.RefableHeading && r.Path == "note-b.md" && r.Heading.Text == "Heading B" {
			sawHeadingB = true
		}
	}
	assert.True(t, sawFileB)
	assert.True(t, sawHeadingB)

	refs := v.References(PathScope("note-a.md"))
	require.NotEmpty(t, refs)
	for _, pr := range refs {
		assert.Equal(t, "note-a.md", pr.Path)
	}
}

func TestVault_UnresolvedReferenceableSynthesized(t *testing.T) {
	dir := writeVaultFixture(t)
	v, errs := Construct(dir, ScanConfig{}, 2)
	require.Empty(t, errs)

	refables := v.Referenceables(AllScope())
	var found bool
	for _, r := range refables {
		if r.Kind == models.RefableUnresolvedFile && r.FileRef == "does not exist" {
			found = true
		}
	}
	assert.True(t, found, "expected an unresolved referenceable for the dangling link in note-c.md")
}

func TestVault_ReferenceableAt_FallsBackToFile(t *testing.T) {
	dir := writeVaultFixture(t)
	v, errs := Construct(dir, ScanConfig{}, 2)
	require.Empty(t, errs)

	r, ok := v.ReferenceableAt("note-a.md", models.Position{Line: 0, Character: 2})
	require.True(t, ok)
	assert.Equal(t, models.RefableHeading, r.Kind)

	r2, ok := v.ReferenceableAt("note-a.md", models.Position{Line: 1, Character: 0})
	require.True(t, ok)
	assert.Equal(t, models.RefableFile, r2.Kind)
}

func TestVault_ReferencesOf_FindsBacklink(t *testing.T) {
	dir := writeVaultFixture(t)
	v, errs := Construct(dir, ScanConfig{}, 2)
	require.Empty(t, errs)

	target := models.Referenceable{Kind: models.RefableFile, Path: "note-b.md"}
	refs := v.ReferencesOf(target)
	require.NotEmpty(t, refs)
	for _, pr := range refs {
		assert.True(t, pr.Reference.IsFileLink())
	}
}

func TestVault_Preview(t *testing.T) {
	dir := writeVaultFixture(t)
	v, errs := Construct(dir, ScanConfig{}, 2)
	require.Empty(t, errs)

	preview, ok := v.Preview(models.Referenceable{Kind: models.RefableFile, Path: "note-b.md"})
	require.True(t, ok)
	assert.Contains(t, preview, "Heading B")
}

func TestVault_Blocks(t *testing.T) {
	dir := writeVaultFixture(t)
	v, errs := Construct(dir, ScanConfig{}, 2)
	require.Empty(t, errs)

	blocks := v.Blocks()
	require.NotEmpty(t, blocks)
	for _, b := range blocks {
		assert.NotEmpty(t, b.Text)
	}
}

func TestVault_UpdateFile_FullReplace(t *testing.T) {
	dir := writeVaultFixture(t)
	v, errs := Construct(dir, ScanConfig{}, 2)
	require.Empty(t, errs)

	require.NoError(t, v.UpdateFile("note-a.md", "# Changed\n", nil))
	f, ok := v.File("note-a.md")
	require.True(t, ok)
	require.Len(t, f.Headings, 1)
	assert.Equal(t, "Changed", f.Headings[0].Text)
}

func TestVault_RemoveFile(t *testing.T) {
	dir := writeVaultFixture(t)
	v, errs := Construct(dir, ScanConfig{}, 2)
	require.Empty(t, errs)

	v.RemoveFile("note-a.md")
	_, ok := v.File("note-a.md")
	assert.False(t, ok)
}

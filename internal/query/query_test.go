package query

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ali01/vault-lsp/internal/matcher"
	"github.com/ali01/vault-lsp/internal/models"
	"github.com/ali01/vault-lsp/internal/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVault(t *testing.T, files map[string]string) *vault.Vault {
	t.Helper()
	dir := t.TempDir()
	for name, text := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644))
	}
	v, errs := vault.Construct(dir, vault.ScanConfig{}, 2)
	require.Empty(t, errs)
	return v
}

func TestDefinition_ResolvesWikiFileLink(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"a.md": "see [[b]] over there\n",
		"b.md": "# B\n",
	})
	e := New(v, DefaultConfig())

	locs := e.Definition("a.md", models.Position{Line: 0, Character: 6})
	require.Len(t, locs, 1)
	assert.Equal(t, "b.md", locs[0].Path)
}

func TestReferences_FindsReferencingLink(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"a.md": "see [[b]] over there\n",
		"b.md": "body of b\n",
	})
	e := New(v, DefaultConfig())

	target, ok := v.ReferenceableAt("b.md", models.Position{Line: 0, Character: 0})
	require.True(t, ok)

	refs := e.References("b.md", target.Range().Start, false)
	require.Len(t, refs, 1)
	assert.Equal(t, "a.md", refs[0].Path)
}

func TestHover_ReturnsPreviewForHeading(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"a.md": "# Title\n\nbody text\n",
	})
	e := New(v, DefaultConfig())

	text, ok := e.Hover("a.md", models.Position{Line: 0, Character: 2})
	require.True(t, ok)
	assert.Contains(t, text, "Title")
}

func TestDocumentSymbols_NestsByHeadingLevel(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"a.md": "# A\n## A.1\n## A.2\n# B\n",
	})
	e := New(v, DefaultConfig())

	symbols := e.DocumentSymbols("a.md")
	require.Len(t, symbols, 2)
	assert.Equal(t, "A", symbols[0].Name)
	require.Len(t, symbols[0].Children, 2)
	assert.Equal(t, "A.1", symbols[0].Children[0].Name)
	assert.Equal(t, "A.2", symbols[0].Children[1].Name)
	assert.Equal(t, "B", symbols[1].Name)
	assert.Empty(t, symbols[1].Children)
}

func TestWorkspaceSymbols_FiltersByFuzzyQuery(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"project-plan.md": "# Plan\n",
		"groceries.md":     "# Groceries\n",
	})
	e := New(v, DefaultConfig())

	symbols := e.WorkspaceSymbols("proj", matcher.CaseSmart, matcher.NormalizeSmart)
	var sawProject bool
	for _, s := range symbols {
		assert.NotEqual(t, "groceries", s.Name)
		if s.Name == "project-plan" {
			sawProject = true
		}
	}
	assert.True(t, sawProject)
}

func TestDiagnostics_FlagsUnresolvedReference(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"a.md": "see [[missing]]\n",
	})
	e := New(v, DefaultConfig())

	diags := e.Diagnostics("a.md")
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "missing")
}

func TestDiagnostics_OffWhenDisabled(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"a.md": "see [[missing]]\n",
	})
	cfg := DefaultConfig()
	cfg.UnresolvedDiagnostics = false
	e := New(v, cfg)

	assert.Empty(t, e.Diagnostics("a.md"))
}

func TestRenameFile_RewritesWikiLinkPreservingAlias(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"a.md": "see [[b|display]] over there\n",
		"b.md": "# B\n",
	})
	e := New(v, DefaultConfig())

	edit := e.RenameFile("b.md", "c.md")
	require.Len(t, edit.Renames, 1)
	require.Len(t, edit.TextEdits, 1)
	assert.Equal(t, "[[c|display]]", edit.TextEdits[0].NewText)
}

func TestCodeActions_OffersCreateFileForUnresolvedLink(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"a.md": "see [[missing]]\n",
	})
	e := New(v, DefaultConfig())

	actions := e.CodeActions("a.md", models.Position{Line: 0, Character: 6})
	require.Len(t, actions, 1)
	assert.Equal(t, []string{"missing.md"}, actions[0].Edit.Creates)
}

package vault

import (
	"testing"

	"github.com/ali01/vault-lsp/internal/models"
	"github.com/ali01/vault-lsp/internal/rope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildRopeText(t *testing.T, files map[string]string) func(path string, line int) (string, bool) {
	t.Helper()
	ropes := make(map[string]*rope.Rope, len(files))
	for path, text := range files {
		ropes[path] = rope.New(path, text)
	}
	return func(path string, line int) (string, bool) {
		r, ok := ropes[path]
		if !ok {
			return "", false
		}
		return r.LineStr(line)
	}
}

func TestBuildBlockGraph_ParentChildNesting(t *testing.T) {
	texts := map[string]string{
		"a.md": "- top level ^top1\n  - nested child\n",
	}
	files := map[string]*models.MDFile{
		"a.md": Scan("a.md", texts["a.md"], ScanConfig{}),
	}
	g, err := BuildBlockGraph(files, buildRopeText(t, texts))
	require.NoError(t, err)

	top, ok := g.NodeAt("a.md", 0)
	require.True(t, ok)
	assert.Equal(t, "top1", top.IndexID)
	require.Len(t, top.Children, 1)
	assert.Equal(t, "- nested child", top.Children[0].Text)

	child, ok := g.NodeAt("a.md", 1)
	require.True(t, ok)
	assert.Same(t, top, child.Parent)
}

func TestBuildBlockGraph_CrossFileIndexedBlockEdge(t *testing.T) {
	texts := map[string]string{
		"a.md": "top level paragraph ^top1\n",
		"b.md": "a link to [[a#^top1]] right here\n",
	}
	files := map[string]*models.MDFile{
		"a.md": Scan("a.md", texts["a.md"], ScanConfig{}),
		"b.md": Scan("b.md", texts["b.md"], ScanConfig{}),
	}
	g, err := BuildBlockGraph(files, buildRopeText(t, texts))
	require.NoError(t, err)

	target, ok := g.NodeByIndex("a.md", "top1")
	require.True(t, ok)
	require.Len(t, target.Incoming, 1)

	source, ok := g.NodeAt("b.md", 0)
	require.True(t, ok)
	require.Len(t, source.Outgoing, 1)

	got, err := source.Outgoing[0].Read()
	require.NoError(t, err)
	assert.Same(t, target, got)

	incomingSrc, err := target.Incoming[0].Read()
	require.NoError(t, err)
	assert.Same(t, source, incomingSrc)
}

func TestBuildBlockGraph_EmptyLinesSkipped(t *testing.T) {
	texts := map[string]string{
		"a.md": "first\n\n\nsecond\n",
	}
	files := map[string]*models.MDFile{
		"a.md": Scan("a.md", texts["a.md"], ScanConfig{}),
	}
	g, err := BuildBlockGraph(files, buildRopeText(t, texts))
	require.NoError(t, err)

	_, ok := g.NodeAt("a.md", 1)
	assert.False(t, ok)
	_, ok = g.NodeAt("a.md", 3)
	assert.True(t, ok)
}

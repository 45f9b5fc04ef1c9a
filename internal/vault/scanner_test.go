package vault

import (
	"testing"

	"github.com/ali01/vault-lsp/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_Headings(t *testing.T) {
	f := Scan("a.md", "# Title\n\nsome text\n\n## Sub heading ##\n", ScanConfig{})
	require.Len(t, f.Headings, 2)
	assert.Equal(t, "Title", f.Headings[0].Text)
	assert.Equal(t, 1, f.Headings[0].Level)
	assert.Equal(t, "Sub heading", f.Headings[1].Text)
	assert.Equal(t, 2, f.Headings[1].Level)
}

func TestScan_IndexedBlock(t *testing.T) {
	f := Scan("a.md", "this is a block ^abc123\n", ScanConfig{})
	require.Len(t, f.IndexedBlocks, 1)
	assert.Equal(t, "abc123", f.IndexedBlocks[0].Index)
}

func TestScan_WikiLinks(t *testing.T) {
	f := Scan("a.md", "see [[other note]] and [[other#Heading]] and [[other#^blk]] and [[note|alias]]\n", ScanConfig{})
	require.Len(t, f.References, 4)

	assert.Equal(t, models.KindWikiFileLink, f.References[0].Kind)
	assert.Equal(t, "other note", f.References[0].File)

	assert.Equal(t, models.KindWikiHeadingLink, f.References[1].Kind)
	assert.Equal(t, "other", f.References[1].File)
	assert.Equal(t, "Heading", f.References[1].Heading)

	assert.Equal(t, models.KindWikiIndexedBlockLink, f.References[2].Kind)
	assert.Equal(t, "blk", f.References[2].Index)

	assert.Equal(t, models.KindWikiFileLink, f.References[3].Kind)
	assert.Equal(t, "note", f.References[3].File)
	assert.Equal(t, "alias", f.References[3].Data.DisplayText)
}

func TestScan_MarkdownLinks(t *testing.T) {
	f := Scan("a.md", "see [text](other.md) and [h](other.md#Heading)\n", ScanConfig{})
	require.Len(t, f.References, 2)
	assert.Equal(t, models.KindMDFileLink, f.References[0].Kind)
	assert.Equal(t, "other", f.References[0].File)
	assert.Equal(t, models.KindMDHeadingLink, f.References[1].Kind)
	assert.Equal(t, "Heading", f.References[1].Heading)
}

func TestScan_Tags(t *testing.T) {
	f := Scan("a.md", "this has #area/sub and #another tag, but not inside a word like x#notatag\n", ScanConfig{})
	require.Len(t, f.Tags, 2)
	assert.Equal(t, "area/sub", f.Tags[0].Name)
	assert.Equal(t, "another", f.Tags[1].Name)
}

func TestScan_TagsInCodeblocks(t *testing.T) {
	text := "```\n#notarealtag\n```\n#realtag\n"
	f := Scan("a.md", text, ScanConfig{TagsInCodeblocks: false})
	require.Len(t, f.Tags, 1)
	assert.Equal(t, "realtag", f.Tags[0].Name)

	f2 := Scan("a.md", text, ScanConfig{TagsInCodeblocks: true})
	require.Len(t, f2.Tags, 2)
}

func TestScan_Footnotes(t *testing.T) {
	f := Scan("a.md", "see the note[^1]\n\n[^1]: this is the note text\n", ScanConfig{})
	require.Len(t, f.Footnotes, 1)
	assert.Equal(t, "^1", f.Footnotes[0].Index)
	assert.Equal(t, "this is the note text", f.Footnotes[0].Text)

	var footnoteRefs int
	for _, r := range f.References {
		if r.Kind == models.KindFootnoteRef {
			footnoteRefs++
			assert.Equal(t, "1", r.Index)
		}
	}
	assert.Equal(t, 1, footnoteRefs)
}

func TestScan_LinkRefDefinitions_MaterializeBareRefs(t *testing.T) {
	text := "a [bare ref] here\n\n[bare ref]: https://example.com \"title\"\n"
	f := Scan("a.md", text, ScanConfig{})
	require.Len(t, f.LinkReferenceDefinitions, 1)
	assert.Equal(t, "bare ref", f.LinkReferenceDefinitions[0].Name)

	var linkRefs int
	for _, r := range f.References {
		if r.Kind == models.KindLinkRef {
			linkRefs++
		}
	}
	assert.Equal(t, 1, linkRefs)
}

func TestScan_BareLinkRef_DroppedWithoutDefinition(t *testing.T) {
	f := Scan("a.md", "a [bare ref] here with no definition anywhere\n", ScanConfig{})
	for _, r := range f.References {
		assert.NotEqual(t, models.KindLinkRef, r.Kind)
	}
}

func TestScan_FenceTogglesCodeblockState(t *testing.T) {
	text := "normal\n```\n# not a heading\n```\n# a heading\n"
	f := Scan("a.md", text, ScanConfig{})
	require.Len(t, f.Headings, 1)
	assert.Equal(t, "a heading", f.Headings[0].Text)
}

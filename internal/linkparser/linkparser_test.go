package linkparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAt_ClosedWiki(t *testing.T) {
	r, ok := ParseAt("see [[Project Plan#Overview|plan]] for details", 0, 10)
	require.True(t, ok)
	assert.Equal(t, KindWiki, r.Syntax.Kind)
	assert.True(t, r.Closed)
	assert.Equal(t, "Project Plan", r.FileRef)
	assert.Equal(t, "Overview", r.InfileRef)
	assert.Equal(t, "plan", r.Syntax.Display)
}

func TestParseAt_UnclosedWiki(t *testing.T) {
	r, ok := ParseAt("see [[Proj", 0, 10)
	require.True(t, ok)
	assert.False(t, r.Closed)
	assert.Equal(t, "Proj", r.FileRef)
}

func TestParseAt_UnclosedWiki_CursorBeforeOpenerTextFails(t *testing.T) {
	_, ok := ParseAt("see [[Proj", 0, 2)
	assert.False(t, ok)
}

func TestParseAt_ClosedMarkdown(t *testing.T) {
	r, ok := ParseAt("see [my plan](Project Plan#Overview) now", 0, 10)
	require.True(t, ok)
	assert.Equal(t, KindMarkdown, r.Syntax.Kind)
	assert.True(t, r.Closed)
	assert.Equal(t, "my plan", r.Syntax.Display)
	assert.Equal(t, "Project Plan", r.FileRef)
	assert.Equal(t, "Overview", r.InfileRef)
}

func TestParseAt_UnclosedMarkdown_InTarget(t *testing.T) {
	r, ok := ParseAt("see [my plan](Proj", 0, 18)
	require.True(t, ok)
	assert.False(t, r.Closed)
	assert.Equal(t, "my plan", r.Syntax.Display)
	assert.Equal(t, "Proj", r.FileRef)
}

func TestParseAt_UnclosedMarkdown_InDisplay(t *testing.T) {
	r, ok := ParseAt("see [my pl", 0, 10)
	require.True(t, ok)
	assert.False(t, r.Closed)
	assert.Equal(t, "my pl", r.Syntax.Display)
	assert.Equal(t, "", r.FileRef)
}

func TestParseAt_WikiPriorityOverMarkdown(t *testing.T) {
	r, ok := ParseAt("[[note]]", 0, 4)
	require.True(t, ok)
	assert.Equal(t, KindWiki, r.Syntax.Kind)
}

func TestParseAt_CursorOutsideAnyLink(t *testing.T) {
	_, ok := ParseAt("plain text with no links", 0, 5)
	assert.False(t, ok)
}

func TestParseAt_UnbalancedBracketsRejected(t *testing.T) {
	_, ok := ParseAt("see [[broken ] link", 0, 18)
	assert.False(t, ok)
}

package rope

import (
	"testing"

	"github.com/ali01/vault-lsp/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRope_LineAddressing(t *testing.T) {
	r := New("a.md", "hello\nworld\nfoo")
	assert.Equal(t, 3, r.LenLines())

	line0, ok := r.LineStr(0)
	require.True(t, ok)
	assert.Equal(t, "hello", line0)

	line2, ok := r.LineStr(2)
	require.True(t, ok)
	assert.Equal(t, "foo", line2)

	_, ok = r.LineStr(3)
	assert.False(t, ok)
}

func TestRope_LineCharCount(t *testing.T) {
	r := New("a.md", "héllo\nworld")
	n, ok := r.LineCharCount(0)
	require.True(t, ok)
	assert.Equal(t, 5, n) // 5 runes, even though 'é' is 2 bytes
}

func TestRope_ExtractRange(t *testing.T) {
	r := New("a.md", "hello\nworld\n")
	got, ok := r.Extract(models.NewRange(0, 1, 4))
	require.True(t, ok)
	assert.Equal(t, "ell", got)
}

func TestRope_ReplaceRange_Splice(t *testing.T) {
	r := New("a.md", "hello\nworld\n")
	ok := r.ReplaceRange(models.NewRange(0, 0, 5), "goodbye")
	require.True(t, ok)
	assert.Equal(t, "goodbye\nworld\n", r.Text())
}

func TestRope_ReplaceRange_MultiLine(t *testing.T) {
	r := New("a.md", "line1\nline2\nline3\n")
	rng := models.Range{
		Start: models.Position{Line: 0, Character: 2},
		End:   models.Position{Line: 2, Character: 2},
	}
	ok := r.ReplaceRange(rng, "X")
	require.True(t, ok)
	assert.Equal(t, "liXne3\n", r.Text())
}

func TestRope_ReplaceAll(t *testing.T) {
	r := New("a.md", "old content")
	r.ReplaceAll("new content\nwith two lines")
	assert.Equal(t, 2, r.LenLines())
	line1, _ := r.LineStr(1)
	assert.Equal(t, "with two lines", line1)
}

func TestRope_PositionAtByte_Roundtrip(t *testing.T) {
	r := New("a.md", "abc\ndéf\nghi")
	for line := 0; line < r.LenLines(); line++ {
		chars, _ := r.Line(line)
		for ch := 0; ch <= len(chars); ch++ {
			pos := models.Position{Line: line, Character: ch}
			off, ok := r.ByteOffset(pos)
			require.True(t, ok)
			got := r.PositionAtByte(off)
			assert.Equal(t, pos, got)
		}
	}
}

func TestStore_CRUD(t *testing.T) {
	s := NewStore()
	s.ReplaceAll("a.md", "hello\nworld")

	line, ok := s.SelectLineStr("a.md", 1)
	require.True(t, ok)
	assert.Equal(t, "world", line)

	ok = s.ReplaceRange("a.md", models.NewRange(1, 0, 5), "there")
	require.True(t, ok)
	line, _ = s.SelectLineStr("a.md", 1)
	assert.Equal(t, "there", line)

	s.Delete("a.md")
	_, ok = s.SelectLineStr("a.md", 0)
	assert.False(t, ok)
}

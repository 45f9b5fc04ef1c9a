package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAtom_Modifiers(t *testing.T) {
	cases := []struct {
		token    string
		wantKind AtomKind
		wantNeg  bool
		wantText string
	}{
		{"plan", AtomFuzzy, false, "plan"},
		{"!archive", AtomFuzzy, true, "archive"},
		{"^project", AtomPrefix, false, "project"},
		{"notes$", AtomPostfix, false, "notes"},
		{"^exact$", AtomExact, false, "exact"},
		{"'substr", AtomSubstring, false, "substr"},
		{`escaped\$dollar`, AtomFuzzy, false, "escaped$dollar"},
	}
	for _, c := range cases {
		a := ParseAtom(c.token, CaseSmart, NormalizeNever)
		assert.Equal(t, c.wantKind, a.Kind, c.token)
		assert.Equal(t, c.wantNeg, a.Negative, c.token)
		assert.Equal(t, c.wantText, string(a.Needle), c.token)
	}
}

func TestParsePattern_SplitsOnWhitespace(t *testing.T) {
	p := ParsePattern("daily ^standup notes$", CaseSmart, NormalizeNever)
	require.Len(t, p.Atoms, 3)
	assert.Equal(t, AtomFuzzy, p.Atoms[0].Kind)
	assert.Equal(t, AtomPrefix, p.Atoms[1].Kind)
	assert.Equal(t, AtomPostfix, p.Atoms[2].Kind)
}

func TestPattern_Score_AllAtomsMustMatch(t *testing.T) {
	m := New(DefaultConfig())
	p := ParsePattern("daily standup", CaseSmart, NormalizeNever)

	_, ok := p.Score(m, []rune("daily-standup-notes"))
	assert.True(t, ok)

	_, ok = p.Score(m, []rune("daily-retro-notes"))
	assert.False(t, ok)
}

func TestPattern_Score_NegatedAtomExcludesMatch(t *testing.T) {
	m := New(DefaultConfig())
	p := ParsePattern("notes !archive", CaseSmart, NormalizeNever)

	_, ok := p.Score(m, []rune("daily-notes"))
	assert.True(t, ok)

	_, ok = p.Score(m, []rune("archive-notes"))
	assert.False(t, ok)
}

func TestPattern_EmptyQueryMatchesEverything(t *testing.T) {
	m := New(DefaultConfig())
	p := ParsePattern("   ", CaseSmart, NormalizeNever)
	require.Empty(t, p.Atoms)

	score, ok := p.Score(m, []rune("anything"))
	assert.True(t, ok)
	assert.Zero(t, score)
}

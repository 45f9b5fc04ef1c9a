package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func score(t *testing.T, m *Matcher, kind AtomKind, haystack, needle string, caseMode CaseMatching, normMode Normalization) (uint16, bool) {
	t.Helper()
	return m.Match(kind, []rune(haystack), []rune(needle), caseMode, normMode, false, nil)
}

func TestFuzzyMatch_SubsequenceInOrder(t *testing.T) {
	m := New(DefaultConfig())
	s, ok := score(t, m, AtomFuzzy, "daily-standup-notes", "dsn", CaseSmart, NormalizeNever)
	require.True(t, ok)
	assert.Positive(t, s)
}

func TestFuzzyMatch_OutOfOrderFails(t *testing.T) {
	m := New(DefaultConfig())
	_, ok := score(t, m, AtomFuzzy, "daily-standup-notes", "nsd", CaseSmart, NormalizeNever)
	assert.False(t, ok)
}

func TestFuzzyMatch_OptimalAtLeastGreedy(t *testing.T) {
	m := New(DefaultConfig())
	haystack := []rune("a-somewhat-longer-haystack-with-a-repeated-a-character")
	needle := []rune("aa")

	greedyScore, greedyOK := m.greedyFuzzy(haystack, m.normalize(haystack), m.normalize(needle), false, nil)
	require.True(t, greedyOK)

	optimalScore, optimalOK, attempted := m.optimalFuzzy(haystack, m.normalize(haystack), m.normalize(needle), false, nil)
	require.True(t, attempted)
	require.True(t, optimalOK)

	assert.GreaterOrEqual(t, optimalScore, greedyScore)
}

func TestPrefixMatch(t *testing.T) {
	m := New(DefaultConfig())
	_, ok := score(t, m, AtomPrefix, "project-plan", "project", CaseSmart, NormalizeNever)
	assert.True(t, ok)
	_, ok = score(t, m, AtomPrefix, "project-plan", "plan", CaseSmart, NormalizeNever)
	assert.False(t, ok)
}

func TestPostfixMatch(t *testing.T) {
	m := New(DefaultConfig())
	_, ok := score(t, m, AtomPostfix, "project-plan", "plan", CaseSmart, NormalizeNever)
	assert.True(t, ok)
	_, ok = score(t, m, AtomPostfix, "project-plan", "project", CaseSmart, NormalizeNever)
	assert.False(t, ok)
}

func TestSubstringMatch(t *testing.T) {
	m := New(DefaultConfig())
	_, ok := score(t, m, AtomSubstring, "project-plan-v2", "plan-v", CaseSmart, NormalizeNever)
	assert.True(t, ok)
	_, ok = score(t, m, AtomSubstring, "project-plan-v2", "plvn", CaseSmart, NormalizeNever)
	assert.False(t, ok)
}

func TestExactMatch(t *testing.T) {
	m := New(DefaultConfig())
	_, ok := score(t, m, AtomExact, "daily-note", "daily-note", CaseSmart, NormalizeNever)
	assert.True(t, ok)
	_, ok = score(t, m, AtomExact, "daily-note", "daily", CaseSmart, NormalizeNever)
	assert.False(t, ok)
}

func TestCaseSmart_LowercaseNeedleIgnoresCase(t *testing.T) {
	m := New(DefaultConfig())
	_, ok := score(t, m, AtomFuzzy, "ProjectPlan", "plan", CaseSmart, NormalizeNever)
	assert.True(t, ok)
}

func TestCaseSmart_UppercaseNeedleRespectsCase(t *testing.T) {
	m := New(DefaultConfig())
	_, ok := score(t, m, AtomFuzzy, "projectplan", "Plan", CaseSmart, NormalizeNever)
	assert.False(t, ok)
}

func TestNormalize_FoldsAccentedLatin(t *testing.T) {
	m := New(DefaultConfig())
	_, ok := score(t, m, AtomSubstring, "Café Notes", "cafe", CaseIgnore, NormalizeSmart)
	assert.True(t, ok)
}

func TestFuzzyIndices_CoverNeedleLength(t *testing.T) {
	m := New(DefaultConfig())
	haystack := []rune("daily-standup-notes")
	needle := []rune("dsn")
	var indices []int
	_, ok := m.Match(AtomFuzzy, haystack, needle, CaseSmart, NormalizeNever, true, &indices)
	require.True(t, ok)
	assert.Len(t, indices, len(needle))
	for i := 1; i < len(indices); i++ {
		assert.Less(t, indices[i-1], indices[i])
	}
}

func TestOptimalFuzzy_FallsBackWhenOverBudget(t *testing.T) {
	m := New(DefaultConfig())
	big := make([]rune, maxHaystackLen+1)
	for i := range big {
		big[i] = 'a'
	}
	_, _, attempted := m.optimalFuzzy(big, m.normalize(big), m.normalize([]rune("a")), false, nil)
	assert.False(t, attempted, "optimal fuzzy should refuse oversized input so the caller falls back to greedy")
}

// The following cover the scoring scenarios table (S1-S6): named inputs
// with a required relative ordering or exact index result, as opposed to
// the looser property checks above.

func TestScoringScenario_S1_CamelCaseOrdering(t *testing.T) {
	m := New(DefaultConfig())
	var indices []int
	s, ok := m.Match(AtomFuzzy, []rune("fooBarbaz1"), []rune("obr"), CaseSmart, NormalizeNever, true, &indices)
	require.True(t, ok)
	assert.Positive(t, s)
	assert.Equal(t, []int{2, 3, 5}, indices)
}

func TestScoringScenario_S2_WhitespaceBoundaryOutranksConsecutive(t *testing.T) {
	m := New(DefaultConfig())
	whitespace, ok := score(t, m, AtomFuzzy, "foo bar baz", "fbb", CaseSmart, NormalizeNever)
	require.True(t, ok)
	consecutive, ok := score(t, m, AtomFuzzy, "foobar", "fbb", CaseSmart, NormalizeNever)
	require.False(t, ok, "foobar has a single 'b', so fbb cannot match it")
	assert.Greater(t, whitespace, consecutive)
}

func TestScoringScenario_S3_CamelAndLowerTiePunctuationRanksBelow(t *testing.T) {
	m := New(DefaultConfig())
	camel, ok := score(t, m, AtomFuzzy, "fooBar", "foobar", CaseSmart, NormalizeNever)
	require.True(t, ok)
	allLower, ok := score(t, m, AtomFuzzy, "foobar", "foobar", CaseSmart, NormalizeNever)
	require.True(t, ok)
	dash, ok := score(t, m, AtomFuzzy, "foo-bar", "foobar", CaseSmart, NormalizeNever)
	require.True(t, ok)
	underscore, ok := score(t, m, AtomFuzzy, "foo_bar", "foobar", CaseSmart, NormalizeNever)
	require.True(t, ok)

	assert.Equal(t, camel, allLower)
	assert.Equal(t, dash, underscore)
	assert.Greater(t, camel, dash)
}

func TestScoringScenario_S4_PreferPrefixDominatesGapPenalty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PreferPrefix = true
	m := New(cfg)

	short, ok := score(t, m, AtomFuzzy, "Moby Dick", "md", CaseSmart, NormalizeNever)
	require.True(t, ok)
	long, ok := score(t, m, AtomFuzzy, "Though I cannot tell why it was exactly that those stage managers, the Fates, put me down for this shabby part of a whaling voyage", "md", CaseSmart, NormalizeNever)
	require.True(t, ok)

	assert.Greater(t, short, long)
}

func TestScoringScenario_S5_OptimalNeverWorseThanGreedy(t *testing.T) {
	m := New(DefaultConfig())
	haystack := []rune("a-somewhat-longer-haystack-with-a-repeated-a-character")
	needle := []rune("aa")

	greedyScore, ok := m.greedyFuzzy(haystack, m.normalize(haystack), m.normalize(needle), false, nil)
	require.True(t, ok)

	optimalScore, ok, attempted := m.optimalFuzzy(haystack, m.normalize(haystack), m.normalize(needle), false, nil)
	require.True(t, attempted)
	require.True(t, ok)

	assert.GreaterOrEqual(t, optimalScore, greedyScore)
}

func TestScoringScenario_S6_UnicodeFastPath(t *testing.T) {
	m := New(DefaultConfig())
	var indices []int
	s, ok := m.Match(AtomFuzzy, []rune("你好世界"), []rune("你好"), CaseSmart, NormalizeNever, true, &indices)
	require.True(t, ok)
	assert.Positive(t, s)
	assert.Equal(t, []int{0, 1}, indices)
}

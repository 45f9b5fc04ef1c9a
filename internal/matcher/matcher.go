package matcher

import "sync"

// Matcher scores one haystack against one needle under a given Config.
// It owns a slab (matrix.go) so repeated optimal-fuzzy calls from the
// same goroutine don't reallocate the DP matrix. Matcher is not safe
// for concurrent use — callers pool one per goroutine (see Pool below),
// mirroring the original crate's thread-local matcher instance.
type Matcher struct {
	cfg  Config
	slab *slab
}

// New constructs a Matcher with its own slab.
func New(cfg Config) *Matcher {
	return &Matcher{cfg: cfg, slab: newSlab()}
}

// Pool hands out Matchers configured with DefaultConfig, reused across
// calls to avoid repeated slab allocation on completion/query hot paths.
var Pool = sync.Pool{
	New: func() any { return New(DefaultConfig()) },
}

// Get borrows a Matcher from Pool; callers must Put it back when done.
func Get() *Matcher {
	return Pool.Get().(*Matcher)
}

// Put returns a Matcher to Pool.
func Put(m *Matcher) {
	Pool.Put(m)
}

// normalize returns the comparison-ready copy of rs: case-folded and/or
// ASCII-normalized per cfg. Used for both haystack and needle so
// equality comparisons line up; classify() always reads the original,
// un-folded runes so case-boundary bonuses stay meaningful even under
// IgnoreCase.
func (m *Matcher) normalize(rs []rune) []rune {
	if !m.cfg.IgnoreCase && !m.cfg.Normalize {
		return rs
	}
	out := make([]rune, len(rs))
	for i, r := range rs {
		if m.cfg.IgnoreCase {
			r = foldRune(r)
		}
		if m.cfg.Normalize {
			r = normalizeToASCII(r)
		}
		out[i] = r
	}
	return out
}

// resolveCase applies CaseMatching against the needle to decide whether
// this call folds case: Smart folds unless the needle itself contains
// an uppercase letter (the common "type lowercase to search loosely,
// type a capital to narrow" convention).
func resolveCase(mode CaseMatching, needle []rune) bool {
	switch mode {
	case CaseRespect:
		return false
	case CaseIgnore:
		return true
	default: // CaseSmart
		for _, r := range needle {
			if r != foldRune(r) {
				return false
			}
		}
		return true
	}
}

func resolveNormalize(mode Normalization) bool {
	return mode == NormalizeSmart
}

// Match scores needle against haystack under the given mode, returning
// false if there is no match. Set withIndices to populate indices with
// the 0-indexed haystack rune positions consumed by the match.
func (m *Matcher) Match(kind AtomKind, haystack, needle []rune, caseMode CaseMatching, normMode Normalization, withIndices bool, indices *[]int) (uint16, bool) {
	m.cfg.IgnoreCase = resolveCase(caseMode, needle)
	m.cfg.Normalize = resolveNormalize(normMode)

	haystackNorm := m.normalize(haystack)
	needleNorm := m.normalize(needle)

	switch kind {
	case AtomExact:
		return m.exactMatch(haystack, haystackNorm, needleNorm, withIndices, indices)
	case AtomPrefix:
		return m.prefixMatch(haystack, haystackNorm, needleNorm, withIndices, indices)
	case AtomPostfix:
		return m.postfixMatch(haystack, haystackNorm, needleNorm, withIndices, indices)
	case AtomSubstring:
		return m.substringMatch(haystack, haystackNorm, needleNorm, withIndices, indices)
	default: // AtomFuzzy
		if score, ok, attempted := m.optimalFuzzy(haystack, haystackNorm, needleNorm, withIndices, indices); attempted {
			return score, ok
		}
		return m.greedyFuzzy(haystack, haystackNorm, needleNorm, withIndices, indices)
	}
}

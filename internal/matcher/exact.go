package matcher

// exact.go implements the three literal match modes of spec §4.4
// (substring, prefix, postfix) plus the exact whole-string mode,
// grounded on original_source/matcher/src/exact.rs's structure: each is
// a direct scan over the normalized haystack, no DP, no boundary bonus
// beyond the Prefer-prefix term calculateScore already applies.

// substringMatch finds the leftmost occurrence of needle in
// haystackNorm and scores it via calculateScore, matching exact.rs's
// substring algorithm (scan, then reuse the fuzzy scorer over the
// contiguous hit).
func (m *Matcher) substringMatch(haystackOrig, haystackNorm, needle []rune, withIndices bool, indices *[]int) (uint16, bool) {
	if len(needle) == 0 || len(needle) > len(haystackNorm) {
		return 0, false
	}
	for start := 0; start+len(needle) <= len(haystackNorm); start++ {
		if runesEqual(haystackNorm[start:start+len(needle)], needle) {
			end := start + len(needle)
			return m.cfg.calculateScore(haystackOrig, haystackNorm, needle, start, end, withIndices, indices), true
		}
	}
	return 0, false
}

// prefixMatch requires the needle to start the haystack exactly.
func (m *Matcher) prefixMatch(haystackOrig, haystackNorm, needle []rune, withIndices bool, indices *[]int) (uint16, bool) {
	if len(needle) == 0 || len(needle) > len(haystackNorm) {
		return 0, false
	}
	if !runesEqual(haystackNorm[:len(needle)], needle) {
		return 0, false
	}
	return m.cfg.calculateScore(haystackOrig, haystackNorm, needle, 0, len(needle), withIndices, indices), true
}

// postfixMatch requires the needle to end the haystack exactly.
func (m *Matcher) postfixMatch(haystackOrig, haystackNorm, needle []rune, withIndices bool, indices *[]int) (uint16, bool) {
	if len(needle) == 0 || len(needle) > len(haystackNorm) {
		return 0, false
	}
	start := len(haystackNorm) - len(needle)
	if !runesEqual(haystackNorm[start:], needle) {
		return 0, false
	}
	return m.cfg.calculateScore(haystackOrig, haystackNorm, needle, start, len(haystackNorm), withIndices, indices), true
}

// exactMatch requires the entire (normalized) haystack to equal needle.
func (m *Matcher) exactMatch(haystackOrig, haystackNorm, needle []rune, withIndices bool, indices *[]int) (uint16, bool) {
	if len(needle) != len(haystackNorm) {
		return 0, false
	}
	if !runesEqual(haystackNorm, needle) {
		return 0, false
	}
	return m.cfg.calculateScore(haystackOrig, haystackNorm, needle, 0, len(haystackNorm), withIndices, indices), true
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

package matcher

import "strings"

// pattern.go implements the modifier-prefixed query syntax of spec
// §4.4 / original_source/matcher/src/pattern.rs: a completion or query
// string is split into whitespace-separated atoms, each of which may
// carry a leading '!' (negate), '^' (prefix), '\'' (substring), or a
// trailing '$' (postfix, or exact if paired with '^') modifier, with
// '\' escaping a literal modifier character.

// Atom is one parsed term of a Pattern.
type Atom struct {
	Negative bool
	Kind     AtomKind
	Needle   []rune
	Case     CaseMatching
	Norm     Normalization
}

// ParseAtom parses one already-whitespace-trimmed token into an Atom,
// applying the modifier rules above.
func ParseAtom(token string, caseMode CaseMatching, normMode Normalization) Atom {
	a := Atom{Kind: AtomFuzzy, Case: caseMode, Norm: normMode}

	s := token
	if strings.HasPrefix(s, "!") {
		a.Negative = true
		s = s[1:]
	}

	prefixMod := strings.HasPrefix(s, "^")
	if prefixMod {
		s = s[1:]
	}
	postfixMod := strings.HasSuffix(s, "$") && !strings.HasSuffix(s, `\$`)
	if postfixMod {
		s = s[:len(s)-1]
	}

	switch {
	case prefixMod && postfixMod:
		a.Kind = AtomExact
	case prefixMod:
		a.Kind = AtomPrefix
	case postfixMod:
		a.Kind = AtomPostfix
	case strings.HasPrefix(s, "'"):
		a.Kind = AtomSubstring
		s = s[1:]
	default:
		a.Kind = AtomFuzzy
	}

	a.Needle = []rune(unescapeAtom(s))
	return a
}

// unescapeAtom removes the backslash from an escaped modifier character
// (\!, \^, \', \$, \\) without touching any other backslash.
func unescapeAtom(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\\' && i+1 < len(runes) {
			switch runes[i+1] {
			case '!', '^', '\'', '$', '\\':
				b.WriteRune(runes[i+1])
				i++
				continue
			}
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}

// Score scores haystack against this atom using m, returning ok=false
// if the atom does not match (including when a negated atom's inner
// pattern DOES match, since a negated atom only contributes to a
// Pattern's overall match when its inner pattern is absent).
func (a Atom) Score(m *Matcher, haystack []rune) (uint16, bool) {
	score, matched := m.Match(a.Kind, haystack, a.Needle, a.Case, a.Norm, false, nil)
	if a.Negative {
		if matched {
			return 0, false
		}
		return 0, true
	}
	return score, matched
}

// Indices returns the 0-indexed haystack rune positions a (non-negated)
// atom's match consumed.
func (a Atom) Indices(m *Matcher, haystack []rune) []int {
	var idx []int
	m.Match(a.Kind, haystack, a.Needle, a.Case, a.Norm, true, &idx)
	return idx
}

// Pattern is a full query string: a conjunction of Atoms (spec §4.4
// "pattern: atom (whitespace atom)*"). A candidate matches the Pattern
// only if every non-negated atom matches and every negated atom does
// not; the Pattern's score is the sum of the non-negated atoms'
// scores.
type Pattern struct {
	Atoms []Atom
}

// ParsePattern splits query on unescaped whitespace and parses each
// piece as an Atom.
func ParsePattern(query string, caseMode CaseMatching, normMode Normalization) Pattern {
	var atoms []Atom
	for _, tok := range splitAtoms(query) {
		if tok == "" {
			continue
		}
		atoms = append(atoms, ParseAtom(tok, caseMode, normMode))
	}
	return Pattern{Atoms: atoms}
}

// splitAtoms splits on runs of whitespace that are not escaped with a
// preceding backslash.
func splitAtoms(query string) []string {
	var out []string
	var cur strings.Builder
	runes := []rune(query)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\\' && i+1 < len(runes) {
			cur.WriteRune(r)
			cur.WriteRune(runes[i+1])
			i++
			continue
		}
		if r == ' ' || r == '\t' {
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
			continue
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

// Score scores haystack against every atom, returning ok=false as soon
// as one required atom fails to satisfy its polarity.
func (p Pattern) Score(m *Matcher, haystack []rune) (uint16, bool) {
	var total uint16
	for _, a := range p.Atoms {
		score, ok := a.Score(m, haystack)
		if !ok {
			return 0, false
		}
		total = saturatingAdd(total, score)
	}
	return total, true
}

// Indices returns the union of match indices across all non-negated
// atoms, for highlighting in a completion list.
func (p Pattern) Indices(m *Matcher, haystack []rune) []int {
	seen := map[int]bool{}
	var all []int
	for _, a := range p.Atoms {
		if a.Negative {
			continue
		}
		for _, i := range a.Indices(m, haystack) {
			if !seen[i] {
				seen[i] = true
				all = append(all, i)
			}
		}
	}
	return all
}

package vault

import (
	"path"
	"strings"
)

// unescapeFileRef undoes the "%20" / "\ " space-escaping a Markdown or
// wiki link's file part may carry (spec §4.3 matching rules).
func unescapeFileRef(s string) string {
	s = strings.ReplaceAll(s, "%20", " ")
	s = strings.ReplaceAll(s, "\\ ", " ")
	return s
}

// fileMatches reports whether a reference's file text matches a target's
// full vault-relative path (without extension), per spec §4.3: equal to
// the full path, or — if the reference text contains no '/' — equal to
// the target's basename. This generalizes the teacher's
// LinkResolver.ResolveLink cascade (exact path, then basename) from
// "WikiLink string -> file ID" to "reference file text -> referenceable
// path", dropping the teacher's normalized/fuzzy fallback tier: spec §4.3
// names only full-path and basename matching, so the weaker fuzzy tier
// would accept matches the spec does not.
func fileMatches(refFileText, targetPath string) bool {
	ref := unescapeFileRef(strings.TrimSpace(refFileText))
	ref = stripMDExtension(ref)
	ref = strings.TrimSuffix(ref, "/")
	target := stripMDExtension(targetPath)
	target = strings.TrimSuffix(target, "/")

	if ref == target {
		return true
	}
	if !strings.Contains(ref, "/") {
		return ref == path.Base(target)
	}
	return false
}

// infileMatches reports whether a heading/indexed-block reference's
// infile part addresses the given referenceable infile text (heading
// text, or "^index").
func infileMatches(refInfile, targetInfile string) bool {
	return refInfile == targetInfile
}

// tagPrefixMatches reports whether refHierarchy is a '/'-segment prefix of
// tagPath, per spec §4.3's Tag matching rule ("#area" matches "#area/sub").
func tagPrefixMatches(refHierarchy, tagPath string) bool {
	refSegs := strings.Split(strings.Trim(refHierarchy, "/"), "/")
	tagSegs := strings.Split(strings.Trim(tagPath, "/"), "/")
	if len(refSegs) > len(tagSegs) {
		return false
	}
	for i, s := range refSegs {
		if s != tagSegs[i] {
			return false
		}
	}
	return true
}

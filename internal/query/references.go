package query

import "github.com/ali01/vault-lsp/internal/models"

// References implements spec §4.7's find-references:
// referenceable_at(path, pos) → references_of(referenceable) → locations.
// includeDeclaration controls whether the referenceable's own location
// (its "declaration") is included alongside the referencing sites.
func (e *Engine) References(path string, pos models.Position, includeDeclaration bool) []Location {
	target, ok := e.v.ReferenceableAt(path, pos)
	if !ok {
		return nil
	}
	refs := e.v.ReferencesOf(target)
	out := make([]Location, 0, len(refs)+1)
	if includeDeclaration && !target.Kind.Unresolved() {
		out = append(out, referenceableLocation(target))
	}
	for _, pr := range refs {
		out = append(out, Location{Path: pr.Path, Range: pr.Reference.Data.Range})
	}
	return out
}

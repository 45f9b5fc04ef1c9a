package query

import "github.com/ali01/vault-lsp/internal/models"

// Definition implements spec §4.7's go-to-definition:
// reference_at(path, pos) → referenceables_of(reference) → locations.
func (e *Engine) Definition(path string, pos models.Position) []Location {
	ref, ok := e.v.ReferenceAt(path, pos)
	if !ok {
		return nil
	}
	targets := e.v.ReferenceablesOf(ref, path)
	out := make([]Location, 0, len(targets))
	for _, t := range targets {
		if t.Kind.Unresolved() {
			continue
		}
		out = append(out, referenceableLocation(t))
	}
	return out
}

// referenceableLocation returns the location an editor should jump to
// for a resolved referenceable: the owning entity's range, or the
// file's first line for a whole-file target (which has no range of its
// own per models.Referenceable.Range).
func referenceableLocation(r models.Referenceable) Location {
	rng := r.Range()
	if rng == (models.Range{}) && r.Kind == models.RefableFile {
		rng = models.NewRange(0, 0, 0)
	}
	return Location{Path: r.Path, Range: rng}
}

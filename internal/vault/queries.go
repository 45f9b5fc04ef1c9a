package vault

import (
	"sort"
	"strings"

	"github.com/ali01/vault-lsp/internal/models"
)

// Referenceables enumerates every referenceable in scope (spec §4.3
// referenceables). When scope is AllScope, unresolved referenceables are
// also synthesized for every dangling file/heading/indexed-block
// reference in the vault, deduplicated by reference text.
func (v *Vault) Referenceables(scope Scope) []models.Referenceable {
	v.mu.RLock()
	defer v.mu.RUnlock()

	paths := v.snapshotPaths(scope)
	var out []models.Referenceable
	for _, path := range paths {
		f := v.files[path]
		out = append(out, models.Referenceable{Kind: models.RefableFile, Path: path})
		for i := range f.Headings {
			out = append(out, models.Referenceable{Kind: models.RefableHeading, Path: path, Heading: &f.Headings[i]})
		}
		for i := range f.IndexedBlocks {
			out = append(out, models.Referenceable{Kind: models.RefableIndexedBlock, Path: path, IndexedBlock: &f.IndexedBlocks[i]})
		}
		for i := range f.Tags {
			out = append(out, models.Referenceable{Kind: models.RefableTag, Path: path, Tag: &f.Tags[i]})
		}
		for i := range f.Footnotes {
			out = append(out, models.Referenceable{Kind: models.RefableFootnote, Path: path, Footnote: &f.Footnotes[i]})
		}
		for i := range f.LinkReferenceDefinitions {
			out = append(out, models.Referenceable{Kind: models.RefableLinkRefDef, Path: path, LinkRefDef: &f.LinkReferenceDefinitions[i]})
		}
	}

	if scope.All {
		out = append(out, v.unresolvedReferenceablesLocked(paths)...)
	}
	return out
}

func (v *Vault) unresolvedReferenceablesLocked(paths []string) []models.Referenceable {
	seen := make(map[string]bool)
	var out []models.Referenceable
	for _, path := range paths {
		f := v.files[path]
		for _, ref := range f.References {
			if !ref.IsFileLink() && !ref.IsHeadingLink() && !ref.IsIndexedBlockLink() {
				continue
			}
			if len(v.referenceablesOfLocked(ref, path)) > 0 {
				continue
			}
			key := ref.Data.ReferenceText
			if seen[key] {
				continue
			}
			seen[key] = true

			synthPath := stripMDExtension(unescapeFileRef(ref.File))
			switch {
			case ref.IsHeadingLink():
				out = append(out, models.Referenceable{
					Kind: models.RefableUnresolvedHeading, Path: synthPath,
					FileRef: ref.File, InfileRef: ref.Heading,
				})
			case ref.IsIndexedBlockLink():
				out = append(out, models.Referenceable{
					Kind: models.RefableUnresolvedIndexedBlock, Path: synthPath,
					FileRef: ref.File, InfileRef: "^" + ref.Index,
				})
			default:
				out = append(out, models.Referenceable{
					Kind: models.RefableUnresolvedFile, Path: synthPath,
					FileRef: ref.File,
				})
			}
		}
	}
	return out
}

// References enumerates every (path, Reference) pair in scope, in
// per-file source order (spec §4.3 references).
func (v *Vault) References(scope Scope) []PathReference {
	v.mu.RLock()
	defer v.mu.RUnlock()

	paths := v.snapshotPaths(scope)
	var out []PathReference
	for _, path := range paths {
		for _, r := range v.files[path].References {
			out = append(out, PathReference{Path: path, Reference: r})
		}
	}
	return out
}

// ReferenceableAt returns the innermost referenceable whose range
// contains pos, falling back to the whole-file referenceable (spec §4.3
// referenceable_at).
func (v *Vault) ReferenceableAt(path string, pos models.Position) (models.Referenceable, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	f, ok := v.files[path]
	if !ok {
		return models.Referenceable{}, false
	}

	var best *models.Referenceable
	bestSize := -1
	consider := func(r models.Referenceable) {
		rng := r.Range()
		if !rng.Contains(pos) {
			return
		}
		size := rangeSize(rng)
		if best == nil || size < bestSize {
			rCopy := r
			best = &rCopy
			bestSize = size
		}
	}

	for i := range f.Headings {
		consider(models.Referenceable{Kind: models.RefableHeading, Path: path, Heading: &f.Headings[i]})
	}
	for i := range f.IndexedBlocks {
		consider(models.Referenceable{Kind: models.RefableIndexedBlock, Path: path, IndexedBlock: &f.IndexedBlocks[i]})
	}
	for i := range f.Tags {
		consider(models.Referenceable{Kind: models.RefableTag, Path: path, Tag: &f.Tags[i]})
	}
	for i := range f.Footnotes {
		consider(models.Referenceable{Kind: models.RefableFootnote, Path: path, Footnote: &f.Footnotes[i]})
	}
	for i := range f.LinkReferenceDefinitions {
		consider(models.Referenceable{Kind: models.RefableLinkRefDef, Path: path, LinkRefDef: &f.LinkReferenceDefinitions[i]})
	}

	if best != nil {
		return *best, true
	}
	return models.Referenceable{Kind: models.RefableFile, Path: path}, true
}

func rangeSize(r models.Range) int {
	return (r.End.Line-r.Start.Line)*1_000_000 + (r.End.Character - r.Start.Character)
}

// ReferenceAt returns the reference occupying pos in path, if any (spec
// §4.3 reference_at).
func (v *Vault) ReferenceAt(path string, pos models.Position) (models.Reference, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	f, ok := v.files[path]
	if !ok {
		return models.Reference{}, false
	}
	for _, r := range f.References {
		if r.Data.Range.Contains(pos) {
			return r, true
		}
	}
	return models.Reference{}, false
}

// ReferenceablesOf returns every referenceable that ref (scanned out of
// refPath) points to — usually zero or one, except tag references which
// may match many referenceables via prefix matching (spec §4.3
// referenceables_of).
func (v *Vault) ReferenceablesOf(ref models.Reference, refPath string) []models.Referenceable {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.referenceablesOfLocked(ref, refPath)
}

func (v *Vault) referenceablesOfLocked(ref models.Reference, refPath string) []models.Referenceable {
	var out []models.Referenceable

	switch ref.Kind {
	case models.KindTagRef:
		for path, f := range v.files {
			for i, t := range f.Tags {
				if tagPrefixMatches(ref.Data.ReferenceText, t.Name) {
					out = append(out, models.Referenceable{Kind: models.RefableTag, Path: path, Tag: &f.Tags[i]})
				}
			}
		}

	case models.KindFootnoteRef:
		f, ok := v.files[refPath]
		if !ok {
			return nil
		}
		for i, fn := range f.Footnotes {
			if strings.TrimPrefix(fn.Index, "^") == ref.Index {
				out = append(out, models.Referenceable{Kind: models.RefableFootnote, Path: refPath, Footnote: &f.Footnotes[i]})
			}
		}

	case models.KindLinkRef:
		f, ok := v.files[refPath]
		if !ok {
			return nil
		}
		for i, d := range f.LinkReferenceDefinitions {
			if strings.EqualFold(d.Name, ref.Data.ReferenceText) {
				out = append(out, models.Referenceable{Kind: models.RefableLinkRefDef, Path: refPath, LinkRefDef: &f.LinkReferenceDefinitions[i]})
			}
		}

	default: // file / heading / indexed-block links, wiki or markdown syntax
		for path, f := range v.files {
			if !fileMatches(ref.File, path) {
				continue
			}
			switch {
			case ref.IsHeadingLink():
				for i, h := range f.Headings {
					if h.Text == ref.Heading {
						out = append(out, models.Referenceable{Kind: models.RefableHeading, Path: path, Heading: &f.Headings[i]})
					}
				}
			case ref.IsIndexedBlockLink():
				for i, ib := range f.IndexedBlocks {
					if ib.Index == ref.Index {
						out = append(out, models.Referenceable{Kind: models.RefableIndexedBlock, Path: path, IndexedBlock: &f.IndexedBlocks[i]})
					}
				}
			default:
				out = append(out, models.Referenceable{Kind: models.RefableFile, Path: path})
			}
		}
	}

	return out
}

// ReferencesOf returns every reference across the vault that resolves to
// target, sorted by the containing file's modification time descending
// as a tie-break (spec §4.3 references_of).
func (v *Vault) ReferencesOf(target models.Referenceable) []PathReference {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var out []PathReference
	for path, f := range v.files {
		for _, ref := range f.References {
			for _, cand := range v.referenceablesOfLocked(ref, path) {
				if referenceableEqual(cand, target) {
					out = append(out, PathReference{Path: path, Reference: ref})
					break
				}
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		fi, fj := v.files[out[i].Path], v.files[out[j].Path]
		if !fi.ModTime.Equal(fj.ModTime) {
			return fi.ModTime.After(fj.ModTime)
		}
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Reference.Data.Range.Start.Less(out[j].Reference.Data.Range.Start)
	})
	return out
}

// ReferencesTargetingFile returns every reference across the vault whose
// file part resolves to path, regardless of whether the reference also
// carries a heading or indexed-block infile part — the broader "every
// link that would break if this file moved" set a rename operation
// needs, as opposed to ReferencesOf(File(path)) which only matches
// whole-file-link references.
func (v *Vault) ReferencesTargetingFile(path string) []PathReference {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var out []PathReference
	for p, f := range v.files {
		for _, ref := range f.References {
			if ref.File == "" {
				continue // tag/footnote/link-ref references carry no file part
			}
			if fileMatches(ref.File, path) {
				out = append(out, PathReference{Path: p, Reference: ref})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Reference.Data.Range.Start.Less(out[j].Reference.Data.Range.Start)
	})
	return out
}

func referenceableEqual(a, b models.Referenceable) bool {
	if a.Kind != b.Kind || a.Path != b.Path {
		return false
	}
	switch a.Kind {
	case models.RefableFile:
		return true
	case models.RefableHeading:
		return a.Heading != nil && b.Heading != nil && *a.Heading == *b.Heading
	case models.RefableIndexedBlock:
		return a.IndexedBlock != nil && b.IndexedBlock != nil && *a.IndexedBlock == *b.IndexedBlock
	case models.RefableTag:
		return a.Tag != nil && b.Tag != nil && *a.Tag == *b.Tag
	case models.RefableFootnote:
		return a.Footnote != nil && b.Footnote != nil && *a.Footnote == *b.Footnote
	case models.RefableLinkRefDef:
		return a.LinkRefDef != nil && b.LinkRefDef != nil && *a.LinkRefDef == *b.LinkRefDef
	default:
		return false
	}
}

// Preview returns the snippet shown alongside a completion/hover for
// target (spec §4.3 preview): ten lines following a heading, the file's
// first fourteen lines for a whole-file target, the single owning line
// for an indexed block, footnote definition, or link-reference
// definition. Tags and unresolved targets have no preview.
func (v *Vault) Preview(target models.Referenceable) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	switch target.Kind {
	case models.RefableHeading:
		if target.Heading == nil {
			return "", false
		}
		return v.previewLinesLocked(target.Path, target.Heading.Range.Start.Line, 10)
	case models.RefableFile:
		return v.previewLinesLocked(target.Path, 0, 14)
	case models.RefableIndexedBlock:
		if target.IndexedBlock == nil {
			return "", false
		}
		return v.previewLinesLocked(target.Path, target.IndexedBlock.Range.Start.Line, 1)
	case models.RefableFootnote:
		if target.Footnote == nil {
			return "", false
		}
		return v.previewLinesLocked(target.Path, target.Footnote.Range.Start.Line, 1)
	case models.RefableLinkRefDef:
		if target.LinkRefDef == nil {
			return "", false
		}
		return v.previewLinesLocked(target.Path, target.LinkRefDef.Range.Start.Line, 1)
	default:
		return "", false
	}
}

func (v *Vault) previewLinesLocked(path string, startLine, count int) (string, bool) {
	r, ok := v.ropes.Get(path)
	if !ok {
		return "", false
	}
	var b strings.Builder
	wrote := false
	for i := 0; i < count; i++ {
		line, ok := r.LineStr(startLine + i)
		if !ok {
			break
		}
		if wrote {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		wrote = true
	}
	if !wrote {
		return "", false
	}
	return b.String(), true
}

// Blocks returns one Block per non-empty trimmed line across the whole
// vault — the completion pool for unindexed-block linking (spec §4.3
// select_blocks / blocks).
func (v *Vault) Blocks() []models.Block {
	v.mu.RLock()
	defer v.mu.RUnlock()

	paths := make([]string, 0, len(v.files))
	for p := range v.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var out []models.Block
	for _, path := range paths {
		r, ok := v.ropes.Get(path)
		if !ok {
			continue
		}
		for i := 0; i < r.LenLines(); i++ {
			line, ok := r.LineStr(i)
			if !ok {
				continue
			}
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			out = append(out, models.Block{
				Text:  trimmed,
				Range: models.NewRange(i, 0, len([]rune(line))),
				Path:  path,
			})
		}
	}
	return out
}

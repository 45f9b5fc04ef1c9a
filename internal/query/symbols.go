package query

import (
	"github.com/ali01/vault-lsp/internal/matcher"
	"github.com/ali01/vault-lsp/internal/models"
	"github.com/ali01/vault-lsp/internal/vault"
)

// DocumentSymbols builds the heading tree spec §4.7 names from a file's
// flat, source-ordered MDFile.Headings, using the level hierarchy: a
// heading becomes a child of the nearest preceding heading with a
// strictly lower level, and a sibling of the nearest preceding heading
// with an equal level. This is the standard stack-based nesting
// algorithm for a flat, leveled outline (spec.md doesn't name one
// beyond "using the level hierarchy" — see §8).
func (e *Engine) DocumentSymbols(path string) []DocumentSymbol {
	f, ok := e.v.File(path)
	if !ok {
		return nil
	}

	var roots []DocumentSymbol
	// Parallel stacks: levels[i] is the heading level of stack[i], the
	// last symbol seen at nesting depth i.
	var stack []*DocumentSymbol
	var levels []int

	for _, h := range f.Headings {
		sym := DocumentSymbol{
			Name:           h.Text,
			Kind:           SymbolHeading,
			Range:          h.Range,
			SelectionRange: h.Range,
		}

		// Pop every open level whose heading is not strictly shallower
		// than this one — those levels have closed.
		for len(levels) > 0 && levels[len(levels)-1] >= h.Level {
			stack = stack[:len(stack)-1]
			levels = levels[:len(levels)-1]
		}

		if len(stack) == 0 {
			roots = append(roots, sym)
			stack = append(stack, &roots[len(roots)-1])
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, sym)
			stack = append(stack, &parent.Children[len(parent.Children)-1])
		}
		levels = append(levels, h.Level)
	}
	return roots
}

// WorkspaceSymbols implements spec §4.7's workspace symbols: a flat list
// of every referenceable with kind file/tag/other, optionally fuzzy-
// filtered by a typed query.
func (e *Engine) WorkspaceSymbols(query string, caseMode matcher.CaseMatching, normMode matcher.Normalization) []SymbolInfo {
	needle := []rune(query)
	var m *matcher.Matcher
	if len(needle) > 0 {
		m = matcher.Get()
		defer matcher.Put(m)
	}

	var out []SymbolInfo
	for _, r := range e.v.Referenceables(vault.AllScope()) {
		if r.Kind.Unresolved() {
			continue
		}
		name, kind := symbolNameAndKind(r)
		if kind == SymbolHeading {
			continue // document symbols own headings; workspace symbols are file/tag/other only
		}
		if m != nil {
			if _, ok := m.Match(matcher.AtomFuzzy, []rune(name), needle, caseMode, normMode, false, nil); !ok {
				continue
			}
		}
		out = append(out, SymbolInfo{Name: name, Kind: kind, Location: referenceableLocation(r)})
	}
	return out
}

func symbolNameAndKind(r models.Referenceable) (string, SymbolKind) {
	switch r.Kind {
	case models.RefableFile:
		return stripExt(r.Path), SymbolFile
	case models.RefableTag:
		if r.Tag != nil {
			return "#" + r.Tag.Name, SymbolTag
		}
		return "#" + r.FileRef, SymbolTag
	case models.RefableHeading:
		if r.Heading != nil {
			return r.Heading.Text, SymbolHeading
		}
		return "", SymbolHeading
	default:
		return refnameText(r), SymbolOther
	}
}

func refnameText(r models.Referenceable) string {
	switch r.Kind {
	case models.RefableIndexedBlock:
		if r.IndexedBlock != nil {
			return r.Path + "#^" + r.IndexedBlock.Index
		}
	case models.RefableFootnote:
		if r.Footnote != nil {
			return r.Path + "#" + r.Footnote.Index
		}
	case models.RefableLinkRefDef:
		if r.LinkRefDef != nil {
			return r.LinkRefDef.Name
		}
	}
	return r.Path
}

package completion

import (
	"sort"
	"strings"

	"github.com/ali01/vault-lsp/internal/linkparser"
	"github.com/ali01/vault-lsp/internal/matcher"
	"github.com/ali01/vault-lsp/internal/models"
	"github.com/google/uuid"
)

// completeUnindexedBlock implements spec §4.6's completer #1: ranking
// every vault block (other than the one containing the cursor) by
// fuzzy match against the entered text, and materializing a
// `file#^GID` reference — generating a fresh block id and a companion
// append-edit when the target line has none yet.
func (e *Engine) completeUnindexedBlock(path string, cursorFile *models.MDFile, parsed linkparser.Result) Result {
	entered := strings.TrimPrefix(parsed.FileRef, " ")

	blocks := e.v.Blocks()
	m := matcher.Get()
	defer matcher.Put(m)

	type ranked struct {
		block models.Block
		score uint16
	}
	var candidates []ranked
	for _, b := range blocks {
		if b.Path == path && b.Range.Start.Line == parsed.CharRange.Start.Line {
			continue // the block containing the cursor itself
		}
		if entered == "" {
			candidates = append(candidates, ranked{block: b, score: 0})
			continue
		}
		score, ok := m.Match(matcher.AtomFuzzy, []rune(b.Text), []rune(entered), e.cfg.CaseMatching, e.cfg.Normalization, false, nil)
		if !ok {
			continue
		}
		candidates = append(candidates, ranked{block: b, score: score})
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	items := make([]Item, 0, e.cfg.NumBlockCompletions)
	for i, c := range candidates {
		if i >= e.cfg.NumBlockCompletions {
			break
		}
		id, additional, cmd := e.resolveBlockID(c.block)
		newText := c.block.Path + "#^" + id
		items = append(items, Item{
			Label:               c.block.Text,
			Kind:                KindReference,
			LabelDetail:         c.block.Path,
			SortText:            sortText(i),
			TextEdit:            TextEdit{Path: path, Range: parsed.CharRange, NewText: newText},
			AdditionalTextEdits: additional,
			Command:             cmd,
		})
	}
	return Result{Items: items, Incomplete: len(candidates) > len(items)}
}

// resolveBlockID returns the existing index id at b's line if one is
// already materialized there, otherwise generates a fresh one and
// returns the append-edit (and wrapping command) that would write it.
func (e *Engine) resolveBlockID(b models.Block) (id string, additional []TextEdit, cmd *Command) {
	if f, ok := e.v.File(b.Path); ok {
		if idx, ok := f.IndexedBlockByIndex(indexAtLine(f, b.Range.Start.Line)); ok {
			return idx.Index, nil, nil
		}
	}
	newID, err := GenerateBlockID()
	if err != nil {
		newID = "00000"
	}
	edit := TextEdit{
		Path:    b.Path,
		Range:   models.NewRange(b.Range.Start.Line, b.Range.End.Character, b.Range.End.Character),
		NewText: "   ^" + newID,
	}
	return newID, []TextEdit{edit}, &Command{
		ID:   uuid.NewString(),
		Name: "apply_edits",
		Args: WorkspaceEdit{TextEdits: []TextEdit{edit}},
	}
}

// indexAtLine returns the existing indexed-block id at line, or "" if
// none, used to look it up via MDFile.IndexedBlockByIndex's exact-match
// semantics (so an empty string intentionally misses).
func indexAtLine(f *models.MDFile, line int) string {
	for _, ib := range f.IndexedBlocks {
		if ib.Range.Start.Line == line {
			return ib.Index
		}
	}
	return ""
}


package query

import (
	"strings"

	"github.com/ali01/vault-lsp/internal/models"
)

// RenameFile implements the file-rename half of spec §4.7's rename:
// emit a file-rename operation and rewrite every link referring to the
// moved file, preserving each reference's original link syntax (wiki vs
// markdown) and display alias.
func (e *Engine) RenameFile(oldPath, newPath string) WorkspaceEdit {
	edit := WorkspaceEdit{Renames: []RenameOp{{OldPath: oldPath, NewPath: newPath}}}

	for _, pr := range e.v.ReferencesTargetingFile(oldPath) {
		newText := e.rewriteReferenceFile(pr.Reference, newPath)
		edit.TextEdits = append(edit.TextEdits, TextEdit{
			Path:    pr.Path,
			Range:   pr.Reference.Data.Range,
			NewText: newText,
		})
	}
	return edit
}

// RenameReferenceable implements the non-file half of spec §4.7's
// rename: for a heading, tag, or indexed-block referenceable, rewrite
// the referenceable's own occurrence plus every reference's infile
// part, again preserving link syntax and alias.
func (e *Engine) RenameReferenceable(target models.Referenceable, newName string) WorkspaceEdit {
	var edit WorkspaceEdit

	if ownRange, newOwnText, ok := ownOccurrenceEdit(target, newName); ok {
		edit.TextEdits = append(edit.TextEdits, TextEdit{Path: target.Path, Range: ownRange, NewText: newOwnText})
	}

	for _, pr := range e.v.ReferencesOf(target) {
		newInfile := newName
		if target.Kind == models.RefableIndexedBlock {
			newInfile = "^" + strings.TrimPrefix(newName, "^")
		}
		newText := e.rewriteReferenceInfile(pr.Reference, newInfile)
		edit.TextEdits = append(edit.TextEdits, TextEdit{
			Path:    pr.Path,
			Range:   pr.Reference.Data.Range,
			NewText: newText,
		})
	}
	return edit
}

// ownOccurrenceEdit returns the text edit that renames the referenceable
// itself at its defining location (the heading text, tag name, or index
// marker), if that kind has one in the source text.
func ownOccurrenceEdit(target models.Referenceable, newName string) (models.Range, string, bool) {
	switch target.Kind {
	case models.RefableHeading:
		if target.Heading == nil {
			return models.Range{}, "", false
		}
		h := target.Heading
		prefix := strings.Repeat("#", h.Level) + " "
		return h.Range, prefix + newName, true
	case models.RefableTag:
		if target.Tag == nil {
			return models.Range{}, "", false
		}
		return target.Tag.Range, "#" + strings.TrimPrefix(newName, "#"), true
	case models.RefableIndexedBlock:
		if target.IndexedBlock == nil {
			return models.Range{}, "", false
		}
		return target.IndexedBlock.Range, "^" + strings.TrimPrefix(newName, "^"), true
	default:
		return models.Range{}, "", false
	}
}

// rewriteReferenceFile rebuilds ref's original syntax with its file part
// replaced by newPath (extension-stripped), preserving wiki-vs-markdown
// syntax, any infile part, and any display alias.
func (e *Engine) rewriteReferenceFile(ref models.Reference, newPath string) string {
	target := stripExt(newPath)
	return e.materializeReference(ref, target, refInfilePart(ref))
}

// rewriteReferenceInfile rebuilds ref's original syntax with its infile
// part replaced by newInfile, leaving the file part untouched.
func (e *Engine) rewriteReferenceInfile(ref models.Reference, newInfile string) string {
	return e.materializeReference(ref, ref.File, newInfile)
}

func refInfilePart(ref models.Reference) string {
	switch {
	case ref.IsHeadingLink():
		return ref.Heading
	case ref.IsIndexedBlockLink():
		return "^" + ref.Index
	default:
		return ""
	}
}

// materializeReference reconstructs ref's bracket syntax around a new
// (file, infile) pair, preserving the wiki-vs-markdown choice and the
// original display alias (spec §4.7: "reference rewrites must preserve
// the original link syntax and any display alias").
func (e *Engine) materializeReference(ref models.Reference, target, infile string) string {
	full := target
	if infile != "" {
		full += "#" + infile
	}

	if ref.IsWiki() {
		if e.cfg.IncludeMDExtensionWikiLink && !strings.HasSuffix(full, ".md") {
			full += ".md"
		}
		if ref.Data.DisplayText != "" {
			return "[[" + full + "|" + ref.Data.DisplayText + "]]"
		}
		return "[[" + full + "]]"
	}

	mdTarget := full
	if e.cfg.IncludeMDExtensionMDLink && !strings.HasSuffix(mdTarget, ".md") {
		mdTarget += ".md"
	}
	if strings.ContainsAny(mdTarget, " \t") {
		mdTarget = "<" + mdTarget + ">"
	}
	display := ref.Data.DisplayText
	if display == "" {
		display = full
	}
	return "[" + display + "](" + mdTarget + ")"
}

func stripExt(path string) string {
	lower := strings.ToLower(path)
	for _, ext := range []string{".md", ".markdown"} {
		if strings.HasSuffix(lower, ext) {
			return path[:len(path)-len(ext)]
		}
	}
	return path
}

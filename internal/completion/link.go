package completion

import (
	"strings"
	"time"

	"github.com/ali01/vault-lsp/internal/linkparser"
	"github.com/ali01/vault-lsp/internal/models"
	"github.com/ali01/vault-lsp/internal/vault"
)

// completeLink implements spec §4.6's completers #2 (markdown-link) and
// #3 (wiki-link): candidate pool is every referenceable (including
// unresolved ones, so a new link can be created by typing its target),
// ranked by fuzzy match of the refname against "file[#infile]", plus
// synthesized daily-note entries.
func (e *Engine) completeLink(path string, parsed linkparser.Result) Result {
	entered := parsed.FileRef
	if parsed.HasInfile {
		entered = parsed.FileRef + "#" + parsed.InfileRef
	}

	var pool []models.Referenceable
	if entered == "" && parsed.Syntax.Kind == linkparser.KindWiki {
		pool = recentlyModifiedFiles(e.v)
	} else {
		pool = e.referenceablePool()
	}
	ranked := rankReferenceables(pool, entered, e.cfg)

	daily := DailyNotes(time.Now(), e.cfg.DailyNoteFormat, e.cfg.DailyNoteFolder)

	items := make([]Item, 0, e.cfg.NumCompletions)
	rank := 0
	for _, d := range daily {
		if !d.matchesUserInput(entered) {
			continue
		}
		items = append(items, e.linkItem(path, parsed, d.FilePath, "", rank, true))
		rank++
	}
	for _, rr := range ranked {
		if rank >= e.cfg.NumCompletions {
			break
		}
		items = append(items, e.linkItem(path, parsed, refnamePath(rr.ref), refnameInfile(rr.ref), rank, false))
		rank++
	}
	return Result{Items: items, Incomplete: len(ranked)+len(daily) > len(items)}
}

// referenceablePool collects every referenceable, including unresolved
// forms, optionally excluding headings when heading_completions is off.
func (e *Engine) referenceablePool() []models.Referenceable {
	all := e.v.Referenceables(vault.AllScope())
	if e.cfg.HeadingCompletions {
		return all
	}
	out := make([]models.Referenceable, 0, len(all))
	for _, r := range all {
		if r.Kind == models.RefableHeading || r.Kind == models.RefableUnresolvedHeading {
			continue
		}
		out = append(out, r)
	}
	return out
}

func refnamePath(r models.Referenceable) string {
	if r.Kind == models.RefableUnresolvedFile || r.Kind == models.RefableUnresolvedHeading || r.Kind == models.RefableUnresolvedIndexedBlock {
		return r.FileRef
	}
	return r.Path
}

func refnameInfile(r models.Referenceable) string {
	switch r.Kind {
	case models.RefableHeading:
		if r.Heading != nil {
			return r.Heading.Text
		}
	case models.RefableUnresolvedHeading:
		return r.InfileRef
	case models.RefableIndexedBlock:
		if r.IndexedBlock != nil {
			return "^" + r.IndexedBlock.Index
		}
	case models.RefableUnresolvedIndexedBlock:
		return "^" + r.InfileRef
	}
	return ""
}

func (e *Engine) linkItem(path string, parsed linkparser.Result, target, infile string, rank int, preselect bool) Item {
	label := target
	if infile != "" {
		label = target + "#" + infile
	}
	newText := e.materializeLink(parsed, target, infile)

	doc := ""
	if ref, ok := e.v.ReferenceableAt(path, parsed.CharRange.Start); ok {
		if preview, ok := e.v.Preview(ref); ok {
			doc = preview
		}
	}

	return Item{
		Label:         label,
		Kind:          KindFile,
		SortText:      sortText(rank),
		TextEdit:      TextEdit{Path: path, Range: parsed.CharRange, NewText: newText},
		Preselect:     preselect,
		Documentation: doc,
	}
}

func (e *Engine) materializeLink(parsed linkparser.Result, target, infile string) string {
	display := parsed.Syntax.Display

	if parsed.Syntax.Kind == linkparser.KindWiki {
		refname := target
		if e.cfg.IncludeMDExtensionWikiLink && !strings.HasSuffix(refname, ".md") {
			refname += ".md"
		}
		if infile != "" {
			refname += "#" + infile
		}
		if display != "" {
			return "[[" + refname + "|" + display + "]]"
		}
		return "[[" + refname + "]]"
	}

	refTarget := target
	if e.cfg.IncludeMDExtensionMDLink && !strings.HasSuffix(refTarget, ".md") {
		refTarget += ".md"
	}
	if infile != "" {
		refTarget += "#" + infile
	}
	if strings.ContainsAny(refTarget, " \t") {
		refTarget = "<" + refTarget + ">"
	}
	if display == "" {
		display = "${1:" + target + "}"
	}
	return "[" + display + "](" + refTarget + ")"
}

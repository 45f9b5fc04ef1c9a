// Package vault implements components C2 (Markdown scanner) and C3 (vault
// index) of spec.md: turning file text into a models.MDFile, aggregating
// MDFiles across the vault, and answering the referenceable/reference
// join queries layered on top.
//
// The scanner is regex-based, matching the teacher's own approach in
// internal/vault/wikilink.go — no pack example imports a block-tree
// Markdown parser library (goldmark et al. appear nowhere in the
// corpus), so a line-oriented regex scanner stays grounded rather than
// introducing an ungrounded dependency.
package vault

import (
	"regexp"
	"strings"

	"github.com/ali01/vault-lsp/internal/models"
)

// ScanConfig toggles the codeblock-related behavior of §6's config table.
type ScanConfig struct {
	TagsInCodeblocks       bool
	ReferencesInCodeblocks bool
}

var (
	headingRe      = regexp.MustCompile(`^(#{1,6})\s+(.*?)\s*#*\s*$`)
	fenceRe        = regexp.MustCompile("^\\s*(```|~~~)")
	indexedBlockRe = regexp.MustCompile(`( \^([A-Za-z0-9_-]+))\s*$`)
	wikiLinkRe     = regexp.MustCompile(`\[\[([^\[\]()]+)\]\]`)
	mdLinkRe       = regexp.MustCompile(`\[([^\[\]]*)\]\(\s*<?([^<>()]+?)>?\s*\)`)
	footnoteDefRe  = regexp.MustCompile(`^\[\^([^\]]+)\]:\s?(.*)$`)
	footnoteRefRe  = regexp.MustCompile(`\[\^([^\]]+)\]`)
	linkRefDefRe   = regexp.MustCompile(`^\[([^\^\]][^\]]*)\]:\s*(\S+)(?:\s+"([^"]*)")?\s*$`)
	bareLinkRefRe  = regexp.MustCompile(`\[([^\[\]]+)\]`)
	tagTokenRe     = regexp.MustCompile(`#[A-Za-z0-9/]+`)
	hasAlphaRe     = regexp.MustCompile(`[A-Za-z]`)
)

// span is a byte-offset interval within one line, used to mask already
// consumed syntax out of later, broader patterns (e.g. a wiki link's
// brackets must not also be picked up as a bare link-ref).
type span struct{ start, end int }

func overlaps(spans []span, s, e int) bool {
	for _, sp := range spans {
		if s < sp.end && e > sp.start {
			return true
		}
	}
	return false
}

// Scan turns the full text of one file into an MDFile. Output is
// deterministic and order-preserving (spec §4.2).
func Scan(path, text string, cfg ScanConfig) *models.MDFile {
	f := &models.MDFile{Path: path}

	lines := splitLinesKeepEnds(text)
	inFence := false

	for lineNo, rawLine := range lines {
		line := strings.TrimRight(rawLine, "\r\n")

		if fenceRe.MatchString(line) {
			inFence = !inFence
			continue
		}

		var consumed []span

		if !inFence {
			scanHeading(f, line, lineNo)
			scanIndexedBlock(f, line, lineNo, &consumed)
			scanFootnoteDef(f, line, lineNo)
			scanLinkRefDef(f, line, lineNo)
		}

		allowRefs := !inFence || cfg.ReferencesInCodeblocks
		allowTags := !inFence || cfg.TagsInCodeblocks

		if allowRefs {
			scanWikiLinks(f, line, lineNo, &consumed)
			scanMarkdownLinks(f, line, lineNo, &consumed)
		}
		if allowTags {
			scanTags(f, line, lineNo, &consumed)
		}
		if allowRefs {
			scanFootnoteRefs(f, line, lineNo, &consumed)
			scanBareLinkRefs(f, line, lineNo, &consumed)
		}
	}

	dropUnmaterializedLinkRefs(f)
	return f
}

func splitLinesKeepEnds(text string) []string {
	if text == "" {
		return []string{""}
	}
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i+1])
			start = i + 1
		}
	}
	lines = append(lines, text[start:])
	return lines
}

func byteToRuneCol(line string, byteOff int) int {
	return len([]rune(line[:byteOff]))
}

func scanHeading(f *models.MDFile, line string, lineNo int) {
	m := headingRe.FindStringSubmatch(line)
	if m == nil {
		return
	}
	level := len(m[1])
	text := m[2]
	f.Headings = append(f.Headings, models.Heading{
		Text:  text,
		Level: level,
		Range: models.NewRange(lineNo, 0, len([]rune(line))),
	})
}

func scanIndexedBlock(f *models.MDFile, line string, lineNo int, consumed *[]span) {
	m := indexedBlockRe.FindStringSubmatchIndex(line)
	if m == nil {
		return
	}
	fullStart, fullEnd := m[2], m[3]
	index := line[m[4]:m[5]]
	startCol := byteToRuneCol(line, fullStart)
	endCol := byteToRuneCol(line, fullEnd)
	f.IndexedBlocks = append(f.IndexedBlocks, models.IndexedBlock{
		Index: index,
		Range: models.NewRange(lineNo, startCol, endCol),
	})
	*consumed = append(*consumed, span{fullStart, fullEnd})
}

func scanFootnoteDef(f *models.MDFile, line string, lineNo int) {
	m := footnoteDefRe.FindStringSubmatch(line)
	if m == nil {
		return
	}
	f.Footnotes = append(f.Footnotes, models.Footnote{
		Index: "^" + m[1],
		Text:  m[2],
		Range: models.NewRange(lineNo, 0, len([]rune(line))),
	})
}

func scanLinkRefDef(f *models.MDFile, line string, lineNo int) {
	m := linkRefDefRe.FindStringSubmatch(line)
	if m == nil {
		return
	}
	f.LinkReferenceDefinitions = append(f.LinkReferenceDefinitions, models.LinkReferenceDefinition{
		Name:  m[1],
		URL:   m[2],
		Title: m[3],
		Range: models.NewRange(lineNo, 0, len([]rune(line))),
	})
}

func scanWikiLinks(f *models.MDFile, line string, lineNo int, consumed *[]span) {
	for _, m := range wikiLinkRe.FindAllStringSubmatchIndex(line, -1) {
		fullS, fullE := m[0], m[1]
		if overlaps(*consumed, fullS, fullE) {
			continue
		}
		inner := line[m[2]:m[3]]
		ref := parseWikiInner(inner, lineNo, fullS, fullE, line)
		f.References = append(f.References, ref)
		*consumed = append(*consumed, span{fullS, fullE})
	}
}

func parseWikiInner(inner string, lineNo, fullS, fullE int, line string) models.Reference {
	display := ""
	file := inner
	if idx := strings.Index(inner, "|"); idx >= 0 {
		file = inner[:idx]
		display = inner[idx+1:]
	}
	heading := ""
	index := ""
	if idx := strings.Index(file, "#"); idx >= 0 {
		infile := file[idx+1:]
		file = file[:idx]
		if strings.HasPrefix(infile, "^") {
			index = strings.TrimPrefix(infile, "^")
		} else {
			heading = infile
		}
	}
	startCol := byteToRuneCol(line, fullS)
	endCol := byteToRuneCol(line, fullE)
	data := models.ReferenceData{
		ReferenceText: strings.TrimSpace(inner),
		DisplayText:   strings.TrimSpace(display),
		Range:         models.NewRange(lineNo, startCol, endCol),
	}
	switch {
	case index != "":
		return models.Reference{Kind: models.KindWikiIndexedBlockLink, Data: data, File: strings.TrimSpace(file), Index: index}
	case heading != "":
		return models.Reference{Kind: models.KindWikiHeadingLink, Data: data, File: strings.TrimSpace(file), Heading: heading}
	default:
		return models.Reference{Kind: models.KindWikiFileLink, Data: data, File: strings.TrimSpace(file)}
	}
}

func scanMarkdownLinks(f *models.MDFile, line string, lineNo int, consumed *[]span) {
	for _, m := range mdLinkRe.FindAllStringSubmatchIndex(line, -1) {
		fullS, fullE := m[0], m[1]
		if overlaps(*consumed, fullS, fullE) {
			continue
		}
		display := line[m[2]:m[3]]
		target := line[m[4]:m[5]]
		ref := parseMDLinkTarget(display, target, lineNo, fullS, fullE, line)
		f.References = append(f.References, ref)
		*consumed = append(*consumed, span{fullS, fullE})
	}
}

func parseMDLinkTarget(display, target string, lineNo, fullS, fullE int, line string) models.Reference {
	file := target
	heading, index := "", ""
	if idx := strings.Index(file, "#"); idx >= 0 {
		infile := file[idx+1:]
		file = file[:idx]
		if strings.HasPrefix(infile, "^") {
			index = strings.TrimPrefix(infile, "^")
		} else {
			heading = infile
		}
	}
	file = stripMDExtension(file)
	startCol := byteToRuneCol(line, fullS)
	endCol := byteToRuneCol(line, fullE)
	data := models.ReferenceData{
		ReferenceText: target,
		DisplayText:   display,
		Range:         models.NewRange(lineNo, startCol, endCol),
	}
	switch {
	case index != "":
		return models.Reference{Kind: models.KindMDIndexedBlockLink, Data: data, File: file, Index: index}
	case heading != "":
		return models.Reference{Kind: models.KindMDHeadingLink, Data: data, File: file, Heading: heading}
	default:
		return models.Reference{Kind: models.KindMDFileLink, Data: data, File: file}
	}
}

func stripMDExtension(file string) string {
	lower := strings.ToLower(file)
	for _, ext := range []string{".md", ".markdown"} {
		if strings.HasSuffix(lower, ext) {
			return file[:len(file)-len(ext)]
		}
	}
	return file
}

func scanTags(f *models.MDFile, line string, lineNo int, consumed *[]span) {
	for _, m := range tagTokenRe.FindAllStringIndex(line, -1) {
		s, e := m[0], m[1]
		if overlaps(*consumed, s, e) {
			continue
		}
		if s > 0 {
			prev := line[s-1]
			if prev != ' ' && prev != '\t' {
				continue
			}
		}
		if e < len(line) {
			next := line[e]
			if next != ' ' && next != '\t' {
				continue
			}
		}
		name := line[s+1 : e]
		if !hasAlphaRe.MatchString(name) {
			continue
		}
		startCol := byteToRuneCol(line, s)
		endCol := byteToRuneCol(line, e)
		f.Tags = append(f.Tags, models.Tag{Name: name, Range: models.NewRange(lineNo, startCol, endCol)})
		ref := models.Reference{
			Kind: models.KindTagRef,
			Data: models.ReferenceData{
				ReferenceText: name,
				Range:         models.NewRange(lineNo, startCol, endCol),
			},
		}
		f.References = append(f.References, ref)
		*consumed = append(*consumed, span{s, e})
	}
}

func scanFootnoteRefs(f *models.MDFile, line string, lineNo int, consumed *[]span) {
	for _, m := range footnoteRefRe.FindAllStringSubmatchIndex(line, -1) {
		fullS, fullE := m[0], m[1]
		if overlaps(*consumed, fullS, fullE) {
			continue
		}
		if fullE < len(line) && line[fullE] == ':' {
			continue // this is a footnote definition, already scanned separately
		}
		name := "^" + line[m[2]:m[3]]
		startCol := byteToRuneCol(line, fullS)
		endCol := byteToRuneCol(line, fullE)
		f.References = append(f.References, models.Reference{
			Kind: models.KindFootnoteRef,
			Data: models.ReferenceData{
				ReferenceText: name,
				Range:         models.NewRange(lineNo, startCol, endCol),
			},
			Index: strings.TrimPrefix(name, "^"),
		})
		*consumed = append(*consumed, span{fullS, fullE})
	}
}

// scanBareLinkRefs extracts "[name]" LinkRef references. Per the §3
// invariant these are only materialized if the file contains at least one
// link-reference-definition; since definitions may appear after the
// reference in source order, this pass defers that check to Scan, which
// calls dropUnmaterializedLinkRefs after every line has been scanned.
func scanBareLinkRefs(f *models.MDFile, line string, lineNo int, consumed *[]span) {
	for _, m := range bareLinkRefRe.FindAllStringSubmatchIndex(line, -1) {
		fullS, fullE := m[0], m[1]
		if overlaps(*consumed, fullS, fullE) {
			continue
		}
		if fullE < len(line) {
			next := line[fullE]
			if next == '(' || next == ':' {
				continue
			}
		}
		if fullS > 0 && line[fullS-1] == '[' {
			continue
		}
		if fullE < len(line) && line[fullE] == ']' {
			continue
		}
		name := line[m[2]:m[3]]
		startCol := byteToRuneCol(line, fullS)
		endCol := byteToRuneCol(line, fullE)
		f.References = append(f.References, models.Reference{
			Kind: models.KindLinkRef,
			Data: models.ReferenceData{
				ReferenceText: name,
				Range:         models.NewRange(lineNo, startCol, endCol),
			},
		})
		*consumed = append(*consumed, span{fullS, fullE})
	}
}

// dropUnmaterializedLinkRefs removes LinkRef references from files that
// define no link-reference-definition (spec §3 invariant).
func dropUnmaterializedLinkRefs(f *models.MDFile) {
	if f.HasLinkReferenceDefinitions() {
		return
	}
	out := f.References[:0]
	for _, r := range f.References {
		if r.Kind == models.KindLinkRef {
			continue
		}
		out = append(out, r)
	}
	f.References = out
}

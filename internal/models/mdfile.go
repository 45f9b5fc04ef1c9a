package models

import (
	"strings"
	"time"
)

// MDFile is the parsed form of one vault file: ordered sequences of every
// structural entity the scanner (C2) extracts, plus every reference found
// in the file, in source order. An MDFile is owned exclusively by the
// vault and is replaced atomically on any re-parse of its path (spec §3).
type MDFile struct {
	Path                     string
	Headings                 []Heading
	IndexedBlocks            []IndexedBlock
	Tags                     []Tag
	Footnotes                []Footnote
	LinkReferenceDefinitions []LinkReferenceDefinition
	References               []Reference

	ModTime time.Time
}

// HasLinkReferenceDefinitions reports whether this file defines at least
// one "[name]: url" pair — a LinkRef reference is only materialized when
// this holds (spec §3 invariant).
func (f *MDFile) HasLinkReferenceDefinitions() bool {
	return len(f.LinkReferenceDefinitions) > 0
}

// HeadingsNamed returns every heading in the file with the given text
// (duplicates are permitted and share a refname, spec §4.3).
func (f *MDFile) HeadingsNamed(text string) []Heading {
	var out []Heading
	for _, h := range f.Headings {
		if h.Text == text {
			out = append(out, h)
		}
	}
	return out
}

// IndexedBlockByIndex returns the indexed block with the given index
// (without leading '^'), if any.
func (f *MDFile) IndexedBlockByIndex(index string) (IndexedBlock, bool) {
	for _, b := range f.IndexedBlocks {
		if b.Index == index {
			return b, true
		}
	}
	return IndexedBlock{}, false
}

// LinkReferenceDefinitionNamed returns the link-reference-definition
// matching name case-insensitively (spec's Open Question: standardized on
// case-insensitive equality).
func (f *MDFile) LinkReferenceDefinitionNamed(name string) (LinkReferenceDefinition, bool) {
	for _, d := range f.LinkReferenceDefinitions {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return LinkReferenceDefinition{}, false
}

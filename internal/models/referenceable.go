package models

// ReferenceableKind enumerates everything a Reference may target,
// including the "unresolved" forms synthesized for dangling references
// (spec §3, §4.3, §9).
type ReferenceableKind int

const (
	RefableFile ReferenceableKind = iota
	RefableHeading
	RefableIndexedBlock
	RefableTag
	RefableFootnote
	RefableLinkRefDef
	RefableUnresolvedFile
	RefableUnresolvedHeading
	RefableUnresolvedIndexedBlock
)

func (k ReferenceableKind) String() string {
	switch k {
	case RefableFile:
		return "File"
	case RefableHeading:
		return "Heading"
	case RefableIndexedBlock:
		return "IndexedBlock"
	case RefableTag:
		return "Tag"
	case RefableFootnote:
		return "Footnote"
	case RefableLinkRefDef:
		return "LinkReferenceDefinition"
	case RefableUnresolvedFile:
		return "UnresolvedFile"
	case RefableUnresolvedHeading:
		return "UnresolvedHeading"
	case RefableUnresolvedIndexedBlock:
		return "UnresolvedIndexedBlock"
	default:
		return "Unknown"
	}
}

// Unresolved reports whether this is a synthesized dangling-link target.
func (k ReferenceableKind) Unresolved() bool {
	switch k {
	case RefableUnresolvedFile, RefableUnresolvedHeading, RefableUnresolvedIndexedBlock:
		return true
	default:
		return false
	}
}

// Referenceable is a tagged variant for everything a Reference may
// target. Resolved members hold Path + the owning entity (by value, since
// all entity types here are small and immutable snapshots from the
// vault). Unresolved members hold a synthesized path and carry FileRef
// (and optionally InfileRef) instead of a concrete entity.
type Referenceable struct {
	Kind ReferenceableKind `json:"kind"`

	// Path is the file path this referenceable lives in (or, for
	// RefableUnresolved*, the synthesized path a future file would have).
	Path string `json:"path"`

	Heading      *Heading                 `json:"heading,omitempty"`
	IndexedBlock *IndexedBlock            `json:"indexed_block,omitempty"`
	Tag          *Tag                     `json:"tag,omitempty"`
	Footnote     *Footnote                `json:"footnote,omitempty"`
	LinkRefDef   *LinkReferenceDefinition `json:"link_reference_definition,omitempty"`

	// FileRef/InfileRef are populated for unresolved referenceables: the
	// raw reference text that produced this dangling target.
	FileRef   string `json:"file_ref,omitempty"`
	InfileRef string `json:"infile_ref,omitempty"`
}

// Range returns the range of the underlying entity, or a zero range for
// RefableFile / unresolved kinds (which have no single owning range).
func (r Referenceable) Range() Range {
	switch r.Kind {
	case RefableHeading, RefableUnresolvedHeading:
		if r.Heading != nil {
			return r.Heading.Range
		}
	case RefableIndexedBlock, RefableUnresolvedIndexedBlock:
		if r.IndexedBlock != nil {
			return r.IndexedBlock.Range
		}
	case RefableTag:
		if r.Tag != nil {
			return r.Tag.Range
		}
	case RefableFootnote:
		if r.Footnote != nil {
			return r.Footnote.Range
		}
	case RefableLinkRefDef:
		if r.LinkRefDef != nil {
			return r.LinkRefDef.Range
		}
	}
	return Range{}
}

// Refname is the canonical link-syntax string of a referenceable.
// For a file "area/topic.md" under the vault root: Path="area/topic",
// Full="area/topic". For a heading "H" in that file: Path="area/topic",
// InfileRef="H", Full="area/topic#H". For a tag: Full="#area/sub".
type Refname struct {
	Full      string
	Path      string // empty for tags
	InfileRef string // heading text, or "^index", or footnote/link-ref name
}

// FileRefname builds the refname of a whole-file referenceable.
func FileRefname(path string) Refname {
	return Refname{Full: path, Path: path}
}

// HeadingRefname builds the refname of a heading referenceable.
func HeadingRefname(path, heading string) Refname {
	return Refname{Full: path + "#" + heading, Path: path, InfileRef: heading}
}

// IndexedBlockRefname builds the refname of an indexed-block referenceable.
// index does not include the leading '^'.
func IndexedBlockRefname(path, index string) Refname {
	infile := "^" + index
	return Refname{Full: path + "#" + infile, Path: path, InfileRef: infile}
}

// TagRefname builds the refname of a tag referenceable. name does not
// include the leading '#'.
func TagRefname(name string) Refname {
	return Refname{Full: "#" + name}
}

package models

// Heading is a Markdown ATX heading; setext headings are not
// recognized by the scanner. Headings are identified
// within a file by Text; duplicate text is permitted and all duplicates
// share the same refname (spec §4.3).
type Heading struct {
	Text  string `json:"text"`
	Level int    `json:"level"` // 1..6
	Range Range  `json:"range"`
}

// IndexedBlock is a line annotated with a trailing "^index" marker,
// making it directly linkable via "file#^index".
type IndexedBlock struct {
	Index string `json:"index"`
	Range Range  `json:"range"`
}

// Tag is a "#hierarchical/path" occurrence. Name never includes the
// leading '#'; refnames of tags do.
type Tag struct {
	Name  string `json:"name"`
	Range Range  `json:"range"`
}

// Footnote is a "[^name]: text" definition. Index includes the leading
// '^' (e.g. "^1").
type Footnote struct {
	Index string `json:"index"`
	Text  string `json:"text"`
	Range Range  `json:"range"`
}

// LinkReferenceDefinition is a "[name]: url \"title\"" definition.
type LinkReferenceDefinition struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
	Range Range  `json:"range"`
}

// Block is one non-empty trimmed line of vault text, the completion pool
// for unindexed-block linking (spec §4.3 select_blocks).
type Block struct {
	Text  string `json:"text"`
	Range Range  `json:"range"`
	Path  string `json:"path"`
}

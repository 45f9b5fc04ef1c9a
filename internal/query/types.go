// Package query implements component C7: the read-mostly operations an
// editor protocol layer drives directly off the vault index (C3) —
// go-to-definition, find-references, hover, document/workspace symbols,
// rename, and unresolved-reference diagnostics. Every operation here is
// a thin join over internal/vault's query surface, translated into
// protocol-shaped result types, grounded on the teacher's internal/api
// handler layer's "gather from the index, translate to a response DTO"
// shape (generalized away from HTTP/gin framing, since the transport in
// SPEC_FULL.md is a stdio protocol loop, not a REST API).
package query

import "github.com/ali01/vault-lsp/internal/models"

// Location is one (file, range) result of a locating query.
type Location struct {
	Path  string       `json:"path"`
	Range models.Range `json:"range"`
}

// SymbolKind mirrors the small closed set spec §4.7 names for workspace
// symbols (file/tag/other) plus the heading kind document symbols use.
type SymbolKind int

const (
	SymbolFile SymbolKind = iota
	SymbolHeading
	SymbolTag
	SymbolOther
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFile:
		return "file"
	case SymbolHeading:
		return "heading"
	case SymbolTag:
		return "tag"
	default:
		return "other"
	}
}

// DocumentSymbol is one node of the per-file heading tree spec §4.7
// names, nested by Markdown heading level.
type DocumentSymbol struct {
	Name           string           `json:"name"`
	Kind           SymbolKind       `json:"kind"`
	Range          models.Range     `json:"range"`
	SelectionRange models.Range     `json:"selectionRange"`
	Children       []DocumentSymbol `json:"children,omitempty"`
}

// SymbolInfo is one entry of the flat workspace-symbol list.
type SymbolInfo struct {
	Name     string     `json:"name"`
	Kind     SymbolKind `json:"kind"`
	Location Location   `json:"location"`
}

// Severity is a diagnostic's severity level.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// Diagnostic is one "unresolved reference" finding (spec §4.7).
type Diagnostic struct {
	Range    models.Range `json:"range"`
	Severity Severity     `json:"severity"`
	Message  string       `json:"message"`
}

// TextEdit replaces the text within Range with NewText, in one file.
type TextEdit struct {
	Path    string       `json:"path"`
	Range   models.Range `json:"range"`
	NewText string       `json:"newText"`
}

// RenameOp renames OldPath to NewPath within the vault.
type RenameOp struct {
	OldPath string `json:"oldPath"`
	NewPath string `json:"newPath"`
}

// WorkspaceEdit groups text edits (possibly spanning many files) with
// file-level rename/create operations (spec §4.7 rename).
type WorkspaceEdit struct {
	TextEdits []TextEdit `json:"textEdits,omitempty"`
	Renames   []RenameOp `json:"renames,omitempty"`
	Creates   []string   `json:"creates,omitempty"`
}

// CodeAction is one client-offered follow-up action anchored to a range.
type CodeAction struct {
	Title string        `json:"title"`
	Edit  WorkspaceEdit `json:"edit"`
}

// Config carries the §6 options table entries that affect query
// behavior.
type Config struct {
	UnresolvedDiagnostics      bool
	IncludeMDExtensionMDLink   bool
	IncludeMDExtensionWikiLink bool
	NewFileFolderPath          string
}

// DefaultConfig mirrors the source's documented defaults.
func DefaultConfig() Config {
	return Config{
		UnresolvedDiagnostics:      true,
		IncludeMDExtensionMDLink:   false,
		IncludeMDExtensionWikiLink: false,
		NewFileFolderPath:          "",
	}
}

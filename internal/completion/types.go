// Package completion implements component C6: dispatching on the
// parsed link context under the cursor, enumerating candidates from
// the vault index, ranking them with the fuzzy matcher, and
// materializing text edits and workspace edits.
//
// Grounded on the teacher's internal/service layer for the overall
// "gather candidates, rank, build response" shape (service.NodeService
// style query methods) and internal/vault/node_classifier.go for the
// idea of a small closed Kind enum with a String method, generalized
// here to spec §4.6's five completion-item kinds.
package completion

import "github.com/ali01/vault-lsp/internal/models"

// Kind is the completion-item kind spec §4.6 names.
type Kind int

const (
	KindFile Kind = iota
	KindReference
	KindKeyword
	KindEvent
	KindConstant
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindReference:
		return "reference"
	case KindKeyword:
		return "keyword"
	case KindEvent:
		return "event"
	case KindConstant:
		return "constant"
	default:
		return "unknown"
	}
}

// TextEdit replaces the text within Range with NewText, in one file.
type TextEdit struct {
	Path    string
	Range   models.Range
	NewText string
}

// WorkspaceEdit groups edits (possibly across files) plus file-level
// rename/create operations, materialized by a completion item's
// Command. Query operations (rename, codeaction) return query's own
// WorkspaceEdit type.
type WorkspaceEdit struct {
	TextEdits []TextEdit
	Renames   []RenameOp
	Creates   []string
}

// RenameOp renames OldPath to NewPath within the vault.
type RenameOp struct {
	OldPath string
	NewPath string
}

// Command is a client-executable follow-up action, e.g. applying a
// multi-file workspace edit when a new block id is materialized. ID
// lets a client correlate an applied command with the completion item
// that produced it when multiple such commands are in flight.
type Command struct {
	ID   string
	Name string
	Args WorkspaceEdit
}

// Item is one completion candidate, carrying everything spec §4.6
// requires an editor to render and apply.
type Item struct {
	Label               string
	Kind                Kind
	LabelDetail         string
	Documentation       string
	TextEdit            TextEdit
	AdditionalTextEdits []TextEdit
	Command             *Command
	SortText            string
	Preselect           bool
}

// Result is a bounded, possibly-truncated completion list.
type Result struct {
	Items      []Item
	Incomplete bool
}

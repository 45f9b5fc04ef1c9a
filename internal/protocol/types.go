// Package protocol defines the wire types of the editor-protocol surface
// named in spec.md §6's request table. It exists so the core packages
// (internal/completion, internal/query) can be exercised end to end
// without depending on any particular transport: internal/rpc decodes
// JSON-RPC envelopes into these types and internal/query/internal/completion
// never import internal/rpc at all.
//
// Field shapes follow the conventional editor-protocol JSON wire format:
// camelCase keys, zero-based line/character positions, URIs for document
// identity. Grounded on spec.md §6's request/response table; there is no
// teacher analogue (the teacher speaks plain JSON over gin, not the
// editor protocol), so these types are new, sized exactly to the table.
package protocol

import "github.com/ali01/vault-lsp/internal/models"

// DocumentURI identifies an open text document, e.g. "file:///vault/a.md".
type DocumentURI string

// Position is the wire equivalent of models.Position.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is the wire equivalent of models.Range.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// FromModelPosition converts a core models.Position to its wire form.
func FromModelPosition(p models.Position) Position {
	return Position{Line: p.Line, Character: p.Character}
}

// ToModelPosition converts a wire Position to the core models.Position
// the vault and query/completion engines operate on.
func ToModelPosition(p Position) models.Position {
	return models.Position{Line: p.Line, Character: p.Character}
}

// FromModelRange converts a core models.Range to its wire form.
func FromModelRange(r models.Range) Range {
	return Range{Start: FromModelPosition(r.Start), End: FromModelPosition(r.End)}
}

// Location is a range within a document, used by gotoDefinition and
// references responses.
type Location struct {
	URI   DocumentURI `json:"uri"`
	Range Range       `json:"range"`
}

// TextDocumentIdentifier names the document a request targets.
type TextDocumentIdentifier struct {
	URI DocumentURI `json:"uri"`
}

// TextDocumentItem is the full content of a document as sent by didOpen.
type TextDocumentItem struct {
	URI     DocumentURI `json:"uri"`
	Text    string      `json:"text"`
	Version int         `json:"version"`
}

// TextDocumentPositionParams is the common shape of gotoDefinition,
// references, hover, and completion requests: a document plus a cursor.
type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// InitializeParams is the initialize request's input.
type InitializeParams struct {
	RootURI      DocumentURI    `json:"rootUri"`
	Capabilities map[string]any `json:"capabilities,omitempty"`
}

// CompletionTriggerCharacters are the characters that open a completion
// session without an explicit client-side invocation: wiki-link/markdown
// brackets, tag '#', and block-index '^' per spec.md §4.6.
var CompletionTriggerCharacters = []string{"[", " ", "(", "#", "^"}

// ServerCapabilities is the initialize response's output.
type ServerCapabilities struct {
	CompletionTriggerCharacters []string `json:"completionTriggerCharacters"`
	DefinitionProvider          bool     `json:"definitionProvider"`
	ReferencesProvider          bool     `json:"referencesProvider"`
	HoverProvider               bool     `json:"hoverProvider"`
	DocumentSymbolProvider      bool     `json:"documentSymbolProvider"`
	WorkspaceSymbolProvider     bool     `json:"workspaceSymbolProvider"`
	RenameProvider              bool     `json:"renameProvider"`
	CodeActionProvider          bool     `json:"codeActionProvider"`
	ExecuteCommandCommands      []string `json:"executeCommandCommands"`
	SemanticTokensProvider      bool     `json:"semanticTokensProvider"`
}

// InitializeResult is the initialize response.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
}

// DidOpenTextDocumentParams is the didOpen notification's input.
type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

// TextDocumentContentChangeEvent is one edit within a didChange
// notification. A zero-valued Range (both ends at 0:0) with non-empty
// Text that equals the whole new document means "replace the whole
// document" — the client's choice, not inferred here.
type TextDocumentContentChangeEvent struct {
	Range *Range `json:"range,omitempty"`
	Text  string `json:"text"`
}

// DidChangeTextDocumentParams is the didChange notification's input.
type DidChangeTextDocumentParams struct {
	TextDocument   TextDocumentIdentifier           `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

// DidCloseTextDocumentParams is the didClose notification's input.
type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// FileEvent is one entry of a didChangeWatchedFiles notification.
type FileEvent struct {
	URI  DocumentURI `json:"uri"`
	Type int         `json:"type"` // 1=created, 2=changed, 3=deleted
}

// DidChangeWatchedFilesParams is the didChangeWatchedFiles
// notification's input.
type DidChangeWatchedFilesParams struct {
	Changes []FileEvent `json:"changes"`
}

// CompletionParams is the completion request's input.
type CompletionParams = TextDocumentPositionParams

// CompletionItemKind mirrors internal/completion.Kind for the wire.
type CompletionItemKind int

// CompletionItem is one entry of a completion response. TextEdit
// carries both the replacement range and the new text — completion
// edits are not always anchored at the cursor (e.g. rewriting an
// entire wiki-link span), so a bare insertText string isn't enough.
type CompletionItem struct {
	Label           string             `json:"label"`
	Kind            CompletionItemKind `json:"kind"`
	Detail          string             `json:"detail,omitempty"`
	Documentation   string             `json:"documentation,omitempty"`
	TextEdit        TextEdit           `json:"textEdit"`
	FilterText      string             `json:"filterText,omitempty"`
	SortText        string             `json:"sortText,omitempty"`
	Preselect       bool               `json:"preselect,omitempty"`
	Command         *Command           `json:"command,omitempty"`
	AdditionalEdits []TextEdit         `json:"additionalTextEdits,omitempty"`
}

// CompletionList is the completion response; IsIncomplete tells the
// client to re-request as the user keeps typing rather than trust this
// list is exhaustive. The server sets it from the completion result
// (true when more candidates matched than were returned) and to true
// when no completer recognizes the cursor.
type CompletionList struct {
	IsIncomplete bool             `json:"isIncomplete"`
	Items        []CompletionItem `json:"items"`
}

// RenameParams is the rename request's input.
type RenameParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
	NewName      string                 `json:"newName"`
}

// RenameFileParams is the willRenameFiles notification's input — a
// whole-file rename rather than a symbol rename.
type RenameFileParams struct {
	OldURI DocumentURI `json:"oldUri"`
	NewURI DocumentURI `json:"newUri"`
}

// TextEdit replaces Range within a document with NewText.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// FileRename is the file-rename half of a WorkspaceEdit.
type FileRename struct {
	OldURI DocumentURI `json:"oldUri"`
	NewURI DocumentURI `json:"newUri"`
}

// FileCreate is the file-create half of a WorkspaceEdit, used by the
// "create file from unresolved link" code action.
type FileCreate struct {
	URI DocumentURI `json:"uri"`
}

// WorkspaceEdit is the output of rename and of commands/code actions
// that touch more than one file.
type WorkspaceEdit struct {
	Changes     map[DocumentURI][]TextEdit `json:"changes,omitempty"`
	FileRenames []FileRename               `json:"fileRenames,omitempty"`
	FileCreates []FileCreate               `json:"fileCreates,omitempty"`
}

// DocumentSymbolParams is the documentSymbol request's input.
type DocumentSymbolParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// DocumentSymbol is one (possibly nested) entry of a documentSymbol
// response.
type DocumentSymbol struct {
	Name           string           `json:"name"`
	Kind           int              `json:"kind"`
	Range          Range            `json:"range"`
	SelectionRange Range            `json:"selectionRange"`
	Children       []DocumentSymbol `json:"children,omitempty"`
}

// WorkspaceSymbolParams is the workspaceSymbol request's input.
type WorkspaceSymbolParams struct {
	Query string `json:"query"`
}

// SymbolInformation is one entry of a workspaceSymbol response.
type SymbolInformation struct {
	Name     string   `json:"name"`
	Kind     int      `json:"kind"`
	Location Location `json:"location"`
}

// CodeActionParams is the codeAction request's input.
type CodeActionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Range        Range                  `json:"range"`
}

// Command is a client-invokable server command, carried either inline
// on a completion item or as a codeAction's payload. ID lets the client
// correlate which command instance it applied, for logging/undo.
type Command struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Command   string `json:"command"`
	Arguments []any  `json:"arguments,omitempty"`
}

// CodeAction is one entry of a codeAction response.
type CodeAction struct {
	Title string         `json:"title"`
	Edit  *WorkspaceEdit `json:"edit,omitempty"`
}

// ExecuteCommandParams is the executeCommand request's input — the
// transport-level envelope for the two commands spec.md §6 defines,
// "apply_edits" and "jump".
type ExecuteCommandParams struct {
	Command   string `json:"command"`
	Arguments []any  `json:"arguments,omitempty"`
}

// Diagnostic is one entry of the diagnostic response. The server returns
// diagnostics only when the client requests them; it does not push them
// after didOpen/didChange.
type Diagnostic struct {
	Range    Range  `json:"range"`
	Severity int    `json:"severity"` // 1=error, 2=warning
	Message  string `json:"message"`
}

// PublishDiagnosticsParams is the publishDiagnostics notification sent
// by the server (not requested by the client).
type PublishDiagnosticsParams struct {
	URI         DocumentURI  `json:"uri"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// SemanticTokensParams is the semanticTokens/full request's input.
type SemanticTokensParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// SemanticTokens is the semanticTokens/full response: the standard
// delta-encoded integer array (line delta, char delta, length, token
// type, modifiers, repeated). Out of scope per spec.md's Non-goals
// beyond declaring the shape — the server never populates Data.
type SemanticTokens struct {
	Data []int `json:"data"`
}

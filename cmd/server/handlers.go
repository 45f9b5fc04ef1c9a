package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ali01/vault-lsp/internal/completion"
	"github.com/ali01/vault-lsp/internal/matcher"
	"github.com/ali01/vault-lsp/internal/models"
	"github.com/ali01/vault-lsp/internal/protocol"
	"github.com/ali01/vault-lsp/internal/query"
	"github.com/ali01/vault-lsp/internal/rpc"
	"github.com/ncruces/go-strftime"
)

// registerHandlers binds every request/notification of spec.md §6's
// table to the rpc.Server, translating between protocol's wire types
// and the core engines' plain Go signatures.
func (s *server) registerHandlers(rpcServer *rpc.Server) {
	rpcServer.Register("initialize", s.handleInitialize)
	rpcServer.Register("textDocument/didOpen", s.handleDidOpen)
	rpcServer.Register("textDocument/didChange", s.handleDidChange)
	rpcServer.Register("textDocument/didClose", s.handleDidClose)
	rpcServer.Register("workspace/didChangeWatchedFiles", s.handleDidChangeWatchedFiles)
	rpcServer.Register("textDocument/completion", s.handleCompletion)
	rpcServer.Register("textDocument/definition", s.handleDefinition)
	rpcServer.Register("textDocument/references", s.handleReferences)
	rpcServer.Register("textDocument/hover", s.handleHover)
	rpcServer.Register("textDocument/documentSymbol", s.handleDocumentSymbol)
	rpcServer.Register("workspace/symbol", s.handleWorkspaceSymbol)
	rpcServer.Register("textDocument/rename", s.handleRename)
	rpcServer.Register("textDocument/codeAction", s.handleCodeAction)
	rpcServer.Register("textDocument/diagnostic", s.handleDiagnostic)
	rpcServer.Register("workspace/executeCommand", s.handleExecuteCommand)
	rpcServer.Register("textDocument/semanticTokens/full", s.handleSemanticTokens)
}

func decode[T any](params json.RawMessage) (T, error) {
	var v T
	if len(params) > 0 {
		if err := json.Unmarshal(params, &v); err != nil {
			return v, &rpc.Error{Code: rpc.ErrInvalidRequest, Message: err.Error()}
		}
	}
	return v, nil
}

func (s *server) handleInitialize(params json.RawMessage) (any, error) {
	if _, err := decode[protocol.InitializeParams](params); err != nil {
		return nil, err
	}
	return protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			CompletionTriggerCharacters: protocol.CompletionTriggerCharacters,
			DefinitionProvider:          true,
			ReferencesProvider:          true,
			HoverProvider:               s.cfg.Options.Hover,
			DocumentSymbolProvider:      true,
			WorkspaceSymbolProvider:     true,
			RenameProvider:              true,
			CodeActionProvider:          true,
			ExecuteCommandCommands:      []string{"apply_edits", "jump"},
			SemanticTokensProvider:      s.cfg.Options.SemanticTokens,
		},
	}, nil
}

func (s *server) handleDidOpen(params json.RawMessage) (any, error) {
	p, err := decode[protocol.DidOpenTextDocumentParams](params)
	if err != nil {
		return nil, err
	}
	path := uriToPath(s.rootDir, p.TextDocument.URI)
	if err := s.v.UpdateFile(path, p.TextDocument.Text, nil); err != nil {
		log.Printf("didOpen: %v", err)
	}
	s.publishDiagnostics(path)
	return nil, nil
}

func (s *server) handleDidChange(params json.RawMessage) (any, error) {
	p, err := decode[protocol.DidChangeTextDocumentParams](params)
	if err != nil {
		return nil, err
	}
	path := uriToPath(s.rootDir, p.TextDocument.URI)
	for _, change := range p.ContentChanges {
		var rng *models.Range
		if change.Range != nil {
			r := models.Range{
				Start: protocol.ToModelPosition(change.Range.Start),
				End:   protocol.ToModelPosition(change.Range.End),
			}
			rng = &r
		}
		if err := s.v.UpdateFile(path, change.Text, rng); err != nil {
			log.Printf("didChange: %v", err)
		}
	}
	s.publishDiagnostics(path)
	return nil, nil
}

func (s *server) handleDidClose(params json.RawMessage) (any, error) {
	p, err := decode[protocol.DidCloseTextDocumentParams](params)
	if err != nil {
		return nil, err
	}
	_ = p // the vault keeps closed files indexed until a refresh removes them
	return nil, nil
}

func (s *server) handleDidChangeWatchedFiles(params json.RawMessage) (any, error) {
	if _, err := decode[protocol.DidChangeWatchedFilesParams](params); err != nil {
		return nil, err
	}
	if errs := s.v.Refresh(); len(errs) > 0 {
		log.Printf("didChangeWatchedFiles: refresh reported %d errors", len(errs))
	}
	return nil, nil
}

func (s *server) handleCompletion(params json.RawMessage) (any, error) {
	p, err := decode[protocol.TextDocumentPositionParams](params)
	if err != nil {
		return nil, err
	}
	path := uriToPath(s.rootDir, p.TextDocument.URI)
	result, ok := s.completion.Complete(path, p.Position.Line, p.Position.Character)
	if !ok {
		return protocol.CompletionList{IsIncomplete: true}, nil
	}
	return protocol.CompletionList{
		IsIncomplete: result.Incomplete,
		Items:        s.toCompletionItems(result.Items),
	}, nil
}

func (s *server) toCompletionItems(items []completion.Item) []protocol.CompletionItem {
	out := make([]protocol.CompletionItem, len(items))
	for i, it := range items {
		out[i] = protocol.CompletionItem{
			Label:           it.Label,
			Kind:            protocol.CompletionItemKind(it.Kind),
			Detail:          it.LabelDetail,
			Documentation:   it.Documentation,
			TextEdit:        toProtocolTextEdit(it.TextEdit),
			SortText:        it.SortText,
			Preselect:       it.Preselect,
			AdditionalEdits: toProtocolTextEdits(it.AdditionalTextEdits),
			Command:         s.toProtocolCommand(it.Command),
		}
	}
	return out
}

func toProtocolTextEdit(e completion.TextEdit) protocol.TextEdit {
	return protocol.TextEdit{Range: protocol.FromModelRange(e.Range), NewText: e.NewText}
}

func toProtocolTextEdits(edits []completion.TextEdit) []protocol.TextEdit {
	if len(edits) == 0 {
		return nil
	}
	out := make([]protocol.TextEdit, len(edits))
	for i, e := range edits {
		out[i] = toProtocolTextEdit(e)
	}
	return out
}

func (s *server) toProtocolCommand(c *completion.Command) *protocol.Command {
	if c == nil {
		return nil
	}
	edit := s.toProtocolWorkspaceEditFromCompletion(c.Args)
	raw, err := json.Marshal(edit)
	if err != nil {
		log.Printf("command %s: failed to marshal args: %v", c.Name, err)
		raw = []byte("{}")
	}
	return &protocol.Command{
		ID:        c.ID,
		Title:     c.Name,
		Command:   c.Name,
		Arguments: []any{json.RawMessage(raw)},
	}
}

func (s *server) toProtocolWorkspaceEditFromCompletion(edit completion.WorkspaceEdit) protocol.WorkspaceEdit {
	changes := make(map[protocol.DocumentURI][]protocol.TextEdit)
	for _, e := range edit.TextEdits {
		uri := pathToURI(s.rootDir, e.Path)
		changes[uri] = append(changes[uri], protocol.TextEdit{Range: protocol.FromModelRange(e.Range), NewText: e.NewText})
	}

	renames := make([]protocol.FileRename, len(edit.Renames))
	for i, r := range edit.Renames {
		renames[i] = protocol.FileRename{OldURI: pathToURI(s.rootDir, r.OldPath), NewURI: pathToURI(s.rootDir, r.NewPath)}
	}

	creates := make([]protocol.FileCreate, len(edit.Creates))
	for i, c := range edit.Creates {
		creates[i] = protocol.FileCreate{URI: pathToURI(s.rootDir, c)}
	}

	return protocol.WorkspaceEdit{Changes: changes, FileRenames: renames, FileCreates: creates}
}

func (s *server) handleDefinition(params json.RawMessage) (any, error) {
	p, err := decode[protocol.TextDocumentPositionParams](params)
	if err != nil {
		return nil, err
	}
	path := uriToPath(s.rootDir, p.TextDocument.URI)
	locs := s.query.Definition(path, protocol.ToModelPosition(p.Position))
	return s.toProtocolLocations(locs), nil
}

func (s *server) handleReferences(params json.RawMessage) (any, error) {
	p, err := decode[struct {
		protocol.TextDocumentPositionParams
		Context struct {
			IncludeDeclaration bool `json:"includeDeclaration"`
		} `json:"context"`
	}](params)
	if err != nil {
		return nil, err
	}
	path := uriToPath(s.rootDir, p.TextDocument.URI)
	locs := s.query.References(path, protocol.ToModelPosition(p.Position), p.Context.IncludeDeclaration)
	return s.toProtocolLocations(locs), nil
}

func (s *server) handleHover(params json.RawMessage) (any, error) {
	p, err := decode[protocol.TextDocumentPositionParams](params)
	if err != nil {
		return nil, err
	}
	if !s.cfg.Options.Hover {
		return nil, nil
	}
	path := uriToPath(s.rootDir, p.TextDocument.URI)
	content, ok := s.query.Hover(path, protocol.ToModelPosition(p.Position))
	if !ok {
		return nil, nil
	}
	return map[string]string{"contents": content}, nil
}

func (s *server) handleDocumentSymbol(params json.RawMessage) (any, error) {
	p, err := decode[protocol.DocumentSymbolParams](params)
	if err != nil {
		return nil, err
	}
	path := uriToPath(s.rootDir, p.TextDocument.URI)
	return toProtocolDocumentSymbols(s.query.DocumentSymbols(path)), nil
}

func toProtocolDocumentSymbols(symbols []query.DocumentSymbol) []protocol.DocumentSymbol {
	out := make([]protocol.DocumentSymbol, len(symbols))
	for i, sym := range symbols {
		out[i] = protocol.DocumentSymbol{
			Name:           sym.Name,
			Kind:           int(sym.Kind),
			Range:          protocol.FromModelRange(sym.Range),
			SelectionRange: protocol.FromModelRange(sym.SelectionRange),
			Children:       toProtocolDocumentSymbols(sym.Children),
		}
	}
	return out
}

func (s *server) handleWorkspaceSymbol(params json.RawMessage) (any, error) {
	p, err := decode[protocol.WorkspaceSymbolParams](params)
	if err != nil {
		return nil, err
	}
	caseMode := parseCaseMatching(s.cfg.Options.CaseMatching)
	normMode := parseNormalization(s.cfg.Options.Normalization)
	symbols := s.query.WorkspaceSymbols(p.Query, caseMode, normMode)

	out := make([]protocol.SymbolInformation, len(symbols))
	for i, sym := range symbols {
		out[i] = protocol.SymbolInformation{
			Name: sym.Name,
			Kind: int(sym.Kind),
			Location: protocol.Location{
				URI:   pathToURI(s.rootDir, sym.Location.Path),
				Range: protocol.FromModelRange(sym.Location.Range),
			},
		}
	}
	return out, nil
}

func (s *server) handleRename(params json.RawMessage) (any, error) {
	p, err := decode[protocol.RenameParams](params)
	if err != nil {
		return nil, err
	}
	path := uriToPath(s.rootDir, p.TextDocument.URI)
	ref, ok := s.v.ReferenceableAt(path, protocol.ToModelPosition(p.Position))
	if !ok {
		return nil, &rpc.Error{Code: rpc.ErrInvalidRequest, Message: "nothing renameable at position"}
	}

	var edit query.WorkspaceEdit
	if ref.Kind == models.RefableFile {
		newPath := filepath.ToSlash(filepath.Join(filepath.Dir(path), p.NewName))
		edit = s.query.RenameFile(path, newPath)
	} else {
		edit = s.query.RenameReferenceable(ref, p.NewName)
	}
	return s.toProtocolWorkspaceEdit(edit), nil
}

func (s *server) handleCodeAction(params json.RawMessage) (any, error) {
	p, err := decode[protocol.CodeActionParams](params)
	if err != nil {
		return nil, err
	}
	path := uriToPath(s.rootDir, p.TextDocument.URI)
	actions := s.query.CodeActions(path, protocol.ToModelPosition(p.Range.Start))

	out := make([]protocol.CodeAction, len(actions))
	for i, a := range actions {
		out[i] = protocol.CodeAction{Title: a.Title}
		if a.Edit != nil {
			edit := s.toProtocolWorkspaceEdit(*a.Edit)
			out[i].Edit = &edit
		}
	}
	return out, nil
}

func (s *server) handleDiagnostic(params json.RawMessage) (any, error) {
	p, err := decode[protocol.DocumentSymbolParams](params)
	if err != nil {
		return nil, err
	}
	path := uriToPath(s.rootDir, p.TextDocument.URI)
	return toProtocolPublishDiagnostics(pathToURI(s.rootDir, path), s.query.Diagnostics(path)), nil
}

func toProtocolPublishDiagnostics(uri protocol.DocumentURI, diags []query.Diagnostic) protocol.PublishDiagnosticsParams {
	out := make([]protocol.Diagnostic, len(diags))
	for i, d := range diags {
		severity := 2 // warning
		if d.Severity == query.SeverityError {
			severity = 1
		}
		out[i] = protocol.Diagnostic{
			Range:    protocol.FromModelRange(d.Range),
			Severity: severity,
			Message:  d.Message,
		}
	}
	return protocol.PublishDiagnosticsParams{URI: uri, Diagnostics: out}
}

// publishDiagnostics computes the diagnostics for path and logs how many
// there are; it sends no notification to the client.
func (s *server) publishDiagnostics(path string) {
	if !s.cfg.Options.UnresolvedDiagnostics {
		return
	}
	diags := toProtocolPublishDiagnostics(pathToURI(s.rootDir, path), s.query.Diagnostics(path))
	log.Printf("diagnostics: %s has %d unresolved reference(s)", path, len(diags.Diagnostics))
}

func (s *server) handleExecuteCommand(params json.RawMessage) (any, error) {
	p, err := decode[protocol.ExecuteCommandParams](params)
	if err != nil {
		return nil, err
	}
	switch p.Command {
	case "apply_edits":
		return nil, s.executeApplyEdits(p.Arguments)
	case "jump":
		return s.executeJump(p.Arguments)
	default:
		return nil, &rpc.Error{Code: rpc.ErrInvalidRequest, Message: "unknown command: " + p.Command}
	}
}

func (s *server) executeApplyEdits(args []any) error {
	if len(args) == 0 {
		return fmt.Errorf("apply_edits: missing workspace edit argument")
	}
	raw, err := json.Marshal(args[0])
	if err != nil {
		return fmt.Errorf("apply_edits: %w", err)
	}
	var edit protocol.WorkspaceEdit
	if err := json.Unmarshal(raw, &edit); err != nil {
		return fmt.Errorf("apply_edits: %w", err)
	}
	return s.applyWorkspaceEdit(edit)
}

func (s *server) applyWorkspaceEdit(edit protocol.WorkspaceEdit) error {
	for uri, edits := range edit.Changes {
		path := uriToPath(s.rootDir, uri)
		for _, e := range edits {
			rng := models.Range{Start: protocol.ToModelPosition(e.Range.Start), End: protocol.ToModelPosition(e.Range.End)}
			if err := s.v.UpdateFile(path, e.NewText, &rng); err != nil {
				return fmt.Errorf("apply_edits: %s: %w", path, err)
			}
		}
	}
	for _, create := range edit.FileCreates {
		path := filepath.Join(s.rootDir, filepath.FromSlash(uriToPath(s.rootDir, create.URI)))
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("apply_edits: create %s: %w", path, err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return fmt.Errorf("apply_edits: create %s: %w", path, err)
		}
	}
	for _, rename := range edit.FileRenames {
		oldPath := filepath.Join(s.rootDir, filepath.FromSlash(uriToPath(s.rootDir, rename.OldURI)))
		newPath := filepath.Join(s.rootDir, filepath.FromSlash(uriToPath(s.rootDir, rename.NewURI)))
		if err := os.Rename(oldPath, newPath); err != nil {
			return fmt.Errorf("apply_edits: rename %s -> %s: %w", oldPath, newPath, err)
		}
	}
	if errs := s.v.Refresh(); len(errs) > 0 {
		log.Printf("apply_edits: refresh reported %d errors", len(errs))
	}
	return nil
}

// executeJump resolves the "jump" command's single string argument
// against the daily-note rules (spec §4.6), falling back to treating it
// as a vault-relative path.
func (s *server) executeJump(args []any) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("jump: missing target argument")
	}
	input, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("jump: target argument must be a string")
	}

	if offset, ok := parseRelativeDayInput(input); ok {
		day := time.Now().AddDate(0, 0, offset)
		name := strftime.Format(s.cfg.Options.DailyNoteFormat, day)
		path := filepath.ToSlash(filepath.Join(s.cfg.Options.DailyNoteFolder, name+".md"))
		return protocol.Location{URI: pathToURI(s.rootDir, path)}, nil
	}

	path := input
	if filepath.Ext(path) == "" {
		path += ".md"
	}
	return protocol.Location{URI: pathToURI(s.rootDir, path)}, nil
}

func parseRelativeDayInput(input string) (int, bool) {
	switch input {
	case "today":
		return 0, true
	case "tomorrow":
		return 1, true
	case "yesterday":
		return -1, true
	}
	return 0, false
}

func (s *server) handleSemanticTokens(params json.RawMessage) (any, error) {
	if _, err := decode[protocol.SemanticTokensParams](params); err != nil {
		return nil, err
	}
	return protocol.SemanticTokens{Data: nil}, nil
}

func (s *server) toProtocolLocations(locs []query.Location) []protocol.Location {
	out := make([]protocol.Location, len(locs))
	for i, l := range locs {
		out[i] = protocol.Location{URI: pathToURI(s.rootDir, l.Path), Range: protocol.FromModelRange(l.Range)}
	}
	return out
}

func (s *server) toProtocolWorkspaceEdit(edit query.WorkspaceEdit) protocol.WorkspaceEdit {
	changes := make(map[protocol.DocumentURI][]protocol.TextEdit)
	for _, e := range edit.TextEdits {
		uri := pathToURI(s.rootDir, e.Path)
		changes[uri] = append(changes[uri], protocol.TextEdit{Range: protocol.FromModelRange(e.Range), NewText: e.NewText})
	}

	renames := make([]protocol.FileRename, len(edit.Renames))
	for i, r := range edit.Renames {
		renames[i] = protocol.FileRename{OldURI: pathToURI(s.rootDir, r.OldPath), NewURI: pathToURI(s.rootDir, r.NewPath)}
	}

	creates := make([]protocol.FileCreate, len(edit.Creates))
	for i, c := range edit.Creates {
		creates[i] = protocol.FileCreate{URI: pathToURI(s.rootDir, c)}
	}

	return protocol.WorkspaceEdit{Changes: changes, FileRenames: renames, FileCreates: creates}
}

package query

import (
	"strings"

	"github.com/ali01/vault-lsp/internal/models"
)

// CodeActions implements the "create file from unresolved link" action
// supplemented from the original source's quickfix set: for a reference
// at pos whose referenceables_of is empty and which targets a whole
// file (not a dangling heading/block within an existing file), offer to
// materialize that file.
func (e *Engine) CodeActions(path string, pos models.Position) []CodeAction {
	ref, ok := e.v.ReferenceAt(path, pos)
	if !ok {
		return nil
	}
	if len(e.v.ReferenceablesOf(ref, path)) > 0 {
		return nil
	}
	if !ref.IsFileLink() {
		return nil // heading/block dangles inside an existing (or also-missing) file; no single file to create
	}

	target := ref.File
	if !strings.HasSuffix(strings.ToLower(target), ".md") {
		target += ".md"
	}
	if e.cfg.NewFileFolderPath != "" && !strings.Contains(target, "/") {
		target = e.cfg.NewFileFolderPath + "/" + target
	}

	return []CodeAction{{
		Title: "Create " + target,
		Edit:  WorkspaceEdit{Creates: []string{target}},
	}}
}

package query

import "github.com/ali01/vault-lsp/internal/models"

// Hover implements spec §4.7's hover: referenceable_at → preview.
func (e *Engine) Hover(path string, pos models.Position) (string, bool) {
	target, ok := e.v.ReferenceableAt(path, pos)
	if !ok {
		return "", false
	}
	return e.v.Preview(target)
}

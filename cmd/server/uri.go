package main

import (
	"path/filepath"
	"strings"

	"github.com/ali01/vault-lsp/internal/protocol"
)

const fileURIScheme = "file://"

// uriToPath converts a document URI into the vault-root-relative,
// slash-separated path internal/vault indexes files under.
func uriToPath(root string, uri protocol.DocumentURI) string {
	p := strings.TrimPrefix(string(uri), fileURIScheme)
	if filepath.IsAbs(p) {
		if rel, err := filepath.Rel(root, p); err == nil {
			p = rel
		}
	}
	return filepath.ToSlash(p)
}

// pathToURI converts a vault-relative path back into a document URI.
func pathToURI(root, path string) protocol.DocumentURI {
	abs := filepath.Join(root, filepath.FromSlash(path))
	return protocol.DocumentURI(fileURIScheme + filepath.ToSlash(abs))
}

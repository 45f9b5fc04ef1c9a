package vault

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ali01/vault-lsp/internal/models"
	"github.com/ali01/vault-lsp/internal/rope"
)

// ProcessFile reads and scans one vault-relative file, adapted from the
// teacher's ProcessMarkdownFile (internal/vault/markdown.go): read
// content, stat mtime, scan structural entities. Unlike the teacher we
// have no frontmatter layer — file identity is the vault-relative path
// itself, not a frontmatter-assigned ID (spec §3: Refname derives from
// path).
func ProcessFile(vaultRoot, relPath string, cfg ScanConfig) (*models.MDFile, *rope.Rope, error) {
	fullPath := filepath.Join(vaultRoot, relPath)

	content, err := os.ReadFile(fullPath) // #nosec G304 -- fullPath is joined from the controlled vault root
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file %s: %w", relPath, err)
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat file %s: %w", relPath, err)
	}

	text := string(content)
	r := rope.New(relPath, text)
	f := Scan(relPath, text, cfg)
	f.ModTime = info.ModTime()

	return f, r, nil
}

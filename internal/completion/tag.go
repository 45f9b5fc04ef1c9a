package completion

import (
	"github.com/ali01/vault-lsp/internal/models"
)

// findTagAt locates the "#tag" token (if any) containing cursorChar on
// lineText, returning its full span and the text entered so far
// (without the leading '#'). Grounded on the same tagTokenRe shape the
// scanner uses for whole-file tag extraction (internal/vault/scanner.go),
// generalized to accept a partially-typed, possibly-empty tag body.
func findTagAt(lineText string, line, cursorChar int) (models.Range, string, bool) {
	runes := []rune(lineText)
	for i, r := range runes {
		if r != '#' {
			continue
		}
		j := i + 1
		for j < len(runes) && isTagBodyRune(runes[j]) {
			j++
		}
		if cursorChar < i || cursorChar > j {
			continue
		}
		return models.NewRange(line, i, j), string(runes[i+1 : cursorChar]), true
	}
	return models.Range{}, "", false
}

func isTagBodyRune(r rune) bool {
	return r == '/' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

package rope

import (
	"sync"

	"github.com/ali01/vault-lsp/internal/models"
)

// Store is the per-path rope map named in spec §4.1: select_line,
// select_line_str, line_char_count, replace_range, replace_all. It is
// safe for concurrent use; callers in internal/vault hold the vault's own
// write lock around mutating calls (spec §5 — writers are short and
// serialized at the vault level, so Store's own lock only guards against
// accidental concurrent misuse, not the primary mutual exclusion).
type Store struct {
	mu    sync.RWMutex
	ropes map[string]*Rope
}

// NewStore creates an empty rope store.
func NewStore() *Store {
	return &Store{ropes: make(map[string]*Rope)}
}

// Get returns the rope for path, if loaded.
func (s *Store) Get(path string) (*Rope, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.ropes[path]
	return r, ok
}

// Set replaces (or creates) the rope for path, created on first load or
// first edit of an open file (spec §3 Lifecycle).
func (s *Store) Set(path string, r *Rope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ropes[path] = r
}

// Delete removes path's rope (file closed/removed externally).
func (s *Store) Delete(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ropes, path)
}

// Paths returns every path currently loaded.
func (s *Store) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.ropes))
	for p := range s.ropes {
		out = append(out, p)
	}
	return out
}

// SelectLine returns line n of path as runes, or nil, false.
func (s *Store) SelectLine(path string, n int) ([]rune, bool) {
	r, ok := s.Get(path)
	if !ok {
		return nil, false
	}
	return r.Line(n)
}

// SelectLineStr returns line n of path as a string, or "", false.
func (s *Store) SelectLineStr(path string, n int) (string, bool) {
	r, ok := s.Get(path)
	if !ok {
		return "", false
	}
	return r.LineStr(n)
}

// LineCharCount returns the Unicode scalar count of line n of path.
func (s *Store) LineCharCount(path string, n int) (int, bool) {
	r, ok := s.Get(path)
	if !ok {
		return 0, false
	}
	return r.LineCharCount(n)
}

// ReplaceRange splices newText into path's rope at rng. It returns false
// if path has no rope or rng is invalid.
func (s *Store) ReplaceRange(path string, rng models.Range, newText string) bool {
	r, ok := s.Get(path)
	if !ok {
		return false
	}
	return r.ReplaceRange(rng, newText)
}

// ReplaceAll replaces path's entire text, creating the rope if absent.
func (s *Store) ReplaceAll(path, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.ropes[path]; ok {
		r.ReplaceAll(text)
		return
	}
	s.ropes[path] = New(path, text)
}

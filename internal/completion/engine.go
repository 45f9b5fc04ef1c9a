package completion

import (
	"sort"
	"strconv"

	"github.com/ali01/vault-lsp/internal/linkparser"
	"github.com/ali01/vault-lsp/internal/matcher"
	"github.com/ali01/vault-lsp/internal/models"
	"github.com/ali01/vault-lsp/internal/vault"
	"github.com/sourcegraph/conc/pool"
)

// rankConcurrencyThreshold is the candidate-count floor below which
// rankReferenceables scores sequentially — below it, pool setup costs
// more than the fuzzy match itself.
const rankConcurrencyThreshold = 256

// Config carries the §6 options table entries that affect completion
// behavior.
type Config struct {
	NumCompletions             int
	NumBlockCompletions        int
	HeadingCompletions         bool
	TitleHeadings              bool
	IncludeMDExtensionMDLink   bool
	IncludeMDExtensionWikiLink bool
	DailyNoteFormat            string
	DailyNoteFolder            string
	CaseMatching               matcher.CaseMatching
	Normalization              matcher.Normalization
}

// DefaultConfig mirrors the source's documented defaults.
func DefaultConfig() Config {
	return Config{
		NumCompletions:             50,
		NumBlockCompletions:        20,
		HeadingCompletions:         true,
		TitleHeadings:              false,
		IncludeMDExtensionMDLink:   false,
		IncludeMDExtensionWikiLink: false,
		DailyNoteFormat:            "%Y-%m-%d",
		DailyNoteFolder:            "",
		CaseMatching:               matcher.CaseSmart,
		Normalization:              matcher.NormalizeSmart,
	}
}

// Engine dispatches a (path, line, character) cursor position through
// the four completers of spec §4.6, in priority order: the first
// completer that recognizes its trigger owns the response.
type Engine struct {
	v   *vault.Vault
	cfg Config
}

// New constructs an Engine over v.
func New(v *vault.Vault, cfg Config) *Engine {
	return &Engine{v: v, cfg: cfg}
}

// Complete runs the dispatcher for one cursor position.
func (e *Engine) Complete(path string, line, character int) (Result, bool) {
	f, ok := e.v.File(path)
	if !ok {
		return Result{}, false
	}
	rope, ok := e.v.Ropes().Get(path)
	if !ok {
		return Result{}, false
	}
	lineText, ok := rope.LineStr(line)
	if !ok {
		return Result{}, false
	}

	parsed, ok := linkparser.ParseAt(lineText, line, character)
	if !ok {
		if tagRange, entered, ok := findTagAt(lineText, line, character); ok {
			return e.CompleteTag(path, tagRange, entered), true
		}
		return Result{}, false
	}

	if isUnindexedBlockTrigger(parsed) {
		return e.completeUnindexedBlock(path, f, parsed), true
	}
	switch parsed.Syntax.Kind {
	case linkparser.KindMarkdown:
		return e.completeLink(path, parsed), true
	case linkparser.KindWiki:
		return e.completeLink(path, parsed), true
	}
	return Result{}, false
}

// CompleteTag runs the tag completer for a cursor inside a "#tag" token.
// Unlike the link completers this doesn't go through linkparser (tags
// have no bracket syntax to balance), so callers that have already
// located the tag span under the cursor call this directly.
func (e *Engine) CompleteTag(path string, tagRange models.Range, entered string) Result {
	var candidates []models.Referenceable
	for _, r := range e.v.Referenceables(vault.AllScope()) {
		if r.Kind == models.RefableTag {
			candidates = append(candidates, r)
		}
	}
	ranked := rankReferenceables(candidates, entered, e.cfg)
	items := make([]Item, 0, len(ranked))
	for i, rr := range ranked {
		if i >= e.cfg.NumCompletions {
			break
		}
		label := "#" + rr.ref.Tag.Name
		items = append(items, Item{
			Label:    label,
			Kind:     KindKeyword,
			SortText: sortText(i),
			TextEdit: TextEdit{Path: path, Range: tagRange, NewText: label},
		})
	}
	return Result{Items: items, Incomplete: len(ranked) > len(items)}
}

// isUnindexedBlockTrigger reports the leading-space convention of
// spec §4.6's unindexed-block completer.
func isUnindexedBlockTrigger(r linkparser.Result) bool {
	return len(r.FileRef) > 0 && r.FileRef[0] == ' '
}

func sortText(rank int) string {
	return strconv.Itoa(rank + 1000)
}

// referenceableRanked pairs a referenceable with its match score so the
// ranked slice can be reused by both the markdown/wiki and tag
// completers.
type referenceableRanked struct {
	ref   models.Referenceable
	score uint16
}

// rankReferenceables scores every candidate against entered and
// returns the matches sorted by descending score. Small pools score on
// the calling goroutine; large ones (a vault with many thousands of
// referenceables) are split across a bounded worker pool per SPEC_FULL
// §5, each worker borrowing its own Matcher from the package pool so
// no DP slab is shared across goroutines.
func rankReferenceables(candidates []models.Referenceable, entered string, cfg Config) []referenceableRanked {
	needle := []rune(entered)
	if len(needle) == 0 {
		out := make([]referenceableRanked, len(candidates))
		for i, c := range candidates {
			out[i] = referenceableRanked{ref: c}
		}
		return out
	}

	score := func(c models.Referenceable) (referenceableRanked, bool) {
		m := matcher.Get()
		defer matcher.Put(m)
		s, ok := m.Match(matcher.AtomFuzzy, []rune(refnameText(c)), needle, cfg.CaseMatching, cfg.Normalization, false, nil)
		if !ok {
			return referenceableRanked{}, false
		}
		return referenceableRanked{ref: c, score: s}, true
	}

	var out []referenceableRanked
	if len(candidates) < rankConcurrencyThreshold {
		out = make([]referenceableRanked, 0, len(candidates))
		for _, c := range candidates {
			if rr, ok := score(c); ok {
				out = append(out, rr)
			}
		}
	} else {
		results := make([]*referenceableRanked, len(candidates))
		p := pool.New().WithMaxGoroutines(8)
		for i, c := range candidates {
			i, c := i, c
			p.Go(func() {
				if rr, ok := score(c); ok {
					results[i] = &rr
				}
			})
		}
		p.Wait()
		out = make([]referenceableRanked, 0, len(candidates))
		for _, rr := range results {
			if rr != nil {
				out = append(out, *rr)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	return out
}

func refnameText(r models.Referenceable) string {
	switch r.Kind {
	case models.RefableFile, models.RefableUnresolvedFile:
		return r.Path
	case models.RefableHeading, models.RefableUnresolvedHeading:
		if r.Heading != nil {
			return r.Path + "#" + r.Heading.Text
		}
		return r.Path
	case models.RefableIndexedBlock, models.RefableUnresolvedIndexedBlock:
		if r.IndexedBlock != nil {
			return r.Path + "#^" + r.IndexedBlock.Index
		}
		return r.Path
	case models.RefableTag:
		if r.Tag != nil {
			return r.Tag.Name
		}
	}
	return r.Path
}

// recentlyModifiedFiles returns file-kind referenceables ordered by
// descending modification time, used to seed the wiki completer when
// the user hasn't typed anything yet.
func recentlyModifiedFiles(v *vault.Vault) []models.Referenceable {
	var files []models.Referenceable
	for _, r := range v.Referenceables(vault.AllScope()) {
		if r.Kind == models.RefableFile {
			files = append(files, r)
		}
	}
	sort.SliceStable(files, func(i, j int) bool {
		fi, _ := v.File(files[i].Path)
		fj, _ := v.File(files[j].Path)
		if fi == nil || fj == nil {
			return false
		}
		return fi.ModTime.After(fj.ModTime)
	})
	return files
}

package main

import (
	"time"

	"github.com/ali01/vault-lsp/internal/completion"
	"github.com/ali01/vault-lsp/internal/config"
	"github.com/ali01/vault-lsp/internal/matcher"
	"github.com/ali01/vault-lsp/internal/query"
)

func parseCaseMatching(s string) matcher.CaseMatching {
	switch s {
	case "ignore":
		return matcher.CaseIgnore
	case "respect":
		return matcher.CaseRespect
	default:
		return matcher.CaseSmart
	}
}

func parseNormalization(s string) matcher.Normalization {
	if s == "never" {
		return matcher.NormalizeNever
	}
	return matcher.NormalizeSmart
}

// completionConfig translates the §6 options table into completion's
// own Config shape.
func completionConfig(opts config.Options) completion.Config {
	return completion.Config{
		NumCompletions:             opts.NumCompletions,
		NumBlockCompletions:        opts.NumBlockCompletions,
		HeadingCompletions:         opts.HeadingCompletions,
		TitleHeadings:              opts.TitleHeadings,
		IncludeMDExtensionMDLink:   opts.IncludeMDExtensionMDLink,
		IncludeMDExtensionWikiLink: opts.IncludeMDExtensionWikiLink,
		DailyNoteFormat:            opts.DailyNoteFormat,
		DailyNoteFolder:            opts.DailyNoteFolder,
		CaseMatching:               parseCaseMatching(opts.CaseMatching),
		Normalization:              parseNormalization(opts.Normalization),
	}
}

// queryConfig translates the §6 options table into query's own Config
// shape.
func queryConfig(opts config.Options) query.Config {
	return query.Config{
		UnresolvedDiagnostics:      opts.UnresolvedDiagnostics,
		IncludeMDExtensionMDLink:   opts.IncludeMDExtensionMDLink,
		IncludeMDExtensionWikiLink: opts.IncludeMDExtensionWikiLink,
		NewFileFolderPath:          opts.NewFileFolderPath,
	}
}

// parseDurationOr parses s, returning def on empty input. A parse error
// is returned as is; the caller logs it and picks the fallback.
func parseDurationOr(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}

package linkparser

import "strings"

// closedWikiAt recognizes a complete "[[...]]" under the cursor: the
// cursor must fall strictly after the opener and before (or at) the
// closer, matching the priority order's first, strictest tier.
func closedWikiAt(runes []rune, line, cursorChar int) (Result, bool) {
	for i := 0; i+1 < len(runes); i++ {
		if runes[i] != '[' || runes[i+1] != '[' {
			continue
		}
		end := findCloserAfter(runes, i+2, "]]")
		if end < 0 {
			continue
		}
		if cursorChar <= i+1 || cursorChar > end {
			continue
		}
		if !isBalanced(runes[i+2 : end]) {
			continue
		}
		inner := string(runes[i+2 : end])
		return wikiResult(inner, line, i, end+2, true), true
	}
	return Result{}, false
}

// unclosedWikiAt recognizes an in-progress "[[partial" with the cursor
// strictly after the opener and before any closer.
func unclosedWikiAt(runes []rune, line, cursorChar int) (Result, bool) {
	opener := findOpener(runes, cursorChar, "[[", "]]")
	if opener < 0 {
		return Result{}, false
	}
	if cursorChar <= opener+1 {
		return Result{}, false
	}
	inner := string(runes[opener+2 : cursorChar])
	return wikiResult(inner, line, opener, cursorChar, false), true
}

func wikiResult(inner string, line, start, end int, closed bool) Result {
	display := ""
	hasDisplay := false
	file := inner
	if idx := strings.Index(inner, "|"); idx >= 0 {
		file = inner[:idx]
		display = inner[idx+1:]
		hasDisplay = true
	}
	infile := ""
	hasInfile := false
	if idx := strings.Index(file, "#"); idx >= 0 {
		infile = file[idx+1:]
		file = file[:idx]
		hasInfile = true
	}
	// A leading space on the file part is kept: it is the unindexed-block
	// completion trigger.
	fileRef := strings.TrimSpace(file)
	if strings.HasPrefix(file, " ") {
		fileRef = " " + fileRef
	}
	return Result{
		FileRef:   fileRef,
		InfileRef: infile,
		HasInfile: hasInfile,
		Syntax: SyntaxInfo{
			Display:    strings.TrimSpace(display),
			HasDisplay: hasDisplay,
			Kind:       KindWiki,
		},
		Closed:    closed,
		CharRange: charRange(line, start, end),
		Line:      line,
	}
}

package linkparser

import "strings"

// closedMarkdownAt recognizes a complete "[display](target)" under the
// cursor, with the cursor anywhere within the display or target span.
func closedMarkdownAt(runes []rune, line, cursorChar int) (Result, bool) {
	for i := 0; i < len(runes); i++ {
		if runes[i] != '[' {
			continue
		}
		dispEnd := findCloserAfter(runes, i+1, "]")
		if dispEnd < 0 || dispEnd+1 >= len(runes) || runes[dispEnd+1] != '(' {
			continue
		}
		targetEnd := findCloserAfter(runes, dispEnd+2, ")")
		if targetEnd < 0 {
			continue
		}
		if cursorChar <= i || cursorChar > targetEnd {
			continue
		}
		if !isBalanced(runes[i+1 : dispEnd]) || !isBalanced(runes[dispEnd+2 : targetEnd]) {
			continue
		}
		display := string(runes[i+1 : dispEnd])
		target := string(runes[dispEnd+2 : targetEnd])
		return markdownResult(display, target, line, i, targetEnd+1, true), true
	}
	return Result{}, false
}

// unclosedMarkdownAt recognizes an in-progress "[display](partial" (or
// still inside the display brackets, "[partial") with the cursor past
// the opener and before any closing ")".
func unclosedMarkdownAt(runes []rune, line, cursorChar int) (Result, bool) {
	// Still inside the display brackets: an opener with no "]" before
	// the cursor.
	opener := findOpener(runes, cursorChar, "[", "]")
	parenOpen := -1
	if opener < 0 {
		// Past the display: the nearest "[display](" before the cursor.
		for i := 0; i < cursorChar && cursorChar <= len(runes); i++ {
			end := findCloserAfter(runes, i+1, "]")
			if runes[i] == '[' && end >= 0 && end+1 < cursorChar && runes[end+1] == '(' && isBalanced(runes[i+1:end]) {
				opener, parenOpen = i, end+1
			}
		}
	}
	if opener < 0 {
		return Result{}, false
	}
	if cursorChar <= opener {
		return Result{}, false
	}

	if parenOpen < 0 {
		display := string(runes[opener+1 : cursorChar])
		return markdownResult(display, "", line, opener, cursorChar, false), true
	}

	if closerBetween(runes, parenOpen+1, cursorChar, ")") {
		return Result{}, false
	}
	if !isBalanced(runes[parenOpen+1 : cursorChar]) {
		return Result{}, false
	}
	display := string(runes[opener+1 : parenOpen-1])
	target := string(runes[parenOpen+1 : cursorChar])
	return markdownResult(display, target, line, opener, cursorChar, false), true
}

func markdownResult(display, target string, line, start, end int, closed bool) Result {
	// A leading space on the file part is kept: it is the unindexed-block
	// completion trigger.
	lead := strings.HasPrefix(target, " ")
	target = strings.TrimSpace(strings.TrimPrefix(strings.TrimSuffix(strings.TrimSpace(target), ">"), "<"))
	file := target
	infile := ""
	hasInfile := false
	if idx := strings.Index(file, "#"); idx >= 0 {
		infile = file[idx+1:]
		file = file[:idx]
		hasInfile = true
	}
	if lead {
		file = " " + file
	}
	return Result{
		FileRef:   file,
		InfileRef: infile,
		HasInfile: hasInfile,
		Syntax: SyntaxInfo{
			Display:    display,
			HasDisplay: display != "",
			Kind:       KindMarkdown,
		},
		Closed:    closed,
		CharRange: charRange(line, start, end),
		Line:      line,
	}
}

package completion

import (
	"fmt"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// relativeDayLabel names the offsets spec §4.6 calls out by name;
// everything else falls back to the lower-case weekday name ("next
// monday", "last friday").
func relativeDayLabel(offset int, weekday time.Weekday) string {
	switch offset {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	case -1:
		return "yesterday"
	}
	if offset > 0 {
		return fmt.Sprintf("next %s", strings.ToLower(weekday.String()))
	}
	return fmt.Sprintf("last %s", strings.ToLower(weekday.String()))
}

// DailyNoteEntry is one synthesized daily-note candidate.
type DailyNoteEntry struct {
	Label    string // e.g. "today", "next monday"
	FilePath string // vault-relative path under DailyNoteFolder
	Offset   int    // days from today, negative = past
}

// DailyNotes synthesizes the 14 days around today (-7..+7), formatting
// each as a vault-relative path via the strftime-style format string
// (spec §4.6 daily-note augmentation). now is passed in rather than
// read from time.Now so callers can keep completion deterministic in
// tests.
func DailyNotes(now time.Time, format, folder string) []DailyNoteEntry {
	entries := make([]DailyNoteEntry, 0, 15)
	for offset := -7; offset <= 7; offset++ {
		day := now.AddDate(0, 0, offset)
		name := strftime.Format(format, day)
		path := name
		if folder != "" {
			path = folder + "/" + name
		}
		entries = append(entries, DailyNoteEntry{
			Label:    relativeDayLabel(offset, day.Weekday()),
			FilePath: path,
			Offset:   offset,
		})
	}
	return entries
}

// matchesUserInput reports whether the user's typed text equals this
// entry's relative label, case-insensitively — the condition under
// which spec §4.6 preselects a daily-note entry above regular matches.
func (e DailyNoteEntry) matchesUserInput(input string) bool {
	return strings.EqualFold(e.Label, input)
}

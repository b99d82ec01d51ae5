package collector

import (
	"regexp"
	"strings"
)

const (
	// SummaryMaxRunes bounds the stored summary; the renderer trims further.
	SummaryMaxRunes = 200
)

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// CleanText strips HTML-like tags, collapses whitespace runs to one space and trims the ends.
func CleanText(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// TruncateRunes returns at most n runes of s.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

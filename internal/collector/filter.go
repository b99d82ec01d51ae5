package collector

import (
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/samvad-hq/samvad-news-digest/internal/domain"
	"github.com/samvad-hq/samvad-news-digest/pkg/collection"
	"github.com/samvad-hq/samvad-news-digest/pkg/feeds"
)

const publishedLayout = "2006-01-02 15:04"

// Filter is the per-run entry policy.
type Filter struct {
	Cutoff  time.Time
	Include []string
	Exclude []string
}

// SeenURLs is the run-wide set of accepted article URLs.
type SeenURLs map[string]struct{}

// Normalize turns raw entries from feed into articles, marking accepted URLs in seen.
// Checks run in order and the first failure skips the entry: link/dedup, recency,
// exclude keywords, include keywords.
func Normalize(entries []feeds.Entry, feed collection.Feed, f Filter, seen SeenURLs) []domain.Article {
	var out []domain.Article
	for _, entry := range entries {
		url := entry.Link
		if url == "" {
			continue
		}
		if _, dup := seen[url]; dup {
			continue
		}

		ts, known := entry.Timestamp()
		if known && ts.Before(f.Cutoff) {
			continue
		}

		text := entry.Title + " " + entry.Summary
		if matchesAny(text, f.Exclude) {
			continue
		}
		// An empty include list matches nothing.
		if !matchesAny(text, f.Include) {
			continue
		}

		seen[url] = struct{}{}
		out = append(out, domain.Article{
			Title:     CleanText(entry.Title),
			URL:       url,
			Source:    feed.Name,
			Category:  feed.Category,
			Language:  feed.Language,
			Published: formatPublished(ts, known),
			Summary:   TruncateRunes(CleanText(entry.Summary), SummaryMaxRunes),
		})
	}
	return out
}

// matchesAny reports whether text contains any keyword, case-insensitively.
func matchesAny(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	lower := strings.ToLower(text)
	return lo.ContainsBy(keywords, func(kw string) bool {
		return strings.Contains(lower, strings.ToLower(kw))
	})
}

func formatPublished(ts time.Time, known bool) string {
	if !known {
		return domain.UnknownPublished
	}
	return ts.In(domain.JST).Format(publishedLayout)
}

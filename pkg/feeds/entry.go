package feeds

import (
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Entry is the subset of a parsed feed item the digest consumes.
type Entry struct {
	Link      string
	Title     string
	Summary   string
	Published *time.Time
	Updated   *time.Time
}

// Timestamp returns the publish time, else the update time, in UTC at second precision.
func (e Entry) Timestamp() (time.Time, bool) {
	for _, ts := range []*time.Time{e.Published, e.Updated} {
		if ts == nil || ts.IsZero() {
			continue
		}
		return ts.UTC().Truncate(time.Second), true
	}
	return time.Time{}, false
}

func entriesFromFeed(feed *gofeed.Feed) []Entry {
	if feed == nil {
		return nil
	}
	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, entryFromItem(item))
	}
	return entries
}

func entryFromItem(item *gofeed.Item) Entry {
	link := strings.TrimSpace(item.Link)
	if link == "" {
		for _, l := range item.Links {
			if l = strings.TrimSpace(l); l != "" {
				link = l
				break
			}
		}
	}

	summary := item.Description
	if strings.TrimSpace(summary) == "" {
		summary = item.Content
	}

	return Entry{
		Link:      link,
		Title:     item.Title,
		Summary:   summary,
		Published: item.PublishedParsed,
		Updated:   item.UpdatedParsed,
	}
}

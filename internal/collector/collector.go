package collector

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/samvad-hq/samvad-news-digest/internal/domain"
	"github.com/samvad-hq/samvad-news-digest/internal/logger"
	"github.com/samvad-hq/samvad-news-digest/pkg/collection"
	"github.com/samvad-hq/samvad-news-digest/pkg/feeds"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers caps concurrent in-flight fetches.
const DefaultWorkers = 10

// Params describes one collection pass.
type Params struct {
	Feeds           []collection.Feed
	Keywords        []string
	ExcludeKeywords []string
	FetchHours      int
	TargetDate      time.Time
}

// Cutoff is the earliest publish time retained.
func (p Params) Cutoff() time.Time {
	return p.TargetDate.Add(-time.Duration(p.FetchHours) * time.Hour)
}

// Collector fetches every feed through a bounded pool and filters the results.
type Collector struct {
	fetcher  feeds.Fetcher
	workers  int
	log      logger.Logger
	progress io.Writer
}

// Option customizes a Collector.
type Option func(*Collector)

// WithWorkers overrides the fetch concurrency limit.
func WithWorkers(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithProgress sets the writer receiving human-readable per-feed lines.
func WithProgress(w io.Writer) Option {
	return func(c *Collector) {
		if w != nil {
			c.progress = w
		}
	}
}

// New wires a collector around fetcher.
func New(fetcher feeds.Fetcher, log logger.Logger, opts ...Option) *Collector {
	c := &Collector{
		fetcher:  fetcher,
		workers:  DefaultWorkers,
		log:      logger.Ensure(log),
		progress: io.Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type fetchResult struct {
	entries []feeds.Entry
	err     error
}

// Collect fetches all feeds, then filters and dedups in configured feed order, so a URL
// shared by several feeds is credited to the earliest one. Articles are stably sorted by
// category priority. Fetch failures become FetchErrors and never abort the pass.
func (c *Collector) Collect(ctx context.Context, p Params) ([]domain.Article, []domain.FetchError) {
	fmt.Fprintf(c.progress, "Fetching %d feeds...\n", len(p.Feeds))

	results := c.fetchAll(ctx, p.Feeds)

	filter := Filter{
		Cutoff:  p.Cutoff(),
		Include: p.Keywords,
		Exclude: p.ExcludeKeywords,
	}
	seen := make(SeenURLs)

	var (
		articles []domain.Article
		errs     []domain.FetchError
	)
	for i, feed := range p.Feeds {
		res := results[i]
		if res.err != nil {
			errs = append(errs, domain.FetchError{Name: feed.Name, Error: res.err.Error()})
			fmt.Fprintf(c.progress, "  ✗ %s: %s\n", feed.Name, res.err.Error())
			c.log.WarnObj("feed fetch failed", "feed_error", map[string]any{
				"feed":  feed.Name,
				"url":   feed.URL,
				"error": res.err.Error(),
			})
			continue
		}

		accepted := Normalize(res.entries, feed, filter, seen)
		articles = append(articles, accepted...)
		fmt.Fprintf(c.progress, "  ✓ %s: %d articles\n", feed.Name, len(accepted))
		c.log.DebugObj("feed filtered", "feed_result", map[string]any{
			"feed":     feed.Name,
			"entries":  len(res.entries),
			"accepted": len(accepted),
		})
	}

	SortByCategory(articles)
	return articles, errs
}

// fetchAll runs every fetch on the pool and waits for all of them. Each goroutine writes
// only its own slot.
func (c *Collector) fetchAll(ctx context.Context, list []collection.Feed) []fetchResult {
	results := make([]fetchResult, len(list))

	var g errgroup.Group
	g.SetLimit(c.workers)
	for i, feed := range list {
		g.Go(func() error {
			results[i] = c.fetchOne(ctx, feed)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (c *Collector) fetchOne(ctx context.Context, feed collection.Feed) (res fetchResult) {
	defer func() {
		if r := recover(); r != nil {
			res = fetchResult{err: fmt.Errorf("panic: %v", r)}
		}
	}()
	entries, err := c.fetcher.Fetch(ctx, feed)
	return fetchResult{entries: entries, err: err}
}

// SortByCategory orders articles by category priority, keeping relative order within a category.
func SortByCategory(articles []domain.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return domain.CategoryPriority(articles[i].Category) < domain.CategoryPriority(articles[j].Category)
	})
}

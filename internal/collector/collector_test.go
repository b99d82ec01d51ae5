package collector

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-news-digest/internal/domain"
	"github.com/samvad-hq/samvad-news-digest/pkg/collection"
	"github.com/samvad-hq/samvad-news-digest/pkg/feeds"
)

// fakeFetcher returns preset entries or errors keyed by feed name.
type fakeFetcher struct {
	mu       sync.Mutex
	entries  map[string][]feeds.Entry
	errs     map[string]error
	delay    map[string]time.Duration
	calls    map[string]int
	inflight atomic.Int32
	peak     atomic.Int32
	hold     time.Duration
}

func (f *fakeFetcher) Fetch(_ context.Context, feed collection.Feed) ([]feeds.Entry, error) {
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[feed.Name]++
	d := f.delay[feed.Name]
	f.mu.Unlock()

	if d == 0 {
		d = f.hold
	}
	if d > 0 {
		time.Sleep(d)
	}
	if err := f.errs[feed.Name]; err != nil {
		return nil, err
	}
	return f.entries[feed.Name], nil
}

var target = time.Date(2026, 2, 17, 12, 0, 0, 0, domain.JST)

func recent() *time.Time {
	t := target.Add(-2 * time.Hour)
	return &t
}

func TestCollectScenarioSingleMatchingEntry(t *testing.T) {
	fetcher := &fakeFetcher{entries: map[string][]feeds.Entry{
		"OpenAI": {{Link: "https://openai.com/gpt-5", Title: "OpenAI launches GPT-5", Published: recent()}},
	}}
	c := New(fetcher, nil)

	articles, errs := c.Collect(context.Background(), Params{
		Feeds:      []collection.Feed{{Name: "OpenAI", URL: "https://openai.com/rss", Category: "official"}},
		Keywords:   []string{"GPT"},
		FetchHours: 48,
		TargetDate: target,
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors %+v", errs)
	}
	if len(articles) != 1 || articles[0].Title != "OpenAI launches GPT-5" || articles[0].Category != "official" {
		t.Fatalf("unexpected articles %+v", articles)
	}
}

func TestCollectNonMatchingKeywordYieldsNothing(t *testing.T) {
	fetcher := &fakeFetcher{entries: map[string][]feeds.Entry{
		"OpenAI": {{Link: "https://openai.com/gpt-5", Title: "OpenAI launches GPT-5", Published: recent()}},
	}}
	articles, errs := New(fetcher, nil).Collect(context.Background(), Params{
		Feeds:      []collection.Feed{{Name: "OpenAI", URL: "u", Category: "official"}},
		Keywords:   []string{"Claude"},
		FetchHours: 48,
		TargetDate: target,
	})
	if len(articles) != 0 || len(errs) != 0 {
		t.Fatalf("expected nothing, got %+v %+v", articles, errs)
	}
}

func TestCollectRecordsFetchErrors(t *testing.T) {
	fetcher := &fakeFetcher{
		entries: map[string][]feeds.Entry{
			"ok": {{Link: "https://ok.example/1", Title: "GPT news", Published: recent()}},
		},
		errs: map[string]error{"down": errors.New("dial tcp: i/o timeout")},
	}
	var progress bytes.Buffer
	c := New(fetcher, nil, WithProgress(&progress))

	articles, errs := c.Collect(context.Background(), Params{
		Feeds: []collection.Feed{
			{Name: "down", URL: "https://down.example", Category: "tech"},
			{Name: "ok", URL: "https://ok.example", Category: "tech"},
		},
		Keywords:   []string{"GPT"},
		FetchHours: 48,
		TargetDate: target,
	})
	if len(errs) != 1 || errs[0].Name != "down" || errs[0].Error != "dial tcp: i/o timeout" {
		t.Fatalf("unexpected errors %+v", errs)
	}
	if len(articles) != 1 || articles[0].Source != "ok" {
		t.Fatalf("other feeds must still be processed, got %+v", articles)
	}

	out := progress.String()
	for _, want := range []string{"Fetching 2 feeds...", "  ✗ down: dial tcp: i/o timeout", "  ✓ ok: 1 articles"} {
		if !strings.Contains(out, want) {
			t.Fatalf("progress missing %q:\n%s", want, out)
		}
	}
	if fetcher.calls["down"] != 1 {
		t.Fatalf("failed feed must not be retried, calls=%d", fetcher.calls["down"])
	}
}

func TestCollectDedupsAcrossFeedsByConfiguredOrder(t *testing.T) {
	shared := feeds.Entry{Link: "https://shared.example/story", Title: "GPT story", Published: recent()}
	fetcher := &fakeFetcher{
		entries: map[string][]feeds.Entry{
			"first":  {shared},
			"second": {shared},
		},
		// The first configured feed finishes last.
		delay: map[string]time.Duration{"first": 30 * time.Millisecond},
	}

	articles, _ := New(fetcher, nil).Collect(context.Background(), Params{
		Feeds: []collection.Feed{
			{Name: "first", URL: "a", Category: "tech"},
			{Name: "second", URL: "b", Category: "official"},
		},
		Keywords:   []string{"gpt"},
		FetchHours: 48,
		TargetDate: target,
	})
	if len(articles) != 1 {
		t.Fatalf("expected one article for shared url, got %+v", articles)
	}
	if articles[0].Source != "first" {
		t.Fatalf("expected earliest configured feed to win, got %q", articles[0].Source)
	}
}

func TestCollectSortsByCategoryStably(t *testing.T) {
	fetcher := &fakeFetcher{entries: map[string][]feeds.Entry{
		"misc":   {{Link: "https://m/1", Title: "GPT m1"}, {Link: "https://m/2", Title: "GPT m2"}},
		"reddit": {{Link: "https://r/1", Title: "GPT r1"}},
		"odd":    {{Link: "https://o/1", Title: "GPT o1"}},
		"blog":   {{Link: "https://b/1", Title: "GPT b1"}},
		"tech2":  {{Link: "https://t/1", Title: "GPT t1"}},
	}}

	articles, _ := New(fetcher, nil).Collect(context.Background(), Params{
		Feeds: []collection.Feed{
			{Name: "odd", URL: "o", Category: "podcasts"},
			{Name: "misc", URL: "m", Category: "tech"},
			{Name: "reddit", URL: "r", Category: "reddit"},
			{Name: "blog", URL: "b", Category: "official"},
			{Name: "tech2", URL: "t", Category: "tech"},
		},
		Keywords:   []string{"GPT"},
		FetchHours: 48,
		TargetDate: target,
	})

	var got []string
	for _, a := range articles {
		got = append(got, a.Title)
	}
	want := "GPT b1,GPT m1,GPT m2,GPT t1,GPT r1,GPT o1"
	if strings.Join(got, ",") != want {
		t.Fatalf("order = %v, want %s", got, want)
	}
}

func TestCollectEmptyFeeds(t *testing.T) {
	articles, errs := New(&fakeFetcher{}, nil).Collect(context.Background(), Params{
		Keywords:   []string{"GPT"},
		FetchHours: 48,
		TargetDate: target,
	})
	if len(articles) != 0 || len(errs) != 0 {
		t.Fatalf("expected empty results, got %+v %+v", articles, errs)
	}
}

func TestCollectBoundsConcurrency(t *testing.T) {
	fetcher := &fakeFetcher{hold: 20 * time.Millisecond}
	var list []collection.Feed
	for i := 0; i < 25; i++ {
		list = append(list, collection.Feed{Name: string(rune('a' + i)), URL: "u"})
	}

	New(fetcher, nil, WithWorkers(3)).Collect(context.Background(), Params{
		Feeds:      list,
		Keywords:   []string{"GPT"},
		FetchHours: 48,
		TargetDate: target,
	})
	if peak := fetcher.peak.Load(); peak > 3 {
		t.Fatalf("expected at most 3 concurrent fetches, saw %d", peak)
	}
	if len(fetcher.calls) != 25 {
		t.Fatalf("expected every feed fetched once, got %d", len(fetcher.calls))
	}
}

type panicFetcher struct{}

func (panicFetcher) Fetch(context.Context, collection.Feed) ([]feeds.Entry, error) {
	panic("boom")
}

func TestCollectConvertsPanicToFetchError(t *testing.T) {
	_, errs := New(panicFetcher{}, nil).Collect(context.Background(), Params{
		Feeds:      []collection.Feed{{Name: "bad", URL: "u"}},
		Keywords:   []string{"GPT"},
		FetchHours: 48,
		TargetDate: target,
	})
	if len(errs) != 1 || !strings.Contains(errs[0].Error, "boom") {
		t.Fatalf("expected panic captured as fetch error, got %+v", errs)
	}
}

func TestParamsCutoff(t *testing.T) {
	p := Params{FetchHours: 48, TargetDate: target}
	if want := target.Add(-48 * time.Hour); !p.Cutoff().Equal(want) {
		t.Fatalf("cutoff = %v, want %v", p.Cutoff(), want)
	}
}

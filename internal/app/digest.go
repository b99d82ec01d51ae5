package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-news-digest/internal/collector"
	"github.com/samvad-hq/samvad-news-digest/internal/config"
	"github.com/samvad-hq/samvad-news-digest/internal/digest"
	"github.com/samvad-hq/samvad-news-digest/internal/domain"
	"github.com/samvad-hq/samvad-news-digest/internal/logger"
	"github.com/samvad-hq/samvad-news-digest/pkg/collection"
	"github.com/samvad-hq/samvad-news-digest/pkg/feeds"
	"github.com/samvad-hq/samvad-news-digest/pkg/publishers"
	"github.com/samber/lo"
)

const dateLayout = "2006-01-02"

// ErrInvalidDate is returned when the --date value is not YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date")

// RunOptions selects the collection file and the digest date for one run.
type RunOptions struct {
	ConfigPath string
	// Date is YYYY-MM-DD at JST; empty means now.
	Date string
}

// Digest runs one collect-render-write pass for a collection file.
type Digest struct {
	cfg      *config.Config
	fetcher  feeds.Fetcher
	renderer *digest.Renderer
	fanout   *publishers.Fanout
	log      logger.Logger
	out      io.Writer
	now      func() time.Time
}

// Option customizes a Digest runtime.
type Option func(*Digest)

// WithFetcher replaces the HTTP feed fetcher.
func WithFetcher(f feeds.Fetcher) Option {
	return func(d *Digest) {
		if f != nil {
			d.fetcher = f
		}
	}
}

// WithClock overrides the clock used for the default date and the generation stamp.
func WithClock(now func() time.Time) Option {
	return func(d *Digest) {
		if now != nil {
			d.now = now
		}
	}
}

// WithPublishers sets the fan-out receiving the digest event.
func WithPublishers(f *publishers.Fanout) Option {
	return func(d *Digest) {
		d.fanout = f
	}
}

// NewDigest builds the runtime from process settings. Progress lines go to out.
// A broken publishers file only disables publishing.
func NewDigest(ctx context.Context, cfg *config.Config, log logger.Logger, out io.Writer, opts ...Option) (*Digest, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if out == nil {
		out = io.Discard
	}
	log = logger.Ensure(log)

	d := &Digest{
		cfg: cfg,
		log: log,
		out: out,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.fetcher == nil {
		d.fetcher = feeds.NewFetcher(feeds.DefaultHTTPClient(cfg.FetchTimeout, cfg.UserAgent), cfg.UserAgent)
	}
	d.renderer = digest.NewRendererWithClock(d.now)

	if d.fanout == nil && cfg.PublishersFile != "" {
		fanout, err := loadFanout(ctx, cfg.PublishersFile, log)
		if err != nil {
			log.WarnObj("publishing disabled", "publishers_error", map[string]any{
				"file":  cfg.PublishersFile,
				"error": err.Error(),
			})
		} else {
			d.fanout = fanout
		}
	}

	return d, nil
}

func loadFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	reg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := reg.Enabled()
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count": len(enabled),
		"publishers": lo.Map(enabled, func(p publishers.PublisherConfig, _ int) map[string]string {
			return map[string]string{"id": p.ID, "type": p.Type}
		}),
	})
	return publishers.NewFanout(pubs), nil
}

// Run loads the collection, collects and renders it, writes <output.directory>/<date>.md
// and returns the written path. Fetch failures are part of the digest, not errors.
func (d *Digest) Run(ctx context.Context, opts RunOptions) (string, error) {
	if d == nil || d.fetcher == nil {
		return "", fmt.Errorf("digest runtime is not initialized")
	}

	coll, err := collection.Load(opts.ConfigPath)
	if err != nil {
		return "", err
	}

	target, err := d.resolveDate(opts.Date)
	if err != nil {
		return "", err
	}
	dateStr := target.Format(dateLayout)

	fmt.Fprintf(d.out, "Collection: %s\n", coll.Name)
	fmt.Fprintf(d.out, "Date: %s\n", dateStr)
	fmt.Fprintln(d.out)

	c := collector.New(d.fetcher, d.log,
		collector.WithWorkers(d.cfg.FetchWorkers),
		collector.WithProgress(d.out),
	)

	start := d.now()
	articles, fetchErrs := c.Collect(ctx, collector.Params{
		Feeds:           coll.Feeds,
		Keywords:        coll.Keywords,
		ExcludeKeywords: coll.ExcludeKeywords,
		FetchHours:      coll.Hours(),
		TargetDate:      target,
	})
	elapsed := d.now().Sub(start)

	fmt.Fprintln(d.out)
	fmt.Fprintf(d.out, "Results: %d articles collected in %.1fs\n", len(articles), elapsed.Seconds())
	fmt.Fprintf(d.out, "Errors: %d feeds failed\n", len(fetchErrs))

	doc := d.renderer.Render(digest.Input{
		Title:    coll.Title,
		Articles: articles,
		Errors:   fetchErrs,
		Date:     target,
	})

	outPath, err := writeDigest(coll.Output.Directory, dateStr, doc)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(d.out, "Output: %s\n", outPath)

	d.log.InfoObj("digest written", "digest_meta", map[string]any{
		"collection": coll.Name,
		"date":       dateStr,
		"path":       outPath,
		"articles":   len(articles),
		"errors":     len(fetchErrs),
		"elapsed_ms": elapsed.Milliseconds(),
	})

	d.publish(ctx, publishers.NewEvent(coll.Name, dateStr, outPath, articles, fetchErrs, d.now()))
	return outPath, nil
}

// Close releases publisher clients.
func (d *Digest) Close() error {
	if d == nil {
		return nil
	}
	return d.fanout.Close()
}

func (d *Digest) resolveDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return d.now().In(domain.JST), nil
	}
	t, err := time.ParseInLocation(dateLayout, s, domain.JST)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q (expected YYYY-MM-DD): %v", ErrInvalidDate, s, err)
	}
	return t, nil
}

func (d *Digest) publish(ctx context.Context, evt publishers.Event) {
	if d.fanout.Size() == 0 {
		return
	}
	delivered, err := d.fanout.Publish(ctx, evt)
	if err != nil {
		d.log.WarnObj("digest publish failed", "publish_error", map[string]any{
			"delivered": delivered,
			"error":     err.Error(),
		})
		return
	}
	d.log.InfoObj("digest published", "publish_meta", map[string]any{
		"delivered": delivered,
	})
}

func writeDigest(dir, date, doc string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	p := filepath.Join(dir, date+".md")
	if err := os.WriteFile(p, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("write digest: %w", err)
	}
	return p, nil
}

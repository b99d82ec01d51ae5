package feeds

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/samvad-hq/samvad-news-digest/pkg/collection"
	"github.com/samvad-hq/samvad-news-digest/pkg/httpclient"
)

const (
	// DefaultUserAgent identifies the digest to feed hosts; some (Reddit) block anonymous clients.
	DefaultUserAgent = "samvad-news-digest/1.0 (+https://github.com/samvad-hq/samvad-news-digest)"

	acceptHeader = "application/rss+xml, application/atom+xml, application/xml;q=0.9, text/xml;q=0.9, */*;q=0.8"
)

// ParseError reports a feed body gofeed could not parse.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("Parse error: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// feedFetcher implements Fetcher over an HTTP client and gofeed.
type feedFetcher struct {
	client    HTTPClient
	userAgent string
}

// DefaultHTTPClient returns the resty client used for feed retrieval.
func DefaultHTTPClient(timeout time.Duration, userAgent string) HTTPClient {
	return httpclient.NewRestyClient(httpclient.Options{Timeout: timeout, UserAgent: userAgent})
}

// NewFetcher builds a Fetcher. A nil client gets the default resty client.
func NewFetcher(client HTTPClient, userAgent string) Fetcher {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if client == nil {
		client = DefaultHTTPClient(0, userAgent)
	}
	return &feedFetcher{client: client, userAgent: userAgent}
}

// Fetch downloads and parses the feed in one attempt.
func (f *feedFetcher) Fetch(ctx context.Context, feed collection.Feed) ([]Entry, error) {
	if strings.TrimSpace(feed.URL) == "" {
		return nil, fmt.Errorf("feed %q url is empty", feed.Name)
	}

	body, err := f.download(ctx, feed.URL)
	if err != nil {
		return nil, err
	}

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return entriesFromFeed(parsed), nil
}

func (f *feedFetcher) download(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.client.Get(ctx, url, map[string]string{
		"User-Agent": f.userAgent,
		"Accept":     acceptHeader,
	})
	if err != nil {
		return nil, err
	}

	body := resp.Body()
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, fmt.Errorf("status %d body: %s", code, responseSnippet(body))
	}
	return body, nil
}

func responseSnippet(body []byte) string {
	const maxLen = 256
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

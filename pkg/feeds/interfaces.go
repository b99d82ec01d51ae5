package feeds

import (
	"context"

	"github.com/samvad-hq/samvad-news-digest/pkg/collection"
	"github.com/samvad-hq/samvad-news-digest/pkg/httpclient"
)

// Fetcher retrieves and parses a single configured feed.
type Fetcher interface {
	Fetch(ctx context.Context, feed collection.Feed) ([]Entry, error)
}

// HTTPClient aliases the shared httpclient.Client interface for clarity within feeds.
type HTTPClient = httpclient.Client

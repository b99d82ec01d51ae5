package publishers

import (
	"time"

	"github.com/samvad-hq/samvad-news-digest/internal/domain"
)

// Event announces a written digest.
type Event struct {
	Collection   string              `json:"collection"`
	Date         string              `json:"date"`
	OutputPath   string              `json:"output_path"`
	ArticleCount int                 `json:"article_count"`
	ErrorCount   int                 `json:"error_count"`
	Articles     []domain.Article    `json:"articles"`
	Errors       []domain.FetchError `json:"errors"`
	GeneratedAt  time.Time           `json:"generated_at"`
}

// NewEvent constructs an Event for a digest written to outputPath at generatedAt.
func NewEvent(collection, date, outputPath string, articles []domain.Article, errs []domain.FetchError, generatedAt time.Time) Event {
	return Event{
		Collection:   collection,
		Date:         date,
		OutputPath:   outputPath,
		ArticleCount: len(articles),
		ErrorCount:   len(errs),
		Articles:     articles,
		Errors:       errs,
		GeneratedAt:  generatedAt.UTC(),
	}
}

func (e Event) attributes() map[string]string {
	return map[string]string{
		"collection": e.Collection,
		"date":       e.Date,
	}
}

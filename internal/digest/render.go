package digest

import (
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-news-digest/internal/collector"
	"github.com/samvad-hq/samvad-news-digest/internal/domain"
)

const (
	// RenderSummaryRunes bounds the summary line under each checklist entry.
	RenderSummaryRunes = 150

	defaultTitle  = "AI News"
	summaryIndent = "      "
	noArticles    = "本日の該当記事はありませんでした。"
	errorsHeader  = "## ⚠ 取得エラー"
)

// Indexed by time.Weekday (Sunday first).
var weekdayJA = [...]string{"日", "月", "火", "水", "木", "金", "土"}

// Input is everything one digest is built from.
type Input struct {
	Title    string
	Articles []domain.Article
	Errors   []domain.FetchError
	Date     time.Time
}

// Renderer builds Markdown digests.
type Renderer struct {
	now func() time.Time
}

// NewRenderer returns a renderer stamping the generation time from the wall clock.
func NewRenderer() *Renderer {
	return &Renderer{now: time.Now}
}

// NewRendererWithClock returns a renderer stamping the generation time from now.
func NewRendererWithClock(now func() time.Time) *Renderer {
	if now == nil {
		now = time.Now
	}
	return &Renderer{now: now}
}

// Render returns the digest document. Article order is taken as given.
func (r *Renderer) Render(in Input) string {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = defaultTitle
	}

	var lines []string
	lines = append(lines,
		fmt.Sprintf("# %s — %s", title, LongDate(in.Date)),
		"",
		fmt.Sprintf("> 自動収集: %d 件 / エラー: %d 件", len(in.Articles), len(in.Errors)),
		fmt.Sprintf("> 収集時刻: %s", r.now().In(domain.JST).Format("2006-01-02 15:04 JST")),
		"",
	)

	if len(in.Articles) == 0 {
		lines = append(lines, noArticles, "")
	} else {
		current := ""
		for _, a := range in.Articles {
			if a.Category != current {
				current = a.Category
				lines = append(lines, "## "+domain.CategoryLabel(current), "")
			}
			lines = append(lines, ChecklistLine(a))
			if a.Summary != "" {
				lines = append(lines, summaryIndent+collector.TruncateRunes(a.Summary, RenderSummaryRunes))
			}
			lines = append(lines, "")
		}
	}

	if len(in.Errors) > 0 {
		lines = append(lines, "---", "", errorsHeader, "")
		for _, e := range in.Errors {
			lines = append(lines, fmt.Sprintf("- **%s**: %s", e.Name, e.Error))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// ChecklistLine formats one article as an unchecked Markdown task linking to its URL.
func ChecklistLine(a domain.Article) string {
	return fmt.Sprintf("- [ ] [%s | %s](%s)", a.Title, a.Source, a.URL)
}

// LongDate formats d as 2026年2月17日（火）.
func LongDate(d time.Time) string {
	return fmt.Sprintf("%d年%d月%d日（%s）", d.Year(), int(d.Month()), d.Day(), weekdayJA[d.Weekday()])
}

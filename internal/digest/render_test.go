package digest

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-news-digest/internal/domain"
)

var (
	fixedNow   = time.Date(2026, 2, 17, 0, 5, 0, 0, time.UTC)
	targetDate = time.Date(2026, 2, 17, 0, 0, 0, 0, domain.JST)
)

func render(in Input) string {
	return NewRendererWithClock(func() time.Time { return fixedNow }).Render(in)
}

func TestRenderEmptyDigest(t *testing.T) {
	got := render(Input{Date: targetDate})
	want := strings.Join([]string{
		"# AI News — 2026年2月17日（火）",
		"",
		"> 自動収集: 0 件 / エラー: 0 件",
		"> 収集時刻: 2026-02-17 09:05 JST",
		"",
		"本日の該当記事はありませんでした。",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("unexpected digest:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderSectionsAndEntries(t *testing.T) {
	articles := []domain.Article{
		{Title: "OpenAI launches GPT-5", URL: "https://openai.com/gpt-5", Source: "OpenAI", Category: "official", Summary: "New model"},
		{Title: "Anthropic news", URL: "https://anthropic.com/n", Source: "Anthropic", Category: "official"},
		{Title: "Thread", URL: "https://reddit.com/r/x", Source: "r/LocalLLaMA", Category: "reddit"},
		{Title: "Pod", URL: "https://pod.example/1", Source: "Pod", Category: "podcasts"},
	}

	got := render(Input{Title: "Weekly", Articles: articles, Date: targetDate})
	want := strings.Join([]string{
		"# Weekly — 2026年2月17日（火）",
		"",
		"> 自動収集: 4 件 / エラー: 0 件",
		"> 収集時刻: 2026-02-17 09:05 JST",
		"",
		"## 🏢 AI企業公式",
		"",
		"- [ ] [OpenAI launches GPT-5 | OpenAI](https://openai.com/gpt-5)",
		"      New model",
		"",
		"- [ ] [Anthropic news | Anthropic](https://anthropic.com/n)",
		"",
		"## 💬 Reddit",
		"",
		"- [ ] [Thread | r/LocalLLaMA](https://reddit.com/r/x)",
		"",
		"## podcasts",
		"",
		"- [ ] [Pod | Pod](https://pod.example/1)",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("unexpected digest:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderErrorSection(t *testing.T) {
	got := render(Input{
		Date:   targetDate,
		Errors: []domain.FetchError{{Name: "Broken Feed", Error: "Parse error: EOF"}},
	})
	if !strings.Contains(got, "> 自動収集: 0 件 / エラー: 1 件") {
		t.Fatalf("counts missing:\n%s", got)
	}
	tail := strings.Join([]string{
		"本日の該当記事はありませんでした。",
		"",
		"---",
		"",
		"## ⚠ 取得エラー",
		"",
		"- **Broken Feed**: Parse error: EOF",
		"",
	}, "\n")
	if !strings.HasSuffix(got, tail) {
		t.Fatalf("error section malformed:\n%s", got)
	}
}

func TestRenderTruncatesSummary(t *testing.T) {
	long := strings.Repeat("字", 200)
	got := render(Input{
		Date:     targetDate,
		Articles: []domain.Article{{Title: "t", URL: "u", Source: "s", Category: "tech", Summary: long}},
	})
	for _, line := range strings.Split(got, "\n") {
		if strings.HasPrefix(line, summaryIndent) {
			if n := len([]rune(strings.TrimPrefix(line, summaryIndent))); n != RenderSummaryRunes {
				t.Fatalf("summary rune length = %d", n)
			}
			return
		}
	}
	t.Fatalf("summary line not found:\n%s", got)
}

var checklistPattern = regexp.MustCompile(`^- \[ \] \[(.*) \| (.*)\]\((.*)\)$`)

func TestRenderChecklistRoundTrip(t *testing.T) {
	articles := []domain.Article{
		{Title: "Plain title", URL: "https://a.example/1", Source: "A", Category: "tech"},
		{Title: "Brackets [v2] inside", URL: "https://b.example/2?q=1", Source: "B Feed", Category: "tech"},
	}
	got := render(Input{Date: targetDate, Articles: articles})

	var recovered [][3]string
	for _, line := range strings.Split(got, "\n") {
		if m := checklistPattern.FindStringSubmatch(line); m != nil {
			recovered = append(recovered, [3]string{m[1], m[2], m[3]})
		}
	}
	if len(recovered) != len(articles) {
		t.Fatalf("recovered %d lines, want %d", len(recovered), len(articles))
	}
	for i, a := range articles {
		if recovered[i] != [3]string{a.Title, a.Source, a.URL} {
			t.Fatalf("line %d recovered %v, want %v", i, recovered[i], a)
		}
	}
}

func TestLongDate(t *testing.T) {
	d := time.Date(2026, 3, 1, 0, 0, 0, 0, domain.JST)
	if got := LongDate(d); got != "2026年3月1日（日）" {
		t.Fatalf("LongDate = %q", got)
	}
}

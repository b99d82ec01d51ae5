package domain

import "testing"

func TestCategoryPriorityOrder(t *testing.T) {
	ordered := []string{
		CategoryOfficial,
		CategoryDomestic,
		CategoryInternational,
		CategoryTech,
		CategoryReddit,
		CategoryIndustry,
		CategoryOther,
		"podcasts",
	}
	for i := 1; i < len(ordered); i++ {
		prev, cur := CategoryPriority(ordered[i-1]), CategoryPriority(ordered[i])
		if prev >= cur {
			t.Fatalf("expected %q (%d) to rank before %q (%d)", ordered[i-1], prev, ordered[i], cur)
		}
	}
	if got := CategoryPriority("podcasts"); got != UnknownCategoryPriority {
		t.Fatalf("unknown category priority = %d", got)
	}
}

func TestCategoryLabelFallsBackToRaw(t *testing.T) {
	if got := CategoryLabel(CategoryReddit); got != "💬 Reddit" {
		t.Fatalf("reddit label = %q", got)
	}
	if got := CategoryLabel("podcasts"); got != "podcasts" {
		t.Fatalf("expected raw category fallback, got %q", got)
	}
}

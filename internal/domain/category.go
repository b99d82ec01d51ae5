package domain

const (
	CategoryOfficial      = "official"
	CategoryDomestic      = "domestic"
	CategoryInternational = "international"
	CategoryTech          = "tech"
	CategoryReddit        = "reddit"
	CategoryIndustry      = "industry"
	CategoryOther         = "other"

	// UnknownCategoryPriority ranks categories outside the closed set after every known one.
	UnknownCategoryPriority = 99
)

var categoryPriority = map[string]int{
	CategoryOfficial:      0,
	CategoryDomestic:      1,
	CategoryInternational: 2,
	CategoryTech:          3,
	CategoryReddit:        4,
	CategoryIndustry:      5,
	CategoryOther:         6,
}

var categoryLabels = map[string]string{
	CategoryOfficial:      "🏢 AI企業公式",
	CategoryDomestic:      "📰 国内メディア",
	CategoryInternational: "🌐 海外メディア",
	CategoryTech:          "💻 技術コミュニティ",
	CategoryReddit:        "💬 Reddit",
	CategoryIndustry:      "🇯🇵 業界特化",
	CategoryOther:         "📋 その他",
}

// CategoryPriority returns the sort rank for a category.
func CategoryPriority(category string) int {
	if p, ok := categoryPriority[category]; ok {
		return p
	}
	return UnknownCategoryPriority
}

// CategoryLabel returns the section label for a category, or the raw value when unrecognized.
func CategoryLabel(category string) string {
	if label, ok := categoryLabels[category]; ok {
		return label
	}
	return category
}

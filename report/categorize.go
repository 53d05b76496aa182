// Package report derives categorized digest reports from the article
// stream: a single-label keyword classifier, time-windowed grouping,
// digest paragraph synthesis, and markdown export.
package report

import "strings"

// Category is a report category. Exactly one is assigned per article,
// independent of the multi-label tag inference done at parse time.
type Category string

const (
	CategoryResearch   Category = "Research & Breakthroughs"
	CategoryBusiness   Category = "Business & Funding"
	CategoryPolicy     Category = "Policy & Society"
	CategoryOpenSource Category = "Open Source"
	CategoryProducts   Category = "Products & Tools"
)

// DefaultCategory is assigned when no keyword in any category matches.
const DefaultCategory = CategoryProducts

// categoryOrder fixes both the classification tie-break (first-seen
// highest score wins) and the group order in rendered reports.
var categoryOrder = []Category{
	CategoryResearch,
	CategoryBusiness,
	CategoryPolicy,
	CategoryOpenSource,
	CategoryProducts,
}

var categoryEmoji = map[Category]string{
	CategoryResearch:   "🔬",
	CategoryBusiness:   "💼",
	CategoryPolicy:     "⚖️",
	CategoryOpenSource: "🧩",
	CategoryProducts:   "🚀",
}

var categoryKeywords = map[Category][]string{
	CategoryResearch: {
		"research", "paper", "arxiv", "study", "benchmark", "breakthrough",
		"model", "training", "dataset", "scientist", "discover",
	},
	CategoryBusiness: {
		"funding", "raise", "investment", "valuation", "acquisition",
		"acquire", "revenue", "startup", "ipo", "partnership", "deal",
	},
	CategoryPolicy: {
		"regulation", "policy", "law", "government", "congress", "senate",
		"lawsuit", "governance", "compliance", "ban", "rights",
	},
	CategoryOpenSource: {
		"open source", "open-source", "github", "open weights", "apache",
		"mit license", "community", "contributor",
	},
	CategoryProducts: {
		"launch", "release", "product", "feature", "tool", "app",
		"update", "api", "platform", "integration",
	},
}

// Emoji returns the display glyph for a category.
func (c Category) Emoji() string {
	return categoryEmoji[c]
}

// Categorize assigns exactly one category to an article by counting
// keyword matches in the lower-cased title+summary. The highest count
// wins; ties keep the first-seen highest-scoring category in table
// order. Zero matches anywhere falls back to DefaultCategory.
func Categorize(title, summary string) Category {
	text := strings.ToLower(title + " " + summary)

	best := DefaultCategory
	bestScore := 0
	for _, cat := range categoryOrder {
		score := 0
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(text, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = cat
		}
	}

	return best
}

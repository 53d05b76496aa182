package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		summary string
		want    Category
	}{
		{
			name:    "research text",
			title:   "New arxiv paper sets benchmark record",
			summary: "The study shows a breakthrough in training.",
			want:    CategoryResearch,
		},
		{
			name:    "business text",
			title:   "AI startup closes massive funding round",
			summary: "The raise values the company at a new valuation.",
			want:    CategoryBusiness,
		},
		{
			name:    "policy text",
			title:   "Senate weighs new AI regulation",
			summary: "The proposed law would reshape government oversight.",
			want:    CategoryPolicy,
		},
		{
			name:    "open source text",
			title:   "Open source model lands on GitHub",
			summary: "Community contributors shipped open weights.",
			want:    CategoryOpenSource,
		},
		{
			name:    "product text",
			title:   "Company launches new API platform",
			summary: "The product update adds an integration tool.",
			want:    CategoryProducts,
		},
		{
			name:    "no keywords falls back to the default",
			title:   "Completely unrelated musings",
			summary: "Nothing here matches anything.",
			want:    DefaultCategory,
		},
		{
			name:    "tie keeps the first-seen category in table order",
			title:   "research funding", // one Research keyword, one Business keyword
			summary: "",
			want:    CategoryResearch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.title, tt.summary))
		})
	}
}

func TestCategorize_Deterministic(t *testing.T) {
	title := "Senate weighs new AI regulation after lawsuit"
	summary := "Compliance costs are rising."

	first := Categorize(title, summary)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Categorize(title, summary))
	}
}

func TestCategorize_CaseInsensitive(t *testing.T) {
	assert.Equal(t, Categorize("ARXIV PAPER", ""), Categorize("arxiv paper", ""))
}

func TestCategory_Emoji(t *testing.T) {
	for _, cat := range categoryOrder {
		assert.NotEmpty(t, cat.Emoji(), "category %s needs a glyph", cat)
	}
}

package report

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/newsbrief/newsbrief/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(t time.Time) *time.Time { return &t }

func article(title, url, source string, published time.Time) model.Article {
	return model.Article{
		ID:        url,
		Title:     title,
		URL:       url,
		Source:    model.SourceRef{ID: source, Name: source},
		Published: ts(published),
	}
}

func TestParseWindow(t *testing.T) {
	for _, valid := range []string{"last-hour", "today", "this-week"} {
		w, err := ParseWindow(valid)
		require.NoError(t, err)
		assert.Equal(t, Window(valid), w)
	}

	_, err := ParseWindow("fortnight")
	assert.Error(t, err)
}

func TestWindow_Cutoff(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.Local)

	assert.Equal(t, now.Add(-time.Hour), WindowLastHour.Cutoff(now))
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local), WindowToday.Cutoff(now), "today starts at local midnight")
	assert.Equal(t, now.Add(-7*24*time.Hour), WindowThisWeek.Cutoff(now))
}

func TestGenerate_EmptyWindow(t *testing.T) {
	now := time.Now()
	articles := []model.Article{
		article("Old News", "https://x.test/old", "Src", now.Add(-48*time.Hour)),
		{Title: "Undated", URL: "https://x.test/undated", Source: model.SourceRef{Name: "Src"}},
	}

	_, err := Generate(articles, WindowLastHour, now)
	assert.ErrorIs(t, err, ErrEmptyWindow, "zero in-window articles is an explicit empty state, not an empty report")

	_, err = Generate(nil, WindowToday, now)
	assert.ErrorIs(t, err, ErrEmptyWindow)
}

func TestGenerate_ExcludesUndatedArticles(t *testing.T) {
	now := time.Now()
	articles := []model.Article{
		article("Fresh research paper on arxiv", "https://x.test/fresh", "Lab Blog", now.Add(-10*time.Minute)),
		{Title: "Undated arxiv paper", URL: "https://x.test/undated", Source: model.SourceRef{Name: "Lab Blog"}},
	}

	r, err := Generate(articles, WindowLastHour, now)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Total)
}

func TestGenerate_GroupsByCategory(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	articles := []model.Article{
		article("New arxiv paper with benchmark results", "https://x.test/r1", "Lab", now.Add(-time.Minute)),
		article("Startup raises funding at high valuation", "https://x.test/b1", "BizWire", now.Add(-2*time.Minute)),
		article("Senate proposes AI regulation law", "https://x.test/p1", "PolicyDesk", now.Add(-3*time.Minute)),
	}

	r, err := Generate(articles, WindowToday, now)
	require.NoError(t, err)
	require.Len(t, r.Groups, 3)

	// Groups follow canonical category order.
	assert.Equal(t, CategoryResearch, r.Groups[0].Category)
	assert.Equal(t, CategoryBusiness, r.Groups[1].Category)
	assert.Equal(t, CategoryPolicy, r.Groups[2].Category)

	for _, g := range r.Groups {
		assert.Equal(t, 1, g.Total)
		assert.Equal(t, g.Articles[0].Title, g.Headline, "headline is the first article's title")
		assert.NotEmpty(t, g.Emoji)
		assert.NotEmpty(t, g.Summary)
	}
}

func TestGenerate_GroupDisplayCapKeepsTrueCount(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	var articles []model.Article
	for i := 0; i < 9; i++ {
		articles = append(articles, article(
			fmt.Sprintf("arxiv paper %d", i),
			fmt.Sprintf("https://x.test/%d", i),
			fmt.Sprintf("Source %d", i%4),
			now.Add(-time.Duration(i)*time.Minute),
		))
	}

	r, err := Generate(articles, WindowToday, now)
	require.NoError(t, err)
	require.Len(t, r.Groups, 1)

	g := r.Groups[0]
	assert.Len(t, g.Articles, groupDisplayCap, "display list is capped")
	assert.Equal(t, 9, g.Total, "true count is retained for statistics")
}

func TestGenerate_TopSources(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	var articles []model.Article
	add := func(source string, n int) {
		for i := 0; i < n; i++ {
			articles = append(articles, article(
				fmt.Sprintf("%s story %d", source, i),
				fmt.Sprintf("https://x.test/%s/%d", source, i),
				source,
				now.Add(-time.Minute),
			))
		}
	}
	add("Alpha", 3)
	add("Beta", 1)
	add("Gamma", 3)
	add("Delta", 2)

	r, err := Generate(articles, WindowToday, now)
	require.NoError(t, err)
	require.Len(t, r.TopSources, 3)

	assert.Equal(t, SourceCount{Name: "Alpha", Count: 3}, r.TopSources[0], "ties break by first occurrence")
	assert.Equal(t, SourceCount{Name: "Gamma", Count: 3}, r.TopSources[1])
	assert.Equal(t, SourceCount{Name: "Delta", Count: 2}, r.TopSources[2])
}

func TestGroupSummary_SingleArticle(t *testing.T) {
	members := []model.Article{
		article("Big Model Announced", "https://x.test/a", "Lab Blog", time.Now()),
	}
	assert.Equal(t, `Lab Blog reports "Big Model Announced".`, groupSummary(members))
}

func TestGroupSummary_MultipleArticles(t *testing.T) {
	now := time.Now()
	members := []model.Article{
		article("First Title", "https://x.test/1", "Alpha", now),
		article("Second Title", "https://x.test/2", "Beta", now),
		article("Third Title", "https://x.test/3", "Gamma", now),
	}

	got := groupSummary(members)
	assert.Contains(t, got, "3 stories from Alpha, Beta and Gamma")
	assert.Contains(t, got, `"First Title"`)
	assert.Contains(t, got, `"Second Title"`)
	assert.Contains(t, got, "plus 1 more")
	assert.NotContains(t, got, "Third Title", "only two representative titles are named")
}

func TestGroupSummary_OverflowSources(t *testing.T) {
	now := time.Now()
	var members []model.Article
	for i := 0; i < 6; i++ {
		members = append(members, article(
			fmt.Sprintf("Title %d", i),
			fmt.Sprintf("https://x.test/%d", i),
			fmt.Sprintf("Source%d", i),
			now,
		))
	}

	got := groupSummary(members)
	assert.Contains(t, got, "6 stories from Source0, Source1 and Source2", "at most three sources are named, joined with a trailing and")
	assert.Contains(t, got, "plus 4 more across 3 other sources")
}

func TestExport(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	articles := []model.Article{
		article("Fresh arxiv paper", "https://x.test/r1", "Lab", now.Add(-time.Minute)),
		article("Startup funding round", "https://x.test/b1", "BizWire", now.Add(-2*time.Minute)),
	}

	r, err := Generate(articles, WindowToday, now)
	require.NoError(t, err)

	out := Export(r)
	assert.True(t, strings.HasPrefix(out, "# AI News Digest — Today"))
	assert.Contains(t, out, "## 🔬 Research & Breakthroughs (1)")
	assert.Contains(t, out, "## 💼 Business & Funding (1)")
	assert.Contains(t, out, "[Fresh arxiv paper](https://x.test/r1)")
	assert.Contains(t, out, "## Top Sources")
	assert.Contains(t, out, "1. Lab (1)")
}

func TestGenerate_WindowBoundaries(t *testing.T) {
	now := time.Now()

	inside := article("arxiv paper inside", "https://x.test/in", "Lab", now.Add(-59*time.Minute))
	outside := article("arxiv paper outside", "https://x.test/out", "Lab", now.Add(-61*time.Minute))

	r, err := Generate([]model.Article{inside, outside}, WindowLastHour, now)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Total)
	assert.Equal(t, "https://x.test/in", r.Groups[0].Articles[0].URL)
}

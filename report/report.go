package report

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/newsbrief/newsbrief/model"
)

const (
	// groupDisplayCap bounds articles listed per group; the true count
	// is kept for statistics.
	groupDisplayCap = 5

	// topSourceCap bounds the top-source ranking.
	topSourceCap = 3
)

// ErrEmptyWindow reports that no article fell inside the requested
// window. Callers get this instead of a report with empty groups.
var ErrEmptyWindow = errors.New("no articles in the report window")

// Group is one category's slice of a report.
type Group struct {
	Category Category        `json:"category"`
	Emoji    string          `json:"emoji"`
	Articles []model.Article `json:"articles"`
	Total    int             `json:"total"`
	Headline string          `json:"headline"`
	Summary  string          `json:"summary"`
}

// SourceCount ranks a source by article count within the window.
type SourceCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Report is a categorized digest over a time window. It is regenerated
// on demand and never persisted.
type Report struct {
	Window      Window        `json:"window"`
	GeneratedAt time.Time     `json:"generated_at"`
	Total       int           `json:"total"`
	Groups      []Group       `json:"groups"`
	TopSources  []SourceCount `json:"top_sources"`
}

// Generate builds a report from the article stream for the given
// window. Articles without a published time are excluded by the cutoff
// filter. Returns ErrEmptyWindow when nothing survives.
func Generate(articles []model.Article, window Window, now time.Time) (*Report, error) {
	cutoff := window.Cutoff(now)

	var inWindow []model.Article
	for _, a := range articles {
		if a.Published != nil && !a.Published.Before(cutoff) {
			inWindow = append(inWindow, a)
		}
	}
	if len(inWindow) == 0 {
		return nil, ErrEmptyWindow
	}

	grouped := make(map[Category][]model.Article)
	for _, a := range inWindow {
		cat := Categorize(a.Title, a.Summary)
		grouped[cat] = append(grouped[cat], a)
	}

	r := &Report{
		Window:      window,
		GeneratedAt: now,
		Total:       len(inWindow),
		TopSources:  topSources(inWindow),
	}

	for _, cat := range categoryOrder {
		members := grouped[cat]
		if len(members) == 0 {
			continue
		}

		display := members
		if len(display) > groupDisplayCap {
			display = display[:groupDisplayCap]
		}

		r.Groups = append(r.Groups, Group{
			Category: cat,
			Emoji:    cat.Emoji(),
			Articles: display,
			Total:    len(members),
			Headline: members[0].Title,
			Summary:  groupSummary(members),
		})
	}

	return r, nil
}

// topSources counts articles per source across the whole filtered set.
// Ties keep first-occurrence order, which the stable sort preserves.
func topSources(articles []model.Article) []SourceCount {
	counts := make(map[string]int)
	var order []string
	for _, a := range articles {
		name := a.Source.Name
		if name == "" {
			continue
		}
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++
	}

	ranked := make([]SourceCount, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, SourceCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > topSourceCap {
		ranked = ranked[:topSourceCap]
	}
	return ranked
}

// groupSummary synthesizes the descriptive paragraph for a group.
// Single-article groups get a one-sentence attribution; larger groups
// name up to three distinct sources and two representative titles, with
// an overflow count for the rest.
func groupSummary(members []model.Article) string {
	if len(members) == 1 {
		a := members[0]
		return fmt.Sprintf("%s reports %q.", sourceName(a), a.Title)
	}

	var distinct []string
	seen := make(map[string]bool)
	for _, a := range members {
		name := sourceName(a)
		if !seen[name] {
			seen[name] = true
			distinct = append(distinct, name)
		}
	}

	shown := distinct
	if len(shown) > 3 {
		shown = shown[:3]
	}

	titles := []string{members[0].Title, members[1].Title}

	var b strings.Builder
	fmt.Fprintf(&b, "%d stories from %s, including %q and %q",
		len(members), joinNames(shown), titles[0], titles[1])

	if extra := len(members) - len(titles); extra > 0 {
		if hidden := len(distinct) - len(shown); hidden > 0 {
			fmt.Fprintf(&b, ", plus %d more across %d other sources", extra, hidden)
		} else {
			fmt.Fprintf(&b, ", plus %d more", extra)
		}
	}
	b.WriteString(".")
	return b.String()
}

func sourceName(a model.Article) string {
	if a.Source.Name != "" {
		return a.Source.Name
	}
	return "An unnamed source"
}

// joinNames joins up to three names with a trailing "and".
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}

// Export renders the full report as portable markdown: group headings,
// synthesized paragraphs, article links, and the top-source ranking.
func Export(r *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# AI News Digest — %s\n\n", r.Window.Label())
	fmt.Fprintf(&b, "_Generated %s · %d articles_\n\n", r.GeneratedAt.Format("Jan 2, 2006 15:04"), r.Total)

	for _, g := range r.Groups {
		fmt.Fprintf(&b, "## %s %s (%d)\n\n", g.Emoji, g.Category, g.Total)
		fmt.Fprintf(&b, "%s\n\n", g.Summary)
		for _, a := range g.Articles {
			fmt.Fprintf(&b, "- [%s](%s) — %s\n", a.Title, a.URL, sourceName(a))
		}
		b.WriteString("\n")
	}

	if len(r.TopSources) > 0 {
		b.WriteString("## Top Sources\n\n")
		for i, sc := range r.TopSources {
			fmt.Fprintf(&b, "%d. %s (%d)\n", i+1, sc.Name, sc.Count)
		}
	}

	return b.String()
}

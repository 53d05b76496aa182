// Package digest unions per-source fetch results into the single
// deduplicated, time-ordered article stream the rest of the pipeline
// consumes.
package digest

import (
	"sort"
	"time"

	"github.com/newsbrief/newsbrief/model"
)

// Merge concatenates per-source batches, drops articles without a URL,
// deduplicates by exact URL keeping the first occurrence, and sorts by
// published time descending. Articles with no published time sort as
// the oldest. The sort is stable, so equal timestamps keep their
// concatenation order.
func Merge(batches ...[]model.Article) []model.Article {
	var total int
	for _, b := range batches {
		total += len(b)
	}

	seen := make(map[string]bool, total)
	merged := make([]model.Article, 0, total)
	for _, batch := range batches {
		for _, a := range batch {
			if a.URL == "" || seen[a.URL] {
				continue
			}
			seen[a.URL] = true
			merged = append(merged, a)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PublishedOrZero().After(merged[j].PublishedOrZero())
	})

	return merged
}

// FilterSince returns the articles published at or after the cutoff.
// Articles with no published time are excluded.
func FilterSince(articles []model.Article, cutoff time.Time) []model.Article {
	var out []model.Article
	for _, a := range articles {
		if a.Published != nil && !a.Published.Before(cutoff) {
			out = append(out, a)
		}
	}
	return out
}

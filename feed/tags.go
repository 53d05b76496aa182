package feed

import (
	"regexp"
	"strings"

	"github.com/newsbrief/newsbrief/model"
)

// tagPatterns are five independent word-boundary predicates over the
// lower-cased title+summary. A text may match zero, one, or several;
// there is no scoring and no mutual exclusion.
var tagPatterns = []struct {
	tag model.Tag
	re  *regexp.Regexp
}{
	{model.TagResearch, regexp.MustCompile(`\b(arxiv|research|paper|study|benchmark|dataset|breakthrough)\b`)},
	{model.TagBusiness, regexp.MustCompile(`\b(funding|acquisitions?|acquire[sd]?|raise[sd]?|revenue|valuation|startups?|ipo|investments?|investors?)\b`)},
	{model.TagPolicy, regexp.MustCompile(`\b(regulation|regulators?|regulatory|policy|law|laws|lawsuit|governance|compliance|congress|senate|legislation)\b`)},
	{model.TagOpenSource, regexp.MustCompile(`\b(open[ -]source|open[ -]weights|github|apache|mit license|self[ -]host(ed|ing)?)\b`)},
	{model.TagProduct, regexp.MustCompile(`\b(launch(es|ed)?|release[sd]?|announc(e|es|ed|ing|ement)|unveil(s|ed)?|introduc(e|es|ed|ing)|update[sd]?|features?|rollout|rolls? out)\b`)},
}

// InferTags returns every tag whose predicate matches the text. The
// tests are order-independent; output order follows the fixed pattern
// table for stable display.
func InferTags(text string) []model.Tag {
	lower := strings.ToLower(text)

	var tags []model.Tag
	for _, p := range tagPatterns {
		if p.re.MatchString(lower) {
			tags = append(tags, p.tag)
		}
	}
	return tags
}

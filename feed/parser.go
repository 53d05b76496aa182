// Package feed provides RSS/Atom parsing and article normalization for
// newsbrief.
//
// Dialect detection and per-dialect field mapping (alternate links,
// content:encoded vs description, dc:creator vs author) are delegated
// to gofeed; this package layers on the normalization the digest
// pipeline needs: lenient date recovery, HTML stripping, summary
// truncation, tag inference, and the per-source entry cap.
package feed

import (
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/newsbrief/newsbrief/model"
)

const (
	// maxEntries bounds memory and downstream sort cost per source.
	maxEntries = 30

	// summaryLimit is the plain-text summary cap, in runes.
	summaryLimit = 400
)

// Parser converts raw feed documents into normalized articles.
type Parser struct {
	fp *gofeed.Parser
}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{fp: gofeed.NewParser()}
}

// Parse transforms a raw feed document into articles attributed to the
// owning source. Malformed documents yield an empty result, never an
// error: a source that cannot be parsed simply contributes nothing.
func (p *Parser) Parse(body string, src model.Source) []model.Article {
	parsed, err := p.fp.ParseString(body)
	if err != nil || parsed == nil {
		return nil
	}

	items := parsed.Items
	if len(items) > maxEntries {
		items = items[:maxEntries]
	}

	ref := src.Ref()
	articles := make([]model.Article, 0, len(items))
	for _, item := range items {
		link := itemLink(item)
		if link == "" {
			// Articles without a URL cannot be deduplicated or opened;
			// drop them before they reach the merge step.
			continue
		}

		summary := Summarize(itemBody(item))
		article := model.Article{
			ID:        articleID(item, link),
			Title:     strings.TrimSpace(item.Title),
			Summary:   summary,
			URL:       link,
			Source:    ref,
			Published: itemPublished(item),
			Author:    itemAuthor(item),
			Tags:      InferTags(item.Title + " " + summary),
			Thumbnail: itemThumbnail(item),
		}
		articles = append(articles, article)
	}

	return articles
}

// articleID derives a stable identifier: feed guid/id, else the
// canonical URL, else the title. First non-empty wins.
func articleID(item *gofeed.Item, link string) string {
	if item.GUID != "" {
		return item.GUID
	}
	if link != "" {
		return link
	}
	return item.Title
}

func itemLink(item *gofeed.Item) string {
	if item.Link != "" {
		return item.Link
	}
	for _, l := range item.Links {
		if l != "" {
			return l
		}
	}
	return ""
}

func itemBody(item *gofeed.Item) string {
	// content:encoded (RSS) / content (Atom) is richer than the summary
	if item.Content != "" {
		return item.Content
	}
	return item.Description
}

func itemAuthor(item *gofeed.Item) string {
	// gofeed maps dc:creator into the author slot for RSS dialects
	if item.Author != nil && item.Author.Name != "" {
		return item.Author.Name
	}
	for _, a := range item.Authors {
		if a != nil && a.Name != "" {
			return a.Name
		}
	}
	return ""
}

func itemThumbnail(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			return enc.URL
		}
	}
	return ""
}

// lenientDate matches "2006-01-02 15:04[:05]" strings missing the strict
// RFC 3339 separator.
var lenientDate = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}) (\d{2}:\d{2}(?::\d{2})?)$`)

// itemPublished resolves the publication time. Explicit published dates
// win over updated dates; a lenient "date time" string is normalized to
// strict form and re-parsed. Anything still unparseable yields nil, not
// a parse failure.
func itemPublished(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed
	}

	for _, raw := range []string{item.Published, item.Updated} {
		if t, ok := parseLenient(raw); ok {
			return &t
		}
	}
	return nil
}

func parseLenient(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if !lenientDate.MatchString(raw) {
		return time.Time{}, false
	}

	normalized := strings.Replace(raw, " ", "T", 1)
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Summarize strips markup from a feed body, collapses whitespace, and
// truncates to the summary cap with an ellipsis marker.
func Summarize(body string) string {
	return Truncate(StripHTML(body), summaryLimit)
}

// StripHTML removes markup from a string and collapses runs of
// whitespace into single spaces.
func StripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(decodeEntities(b.String())), " ")
}

var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&apos;", "'",
	"&nbsp;", " ",
	"&#8217;", "'",
	"&#8216;", "'",
	"&#8220;", `"`,
	"&#8221;", `"`,
)

func decodeEntities(s string) string {
	return entityReplacer.Replace(s)
}

// Truncate caps a string at n runes, appending "…" when cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n])) + "…"
}

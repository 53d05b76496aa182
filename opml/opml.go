// Package opml provides OPML import and export for the newsbrief
// source catalog, so subscriptions can be exchanged with other feed
// readers.
package opml

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/newsbrief/newsbrief/model"
)

// OPML represents the root OPML structure.
type OPML struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    Head     `xml:"head"`
	Body    Body     `xml:"body"`
}

// Head contains metadata about the OPML document.
type Head struct {
	Title       string `xml:"title,omitempty"`
	DateCreated string `xml:"dateCreated,omitempty"`
}

// Body contains the outline elements (sources).
type Body struct {
	Outlines []Outline `xml:"outline"`
}

// Outline represents a source or category in OPML.
type Outline struct {
	Text     string    `xml:"text,attr,omitempty"`
	Title    string    `xml:"title,attr,omitempty"`
	Type     string    `xml:"type,attr,omitempty"`
	XMLUrl   string    `xml:"xmlUrl,attr,omitempty"`
	Category string    `xml:"category,attr,omitempty"`
	Outlines []Outline `xml:"outline,omitempty"`
}

// Parse reads an OPML document and extracts sources. Imported sources
// arrive enabled; unknown categories fall back to "news".
func Parse(r io.Reader) ([]model.Source, error) {
	var doc OPML
	decoder := xml.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse OPML: %w", err)
	}

	return extractSources(doc.Body.Outlines, ""), nil
}

// extractSources recursively extracts sources from outlines.
// parentCategory covers nested outlines that don't specify their own.
func extractSources(outlines []Outline, parentCategory string) []model.Source {
	var sources []model.Source

	for _, outline := range outlines {
		if outline.XMLUrl != "" {
			name := outline.Title
			if name == "" {
				name = outline.Text
			}

			category := outline.Category
			if category == "" {
				category = parentCategory
			}

			sources = append(sources, model.Source{
				Name:     name,
				FeedURL:  outline.XMLUrl,
				Category: sourceCategory(category),
				Enabled:  true,
			})
		}

		if len(outline.Outlines) > 0 {
			categoryForChildren := outline.Text
			if categoryForChildren == "" {
				categoryForChildren = parentCategory
			}
			sources = append(sources, extractSources(outline.Outlines, categoryForChildren)...)
		}
	}

	return sources
}

func sourceCategory(s string) model.SourceCategory {
	switch model.SourceCategory(s) {
	case model.CategoryCompany, model.CategoryNews, model.CategoryResearch, model.CategorySocial:
		return model.SourceCategory(s)
	}
	return model.CategoryNews
}

// Generate writes the source catalog as an OPML 2.0 document, grouped
// by source category.
func Generate(w io.Writer, sources []model.Source) error {
	grouped := make(map[model.SourceCategory][]model.Source)
	var order []model.SourceCategory
	for _, src := range sources {
		if _, seen := grouped[src.Category]; !seen {
			order = append(order, src.Category)
		}
		grouped[src.Category] = append(grouped[src.Category], src)
	}

	doc := OPML{
		Version: "2.0",
		Head: Head{
			Title:       "newsbrief Subscriptions",
			DateCreated: time.Now().Format(time.RFC1123),
		},
	}

	for _, category := range order {
		categoryOutline := Outline{
			Text:  string(category),
			Title: string(category),
		}
		for _, src := range grouped[category] {
			categoryOutline.Outlines = append(categoryOutline.Outlines, Outline{
				Type:     "rss",
				Text:     src.Name,
				Title:    src.Name,
				XMLUrl:   src.FeedURL,
				Category: string(category),
			})
		}
		doc.Body.Outlines = append(doc.Body.Outlines, categoryOutline)
	}

	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")

	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return fmt.Errorf("failed to write XML header: %w", err)
	}
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode OPML: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write final newline: %w", err)
	}

	return nil
}

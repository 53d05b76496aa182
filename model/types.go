// Package model defines the core data structures for newsbrief.
package model

import (
	"errors"
	"time"
)

// SourceCategory describes what kind of publisher a source is.
type SourceCategory string

const (
	CategoryCompany  SourceCategory = "company"
	CategoryNews     SourceCategory = "news"
	CategoryResearch SourceCategory = "research"
	CategorySocial   SourceCategory = "social"
)

// Source represents a syndication feed in the catalog.
type Source struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	FeedURL  string         `json:"feed_url"`
	Category SourceCategory `json:"category"`
	Enabled  bool           `json:"enabled"`
	Color    string         `json:"color,omitempty"`
	Icon     string         `json:"icon,omitempty"`
}

// Validate checks if the source has required fields.
func (s *Source) Validate() error {
	if s.ID == "" {
		return errors.New("source ID is required")
	}
	if s.FeedURL == "" {
		return errors.New("source feed URL is required")
	}
	return nil
}

// Fetchable reports whether the source participates in the generic
// retrieval path. Social sources need a dedicated integration and are
// never fetched here.
func (s *Source) Fetchable() bool {
	return s.Enabled && s.Category != CategorySocial
}

// Ref returns the denormalized reference stamped onto articles at parse time.
func (s *Source) Ref() SourceRef {
	return SourceRef{
		ID:       s.ID,
		Name:     s.Name,
		Category: s.Category,
		Color:    s.Color,
		Icon:     s.Icon,
	}
}

// SourceRef is the slice of Source carried on every Article.
type SourceRef struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Category SourceCategory `json:"category"`
	Color    string         `json:"color,omitempty"`
	Icon     string         `json:"icon,omitempty"`
}

// Tag is a descriptive label inferred from article text. An article may
// carry zero or more tags.
type Tag string

const (
	TagResearch   Tag = "Research"
	TagBusiness   Tag = "Business"
	TagPolicy     Tag = "Policy"
	TagOpenSource Tag = "Open Source"
	TagProduct    Tag = "Product"
)

// Article represents a single normalized feed entry.
type Article struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Summary   string     `json:"summary"`
	URL       string     `json:"url"`
	Source    SourceRef  `json:"source"`
	Published *time.Time `json:"published,omitempty"`
	Author    string     `json:"author,omitempty"`
	Tags      []Tag      `json:"tags,omitempty"`
	Thumbnail string     `json:"thumbnail,omitempty"`

	// Bookmarked is a transient overlay computed from the stored
	// bookmark set; it is never persisted with the article.
	Bookmarked bool `json:"bookmarked,omitempty"`
}

// PublishedOrZero returns the published time, or the zero time when the
// source's date was absent or unparseable. Merge order treats such
// articles as the oldest.
func (a *Article) PublishedOrZero() time.Time {
	if a.Published == nil {
		return time.Time{}
	}
	return *a.Published
}

// HasTag checks if the article carries the specified tag.
func (a *Article) HasTag(tag Tag) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Age returns how long ago the article was published, or zero when the
// published time is unknown.
func (a *Article) Age() time.Duration {
	if a.Published == nil {
		return 0
	}
	return time.Since(*a.Published)
}

// Settings is the user-tunable record kept in the key-value store.
// Malformed or absent stored settings fall back to DefaultSettings.
type Settings struct {
	Theme           string `json:"theme"`
	AutoRefresh     bool   `json:"auto_refresh"`
	IntervalMinutes int    `json:"interval_minutes"`
}

// DefaultSettings returns the settings used when nothing valid is stored.
func DefaultSettings() Settings {
	return Settings{
		Theme:           "dark",
		AutoRefresh:     true,
		IntervalMinutes: 10,
	}
}

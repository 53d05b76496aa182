// Package app wires the newsbrief engine together and owns all
// process-wide mutable state: the current article list, the cache, and
// the source toggles. Every mutation funnels through App methods, so
// writers never interleave; a refresh-in-progress guard suppresses
// overlapping refresh triggers.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/newsbrief/newsbrief/cache"
	"github.com/newsbrief/newsbrief/digest"
	"github.com/newsbrief/newsbrief/feed"
	"github.com/newsbrief/newsbrief/fetch"
	"github.com/newsbrief/newsbrief/model"
	"github.com/newsbrief/newsbrief/registry"
	"github.com/newsbrief/newsbrief/report"
	"github.com/newsbrief/newsbrief/store"
)

// ErrRefreshInFlight reports that a refresh was requested while another
// one is still running. The caller gets the current article list and no
// new work is started.
var ErrRefreshInFlight = errors.New("refresh already in progress")

// App coordinates the aggregation pipeline.
type App struct {
	Store    *store.Store
	Registry *registry.Registry
	Fetcher  *fetch.Fetcher
	Cache    *cache.Cache

	mu         sync.Mutex
	refreshing bool
	articles   []model.Article
}

// New creates an App on top of an opened store.
func New(s *store.Store, opts ...fetch.Option) *App {
	return &App{
		Store:    s,
		Registry: registry.New(s),
		Fetcher:  fetch.New(feed.NewParser(), opts...),
		Cache:    cache.New(s),
	}
}

// Cached returns the snapshot articles for a fast initial render, with
// the bookmark overlay applied. ok is false when no usable snapshot
// exists.
func (a *App) Cached() ([]model.Article, bool) {
	snap, ok := a.Cache.Read()
	if !ok {
		return nil, false
	}

	articles := a.overlayBookmarks(snap.Articles)

	a.mu.Lock()
	if a.articles == nil {
		a.articles = articles
	}
	a.mu.Unlock()

	return articles, true
}

// Refresh runs a full fetch cycle: fan out over all enabled fetchable
// sources, merge and deduplicate, overwrite the cache, and replace the
// article list wholesale. Safe to call repeatedly; a call that overlaps
// a running refresh is a no-op returning ErrRefreshInFlight and the
// current list.
func (a *App) Refresh(ctx context.Context) ([]model.Article, []fetch.Result, error) {
	a.mu.Lock()
	if a.refreshing {
		current := a.articles
		a.mu.Unlock()
		return current, nil, ErrRefreshInFlight
	}
	a.refreshing = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.refreshing = false
		a.mu.Unlock()
	}()

	sources := a.Registry.EnabledFetchable()
	results := a.Fetcher.FetchAll(ctx, sources)

	batches := make([][]model.Article, 0, len(results))
	for _, r := range results {
		if r.Err == nil {
			batches = append(batches, r.Articles)
		}
	}

	merged := digest.Merge(batches...)
	a.Cache.Write(merged)
	merged = a.overlayBookmarks(merged)

	a.mu.Lock()
	a.articles = merged
	a.mu.Unlock()

	return merged, results, nil
}

// Articles returns the current article list (cached or refreshed).
func (a *App) Articles() []model.Article {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.articles
}

// GenerateReport builds a categorized digest over the current article
// list. Falls back to the cached snapshot when nothing has been loaded
// yet.
func (a *App) GenerateReport(window report.Window) (*report.Report, error) {
	articles := a.Articles()
	if articles == nil {
		articles, _ = a.Cached()
	}
	return report.Generate(articles, window, time.Now())
}

// ExportReport renders a report as portable markdown.
func (a *App) ExportReport(r *report.Report) string {
	return report.Export(r)
}

// SetBookmark toggles bookmark membership for a URL and updates the
// in-memory overlay.
func (a *App) SetBookmark(url string, bookmarked bool) error {
	if err := a.Store.SetBookmark(url, bookmarked); err != nil {
		return err
	}

	a.mu.Lock()
	for i := range a.articles {
		if a.articles[i].URL == url {
			a.articles[i].Bookmarked = bookmarked
		}
	}
	a.mu.Unlock()
	return nil
}

// Bookmarked returns the current articles that are bookmarked.
func (a *App) Bookmarked() []model.Article {
	var out []model.Article
	for _, article := range a.Articles() {
		if article.Bookmarked {
			out = append(out, article)
		}
	}
	return out
}

// overlayBookmarks stamps the transient bookmarked flag onto articles
// by URL membership in the stored bookmark set.
func (a *App) overlayBookmarks(articles []model.Article) []model.Article {
	set := a.Store.Bookmarks()
	if len(set) == 0 {
		return articles
	}
	for i := range articles {
		articles[i].Bookmarked = set[articles[i].URL]
	}
	return articles
}

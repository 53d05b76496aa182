// Package fetch implements concurrent multi-source feed retrieval for
// newsbrief.
//
// Every enabled fetchable source is retrieved concurrently through an
// ordered list of access mirrors (the direct endpoint, then relay
// wrappers). Each attempt carries its own timeout; exhausting all
// mirrors makes the source contribute zero articles without disturbing
// its siblings. The fan-out always settles every source before
// returning.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/newsbrief/newsbrief/feed"
	"github.com/newsbrief/newsbrief/model"
)

const (
	// attemptTimeout bounds a single mirror attempt.
	attemptTimeout = 15 * time.Second

	// maxConcurrent bounds in-flight requests across the fan-out.
	maxConcurrent = 8

	// maxBodySize guards against runaway responses.
	maxBodySize = 5 << 20
)

// defaultRelays wrap a feed URL in a relay endpoint, tried after the
// direct endpoint fails or parses empty.
var defaultRelays = []string{
	"https://api.allorigins.win/raw?url=%s",
	"https://corsproxy.io/?%s",
}

// Result records the settlement of one source: its articles on success,
// or the last mirror's error when every mirror failed.
type Result struct {
	Source   model.Source
	Articles []model.Article
	Err      error
}

// Fetcher retrieves feeds over HTTP and parses them into articles.
type Fetcher struct {
	client  *http.Client
	parser  *feed.Parser
	relays  []string
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient replaces the HTTP client (useful for testing).
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithRelays replaces the relay mirror templates. Pass none to disable
// relay fallback entirely.
func WithRelays(relays ...string) Option {
	return func(f *Fetcher) { f.relays = relays }
}

// WithTimeout overrides the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// New creates a Fetcher.
func New(parser *feed.Parser, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:  &http.Client{},
		parser:  parser,
		relays:  defaultRelays,
		timeout: attemptTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Mirrors returns the ordered access paths for a source: the direct
// endpoint first, then each relay wrapping it.
func (f *Fetcher) Mirrors(src model.Source) []string {
	mirrors := []string{src.FeedURL}
	escaped := url.QueryEscape(src.FeedURL)
	for _, relay := range f.relays {
		mirrors = append(mirrors, fmt.Sprintf(relay, escaped))
	}
	return mirrors
}

// FetchSource tries each mirror in order and returns the first
// non-empty parse result. A mirror that times out, errors, or parses
// empty is abandoned in favor of the next one.
func (f *Fetcher) FetchSource(ctx context.Context, src model.Source) ([]model.Article, error) {
	var lastErr error
	for _, mirror := range f.Mirrors(src) {
		body, err := f.get(ctx, mirror)
		if err != nil {
			lastErr = err
			continue
		}

		articles := f.parser.Parse(body, src)
		if len(articles) > 0 {
			return articles, nil
		}
		lastErr = fmt.Errorf("mirror %s returned no parseable entries", mirror)
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("source %s has no mirrors", src.ID)
	}
	return nil, fmt.Errorf("all mirrors failed for %s: %w", src.Name, lastErr)
}

// get performs one mirror attempt with an independent timeout.
func (f *Fetcher) get(ctx context.Context, rawURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("building request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", "newsbrief/1.0 (+https://github.com/newsbrief/newsbrief)")
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetching %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", rawURL, err)
	}
	return string(body), nil
}

// FetchAll fans out over all sources concurrently and waits for every
// one to settle. Results are returned in source order; a failed source
// carries its error and zero articles, and never cancels siblings.
func (f *Fetcher) FetchAll(ctx context.Context, sources []model.Source) []Result {
	results := make([]Result, len(sources))

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrent)

	for i, src := range sources {
		wg.Add(1)
		go func(i int, src model.Source) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			articles, err := f.FetchSource(ctx, src)
			results[i] = Result{Source: src, Articles: articles, Err: err}
		}(i, src)
	}

	wg.Wait()
	return results
}
